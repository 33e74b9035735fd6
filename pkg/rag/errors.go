package rag

import (
	"context"
	"errors"
	"fmt"
)

// Backends a retrieval can fail on.
const (
	BackendVector     = "vector"
	BackendGeneration = "generation"
	BackendStore      = "store"
)

// ErrRetrievalFailed matches every *BackendError.
var ErrRetrievalFailed = errors.New("retrieval failed")

// BackendError is a timeout or transport failure of an external backend
// during one query. It is never retried here.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() []error {
	return []error{ErrRetrievalFailed, e.Err}
}

// Timeout reports whether the backend call ran out of time.
func (e *BackendError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// NewBackendError wraps err for backend. When ctx expired but the backend
// client did not say so, the deadline is added to the chain.
func NewBackendError(ctx context.Context, backend string, err error) *BackendError {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		err = fmt.Errorf("%w: %w", ctxErr, err)
	}
	return &BackendError{Backend: backend, Err: err}
}
