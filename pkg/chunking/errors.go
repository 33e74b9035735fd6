package chunking

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreadablePDF is wrapped by every extraction failure.
	ErrUnreadablePDF = errors.New("chunking: unreadable pdf")
	// ErrEmptyDocument is returned when a PDF yields no text on any page.
	ErrEmptyDocument = errors.New("chunking: document has no extractable text")
)

// ExtractionError reports a document that could not be read at all.
type ExtractionError struct {
	DocumentID string
	Err        error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract document %s: %v", e.DocumentID, e.Err)
}

func (e *ExtractionError) Unwrap() []error {
	return []error{ErrUnreadablePDF, e.Err}
}
