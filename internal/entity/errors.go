package entity

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidUpload  = errors.New("invalid upload")
	ErrAlreadyRunning = errors.New("document is already being processed")
)
