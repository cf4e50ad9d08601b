package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrNotReady      = errors.New("no audio loaded")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnsupported   = errors.New("unsupported audio format")
	ErrInvalidInput  = errors.New("invalid input")
)
