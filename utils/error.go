package utils

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to API callers. Match with errors.Is.
var (
	ErrNotFound     = errors.New("record not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

// ErrorRecordNotFound is returned by the generic fetch helpers; same value as ErrNotFound.
var ErrorRecordNotFound = ErrNotFound

// DomainError carries a caller-facing message alongside its kind.
type DomainError struct {
	Kind    error
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Kind
}

func NotFound(format string, args ...any) error {
	return &DomainError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &DomainError{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(format string, args ...any) error {
	return &DomainError{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}
