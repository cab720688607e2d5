package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an application error for transport mapping.
type ErrorKind string

const (
	KindValidation       ErrorKind = "validation"
	KindNotFound         ErrorKind = "not_found"
	KindConflict         ErrorKind = "conflict"
	KindUnauthorized     ErrorKind = "unauthorized"
	KindUnsupportedMedia ErrorKind = "unsupported_media"
	KindTooLarge         ErrorKind = "too_large"
	KindInternal         ErrorKind = "internal"
)

// AppError is an error carrying a kind the HTTP layer can map to a status code.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewValidationError reports malformed or missing input.
func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// NewNotFoundError reports a missing record or object.
func NewNotFoundError(entity, id string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewConflictError reports an optimistic concurrency failure.
func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// NewUnauthorizedError reports a failed credential check.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

// NewUnsupportedMediaError reports a file type outside the allow list.
func NewUnsupportedMediaError(message string) *AppError {
	return &AppError{Kind: KindUnsupportedMedia, Message: message}
}

// NewTooLargeError reports a payload over the configured limit.
func NewTooLargeError(message string) *AppError {
	return &AppError{Kind: KindTooLarge, Message: message}
}

// NewInternalError wraps an unexpected infrastructure failure.
func NewInternalError(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a not-found AppError.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict reports whether err is a conflict AppError.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsValidation reports whether err is a validation AppError.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }
