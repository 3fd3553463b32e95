package models

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the services wraps exactly one of
// these, so callers branch with errors.Is.
var (
	ErrValidation        = errors.New("validation_error")
	ErrNotFound          = errors.New("not_found")
	ErrInvalidState      = errors.New("invalid_state")
	ErrMissingCredential = errors.New("missing_credential")
	ErrResolution        = errors.New("resolution_error")
	ErrProvider          = errors.New("provider_error")
)

// AppError carries a kind, a message fit for the caller, and the cause.
type AppError struct {
	Kind    error
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) Is(target error) bool {
	return target == e.Kind
}

// Code is the machine readable kind name.
func (e *AppError) Code() string {
	if e.Kind == nil {
		return "internal_error"
	}
	return e.Kind.Error()
}

func NewValidationError(message string) *AppError {
	return &AppError{Kind: ErrValidation, Message: message}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{Kind: ErrNotFound, Message: fmt.Sprintf("%s %v not found", resource, id)}
}

func NewInvalidStateError(message string) *AppError {
	return &AppError{Kind: ErrInvalidState, Message: message}
}

func NewMissingCredentialError(name string) *AppError {
	return &AppError{Kind: ErrMissingCredential, Message: fmt.Sprintf("no %q credential on file", name)}
}

func NewResolutionError(err error) *AppError {
	return &AppError{Kind: ErrResolution, Message: "channel resolution failed", Err: err}
}

func NewProviderError(err error) *AppError {
	return &AppError{Kind: ErrProvider, Message: "provider request failed", Err: err}
}
