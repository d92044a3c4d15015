package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies domain errors for transport-layer mapping.
type ErrorCode string

const (
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeUnavailable  ErrorCode = "UNAVAILABLE"
)

// Error is the base type for all domain errors.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewValidationError creates an error for invalid client input.
func NewValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// NewNotFoundError creates an error for a missing resource.
func NewNotFoundError(resource, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
}

// NewUnauthorizedError creates an error for a missing or invalid session.
func NewUnauthorizedError(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// NewForbiddenError creates an error for an authenticated but disallowed caller.
func NewForbiddenError(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// NewConflictError creates an error for a state conflict (e.g. duplicate key).
func NewConflictError(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// NewUnavailableError creates an error for an unreachable collaborator.
func NewUnavailableError(message string) *Error {
	return &Error{Code: CodeUnavailable, Message: message}
}

// CodeOf extracts the domain error code from err, or "" if err is not a domain error.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsNotFound reports whether err is a not-found domain error.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsValidation reports whether err is a validation domain error.
func IsValidation(err error) bool {
	return CodeOf(err) == CodeValidation
}
