// Package apperror holds the error taxonomy shared by services and the HTTP layer.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every violated field of a request at once.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// HasField reports whether the named field is among the violations.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// AuthError carries a client-safe message. Cause is kept for server-side logs only.
type AuthError struct {
	Message string
	Cause   error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Cause }

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

type InternalError struct {
	Op    string
	Cause error
}

func (e *InternalError) Error() string {
	if e.Cause == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *InternalError) Unwrap() error { return e.Cause }

func NewValidation(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func NewConflict(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func NewAuth(message string, cause error) *AuthError {
	return &AuthError{Message: message, Cause: cause}
}

func NewNotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// Internal wraps an unexpected infrastructure failure. Errors that already belong
// to the taxonomy pass through untouched.
func Internal(op string, cause error) error {
	if cause == nil {
		return nil
	}
	if IsKnown(cause) {
		return cause
	}
	return &InternalError{Op: op, Cause: cause}
}

// IsKnown reports whether err (or anything it wraps) is one of the taxonomy types.
func IsKnown(err error) bool {
	var (
		vErr *ValidationError
		cErr *ConflictError
		aErr *AuthError
		nErr *NotFoundError
		iErr *InternalError
	)
	return errors.As(err, &vErr) || errors.As(err, &cErr) || errors.As(err, &aErr) ||
		errors.As(err, &nErr) || errors.As(err, &iErr)
}
