package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUpstream          = errors.New("upstream request failed")
)

// ValidationError reports a missing or malformed field
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports a reference that did not resolve
type NotFoundError struct {
	Ref Ref
}

func NewNotFoundError(ref Ref) *NotFoundError {
	return &NotFoundError{Ref: ref}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Ref)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConflictError reports a uniqueness violation
type ConflictError struct {
	Entity Kind
	Key    string
}

func NewConflictError(entity Kind, key string) *ConflictError {
	return &ConflictError{Entity: entity, Key: key}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Entity, e.Key)
}

// A conflict is a validation failure as well: the entity cannot be created.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict || target == ErrValidation
}

// TransitionError reports an illegal status change
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// UpstreamError wraps a failed call to an external service
type UpstreamError struct {
	StatusCode int
	Message    string
	Err        error
}

func NewUpstreamError(statusCode int, message string, err error) *UpstreamError {
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}
	return &UpstreamError{StatusCode: statusCode, Message: message, Err: err}
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream error (%d): %s: %v", e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("upstream error (%d): %s", e.StatusCode, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// HTTPStatus maps domain errors to HTTP status codes
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.StatusCode
	}

	switch {
	case errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
