package domain

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: http.StatusOK},
		{name: "validation", err: NewValidationError("text", "is required"), expected: http.StatusBadRequest},
		{name: "wrapped not found", err: fmt.Errorf("get: %w", NewNotFoundError(UserRef(NewID()))), expected: http.StatusNotFound},
		{name: "conflict", err: NewConflictError(KindVocabulary, "ce:salam"), expected: http.StatusConflict},
		{name: "transition", err: &TransitionError{From: StatusNew, To: StatusAccepted}, expected: http.StatusConflict},
		{name: "upstream keeps status", err: NewUpstreamError(http.StatusTeapot, "nope", nil), expected: http.StatusTeapot},
		{name: "upstream defaults to 500", err: NewUpstreamError(0, "dial", fmt.Errorf("refused")), expected: http.StatusInternalServerError},
		{name: "unknown", err: fmt.Errorf("boom"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestConflictError_IsValidation(t *testing.T) {
	err := NewConflictError(KindVocabulary, "ce:salam")
	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, ErrValidation)
}
