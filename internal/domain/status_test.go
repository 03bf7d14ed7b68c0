package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name          string
		from          Status
		to            Status
		expectedError bool
	}{
		{name: "new to processing", from: StatusNew, to: StatusProcessing},
		{name: "processing to accepted", from: StatusProcessing, to: StatusAccepted},
		{name: "processing to rejected", from: StatusProcessing, to: StatusRejected},
		{name: "new to accepted skips processing", from: StatusNew, to: StatusAccepted, expectedError: true},
		{name: "new to rejected skips processing", from: StatusNew, to: StatusRejected, expectedError: true},
		{name: "accepted is terminal", from: StatusAccepted, to: StatusProcessing, expectedError: true},
		{name: "rejected is terminal", from: StatusRejected, to: StatusNew, expectedError: true},
		{name: "processing back to new", from: StatusProcessing, to: StatusNew, expectedError: true},
		{name: "same status", from: StatusNew, to: StatusNew, expectedError: true},
		{name: "unknown target", from: StatusNew, to: Status("archived"), expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Transition(tt.from, tt.to)

			if tt.expectedError {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tt.from, result)

				var te *TransitionError
				assert.True(t, errors.As(err, &te))
				assert.Equal(t, tt.from, te.From)
				assert.Equal(t, tt.to, te.To)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.to, result)
			}
		})
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusNew.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusAccepted.Terminal())
	assert.True(t, StatusRejected.Terminal())
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("processing")
	assert.NoError(t, err)
	assert.Equal(t, StatusProcessing, st)

	_, err = ParseStatus("done")
	assert.ErrorIs(t, err, ErrValidation)
}
