package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuestion(t *testing.T) {
	test := NewRef(KindTest, NewID())

	tests := []struct {
		name          string
		options       []string
		correct       int
		expectedError bool
	}{
		{name: "valid", options: []string{"a", "b", "c"}, correct: 2},
		{name: "correct out of range", options: []string{"a", "b"}, correct: 2, expectedError: true},
		{name: "negative correct", options: []string{"a", "b"}, correct: -1, expectedError: true},
		{name: "single option", options: []string{"a"}, correct: 0, expectedError: true},
		{name: "empty option", options: []string{"a", ""}, correct: 0, expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NewQuestion(test, "Pick one", tt.options, tt.correct)
			if tt.expectedError {
				assert.ErrorIs(t, err, ErrValidation)
				assert.Nil(t, q)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.correct, q.CorrectOption)
			}
		})
	}
}

func TestProgress_Complete(t *testing.T) {
	test := NewRef(KindTest, NewID())
	q1, err := NewQuestion(test, "Hello?", []string{"Salam", "Marsha"}, 0)
	require.NoError(t, err)
	q2, err := NewQuestion(test, "Goodbye?", []string{"Salam", "Marsha"}, 1)
	require.NoError(t, err)
	other, err := NewQuestion(NewRef(KindTest, NewID()), "Other?", []string{"x", "y"}, 0)
	require.NoError(t, err)

	questions := []Question{*q1, *q2, *other}

	t.Run("scores correct answers", func(t *testing.T) {
		p, err := NewProgress(UserRef(NewID()), test)
		require.NoError(t, err)

		_, ok := p.Result()
		assert.False(t, ok)

		err = p.Complete(questions, []Answer{
			{Question: q1.Ref(), SelectedOption: 0},
			{Question: q2.Ref(), SelectedOption: 0},
		})
		require.NoError(t, err)

		score, ok := p.Result()
		assert.True(t, ok)
		assert.Equal(t, 1, score)
		assert.Len(t, p.Answers, 2)
	})

	t.Run("rejects question of another test", func(t *testing.T) {
		p, _ := NewProgress(UserRef(NewID()), test)
		err := p.Complete(questions, []Answer{{Question: other.Ref(), SelectedOption: 0}})
		assert.ErrorIs(t, err, ErrValidation)
		assert.False(t, p.Completed)
	})

	t.Run("rejects option out of range", func(t *testing.T) {
		p, _ := NewProgress(UserRef(NewID()), test)
		err := p.Complete(questions, []Answer{{Question: q1.Ref(), SelectedOption: 5}})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects duplicate answers", func(t *testing.T) {
		p, _ := NewProgress(UserRef(NewID()), test)
		err := p.Complete(questions, []Answer{
			{Question: q1.Ref(), SelectedOption: 0},
			{Question: q1.Ref(), SelectedOption: 1},
		})
		assert.ErrorIs(t, err, ErrValidation)
	})
}
