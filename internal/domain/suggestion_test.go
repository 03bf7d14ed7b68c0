package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSuggestion(t *testing.T) {
	author := UserRef(NewID())

	tests := []struct {
		name          string
		author        Ref
		text          string
		language      string
		expectedField string
	}{
		{name: "valid", author: author, text: "Hello there", language: "en"},
		{name: "empty text", author: author, text: "  ", language: "en", expectedField: "text"},
		{name: "empty language", author: author, text: "Hello", language: "", expectedField: "language"},
		{name: "missing author", author: Ref{}, text: "Hello", language: "en", expectedField: "author"},
		{name: "author of wrong kind", author: NewRef(KindTest, NewID()), text: "Hello", language: "en", expectedField: "author"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSuggestion(tt.author, tt.text, tt.language, "")

			if tt.expectedField != "" {
				assert.ErrorIs(t, err, ErrValidation)
				assert.Nil(t, s)

				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.expectedField, ve.Field)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, StatusNew, s.Status)
			assert.Equal(t, tt.author, s.Author)
			assert.Empty(t, s.Contributors)
			assert.False(t, s.CreatedAt.IsZero())
		})
	}
}

func TestSuggestion_AddContributor(t *testing.T) {
	a := UserRef(NewID())
	b := UserRef(NewID())

	s, err := NewSuggestion(a, "Good morning", "en", "")
	require.NoError(t, err)

	changed, err := s.AddContributor(a)
	assert.NoError(t, err)
	assert.False(t, changed, "author is implicit")

	changed, err = s.AddContributor(b)
	assert.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.AddContributor(b)
	assert.NoError(t, err)
	assert.False(t, changed, "duplicates are ignored")

	_, err = s.AddContributor(NewRef(KindVote, NewID()))
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, []Ref{b}, s.Contributors)
	assert.Equal(t, []Ref{a, b}, s.AllContributors())
}

func TestSuggestion_Lifecycle(t *testing.T) {
	s, err := NewSuggestion(UserRef(NewID()), "Good night", "en", "")
	require.NoError(t, err)

	assert.ErrorIs(t, s.Transition(StatusAccepted), ErrInvalidTransition)
	assert.Equal(t, StatusNew, s.Status)

	require.NoError(t, s.Transition(StatusProcessing))
	require.NoError(t, s.Transition(StatusAccepted))
	assert.Equal(t, StatusAccepted, s.Status)

	assert.ErrorIs(t, s.Transition(StatusRejected), ErrInvalidTransition)
	assert.Equal(t, StatusAccepted, s.Status)
}

func TestVocabulary_Lifecycle(t *testing.T) {
	v, err := NewVocabulary(UserRef(NewID()), "Salam", "ce")
	require.NoError(t, err)

	assert.ErrorIs(t, v.Transition(StatusRejected), ErrInvalidTransition)
	require.NoError(t, v.Transition(StatusProcessing))
	require.NoError(t, v.Transition(StatusRejected))
	assert.True(t, v.Status.Terminal())
}

func TestVocabularyKey(t *testing.T) {
	assert.Equal(t, VocabularyKey("Salam", "CE"), VocabularyKey(" salam ", "ce"))
	assert.NotEqual(t, VocabularyKey("salam", "ce"), VocabularyKey("salam", "en"))
}

func TestVocabulary_AttachTranslation(t *testing.T) {
	v, err := NewVocabulary(UserRef(NewID()), "Salam", "ce")
	require.NoError(t, err)

	tr := NewRef(KindTranslation, NewID())
	changed, err := v.AttachTranslation(tr)
	assert.NoError(t, err)
	assert.True(t, changed)

	changed, err = v.AttachTranslation(tr)
	assert.NoError(t, err)
	assert.False(t, changed)

	_, err = v.AttachTranslation(UserRef(NewID()))
	assert.ErrorIs(t, err, ErrValidation)
}
