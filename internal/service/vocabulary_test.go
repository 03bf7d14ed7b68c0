package service

import (
	"context"
	"errors"
	"testing"

	"glossa/internal/domain"
	"glossa/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabularyService_Add_Duplicate(t *testing.T) {
	ctx := context.Background()
	store, registry := testutil.NewMemoryStore()
	service := NewVocabularyService(store.Vocabulary, registry, testutil.NewTestLogger())
	author := testutil.SeedUser(t, store, 1, "a")

	first, err := service.Add(ctx, author.Ref(), "Haus", "de")
	require.NoError(t, err)

	_, err = service.Add(ctx, author.Ref(), "haus", "DE")
	require.ErrorIs(t, err, domain.ErrConflict)
	var ce *domain.ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, domain.KindVocabulary, ce.Entity)

	found, err := service.Find(ctx, "HAUS", "de")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestVocabularyService_AttachTranslation(t *testing.T) {
	ctx := context.Background()
	store, registry := testutil.NewMemoryStore()
	vocab := NewVocabularyService(store.Vocabulary, registry, testutil.NewTestLogger())
	translations := NewTranslationService(store.Translations, registry, testutil.NewTestLogger())
	author := testutil.SeedUser(t, store, 1, "a")

	v, err := vocab.Add(ctx, author.Ref(), "Haus", "de")
	require.NoError(t, err)

	_, err = vocab.AttachTranslation(ctx, v.ID, domain.NewRef(domain.KindTranslation, uuid.New()))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	tr, err := translations.Accept(ctx, author.Ref(),
		domain.TextUnit{Language: "de", Content: "Haus"},
		domain.TextUnit{Language: "en", Content: "house"},
	)
	require.NoError(t, err)

	_, err = vocab.AttachTranslation(ctx, v.ID, tr.Ref())
	require.NoError(t, err)
	_, err = vocab.AttachTranslation(ctx, v.ID, tr.Ref())
	require.NoError(t, err)

	got, err := vocab.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Ref{tr.Ref()}, got.Translations)
}

func TestVocabularyService_Transition(t *testing.T) {
	ctx := context.Background()
	store, registry := testutil.NewMemoryStore()
	service := NewVocabularyService(store.Vocabulary, registry, testutil.NewTestLogger())
	author := testutil.SeedUser(t, store, 1, "a")

	v, err := service.Add(ctx, author.Ref(), "gato", "es")
	require.NoError(t, err)

	_, err = service.Transition(ctx, v.ID, domain.StatusRejected)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = service.Transition(ctx, v.ID, domain.StatusProcessing)
	require.NoError(t, err)
	got, err := service.Transition(ctx, v.ID, domain.StatusRejected)
	require.NoError(t, err)
	assert.True(t, got.Status.Terminal())
}
