package memory

import (
	"context"
	"testing"

	"glossa/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_EnsureUser(t *testing.T) {
	db := New()
	ctx := context.Background()

	first, err := db.EnsureUser(ctx, 42, "amina")
	require.NoError(t, err)
	second, err := db.EnsureUser(ctx, 42, "amina_k")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "amina_k", second.Username)
	assert.Equal(t, domain.RoleUser, second.Role)

	_, err = db.GetUserByTelegramID(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDB_VocabularyUnique(t *testing.T) {
	db := New()
	ctx := context.Background()
	author := domain.UserRef(domain.NewID())

	v1, err := domain.NewVocabulary(author, "Salam", "ce")
	require.NoError(t, err)
	require.NoError(t, db.CreateVocabulary(ctx, v1))

	v2, err := domain.NewVocabulary(author, "salam", "ce")
	require.NoError(t, err)
	err = db.CreateVocabulary(ctx, v2)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, domain.ErrValidation)

	v3, err := domain.NewVocabulary(author, "salam", "en")
	require.NoError(t, err)
	assert.NoError(t, db.CreateVocabulary(ctx, v3))

	found, err := db.FindVocabulary(ctx, "SALAM", "ce")
	require.NoError(t, err)
	assert.Equal(t, v1.ID, found.ID)
}

func TestDB_SuggestionRoundTrip(t *testing.T) {
	db := New()
	ctx := context.Background()

	s, err := domain.NewSuggestion(domain.UserRef(domain.NewID()), "How are you?", "en", "")
	require.NoError(t, err)
	_, err = s.AddContributor(domain.UserRef(domain.NewID()))
	require.NoError(t, err)
	require.NoError(t, db.CreateSuggestion(ctx, s))

	got, err := db.GetSuggestion(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	// stored copies are independent of the caller's value
	got.Contributors[0] = domain.UserRef(domain.NewID())
	again, err := db.GetSuggestion(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Contributors, again.Contributors)
}

func TestDB_DialogRoundTripKeepsOrder(t *testing.T) {
	db := New()
	ctx := context.Background()

	d, err := domain.NewDialog(domain.UserRef(domain.NewID()),
		domain.DialogMessage{Role: domain.RoleUserTurn, Content: "first"},
		domain.DialogMessage{Role: domain.RoleAssistant, Content: "second"},
		domain.DialogMessage{Role: domain.RoleUserTurn, Content: "third"},
	)
	require.NoError(t, err)
	require.NoError(t, db.CreateDialog(ctx, d))

	got, err := db.GetDialog(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d, got)

	d.Messages[0].Content = "mutated"
	again, err := db.GetDialog(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", again.Messages[0].Content)
}

func TestDB_AddVote(t *testing.T) {
	db := New()
	ctx := context.Background()
	user := domain.UserRef(domain.NewID())

	tr, err := domain.NewTranslationAccepted(user,
		domain.TextUnit{Language: "en", Content: "Thank you"},
		domain.TextUnit{Language: "ce", Content: "Barkalla"})
	require.NoError(t, err)
	require.NoError(t, db.CreateTranslation(ctx, tr))

	vote, err := domain.NewVote(user, tr.Ref(), 1)
	require.NoError(t, err)
	require.NoError(t, db.AddVote(ctx, vote))

	got, err := db.GetTranslation(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Ref{vote.Ref()}, got.Votes)

	missing, _ := domain.NewVote(user, domain.NewRef(domain.KindTranslation, domain.NewID()), 1)
	assert.ErrorIs(t, db.AddVote(ctx, missing), domain.ErrNotFound)
}

func TestDB_ListSuggestionsPaginates(t *testing.T) {
	db := New()
	ctx := context.Background()
	author := domain.UserRef(domain.NewID())

	for _, text := range []string{"one", "two", "three"} {
		s, err := domain.NewSuggestion(author, text, "en", "")
		require.NoError(t, err)
		require.NoError(t, db.CreateSuggestion(ctx, s))
	}

	first, err := db.ListSuggestions(ctx, domain.StatusNew, 2, 0)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	rest, err := db.ListSuggestions(ctx, domain.StatusNew, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	count, err := db.CountSuggestions(ctx, domain.StatusProcessing)
	require.NoError(t, err)
	assert.Zero(t, count)
}
