package testutil

import (
	"context"
	"testing"

	"glossa/internal/domain"
	"glossa/internal/repository"
	"glossa/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(telegramID int64, role domain.Role) *domain.User {
	return &domain.User{
		ID:         uuid.New(),
		TelegramID: telegramID,
		Username:   "user",
		Role:       role,
		CreatedAt:  domain.Now(),
	}
}

// NewTestSuggestion creates a valid suggestion authored by author
func NewTestSuggestion(t *testing.T, author domain.Ref, text string) *domain.Suggestion {
	t.Helper()

	s, err := domain.NewSuggestion(author, text, "en", "")
	require.NoError(t, err)
	return s
}

// NewMemoryStore returns an in-memory store and a registry over it
func NewMemoryStore() (*repository.Store, *repository.Registry) {
	store := memory.New().Store()
	return store, repository.NewStoreRegistry(store)
}

// SeedUser registers a Telegram user in store
func SeedUser(t *testing.T, store *repository.Store, telegramID int64, username string) *domain.User {
	t.Helper()

	u, err := store.Users.EnsureUser(context.Background(), telegramID, username)
	require.NoError(t, err)
	return u
}
