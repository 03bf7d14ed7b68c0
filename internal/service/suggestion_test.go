package service

import (
	"context"
	"testing"

	"glossa/internal/domain"
	"glossa/internal/repository"
	"glossa/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSuggestionService() (*SuggestionService, *repository.Store) {
	store, registry := testutil.NewMemoryStore()
	return NewSuggestionService(store.Suggestions, registry, testutil.NewTestLogger()), store
}

func TestSuggestionService_ModerationFlow(t *testing.T) {
	ctx := context.Background()
	service, store := newSuggestionService()

	a := testutil.SeedUser(t, store, 1, "a")
	b := testutil.SeedUser(t, store, 2, "b")

	s, err := service.Submit(ctx, a.Ref(), "The cat sleeps", "en", "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, s.Status)

	_, err = service.AddContributor(ctx, s.ID, b.Ref())
	require.NoError(t, err)
	_, err = service.AddContributor(ctx, s.ID, a.Ref())
	require.NoError(t, err)
	_, err = service.AddContributor(ctx, s.ID, b.Ref())
	require.NoError(t, err)

	_, err = service.Transition(ctx, s.ID, domain.StatusProcessing)
	require.NoError(t, err)
	_, err = service.Transition(ctx, s.ID, domain.StatusAccepted)
	require.NoError(t, err)

	got, err := service.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, got.Status)
	assert.Equal(t, a.Ref(), got.Author)
	assert.Equal(t, []domain.Ref{b.Ref()}, got.Contributors)
	assert.Equal(t, []domain.Ref{a.Ref(), b.Ref()}, got.AllContributors())

	_, err = service.Transition(ctx, s.ID, domain.StatusRejected)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestSuggestionService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown author", func(t *testing.T) {
		service, _ := newSuggestionService()
		_, err := service.Submit(ctx, domain.UserRef(uuid.New()), "Hi", "en", "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("empty text", func(t *testing.T) {
		service, store := newSuggestionService()
		author := testutil.SeedUser(t, store, 1, "a")
		_, err := service.Submit(ctx, author.Ref(), "   ", "en", "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestSuggestionService_SkipProcessing(t *testing.T) {
	ctx := context.Background()
	service, store := newSuggestionService()
	author := testutil.SeedUser(t, store, 1, "a")

	s, err := service.Submit(ctx, author.Ref(), "Hola", "es", "")
	require.NoError(t, err)

	_, err = service.Transition(ctx, s.ID, domain.StatusAccepted)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := service.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, got.Status)
}

func TestSuggestionService_AddContributor_UnknownUser(t *testing.T) {
	ctx := context.Background()
	service, store := newSuggestionService()
	author := testutil.SeedUser(t, store, 1, "a")

	s, err := service.Submit(ctx, author.Ref(), "Hallo", "de", "")
	require.NoError(t, err)

	ghost := domain.UserRef(uuid.New())
	_, err = service.AddContributor(ctx, s.ID, ghost)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []domain.Ref{ghost}, repository.Dangling(err))
}

func TestSuggestionService_List(t *testing.T) {
	tests := []struct {
		name          string
		page          int
		expectedPage  int
		totalCount    int
		expectedPages int
	}{
		{
			name:          "first page",
			page:          1,
			expectedPage:  1,
			totalCount:    12,
			expectedPages: 3,
		},
		{
			name:          "page below one",
			page:          0,
			expectedPage:  1,
			totalCount:    0,
			expectedPages: 1,
		},
		{
			name:          "later page",
			page:          2,
			expectedPage:  2,
			totalCount:    10,
			expectedPages: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mockRepo := new(testutil.MockSuggestionRepository)
			offset := (tt.expectedPage - 1) * SuggestionPageSize
			mockRepo.On("ListSuggestions", ctx, domain.StatusNew, SuggestionPageSize, offset).Return([]domain.Suggestion{}, nil)
			mockRepo.On("CountSuggestions", ctx, domain.StatusNew).Return(tt.totalCount, nil)

			service := NewSuggestionService(mockRepo, repository.NewRegistry(), testutil.NewTestLogger())

			list, pages, err := service.List(ctx, domain.StatusNew, tt.page)
			require.NoError(t, err)
			assert.NotNil(t, list)
			assert.Equal(t, tt.expectedPages, pages)

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestSuggestionService_List_UnknownStatus(t *testing.T) {
	mockRepo := new(testutil.MockSuggestionRepository)
	service := NewSuggestionService(mockRepo, repository.NewRegistry(), testutil.NewTestLogger())

	_, _, err := service.List(context.Background(), domain.Status("archived"), 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
	mockRepo.AssertNotCalled(t, "ListSuggestions", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
