package service

import (
	"context"
	"fmt"

	"glossa/internal/domain"
	"glossa/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SuggestionPageSize is the number of suggestions per listing page
const SuggestionPageSize = 5

// SuggestionService handles sentence suggestions and their moderation
type SuggestionService struct {
	suggestions repository.SuggestionRepository
	registry    *repository.Registry
	logger      *zap.Logger
}

// NewSuggestionService creates a new suggestion service
func NewSuggestionService(suggestions repository.SuggestionRepository, registry *repository.Registry, logger *zap.Logger) *SuggestionService {
	return &SuggestionService{
		suggestions: suggestions,
		registry:    registry,
		logger:      logger,
	}
}

// Submit stores a new suggestion after checking its author exists
func (s *SuggestionService) Submit(ctx context.Context, author domain.Ref, text, language, dialect string) (*domain.Suggestion, error) {
	sug, err := domain.NewSuggestion(author, text, language, dialect)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Check(ctx, author); err != nil {
		return nil, err
	}
	if err := s.suggestions.CreateSuggestion(ctx, sug); err != nil {
		return nil, fmt.Errorf("create suggestion: %w", err)
	}

	s.logger.Info("Suggestion submitted",
		zap.String("suggestion_id", sug.ID.String()),
		zap.String("author_id", author.ID.String()),
		zap.String("language", sug.Language),
	)
	return sug, nil
}

// Get returns a suggestion by id
func (s *SuggestionService) Get(ctx context.Context, id uuid.UUID) (*domain.Suggestion, error) {
	return s.suggestions.GetSuggestion(ctx, id)
}

// AddContributor records user as a contributor. The author and existing
// contributors are accepted without a write.
func (s *SuggestionService) AddContributor(ctx context.Context, id uuid.UUID, user domain.Ref) (*domain.Suggestion, error) {
	sug, err := s.suggestions.GetSuggestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Check(ctx, user); err != nil {
		return nil, err
	}

	added, err := sug.AddContributor(user)
	if err != nil {
		return nil, err
	}
	if !added {
		return sug, nil
	}
	if err := s.suggestions.UpdateSuggestion(ctx, sug); err != nil {
		return nil, fmt.Errorf("update suggestion %s: %w", id, err)
	}
	return sug, nil
}

// Transition moves a suggestion along the moderation lifecycle
func (s *SuggestionService) Transition(ctx context.Context, id uuid.UUID, next domain.Status) (*domain.Suggestion, error) {
	sug, err := s.suggestions.GetSuggestion(ctx, id)
	if err != nil {
		return nil, err
	}
	from := sug.Status
	if err := sug.Transition(next); err != nil {
		return nil, err
	}
	if err := s.suggestions.UpdateSuggestion(ctx, sug); err != nil {
		return nil, fmt.Errorf("update suggestion %s: %w", id, err)
	}

	s.logger.Info("Suggestion status changed",
		zap.String("suggestion_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(next)),
	)
	return sug, nil
}

// List returns one page of suggestions in status and the total page count.
// An empty status lists every suggestion.
func (s *SuggestionService) List(ctx context.Context, status domain.Status, page int) ([]domain.Suggestion, int, error) {
	if status != "" && !status.Valid() {
		return nil, 0, domain.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}
	if page < 1 {
		page = 1
	}

	offset := (page - 1) * SuggestionPageSize
	list, err := s.suggestions.ListSuggestions(ctx, status, SuggestionPageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.suggestions.CountSuggestions(ctx, status)
	if err != nil {
		return nil, 0, err
	}

	totalPages := (total + SuggestionPageSize - 1) / SuggestionPageSize
	if totalPages == 0 {
		totalPages = 1
	}

	return list, totalPages, nil
}
