package service

import (
	"context"
	"fmt"

	"glossa/internal/domain"
	"glossa/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TranslationService handles accepted translations, votes and candidates
type TranslationService struct {
	translations repository.TranslationRepository
	registry     *repository.Registry
	logger       *zap.Logger
}

// NewTranslationService creates a new translation service
func NewTranslationService(translations repository.TranslationRepository, registry *repository.Registry, logger *zap.Logger) *TranslationService {
	return &TranslationService{
		translations: translations,
		registry:     registry,
		logger:       logger,
	}
}

// Accept stores a sentence/translation pair and records the author's
// involvement as a UserTranslation. Once the translation is stored a
// failure to record the involvement is logged and the translation is
// still returned, so a retry does not store it twice.
func (s *TranslationService) Accept(ctx context.Context, author domain.Ref, sentence, translation domain.TextUnit) (*domain.TranslationAccepted, error) {
	t, err := domain.NewTranslationAccepted(author, sentence, translation)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Check(ctx, author); err != nil {
		return nil, err
	}
	if err := s.translations.CreateTranslation(ctx, t); err != nil {
		return nil, fmt.Errorf("create translation: %w", err)
	}
	if _, err := s.RecordInteraction(ctx, author, t.Ref()); err != nil {
		s.logger.Error("Failed to record translation author",
			zap.String("translation_id", t.ID.String()),
			zap.Stringer("author", author),
			zap.Error(err),
		)
	}
	return t, nil
}

// Get returns a translation by id
func (s *TranslationService) Get(ctx context.Context, id uuid.UUID) (*domain.TranslationAccepted, error) {
	return s.translations.GetTranslation(ctx, id)
}

// Vote stores a +1/-1 vote on a translation
func (s *TranslationService) Vote(ctx context.Context, translationID uuid.UUID, user domain.Ref, value int) (*domain.Vote, error) {
	translation := domain.NewRef(domain.KindTranslation, translationID)
	v, err := domain.NewVote(user, translation, value)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Check(ctx, user, translation); err != nil {
		return nil, err
	}
	if err := s.translations.AddVote(ctx, v); err != nil {
		return nil, fmt.Errorf("add vote: %w", err)
	}
	return v, nil
}

// Suggest proposes a translation for a suggested sentence
func (s *TranslationService) Suggest(ctx context.Context, suggestionID uuid.UUID, author domain.Ref, text string) (*domain.SuggestedTranslation, error) {
	st, err := domain.NewSuggestedTranslation(domain.NewRef(domain.KindSuggestion, suggestionID), author, text)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Check(ctx, st.References()...); err != nil {
		return nil, err
	}
	if err := s.translations.CreateSuggestedTranslation(ctx, st); err != nil {
		return nil, fmt.Errorf("create suggested translation: %w", err)
	}
	return st, nil
}

// ListSuggested returns the candidate translations of a suggestion
func (s *TranslationService) ListSuggested(ctx context.Context, suggestionID uuid.UUID) ([]domain.SuggestedTranslation, error) {
	if err := s.registry.Check(ctx, domain.NewRef(domain.KindSuggestion, suggestionID)); err != nil {
		return nil, err
	}
	return s.translations.ListSuggestedTranslations(ctx, suggestionID)
}

// RecordInteraction links user to a translation they worked on
func (s *TranslationService) RecordInteraction(ctx context.Context, user, translation domain.Ref) (*domain.UserTranslation, error) {
	ut, err := domain.NewUserTranslation(user, translation)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Check(ctx, ut.References()...); err != nil {
		return nil, err
	}
	if err := s.translations.RecordUserTranslation(ctx, ut); err != nil {
		return nil, fmt.Errorf("record user translation: %w", err)
	}
	return ut, nil
}

// History returns the translations a user has worked on
func (s *TranslationService) History(ctx context.Context, userID uuid.UUID) ([]domain.UserTranslation, error) {
	return s.translations.ListUserTranslations(ctx, userID)
}
