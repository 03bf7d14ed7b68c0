package service

import (
	"context"
	"fmt"

	"glossa/internal/domain"
	"glossa/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VocabularyService handles vocabulary entries
type VocabularyService struct {
	vocabulary repository.VocabularyRepository
	registry   *repository.Registry
	logger     *zap.Logger
}

// NewVocabularyService creates a new vocabulary service
func NewVocabularyService(vocabulary repository.VocabularyRepository, registry *repository.Registry, logger *zap.Logger) *VocabularyService {
	return &VocabularyService{
		vocabulary: vocabulary,
		registry:   registry,
		logger:     logger,
	}
}

// Add stores a new entry. A second entry with the same text and language
// fails with a ConflictError.
func (s *VocabularyService) Add(ctx context.Context, author domain.Ref, text, language string) (*domain.Vocabulary, error) {
	v, err := domain.NewVocabulary(author, text, language)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Check(ctx, author); err != nil {
		return nil, err
	}
	if err := s.vocabulary.CreateVocabulary(ctx, v); err != nil {
		return nil, fmt.Errorf("create vocabulary: %w", err)
	}
	return v, nil
}

// Get returns an entry by id
func (s *VocabularyService) Get(ctx context.Context, id uuid.UUID) (*domain.Vocabulary, error) {
	return s.vocabulary.GetVocabulary(ctx, id)
}

// Find looks an entry up by text and language
func (s *VocabularyService) Find(ctx context.Context, text, language string) (*domain.Vocabulary, error) {
	return s.vocabulary.FindVocabulary(ctx, text, language)
}

// AddContributor records user as a contributor of the entry
func (s *VocabularyService) AddContributor(ctx context.Context, id uuid.UUID, user domain.Ref) (*domain.Vocabulary, error) {
	v, err := s.vocabulary.GetVocabulary(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Check(ctx, user); err != nil {
		return nil, err
	}
	added, err := v.AddContributor(user)
	if err != nil {
		return nil, err
	}
	if added {
		if err := s.vocabulary.UpdateVocabulary(ctx, v); err != nil {
			return nil, fmt.Errorf("update vocabulary %s: %w", id, err)
		}
	}
	return v, nil
}

// AttachTranslation links an accepted translation to the entry
func (s *VocabularyService) AttachTranslation(ctx context.Context, id uuid.UUID, translation domain.Ref) (*domain.Vocabulary, error) {
	v, err := s.vocabulary.GetVocabulary(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Check(ctx, translation); err != nil {
		return nil, err
	}
	added, err := v.AttachTranslation(translation)
	if err != nil {
		return nil, err
	}
	if added {
		if err := s.vocabulary.UpdateVocabulary(ctx, v); err != nil {
			return nil, fmt.Errorf("update vocabulary %s: %w", id, err)
		}
	}
	return v, nil
}

// Transition moves an entry along the moderation lifecycle
func (s *VocabularyService) Transition(ctx context.Context, id uuid.UUID, next domain.Status) (*domain.Vocabulary, error) {
	v, err := s.vocabulary.GetVocabulary(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := v.Transition(next); err != nil {
		return nil, err
	}
	if err := s.vocabulary.UpdateVocabulary(ctx, v); err != nil {
		return nil, fmt.Errorf("update vocabulary %s: %w", id, err)
	}

	s.logger.Info("Vocabulary status changed",
		zap.String("vocabulary_id", id.String()),
		zap.String("status", string(next)),
	)
	return v, nil
}
