package service

import (
	"context"
	"errors"
	"fmt"

	"glossa/internal/domain"
	"glossa/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuizService handles levels, drill words, tests and progress
type QuizService struct {
	quiz     repository.QuizRepository
	registry *repository.Registry
	logger   *zap.Logger
}

// NewQuizService creates a new quiz service
func NewQuizService(quiz repository.QuizRepository, registry *repository.Registry, logger *zap.Logger) *QuizService {
	return &QuizService{
		quiz:     quiz,
		registry: registry,
		logger:   logger,
	}
}

// CreateLevel stores a new level
func (s *QuizService) CreateLevel(ctx context.Context, name string, position int) (*domain.Level, error) {
	l, err := domain.NewLevel(name, position)
	if err != nil {
		return nil, err
	}
	if err := s.quiz.CreateLevel(ctx, l); err != nil {
		return nil, fmt.Errorf("create level: %w", err)
	}
	return l, nil
}

// AddDrillWord stores a word to drill at level
func (s *QuizService) AddDrillWord(ctx context.Context, level domain.Ref, word, translation string, pronunciation, example *string) (*domain.DrillWord, error) {
	w, err := domain.NewDrillWord(level, word, translation)
	if err != nil {
		return nil, err
	}
	w.Pronunciation = pronunciation
	w.Example = example
	if err := s.registry.Check(ctx, level); err != nil {
		return nil, err
	}
	if err := s.quiz.CreateDrillWord(ctx, w); err != nil {
		return nil, fmt.Errorf("create drill word: %w", err)
	}
	return w, nil
}

// DrillWords lists the words of a level
func (s *QuizService) DrillWords(ctx context.Context, levelID uuid.UUID) ([]domain.DrillWord, error) {
	return s.quiz.ListDrillWords(ctx, levelID)
}

// CreateTest stores a new test, optionally bound to a level
func (s *QuizService) CreateTest(ctx context.Context, title string, level *domain.Ref) (*domain.Test, error) {
	t, err := domain.NewTest(title, level)
	if err != nil {
		return nil, err
	}
	if level != nil {
		if err := s.registry.Check(ctx, *level); err != nil {
			return nil, err
		}
	}
	if err := s.quiz.CreateTest(ctx, t); err != nil {
		return nil, fmt.Errorf("create test: %w", err)
	}
	return t, nil
}

// Tests lists every test
func (s *QuizService) Tests(ctx context.Context) ([]domain.Test, error) {
	return s.quiz.ListTests(ctx)
}

// GetTest returns a test by id
func (s *QuizService) GetTest(ctx context.Context, id uuid.UUID) (*domain.Test, error) {
	return s.quiz.GetTest(ctx, id)
}

// AddQuestion stores a multiple-choice question in a test
func (s *QuizService) AddQuestion(ctx context.Context, test domain.Ref, text string, options []string, correct int) (*domain.Question, error) {
	q, err := domain.NewQuestion(test, text, options, correct)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Check(ctx, test); err != nil {
		return nil, err
	}
	if err := s.quiz.CreateQuestion(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

// Questions lists the questions of an existing test
func (s *QuizService) Questions(ctx context.Context, testID uuid.UUID) ([]domain.Question, error) {
	if err := s.registry.Check(ctx, domain.NewRef(domain.KindTest, testID)); err != nil {
		return nil, err
	}
	return s.quiz.ListQuestions(ctx, testID)
}

// Submit scores answers against the test and stores the completed progress.
// Every answer must reference a question of the test with an option in range.
func (s *QuizService) Submit(ctx context.Context, user domain.Ref, testID uuid.UUID, answers []domain.Answer) (*domain.Progress, error) {
	test := domain.NewRef(domain.KindTest, testID)
	if err := s.registry.Check(ctx, user, test); err != nil {
		return nil, err
	}

	questions, err := s.quiz.ListQuestions(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	p, err := s.quiz.GetProgress(ctx, user.ID, testID)
	if errors.Is(err, domain.ErrNotFound) {
		p, err = domain.NewProgress(user, test)
	}
	if err != nil {
		return nil, err
	}

	if err := p.Complete(questions, answers); err != nil {
		return nil, err
	}
	if err := s.quiz.SaveProgress(ctx, p); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}

	s.logger.Info("Test completed",
		zap.String("user_id", user.ID.String()),
		zap.String("test_id", testID.String()),
		zap.Int("score", p.Score),
		zap.Int("questions", len(questions)),
	)
	return p, nil
}

// Progress returns the stored progress of a user on a test
func (s *QuizService) Progress(ctx context.Context, userID, testID uuid.UUID) (*domain.Progress, error) {
	return s.quiz.GetProgress(ctx, userID, testID)
}
