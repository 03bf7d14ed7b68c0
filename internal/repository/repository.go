package repository

import (
	"context"

	"glossa/internal/domain"

	"github.com/google/uuid"
)

// UserRepository defines user data operations
type UserRepository interface {
	EnsureUser(ctx context.Context, telegramID int64, username string) (*domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	SetRole(ctx context.Context, id uuid.UUID, role domain.Role) error
}

// SuggestionRepository stores sentence suggestions
type SuggestionRepository interface {
	CreateSuggestion(ctx context.Context, s *domain.Suggestion) error
	GetSuggestion(ctx context.Context, id uuid.UUID) (*domain.Suggestion, error)
	UpdateSuggestion(ctx context.Context, s *domain.Suggestion) error
	ListSuggestions(ctx context.Context, status domain.Status, limit, offset int) ([]domain.Suggestion, error)
	CountSuggestions(ctx context.Context, status domain.Status) (int, error)
}

// VocabularyRepository stores vocabulary entries; CreateVocabulary fails
// with a ConflictError when text+language already exists.
type VocabularyRepository interface {
	CreateVocabulary(ctx context.Context, v *domain.Vocabulary) error
	GetVocabulary(ctx context.Context, id uuid.UUID) (*domain.Vocabulary, error)
	UpdateVocabulary(ctx context.Context, v *domain.Vocabulary) error
	FindVocabulary(ctx context.Context, text, language string) (*domain.Vocabulary, error)
	ListVocabulary(ctx context.Context, limit, offset int) ([]domain.Vocabulary, error)
}

// TranslationRepository stores accepted translations and their votes
type TranslationRepository interface {
	CreateTranslation(ctx context.Context, t *domain.TranslationAccepted) error
	GetTranslation(ctx context.Context, id uuid.UUID) (*domain.TranslationAccepted, error)
	AddVote(ctx context.Context, v *domain.Vote) error
	GetVote(ctx context.Context, id uuid.UUID) (*domain.Vote, error)
	CreateSuggestedTranslation(ctx context.Context, st *domain.SuggestedTranslation) error
	ListSuggestedTranslations(ctx context.Context, suggestionID uuid.UUID) ([]domain.SuggestedTranslation, error)
	RecordUserTranslation(ctx context.Context, ut *domain.UserTranslation) error
	ListUserTranslations(ctx context.Context, userID uuid.UUID) ([]domain.UserTranslation, error)
}

// DialogRepository stores dialogs with embedded messages
type DialogRepository interface {
	CreateDialog(ctx context.Context, d *domain.Dialog) error
	GetDialog(ctx context.Context, id uuid.UUID) (*domain.Dialog, error)
	UpdateDialog(ctx context.Context, d *domain.Dialog) error
}

// CommunityRepository stores direct messages, referrals and reports
type CommunityRepository interface {
	CreateMessage(ctx context.Context, m *domain.Message) error
	GetMessage(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	MarkMessageRead(ctx context.Context, id uuid.UUID) error
	ListConversation(ctx context.Context, a, b uuid.UUID, limit int) ([]domain.Message, error)
	CreateReferral(ctx context.Context, r *domain.Referral) error
	GetReferral(ctx context.Context, id uuid.UUID) (*domain.Referral, error)
	ListReferrals(ctx context.Context, referringID uuid.UUID) ([]domain.Referral, error)
	CreateReport(ctx context.Context, r *domain.Report) error
	GetReport(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	ListReportsAgainst(ctx context.Context, reportedID uuid.UUID) ([]domain.Report, error)
}

// QuizRepository stores levels, drill words, tests, questions and progress
type QuizRepository interface {
	CreateLevel(ctx context.Context, l *domain.Level) error
	GetLevel(ctx context.Context, id uuid.UUID) (*domain.Level, error)
	CreateDrillWord(ctx context.Context, w *domain.DrillWord) error
	ListDrillWords(ctx context.Context, levelID uuid.UUID) ([]domain.DrillWord, error)
	CreateTest(ctx context.Context, t *domain.Test) error
	GetTest(ctx context.Context, id uuid.UUID) (*domain.Test, error)
	ListTests(ctx context.Context) ([]domain.Test, error)
	CreateQuestion(ctx context.Context, q *domain.Question) error
	GetQuestion(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	ListQuestions(ctx context.Context, testID uuid.UUID) ([]domain.Question, error)
	SaveProgress(ctx context.Context, p *domain.Progress) error
	GetProgress(ctx context.Context, userID, testID uuid.UUID) (*domain.Progress, error)
}

// ActionRepository stores the bot audit trail
type ActionRepository interface {
	LogAction(ctx context.Context, a *domain.TelegramUserAction) error
}

// Store bundles every repository of one storage backend
type Store struct {
	Users        UserRepository
	Suggestions  SuggestionRepository
	Vocabulary   VocabularyRepository
	Translations TranslationRepository
	Dialogs      DialogRepository
	Community    CommunityRepository
	Quiz         QuizRepository
	Actions      ActionRepository
}
