package api

import (
	"time"

	"glossa/internal/domain"

	"github.com/google/uuid"
)

type suggestionView struct {
	ID           uuid.UUID     `json:"id"`
	Text         string        `json:"text"`
	Language     string        `json:"language"`
	Dialect      string        `json:"dialect,omitempty"`
	Status       domain.Status `json:"status"`
	Author       domain.Ref    `json:"author"`
	Contributors []domain.Ref  `json:"contributors"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func newSuggestionView(s *domain.Suggestion) suggestionView {
	return suggestionView{
		ID:           s.ID,
		Text:         s.Text,
		Language:     s.Language,
		Dialect:      s.Dialect,
		Status:       s.Status,
		Author:       s.Author,
		Contributors: nonNil(s.Contributors),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

type vocabularyView struct {
	ID           uuid.UUID     `json:"id"`
	Text         string        `json:"text"`
	Language     string        `json:"language"`
	Status       domain.Status `json:"status"`
	Author       domain.Ref    `json:"author"`
	Contributors []domain.Ref  `json:"contributors"`
	Translations []domain.Ref  `json:"translations"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func newVocabularyView(v *domain.Vocabulary) vocabularyView {
	return vocabularyView{
		ID:           v.ID,
		Text:         v.Text,
		Language:     v.Language,
		Status:       v.Status,
		Author:       v.Author,
		Contributors: nonNil(v.Contributors),
		Translations: nonNil(v.Translations),
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

type translationView struct {
	ID           uuid.UUID       `json:"id"`
	Sentence     domain.TextUnit `json:"sentence"`
	Translation  domain.TextUnit `json:"translation"`
	Votes        []domain.Ref    `json:"votes"`
	Author       domain.Ref      `json:"author"`
	Contributors []domain.Ref    `json:"contributors"`
	CreatedAt    time.Time       `json:"created_at"`
}

func newTranslationView(t *domain.TranslationAccepted) translationView {
	return translationView{
		ID:           t.ID,
		Sentence:     t.Sentence,
		Translation:  t.Translation,
		Votes:        nonNil(t.Votes),
		Author:       t.Author,
		Contributors: nonNil(t.Contributors),
		CreatedAt:    t.CreatedAt,
	}
}

type progressView struct {
	ID        uuid.UUID       `json:"id"`
	User      domain.Ref      `json:"user"`
	Test      domain.Ref      `json:"test"`
	Answers   []domain.Answer `json:"answers"`
	Score     int             `json:"score"`
	Completed bool            `json:"completed"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func newProgressView(p *domain.Progress) progressView {
	answers := p.Answers
	if answers == nil {
		answers = []domain.Answer{}
	}
	return progressView{
		ID:        p.ID,
		User:      p.User,
		Test:      p.Test,
		Answers:   answers,
		Score:     p.Score,
		Completed: p.Completed,
		UpdatedAt: p.UpdatedAt,
	}
}

type createdView struct {
	ID uuid.UUID `json:"id"`
}

func nonNil(refs []domain.Ref) []domain.Ref {
	if refs == nil {
		return []domain.Ref{}
	}
	return refs
}
