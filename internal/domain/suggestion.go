package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Suggestion is a sentence proposed for translation and moderated
// through the status lifecycle.
type Suggestion struct {
	ID           uuid.UUID
	Text         string
	Language     string
	Dialect      string
	Status       Status
	Author       Ref
	Contributors []Ref
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewSuggestion builds a suggestion in the initial status
func NewSuggestion(author Ref, text, language, dialect string) (*Suggestion, error) {
	s := &Suggestion{
		ID:       NewID(),
		Text:     strings.TrimSpace(text),
		Language: strings.TrimSpace(language),
		Dialect:  strings.TrimSpace(dialect),
		Status:   StatusNew,
		Author:   author,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	now := Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	return s, nil
}

func (s *Suggestion) Ref() Ref {
	return NewRef(KindSuggestion, s.ID)
}

// Validate checks required fields and reference kinds
func (s *Suggestion) Validate() error {
	if s.Text == "" {
		return NewValidationError("text", "is required")
	}
	if s.Language == "" {
		return NewValidationError("language", "is required")
	}
	if !s.Status.Valid() {
		return NewValidationError("status", "is unknown")
	}
	if err := checkRef("author", s.Author, KindUser); err != nil {
		return err
	}
	for _, c := range s.Contributors {
		if err := checkRef("contributors", c, KindUser); err != nil {
			return err
		}
	}
	return nil
}

// AddContributor records user as a contributor. The author is a contributor
// implicitly and is never stored; repeated additions are ignored. It reports
// whether the list changed.
func (s *Suggestion) AddContributor(user Ref) (bool, error) {
	if err := checkRef("contributor", user, KindUser); err != nil {
		return false, err
	}
	if user == s.Author || containsRef(s.Contributors, user) {
		return false, nil
	}
	s.Contributors = append(s.Contributors, user)
	s.UpdatedAt = Now()
	return true, nil
}

// AllContributors returns the author followed by explicit contributors
func (s *Suggestion) AllContributors() []Ref {
	all := make([]Ref, 0, len(s.Contributors)+1)
	all = append(all, s.Author)
	return append(all, s.Contributors...)
}

// Transition moves the suggestion to next status
func (s *Suggestion) Transition(next Status) error {
	st, err := Transition(s.Status, next)
	if err != nil {
		return err
	}
	s.Status = st
	s.UpdatedAt = Now()
	return nil
}

// References lists every outgoing reference
func (s *Suggestion) References() []Ref {
	return s.AllContributors()
}
