package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Vocabulary is a word entry, unique per language by text
type Vocabulary struct {
	ID           uuid.UUID
	Text         string
	Language     string
	Status       Status
	Translations []Ref
	Author       Ref
	Contributors []Ref
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewVocabulary builds a vocabulary entry in the initial status
func NewVocabulary(author Ref, text, language string) (*Vocabulary, error) {
	v := &Vocabulary{
		ID:       NewID(),
		Text:     strings.TrimSpace(text),
		Language: strings.TrimSpace(language),
		Status:   StatusNew,
		Author:   author,
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	now := Now()
	v.CreatedAt = now
	v.UpdatedAt = now
	return v, nil
}

func (v *Vocabulary) Ref() Ref {
	return NewRef(KindVocabulary, v.ID)
}

// UniqueKey is the storage-level uniqueness key (case-insensitive text within a language)
func (v *Vocabulary) UniqueKey() string {
	return VocabularyKey(v.Text, v.Language)
}

// VocabularyKey normalizes text and language into a uniqueness key
func VocabularyKey(text, language string) string {
	return strings.ToLower(strings.TrimSpace(language)) + ":" + strings.ToLower(strings.TrimSpace(text))
}

func (v *Vocabulary) Validate() error {
	if v.Text == "" {
		return NewValidationError("text", "is required")
	}
	if v.Language == "" {
		return NewValidationError("language", "is required")
	}
	if !v.Status.Valid() {
		return NewValidationError("status", "is unknown")
	}
	if err := checkRef("author", v.Author, KindUser); err != nil {
		return err
	}
	for _, c := range v.Contributors {
		if err := checkRef("contributors", c, KindUser); err != nil {
			return err
		}
	}
	for _, t := range v.Translations {
		if err := checkRef("translations", t, KindTranslation); err != nil {
			return err
		}
	}
	return nil
}

// AddContributor mirrors Suggestion.AddContributor
func (v *Vocabulary) AddContributor(user Ref) (bool, error) {
	if err := checkRef("contributor", user, KindUser); err != nil {
		return false, err
	}
	if user == v.Author || containsRef(v.Contributors, user) {
		return false, nil
	}
	v.Contributors = append(v.Contributors, user)
	v.UpdatedAt = Now()
	return true, nil
}

// AttachTranslation links an accepted translation to the entry
func (v *Vocabulary) AttachTranslation(t Ref) (bool, error) {
	if err := checkRef("translation", t, KindTranslation); err != nil {
		return false, err
	}
	if containsRef(v.Translations, t) {
		return false, nil
	}
	v.Translations = append(v.Translations, t)
	v.UpdatedAt = Now()
	return true, nil
}

func (v *Vocabulary) Transition(next Status) error {
	st, err := Transition(v.Status, next)
	if err != nil {
		return err
	}
	v.Status = st
	v.UpdatedAt = Now()
	return nil
}

func (v *Vocabulary) References() []Ref {
	refs := make([]Ref, 0, 1+len(v.Contributors)+len(v.Translations))
	refs = append(refs, v.Author)
	refs = append(refs, v.Contributors...)
	return append(refs, v.Translations...)
}
