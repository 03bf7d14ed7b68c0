package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TextUnit is an embedded piece of text in a language and optional dialect
type TextUnit struct {
	Language string `json:"language"`
	Dialect  string `json:"dialect,omitempty"`
	Content  string `json:"content"`
}

func (t TextUnit) validate(field string) error {
	if strings.TrimSpace(t.Language) == "" {
		return NewValidationError(field+".language", "is required")
	}
	if strings.TrimSpace(t.Content) == "" {
		return NewValidationError(field+".content", "is required")
	}
	return nil
}

// TranslationAccepted is an approved sentence/translation pair
type TranslationAccepted struct {
	ID           uuid.UUID
	Sentence     TextUnit
	Translation  TextUnit
	Votes        []Ref
	Author       Ref
	Contributors []Ref
	CreatedAt    time.Time
}

func NewTranslationAccepted(author Ref, sentence, translation TextUnit) (*TranslationAccepted, error) {
	t := &TranslationAccepted{
		ID:          NewID(),
		Sentence:    sentence,
		Translation: translation,
		Author:      author,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.CreatedAt = Now()
	return t, nil
}

func (t *TranslationAccepted) Ref() Ref {
	return NewRef(KindTranslation, t.ID)
}

func (t *TranslationAccepted) Validate() error {
	if err := t.Sentence.validate("sentence"); err != nil {
		return err
	}
	if err := t.Translation.validate("translation"); err != nil {
		return err
	}
	if err := checkRef("author", t.Author, KindUser); err != nil {
		return err
	}
	for _, v := range t.Votes {
		if err := checkRef("votes", v, KindVote); err != nil {
			return err
		}
	}
	for _, c := range t.Contributors {
		if err := checkRef("contributors", c, KindUser); err != nil {
			return err
		}
	}
	return nil
}

// AddVote appends a vote reference once
func (t *TranslationAccepted) AddVote(vote Ref) error {
	if err := checkRef("vote", vote, KindVote); err != nil {
		return err
	}
	if !containsRef(t.Votes, vote) {
		t.Votes = append(t.Votes, vote)
	}
	return nil
}

// AddContributor records user as a contributor; the author is implicit
func (t *TranslationAccepted) AddContributor(user Ref) (bool, error) {
	if err := checkRef("contributor", user, KindUser); err != nil {
		return false, err
	}
	if user == t.Author || containsRef(t.Contributors, user) {
		return false, nil
	}
	t.Contributors = append(t.Contributors, user)
	return true, nil
}

// Clone copies the translation with its embedded pair; referenced votes
// and contributors are copied as references only.
func (t *TranslationAccepted) Clone() *TranslationAccepted {
	c := *t
	c.Votes = append([]Ref(nil), t.Votes...)
	c.Contributors = append([]Ref(nil), t.Contributors...)
	return &c
}

func (t *TranslationAccepted) References() []Ref {
	refs := make([]Ref, 0, 1+len(t.Votes)+len(t.Contributors))
	refs = append(refs, t.Author)
	refs = append(refs, t.Votes...)
	return append(refs, t.Contributors...)
}

// Vote is a single up or down vote on an accepted translation
type Vote struct {
	ID          uuid.UUID
	User        Ref
	Translation Ref
	Value       int
	CreatedAt   time.Time
}

func NewVote(user, translation Ref, value int) (*Vote, error) {
	v := &Vote{
		ID:          NewID(),
		User:        user,
		Translation: translation,
		Value:       value,
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	v.CreatedAt = Now()
	return v, nil
}

func (v *Vote) Ref() Ref {
	return NewRef(KindVote, v.ID)
}

func (v *Vote) Validate() error {
	if v.Value != 1 && v.Value != -1 {
		return NewValidationError("value", "must be 1 or -1")
	}
	if err := checkRef("user", v.User, KindUser); err != nil {
		return err
	}
	return checkRef("translation", v.Translation, KindTranslation)
}

// SuggestedTranslation is a proposed translation of a suggestion
type SuggestedTranslation struct {
	ID            uuid.UUID
	OriginalText  Ref
	SuggestedText string
	Author        Ref
	CreatedAt     time.Time
}

func NewSuggestedTranslation(original, author Ref, text string) (*SuggestedTranslation, error) {
	st := &SuggestedTranslation{
		ID:            NewID(),
		OriginalText:  original,
		SuggestedText: strings.TrimSpace(text),
		Author:        author,
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	st.CreatedAt = Now()
	return st, nil
}

func (st *SuggestedTranslation) Ref() Ref {
	return NewRef(KindSuggestedTranslation, st.ID)
}

func (st *SuggestedTranslation) Validate() error {
	if st.SuggestedText == "" {
		return NewValidationError("suggested_text", "is required")
	}
	if err := checkRef("original_text", st.OriginalText, KindSuggestion); err != nil {
		return err
	}
	return checkRef("author", st.Author, KindUser)
}

func (st *SuggestedTranslation) References() []Ref {
	return []Ref{st.OriginalText, st.Author}
}

// UserTranslation records a user's interaction with a translation.
// Duplicate pairs are allowed.
type UserTranslation struct {
	ID          uuid.UUID
	User        Ref
	Translation Ref
	CreatedAt   time.Time
}

func NewUserTranslation(user, translation Ref) (*UserTranslation, error) {
	ut := &UserTranslation{
		ID:          NewID(),
		User:        user,
		Translation: translation,
	}
	if err := ut.Validate(); err != nil {
		return nil, err
	}
	ut.CreatedAt = Now()
	return ut, nil
}

func (ut *UserTranslation) Validate() error {
	if err := checkRef("user_id", ut.User, KindUser); err != nil {
		return err
	}
	return checkRef("translation_id", ut.Translation, KindTranslation)
}

func (ut *UserTranslation) References() []Ref {
	return []Ref{ut.User, ut.Translation}
}
