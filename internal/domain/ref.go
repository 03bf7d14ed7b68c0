package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind tags the collection a reference points into
type Kind string

const (
	KindUser                 Kind = "user"
	KindSuggestion           Kind = "suggestion"
	KindVocabulary           Kind = "vocabulary"
	KindTranslation          Kind = "translation"
	KindSuggestedTranslation Kind = "suggested_translation"
	KindVote                 Kind = "vote"
	KindDialog               Kind = "dialog"
	KindMessage              Kind = "message"
	KindReferral             Kind = "referral"
	KindReport               Kind = "report"
	KindUserTranslation      Kind = "user_translation"
	KindLevel                Kind = "level"
	KindTest                 Kind = "test"
	KindQuestion             Kind = "question"
	KindDrillWord            Kind = "drill_word"
	KindProgress             Kind = "progress"
)

var knownKinds = map[Kind]struct{}{
	KindUser: {}, KindSuggestion: {}, KindVocabulary: {}, KindTranslation: {},
	KindSuggestedTranslation: {}, KindVote: {}, KindDialog: {}, KindMessage: {},
	KindReferral: {}, KindReport: {}, KindUserTranslation: {}, KindLevel: {},
	KindTest: {}, KindQuestion: {}, KindDrillWord: {}, KindProgress: {},
}

// Valid reports whether k is one of the declared kinds
func (k Kind) Valid() bool {
	_, ok := knownKinds[k]
	return ok
}

// NewID generates a new entity identifier
func NewID() uuid.UUID {
	return uuid.New()
}

// Ref points to another aggregate root by kind and id
type Ref struct {
	Kind Kind      `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

// NewRef builds a reference of the given kind
func NewRef(kind Kind, id uuid.UUID) Ref {
	return Ref{Kind: kind, ID: id}
}

// UserRef is shorthand for a reference to a user
func UserRef(id uuid.UUID) Ref {
	return Ref{Kind: KindUser, ID: id}
}

// IsZero reports whether the reference is unset
func (r Ref) IsZero() bool {
	return r.ID == uuid.Nil
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%s", r.Kind, r.ID)
}

// checkRef validates that ref is set and points to the expected kind
func checkRef(field string, ref Ref, kind Kind) error {
	if ref.IsZero() {
		return NewValidationError(field, "is required")
	}
	if ref.Kind != kind {
		return NewValidationError(field, fmt.Sprintf("must reference %s, got %s", kind, ref.Kind))
	}
	return nil
}

// containsRef reports whether refs already holds ref
func containsRef(refs []Ref, ref Ref) bool {
	for _, r := range refs {
		if r == ref {
			return true
		}
	}
	return false
}

// IDs extracts the identifiers of refs in order
func IDs(refs []Ref) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	return ids
}

// Refs wraps ids into references of one kind
func Refs(kind Kind, ids []uuid.UUID) []Ref {
	refs := make([]Ref, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, Ref{Kind: kind, ID: id})
	}
	return refs
}
