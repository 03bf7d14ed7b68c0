// Package postgres implements the repository interfaces on PostgreSQL.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"glossa/internal/domain"
	"glossa/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// NewStore wires every PostgreSQL repository onto db
func NewStore(db *sql.DB) *repository.Store {
	return &repository.Store{
		Users:        NewUserRepo(db),
		Suggestions:  NewSuggestionRepo(db),
		Vocabulary:   NewVocabularyRepo(db),
		Translations: NewTranslationRepo(db),
		Dialogs:      NewDialogRepo(db),
		Community:    NewCommunityRepo(db),
		Quiz:         NewQuizRepo(db),
		Actions:      NewActionRepo(db),
	}
}

// refArray stores references as a text[] of ids
func refArray(refs []domain.Ref) pq.StringArray {
	out := make(pq.StringArray, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.ID.String())
	}
	return out
}

// parseRefs converts a text[] of ids back into references of kind
func parseRefs(kind domain.Kind, ids pq.StringArray) ([]domain.Ref, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	refs := make([]domain.Ref, 0, len(ids))
	for _, s := range ids {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("parse %s id %q: %w", kind, s, err)
		}
		refs = append(refs, domain.NewRef(kind, id))
	}
	return refs, nil
}

// inUTC rewrites scanned timestamps into UTC; the driver tags them with
// the session time zone.
func inUTC(ts ...*time.Time) {
	for _, t := range ts {
		*t = t.UTC()
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// notFoundOr maps sql.ErrNoRows to a NotFoundError for kind/id
func notFoundOr(err error, kind domain.Kind, id uuid.UUID) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError(domain.NewRef(kind, id))
	}
	return err
}

// expectOne turns a zero-row update into a NotFoundError
func expectOne(res sql.Result, kind domain.Kind, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewNotFoundError(domain.NewRef(kind, id))
	}
	return nil
}
