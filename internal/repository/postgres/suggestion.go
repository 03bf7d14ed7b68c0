package postgres

import (
	"context"
	"database/sql"

	"glossa/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SuggestionRepo implements repository.SuggestionRepository
type SuggestionRepo struct {
	db *sql.DB
}

// NewSuggestionRepo creates a new suggestion repository
func NewSuggestionRepo(db *sql.DB) *SuggestionRepo {
	return &SuggestionRepo{db: db}
}

const suggestionColumns = `id, text, language, dialect, status, author_id, contributor_ids, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSuggestion(row rowScanner) (*domain.Suggestion, error) {
	var (
		s            domain.Suggestion
		authorID     uuid.UUID
		contributors pq.StringArray
	)
	err := row.Scan(&s.ID, &s.Text, &s.Language, &s.Dialect, &s.Status, &authorID, &contributors, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Author = domain.UserRef(authorID)
	inUTC(&s.CreatedAt, &s.UpdatedAt)
	if s.Contributors, err = parseRefs(domain.KindUser, contributors); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSuggestion inserts a new suggestion
func (r *SuggestionRepo) CreateSuggestion(ctx context.Context, s *domain.Suggestion) error {
	query := `
		INSERT INTO suggestions (` + suggestionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Text, s.Language, s.Dialect, s.Status, s.Author.ID, refArray(s.Contributors), s.CreatedAt, s.UpdatedAt,
	)
	return err
}

// GetSuggestion returns the suggestion by id
func (r *SuggestionRepo) GetSuggestion(ctx context.Context, id uuid.UUID) (*domain.Suggestion, error) {
	query := `SELECT ` + suggestionColumns + ` FROM suggestions WHERE id = $1`

	s, err := scanSuggestion(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, domain.KindSuggestion, id)
	}
	return s, nil
}

// UpdateSuggestion stores the mutable fields: status and contributors
func (r *SuggestionRepo) UpdateSuggestion(ctx context.Context, s *domain.Suggestion) error {
	query := `
		UPDATE suggestions
		SET status = $2, contributor_ids = $3, updated_at = $4
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, s.ID, s.Status, refArray(s.Contributors), s.UpdatedAt)
	if err != nil {
		return err
	}
	return expectOne(res, domain.KindSuggestion, s.ID)
}

// ListSuggestions returns suggestions in a status, oldest first.
// An empty status lists every suggestion.
func (r *SuggestionRepo) ListSuggestions(ctx context.Context, status domain.Status, limit, offset int) ([]domain.Suggestion, error) {
	query := `
		SELECT ` + suggestionColumns + `
		FROM suggestions
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Suggestion
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}

	return out, rows.Err()
}

// CountSuggestions counts suggestions in a status
func (r *SuggestionRepo) CountSuggestions(ctx context.Context, status domain.Status) (int, error) {
	query := `SELECT COUNT(*) FROM suggestions WHERE ($1 = '' OR status = $1)`

	var count int
	err := r.db.QueryRowContext(ctx, query, status).Scan(&count)
	return count, err
}
