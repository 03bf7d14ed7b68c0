package postgres

import (
	"context"
	"database/sql"
	"errors"

	"glossa/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// VocabularyRepo implements repository.VocabularyRepository
type VocabularyRepo struct {
	db *sql.DB
}

// NewVocabularyRepo creates a new vocabulary repository
func NewVocabularyRepo(db *sql.DB) *VocabularyRepo {
	return &VocabularyRepo{db: db}
}

const vocabularyColumns = `id, text, language, status, author_id, contributor_ids, translation_ids, created_at, updated_at`

func scanVocabulary(row rowScanner) (*domain.Vocabulary, error) {
	var (
		v            domain.Vocabulary
		authorID     uuid.UUID
		contributors pq.StringArray
		translations pq.StringArray
	)
	err := row.Scan(&v.ID, &v.Text, &v.Language, &v.Status, &authorID, &contributors, &translations, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	v.Author = domain.UserRef(authorID)
	inUTC(&v.CreatedAt, &v.UpdatedAt)
	if v.Contributors, err = parseRefs(domain.KindUser, contributors); err != nil {
		return nil, err
	}
	if v.Translations, err = parseRefs(domain.KindTranslation, translations); err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateVocabulary inserts an entry; the unique index on text+language
// surfaces as a ConflictError
func (r *VocabularyRepo) CreateVocabulary(ctx context.Context, v *domain.Vocabulary) error {
	query := `
		INSERT INTO vocabulary (` + vocabularyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.Text, v.Language, v.Status, v.Author.ID,
		refArray(v.Contributors), refArray(v.Translations), v.CreatedAt, v.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.NewConflictError(domain.KindVocabulary, v.UniqueKey())
	}
	return err
}

// GetVocabulary returns the entry by id
func (r *VocabularyRepo) GetVocabulary(ctx context.Context, id uuid.UUID) (*domain.Vocabulary, error) {
	query := `SELECT ` + vocabularyColumns + ` FROM vocabulary WHERE id = $1`

	v, err := scanVocabulary(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, domain.KindVocabulary, id)
	}
	return v, nil
}

// UpdateVocabulary stores status, contributors and translations
func (r *VocabularyRepo) UpdateVocabulary(ctx context.Context, v *domain.Vocabulary) error {
	query := `
		UPDATE vocabulary
		SET status = $2, contributor_ids = $3, translation_ids = $4, updated_at = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, v.ID, v.Status, refArray(v.Contributors), refArray(v.Translations), v.UpdatedAt)
	if err != nil {
		return err
	}
	return expectOne(res, domain.KindVocabulary, v.ID)
}

// FindVocabulary looks an entry up by its unique key
func (r *VocabularyRepo) FindVocabulary(ctx context.Context, text, language string) (*domain.Vocabulary, error) {
	query := `
		SELECT ` + vocabularyColumns + `
		FROM vocabulary
		WHERE LOWER(language) = LOWER($1) AND LOWER(text) = LOWER($2)
	`
	v, err := scanVocabulary(r.db.QueryRowContext(ctx, query, language, text))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ListVocabulary pages through entries, oldest first
func (r *VocabularyRepo) ListVocabulary(ctx context.Context, limit, offset int) ([]domain.Vocabulary, error) {
	query := `
		SELECT ` + vocabularyColumns + `
		FROM vocabulary
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Vocabulary
	for rows.Next() {
		v, err := scanVocabulary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}

	return out, rows.Err()
}
