package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"glossa/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TranslationRepo implements repository.TranslationRepository
type TranslationRepo struct {
	db *sql.DB
}

// NewTranslationRepo creates a new translation repository
func NewTranslationRepo(db *sql.DB) *TranslationRepo {
	return &TranslationRepo{db: db}
}

// CreateTranslation inserts an accepted translation; both text units are
// stored as JSONB documents
func (r *TranslationRepo) CreateTranslation(ctx context.Context, t *domain.TranslationAccepted) error {
	sentence, err := json.Marshal(t.Sentence)
	if err != nil {
		return fmt.Errorf("marshal sentence: %w", err)
	}
	translation, err := json.Marshal(t.Translation)
	if err != nil {
		return fmt.Errorf("marshal translation: %w", err)
	}

	query := `
		INSERT INTO translations (id, sentence, translation, vote_ids, author_id, contributor_ids, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		t.ID, string(sentence), string(translation), refArray(t.Votes), t.Author.ID, refArray(t.Contributors), t.CreatedAt,
	)
	return err
}

// GetTranslation returns the translation by id
func (r *TranslationRepo) GetTranslation(ctx context.Context, id uuid.UUID) (*domain.TranslationAccepted, error) {
	query := `
		SELECT id, sentence, translation, vote_ids, author_id, contributor_ids, created_at
		FROM translations
		WHERE id = $1
	`
	var (
		t                     domain.TranslationAccepted
		sentence, translation []byte
		votes, contributors   pq.StringArray
		authorID              uuid.UUID
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &sentence, &translation, &votes, &authorID, &contributors, &t.CreatedAt,
	)
	if err != nil {
		return nil, notFoundOr(err, domain.KindTranslation, id)
	}

	if err := json.Unmarshal(sentence, &t.Sentence); err != nil {
		return nil, fmt.Errorf("decode sentence: %w", err)
	}
	if err := json.Unmarshal(translation, &t.Translation); err != nil {
		return nil, fmt.Errorf("decode translation: %w", err)
	}
	t.Author = domain.UserRef(authorID)
	inUTC(&t.CreatedAt)
	if t.Votes, err = parseRefs(domain.KindVote, votes); err != nil {
		return nil, err
	}
	if t.Contributors, err = parseRefs(domain.KindUser, contributors); err != nil {
		return nil, err
	}
	return &t, nil
}

// AddVote stores the vote and appends its reference to the translation in
// one transaction
func (r *TranslationRepo) AddVote(ctx context.Context, v *domain.Vote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE translations SET vote_ids = array_append(vote_ids, $2) WHERE id = $1`,
		v.Translation.ID, v.ID.String(),
	)
	if err != nil {
		return err
	}
	if err := expectOne(res, domain.KindTranslation, v.Translation.ID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO votes (id, user_id, translation_id, value, created_at) VALUES ($1, $2, $3, $4, $5)`,
		v.ID, v.User.ID, v.Translation.ID, v.Value, v.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetVote returns the vote by id
func (r *TranslationRepo) GetVote(ctx context.Context, id uuid.UUID) (*domain.Vote, error) {
	query := `SELECT id, user_id, translation_id, value, created_at FROM votes WHERE id = $1`

	var (
		v                     domain.Vote
		userID, translationID uuid.UUID
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &userID, &translationID, &v.Value, &v.CreatedAt)
	if err != nil {
		return nil, notFoundOr(err, domain.KindVote, id)
	}
	v.User = domain.UserRef(userID)
	v.Translation = domain.NewRef(domain.KindTranslation, translationID)
	inUTC(&v.CreatedAt)
	return &v, nil
}

// CreateSuggestedTranslation inserts a candidate translation of a suggestion
func (r *TranslationRepo) CreateSuggestedTranslation(ctx context.Context, st *domain.SuggestedTranslation) error {
	query := `
		INSERT INTO suggested_translations (id, original_text_id, suggested_text, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, st.ID, st.OriginalText.ID, st.SuggestedText, st.Author.ID, st.CreatedAt)
	return err
}

// ListSuggestedTranslations returns the candidates for a suggestion, oldest first
func (r *TranslationRepo) ListSuggestedTranslations(ctx context.Context, suggestionID uuid.UUID) ([]domain.SuggestedTranslation, error) {
	query := `
		SELECT id, original_text_id, suggested_text, author_id, created_at
		FROM suggested_translations
		WHERE original_text_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, suggestionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SuggestedTranslation
	for rows.Next() {
		var (
			st                 domain.SuggestedTranslation
			originalID, author uuid.UUID
		)
		if err := rows.Scan(&st.ID, &originalID, &st.SuggestedText, &author, &st.CreatedAt); err != nil {
			return nil, err
		}
		st.OriginalText = domain.NewRef(domain.KindSuggestion, originalID)
		st.Author = domain.UserRef(author)
		inUTC(&st.CreatedAt)
		out = append(out, st)
	}

	return out, rows.Err()
}

// RecordUserTranslation links a user to a translation they worked on
func (r *TranslationRepo) RecordUserTranslation(ctx context.Context, ut *domain.UserTranslation) error {
	query := `
		INSERT INTO user_translations (id, user_id, translation_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, ut.ID, ut.User.ID, ut.Translation.ID, ut.CreatedAt)
	return err
}

// ListUserTranslations returns a user's translation history, oldest first
func (r *TranslationRepo) ListUserTranslations(ctx context.Context, userID uuid.UUID) ([]domain.UserTranslation, error) {
	query := `
		SELECT id, user_id, translation_id, created_at
		FROM user_translations
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserTranslation
	for rows.Next() {
		var (
			ut                 domain.UserTranslation
			uid, translationID uuid.UUID
		)
		if err := rows.Scan(&ut.ID, &uid, &translationID, &ut.CreatedAt); err != nil {
			return nil, err
		}
		ut.User = domain.UserRef(uid)
		ut.Translation = domain.NewRef(domain.KindTranslation, translationID)
		inUTC(&ut.CreatedAt)
		out = append(out, ut)
	}

	return out, rows.Err()
}
