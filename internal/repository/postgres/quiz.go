package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"glossa/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// QuizRepo implements repository.QuizRepository
type QuizRepo struct {
	db *sql.DB
}

// NewQuizRepo creates a new quiz repository
func NewQuizRepo(db *sql.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

// CreateLevel inserts a level
func (r *QuizRepo) CreateLevel(ctx context.Context, l *domain.Level) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO levels (id, name, position) VALUES ($1, $2, $3)`,
		l.ID, l.Name, l.Position,
	)
	return err
}

// GetLevel returns the level by id
func (r *QuizRepo) GetLevel(ctx context.Context, id uuid.UUID) (*domain.Level, error) {
	var l domain.Level
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, position FROM levels WHERE id = $1`, id,
	).Scan(&l.ID, &l.Name, &l.Position)
	if err != nil {
		return nil, notFoundOr(err, domain.KindLevel, id)
	}
	return &l, nil
}

// CreateDrillWord inserts a drill word
func (r *QuizRepo) CreateDrillWord(ctx context.Context, w *domain.DrillWord) error {
	query := `
		INSERT INTO drill_words (id, word, translation, pronunciation, example, level_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, w.ID, w.Word, w.Translation, w.Pronunciation, w.Example, w.Level.ID)
	return err
}

// ListDrillWords returns the words of a level
func (r *QuizRepo) ListDrillWords(ctx context.Context, levelID uuid.UUID) ([]domain.DrillWord, error) {
	query := `
		SELECT id, word, translation, pronunciation, example, level_id
		FROM drill_words
		WHERE level_id = $1
		ORDER BY word ASC
	`
	rows, err := r.db.QueryContext(ctx, query, levelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DrillWord
	for rows.Next() {
		var (
			w     domain.DrillWord
			level uuid.UUID
		)
		if err := rows.Scan(&w.ID, &w.Word, &w.Translation, &w.Pronunciation, &w.Example, &level); err != nil {
			return nil, err
		}
		w.Level = domain.NewRef(domain.KindLevel, level)
		out = append(out, w)
	}

	return out, rows.Err()
}

// CreateTest inserts a test; the level is optional
func (r *QuizRepo) CreateTest(ctx context.Context, t *domain.Test) error {
	var level uuid.NullUUID
	if t.Level != nil {
		level = uuid.NullUUID{UUID: t.Level.ID, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tests (id, title, level_id, created_at) VALUES ($1, $2, $3, $4)`,
		t.ID, t.Title, level, t.CreatedAt,
	)
	return err
}

func scanTest(row rowScanner) (*domain.Test, error) {
	var (
		t     domain.Test
		level uuid.NullUUID
	)
	if err := row.Scan(&t.ID, &t.Title, &level, &t.CreatedAt); err != nil {
		return nil, err
	}
	inUTC(&t.CreatedAt)
	if level.Valid {
		ref := domain.NewRef(domain.KindLevel, level.UUID)
		t.Level = &ref
	}
	return &t, nil
}

// GetTest returns the test by id
func (r *QuizRepo) GetTest(ctx context.Context, id uuid.UUID) (*domain.Test, error) {
	t, err := scanTest(r.db.QueryRowContext(ctx,
		`SELECT id, title, level_id, created_at FROM tests WHERE id = $1`, id,
	))
	if err != nil {
		return nil, notFoundOr(err, domain.KindTest, id)
	}
	return t, nil
}

// ListTests returns every test, oldest first
func (r *QuizRepo) ListTests(ctx context.Context) ([]domain.Test, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, level_id, created_at FROM tests ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Test
	for rows.Next() {
		t, err := scanTest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}

	return out, rows.Err()
}

// CreateQuestion inserts a question
func (r *QuizRepo) CreateQuestion(ctx context.Context, q *domain.Question) error {
	query := `
		INSERT INTO questions (id, text, options, correct_option, test_id)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, q.ID, q.Text, pq.StringArray(q.Options), q.CorrectOption, q.Test.ID)
	return err
}

func scanQuestion(row rowScanner) (*domain.Question, error) {
	var (
		q       domain.Question
		options pq.StringArray
		test    uuid.UUID
	)
	if err := row.Scan(&q.ID, &q.Text, &options, &q.CorrectOption, &test); err != nil {
		return nil, err
	}
	q.Options = []string(options)
	q.Test = domain.NewRef(domain.KindTest, test)
	return &q, nil
}

// GetQuestion returns the question by id
func (r *QuizRepo) GetQuestion(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	q, err := scanQuestion(r.db.QueryRowContext(ctx,
		`SELECT id, text, options, correct_option, test_id FROM questions WHERE id = $1`, id,
	))
	if err != nil {
		return nil, notFoundOr(err, domain.KindQuestion, id)
	}
	return q, nil
}

// ListQuestions returns the questions of a test
func (r *QuizRepo) ListQuestions(ctx context.Context, testID uuid.UUID) ([]domain.Question, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, text, options, correct_option, test_id FROM questions WHERE test_id = $1 ORDER BY text`, testID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}

	return out, rows.Err()
}

// SaveProgress upserts the progress of a user on a test
func (r *QuizRepo) SaveProgress(ctx context.Context, p *domain.Progress) error {
	answers := p.Answers
	if answers == nil {
		answers = []domain.Answer{}
	}
	raw, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	query := `
		INSERT INTO progress (id, user_id, test_id, answers, score, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, test_id)
		DO UPDATE SET answers = EXCLUDED.answers, score = EXCLUDED.score,
			completed = EXCLUDED.completed, updated_at = EXCLUDED.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.User.ID, p.Test.ID, string(raw), p.Score, p.Completed, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetProgress returns the progress of a user on a test
func (r *QuizRepo) GetProgress(ctx context.Context, userID, testID uuid.UUID) (*domain.Progress, error) {
	query := `
		SELECT id, user_id, test_id, answers, score, completed, created_at, updated_at
		FROM progress
		WHERE user_id = $1 AND test_id = $2
	`
	var (
		p        domain.Progress
		uid, tid uuid.UUID
		raw      []byte
	)
	err := r.db.QueryRowContext(ctx, query, userID, testID).Scan(
		&p.ID, &uid, &tid, &raw, &p.Score, &p.Completed, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError(domain.NewRef(domain.KindProgress, testID))
	}
	if err != nil {
		return nil, err
	}
	p.User = domain.UserRef(uid)
	p.Test = domain.NewRef(domain.KindTest, tid)
	inUTC(&p.CreatedAt, &p.UpdatedAt)
	if err := json.Unmarshal(raw, &p.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	if len(p.Answers) == 0 {
		p.Answers = nil
	}
	return &p, nil
}
