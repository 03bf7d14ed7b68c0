package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"glossa/internal/domain"

	"github.com/google/uuid"
)

// DialogRepo implements repository.DialogRepository
type DialogRepo struct {
	db *sql.DB
}

// NewDialogRepo creates a new dialog repository
func NewDialogRepo(db *sql.DB) *DialogRepo {
	return &DialogRepo{db: db}
}

func encodeMessages(msgs []domain.DialogMessage) (string, error) {
	if msgs == nil {
		msgs = []domain.DialogMessage{}
	}
	b, err := json.Marshal(msgs)
	if err != nil {
		return "", fmt.Errorf("marshal dialog messages: %w", err)
	}
	return string(b), nil
}

// CreateDialog inserts a dialog with its messages embedded as JSONB
func (r *DialogRepo) CreateDialog(ctx context.Context, d *domain.Dialog) error {
	msgs, err := encodeMessages(d.Messages)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO dialogs (id, user_id, messages, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.db.ExecContext(ctx, query, d.ID, d.User.ID, msgs, d.CreatedAt, d.UpdatedAt)
	return err
}

// GetDialog returns the dialog by id
func (r *DialogRepo) GetDialog(ctx context.Context, id uuid.UUID) (*domain.Dialog, error) {
	query := `SELECT id, user_id, messages, created_at, updated_at FROM dialogs WHERE id = $1`

	var (
		d      domain.Dialog
		userID uuid.UUID
		raw    []byte
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&d.ID, &userID, &raw, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err, domain.KindDialog, id)
	}
	d.User = domain.UserRef(userID)
	inUTC(&d.CreatedAt, &d.UpdatedAt)
	if err := json.Unmarshal(raw, &d.Messages); err != nil {
		return nil, fmt.Errorf("decode dialog messages: %w", err)
	}
	if len(d.Messages) == 0 {
		d.Messages = nil
	}
	return &d, nil
}

// UpdateDialog replaces the stored message list
func (r *DialogRepo) UpdateDialog(ctx context.Context, d *domain.Dialog) error {
	msgs, err := encodeMessages(d.Messages)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE dialogs SET messages = $2, updated_at = $3 WHERE id = $1`,
		d.ID, msgs, d.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return expectOne(res, domain.KindDialog, d.ID)
}
