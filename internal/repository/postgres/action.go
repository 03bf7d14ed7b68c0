package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"glossa/internal/domain"
)

// ActionRepo implements repository.ActionRepository
type ActionRepo struct {
	db *sql.DB
}

// NewActionRepo creates a new action log repository
func NewActionRepo(db *sql.DB) *ActionRepo {
	return &ActionRepo{db: db}
}

// LogAction appends an entry to the bot audit trail
func (r *ActionRepo) LogAction(ctx context.Context, a *domain.TelegramUserAction) error {
	payload, err := json.Marshal(a.Payload)
	if err != nil {
		return fmt.Errorf("marshal action payload: %w", err)
	}

	query := `
		INSERT INTO telegram_user_actions (id, user_id, action, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.db.ExecContext(ctx, query, a.ID, a.User.ID, a.Action, string(payload), a.CreatedAt)
	return err
}
