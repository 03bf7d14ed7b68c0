package postgres

import (
	"context"
	"database/sql"
	"errors"

	"glossa/internal/domain"

	"github.com/google/uuid"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// EnsureUser creates the user on first contact and refreshes the username
func (r *UserRepo) EnsureUser(ctx context.Context, telegramID int64, username string) (*domain.User, error) {
	query := `
		INSERT INTO users (id, telegram_id, username, role)
		VALUES ($1, $2, $3, 'user')
		ON CONFLICT (telegram_id)
		DO UPDATE SET username = CASE WHEN EXCLUDED.username = '' THEN users.username ELSE EXCLUDED.username END
		RETURNING id, telegram_id, username, role, created_at
	`
	var u domain.User
	err := r.db.QueryRowContext(ctx, query, domain.NewID(), telegramID, username).Scan(
		&u.ID, &u.TelegramID, &u.Username, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	inUTC(&u.CreatedAt)
	return &u, nil
}

// GetUser returns the user by id
func (r *UserRepo) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT id, telegram_id, username, role, created_at FROM users WHERE id = $1`

	var u domain.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.TelegramID, &u.Username, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, notFoundOr(err, domain.KindUser, id)
	}
	inUTC(&u.CreatedAt)
	return &u, nil
}

// GetUserByTelegramID returns the user bound to a Telegram account
func (r *UserRepo) GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	query := `SELECT id, telegram_id, username, role, created_at FROM users WHERE telegram_id = $1`

	var u domain.User
	err := r.db.QueryRowContext(ctx, query, telegramID).Scan(&u.ID, &u.TelegramID, &u.Username, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	inUTC(&u.CreatedAt)
	return &u, nil
}

// SetRole changes the user's role
func (r *UserRepo) SetRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	query := `UPDATE users SET role = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, role)
	if err != nil {
		return err
	}
	return expectOne(res, domain.KindUser, id)
}
