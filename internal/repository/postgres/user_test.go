package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"glossa/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "telegram_id", "username", "role", "created_at"}

func TestUserRepo_EnsureUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), int64(42), "alice").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(id.String(), int64(42), "alice", "user", now))

	u, err := repo.EnsureUser(context.Background(), 42, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, int64(42), u.TelegramID)
	assert.Equal(t, domain.RoleUser, u.Role)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetUser(t *testing.T) {
	tests := []struct {
		name        string
		mockRows    *sqlmock.Rows
		mockError   error
		expectedErr error
	}{
		{
			name:     "existing user",
			mockRows: sqlmock.NewRows(userColumns).AddRow(uuid.New().String(), int64(7), "bob", "moderator", time.Now()),
		},
		{
			name:        "missing user",
			mockError:   sql.ErrNoRows,
			expectedErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewUserRepo(db)
			id := uuid.New()

			expect := mock.ExpectQuery("SELECT id, telegram_id, username, role, created_at FROM users WHERE id = \\$1").WithArgs(id)
			if tt.mockError != nil {
				expect.WillReturnError(tt.mockError)
			} else {
				expect.WillReturnRows(tt.mockRows)
			}

			u, err := repo.GetUser(context.Background(), id)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, u)
			} else {
				require.NoError(t, err)
				assert.True(t, u.IsModerator())
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepo_GetUserByTelegramID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE telegram_id = \\$1").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetUserByTelegramID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_SetRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)
	id := uuid.New()

	mock.ExpectExec("UPDATE users SET role = \\$2 WHERE id = \\$1").
		WithArgs(id, "moderator").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users SET role = \\$2 WHERE id = \\$1").
		WithArgs(id, "moderator").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.SetRole(context.Background(), id, domain.RoleModerator))
	assert.ErrorIs(t, repo.SetRole(context.Background(), id, domain.RoleModerator), domain.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
