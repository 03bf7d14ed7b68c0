package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"glossa/internal/domain"
	"glossa/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrWrongPassword is returned when a moderator promotion uses a bad password
var ErrWrongPassword = errors.New("wrong moderator password")

// UserService handles user registration and moderator access
type UserService struct {
	users             repository.UserRepository
	moderatorPassword string
	logger            *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users repository.UserRepository, moderatorPassword string, logger *zap.Logger) *UserService {
	return &UserService{
		users:             users,
		moderatorPassword: moderatorPassword,
		logger:            logger,
	}
}

// CheckPassword verifies if provided password matches the moderator password
func (s *UserService) CheckPassword(password string) bool {
	if s.moderatorPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.moderatorPassword)) == 1
}

// EnsureUser creates the user record on first contact
func (s *UserService) EnsureUser(ctx context.Context, telegramID int64, username string) (*domain.User, error) {
	u, err := s.users.EnsureUser(ctx, telegramID, username)
	if err != nil {
		return nil, fmt.Errorf("ensure user %d: %w", telegramID, err)
	}
	return u, nil
}

// GetUser returns a user by id
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetUser(ctx, id)
}

// GetByTelegramID returns the user bound to a Telegram account
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	return s.users.GetUserByTelegramID(ctx, telegramID)
}

// PromoteModerator grants the moderator role when password matches
func (s *UserService) PromoteModerator(ctx context.Context, id uuid.UUID, password string) error {
	if !s.CheckPassword(password) {
		s.logger.Warn("Rejected moderator promotion", zap.String("user_id", id.String()))
		return ErrWrongPassword
	}
	if err := s.users.SetRole(ctx, id, domain.RoleModerator); err != nil {
		return fmt.Errorf("promote %s: %w", id, err)
	}
	s.logger.Info("User promoted to moderator", zap.String("user_id", id.String()))
	return nil
}

// IsModerator reports whether the user holds the moderator role
func (s *UserService) IsModerator(ctx context.Context, id uuid.UUID) (bool, error) {
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return false, err
	}
	return u.IsModerator(), nil
}
