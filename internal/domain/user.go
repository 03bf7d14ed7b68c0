package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role controls access to moderation
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
)

// User represents a registered person, usually arriving through the bot
type User struct {
	ID         uuid.UUID
	TelegramID int64
	Username   string
	Role       Role
	CreatedAt  time.Time
}

// Ref returns a reference to the user
func (u *User) Ref() Ref {
	return UserRef(u.ID)
}

// IsModerator reports whether the user may change statuses
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

// UserState represents user's current interaction state in the bot
type UserState string

const (
	StateIdle                UserState = "idle"
	StateWaitingSentence     UserState = "waiting_sentence"
	StateWaitingWord         UserState = "waiting_word"
	StateWaitingTranslation  UserState = "waiting_translation"
	StateWaitingPassword     UserState = "waiting_password"
	StateWaitingReportReason UserState = "waiting_report_reason"
)

// StateData holds temporary data for user's current state
type StateData struct {
	State     UserState
	Language  string
	TargetID  uuid.UUID // suggestion or user the pending input refers to
	MessageID int       // For editing messages
}
