package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DialogRole identifies who produced a dialog message
type DialogRole string

const (
	RoleSystem    DialogRole = "system"
	RoleUserTurn  DialogRole = "user"
	RoleAssistant DialogRole = "assistant"
)

// DialogMessage is embedded in a Dialog and has no identity of its own
type DialogMessage struct {
	Role    DialogRole `json:"role"`
	Content string     `json:"content"`
}

// Dialog is an ordered conversation
type Dialog struct {
	ID        uuid.UUID
	User      Ref
	Messages  []DialogMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewDialog(user Ref, messages ...DialogMessage) (*Dialog, error) {
	if err := checkRef("user", user, KindUser); err != nil {
		return nil, err
	}
	now := Now()
	d := &Dialog{
		ID:        NewID(),
		User:      user,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := d.Append(messages...); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dialog) Ref() Ref {
	return NewRef(KindDialog, d.ID)
}

// Append adds messages at the end in the given order
func (d *Dialog) Append(messages ...DialogMessage) error {
	for i, m := range messages {
		switch m.Role {
		case RoleSystem, RoleUserTurn, RoleAssistant:
		default:
			return NewValidationError("messages.role", "is unknown at position "+strconv.Itoa(i))
		}
		if strings.TrimSpace(m.Content) == "" {
			return NewValidationError("messages.content", "is required at position "+strconv.Itoa(i))
		}
	}
	d.Messages = append(d.Messages, messages...)
	d.UpdatedAt = Now()
	return nil
}

// Clone copies the dialog together with its embedded messages
func (d *Dialog) Clone() *Dialog {
	c := *d
	c.Messages = append([]DialogMessage(nil), d.Messages...)
	return &c
}
