package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is a direct message between two users
type Message struct {
	ID        uuid.UUID
	Sender    Ref
	Recipient Ref
	Content   string
	Timestamp time.Time
	IsRead    bool
}

func NewMessage(sender, recipient Ref, content string) (*Message, error) {
	m := &Message{
		ID:        NewID(),
		Sender:    sender,
		Recipient: recipient,
		Content:   strings.TrimSpace(content),
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.Timestamp = Now()
	return m, nil
}

func (m *Message) Validate() error {
	if m.Content == "" {
		return NewValidationError("content", "is required")
	}
	if err := checkRef("sender", m.Sender, KindUser); err != nil {
		return err
	}
	return checkRef("recipient", m.Recipient, KindUser)
}

// IsSelfReferential reports a message sent to its own sender
func (m *Message) IsSelfReferential() bool {
	return m.Sender == m.Recipient
}

func (m *Message) References() []Ref {
	return []Ref{m.Sender, m.Recipient}
}

// Referral links the user who invited to the user who joined
type Referral struct {
	ID        uuid.UUID
	Referring Ref
	Referred  Ref
	Date      time.Time
}

func NewReferral(referring, referred Ref) (*Referral, error) {
	r := &Referral{
		ID:        NewID(),
		Referring: referring,
		Referred:  referred,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.Date = Now()
	return r, nil
}

func (r *Referral) Validate() error {
	if err := checkRef("referring_user_id", r.Referring, KindUser); err != nil {
		return err
	}
	return checkRef("referred_user_id", r.Referred, KindUser)
}

func (r *Referral) IsSelfReferential() bool {
	return r.Referring == r.Referred
}

func (r *Referral) References() []Ref {
	return []Ref{r.Referring, r.Referred}
}

// Report is a complaint filed by one user against another
type Report struct {
	ID           uuid.UUID
	User         Ref
	ReportedUser Ref
	Reason       string
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewReport(user, reported Ref, reason, description string) (*Report, error) {
	r := &Report{
		ID:           NewID(),
		User:         user,
		ReportedUser: reported,
		Reason:       strings.TrimSpace(reason),
		Description:  strings.TrimSpace(description),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	now := Now()
	r.CreatedAt = now
	r.UpdatedAt = now
	return r, nil
}

func (r *Report) Validate() error {
	if r.Reason == "" {
		return NewValidationError("reason", "is required")
	}
	if err := checkRef("user_id", r.User, KindUser); err != nil {
		return err
	}
	return checkRef("reported_user_id", r.ReportedUser, KindUser)
}

func (r *Report) References() []Ref {
	return []Ref{r.User, r.ReportedUser}
}
