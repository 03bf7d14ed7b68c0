package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PayloadType discriminates ActionPayload variants
type PayloadType string

const (
	PayloadMessage  PayloadType = "message"
	PayloadCommand  PayloadType = "command"
	PayloadCallback PayloadType = "callback"
	PayloadRaw      PayloadType = "raw"
)

type MessagePayload struct {
	ChatID    int64  `json:"chat_id"`
	MessageID int    `json:"message_id"`
	Text      string `json:"text"`
}

type CommandPayload struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

type CallbackPayload struct {
	Unique string `json:"unique,omitempty"`
	Data   string `json:"data"`
}

// ActionPayload holds exactly one of the known update shapes, or an
// opaque blob when the update is not one of them.
type ActionPayload struct {
	Type     PayloadType
	Message  *MessagePayload
	Command  *CommandPayload
	Callback *CallbackPayload
	Raw      json.RawMessage
}

func MessageAction(p MessagePayload) ActionPayload {
	return ActionPayload{Type: PayloadMessage, Message: &p}
}

func CommandAction(p CommandPayload) ActionPayload {
	return ActionPayload{Type: PayloadCommand, Command: &p}
}

func CallbackAction(p CallbackPayload) ActionPayload {
	return ActionPayload{Type: PayloadCallback, Callback: &p}
}

func RawAction(raw json.RawMessage) ActionPayload {
	return ActionPayload{Type: PayloadRaw, Raw: raw}
}

type payloadEnvelope struct {
	Type PayloadType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (p ActionPayload) MarshalJSON() ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch p.Type {
	case PayloadMessage:
		data, err = json.Marshal(p.Message)
	case PayloadCommand:
		data, err = json.Marshal(p.Command)
	case PayloadCallback:
		data, err = json.Marshal(p.Callback)
	case PayloadRaw:
		data = p.Raw
		if len(data) == 0 {
			data = []byte("null")
		}
	default:
		return nil, fmt.Errorf("unknown payload type %q", p.Type)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(payloadEnvelope{Type: p.Type, Data: data})
}

func (p *ActionPayload) UnmarshalJSON(b []byte) error {
	var env payloadEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}

	out := ActionPayload{Type: env.Type}
	switch env.Type {
	case PayloadMessage:
		out.Message = &MessagePayload{}
		if err := json.Unmarshal(env.Data, out.Message); err != nil {
			return err
		}
	case PayloadCommand:
		out.Command = &CommandPayload{}
		if err := json.Unmarshal(env.Data, out.Command); err != nil {
			return err
		}
	case PayloadCallback:
		out.Callback = &CallbackPayload{}
		if err := json.Unmarshal(env.Data, out.Callback); err != nil {
			return err
		}
	default:
		// unknown shapes are kept as opaque blobs
		out.Type = PayloadRaw
		out.Raw = append(json.RawMessage(nil), env.Data...)
	}
	*p = out
	return nil
}

// TelegramUserAction is an audit record of a bot update
type TelegramUserAction struct {
	ID        uuid.UUID
	User      Ref
	Action    string
	Payload   ActionPayload
	CreatedAt time.Time
}

func NewTelegramUserAction(user Ref, action string, payload ActionPayload) (*TelegramUserAction, error) {
	if err := checkRef("user", user, KindUser); err != nil {
		return nil, err
	}
	if action == "" {
		return nil, NewValidationError("action", "is required")
	}
	return &TelegramUserAction{
		ID:        NewID(),
		User:      user,
		Action:    action,
		Payload:   payload,
		CreatedAt: Now(),
	}, nil
}
