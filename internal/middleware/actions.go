package middleware

import (
	"context"
	"encoding/json"
	"strings"

	"glossa/internal/domain"
	"glossa/internal/handler"
	"glossa/internal/repository"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// LogActions records every update of a known user as a TelegramUserAction.
// Failures are logged and never block the update.
func LogActions(actions repository.ActionRepository, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			u, ok := c.Get(handler.UserKey).(*domain.User)
			if ok && u != nil {
				name, payload := describe(c)
				a, err := domain.NewTelegramUserAction(u.Ref(), name, payload)
				if err == nil {
					err = actions.LogAction(context.Background(), a)
				}
				if err != nil {
					logger.Warn("Failed to log user action",
						zap.String("user_id", u.ID.String()),
						zap.String("action", name),
						zap.Error(err),
					)
				}
			}
			return next(c)
		}
	}
}

// describe classifies an update into an action name and payload
func describe(c tele.Context) (string, domain.ActionPayload) {
	if cb := c.Callback(); cb != nil {
		return "callback", domain.CallbackAction(domain.CallbackPayload{
			Unique: cb.Unique,
			Data:   strings.TrimSpace(strings.TrimPrefix(cb.Data, "\f")),
		})
	}

	if msg := c.Message(); msg != nil {
		text := strings.TrimSpace(msg.Text)
		if strings.HasPrefix(text, "/") {
			fields := strings.Fields(text)
			command := strings.SplitN(fields[0], "@", 2)[0]
			return "command", domain.CommandAction(domain.CommandPayload{
				Command: command,
				Args:    fields[1:],
			})
		}

		var chatID int64
		if msg.Chat != nil {
			chatID = msg.Chat.ID
		}
		return "message", domain.MessageAction(domain.MessagePayload{
			ChatID:    chatID,
			MessageID: msg.ID,
			Text:      text,
		})
	}

	raw, err := json.Marshal(c.Update())
	if err != nil {
		raw = json.RawMessage(`{}`)
	}
	return "update", domain.RawAction(raw)
}
