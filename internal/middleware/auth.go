// Package middleware holds telebot middlewares shared by every handler.
package middleware

import (
	"context"

	"glossa/internal/handler"
	"glossa/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// EnsureUser registers the sender and stores the *domain.User in the
// context under handler.UserKey
func EnsureUser(users *service.UserService, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			u, err := users.EnsureUser(context.Background(), sender.ID, sender.Username)
			if err != nil {
				logger.Error("Failed to ensure user exists in middleware",
					zap.Int64("telegram_id", sender.ID),
					zap.Error(err),
				)
				return c.Send("Something went wrong. Please try again later.")
			}

			c.Set(handler.UserKey, u)
			return next(c)
		}
	}
}
