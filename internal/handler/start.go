package handler

import (
	"context"
	"fmt"
	"strings"

	"glossa/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart registers the user, opens a session and shows the menu
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("telegram_id", userID),
		zap.String("username", c.Sender().Username),
	)

	u, err := h.currentUser(c)
	if err != nil {
		return h.fail(c, "Failed to ensure user exists", err)
	}

	h.sessions.Start(context.Background(), u.ID)
	h.ResetState(userID)
	return c.Send(textMenu, mainMenuMarkup(u.IsModerator()))
}

// handleStop ends the session and drops any pending input
func (h *Handler) handleStop(c tele.Context) error {
	u, err := h.currentUser(c)
	if err != nil {
		return h.fail(c, "Failed to ensure user exists", err)
	}

	h.ResetState(c.Sender().ID)
	if !h.sessions.End(context.Background(), u.ID) {
		return c.Send("No active session. Send /start to begin.")
	}
	return c.Send("👋 Session closed. Send /start to come back.")
}

// handleMenu shows the main menu without restarting the session
func (h *Handler) handleMenu(c tele.Context) error {
	u, err := h.currentUser(c)
	if err != nil {
		return h.fail(c, "Failed to ensure user exists", err)
	}
	h.ResetState(c.Sender().ID)
	return h.render(c, textMenu, mainMenuMarkup(u.IsModerator()))
}

// handleCancel cancels current operation and resets state
func (h *Handler) handleCancel(c tele.Context) error {
	return h.handleMenu(c)
}

// handleModerator asks for the moderator password
func (h *Handler) handleModerator(c tele.Context) error {
	u, err := h.currentUser(c)
	if err != nil {
		return h.fail(c, "Failed to ensure user exists", err)
	}
	if u.IsModerator() {
		return c.Send("You are already a moderator.", mainMenuMarkup(true))
	}

	h.SetState(c.Sender().ID, &domain.StateData{State: domain.StateWaitingPassword})
	return c.Send("Enter the moderator password:", cancelMarkup())
}

// handleInbox lists the notifications of the live session
func (h *Handler) handleInbox(c tele.Context) error {
	u, err := h.currentUser(c)
	if err != nil {
		return h.fail(c, "Failed to ensure user exists", err)
	}

	s, ok := h.sessions.Get(u.ID)
	if !ok {
		return h.render(c, "No active session. Send /start to begin.", backMarkup())
	}

	items := s.Notifications.List()
	if len(items) == 0 {
		return h.render(c, "🔔 Nothing new.", backMarkup())
	}

	var b strings.Builder
	b.WriteString("🔔 Notifications:\n\n")
	for _, n := range items {
		fmt.Fprintf(&b, "• %s\n", n.Text)
	}
	return h.render(c, b.String(), backMarkup())
}

func backMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnMainMenu))
	return markup
}
