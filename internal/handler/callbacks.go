package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"glossa/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// callbackData is a parsed dynamic button payload of the form
// action_id[_arg].
type callbackData struct {
	Action string
	ID     uuid.UUID
	Arg    string
}

func parseCallbackData(data string) (callbackData, error) {
	parts := strings.SplitN(data, "_", 3)
	if len(parts) < 2 {
		return callbackData{}, fmt.Errorf("malformed callback %q", data)
	}
	cb := callbackData{Action: parts[0]}
	if len(parts) == 3 {
		cb.Arg = parts[2]
	}

	// page_N has no id
	if cb.Action == "page" {
		cb.Arg = parts[1]
		return cb, nil
	}

	id, err := uuid.Parse(parts[1])
	if err != nil {
		return callbackData{}, fmt.Errorf("callback %q: %w", data, err)
	}
	cb.ID = id
	return cb, nil
}

func callback(action string, id uuid.UUID, arg ...string) string {
	out := action + "_" + id.String()
	if len(arg) > 0 {
		out += "_" + arg[0]
	}
	return out
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// another callback already edited the message
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("telegram_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("telegram_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	data := cleanCallbackData(cb.Data)
	h.logger.Debug("Processing callback",
		zap.String("data", data),
		zap.String("unique", cb.Unique),
		zap.Int64("telegram_id", c.Sender().ID),
	)

	// static buttons whose Unique did not come through
	switch data {
	case btnSuggest.Unique:
		return h.handleSuggest(c)
	case btnVocabulary.Unique:
		return h.handleVocabulary(c)
	case btnQueue.Unique:
		return h.handleQueue(c)
	case btnTests.Unique:
		return h.handleTests(c)
	case btnInbox.Unique:
		return h.handleInbox(c)
	case btnCancel.Unique, btnMainMenu.Unique:
		return h.handleMenu(c)
	}

	parsed, err := parseCallbackData(data)
	if err != nil {
		h.logger.Warn("Unhandled callback", zap.String("data", data), zap.Error(err))
		return c.Respond()
	}

	unlock := h.lockUser(c.Sender().ID)
	defer unlock()

	switch parsed.Action {
	case "page":
		page, err := strconv.Atoi(parsed.Arg)
		if err != nil {
			return c.Respond(&tele.CallbackResponse{Text: "Invalid page"})
		}
		return h.showQueue(c, page)
	case "sug":
		return h.showSuggestion(c, parsed.ID)
	case "st":
		return h.changeStatus(c, parsed.ID, parsed.Arg)
	case "rep":
		return h.startReport(c, parsed.ID)
	case "test":
		return h.startTest(c, parsed.ID)
	case "ans":
		return h.answer(c, parsed.ID, parsed.Arg)
	}

	h.logger.Warn("Unhandled callback", zap.String("data", data))
	return c.Respond()
}

// requireModerator answers the callback when the user may not moderate
func (h *Handler) requireModerator(c tele.Context) (*domain.User, bool, error) {
	u, err := h.currentUser(c)
	if err != nil {
		return nil, false, h.fail(c, "Failed to ensure user exists", err)
	}
	if !u.IsModerator() {
		return u, false, c.Respond(&tele.CallbackResponse{Text: "Moderators only. Use /moderator.", ShowAlert: true})
	}
	return u, true, nil
}

// handleQueue shows the first page of new suggestions
func (h *Handler) handleQueue(c tele.Context) error {
	return h.showQueue(c, 1)
}

func (h *Handler) showQueue(c tele.Context, page int) error {
	if _, ok, err := h.requireModerator(c); !ok {
		return err
	}

	items, totalPages, err := h.svc.Suggestions.List(context.Background(), domain.StatusNew, page)
	if err != nil {
		return h.fail(c, "Failed to list suggestions", err)
	}
	if len(items) == 0 {
		return h.render(c, "🛡 The queue is empty.", backMarkup())
	}

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}
	for _, s := range items {
		rows = append(rows, markup.Row(markup.Data(truncate(s.Text, 40), callback("sug", s.ID))))
	}

	if totalPages > 1 {
		navRow := tele.Row{}
		if page > 1 {
			navRow = append(navRow, markup.Data("⬅️", fmt.Sprintf("page_%d", page-1)))
		}
		if page < totalPages {
			navRow = append(navRow, markup.Data("➡️", fmt.Sprintf("page_%d", page+1)))
		}
		if len(navRow) > 0 {
			rows = append(rows, navRow)
		}
	}
	rows = append(rows, markup.Row(btnMainMenu))
	markup.Inline(rows...)

	return h.render(c, fmt.Sprintf("🛡 New suggestions (page %d of %d):", page, totalPages), markup)
}

func (h *Handler) showSuggestion(c tele.Context, id uuid.UUID) error {
	if _, ok, err := h.requireModerator(c); !ok {
		return err
	}

	s, err := h.svc.Suggestions.Get(context.Background(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Respond(&tele.CallbackResponse{Text: "Suggestion not found"})
	}
	if err != nil {
		return h.fail(c, "Failed to get suggestion", err)
	}

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}
	actions := tele.Row{}
	for _, next := range []domain.Status{domain.StatusProcessing, domain.StatusAccepted, domain.StatusRejected} {
		if domain.CanTransition(s.Status, next) {
			actions = append(actions, markup.Data(statusLabel(next), callback("st", s.ID, string(next))))
		}
	}
	if len(actions) > 0 {
		rows = append(rows, actions)
	}
	rows = append(rows,
		markup.Row(markup.Data("🚩 Report author", callback("rep", s.ID))),
		markup.Row(markup.Data("◀️ Back to queue", "page_1")),
	)
	markup.Inline(rows...)

	text := fmt.Sprintf("📝 %s\n\nLanguage: %s\nStatus: %s\nContributors: %d",
		s.Text, s.Language, s.Status, len(s.Contributors))
	return h.render(c, text, markup)
}

func (h *Handler) changeStatus(c tele.Context, id uuid.UUID, status string) error {
	mod, ok, err := h.requireModerator(c)
	if !ok {
		return err
	}

	next, err := domain.ParseStatus(status)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown status"})
	}

	s, err := h.svc.Suggestions.Transition(context.Background(), id, next)
	if errors.Is(err, domain.ErrInvalidTransition) {
		return c.Respond(&tele.CallbackResponse{Text: err.Error(), ShowAlert: true})
	}
	if err != nil {
		return h.fail(c, "Failed to change suggestion status", err)
	}

	h.logger.Info("Suggestion moderated via bot",
		zap.String("suggestion_id", s.ID.String()),
		zap.String("status", string(s.Status)),
		zap.String("moderator_id", mod.ID.String()),
	)
	h.sessions.Notify(s.Author.ID, fmt.Sprintf("Your suggestion %q is now %s", s.Text, s.Status))

	return h.showSuggestion(c, s.ID)
}

func (h *Handler) startReport(c tele.Context, suggestionID uuid.UUID) error {
	s, err := h.svc.Suggestions.Get(context.Background(), suggestionID)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Respond(&tele.CallbackResponse{Text: "Suggestion not found"})
	}
	if err != nil {
		return h.fail(c, "Failed to get suggestion", err)
	}

	h.SetState(c.Sender().ID, &domain.StateData{
		State:    domain.StateWaitingReportReason,
		TargetID: s.Author.ID,
	})
	return h.render(c, "🚩 Why are you reporting this author?", cancelMarkup())
}

func statusLabel(s domain.Status) string {
	switch s {
	case domain.StatusProcessing:
		return "⏳ Processing"
	case domain.StatusAccepted:
		return "✅ Accept"
	case domain.StatusRejected:
		return "❌ Reject"
	}
	return string(s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
