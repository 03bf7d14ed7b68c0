package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"glossa/internal/domain"
	"glossa/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const defaultLanguage = "en"

func senderLanguage(c tele.Context) string {
	if code := strings.TrimSpace(c.Sender().LanguageCode); code != "" {
		return code
	}
	return defaultLanguage
}

// handleSuggest waits for a sentence to submit
func (h *Handler) handleSuggest(c tele.Context) error {
	h.SetState(c.Sender().ID, &domain.StateData{
		State:    domain.StateWaitingSentence,
		Language: senderLanguage(c),
	})
	return h.render(c, "✍️ Send the sentence you want translated:", cancelMarkup())
}

// handleVocabulary waits for a word to add
func (h *Handler) handleVocabulary(c tele.Context) error {
	h.SetState(c.Sender().ID, &domain.StateData{
		State:    domain.StateWaitingWord,
		Language: senderLanguage(c),
	})
	return h.render(c, "📚 Send the word to add:", cancelMarkup())
}

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// commands have their own handlers
	if strings.HasPrefix(text, "/") {
		return nil
	}

	u, err := h.currentUser(c)
	if err != nil {
		return h.fail(c, "Failed to ensure user exists", err)
	}

	state := h.GetState(userID)

	switch state.State {
	case domain.StateWaitingPassword:
		return h.promote(c, u, text)

	case domain.StateWaitingSentence:
		return h.submitSentence(c, u, state, text)

	case domain.StateWaitingWord:
		return h.addWord(c, u, state, text)

	case domain.StateWaitingReportReason:
		return h.fileReport(c, u, state, text)

	default:
		return c.Send(textMenu, mainMenuMarkup(u.IsModerator()))
	}
}

func (h *Handler) promote(c tele.Context, u *domain.User, password string) error {
	err := h.svc.Users.PromoteModerator(context.Background(), u.ID, password)
	if errors.Is(err, service.ErrWrongPassword) {
		return c.Send("Wrong password.", cancelMarkup())
	}
	if err != nil {
		return h.fail(c, "Failed to promote user", err)
	}

	u.Role = domain.RoleModerator
	h.ResetState(c.Sender().ID)
	return c.Send("✅ You are now a moderator.\n\n"+textMenu, mainMenuMarkup(true))
}

func (h *Handler) submitSentence(c tele.Context, u *domain.User, state *domain.StateData, text string) error {
	s, err := h.svc.Suggestions.Submit(context.Background(), u.Ref(), text, state.Language, "")
	if errors.Is(err, domain.ErrValidation) {
		return c.Send("That does not look like a sentence. Try again.", cancelMarkup())
	}
	if err != nil {
		return h.fail(c, "Failed to submit suggestion", err)
	}

	h.logger.Info("Suggestion submitted via bot",
		zap.Int64("telegram_id", c.Sender().ID),
		zap.String("suggestion_id", s.ID.String()),
	)

	// keep accepting sentences until the user cancels
	return c.Send("✅ Thanks! Your sentence is waiting for moderation.\n\nSend another one or go back to the menu.", backMarkup())
}

func (h *Handler) addWord(c tele.Context, u *domain.User, state *domain.StateData, text string) error {
	ctx := context.Background()

	v, err := h.svc.Vocabulary.Add(ctx, u.Ref(), text, state.Language)
	switch {
	case errors.Is(err, domain.ErrConflict):
		existing, findErr := h.svc.Vocabulary.Find(ctx, text, state.Language)
		if findErr != nil {
			return h.fail(c, "Failed to find vocabulary", findErr)
		}
		if _, err := h.svc.Vocabulary.AddContributor(ctx, existing.ID, u.Ref()); err != nil {
			return h.fail(c, "Failed to add contributor", err)
		}
		return c.Send(fmt.Sprintf("📚 %q is already known. You were added as a contributor.", existing.Text), backMarkup())
	case errors.Is(err, domain.ErrValidation):
		return c.Send("Please send a word.", cancelMarkup())
	case err != nil:
		return h.fail(c, "Failed to add vocabulary", err)
	}

	h.logger.Info("Vocabulary added via bot",
		zap.Int64("telegram_id", c.Sender().ID),
		zap.String("vocabulary_id", v.ID.String()),
	)
	return c.Send(fmt.Sprintf("✅ Added %q.\n\nSend another word or go back to the menu.", v.Text), backMarkup())
}

func (h *Handler) fileReport(c tele.Context, u *domain.User, state *domain.StateData, reason string) error {
	_, err := h.svc.Community.Report(context.Background(), u.Ref(), domain.UserRef(state.TargetID), reason, "")
	if errors.Is(err, domain.ErrValidation) {
		return c.Send("Please describe the reason.", cancelMarkup())
	}
	if err != nil {
		return h.fail(c, "Failed to file report", err)
	}

	h.ResetState(c.Sender().ID)
	return c.Send("🚩 Report filed. Thank you.", backMarkup())
}
