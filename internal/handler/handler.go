// Package handler implements the Telegram bot conversation.
package handler

import (
	"context"
	"sync"

	"glossa/internal/domain"
	"glossa/internal/service"
	"glossa/internal/session"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// UserKey is the context key under which middleware stores the *domain.User
const UserKey = "glossa_user"

// Services are the application services the bot talks to
type Services struct {
	Users       *service.UserService
	Suggestions *service.SuggestionService
	Vocabulary  *service.VocabularyService
	Community   *service.CommunityService
	Quiz        *service.QuizService
}

// Handler manages all bot interactions
type Handler struct {
	bot      *tele.Bot
	svc      Services
	sessions *session.Manager
	logger   *zap.Logger

	// pending text input per Telegram user
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex

	callbackLocks map[int64]*sync.Mutex
	callbackMux   sync.Mutex
}

// NewHandler creates a new handler instance
func NewHandler(bot *tele.Bot, svc Services, sessions *session.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		bot:           bot,
		svc:           svc,
		sessions:      sessions,
		logger:        logger,
		states:        make(map[int64]*domain.StateData),
		callbackLocks: make(map[int64]*sync.Mutex),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/stop", h.handleStop)
	h.bot.Handle("/moderator", h.handleModerator)

	h.bot.Handle(tele.OnText, h.handleText)

	h.bot.Handle(&btnSuggest, h.handleSuggest)
	h.bot.Handle(&btnVocabulary, h.handleVocabulary)
	h.bot.Handle(&btnQueue, h.handleQueue)
	h.bot.Handle(&btnTests, h.handleTests)
	h.bot.Handle(&btnInbox, h.handleInbox)
	h.bot.Handle(&btnCancel, h.handleCancel)
	h.bot.Handle(&btnMainMenu, h.handleMenu)

	// dynamic buttons carry their own data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
}

// lockUser serialises callbacks of one Telegram user
func (h *Handler) lockUser(userID int64) func() {
	h.callbackMux.Lock()
	lock, exists := h.callbackLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		h.callbackLocks[userID] = lock
	}
	h.callbackMux.Unlock()

	lock.Lock()
	return lock.Unlock
}

// currentUser returns the user stored by middleware, registering the sender
// when the handler runs without it.
func (h *Handler) currentUser(c tele.Context) (*domain.User, error) {
	if u, ok := c.Get(UserKey).(*domain.User); ok && u != nil {
		return u, nil
	}
	u, err := h.svc.Users.EnsureUser(context.Background(), c.Sender().ID, c.Sender().Username)
	if err != nil {
		return nil, err
	}
	c.Set(UserKey, u)
	return u, nil
}

// render edits the message behind a callback or sends a new one
func (h *Handler) render(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() != nil {
		if err := c.Edit(text, markup); err != nil {
			if handleErr := h.handleEditError(err, c, c.Sender().ID); handleErr == nil {
				return nil
			}
			return c.Send(text, markup)
		}
		return c.Respond()
	}
	return c.Send(text, markup)
}

func (h *Handler) fail(c tele.Context, msg string, err error) error {
	h.logger.Error(msg, zap.Error(err), zap.Int64("telegram_id", c.Sender().ID))
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: textError})
	}
	return c.Send(textError)
}

const (
	textMenu  = "🏠 Main menu\n\nChoose an action:"
	textError = "Something went wrong. Please try again later."
)

// Inline keyboard buttons
var (
	btnSuggest = tele.Btn{
		Unique: "suggest",
		Text:   "✍️ Suggest a sentence",
	}
	btnVocabulary = tele.Btn{
		Unique: "vocab",
		Text:   "📚 Add a word",
	}
	btnTests = tele.Btn{
		Unique: "tests",
		Text:   "🧩 Take a test",
	}
	btnInbox = tele.Btn{
		Unique: "inbox",
		Text:   "🔔 Notifications",
	}
	btnQueue = tele.Btn{
		Unique: "queue",
		Text:   "🛡 Moderation queue",
	}
	btnCancel = tele.Btn{
		Unique: "cancel",
		Text:   "❌ Cancel",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Main menu",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup(moderator bool) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	rows := []tele.Row{
		menu.Row(btnSuggest),
		menu.Row(btnVocabulary),
		menu.Row(btnTests),
		menu.Row(btnInbox),
	}
	if moderator {
		rows = append(rows, menu.Row(btnQueue))
	}
	menu.Inline(rows...)
	return menu
}

func cancelMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnCancel))
	return markup
}
