package api

import (
	"fmt"
	"net/http"

	"glossa/internal/domain"
	"glossa/internal/service"
	"glossa/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventSuggestionStatus moves a suggestion to a new moderation status
const EventSuggestionStatus = "suggestion.status"

type eventHandler struct {
	suggestions *service.SuggestionService
	sessions    *session.Manager
	logger      *zap.Logger
}

func newEventHandler(suggestions *service.SuggestionService, sessions *session.Manager, logger *zap.Logger) *eventHandler {
	return &eventHandler{suggestions: suggestions, sessions: sessions, logger: logger}
}

type eventRequest struct {
	Type         string    `json:"type"`
	SuggestionID uuid.UUID `json:"suggestion_id"`
	Status       string    `json:"status"`
}

type eventResponse struct {
	Notified bool           `json:"notified"`
	Item     suggestionView `json:"suggestion"`
}

func (h *eventHandler) handle(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	if req.Type != EventSuggestionStatus {
		respondWithDomainError(w, h.logger, domain.NewValidationError("type", fmt.Sprintf("unsupported event %q", req.Type)))
		return
	}
	next, err := domain.ParseStatus(req.Status)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	s, err := h.suggestions.Transition(r.Context(), req.SuggestionID, next)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	notified := false
	if h.sessions != nil {
		notified = h.sessions.Notify(s.Author.ID, fmt.Sprintf("Your suggestion %q is now %s", s.Text, s.Status))
	}

	h.logger.Info("Event applied",
		zap.String("type", req.Type),
		zap.String("suggestion_id", s.ID.String()),
		zap.String("status", string(s.Status)),
		zap.Bool("notified", notified),
	)
	respondWithJSON(w, http.StatusOK, eventResponse{Notified: notified, Item: newSuggestionView(s)})
}
