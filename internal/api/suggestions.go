package api

import (
	"context"
	"net/http"
	"strconv"

	"glossa/internal/domain"
	"glossa/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type suggestionHandler struct {
	suggestions *service.SuggestionService
	users       *service.UserService
	logger      *zap.Logger
}

func newSuggestionHandler(suggestions *service.SuggestionService, users *service.UserService, logger *zap.Logger) *suggestionHandler {
	return &suggestionHandler{suggestions: suggestions, users: users, logger: logger}
}

func (h *suggestionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/contributors", h.addContributor)
	r.Post("/{id}/status", h.transition)
}

type createSuggestionRequest struct {
	AuthorID uuid.UUID `json:"author_id"`
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Dialect  string    `json:"dialect"`
}

func (h *suggestionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createSuggestionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	author, err := userRef("author_id", req.AuthorID)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	s, err := h.suggestions.Submit(r.Context(), author, req.Text, req.Language, req.Dialect)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, newSuggestionView(s))
}

type suggestionPage struct {
	Items      []suggestionView `json:"items"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

func (h *suggestionHandler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}

	list, total, err := h.suggestions.List(r.Context(), domain.Status(r.URL.Query().Get("status")), page)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	items := make([]suggestionView, 0, len(list))
	for i := range list {
		items = append(items, newSuggestionView(&list[i]))
	}
	respondWithJSON(w, http.StatusOK, suggestionPage{Items: items, Page: page, TotalPages: total})
}

func (h *suggestionHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	s, err := h.suggestions.Get(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newSuggestionView(s))
}

type contributorRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

func (h *suggestionHandler) addContributor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	var req contributorRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	user, err := userRef("user_id", req.UserID)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	s, err := h.suggestions.AddContributor(r.Context(), id, user)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newSuggestionView(s))
}

type statusRequest struct {
	ModeratorID uuid.UUID `json:"moderator_id"`
	Status      string    `json:"status"`
}

// decodeStatusRequest reads a status change and checks the caller is a
// moderator. It writes the error response itself and reports success.
func decodeStatusRequest(w http.ResponseWriter, r *http.Request, users *service.UserService, logger *zap.Logger) (domain.Status, bool) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithDomainError(w, logger, err)
		return "", false
	}
	next, err := domain.ParseStatus(req.Status)
	if err != nil {
		respondWithDomainError(w, logger, err)
		return "", false
	}
	if !requireModerator(r.Context(), w, users, req.ModeratorID, logger) {
		return "", false
	}
	return next, true
}

func requireModerator(ctx context.Context, w http.ResponseWriter, users *service.UserService, id uuid.UUID, logger *zap.Logger) bool {
	if id == uuid.Nil {
		respondWithError(w, http.StatusForbidden, errNotModerator.Error())
		return false
	}
	ok, err := users.IsModerator(ctx, id)
	if err != nil {
		respondWithDomainError(w, logger, err)
		return false
	}
	if !ok {
		respondWithError(w, http.StatusForbidden, errNotModerator.Error())
		return false
	}
	return true
}

func (h *suggestionHandler) transition(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	next, ok := decodeStatusRequest(w, r, h.users, h.logger)
	if !ok {
		return
	}

	s, err := h.suggestions.Transition(r.Context(), id, next)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newSuggestionView(s))
}
