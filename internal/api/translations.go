package api

import (
	"net/http"

	"glossa/internal/domain"
	"glossa/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type translationHandler struct {
	translations *service.TranslationService
	logger       *zap.Logger
}

func newTranslationHandler(translations *service.TranslationService, logger *zap.Logger) *translationHandler {
	return &translationHandler{translations: translations, logger: logger}
}

func (h *translationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.accept)
	r.Get("/{id}", h.get)
	r.Post("/{id}/votes", h.vote)
}

func translationRef(id uuid.UUID) domain.Ref {
	return domain.NewRef(domain.KindTranslation, id)
}

type acceptTranslationRequest struct {
	AuthorID    uuid.UUID       `json:"author_id"`
	Sentence    domain.TextUnit `json:"sentence"`
	Translation domain.TextUnit `json:"translation"`
}

func (h *translationHandler) accept(w http.ResponseWriter, r *http.Request) {
	var req acceptTranslationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	author, err := userRef("author_id", req.AuthorID)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	t, err := h.translations.Accept(r.Context(), author, req.Sentence, req.Translation)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, newTranslationView(t))
}

func (h *translationHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	t, err := h.translations.Get(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newTranslationView(t))
}

type voteRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Value  int       `json:"value"`
}

func (h *translationHandler) vote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	var req voteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	user, err := userRef("user_id", req.UserID)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	v, err := h.translations.Vote(r.Context(), id, user, req.Value)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, createdView{ID: v.ID})
}
