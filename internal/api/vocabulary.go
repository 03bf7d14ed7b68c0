package api

import (
	"net/http"

	"glossa/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type vocabularyHandler struct {
	vocabulary *service.VocabularyService
	users      *service.UserService
	logger     *zap.Logger
}

func newVocabularyHandler(vocabulary *service.VocabularyService, users *service.UserService, logger *zap.Logger) *vocabularyHandler {
	return &vocabularyHandler{vocabulary: vocabulary, users: users, logger: logger}
}

func (h *vocabularyHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Post("/{id}/status", h.transition)
	r.Post("/{id}/translations", h.attachTranslation)
}

type createVocabularyRequest struct {
	AuthorID uuid.UUID `json:"author_id"`
	Text     string    `json:"text"`
	Language string    `json:"language"`
}

func (h *vocabularyHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createVocabularyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	author, err := userRef("author_id", req.AuthorID)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	v, err := h.vocabulary.Add(r.Context(), author, req.Text, req.Language)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, newVocabularyView(v))
}

func (h *vocabularyHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	v, err := h.vocabulary.Get(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newVocabularyView(v))
}

func (h *vocabularyHandler) transition(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	next, ok := decodeStatusRequest(w, r, h.users, h.logger)
	if !ok {
		return
	}

	v, err := h.vocabulary.Transition(r.Context(), id, next)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newVocabularyView(v))
}

type attachTranslationRequest struct {
	TranslationID uuid.UUID `json:"translation_id"`
}

func (h *vocabularyHandler) attachTranslation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	var req attachTranslationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	v, err := h.vocabulary.AttachTranslation(r.Context(), id, translationRef(req.TranslationID))
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newVocabularyView(v))
}
