package api

import (
	"net/http"

	"glossa/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type communityHandler struct {
	community *service.CommunityService
	logger    *zap.Logger
}

func newCommunityHandler(community *service.CommunityService, logger *zap.Logger) *communityHandler {
	return &communityHandler{community: community, logger: logger}
}

type sendMessageRequest struct {
	SenderID    uuid.UUID `json:"sender_id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Content     string    `json:"content"`
}

func (h *communityHandler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	sender, err := userRef("sender_id", req.SenderID)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	recipient, err := userRef("recipient_id", req.RecipientID)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	m, err := h.community.SendMessage(r.Context(), sender, recipient, req.Content)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, createdView{ID: m.ID})
}

type reportRequest struct {
	UserID         uuid.UUID `json:"user_id"`
	ReportedUserID uuid.UUID `json:"reported_user_id"`
	Reason         string    `json:"reason"`
	Description    string    `json:"description"`
}

func (h *communityHandler) fileReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	user, err := userRef("user_id", req.UserID)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	reported, err := userRef("reported_user_id", req.ReportedUserID)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	rep, err := h.community.Report(r.Context(), user, reported, req.Reason, req.Description)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, createdView{ID: rep.ID})
}

type referralRequest struct {
	ReferringUserID uuid.UUID `json:"referring_user_id"`
	ReferredUserID  uuid.UUID `json:"referred_user_id"`
}

func (h *communityHandler) refer(w http.ResponseWriter, r *http.Request) {
	var req referralRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	referring, err := userRef("referring_user_id", req.ReferringUserID)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	referred, err := userRef("referred_user_id", req.ReferredUserID)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	ref, err := h.community.Refer(r.Context(), referring, referred)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, createdView{ID: ref.ID})
}
