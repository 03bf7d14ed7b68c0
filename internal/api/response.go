package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"glossa/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to marshal response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithDomainError maps err to a status and logs server-side failures
func respondWithDomainError(w http.ResponseWriter, logger *zap.Logger, err error) {
	code := domain.HTTPStatus(err)
	if code >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Error(err))
	}
	respondWithJSON(w, code, errorResponse{Error: err.Error()})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.NewValidationError("body", err.Error())
	}
	return nil
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, domain.NewValidationError(name, "must be a uuid")
	}
	return id, nil
}

func userRef(field string, id uuid.UUID) (domain.Ref, error) {
	if id == uuid.Nil {
		return domain.Ref{}, domain.NewValidationError(field, "is required")
	}
	return domain.UserRef(id), nil
}

var errNotModerator = errors.New("moderator role required")
