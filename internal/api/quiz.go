package api

import (
	"net/http"

	"glossa/internal/domain"
	"glossa/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type quizHandler struct {
	quiz   *service.QuizService
	logger *zap.Logger
}

func newQuizHandler(quiz *service.QuizService, logger *zap.Logger) *quizHandler {
	return &quizHandler{quiz: quiz, logger: logger}
}

func (h *quizHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}/questions", h.questions)
	r.Post("/{id}/progress", h.submit)
	r.Get("/{id}/progress/{userID}", h.progress)
}

type testView struct {
	ID    uuid.UUID   `json:"id"`
	Title string      `json:"title"`
	Level *domain.Ref `json:"level,omitempty"`
}

func (h *quizHandler) list(w http.ResponseWriter, r *http.Request) {
	tests, err := h.quiz.Tests(r.Context())
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	views := make([]testView, 0, len(tests))
	for _, t := range tests {
		views = append(views, testView{ID: t.ID, Title: t.Title, Level: t.Level})
	}
	respondWithJSON(w, http.StatusOK, views)
}

// questionView leaves out the correct option
type questionView struct {
	ID      uuid.UUID `json:"id"`
	Text    string    `json:"text"`
	Options []string  `json:"options"`
}

func (h *quizHandler) questions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	questions, err := h.quiz.Questions(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	views := make([]questionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, questionView{ID: q.ID, Text: q.Text, Options: q.Options})
	}
	respondWithJSON(w, http.StatusOK, views)
}

type answerRequest struct {
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption int       `json:"selected_option"`
}

type submitRequest struct {
	UserID  uuid.UUID       `json:"user_id"`
	Answers []answerRequest `json:"answers"`
}

func (h *quizHandler) submit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	user, err := userRef("user_id", req.UserID)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	answers := make([]domain.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, domain.Answer{
			Question:       domain.NewRef(domain.KindQuestion, a.QuestionID),
			SelectedOption: a.SelectedOption,
		})
	}

	p, err := h.quiz.Submit(r.Context(), user, id, answers)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newProgressView(p))
}

func (h *quizHandler) progress(w http.ResponseWriter, r *http.Request) {
	testID, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	userID, err := pathID(r, "userID")
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	p, err := h.quiz.Progress(r.Context(), userID, testID)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newProgressView(p))
}
