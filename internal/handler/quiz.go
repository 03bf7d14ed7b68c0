package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"glossa/internal/domain"
	"glossa/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleTests lists the available tests
func (h *Handler) handleTests(c tele.Context) error {
	tests, err := h.svc.Quiz.Tests(context.Background())
	if err != nil {
		return h.fail(c, "Failed to list tests", err)
	}
	if len(tests) == 0 {
		return h.render(c, "🧩 No tests yet.", backMarkup())
	}

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}
	for _, t := range tests {
		rows = append(rows, markup.Row(markup.Data(t.Title, callback("test", t.ID))))
	}
	rows = append(rows, markup.Row(btnMainMenu))
	markup.Inline(rows...)

	return h.render(c, "🧩 Pick a test:", markup)
}

func (h *Handler) quizSession(c tele.Context) (*domain.User, *session.Session, error) {
	u, err := h.currentUser(c)
	if err != nil {
		return nil, nil, err
	}
	s, ok := h.sessions.Get(u.ID)
	if !ok {
		s = h.sessions.Start(context.Background(), u.ID)
	}
	return u, s, nil
}

func (h *Handler) startTest(c tele.Context, testID uuid.UUID) error {
	_, s, err := h.quizSession(c)
	if err != nil {
		return h.fail(c, "Failed to open session", err)
	}

	if _, err := h.svc.Quiz.GetTest(context.Background(), testID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Respond(&tele.CallbackResponse{Text: "Test not found"})
		}
		return h.fail(c, "Failed to get test", err)
	}

	s.Quiz.Reset(testID)
	return h.nextQuestion(c, s)
}

func (h *Handler) answer(c tele.Context, questionID uuid.UUID, arg string) error {
	option, err := strconv.Atoi(arg)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Invalid option"})
	}

	_, s, err := h.quizSession(c)
	if err != nil {
		return h.fail(c, "Failed to open session", err)
	}
	if !s.Quiz.Select(questionID, option) {
		return c.Respond(&tele.CallbackResponse{Text: "Start a test first", ShowAlert: true})
	}
	return h.nextQuestion(c, s)
}

// nextQuestion shows the first unanswered question or submits the test
func (h *Handler) nextQuestion(c tele.Context, s *session.Session) error {
	ctx := context.Background()
	state := s.Quiz.State()

	questions, err := h.svc.Quiz.Questions(ctx, state.TestID)
	if err != nil {
		return h.fail(c, "Failed to list questions", err)
	}

	for i, q := range questions {
		if _, done := state.Answers[q.ID]; done {
			continue
		}

		markup := &tele.ReplyMarkup{}
		rows := []tele.Row{}
		for opt, label := range q.Options {
			rows = append(rows, markup.Row(markup.Data(label, callback("ans", q.ID, strconv.Itoa(opt)))))
		}
		rows = append(rows, markup.Row(btnMainMenu))
		markup.Inline(rows...)

		return h.render(c, fmt.Sprintf("❓ %d/%d\n\n%s", i+1, len(questions), q.Text), markup)
	}

	return h.submitTest(c, s, len(questions))
}

func (h *Handler) submitTest(c tele.Context, s *session.Session, total int) error {
	u, err := h.currentUser(c)
	if err != nil {
		return h.fail(c, "Failed to ensure user exists", err)
	}

	testID := s.Quiz.State().TestID
	p, err := h.svc.Quiz.Submit(context.Background(), u.Ref(), testID, s.Quiz.Answers())
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			s.Quiz.Reset(uuid.Nil)
			return h.render(c, "The test changed while you were taking it. Please start again.", backMarkup())
		}
		return h.fail(c, "Failed to submit test", err)
	}
	s.Quiz.Reset(uuid.Nil)

	h.logger.Debug("Quiz finished via bot",
		zap.String("user_id", u.ID.String()),
		zap.String("test_id", testID.String()),
	)
	return h.render(c, fmt.Sprintf("🏁 Done! Score: %d/%d", p.Score, total), backMarkup())
}
