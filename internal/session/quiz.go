package session

import (
	"sort"
	"sync"

	"glossa/internal/domain"

	"github.com/google/uuid"
)

// QuizState is the serialisable form of QuizAnswers
type QuizState struct {
	TestID  uuid.UUID         `json:"test_id"`
	Answers map[uuid.UUID]int `json:"answers"`
}

// Active reports whether a test is in progress
func (s QuizState) Active() bool {
	return s.TestID != uuid.Nil
}

// QuizAnswers holds the answers of the test a user is taking. It changes
// only through Reset and Select.
type QuizAnswers struct {
	mu       sync.Mutex
	state    QuizState
	onChange func(QuizState)
}

func newQuizAnswers(onChange func(QuizState)) *QuizAnswers {
	return &QuizAnswers{
		state:    QuizState{Answers: make(map[uuid.UUID]int)},
		onChange: onChange,
	}
}

// Reset starts testID with no answers. uuid.Nil clears the quiz.
func (q *QuizAnswers) Reset(testID uuid.UUID) {
	q.mu.Lock()
	q.state = QuizState{TestID: testID, Answers: make(map[uuid.UUID]int)}
	snap := q.snapshotLocked()
	q.mu.Unlock()

	q.notify(snap)
}

// Select records option for question, replacing an earlier choice
func (q *QuizAnswers) Select(questionID uuid.UUID, option int) bool {
	q.mu.Lock()
	if !q.state.Active() {
		q.mu.Unlock()
		return false
	}
	q.state.Answers[questionID] = option
	snap := q.snapshotLocked()
	q.mu.Unlock()

	q.notify(snap)
	return true
}

// State returns a copy of the current state
func (q *QuizAnswers) State() QuizState {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

// Answers returns the selections as domain answers ordered by question id
func (q *QuizAnswers) Answers() []domain.Answer {
	st := q.State()
	out := make([]domain.Answer, 0, len(st.Answers))
	for id, opt := range st.Answers {
		out = append(out, domain.Answer{Question: domain.NewRef(domain.KindQuestion, id), SelectedOption: opt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Question.ID.String() < out[j].Question.ID.String() })
	return out
}

func (q *QuizAnswers) restore(st QuizState) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.state = QuizState{TestID: st.TestID, Answers: make(map[uuid.UUID]int, len(st.Answers))}
	for k, v := range st.Answers {
		q.state.Answers[k] = v
	}
}

func (q *QuizAnswers) snapshotLocked() QuizState {
	c := QuizState{TestID: q.state.TestID, Answers: make(map[uuid.UUID]int, len(q.state.Answers))}
	for k, v := range q.state.Answers {
		c.Answers[k] = v
	}
	return c
}

func (q *QuizAnswers) notify(st QuizState) {
	if q.onChange != nil {
		q.onChange(st)
	}
}
