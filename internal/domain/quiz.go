package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Level groups drill words and tests by difficulty
type Level struct {
	ID       uuid.UUID
	Name     string
	Position int
}

func NewLevel(name string, position int) (*Level, error) {
	l := &Level{ID: NewID(), Name: strings.TrimSpace(name), Position: position}
	if l.Name == "" {
		return nil, NewValidationError("name", "is required")
	}
	return l, nil
}

func (l *Level) Ref() Ref {
	return NewRef(KindLevel, l.ID)
}

// DrillWord is a vocabulary-drill card
type DrillWord struct {
	ID            uuid.UUID
	Word          string
	Translation   string
	Pronunciation *string
	Example       *string
	Level         Ref
}

func NewDrillWord(level Ref, word, translation string) (*DrillWord, error) {
	w := &DrillWord{
		ID:          NewID(),
		Word:        strings.TrimSpace(word),
		Translation: strings.TrimSpace(translation),
		Level:       level,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *DrillWord) Validate() error {
	if w.Word == "" {
		return NewValidationError("word", "is required")
	}
	if w.Translation == "" {
		return NewValidationError("translation", "is required")
	}
	return checkRef("level", w.Level, KindLevel)
}

// Test is a set of questions
type Test struct {
	ID        uuid.UUID
	Title     string
	Level     *Ref
	CreatedAt time.Time
}

func NewTest(title string, level *Ref) (*Test, error) {
	t := &Test{ID: NewID(), Title: strings.TrimSpace(title), Level: level}
	if t.Title == "" {
		return nil, NewValidationError("title", "is required")
	}
	if level != nil {
		if err := checkRef("level", *level, KindLevel); err != nil {
			return nil, err
		}
	}
	t.CreatedAt = Now()
	return t, nil
}

func (t *Test) Ref() Ref {
	return NewRef(KindTest, t.ID)
}

// Question is a multiple-choice question of a test
type Question struct {
	ID            uuid.UUID
	Text          string
	Options       []string
	CorrectOption int
	Test          Ref
}

func NewQuestion(test Ref, text string, options []string, correct int) (*Question, error) {
	q := &Question{
		ID:            NewID(),
		Text:          strings.TrimSpace(text),
		Options:       append([]string(nil), options...),
		CorrectOption: correct,
		Test:          test,
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *Question) Ref() Ref {
	return NewRef(KindQuestion, q.ID)
}

func (q *Question) Validate() error {
	if q.Text == "" {
		return NewValidationError("text", "is required")
	}
	if len(q.Options) < 2 {
		return NewValidationError("options", "needs at least two entries")
	}
	for _, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return NewValidationError("options", "must not contain empty entries")
		}
	}
	if !q.ValidOption(q.CorrectOption) {
		return NewValidationError("correct_option", "must index into options")
	}
	return checkRef("test", q.Test, KindTest)
}

// ValidOption reports whether i indexes into the options
func (q *Question) ValidOption(i int) bool {
	return i >= 0 && i < len(q.Options)
}

// Answer is an embedded selection for one question
type Answer struct {
	Question       Ref `json:"question"`
	SelectedOption int `json:"selected_option"`
}

// Progress tracks a user's attempt at a test
type Progress struct {
	ID        uuid.UUID
	User      Ref
	Test      Ref
	Answers   []Answer
	Score     int
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewProgress(user, test Ref) (*Progress, error) {
	if err := checkRef("user_id", user, KindUser); err != nil {
		return nil, err
	}
	if err := checkRef("test_id", test, KindTest); err != nil {
		return nil, err
	}
	now := Now()
	return &Progress{
		ID:        NewID(),
		User:      user,
		Test:      test,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Result returns the score; ok is false until the attempt is completed
func (p *Progress) Result() (score int, ok bool) {
	if !p.Completed {
		return 0, false
	}
	return p.Score, true
}

// Complete grades answers against questions and marks the attempt done.
// Every answer must target a question of this test with an in-range option.
func (p *Progress) Complete(questions []Question, answers []Answer) error {
	byID := make(map[uuid.UUID]*Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	seen := make(map[uuid.UUID]struct{}, len(answers))
	score := 0
	for _, a := range answers {
		if err := checkRef("answers.question", a.Question, KindQuestion); err != nil {
			return err
		}
		q, ok := byID[a.Question.ID]
		if !ok || q.Test != p.Test {
			return NewValidationError("answers.question", a.Question.ID.String()+" does not belong to the test")
		}
		if _, dup := seen[q.ID]; dup {
			return NewValidationError("answers.question", q.ID.String()+" answered twice")
		}
		seen[q.ID] = struct{}{}
		if !q.ValidOption(a.SelectedOption) {
			return NewValidationError("answers.selected_option", "out of range")
		}
		if a.SelectedOption == q.CorrectOption {
			score++
		}
	}

	p.Answers = append([]Answer(nil), answers...)
	p.Score = score
	p.Completed = true
	p.UpdatedAt = Now()
	return nil
}
