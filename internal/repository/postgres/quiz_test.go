package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"glossa/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizRepo_Tests(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewQuizRepo(db)
	level := uuid.New()
	withLevel, without := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT id, title, level_id, created_at FROM tests ORDER BY created_at").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "level_id", "created_at"}).
			AddRow(withLevel.String(), "Basics", level.String(), time.Now()).
			AddRow(without.String(), "Free practice", nil, time.Now()))

	tests, err := repo.ListTests(context.Background())
	require.NoError(t, err)
	require.Len(t, tests, 2)
	require.NotNil(t, tests[0].Level)
	assert.Equal(t, domain.NewRef(domain.KindLevel, level), *tests[0].Level)
	assert.Nil(t, tests[1].Level)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizRepo_CreateQuestion(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewQuizRepo(db)
	test := domain.NewRef(domain.KindTest, uuid.New())
	q, err := domain.NewQuestion(test, "Capital of France?", []string{"Paris", "Lyon"}, 0)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO questions").
		WithArgs(q.ID, "Capital of France?", pq.StringArray{"Paris", "Lyon"}, 0, test.ID).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT (.+) FROM questions WHERE test_id = \\$1").
		WithArgs(test.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "options", "correct_option", "test_id"}).
			AddRow(q.ID.String(), q.Text, "{Paris,Lyon}", 0, test.ID.String()))

	require.NoError(t, repo.CreateQuestion(context.Background(), q))

	list, err := repo.ListQuestions(context.Background(), test.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"Paris", "Lyon"}, list[0].Options)
	assert.Equal(t, test, list[0].Test)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizRepo_ListDrillWords_NullableColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewQuizRepo(db)
	level := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM drill_words").
		WithArgs(level).
		WillReturnRows(sqlmock.NewRows([]string{"id", "word", "translation", "pronunciation", "example", "level_id"}).
			AddRow(uuid.New().String(), "gato", "cat", "ˈɡato", nil, level.String()))

	words, err := repo.ListDrillWords(context.Background(), level)
	require.NoError(t, err)
	require.Len(t, words, 1)
	require.NotNil(t, words[0].Pronunciation)
	assert.Equal(t, "ˈɡato", *words[0].Pronunciation)
	assert.Nil(t, words[0].Example)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizRepo_Progress(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewQuizRepo(db)
	user := domain.UserRef(uuid.New())
	test := domain.NewRef(domain.KindTest, uuid.New())
	question := domain.NewRef(domain.KindQuestion, uuid.New())

	p, err := domain.NewProgress(user, test)
	require.NoError(t, err)
	p.Answers = []domain.Answer{{Question: question, SelectedOption: 1}}
	p.Score = 1
	p.Completed = true

	answersJSON := `[{"question":{"kind":"question","id":"` + question.ID.String() + `"},"selected_option":1}]`

	mock.ExpectExec("INSERT INTO progress (.+) ON CONFLICT \\(user_id, test_id\\)").
		WithArgs(p.ID, user.ID, test.ID, answersJSON, 1, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT (.+) FROM progress").
		WithArgs(user.ID, test.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "test_id", "answers", "score", "completed", "created_at", "updated_at"}).
			AddRow(p.ID.String(), user.ID.String(), test.ID.String(), answersJSON, 1, true, p.CreatedAt, p.UpdatedAt))
	mock.ExpectQuery("SELECT (.+) FROM progress").
		WithArgs(user.ID, question.ID).
		WillReturnError(sql.ErrNoRows)

	require.NoError(t, repo.SaveProgress(context.Background(), p))

	got, err := repo.GetProgress(context.Background(), user.ID, test.ID)
	require.NoError(t, err)
	score, ok := got.Result()
	assert.True(t, ok)
	assert.Equal(t, 1, score)
	assert.Equal(t, p.Answers, got.Answers)

	_, err = repo.GetProgress(context.Background(), user.ID, question.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
