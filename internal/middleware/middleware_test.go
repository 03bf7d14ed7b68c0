package middleware

import (
	"context"
	"errors"
	"testing"

	"glossa/internal/domain"
	"glossa/internal/handler"
	"glossa/internal/repository/memory"
	"glossa/internal/service"
	"glossa/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

func TestEnsureUser_StoresUser(t *testing.T) {
	store, _ := testutil.NewMemoryStore()
	users := service.NewUserService(store.Users, "pw", testutil.NewTestLogger())

	var seen *domain.User
	next := func(c tele.Context) error {
		seen, _ = c.Get(handler.UserKey).(*domain.User)
		return nil
	}

	c := testutil.NewTextContext(10, "zoe", "hi")
	require.NoError(t, EnsureUser(users, testutil.NewTestLogger())(next)(c))

	require.NotNil(t, seen)
	assert.Equal(t, int64(10), seen.TelegramID)
	assert.Equal(t, "zoe", seen.Username)
}

func TestEnsureUser_RepositoryError(t *testing.T) {
	repo := new(testutil.MockUserRepository)
	repo.On("EnsureUser", mock.Anything, int64(10), "zoe").Return(nil, errors.New("db down"))
	users := service.NewUserService(repo, "pw", testutil.NewTestLogger())

	called := false
	next := func(c tele.Context) error {
		called = true
		return nil
	}

	c := testutil.NewTextContext(10, "zoe", "hi")
	require.NoError(t, EnsureUser(users, testutil.NewTestLogger())(next)(c))

	assert.False(t, called)
	assert.Contains(t, c.Output(), "Something went wrong")
	repo.AssertExpectations(t)
}

func TestLogActions(t *testing.T) {
	user := testutil.NewTestUser(10, domain.RoleUser)

	tests := []struct {
		name       string
		ctx        *testutil.FakeContext
		wantAction string
		check      func(t *testing.T, p domain.ActionPayload)
	}{
		{
			name:       "command",
			ctx:        testutil.NewTextContext(10, "zoe", "/start@glossa_bot ref42"),
			wantAction: "command",
			check: func(t *testing.T, p domain.ActionPayload) {
				require.NotNil(t, p.Command)
				assert.Equal(t, "/start", p.Command.Command)
				assert.Equal(t, []string{"ref42"}, p.Command.Args)
			},
		},
		{
			name:       "message",
			ctx:        testutil.NewTextContext(10, "zoe", "hola"),
			wantAction: "message",
			check: func(t *testing.T, p domain.ActionPayload) {
				require.NotNil(t, p.Message)
				assert.Equal(t, "hola", p.Message.Text)
				assert.Equal(t, int64(10), p.Message.ChatID)
			},
		},
		{
			name:       "callback",
			ctx:        testutil.NewCallbackContext(10, "zoe", "page_2"),
			wantAction: "callback",
			check: func(t *testing.T, p domain.ActionPayload) {
				require.NotNil(t, p.Callback)
				assert.Equal(t, "page_2", p.Callback.Data)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockActionRepository)
			var logged *domain.TelegramUserAction
			repo.On("LogAction", mock.Anything, mock.AnythingOfType("*domain.TelegramUserAction")).
				Run(func(args mock.Arguments) { logged = args.Get(1).(*domain.TelegramUserAction) }).
				Return(nil)

			tt.ctx.Set(handler.UserKey, user)
			next := func(tele.Context) error { return nil }
			require.NoError(t, LogActions(repo, testutil.NewTestLogger())(next)(tt.ctx))

			require.NotNil(t, logged)
			assert.Equal(t, tt.wantAction, logged.Action)
			assert.Equal(t, user.Ref(), logged.User)
			tt.check(t, logged.Payload)
			repo.AssertExpectations(t)
		})
	}
}

func TestLogActions_FailureDoesNotBlock(t *testing.T) {
	repo := new(testutil.MockActionRepository)
	repo.On("LogAction", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	c := testutil.NewTextContext(10, "zoe", "hola")
	c.Set(handler.UserKey, testutil.NewTestUser(10, domain.RoleUser))

	called := false
	next := func(tele.Context) error {
		called = true
		return nil
	}
	require.NoError(t, LogActions(repo, testutil.NewTestLogger())(next)(c))
	assert.True(t, called)
}

func TestLogActions_SkipsUnknownUser(t *testing.T) {
	repo := new(testutil.MockActionRepository)
	c := testutil.NewTextContext(10, "zoe", "hola")

	require.NoError(t, LogActions(repo, testutil.NewTestLogger())(func(tele.Context) error { return nil })(c))
	repo.AssertNotCalled(t, "LogAction", mock.Anything, mock.Anything)
}

func TestChain_WithMemoryStore(t *testing.T) {
	db := memory.New()
	store := db.Store()
	users := service.NewUserService(store.Users, "pw", testutil.NewTestLogger())
	chain := EnsureUser(users, testutil.NewTestLogger())(
		LogActions(store.Actions, testutil.NewTestLogger())(func(tele.Context) error { return nil }),
	)

	require.NoError(t, chain(testutil.NewTextContext(11, "yan", "/stop")))

	u, err := users.GetByTelegramID(context.Background(), 11)
	require.NoError(t, err)
	actions := db.Actions()
	require.Len(t, actions, 1)
	assert.Equal(t, u.Ref(), actions[0].User)
	assert.Equal(t, "/stop", actions[0].Payload.Command.Command)
}
