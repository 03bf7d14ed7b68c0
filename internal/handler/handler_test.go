package handler

import (
	"context"
	"testing"

	"glossa/internal/domain"
	"glossa/internal/repository"
	"glossa/internal/service"
	"glossa/internal/session"
	"glossa/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "letmein"

type harness struct {
	h        *Handler
	store    *repository.Store
	svc      Services
	sessions *session.Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logger := testutil.NewTestLogger()
	store, registry := testutil.NewMemoryStore()
	svc := Services{
		Users:       service.NewUserService(store.Users, testPassword, logger),
		Suggestions: service.NewSuggestionService(store.Suggestions, registry, logger),
		Vocabulary:  service.NewVocabularyService(store.Vocabulary, registry, logger),
		Community:   service.NewCommunityService(store.Community, registry, logger),
		Quiz:        service.NewQuizService(store.Quiz, registry, logger),
	}
	sessions := session.NewManager(logger)
	t.Cleanup(sessions.Shutdown)

	return &harness{
		h:        NewHandler(nil, svc, sessions, logger),
		store:    store,
		svc:      svc,
		sessions: sessions,
	}
}

func (hs *harness) moderator(t *testing.T, telegramID int64) *domain.User {
	t.Helper()

	u := testutil.SeedUser(t, hs.store, telegramID, "mod")
	require.NoError(t, hs.svc.Users.PromoteModerator(context.Background(), u.ID, testPassword))
	u.Role = domain.RoleModerator
	return u
}

func TestHandler_StartAndStop(t *testing.T) {
	hs := newHarness(t)

	c := testutil.NewTextContext(42, "alice", "/start")
	require.NoError(t, hs.h.handleStart(c))
	assert.Equal(t, textMenu, c.Output())
	assert.Equal(t, 1, hs.sessions.Len())
	assert.NotContains(t, c.Buttons(), btnQueue.Unique)

	u, err := hs.svc.Users.GetByTelegramID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	stop := testutil.NewTextContext(42, "alice", "/stop")
	require.NoError(t, hs.h.handleStop(stop))
	assert.Equal(t, 0, hs.sessions.Len())
	assert.Contains(t, stop.Output(), "Session closed")

	again := testutil.NewTextContext(42, "alice", "/stop")
	require.NoError(t, hs.h.handleStop(again))
	assert.Contains(t, again.Output(), "No active session")
}

func TestHandler_SuggestFlow(t *testing.T) {
	hs := newHarness(t)

	require.NoError(t, hs.h.handleSuggest(testutil.NewTextContext(7, "bob", "")))
	assert.Equal(t, domain.StateWaitingSentence, hs.h.GetState(7).State)

	c := testutil.NewTextContext(7, "bob", "The cat sleeps")
	require.NoError(t, hs.h.handleText(c))
	assert.Contains(t, c.Output(), "waiting for moderation")

	items, _, err := hs.svc.Suggestions.List(context.Background(), domain.StatusNew, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "The cat sleeps", items[0].Text)
	assert.Equal(t, defaultLanguage, items[0].Language)

	// still collecting sentences
	assert.Equal(t, domain.StateWaitingSentence, hs.h.GetState(7).State)
}

func TestHandler_VocabularyConflictAddsContributor(t *testing.T) {
	hs := newHarness(t)
	ctx := context.Background()

	for _, who := range []struct {
		id   int64
		name string
	}{{1, "alice"}, {2, "bob"}} {
		require.NoError(t, hs.h.handleVocabulary(testutil.NewTextContext(who.id, who.name, "")))
		c := testutil.NewTextContext(who.id, who.name, "Casa")
		require.NoError(t, hs.h.handleText(c))
		if who.id == 2 {
			assert.Contains(t, c.Output(), "already known")
		}
	}

	bob, err := hs.svc.Users.GetByTelegramID(ctx, 2)
	require.NoError(t, err)
	v, err := hs.svc.Vocabulary.Find(ctx, "casa", defaultLanguage)
	require.NoError(t, err)
	assert.Contains(t, v.Contributors, bob.Ref())
}

func TestHandler_PromoteModerator(t *testing.T) {
	hs := newHarness(t)

	require.NoError(t, hs.h.handleModerator(testutil.NewTextContext(5, "eve", "/moderator")))
	assert.Equal(t, domain.StateWaitingPassword, hs.h.GetState(5).State)

	wrong := testutil.NewTextContext(5, "eve", "guess")
	require.NoError(t, hs.h.handleText(wrong))
	assert.Equal(t, "Wrong password.", wrong.Output())

	right := testutil.NewTextContext(5, "eve", testPassword)
	require.NoError(t, hs.h.handleText(right))
	assert.Contains(t, right.Output(), "now a moderator")
	assert.Contains(t, right.Buttons(), btnQueue.Unique)
	assert.Equal(t, domain.StateIdle, hs.h.GetState(5).State)

	u, err := hs.svc.Users.GetByTelegramID(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, u.IsModerator())
}

func TestHandler_ModerationCallbacks(t *testing.T) {
	hs := newHarness(t)
	ctx := context.Background()

	author := testutil.SeedUser(t, hs.store, 1, "alice")
	authorSession := hs.sessions.Start(ctx, author.ID)
	s, err := hs.svc.Suggestions.Submit(ctx, author.Ref(), "Good night", "en", "")
	require.NoError(t, err)
	hs.moderator(t, 99)

	t.Run("non moderator is refused", func(t *testing.T) {
		c := testutil.NewCallbackContext(1, "alice", callback("st", s.ID, "processing"))
		require.NoError(t, hs.h.handleCallback(c))
		require.Len(t, c.Responses, 1)
		assert.True(t, c.Responses[0].ShowAlert)
	})

	t.Run("queue lists the suggestion", func(t *testing.T) {
		c := testutil.NewCallbackContext(99, "mod", btnQueue.Unique)
		require.NoError(t, hs.h.handleCallback(c))
		assert.Contains(t, c.Buttons(), callback("sug", s.ID))
	})

	t.Run("invalid jump is reported", func(t *testing.T) {
		c := testutil.NewCallbackContext(99, "mod", callback("st", s.ID, "accepted"))
		require.NoError(t, hs.h.handleCallback(c))
		require.Len(t, c.Responses, 1)
		assert.True(t, c.Responses[0].ShowAlert)
	})

	t.Run("status change notifies author", func(t *testing.T) {
		c := testutil.NewCallbackContext(99, "mod", callback("st", s.ID, "processing"))
		require.NoError(t, hs.h.handleCallback(c))
		assert.Contains(t, c.Output(), "Status: processing")
		assert.ElementsMatch(t,
			[]string{callback("st", s.ID, "accepted"), callback("st", s.ID, "rejected"), callback("rep", s.ID), "page_1"},
			c.Buttons())

		require.Equal(t, 1, authorSession.Notifications.Len())
		assert.Contains(t, authorSession.Notifications.List()[0].Text, "processing")
	})
}

func TestHandler_ReportFlow(t *testing.T) {
	hs := newHarness(t)
	ctx := context.Background()

	author := testutil.SeedUser(t, hs.store, 1, "alice")
	s, err := hs.svc.Suggestions.Submit(ctx, author.Ref(), "spam spam", "en", "")
	require.NoError(t, err)
	mod := hs.moderator(t, 99)

	require.NoError(t, hs.h.handleCallback(testutil.NewCallbackContext(99, "mod", callback("rep", s.ID))))
	assert.Equal(t, domain.StateWaitingReportReason, hs.h.GetState(99).State)

	c := testutil.NewTextContext(99, "mod", "advertising")
	require.NoError(t, hs.h.handleText(c))
	assert.Contains(t, c.Output(), "Report filed")

	reports, err := hs.svc.Community.ReportsAgainst(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, mod.Ref(), reports[0].User)
	assert.Equal(t, "advertising", reports[0].Reason)
}

func TestHandler_QuizFlow(t *testing.T) {
	hs := newHarness(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, hs.store, 3, "carol")
	test, err := hs.svc.Quiz.CreateTest(ctx, "Animals", nil)
	require.NoError(t, err)
	q1, err := hs.svc.Quiz.AddQuestion(ctx, test.Ref(), "a: dog", []string{"perro", "gato"}, 0)
	require.NoError(t, err)
	q2, err := hs.svc.Quiz.AddQuestion(ctx, test.Ref(), "b: cat", []string{"perro", "gato"}, 1)
	require.NoError(t, err)

	answerBefore := testutil.NewCallbackContext(3, "carol", callback("ans", q1.ID, "0"))
	require.NoError(t, hs.h.handleCallback(answerBefore))
	require.Len(t, answerBefore.Responses, 1)
	assert.True(t, answerBefore.Responses[0].ShowAlert)

	start := testutil.NewCallbackContext(3, "carol", callback("test", test.ID))
	require.NoError(t, hs.h.handleCallback(start))
	assert.Contains(t, start.Output(), "a: dog")
	assert.Contains(t, start.Buttons(), callback("ans", q1.ID, "0"))

	first := testutil.NewCallbackContext(3, "carol", callback("ans", q1.ID, "0"))
	require.NoError(t, hs.h.handleCallback(first))
	assert.Contains(t, first.Output(), "b: cat")

	last := testutil.NewCallbackContext(3, "carol", callback("ans", q2.ID, "0"))
	require.NoError(t, hs.h.handleCallback(last))
	assert.Contains(t, last.Output(), "Score: 1/2")

	p, err := hs.svc.Quiz.Progress(ctx, user.ID, test.ID)
	require.NoError(t, err)
	assert.True(t, p.Completed)
	assert.Equal(t, 1, p.Score)

	s, ok := hs.sessions.Get(user.ID)
	require.True(t, ok)
	assert.False(t, s.Quiz.State().Active())
}

func TestHandler_InboxShowsNotifications(t *testing.T) {
	hs := newHarness(t)

	require.NoError(t, hs.h.handleStart(testutil.NewTextContext(8, "dan", "/start")))
	u, err := hs.svc.Users.GetByTelegramID(context.Background(), 8)
	require.NoError(t, err)
	require.True(t, hs.sessions.Notify(u.ID, "hello there"))

	c := testutil.NewCallbackContext(8, "dan", btnInbox.Unique)
	require.NoError(t, hs.h.handleCallback(c))
	assert.Contains(t, c.Output(), "hello there")
}
