package service

import (
	"context"
	"testing"

	"glossa/internal/domain"
	"glossa/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCommunityService_SelfTargetedRecords(t *testing.T) {
	ctx := context.Background()
	store, registry := testutil.NewMemoryStore()
	core, logs := observer.New(zapcore.WarnLevel)
	service := NewCommunityService(store.Community, registry, zap.New(core))
	u := testutil.SeedUser(t, store, 1, "solo")

	m, err := service.SendMessage(ctx, u.Ref(), u.Ref(), "note to self")
	require.NoError(t, err)
	assert.True(t, m.IsSelfReferential())

	r, err := service.Refer(ctx, u.Ref(), u.Ref())
	require.NoError(t, err)
	assert.True(t, r.IsSelfReferential())

	assert.Equal(t, 2, logs.Len())
}

func TestCommunityService_Conversation(t *testing.T) {
	ctx := context.Background()
	store, registry := testutil.NewMemoryStore()
	service := NewCommunityService(store.Community, registry, testutil.NewTestLogger())
	a := testutil.SeedUser(t, store, 1, "a")
	b := testutil.SeedUser(t, store, 2, "b")

	first, err := service.SendMessage(ctx, a.Ref(), b.Ref(), "hi")
	require.NoError(t, err)
	_, err = service.SendMessage(ctx, b.Ref(), a.Ref(), "hello")
	require.NoError(t, err)

	require.NoError(t, service.MarkRead(ctx, first.ID))
	assert.ErrorIs(t, service.MarkRead(ctx, uuid.New()), domain.ErrNotFound)

	msgs, err := service.Conversation(ctx, a.ID, b.ID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	_, err = service.SendMessage(ctx, a.Ref(), domain.UserRef(uuid.New()), "anyone?")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCommunityService_Report(t *testing.T) {
	ctx := context.Background()
	store, registry := testutil.NewMemoryStore()
	service := NewCommunityService(store.Community, registry, testutil.NewTestLogger())
	a := testutil.SeedUser(t, store, 1, "a")
	b := testutil.SeedUser(t, store, 2, "b")

	_, err := service.Report(ctx, a.Ref(), b.Ref(), "  ", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.Report(ctx, a.Ref(), b.Ref(), "spam", "sends links")
	require.NoError(t, err)

	reports, err := service.ReportsAgainst(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "sends links", reports[0].Description)
}
