package service

import (
	"context"
	"testing"

	"glossa/internal/domain"
	"glossa/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialogService_AppendKeepsOrder(t *testing.T) {
	ctx := context.Background()
	store, registry := testutil.NewMemoryStore()
	service := NewDialogService(store.Dialogs, registry)
	user := testutil.SeedUser(t, store, 1, "talker")

	d, err := service.Start(ctx, user.Ref(), domain.DialogMessage{Role: domain.RoleSystem, Content: "Practice Spanish"})
	require.NoError(t, err)

	_, err = service.Append(ctx, d.ID,
		domain.DialogMessage{Role: domain.RoleUserTurn, Content: "Hola"},
		domain.DialogMessage{Role: domain.RoleAssistant, Content: "¡Hola! ¿Qué tal?"},
	)
	require.NoError(t, err)

	_, err = service.Append(ctx, d.ID, domain.DialogMessage{Role: "narrator", Content: "..."})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := service.Get(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, domain.RoleSystem, got.Messages[0].Role)
	assert.Equal(t, "Hola", got.Messages[1].Content)
	assert.Equal(t, domain.RoleAssistant, got.Messages[2].Role)
}
