package inmemory

import (
	"context"
	"testing"

	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/entity"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/pkg/errno"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	sess := entity.NewSession("s1")
	require.NoError(t, store.Create(ctx, sess))

	t.Run("Should return copies", func(t *testing.T) {
		got, err := store.Get(ctx, "s1")
		require.NoError(t, err)
		got.Agents = append(got.Agents, entity.NewAgent("ab12"))

		again, err := store.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Empty(t, again.Agents)
	})

	t.Run("Should persist updates", func(t *testing.T) {
		got, _ := store.Get(ctx, "s1")
		got.Agents = append(got.Agents, entity.NewAgent("ab12"))
		require.NoError(t, store.Update(ctx, got))

		again, _ := store.Get(ctx, "s1")
		assert.Len(t, again.Agents, 1)
	})

	t.Run("Should report unknown sessions", func(t *testing.T) {
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, errno.ErrSessionNotFound)
		assert.ErrorIs(t, store.Update(ctx, entity.NewSession("nope")), errno.ErrSessionNotFound)
		assert.ErrorIs(t, store.Delete(ctx, "nope"), errno.ErrSessionNotFound)
	})

	t.Run("Should list and delete", func(t *testing.T) {
		require.NoError(t, store.Create(ctx, entity.NewSession("s2")))
		all, err := store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		require.NoError(t, store.Delete(ctx, "s2"))
		all, _ = store.List(ctx)
		assert.Len(t, all, 1)
	})
}
