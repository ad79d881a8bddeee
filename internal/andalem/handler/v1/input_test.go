package v1

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputBroker(t *testing.T) {
	t.Run("Should deliver the answer to the waiting provider", func(t *testing.T) {
		b := NewInputBroker()
		asked := make(chan Question, 1)
		p := b.Provider("s1", func(q Question) { asked <- q })

		got := make(chan string, 1)
		go func() {
			a, err := p.Ask(context.Background(), "Ready?")
			assert.NoError(t, err)
			got <- a
		}()

		q := <-asked
		assert.Len(t, b.Pending("s1"), 1)
		assert.Empty(t, b.Pending("s2"))
		require.NoError(t, b.Answer("s1", q.ID, "yes"))
		assert.Equal(t, "yes", <-got)
		assert.Empty(t, b.Pending("s1"))
	})

	t.Run("Should give up when the context ends", func(t *testing.T) {
		b := NewInputBroker()
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := b.Provider("s1", nil).Ask(ctx, "Anyone?")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Empty(t, b.Pending("s1"))
	})

	t.Run("Should not answer questions of another session", func(t *testing.T) {
		b := NewInputBroker()
		asked := make(chan Question, 1)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _, _ = b.Provider("s1", func(q Question) { asked <- q }).Ask(ctx, "Mine?") }()

		q := <-asked
		assert.ErrorIs(t, b.Answer("s2", q.ID, "no"), errQuestionNotFound)
	})
}
