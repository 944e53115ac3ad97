package chflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiveUntil(t *testing.T) {
	t.Run("should return the next value", func(t *testing.T) {
		ch := make(chan int, 1)
		ch <- 42

		v, err := ReceiveUntil(t.Context(), nil, ch)

		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("should return the context error when the caller gives up", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		v, err := ReceiveUntil(ctx, nil, make(chan int))

		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, v)
	})

	t.Run("should stop when stop is closed", func(t *testing.T) {
		stop := make(chan struct{})
		close(stop)

		_, err := ReceiveUntil(t.Context(), stop, make(chan string))

		assert.ErrorIs(t, err, ErrStopped)
	})

	t.Run("should stop on a closed channel", func(t *testing.T) {
		ch := make(chan string)
		close(ch)

		_, err := ReceiveUntil(t.Context(), nil, ch)

		assert.ErrorIs(t, err, ErrStopped)
	})
}

func TestTrySend(t *testing.T) {
	t.Run("should deliver when there is room", func(t *testing.T) {
		ch := make(chan int, 1)

		assert.True(t, TrySend(ch, 1))
		assert.Equal(t, 1, <-ch)
	})

	t.Run("should not block on a full channel", func(t *testing.T) {
		ch := make(chan int, 1)
		ch <- 1

		assert.False(t, TrySend(ch, 2))
	})
}
