package matchmaking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/matchrelay-backend/internal/apperror"
)

func TestQueue_Enqueue(t *testing.T) {
	t.Run("Rejects an empty name", func(t *testing.T) {
		// Given: an empty queue
		queue := NewQueue()

		// When: a connection enqueues without a display name
		_, paired, err := queue.Enqueue("conn-1", "")

		// Then: the request is invalid and nothing is enqueued
		require.ErrorIs(t, err, apperror.ErrEmptyName)
		assert.False(t, paired)
		assert.Equal(t, 0, queue.Len())
	})

	t.Run("First connection waits", func(t *testing.T) {
		// Given: an empty queue
		queue := NewQueue()

		// When: one connection enqueues
		_, paired, err := queue.Enqueue("conn-1", "Ann")

		// Then: it waits, no pair yet
		require.NoError(t, err)
		assert.False(t, paired)
		assert.Equal(t, 1, queue.Len())
	})

	t.Run("Second connection completes a FIFO pair", func(t *testing.T) {
		// Given: a queue with one waiting connection
		queue := NewQueue()
		_, _, err := queue.Enqueue("conn-1", "Ann")
		require.NoError(t, err)

		// When: a second connection enqueues
		pair, paired, err := queue.Enqueue("conn-2", "Bo")
		require.NoError(t, err)

		// Then: both entries are removed and returned oldest-first
		require.True(t, paired)
		assert.Equal(t, Entry{ConnectionID: "conn-1", Name: "Ann"}, pair[0])
		assert.Equal(t, Entry{ConnectionID: "conn-2", Name: "Bo"}, pair[1])
		assert.Equal(t, 0, queue.Len())
	})

	t.Run("Re-enqueue replaces in place", func(t *testing.T) {
		// Given: a waiting connection
		queue := NewQueue()
		_, _, err := queue.Enqueue("conn-1", "Ann")
		require.NoError(t, err)

		// When: the same connection enqueues again under a new name
		_, paired, err := queue.Enqueue("conn-1", "Annie")
		require.NoError(t, err)

		// Then: still one entry, no self-pairing
		assert.False(t, paired)
		require.Equal(t, 1, queue.Len())

		// Then: the next connection pairs against the replaced entry
		pair, paired, err := queue.Enqueue("conn-2", "Bo")
		require.NoError(t, err)
		require.True(t, paired)
		assert.Equal(t, "Annie", pair[0].Name)
	})

	t.Run("Pairing is exactly two-to-one", func(t *testing.T) {
		// Given: an empty queue
		queue := NewQueue()

		// When: seven connections enqueue
		pairs := 0
		for i := 0; i < 7; i++ {
			_, paired, err := queue.Enqueue(
				fmt.Sprintf("conn-%d", i),
				fmt.Sprintf("player-%d", i),
			)
			require.NoError(t, err)
			if paired {
				pairs++
			}
		}

		// Then: floor(7/2) pairs were formed and one connection still waits
		assert.Equal(t, 3, pairs)
		assert.Equal(t, 1, queue.Len())
	})
}

func TestQueue_DequeueIfWaiting(t *testing.T) {
	t.Run("Removes a waiting entry", func(t *testing.T) {
		// Given: a waiting connection
		queue := NewQueue()
		_, _, err := queue.Enqueue("conn-1", "Ann")
		require.NoError(t, err)

		// When: the connection disconnects while waiting
		removed := queue.DequeueIfWaiting("conn-1")

		// Then: the entry is gone and can never be paired
		assert.True(t, removed)
		assert.Equal(t, 0, queue.Len())

		_, paired, err := queue.Enqueue("conn-2", "Bo")
		require.NoError(t, err)
		assert.False(t, paired)
	})

	t.Run("No-op for an unknown connection", func(t *testing.T) {
		// Given: an empty queue
		queue := NewQueue()

		// When: an unknown connection is dequeued
		removed := queue.DequeueIfWaiting("conn-ghost")

		// Then: nothing happens
		assert.False(t, removed)
	})
}
