package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStoreMarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("first writer wins", func(t *testing.T) {
		first, err := store.MarkProcessed(ctx, "payment:bill-100:k1", time.Hour)
		require.NoError(t, err)
		assert.True(t, first)

		second, err := store.MarkProcessed(ctx, "payment:bill-100:k1", time.Hour)
		require.NoError(t, err)
		assert.False(t, second)
	})

	t.Run("expired key can be claimed again", func(t *testing.T) {
		first, err := store.MarkProcessed(ctx, "payment:bill-101:k1", 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, first)

		time.Sleep(20 * time.Millisecond)

		again, err := store.MarkProcessed(ctx, "payment:bill-101:k1", time.Hour)
		require.NoError(t, err)
		assert.True(t, again)
	})
}

func TestInMemoryStoreIsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("unknown key", func(t *testing.T) {
		processed, err := store.IsProcessed(ctx, "payment:bill-200:missing")
		require.NoError(t, err)
		assert.False(t, processed)
	})

	t.Run("recorded key", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "payment:bill-200:k1", time.Hour)
		require.NoError(t, err)

		processed, err := store.IsProcessed(ctx, "payment:bill-200:k1")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("expired key reads as unprocessed", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "payment:bill-200:k2", 10*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(20 * time.Millisecond)

		processed, err := store.IsProcessed(ctx, "payment:bill-200:k2")
		require.NoError(t, err)
		assert.False(t, processed)
	})
}

func TestInMemoryStoreSize(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	assert.Equal(t, 0, store.Size())

	store.MarkProcessed(ctx, "payment:bill-300:k1", time.Hour)
	store.MarkProcessed(ctx, "payment:bill-300:k2", time.Hour)
	assert.Equal(t, 2, store.Size())

	// re-marking an existing key does not grow the map
	store.MarkProcessed(ctx, "payment:bill-300:k1", time.Hour)
	assert.Equal(t, 2, store.Size())
}

func TestInMemoryStoreSweep(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	store.MarkProcessed(ctx, "payment:bill-400:k1", 10*time.Millisecond)
	store.MarkProcessed(ctx, "payment:bill-400:k2", 10*time.Millisecond)
	store.MarkProcessed(ctx, "payment:bill-400:k3", time.Hour)
	require.Equal(t, 3, store.Size())

	time.Sleep(20 * time.Millisecond)
	store.sweep()

	assert.Equal(t, 1, store.Size())

	processed, err := store.IsProcessed(ctx, "payment:bill-400:k3")
	require.NoError(t, err)
	assert.True(t, processed)

	processed, err = store.IsProcessed(ctx, "payment:bill-400:k1")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestInMemoryStoreConcurrentClaims(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	const workers = 100

	results := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		go func() {
			claimed, err := store.MarkProcessed(ctx, "payment:bill-500:shared", time.Hour)
			results <- err == nil && claimed
		}()
	}

	claims := 0
	for i := 0; i < workers; i++ {
		if <-results {
			claims++
		}
	}

	// the payment must be recorded exactly once no matter how many
	// concurrent submissions race for the key
	assert.Equal(t, 1, claims)
}

func TestInMemoryStoreClose(t *testing.T) {
	store := NewInMemoryIdempotencyStore()

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
