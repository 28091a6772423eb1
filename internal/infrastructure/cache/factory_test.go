package cache

import (
	"context"
	"testing"
	"time"

	"github.com/energypac/erp-backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFactoryUsesInMemoryWhenRedisDisabled(t *testing.T) {
	factory := NewIdempotencyStoreFactory(config.RedisConfig{Enabled: false},
		WithLogger(zap.NewNop()),
		WithInMemoryFallback(false),
	)

	store, err := factory.CreateStore()
	require.NoError(t, err)
	require.NotNil(t, store)

	// The in-memory store should behave as a first-writer-wins set
	ctx := context.Background()
	first, err := store.MarkProcessed(ctx, "payment:bill-1:key-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := store.MarkProcessed(ctx, "payment:bill-1:key-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, second)
}

func TestFactoryCreateInMemoryStore(t *testing.T) {
	factory := NewIdempotencyStoreFactory(config.RedisConfig{})

	store := factory.CreateInMemoryStore()
	assert.NotNil(t, store)
}
