package cache

import (
	"context"
	"testing"
	"time"

	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testSummary() integration.SyncSummary {
	return integration.SyncSummary{
		JobID:     uuid.New(),
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Processed: 3,
		Created:   2,
		Updated:   1,
		Errors:    []string{"C: create failed"},
	}
}

func TestInMemorySummaryStore_Empty(t *testing.T) {
	store := NewInMemorySummaryStore(0)

	got, err := store.Latest(context.Background())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, integration.ErrSummaryNotFound)
}

func TestInMemorySummaryStore_SaveReplaces(t *testing.T) {
	store := NewInMemorySummaryStore(0)
	ctx := context.Background()

	first := testSummary()
	require.NoError(t, store.Save(ctx, first))
	second := testSummary()
	second.Created = 9
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.JobID, got.JobID)
	assert.Equal(t, 9, got.Created)
}

func TestInMemorySummaryStore_ReturnsCopies(t *testing.T) {
	store := NewInMemorySummaryStore(0)
	ctx := context.Background()

	s := testSummary()
	require.NoError(t, store.Save(ctx, s))
	s.Errors[0] = "mutated"

	got, err := store.Latest(ctx)
	require.NoError(t, err)
	got.Errors[0] = "also mutated"

	again, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C: create failed"}, again.Errors)
}

func TestInMemorySummaryStore_Expires(t *testing.T) {
	store := NewInMemorySummaryStore(time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSummary()))

	now = now.Add(59 * time.Second)
	_, err := store.Latest(ctx)
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = store.Latest(ctx)
	assert.ErrorIs(t, err, integration.ErrSummaryNotFound)
}

func TestSummaryStoreFactory_RedisDisabled(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	f := NewSummaryStoreFactory(config.RedisConfig{Enabled: false, SummaryTTL: time.Hour}, WithLogger(zap.New(core)))

	store, err := f.CreateStore()
	require.NoError(t, err)
	assert.IsType(t, &InMemorySummaryStore{}, store)
	assert.Equal(t, 1, logs.FilterMessage("Redis disabled, using in-memory summary store").Len())
}

func TestSummaryStoreFactory_FallbackWhenUnreachable(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}
	f := NewSummaryStoreFactory(cfg, WithLogger(zap.New(core)))

	store, err := f.CreateStore()
	require.NoError(t, err)
	assert.IsType(t, &InMemorySummaryStore{}, store)
	assert.Equal(t, 1, logs.FilterMessage("Redis unavailable, falling back to in-memory summary store").Len())
}

func TestSummaryStoreFactory_NoFallback(t *testing.T) {
	cfg := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}
	f := NewSummaryStoreFactory(cfg, WithInMemoryFallback(false))

	store, err := f.CreateStore()
	assert.Nil(t, store)
	assert.ErrorContains(t, err, "redis required")
}
