//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisSummaryStore_RoundTrip(t *testing.T) {
	client := newRedisClient(t)
	store := NewRedisSummaryStoreWithClient(client, WithSummaryTTL(time.Hour))
	ctx := context.Background()

	_, err := store.Latest(ctx)
	assert.ErrorIs(t, err, integration.ErrSummaryNotFound)

	want := testSummary()
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.JobID, got.JobID)
	assert.Equal(t, want.Errors, got.Errors)
	assert.True(t, want.Timestamp.Equal(got.Timestamp))

	ttl, err := client.TTL(ctx, DefaultSummaryKey).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	require.NoError(t, store.Close(), "a borrowed client is not closed")
	require.NoError(t, client.Ping(ctx).Err())
}

func TestRedisSummaryStore_CorruptedEntry(t *testing.T) {
	client := newRedisClient(t)
	store := NewRedisSummaryStoreWithClient(client, WithSummaryKey("test:summary"))
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "test:summary", "{not json", 0).Err())

	_, err := store.Latest(ctx)
	assert.ErrorIs(t, err, integration.ErrSummaryNotFound)

	exists, err := client.Exists(ctx, "test:summary").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}
