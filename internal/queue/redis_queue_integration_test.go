//go:build integration

package queue

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newTestQueue(t *testing.T) *RedisQueue {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, container)

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisQueue(client, "")
}

func TestQueueOrdering(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	require.NoError(t, q.Push(ctx, &SyncJob{ID: "second", ConnectionID: "c2", CreatedAt: base.Add(time.Second)}))
	require.NoError(t, q.Push(ctx, &SyncJob{ID: "first", ConnectionID: "c1", CreatedAt: base}))

	n, err := q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	job, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "first", job.ID)
	assert.Equal(t, "c1", job.ConnectionID)

	job, err = q.Pop(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "second", job.ID)
}

func TestQueuePopTimeout(t *testing.T) {
	q := newTestQueue(t)

	_, err := q.Pop(context.Background(), 100*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
}
