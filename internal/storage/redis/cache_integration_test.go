//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestClientJSON(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, container)

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client := NewClient(url)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	type entry struct {
		Name string `json:"name"`
	}

	var got entry
	assert.ErrorIs(t, client.GetJSON(ctx, "missing", &got), ErrCacheMiss)

	require.NoError(t, client.SetJSON(ctx, "k", entry{Name: "example.com"}, time.Minute))
	require.NoError(t, client.GetJSON(ctx, "k", &got))
	assert.Equal(t, "example.com", got.Name)

	ttl, err := client.TTL(ctx, "k").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
