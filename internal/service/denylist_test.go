package service

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebook/backend/internal/testhelpers"
)

func TestMemoryDenylistExpires(t *testing.T) {
	d := NewMemoryDenylist()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, d.Revoke(ctx, "a", now.Add(time.Minute)))
	require.NoError(t, d.Revoke(ctx, "already-expired", now.Add(-time.Minute)))

	revoked, err := d.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = d.IsRevoked(ctx, "already-expired")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = d.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)

	// expired entries are pruned on the next revoke
	require.NoError(t, d.Revoke(ctx, "b", now.Add(time.Minute)))
	assert.Len(t, d.revoked, 1)
}

func TestRedisDenylist(t *testing.T) {
	addr := testhelpers.SetupRedis(t)
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	d := NewRedisDenylist(client)
	ctx := context.Background()

	require.NoError(t, d.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))
	revoked, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = d.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	ttl, err := client.TTL(ctx, revokedKey("jti-1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
