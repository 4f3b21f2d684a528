package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	b := NewMemoryTokenBlacklist()
	b.now = func() time.Time { return now }

	require.NoError(t, b.Revoke(ctx, "live", now.Add(time.Hour)))
	require.NoError(t, b.Revoke(ctx, "already-expired", now.Add(-time.Minute)))

	revoked, err := b.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = b.IsRevoked(ctx, "already-expired")
	assert.False(t, revoked)

	revoked, _ = b.IsRevoked(ctx, "never-seen")
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, _ = b.IsRevoked(ctx, "live")
	assert.False(t, revoked, "entries lapse with the token")
}

func TestNewRedisTokenBlacklist_BadURL(t *testing.T) {
	_, err := NewRedisTokenBlacklist("not a url")
	assert.Error(t, err)
}
