package cache

import (
	"context"
	"testing"

	"github.com/mmc-gaming/clanhub/internal/config"
	"github.com/mmc-gaming/clanhub/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewEngineCache(&config.CacheConfig{Type: config.CacheTypeMemory})

	_, err := c.Leaderboard.Get(ctx, LeaderboardKey)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	users := []database.User{
		{Username: "alice", Email: "alice@example.com", Score: 90, PasswordHash: "secret-digest"},
		{Username: "bob", Email: "bob@example.com", Score: 10},
	}
	users[0].ID = 1
	users[1].ID = 2
	ranked := []database.RankedUser{users[0].Ranked(), users[1].Ranked()}
	require.NoError(t, c.Leaderboard.Set(ctx, LeaderboardKey, ranked))

	got, err := c.Leaderboard.Get(ctx, LeaderboardKey)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0].Username)
	assert.Equal(t, uint(1), got[0].ID)
	assert.Equal(t, 90, got[0].Score)

	raw, err := c.Leaderboard.cache.Get(ctx, c.Leaderboard.key(LeaderboardKey))
	require.NoError(t, err)
	stored := string(raw.([]byte))
	assert.NotContains(t, stored, "alice@example.com")
	assert.NotContains(t, stored, "secret-digest")

	c.InvalidateLeaderboard(ctx)
	_, err = c.Leaderboard.Get(ctx, LeaderboardKey)
	assert.True(t, IsNotFound(err))
}

func TestEngineCache_DefaultsToMemory(t *testing.T) {
	c := NewEngineCache(nil)
	assert.NotNil(t, c.Leaderboard)
	assert.Len(t, c.GetStats(), 1)
	assert.Equal(t, "leaderboard", c.GetStats()[0].CacheName)
}
