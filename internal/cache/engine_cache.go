package cache

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/eko/gocache/lib/v4/codec"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/mmc-gaming/clanhub/internal/config"
	"github.com/mmc-gaming/clanhub/internal/database"
)

// Cache key prefixes.
const (
	LeaderboardCachePrefix = "leaderboard-"
)

// LeaderboardKey is the single key the ranked user list is stored under.
const LeaderboardKey = "ranked"

// EngineCache bundles the caches used by the engine.
type EngineCache struct {
	Leaderboard *PrefixedCache[[]database.RankedUser]
}

func NewEngineCache(cfg *config.CacheConfig) *EngineCache {
	if cfg == nil {
		cfg = &config.CacheConfig{Type: config.CacheTypeMemory}
	}
	return &EngineCache{
		Leaderboard: NewPrefixedCache[[]database.RankedUser](
			newCacheInstanceByType(cfg),
			LeaderboardCachePrefix,
			cfg.GetCacheTTL(),
		),
	}
}

// InvalidateLeaderboard drops the cached ranking. Failures are logged only,
// a stale entry expires with the TTL.
func (e *EngineCache) InvalidateLeaderboard(ctx context.Context) {
	if err := e.Leaderboard.Delete(ctx, LeaderboardKey); err != nil && !IsNotFound(err) {
		log.Error("failed to invalidate leaderboard cache", "error", err)
	}
}

// IsNotFound reports whether err is a cache miss.
func IsNotFound(err error) bool {
	var notFound *store.NotFound
	return errors.As(err, &notFound) || errors.Is(err, store.NotFound{})
}

type Stats struct {
	*codec.Stats
	CacheName string `json:"cacheName"`
}

func (e *EngineCache) GetStats() []*Stats {
	return []*Stats{
		{
			Stats:     e.Leaderboard.GetStats(),
			CacheName: "leaderboard",
		},
	}
}
