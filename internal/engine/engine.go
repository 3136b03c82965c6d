// Package engine holds the portal's account, ranking and clan logic.
// Every operation receives the acting user explicitly; the engine keeps no
// per-request state.
package engine

import (
	"github.com/mmc-gaming/clanhub/internal/cache"
	"github.com/mmc-gaming/clanhub/internal/config"
	"github.com/mmc-gaming/clanhub/internal/database"
	"github.com/mmc-gaming/clanhub/internal/notify/email"
)

// DefaultClanLogo is used when a clan is created without a logo.
const DefaultClanLogo = "/static/default-clan.png"

// Engine is the core of clanhub.
type Engine struct {
	cfg   *config.Config
	db    database.DB
	email *email.NotificationService
	cache *cache.EngineCache
}

// New creates a new Engine instance.
func New(cfg *config.Config, db database.DB) (*Engine, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &Engine{
		cfg:   cfg,
		db:    db,
		email: email.New(cfg.Email),
		cache: cache.NewEngineCache(cfg.Cache),
	}, nil
}

// GetCacheStats returns hit and miss counters of the engine caches.
func (e *Engine) GetCacheStats() []*cache.Stats {
	return e.cache.GetStats()
}
