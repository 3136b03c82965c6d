package engine

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/mmc-gaming/clanhub/internal/cache"
	"github.com/mmc-gaming/clanhub/internal/database"
	"github.com/samber/lo"
)

// RankedUsers returns every user ordered by score descending. Equal scores
// are ordered by ascending user ID.
func (e *Engine) RankedUsers(ctx context.Context) ([]database.RankedUser, error) {
	ranked, err := e.cache.Leaderboard.Get(ctx, cache.LeaderboardKey)
	if err == nil {
		return ranked, nil
	}
	if !cache.IsNotFound(err) {
		log.Warn("Failed to read leaderboard cache", "error", err)
	}

	users, err := e.db.GetRankedUsers(ctx)
	if err != nil {
		return nil, err
	}
	ranked = lo.Map(users, func(u database.User, _ int) database.RankedUser { return u.Ranked() })

	if err := e.cache.Leaderboard.Set(ctx, cache.LeaderboardKey, ranked); err != nil {
		log.Warn("Failed to cache leaderboard", "error", err)
	}
	return ranked, nil
}
