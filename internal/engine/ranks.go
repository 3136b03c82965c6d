package engine

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mmc-gaming/clanhub/internal/database"
	"github.com/mmc-gaming/clanhub/internal/rank"
)

// StatsUpdate holds new absolute values for a user's game statistics.
// Nil fields are left untouched.
type StatsUpdate struct {
	Kills   *int
	Score   *int
	Matches *int
}

// ApplyRank re-derives the rank of user from its kills and clears any override.
func (e *Engine) ApplyRank(ctx context.Context, user *database.User) error {
	rank.Apply(user)
	return e.saveUser(ctx, user)
}

// OverrideRank sets an arbitrary rank label on user.
func (e *Engine) OverrideRank(ctx context.Context, user *database.User, label rank.Label) error {
	rank.Override(user, label)
	return e.saveUser(ctx, user)
}

// RecordStats stores new statistics for a user. The rank is re-derived unless
// it was overridden manually.
func (e *Engine) RecordStats(ctx context.Context, userID uint, update StatsUpdate) (*database.User, error) {
	user, err := e.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Kills != nil {
		user.Kills = max(*update.Kills, 0)
	}
	if update.Score != nil {
		user.Score = *update.Score
	}
	if update.Matches != nil {
		user.Matches = max(*update.Matches, 0)
	}
	if !user.RankOverridden {
		rank.Apply(user)
	}

	if err := e.saveUser(ctx, user); err != nil {
		return nil, err
	}
	log.Info("Stats recorded", "user_id", user.ID, "kills", user.Kills, "score", user.Score, "rank", user.Rank)
	return user, nil
}

// RecalculateRanks re-derives the rank of every user without an override and
// returns how many ranks changed.
func (e *Engine) RecalculateRanks(ctx context.Context) (int, error) {
	changed := 0
	err := e.db.Transaction(ctx, func(tx database.DB) error {
		changed = 0
		users, err := tx.GetAllUsers(ctx)
		if err != nil {
			return err
		}
		for i := range users {
			user := &users[i]
			if user.RankOverridden || user.Rank == rank.Derive(user.Kills) {
				continue
			}
			old := user.Rank
			rank.Apply(user)
			if err := tx.UpdateUser(ctx, user); err != nil {
				return fmt.Errorf("failed to update user %d: %w", user.ID, err)
			}
			log.Debug("Rank recalculated", "user_id", user.ID, "from", old, "to", user.Rank)
			changed++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to recalculate ranks: %w", err)
	}
	if changed > 0 {
		e.cache.InvalidateLeaderboard(ctx)
	}
	return changed, nil
}

func (e *Engine) saveUser(ctx context.Context, user *database.User) error {
	if err := e.db.UpdateUser(ctx, user); err != nil {
		return notFound(err, "user")
	}
	e.cache.InvalidateLeaderboard(ctx)
	return nil
}
