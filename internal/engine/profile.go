package engine

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mmc-gaming/clanhub/internal/database"
)

// UpdateProfile changes the rank label and the profile picture of actor. A nil
// or empty argument leaves that field unchanged. Setting a rank marks it as
// overridden. Only the profile columns are written, game stats recorded
// meanwhile are kept.
//
// The returned string is the picture reference that was replaced, read from
// the store at write time, or "" if the picture did not change.
func (e *Engine) UpdateProfile(ctx context.Context, actor *database.User, rankLabel, pictureRef *string) (*database.User, string, error) {
	if err := RequireUser(actor); err != nil {
		return nil, "", err
	}

	var update database.ProfileUpdate
	if rankLabel != nil {
		if label := strings.TrimSpace(*rankLabel); label != "" {
			update.Rank = &label
		}
	}
	if pictureRef != nil && *pictureRef != "" {
		update.ProfilePic = pictureRef
	}

	user, replaced, err := e.db.UpdateUserProfile(ctx, actor.ID, update)
	if err != nil {
		return nil, "", notFound(err, "user")
	}
	e.cache.InvalidateLeaderboard(ctx)

	log.Debug("Profile updated", "user_id", user.ID, "rank", user.Rank, "rank_overridden", user.RankOverridden)
	return user, replaced, nil
}

// SetProfilePicture replaces the profile picture of actor.
func (e *Engine) SetProfilePicture(ctx context.Context, actor *database.User, ref string) (*database.User, string, error) {
	return e.UpdateProfile(ctx, actor, nil, &ref)
}
