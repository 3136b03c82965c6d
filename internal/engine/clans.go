package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mmc-gaming/clanhub/internal/database"
	"gorm.io/gorm"
)

// linkError marks a failure to attach the leader to a freshly inserted clan.
type linkError struct {
	err error
}

func (e *linkError) Error() string {
	return fmt.Sprintf("failed to link clan leader: %v", e.err)
}

func (e *linkError) Unwrap() error {
	return e.err
}

// CreateClan creates a clan led by leader and makes the leader its first
// member. Both writes share one transaction.
func (e *Engine) CreateClan(ctx context.Context, leader *database.User, name, slogan, logoRef string) (*database.Clan, error) {
	if err := RequireUser(leader); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if logoRef == "" {
		logoRef = DefaultClanLogo
	}

	exists, err := e.db.ClanNameExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check clan name: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: clan name %q is taken", ErrDuplicate, name)
	}

	clan := &database.Clan{
		Name:     name,
		Slogan:   strings.TrimSpace(slogan),
		Logo:     logoRef,
		LeaderID: leader.ID,
	}
	err = e.db.Transaction(ctx, func(tx database.DB) error {
		if err := tx.CreateClan(ctx, clan); err != nil {
			return err
		}
		if err := tx.SetUserClan(ctx, leader.ID, &clan.ID); err != nil {
			return &linkError{err: err}
		}
		return nil
	})
	if err != nil {
		return nil, e.clanCreateError(ctx, clan, leader, err)
	}

	log.Info("Clan created", "clan_id", clan.ID, "name", clan.Name, "leader_id", leader.ID)
	e.cache.InvalidateLeaderboard(ctx)
	return clan, nil
}

func (e *Engine) clanCreateError(ctx context.Context, clan *database.Clan, leader *database.User, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: clan name %q is taken", ErrDuplicate, clan.Name)
	}

	var le *linkError
	if errors.As(err, &le) && clan.ID != 0 {
		// A store that rolled back no longer has the clan row.
		if _, getErr := e.db.GetClanByID(ctx, clan.ID); getErr == nil {
			log.Error("Clan persisted without its leader",
				"clan_id", clan.ID,
				"leader_id", leader.ID,
				"error", le.err,
			)
			return fmt.Errorf("%w: clan %d was created but its leader could not be linked", ErrInconsistency, clan.ID)
		}
	}

	return notFound(fmt.Errorf("failed to create clan: %w", err), "clan leader")
}

// JoinClan moves user into the clan with the given ID. Unknown clans are
// rejected with ErrNotFound.
func (e *Engine) JoinClan(ctx context.Context, user *database.User, clanID uint) (*database.User, error) {
	if err := RequireUser(user); err != nil {
		return nil, err
	}
	if _, err := e.db.GetClanByID(ctx, clanID); err != nil {
		return nil, notFound(err, "clan")
	}
	if err := e.db.SetUserClan(ctx, user.ID, &clanID); err != nil {
		return nil, notFound(err, "user")
	}

	updated := *user
	updated.ClanID = &clanID
	log.Info("User joined clan", "user_id", user.ID, "clan_id", clanID)
	e.cache.InvalidateLeaderboard(ctx)
	return &updated, nil
}

// MembersOf returns the members of a clan ordered by user ID.
func (e *Engine) MembersOf(ctx context.Context, clanID uint) ([]database.User, error) {
	return e.db.GetUsersByClan(ctx, clanID)
}

// ListClans returns all clans with their members.
func (e *Engine) ListClans(ctx context.Context) ([]database.Clan, error) {
	return e.db.GetAllClans(ctx)
}

// GetClan returns a clan with its members.
func (e *Engine) GetClan(ctx context.Context, id uint) (*database.Clan, error) {
	clan, err := e.db.GetClanByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "clan")
	}
	members, err := e.db.GetUsersByClan(ctx, id)
	if err != nil {
		return nil, err
	}
	clan.Members = members
	return clan, nil
}
