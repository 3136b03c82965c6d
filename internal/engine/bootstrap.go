package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mmc-gaming/clanhub/internal/config"
	"github.com/mmc-gaming/clanhub/internal/credentials"
	"github.com/mmc-gaming/clanhub/internal/database"
	"github.com/mmc-gaming/clanhub/internal/gravatar"
	"github.com/mmc-gaming/clanhub/internal/rank"
	"gorm.io/gorm"
)

// BootstrapResult describes what EnsureDefaultAdmin did.
type BootstrapResult string

const (
	BootstrapCreated   BootstrapResult = "created"
	BootstrapPromoted  BootstrapResult = "promoted"
	BootstrapUnchanged BootstrapResult = "unchanged"
)

// ErrAdminPasswordRequired is returned when the admin account has to be
// created but no password is configured.
var ErrAdminPasswordRequired = errors.New("admin password is required to create the admin account")

// EnsureDefaultAdmin makes sure the configured admin account exists and has
// admin privileges. Running it repeatedly has no further effect.
func EnsureDefaultAdmin(ctx context.Context, db database.DB, cfg *config.AdminConfig) (BootstrapResult, error) {
	if cfg == nil || cfg.Username == "" {
		return BootstrapUnchanged, errors.New("admin username is not configured")
	}

	user, err := db.GetUserByUsername(ctx, cfg.Username)
	switch {
	case err == nil:
		if user.IsAdmin {
			log.Debug("Admin account present", "username", user.Username)
			return BootstrapUnchanged, nil
		}
		if err := db.SetUserAdmin(ctx, user.ID, true); err != nil {
			return BootstrapUnchanged, fmt.Errorf("failed to promote admin: %w", err)
		}
		log.Info("Promoted existing account to admin", "username", user.Username)
		return BootstrapPromoted, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return BootstrapUnchanged, fmt.Errorf("failed to look up admin: %w", err)
	}

	if cfg.Password == "" {
		return BootstrapUnchanged, ErrAdminPasswordRequired
	}
	digest, err := credentials.Hash(cfg.Password)
	if err != nil {
		return BootstrapUnchanged, err
	}

	admin := &database.User{
		Username:     cfg.Username,
		Email:        NormalizeEmail(cfg.Email),
		PasswordHash: digest,
		Rank:         rank.Recruit,
		ProfilePic:   gravatar.DefaultAvatar,
		IsAdmin:      true,
	}
	if err := db.CreateUser(ctx, admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return BootstrapUnchanged, fmt.Errorf("%w: admin username or email is used by a disabled or other account", ErrDuplicate)
		}
		return BootstrapUnchanged, fmt.Errorf("failed to create admin: %w", err)
	}
	log.Info("Created admin account", "username", admin.Username, "user_id", admin.ID)
	return BootstrapCreated, nil
}
