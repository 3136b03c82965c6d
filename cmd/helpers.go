package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ccoveille/go-safecast"
	"github.com/mmc-gaming/clanhub/internal/config"
	"github.com/mmc-gaming/clanhub/internal/database"
	"github.com/mmc-gaming/clanhub/internal/engine"
	"gorm.io/gorm"
)

// openDB loads the config and opens the record store it points at.
func openDB() (*config.Config, *database.Client, error) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return cfg, db, nil
}

// resolveUser finds a user by numeric ID or by username.
func resolveUser(ctx context.Context, db database.DB, ref string) (*database.User, error) {
	var (
		user *database.User
		err  error
	)
	if n, parseErr := strconv.ParseInt(ref, 10, 64); parseErr == nil {
		id, castErr := safecast.ToUint(n)
		if castErr != nil {
			return nil, fmt.Errorf("invalid user ID %q: %w", ref, castErr)
		}
		user, err = db.GetUserByID(ctx, id)
	} else {
		user, err = db.GetUserByUsername(ctx, ref)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %q", engine.ErrNotFound, ref)
	}
	return user, err
}
