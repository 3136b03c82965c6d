package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mmc-gaming/clanhub/internal/credentials"
	"github.com/mmc-gaming/clanhub/internal/database"
	"github.com/mmc-gaming/clanhub/internal/gravatar"
	"github.com/mmc-gaming/clanhub/internal/rank"
	"gorm.io/gorm"
)

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account. It does not log the user in.
func (e *Engine) Register(ctx context.Context, username, email, password string) (*database.User, error) {
	username = strings.TrimSpace(username)
	email = NormalizeEmail(email)

	exists, err := e.db.UserExists(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing accounts: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: username or email already registered", ErrDuplicate)
	}

	digest, err := credentials.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &database.User{
		Username:     username,
		Email:        email,
		PasswordHash: digest,
		Rank:         rank.Recruit,
		ProfilePic:   gravatar.AvatarURL(email, e.cfg.Gravatar),
	}
	if err := e.db.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username or email already registered", ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("User registered", "user_id", user.ID, "username", user.Username)
	e.cache.InvalidateLeaderboard(ctx)
	return user, nil
}

// Authenticate checks a username and password pair.
func (e *Engine) Authenticate(ctx context.Context, username, password string) (*database.User, error) {
	user, err := e.db.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !credentials.Verify(password, user.PasswordHash) {
		log.Debug("Password mismatch", "username", user.Username)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser returns the user with the given ID.
func (e *Engine) GetUser(ctx context.Context, id uint) (*database.User, error) {
	user, err := e.db.GetUserByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

// DisableUser soft-deletes the account with the given username. Its sessions
// become stale and its username and email stay reserved.
func (e *Engine) DisableUser(ctx context.Context, username string) (*database.User, error) {
	user, err := e.db.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, notFound(err, "user")
	}
	if err := e.db.DeleteUser(ctx, user.ID); err != nil {
		return nil, notFound(err, "user")
	}
	log.Info("User disabled", "user_id", user.ID, "username", user.Username)
	e.cache.InvalidateLeaderboard(ctx)
	return user, nil
}
