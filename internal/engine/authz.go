package engine

import "github.com/mmc-gaming/clanhub/internal/database"

// RequireUser fails with ErrAuthRequired when no user is logged in.
func RequireUser(user *database.User) error {
	if user == nil {
		return ErrAuthRequired
	}
	return nil
}

// RequireAdmin is the authorization gate for admin-only actions.
func RequireAdmin(user *database.User) error {
	if err := RequireUser(user); err != nil {
		return err
	}
	if !user.IsAdmin {
		return ErrForbidden
	}
	return nil
}
