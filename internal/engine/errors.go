package engine

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrDuplicate indicates that a username, email or clan name is already taken.
	ErrDuplicate = errors.New("already exists")
	// ErrInvalidCredentials indicates an unknown username or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAuthRequired indicates that the action needs a logged in user.
	ErrAuthRequired = errors.New("authentication required")
	// ErrForbidden indicates that the user lacks admin privileges.
	ErrForbidden = errors.New("admin privileges required")
	// ErrNotFound indicates that a referenced user or clan does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInconsistency indicates that a multi-record write was only partially applied.
	ErrInconsistency = errors.New("inconsistent state")
)

// notFound translates a missing record into ErrNotFound and passes other errors through.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}
