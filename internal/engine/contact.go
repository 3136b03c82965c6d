package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmc-gaming/clanhub/internal/database"
	"github.com/mmc-gaming/clanhub/internal/notify/email"
)

// Contact forwards a contact form message to the operator. actor may be nil.
func (e *Engine) Contact(ctx context.Context, actor *database.User, name, address, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := email.ContactMessage{
		Name:    strings.TrimSpace(name),
		Email:   NormalizeEmail(address),
		Message: strings.TrimSpace(message),
	}
	if actor != nil {
		msg.Username = actor.Username
	}
	if err := e.email.SendContactMessage(msg); err != nil {
		return fmt.Errorf("failed to deliver contact message: %w", err)
	}
	return nil
}
