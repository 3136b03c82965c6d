package engine

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mmc-gaming/clanhub/internal/database"
)

// AddEvent posts a bulletin entry. Only admins may post.
func (e *Engine) AddEvent(ctx context.Context, actor *database.User, title, description, date string) (*database.Event, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	event := &database.Event{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Date:        strings.TrimSpace(date),
	}
	if err := e.db.CreateEvent(ctx, event); err != nil {
		return nil, err
	}
	log.Info("Event added", "event_id", event.ID, "title", event.Title, "by", actor.Username)
	return event, nil
}

// ListEvents returns all events, most recent first.
func (e *Engine) ListEvents(ctx context.Context) ([]database.Event, error) {
	return e.db.GetEvents(ctx)
}
