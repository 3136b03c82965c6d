package database

import (
	"context"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Event is an admin-posted bulletin entry.
type Event struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text;not null"`
	Date        string `gorm:"not null"`
}

type EventDB interface {
	CreateEvent(ctx context.Context, event *Event) error
	// GetEvents returns all events, most recent first.
	GetEvents(ctx context.Context) ([]Event, error)
}

func (c *Client) CreateEvent(ctx context.Context, event *Event) error {
	if err := c.db.WithContext(ctx).Create(event).Error; err != nil {
		log.Error("failed to create event", "error", err)
		return err
	}
	return nil
}

func (c *Client) GetEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := c.db.WithContext(ctx).Order("id DESC").Find(&events).Error; err != nil {
		log.Error("failed to get events", "error", err)
		return nil, err
	}
	return events, nil
}
