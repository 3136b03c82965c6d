package database

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Clan is a named group of users with one leader.
// Members link to the clan through User.ClanID, the clan does not own them.
type Clan struct {
	gorm.Model
	Name     string `gorm:"uniqueIndex;not null"`
	Slogan   string
	Logo     string
	LeaderID uint   `gorm:"not null;index"`
	Members  []User `gorm:"foreignKey:ClanID"`
}

type ClanDB interface {
	CreateClan(ctx context.Context, clan *Clan) error
	GetClanByID(ctx context.Context, id uint) (*Clan, error)
	ClanNameExists(ctx context.Context, name string) (bool, error)
	GetAllClans(ctx context.Context) ([]Clan, error)
}

func (c *Client) CreateClan(ctx context.Context, clan *Clan) error {
	if err := c.db.WithContext(ctx).Omit("Members").Create(clan).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Error("failed to create clan", "error", err)
		}
		return err
	}
	return nil
}

func (c *Client) GetClanByID(ctx context.Context, id uint) (*Clan, error) {
	var clan Clan
	if err := c.db.WithContext(ctx).First(&clan, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get clan by ID", "error", err)
		}
		return nil, err
	}
	return &clan, nil
}

func (c *Client) ClanNameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := c.db.WithContext(ctx).Unscoped().Model(&Clan{}).Where("name = ?", name).Count(&count).Error; err != nil {
		log.Error("failed to check clan name", "error", err)
		return false, err
	}
	return count > 0, nil
}

func (c *Client) GetAllClans(ctx context.Context) ([]Clan, error) {
	var clans []Clan
	if err := c.db.WithContext(ctx).Preload("Members").Order("id ASC").Find(&clans).Error; err != nil {
		log.Error("failed to get all clans", "error", err)
		return nil, err
	}
	return clans, nil
}
