package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ DB = (*Client)(nil) // Ensure Client implements DB

// DB is the record store used by the portal.
type DB interface {
	UserDB
	ClanDB
	EventDB

	// Transaction runs fn with a DB bound to a single transaction. The
	// transaction is committed if fn returns nil and rolled back otherwise.
	Transaction(ctx context.Context, fn func(tx DB) error) error
	// GetStats returns record counts.
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}

// Stats holds record counts for the db-stats command.
type Stats struct {
	Users         int64
	Admins        int64
	DisabledUsers int64
	Clans         int64
	Events        int64
}

// Client wraps the gorm.DB instance.
type Client struct {
	db *gorm.DB
}

// New creates a new database connection and performs migrations.
func New(dbpath string) (*Client, error) {
	if dir := filepath.Dir(dbpath); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := dbpath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		// users.clan_id and clans.leader_id reference each other
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&User{},
		&Clan{},
		&Event{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Client{db: db}, nil
}

func (c *Client) Transaction(ctx context.Context, fn func(tx DB) error) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Client{db: tx})
	})
}

func (c *Client) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	db := c.db.WithContext(ctx)
	if err := db.Model(&User{}).Count(&stats.Users).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&User{}).Where("is_admin = ?", true).Count(&stats.Admins).Error; err != nil {
		return nil, err
	}
	if err := db.Unscoped().Model(&User{}).Where("deleted_at IS NOT NULL").Count(&stats.DisabledUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&Clan{}).Count(&stats.Clans).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&Event{}).Count(&stats.Events).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
