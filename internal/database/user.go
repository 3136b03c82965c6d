package database

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/mmc-gaming/clanhub/internal/rank"
	"gorm.io/gorm"
)

// User is a portal account.
// Rank is either derived from Kills or set manually, RankOverridden tells which.
type User struct {
	gorm.Model
	Username       string `gorm:"uniqueIndex;not null"`
	Email          string `gorm:"uniqueIndex;not null"`
	PasswordHash   string `gorm:"not null" json:"-"`
	Score          int    `gorm:"default:0;index"`
	Kills          int    `gorm:"default:0"`
	Matches        int    `gorm:"default:0"`
	Rank           string `gorm:"not null;default:Recruit"`
	RankOverridden bool   `gorm:"default:false"`
	ProfilePic     string
	IsAdmin        bool  `gorm:"default:false"`
	ClanID         *uint `gorm:"index"`
}

var _ rank.Ranked = (*User)(nil)

func (u *User) GetKills() int { return u.Kills }

// RankedUser is the leaderboard projection of a user. It carries no contact
// or credential data and is safe to keep in a shared cache.
type RankedUser struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Score      int    `json:"score"`
	Kills      int    `json:"kills"`
	Rank       string `json:"rank"`
	ProfilePic string `json:"profilePic"`
	ClanID     *uint  `json:"clanId"`
}

func (u *User) Ranked() RankedUser {
	return RankedUser{
		ID:         u.ID,
		Username:   u.Username,
		Score:      u.Score,
		Kills:      u.Kills,
		Rank:       u.Rank,
		ProfilePic: u.ProfilePic,
		ClanID:     u.ClanID,
	}
}

func (u *User) SetRank(label rank.Label, overridden bool) {
	u.Rank = label
	u.RankOverridden = overridden
}

// ProfileUpdate holds the profile fields a user can change. Nil fields are
// left untouched, a rank is always stored as overridden.
type ProfileUpdate struct {
	Rank       *string
	ProfilePic *string
}

// UserDB holds the user operations of the record store.
type UserDB interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uint) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	// UserExists reports whether any account, disabled ones included, uses
	// the username or the email.
	UserExists(ctx context.Context, username, email string) (bool, error)
	GetAllUsers(ctx context.Context) ([]User, error)
	// GetRankedUsers returns all users ordered by score descending, ties by ID ascending.
	GetRankedUsers(ctx context.Context) ([]User, error)
	GetUsersByClan(ctx context.Context, clanID uint) ([]User, error)
	// UpdateUser persists the stats and rank columns of user.
	UpdateUser(ctx context.Context, user *User) error
	// UpdateUserProfile writes only the profile columns of a user. It returns
	// the stored user and the picture that was replaced, "" if it was kept.
	UpdateUserProfile(ctx context.Context, id uint, update ProfileUpdate) (*User, string, error)
	SetUserAdmin(ctx context.Context, id uint, isAdmin bool) error
	SetUserClan(ctx context.Context, userID uint, clanID *uint) error
	// DeleteUser soft-deletes a user. The row keeps its username and email reserved.
	DeleteUser(ctx context.Context, id uint) error
}

func (c *Client) CreateUser(ctx context.Context, user *User) error {
	if err := c.db.WithContext(ctx).Create(user).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Error("failed to create user", "error", err)
		}
		return err
	}
	return nil
}

func (c *Client) GetUserByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get user by ID", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get user by username", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

func (c *Client) UserExists(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).Unscoped().Model(&User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		log.Error("failed to check user existence", "error", err)
		return false, err
	}
	return count > 0, nil
}

func (c *Client) GetAllUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		log.Error("failed to get all users", "error", err)
		return nil, err
	}
	return users, nil
}

func (c *Client) GetRankedUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.db.WithContext(ctx).Order("score DESC").Order("id ASC").Find(&users).Error; err != nil {
		log.Error("failed to get ranked users", "error", err)
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUsersByClan(ctx context.Context, clanID uint) ([]User, error) {
	var users []User
	if err := c.db.WithContext(ctx).Where("clan_id = ?", clanID).Order("id ASC").Find(&users).Error; err != nil {
		log.Error("failed to get clan members", "error", err, "clan_id", clanID)
		return nil, err
	}
	return users, nil
}

func (c *Client) UpdateUser(ctx context.Context, user *User) error {
	result := c.db.WithContext(ctx).Model(user).
		Select("score", "kills", "matches", "rank", "rank_overridden").
		Updates(user)
	if result.Error != nil {
		log.Error("failed to update user", "error", result.Error, "user_id", user.ID)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (c *Client) UpdateUserProfile(ctx context.Context, id uint, update ProfileUpdate) (*User, string, error) {
	var (
		stored   User
		replaced string
	)
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current User
		if err := tx.First(&current, id).Error; err != nil {
			return err
		}

		fields := map[string]any{}
		if update.Rank != nil {
			fields["rank"] = *update.Rank
			fields["rank_overridden"] = true
		}
		if update.ProfilePic != nil && *update.ProfilePic != current.ProfilePic {
			fields["profile_pic"] = *update.ProfilePic
			replaced = current.ProfilePic
		}
		if len(fields) > 0 {
			if err := tx.Model(&User{}).Where("id = ?", id).Updates(fields).Error; err != nil {
				return err
			}
		}
		return tx.First(&stored, id).Error
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to update user profile", "error", err, "user_id", id)
		}
		return nil, "", err
	}
	return &stored, replaced, nil
}

func (c *Client) SetUserAdmin(ctx context.Context, id uint, isAdmin bool) error {
	result := c.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("is_admin", isAdmin)
	if result.Error != nil {
		log.Error("failed to set admin flag", "error", result.Error, "user_id", id)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (c *Client) SetUserClan(ctx context.Context, userID uint, clanID *uint) error {
	result := c.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Update("clan_id", clanID)
	if result.Error != nil {
		log.Error("failed to set user clan", "error", result.Error, "user_id", userID)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	result := c.db.WithContext(ctx).Delete(&User{}, id)
	if result.Error != nil {
		log.Error("failed to delete user", "error", result.Error, "user_id", id)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
