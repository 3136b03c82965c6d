// Package auth tracks the logged in user in a cookie session.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/mmc-gaming/clanhub/internal/database"
	"github.com/mmc-gaming/clanhub/internal/engine"
)

const (
	sessionUserKey = "user_id"
	contextUserKey = "user"
)

// UserLoader resolves a session user ID to a user.
type UserLoader interface {
	GetUser(ctx context.Context, id uint) (*database.User, error)
}

// Login binds user to the session.
func Login(c *gin.Context, user *database.User) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserKey, user.ID)
	return session.Save()
}

// Logout clears the session. It is a no-op for anonymous sessions.
func Logout(c *gin.Context) error {
	session := sessions.Default(c)
	if session.Get(sessionUserKey) == nil {
		return nil
	}
	session.Clear()
	return session.Save()
}

// CurrentUser returns the logged in user or nil. A session pointing at a
// user that no longer exists is cleared.
func CurrentUser(c *gin.Context, loader UserLoader) *database.User {
	session := sessions.Default(c)
	userID, ok := session.Get(sessionUserKey).(uint)
	if !ok {
		return nil
	}

	user, err := loader.GetUser(c.Request.Context(), userID)
	if err != nil {
		if !errors.Is(err, engine.ErrNotFound) {
			log.Error("Failed to load session user", "user_id", userID, "error", err)
			return nil
		}
		log.Debug("Clearing stale session", "user_id", userID)
		session.Clear()
		if err := session.Save(); err != nil {
			log.Error("Failed to save session", "error", err)
		}
		return nil
	}
	return user
}

// User returns the user resolved by LoadUser, or nil.
func User(c *gin.Context) *database.User {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*database.User)
	return user
}

// LoadUser resolves the session user once per request.
func LoadUser(loader UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := CurrentUser(c, loader); user != nil {
			c.Set(contextUserKey, user)
		}
		c.Next()
	}
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := engine.RequireUser(User(c)); err != nil {
			abort(c, err)
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := engine.RequireAdmin(User(c)); err != nil {
			abort(c, err)
			return
		}
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	status := http.StatusUnauthorized
	if errors.Is(err, engine.ErrForbidden) {
		status = http.StatusForbidden
	}
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}
