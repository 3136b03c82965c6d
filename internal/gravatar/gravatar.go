package gravatar

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmc-gaming/clanhub/internal/config"
)

// DefaultAvatar is the profile picture used when Gravatar is disabled.
const DefaultAvatar = "/static/default-avatar.png"

// AvatarURL returns the initial profile picture for a new account: the
// Gravatar URL for email when enabled, DefaultAvatar otherwise.
func AvatarURL(email string, cfg *config.GravatarConfig) string {
	if u := GenerateURL(email, cfg); u != "" {
		return u
	}
	return DefaultAvatar
}

// GenerateURL generates a Gravatar URL for the given email address.
// Returns an empty string if Gravatar is disabled or email is empty.
func GenerateURL(email string, cfg *config.GravatarConfig) string {
	if cfg == nil || !cfg.Enabled {
		return ""
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return ""
	}

	hash := sha256.Sum256([]byte(email))
	avatar := "https://www.gravatar.com/avatar/" + hex.EncodeToString(hash[:])

	params := url.Values{}
	if IsValidDefaultImage(cfg.DefaultImage) {
		params.Add("d", cfg.DefaultImage)
	}
	if IsValidRating(cfg.Rating) {
		params.Add("r", cfg.Rating)
	}
	if IsValidSize(cfg.Size) {
		params.Add("s", strconv.Itoa(cfg.Size))
	}
	if len(params) > 0 {
		avatar += "?" + params.Encode()
	}
	return avatar
}

// IsValidDefaultImage checks if the provided default image value is valid for Gravatar.
func IsValidDefaultImage(defaultImage string) bool {
	switch defaultImage {
	case "404", "mp", "identicon", "monsterid", "wavatar", "retro", "robohash", "blank":
		return true
	}
	return false
}

// IsValidRating checks if the provided rating value is valid for Gravatar.
func IsValidRating(rating string) bool {
	switch rating {
	case "g", "pg", "r", "x":
		return true
	}
	return false
}

// IsValidSize checks if the provided size value is valid for Gravatar (1-2048 pixels).
func IsValidSize(size int) bool {
	return size >= 1 && size <= 2048
}
