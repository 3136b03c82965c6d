package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mmc-gaming/clanhub/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLeaderboard_Positions(t *testing.T) {
	users := []database.RankedUser{{Username: "d", Score: 90}, {Username: "a", Score: 50}, {Username: "b", Score: 10}}

	rows := ToLeaderboard(users)
	require.Len(t, rows, 3)
	assert.Equal(t, 1, rows[0].Position)
	assert.Equal(t, "d", rows[0].Username)
	assert.Equal(t, 3, rows[2].Position)
	assert.Empty(t, ToLeaderboard(nil))
}

func TestToUserView_HidesSecrets(t *testing.T) {
	u := database.User{Username: "alice", Email: "alice@example.com", PasswordHash: "$2a$10$digest"}
	u.CreatedAt = time.Now().Add(-2 * time.Hour)

	data, err := json.Marshal(ToUserView(u))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "digest")
	assert.NotContains(t, string(data), "alice@example.com")
	assert.Contains(t, ToUserView(u).Joined, "ago")

	profile := ToProfileView(&u)
	require.NotNil(t, profile)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.Nil(t, ToProfileView(nil))
}

func TestToClanView_CountsMembers(t *testing.T) {
	c := database.Clan{Name: "Wolves", Members: []database.User{{Username: "a"}, {Username: "b"}}}
	view := ToClanView(c)
	assert.Equal(t, 2, view.MemberCount)
	assert.Equal(t, "b", view.Members[1].Username)
}
