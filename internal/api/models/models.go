package models

import "time"

// UserView is the public projection of a user. Email is only filled for the
// user's own profile.
type UserView struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	Score          int       `json:"score"`
	Kills          int       `json:"kills"`
	Matches        int       `json:"matches"`
	Rank           string    `json:"rank"`
	RankOverridden bool      `json:"rankOverridden"`
	ProfilePic     string    `json:"profilePic"`
	IsAdmin        bool      `json:"isAdmin"`
	ClanID         *uint     `json:"clanId"`
	JoinedAt       time.Time `json:"joinedAt"`
	Joined         string    `json:"joined"` // human readable, e.g. "3 days ago"
}

// LeaderboardEntry is one row of the leaderboard. Position starts at 1.
type LeaderboardEntry struct {
	Position   int    `json:"position"`
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Score      int    `json:"score"`
	Kills      int    `json:"kills"`
	Rank       string `json:"rank"`
	ProfilePic string `json:"profilePic"`
	ClanID     *uint  `json:"clanId"`
}

type MemberView struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Rank       string `json:"rank"`
	Score      int    `json:"score"`
	ProfilePic string `json:"profilePic"`
}

type ClanView struct {
	ID          uint         `json:"id"`
	Name        string       `json:"name"`
	Slogan      string       `json:"slogan"`
	Logo        string       `json:"logo"`
	LeaderID    uint         `json:"leaderId"`
	MemberCount int          `json:"memberCount"`
	Members     []MemberView `json:"members"`
}

type EventView struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	PostedAt    time.Time `json:"postedAt"`
	Posted      string    `json:"posted"`
}
