package models

import (
	"github.com/mergestat/timediff"
	"github.com/mmc-gaming/clanhub/internal/database"
	"github.com/samber/lo"
)

// ToUserView converts a database.User to its public view.
// The password digest never leaves the database package.
func ToUserView(u database.User) UserView {
	return UserView{
		ID:             u.ID,
		Username:       u.Username,
		Score:          u.Score,
		Kills:          u.Kills,
		Matches:        u.Matches,
		Rank:           u.Rank,
		RankOverridden: u.RankOverridden,
		ProfilePic:     u.ProfilePic,
		IsAdmin:        u.IsAdmin,
		ClanID:         u.ClanID,
		JoinedAt:       u.CreatedAt,
		Joined:         timediff.TimeDiff(u.CreatedAt),
	}
}

// ToProfileView converts the logged in user, including the email address.
func ToProfileView(u *database.User) *UserView {
	if u == nil {
		return nil
	}
	view := ToUserView(*u)
	view.Email = u.Email
	return &view
}

// ToLeaderboard converts an ordered ranking into leaderboard rows.
func ToLeaderboard(users []database.RankedUser) []LeaderboardEntry {
	return lo.Map(users, func(u database.RankedUser, i int) LeaderboardEntry {
		return LeaderboardEntry{
			Position:   i + 1,
			ID:         u.ID,
			Username:   u.Username,
			Score:      u.Score,
			Kills:      u.Kills,
			Rank:       u.Rank,
			ProfilePic: u.ProfilePic,
			ClanID:     u.ClanID,
		}
	})
}

func toMemberView(u database.User, _ int) MemberView {
	return MemberView{
		ID:         u.ID,
		Username:   u.Username,
		Rank:       u.Rank,
		Score:      u.Score,
		ProfilePic: u.ProfilePic,
	}
}

func ToClanView(c database.Clan) ClanView {
	members := lo.Map(c.Members, toMemberView)
	return ClanView{
		ID:          c.ID,
		Name:        c.Name,
		Slogan:      c.Slogan,
		Logo:        c.Logo,
		LeaderID:    c.LeaderID,
		MemberCount: len(members),
		Members:     members,
	}
}

func ToClanViews(clans []database.Clan) []ClanView {
	return lo.Map(clans, func(c database.Clan, _ int) ClanView { return ToClanView(c) })
}

func ToEventView(e database.Event) EventView {
	return EventView{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		PostedAt:    e.CreatedAt,
		Posted:      timediff.TimeDiff(e.CreatedAt),
	}
}

func ToEventViews(events []database.Event) []EventView {
	return lo.Map(events, func(e database.Event, _ int) EventView { return ToEventView(e) })
}
