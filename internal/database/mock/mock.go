package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mmc-gaming/clanhub/internal/database"
	"gorm.io/gorm"
)

var _ database.DB = (*MockDB)(nil)

// MockDB is a mock implementation of database.DB for testing.
// Transactions are not isolated and never roll back.
type MockDB struct {
	mu sync.RWMutex

	users      map[uint]*database.User
	deleted    map[uint]*database.User
	nextUserID uint

	clans      map[uint]*database.Clan
	nextClanID uint

	events      map[uint]*database.Event
	nextEventID uint

	// Error simulation
	CreateUserError     error
	GetUserByIDError    error
	UserExistsError     error
	GetRankedUsersError error
	UpdateUserError     error
	SetUserClanError    error
	CreateClanError     error
	GetClanByIDError    error
	CreateEventError    error
	GetEventsError      error

	// RankedUsersCalls counts GetRankedUsers invocations.
	RankedUsersCalls int
}

// NewMockDB creates a new MockDB instance.
func NewMockDB() *MockDB {
	m := &MockDB{}
	m.Reset()
	return m
}

// Reset clears all data and errors from the mock database.
func (m *MockDB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = make(map[uint]*database.User)
	m.deleted = make(map[uint]*database.User)
	m.nextUserID = 1
	m.clans = make(map[uint]*database.Clan)
	m.nextClanID = 1
	m.events = make(map[uint]*database.Event)
	m.nextEventID = 1

	m.CreateUserError = nil
	m.GetUserByIDError = nil
	m.UserExistsError = nil
	m.GetRankedUsersError = nil
	m.UpdateUserError = nil
	m.SetUserClanError = nil
	m.CreateClanError = nil
	m.GetClanByIDError = nil
	m.CreateEventError = nil
	m.GetEventsError = nil
	m.RankedUsersCalls = 0
}

func (m *MockDB) Transaction(ctx context.Context, fn func(tx database.DB) error) error {
	return fn(m)
}

func (m *MockDB) GetStats(ctx context.Context) (*database.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &database.Stats{
		Users:         int64(len(m.users)),
		DisabledUsers: int64(len(m.deleted)),
		Clans:         int64(len(m.clans)),
		Events:        int64(len(m.events)),
	}
	for _, u := range m.users {
		if u.IsAdmin {
			stats.Admins++
		}
	}
	return stats, nil
}

func (m *MockDB) Close() error {
	return nil
}

// User operations

func (m *MockDB) CreateUser(ctx context.Context, user *database.User) error {
	if m.CreateUserError != nil {
		return m.CreateUserError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.userTaken(user.Username, user.Email) {
		return gorm.ErrDuplicatedKey
	}

	now := time.Now()
	user.ID = m.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now
	m.nextUserID++

	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *MockDB) userTaken(username, email string) bool {
	for _, set := range []map[uint]*database.User{m.users, m.deleted} {
		for _, u := range set {
			if u.Username == username || u.Email == email {
				return true
			}
		}
	}
	return false
}

func (m *MockDB) GetUserByID(ctx context.Context, id uint) (*database.User, error) {
	if m.GetUserByIDError != nil {
		return nil, m.GetUserByIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	u := *user
	return &u, nil
}

func (m *MockDB) GetUserByUsername(ctx context.Context, username string) (*database.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Username == username {
			u := *user
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockDB) UserExists(ctx context.Context, username, email string) (bool, error) {
	if m.UserExistsError != nil {
		return false, m.UserExistsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.userTaken(username, email), nil
}

func (m *MockDB) GetAllUsers(ctx context.Context) ([]database.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := m.snapshotUsers(nil)
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *MockDB) GetRankedUsers(ctx context.Context) ([]database.User, error) {
	if m.GetRankedUsersError != nil {
		return nil, m.GetRankedUsersError
	}

	m.mu.Lock()
	m.RankedUsersCalls++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	users := m.snapshotUsers(nil)
	sort.Slice(users, func(i, j int) bool {
		if users[i].Score != users[j].Score {
			return users[i].Score > users[j].Score
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (m *MockDB) GetUsersByClan(ctx context.Context, clanID uint) ([]database.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := m.snapshotUsers(func(u *database.User) bool {
		return u.ClanID != nil && *u.ClanID == clanID
	})
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *MockDB) snapshotUsers(keep func(*database.User) bool) []database.User {
	users := make([]database.User, 0, len(m.users))
	for _, u := range m.users {
		if keep == nil || keep(u) {
			users = append(users, *u)
		}
	}
	return users
}

func (m *MockDB) UpdateUser(ctx context.Context, user *database.User) error {
	if m.UpdateUserError != nil {
		return m.UpdateUserError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[user.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.Score = user.Score
	existing.Kills = user.Kills
	existing.Matches = user.Matches
	existing.Rank = user.Rank
	existing.RankOverridden = user.RankOverridden
	existing.UpdatedAt = time.Now()
	return nil
}

func (m *MockDB) UpdateUserProfile(ctx context.Context, id uint, update database.ProfileUpdate) (*database.User, string, error) {
	if m.UpdateUserError != nil {
		return nil, "", m.UpdateUserError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[id]
	if !ok {
		return nil, "", gorm.ErrRecordNotFound
	}
	if update.Rank != nil {
		existing.Rank = *update.Rank
		existing.RankOverridden = true
	}
	replaced := ""
	if update.ProfilePic != nil && *update.ProfilePic != existing.ProfilePic {
		replaced = existing.ProfilePic
		existing.ProfilePic = *update.ProfilePic
	}
	existing.UpdatedAt = time.Now()

	stored := *existing
	return &stored, replaced, nil
}

func (m *MockDB) SetUserAdmin(ctx context.Context, id uint, isAdmin bool) error {
	if m.UpdateUserError != nil {
		return m.UpdateUserError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.IsAdmin = isAdmin
	existing.UpdatedAt = time.Now()
	return nil
}

func (m *MockDB) SetUserClan(ctx context.Context, userID uint, clanID *uint) error {
	if m.SetUserClanError != nil {
		return m.SetUserClanError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if clanID == nil {
		existing.ClanID = nil
	} else {
		id := *clanID
		existing.ClanID = &id
	}
	return nil
}

func (m *MockDB) DeleteUser(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	m.deleted[id] = existing
	return nil
}

// Clan operations

func (m *MockDB) CreateClan(ctx context.Context, clan *database.Clan) error {
	if m.CreateClanError != nil {
		return m.CreateClanError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.clans {
		if c.Name == clan.Name {
			return gorm.ErrDuplicatedKey
		}
	}

	now := time.Now()
	clan.ID = m.nextClanID
	clan.CreatedAt = now
	clan.UpdatedAt = now
	m.nextClanID++

	stored := *clan
	stored.Members = nil
	m.clans[clan.ID] = &stored
	return nil
}

func (m *MockDB) GetClanByID(ctx context.Context, id uint) (*database.Clan, error) {
	if m.GetClanByIDError != nil {
		return nil, m.GetClanByIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	clan, ok := m.clans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *clan
	return &c, nil
}

func (m *MockDB) ClanNameExists(ctx context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.clans {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockDB) GetAllClans(ctx context.Context) ([]database.Clan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	clans := make([]database.Clan, 0, len(m.clans))
	for _, c := range m.clans {
		clan := *c
		clan.Members = m.snapshotUsers(func(u *database.User) bool {
			return u.ClanID != nil && *u.ClanID == c.ID
		})
		sort.Slice(clan.Members, func(i, j int) bool { return clan.Members[i].ID < clan.Members[j].ID })
		clans = append(clans, clan)
	}
	sort.Slice(clans, func(i, j int) bool { return clans[i].ID < clans[j].ID })
	return clans, nil
}

// Event operations

func (m *MockDB) CreateEvent(ctx context.Context, event *database.Event) error {
	if m.CreateEventError != nil {
		return m.CreateEventError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	event.ID = m.nextEventID
	event.CreatedAt = now
	event.UpdatedAt = now
	m.nextEventID++

	stored := *event
	m.events[event.ID] = &stored
	return nil
}

func (m *MockDB) GetEvents(ctx context.Context) ([]database.Event, error) {
	if m.GetEventsError != nil {
		return nil, m.GetEventsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]database.Event, 0, len(m.events))
	for _, e := range m.events {
		events = append(events, *e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID > events[j].ID })
	return events, nil
}
