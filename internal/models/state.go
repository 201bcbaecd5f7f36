package models

import (
	"sort"
	"strings"
)

// AppState is the whole application snapshot. Snapshots are treated as
// immutable: transitions copy what they change.
type AppState struct {
	Users        map[string]UserRecord `json:"users"`
	ActiveUserID string                `json:"activeUserId,omitempty"`
	IsAdminMode  bool                  `json:"isAdminMode"`
	// PendingLoginID is the user staged by a login request; it is never persisted.
	PendingLoginID string `json:"-"`
}

// EmptyState returns the state used before anything is loaded
func EmptyState() AppState {
	return AppState{Users: map[string]UserRecord{}}
}

// CloneUsers returns a shallow copy of the users map. Records are values;
// their nested maps must be cloned before being changed.
func (s AppState) CloneUsers() map[string]UserRecord {
	users := make(map[string]UserRecord, len(s.Users))
	for id, u := range s.Users {
		users[id] = u
	}
	return users
}

// ActiveUser returns the logged-in user's record
func (s AppState) ActiveUser() (UserRecord, bool) {
	if s.ActiveUserID == "" {
		return UserRecord{}, false
	}
	u, ok := s.Users[s.ActiveUserID]
	return u, ok
}

// HasUser reports whether id is a key of the users map
func (s AppState) HasUser(id string) bool {
	_, ok := s.Users[id]
	return ok
}

// SortedUsers returns users ordered by name, then id
func (s AppState) SortedUsers() []UserRecord {
	users := make([]UserRecord, 0, len(s.Users))
	for _, u := range s.Users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		a, b := strings.ToLower(users[i].Profile.Name), strings.ToLower(users[j].Profile.Name)
		if a != b {
			return a < b
		}
		return users[i].Profile.ID < users[j].Profile.ID
	})
	return users
}

// Normalize fills nil collections after decoding
func (s *AppState) Normalize() {
	if s.Users == nil {
		s.Users = map[string]UserRecord{}
	}
	for id, u := range s.Users {
		u.Normalize()
		s.Users[id] = u
	}
}
