// Package state holds the application state machine.
//
// The functions in this file are pure transitions: each takes a snapshot and
// returns a new one without modifying its input. None of them perform I/O.
// Store wraps them with id generation, a clock and change notification.
package state

import (
	"time"

	"github.com/julianstephens/noor/internal/auth"
	"github.com/julianstephens/noor/internal/badges"
	"github.com/julianstephens/noor/internal/errors"
	"github.com/julianstephens/noor/internal/models"
)

// CreateUser inserts a new user with empty progress and badges under id and
// activates it. Admin mode is cleared.
func CreateUser(s models.AppState, id string, fields models.NewUser) models.AppState {
	users := s.CloneUsers()
	users[id] = models.NewUserRecord(fields.Profile(id))

	return models.AppState{
		Users:        users,
		ActiveUserID: id,
	}
}

// SelectUser activates id without a passcode check. Unknown ids are a no-op.
func SelectUser(s models.AppState, id string) models.AppState {
	if !s.HasUser(id) {
		return s
	}
	next := s
	next.ActiveUserID = id
	next.IsAdminMode = false
	next.PendingLoginID = ""
	return next
}

// RequestLogin stages id for ConfirmLogin. Unknown ids are a no-op.
func RequestLogin(s models.AppState, id string) models.AppState {
	if !s.HasUser(id) {
		return s
	}
	next := s
	next.PendingLoginID = id
	return next
}

// ConfirmLogin activates the staged user when attempt matches its passcode.
// On mismatch, or when nothing is staged, s is returned with
// ErrAuthenticationFailed.
func ConfirmLogin(s models.AppState, attempt string, authenticate auth.Func) (models.AppState, error) {
	u, ok := s.Users[s.PendingLoginID]
	if s.PendingLoginID == "" || !ok {
		return s, errors.ErrAuthenticationFailed
	}
	if !authenticate(u.Profile.Passcode, attempt) {
		return s, errors.ErrAuthenticationFailed
	}
	return SelectUser(s, s.PendingLoginID), nil
}

// UpdateProgress merges patch into the active user's record for day and
// awards any badge the patch earns. No active user is a no-op.
func UpdateProgress(s models.AppState, day int, patch models.ProgressPatch, now time.Time) models.AppState {
	u, ok := s.ActiveUser()
	if !ok {
		return s
	}

	var existing *models.ProgressRecord
	if rec, found := u.Day(day); found {
		existing = &rec
	}
	rec := models.ApplyProgressUpdate(existing, day, patch, now)

	u = u.Clone()
	u.Progress[day] = rec
	for _, id := range badges.Evaluate(patch, rec) {
		u, _ = badges.Award(u, id)
	}

	return withUser(s, u)
}

// AddBadge awards id to the active user. Already held badges and a missing
// active user are no-ops; the original snapshot is returned.
func AddBadge(s models.AppState, id models.BadgeID) models.AppState {
	u, ok := s.ActiveUser()
	if !ok {
		return s
	}
	u, changed := badges.Award(u, id)
	if !changed {
		return s
	}
	return withUser(s, u)
}

// SetCurrentDay changes the day the active user is viewing
func SetCurrentDay(s models.AppState, day int) models.AppState {
	u, ok := s.ActiveUser()
	if !ok {
		return s
	}
	u.Profile.CurrentDay = day
	return withUser(s, u)
}

// Logout clears the active user and admin mode
func Logout(s models.AppState) models.AppState {
	next := s
	next.ActiveUserID = ""
	next.IsAdminMode = false
	next.PendingLoginID = ""
	return next
}

// DeleteUser removes id. Deleting the active user also clears ActiveUserID.
// Unknown ids are a no-op.
func DeleteUser(s models.AppState, id string) models.AppState {
	if !s.HasUser(id) {
		return s
	}
	next := s
	next.Users = s.CloneUsers()
	delete(next.Users, id)
	if next.ActiveUserID == id {
		next.ActiveUserID = ""
	}
	if next.PendingLoginID == id {
		next.PendingLoginID = ""
	}
	return next
}

// EnterAdminMode switches to the operator view when attempt matches secret.
// The active user is cleared on success.
func EnterAdminMode(s models.AppState, attempt, secret string, authenticate auth.Func) (models.AppState, error) {
	if !authenticate(secret, attempt) {
		return s, errors.ErrAuthenticationFailed
	}
	next := s
	next.IsAdminMode = true
	next.ActiveUserID = ""
	next.PendingLoginID = ""
	return next, nil
}

// ExitAdminMode leaves the operator view
func ExitAdminMode(s models.AppState) models.AppState {
	next := s
	next.IsAdminMode = false
	return next
}

// Reconcile replaces the users map with the remote one. The active id is
// kept only if it is still a key of remoteUsers.
func Reconcile(s models.AppState, remoteUsers map[string]models.UserRecord) models.AppState {
	users := make(map[string]models.UserRecord, len(remoteUsers))
	for id, u := range remoteUsers {
		u.Normalize()
		users[id] = u
	}

	next := s
	next.Users = users
	if _, ok := users[s.ActiveUserID]; !ok {
		next.ActiveUserID = ""
	}
	if _, ok := users[s.PendingLoginID]; !ok {
		next.PendingLoginID = ""
	}
	return next
}

// withUser stores u as the active user's record in a copy of s
func withUser(s models.AppState, u models.UserRecord) models.AppState {
	next := s
	next.Users = s.CloneUsers()
	next.Users[s.ActiveUserID] = u
	return next
}
