package models

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/julianstephens/noor/internal/constants"
)

// Role separates operators from children in the access-gated revision
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// BadgeID identifies a badge by its display name
type BadgeID string

// Profile is the user-facing part of a user record
type Profile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Avatar     string `json:"avatar"`
	CurrentDay int    `json:"currentDay"` // the day being viewed, not a timestamp
	Role       Role   `json:"role"`
	Passcode   string `json:"passcode"` // plaintext, compared verbatim
}

// NewUser carries the fields supplied when a user is created
type NewUser struct {
	Name     string
	Age      int
	Avatar   string
	Role     Role
	Passcode string
}

// Validate checks the form input. Age and avatar fall back to defaults.
func (n NewUser) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if n.Passcode != "" && utf8.RuneCountInString(n.Passcode) != constants.PasscodeLen {
		return fmt.Errorf("passcode must be exactly %d characters", constants.PasscodeLen)
	}
	if n.Role != "" && n.Role != RoleAdmin && n.Role != RoleUser {
		return fmt.Errorf("invalid role %q (expected admin|user)", n.Role)
	}
	return nil
}

// Profile builds the initial profile for id
func (n NewUser) Profile(id string) Profile {
	p := Profile{
		ID:         id,
		Name:       strings.TrimSpace(n.Name),
		Age:        n.Age,
		Avatar:     n.Avatar,
		CurrentDay: constants.FirstDay,
		Role:       n.Role,
		Passcode:   n.Passcode,
	}
	if p.Age <= 0 {
		p.Age = constants.DefaultAge
	}
	if p.Avatar == "" {
		p.Avatar = constants.DefaultAvatar
	}
	if p.Role == "" {
		p.Role = RoleUser
	}
	return p
}

// UserRecord is one user's profile, progress and earned badges
type UserRecord struct {
	Profile  Profile                `json:"profile"`
	Progress map[int]ProgressRecord `json:"progress"`
	Badges   []BadgeID              `json:"badges"`
}

// NewUserRecord returns a record with empty progress and no badges
func NewUserRecord(p Profile) UserRecord {
	return UserRecord{
		Profile:  p,
		Progress: map[int]ProgressRecord{},
		Badges:   []BadgeID{},
	}
}

// Clone returns a deep copy so the result can be changed without touching u
func (u UserRecord) Clone() UserRecord {
	out := u
	out.Progress = make(map[int]ProgressRecord, len(u.Progress))
	for day, rec := range u.Progress {
		out.Progress[day] = rec
	}
	out.Badges = append(make([]BadgeID, 0, len(u.Badges)), u.Badges...)
	return out
}

// HasBadge reports whether id has been earned
func (u UserRecord) HasBadge(id BadgeID) bool {
	for _, b := range u.Badges {
		if b == id {
			return true
		}
	}
	return false
}

// Day returns the record for day if one exists
func (u UserRecord) Day(day int) (ProgressRecord, bool) {
	rec, ok := u.Progress[day]
	return rec, ok
}

// DayOrDefault returns the record for day, or the default record the tracker shows
func (u UserRecord) DayOrDefault(day int) ProgressRecord {
	if rec, ok := u.Progress[day]; ok {
		return rec
	}
	return ProgressRecord{DayNumber: day, Fasted: FastNone}
}

// SortedDays returns the logged records ordered by day number
func (u UserRecord) SortedDays() []ProgressRecord {
	days := make([]ProgressRecord, 0, len(u.Progress))
	for _, rec := range u.Progress {
		days = append(days, rec)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].DayNumber < days[j].DayNumber })
	return days
}

// Normalize fills nil collections left by documents written elsewhere
func (u *UserRecord) Normalize() {
	if u.Progress == nil {
		u.Progress = map[int]ProgressRecord{}
	}
	if u.Badges == nil {
		u.Badges = []BadgeID{}
	}
}
