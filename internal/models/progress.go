package models

import (
	"fmt"
	"strings"
	"time"
)

// FastStatus is how much of the day's fast was kept
type FastStatus string

const (
	FastFull   FastStatus = "full"
	FastHalf   FastStatus = "half"
	FastTrying FastStatus = "trying"
	FastNone   FastStatus = "none"
)

// FastStatuses lists every status in the order the tracker offers them
var FastStatuses = []FastStatus{FastFull, FastHalf, FastTrying, FastNone}

func (f FastStatus) Valid() bool {
	switch f {
	case FastFull, FastHalf, FastTrying, FastNone:
		return true
	default:
		return false
	}
}

// Label returns the tracker button label for the status
func (f FastStatus) Label() string {
	switch f {
	case FastFull:
		return "Full Fast"
	case FastHalf:
		return "Half Fast"
	case FastTrying:
		return "I Tried!"
	default:
		return "Not Today"
	}
}

// Next cycles through the statuses in tracker order
func (f FastStatus) Next() FastStatus {
	for i, s := range FastStatuses {
		if s == f {
			return FastStatuses[(i+1)%len(FastStatuses)]
		}
	}
	return FastFull
}

// ParseFastStatus parses a case-insensitive status name
func ParseFastStatus(s string) (FastStatus, error) {
	f := FastStatus(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("invalid fasting status %q (expected full|half|trying|none)", s)
	}
	return f, nil
}

// Prayer names one of the six tracked prayers
type Prayer string

const (
	Fajr     Prayer = "fajr"
	Dhuhr    Prayer = "dhuhr"
	Asr      Prayer = "asr"
	Maghrib  Prayer = "maghrib"
	Isha     Prayer = "isha"
	Taraweeh Prayer = "taraweeh"
)

// AllPrayers is the display order of the prayers
var AllPrayers = []Prayer{Fajr, Dhuhr, Asr, Maghrib, Isha, Taraweeh}

// ParsePrayer parses a case-insensitive prayer name
func ParsePrayer(s string) (Prayer, error) {
	p := Prayer(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllPrayers {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid prayer %q (expected fajr|dhuhr|asr|maghrib|isha|taraweeh)", s)
}

// Prayers holds the six prayer flags for one day
type Prayers struct {
	Fajr     bool `json:"fajr"`
	Dhuhr    bool `json:"dhuhr"`
	Asr      bool `json:"asr"`
	Maghrib  bool `json:"maghrib"`
	Isha     bool `json:"isha"`
	Taraweeh bool `json:"taraweeh"`
}

func (p Prayers) Get(name Prayer) bool {
	switch name {
	case Fajr:
		return p.Fajr
	case Dhuhr:
		return p.Dhuhr
	case Asr:
		return p.Asr
	case Maghrib:
		return p.Maghrib
	case Isha:
		return p.Isha
	case Taraweeh:
		return p.Taraweeh
	default:
		return false
	}
}

// With returns a copy with one flag set to v
func (p Prayers) With(name Prayer, v bool) Prayers {
	switch name {
	case Fajr:
		p.Fajr = v
	case Dhuhr:
		p.Dhuhr = v
	case Asr:
		p.Asr = v
	case Maghrib:
		p.Maghrib = v
	case Isha:
		p.Isha = v
	case Taraweeh:
		p.Taraweeh = v
	}
	return p
}

// Toggle returns a copy with one flag flipped
func (p Prayers) Toggle(name Prayer) Prayers {
	return p.With(name, !p.Get(name))
}

// Count returns how many of the six flags are set
func (p Prayers) Count() int {
	n := 0
	for _, name := range AllPrayers {
		if p.Get(name) {
			n++
		}
	}
	return n
}

// ProgressRecord is one day's logged facts for one user
type ProgressRecord struct {
	Date       time.Time  `json:"date"`
	DayNumber  int        `json:"dayNumber"`
	Fasted     FastStatus `json:"fasted"`
	Prayers    Prayers    `json:"prayers"`
	QuranPages int        `json:"quranPages"`
	GoodDeed   string     `json:"goodDeed"`
	// KindnessPoints is part of the stored document but no operation writes it.
	KindnessPoints int `json:"kindnessPoints"`
}

// NewProgressRecord returns the default record for a day that has no entry yet
func NewProgressRecord(day int, now time.Time) ProgressRecord {
	return ProgressRecord{
		Date:      now.UTC(),
		DayNumber: day,
		Fasted:    FastNone,
	}
}

// ProgressPatch is a partial update; nil fields are left untouched.
// Prayers must be the complete six-flag value, the merge does not recurse into it.
type ProgressPatch struct {
	Fasted     *FastStatus `json:"fasted,omitempty"`
	Prayers    *Prayers    `json:"prayers,omitempty"`
	QuranPages *int        `json:"quranPages,omitempty"`
	GoodDeed   *string     `json:"goodDeed,omitempty"`
}

// IsEmpty reports whether the patch carries no fields
func (p ProgressPatch) IsEmpty() bool {
	return p.Fasted == nil && p.Prayers == nil && p.QuranPages == nil && p.GoodDeed == nil
}

// Validate checks the patch shape. The model itself accepts any value;
// this is used by input surfaces.
func (p ProgressPatch) Validate() error {
	if p.Fasted != nil && !p.Fasted.Valid() {
		return fmt.Errorf("invalid fasting status %q", *p.Fasted)
	}
	if p.QuranPages != nil && *p.QuranPages < 0 {
		return fmt.Errorf("quran pages cannot be negative")
	}
	return nil
}

// ApplyProgressUpdate overlays patch on the existing record, or on the default
// record for day when existing is nil.
func ApplyProgressUpdate(existing *ProgressRecord, day int, patch ProgressPatch, now time.Time) ProgressRecord {
	var rec ProgressRecord
	if existing != nil {
		rec = *existing
	} else {
		rec = NewProgressRecord(day, now)
	}

	if patch.Fasted != nil {
		rec.Fasted = *patch.Fasted
	}
	if patch.Prayers != nil {
		rec.Prayers = *patch.Prayers
	}
	if patch.QuranPages != nil {
		rec.QuranPages = *patch.QuranPages
	}
	if patch.GoodDeed != nil {
		rec.GoodDeed = *patch.GoodDeed
	}

	return rec
}

// Patch helpers

func FastedPatch(f FastStatus) ProgressPatch {
	return ProgressPatch{Fasted: &f}
}

func PrayersPatch(p Prayers) ProgressPatch {
	return ProgressPatch{Prayers: &p}
}

func QuranPatch(pages int) ProgressPatch {
	return ProgressPatch{QuranPages: &pages}
}

func GoodDeedPatch(deed string) ProgressPatch {
	return ProgressPatch{GoodDeed: &deed}
}
