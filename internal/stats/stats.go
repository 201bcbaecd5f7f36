// Package stats summarises a user's logged days for the overview panel.
package stats

import (
	"fmt"
	"sort"

	"github.com/julianstephens/noor/internal/models"
)

// CompletePrayers is the prayer count highlighted as a complete day
const CompletePrayers = 5

// DayPoint is one bar of the daily prayer chart
type DayPoint struct {
	Day        int
	Label      string
	Prayers    int
	QuranPages int
	Complete   bool
}

// Overview is the totals plus per-day points, ordered by day number
type Overview struct {
	TotalFullFasts  int
	TotalQuranPages int
	DaysLogged      int
	Days            []DayPoint
}

// Compute builds the overview for a progress map
func Compute(progress map[int]models.ProgressRecord) Overview {
	var o Overview
	o.Days = make([]DayPoint, 0, len(progress))

	for day, rec := range progress {
		if rec.Fasted == models.FastFull {
			o.TotalFullFasts++
		}
		o.TotalQuranPages += rec.QuranPages

		count := rec.Prayers.Count()
		o.Days = append(o.Days, DayPoint{
			Day:        day,
			Label:      fmt.Sprintf("D%d", day),
			Prayers:    count,
			QuranPages: rec.QuranPages,
			Complete:   count == CompletePrayers,
		})
	}
	o.DaysLogged = len(o.Days)

	sort.Slice(o.Days, func(i, j int) bool { return o.Days[i].Day < o.Days[j].Day })
	return o
}

// MaxPrayers returns the highest prayer count in the overview
func (o Overview) MaxPrayers() int {
	max := 0
	for _, d := range o.Days {
		if d.Prayers > max {
			max = d.Prayers
		}
	}
	return max
}
