// Package report renders a user's Ramadan journey as a downloadable text document.
package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/noor/internal/constants"
	"github.com/julianstephens/noor/internal/models"
	"github.com/julianstephens/noor/internal/stats"
)

const Title = "Ramadan Journey Report"

var whitespace = regexp.MustCompile(`\s+`)

// FileName is the download name for a user's report
func FileName(name string) string {
	return fmt.Sprintf("Ramadan_Journey_%s.txt", whitespace.ReplaceAllString(name, "_"))
}

// FastingCell is the glyph shown for a day's fasting status
func FastingCell(f models.FastStatus) string {
	switch f {
	case models.FastFull:
		return "🌟 Full"
	case models.FastNone:
		return "❌"
	default:
		return "🌙 Part"
	}
}

// Render builds the report for u. generated is printed in the footer.
func Render(u models.UserRecord, generated time.Time) string {
	overview := stats.Compute(u.Progress)

	var b strings.Builder
	b.WriteString(Title + "\n")
	b.WriteString(strings.Repeat("=", len(Title)) + "\n")
	fmt.Fprintf(&b, "%s (Age: %d)\n\n", u.Profile.Name, u.Profile.Age)

	totals := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Total Fasts", "Quran Pages", "Current Day").
		Row(
			strconv.Itoa(overview.TotalFullFasts),
			strconv.Itoa(overview.TotalQuranPages),
			strconv.Itoa(u.Profile.CurrentDay),
		)
	b.WriteString(totals.String() + "\n\n")

	days := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Day", "Fasting", "Prayers", "Quran", "Good Deed")
	for _, rec := range u.SortedDays() {
		deed := rec.GoodDeed
		if deed == "" {
			deed = "-"
		}
		days.Row(
			strconv.Itoa(rec.DayNumber),
			FastingCell(rec.Fasted),
			fmt.Sprintf("%d/%d", rec.Prayers.Count(), len(models.AllPrayers)),
			strconv.Itoa(rec.QuranPages),
			deed,
		)
	}
	b.WriteString(days.String() + "\n\n")

	fmt.Fprintf(&b, "Generated on %s\n", generated.Format(constants.DateFormat))
	return b.String()
}
