package tracker

import (
	"fmt"
	"strings"

	"github.com/julianstephens/noor/internal/badges"
	"github.com/julianstephens/noor/internal/cli"
	"github.com/julianstephens/noor/internal/models"
)

// LogCmd groups the progress commands. Each one edits the active user's
// current day unless --day is given.
type LogCmd struct {
	Fast  LogFastCmd  `cmd:"" help:"Record today's fast (full|half|trying|none)."`
	Pray  LogPrayCmd  `cmd:"" help:"Toggle a prayer (fajr|dhuhr|asr|maghrib|isha|taraweeh)."`
	Quran LogQuranCmd `cmd:"" help:"Record Quran pages read."`
	Deed  LogDeedCmd  `cmd:"" help:"Record a good deed."`
}

type DayOption struct {
	Day int `help:"Day to edit (defaults to the current day)."`
}

type LogFastCmd struct {
	DayOption `embed:""`
	Status string `arg:"" help:"full, half, trying or none."`
}

func (c *LogFastCmd) Run(ctx *cli.Context) error {
	status, err := models.ParseFastStatus(c.Status)
	if err != nil {
		return err
	}
	return logProgress(ctx, c.Day, func(day int) {
		ctx.Store.SetFasted(day, status)
	}, fmt.Sprintf("Fast: %s", status.Label()))
}

type LogPrayCmd struct {
	DayOption `embed:""`
	Prayers []string `arg:"" help:"One or more prayers to toggle."`
}

func (c *LogPrayCmd) Run(ctx *cli.Context) error {
	parsed := make([]models.Prayer, 0, len(c.Prayers))
	for _, p := range c.Prayers {
		prayer, err := models.ParsePrayer(p)
		if err != nil {
			return err
		}
		parsed = append(parsed, prayer)
	}
	return logProgress(ctx, c.Day, func(day int) {
		for _, p := range parsed {
			ctx.Store.TogglePrayer(day, p)
		}
	}, "Prayers updated")
}

type LogQuranCmd struct {
	DayOption `embed:""`
	Pages int `arg:"" help:"Pages read."`
}

func (c *LogQuranCmd) Run(ctx *cli.Context) error {
	if err := models.QuranPatch(c.Pages).Validate(); err != nil {
		return err
	}
	return logProgress(ctx, c.Day, func(day int) {
		ctx.Store.SetQuranPages(day, c.Pages)
	}, fmt.Sprintf("Quran: %d pages", c.Pages))
}

type LogDeedCmd struct {
	DayOption `embed:""`
	Text []string `arg:"" help:"What you did."`
}

func (c *LogDeedCmd) Run(ctx *cli.Context) error {
	deed := strings.TrimSpace(strings.Join(c.Text, " "))
	return logProgress(ctx, c.Day, func(day int) {
		ctx.Store.SetGoodDeed(day, deed)
	}, "Good deed saved")
}

// logProgress opens the session, applies edit to the target day, then
// reports the day and any badge the edit earned
func logProgress(ctx *cli.Context, dayFlag int, edit func(day int), done string) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	before, err := ctx.ActiveUser()
	if err != nil {
		return err
	}
	day, err := targetDay(before, dayFlag)
	if err != nil {
		return err
	}

	edit(day)

	after, err := ctx.ActiveUser()
	if err != nil {
		return err
	}
	cli.Successf(ctx.Out, "Day %d: %s", day, done)
	for _, id := range newBadges(before, after) {
		icon := "🏅"
		if b, ok := badges.Lookup(id); ok {
			icon = b.Icon
		}
		cli.Badgef(ctx.Out, "%s New badge: %s!", icon, id)
	}
	return nil
}

func newBadges(before, after models.UserRecord) []models.BadgeID {
	var out []models.BadgeID
	for _, id := range after.Badges {
		if !before.HasBadge(id) {
			out = append(out, id)
		}
	}
	return out
}
