package tracker

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/noor/internal/badges"
	"github.com/julianstephens/noor/internal/cli"
	"github.com/julianstephens/noor/internal/constants"
	"github.com/julianstephens/noor/internal/models"
	"github.com/julianstephens/noor/internal/report"
	"github.com/julianstephens/noor/internal/stats"
)

type StatusCmd struct {
	DayOption `embed:""`
}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	u, err := ctx.ActiveUser()
	if err != nil {
		return err
	}
	day, err := targetDay(u, c.Day)
	if err != nil {
		return err
	}

	rec := u.DayOrDefault(day)
	fmt.Fprintf(ctx.Out, "%s %s · Day %d of %d\n\n", u.Profile.Avatar, u.Profile.Name, day, constants.LastDay)
	fmt.Fprintf(ctx.Out, "  Fasting:  %s\n", rec.Fasted.Label())
	fmt.Fprintf(ctx.Out, "  Prayers:  %d/%d\n", rec.Prayers.Count(), len(models.AllPrayers))
	for _, p := range models.AllPrayers {
		mark := "[ ]"
		if rec.Prayers.Get(p) {
			mark = "[x]"
		}
		fmt.Fprintf(ctx.Out, "    %s %s\n", mark, prayerTitle(p))
	}
	fmt.Fprintf(ctx.Out, "  Quran:    %d pages\n", rec.QuranPages)
	deed := rec.GoodDeed
	if deed == "" {
		deed = "-"
	}
	fmt.Fprintf(ctx.Out, "  Deed:     %s\n", deed)
	fmt.Fprintf(ctx.Out, "  Badges:   %d earned\n", len(u.Badges))

	if ctx.Sync != nil && ctx.Sync.Online() {
		if s := ctx.Sync.Stats(); s.LastError != nil {
			cli.Mutedf(ctx.Out, "\n  Last sync problem: %v", s.LastError)
		}
	}
	return nil
}

func prayerTitle(p models.Prayer) string {
	s := string(p)
	return strings.ToUpper(s[:1]) + s[1:]
}

type BadgesCmd struct{}

func (c *BadgesCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	u, err := ctx.ActiveUser()
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "%s's badges (%d/%d)\n\n", u.Profile.Name, len(u.Badges), len(badges.Catalog))
	for _, b := range badges.Catalog {
		if u.HasBadge(b.ID) {
			cli.Badgef(ctx.Out, "  %s %-16s %s", b.Icon, b.ID, b.Description)
		} else {
			cli.Mutedf(ctx.Out, "  🔒 %-16s %s", b.ID, b.Description)
		}
	}
	return nil
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	u, err := ctx.ActiveUser()
	if err != nil {
		return err
	}

	o := stats.Compute(u.Progress)
	fmt.Fprintf(ctx.Out, "📊 My Ramadan Stats\n\n")
	fmt.Fprintf(ctx.Out, "  🏆 Full fasts:   %d\n", o.TotalFullFasts)
	fmt.Fprintf(ctx.Out, "  📖 Quran pages:  %d\n", o.TotalQuranPages)
	fmt.Fprintf(ctx.Out, "  📅 Days logged:  %d\n\n", o.DaysLogged)

	if len(o.Days) == 0 {
		return nil
	}
	fmt.Fprintln(ctx.Out, "  Daily prayers")
	for _, d := range o.Days {
		bar := strings.Repeat("█", d.Prayers) + strings.Repeat("·", len(models.AllPrayers)-d.Prayers)
		line := fmt.Sprintf("  %-4s %s %d", d.Label, bar, d.Prayers)
		if d.Complete {
			cli.Successf(ctx.Out, "%s", strings.TrimPrefix(line, "  "))
		} else {
			fmt.Fprintln(ctx.Out, line)
		}
	}
	return nil
}

type ReportCmd struct {
	Out string `short:"o" help:"Output file, or - for stdout. Defaults to Ramadan_Journey_<name>.txt."`
}

func (c *ReportCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	u, err := ctx.ActiveUser()
	if err != nil {
		return err
	}

	doc := report.Render(u, ctx.Now())
	if c.Out == "-" {
		_, err := fmt.Fprint(ctx.Out, doc)
		return err
	}

	path := c.Out
	if path == "" {
		path = report.FileName(u.Profile.Name)
	}
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	cli.Successf(ctx.Out, "Report saved to %s", path)
	return nil
}

type BuddyCmd struct{}

func (c *BuddyCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	u, err := ctx.ActiveUser()
	if err != nil {
		return err
	}

	provider := ctx.ContentProvider()
	rctx, cancel := context.WithTimeout(context.Background(), ctx.Config.Content.Timeout+constants.DefaultSyncTimeout)
	defer cancel()

	fasted := u.DayOrDefault(u.Profile.CurrentDay).Fasted == models.FastFull
	fmt.Fprintf(ctx.Out, "🏮 Noor says...\n  %q\n\n", provider.Encouragement(rctx, u.Profile.Name, u.Profile.CurrentDay, fasted))
	fmt.Fprintln(ctx.Out, "Today's Kind Idea Challenge:")
	for _, d := range provider.GoodDeeds(rctx, u.Profile.Age) {
		fmt.Fprintf(ctx.Out, "  💡 %s: %s\n", d.Title, d.Description)
	}
	return nil
}
