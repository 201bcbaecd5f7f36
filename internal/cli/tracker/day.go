package tracker

import (
	"fmt"

	"github.com/julianstephens/noor/internal/cli"
	"github.com/julianstephens/noor/internal/constants"
	"github.com/julianstephens/noor/internal/models"
)

// validDay checks the Ramadan day bounds used by every input surface
func validDay(day int) error {
	if day < constants.FirstDay || day > constants.LastDay {
		return fmt.Errorf("day must be between %d and %d, got %d", constants.FirstDay, constants.LastDay, day)
	}
	return nil
}

// targetDay is the --day flag if set, otherwise the user's current day
func targetDay(u models.UserRecord, flag int) (int, error) {
	if flag == 0 {
		return u.Profile.CurrentDay, nil
	}
	return flag, validDay(flag)
}

type DayCmd struct {
	Day  int  `arg:"" optional:"" help:"Day of Ramadan to view (1-30)."`
	Next bool `help:"Move to the next day." xor:"step"`
	Prev bool `help:"Move to the previous day." xor:"step"`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	u, err := ctx.ActiveUser()
	if err != nil {
		return err
	}

	day := u.Profile.CurrentDay
	switch {
	case c.Day != 0:
		day = c.Day
	case c.Next:
		day++
	case c.Prev:
		day--
	default:
		fmt.Fprintf(ctx.Out, "%s is viewing day %d of %d\n", u.Profile.Name, day, constants.LastDay)
		return nil
	}
	if err := validDay(day); err != nil {
		return err
	}

	ctx.Store.SetCurrentDay(day)
	cli.Successf(ctx.Out, "Now viewing day %d", day)
	return nil
}
