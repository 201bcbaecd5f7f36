package users

import (
	"fmt"
	"text/tabwriter"

	"github.com/julianstephens/noor/internal/cli"
	"github.com/julianstephens/noor/internal/errors"
	"github.com/julianstephens/noor/internal/models"
)

type UserAddCmd struct {
	Name     string `arg:"" optional:"" help:"Display name. Omit to fill in a form."`
	Age      int    `help:"Age in years." default:"0"`
	Avatar   string `help:"Avatar emoji."`
	Role     string `help:"Role (user|admin)."`
	Passcode string `help:"Four character passcode."`
}

func (c *UserAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	var fields models.NewUser
	if c.Name == "" {
		f, err := cli.PromptNewUser()
		if err != nil {
			return err
		}
		fields = f
	} else {
		fields = models.NewUser{
			Name:     c.Name,
			Age:      c.Age,
			Avatar:   c.Avatar,
			Role:     models.Role(c.Role),
			Passcode: c.Passcode,
		}
	}
	if err := fields.Validate(); err != nil {
		return err
	}

	id := ctx.Store.CreateUser(fields)
	u := ctx.Store.Snapshot().Users[id]
	cli.Successf(ctx.Out, "Created %s %s (id %s) and logged in", u.Profile.Avatar, u.Profile.Name, id)
	return nil
}

type UserListCmd struct{}

func (c *UserListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	st := ctx.Store.Snapshot()
	if len(st.Users) == 0 {
		fmt.Fprintln(ctx.Out, "No users yet. Add one with 'noor user add'.")
		return nil
	}

	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tNAME\tAGE\tDAY\tROLE\tBADGES")
	for _, u := range st.SortedUsers() {
		marker := " "
		if u.Profile.ID == st.ActiveUserID {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s %s\t%d\t%d\t%s\t%d\n",
			marker, u.Profile.ID, u.Profile.Avatar, u.Profile.Name,
			u.Profile.Age, u.Profile.CurrentDay, u.Profile.Role, len(u.Badges))
	}
	return w.Flush()
}

type UserDeleteCmd struct {
	User  string `arg:"" help:"User id or name."`
	Force bool   `short:"f" help:"Skip the confirmation prompt."`
}

func (c *UserDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	if err := ctx.RequireAdmin(); err != nil {
		return err
	}

	u, err := cli.FindUser(ctx.Store.Snapshot(), c.User)
	if err != nil {
		return err
	}

	if !c.Force {
		ok, err := cli.PromptConfirm(fmt.Sprintf("Delete %s and all of their progress?", u.Profile.Name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(ctx.Out, "Delete cancelled.")
			return nil
		}
	}

	ctx.Store.DeleteUser(u.Profile.ID)
	cli.Successf(ctx.Out, "Deleted %s", u.Profile.Name)
	return nil
}

type LoginCmd struct {
	User     string  `arg:"" help:"User id or name."`
	Passcode *string `help:"Passcode. Prompted for when omitted."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	u, err := cli.FindUser(ctx.Store.Snapshot(), c.User)
	if err != nil {
		return err
	}

	attempt := ""
	switch {
	case c.Passcode != nil:
		attempt = *c.Passcode
	case u.Profile.Passcode != "":
		attempt, err = cli.PromptSecret(fmt.Sprintf("Passcode for %s", u.Profile.Name))
		if err != nil {
			return err
		}
	}

	if err := ctx.Store.Login(u.Profile.ID, attempt); err != nil {
		if errors.Is(err, errors.ErrAuthenticationFailed) {
			return fmt.Errorf("wrong passcode for %s: %w", u.Profile.Name, err)
		}
		return err
	}

	cli.Successf(ctx.Out, "Assalamu alaikum, %s %s! Viewing day %d.", u.Profile.Avatar, u.Profile.Name, u.Profile.CurrentDay)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	u, err := ctx.ActiveUser()
	ctx.Store.Logout()
	if err != nil {
		fmt.Fprintln(ctx.Out, "Nobody is logged in.")
		return nil
	}
	cli.Successf(ctx.Out, "Logged out %s", u.Profile.Name)
	return nil
}

type AdminLoginCmd struct {
	Secret *string `help:"Admin secret. Prompted for when omitted."`
}

func (c *AdminLoginCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	var attempt string
	if c.Secret != nil {
		attempt = *c.Secret
	} else {
		s, err := cli.PromptSecret("Admin secret")
		if err != nil {
			return err
		}
		attempt = s
	}

	if err := ctx.Store.EnterAdminMode(attempt); err != nil {
		return err
	}
	cli.Successf(ctx.Out, "Admin mode enabled")
	return nil
}

type AdminLogoutCmd struct{}

func (c *AdminLogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	ctx.Store.ExitAdminMode()
	cli.Successf(ctx.Out, "Admin mode disabled")
	return nil
}
