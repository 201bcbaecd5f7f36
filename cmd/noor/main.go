package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/noor/internal/cli"
	"github.com/julianstephens/noor/internal/cli/backups"
	"github.com/julianstephens/noor/internal/cli/system"
	"github.com/julianstephens/noor/internal/cli/tracker"
	"github.com/julianstephens/noor/internal/cli/users"
	"github.com/julianstephens/noor/internal/config"
	"github.com/julianstephens/noor/internal/constants"
	"github.com/julianstephens/noor/internal/errors"
	"github.com/julianstephens/noor/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"string" default:"${config_file}"`
	Cache   string `help:"Local cache path (.db for SQLite, .json for a JSON file)." type:"string"`
	Remote  string `help:"Remote store: postgres URL without password, http(s) URL of a noor server, or sqlite://path. Credentials belong in the keyring."`
	Debug   bool   `help:"Enable debug logging."`

	AdminSecret string `help:"Admin secret for this run. Overrides NOOR_ADMIN_SECRET, the keyring and the config file."`

	Init system.InitCmd `cmd:"" help:"Initialize the local cache and remote schema."`
	Tui  system.TuiCmd  `cmd:"" help:"Launch the interactive tracker." default:"1"`
	User struct {
		Add    users.UserAddCmd    `cmd:"" help:"Create a user profile."`
		List   users.UserListCmd   `cmd:"" help:"List user profiles."`
		Delete users.UserDeleteCmd `cmd:"" help:"Delete a user profile (admin mode)."`
	} `cmd:"" help:"Manage user profiles."`
	Login  users.LoginCmd  `cmd:"" help:"Log in as a user."`
	Logout users.LogoutCmd `cmd:"" help:"Log out the active user."`
	Admin  struct {
		Login  users.AdminLoginCmd  `cmd:"" help:"Enter admin mode."`
		Logout users.AdminLogoutCmd `cmd:"" help:"Leave admin mode."`
	} `cmd:"" help:"Switch admin mode."`
	Day     tracker.DayCmd     `cmd:"" help:"Show or change the day being tracked."`
	Log     tracker.LogCmd     `cmd:"" help:"Log fasting, prayers, Quran pages or a good deed."`
	Status  tracker.StatusCmd  `cmd:"" help:"Show the active user's progress for a day."`
	Badges  tracker.BadgesCmd  `cmd:"" help:"Show the badge gallery."`
	Stats   tracker.StatsCmd   `cmd:"" help:"Show Ramadan totals and daily prayers."`
	Report  tracker.ReportCmd  `cmd:"" help:"Write the Ramadan journey report."`
	Buddy   tracker.BuddyCmd   `cmd:"" help:"Ask the Ramadan buddy for encouragement and good deed ideas."`
	Sync    system.SyncCmd     `cmd:"" help:"Fetch from and push to the remote store."`
	Backup  backups.BackupCmd  `cmd:"" help:"Manage local cache backups."`
	Keyring system.KeyringCmd  `cmd:"" help:"Manage credentials stored in the OS keyring."`
	Serve   system.ServeCmd    `cmd:"" help:"Serve a remote store over HTTP."`
}

func main() {
	config.LoadEnvFiles(".env")

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Ramadan habit tracker for kids"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err))
		os.Exit(1)
	}
	if CLI.Cache != "" {
		cfg.CachePath = config.ExpandPath(CLI.Cache)
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(cfg.LoggerConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	remoteURL := CLI.Remote
	if remoteURL == "" {
		remoteURL = cfg.ResolveRemoteURL()
	}
	appCtx := cli.NewContext(cfg, remoteURL, cfg.ResolveAdminSecret(CLI.AdminSecret))

	err = ctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err))
		os.Exit(1)
	}
}
