package system

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/noor/internal/backup"
	"github.com/julianstephens/noor/internal/cli"
	"github.com/julianstephens/noor/internal/logger"
	"github.com/julianstephens/noor/internal/tui"
)

type TuiCmd struct {
	NoBackup bool `help:"Skip the automatic backup taken at startup."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if !c.NoBackup {
		autoBackup(ctx.CachePath)
	}
	if err := ctx.Open(); err != nil {
		return err
	}

	m := tui.NewModel(ctx.Store, ctx.ContentProvider())
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tracker exited with an error: %w", err)
	}
	return nil
}

// autoBackup snapshots an existing cache; failures only log
func autoBackup(cachePath string) {
	if _, err := os.Stat(cachePath); err != nil {
		return
	}
	path, err := backup.NewManager(cachePath).CreateBackup()
	if err != nil {
		logger.Warn("Automatic backup failed", "error", err)
		return
	}
	logger.Debug("Automatic backup created", "path", path)
}
