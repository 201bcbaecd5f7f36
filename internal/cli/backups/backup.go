// Package backups holds the commands that manage snapshots of the local cache
package backups

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/noor/internal/backup"
	"github.com/julianstephens/noor/internal/cli"
	"github.com/julianstephens/noor/internal/constants"
	"github.com/julianstephens/noor/internal/lock"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Snapshot the local cache."`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Replace the local cache with a backup."`
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	if _, err := os.Stat(ctx.CachePath); err != nil {
		return fmt.Errorf("no local cache at %s: %w", ctx.CachePath, err)
	}

	mgr := backup.NewManager(ctx.CachePath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	cli.Successf(ctx.Out, "Backup created: %s", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.CachePath)
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Fprintln(ctx.Out, "No backups found.")
		fmt.Fprintf(ctx.Out, "Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	fmt.Fprintf(ctx.Out, "Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		fmt.Fprintf(ctx.Out, "  %s  %s  (%.1f KB)\n", b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), sizeKB)
	}
	fmt.Fprintf(ctx.Out, "\nBackup directory: %s\n", mgr.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Restore without asking for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.CachePath)
	backupPath, err := mgr.ResolvePath(c.BackupFile)
	if err != nil {
		return err
	}

	if !c.Yes {
		cli.Warnf(ctx.Out, "WARNING: This will replace your local cache with the backup.")
		fmt.Fprintln(ctx.Out, "A backup of the current cache will be created before restoring.")
		fmt.Fprintf(ctx.Out, "\nRestore from: %s\n", filepath.Base(backupPath))
		ok, err := cli.PromptConfirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(ctx.Out, "Restore cancelled.")
			return nil
		}
	}

	// release any open session so the cache file is not in use
	if err := ctx.Close(); err != nil {
		cli.Warnf(ctx.Out, "Failed to close session: %v", err)
	}
	l, err := lock.Acquire(lock.PathFor(ctx.CachePath))
	if err != nil {
		return err
	}
	defer l.Release()

	previous, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	cli.Successf(ctx.Out, "Local cache restored from %s", filepath.Base(backupPath))
	if previous != "" {
		fmt.Fprintf(ctx.Out, "Previous cache saved as %s\n", filepath.Base(previous))
	}
	if ctx.RemoteURL != "" {
		fmt.Fprintln(ctx.Out, "The remote store is unchanged; the next session will reconcile with it.")
	}
	return nil
}
