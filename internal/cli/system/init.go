package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/noor/internal/cli"
	"github.com/julianstephens/noor/internal/logger"
)

type InitCmd struct {
	Force bool `help:"Delete the existing local cache before initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	cache := ctx.NewCache()
	path := cache.GetConfigPath()

	if c.Force {
		if _, err := os.Stat(path); err == nil {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing cache: %w", err)
			}
			fmt.Fprintf(ctx.Out, "Deleted existing cache at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing cache: %w", err)
		}
	}

	if err := cache.Init(); err != nil {
		return err
	}
	defer cache.Close()
	fmt.Fprintf(ctx.Out, "Initialized noor cache at: %s\n", path)

	remote, err := cli.OpenRemote(ctx.RemoteURL)
	if err != nil {
		return err
	}
	if remote == nil {
		cli.Mutedf(ctx.Out, "No remote store configured, progress stays on this device.")
		return nil
	}
	defer remote.Close()

	if err := remote.Init(); err != nil {
		logger.Warn("Failed to initialize remote store", "error", err)
		cli.Warnf(ctx.Out, "Remote store could not be initialized: %v", err)
		return nil
	}
	cli.Successf(ctx.Out, "Remote store ready")
	return nil
}
