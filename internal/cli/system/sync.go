package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/noor/internal/cli"
)

// SyncCmd re-reads the remote store and pushes the active user's record.
// Problems are reported as warnings; the local cache is never rolled back.
type SyncCmd struct{}

func (c *SyncCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	if !ctx.Sync.Online() {
		fmt.Fprintln(ctx.Out, "No remote store configured, nothing to sync.")
		return nil
	}

	rctx, cancel := context.WithTimeout(context.Background(), ctx.Config.SyncTimeout)
	defer cancel()

	if err := ctx.Sync.Refresh(rctx); err != nil {
		cli.Warnf(ctx.Out, "Fetch failed: %v", err)
		return nil
	}
	st := ctx.Store.Snapshot()
	cli.Successf(ctx.Out, "Fetched %d users", len(st.Users))

	if _, ok := st.ActiveUser(); !ok {
		return nil
	}
	if err := ctx.Sync.Flush(rctx); err != nil {
		cli.Warnf(ctx.Out, "Push failed: %v", err)
		return nil
	}
	cli.Successf(ctx.Out, "Pushed %s", st.Users[st.ActiveUserID].Profile.Name)
	return nil
}
