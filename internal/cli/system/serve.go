package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/julianstephens/noor/internal/cli"
	"github.com/julianstephens/noor/internal/server"
	"github.com/julianstephens/noor/internal/storage"
	"github.com/julianstephens/noor/internal/storage/sqlite"
)

// ServerStoreName is the document store used by serve when no remote is configured
const ServerStoreName = "noor-server.db"

type ServeCmd struct {
	Addr    string `help:"Listen address. Defaults to the configured server address."`
	Origins string `help:"Comma-separated CORS origins."`
	Store   string `help:"Document store to serve (postgres:// URL or .db path). Defaults to the remote store, else a local SQLite file."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	remote, err := c.backing(ctx)
	if err != nil {
		return err
	}
	if err := remote.Init(); err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}
	defer remote.Close()

	opts := server.Options{
		Addr:           ctx.Config.Server.Addr,
		AllowedOrigins: ctx.Config.Server.CORSOrigins,
	}
	if c.Addr != "" {
		opts.Addr = c.Addr
	}
	if c.Origins != "" {
		opts.AllowedOrigins = server.ParseOrigins(c.Origins)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Successf(ctx.Out, "Serving noor documents on %s (Ctrl+C to stop)", opts.Addr)
	return server.New(remote, opts).ListenAndServe(sigCtx)
}

func (c *ServeCmd) backing(ctx *cli.Context) (storage.RemoteProvider, error) {
	url := c.Store
	if url == "" {
		url = ctx.RemoteURL
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("serve needs a database-backed store, not another document service (%s)", url)
	}
	if url == "" {
		return sqlite.NewStore(filepath.Join(filepath.Dir(ctx.CachePath), ServerStoreName)), nil
	}
	return cli.OpenRemote(url)
}
