package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/noor/internal/config"
	"github.com/julianstephens/noor/internal/constants"
	"github.com/julianstephens/noor/internal/content"
	"github.com/julianstephens/noor/internal/errors"
	"github.com/julianstephens/noor/internal/lock"
	"github.com/julianstephens/noor/internal/logger"
	"github.com/julianstephens/noor/internal/models"
	"github.com/julianstephens/noor/internal/state"
	"github.com/julianstephens/noor/internal/storage"
	"github.com/julianstephens/noor/internal/syncer"
)

// Context is shared by every command. Session fields are nil until Open.
type Context struct {
	Config      config.Config
	CachePath   string
	RemoteURL   string
	AdminSecret string
	Out         io.Writer
	Now         func() time.Time

	Cache  storage.CacheProvider
	Remote storage.RemoteProvider
	Store  *state.Store
	Sync   *syncer.Controller

	lock *lock.Lock
}

// NewContext builds a context from resolved settings
func NewContext(cfg config.Config, remoteURL, adminSecret string) *Context {
	return &Context{
		Config:      cfg,
		CachePath:   cfg.CachePath,
		RemoteURL:   remoteURL,
		AdminSecret: adminSecret,
		Out:         os.Stdout,
		Now:         time.Now,
	}
}

// NewCache returns the cache backend for the configured path without opening it
func (c *Context) NewCache() storage.CacheProvider {
	return OpenCache(c.CachePath)
}

// Open starts a session: it loads the cache, takes the lockfile, connects
// the remote, starts the sync controller and waits for the startup fetch.
func (c *Context) Open() error {
	if c.Store != nil {
		return nil
	}

	cache := c.NewCache()
	if err := cache.Load(); err != nil {
		return err
	}

	l, err := lock.Acquire(lock.PathFor(c.CachePath))
	if err != nil {
		cache.Close()
		return err
	}

	remote, err := OpenRemote(c.RemoteURL)
	if err != nil {
		cache.Close()
		l.Release()
		return err
	}
	if remote != nil {
		if err := remote.Load(); err != nil {
			logger.Warn("Remote store unavailable, continuing with local cache", "error", err)
			Warnf(c.Out, "Remote store unavailable, working offline")
			remote = nil
		}
	}

	now := c.Now
	if now == nil {
		now = time.Now
	}
	store := state.NewStore(
		state.WithClock(now),
		state.WithAdminSecret(c.AdminSecret),
	)
	ctrl := syncer.New(store, cache, remote, syncer.Options{Timeout: c.Config.SyncTimeout})
	ctrl.Start(context.Background())

	wait := c.Config.SyncTimeout
	if wait <= 0 {
		wait = constants.DefaultSyncTimeout
	}
	waitCtx, cancel := context.WithTimeout(context.Background(), wait+time.Second)
	defer cancel()
	if !ctrl.WaitReady(waitCtx) {
		logger.Warn("Startup fetch did not finish, continuing with local cache")
	}

	c.Cache, c.Remote, c.Store, c.Sync, c.lock = cache, remote, store, ctrl, l
	return nil
}

// Close drains pending remote writes and releases the session
func (c *Context) Close() error {
	if c.Store == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.OutboxDrainTimeout)
	defer cancel()
	if err := c.Sync.Close(ctx); err != nil {
		logger.Warn("Sync controller did not drain", "error", err)
	}

	if c.Remote != nil {
		if err := c.Remote.Close(); err != nil {
			logger.Warn("Failed to close remote store", "error", err)
		}
	}
	var firstErr error
	if err := c.Cache.Close(); err != nil {
		firstErr = fmt.Errorf("failed to close cache: %w", err)
	}
	if err := c.lock.Release(); err != nil && firstErr == nil {
		firstErr = err
	}

	c.Cache, c.Remote, c.Store, c.Sync, c.lock = nil, nil, nil, nil, nil
	return firstErr
}

// ActiveUser returns the logged-in user or ErrNoActiveUser
func (c *Context) ActiveUser() (models.UserRecord, error) {
	u, ok := c.Store.Snapshot().ActiveUser()
	if !ok {
		return models.UserRecord{}, errors.ErrNoActiveUser
	}
	return u, nil
}

// RequireAdmin fails unless the session is in admin mode
func (c *Context) RequireAdmin() error {
	if !c.Store.Snapshot().IsAdminMode {
		return errors.ErrAdminRequired
	}
	return nil
}

// ContentProvider returns the remote content service when configured,
// otherwise the built-in lists
func (c *Context) ContentProvider() content.Provider {
	if c.Config.Content.Endpoint != "" {
		return content.NewRemote(c.Config.Content.Endpoint, c.Config.Content.Timeout)
	}
	return content.NewStatic()
}

// FindUser resolves a user by exact id, then by case-insensitive name
func FindUser(st models.AppState, ref string) (models.UserRecord, error) {
	if u, ok := st.Users[ref]; ok {
		return u, nil
	}
	var matches []models.UserRecord
	for _, u := range st.SortedUsers() {
		if strings.EqualFold(u.Profile.Name, strings.TrimSpace(ref)) {
			matches = append(matches, u)
		}
	}
	switch len(matches) {
	case 0:
		return models.UserRecord{}, fmt.Errorf("%w: %s", errors.ErrUserNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return models.UserRecord{}, fmt.Errorf("more than one user is named %q, use the id", ref)
	}
}

// IsJSONPath reports whether path selects the JSON file cache
func IsJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
