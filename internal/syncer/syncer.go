// Package syncer persists state changes. It hydrates the store from the
// local cache, reconciles it with the remote store once at startup, then
// writes the cache and pushes the active user's record after every change.
//
// Remote writes are best effort: at most once, no retry, failures logged.
package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/julianstephens/noor/internal/constants"
	"github.com/julianstephens/noor/internal/errors"
	"github.com/julianstephens/noor/internal/logger"
	"github.com/julianstephens/noor/internal/models"
	"github.com/julianstephens/noor/internal/state"
	"github.com/julianstephens/noor/internal/storage"
)

// Options configures a Controller
type Options struct {
	// Timeout bounds each remote call. Zero uses the default.
	Timeout time.Duration
}

// Stats counts remote outcomes since Start
type Stats struct {
	Pushed    int
	Deleted   int
	Failed    int
	LastError error
	Fetched   bool
}

type Controller struct {
	store  *state.Store
	cache  storage.Cache
	remote storage.Remote
	opts   Options

	ctx    context.Context
	cancel context.CancelFunc

	ready       chan struct{}
	done        chan struct{}
	unsubscribe func()
	fetchWG     sync.WaitGroup

	mu      sync.Mutex
	outbox  *outbox
	wake    chan struct{}
	closing bool
	stats   Stats
}

// New returns a controller. remote may be nil for local-only mode.
func New(store *state.Store, cache storage.Cache, remote storage.Remote, opts Options) *Controller {
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultSyncTimeout
	}
	return &Controller{
		store:  store,
		cache:  cache,
		remote: remote,
		opts:   opts,
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
		outbox: newOutbox(),
		wake:   make(chan struct{}, 1),
	}
}

// Start hydrates the store from the cache, subscribes to changes and begins
// the startup fetch in the background. It does not wait for the fetch.
func (c *Controller) Start(ctx context.Context) {
	c.ctx, c.cancel = context.WithCancel(context.Background())

	st, found, err := c.cache.ReadState(ctx)
	switch {
	case err != nil:
		logger.Warn("Failed to read local cache, starting empty", "error", err)
	case found:
		c.store.Hydrate(st)
		logger.Debug("Hydrated from local cache", "users", len(st.Users), "active", st.ActiveUserID)
	}

	c.unsubscribe = c.store.Subscribe(c.onChange)

	go c.run()

	if c.remote == nil {
		close(c.ready)
		return
	}

	c.fetchWG.Add(1)
	go func() {
		defer c.fetchWG.Done()
		defer close(c.ready)
		c.fetch()
	}()
}

// Ready is closed once the startup fetch has succeeded or failed
func (c *Controller) Ready() <-chan struct{} {
	return c.ready
}

// WaitReady blocks until Ready or ctx is done. It reports whether the
// startup fetch finished.
func (c *Controller) WaitReady(ctx context.Context) bool {
	select {
	case <-c.ready:
		return true
	case <-ctx.Done():
		return false
	}
}

// Online reports whether a remote store is configured
func (c *Controller) Online() bool {
	return c.remote != nil
}

func (c *Controller) fetch() {
	ctx, cancel := context.WithTimeout(c.ctx, c.opts.Timeout)
	defer cancel()

	users, err := c.remote.GetAllUsers(ctx)
	if err != nil {
		c.recordFailure(errors.Remote("fetch users", err))
		logger.Warn("Startup fetch failed, continuing from local cache", "error", err)
		return
	}

	c.mu.Lock()
	c.stats.Fetched = true
	c.mu.Unlock()

	c.store.Reconcile(users)
	logger.Debug("Reconciled with remote store", "users", len(users))
}

// onChange runs with the store locked
func (c *Controller) onChange(ch state.Change) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.Timeout)
	if err := c.cache.WriteState(ctx, ch.Next); err != nil {
		logger.Warn("Failed to write local cache", "op", ch.Op, "error", err)
	}
	cancel()

	if c.remote == nil || ch.Op == state.OpReconcile {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closing {
		return
	}

	if ch.Op == state.OpDeleteUser && ch.Prev.HasUser(ch.UserID) {
		c.outbox.deleteUser(ch.UserID)
	}
	if u, ok := ch.Next.ActiveUser(); ok {
		c.outbox.pushUser(u)
	}
	c.signal()
}

func (c *Controller) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// run drains the outbox until Close
func (c *Controller) run() {
	defer close(c.done)
	for {
		if c.ctx.Err() != nil {
			return
		}

		c.mu.Lock()
		j, ok := c.outbox.pop()
		closing := c.closing
		c.mu.Unlock()

		if ok {
			c.execute(j)
			continue
		}
		if closing {
			return
		}

		select {
		case <-c.wake:
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Controller) execute(j job) {
	ctx, cancel := context.WithTimeout(c.ctx, c.opts.Timeout)
	defer cancel()

	switch j.kind {
	case jobDelete:
		if err := c.remote.DeleteUser(ctx, j.id); err != nil {
			c.recordFailure(errors.Remote("delete user", err))
			logger.Warn("Remote delete failed", "user", j.id, "error", err)
			return
		}
		c.mu.Lock()
		c.stats.Deleted++
		c.mu.Unlock()
	case jobPush:
		if err := c.remote.SaveUser(ctx, j.user); err != nil {
			c.recordFailure(errors.Remote("save user", err))
			logger.Warn("Remote save failed", "user", j.id, "error", err)
			return
		}
		c.mu.Lock()
		c.stats.Pushed++
		c.mu.Unlock()
	}
}

func (c *Controller) recordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Failed++
	c.stats.LastError = err
}

// Stats returns remote outcome counters
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Pending returns the number of queued remote operations
func (c *Controller) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outbox.len()
}

// Flush pushes the active user's record now and returns the remote error,
// if any. Without an active user or a remote it does nothing.
func (c *Controller) Flush(ctx context.Context) error {
	if c.remote == nil {
		return nil
	}
	u, ok := c.store.Snapshot().ActiveUser()
	if !ok {
		return nil
	}
	if err := c.remote.SaveUser(ctx, u); err != nil {
		err = errors.Remote("save user", err)
		c.recordFailure(err)
		return err
	}
	c.mu.Lock()
	c.stats.Pushed++
	c.mu.Unlock()
	return nil
}

// Refresh fetches every remote user and reconciles the store with them
func (c *Controller) Refresh(ctx context.Context) error {
	if c.remote == nil {
		return nil
	}
	users, err := c.remote.GetAllUsers(ctx)
	if err != nil {
		err = errors.Remote("fetch users", err)
		c.recordFailure(err)
		return err
	}
	c.store.Reconcile(users)
	return nil
}

// Close stops listening for changes and drains queued remote operations,
// giving up when ctx is done.
func (c *Controller) Close(ctx context.Context) error {
	if c.ctx == nil {
		return nil
	}
	if c.unsubscribe != nil {
		c.unsubscribe()
	}

	c.mu.Lock()
	c.closing = true
	c.mu.Unlock()
	c.signal()

	finished := make(chan struct{})
	go func() {
		c.fetchWG.Wait()
		<-c.done
		close(finished)
	}()

	select {
	case <-finished:
		c.cancel()
		return nil
	case <-ctx.Done():
		c.cancel()
		<-finished
		if n := c.Pending(); n > 0 {
			logger.Warn("Dropped unsent remote changes", "pending", n)
		}
		return ctx.Err()
	}
}

// Snapshot is a convenience for callers holding only the controller
func (c *Controller) Snapshot() models.AppState {
	return c.store.Snapshot()
}
