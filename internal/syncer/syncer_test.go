package syncer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	noorerrors "github.com/julianstephens/noor/internal/errors"
	"github.com/julianstephens/noor/internal/models"
	"github.com/julianstephens/noor/internal/state"
	"github.com/julianstephens/noor/internal/storage/memory"
)

func seededCache(t *testing.T, st models.AppState) *memory.Cache {
	t.Helper()
	c := memory.NewCache()
	require.NoError(t, c.WriteState(context.Background(), st))
	return c
}

func user(id, name string) models.UserRecord {
	return models.NewUserRecord(models.Profile{ID: id, Name: name, CurrentDay: 1, Role: models.RoleUser})
}

func waitReady(t *testing.T, c *Controller) {
	t.Helper()
	select {
	case <-c.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("startup fetch did not resolve")
	}
}

func closeController(t *testing.T, c *Controller) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Close(ctx))
}

func TestHydrateHasNoPersistenceSideEffects(t *testing.T) {
	cached := models.EmptyState()
	cached.Users["1"] = user("1", "Aisha")
	cached.ActiveUserID = "1"
	cache := seededCache(t, cached)

	store := state.NewStore()
	c := New(store, cache, nil, Options{})
	c.Start(context.Background())
	waitReady(t, c)
	closeController(t, c)

	assert.Equal(t, "1", store.Snapshot().ActiveUserID)
	assert.Equal(t, 1, cache.Writes(), "only the seed write")
	assert.False(t, c.Online())
}

func TestStartupReconcileDropsMissingActiveUser(t *testing.T) {
	cached := models.EmptyState()
	cached.Users["5"] = user("5", "Aisha")
	cached.ActiveUserID = "5"
	cache := seededCache(t, cached)

	remote := memory.NewRemote()
	remote.Seed(user("7", "Omar"))

	store := state.NewStore()
	c := New(store, cache, remote, Options{})
	c.Start(context.Background())
	waitReady(t, c)
	closeController(t, c)

	snap := store.Snapshot()
	assert.Empty(t, snap.ActiveUserID)
	assert.Contains(t, snap.Users, "7")
	assert.NotContains(t, snap.Users, "5")
	assert.Empty(t, remote.Saves(), "reconcile does not push")
	assert.True(t, c.Stats().Fetched)

	persisted, found, err := cache.ReadState(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, persisted.ActiveUserID)
	assert.Contains(t, persisted.Users, "7")
}

func TestStartupReconcileKeepsPresentActiveUser(t *testing.T) {
	cached := models.EmptyState()
	cached.Users["5"] = user("5", "Aisha")
	cached.ActiveUserID = "5"

	remoteUser := user("5", "Aisha")
	remoteUser.Progress[2] = models.ProgressRecord{DayNumber: 2, QuranPages: 6}
	remote := memory.NewRemote()
	remote.Seed(remoteUser)

	store := state.NewStore()
	c := New(store, seededCache(t, cached), remote, Options{})
	c.Start(context.Background())
	waitReady(t, c)
	closeController(t, c)

	snap := store.Snapshot()
	assert.Equal(t, "5", snap.ActiveUserID)
	assert.Equal(t, 6, snap.Users["5"].Progress[2].QuranPages)
}

func TestStartupFetchFailureKeepsCache(t *testing.T) {
	cached := models.EmptyState()
	cached.Users["1"] = user("1", "Aisha")
	cached.ActiveUserID = "1"

	remote := memory.NewRemote()
	remote.FailWith(errors.New("offline"))

	store := state.NewStore()
	c := New(store, seededCache(t, cached), remote, Options{})
	c.Start(context.Background())
	waitReady(t, c)
	closeController(t, c)

	assert.Equal(t, "1", store.Snapshot().ActiveUserID)
	assert.Equal(t, 1, c.Stats().Failed)
	assert.ErrorIs(t, c.Stats().LastError, noorerrors.ErrRemoteUnavailable)
}

func TestChangesPushOnlyActiveUser(t *testing.T) {
	remote := memory.NewRemote()
	cache := memory.NewCache()

	store := state.NewStore()
	c := New(store, cache, remote, Options{})
	c.Start(context.Background())
	waitReady(t, c)

	omar := store.CreateUser(models.NewUser{Name: "Omar"})
	aisha := store.CreateUser(models.NewUser{Name: "Aisha", Passcode: "1234"})
	store.SetFasted(1, models.FastFull)
	store.SetQuranPages(1, 3)
	closeController(t, c)

	saves := remote.Saves()
	assert.Contains(t, saves, omar)
	assert.Contains(t, saves, aisha)

	got, found, err := remote.GetUser(context.Background(), aisha)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.FastFull, got.Progress[1].Fasted)
	assert.Equal(t, 3, got.Progress[1].QuranPages)

	omarDoc, _, err := remote.GetUser(context.Background(), omar)
	require.NoError(t, err)
	assert.Empty(t, omarDoc.Progress, "inactive user is not pushed with aisha's edits")

	persisted, _, err := cache.ReadState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, aisha, persisted.ActiveUserID)
	assert.Equal(t, 4, cache.Writes(), "one write per change; the empty reconcile changes nothing")
}

func TestLoggedOutChangesDoNotPush(t *testing.T) {
	remote := memory.NewRemote()
	remote.Seed(user("1", "Aisha"))
	store := state.NewStore()

	c := New(store, memory.NewCache(), remote, Options{})
	c.Start(context.Background())
	waitReady(t, c)

	require.Contains(t, store.Snapshot().Users, "1")
	store.UpdateProgress(1, models.FastedPatch(models.FastFull))
	store.RequestLogin("1")
	closeController(t, c)

	assert.Empty(t, remote.Saves())
}

func TestDeleteUserRemovesRemoteDocument(t *testing.T) {
	remote := memory.NewRemote()
	remote.Seed(user("1", "Aisha"), user("2", "Omar"))

	store := state.NewStore()
	c := New(store, memory.NewCache(), remote, Options{})
	c.Start(context.Background())
	waitReady(t, c)

	require.NoError(t, store.EnterAdminMode("noor-admin"))
	store.DeleteUser("2")
	store.DeleteUser("missing")
	closeController(t, c)

	assert.Equal(t, []string{"2"}, remote.Deletes())
	all, err := remote.GetAllUsers(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, all, "2")
	assert.Contains(t, all, "1")
}

func TestRemoteFailuresDoNotRollBack(t *testing.T) {
	remote := memory.NewRemote()
	store := state.NewStore()
	c := New(store, memory.NewCache(), remote, Options{})
	c.Start(context.Background())
	waitReady(t, c)

	remote.FailWith(errors.New("write refused"))
	id := store.CreateUser(models.NewUser{Name: "Aisha"})
	store.SetFasted(1, models.FastFull)
	closeController(t, c)

	assert.Equal(t, models.FastFull, store.Snapshot().Users[id].Progress[1].Fasted)
	assert.GreaterOrEqual(t, c.Stats().Failed, 1)
	assert.Equal(t, 0, c.Stats().Pushed)
}

// gatedRemote blocks SaveUser until release is closed
type gatedRemote struct {
	*memory.Remote
	release chan struct{}
}

func (g *gatedRemote) SaveUser(ctx context.Context, u models.UserRecord) error {
	select {
	case <-g.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	return g.Remote.SaveUser(ctx, u)
}

func TestPushesCoalescePerUser(t *testing.T) {
	remote := &gatedRemote{Remote: memory.NewRemote(), release: make(chan struct{})}
	store := state.NewStore()
	c := New(store, memory.NewCache(), remote, Options{Timeout: 5 * time.Second})
	c.Start(context.Background())
	waitReady(t, c)

	id := store.CreateUser(models.NewUser{Name: "Aisha"})
	for pages := 1; pages <= 10; pages++ {
		store.SetQuranPages(1, pages)
	}
	assert.LessOrEqual(t, c.Pending(), 1)

	close(remote.release)
	closeController(t, c)

	assert.LessOrEqual(t, len(remote.Saves()), 2)
	got, found, err := remote.GetUser(context.Background(), id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 10, got.Progress[1].QuranPages)
}

func TestCloseGivesUpWhenContextEnds(t *testing.T) {
	remote := &gatedRemote{Remote: memory.NewRemote(), release: make(chan struct{})}
	store := state.NewStore()
	c := New(store, memory.NewCache(), remote, Options{Timeout: time.Minute})
	c.Start(context.Background())
	waitReady(t, c)

	store.CreateUser(models.NewUser{Name: "Aisha"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Close(ctx), context.DeadlineExceeded)
}

func TestFlushAndRefresh(t *testing.T) {
	ctx := context.Background()
	remote := memory.NewRemote()
	store := state.NewStore()
	c := New(store, memory.NewCache(), remote, Options{})
	c.Start(ctx)
	waitReady(t, c)
	defer closeController(t, c)

	id := store.CreateUser(models.NewUser{Name: "Aisha"})
	require.NoError(t, c.Flush(ctx))

	remote.Seed(user("other", "Omar"))
	require.NoError(t, c.Refresh(ctx))
	assert.Contains(t, store.Snapshot().Users, "other")
	assert.Equal(t, id, store.Snapshot().ActiveUserID)

	remote.FailWith(errors.New("offline"))
	assert.ErrorIs(t, c.Flush(ctx), noorerrors.ErrRemoteUnavailable)
	assert.ErrorIs(t, c.Refresh(ctx), noorerrors.ErrRemoteUnavailable)
}

func TestOutboxKeepsOneEntryPerUser(t *testing.T) {
	o := newOutbox()
	o.pushUser(user("a", "A"))
	o.pushUser(user("b", "B"))
	o.deleteUser("a")

	assert.Equal(t, 2, o.len())
	first, _ := o.pop()
	assert.Equal(t, "a", first.id)
	assert.Equal(t, jobDelete, first.kind)
	second, _ := o.pop()
	assert.Equal(t, "b", second.id)
	_, ok := o.pop()
	assert.False(t, ok)
}
