package state

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/noor/internal/badges"
	"github.com/julianstephens/noor/internal/errors"
	"github.com/julianstephens/noor/internal/models"
)

func newTestStore() *Store {
	n := 0
	return NewStore(
		WithClock(func() time.Time { return now }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("u%d", n)
		}),
		WithAdminSecret("open-sesame"),
	)
}

func TestStoreNotifiesSubscribers(t *testing.T) {
	st := newTestStore()

	var changes []Change
	unsubscribe := st.Subscribe(func(c Change) { changes = append(changes, c) })

	id := st.CreateUser(models.NewUser{Name: "Aisha", Passcode: "1234"})
	st.SetFasted(1, models.FastFull)

	require.Len(t, changes, 2)
	assert.Equal(t, OpCreateUser, changes[0].Op)
	assert.Equal(t, id, changes[0].UserID)
	assert.Empty(t, changes[0].Prev.Users)
	assert.Equal(t, OpUpdateProgress, changes[1].Op)
	assert.Equal(t, id, changes[1].UserID)
	assert.Contains(t, changes[1].Next.Users[id].Badges, badges.FastingHero)
	assert.NotContains(t, changes[1].Prev.Users[id].Badges, badges.FastingHero)

	unsubscribe()
	st.SetQuranPages(1, 3)
	assert.Len(t, changes, 2)
}

func TestStoreHydrateDoesNotNotify(t *testing.T) {
	st := newTestStore()
	called := false
	st.Subscribe(func(Change) { called = true })

	cached := models.EmptyState()
	cached.Users["5"] = models.UserRecord{Profile: models.Profile{ID: "5", Name: "Aisha"}}
	cached.ActiveUserID = "5"
	st.Hydrate(cached)

	assert.False(t, called)
	assert.Equal(t, "5", st.Snapshot().ActiveUserID)
	assert.NotNil(t, st.Snapshot().Users["5"].Progress)
}

func TestStoreFailedLoginDoesNotNotify(t *testing.T) {
	st := newTestStore()
	id := st.CreateUser(models.NewUser{Name: "Aisha", Passcode: "1234"})
	st.Logout()

	var ops []Op
	st.Subscribe(func(c Change) { ops = append(ops, c.Op) })

	err := st.Login(id, "0000")
	assert.ErrorIs(t, err, errors.ErrAuthenticationFailed)
	assert.Empty(t, st.Snapshot().ActiveUserID)
	assert.Equal(t, []Op{OpRequestLogin}, ops)

	require.NoError(t, st.Login(id, "1234"))
	assert.Equal(t, id, st.Snapshot().ActiveUserID)
	assert.Equal(t, []Op{OpRequestLogin, OpConfirmLogin}, ops, "re-staging the same login is a no-op")
}

func TestStoreNoOpsDoNotNotify(t *testing.T) {
	st := newTestStore()

	var ops []Op
	st.Subscribe(func(c Change) { ops = append(ops, c.Op) })

	st.UpdateProgress(1, models.FastedPatch(models.FastFull))
	st.AddBadge(badges.FastingHero)
	st.SelectUser("missing")
	st.DeleteUser("missing")
	st.Logout()
	st.ExitAdminMode()
	assert.Empty(t, ops, "nothing to change without an active user")

	st.CreateUser(models.NewUser{Name: "Aisha"})
	st.SetFasted(1, models.FastFull)
	ops = nil

	st.AddBadge(badges.FastingHero)
	st.SetFasted(1, models.FastFull)
	st.SetCurrentDay(1)
	assert.Empty(t, ops, "repeating held values changes nothing")

	st.SetCurrentDay(2)
	assert.Equal(t, []Op{OpSetCurrentDay}, ops)
}

func TestStoreTogglePrayer(t *testing.T) {
	st := newTestStore()
	id := st.CreateUser(models.NewUser{Name: "Aisha"})

	for _, p := range models.AllPrayers[:5] {
		st.TogglePrayer(4, p)
	}
	u := st.Snapshot().Users[id]
	assert.Equal(t, 5, u.Progress[4].Prayers.Count())
	assert.Contains(t, u.Badges, badges.PunctualPrayer)
	assert.NotContains(t, u.Badges, badges.QiyamStar)

	st.TogglePrayer(4, models.Taraweeh)
	st.TogglePrayer(4, models.Taraweeh)
	u = st.Snapshot().Users[id]
	assert.False(t, u.Progress[4].Prayers.Taraweeh)
	assert.Contains(t, u.Badges, badges.QiyamStar)
}

func TestStoreAdminMode(t *testing.T) {
	st := newTestStore()
	st.CreateUser(models.NewUser{Name: "Aisha"})

	assert.ErrorIs(t, st.EnterAdminMode("noor-admin"), errors.ErrAuthenticationFailed)
	require.NoError(t, st.EnterAdminMode("open-sesame"))

	snap := st.Snapshot()
	assert.True(t, snap.IsAdminMode)
	assert.Empty(t, snap.ActiveUserID)

	st.ExitAdminMode()
	assert.False(t, st.Snapshot().IsAdminMode)
}

func TestStoreEndToEnd(t *testing.T) {
	st := NewStore(WithClock(func() time.Time { return now }))

	id := st.CreateUser(models.NewUser{Name: "Aisha", Age: 8, Passcode: "1234"})
	st.Logout()
	require.NoError(t, st.Login(id, "1234"))

	st.UpdateProgress(1, models.FastedPatch(models.FastFull))
	assert.Contains(t, st.Snapshot().Users[id].Badges, badges.FastingHero)

	st.UpdateProgress(1, models.PrayersPatch(models.Prayers{Fajr: true, Dhuhr: true, Asr: true, Maghrib: true, Isha: true}))
	assert.Contains(t, st.Snapshot().Users[id].Badges, badges.PunctualPrayer)
	assert.NotContains(t, st.Snapshot().Users[id].Badges, badges.QiyamStar)

	st.TogglePrayer(1, models.Taraweeh)
	assert.Contains(t, st.Snapshot().Users[id].Badges, badges.QiyamStar)
}
