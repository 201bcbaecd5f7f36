package tui

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/noor/internal/badges"
	"github.com/julianstephens/noor/internal/content"
	"github.com/julianstephens/noor/internal/models"
	"github.com/julianstephens/noor/internal/state"
	"github.com/julianstephens/noor/internal/tui/components/userlist"
)

func newTestStore() *state.Store {
	n := 0
	return state.NewStore(
		state.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("u%d", n)
		}),
		state.WithAdminSecret("open-sesame"),
	)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

// drain feeds queued store changes back into the model
func drain(t *testing.T, m Model) Model {
	t.Helper()
	for {
		select {
		case c := <-m.changes:
			m = send(t, m, changeMsg(c))
		default:
			return m
		}
	}
}

func TestNewModelStartsOnPicker(t *testing.T) {
	st := newTestStore()
	m := NewModel(st, content.NewStatic())
	defer m.Close()

	assert.Equal(t, StatePicker, m.state)
	assert.Contains(t, m.View(), "No users yet")
}

func TestNewModelResumesActiveUser(t *testing.T) {
	st := newTestStore()
	st.CreateUser(models.NewUser{Name: "Aisha"})

	m := NewModel(st, content.NewStatic())
	defer m.Close()

	assert.Equal(t, StateTracker, m.state)
	assert.Contains(t, m.View(), "Aisha")
}

func TestSelectUserWithoutPasscode(t *testing.T) {
	st := newTestStore()
	id := st.CreateUser(models.NewUser{Name: "Omar"})
	st.Logout()

	m := NewModel(st, content.NewStatic())
	defer m.Close()
	require.Equal(t, StatePicker, m.state)

	m = send(t, m, userlist.SelectUserMsg{ID: id})

	assert.Equal(t, StateTracker, m.state)
	assert.Equal(t, id, st.Snapshot().ActiveUserID)
}

func TestPasscodeLogin(t *testing.T) {
	st := newTestStore()
	id := st.CreateUser(models.NewUser{Name: "Aisha", Passcode: "1234"})
	st.Logout()

	m := NewModel(st, content.NewStatic())
	defer m.Close()

	m = send(t, m, userlist.SelectUserMsg{ID: id})
	require.Equal(t, StatePasscode, m.state)
	require.NotNil(t, m.form)
	assert.Equal(t, id, st.Snapshot().PendingLoginID)

	m.input.secret = "9999"
	m.submitForm()
	next, _ := m.closeForm()
	m = next.(Model)

	assert.Equal(t, StatePicker, m.state)
	assert.NotEmpty(t, m.errMsg)
	assert.Empty(t, st.Snapshot().ActiveUserID)

	m = send(t, m, userlist.SelectUserMsg{ID: id})
	m.input.secret = "1234"
	m.submitForm()
	next, _ = m.closeForm()
	m = next.(Model)

	assert.Equal(t, StateTracker, m.state)
	assert.Empty(t, m.errMsg)
	assert.Equal(t, id, st.Snapshot().ActiveUserID)
}

func TestTrackerKeys(t *testing.T) {
	st := newTestStore()
	st.CreateUser(models.NewUser{Name: "Aisha"})

	m := NewModel(st, content.NewStatic())
	defer m.Close()

	// day 1 is the lower bound
	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, m.currentDay())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, m.currentDay())

	m = send(t, m, runes("f"))
	m = send(t, m, runes("1"))
	m = send(t, m, runes("6"))
	m = send(t, m, runes("+"))
	m = send(t, m, runes("+"))
	m = send(t, m, runes("-"))

	u, _ := st.Snapshot().ActiveUser()
	rec := u.Progress[2]
	assert.Equal(t, models.FastFull, rec.Fasted)
	assert.True(t, rec.Prayers.Fajr)
	assert.True(t, rec.Prayers.Taraweeh)
	assert.Equal(t, 1, rec.QuranPages)
	assert.True(t, u.HasBadge(badges.FastingHero))
	assert.True(t, u.HasBadge(badges.QiyamStar))
}

func TestBadgeNoticeFromChanges(t *testing.T) {
	st := newTestStore()
	st.CreateUser(models.NewUser{Name: "Aisha"})

	m := NewModel(st, content.NewStatic())
	defer m.Close()

	m = send(t, m, runes("f"))
	m = drain(t, m)

	assert.Contains(t, m.notice, string(badges.FastingHero))
}

func TestLogoutReturnsToPicker(t *testing.T) {
	st := newTestStore()
	st.CreateUser(models.NewUser{Name: "Aisha"})

	m := NewModel(st, content.NewStatic())
	defer m.Close()
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m = send(t, m, runes("b"))
	require.Equal(t, StateBadges, m.state)
	assert.Contains(t, m.View(), string(badges.FastingHero))

	m = send(t, m, runes("o"))
	assert.Equal(t, StatePicker, m.state)
	assert.Empty(t, st.Snapshot().ActiveUserID)
}

func TestAdminModeToggle(t *testing.T) {
	st := newTestStore()
	st.CreateUser(models.NewUser{Name: "Aisha"})

	m := NewModel(st, content.NewStatic())
	defer m.Close()

	m = send(t, m, runes("A"))
	require.Equal(t, StateAdminSecret, m.state)

	m.input.secret = "open-sesame"
	m.submitForm()
	next, _ := m.closeForm()
	m = next.(Model)

	assert.True(t, st.Snapshot().IsAdminMode)
	assert.Equal(t, StatePicker, m.state)
	assert.True(t, m.users.HelpKeys()[1].Enabled())

	m = send(t, m, runes("A"))
	assert.False(t, st.Snapshot().IsAdminMode)
}

func TestExternalChangeMovesToPicker(t *testing.T) {
	st := newTestStore()
	id := st.CreateUser(models.NewUser{Name: "Aisha"})

	m := NewModel(st, content.NewStatic())
	defer m.Close()
	require.Equal(t, StateTracker, m.state)

	st.DeleteUser(id)
	m = drain(t, m)

	assert.Equal(t, StatePicker, m.state)
}

func TestStaleEncouragementIgnored(t *testing.T) {
	st := newTestStore()
	id := st.CreateUser(models.NewUser{Name: "Aisha"})

	m := NewModel(st, content.NewStatic())
	defer m.Close()

	m = send(t, m, encouragementMsg{userID: id, day: 5, text: "old"})
	assert.Empty(t, m.encouragement)

	m = send(t, m, encouragementMsg{userID: id, day: 1, text: "fresh"})
	assert.Equal(t, "fresh", m.encouragement)
}

func TestListenerNeverBlocks(t *testing.T) {
	st := newTestStore()
	st.CreateUser(models.NewUser{Name: "Aisha"})

	m := NewModel(st, content.NewStatic())
	defer m.Close()

	for i := 0; i < changeBuffer*2; i++ {
		st.SetQuranPages(1, i)
	}
	assert.Len(t, m.changes, changeBuffer)
}
