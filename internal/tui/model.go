// Package tui is the interactive tracker: a user picker, the daily tracker
// and the badge gallery, all driven by the state store.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/noor/internal/constants"
	"github.com/julianstephens/noor/internal/content"
	"github.com/julianstephens/noor/internal/models"
	"github.com/julianstephens/noor/internal/state"
	"github.com/julianstephens/noor/internal/tui/components/gallery"
	"github.com/julianstephens/noor/internal/tui/components/userlist"
	"github.com/julianstephens/noor/internal/tui/forms"
)

type SessionState int

const (
	StatePicker SessionState = iota
	StateTracker
	StateBadges
	StatePasscode
	StateAdminSecret
	StateNewUser
	StateDeed
	StateConfirmDelete
)

const changeBuffer = 64

// changeMsg carries a store change into the update loop
type changeMsg state.Change

type encouragementMsg struct {
	userID string
	day    int
	text   string
}

// formInput holds the values bound to the open form. It lives behind a
// pointer because the model is copied on every update.
type formInput struct {
	secret  string
	deed    string
	confirm bool
	user    forms.NewUser
}

type Model struct {
	store    *state.Store
	provider content.Provider

	snap          models.AppState
	state         SessionState
	keys          KeyMap
	help          help.Model
	users         userlist.Model
	gallery       gallery.Model
	form          *huh.Form
	input         *formInput
	deleteID      string
	notice        string
	errMsg        string
	encouragement string
	buddyKey      string

	changes     chan state.Change
	unsubscribe func()

	quitting bool
	width    int
	height   int
}

// NewModel subscribes to store. Call Close once the program exits.
func NewModel(store *state.Store, provider content.Provider) Model {
	if provider == nil {
		provider = content.NewStatic()
	}
	changes := make(chan state.Change, changeBuffer)
	unsubscribe := store.Subscribe(func(c state.Change) {
		// the store lock is held here; never block
		select {
		case changes <- c:
		default:
		}
	})

	snap := store.Snapshot()
	m := Model{
		store:       store,
		provider:    provider,
		snap:        snap,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		users:       userlist.New(snap.SortedUsers(), 0, 0),
		gallery:     gallery.New(0, 0),
		changes:     changes,
		unsubscribe: unsubscribe,
	}
	m.users.SetAdmin(snap.IsAdminMode)
	m.refresh()
	return m
}

// Close stops listening to the store
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForChange(m.changes), m.fetchEncouragement())
}

func waitForChange(ch <-chan state.Change) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return changeMsg(c)
	}
}

func (m Model) fetchEncouragement() tea.Cmd {
	u, ok := m.snap.ActiveUser()
	if !ok {
		return nil
	}
	provider := m.provider
	day := u.Profile.CurrentDay
	fasted := u.DayOrDefault(day).Fasted == models.FastFull
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultContentTimeout)
		defer cancel()
		return encouragementMsg{
			userID: u.Profile.ID,
			day:    day,
			text:   provider.Encouragement(ctx, u.Profile.Name, day, fasted),
		}
	}
}

// activeUser returns the logged-in user from the last snapshot
func (m Model) activeUser() (models.UserRecord, bool) {
	return m.snap.ActiveUser()
}

func (m Model) currentDay() int {
	u, ok := m.activeUser()
	if !ok {
		return constants.FirstDay
	}
	return u.Profile.CurrentDay
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Quit, m.keys.Help}
	switch m.state {
	case StatePicker:
		keys = append(keys, m.users.HelpKeys()...)
		keys = append(keys, m.keys.Admin)
	case StateTracker:
		keys = append(keys, m.keys.PrevDay, m.keys.NextDay, m.keys.Fast, m.keys.Prayers)
	case StateBadges:
		keys = append(keys, m.keys.Back)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Quit, m.keys.Help, m.keys.Admin}

	var actions []key.Binding
	switch m.state {
	case StatePicker:
		actions = m.users.HelpKeys()
	case StateTracker:
		actions = []key.Binding{
			m.keys.PrevDay, m.keys.NextDay, m.keys.Fast, m.keys.Prayers,
			m.keys.MorePage, m.keys.LessPage, m.keys.Deed, m.keys.Badges, m.keys.Logout,
		}
	case StateBadges:
		actions = []key.Binding{m.keys.Back, m.keys.Logout}
	}
	return [][]key.Binding{global, actions}
}
