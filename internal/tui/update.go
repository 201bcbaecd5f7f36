package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/noor/internal/badges"
	"github.com/julianstephens/noor/internal/constants"
	"github.com/julianstephens/noor/internal/models"
	"github.com/julianstephens/noor/internal/state"
	"github.com/julianstephens/noor/internal/tui/components/userlist"
	"github.com/julianstephens/noor/internal/tui/forms"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.users.SetSize(msg.Width-4, msg.Height-6)
		m.gallery.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case changeMsg:
		m.announceBadges(state.Change(msg))
		return m, tea.Batch(m.refresh(), waitForChange(m.changes))

	case encouragementMsg:
		if u, ok := m.activeUser(); ok && u.Profile.ID == msg.userID && u.Profile.CurrentDay == msg.day {
			m.encouragement = msg.text
		}
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		m.notice = ""
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Admin):
			return m.toggleAdmin()
		}
	}

	switch m.state {
	case StatePicker:
		return m.updatePicker(msg)
	case StateTracker:
		return m.updateTracker(msg)
	case StateBadges:
		return m.updateBadges(msg)
	}
	return m, nil
}

// refresh reloads the snapshot and moves between the picker and the tracker
// when the active user changes. Open forms are left alone.
func (m *Model) refresh() tea.Cmd {
	m.snap = m.store.Snapshot()
	m.users.SetUsers(m.snap.SortedUsers())
	m.users.SetAdmin(m.snap.IsAdminMode)

	u, ok := m.snap.ActiveUser()
	if !ok {
		m.buddyKey = ""
		m.encouragement = ""
		if m.form == nil && (m.state == StateTracker || m.state == StateBadges) {
			m.state = StatePicker
		}
		return nil
	}

	m.gallery.SetUser(u)
	if m.form == nil && m.state == StatePicker {
		m.state = StateTracker
	}

	day := u.Profile.CurrentDay
	buddyKey := fmt.Sprintf("%s/%d/%s", u.Profile.ID, day, u.DayOrDefault(day).Fasted)
	if buddyKey == m.buddyKey {
		return nil
	}
	m.buddyKey = buddyKey
	return m.fetchEncouragement()
}

// announceBadges sets the notice for badges a change awarded
func (m *Model) announceBadges(c state.Change) {
	if c.Op != state.OpUpdateProgress && c.Op != state.OpAddBadge {
		return
	}
	before := c.Prev.Users[c.UserID]
	after, ok := c.Next.Users[c.UserID]
	if !ok {
		return
	}
	var earned []string
	for _, id := range after.Badges {
		if before.HasBadge(id) {
			continue
		}
		icon := "🏅"
		if b, ok := badges.Lookup(id); ok {
			icon = b.Icon
		}
		earned = append(earned, icon+" "+string(id))
	}
	if len(earned) > 0 {
		m.notice = "New badge! " + strings.Join(earned, ", ")
	}
}

func (m Model) openForm(s SessionState, form *huh.Form) (tea.Model, tea.Cmd) {
	m.state = s
	m.form = form
	m.errMsg = ""
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		return m.closeForm()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.submitForm()
		next, closeCmd := m.closeForm()
		return next, tea.Batch(cmd, closeCmd)
	case huh.StateAborted:
		return m.closeForm()
	}
	return m, cmd
}

// submitForm applies the completed form to the store
func (m *Model) submitForm() {
	in := m.input
	switch m.state {
	case StatePasscode:
		if err := m.store.ConfirmLogin(in.secret); err != nil {
			m.errMsg = "That passcode is not right. Try again!"
		}
	case StateAdminSecret:
		if err := m.store.EnterAdminMode(in.secret); err != nil {
			m.errMsg = "Wrong admin secret."
			return
		}
		m.notice = "Admin mode on"
	case StateNewUser:
		fields, err := in.user.Fields()
		if err != nil {
			m.errMsg = err.Error()
			return
		}
		m.store.CreateUser(fields)
		m.notice = fmt.Sprintf("Welcome, %s!", strings.TrimSpace(fields.Name))
	case StateDeed:
		m.store.SetGoodDeed(m.currentDay(), strings.TrimSpace(in.deed))
	case StateConfirmDelete:
		if in.confirm {
			m.store.DeleteUser(m.deleteID)
		}
	}
}

func (m Model) closeForm() (tea.Model, tea.Cmd) {
	m.form = nil
	m.input = nil
	m.deleteID = ""
	if _, ok := m.store.Snapshot().ActiveUser(); ok {
		m.state = StateTracker
	} else {
		m.state = StatePicker
	}
	return m, m.refresh()
}

func (m Model) toggleAdmin() (tea.Model, tea.Cmd) {
	if m.snap.IsAdminMode {
		m.store.ExitAdminMode()
		m.notice = "Admin mode off"
		return m, m.refresh()
	}
	m.input = &formInput{}
	return m.openForm(StateAdminSecret, forms.SecretForm("Admin secret", &m.input.secret))
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case userlist.SelectUserMsg:
		u, ok := m.snap.Users[msg.ID]
		if !ok {
			return m, nil
		}
		if u.Profile.Passcode == "" {
			m.store.SelectUser(msg.ID)
			return m, m.refresh()
		}
		m.store.RequestLogin(msg.ID)
		m.input = &formInput{}
		return m.openForm(StatePasscode, forms.SecretForm(fmt.Sprintf("Passcode for %s", u.Profile.Name), &m.input.secret))

	case userlist.AddUserMsg:
		m.input = &formInput{}
		return m.openForm(StateNewUser, forms.NewUserForm(&m.input.user))

	case userlist.DeleteUserMsg:
		m.input = &formInput{}
		m.deleteID = msg.ID
		title := fmt.Sprintf("Delete %s and all their progress?", msg.Name)
		return m.openForm(StateConfirmDelete, forms.ConfirmForm(title, &m.input.confirm))
	}

	var cmd tea.Cmd
	m.users, cmd = m.users.Update(msg)
	return m, cmd
}

func (m Model) updateTracker(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	u, ok := m.activeUser()
	if !ok {
		return m, nil
	}
	day := u.Profile.CurrentDay
	rec := u.DayOrDefault(day)

	switch {
	case key.Matches(keyMsg, m.keys.PrevDay):
		if day > constants.FirstDay {
			m.store.SetCurrentDay(day - 1)
		}
	case key.Matches(keyMsg, m.keys.NextDay):
		if day < constants.LastDay {
			m.store.SetCurrentDay(day + 1)
		}
	case key.Matches(keyMsg, m.keys.Fast):
		m.store.SetFasted(day, rec.Fasted.Next())
	case key.Matches(keyMsg, m.keys.Prayers):
		i := int(keyMsg.String()[0] - '1')
		m.store.TogglePrayer(day, models.AllPrayers[i])
	case key.Matches(keyMsg, m.keys.MorePage):
		if rec.QuranPages < constants.MaxQuranPagesInput {
			m.store.SetQuranPages(day, rec.QuranPages+1)
		}
	case key.Matches(keyMsg, m.keys.LessPage):
		if rec.QuranPages > 0 {
			m.store.SetQuranPages(day, rec.QuranPages-1)
		}
	case key.Matches(keyMsg, m.keys.Deed):
		m.input = &formInput{deed: rec.GoodDeed}
		return m.openForm(StateDeed, forms.DeedForm(day, &m.input.deed))
	case key.Matches(keyMsg, m.keys.Badges):
		m.state = StateBadges
		return m, nil
	case key.Matches(keyMsg, m.keys.Logout):
		m.store.Logout()
	default:
		return m, nil
	}
	return m, m.refresh()
}

func (m Model) updateBadges(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Back), key.Matches(keyMsg, m.keys.Badges):
			m.state = StateTracker
			return m, nil
		case key.Matches(keyMsg, m.keys.Logout):
			m.store.Logout()
			return m, m.refresh()
		}
	}

	var cmd tea.Cmd
	m.gallery, cmd = m.gallery.Update(msg)
	return m, cmd
}
