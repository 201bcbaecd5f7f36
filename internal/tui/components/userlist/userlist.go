package userlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/noor/internal/models"
)

type SelectUserMsg struct {
	ID string
}

type AddUserMsg struct{}

type DeleteUserMsg struct {
	ID   string
	Name string
}

type Item struct {
	User models.UserRecord
}

func (i Item) Title() string {
	return i.User.Profile.Avatar + " " + i.User.Profile.Name
}

func (i Item) Description() string {
	desc := fmt.Sprintf("Age %d | Day %d | %d badges", i.User.Profile.Age, i.User.Profile.CurrentDay, len(i.User.Badges))
	if i.User.Profile.Passcode != "" {
		desc += " | 🔒"
	}
	if i.User.Profile.Role == models.RoleAdmin {
		desc += " | parent"
	}
	return desc
}

func (i Item) FilterValue() string { return i.User.Profile.Name }

type KeyMap struct {
	Select key.Binding
	Add    key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "log in"),
		),
		Add: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new user"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
	}
}

type Model struct {
	list  list.Model
	keys  KeyMap
	admin bool
}

func New(users []models.UserRecord, width, height int) Model {
	l := list.New(items(users), list.NewDefaultDelegate(), width, height)
	l.Title = "Who is tracking today?"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return Model{list: l, keys: DefaultKeyMap()}
}

func items(users []models.UserRecord) []list.Item {
	out := make([]list.Item, len(users))
	for i, u := range users {
		out[i] = Item{User: u}
	}
	return out
}

// SetUsers replaces the listed users
func (m *Model) SetUsers(users []models.UserRecord) {
	m.list.SetItems(items(users))
}

// SetAdmin enables the add and delete keys
func (m *Model) SetAdmin(admin bool) {
	m.admin = admin
}

// HelpKeys returns the bindings active in the current mode
func (m Model) HelpKeys() []key.Binding {
	if m.admin {
		return []key.Binding{m.keys.Select, m.keys.Add, m.keys.Delete}
	}
	return []key.Binding{m.keys.Select}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Select):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return SelectUserMsg{ID: i.User.Profile.ID} }
			}
			return m, nil
		case m.admin && key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddUserMsg{} }
		case m.admin && key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteUserMsg{ID: i.User.Profile.ID, Name: i.User.Profile.Name} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		if m.admin {
			return "\n  No users yet.\n  Press 'n' to add one."
		}
		return "\n  No users yet.\n  Press 'A' to enter admin mode and add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
