package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	Admin    key.Binding
	Back     key.Binding
	PrevDay  key.Binding
	NextDay  key.Binding
	Fast     key.Binding
	Prayers  key.Binding
	MorePage key.Binding
	LessPage key.Binding
	Deed     key.Binding
	Badges   key.Binding
	Logout   key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Help, k.Admin, k.Back},
		{k.PrevDay, k.NextDay, k.Fast, k.Prayers, k.MorePage, k.LessPage, k.Deed, k.Badges, k.Logout},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Admin: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "admin mode"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next day"),
		),
		Fast: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fasting"),
		),
		Prayers: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6"),
			key.WithHelp("1-6", "toggle prayer"),
		),
		MorePage: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more pages"),
		),
		LessPage: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "fewer pages"),
		),
		Deed: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "good deed"),
		),
		Badges: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "badges"),
		),
		Logout: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "log out"),
		),
	}
}
