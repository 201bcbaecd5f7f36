package gallery

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/noor/internal/badges"
	"github.com/julianstephens/noor/internal/models"
	"github.com/julianstephens/noor/internal/stats"
)

var (
	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	earnedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	completeBar = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	partialBar  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Model shows the badge gallery and the stats overview in a scrollable pane
type Model struct {
	viewport viewport.Model
	user     models.UserRecord
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.viewport.SetContent(Render(m.user))
}

// SetUser re-renders the pane for u
func (m *Model) SetUser(u models.UserRecord) {
	m.user = u
	m.viewport.SetContent(Render(u))
}

// Render builds the pane text
func Render(u models.UserRecord) string {
	var b strings.Builder

	b.WriteString(headingStyle.Render(fmt.Sprintf("🏅 Badges (%d/%d)", len(u.Badges), len(badges.Catalog))))
	b.WriteString("\n\n")
	for _, badge := range badges.Catalog {
		if u.HasBadge(badge.ID) {
			b.WriteString(earnedStyle.Render(fmt.Sprintf("  %s %-16s", badge.Icon, badge.ID)))
			b.WriteString(" " + badge.Description + "\n")
		} else {
			b.WriteString(lockedStyle.Render(fmt.Sprintf("  🔒 %-16s %s", badge.ID, badge.Description)))
			b.WriteString("\n")
		}
	}

	o := stats.Compute(u.Progress)
	b.WriteString("\n")
	b.WriteString(headingStyle.Render("📊 My Ramadan Stats"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  🏆 %d full fasts   📖 %d Quran pages   📅 %d days logged\n\n", o.TotalFullFasts, o.TotalQuranPages, o.DaysLogged)

	if len(o.Days) == 0 {
		b.WriteString(lockedStyle.Render("  Log a day to see your prayer chart."))
		return b.String()
	}
	b.WriteString("  Daily prayer progress\n")
	for _, d := range o.Days {
		bar := strings.Repeat("█", d.Prayers) + strings.Repeat("·", len(models.AllPrayers)-d.Prayers)
		style := partialBar
		if d.Complete {
			style = completeBar
		}
		fmt.Fprintf(&b, "  %-4s %s %d\n", d.Label, style.Render(bar), d.Prayers)
	}
	return b.String()
}
