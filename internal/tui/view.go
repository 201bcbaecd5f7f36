package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/noor/internal/constants"
	"github.com/julianstephens/noor/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StatePicker:
		content = docStyle.Render(m.users.View())
	case StateTracker:
		content = m.viewTracker()
	case StateBadges:
		content = docStyle.Render(m.gallery.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		if m.form != nil {
			content = docStyle.Render(m.form.View())
		}
	}

	parts := []string{m.viewHeader(), content}
	if line := m.viewStatus(); line != "" {
		parts = append(parts, line)
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewHeader() string {
	title := "🌙 Noor Ramadan Tracker"
	if u, ok := m.activeUser(); ok {
		title = fmt.Sprintf("%s %s · Day %d of %d", u.Profile.Avatar, u.Profile.Name, u.Profile.CurrentDay, constants.LastDay)
	}
	header := headerStyle.Render(title)
	if m.snap.IsAdminMode {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, " ", adminStyle.Render("ADMIN"))
	}
	return header
}

func (m Model) viewStatus() string {
	switch {
	case m.errMsg != "":
		return dangerStyle.Render("  " + m.errMsg)
	case m.notice != "":
		return noticeStyle.Render("  " + m.notice)
	}
	return ""
}

func (m Model) viewTracker() string {
	u, ok := m.activeUser()
	if !ok {
		return ""
	}
	day := u.Profile.CurrentDay
	rec := u.DayOrDefault(day)

	var b strings.Builder
	b.WriteString(sectionStyle.Render("Fasting") + "\n")
	for _, f := range models.FastStatuses {
		label := f.Label()
		if f == rec.Fasted {
			b.WriteString(doneStyle.Render("[" + label + "]"))
		} else {
			b.WriteString(pendingStyle.Render(" " + label + " "))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render(fmt.Sprintf("Prayers (%d/%d)", rec.Prayers.Count(), len(models.AllPrayers))) + "\n")
	for i, p := range models.AllPrayers {
		name := strings.ToUpper(string(p[:1])) + string(p[1:])
		if rec.Prayers.Get(p) {
			b.WriteString(doneStyle.Render(fmt.Sprintf("%d ✓ %s", i+1, name)))
		} else {
			b.WriteString(pendingStyle.Render(fmt.Sprintf("%d ○ %s", i+1, name)))
		}
		b.WriteString("  ")
	}
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Quran") + "\n")
	filled := rec.QuranPages
	if filled > constants.MaxQuranPagesInput {
		filled = constants.MaxQuranPagesInput
	}
	bar := doneStyle.Render(strings.Repeat("█", filled)) + pendingStyle.Render(strings.Repeat("░", constants.MaxQuranPagesInput-filled))
	fmt.Fprintf(&b, "%s %d pages\n\n", bar, rec.QuranPages)

	b.WriteString(sectionStyle.Render("Good deed") + "\n")
	if rec.GoodDeed == "" {
		b.WriteString(pendingStyle.Render("Nothing written yet. Press g to add one."))
	} else {
		b.WriteString(rec.GoodDeed)
	}
	b.WriteString("\n")

	if m.encouragement != "" {
		b.WriteString("\n" + buddyStyle.Render("🐪 "+m.encouragement))
	}
	return docStyle.Render(b.String())
}

func (m Model) viewConfirmDelete() string {
	if m.form == nil {
		return ""
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("This cannot be undone."),
			"",
			m.form.View(),
		),
	)
}
