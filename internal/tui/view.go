package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitgrid/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateHabits:
		content = docStyle.Render(m.habitsModel.View())
	case constants.StateArchived:
		content = docStyle.Render(m.archivedModel.View())
	case constants.StateHeatmap:
		content = docStyle.Render(m.heatmapModel.View())
	case constants.StateAddHabit:
		content = docStyle.Render(m.form.View())
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	parts := []string{m.viewTabs(), content}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	if m.warning != "" {
		parts = append(parts, warningStyle.Render("  "+m.warning+" (run 'habitgrid doctor')"))
	}
	if m.state != constants.StateAddHabit {
		parts = append(parts, m.help.View(m))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	titles := []struct {
		state constants.SessionState
		title string
	}{
		{constants.StateHabits, fmt.Sprintf("Habits (%d)", m.habitsModel.Len())},
		{constants.StateArchived, fmt.Sprintf("Archived (%d)", m.archivedModel.Len())},
	}

	active := m.state
	if active != constants.StateHabits && active != constants.StateArchived {
		active = m.previousState
		if m.state == constants.StateHeatmap {
			active = constants.StateHabits
		}
	}

	var tabs []string
	for _, t := range titles {
		if t.state == active {
			tabs = append(tabs, activeTabStyle.Render(t.title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(t.title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewConfirmDelete() string {
	name := ""
	if m.pendingDelete != nil {
		name = m.pendingDelete.Name
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Permanently delete %q and its history?", name)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
