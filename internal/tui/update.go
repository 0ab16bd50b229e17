package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/tui/components/archived"
	"github.com/julianstephens/habitgrid/internal/tui/components/habits"
	"github.com/julianstephens/habitgrid/internal/tui/components/heatmap"
)

// chromeHeight is the space taken by the tab bar, status line and help.
const chromeHeight = 7

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.habitsModel.SetSize(msg.Width-h, msg.Height-v-chromeHeight)
		m.archivedModel.SetSize(msg.Width-h, msg.Height-v-chromeHeight)
		if m.form != nil {
			m.form = m.form.WithWidth(msg.Width - h)
		}
		return m, nil

	case dbChangedMsg:
		logger.Debug("Database changed on disk, reloading")
		m.refresh()
		return m, waitForChange(m.changes)
	}

	switch m.state {
	case constants.StateAddHabit:
		return m.updateForm(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case constants.StateHeatmap:
		if _, ok := msg.(heatmap.CloseMsg); ok {
			m.state = constants.StateHabits
			return m, nil
		}
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		m.heatmapModel, cmd = m.heatmapModel.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
			if m.state == constants.StateHabits {
				m.state = constants.StateArchived
			} else {
				m.state = constants.StateHabits
			}
			m.status = ""
			return m, nil
		}

	case habits.AddHabitMsg:
		m.habitForm = newHabitFormModel()
		m.form = NewHabitForm(m.habitForm, m.habitExists)
		m.previousState = m.state
		m.state = constants.StateAddHabit
		return m, m.form.Init()

	case habits.ToggleHabitMsg:
		stats, done, err := m.dash.Toggle(msg.ID, time.Time{}, m.now())
		if err != nil {
			m.status = fmt.Sprintf("Error: %v", err)
			return m, nil
		}
		if done {
			m.status = fmt.Sprintf("Completed %s (streak %d)", stats.Name, stats.CurrentStreak)
		} else {
			m.status = fmt.Sprintf("Unmarked %s", stats.Name)
		}
		m.refresh()
		return m, nil

	case habits.ArchiveHabitMsg:
		if err := m.store.ArchiveHabit(msg.ID, m.now()); err != nil {
			m.status = fmt.Sprintf("Error archiving habit: %v", err)
			return m, nil
		}
		m.status = "Habit archived"
		m.refresh()
		return m, nil

	case habits.MoveHabitMsg:
		if err := m.dash.Move(msg.ID, msg.Delta, m.now()); err != nil {
			m.status = fmt.Sprintf("Error moving habit: %v", err)
			return m, nil
		}
		m.refresh()
		m.habitsModel.Select(msg.ID)
		return m, nil

	case habits.OpenHeatmapMsg:
		today, _, err := m.dash.Today(m.now())
		if err != nil {
			m.status = fmt.Sprintf("Error: %v", err)
			return m, nil
		}
		m.heatmapModel = heatmap.New(msg.Habit, today.Year(), m.dash.Heatmap)
		m.state = constants.StateHeatmap
		return m, m.heatmapModel.Init()

	case archived.RestoreHabitMsg:
		if err := m.store.RestoreHabit(msg.ID); err != nil {
			m.status = fmt.Sprintf("Error restoring habit: %v", err)
			return m, nil
		}
		m.status = "Habit restored"
		m.refresh()
		return m, nil

	case archived.DeleteHabitMsg:
		m.pendingDelete = &msg
		m.previousState = m.state
		m.state = constants.StateConfirmDelete
		return m, nil
	}

	switch m.state {
	case constants.StateHabits:
		m.habitsModel, cmd = m.habitsModel.Update(msg)
	case constants.StateArchived:
		m.archivedModel, cmd = m.archivedModel.Update(msg)
	}

	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.state = m.previousState
		m.form = nil
		m.habitForm = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		h, err := m.habitForm.Habit(m.now())
		if err == nil {
			err = m.store.AddHabit(h)
		}
		if err != nil {
			m.status = fmt.Sprintf("Error adding habit: %v", err)
		} else {
			m.status = fmt.Sprintf("Added %s", h.Name)
			m.refresh()
			m.habitsModel.Select(h.ID)
		}
		m.state = constants.StateHabits
		m.form = nil
		m.habitForm = nil
		return m, nil
	case huh.StateAborted:
		m.state = m.previousState
		m.form = nil
		m.habitForm = nil
		return m, nil
	}

	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(k, m.keys.Confirm):
		if err := m.store.PermanentlyDeleteHabit(m.pendingDelete.ID); err != nil {
			m.status = fmt.Sprintf("Error deleting habit: %v", err)
		} else {
			m.status = fmt.Sprintf("Deleted %s", m.pendingDelete.Name)
			m.refresh()
		}
		m.pendingDelete = nil
		m.state = m.previousState
	case key.Matches(k, m.keys.Cancel):
		m.pendingDelete = nil
		m.state = m.previousState
	}
	return m, nil
}
