package archived

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/habitgrid/internal/models"
)

type RestoreHabitMsg struct {
	ID string
}

// DeleteHabitMsg requests a permanent delete; the parent confirms first.
type DeleteHabitMsg struct {
	ID   string
	Name string
}

type Item struct {
	Habit models.ArchivedHabit
	Now   time.Time
}

func (i Item) Title() string { return i.Habit.Name }

func (i Item) Description() string {
	when := "archived"
	if i.Habit.ArchivedAt != nil {
		when = "archived " + humanize.RelTime(*i.Habit.ArchivedAt, i.Now, "ago", "from now")
	}
	switch i.Habit.DaysRemaining {
	case 0:
		return when + " · deleted at next start"
	case 1:
		return when + " · 1 day left"
	default:
		return fmt.Sprintf("%s · %d days left", when, i.Habit.DaysRemaining)
	}
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Restore key.Binding
	Delete  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Restore: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restore"),
		),
		Delete: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete forever"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(habits []models.ArchivedHabit, now time.Time, width, height int) Model {
	l := list.New(items(habits, now), list.NewDefaultDelegate(), width, height)
	l.Title = "Archived"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Restore, keys.Delete}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	return Model{list: l, keys: keys}
}

func items(habits []models.ArchivedHabit, now time.Time) []list.Item {
	out := make([]list.Item, len(habits))
	for i, h := range habits {
		out[i] = Item{Habit: h, Now: now}
	}
	return out
}

func (m *Model) SetHabits(habits []models.ArchivedHabit, now time.Time) {
	m.list.SetItems(items(habits, now))
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Keys() KeyMap { return m.keys }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if i, ok := m.list.SelectedItem().(Item); ok {
			h := i.Habit
			switch {
			case key.Matches(msg, m.keys.Restore):
				return m, func() tea.Msg { return RestoreHabitMsg{ID: h.ID} }
			case key.Matches(msg, m.keys.Delete):
				return m, func() tea.Msg { return DeleteHabitMsg{ID: h.ID, Name: h.Name} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  Nothing archived."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
