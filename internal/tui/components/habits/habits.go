package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitgrid/internal/models"
)

type AddHabitMsg struct{}

type ToggleHabitMsg struct {
	ID string
}

type ArchiveHabitMsg struct {
	ID string
}

// MoveHabitMsg asks to shift a habit Delta positions in the stored order.
type MoveHabitMsg struct {
	ID    string
	Delta int
}

type OpenHeatmapMsg struct {
	Habit models.Habit
}

type Item struct {
	Stats models.HabitWithStats
}

func (i Item) Title() string {
	name := i.Stats.Name
	if i.Stats.Icon != "" {
		name = i.Stats.Icon + " " + name
	}
	if i.Stats.CompletedToday {
		return "✓ " + name
	}
	return "○ " + name
}

func (i Item) Description() string {
	s := i.Stats
	switch f := s.Frequency.(type) {
	case models.TimesPerWeek:
		return fmt.Sprintf("%s · %d/%d this week · streak %dw (best %dw)",
			f, s.CompletionsThisWeek, f.Target, s.CurrentStreak, s.LongestStreak)
	default:
		return fmt.Sprintf("%s · streak %d (best %d) · %d this week",
			s.Frequency, s.CurrentStreak, s.LongestStreak, s.CompletionsThisWeek)
	}
}

func (i Item) FilterValue() string { return i.Stats.Name }

type KeyMap struct {
	Add      key.Binding
	Toggle   key.Binding
	Archive  key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Heatmap  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle today"),
		),
		Archive: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "archive"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "move down"),
		),
		Heatmap: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "heatmap"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(habits []models.HabitWithStats, width, height int) Model {
	l := list.New(items(habits), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Add, keys.Archive, keys.Heatmap}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Add, keys.Archive, keys.MoveUp, keys.MoveDown, keys.Heatmap}
	}

	return Model{
		list: l,
		keys: keys,
	}
}

func items(habits []models.HabitWithStats) []list.Item {
	out := make([]list.Item, len(habits))
	for i, h := range habits {
		out[i] = Item{Stats: h}
	}
	return out
}

// SetHabits replaces the items and keeps the cursor on the same habit when
// it is still present.
func (m *Model) SetHabits(habits []models.HabitWithStats) {
	selected := m.SelectedID()
	m.list.SetItems(items(habits))
	if selected != "" {
		m.Select(selected)
	}
}

// Select moves the cursor to the habit with id.
func (m *Model) Select(id string) {
	for i, it := range m.list.Items() {
		if it.(Item).Stats.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m Model) SelectedID() string {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Stats.ID
	}
	return ""
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Keys() KeyMap { return m.keys }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		if key.Matches(msg, m.keys.Add) {
			return m, func() tea.Msg { return AddHabitMsg{} }
		}
		i, ok := m.list.SelectedItem().(Item)
		if !ok {
			break
		}
		id := i.Stats.ID
		switch {
		case key.Matches(msg, m.keys.Toggle):
			return m, func() tea.Msg { return ToggleHabitMsg{ID: id} }
		case key.Matches(msg, m.keys.Archive):
			return m, func() tea.Msg { return ArchiveHabitMsg{ID: id} }
		case key.Matches(msg, m.keys.MoveUp):
			return m, func() tea.Msg { return MoveHabitMsg{ID: id, Delta: -1} }
		case key.Matches(msg, m.keys.MoveDown):
			return m, func() tea.Msg { return MoveHabitMsg{ID: id, Delta: 1} }
		case key.Matches(msg, m.keys.Heatmap):
			habit := i.Stats.Habit
			return m, func() tea.Msg { return OpenHeatmapMsg{Habit: habit} }
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
