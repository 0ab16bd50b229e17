package heatmap

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/tracker"
)

const (
	glyphFilled = "■"
	glyphDot    = "·"
	cellWidth   = 2
	labelWidth  = 4
)

var (
	scheduledStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	unscheduledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle       = lipgloss.NewStyle().Bold(true)
)

var weekdayLabels = [7]string{"", "Mon", "", "Wed", "", "Fri", ""}

// Render draws a year as seven weekday rows with one column per week.
// Completed days use the habit color.
func Render(data tracker.HeatmapData, color string) string {
	completedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color))

	var b strings.Builder

	months := make([]byte, len(data.Weeks)*cellWidth)
	for i := range months {
		months[i] = ' '
	}
	header := []rune(string(months))
	for _, m := range data.Months {
		name := []rune(m.Month.String()[:3])
		for i, r := range name {
			if pos := m.Week*cellWidth + i; pos < len(header) {
				header[pos] = r
			}
		}
	}
	b.WriteString(strings.Repeat(" ", labelWidth))
	b.WriteString(labelStyle.Render(strings.TrimRight(string(header), " ")))
	b.WriteString("\n")

	for day := 0; day < 7; day++ {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelWidth, weekdayLabels[day])))
		for _, week := range data.Weeks {
			if day >= len(week) {
				break
			}
			switch week[day].State {
			case tracker.CellCompleted:
				b.WriteString(completedStyle.Render(glyphFilled))
			case tracker.CellScheduled:
				b.WriteString(scheduledStyle.Render(glyphFilled))
			case tracker.CellUnscheduled:
				b.WriteString(unscheduledStyle.Render(glyphDot))
			default:
				b.WriteString(" ")
			}
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	counts := data.Counts()
	due := counts[tracker.CellScheduled] + counts[tracker.CellCompleted]
	b.WriteString(fmt.Sprintf("\n%s%d completed", strings.Repeat(" ", labelWidth), counts[tracker.CellCompleted]))
	if due > 0 {
		b.WriteString(fmt.Sprintf(", %d days due", due))
	}
	b.WriteString("\n")
	return b.String()
}

// Legend explains the glyphs.
func Legend(color string) string {
	completed := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(glyphFilled)
	return fmt.Sprintf("%s completed  %s due  %s not scheduled",
		completed, scheduledStyle.Render(glyphFilled), unscheduledStyle.Render(glyphDot))
}

// LoadFunc fetches the heatmap for a habit and year.
type LoadFunc func(habitID string, year int) (tracker.HeatmapData, error)

type loadedMsg struct {
	data tracker.HeatmapData
	err  error
}

// CloseMsg asks the parent to leave the heatmap view.
type CloseMsg struct{}

type KeyMap struct {
	PrevYear key.Binding
	NextYear key.Binding
	Close    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		PrevYear: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous year"),
		),
		NextYear: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next year"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "q", "enter"),
			key.WithHelp("esc", "back"),
		),
	}
}

// Model shows one habit's year and lets the user page between years.
type Model struct {
	habit models.Habit
	year  int
	load  LoadFunc
	data  tracker.HeatmapData
	err   error
	keys  KeyMap
}

func New(habit models.Habit, year int, load LoadFunc) Model {
	return Model{habit: habit, year: year, load: load, keys: DefaultKeyMap()}
}

func (m Model) Keys() KeyMap { return m.keys }

func (m Model) Year() int { return m.year }

func (m Model) fetch() tea.Cmd {
	id, year, load := m.habit.ID, m.year, m.load
	return func() tea.Msg {
		data, err := load(id, year)
		return loadedMsg{data: data, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	return m.fetch()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err == nil && msg.data.Year != m.year {
			return m, nil
		}
		m.data, m.err = msg.data, msg.err
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.PrevYear):
			m.year--
			return m, m.fetch()
		case key.Matches(msg, m.keys.NextYear):
			m.year++
			return m, m.fetch()
		case key.Matches(msg, m.keys.Close):
			return m, func() tea.Msg { return CloseMsg{} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	title := titleStyle.Render(fmt.Sprintf("%s %s · %d", m.habit.Icon, m.habit.Name, m.year))
	if m.err != nil {
		return title + "\n\n  Error: " + m.err.Error()
	}
	if m.data.Year != m.year {
		return title + "\n\n  Loading..."
	}
	return title + "\n\n" + Render(m.data, m.habit.Color) + "\n" + strings.Repeat(" ", labelWidth) + Legend(m.habit.Color)
}
