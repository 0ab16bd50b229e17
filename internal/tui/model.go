package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/dashboard"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/tui/components/archived"
	"github.com/julianstephens/habitgrid/internal/tui/components/habits"
	"github.com/julianstephens/habitgrid/internal/tui/components/heatmap"
	"github.com/julianstephens/habitgrid/internal/validation"
	"github.com/julianstephens/habitgrid/internal/watch"
)

// Options configures the TUI. Now defaults to time.Now; Changes, when set,
// triggers a reload whenever the database is written by another process.
type Options struct {
	Now     func() time.Time
	Changes <-chan watch.Change
}

// dbChangedMsg is delivered when the watcher reports a write.
type dbChangedMsg struct{}

type Model struct {
	store         storage.Provider
	dash          *dashboard.Dashboard
	now           func() time.Time
	changes       <-chan watch.Change
	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	habitsModel   habits.Model
	archivedModel archived.Model
	heatmapModel  heatmap.Model
	form          *huh.Form
	habitForm     *HabitFormModel
	pendingDelete *archived.DeleteHabitMsg
	status        string
	warning       string
	quitting      bool
	width         int
	height        int
}

func NewModel(store storage.Provider, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := Model{
		store:         store,
		dash:          dashboard.New(store),
		now:           opts.Now,
		changes:       opts.Changes,
		state:         constants.StateHabits,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		habitsModel:   habits.New(nil, 0, 0),
		archivedModel: archived.New(nil, opts.Now(), 0, 0),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// waitForChange blocks on the watcher channel. It returns nil when there is
// no watcher so the program never waits on a nil channel.
func waitForChange(ch <-chan watch.Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return dbChangedMsg{}
	}
}

// refresh reloads both lists from the store and re-runs data validation.
func (m *Model) refresh() {
	now := m.now()

	active, err := m.dash.ActiveHabits(now)
	if err != nil {
		logger.Error("Failed to load habits", "error", err)
		m.status = fmt.Sprintf("Error loading habits: %v", err)
		return
	}
	m.habitsModel.SetHabits(active)

	arch, err := m.dash.ArchivedHabits(now)
	if err != nil {
		logger.Error("Failed to load archived habits", "error", err)
		m.status = fmt.Sprintf("Error loading archived habits: %v", err)
		return
	}
	m.archivedModel.SetHabits(arch, now)

	m.updateValidationStatus(now)
}

func (m *Model) updateValidationStatus(now time.Time) {
	today, _, err := m.dash.Today(now)
	if err != nil {
		m.warning = "⚠ Validation unavailable"
		return
	}
	all, err := m.store.ListActiveHabits()
	if err != nil {
		m.warning = "⚠ Validation unavailable"
		return
	}
	archivedHabits, err := m.store.ListArchivedHabits()
	if err != nil {
		m.warning = "⚠ Validation unavailable"
		return
	}
	completions, err := m.store.GetAllCompletions()
	if err != nil {
		m.warning = "⚠ Validation unavailable"
		return
	}

	result := validation.New().ValidateData(append(all, archivedHabits...), completions, today)
	if result.HasConflicts() {
		m.warning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
	} else {
		m.warning = ""
	}
}

// habitExists reports whether an active or archived habit already uses name.
func (m Model) habitExists(name string) bool {
	_, err := m.store.GetHabitByName(name)
	return err == nil
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateHabits:
		hk := m.habitsModel.Keys()
		keys = append(keys, hk.Toggle, hk.Add, hk.Archive, hk.Heatmap)
	case constants.StateArchived:
		ak := m.archivedModel.Keys()
		keys = append(keys, ak.Restore, ak.Delete)
	case constants.StateHeatmap:
		hk := m.heatmapModel.Keys()
		keys = []key.Binding{hk.PrevYear, hk.NextYear, hk.Close}
	case constants.StateConfirmDelete:
		keys = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}

	var actions []key.Binding
	switch m.state {
	case constants.StateHabits:
		hk := m.habitsModel.Keys()
		actions = []key.Binding{hk.Toggle, hk.Add, hk.Archive, hk.MoveUp, hk.MoveDown, hk.Heatmap}
	case constants.StateArchived:
		ak := m.archivedModel.Keys()
		actions = []key.Binding{ak.Restore, ak.Delete}
	case constants.StateHeatmap:
		hk := m.heatmapModel.Keys()
		return [][]key.Binding{{hk.PrevYear, hk.NextYear, hk.Close}}
	case constants.StateConfirmDelete:
		return [][]key.Binding{{m.keys.Confirm, m.keys.Cancel}}
	}

	return [][]key.Binding{global, actions}
}
