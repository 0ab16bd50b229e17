package dashboard

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/tracker"
	"github.com/julianstephens/habitgrid/internal/utils"
)

// Dashboard reads a fresh snapshot from the store and runs the tracker
// engine over it. Every surface (CLI, TUI, HTTP) goes through it.
type Dashboard struct {
	store storage.Provider
}

// New creates a new Dashboard
func New(store storage.Provider) *Dashboard {
	return &Dashboard{store: store}
}

// Today resolves the current calendar day in the user's configured timezone.
func (d *Dashboard) Today(now time.Time) (time.Time, models.Settings, error) {
	settings, err := d.store.GetSettings()
	if err != nil {
		return time.Time{}, models.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	today, err := utils.GetTodayFromSettings(settings, now)
	if err != nil {
		return time.Time{}, settings, fmt.Errorf("failed to resolve today: %w", err)
	}
	return today, settings, nil
}

func (d *Dashboard) summarize(h models.Habit, today time.Time) (models.HabitWithStats, error) {
	keys, err := d.store.ListCompletionDates(h.ID)
	if err != nil {
		return models.HabitWithStats{}, fmt.Errorf("failed to list completions for %q: %w", h.Name, err)
	}
	return tracker.Summarize(h, keys, today), nil
}

// ActiveHabits returns active habits with their stats in display order.
func (d *Dashboard) ActiveHabits(now time.Time) ([]models.HabitWithStats, error) {
	today, settings, err := d.Today(now)
	if err != nil {
		return nil, err
	}

	habits, err := d.store.ListActiveHabits()
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	out := make([]models.HabitWithStats, 0, len(habits))
	for _, h := range habits {
		s, err := d.summarize(h, today)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	tracker.SortForDisplay(out, settings.AutoSortCompleted)
	return out, nil
}

// Habit returns one habit's stats, archived or not.
func (d *Dashboard) Habit(id string, now time.Time) (models.HabitWithStats, error) {
	today, _, err := d.Today(now)
	if err != nil {
		return models.HabitWithStats{}, err
	}
	h, err := d.store.GetHabit(id)
	if err != nil {
		return models.HabitWithStats{}, err
	}
	return d.summarize(h, today)
}

// ArchivedHabits lists archived habits with the days left before purge.
func (d *Dashboard) ArchivedHabits(now time.Time) ([]models.ArchivedHabit, error) {
	settings, err := d.store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	habits, err := d.store.ListArchivedHabits()
	if err != nil {
		return nil, fmt.Errorf("failed to list archived habits: %w", err)
	}

	out := make([]models.ArchivedHabit, 0, len(habits))
	for _, h := range habits {
		out = append(out, tracker.Archived(h, now, settings.RetentionDays))
	}
	return out, nil
}

// Heatmap builds the year grid for a habit.
func (d *Dashboard) Heatmap(id string, year int) (tracker.HeatmapData, error) {
	h, err := d.store.GetHabit(id)
	if err != nil {
		return tracker.HeatmapData{}, err
	}
	start := fmt.Sprintf("%04d-01-01", year)
	end := fmt.Sprintf("%04d-12-31", year)
	keys, err := d.store.ListCompletionDatesInRange(h.ID, start, end)
	if err != nil {
		return tracker.HeatmapData{}, fmt.Errorf("failed to list completions: %w", err)
	}
	return tracker.Heatmap(year, tracker.NewCompletionSet(keys), h.Frequency), nil
}

// Toggle flips the completion for day, or for today when day is zero, and
// returns the refreshed stats.
func (d *Dashboard) Toggle(id string, day, now time.Time) (models.HabitWithStats, bool, error) {
	today, _, err := d.Today(now)
	if err != nil {
		return models.HabitWithStats{}, false, err
	}
	if day.IsZero() {
		day = today
	}

	done, err := d.store.ToggleCompletion(id, utils.FormatDateKey(day))
	if err != nil {
		return models.HabitWithStats{}, false, err
	}
	logger.Debug("Toggled completion", "habit", id, "day", utils.FormatDateKey(day), "completed", done)

	h, err := d.store.GetHabit(id)
	if err != nil {
		return models.HabitWithStats{}, done, err
	}
	s, err := d.summarize(h, today)
	return s, done, err
}

// Move shifts an active habit by delta positions in display order and
// persists the displayed order. Moving past either end, or across the
// boundary between open and completed habits when auto-sort groups them, is
// a no-op.
func (d *Dashboard) Move(id string, delta int, now time.Time) error {
	habits, err := d.ActiveHabits(now)
	if err != nil {
		return err
	}
	_, settings, err := d.Today(now)
	if err != nil {
		return err
	}

	idx := -1
	ids := make([]string, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
		if h.ID == id {
			idx = i
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", errors.ErrHabitNotFound, id)
	}

	target := idx + delta
	if target < 0 || target >= len(ids) || target == idx {
		return nil
	}
	if settings.AutoSortCompleted && habits[idx].CompletedToday != habits[target].CompletedToday {
		return nil
	}
	ids[idx], ids[target] = ids[target], ids[idx]
	return d.store.ReorderHabits(ids)
}

// Sweep purges archived habits whose retention window has passed.
func (d *Dashboard) Sweep(now time.Time) (int, error) {
	settings, err := d.store.GetSettings()
	if err != nil {
		return 0, fmt.Errorf("failed to read settings: %w", err)
	}
	n, err := d.store.PurgeExpiredHabits(settings.RetentionDays, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired habits: %w", err)
	}
	if n > 0 {
		logger.Info("Purged expired archived habits", "count", n, "retention_days", settings.RetentionDays)
	}
	return n, nil
}
