package storage

import (
	"time"

	"github.com/julianstephens/habitgrid/internal/models"
)

// Provider is the persistence collaborator behind every surface. Both backends
// guarantee read-your-writes and at most one completion per (habit, day).
//
// Lookups that miss return an error wrapping errors.ErrHabitNotFound.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	// AddHabit places the habit after every active habit. Names must be unique.
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	// GetHabitByName finds a habit by exact name, active or archived.
	GetHabitByName(name string) (models.Habit, error)
	ListActiveHabits() ([]models.Habit, error)
	ListArchivedHabits() ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string, at time.Time) error
	// RestoreHabit clears the archive mark and appends the habit to the end.
	RestoreHabit(id string) error
	// PermanentlyDeleteHabit removes the habit and all of its completions.
	PermanentlyDeleteHabit(id string) error
	// ReorderHabits sets sort_order to each id's index, atomically.
	ReorderHabits(ids []string) error
	// PurgeExpiredHabits permanently deletes archived habits whose retention
	// window has elapsed at now and returns how many were removed.
	PurgeExpiredHabits(retentionDays int, now time.Time) (int, error)

	// Completions
	ListCompletionDates(habitID string) ([]string, error)
	// ListCompletionDatesInRange returns date keys in [start, end], inclusive.
	ListCompletionDatesInRange(habitID, start, end string) ([]string, error)
	// ToggleCompletion flips the completion for day and reports whether the
	// habit is now completed on that day.
	ToggleCompletion(habitID, day string) (bool, error)
	// AddCompletion marks day completed. Repeating it is a no-op.
	AddCompletion(habitID, day string) error
	GetAllCompletions() ([]models.Completion, error)

	// Utils
	GetConfigPath() string
}
