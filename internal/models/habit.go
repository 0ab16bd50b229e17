package models

import (
	"time"

	"github.com/google/uuid"
)

// Habit represents a recurring practice to track
type Habit struct {
	ID         string
	Name       string
	Frequency  Frequency
	Color      string
	Icon       string
	SortOrder  int
	CreatedAt  time.Time
	ArchivedAt *time.Time
}

// NewHabit returns an active habit with a fresh ID. The store assigns its
// position when it is added.
func NewHabit(name string, freq Frequency, color, icon string, now time.Time) Habit {
	return Habit{
		ID:        uuid.New().String(),
		Name:      name,
		Frequency: freq,
		Color:     color,
		Icon:      icon,
		CreatedAt: now.UTC().Truncate(time.Second),
	}
}

// IsArchived reports whether the habit has been archived.
func (h Habit) IsArchived() bool {
	return h.ArchivedAt != nil
}

// Completion records that a habit was done on a calendar day.
type Completion struct {
	ID      string `json:"id"`
	HabitID string `json:"habit_id"`
	Day     string `json:"day"` // YYYY-MM-DD format
}

// HabitWithStats is a habit together with its computed adherence figures.
type HabitWithStats struct {
	Habit
	CurrentStreak       int
	LongestStreak       int
	CompletedToday      bool
	CompletionsThisWeek int
	TotalCompletions    int
}

// ArchivedHabit is an archived habit with the days left before it is purged.
type ArchivedHabit struct {
	Habit
	DaysRemaining int
}
