package tracker

import (
	"math"
	"sort"
	"time"

	"github.com/julianstephens/habitgrid/internal/models"
)

// Summarize computes the adherence figures shown next to a habit.
func Summarize(habit models.Habit, keys []string, today time.Time) models.HabitWithStats {
	completions := NewCompletionSet(keys)
	return models.HabitWithStats{
		Habit:               habit,
		CurrentStreak:       CurrentStreak(completions, habit.Frequency, today),
		LongestStreak:       LongestStreak(completions, habit.Frequency, today),
		CompletedToday:      completions.Has(today),
		CompletionsThisWeek: CompletionsThisWeek(completions, today),
		TotalCompletions:    len(completions),
	}
}

// SortForDisplay orders habits by SortOrder. With autoSortCompleted set,
// habits already completed today move below the open ones; relative order
// within each group is kept.
func SortForDisplay(habits []models.HabitWithStats, autoSortCompleted bool) {
	sort.SliceStable(habits, func(i, j int) bool {
		if autoSortCompleted && habits[i].CompletedToday != habits[j].CompletedToday {
			return !habits[i].CompletedToday
		}
		return habits[i].SortOrder < habits[j].SortOrder
	})
}

// DaysRemaining is how many whole days an archived habit has left before the
// retention window purges it. Never negative.
func DaysRemaining(archivedAt, now time.Time, retentionDays int) int {
	elapsed := int(math.Floor(now.Sub(archivedAt).Hours() / 24))
	return max(0, retentionDays-elapsed)
}

// IsExpired reports whether now - archivedAt exceeds the retention window.
func IsExpired(archivedAt, now time.Time, retentionDays int) bool {
	return now.Sub(archivedAt) > time.Duration(retentionDays)*24*time.Hour
}

// Archived wraps an archived habit with its remaining retention days.
func Archived(habit models.Habit, now time.Time, retentionDays int) models.ArchivedHabit {
	out := models.ArchivedHabit{Habit: habit}
	if habit.ArchivedAt != nil {
		out.DaysRemaining = DaysRemaining(*habit.ArchivedAt, now, retentionDays)
	}
	return out
}
