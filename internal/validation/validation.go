package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
	ConflictInvalidHabit       ConflictType = "invalid_habit"
	ConflictInvalidDateKey     ConflictType = "invalid_date_key"
	ConflictFutureCompletion   ConflictType = "future_completion"
	ConflictOrphanCompletion   ConflictType = "orphan_completion"
)

// Conflict is one problem found in stored data.
type Conflict struct {
	Type        ConflictType
	Description string
	HabitIDs    []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator audits stored habits and completions.
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateData checks habits and completions for problems the store's
// constraints do not catch. Completions dated after today are reported
// because the engine ignores them.
func (v *Validator) ValidateData(habits []models.Habit, completions []models.Completion, today time.Time) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byName := make(map[string][]string)
	known := make(map[string]models.Habit, len(habits))
	for _, h := range habits {
		known[h.ID] = h
		key := strings.ToLower(strings.TrimSpace(h.Name))
		byName[key] = append(byName[key], h.ID)

		if err := ValidateHabit(h); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidHabit,
				Description: fmt.Sprintf("Habit %q: %v", h.Name, err),
				HabitIDs:    []string{h.ID},
			})
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if ids := byName[name]; len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("Duplicate habit name: %q (IDs: %v)", name, ids),
				HabitIDs:    ids,
			})
		}
	}

	todayKey := utils.FormatDateKey(today)
	for _, c := range completions {
		h, ok := known[c.HabitID]
		if !ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOrphanCompletion,
				Description: fmt.Sprintf("Completion %s references unknown habit %s", c.Day, c.HabitID),
				HabitIDs:    []string{c.HabitID},
			})
			continue
		}
		if err := ValidateDateKey(c.Day); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDateKey,
				Description: fmt.Sprintf("Habit %q: %v", h.Name, err),
				HabitIDs:    []string{h.ID},
			})
			continue
		}
		if c.Day > todayKey {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictFutureCompletion,
				Description: fmt.Sprintf("Habit %q has a completion in the future (%s)", h.Name, c.Day),
				HabitIDs:    []string{h.ID},
			})
		}
	}

	return result
}
