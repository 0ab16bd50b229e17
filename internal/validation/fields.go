package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/utils"
)

const MaxHabitNameLength = 100

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateHabitName rejects blank and overlong names.
func ValidateHabitName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("habit name cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxHabitNameLength {
		return fmt.Errorf("habit name must be at most %d characters", MaxHabitNameLength)
	}
	return nil
}

// ValidateFrequency checks a rule's parameters. SpecificDays needs at least
// one distinct weekday in 0..6; TimesPerWeek needs a target in 1..7.
func ValidateFrequency(f models.Frequency) error {
	switch f := f.(type) {
	case models.Daily:
		return nil
	case models.SpecificDays:
		if len(f.Days) == 0 {
			return fmt.Errorf("specific_days requires at least one weekday")
		}
		seen := make(map[time.Weekday]bool, len(f.Days))
		for _, d := range f.Days {
			if d < time.Sunday || d > time.Saturday {
				return fmt.Errorf("invalid weekday %d (expected 0=Sunday..6=Saturday)", int(d))
			}
			if seen[d] {
				return fmt.Errorf("weekday %s listed more than once", d)
			}
			seen[d] = true
		}
		return nil
	case models.TimesPerWeek:
		if f.Target < constants.MinTimesPerWeek || f.Target > constants.MaxTimesPerWeek {
			return fmt.Errorf("times_per_week must be between %d and %d, got %d",
				constants.MinTimesPerWeek, constants.MaxTimesPerWeek, f.Target)
		}
		return nil
	case nil:
		return fmt.Errorf("frequency is required")
	default:
		return fmt.Errorf("unsupported frequency %T", f)
	}
}

// ValidateColor accepts #RRGGBB hex colors.
func ValidateColor(color string) error {
	if !colorPattern.MatchString(color) {
		return fmt.Errorf("invalid color %q (expected #RRGGBB)", color)
	}
	return nil
}

// ValidateDateKey requires a canonical YYYY-MM-DD key for a real calendar day.
func ValidateDateKey(key string) error {
	d, err := utils.ParseDateKey(key)
	if err != nil || utils.FormatDateKey(d) != key {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", key)
	}
	return nil
}

// ValidateRetentionDays requires a window of at least one day.
func ValidateRetentionDays(days int) error {
	if days < 1 {
		return fmt.Errorf("retention_days must be at least 1, got %d", days)
	}
	return nil
}

// ValidateTimezone accepts "Local", "" or an IANA zone name.
func ValidateTimezone(tz string) error {
	if !utils.ValidateTimezone(tz) {
		return fmt.Errorf("invalid timezone %q", tz)
	}
	return nil
}

// ValidateHabit runs every field check on a habit.
func ValidateHabit(h models.Habit) error {
	if err := ValidateHabitName(h.Name); err != nil {
		return err
	}
	if err := ValidateFrequency(h.Frequency); err != nil {
		return err
	}
	return ValidateColor(h.Color)
}

// ValidateSettings checks user settings before they are saved.
func ValidateSettings(s models.Settings) error {
	if err := ValidateRetentionDays(s.RetentionDays); err != nil {
		return err
	}
	return ValidateTimezone(s.Timezone)
}
