package utils

import (
	"time"

	"github.com/julianstephens/habitgrid/internal/models"
)

// IsScheduled determines if a habit with the given frequency is expected on
// date. TimesPerWeek habits are scheduled every day: their rule is evaluated
// per week, so any day may count toward the target. A SpecificDays rule with
// no days, or a nil frequency, is never scheduled.
func IsScheduled(date time.Time, freq models.Frequency) bool {
	switch f := freq.(type) {
	case models.Daily:
		return true
	case models.SpecificDays:
		return f.Includes(date.Weekday())
	case models.TimesPerWeek:
		return true
	default:
		return false
	}
}
