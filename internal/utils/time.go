package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/models"
)

// All calendar arithmetic works on "civil dates": midnight UTC values that
// carry only a year, month and day. Date keys parse straight into this form,
// so day differences are exact and unaffected by DST.

// GetTodayInTimezone returns today's date key (YYYY-MM-DD) in the specified timezone.
// This ensures that "today" is determined by the user's configured timezone, not the system timezone.
func GetTodayInTimezone(timezone string, now time.Time) (string, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return now.In(loc).Format(constants.DateFormat), nil
}

// GetTodayFromSettings returns today's civil date using the timezone from settings.
func GetTodayFromSettings(settings models.Settings, now time.Time) (time.Time, error) {
	key, err := GetTodayInTimezone(settings.Timezone, now)
	if err != nil {
		return time.Time{}, err
	}
	return ParseDateKey(key)
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// ParseDateKey parses a YYYY-MM-DD key into a civil date.
func ParseDateKey(key string) (time.Time, error) {
	return time.Parse(constants.DateFormat, key)
}

// FormatDateKey renders the calendar day of t as a YYYY-MM-DD key.
func FormatDateKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// DateOnly keeps the calendar day of t and drops the clock and location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AddDays moves a civil date by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return DateOnly(t).AddDate(0, 0, n)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// WeekStart returns the Sunday that starts the week containing t.
func WeekStart(t time.Time) time.Time {
	return AddDays(t, -int(t.Weekday()))
}

// WeekEnd returns the Saturday that ends the week containing t.
func WeekEnd(t time.Time) time.Time {
	return AddDays(WeekStart(t), 6)
}

// YearDates returns every calendar day of the given year, in order.
func YearDates(year int) []time.Time {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	dates := make([]time.Time, 0, DaysBetween(start, end)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
