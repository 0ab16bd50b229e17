package tracker

import (
	"time"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/utils"
)

// CurrentStreak counts the consecutive adherence units ending at or just
// before today. The unit is a day for Daily, a scheduled day for
// SpecificDays and a week for TimesPerWeek. An open today (or an unfinished
// current week) is skipped rather than breaking the streak.
//
// today must be the same local calendar day the completion keys were
// produced in.
func CurrentStreak(completions CompletionSet, freq models.Frequency, today time.Time) int {
	if len(completions) == 0 {
		return 0
	}
	today = utils.DateOnly(today)

	switch f := freq.(type) {
	case models.Daily:
		return dailyStreak(completions, today)
	case models.SpecificDays:
		return specificDaysStreak(completions, f, today)
	case models.TimesPerWeek:
		return weeklyStreak(completions, f, today)
	default:
		return 0
	}
}

// dailyStreak never needs more than len(completions) steps back from
// yesterday: a longer run would need more completions than exist.
func dailyStreak(completions CompletionSet, today time.Time) int {
	streak := 0
	if completions.Has(today) {
		streak++
	}
	for offset := 1; offset <= len(completions); offset++ {
		if !completions.Has(utils.AddDays(today, -offset)) {
			break
		}
		streak++
	}
	return streak
}

func specificDaysStreak(completions CompletionSet, f models.SpecificDays, today time.Time) int {
	streak := 0
	for offset := 0; offset <= constants.MaxLookbackDays; offset++ {
		day := utils.AddDays(today, -offset)
		if !f.Includes(day.Weekday()) {
			continue
		}
		if completions.Has(day) {
			streak++
			continue
		}
		if offset == 0 {
			continue
		}
		break
	}
	return streak
}

func weeklyStreak(completions CompletionSet, f models.TimesPerWeek, today time.Time) int {
	if f.Target < 1 {
		return 0
	}

	streak := 0
	current := utils.WeekStart(today)
	for week := 0; ; week++ {
		start := utils.AddDays(current, -7*week)
		if utils.DaysBetween(start, today) > constants.MaxLookbackDays {
			break
		}
		if completions.countInWeek(start) >= f.Target {
			streak++
			continue
		}
		if week == 0 {
			continue
		}
		break
	}
	return streak
}

// LongestStreak returns the longest run over the whole history up to today,
// using the same units as CurrentStreak. Days after today are ignored, except
// that the current week counts every completion in it, as CurrentStreak does.
// The result is never smaller than CurrentStreak.
func LongestStreak(completions CompletionSet, freq models.Frequency, today time.Time) int {
	today = utils.DateOnly(today)
	dates := completions.Dates(today)

	if f, ok := freq.(models.TimesPerWeek); ok {
		return longestWeeklyRun(completions, f, dates, today)
	}
	if len(dates) == 0 {
		return 0
	}
	first := dates[0]

	switch f := freq.(type) {
	case models.Daily:
		return longestDailyRun(dates)
	case models.SpecificDays:
		best, run := 0, 0
		for day := first; !day.After(today); day = utils.AddDays(day, 1) {
			if !f.Includes(day.Weekday()) {
				continue
			}
			switch {
			case completions.Has(day):
				run++
				best = max(best, run)
			case !day.Equal(today):
				run = 0
			}
		}
		return best
	default:
		return 0
	}
}

// longestWeeklyRun walks Sunday-aligned weeks from the first completion on or
// before today (or from the current week) through the current week.
func longestWeeklyRun(completions CompletionSet, f models.TimesPerWeek, dates []time.Time, today time.Time) int {
	if f.Target < 1 {
		return 0
	}
	current := utils.WeekStart(today)
	from := current
	if len(dates) > 0 {
		from = utils.WeekStart(dates[0])
	}

	best, run := 0, 0
	for start := from; !start.After(current); start = utils.AddDays(start, 7) {
		switch {
		case completions.countInWeek(start) >= f.Target:
			run++
			best = max(best, run)
		case !start.Equal(current):
			run = 0
		}
	}
	return best
}

func longestDailyRun(dates []time.Time) int {
	best, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if utils.DaysBetween(dates[i-1], dates[i]) == 1 {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
	}
	return best
}
