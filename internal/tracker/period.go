package tracker

import (
	"time"

	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/utils"
)

// Slot is one position in a week row. Valid is false for the padding that
// aligns the first row to its weekday.
type Slot struct {
	Date  time.Time
	Valid bool
}

// Week is a Sunday-first row of slots. Every row has 7 slots except the
// last row of a year, which stops at December 31.
type Week []Slot

// WeeksOfYear partitions a year into week rows. The first row is left-padded
// with absent slots; the final row is not right-padded.
func WeeksOfYear(year int) []Week {
	dates := utils.YearDates(year)

	var weeks []Week
	week := make(Week, 0, 7)
	for i := 0; i < int(dates[0].Weekday()); i++ {
		week = append(week, Slot{})
	}
	for _, d := range dates {
		week = append(week, Slot{Date: d, Valid: true})
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = make(Week, 0, 7)
		}
	}
	if len(week) > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// First returns the first present slot in the row.
func (w Week) First() (Slot, bool) {
	for _, s := range w {
		if s.Valid {
			return s, true
		}
	}
	return Slot{}, false
}

// CellState classifies a heatmap slot.
type CellState int

const (
	CellEmpty CellState = iota
	CellUnscheduled
	CellScheduled
	CellCompleted
)

func (c CellState) String() string {
	switch c {
	case CellUnscheduled:
		return "unscheduled"
	case CellScheduled:
		return "scheduled"
	case CellCompleted:
		return "completed"
	default:
		return "empty"
	}
}

// Classify maps a slot to its heatmap state. A completion wins over the
// schedule, so a completed unscheduled day still shows as completed.
func Classify(slot Slot, completions CompletionSet, freq models.Frequency) CellState {
	switch {
	case !slot.Valid:
		return CellEmpty
	case completions.Has(slot.Date):
		return CellCompleted
	case utils.IsScheduled(slot.Date, freq):
		return CellScheduled
	default:
		return CellUnscheduled
	}
}
