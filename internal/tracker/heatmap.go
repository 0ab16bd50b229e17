package tracker

import (
	"time"

	"github.com/julianstephens/habitgrid/internal/models"
)

// Cell is a classified heatmap slot.
type Cell struct {
	Slot
	State CellState
}

// MonthLabel marks the week column where a month begins.
type MonthLabel struct {
	Week  int
	Month time.Month
}

// HeatmapData is a year of classified cells, one row per week.
type HeatmapData struct {
	Year   int
	Weeks  [][]Cell
	Months []MonthLabel
}

// Heatmap classifies every slot of the year. A month label is placed on the
// first week whose first present day falls in a month not yet labelled.
func Heatmap(year int, completions CompletionSet, freq models.Frequency) HeatmapData {
	weeks := WeeksOfYear(year)
	data := HeatmapData{Year: year, Weeks: make([][]Cell, len(weeks))}

	lastMonth := time.Month(0)
	for i, week := range weeks {
		row := make([]Cell, len(week))
		for j, slot := range week {
			row[j] = Cell{Slot: slot, State: Classify(slot, completions, freq)}
		}
		data.Weeks[i] = row

		if first, ok := week.First(); ok && first.Date.Month() != lastMonth {
			data.Months = append(data.Months, MonthLabel{Week: i, Month: first.Date.Month()})
			lastMonth = first.Date.Month()
		}
	}
	return data
}

// Counts tallies cells by state.
func (h HeatmapData) Counts() map[CellState]int {
	counts := make(map[CellState]int, 4)
	for _, row := range h.Weeks {
		for _, c := range row {
			counts[c.State]++
		}
	}
	return counts
}
