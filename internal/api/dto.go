package api

import (
	"time"

	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/tracker"
	"github.com/julianstephens/habitgrid/internal/utils"
)

type habitResponse struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	Frequency           models.FrequencySpec `json:"frequency"`
	Color               string               `json:"color"`
	Icon                string               `json:"icon"`
	SortOrder           int                  `json:"sort_order"`
	CreatedAt           time.Time            `json:"created_at"`
	ArchivedAt          *time.Time           `json:"archived_at,omitempty"`
	CurrentStreak       int                  `json:"current_streak"`
	LongestStreak       int                  `json:"longest_streak"`
	CompletedToday      bool                 `json:"completed_today"`
	CompletionsThisWeek int                  `json:"completions_this_week"`
	TotalCompletions    int                  `json:"total_completions"`
}

func newHabitResponse(h models.HabitWithStats) habitResponse {
	return habitResponse{
		ID:                  h.ID,
		Name:                h.Name,
		Frequency:           models.SpecOf(h.Frequency),
		Color:               h.Color,
		Icon:                h.Icon,
		SortOrder:           h.SortOrder,
		CreatedAt:           h.CreatedAt,
		ArchivedAt:          h.ArchivedAt,
		CurrentStreak:       h.CurrentStreak,
		LongestStreak:       h.LongestStreak,
		CompletedToday:      h.CompletedToday,
		CompletionsThisWeek: h.CompletionsThisWeek,
		TotalCompletions:    h.TotalCompletions,
	}
}

type archivedResponse struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Frequency     models.FrequencySpec `json:"frequency"`
	Color         string               `json:"color"`
	Icon          string               `json:"icon"`
	ArchivedAt    *time.Time           `json:"archived_at"`
	DaysRemaining int                  `json:"days_remaining"`
}

func newArchivedResponse(h models.ArchivedHabit) archivedResponse {
	return archivedResponse{
		ID:            h.ID,
		Name:          h.Name,
		Frequency:     models.SpecOf(h.Frequency),
		Color:         h.Color,
		Icon:          h.Icon,
		ArchivedAt:    h.ArchivedAt,
		DaysRemaining: h.DaysRemaining,
	}
}

type createHabitRequest struct {
	Name      string               `json:"name"`
	Frequency models.FrequencySpec `json:"frequency"`
	Color     string               `json:"color"`
	Icon      string               `json:"icon"`
}

// updateHabitRequest fields are optional; nil leaves the value unchanged.
type updateHabitRequest struct {
	Name      *string               `json:"name"`
	Frequency *models.FrequencySpec `json:"frequency"`
	Color     *string               `json:"color"`
	Icon      *string               `json:"icon"`
}

type toggleRequest struct {
	Date string `json:"date"`
}

type toggleResponse struct {
	Date      string        `json:"date"`
	Completed bool          `json:"completed"`
	Habit     habitResponse `json:"habit"`
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

type cellResponse struct {
	Date  string `json:"date,omitempty"`
	State string `json:"state"`
}

type monthLabelResponse struct {
	Week  int    `json:"week"`
	Month string `json:"month"`
}

type heatmapResponse struct {
	Year   int                  `json:"year"`
	Weeks  [][]cellResponse     `json:"weeks"`
	Months []monthLabelResponse `json:"months"`
	Counts map[string]int       `json:"counts"`
}

func newHeatmapResponse(h tracker.HeatmapData) heatmapResponse {
	resp := heatmapResponse{
		Year:   h.Year,
		Weeks:  make([][]cellResponse, len(h.Weeks)),
		Months: make([]monthLabelResponse, len(h.Months)),
		Counts: make(map[string]int),
	}
	for i, week := range h.Weeks {
		row := make([]cellResponse, len(week))
		for j, c := range week {
			row[j] = cellResponse{State: c.State.String()}
			if c.Valid {
				row[j].Date = utils.FormatDateKey(c.Date)
			}
		}
		resp.Weeks[i] = row
	}
	for i, m := range h.Months {
		resp.Months[i] = monthLabelResponse{Week: m.Week, Month: m.Month.String()[:3]}
	}
	for state, n := range h.Counts() {
		resp.Counts[state.String()] = n
	}
	return resp
}
