package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/utils"
	"github.com/julianstephens/habitgrid/internal/validation"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": constants.Version})
}

// GET /habits
func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	habits, err := s.dash.ActiveHabits(s.opts.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]habitResponse, 0, len(habits))
	for _, h := range habits {
		out = append(out, newHabitResponse(h))
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /archived
func (s *Server) listArchived(w http.ResponseWriter, r *http.Request) {
	habits, err := s.dash.ArchivedHabits(s.opts.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]archivedResponse, 0, len(habits))
	for _, h := range habits {
		out = append(out, newArchivedResponse(h))
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /habits
func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	var req createHabitRequest
	if err := decode(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Color == "" {
		req.Color = constants.DefaultHabitColor
	}

	freq, err := req.Frequency.Frequency()
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	now := s.opts.Now()
	h := models.NewHabit(strings.TrimSpace(req.Name), freq, req.Color, req.Icon, now)
	if err := validation.ValidateHabit(h); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.AddHabit(h); err != nil {
		writeError(w, r, err)
		return
	}

	stats, err := s.dash.Habit(h.ID, now)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newHabitResponse(stats))
}

// GET /habits/{id}
func (s *Server) getHabit(w http.ResponseWriter, r *http.Request) {
	stats, err := s.dash.Habit(chi.URLParam(r, "id"), s.opts.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newHabitResponse(stats))
}

// PATCH /habits/{id}
func (s *Server) updateHabit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateHabitRequest
	if err := decode(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h, err := s.store.GetHabit(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.Name != nil {
		h.Name = strings.TrimSpace(*req.Name)
	}
	if req.Frequency != nil {
		freq, err := req.Frequency.Frequency()
		if err != nil {
			writeErrorMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Frequency = freq
	}
	if req.Color != nil {
		h.Color = *req.Color
	}
	if req.Icon != nil {
		h.Icon = *req.Icon
	}
	if err := validation.ValidateHabit(h); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdateHabit(h); err != nil {
		writeError(w, r, err)
		return
	}
	stats, err := s.dash.Habit(id, s.opts.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newHabitResponse(stats))
}

// DELETE /habits/{id} removes the habit and its history permanently.
func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	if err := s.store.PermanentlyDeleteHabit(chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /habits/{id}/archive
func (s *Server) archiveHabit(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ArchiveHabit(chi.URLParam(r, "id"), s.opts.Now()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /habits/{id}/restore
func (s *Server) restoreHabit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.RestoreHabit(id); err != nil {
		writeError(w, r, err)
		return
	}
	stats, err := s.dash.Habit(id, s.opts.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newHabitResponse(stats))
}

// GET /habits/{id}/completions?from=&to=
func (s *Server) listCompletions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.GetHabit(id); err != nil {
		writeError(w, r, err)
		return
	}

	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	var (
		days []string
		err  error
	)
	if from == "" && to == "" {
		days, err = s.store.ListCompletionDates(id)
	} else {
		if from == "" {
			from = "0000-01-01"
		}
		if to == "" {
			to = "9999-12-31"
		}
		for _, k := range []string{from, to} {
			if verr := validation.ValidateDateKey(k); verr != nil {
				writeErrorMessage(w, http.StatusBadRequest, verr.Error())
				return
			}
		}
		days, err = s.store.ListCompletionDatesInRange(id, from, to)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// POST /habits/{id}/toggle with an optional {"date": "YYYY-MM-DD"}; today
// when omitted.
func (s *Server) toggleCompletion(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var day time.Time
	if req.Date != "" {
		if err := validation.ValidateDateKey(req.Date); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		day, _ = utils.ParseDateKey(req.Date)
	}

	stats, done, err := s.dash.Toggle(chi.URLParam(r, "id"), day, s.opts.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if day.IsZero() {
		day, _, _ = s.dash.Today(s.opts.Now())
	}
	writeJSON(w, http.StatusOK, toggleResponse{
		Date:      utils.FormatDateKey(day),
		Completed: done,
		Habit:     newHabitResponse(stats),
	})
}

// GET /habits/{id}/heatmap?year=
func (s *Server) heatmap(w http.ResponseWriter, r *http.Request) {
	today, _, err := s.dash.Today(s.opts.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	year := today.Year()
	if y := r.URL.Query().Get("year"); y != "" {
		year, err = strconv.Atoi(y)
		if err != nil || year < 1 || year > 9999 {
			writeErrorMessage(w, http.StatusBadRequest, "invalid year")
			return
		}
	}

	data, err := s.dash.Heatmap(chi.URLParam(r, "id"), year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newHeatmapResponse(data))
}

// PUT /habits/order with {"ids": [...]}
func (s *Server) reorderHabits(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decode(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.store.ReorderHabits(req.IDs); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
