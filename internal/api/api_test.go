package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/storage/sqlite"
)

// 2024-05-15 is a Wednesday.
var fixedNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func setupTestServer(t *testing.T) (http.Handler, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitgrid.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.SaveSettings(models.Settings{AutoSortCompleted: true, RetentionDays: 30, Timezone: "UTC"}))

	srv := NewServer(store, Options{
		CORSOrigins: []string{"http://localhost:3000"},
		Now:         func() time.Time { return fixedNow },
	})
	return srv.Routes(), store
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func createHabit(t *testing.T, h http.Handler, name string, freq models.FrequencySpec) habitResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/habits", createHabitRequest{Name: name, Frequency: freq})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[habitResponse](t, rec)
}

func TestHealth(t *testing.T) {
	h, _ := setupTestServer(t)
	rec := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody[map[string]string](t, rec)["status"])
}

func TestCreateAndListHabits(t *testing.T) {
	h, _ := setupTestServer(t)

	created := createHabit(t, h, "Read", models.FrequencySpec{Type: "daily"})
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "#007AFF", created.Color)
	assert.Zero(t, created.CurrentStreak)

	createHabit(t, h, "Gym", models.FrequencySpec{Type: "specific_days", Days: []int{1, 3, 5}})

	rec := do(t, h, http.MethodGet, "/habits", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	habits := decodeBody[[]habitResponse](t, rec)
	require.Len(t, habits, 2)
	assert.Equal(t, "Read", habits[0].Name)
	assert.Equal(t, []int{1, 3, 5}, habits[1].Frequency.Days)
}

func TestCreateHabit_Errors(t *testing.T) {
	h, _ := setupTestServer(t)
	createHabit(t, h, "Read", models.FrequencySpec{Type: "daily"})

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"duplicate name", createHabitRequest{Name: "Read", Frequency: models.FrequencySpec{Type: "daily"}}, http.StatusConflict},
		{"blank name", createHabitRequest{Name: " ", Frequency: models.FrequencySpec{Type: "daily"}}, http.StatusBadRequest},
		{"unknown frequency", createHabitRequest{Name: "X", Frequency: models.FrequencySpec{Type: "monthly"}}, http.StatusBadRequest},
		{"bad target", createHabitRequest{Name: "X", Frequency: models.FrequencySpec{Type: "times_per_week", TimesPerWeek: 8}}, http.StatusBadRequest},
		{"bad color", createHabitRequest{Name: "X", Frequency: models.FrequencySpec{Type: "daily"}, Color: "blue"}, http.StatusBadRequest},
		{"unknown field", map[string]any{"name": "X", "bogus": true}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/habits", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decodeBody[map[string]string](t, rec)["error"])
		})
	}
}

func TestGetHabit_NotFound(t *testing.T) {
	h, _ := setupTestServer(t)
	rec := do(t, h, http.MethodGet, "/habits/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateHabit(t *testing.T) {
	h, _ := setupTestServer(t)
	created := createHabit(t, h, "Read", models.FrequencySpec{Type: "daily"})

	name := "Read 20 pages"
	rec := do(t, h, http.MethodPatch, "/habits/"+created.ID, updateHabitRequest{
		Name:      &name,
		Frequency: &models.FrequencySpec{Type: "times_per_week", TimesPerWeek: 4},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody[habitResponse](t, rec)
	assert.Equal(t, name, got.Name)
	assert.Equal(t, 4, got.Frequency.TimesPerWeek)
	assert.Equal(t, created.Color, got.Color)
}

func TestToggle(t *testing.T) {
	h, _ := setupTestServer(t)
	created := createHabit(t, h, "Read", models.FrequencySpec{Type: "daily"})

	rec := do(t, h, http.MethodPost, "/habits/"+created.ID+"/toggle", toggleRequest{Date: "2024-05-14"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/habits/"+created.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[toggleResponse](t, rec)
	assert.Equal(t, "2024-05-15", resp.Date)
	assert.True(t, resp.Completed)
	assert.Equal(t, 2, resp.Habit.CurrentStreak)
	assert.True(t, resp.Habit.CompletedToday)

	rec = do(t, h, http.MethodGet, "/habits/"+created.ID+"/completions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"2024-05-14", "2024-05-15"}, decodeBody[[]string](t, rec))

	rec = do(t, h, http.MethodGet, "/habits/"+created.ID+"/completions?from=2024-05-15", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"2024-05-15"}, decodeBody[[]string](t, rec))

	rec = do(t, h, http.MethodPost, "/habits/"+created.ID+"/toggle", toggleRequest{Date: "2024-02-30"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArchiveRestoreDelete(t *testing.T) {
	h, _ := setupTestServer(t)
	created := createHabit(t, h, "Read", models.FrequencySpec{Type: "daily"})
	path := "/habits/" + created.ID

	rec := do(t, h, http.MethodPost, path+"/archive", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodPost, path+"/archive", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, path+"/toggle", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "archived habits cannot be toggled")

	rec = do(t, h, http.MethodGet, "/archived", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	archived := decodeBody[[]archivedResponse](t, rec)
	require.Len(t, archived, 1)
	assert.Equal(t, 30, archived[0].DaysRemaining)

	rec = do(t, h, http.MethodPost, path+"/restore", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, path+"/restore", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReorder(t *testing.T) {
	h, _ := setupTestServer(t)
	a := createHabit(t, h, "A", models.FrequencySpec{Type: "daily"})
	b := createHabit(t, h, "B", models.FrequencySpec{Type: "daily"})

	rec := do(t, h, http.MethodPut, "/habits/order", reorderRequest{IDs: []string{b.ID, a.ID}})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	habits := decodeBody[[]habitResponse](t, do(t, h, http.MethodGet, "/habits", nil))
	require.Len(t, habits, 2)
	assert.Equal(t, "B", habits[0].Name)

	rec = do(t, h, http.MethodPut, "/habits/order", reorderRequest{IDs: []string{a.ID, "missing"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	habits = decodeBody[[]habitResponse](t, do(t, h, http.MethodGet, "/habits", nil))
	assert.Equal(t, "B", habits[0].Name, "failed reorder must roll back")
}

func TestHeatmap(t *testing.T) {
	h, store := setupTestServer(t)
	created := createHabit(t, h, "Read", models.FrequencySpec{Type: "daily"})
	require.NoError(t, store.AddCompletion(created.ID, "2024-01-01"))

	rec := do(t, h, http.MethodGet, "/habits/"+created.ID+"/heatmap", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[heatmapResponse](t, rec)
	assert.Equal(t, 2024, resp.Year)
	assert.Len(t, resp.Weeks, 53)
	assert.Equal(t, "empty", resp.Weeks[0][0].State)
	assert.Equal(t, "completed", resp.Weeks[0][1].State)
	assert.Equal(t, "2024-01-01", resp.Weeks[0][1].Date)
	assert.Equal(t, 1, resp.Counts["completed"])
	assert.Equal(t, 365, resp.Counts["scheduled"])
	assert.Len(t, resp.Months, 12)

	rec = do(t, h, http.MethodGet, "/habits/"+created.ID+"/heatmap?year=2023", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2023, decodeBody[heatmapResponse](t, rec).Year)

	rec = do(t, h, http.MethodGet, "/habits/"+created.ID+"/heatmap?year=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORS(t *testing.T) {
	h, _ := setupTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/habits", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
