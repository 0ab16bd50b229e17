package dashboard

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/storage/sqlite"
	"github.com/julianstephens/habitgrid/internal/tracker"
)

// 2024-05-15 is a Wednesday.
var now = time.Date(2024, 5, 15, 18, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Dashboard, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitgrid.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.SaveSettings(models.Settings{AutoSortCompleted: true, RetentionDays: 30, Timezone: "UTC"}))
	return New(store), store
}

func addHabit(t *testing.T, store *sqlite.Store, name string, freq models.Frequency, days ...string) models.Habit {
	t.Helper()
	h := models.NewHabit(name, freq, "#007AFF", "", now)
	require.NoError(t, store.AddHabit(h))
	for _, d := range days {
		require.NoError(t, store.AddCompletion(h.ID, d))
	}
	return h
}

func TestActiveHabits_AutoSort(t *testing.T) {
	d, store := setup(t)
	read := addHabit(t, store, "Read", models.Daily{}, "2024-05-13", "2024-05-14", "2024-05-15")
	run := addHabit(t, store, "Run", models.TimesPerWeek{Target: 3}, "2024-05-12")

	habits, err := d.ActiveHabits(now)
	require.NoError(t, err)
	require.Len(t, habits, 2)

	// Read is done today so it moves below Run.
	assert.Equal(t, run.ID, habits[0].ID)
	assert.Equal(t, read.ID, habits[1].ID)
	assert.Equal(t, 3, habits[1].CurrentStreak)
	assert.True(t, habits[1].CompletedToday)
	assert.Equal(t, 1, habits[0].CompletionsThisWeek)
}

func TestActiveHabits_NoAutoSort(t *testing.T) {
	d, store := setup(t)
	read := addHabit(t, store, "Read", models.Daily{}, "2024-05-15")
	addHabit(t, store, "Run", models.Daily{})
	require.NoError(t, store.SaveSettings(models.Settings{AutoSortCompleted: false, RetentionDays: 30, Timezone: "UTC"}))

	habits, err := d.ActiveHabits(now)
	require.NoError(t, err)
	assert.Equal(t, read.ID, habits[0].ID)
}

func TestToggle(t *testing.T) {
	d, store := setup(t)
	h := addHabit(t, store, "Read", models.Daily{}, "2024-05-14")

	stats, done, err := d.Toggle(h.ID, time.Time{}, now)
	require.NoError(t, err)
	assert.True(t, done)
	assert.True(t, stats.CompletedToday)
	assert.Equal(t, 2, stats.CurrentStreak)

	stats, done, err = d.Toggle(h.ID, time.Time{}, now)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 1, stats.CurrentStreak)

	yesterday := time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC)
	stats, done, err = d.Toggle(h.ID, yesterday, now)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Zero(t, stats.CurrentStreak)
}

func TestToggle_Archived(t *testing.T) {
	d, store := setup(t)
	h := addHabit(t, store, "Read", models.Daily{})
	require.NoError(t, store.ArchiveHabit(h.ID, now))

	_, _, err := d.Toggle(h.ID, time.Time{}, now)
	assert.True(t, errors.Is(err, errors.ErrHabitArchived))
}

func TestArchivedHabits(t *testing.T) {
	d, store := setup(t)
	h := addHabit(t, store, "Read", models.Daily{})
	require.NoError(t, store.ArchiveHabit(h.ID, now.Add(-10*24*time.Hour-time.Hour)))

	archived, err := d.ArchivedHabits(now)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, 20, archived[0].DaysRemaining)
}

func TestHeatmap(t *testing.T) {
	d, store := setup(t)
	h := addHabit(t, store, "Gym", models.SpecificDays{Days: []time.Weekday{time.Monday}}, "2023-12-31", "2024-01-01", "2024-03-05")

	hm, err := d.Heatmap(h.ID, 2024)
	require.NoError(t, err)
	counts := hm.Counts()
	assert.Equal(t, 2, counts[tracker.CellCompleted])
	// 53 Mondays in 2024, one of them completed.
	assert.Equal(t, 52, counts[tracker.CellScheduled])

	_, err = d.Heatmap("missing", 2024)
	assert.True(t, errors.Is(err, errors.ErrHabitNotFound))
}

func TestMove(t *testing.T) {
	d, store := setup(t)
	a := addHabit(t, store, "A", models.Daily{})
	b := addHabit(t, store, "B", models.Daily{})
	c := addHabit(t, store, "C", models.Daily{})

	require.NoError(t, d.Move(c.ID, -1, now))
	order := func() []string {
		habits, err := store.ListActiveHabits()
		require.NoError(t, err)
		ids := make([]string, len(habits))
		for i, h := range habits {
			ids[i] = h.ID
		}
		return ids
	}
	assert.Equal(t, []string{a.ID, c.ID, b.ID}, order())

	require.NoError(t, d.Move(a.ID, -1, now), "moving past the top is a no-op")
	assert.Equal(t, []string{a.ID, c.ID, b.ID}, order())

	assert.True(t, errors.Is(d.Move("missing", 1, now), errors.ErrHabitNotFound))
}

func TestMove_FollowsDisplayOrder(t *testing.T) {
	d, store := setup(t)
	a := addHabit(t, store, "A", models.Daily{}, "2024-05-15")
	b := addHabit(t, store, "B", models.Daily{})
	c := addHabit(t, store, "C", models.Daily{})

	displayed := func() []string {
		habits, err := d.ActiveHabits(now)
		require.NoError(t, err)
		ids := make([]string, len(habits))
		for i, h := range habits {
			ids[i] = h.ID
		}
		return ids
	}
	// A is done today so auto-sort shows it last.
	require.Equal(t, []string{b.ID, c.ID, a.ID}, displayed())

	require.NoError(t, d.Move(c.ID, -1, now))
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, displayed())

	require.NoError(t, d.Move(b.ID, 1, now), "open habits do not cross into the completed group")
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, displayed())

	require.NoError(t, store.SaveSettings(models.Settings{AutoSortCompleted: false, RetentionDays: 30, Timezone: "UTC"}))
	require.Equal(t, []string{c.ID, b.ID, a.ID}, displayed())
	require.NoError(t, d.Move(a.ID, -1, now))
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, displayed())
}

func TestSweep(t *testing.T) {
	d, store := setup(t)
	old := addHabit(t, store, "Old", models.Daily{})
	recent := addHabit(t, store, "Recent", models.Daily{})
	require.NoError(t, store.ArchiveHabit(old.ID, now.Add(-31*24*time.Hour)))
	require.NoError(t, store.ArchiveHabit(recent.ID, now.Add(-29*24*time.Hour)))

	n, err := d.Sweep(now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = store.GetHabit(old.ID)
	assert.True(t, errors.Is(err, errors.ErrHabitNotFound))
	_, err = store.GetHabit(recent.ID)
	assert.NoError(t, err)
}
