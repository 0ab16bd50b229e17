package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/models"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	dbPath := filepath.Join(t.TempDir(), "habitgrid.db")

	store := NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	return store, func() { store.Close() }
}

func addTestHabit(t *testing.T, store *Store, name string, freq models.Frequency) models.Habit {
	t.Helper()
	h := models.NewHabit(name, freq, "#34C759", "", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit(%s) failed: %v", name, err)
	}
	stored, err := store.GetHabit(h.ID)
	if err != nil {
		t.Fatalf("GetHabit(%s) failed: %v", name, err)
	}
	return stored
}

func TestInitSeedsDefaultSettings(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if !settings.AutoSortCompleted || settings.RetentionDays != 30 || settings.Timezone != "Local" {
		t.Errorf("unexpected default settings: %+v", settings)
	}

	st, err := store.MigrationStatus()
	if err != nil {
		t.Fatalf("MigrationStatus failed: %v", err)
	}
	if st.Current != st.Latest || len(st.Pending) != 0 {
		t.Errorf("expected fully migrated schema, got %+v", st)
	}
}

func TestLoadBeforeInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	err := store.Load()
	if !errors.Is(err, errors.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want %v", err, errors.ErrNotInitialized)
	}
}

func TestLoadExisting(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "habitgrid.db")

	first := NewStore(dbPath)
	if err := first.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	addTestHabit(t, first, "Read", models.Daily{})
	first.Close()

	second := NewStore(dbPath)
	if err := second.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer second.Close()

	habits, err := second.ListActiveHabits()
	if err != nil {
		t.Fatalf("ListActiveHabits failed: %v", err)
	}
	if len(habits) != 1 || habits[0].Name != "Read" {
		t.Errorf("unexpected habits after reload: %+v", habits)
	}
}

func TestSaveSettings(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	want := models.Settings{AutoSortCompleted: false, RetentionDays: 7, Timezone: "Europe/Paris"}
	if err := store.SaveSettings(want); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got != want {
		t.Errorf("GetSettings() = %+v, want %+v", got, want)
	}
}
