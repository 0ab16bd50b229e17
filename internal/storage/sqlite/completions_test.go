package sqlite

import (
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/models"
)

func TestToggleCompletion(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	h := addTestHabit(t, store, "Read", models.Daily{})

	done, err := store.ToggleCompletion(h.ID, "2024-05-15")
	if err != nil {
		t.Fatalf("ToggleCompletion failed: %v", err)
	}
	if !done {
		t.Error("first toggle should complete the day")
	}

	dates, err := store.ListCompletionDates(h.ID)
	if err != nil {
		t.Fatalf("ListCompletionDates failed: %v", err)
	}
	if !reflect.DeepEqual(dates, []string{"2024-05-15"}) {
		t.Errorf("toggle not visible to the next read: %v", dates)
	}

	done, err = store.ToggleCompletion(h.ID, "2024-05-15")
	if err != nil {
		t.Fatalf("ToggleCompletion failed: %v", err)
	}
	if done {
		t.Error("second toggle should clear the day")
	}

	dates, _ = store.ListCompletionDates(h.ID)
	if len(dates) != 0 {
		t.Errorf("expected no completions, got %v", dates)
	}
}

func TestToggleCompletionRejectsArchivedAndMissing(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	h := addTestHabit(t, store, "Read", models.Daily{})
	if err := store.ArchiveHabit(h.ID, time.Now()); err != nil {
		t.Fatalf("ArchiveHabit failed: %v", err)
	}

	if _, err := store.ToggleCompletion(h.ID, "2024-05-15"); !errors.Is(err, errors.ErrHabitArchived) {
		t.Errorf("ToggleCompletion() error = %v, want %v", err, errors.ErrHabitArchived)
	}
	if _, err := store.ToggleCompletion("missing", "2024-05-15"); !errors.Is(err, errors.ErrHabitNotFound) {
		t.Errorf("ToggleCompletion() error = %v, want %v", err, errors.ErrHabitNotFound)
	}
}

func TestAddCompletionIsIdempotent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	h := addTestHabit(t, store, "Read", models.Daily{})
	for i := 0; i < 3; i++ {
		if err := store.AddCompletion(h.ID, "2024-05-15"); err != nil {
			t.Fatalf("AddCompletion failed: %v", err)
		}
	}

	dates, err := store.ListCompletionDates(h.ID)
	if err != nil {
		t.Fatalf("ListCompletionDates failed: %v", err)
	}
	if len(dates) != 1 {
		t.Errorf("expected one completion, got %v", dates)
	}
}

func TestListCompletionDatesInRange(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	h := addTestHabit(t, store, "Read", models.Daily{})
	other := addTestHabit(t, store, "Run", models.Daily{})
	for _, day := range []string{"2024-04-30", "2024-05-01", "2024-05-15", "2024-05-31", "2024-06-01"} {
		if err := store.AddCompletion(h.ID, day); err != nil {
			t.Fatalf("AddCompletion failed: %v", err)
		}
	}
	if err := store.AddCompletion(other.ID, "2024-05-10"); err != nil {
		t.Fatalf("AddCompletion failed: %v", err)
	}

	dates, err := store.ListCompletionDatesInRange(h.ID, "2024-05-01", "2024-05-31")
	if err != nil {
		t.Fatalf("ListCompletionDatesInRange failed: %v", err)
	}
	want := []string{"2024-05-01", "2024-05-15", "2024-05-31"}
	if !reflect.DeepEqual(dates, want) {
		t.Errorf("ListCompletionDatesInRange() = %v, want %v", dates, want)
	}

	all, err := store.GetAllCompletions()
	if err != nil {
		t.Fatalf("GetAllCompletions failed: %v", err)
	}
	if len(all) != 6 {
		t.Errorf("expected 6 completions, got %d", len(all))
	}
}
