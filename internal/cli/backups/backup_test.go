package backups

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitgrid/internal/backup"
	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, func()) {
	tempDir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(tempDir, "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := &cli.Context{Store: store, Out: out}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
	return ctx, out, cleanup
}

func addHabit(t *testing.T, ctx *cli.Context, name string) {
	t.Helper()
	h := models.NewHabit(name, models.Daily{}, "#007AFF", "", time.Now())
	if err := ctx.Store.AddHabit(h); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("unexpected output: %s", out.String())
	}

	out.Reset()
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Backup created: habitgrid-") {
		t.Errorf("unexpected output: %s", out.String())
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Available backups (1 total") {
		t.Errorf("unexpected list output: %s", out.String())
	}
}

func TestBackupRestore(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	addHabit(t, ctx, "Read")
	info, err := backup.NewManager(ctx.Store.GetConfigPath()).Create()
	if err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}
	addHabit(t, ctx, "Run")

	ctx.In = strings.NewReader("n\n")
	if err := (&BackupRestoreCmd{BackupFile: info.Name()}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Restore cancelled.") {
		t.Errorf("expected cancellation: %s", out.String())
	}

	out.Reset()
	if err := (&BackupRestoreCmd{BackupFile: info.Name(), Yes: true}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Previous database saved as habitgrid-") {
		t.Errorf("expected safety backup note: %s", out.String())
	}

	if err := ctx.Store.Load(); err != nil {
		t.Fatalf("failed to reload store: %v", err)
	}
	habits, err := ctx.Store.ListActiveHabits()
	if err != nil {
		t.Fatalf("failed to list habits: %v", err)
	}
	if len(habits) != 1 || habits[0].Name != "Read" {
		t.Errorf("expected only the backed up habit, got %+v", habits)
	}
}

func TestBackupRestore_NotFound(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&BackupRestoreCmd{BackupFile: "missing.db", Yes: true}).Run(ctx); err == nil {
		t.Error("expected error for a missing backup file")
	}
}
