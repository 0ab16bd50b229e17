package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitgrid/internal/constants"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "habitgrid.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE habits (id TEXT PRIMARY KEY, name TEXT NOT NULL)`,
		`INSERT INTO habits (id, name) VALUES ('h1', 'Read'), ('h2', 'Run')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to seed test database: %v", err)
		}
	}
	return dbPath
}

// newTestManager returns a manager whose clock advances one second per call.
func newTestManager(dbPath string) *Manager {
	m := NewManager(dbPath)
	ts := time.Date(2024, 5, 15, 9, 30, 0, 0, time.Local)
	m.now = func() time.Time {
		ts = ts.Add(time.Second)
		return ts
	}
	return m
}

func countHabits(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM habits").Scan(&n); err != nil {
		t.Fatalf("failed to count habits: %v", err)
	}
	return n
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := newTestManager(dbPath)

	info, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if filepath.Dir(info.Path) != mgr.Dir() {
		t.Errorf("backup written to %s, want dir %s", info.Path, mgr.Dir())
	}
	if info.Name() != "habitgrid-20240515-093001.db" {
		t.Errorf("unexpected backup name %q", info.Name())
	}
	if info.Size == 0 || info.HumanSize() == "" {
		t.Errorf("expected non-empty backup, got size %d", info.Size)
	}
	if got := countHabits(t, info.Path); got != 2 {
		t.Errorf("expected 2 habits in backup, got %d", got)
	}
}

func TestCreate_MissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestUniquePath_SameSecond(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	fixed := time.Date(2024, 5, 15, 9, 30, 0, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	first, err := mgr.Create()
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	second, err := mgr.Create()
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
	if first.Path == second.Path {
		t.Fatal("expected distinct backup paths")
	}
	if second.Name() != "habitgrid-20240515-093000-1.db" {
		t.Errorf("unexpected name %q", second.Name())
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 2 {
		t.Errorf("expected 2 backups, got %d", len(backups))
	}
}

func TestList_IgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := newTestManager(dbPath)
	if _, err := mgr.Create(); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for _, name := range []string{"notes.txt", "habitgrid-garbage.db", "other-20240101-000000.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("expected 1 backup, got %d", len(backups))
	}
}

func TestList_NoDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "habitgrid.db"))
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %d", len(backups))
	}
	if _, ok, err := mgr.Latest(); err != nil || ok {
		t.Errorf("Latest() = ok %v, err %v; want no backup", ok, err)
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := newTestManager(dbPath)

	var last Info
	for i := 0; i < constants.MaxBackups+3; i++ {
		info, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
		last = info
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Errorf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	if backups[0].Path != last.Path {
		t.Errorf("newest backup should be first: got %s, want %s", backups[0].Path, last.Path)
	}

	latest, ok, err := mgr.Latest()
	if err != nil || !ok || latest.Path != last.Path {
		t.Errorf("Latest() = %v, %v, %v", latest.Path, ok, err)
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := newTestManager(dbPath)

	info, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("DELETE FROM habits"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	safety, err := mgr.Restore(info.Path)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if safety == nil {
		t.Fatal("expected a safety backup of the current database")
	}
	if got := countHabits(t, safety.Path); got != 0 {
		t.Errorf("safety backup should hold the pre-restore state, got %d habits", got)
	}
	if got := countHabits(t, dbPath); got != 2 {
		t.Errorf("expected 2 habits after restore, got %d", got)
	}
	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file left behind")
	}
}

func TestRestore_InvalidBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	bogus := filepath.Join(t.TempDir(), "habitgrid-20240101-000000.db")
	if err := os.WriteFile(bogus, []byte("not a database"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(bogus); err == nil {
		t.Error("expected error restoring invalid backup")
	}

	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("expected error restoring missing backup")
	}
	if got := countHabits(t, dbPath); got != 2 {
		t.Errorf("database should be untouched, got %d habits", got)
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"habitgrid-20240515-093000.db", true},
		{"habitgrid-20240515-093000-12.db", true},
		{"habitgrid-20240515.db", false},
		{"habitgrid-20240515-093000.sqlite", false},
		{"otherapp-20240515-093000.db", false},
	}
	for _, tt := range tests {
		if _, ok := parseName(tt.name); ok != tt.ok {
			t.Errorf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
		}
	}
}

func TestInfoAge(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.Local)
	info := Info{Timestamp: now.Add(-3 * time.Hour)}
	if got := info.Age(now); got != "3 hours ago" {
		t.Errorf("Age() = %q", got)
	}
}
