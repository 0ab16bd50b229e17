package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string) *Watcher {
	t.Helper()
	w, err := New(path, 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)
	return w
}

func TestWatcher_EmitsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitgrid.db")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o600))

	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("b"), 0o600))

	select {
	case ch := <-w.Changes:
		assert.Equal(t, filepath.Clean(path), ch.Path)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func TestWatcher_WALFileCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitgrid.db")
	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path+"-wal", []byte("x"), 0o600))

	select {
	case <-w.Changes:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitgrid.db")
	w := startWatcher(t, path)

	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte(i)}, 0o600))
	}

	select {
	case <-w.Changes:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change")
	}

	select {
	case <-w.Changes:
		t.Fatal("burst should collapse into one change")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, filepath.Join(dir, "habitgrid.db"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "habitgrid.dbx"), []byte("x"), 0o600))

	select {
	case <-w.Changes:
		t.Fatal("unexpected change for unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestRelevant(t *testing.T) {
	w := &Watcher{Path: "/data/habitgrid.db"}
	assert.True(t, w.relevant("/data/habitgrid.db"))
	assert.True(t, w.relevant("/data/habitgrid.db-journal"))
	assert.True(t, w.relevant("/data/habitgrid.db-shm"))
	assert.False(t, w.relevant("/data/habitgrid.dbx"))
	assert.False(t, w.relevant("/data/other.db"))
}

func TestWatcher_StartFailureReleasesWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "habitgrid.db")
	w, err := New(path, 50*time.Millisecond)
	require.NoError(t, err)

	require.Error(t, w.Start())
	assert.Error(t, w.watcher.Add(t.TempDir()), "fsnotify watcher should be closed")

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked after a failed Start")
	}
	_, open := <-w.Changes
	assert.False(t, open)
}
