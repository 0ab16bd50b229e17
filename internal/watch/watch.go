// Package watch reports changes to the SQLite database file so a running
// TUI can reload after another process (the CLI or the HTTP API) writes.
package watch

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/habitgrid/internal/logger"
)

// DefaultDebounce collapses the burst of events one SQLite commit produces.
const DefaultDebounce = 150 * time.Millisecond

// Change is emitted once per debounced burst of writes.
type Change struct {
	Path string
	At   time.Time
}

// Watcher monitors a database file and its -wal/-journal companions.
type Watcher struct {
	Path    string
	Changes <-chan Change

	changes  chan Change
	done     chan struct{}
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// New creates a watcher for the database at path. The parent directory is
// watched because SQLite replaces and truncates its side files.
func New(path string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ch := make(chan Change, 1)
	return &Watcher{
		Path:     filepath.Clean(path),
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		debounce: debounce,
		watcher:  fw,
	}, nil
}

// Start begins watching. On failure the underlying watcher is released and
// Stop returns immediately.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		w.watcher.Close()
		close(w.done)
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if !pending.IsZero() {
					w.emit()
				}
				return
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= w.debounce {
				w.emit()
				pending = time.Time{}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Debug("Database watcher error", "path", w.Path, "error", err)
		}
	}
}

// relevant matches the database file and SQLite's -wal, -shm and -journal files.
func (w *Watcher) relevant(name string) bool {
	name = filepath.Clean(name)
	return name == w.Path || strings.HasPrefix(name, w.Path+"-")
}

// emit never blocks: a change already waiting to be read covers this one.
func (w *Watcher) emit() {
	select {
	case w.changes <- Change{Path: w.Path, At: time.Now()}:
	default:
	}
}
