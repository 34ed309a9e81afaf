// Package watcher observes a directory tree by polling and emits typed
// change events. Bursts of events caused by editor temp files and atomic
// writes can be settled down to the single real file they refer to.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/amezhov/filekeeper/internal/tempfile"
)

// EventType represents the type of filesystem event.
type EventType int

const (
	// Added is emitted when a new file is detected.
	Added EventType = iota
	// Modified is emitted when an existing file changes.
	Modified
	// Removed is emitted when a file is deleted.
	Removed
	// Renamed is emitted when a file move is observed.
	Renamed
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	switch t {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	case Renamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// Event represents a filesystem change.
type Event struct {
	Type EventType
	// Path is the affected path.
	Path string
	// DestPath is the move destination; empty for non-rename events.
	DestPath string
	// ModTime and Size are the state observed at scan time; zero for removals.
	ModTime time.Time
	Size    int64
	// Temp marks paths classified as temporary artifacts.
	Temp bool
}

// fileState is the per-path snapshot used to diff consecutive scans.
type fileState struct {
	modTime time.Time
	size    int64
}

// Watcher polls a directory tree and reports changes between scans.
type Watcher struct {
	root     string
	interval time.Duration
	log      *zap.Logger

	events chan Event
	prev   map[string]fileState
}

// New creates a Watcher for the given root directory, scanning every
// interval. The first scan reports every existing file as Added.
func New(root string, interval time.Duration, log *zap.Logger) *Watcher {
	return &Watcher{
		root:     root,
		interval: interval,
		log:      log,
		events:   make(chan Event, 64),
		prev:     make(map[string]fileState),
	}
}

// Run scans the tree on a ticker until ctx is cancelled, delivering
// changes to the Events channel. The channel is closed when Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			events, err := w.scan()
			if err != nil {
				w.log.Error("scan failed", zap.String("root", w.root), zap.Error(err))
				continue
			}
			for _, ev := range events {
				select {
				case w.events <- ev:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}

// Events returns the channel Run delivers change events on.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// scan walks the tree, diffs it against the previous snapshot, and returns
// the observed changes.
func (w *Watcher) scan() ([]Event, error) {
	current := make(map[string]fileState)
	err := filepath.WalkDir(w.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// a file may vanish mid-walk; the next scan reports it removed
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		current[path] = fileState{modTime: info.ModTime(), size: info.Size()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var events []Event
	for path, st := range current {
		prev, seen := w.prev[path]
		switch {
		case !seen:
			events = append(events, Event{
				Type: Added, Path: path,
				ModTime: st.modTime, Size: st.size,
				Temp: tempfile.IsTempFile(path),
			})
		case prev.modTime != st.modTime || prev.size != st.size:
			events = append(events, Event{
				Type: Modified, Path: path,
				ModTime: st.modTime, Size: st.size,
				Temp: tempfile.IsTempFile(path),
			})
		}
	}
	for path := range w.prev {
		if _, ok := current[path]; !ok {
			events = append(events, Event{
				Type: Removed, Path: path,
				Temp: tempfile.IsTempFile(path),
			})
		}
	}

	// The diff maps iterate in random order. Replay the batch in write
	// order so a temp-write followed by a rename within one tick keeps
	// its chronology; removals carry a zero mtime and sort first.
	sort.Slice(events, func(i, j int) bool {
		if !events[i].ModTime.Equal(events[j].ModTime) {
			return events[i].ModTime.Before(events[j].ModTime)
		}
		return events[i].Path < events[j].Path
	})

	w.prev = current
	return events, nil
}
