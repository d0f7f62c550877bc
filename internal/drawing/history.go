// Package drawing tracks the state of interactive map-drawing sessions: the
// snapshot history that backs undo, and the registry of committed routes.
package drawing

import (
	"github.com/paulmach/orb"
)

// History is the append-only sequence of full coordinate snapshots produced
// while a route is drawn. Each entry is the complete shape at that moment,
// not a delta, so any single entry reconstructs the whole line and undo never
// replays anything.
//
// A History has a single writer (the active drawing session); it does no
// locking of its own.
type History struct {
	snapshots []orb.LineString
}

// NewHistory creates an empty history; the session is idle until the first
// Update.
func NewHistory() *History {
	return &History{}
}

// Active reports whether a drawing session has started.
func (h *History) Active() bool {
	return len(h.snapshots) > 0
}

// Len returns the number of recorded snapshots.
func (h *History) Len() int {
	return len(h.snapshots)
}

// Update records the current full coordinate list. The line is copied, so
// later mutation by the map event source does not corrupt history.
func (h *History) Update(line orb.LineString) {
	h.snapshots = append(h.snapshots, line.Clone())
}

// Current returns a copy of the latest snapshot, or nil while idle.
func (h *History) Current() orb.LineString {
	if len(h.snapshots) == 0 {
		return nil
	}
	return h.snapshots[len(h.snapshots)-1].Clone()
}

// Undo drops the most recent snapshot and returns the restored shape. With
// only the initial entry left there is nothing to roll back to: Undo is a
// no-op and returns nil.
func (h *History) Undo() orb.LineString {
	if len(h.snapshots) <= 1 {
		return nil
	}
	h.snapshots = h.snapshots[:len(h.snapshots)-1]
	return h.snapshots[len(h.snapshots)-1].Clone()
}

// Reset discards the session's history. Called after the active feature has
// been committed; the next Update starts a fresh session.
func (h *History) Reset() {
	h.snapshots = nil
}
