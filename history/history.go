// Package history keeps a bounded, linear undo stack of typeface snapshots.
package history

import (
	"github.com/modular-tools/typeface"
)

// DefaultLimit is the number of snapshots kept by New(0).
const DefaultLimit = 50

// History is a sliding window of snapshots with a current pointer.
// Snapshots are deep copies; nothing handed in or out is shared with the
// stack.
type History struct {
	limit     int
	snapshots []*typeface.Typeface
	index     int
}

// New returns an empty history holding at most limit snapshots. A limit
// below 1 selects DefaultLimit.
func New(limit int) *History {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &History{limit: limit, index: -1}
}

// Commit records a copy of tf. A redo branch past the pointer is discarded.
// When the window is full the oldest snapshot is evicted and the pointer
// stays on the newest entry.
func (h *History) Commit(tf *typeface.Typeface) {
	if h.index < len(h.snapshots)-1 {
		clear(h.snapshots[h.index+1:])
		h.snapshots = h.snapshots[:h.index+1]
	}
	h.snapshots = append(h.snapshots, tf.Clone())
	if len(h.snapshots) > h.limit {
		h.snapshots[0] = nil
		h.snapshots = h.snapshots[1:]
	} else {
		h.index++
	}
	typeface.Logger().Debug("history: commit", "index", h.index, "len", len(h.snapshots))
}

// Undo steps the pointer back and returns a copy of the snapshot there. It
// returns false, and does nothing, when the pointer is at the oldest entry.
func (h *History) Undo() (*typeface.Typeface, bool) {
	if h.index <= 0 {
		return nil, false
	}
	h.index--
	return h.snapshots[h.index].Clone(), true
}

// Redo steps the pointer forward after an Undo.
func (h *History) Redo() (*typeface.Typeface, bool) {
	if h.index < 0 || h.index >= len(h.snapshots)-1 {
		return nil, false
	}
	h.index++
	return h.snapshots[h.index].Clone(), true
}

// Reset drops every snapshot and records tf as the only one.
func (h *History) Reset(tf *typeface.Typeface) {
	clear(h.snapshots)
	h.snapshots = h.snapshots[:0]
	h.index = -1
	h.Commit(tf)
}

// Len returns the number of snapshots held.
func (h *History) Len() int { return len(h.snapshots) }

// Index returns the current pointer, -1 when empty.
func (h *History) Index() int { return h.index }

// Limit returns the window size.
func (h *History) Limit() int { return h.limit }

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return h.index >= 0 && h.index < len(h.snapshots)-1 }
