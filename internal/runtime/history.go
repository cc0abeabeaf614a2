package runtime

import (
	"time"

	"github.com/aretw0/funnelkit/pkg/domain"
)

// DefaultHistoryLimit is the number of snapshots kept when no limit is set.
const DefaultHistoryLimit = 50

// History is the undo/redo state machine: an ordered list of snapshots and
// a cursor pointing at the one currently displayed. Entries after the
// cursor form the redo branch.
type History struct {
	entries []domain.HistoryEntry
	cursor  int
	limit   int
	now     func() time.Time
}

// NewHistory starts a history holding initial as its only entry.
// A limit below 1 selects DefaultHistoryLimit.
func NewHistory(initial domain.Document, limit int, now func() time.Time) *History {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	if now == nil {
		now = time.Now
	}
	h := &History{limit: limit, now: now}
	h.Reset(initial)
	return h
}

// Record discards the redo branch, appends doc and moves the cursor onto
// it. The oldest entry is evicted once the limit is exceeded.
func (h *History) Record(doc domain.Document) {
	h.entries = append(h.entries[:h.cursor+1:h.cursor+1], domain.HistoryEntry{Document: doc, Timestamp: h.now()})
	h.cursor = len(h.entries) - 1
	if len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		h.entries = append([]domain.HistoryEntry(nil), h.entries[drop:]...)
		h.cursor -= drop
	}
}

// Undo steps the cursor back and returns the snapshot there.
// It reports false at the oldest entry.
func (h *History) Undo() (domain.Document, bool) {
	if !h.CanUndo() {
		return domain.Document{}, false
	}
	h.cursor--
	return h.entries[h.cursor].Document, true
}

// Redo steps the cursor forward and returns the snapshot there.
// It reports false at the newest entry.
func (h *History) Redo() (domain.Document, bool) {
	if !h.CanRedo() {
		return domain.Document{}, false
	}
	h.cursor++
	return h.entries[h.cursor].Document, true
}

// CanUndo reports whether an older snapshot exists.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether a newer snapshot exists.
func (h *History) CanRedo() bool { return h.cursor < len(h.entries)-1 }

// Len returns the number of retained snapshots.
func (h *History) Len() int { return len(h.entries) }

// Cursor returns the index of the displayed snapshot.
func (h *History) Cursor() int { return h.cursor }

// Limit returns the maximum number of retained snapshots.
func (h *History) Limit() int { return h.limit }

// Current returns the displayed snapshot.
func (h *History) Current() domain.HistoryEntry { return h.entries[h.cursor] }

// Entries returns the retained snapshots, oldest first.
func (h *History) Entries() []domain.HistoryEntry {
	return append([]domain.HistoryEntry(nil), h.entries...)
}

// Reset drops every entry and starts over from doc.
func (h *History) Reset(doc domain.Document) {
	h.entries = []domain.HistoryEntry{{Document: doc, Timestamp: h.now()}}
	h.cursor = 0
}
