package doc

import (
	"reflect"
	"time"

	"github.com/gogpu/board"
)

// DefaultHistoryCapacity is the undo ring size when not configured.
const DefaultHistoryCapacity = 50

// snapshot is a deep, immutable copy of the store: elements and sections
// with their insertion order. Derived state (index, reverse index,
// endpoint caches) is not snapshotted; restore rebuilds it wholesale,
// which is cheaper and less error-prone than diff-patching the index.
type snapshot struct {
	elements  map[board.ElementID]*board.Element
	elemOrder []board.ElementID
	sections  map[board.SectionID]*board.Section
	sectOrder []board.SectionID
}

type entry struct {
	label string
	at    time.Time
	snap  snapshot
}

// history is a fixed-capacity linear undo ring. The cursor always points
// at the entry describing the current store state; entries past the
// cursor (the redo branch) are discarded whenever a new transaction is
// recorded, standard linear-undo semantics.
type history struct {
	capacity int
	entries  []entry
	cursor   int
}

func newHistory(capacity int) *history {
	return &history{capacity: capacity, cursor: -1}
}

func (h *history) record(label string, snap snapshot) {
	h.entries = append(h.entries[:h.cursor+1], entry{label: label, at: time.Now(), snap: snap})
	h.cursor = len(h.entries) - 1
	if len(h.entries) > h.capacity {
		drop := len(h.entries) - h.capacity
		h.entries = append(h.entries[:0:0], h.entries[drop:]...)
		h.cursor -= drop
	}
}

func (h *history) undo() (snapshot, bool) {
	if h.cursor <= 0 {
		return snapshot{}, false
	}
	h.cursor--
	return h.entries[h.cursor].snap, true
}

func (h *history) redo() (snapshot, bool) {
	if h.cursor >= len(h.entries)-1 {
		return snapshot{}, false
	}
	h.cursor++
	return h.entries[h.cursor].snap, true
}

// takeSnapshot deep-copies the current store.
func (d *Document) takeSnapshot() snapshot {
	s := snapshot{
		elements:  make(map[board.ElementID]*board.Element, len(d.elements)),
		elemOrder: append([]board.ElementID(nil), d.elemOrder...),
		sections:  make(map[board.SectionID]*board.Section, len(d.sections)),
		sectOrder: append([]board.SectionID(nil), d.sectOrder...),
	}
	for id, e := range d.elements {
		s.elements[id] = e.Clone()
	}
	for id, sec := range d.sections {
		s.sections[id] = sec.Clone()
	}
	return s
}

// restoreSnapshot replaces the store contents wholesale and rebuilds
// every derived structure. The snapshot itself stays immutable: the
// store receives fresh clones.
func (d *Document) restoreSnapshot(s snapshot) {
	d.elements = make(map[board.ElementID]*board.Element, len(s.elements))
	for id, e := range s.elements {
		d.elements[id] = e.Clone()
	}
	d.elemOrder = append([]board.ElementID(nil), s.elemOrder...)
	d.sections = make(map[board.SectionID]*board.Section, len(s.sections))
	for id, sec := range s.sections {
		d.sections[id] = sec.Clone()
	}
	d.sectOrder = append([]board.SectionID(nil), s.sectOrder...)

	clear(d.dirty)
	d.dirtyAll = false
	d.rebuildDerived()
	d.sel.prune()
	d.version++
}

// Undo steps the history cursor back one entry and restores that
// snapshot, rebuilding the spatial index from scratch. It returns false
// at the beginning of history. An active gesture is cancelled first.
func (d *Document) Undo() bool {
	if d.gesture != nil {
		d.Cancel()
	}
	snap, ok := d.history.undo()
	if !ok {
		return false
	}
	d.restoreSnapshot(snap)
	return true
}

// Redo steps the history cursor forward one entry. It returns false at
// the end of history. An active gesture is cancelled first.
func (d *Document) Redo() bool {
	if d.gesture != nil {
		d.Cancel()
	}
	snap, ok := d.history.redo()
	if !ok {
		return false
	}
	d.restoreSnapshot(snap)
	return true
}

// CanUndo reports whether Undo would succeed.
func (d *Document) CanUndo() bool { return d.history.cursor > 0 }

// CanRedo reports whether Redo would succeed.
func (d *Document) CanRedo() bool { return d.history.cursor < len(d.history.entries)-1 }

// HistoryLabels returns the labels of all history entries, oldest first.
func (d *Document) HistoryLabels() []string {
	out := make([]string, len(d.history.entries))
	for i, e := range d.history.entries {
		out[i] = e.label
	}
	return out
}

// HistoryCursor returns the index of the entry describing the current
// state, in the slice returned by HistoryLabels.
func (d *Document) HistoryCursor() int { return d.history.cursor }

// Begin opens a gesture: subsequent mutations coalesce into a single
// history transaction recorded by End. Derived-state refresh is deferred
// to the gesture end or the next read. Begin returns a validation error
// if a gesture is already active.
func (d *Document) Begin(label string) error {
	if d.gesture != nil {
		return &board.ValidationError{Field: "gesture", Msg: "already active"}
	}
	d.flushDirty()
	d.gesture = &gesture{label: label, before: d.takeSnapshot()}
	return nil
}

// End closes the active gesture, flushes derived state and records one
// history entry for the whole gesture. Ending without an active gesture
// is a no-op. A gesture that mutated nothing records no entry.
func (d *Document) End() {
	g := d.gesture
	if g == nil {
		return
	}
	d.gesture = nil
	d.flushDirty()
	if !d.storeEquals(g.before) {
		d.history.record(g.label, d.takeSnapshot())
	}
}

// Cancel aborts the active gesture, discarding every mutation since
// Begin and restoring the pre-gesture snapshot. No history entry is
// recorded; the abort itself is not undoable.
func (d *Document) Cancel() {
	g := d.gesture
	if g == nil {
		return
	}
	d.gesture = nil
	d.restoreSnapshot(g.before)
}

// storeEquals reports whether the current store matches a snapshot.
// Used only to skip empty gesture entries, so it compares record counts
// and identity-relevant ordering, then falls back to per-record
// equality via clone comparison.
func (d *Document) storeEquals(s snapshot) bool {
	if len(d.elements) != len(s.elements) || len(d.sections) != len(s.sections) {
		return false
	}
	if len(d.elemOrder) != len(s.elemOrder) || len(d.sectOrder) != len(s.sectOrder) {
		return false
	}
	for i, id := range d.elemOrder {
		if s.elemOrder[i] != id {
			return false
		}
	}
	for i, id := range d.sectOrder {
		if s.sectOrder[i] != id {
			return false
		}
	}
	for id, e := range d.elements {
		o, ok := s.elements[id]
		if !ok || !reflect.DeepEqual(e, o) {
			return false
		}
	}
	for id, sec := range d.sections {
		o, ok := s.sections[id]
		if !ok || !reflect.DeepEqual(sec, o) {
			return false
		}
	}
	return true
}
