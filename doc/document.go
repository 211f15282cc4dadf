package doc

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/gogpu/board"
	"github.com/gogpu/board/quadtree"
)

// Document is the canvas document engine: the single source of truth for
// every board entity and the explicit context all operations hang off.
// Independent documents (multiple boards, tests) coexist freely; there is
// no package-level state.
type Document struct {
	opts options

	elements  map[board.ElementID]*board.Element
	elemOrder []board.ElementID
	sections  map[board.SectionID]*board.Section
	sectOrder []board.SectionID

	index *quadtree.Tree

	// rev maps an anchor target id (element or section) to the
	// connectors referencing it, so a move recomputes O(k) connectors
	// instead of scanning all of them.
	rev map[string][]board.ElementID

	// endpoints caches each connector's last resolved absolute
	// endpoints; deletion of a target freezes its anchor here.
	endpoints map[board.ElementID]ConnectorEndpoints

	history *history
	sel     *Selection

	// version increments on every committed mutation. Renderers use it
	// to cheap-check whether a cached frame is stale.
	version uint64

	idNonce string
	idSeq   uint64

	// gesture coalescing state
	gesture  *gesture
	dirty    map[board.ElementID]struct{}
	dirtyAll bool

	// desync carries a detected index divergence from the debug
	// consistency check to the public call's return value.
	desync error
}

// ConnectorEndpoints is a connector's resolved absolute endpoint pair.
type ConnectorEndpoints struct {
	From, To board.Point
}

type gesture struct {
	label  string
	before snapshot
}

// New creates an empty document with a single initial history entry.
func New(opts ...Option) *Document {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	d := &Document{
		opts:      o,
		elements:  make(map[board.ElementID]*board.Element),
		sections:  make(map[board.SectionID]*board.Section),
		index:     quadtree.New(o.treeOpts...),
		rev:       make(map[string][]board.ElementID),
		endpoints: make(map[board.ElementID]ConnectorEndpoints),
		dirty:     make(map[board.ElementID]struct{}),
		idNonce:   fmt.Sprintf("%04x", rand.Uint32()&0xffff),
	}
	d.history = newHistory(o.historyCapacity)
	d.sel = &Selection{d: d}
	d.history.record("init", d.takeSnapshot())
	return d
}

// Version returns the document version counter. It increments on every
// committed mutation and on undo/redo, never otherwise.
func (d *Document) Version() uint64 {
	return d.version
}

// Len returns the number of elements (sections not included).
func (d *Document) Len() int {
	return len(d.elements)
}

// Element returns a deep copy of the element record. Mutations must go
// through UpdateElement; the returned copy never aliases live state.
// Like the query methods, it flushes pending derived-state updates
// first, so connector records read mid-gesture carry current geometry.
func (d *Document) Element(id board.ElementID) (board.Element, bool) {
	d.flushDirty()
	e, ok := d.elements[id]
	if !ok {
		return board.Element{}, false
	}
	return *e.Clone(), true
}

// Elements returns deep copies of all elements in z order (ascending
// ZIndex, insertion order breaking ties). This is the paint order.
func (d *Document) Elements() []board.Element {
	d.flushDirty()
	out := make([]board.Element, 0, len(d.elemOrder))
	for _, id := range d.zOrderedElements() {
		out = append(out, *d.elements[id].Clone())
	}
	return out
}

// Section returns a deep copy of the section record.
func (d *Document) Section(id board.SectionID) (board.Section, bool) {
	d.flushDirty()
	s, ok := d.sections[id]
	if !ok {
		return board.Section{}, false
	}
	return *s.Clone(), true
}

// Sections returns deep copies of all sections in z order.
func (d *Document) Sections() []board.Section {
	d.flushDirty()
	ids := make([]board.SectionID, len(d.sectOrder))
	copy(ids, d.sectOrder)
	sort.SliceStable(ids, func(i, j int) bool {
		return d.sections[ids[i]].ZIndex < d.sections[ids[j]].ZIndex
	})
	out := make([]board.Section, 0, len(ids))
	for _, id := range ids {
		out = append(out, *d.sections[id].Clone())
	}
	return out
}

// Selection returns the document's selection/transform coordinator.
func (d *Document) Selection() *Selection {
	return d.sel
}

// QueryRegion returns the ids of elements whose absolute bounding box
// intersects r, in z order. The renderer uses this for viewport culling.
func (d *Document) QueryRegion(r board.Rect) []board.ElementID {
	d.flushDirty()
	ids := d.index.QueryRegion(r)
	d.sortZ(ids)
	return ids
}

// QueryPoint returns the ids of elements whose absolute bounding box
// contains p, topmost first (descending z order). This is the hit-test
// entry point.
func (d *Document) QueryPoint(p board.Point) []board.ElementID {
	d.flushDirty()
	ids := d.index.QueryPoint(p)
	d.sortZ(ids)
	// reverse: hit-testing wants the visually topmost candidate first
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids
}

// mintElementID issues a fresh element id. IDs carry a per-session nonce
// and a monotonic sequence number, so they are never reused within a
// session and do not collide with ids brought in by a load.
func (d *Document) mintElementID() board.ElementID {
	d.idSeq++
	return board.ElementID(fmt.Sprintf("el-%s-%d", d.idNonce, d.idSeq))
}

// mintSectionID issues a fresh section id.
func (d *Document) mintSectionID() board.SectionID {
	d.idSeq++
	return board.SectionID(fmt.Sprintf("sec-%s-%d", d.idNonce, d.idSeq))
}

// zOrderedElements returns element ids sorted by ZIndex ascending,
// insertion order breaking ties.
func (d *Document) zOrderedElements() []board.ElementID {
	ids := make([]board.ElementID, len(d.elemOrder))
	copy(ids, d.elemOrder)
	sort.SliceStable(ids, func(i, j int) bool {
		return d.elements[ids[i]].ZIndex < d.elements[ids[j]].ZIndex
	})
	return ids
}

// sortZ sorts ids by ZIndex ascending in place, keeping relative
// insertion order for equal z. Unknown ids sort first; they cannot
// occur unless the index has desynced, and the consistency check deals
// with that separately.
func (d *Document) sortZ(ids []board.ElementID) {
	pos := make(map[board.ElementID]int, len(d.elemOrder))
	for i, id := range d.elemOrder {
		pos[id] = i
	}
	sort.SliceStable(ids, func(i, j int) bool {
		a, aok := d.elements[ids[i]]
		b, bok := d.elements[ids[j]]
		if !aok || !bok {
			return !aok
		}
		if a.ZIndex != b.ZIndex {
			return a.ZIndex < b.ZIndex
		}
		return pos[ids[i]] < pos[ids[j]]
	})
}

// markDirty queues an element for derived-state refresh. Outside a
// gesture the queue is flushed before the mutating call returns.
func (d *Document) markDirty(id board.ElementID) {
	d.dirty[id] = struct{}{}
}

// flushDirty brings the spatial index and connector caches up to date
// with the store for every queued id.
func (d *Document) flushDirty() {
	if d.dirtyAll {
		d.rebuildDerived()
		d.dirtyAll = false
		clear(d.dirty)
		return
	}
	if len(d.dirty) == 0 {
		return
	}
	// Refresh element boxes first, then dependent connectors, so a
	// connector sees its targets' final geometry.
	conns := make(map[board.ElementID]struct{})
	for id := range d.dirty {
		e, ok := d.elements[id]
		if !ok {
			// Deleted while queued; removal already handled.
			continue
		}
		if e.Kind == board.KindConnector {
			conns[id] = struct{}{}
			continue
		}
		d.index.Update(id, d.absBoundsOf(e))
		for _, cid := range d.rev[string(id)] {
			conns[cid] = struct{}{}
		}
	}
	clear(d.dirty)
	for cid := range conns {
		d.recomputeConnector(cid)
	}
	d.verifyIndex()
}

// rebuildDerived recomputes every derived structure from the store:
// index boxes, the connector reverse index, and endpoint caches.
// Used after snapshot restore, load and batch paste.
func (d *Document) rebuildDerived() {
	d.rev = make(map[string][]board.ElementID)
	d.endpoints = make(map[board.ElementID]ConnectorEndpoints)
	for _, id := range d.elemOrder {
		e := d.elements[id]
		if e.Kind == board.KindConnector {
			d.addReverse(id, e.Connector)
		}
	}
	tree := quadtree.New(d.opts.treeOpts...)
	for _, id := range d.elemOrder {
		e := d.elements[id]
		if e.Kind == board.KindConnector {
			continue
		}
		tree.Insert(id, d.absBoundsOf(e))
	}
	d.index = tree
	for _, id := range d.elemOrder {
		if d.elements[id].Kind == board.KindConnector {
			d.recomputeConnector(id)
		}
	}
	d.verifyIndex()
}

// afterMutation finishes a public mutating call: outside a gesture it
// flushes derived state and records one history transaction. It returns
// the pending desync error (debug checks only), which mutating calls
// propagate.
func (d *Document) afterMutation(label string) error {
	d.version++
	if d.gesture == nil {
		d.flushDirty()
		d.history.record(label, d.takeSnapshot())
	}
	err := d.desync
	d.desync = nil
	return err
}

// verifyIndex is the debug-mode consistency check: it compares a
// whole-world region query against a linear scan. Divergence is
// self-healed with a rebuild; with checks enabled it is also surfaced
// through the mutating call's error.
func (d *Document) verifyIndex() {
	if !d.opts.consistencyChecks {
		return
	}
	want := make(map[board.ElementID]struct{})
	world := board.EmptyRect()
	for _, id := range d.elemOrder {
		e := d.elements[id]
		if e.Kind == board.KindConnector {
			continue
		}
		want[id] = struct{}{}
		world = world.Union(d.absBoundsOf(e))
	}
	for id, eps := range d.endpoints {
		want[id] = struct{}{}
		world = world.UnionPoint(eps.From).UnionPoint(eps.To)
	}
	if world.IsEmpty() {
		world = board.RectXYWH(0, 0, 1, 1)
	}
	got := d.index.QueryRegion(world)
	missing := len(want)
	extra := 0
	seen := make(map[board.ElementID]struct{}, len(got))
	for _, id := range got {
		if _, dup := seen[id]; dup {
			extra++
			continue
		}
		seen[id] = struct{}{}
		if _, ok := want[id]; ok {
			missing--
		} else {
			extra++
		}
	}
	if missing == 0 && extra == 0 {
		return
	}
	err := &board.IndexDesyncError{Missing: missing, Extra: extra}
	board.Logger().Warn("spatial index desync, rebuilding",
		"missing", missing, "extra", extra)
	d.index.Rebuild()
	d.desync = err
}
