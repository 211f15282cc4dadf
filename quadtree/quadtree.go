// Package quadtree provides the spatial index behind hit-testing and
// viewport culling.
//
// The tree recursively subdivides 2D space into four quadrants. An element
// lives in the deepest node whose bounds fully contain its bounding box;
// elements straddling a quadrant boundary stay in the parent node rather
// than being duplicated, so region queries never double-report an id.
//
// The index is a derived cache of the document's element store. Callers
// must not feed it directly; the document updates it inside each mutating
// operation and rebuilds it wholesale after undo/redo and batch loads.
package quadtree

import (
	"github.com/gogpu/board"
)

// Default construction parameters.
const (
	// DefaultMaxElementsPerNode is the bucket size a node may hold
	// before it subdivides.
	DefaultMaxElementsPerNode = 10

	// DefaultMaxDepth bounds subdivision. Nodes at this depth hold
	// arbitrarily many elements.
	DefaultMaxDepth = 8
)

// defaultWorld is the starting root coverage. Insert grows the root
// automatically when an element falls outside it.
var defaultWorld = board.Rect{MinX: -4096, MinY: -4096, MaxX: 4096, MaxY: 4096}

// Option configures a Tree during creation.
type Option func(*Tree)

// WithMaxElementsPerNode sets the per-node bucket capacity.
// Values below 1 are ignored.
func WithMaxElementsPerNode(n int) Option {
	return func(t *Tree) {
		if n >= 1 {
			t.maxPerNode = n
		}
	}
}

// WithMaxDepth sets the maximum subdivision depth.
// Values below 1 are ignored.
func WithMaxDepth(d int) Option {
	return func(t *Tree) {
		if d >= 1 {
			t.maxDepth = d
		}
	}
}

// WithBounds sets the initial root coverage. The tree still grows
// on demand when an element is inserted outside it.
func WithBounds(r board.Rect) Option {
	return func(t *Tree) {
		if !r.IsEmpty() {
			t.world = r
		}
	}
}

// Tree is a quadtree over element bounding boxes.
//
// Remove and Update on an unknown id are no-ops, never errors: history
// replays may have already removed an id by a prior undo step.
// Tree is not safe for concurrent use; callers serialize access the
// same way they serialize document mutations.
type Tree struct {
	maxPerNode int
	maxDepth   int
	world      board.Rect
	root       *node
	rects      map[board.ElementID]board.Rect
}

type node struct {
	bounds   board.Rect
	depth    int
	items    []board.ElementID
	children *[4]*node // nil until subdivided
}

// New creates an empty tree.
func New(opts ...Option) *Tree {
	t := &Tree{
		maxPerNode: DefaultMaxElementsPerNode,
		maxDepth:   DefaultMaxDepth,
		world:      defaultWorld,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.rects = make(map[board.ElementID]board.Rect)
	t.root = &node{bounds: t.world, depth: 0}
	return t
}

// Len returns the number of indexed elements.
func (t *Tree) Len() int {
	return len(t.rects)
}

// Contains reports whether id is indexed.
func (t *Tree) Contains(id board.ElementID) bool {
	_, ok := t.rects[id]
	return ok
}

// Insert adds an element's bounding box to the index. Inserting an id
// that is already present replaces its previous box.
func (t *Tree) Insert(id board.ElementID, r board.Rect) {
	if _, ok := t.rects[id]; ok {
		t.Remove(id)
	}
	if r.IsEmpty() {
		// Inverted bounds cannot be placed; index a zero-area box at
		// the origin so the id stays findable and removable.
		r = board.Rect{}
	}
	t.rects[id] = r
	if !t.root.bounds.Contains(r) {
		t.grow(r)
		return
	}
	t.root.insert(id, r, t.rects, t.maxPerNode, t.maxDepth)
}

// Remove deletes an element from the index. Unknown ids are ignored.
func (t *Tree) Remove(id board.ElementID) {
	r, ok := t.rects[id]
	if !ok {
		return
	}
	delete(t.rects, id)
	t.root.remove(id, r)
}

// Update replaces an element's bounding box (remove + insert).
// Unknown ids are inserted fresh.
func (t *Tree) Update(id board.ElementID, r board.Rect) {
	t.Remove(id)
	t.Insert(id, r)
}

// QueryPoint returns the ids of all elements whose bounding box contains
// the point. Result order is unspecified.
func (t *Tree) QueryPoint(p board.Point) []board.ElementID {
	var out []board.ElementID
	t.root.queryPoint(p, t.rects, &out)
	return out
}

// QueryRegion returns the ids of all elements whose bounding box
// intersects r, exactly the set a linear scan over the store would
// produce. Result order is unspecified.
func (t *Tree) QueryRegion(r board.Rect) []board.ElementID {
	var out []board.ElementID
	t.root.queryRegion(r, t.rects, &out)
	return out
}

// Rebuild recomputes the whole tree from the retained boxes. Cheaper
// than incremental maintenance after large batch operations (multi-
// element paste, document load, undo/redo snapshot restore).
func (t *Tree) Rebuild() {
	world := t.world
	for _, r := range t.rects {
		world = world.Union(r)
	}
	t.root = &node{bounds: world, depth: 0}
	for id, r := range t.rects {
		t.root.insert(id, r, t.rects, t.maxPerNode, t.maxDepth)
	}
}

// grow expands the root until it contains r, then rebuilds.
func (t *Tree) grow(r board.Rect) {
	world := t.root.bounds
	for !world.Contains(r) {
		w, h := world.Width(), world.Height()
		if r.MinX < world.MinX {
			world.MinX -= w
		}
		if r.MinY < world.MinY {
			world.MinY -= h
		}
		if r.MaxX > world.MaxX {
			world.MaxX += w
		}
		if r.MaxY > world.MaxY {
			world.MaxY += h
		}
	}
	t.world = world
	t.Rebuild()
}

func (n *node) insert(id board.ElementID, r board.Rect, rects map[board.ElementID]board.Rect, maxPerNode, maxDepth int) {
	if n.children != nil {
		if q := n.quadrantFor(r); q >= 0 {
			n.children[q].insert(id, r, rects, maxPerNode, maxDepth)
			return
		}
		// Straddles a boundary: the parent keeps it.
		n.items = append(n.items, id)
		return
	}
	n.items = append(n.items, id)
	if len(n.items) > maxPerNode && n.depth < maxDepth {
		n.subdivide(rects, maxPerNode, maxDepth)
	}
}

// subdivide splits the node into four quadrants and redistributes its
// bucket, pushing down every item that fits entirely inside one child.
// Items straddling a boundary stay here.
func (n *node) subdivide(rects map[board.ElementID]board.Rect, maxPerNode, maxDepth int) {
	cx := (n.bounds.MinX + n.bounds.MaxX) / 2
	cy := (n.bounds.MinY + n.bounds.MaxY) / 2
	children := [4]*node{
		{bounds: board.Rect{MinX: n.bounds.MinX, MinY: n.bounds.MinY, MaxX: cx, MaxY: cy}, depth: n.depth + 1},
		{bounds: board.Rect{MinX: cx, MinY: n.bounds.MinY, MaxX: n.bounds.MaxX, MaxY: cy}, depth: n.depth + 1},
		{bounds: board.Rect{MinX: n.bounds.MinX, MinY: cy, MaxX: cx, MaxY: n.bounds.MaxY}, depth: n.depth + 1},
		{bounds: board.Rect{MinX: cx, MinY: cy, MaxX: n.bounds.MaxX, MaxY: n.bounds.MaxY}, depth: n.depth + 1},
	}
	n.children = &children

	kept := n.items[:0]
	for _, id := range n.items {
		r := rects[id]
		if q := n.quadrantFor(r); q >= 0 {
			n.children[q].insert(id, r, rects, maxPerNode, maxDepth)
		} else {
			kept = append(kept, id)
		}
	}
	n.items = kept
}

func (n *node) quadrantFor(r board.Rect) int {
	for i, c := range n.children {
		if c.bounds.Contains(r) {
			return i
		}
	}
	return -1
}

func (n *node) remove(id board.ElementID, r board.Rect) bool {
	if n.children != nil {
		if q := n.quadrantFor(r); q >= 0 {
			if n.children[q].remove(id, r) {
				return true
			}
		}
	}
	for i, item := range n.items {
		if item == id {
			n.items = append(n.items[:i], n.items[i+1:]...)
			return true
		}
	}
	return false
}

func (n *node) queryPoint(p board.Point, rects map[board.ElementID]board.Rect, out *[]board.ElementID) {
	if !n.bounds.ContainsPoint(p) {
		return
	}
	for _, id := range n.items {
		if rects[id].ContainsPoint(p) {
			*out = append(*out, id)
		}
	}
	if n.children != nil {
		for _, c := range n.children {
			c.queryPoint(p, rects, out)
		}
	}
}

func (n *node) queryRegion(r board.Rect, rects map[board.ElementID]board.Rect, out *[]board.ElementID) {
	if !n.bounds.Intersects(r) {
		return
	}
	for _, id := range n.items {
		if rects[id].Intersects(r) {
			*out = append(*out, id)
		}
	}
	if n.children != nil {
		for _, c := range n.children {
			c.queryRegion(r, rects, out)
		}
	}
}
