package doc

import (
	"math"

	"github.com/gogpu/board"
)

// Selection tracks the active element set and coordinates interactive
// transforms over it. During a transform every Apply recomputes each
// member's geometry from the gesture's original state relative to a
// common pivot, then issues one batched update per member, so history
// records a single transaction for the whole gesture rather than one
// per member per frame.
type Selection struct {
	d   *Document
	ids []board.ElementID

	active *activeTransform
}

type activeTransform struct {
	pivot board.Point
	orig  map[board.ElementID]origGeom
}

type origGeom struct {
	center   board.Point // absolute centroid
	offset   board.Point // bounds center relative to stored (X, Y)
	w, h     float64
	rotation float64
	points   []board.Point           // pen strokes
	conn     *board.ConnectorPayload // connectors
}

// Set replaces the selection. Unknown ids are ignored.
func (s *Selection) Set(ids ...board.ElementID) {
	s.ids = s.ids[:0]
	for _, id := range ids {
		if _, ok := s.d.elements[id]; ok && !containsID(s.ids, id) {
			s.ids = append(s.ids, id)
		}
	}
}

// Add appends an element to the selection.
func (s *Selection) Add(id board.ElementID) {
	if _, ok := s.d.elements[id]; ok && !containsID(s.ids, id) {
		s.ids = append(s.ids, id)
	}
}

// Remove drops an element from the selection.
func (s *Selection) Remove(id board.ElementID) { s.drop(id) }

// Clear empties the selection.
func (s *Selection) Clear() { s.ids = s.ids[:0] }

// Has reports membership.
func (s *Selection) Has(id board.ElementID) bool { return containsID(s.ids, id) }

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []board.ElementID {
	return append([]board.ElementID(nil), s.ids...)
}

// Bounds returns the union of the members' absolute bounding boxes,
// the box a transform handle UI draws around the selection.
func (s *Selection) Bounds() board.Rect {
	s.d.flushDirty()
	r := board.EmptyRect()
	for _, id := range s.ids {
		if e, ok := s.d.elements[id]; ok {
			r = r.Union(s.d.absBoundsOf(e))
		}
	}
	return r
}

// BeginTransform opens an interactive transform gesture over the current
// selection, capturing each member's original geometry and the common
// pivot (the selection bounds center). Locked members are excluded.
func (s *Selection) BeginTransform() error {
	if len(s.ids) == 0 {
		return &board.ValidationError{Field: "selection", Msg: "empty"}
	}
	if err := s.d.Begin("transform selection"); err != nil {
		return err
	}
	at := &activeTransform{
		pivot: s.Bounds().Center(),
		orig:  make(map[board.ElementID]origGeom, len(s.ids)),
	}
	for _, id := range s.ids {
		e, ok := s.d.elements[id]
		if !ok || e.Locked {
			continue
		}
		b := s.d.absBoundsOf(e)
		origin := s.d.sectionOrigin(e.ParentSection)
		g := origGeom{
			center:   b.Center(),
			offset:   b.Center().Sub(board.Pt(e.X+origin.X, e.Y+origin.Y)),
			w:        e.Width,
			h:        e.Height,
			rotation: e.Rotation,
		}
		if e.Kind == board.KindPen {
			g.points = append([]board.Point(nil), e.Points...)
		}
		if e.Kind == board.KindConnector {
			c := *e.Connector
			g.conn = &c
		}
		at.orig[id] = g
	}
	s.active = at
	return nil
}

// Apply transforms the selection by m, expressed relative to the common
// pivot (so board.Scale(2, 2) doubles the selection about its center).
// Each call recomputes from the originals captured by BeginTransform,
// matching interactive drag semantics where the input is the cumulative
// delta since the gesture start.
func (s *Selection) Apply(m board.Matrix) error {
	if s.active == nil {
		return &board.ValidationError{Field: "selection", Msg: "no active transform"}
	}
	world := board.AboutPivot(m, s.active.pivot)
	sx := math.Hypot(world.A, world.D)
	sy := math.Hypot(world.B, world.E)
	spin := math.Atan2(world.D, world.A)

	for id, g := range s.active.orig {
		e, ok := s.d.elements[id]
		if !ok {
			continue
		}
		center := world.TransformPoint(g.center)
		switch e.Kind {
		case board.KindConnector:
			c := *g.conn
			if c.From.Kind == board.AnchorFree {
				c.From.Point = world.TransformPoint(c.From.Point)
			}
			if c.To.Kind == board.AnchorFree {
				c.To.Point = world.TransformPoint(c.To.Point)
			}
			if err := s.d.UpdateElement(id, Patch{Connector: &c}); err != nil {
				return err
			}
		case board.KindPen:
			pts := make([]board.Point, len(g.points))
			for i, p := range g.points {
				pts[i] = board.Pt(p.X*sx, p.Y*sy)
			}
			local := s.d.ToLocal(center.Sub(board.Pt(g.offset.X*sx, g.offset.Y*sy)), e.ParentSection)
			if err := s.d.UpdateElement(id, Patch{
				X: Float(local.X), Y: Float(local.Y),
				Rotation: Float(g.rotation + spin),
				Points:   pts,
			}); err != nil {
				return err
			}
		default:
			w, h := g.w*sx, g.h*sy
			local := s.d.ToLocal(center.Sub(board.Pt(w/2, h/2)), e.ParentSection)
			if err := s.d.UpdateElement(id, Patch{
				X: Float(local.X), Y: Float(local.Y),
				Width: Float(w), Height: Float(h),
				Rotation: Float(g.rotation + spin),
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// Translate is shorthand for Apply(board.Translate(dx, dy)).
func (s *Selection) Translate(dx, dy float64) error {
	return s.Apply(board.Translate(dx, dy))
}

// EndTransform commits the gesture as one history transaction.
func (s *Selection) EndTransform() {
	if s.active == nil {
		return
	}
	s.active = nil
	s.d.End()
}

// CancelTransform aborts the gesture, restoring the pre-gesture state.
func (s *Selection) CancelTransform() {
	if s.active == nil {
		return
	}
	s.active = nil
	s.d.Cancel()
}

// drop removes an id without touching document state; deletion and
// restore paths call it.
func (s *Selection) drop(id board.ElementID) {
	for i, x := range s.ids {
		if x == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	if s.active != nil {
		delete(s.active.orig, id)
	}
}

// prune removes ids no longer present in the store.
func (s *Selection) prune() {
	kept := s.ids[:0]
	for _, id := range s.ids {
		if _, ok := s.d.elements[id]; ok {
			kept = append(kept, id)
		}
	}
	s.ids = kept
}
