package doc

import (
	"github.com/gogpu/board"
)

// ToAbsolute converts a point in a section's local frame to absolute
// stage coordinates, accumulating every ancestor section's origin.
// A zero section id is the absolute frame, so the point returns as-is;
// an unknown section id is treated the same way.
func (d *Document) ToAbsolute(p board.Point, sid board.SectionID) board.Point {
	return p.Add(d.sectionOrigin(sid))
}

// ToLocal converts an absolute stage point into a section's local frame.
// The inverse of ToAbsolute: ToLocal(ToAbsolute(p, s), s) == p.
func (d *Document) ToLocal(p board.Point, sid board.SectionID) board.Point {
	return p.Sub(d.sectionOrigin(sid))
}

// sectionOrigin resolves a section's absolute origin by walking its
// ancestor chain. A visited set guards against parent cycles, which
// cannot be constructed through the public API but could arrive in a
// hand-edited file before load repair runs.
func (d *Document) sectionOrigin(sid board.SectionID) board.Point {
	var origin board.Point
	visited := make(map[board.SectionID]struct{}, 4)
	for !sid.IsZero() {
		if _, seen := visited[sid]; seen {
			break
		}
		visited[sid] = struct{}{}
		s, ok := d.sections[sid]
		if !ok {
			break
		}
		origin.X += s.X
		origin.Y += s.Y
		sid = s.ParentSection
	}
	return origin
}

// AbsoluteBounds returns an element's bounding box in absolute stage
// coordinates, the box the spatial index holds for it. For connectors
// this is the span of the resolved endpoints.
func (d *Document) AbsoluteBounds(id board.ElementID) (board.Rect, bool) {
	e, ok := d.elements[id]
	if !ok {
		return board.Rect{}, false
	}
	d.flushDirty()
	return d.absBoundsOf(e), true
}

// SectionAbsoluteBounds returns a section's bounding box in absolute
// stage coordinates.
func (d *Document) SectionAbsoluteBounds(sid board.SectionID) (board.Rect, bool) {
	s, ok := d.sections[sid]
	if !ok {
		return board.Rect{}, false
	}
	return d.absSectionBounds(s), true
}

// absBoundsOf computes the absolute box without flushing; internal
// callers are responsible for derived-state freshness.
func (d *Document) absBoundsOf(e *board.Element) board.Rect {
	if e.Kind == board.KindConnector {
		if eps, ok := d.endpoints[e.ID]; ok {
			r := board.EmptyRect()
			return r.UnionPoint(eps.From).UnionPoint(eps.To)
		}
		return board.BoundsOf(e)
	}
	origin := d.sectionOrigin(e.ParentSection)
	return board.BoundsOf(e).Translate(origin.X, origin.Y)
}

// absSectionBounds computes a section's absolute box.
func (d *Document) absSectionBounds(s *board.Section) board.Rect {
	origin := d.sectionOrigin(s.ParentSection)
	return board.SectionBoundsOf(s).Translate(origin.X, origin.Y)
}

// absCenter returns the absolute centroid of an element.
func (d *Document) absCenter(e *board.Element) board.Point {
	return d.absBoundsOf(e).Center()
}
