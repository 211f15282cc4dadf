package doc

import (
	"math"

	"github.com/gogpu/board"
)

// Endpoints returns a connector's resolved absolute endpoints.
// The second result is false for unknown ids and non-connectors.
func (d *Document) Endpoints(id board.ElementID) (ConnectorEndpoints, bool) {
	d.flushDirty()
	eps, ok := d.endpoints[id]
	return eps, ok
}

// Connectors returns the ids of connectors referencing the given element
// or section id, in registration order. Exposed for tooling; the engine
// itself consumes the reverse index internally.
func (d *Document) Connectors(target string) []board.ElementID {
	out := make([]board.ElementID, len(d.rev[target]))
	copy(out, d.rev[target])
	return out
}

// ResolveEndpoint resolves a single anchor to an absolute point:
// free anchors as-is, attached anchors to the target's centroid.
func (d *Document) ResolveEndpoint(a board.Anchor) board.Point {
	d.flushDirty()
	p, _ := d.resolveAnchor(a, board.Point{})
	return p
}

// anchorKey returns the reverse-index key for an attached anchor,
// or "" for a free anchor.
func anchorKey(a board.Anchor) string {
	switch a.Kind {
	case board.AnchorElement:
		return string(a.Element)
	case board.AnchorSection:
		return string(a.Section)
	default:
		return ""
	}
}

// addReverse registers a connector under both attached anchor targets.
func (d *Document) addReverse(cid board.ElementID, c *board.ConnectorPayload) {
	for _, key := range [2]string{anchorKey(c.From), anchorKey(c.To)} {
		if key == "" {
			continue
		}
		if containsID(d.rev[key], cid) {
			continue
		}
		d.rev[key] = append(d.rev[key], cid)
	}
}

// removeReverse unregisters a connector from its anchor targets.
func (d *Document) removeReverse(cid board.ElementID, c *board.ConnectorPayload) {
	for _, key := range [2]string{anchorKey(c.From), anchorKey(c.To)} {
		if key == "" {
			continue
		}
		ids := d.rev[key]
		for i, id := range ids {
			if id == cid {
				d.rev[key] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
		if len(d.rev[key]) == 0 {
			delete(d.rev, key)
		}
	}
}

// containsID reports membership in a small id slice.
func containsID(ids []board.ElementID, id board.ElementID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// recomputeConnector re-resolves a connector's endpoints from the
// current store state, refreshes the endpoint cache, the connector's
// stored derived position and its spatial index box.
func (d *Document) recomputeConnector(cid board.ElementID) {
	e, ok := d.elements[cid]
	if !ok || e.Connector == nil {
		return
	}
	c := e.Connector

	fromC, fromB := d.resolveAnchor(c.From, d.lastEndpoint(cid, true))
	toC, toB := d.resolveAnchor(c.To, d.lastEndpoint(cid, false))

	// Approximate edge attachment: slide each attached endpoint from its
	// target's centroid toward the opposite centroid until it meets the
	// target's boundary. Free anchors have no target box and stay put.
	from := edgePoint(fromB, fromC, toC)
	to := edgePoint(toB, toC, fromC)

	d.endpoints[cid] = ConnectorEndpoints{From: from, To: to}

	span := board.EmptyRect()
	span = span.UnionPoint(from).UnionPoint(to)
	// The stored position is derived: the span's top-left corner. It is
	// what persists, and what load repair freezes anchors to when a
	// target id no longer resolves.
	e.X, e.Y = span.MinX, span.MinY
	e.Width, e.Height = span.Width(), span.Height()
	d.index.Update(cid, span)
}

// resolveAnchor resolves one anchor to its absolute point and, for
// attached anchors, the target's absolute bounds. A missing target
// (transiently possible mid-repair) resolves to the fallback point.
func (d *Document) resolveAnchor(a board.Anchor, fallback board.Point) (board.Point, board.Rect) {
	switch a.Kind {
	case board.AnchorElement:
		if t, ok := d.elements[a.Element]; ok {
			b := d.absBoundsOf(t)
			return b.Center(), b
		}
	case board.AnchorSection:
		if s, ok := d.sections[a.Section]; ok {
			b := d.absSectionBounds(s)
			return b.Center(), b
		}
	default:
		return a.Point, board.EmptyRect()
	}
	return fallback, board.EmptyRect()
}

// lastEndpoint returns the cached endpoint for fallback use.
func (d *Document) lastEndpoint(cid board.ElementID, from bool) board.Point {
	eps := d.endpoints[cid]
	if from {
		return eps.From
	}
	return eps.To
}

// degradeConnectorsFor rewrites every anchor referencing the deleted
// target to a free point frozen at its last resolved absolute position.
// The connectors themselves survive.
func (d *Document) degradeConnectorsFor(targetKey string) {
	ids := d.rev[targetKey]
	if len(ids) == 0 {
		return
	}
	for _, cid := range append([]board.ElementID(nil), ids...) {
		e, ok := d.elements[cid]
		if !ok || e.Connector == nil {
			continue
		}
		eps := d.endpoints[cid]
		if anchorKey(e.Connector.From) == targetKey {
			e.Connector.From = board.FreeAnchor(eps.From)
		}
		if anchorKey(e.Connector.To) == targetKey {
			e.Connector.To = board.FreeAnchor(eps.To)
		}
		d.markDirty(cid)
		board.Logger().Warn("connector anchor frozen; target deleted",
			"connector", string(cid), "target", targetKey)
	}
	delete(d.rev, targetKey)
}

// edgePoint returns where the segment from a target's centroid c toward
// the opposite endpoint crosses the target's bounds. Degenerate and
// overlapping cases fall back to the centroid.
func edgePoint(r board.Rect, c, toward board.Point) board.Point {
	if r.IsEmpty() || (r.Width() == 0 && r.Height() == 0) {
		return c
	}
	dx, dy := toward.X-c.X, toward.Y-c.Y
	if dx == 0 && dy == 0 {
		return c
	}
	t := math.Inf(1)
	if dx > 0 {
		t = math.Min(t, (r.MaxX-c.X)/dx)
	} else if dx < 0 {
		t = math.Min(t, (r.MinX-c.X)/dx)
	}
	if dy > 0 {
		t = math.Min(t, (r.MaxY-c.Y)/dy)
	} else if dy < 0 {
		t = math.Min(t, (r.MinY-c.Y)/dy)
	}
	if math.IsInf(t, 1) || t >= 1 || t < 0 {
		// The opposite endpoint lies inside the target (or the geometry
		// is degenerate); attach at the centroid.
		return c
	}
	return board.Point{X: c.X + dx*t, Y: c.Y + dy*t}
}
