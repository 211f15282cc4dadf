package board

// BoundsOf computes an element's bounding box in its own coordinate
// frame (relative to its parent section, or absolute when it has none).
// Rotation is applied about the element center, so the result is the
// axis-aligned box of the rotated geometry. The document converts this
// to absolute space before feeding the spatial index.
//
// Connectors have no intrinsic bounds here; their span is derived from
// resolved endpoints by the document, so BoundsOf returns the free-point
// envelope of their anchors as a fallback.
func BoundsOf(e *Element) Rect {
	var r Rect
	switch e.Kind {
	case KindPen:
		r = EmptyRect()
		for _, p := range e.Points {
			r = r.UnionPoint(Point{X: e.X + p.X, Y: e.Y + p.Y})
		}
		if r.IsEmpty() {
			r = Rect{MinX: e.X, MinY: e.Y, MaxX: e.X, MaxY: e.Y}
		}
	case KindConnector:
		r = EmptyRect()
		if e.Connector != nil {
			if e.Connector.From.Kind == AnchorFree {
				r = r.UnionPoint(e.Connector.From.Point)
			}
			if e.Connector.To.Kind == AnchorFree {
				r = r.UnionPoint(e.Connector.To.Point)
			}
		}
		if r.IsEmpty() {
			r = Rect{MinX: e.X, MinY: e.Y, MaxX: e.X, MaxY: e.Y}
		}
	default:
		r = RectXYWH(e.X, e.Y, e.Width, e.Height)
	}
	if e.Rotation != 0 {
		r = rotatedBounds(r, e.Rotation)
	}
	return r
}

// SectionBoundsOf computes a section's bounding box in its own frame.
func SectionBoundsOf(s *Section) Rect {
	return RectXYWH(s.X, s.Y, s.Width, s.Height)
}

// rotatedBounds returns the axis-aligned box of r rotated by angle
// radians about its center.
func rotatedBounds(r Rect, angle float64) Rect {
	c := r.Center()
	corners := [4]Point{
		{X: r.MinX, Y: r.MinY},
		{X: r.MaxX, Y: r.MinY},
		{X: r.MaxX, Y: r.MaxY},
		{X: r.MinX, Y: r.MaxY},
	}
	out := EmptyRect()
	for _, p := range corners {
		out = out.UnionPoint(p.RotateAround(c, angle))
	}
	return out
}
