package doc

import (
	"github.com/gogpu/board"
)

// SectionPatch is a partial section update, validated as a whole like
// an element Patch. Nesting is fixed at creation; there is no parent
// field here.
type SectionPatch struct {
	X, Y          *float64
	Width, Height *float64
	ZIndex        *int
	Title         *string
	Locked        *bool
	Visible       *bool
}

// AddSection adds a section record and returns its id. Membership starts
// empty; elements join through AddElement with ParentSection set, or
// through Reparent. A section nests inside another by carrying its
// parent's id at creation.
func (d *Document) AddSection(s board.Section) (board.SectionID, error) {
	if s.ID.IsZero() {
		s.ID = d.mintSectionID()
	} else if _, exists := d.sections[s.ID]; exists {
		return "", &board.ValidationError{Field: "ID", Msg: "already in use"}
	}
	if len(s.Children) != 0 {
		return "", &board.ValidationError{Field: "Children", Msg: "membership is managed by the document"}
	}
	if !s.ParentSection.IsZero() {
		if _, ok := d.sections[s.ParentSection]; !ok {
			return "", &board.ValidationError{Field: "ParentSection", Msg: "section does not exist"}
		}
	}
	s.Visible = true
	if err := s.Validate(); err != nil {
		return "", err
	}
	rec := s.Clone()
	d.sections[rec.ID] = rec
	d.sectOrder = append(d.sectOrder, rec.ID)
	return rec.ID, d.afterMutation("add section")
}

// UpdateSection applies a patch to a section and propagates the geometry
// change to its contents:
//
//   - Move: children's stored local coordinates are already relative, so
//     only their derived state (index boxes, attached connectors) is
//     refreshed.
//   - Resize: each child's local offset is scaled by the size ratio, so
//     contents keep their proportional placement. Child sizes are not
//     scaled.
//
// Children are never re-resolved through point containment here; that
// path is reserved for an explicit drag of the child itself.
func (d *Document) UpdateSection(sid board.SectionID, p SectionPatch) error {
	cur, ok := d.sections[sid]
	if !ok {
		return &board.ValidationError{Field: "ID", Msg: "section does not exist"}
	}
	next := cur.Clone()
	applySectionPatch(next, p)
	if err := next.Validate(); err != nil {
		return err
	}

	oldW, oldH := cur.Width, cur.Height
	d.sections[sid] = next

	if next.Width != oldW || next.Height != oldH {
		rx, ry := 1.0, 1.0
		if oldW != 0 {
			rx = next.Width / oldW
		}
		if oldH != 0 {
			ry = next.Height / oldH
		}
		d.scaleContents(sid, rx, ry)
	}
	d.touchContents(sid)
	return d.afterMutation("update section")
}

// DeleteSection removes a section, cascading to its contents: every
// member element and nested section is deleted, and connectors
// referencing any of them degrade to frozen free points.
func (d *Document) DeleteSection(sid board.SectionID) error {
	if _, ok := d.sections[sid]; !ok {
		return &board.ValidationError{Field: "ID", Msg: "section does not exist"}
	}
	d.flushDirty()
	d.deleteSectionLocked(sid)
	return d.afterMutation("delete section")
}

func (d *Document) deleteSectionLocked(sid board.SectionID) {
	s := d.sections[sid]
	for _, nested := range d.childSections(sid) {
		d.deleteSectionLocked(nested)
	}
	for _, eid := range append([]board.ElementID(nil), s.Children...) {
		if e, ok := d.elements[eid]; ok {
			d.deleteElementLocked(e)
		}
	}
	d.degradeConnectorsFor(string(sid))
	delete(d.sections, sid)
	for i, oid := range d.sectOrder {
		if oid == sid {
			d.sectOrder = append(d.sectOrder[:i], d.sectOrder[i+1:]...)
			break
		}
	}
}

// SectionAt resolves which section owns an absolute point: the deepest
// visible section whose bounds contain it, ties broken by descending z
// order so the visually topmost section wins. A zero id means the point
// is on the open canvas. This backs drag-and-drop targeting.
func (d *Document) SectionAt(p board.Point) board.SectionID {
	d.flushDirty()
	var best board.SectionID
	bestDepth, bestZ, bestPos := -1, 0, -1
	for i, sid := range d.sectOrder {
		s := d.sections[sid]
		if !s.Visible {
			continue
		}
		if !d.absSectionBounds(s).ContainsPoint(p) {
			continue
		}
		depth := d.sectionDepth(sid)
		if depth < bestDepth {
			continue
		}
		if depth == bestDepth && (s.ZIndex < bestZ || (s.ZIndex == bestZ && i < bestPos)) {
			continue
		}
		best, bestDepth, bestZ, bestPos = sid, depth, s.ZIndex, i
	}
	return best
}

// Reparent moves an element into another section (or onto the open
// canvas for a zero id). The element's absolute position is preserved:
// only its parent pointer and stored local coordinates change, both in
// one atomic step. Reparenting to the current parent is a no-op.
func (d *Document) Reparent(id board.ElementID, newParent board.SectionID) error {
	e, ok := d.elements[id]
	if !ok {
		return &board.ValidationError{Field: "ID", Msg: "element does not exist"}
	}
	if e.Kind == board.KindConnector {
		return &board.ValidationError{Field: "Kind", Msg: "connectors float; they cannot be reparented"}
	}
	if !newParent.IsZero() {
		if _, ok := d.sections[newParent]; !ok {
			return &board.ValidationError{Field: "ParentSection", Msg: "section does not exist"}
		}
	}
	if e.ParentSection == newParent {
		return nil
	}

	abs := d.ToAbsolute(board.Pt(e.X, e.Y), e.ParentSection)
	if !e.ParentSection.IsZero() {
		if old, ok := d.sections[e.ParentSection]; ok {
			old.RemoveChild(id)
		}
	}
	if !newParent.IsZero() {
		d.sections[newParent].AddChild(id)
	}
	e.ParentSection = newParent
	local := d.ToLocal(abs, newParent)
	e.X, e.Y = local.X, local.Y

	d.markDirty(id)
	return d.afterMutation("reparent")
}

// Drop reparents an element onto whichever section owns the given
// absolute point, matching the "drop onto the section you can see"
// gesture. The element's absolute position is unchanged.
func (d *Document) Drop(id board.ElementID, at board.Point) error {
	return d.Reparent(id, d.SectionAt(at))
}

// sectionDepth counts ancestor sections.
func (d *Document) sectionDepth(sid board.SectionID) int {
	depth := 0
	visited := make(map[board.SectionID]struct{}, 4)
	for {
		s, ok := d.sections[sid]
		if !ok || s.ParentSection.IsZero() {
			return depth
		}
		if _, seen := visited[sid]; seen {
			return depth
		}
		visited[sid] = struct{}{}
		sid = s.ParentSection
		depth++
	}
}

// childSections returns the sections directly nested inside sid.
func (d *Document) childSections(sid board.SectionID) []board.SectionID {
	var out []board.SectionID
	for _, oid := range d.sectOrder {
		if d.sections[oid].ParentSection == sid {
			out = append(out, oid)
		}
	}
	return out
}

// scaleContents rescales the local offsets of the resized section's
// direct contents. Nested sections move with their scaled offset but
// keep their own size, so their contents need no rewrite.
func (d *Document) scaleContents(sid board.SectionID, rx, ry float64) {
	s := d.sections[sid]
	for _, eid := range s.Children {
		if e, ok := d.elements[eid]; ok {
			e.X *= rx
			e.Y *= ry
		}
	}
	for _, nested := range d.childSections(sid) {
		ns := d.sections[nested]
		ns.X *= rx
		ns.Y *= ry
	}
}

func applySectionPatch(s *board.Section, p SectionPatch) {
	if p.X != nil {
		s.X = *p.X
	}
	if p.Y != nil {
		s.Y = *p.Y
	}
	if p.Width != nil {
		s.Width = *p.Width
	}
	if p.Height != nil {
		s.Height = *p.Height
	}
	if p.ZIndex != nil {
		s.ZIndex = *p.ZIndex
	}
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Locked != nil {
		s.Locked = *p.Locked
	}
	if p.Visible != nil {
		s.Visible = *p.Visible
	}
}

// touchContents marks every element inside a section (recursively) and
// every connector attached to the section itself for derived refresh.
func (d *Document) touchContents(sid board.SectionID) {
	s := d.sections[sid]
	for _, eid := range s.Children {
		d.markDirty(eid)
	}
	for _, cid := range d.rev[string(sid)] {
		d.markDirty(cid)
	}
	for _, nested := range d.childSections(sid) {
		d.touchContents(nested)
	}
}
