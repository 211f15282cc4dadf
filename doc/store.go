package doc

import (
	"github.com/gogpu/board"
)

// Patch is a partial element update. Nil fields are left untouched;
// payload fields replace the whole payload when set. A patch is applied
// to a copy and validated as a whole: on failure nothing changes and the
// *board.ValidationError names the offending field.
//
// Reparenting is not expressible as a patch; use Reparent, which keeps
// the parent pointer and the stored coordinates consistent atomically.
type Patch struct {
	X, Y          *float64
	Width, Height *float64
	Rotation      *float64
	ZIndex        *int
	Locked        *bool
	Visible       *bool

	Text      *board.TextPayload
	Shape     *board.ShapePayload
	Image     *board.ImagePayload
	Points    []board.Point
	Cells     [][]board.TableCell
	Connector *board.ConnectorPayload
}

// AddElement adds a record to the store and returns its id. A zero id is
// minted; a caller-supplied id must be unused. Newly added elements are
// always visible; hide them afterwards with a patch.
//
// Text and sticky elements with zero width or height are auto-sized from
// their content when the document has a TextMeasurer configured.
//
// The mutation, the spatial index insert and any connector resolution
// happen before AddElement returns (one transaction, one history entry
// outside a gesture).
func (d *Document) AddElement(e board.Element) (board.ElementID, error) {
	if e.ID.IsZero() {
		e.ID = d.mintElementID()
	} else if _, exists := d.elements[e.ID]; exists {
		return "", &board.ValidationError{Field: "ID", Msg: "already in use"}
	}
	e.Visible = true
	if !e.ParentSection.IsZero() {
		if _, ok := d.sections[e.ParentSection]; !ok {
			return "", &board.ValidationError{Field: "ParentSection", Msg: "section does not exist"}
		}
	}
	d.autosize(&e)
	if err := e.Validate(); err != nil {
		return "", err
	}
	if e.Kind == board.KindConnector {
		if err := d.checkAnchorTargets(e.Connector); err != nil {
			return "", err
		}
	}

	rec := e.Clone()
	d.elements[rec.ID] = rec
	d.elemOrder = append(d.elemOrder, rec.ID)
	if !rec.ParentSection.IsZero() {
		d.sections[rec.ParentSection].AddChild(rec.ID)
	}
	if rec.Kind == board.KindConnector {
		d.addReverse(rec.ID, rec.Connector)
	} else {
		d.index.Insert(rec.ID, d.absBoundsOf(rec))
	}
	d.markDirty(rec.ID)
	return rec.ID, d.afterMutation("add " + rec.Kind.String())
}

// UpdateElement applies a patch to an element. Validation failures
// reject the whole patch; no partial apply is observable. Dependent
// connectors are re-resolved before the call returns.
func (d *Document) UpdateElement(id board.ElementID, p Patch) error {
	cur, ok := d.elements[id]
	if !ok {
		return &board.ValidationError{Field: "ID", Msg: "element does not exist"}
	}
	next := cur.Clone()
	applyPatch(next, p)
	if err := next.Validate(); err != nil {
		return err
	}
	if next.Kind == board.KindConnector {
		if err := d.checkAnchorTargets(next.Connector); err != nil {
			return err
		}
	}

	if cur.Kind == board.KindConnector && p.Connector != nil {
		d.removeReverse(id, cur.Connector)
		d.addReverse(id, next.Connector)
	}
	d.elements[id] = next
	d.markDirty(id)
	return d.afterMutation("update " + next.Kind.String())
}

// DeleteElement removes an element. Deleting a connector removes it
// outright; deleting any other element first degrades every connector
// referencing it, freezing those anchors at their last resolved absolute
// positions (connectors are never silently deleted).
func (d *Document) DeleteElement(id board.ElementID) error {
	e, ok := d.elements[id]
	if !ok {
		return &board.ValidationError{Field: "ID", Msg: "element does not exist"}
	}
	// Endpoint caches must be current before anchors freeze to them.
	d.flushDirty()
	d.deleteElementLocked(e)
	return d.afterMutation("delete " + e.Kind.String())
}

// deleteElementLocked removes one element without recording history;
// section cascade and load repair reuse it.
func (d *Document) deleteElementLocked(e *board.Element) {
	id := e.ID
	if e.Kind == board.KindConnector {
		d.removeReverse(id, e.Connector)
		delete(d.endpoints, id)
	} else {
		d.degradeConnectorsFor(string(id))
		if !e.ParentSection.IsZero() {
			if s, ok := d.sections[e.ParentSection]; ok {
				s.RemoveChild(id)
			}
		}
	}
	d.index.Remove(id)
	delete(d.elements, id)
	delete(d.dirty, id)
	for i, oid := range d.elemOrder {
		if oid == id {
			d.elemOrder = append(d.elemOrder[:i], d.elemOrder[i+1:]...)
			break
		}
	}
	d.sel.drop(id)
}

// checkAnchorTargets verifies that attached anchor targets exist.
func (d *Document) checkAnchorTargets(c *board.ConnectorPayload) error {
	for _, pair := range [2]struct {
		field string
		a     board.Anchor
	}{{"Connector.From", c.From}, {"Connector.To", c.To}} {
		switch pair.a.Kind {
		case board.AnchorElement:
			if _, ok := d.elements[pair.a.Element]; !ok {
				return &board.ValidationError{Field: pair.field, Msg: "target element does not exist"}
			}
		case board.AnchorSection:
			if _, ok := d.sections[pair.a.Section]; !ok {
				return &board.ValidationError{Field: pair.field, Msg: "target section does not exist"}
			}
		}
	}
	return nil
}

// autosize fills zero dimensions of text-bearing elements from their
// measured content.
func (d *Document) autosize(e *board.Element) {
	if d.opts.measurer == nil || e.Text == nil {
		return
	}
	if e.Kind != board.KindText && e.Kind != board.KindSticky {
		return
	}
	if e.Width != 0 && e.Height != 0 {
		return
	}
	size := e.Text.FontSize
	if size <= 0 {
		size = 14
	}
	w, h := d.opts.measurer.Measure(e.Text.Content, size)
	if e.Width == 0 {
		e.Width = w
	}
	if e.Height == 0 {
		e.Height = h
	}
}

func applyPatch(e *board.Element, p Patch) {
	if p.X != nil {
		e.X = *p.X
	}
	if p.Y != nil {
		e.Y = *p.Y
	}
	if p.Width != nil {
		e.Width = *p.Width
	}
	if p.Height != nil {
		e.Height = *p.Height
	}
	if p.Rotation != nil {
		e.Rotation = *p.Rotation
	}
	if p.ZIndex != nil {
		e.ZIndex = *p.ZIndex
	}
	if p.Locked != nil {
		e.Locked = *p.Locked
	}
	if p.Visible != nil {
		e.Visible = *p.Visible
	}
	if p.Text != nil {
		t := *p.Text
		e.Text = &t
	}
	if p.Shape != nil {
		s := *p.Shape
		e.Shape = &s
	}
	if p.Image != nil {
		img := *p.Image
		e.Image = &img
	}
	if p.Points != nil {
		e.Points = make([]board.Point, len(p.Points))
		copy(e.Points, p.Points)
	}
	if p.Cells != nil {
		e.Cells = make([][]board.TableCell, len(p.Cells))
		for i, row := range p.Cells {
			e.Cells[i] = make([]board.TableCell, len(row))
			copy(e.Cells[i], row)
		}
	}
	if p.Connector != nil {
		c := *p.Connector
		e.Connector = &c
	}
}
