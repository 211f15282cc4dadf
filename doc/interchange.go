package doc

import (
	"encoding/json"
	"fmt"

	"github.com/gogpu/board"
)

// ExportElements serializes a subset of elements in the persisted JSON
// form, suitable for clipboard interchange. Coordinates are converted
// to absolute (the subset leaves its sections behind) and connector
// anchors whose target is outside the subset are frozen to their
// current resolved endpoints, so the payload is self-contained.
func (d *Document) ExportElements(ids []board.ElementID) ([]byte, error) {
	d.flushDirty()
	included := make(map[board.ElementID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := d.elements[id]; ok {
			included[id] = struct{}{}
		}
	}
	if len(included) == 0 {
		return nil, &board.ValidationError{Field: "ids", Msg: "nothing to export"}
	}
	f := fileJSON{Version: FormatVersion}
	for _, id := range d.elemOrder {
		if _, ok := included[id]; !ok {
			continue
		}
		e := d.elements[id].Clone()
		if !e.ParentSection.IsZero() {
			abs := d.ToAbsolute(board.Pt(e.X, e.Y), e.ParentSection)
			e.X, e.Y = abs.X, abs.Y
			e.ParentSection = ""
		}
		if e.Kind == board.KindConnector {
			eps := d.endpoints[id]
			if t := e.Connector.From; t.IsAttached() {
				if _, in := included[t.Element]; !in || t.Kind == board.AnchorSection {
					e.Connector.From = board.FreeAnchor(eps.From)
				}
			}
			if t := e.Connector.To; t.IsAttached() {
				if _, in := included[t.Element]; !in || t.Kind == board.AnchorSection {
					e.Connector.To = board.FreeAnchor(eps.To)
				}
			}
		}
		f.Elements = append(f.Elements, encodeElement(e))
	}
	return json.Marshal(f)
}

// ImportElements inserts previously exported elements at an offset,
// minting fresh ids (ids are never reused, so a paste never collides
// with the copy source). Connector anchors are remapped onto the newly
// minted ids. The whole paste is one history transaction, and the
// spatial index is rebuilt once instead of paying per-element
// incremental cost.
func (d *Document) ImportElements(data []byte, offset board.Point) ([]board.ElementID, error) {
	var f fileJSON
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse interchange payload: %w", err)
	}

	remap := make(map[board.ElementID]board.ElementID, len(f.Elements))
	records := make([]*board.Element, 0, len(f.Elements))
	for _, ej := range f.Elements {
		e := decodeElement(ej)
		e.ParentSection = ""
		oldID := e.ID
		e.ID = d.mintElementID()
		if !oldID.IsZero() {
			remap[oldID] = e.ID
		}
		if err := e.Validate(); err != nil {
			return nil, err
		}
		records = append(records, e)
	}
	if len(records) == 0 {
		return nil, &board.ValidationError{Field: "data", Msg: "payload has no elements"}
	}

	out := make([]board.ElementID, 0, len(records))
	for _, e := range records {
		if e.Kind == board.KindConnector {
			remapAnchor(&e.Connector.From, remap, offset)
			remapAnchor(&e.Connector.To, remap, offset)
		} else {
			e.X += offset.X
			e.Y += offset.Y
		}
		d.elements[e.ID] = e
		d.elemOrder = append(d.elemOrder, e.ID)
		out = append(out, e.ID)
	}
	d.dirtyAll = true
	if err := d.afterMutation("paste"); err != nil {
		return out, err
	}
	return out, nil
}

// remapAnchor rewires an imported anchor: attached anchors follow the
// id remapping, free points take the paste offset. An attached anchor
// whose target was not part of the payload freezes where it was
// (ExportElements normally pre-freezes these; this is the fallback for
// foreign payloads).
func remapAnchor(a *board.Anchor, remap map[board.ElementID]board.ElementID, offset board.Point) {
	switch a.Kind {
	case board.AnchorFree:
		a.Point = a.Point.Add(offset)
	case board.AnchorElement:
		if nid, ok := remap[a.Element]; ok {
			a.Element = nid
		} else {
			*a = board.FreeAnchor(board.Point{})
		}
	case board.AnchorSection:
		*a = board.FreeAnchor(board.Point{})
	}
}
