package doc

import (
	"encoding/json"
	"fmt"

	"github.com/gogpu/board"
)

// FormatVersion is the persisted document format version this package
// writes. Older versions load as long as the shape still parses.
const FormatVersion = 1

// LoadReport describes what Load had to repair. Referential integrity
// violations never fail a load; the offending reference is detached or
// frozen, logged, and recorded here.
type LoadReport struct {
	Repairs []*board.ReferentialIntegrityError
	// Dropped lists ids of records too malformed to repair.
	Dropped []string
}

type fileJSON struct {
	Elements []elementJSON `json:"elements"`
	Sections []sectionJSON `json:"sections"`
	Version  int           `json:"version"`
}

type elementJSON struct {
	ID              string       `json:"id"`
	Kind            string       `json:"kind"`
	X               float64      `json:"x"`
	Y               float64      `json:"y"`
	Width           float64      `json:"width,omitempty"`
	Height          float64      `json:"height,omitempty"`
	Rotation        float64      `json:"rotation,omitempty"`
	ZIndex          int          `json:"zIndex,omitempty"`
	ParentSectionID string       `json:"parentSectionId,omitempty"`
	Locked          bool         `json:"locked,omitempty"`
	Visible         bool         `json:"visible"`
	Text            *textJSON    `json:"text,omitempty"`
	Shape           *shapeJSON   `json:"shape,omitempty"`
	Image           *imageJSON   `json:"image,omitempty"`
	Points          []pointJSON  `json:"points,omitempty"`
	Cells           [][]cellJSON `json:"cells,omitempty"`
	From            *anchorJSON  `json:"from,omitempty"`
	To              *anchorJSON  `json:"to,omitempty"`
}

type sectionJSON struct {
	ID              string   `json:"id"`
	Title           string   `json:"title,omitempty"`
	X               float64  `json:"x"`
	Y               float64  `json:"y"`
	Width           float64  `json:"width"`
	Height          float64  `json:"height"`
	ZIndex          int      `json:"zIndex,omitempty"`
	ParentSectionID string   `json:"parentSectionId,omitempty"`
	Locked          bool     `json:"locked,omitempty"`
	Visible         bool     `json:"visible"`
	ChildIDs        []string `json:"childIds"`
}

type textJSON struct {
	Content  string  `json:"content"`
	FontSize float64 `json:"fontSize,omitempty"`
	Color    string  `json:"color,omitempty"`
	Fill     string  `json:"fill,omitempty"`
}

type shapeJSON struct {
	Shape       string  `json:"shape"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Label       string  `json:"label,omitempty"`
}

type imageJSON struct {
	Source        string `json:"source"`
	NaturalWidth  int    `json:"naturalWidth,omitempty"`
	NaturalHeight int    `json:"naturalHeight,omitempty"`
}

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type cellJSON struct {
	Text string `json:"text"`
}

type anchorJSON struct {
	Kind      string  `json:"kind"` // "free" | "element" | "section"
	ElementID string  `json:"elementId,omitempty"`
	SectionID string  `json:"sectionId,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
}

var shapeKindNames = map[board.ShapeKind]string{
	board.ShapeRectangle:        "rectangle",
	board.ShapeEllipse:          "ellipse",
	board.ShapeDiamond:          "diamond",
	board.ShapeRoundedRectangle: "roundedRectangle",
}

func shapeKindFromName(s string) board.ShapeKind {
	for k, name := range shapeKindNames {
		if name == s {
			return k
		}
	}
	return board.ShapeRectangle
}

// Save serializes the document to the persisted JSON form. Coordinates
// are written exactly as stored (relative to the owning section), so the
// file is self-consistent without resolving absolute positions.
func (d *Document) Save() ([]byte, error) {
	d.flushDirty()
	f := fileJSON{Version: FormatVersion}
	for _, id := range d.elemOrder {
		f.Elements = append(f.Elements, encodeElement(d.elements[id]))
	}
	for _, id := range d.sectOrder {
		f.Sections = append(f.Sections, encodeSection(d.sections[id]))
	}
	return json.MarshalIndent(f, "", "  ")
}

// Load parses a persisted document. Malformed records are dropped and
// broken references repaired (invariants 1 and 2) rather than failing
// the load; the report lists everything that was touched. The spatial
// index and connector reverse index are rebuilt from scratch and the
// history is reset to a single "load" entry.
func Load(data []byte, opts ...Option) (*Document, *LoadReport, error) {
	var f fileJSON
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parse document: %w", err)
	}
	if f.Version > FormatVersion {
		return nil, nil, fmt.Errorf("document format version %d is newer than supported %d", f.Version, FormatVersion)
	}

	d := New(opts...)
	report := &LoadReport{}

	// Sections first, so element parent references can resolve.
	for _, sj := range f.Sections {
		if sj.ID == "" {
			report.Dropped = append(report.Dropped, sj.ID)
			continue
		}
		s := decodeSection(sj)
		if err := s.Validate(); err != nil {
			report.Dropped = append(report.Dropped, sj.ID)
			board.Logger().Warn("dropped malformed section", "id", sj.ID, "err", err)
			continue
		}
		if _, dup := d.sections[s.ID]; dup {
			// The first record with an id wins; a second one would leave
			// the z-order list pointing twice at one map entry.
			report.Dropped = append(report.Dropped, sj.ID)
			board.Logger().Warn("dropped duplicate section id", "id", sj.ID)
			continue
		}
		d.sections[s.ID] = s
		d.sectOrder = append(d.sectOrder, s.ID)
	}
	repairSectionParents(d, report)

	for _, ej := range f.Elements {
		if ej.ID == "" {
			report.Dropped = append(report.Dropped, ej.ID)
			continue
		}
		e := decodeElement(ej)
		if err := e.Validate(); err != nil {
			report.Dropped = append(report.Dropped, ej.ID)
			board.Logger().Warn("dropped malformed element", "id", ej.ID, "err", err)
			continue
		}
		if _, dup := d.elements[e.ID]; dup {
			report.Dropped = append(report.Dropped, ej.ID)
			board.Logger().Warn("dropped duplicate element id", "id", ej.ID)
			continue
		}
		d.elements[e.ID] = e
		d.elemOrder = append(d.elemOrder, e.ID)
	}
	repairParents(d, report)
	repairAnchors(d, report)

	// Membership is rebuilt from the elements' parent pointers, which
	// are authoritative; stale childIds entries in the file are
	// discarded silently since the repaired membership supersedes them.
	for _, s := range d.sections {
		s.Children = nil
	}
	for _, id := range d.elemOrder {
		e := d.elements[id]
		if !e.ParentSection.IsZero() {
			d.sections[e.ParentSection].AddChild(id)
		}
	}

	d.rebuildDerived()
	d.history = newHistory(d.opts.historyCapacity)
	d.history.record("load", d.takeSnapshot())
	d.version++
	board.Logger().Info("document loaded",
		"elements", len(d.elements), "sections", len(d.sections),
		"repairs", len(report.Repairs), "dropped", len(report.Dropped))
	return d, report, nil
}

// repairSectionParents detaches sections whose parent is missing and
// breaks parent cycles.
func repairSectionParents(d *Document, report *LoadReport) {
	for _, sid := range d.sectOrder {
		s := d.sections[sid]
		if s.ParentSection.IsZero() {
			continue
		}
		if _, ok := d.sections[s.ParentSection]; !ok {
			repair(report, string(sid), string(s.ParentSection), "section detached to root")
			s.ParentSection = ""
		}
	}
	for _, sid := range d.sectOrder {
		visited := map[board.SectionID]struct{}{sid: {}}
		cur := d.sections[sid]
		for !cur.ParentSection.IsZero() {
			next := cur.ParentSection
			if _, seen := visited[next]; seen {
				repair(report, string(cur.ID), string(next), "parent cycle broken")
				cur.ParentSection = ""
				break
			}
			visited[next] = struct{}{}
			cur = d.sections[next]
		}
	}
}

// repairParents detaches elements whose parent section is missing.
// The stored coordinates become absolute as-is; there is no better
// frame to re-derive them from once the section is gone.
func repairParents(d *Document, report *LoadReport) {
	for _, id := range d.elemOrder {
		e := d.elements[id]
		if e.ParentSection.IsZero() {
			continue
		}
		if _, ok := d.sections[e.ParentSection]; !ok {
			repair(report, string(id), string(e.ParentSection), "element detached to root")
			e.ParentSection = ""
		}
	}
}

// repairAnchors freezes connector anchors whose target no longer exists
// to free points at the connector's stored span corners, the last
// positions the file recorded for it.
func repairAnchors(d *Document, report *LoadReport) {
	for _, id := range d.elemOrder {
		e := d.elements[id]
		if e.Kind != board.KindConnector {
			continue
		}
		c := e.Connector
		if broken(d, c.From) {
			repair(report, string(id), anchorKey(c.From), "from anchor frozen")
			c.From = board.FreeAnchor(board.Pt(e.X, e.Y))
		}
		if broken(d, c.To) {
			repair(report, string(id), anchorKey(c.To), "to anchor frozen")
			c.To = board.FreeAnchor(board.Pt(e.X+e.Width, e.Y+e.Height))
		}
	}
}

func broken(d *Document, a board.Anchor) bool {
	switch a.Kind {
	case board.AnchorElement:
		_, ok := d.elements[a.Element]
		return !ok
	case board.AnchorSection:
		_, ok := d.sections[a.Section]
		return !ok
	default:
		return false
	}
}

func repair(report *LoadReport, subject, ref, action string) {
	e := &board.ReferentialIntegrityError{Subject: subject, Ref: ref, Repair: action}
	report.Repairs = append(report.Repairs, e)
	board.Logger().Warn("repaired reference", "subject", subject, "ref", ref, "repair", action)
}

func encodeElement(e *board.Element) elementJSON {
	ej := elementJSON{
		ID:              string(e.ID),
		Kind:            e.Kind.String(),
		X:               e.X,
		Y:               e.Y,
		Width:           e.Width,
		Height:          e.Height,
		Rotation:        e.Rotation,
		ZIndex:          e.ZIndex,
		ParentSectionID: string(e.ParentSection),
		Locked:          e.Locked,
		Visible:         e.Visible,
	}
	if e.Text != nil {
		ej.Text = &textJSON{Content: e.Text.Content, FontSize: e.Text.FontSize, Color: e.Text.Color, Fill: e.Text.Fill}
	}
	if e.Shape != nil {
		ej.Shape = &shapeJSON{
			Shape: shapeKindNames[e.Shape.Shape], Fill: e.Shape.Fill,
			Stroke: e.Shape.Stroke, StrokeWidth: e.Shape.StrokeWidth, Label: e.Shape.Label,
		}
	}
	if e.Image != nil {
		ej.Image = &imageJSON{Source: e.Image.Source, NaturalWidth: e.Image.NaturalWidth, NaturalHeight: e.Image.NaturalHeight}
	}
	for _, p := range e.Points {
		ej.Points = append(ej.Points, pointJSON{X: p.X, Y: p.Y})
	}
	for _, row := range e.Cells {
		r := make([]cellJSON, len(row))
		for i, c := range row {
			r[i] = cellJSON{Text: c.Text}
		}
		ej.Cells = append(ej.Cells, r)
	}
	if e.Connector != nil {
		from := encodeAnchor(e.Connector.From)
		to := encodeAnchor(e.Connector.To)
		ej.From, ej.To = &from, &to
	}
	return ej
}

func decodeElement(ej elementJSON) *board.Element {
	e := &board.Element{
		ID:            board.ElementID(ej.ID),
		Kind:          board.KindFromString(ej.Kind),
		X:             ej.X,
		Y:             ej.Y,
		Width:         ej.Width,
		Height:        ej.Height,
		Rotation:      ej.Rotation,
		ZIndex:        ej.ZIndex,
		ParentSection: board.SectionID(ej.ParentSectionID),
		Locked:        ej.Locked,
		Visible:       ej.Visible,
	}
	if ej.Text != nil {
		e.Text = &board.TextPayload{Content: ej.Text.Content, FontSize: ej.Text.FontSize, Color: ej.Text.Color, Fill: ej.Text.Fill}
	}
	if ej.Shape != nil {
		e.Shape = &board.ShapePayload{
			Shape: shapeKindFromName(ej.Shape.Shape), Fill: ej.Shape.Fill,
			Stroke: ej.Shape.Stroke, StrokeWidth: ej.Shape.StrokeWidth, Label: ej.Shape.Label,
		}
	}
	if ej.Image != nil {
		e.Image = &board.ImagePayload{Source: ej.Image.Source, NaturalWidth: ej.Image.NaturalWidth, NaturalHeight: ej.Image.NaturalHeight}
	}
	for _, p := range ej.Points {
		e.Points = append(e.Points, board.Pt(p.X, p.Y))
	}
	for _, row := range ej.Cells {
		r := make([]board.TableCell, len(row))
		for i, c := range row {
			r[i] = board.TableCell{Text: c.Text}
		}
		e.Cells = append(e.Cells, r)
	}
	if ej.From != nil && ej.To != nil {
		e.Connector = &board.ConnectorPayload{From: decodeAnchor(*ej.From), To: decodeAnchor(*ej.To)}
	}
	return e
}

func encodeSection(s *board.Section) sectionJSON {
	sj := sectionJSON{
		ID:              string(s.ID),
		Title:           s.Title,
		X:               s.X,
		Y:               s.Y,
		Width:           s.Width,
		Height:          s.Height,
		ZIndex:          s.ZIndex,
		ParentSectionID: string(s.ParentSection),
		Locked:          s.Locked,
		Visible:         s.Visible,
		ChildIDs:        make([]string, 0, len(s.Children)),
	}
	for _, c := range s.Children {
		sj.ChildIDs = append(sj.ChildIDs, string(c))
	}
	return sj
}

func decodeSection(sj sectionJSON) *board.Section {
	s := &board.Section{
		ID:            board.SectionID(sj.ID),
		Title:         sj.Title,
		X:             sj.X,
		Y:             sj.Y,
		Width:         sj.Width,
		Height:        sj.Height,
		ZIndex:        sj.ZIndex,
		ParentSection: board.SectionID(sj.ParentSectionID),
		Locked:        sj.Locked,
		Visible:       sj.Visible,
	}
	for _, c := range sj.ChildIDs {
		s.Children = append(s.Children, board.ElementID(c))
	}
	return s
}

func encodeAnchor(a board.Anchor) anchorJSON {
	switch a.Kind {
	case board.AnchorElement:
		return anchorJSON{Kind: "element", ElementID: string(a.Element)}
	case board.AnchorSection:
		return anchorJSON{Kind: "section", SectionID: string(a.Section)}
	default:
		return anchorJSON{Kind: "free", X: a.Point.X, Y: a.Point.Y}
	}
}

func decodeAnchor(aj anchorJSON) board.Anchor {
	switch aj.Kind {
	case "element":
		return board.ElementAnchor(board.ElementID(aj.ElementID))
	case "section":
		return board.SectionAnchor(board.SectionID(aj.SectionID))
	default:
		return board.FreeAnchor(board.Pt(aj.X, aj.Y))
	}
}
