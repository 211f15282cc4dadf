package board

import "strconv"

// Kind discriminates the element union. Every consumer that switches on
// Kind must handle all kinds exhaustively; Validate enforces that each
// record carries exactly the payload its kind requires.
type Kind uint8

// Element kinds.
const (
	KindText Kind = iota + 1
	KindSticky
	KindShape
	KindImage
	KindPen
	KindTable
	KindConnector
)

// String returns the lowercase kind name used in the persisted format.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindSticky:
		return "sticky"
	case KindShape:
		return "shape"
	case KindImage:
		return "image"
	case KindPen:
		return "pen"
	case KindTable:
		return "table"
	case KindConnector:
		return "connector"
	default:
		return "unknown"
	}
}

// KindFromString parses a persisted kind name. It returns 0 for an
// unrecognized name; callers treat that as a validation failure.
func KindFromString(s string) Kind {
	switch s {
	case "text":
		return KindText
	case "sticky":
		return KindSticky
	case "shape":
		return KindShape
	case "image":
		return KindImage
	case "pen":
		return KindPen
	case "table":
		return KindTable
	case "connector":
		return KindConnector
	default:
		return 0
	}
}

// ShapeKind selects the geometric primitive of a KindShape element.
type ShapeKind uint8

// Shape primitives.
const (
	ShapeRectangle ShapeKind = iota
	ShapeEllipse
	ShapeDiamond
	ShapeRoundedRectangle
)

// TextPayload holds the content and style of text and sticky elements.
type TextPayload struct {
	Content  string
	FontSize float64
	Color    string // CSS-style hex, e.g. "#1a1a2e"
	Fill     string // background fill for sticky notes
}

// ShapePayload holds the primitive and style of shape elements.
type ShapePayload struct {
	Shape       ShapeKind
	Fill        string
	Stroke      string
	StrokeWidth float64
	Label       string
}

// ImagePayload holds the source reference and natural raster dimensions
// of an image element. Natural dimensions come from the host's image
// decode capability; Width/Height on the element itself give the
// displayed size.
type ImagePayload struct {
	Source        string
	NaturalWidth  int
	NaturalHeight int
}

// TableCell is a single cell of a table element's grid.
type TableCell struct {
	Text string
}

// ConnectorPayload holds the two endpoint anchors of a connector element.
// A connector never has an owning section; its position is derived from
// its resolved endpoints.
type ConnectorPayload struct {
	From Anchor
	To   Anchor
}

// Element is the record for every board entity except sections.
// X and Y are relative to ParentSection, or absolute when ParentSection
// is zero. Exactly one kind payload must be set, matching Kind.
type Element struct {
	ID            ElementID
	Kind          Kind
	X, Y          float64
	Width, Height float64
	Rotation      float64 // radians, about the element center
	ZIndex        int
	ParentSection SectionID
	Locked        bool
	Visible       bool

	// Kind payloads. Validate checks that the one matching Kind is set.
	Text      *TextPayload
	Shape     *ShapePayload
	Image     *ImagePayload
	Points    []Point // pen strokes, relative to (X, Y)
	Cells     [][]TableCell
	Connector *ConnectorPayload
}

// Clone returns a deep copy of the element. Snapshots and clipboard
// interchange rely on clones never aliasing live payload slices.
func (e *Element) Clone() *Element {
	c := *e
	if e.Text != nil {
		t := *e.Text
		c.Text = &t
	}
	if e.Shape != nil {
		s := *e.Shape
		c.Shape = &s
	}
	if e.Image != nil {
		img := *e.Image
		c.Image = &img
	}
	if e.Points != nil {
		c.Points = make([]Point, len(e.Points))
		copy(c.Points, e.Points)
	}
	if e.Cells != nil {
		c.Cells = make([][]TableCell, len(e.Cells))
		for i, row := range e.Cells {
			c.Cells[i] = make([]TableCell, len(row))
			copy(c.Cells[i], row)
		}
	}
	if e.Connector != nil {
		conn := *e.Connector
		c.Connector = &conn
	}
	return &c
}

// Validate checks the record against its kind-specific rules.
// It returns a *ValidationError naming the offending field, or nil.
func (e *Element) Validate() error {
	if e.Width < 0 {
		return &ValidationError{Field: "Width", Msg: "must be non-negative"}
	}
	if e.Height < 0 {
		return &ValidationError{Field: "Height", Msg: "must be non-negative"}
	}
	switch e.Kind {
	case KindText, KindSticky:
		if e.Text == nil {
			return &ValidationError{Field: "Text", Msg: "required for " + e.Kind.String() + " elements"}
		}
	case KindShape:
		if e.Shape == nil {
			return &ValidationError{Field: "Shape", Msg: "required for shape elements"}
		}
	case KindImage:
		if e.Image == nil {
			return &ValidationError{Field: "Image", Msg: "required for image elements"}
		}
	case KindPen:
		if len(e.Points) == 0 {
			return &ValidationError{Field: "Points", Msg: "pen stroke needs at least one point"}
		}
	case KindTable:
		if len(e.Cells) == 0 || len(e.Cells[0]) == 0 {
			return &ValidationError{Field: "Cells", Msg: "table needs at least one cell"}
		}
		cols := len(e.Cells[0])
		for i, row := range e.Cells {
			if len(row) != cols {
				return &ValidationError{Field: "Cells", Msg: "row " + strconv.Itoa(i) + " breaks the rectangular grid"}
			}
		}
	case KindConnector:
		if e.Connector == nil {
			return &ValidationError{Field: "Connector", Msg: "required for connector elements"}
		}
		if !e.ParentSection.IsZero() {
			return &ValidationError{Field: "ParentSection", Msg: "connectors float; they cannot be owned by a section"}
		}
		if err := e.Connector.From.validate("Connector.From"); err != nil {
			return err
		}
		if err := e.Connector.To.validate("Connector.To"); err != nil {
			return err
		}
	default:
		return &ValidationError{Field: "Kind", Msg: "unknown element kind"}
	}
	return nil
}
