package board

// AnchorKind discriminates a connector endpoint reference.
type AnchorKind uint8

// Anchor kinds.
const (
	// AnchorFree pins the endpoint to a fixed absolute point.
	AnchorFree AnchorKind = iota
	// AnchorElement attaches the endpoint to an element's centroid.
	AnchorElement
	// AnchorSection attaches the endpoint to a section's centroid.
	AnchorSection
)

// Anchor is one endpoint reference of a connector: either a free absolute
// point, or an attachment to an element or section. When an attached
// target is deleted the document rewrites the anchor in place to a free
// point frozen at the last resolved absolute position; connectors are
// never silently deleted.
type Anchor struct {
	Kind    AnchorKind
	Element ElementID // set when Kind == AnchorElement
	Section SectionID // set when Kind == AnchorSection
	Point   Point     // set when Kind == AnchorFree
}

// FreeAnchor returns an anchor pinned to an absolute point.
func FreeAnchor(p Point) Anchor {
	return Anchor{Kind: AnchorFree, Point: p}
}

// ElementAnchor returns an anchor attached to an element.
func ElementAnchor(id ElementID) Anchor {
	return Anchor{Kind: AnchorElement, Element: id}
}

// SectionAnchor returns an anchor attached to a section.
func SectionAnchor(id SectionID) Anchor {
	return Anchor{Kind: AnchorSection, Section: id}
}

// IsAttached reports whether the anchor references an element or section.
func (a Anchor) IsAttached() bool {
	return a.Kind == AnchorElement || a.Kind == AnchorSection
}

func (a Anchor) validate(field string) error {
	switch a.Kind {
	case AnchorFree:
		return nil
	case AnchorElement:
		if a.Element.IsZero() {
			return &ValidationError{Field: field, Msg: "element anchor has no element id"}
		}
	case AnchorSection:
		if a.Section.IsZero() {
			return &ValidationError{Field: field, Msg: "section anchor has no section id"}
		}
	default:
		return &ValidationError{Field: field, Msg: "unknown anchor kind"}
	}
	return nil
}
