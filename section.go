package board

// Section is a container with its own local coordinate origin. Elements
// owned by a section store their coordinates relative to the section's
// top-left corner; sections themselves may nest, in which case X and Y
// are relative to the parent section.
//
// Children holds element ids in insertion order. Order is a real contract:
// serialization and child iteration during section transforms follow it,
// so the persisted form is stable across runs. Child sections are not
// listed here; they point back via ParentSection.
type Section struct {
	ID            SectionID
	Title         string
	X, Y          float64
	Width, Height float64
	ZIndex        int
	ParentSection SectionID
	Locked        bool
	Visible       bool
	Children      []ElementID
}

// Clone returns a deep copy of the section.
func (s *Section) Clone() *Section {
	c := *s
	if s.Children != nil {
		c.Children = make([]ElementID, len(s.Children))
		copy(c.Children, s.Children)
	}
	return &c
}

// HasChild reports whether id is a member of the section.
func (s *Section) HasChild(id ElementID) bool {
	for _, c := range s.Children {
		if c == id {
			return true
		}
	}
	return false
}

// AddChild appends id to the membership set. Adding an existing member
// is a no-op, preserving set semantics over the ordered slice.
func (s *Section) AddChild(id ElementID) {
	if s.HasChild(id) {
		return
	}
	s.Children = append(s.Children, id)
}

// RemoveChild removes id from the membership set if present.
func (s *Section) RemoveChild(id ElementID) {
	for i, c := range s.Children {
		if c == id {
			s.Children = append(s.Children[:i], s.Children[i+1:]...)
			return
		}
	}
}

// Validate checks the record's geometry.
func (s *Section) Validate() error {
	if s.Width < 0 {
		return &ValidationError{Field: "Width", Msg: "must be non-negative"}
	}
	if s.Height < 0 {
		return &ValidationError{Field: "Height", Msg: "must be non-negative"}
	}
	return nil
}
