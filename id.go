package board

// ElementID identifies an element record. IDs are opaque, type-tagged
// strings minted by the document; they are never reused within a session.
type ElementID string

// SectionID identifies a section record. The zero value means "no section",
// i.e. the absolute/root coordinate frame.
type SectionID string

// IsZero reports whether the id is the zero (absent) value.
func (id ElementID) IsZero() bool { return id == "" }

// IsZero reports whether the id is the zero (absent) value.
// A zero SectionID denotes the root frame.
func (id SectionID) IsZero() bool { return id == "" }
