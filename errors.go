package board

import "fmt"

// ValidationError reports a malformed record or patch. The offending
// operation is rejected as a whole; document state is unchanged.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Msg)
}

// ReferentialIntegrityError reports a broken parent/child or connector
// reference discovered while loading a persisted document. Loading
// repairs the record (detaching the reference or freezing the anchor),
// logs the repair and continues; this error is carried in the load
// report rather than failing the load.
type ReferentialIntegrityError struct {
	// Subject is the id of the record carrying the broken reference.
	Subject string
	// Ref is the id the record referenced.
	Ref string
	// Repair describes the applied repair.
	Repair string
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("referential integrity: %s references missing %s (%s)", e.Subject, e.Ref, e.Repair)
}

// IndexDesyncError reports a spatial index whose query results diverged
// from a linear scan of the store. The debug consistency check returns
// it in development builds; in production the document self-heals with
// a full index rebuild instead of surfacing the error.
type IndexDesyncError struct {
	Missing int // ids the index failed to report
	Extra   int // ids the index reported that the scan did not
}

func (e *IndexDesyncError) Error() string {
	return fmt.Sprintf("spatial index desync: %d missing, %d extra", e.Missing, e.Extra)
}
