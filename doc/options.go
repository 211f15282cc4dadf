package doc

import (
	"github.com/gogpu/board/quadtree"
)

// TextMeasurer sizes a text run. When a Document has one configured,
// text and sticky elements added with zero width or height are auto-
// sized from their content (see board/text for the shaping-backed
// implementation).
type TextMeasurer interface {
	Measure(s string, size float64) (w, h float64)
}

// Option configures a Document during creation.
//
// Example:
//
//	d := doc.New(
//	    doc.WithHistoryCapacity(100),
//	    doc.WithConsistencyChecks(true),
//	)
type Option func(*options)

type options struct {
	historyCapacity   int
	consistencyChecks bool
	measurer          TextMeasurer
	treeOpts          []quadtree.Option
}

func defaultOptions() options {
	return options{
		historyCapacity: DefaultHistoryCapacity,
	}
}

// WithHistoryCapacity sets the undo ring capacity (default 50).
// Values below 2 are ignored; the ring needs room for at least the
// current state and one undo step.
func WithHistoryCapacity(n int) Option {
	return func(o *options) {
		if n >= 2 {
			o.historyCapacity = n
		}
	}
}

// WithConsistencyChecks enables the debug-mode index verification: after
// every flushed mutation the spatial index is compared against a linear
// scan of the store. On divergence the index is rebuilt and the mutating
// call returns a *board.IndexDesyncError. Without checks (the production
// default) divergence is still self-healed on detection but never
// surfaced.
func WithConsistencyChecks(enabled bool) Option {
	return func(o *options) {
		o.consistencyChecks = enabled
	}
}

// WithMeasurer configures text auto-sizing.
func WithMeasurer(m TextMeasurer) Option {
	return func(o *options) {
		o.measurer = m
	}
}

// WithIndexOptions passes construction parameters through to the
// spatial index (bucket size, depth limit, initial world bounds).
func WithIndexOptions(opts ...quadtree.Option) Option {
	return func(o *options) {
		o.treeOpts = append(o.treeOpts, opts...)
	}
}

// Float returns a pointer to v, for optional Patch fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for optional Patch fields.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for optional Patch fields.
func Bool(v bool) *bool { return &v }

// Str returns a pointer to v, for optional Patch fields.
func Str(v string) *string { return &v }
