// Package doc implements the whiteboard document: the authoritative
// element store plus every piece of derived state that must stay
// consistent with it.
//
// A Document owns:
//   - the element and section records (id-indexed, insertion-ordered)
//   - the quadtree spatial index over absolute bounding boxes
//   - the connector reverse index (anchor target -> connector ids)
//   - the resolved-endpoint cache for connectors
//   - linear undo/redo history of deep snapshots
//   - the active selection and its transform coordinator
//
// The index, reverse index and endpoint cache are derived caches.
// Callers never mutate them directly; every public mutating call
// recomputes them synchronously before it returns, so no observer can
// see a partially applied transaction and no mutation can re-enter the
// store mid-flight.
//
// All operations run on a single goroutine: the engine lives on the
// UI/interaction thread and reacts to discrete input events. A Document
// is not safe for concurrent use.
//
// # Gestures
//
// Continuous input (drag, resize, freehand draw) produces many geometry
// writes per second. Wrap them in a gesture:
//
//	d.Begin("move sticky")
//	for each pointer move {
//	    d.UpdateElement(id, doc.Patch{X: doc.Float(x), Y: doc.Float(y)})
//	}
//	d.End() // one history entry, derived state flushed
//
// Inside a gesture, spatial index updates and connector recomputation are
// coalesced: mutated ids are marked dirty and flushed at the gesture end
// or at the next read (query, hit-test, endpoint resolution), whichever
// comes first. Cancel discards the proposed geometry and restores the
// pre-gesture snapshot without recording history.
package doc
