// Package board provides the document engine for a 2D whiteboard canvas.
//
// # Overview
//
// board models a canvas of sticky notes, shapes, connectors, tables,
// freehand strokes and nested sections. It is the in-memory source of truth
// a renderer and toolbar consume: the authoritative element store, a
// quadtree spatial index for sub-linear hit-testing and viewport culling,
// coordinate conversion between absolute (stage) space and section-local
// space, linear undo/redo history, and the dependency propagation that
// keeps connectors and contained elements consistent when their anchors
// move.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/board"
//	    "github.com/gogpu/board/doc"
//	)
//
//	d := doc.New()
//	id, _ := d.AddElement(board.Element{
//	    Kind:  board.KindSticky,
//	    X:     100, Y: 100,
//	    Width: 160, Height: 120,
//	    Text:  &board.TextPayload{Content: "hello"},
//	})
//	visible := d.QueryRegion(board.Rect{MinX: 0, MinY: 0, MaxX: 1920, MaxY: 1080})
//	d.Undo() // each mutating call is one history entry
//
// # Architecture
//
// The library is organized into:
//   - board (this package): geometric vocabulary, element records, errors
//   - doc: the document (store, containment, connectors, history, selection)
//   - quadtree: the spatial index
//   - text: shaping-based measurement for auto-sizing text content
//   - export, clipboard, imageio: raster snapshots, interchange, image probing
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Angles in radians
//
// Coordinates stored on an element are always relative to its owning
// section, or absolute when it has none. Conversion happens at the
// document's read/write boundaries, never inside stored records.
package board

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
