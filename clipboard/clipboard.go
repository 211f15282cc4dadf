// Package clipboard moves element subsets between documents (or within
// one) through the system clipboard. The payload is the document's own
// interchange JSON, so anything a board can express survives the round
// trip, and a payload pasted into a text editor is readable.
package clipboard

import (
	"fmt"

	sysclip "github.com/atotto/clipboard"

	"github.com/gogpu/board"
	"github.com/gogpu/board/doc"
)

// Copy serializes the given elements and writes them to the system
// clipboard. Connectors whose targets are not part of the set are
// frozen in place, so the payload stands alone.
func Copy(d *doc.Document, ids []board.ElementID) error {
	data, err := d.ExportElements(ids)
	if err != nil {
		return err
	}
	if err := sysclip.WriteAll(string(data)); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// CopySelection copies the document's current selection.
func CopySelection(d *doc.Document) error {
	return Copy(d, d.Selection().IDs())
}

// Paste reads the clipboard and inserts its elements at the given
// offset, returning the minted ids. The pasted elements become the new
// selection.
func Paste(d *doc.Document, offset board.Point) ([]board.ElementID, error) {
	text, err := sysclip.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	ids, err := d.ImportElements([]byte(text), offset)
	if err != nil {
		return nil, err
	}
	d.Selection().Set(ids...)
	return ids, nil
}

// Available reports whether a system clipboard is usable in this
// environment. Headless hosts without xclip/xsel land here.
func Available() bool {
	return !sysclip.Unsupported
}
