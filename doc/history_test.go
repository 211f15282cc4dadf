package doc

import (
	"testing"

	"github.com/gogpu/board"
)

func TestUndoRedoRoundTrip(t *testing.T) {
	d := newTestDoc(t)
	id := mustAddSticky(t, d, 10, 10, 20, 20)
	if err := d.UpdateElement(id, Patch{X: Float(100)}); err != nil {
		t.Fatalf("UpdateElement: %v", err)
	}

	if !d.Undo() {
		t.Fatal("Undo = false")
	}
	e, _ := d.Element(id)
	if e.X != 10 {
		t.Errorf("after undo X = %v, want 10", e.X)
	}

	if !d.Redo() {
		t.Fatal("Redo = false")
	}
	e, _ = d.Element(id)
	if e.X != 100 {
		t.Errorf("after redo X = %v, want 100", e.X)
	}
}

func TestUndoRedoIdempotentAtBoundaries(t *testing.T) {
	d := newTestDoc(t)
	mustAddSticky(t, d, 0, 0, 10, 10)

	if !d.Undo() {
		t.Fatal("first Undo = false")
	}
	// At the beginning of history further undos do nothing.
	if d.Undo() {
		t.Error("Undo past the beginning = true")
	}
	if d.Len() != 0 {
		t.Errorf("Len = %d after undoing everything, want 0", d.Len())
	}

	if !d.Redo() {
		t.Fatal("Redo = false")
	}
	if d.Redo() {
		t.Error("Redo past the end = true")
	}
	if d.Len() != 1 {
		t.Errorf("Len = %d after redo, want 1", d.Len())
	}
}

func TestUndoRestoresIndexAndConnectors(t *testing.T) {
	d := newTestDoc(t)
	a := addBox(t, d, 0, 0, 100, 100)
	b := addBox(t, d, 300, 0, 100, 100)
	cid := connect(t, d, board.ElementAnchor(a), board.ElementAnchor(b))
	epsBefore, _ := d.Endpoints(cid)

	if err := d.DeleteElement(b); err != nil {
		t.Fatalf("DeleteElement: %v", err)
	}
	if !d.Undo() {
		t.Fatal("Undo = false")
	}

	// The target is back, the anchor is attached again and the index
	// finds everything at its old place.
	e, _ := d.Element(cid)
	if e.Connector.To.Kind != board.AnchorElement || e.Connector.To.Element != b {
		t.Errorf("To anchor after undo = %+v, want attachment to %s", e.Connector.To, b)
	}
	eps, _ := d.Endpoints(cid)
	if eps != epsBefore {
		t.Errorf("endpoints after undo = %+v, want %+v", eps, epsBefore)
	}
	if got := d.QueryPoint(board.Pt(350, 50)); len(got) == 0 {
		t.Error("restored element not indexed")
	}
}

func TestHistoryTruncatesRedoBranch(t *testing.T) {
	d := newTestDoc(t)
	a := mustAddSticky(t, d, 0, 0, 10, 10)
	mustAddSticky(t, d, 100, 0, 10, 10) // B
	mustAddSticky(t, d, 200, 0, 10, 10) // C

	d.Undo()
	d.Undo() // back to the state holding only A

	if !d.CanRedo() {
		t.Fatal("CanRedo = false before the new commit")
	}

	// Committing D discards the redo branch (B, C).
	dd := mustAddSticky(t, d, 300, 0, 10, 10)
	if d.CanRedo() {
		t.Error("CanRedo = true after committing past the cursor")
	}
	if d.Redo() {
		t.Error("Redo succeeded into a discarded branch")
	}

	labels := d.HistoryLabels()
	want := []string{"init", "add sticky", "add sticky"}
	if len(labels) != len(want) {
		t.Fatalf("HistoryLabels = %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("HistoryLabels = %v, want %v", labels, want)
		}
	}
	if d.HistoryCursor() != 2 {
		t.Errorf("HistoryCursor = %d, want 2", d.HistoryCursor())
	}

	// The store holds exactly A and D.
	if d.Len() != 2 {
		t.Fatalf("Len = %d, want 2", d.Len())
	}
	for _, id := range []board.ElementID{a, dd} {
		if _, ok := d.Element(id); !ok {
			t.Errorf("element %s missing", id)
		}
	}
}

func TestHistoryCapacityEvictsOldest(t *testing.T) {
	d := newTestDoc(t, WithHistoryCapacity(3))
	for i := 0; i < 10; i++ {
		mustAddSticky(t, d, float64(i)*20, 0, 10, 10)
	}

	if got := len(d.HistoryLabels()); got != 3 {
		t.Fatalf("history holds %d entries, want 3", got)
	}
	// Two undos exhaust the ring; the store still holds the state of the
	// oldest retained entry.
	d.Undo()
	d.Undo()
	if d.Undo() {
		t.Error("Undo succeeded past the ring capacity")
	}
	if d.Len() != 8 {
		t.Errorf("Len = %d at the oldest retained state, want 8", d.Len())
	}
}

func TestGestureCoalescesIntoOneEntry(t *testing.T) {
	d := newTestDoc(t)
	id := mustAddSticky(t, d, 0, 0, 10, 10)
	entries := len(d.HistoryLabels())

	if err := d.Begin("drag"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	for i := 1; i <= 30; i++ {
		if err := d.UpdateElement(id, Patch{X: Float(float64(i) * 5)}); err != nil {
			t.Fatalf("UpdateElement: %v", err)
		}
	}
	d.End()

	if got := len(d.HistoryLabels()); got != entries+1 {
		t.Errorf("gesture recorded %d entries, want 1", got-entries)
	}
	// One undo reverts the whole drag.
	d.Undo()
	e, _ := d.Element(id)
	if e.X != 0 {
		t.Errorf("X after undo = %v, want 0", e.X)
	}
}

func TestGestureReadsSeeFreshState(t *testing.T) {
	// Derived refresh is deferred during a gesture, but any read must
	// observe the latest mutations.
	d := newTestDoc(t)
	id := mustAddSticky(t, d, 0, 0, 10, 10)

	if err := d.Begin("drag"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := d.UpdateElement(id, Patch{X: Float(500)}); err != nil {
		t.Fatalf("UpdateElement: %v", err)
	}
	if got := d.QueryPoint(board.Pt(505, 5)); len(got) != 1 || got[0] != id {
		t.Errorf("mid-gesture query = %v, want [%s]", got, id)
	}
	d.End()
}

func TestGestureCancelRestores(t *testing.T) {
	d := newTestDoc(t)
	id := mustAddSticky(t, d, 0, 0, 10, 10)
	entries := len(d.HistoryLabels())

	if err := d.Begin("drag"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := d.UpdateElement(id, Patch{X: Float(500)}); err != nil {
		t.Fatalf("UpdateElement: %v", err)
	}
	if _, err := d.AddElement(board.Element{Kind: board.KindText, Text: &board.TextPayload{}}); err != nil {
		t.Fatalf("AddElement: %v", err)
	}
	d.Cancel()

	e, _ := d.Element(id)
	if e.X != 0 {
		t.Errorf("X after cancel = %v, want 0", e.X)
	}
	if d.Len() != 1 {
		t.Errorf("Len = %d after cancel, want 1", d.Len())
	}
	if got := len(d.HistoryLabels()); got != entries {
		t.Errorf("cancel recorded %d new entries, want 0", got-entries)
	}
	if got := d.QueryPoint(board.Pt(505, 5)); len(got) != 0 {
		t.Errorf("index kept the cancelled move: %v", got)
	}
}

func TestEmptyGestureRecordsNothing(t *testing.T) {
	d := newTestDoc(t)
	mustAddSticky(t, d, 0, 0, 10, 10)
	entries := len(d.HistoryLabels())

	if err := d.Begin("noop"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	d.End()

	if got := len(d.HistoryLabels()); got != entries {
		t.Errorf("empty gesture recorded %d entries", got-entries)
	}
}

func TestNestedGestureRejected(t *testing.T) {
	d := newTestDoc(t)
	if err := d.Begin("outer"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := d.Begin("inner"); err == nil {
		t.Error("nested Begin accepted")
	}
	d.End()
}

func TestUndoCancelsActiveGesture(t *testing.T) {
	d := newTestDoc(t)
	id := mustAddSticky(t, d, 0, 0, 10, 10)

	if err := d.Begin("drag"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := d.UpdateElement(id, Patch{X: Float(500)}); err != nil {
		t.Fatalf("UpdateElement: %v", err)
	}

	// Undo mid-gesture first discards the gesture, then steps history.
	if !d.Undo() {
		t.Fatal("Undo = false")
	}
	if d.Len() != 0 {
		t.Errorf("Len = %d, want 0 (state before the add)", d.Len())
	}
}
