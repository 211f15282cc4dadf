package doc

import (
	"math"
	"testing"

	"github.com/gogpu/board"
)

func TestSelectionSetIgnoresUnknown(t *testing.T) {
	d := newTestDoc(t)
	a := mustAddSticky(t, d, 0, 0, 10, 10)

	sel := d.Selection()
	sel.Set(a, "ghost", a) // duplicate and unknown dropped
	if got := sel.IDs(); len(got) != 1 || got[0] != a {
		t.Errorf("IDs = %v, want [%s]", got, a)
	}
	if !sel.Has(a) || sel.Has("ghost") {
		t.Error("membership wrong")
	}

	sel.Clear()
	if len(sel.IDs()) != 0 {
		t.Error("Clear left members")
	}
}

func TestSelectionBounds(t *testing.T) {
	d := newTestDoc(t)
	a := mustAddSticky(t, d, 0, 0, 10, 10)
	b := mustAddSticky(t, d, 100, 50, 20, 20)

	sel := d.Selection()
	sel.Set(a, b)
	got := sel.Bounds()
	want := board.Rect{MinX: 0, MinY: 0, MaxX: 120, MaxY: 70}
	if got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}
}

func TestSelectionTranslateBatch(t *testing.T) {
	d := newTestDoc(t)
	a := mustAddSticky(t, d, 0, 0, 10, 10)
	b := mustAddSticky(t, d, 100, 0, 10, 10)
	entries := len(d.HistoryLabels())

	sel := d.Selection()
	sel.Set(a, b)
	if err := sel.BeginTransform(); err != nil {
		t.Fatalf("BeginTransform: %v", err)
	}
	// Interactive drags send cumulative deltas; only the last matters.
	if err := sel.Translate(5, 5); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if err := sel.Translate(30, -10); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	sel.EndTransform()

	ea, _ := d.Element(a)
	eb, _ := d.Element(b)
	if ea.X != 30 || ea.Y != -10 {
		t.Errorf("a = (%v,%v), want (30,-10)", ea.X, ea.Y)
	}
	if eb.X != 130 || eb.Y != -10 {
		t.Errorf("b = (%v,%v), want (130,-10)", eb.X, eb.Y)
	}

	// The whole gesture is one history transaction.
	if got := len(d.HistoryLabels()); got != entries+1 {
		t.Errorf("transform recorded %d entries, want 1", got-entries)
	}
	d.Undo()
	ea, _ = d.Element(a)
	if ea.X != 0 || ea.Y != 0 {
		t.Errorf("a after undo = (%v,%v), want (0,0)", ea.X, ea.Y)
	}
}

func TestSelectionScaleAboutPivot(t *testing.T) {
	d := newTestDoc(t)
	a := mustAddSticky(t, d, 0, 0, 20, 20)
	b := mustAddSticky(t, d, 80, 80, 20, 20)

	sel := d.Selection()
	sel.Set(a, b)
	if err := sel.BeginTransform(); err != nil {
		t.Fatalf("BeginTransform: %v", err)
	}
	// Selection bounds are (0,0)-(100,100), pivot (50,50).
	if err := sel.Apply(board.Scale(2, 2)); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	sel.EndTransform()

	ea, _ := d.Element(a)
	if ea.X != -50 || ea.Y != -50 || ea.Width != 40 || ea.Height != 40 {
		t.Errorf("a = (%v,%v) %vx%v, want (-50,-50) 40x40", ea.X, ea.Y, ea.Width, ea.Height)
	}
	eb, _ := d.Element(b)
	if eb.X != 110 || eb.Y != 110 || eb.Width != 40 {
		t.Errorf("b = (%v,%v) w=%v, want (110,110) w=40", eb.X, eb.Y, eb.Width)
	}
}

func TestSelectionRotationAccumulates(t *testing.T) {
	d := newTestDoc(t)
	a, err := d.AddElement(board.Element{
		Kind: board.KindShape, X: 10, Y: 10, Width: 20, Height: 20,
		Rotation: math.Pi / 6, Shape: &board.ShapePayload{},
	})
	if err != nil {
		t.Fatalf("AddElement: %v", err)
	}

	sel := d.Selection()
	sel.Set(a)
	if err := sel.BeginTransform(); err != nil {
		t.Fatalf("BeginTransform: %v", err)
	}
	if err := sel.Apply(board.Rotate(math.Pi / 2)); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	sel.EndTransform()

	e, _ := d.Element(a)
	if want := math.Pi/6 + math.Pi/2; math.Abs(e.Rotation-want) > 1e-9 {
		t.Errorf("Rotation = %v, want %v", e.Rotation, want)
	}
}

func TestSelectionSkipsLockedMembers(t *testing.T) {
	d := newTestDoc(t)
	free := mustAddSticky(t, d, 0, 0, 10, 10)
	locked, err := d.AddElement(board.Element{
		Kind: board.KindSticky, X: 100, Y: 0, Width: 10, Height: 10,
		Locked: true, Text: &board.TextPayload{},
	})
	if err != nil {
		t.Fatalf("AddElement: %v", err)
	}

	sel := d.Selection()
	sel.Set(free, locked)
	if err := sel.BeginTransform(); err != nil {
		t.Fatalf("BeginTransform: %v", err)
	}
	if err := sel.Translate(50, 0); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	sel.EndTransform()

	ef, _ := d.Element(free)
	el, _ := d.Element(locked)
	if ef.X != 50 {
		t.Errorf("free member X = %v, want 50", ef.X)
	}
	if el.X != 100 {
		t.Errorf("locked member moved to X = %v", el.X)
	}
}

func TestSelectionTransformMovesConnectorFreePoints(t *testing.T) {
	d := newTestDoc(t)
	cid := connect(t, d, board.FreeAnchor(board.Pt(0, 0)), board.FreeAnchor(board.Pt(100, 0)))

	sel := d.Selection()
	sel.Set(cid)
	if err := sel.BeginTransform(); err != nil {
		t.Fatalf("BeginTransform: %v", err)
	}
	if err := sel.Translate(10, 20); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	sel.EndTransform()

	eps, _ := d.Endpoints(cid)
	if want := board.Pt(10, 20); !eps.From.NearlyEqual(want, 1e-9) {
		t.Errorf("From = %+v, want %+v", eps.From, want)
	}
	if want := board.Pt(110, 20); !eps.To.NearlyEqual(want, 1e-9) {
		t.Errorf("To = %+v, want %+v", eps.To, want)
	}
}

func TestSelectionCancelTransform(t *testing.T) {
	d := newTestDoc(t)
	a := mustAddSticky(t, d, 0, 0, 10, 10)

	sel := d.Selection()
	sel.Set(a)
	if err := sel.BeginTransform(); err != nil {
		t.Fatalf("BeginTransform: %v", err)
	}
	if err := sel.Translate(500, 500); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	sel.CancelTransform()

	e, _ := d.Element(a)
	if e.X != 0 || e.Y != 0 {
		t.Errorf("cancel left a at (%v,%v)", e.X, e.Y)
	}
}

func TestSelectionBeginTransformEmpty(t *testing.T) {
	d := newTestDoc(t)
	if err := d.Selection().BeginTransform(); err == nil {
		t.Error("BeginTransform on empty selection accepted")
	}
	if err := d.Selection().Apply(board.Identity()); err == nil {
		t.Error("Apply without active transform accepted")
	}
}
