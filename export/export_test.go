package export

import (
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/board"
	"github.com/gogpu/board/doc"
)

func buildSampleBoard(t *testing.T) *doc.Document {
	t.Helper()
	d := doc.New()
	sec, err := d.AddSection(board.Section{Title: "Sprint", X: 0, Y: 0, Width: 300, Height: 200})
	if err != nil {
		t.Fatalf("AddSection: %v", err)
	}
	sticky, err := d.AddElement(board.Element{
		Kind: board.KindSticky, X: 20, Y: 20, Width: 60, Height: 60,
		ParentSection: sec,
		Text:          &board.TextPayload{Content: "todo", Fill: "#ffd966"},
	})
	if err != nil {
		t.Fatalf("AddElement: %v", err)
	}
	shape, err := d.AddElement(board.Element{
		Kind: board.KindShape, X: 400, Y: 50, Width: 80, Height: 80,
		Shape: &board.ShapePayload{Shape: board.ShapeEllipse, Fill: "#a5d8ff", Label: "ok"},
	})
	if err != nil {
		t.Fatalf("AddElement: %v", err)
	}
	if _, err := d.AddElement(board.Element{
		Kind:      board.KindConnector,
		Connector: &board.ConnectorPayload{From: board.ElementAnchor(sticky), To: board.ElementAnchor(shape)},
	}); err != nil {
		t.Fatalf("AddElement(connector): %v", err)
	}
	if _, err := d.AddElement(board.Element{
		Kind: board.KindPen, X: 100, Y: 300,
		Points: []board.Point{{X: 0, Y: 0}, {X: 40, Y: 20}, {X: 80, Y: 0}},
	}); err != nil {
		t.Fatalf("AddElement(pen): %v", err)
	}
	return d
}

func TestRender(t *testing.T) {
	d := buildSampleBoard(t)
	img, err := Render(d, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b := img.Bounds()
	// Content spans (0,0)-(480,320); the default margin pads each side.
	wantW := 480 + 2*defaultMargin
	wantH := 320 + 2*defaultMargin
	if b.Dx() != wantW || b.Dy() != wantH {
		t.Errorf("canvas = %dx%d, want %dx%d", b.Dx(), b.Dy(), wantW, wantH)
	}
}

func TestRenderScale(t *testing.T) {
	d := buildSampleBoard(t)
	img1, err := Render(d, Options{Scale: 1})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	img2, err := Render(d, Options{Scale: 2})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img2.Bounds().Dx() != 2*img1.Bounds().Dx() {
		t.Errorf("scale 2 width = %d, want %d", img2.Bounds().Dx(), 2*img1.Bounds().Dx())
	}
}

func TestRenderEmptyDocument(t *testing.T) {
	img, err := Render(doc.New(), Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img.Bounds().Dx() < 1 || img.Bounds().Dy() < 1 {
		t.Error("empty document rendered a degenerate canvas")
	}
}

func TestRenderPaintsContent(t *testing.T) {
	d := doc.New()
	if _, err := d.AddElement(board.Element{
		Kind: board.KindShape, X: 0, Y: 0, Width: 50, Height: 50,
		Shape: &board.ShapePayload{Fill: "#000000", Stroke: "#000000"},
	}); err != nil {
		t.Fatalf("AddElement: %v", err)
	}
	img, err := Render(d, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// The shape center must not be the background color.
	c := img.At(defaultMargin+25, defaultMargin+25)
	r, g, b, _ := c.RGBA()
	if r > 0x1000 && g > 0x1000 && b > 0x1000 {
		t.Errorf("shape center still background-colored: %v", c)
	}
}

func TestSavePNG(t *testing.T) {
	d := buildSampleBoard(t)
	path := filepath.Join(t.TempDir(), "board.png")
	if err := SavePNG(d, path, Options{}); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if format != "png" || cfg.Width < 1 {
		t.Errorf("wrote %s %dx%d, want a png", format, cfg.Width, cfg.Height)
	}
}
