// Package export renders a document snapshot to a raster image. It is
// a diagnostic and sharing surface, not the interactive renderer: every
// element kind gets a recognizable schematic drawing so a board can be
// eyeballed or attached to a bug report.
package export

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/gogpu/board"
	"github.com/gogpu/board/doc"
)

// Options control rasterization.
type Options struct {
	// Scale is pixels per board unit. Zero means 1.
	Scale float64
	// Margin is padding around the content, in board units.
	Margin float64
	// Background is the canvas fill color as a hex string. Empty means
	// white.
	Background string
}

const (
	defaultMargin     = 24
	defaultBackground = "#ffffff"
	sectionFill       = "#f2f4f7"
	sectionStroke     = "#c5ccd6"
	defaultFill       = "#ffd966"
	defaultStroke     = "#333333"
	connectorStroke   = "#555555"
)

// Render rasterizes the document. The canvas is sized to the union of
// all element and section bounds plus the margin; an empty document
// renders a margin-sized blank image.
func Render(d *doc.Document, opts Options) (image.Image, error) {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Margin <= 0 {
		opts.Margin = defaultMargin
	}
	if opts.Background == "" {
		opts.Background = defaultBackground
	}

	content := contentBounds(d)
	content.MinX -= opts.Margin
	content.MinY -= opts.Margin
	content.MaxX += opts.Margin
	content.MaxY += opts.Margin

	w := int(math.Ceil(content.Width() * opts.Scale))
	h := int(math.Ceil(content.Height() * opts.Scale))
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("render: degenerate canvas %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetHexColor(opts.Background)
	dc.Clear()
	// From here on, drawing happens in board coordinates.
	dc.Scale(opts.Scale, opts.Scale)
	dc.Translate(-content.MinX, -content.MinY)

	drawSections(dc, d)
	for _, e := range d.Elements() {
		if !e.Visible {
			continue
		}
		drawElement(dc, d, e)
	}
	return dc.Image(), nil
}

// SavePNG renders the document and writes it as a PNG file.
func SavePNG(d *doc.Document, path string, opts Options) error {
	img, err := Render(d, opts)
	if err != nil {
		return err
	}
	return gg.SavePNG(path, img)
}

// contentBounds is the union of every visible element and section box.
func contentBounds(d *doc.Document) board.Rect {
	out := board.EmptyRect()
	for _, s := range d.Sections() {
		if !s.Visible {
			continue
		}
		if r, ok := d.SectionAbsoluteBounds(s.ID); ok {
			out = out.Union(r)
		}
	}
	for _, e := range d.Elements() {
		if !e.Visible {
			continue
		}
		if r, ok := d.AbsoluteBounds(e.ID); ok {
			out = out.Union(r)
		}
	}
	if out.IsEmpty() {
		return board.Rect{}
	}
	return out
}

// drawSections paints section frames bottom-up so nested sections sit
// on top of their parents.
func drawSections(dc *gg.Context, d *doc.Document) {
	for _, s := range d.Sections() {
		if !s.Visible {
			continue
		}
		r, ok := d.SectionAbsoluteBounds(s.ID)
		if !ok {
			continue
		}
		dc.SetHexColor(sectionFill)
		dc.DrawRectangle(r.MinX, r.MinY, r.Width(), r.Height())
		dc.Fill()
		dc.SetHexColor(sectionStroke)
		dc.SetLineWidth(1.5)
		dc.DrawRectangle(r.MinX, r.MinY, r.Width(), r.Height())
		dc.Stroke()
		if s.Title != "" {
			dc.SetHexColor(defaultStroke)
			dc.DrawString(s.Title, r.MinX+6, r.MinY-4)
		}
	}
}

func drawElement(dc *gg.Context, d *doc.Document, e board.Element) {
	switch e.Kind {
	case board.KindConnector:
		drawConnector(dc, d, e)
		return
	case board.KindPen:
		drawPen(dc, d, e)
		return
	}

	r, ok := d.AbsoluteBounds(e.ID)
	if !ok {
		return
	}
	if e.Rotation != 0 {
		c := r.Center()
		dc.Push()
		dc.RotateAbout(e.Rotation, c.X, c.Y)
		defer dc.Pop()
		// Draw the unrotated box; the context transform spins it.
		origin := d.ToAbsolute(board.Pt(e.X, e.Y), e.ParentSection)
		r = board.RectXYWH(origin.X, origin.Y, e.Width, e.Height)
	}

	switch e.Kind {
	case board.KindShape:
		drawShape(dc, e, r)
	case board.KindTable:
		drawTable(dc, e, r)
	case board.KindImage:
		dc.SetHexColor("#e8e8e8")
		dc.DrawRectangle(r.MinX, r.MinY, r.Width(), r.Height())
		dc.FillPreserve()
		dc.SetHexColor(defaultStroke)
		dc.SetLineWidth(1)
		dc.Stroke()
		if e.Image != nil {
			drawLabel(dc, e.Image.Source, r)
		}
	default: // text, sticky
		fill := defaultFill
		if e.Kind == board.KindText {
			fill = ""
		}
		if e.Text != nil && e.Text.Fill != "" {
			fill = e.Text.Fill
		}
		if fill != "" {
			dc.SetHexColor(fill)
			dc.DrawRectangle(r.MinX, r.MinY, r.Width(), r.Height())
			dc.Fill()
		}
		if e.Text != nil && e.Text.Content != "" {
			color := defaultStroke
			if e.Text.Color != "" {
				color = e.Text.Color
			}
			dc.SetHexColor(color)
			drawLabel(dc, e.Text.Content, r)
		}
	}
}

func drawShape(dc *gg.Context, e board.Element, r board.Rect) {
	fill, stroke, lw := defaultFill, defaultStroke, 1.5
	label := ""
	if e.Shape != nil {
		if e.Shape.Fill != "" {
			fill = e.Shape.Fill
		}
		if e.Shape.Stroke != "" {
			stroke = e.Shape.Stroke
		}
		if e.Shape.StrokeWidth > 0 {
			lw = e.Shape.StrokeWidth
		}
		label = e.Shape.Label
	}

	kind := board.ShapeRectangle
	if e.Shape != nil {
		kind = e.Shape.Shape
	}
	switch kind {
	case board.ShapeEllipse:
		c := r.Center()
		dc.DrawEllipse(c.X, c.Y, r.Width()/2, r.Height()/2)
	case board.ShapeDiamond:
		c := r.Center()
		dc.MoveTo(c.X, r.MinY)
		dc.LineTo(r.MaxX, c.Y)
		dc.LineTo(c.X, r.MaxY)
		dc.LineTo(r.MinX, c.Y)
		dc.ClosePath()
	case board.ShapeRoundedRectangle:
		radius := math.Min(r.Width(), r.Height()) / 8
		dc.DrawRoundedRectangle(r.MinX, r.MinY, r.Width(), r.Height(), radius)
	default:
		dc.DrawRectangle(r.MinX, r.MinY, r.Width(), r.Height())
	}

	dc.SetHexColor(fill)
	dc.FillPreserve()
	dc.SetHexColor(stroke)
	dc.SetLineWidth(lw)
	dc.Stroke()
	if label != "" {
		dc.SetHexColor(stroke)
		drawLabel(dc, label, r)
	}
}

func drawTable(dc *gg.Context, e board.Element, r board.Rect) {
	dc.SetHexColor("#ffffff")
	dc.DrawRectangle(r.MinX, r.MinY, r.Width(), r.Height())
	dc.Fill()
	dc.SetHexColor(defaultStroke)
	dc.SetLineWidth(1)
	dc.DrawRectangle(r.MinX, r.MinY, r.Width(), r.Height())
	dc.Stroke()

	rows := len(e.Cells)
	if rows == 0 {
		return
	}
	cols := len(e.Cells[0])
	rh := r.Height() / float64(rows)
	cw := r.Width() / float64(cols)
	for i := 1; i < rows; i++ {
		y := r.MinY + float64(i)*rh
		dc.DrawLine(r.MinX, y, r.MaxX, y)
	}
	for j := 1; j < cols; j++ {
		x := r.MinX + float64(j)*cw
		dc.DrawLine(x, r.MinY, x, r.MaxY)
	}
	dc.Stroke()
	for i, row := range e.Cells {
		for j, cell := range row {
			if cell.Text == "" {
				continue
			}
			cr := board.RectXYWH(r.MinX+float64(j)*cw, r.MinY+float64(i)*rh, cw, rh)
			drawLabel(dc, cell.Text, cr)
		}
	}
}

func drawPen(dc *gg.Context, d *doc.Document, e board.Element) {
	if len(e.Points) == 0 {
		return
	}
	origin := d.ToAbsolute(board.Pt(e.X, e.Y), e.ParentSection)
	dc.SetHexColor(defaultStroke)
	dc.SetLineWidth(2)
	dc.MoveTo(origin.X+e.Points[0].X, origin.Y+e.Points[0].Y)
	for _, p := range e.Points[1:] {
		dc.LineTo(origin.X+p.X, origin.Y+p.Y)
	}
	dc.Stroke()
}

func drawConnector(dc *gg.Context, d *doc.Document, e board.Element) {
	eps, ok := d.Endpoints(e.ID)
	if !ok {
		return
	}
	dc.SetHexColor(connectorStroke)
	dc.SetLineWidth(1.5)
	dc.DrawLine(eps.From.X, eps.From.Y, eps.To.X, eps.To.Y)
	dc.Stroke()
	drawArrowhead(dc, eps.From, eps.To)
}

// drawArrowhead paints a small triangle at the To endpoint pointing
// along the connector direction.
func drawArrowhead(dc *gg.Context, from, to board.Point) {
	dir := to.Sub(from)
	if dir.Length() == 0 {
		return
	}
	angle := math.Atan2(dir.Y, dir.X)
	const size = 8
	left := board.Pt(
		to.X-size*math.Cos(angle-math.Pi/6),
		to.Y-size*math.Sin(angle-math.Pi/6),
	)
	right := board.Pt(
		to.X-size*math.Cos(angle+math.Pi/6),
		to.Y-size*math.Sin(angle+math.Pi/6),
	)
	dc.MoveTo(to.X, to.Y)
	dc.LineTo(left.X, left.Y)
	dc.LineTo(right.X, right.Y)
	dc.ClosePath()
	dc.SetHexColor(connectorStroke)
	dc.Fill()
}

// drawLabel centers a single line of text inside r using the context's
// default face.
func drawLabel(dc *gg.Context, s string, r board.Rect) {
	c := r.Center()
	dc.DrawStringAnchored(s, c.X, c.Y, 0.5, 0.5)
}
