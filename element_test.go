package board

import (
	"errors"
	"testing"
)

func TestElementValidate(t *testing.T) {
	tests := []struct {
		name      string
		e         Element
		wantField string // empty means valid
	}{
		{
			"valid text",
			Element{Kind: KindText, Text: &TextPayload{Content: "hi"}},
			"",
		},
		{
			"valid sticky",
			Element{Kind: KindSticky, Width: 100, Height: 100, Text: &TextPayload{Content: "note"}},
			"",
		},
		{
			"valid shape",
			Element{Kind: KindShape, Width: 50, Height: 50, Shape: &ShapePayload{Shape: ShapeEllipse}},
			"",
		},
		{
			"valid pen",
			Element{Kind: KindPen, Points: []Point{{X: 0, Y: 0}, {X: 5, Y: 5}}},
			"",
		},
		{
			"valid table",
			Element{Kind: KindTable, Width: 90, Height: 60, Cells: [][]TableCell{{{Text: "a"}, {}}, {{}, {Text: "b"}}}},
			"",
		},
		{
			"valid connector",
			Element{Kind: KindConnector, Connector: &ConnectorPayload{From: FreeAnchor(Pt(0, 0)), To: FreeAnchor(Pt(10, 10))}},
			"",
		},
		{
			"negative width",
			Element{Kind: KindText, Width: -1, Text: &TextPayload{}},
			"Width",
		},
		{
			"negative height",
			Element{Kind: KindText, Height: -1, Text: &TextPayload{}},
			"Height",
		},
		{
			"text without payload",
			Element{Kind: KindText},
			"Text",
		},
		{
			"shape without payload",
			Element{Kind: KindShape},
			"Shape",
		},
		{
			"image without payload",
			Element{Kind: KindImage},
			"Image",
		},
		{
			"pen without points",
			Element{Kind: KindPen},
			"Points",
		},
		{
			"table without cells",
			Element{Kind: KindTable},
			"Cells",
		},
		{
			"ragged table grid",
			Element{Kind: KindTable, Cells: [][]TableCell{{{}, {}}, {{}}}},
			"Cells",
		},
		{
			"connector without payload",
			Element{Kind: KindConnector},
			"Connector",
		},
		{
			"connector owned by section",
			Element{
				Kind:          KindConnector,
				ParentSection: "sec-1",
				Connector:     &ConnectorPayload{From: FreeAnchor(Pt(0, 0)), To: FreeAnchor(Pt(1, 1))},
			},
			"ParentSection",
		},
		{
			"unknown kind",
			Element{},
			"Kind",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.e.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Validate() field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestElementCloneIsDeep(t *testing.T) {
	e := &Element{
		ID:     "el-1",
		Kind:   KindPen,
		Points: []Point{{X: 1, Y: 1}, {X: 2, Y: 2}},
		Text:   &TextPayload{Content: "orig"},
		Cells:  [][]TableCell{{{Text: "x"}}},
	}
	c := e.Clone()

	c.Points[0] = Pt(99, 99)
	c.Text.Content = "changed"
	c.Cells[0][0].Text = "changed"

	if e.Points[0] != Pt(1, 1) {
		t.Error("Clone shares Points backing array")
	}
	if e.Text.Content != "orig" {
		t.Error("Clone shares Text payload")
	}
	if e.Cells[0][0].Text != "x" {
		t.Error("Clone shares Cells grid")
	}
}

func TestKindRoundTrip(t *testing.T) {
	kinds := []Kind{KindText, KindSticky, KindShape, KindImage, KindPen, KindTable, KindConnector}
	for _, k := range kinds {
		if got := KindFromString(k.String()); got != k {
			t.Errorf("KindFromString(%q) = %v, want %v", k.String(), got, k)
		}
	}
	if got := KindFromString("bogus"); got != 0 {
		t.Errorf("KindFromString(bogus) = %v, want 0", got)
	}
}
