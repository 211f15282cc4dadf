package board

import (
	"math"
	"testing"
)

func TestMatrixTransformPoint(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		p    Point
		want Point
	}{
		{"identity", Identity(), Pt(3, 4), Pt(3, 4)},
		{"translate", Translate(10, -5), Pt(1, 1), Pt(11, -4)},
		{"scale", Scale(2, 3), Pt(1, 1), Pt(2, 3)},
		{"rotate quarter", Rotate(math.Pi / 2), Pt(1, 0), Pt(0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.TransformPoint(tt.p)
			if !got.NearlyEqual(tt.want, 1e-9) {
				t.Errorf("TransformPoint(%+v) = %+v, want %+v", tt.p, got, tt.want)
			}
		})
	}
}

func TestMatrixMultiplyOrder(t *testing.T) {
	// m.Multiply(other) applies other first, then m.
	m := Scale(2, 2).Multiply(Translate(10, 0))
	got := m.TransformPoint(Pt(1, 1))
	want := Pt(22, 2)
	if !got.NearlyEqual(want, 1e-9) {
		t.Errorf("translate then scale: got %+v, want %+v", got, want)
	}

	m = Translate(10, 0).Multiply(Scale(2, 2))
	got = m.TransformPoint(Pt(1, 1))
	want = Pt(12, 2)
	if !got.NearlyEqual(want, 1e-9) {
		t.Errorf("scale then translate: got %+v, want %+v", got, want)
	}
}

func TestAboutPivot(t *testing.T) {
	// A pivoted transform must keep the pivot fixed.
	pivot := Pt(50, 50)
	for _, m := range []Matrix{Scale(2, 2), Rotate(math.Pi / 3), Scale(0.5, 3)} {
		got := AboutPivot(m, pivot).TransformPoint(pivot)
		if !got.NearlyEqual(pivot, 1e-9) {
			t.Errorf("AboutPivot(%+v) moved pivot to %+v", m, got)
		}
	}

	// Doubling about (50,50) sends (60,50) to (70,50).
	got := AboutPivot(Scale(2, 2), pivot).TransformPoint(Pt(60, 50))
	if want := Pt(70, 50); !got.NearlyEqual(want, 1e-9) {
		t.Errorf("scale about pivot = %+v, want %+v", got, want)
	}
}

func TestMatrixIsIdentity(t *testing.T) {
	if !Identity().IsIdentity() {
		t.Error("Identity().IsIdentity() = false")
	}
	if Translate(1, 0).IsIdentity() {
		t.Error("Translate(1,0).IsIdentity() = true")
	}
	if !Translate(0, 0).IsIdentity() {
		t.Error("Translate(0,0).IsIdentity() = false")
	}
}
