package text

import (
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func newTestMeasurer(t *testing.T) *Measurer {
	t.Helper()
	m, err := NewMeasurer(goregular.TTF)
	if err != nil {
		t.Fatalf("NewMeasurer: %v", err)
	}
	return m
}

func TestNewMeasurerRejectsGarbage(t *testing.T) {
	if _, err := NewMeasurer([]byte("not a font")); err == nil {
		t.Fatal("garbage font data accepted")
	}
}

func TestMeasureSingleLine(t *testing.T) {
	m := newTestMeasurer(t)

	w, h := m.Measure("Hello, world", 14)
	if w <= 0 || h <= 0 {
		t.Fatalf("Measure = %v x %v, want positive dimensions", w, h)
	}

	// More text is wider; the line height is unchanged.
	w2, h2 := m.Measure("Hello, world, again and again", 14)
	if w2 <= w {
		t.Errorf("longer text width %v <= shorter %v", w2, w)
	}
	if h2 != h {
		t.Errorf("line height changed with content: %v vs %v", h2, h)
	}
}

func TestMeasureScalesWithFontSize(t *testing.T) {
	m := newTestMeasurer(t)
	w14, h14 := m.Measure("scale me", 14)
	w28, h28 := m.Measure("scale me", 28)
	if w28 <= w14 || h28 <= h14 {
		t.Errorf("doubling the size did not grow the box: %vx%v vs %vx%v", w14, h14, w28, h28)
	}
}

func TestMeasureMultiline(t *testing.T) {
	m := newTestMeasurer(t)
	w1, h1 := m.Measure("one line", 14)
	w3, h3 := m.Measure("one line\ntwo\nthree", 14)

	if w3 != w1 {
		t.Errorf("width = %v, want the widest line's %v", w3, w1)
	}
	const tol = 1e-6
	if diff := h3 - 3*h1; diff > tol || diff < -tol {
		t.Errorf("three lines = %v, want 3 * %v", h3, h1)
	}
}

func TestMeasureEmptyString(t *testing.T) {
	m := newTestMeasurer(t)
	w, h := m.Measure("", 14)
	if w != 0 {
		t.Errorf("empty width = %v, want 0", w)
	}
	// An empty run still occupies one line.
	if h <= 0 {
		t.Errorf("empty height = %v, want a line height", h)
	}
}

func TestMeasureConcurrent(t *testing.T) {
	m := newTestMeasurer(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if w, h := m.Measure("concurrent shaping", 14); w <= 0 || h <= 0 {
					t.Error("concurrent Measure returned a degenerate box")
					return
				}
			}
		}()
	}
	wg.Wait()
}
