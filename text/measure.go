// Package text provides shaping-based measurement for board text
// content. The document uses it to auto-size text and sticky elements
// from what they say, with real kerning and ligatures rather than a
// per-rune advance guess.
package text

import (
	"bytes"
	"strings"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// Measurer measures text runs against a single parsed font. It
// implements doc.TextMeasurer.
//
// The parsed font.Font is read-only and safe for concurrent use; the
// HarfbuzzShaper is not, so instances are pooled and a lightweight
// font.Face is created per call.
type Measurer struct {
	font       *font.Font
	shaperPool sync.Pool
}

// NewMeasurer parses TTF/OTF font data and returns a measurer for it.
func NewMeasurer(ttf []byte) (*Measurer, error) {
	face, err := font.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, err
	}
	return &Measurer{
		font: face.Font,
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}, nil
}

// Measure returns the bounding width and height of s rendered at the
// given font size. Lines are split on '\n'; the width is the widest
// line's advance and the height is the line count times the font's
// line height (ascent - descent + gap).
func (m *Measurer) Measure(s string, size float64) (w, h float64) {
	lines := strings.Split(s, "\n")
	for _, line := range lines {
		lw, lh := m.measureLine(line, size)
		if lw > w {
			w = lw
		}
		h += lh
	}
	return w, h
}

// measureLine shapes one line and returns its advance and line height.
// Empty lines still contribute a line height.
func (m *Measurer) measureLine(line string, size float64) (w, h float64) {
	runes := []rune(line)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(m.font),
		Size:      floatToFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}
	shaper := m.shaperPool.Get().(*shaping.HarfbuzzShaper)
	out := shaper.Shape(input)
	m.shaperPool.Put(shaper)

	w = fixedToFloat(out.Advance)
	h = fixedToFloat(out.LineBounds.Ascent - out.LineBounds.Descent + out.LineBounds.Gap)
	return w, h
}

// detectScript inspects the runes and returns the script of the first
// non-space character, defaulting to Latin.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// floatToFixed converts a float64 font size to fixed.Int26_6.
func floatToFixed(size float64) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
