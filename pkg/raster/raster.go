// Package raster draws label text with real font metrics.
//
// A [Typesetter] wraps one font face at one pixel size and implements
// label.Typesetter: it measures multi-line text blocks and draws them onto
// an RGBA canvas through a gg drawing context.
//
// Block metrics follow the usual multi-line layout:
//
//	width  = widest line advance
//	height = (lines-1) * (ascent + descent + LineGap) + ascent + descent
//
// so a single line is exactly ascent+descent tall.
package raster

import (
	"image"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/qlabel/pkg/fonts"
	"github.com/matzehuels/qlabel/pkg/label"
)

// LineGap is the extra spacing between lines in pixels.
const LineGap = 4

// Typesetter measures and draws text in a single face.
// It is not safe for concurrent use; create one per render.
type Typesetter struct {
	face    font.Face
	ascent  int
	descent int
}

var _ label.Typesetter = (*Typesetter)(nil)

// New creates a typesetter for f at size pixels.
func New(f *fonts.Font, size int) (*Typesetter, error) {
	face, err := f.NewFace(float64(size))
	if err != nil {
		return nil, err
	}
	m := face.Metrics()
	return &Typesetter{
		face:    face,
		ascent:  m.Ascent.Ceil(),
		descent: m.Descent.Ceil(),
	}, nil
}

// Close releases the underlying face.
func (t *Typesetter) Close() error {
	return t.face.Close()
}

// LineHeight returns the distance between consecutive baselines.
func (t *Typesetter) LineHeight() int {
	return t.ascent + t.descent + LineGap
}

// Measure returns the size of the text block.
func (t *Typesetter) Measure(text string) (w, h int) {
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		w = max(w, t.advance(line))
	}
	h = (len(lines)-1)*t.LineHeight() + t.ascent + t.descent
	return w, h
}

// Draw renders text with its top-left corner at (x, y). Each line is
// aligned within the block width.
func (t *Typesetter) Draw(dst *image.RGBA, text string, x, y int, align label.Align, fill color.Color) {
	lines := strings.Split(text, "\n")
	blockW, _ := t.Measure(text)

	dc := gg.NewContextForRGBA(dst)
	dc.SetFontFace(t.face)
	dc.SetColor(fill)

	for i, line := range lines {
		lx := x
		switch align {
		case label.AlignCenter:
			lx += (blockW - t.advance(line)) / 2
		case label.AlignRight:
			lx += blockW - t.advance(line)
		}
		baseline := y + t.ascent + i*t.LineHeight()
		dc.DrawString(line, float64(lx), float64(baseline))
	}
}

func (t *Typesetter) advance(line string) int {
	return font.MeasureString(t.face, line).Ceil()
}
