package label

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
)

// Typesetter measures and draws multi-line text in one font at one size.
// Measure and Draw must agree: text drawn at (x, y) occupies the rectangle
// (x, y)-(x+w, y+h) where w, h = Measure(text).
type Typesetter interface {
	Measure(text string) (w, h int)
	Draw(dst *image.RGBA, text string, x, y int, align Align, fill color.Color)
}

// NormalizeText replaces every empty line of text with a single space so
// that blank lines keep their height when measured.
func NormalizeText(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = " "
		}
	}
	return strings.Join(lines, "\n")
}

// Placement is the final canvas size and the top-left corner of the text
// block within it.
type Placement struct {
	Width, Height int
	X, Y          int
}

// Place computes the canvas size and text offset for a text block of
// tw x th pixels. Endless labels grow along the feed axis; die-cut labels
// keep the stock size. All divisions round toward negative infinity.
func Place(spec LayoutSpec, tw, th int) Placement {
	p := Placement{Width: spec.Width, Height: spec.Height}
	m := spec.Margins

	if spec.Kind == Endless {
		switch spec.Orientation {
		case Rotated:
			p.Width = min(tw+m.Left+m.Right, MaxEndlessLength)
		default:
			p.Height = min(th+m.Top+m.Bottom, MaxEndlessLength)
		}
	}

	centerY := floorDiv(p.Height-th, 2) + floorDiv(m.Top-m.Bottom, 2)
	centerX := max(floorDiv(p.Width-tw, 2), 0)

	switch {
	case spec.Kind == Endless && spec.Orientation == Rotated:
		p.X, p.Y = m.Left, centerY
	case spec.Kind == Endless:
		p.X, p.Y = centerX, m.Top
	default:
		p.X, p.Y = centerX, centerY
	}

	if p.Width <= 0 || p.Height <= 0 {
		panic(fmt.Sprintf("label: non-positive canvas %dx%d for %s stock %q", p.Width, p.Height, spec.Kind, spec.StockID))
	}
	return p
}

// Render draws text onto a white canvas laid out according to spec.
// spec must come from Resolver.Resolve; Render panics on a layout that
// yields an empty canvas.
func Render(text string, spec LayoutSpec, ts Typesetter) *image.RGBA {
	text = NormalizeText(text)
	tw, th := ts.Measure(text)
	p := Place(spec, tw, th)

	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	ts.Draw(img, text, p.X, p.Y, spec.Align, spec.Fill)
	return img
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
