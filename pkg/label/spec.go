package label

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image/color"
	"math"

	"github.com/matzehuels/qlabel/pkg/fonts"
)

var (
	Black = color.RGBA{A: 0xff}
	Red   = color.RGBA{R: 0xff, A: 0xff}
)

// Margins are per-edge margins in pixels.
type Margins struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// MarginPixels converts a margin given in percent of the font size to pixels,
// truncating toward zero.
func MarginPixels(fontSize int, percent float64) int {
	return int(math.Floor(float64(fontSize) * percent / 100))
}

// LayoutSpec is the resolved geometry and style of one label. A spec is
// built by Resolver.Resolve and is not modified afterwards.
//
// For endless stock one axis of Width/Height is provisional: Render replaces
// it with the measured text extent plus margins.
type LayoutSpec struct {
	StockID     string
	Kind        Kind
	Orientation Orientation
	Width       int
	Height      int
	Margins     Margins
	FontSize    int
	Font        *fonts.Font
	Fill        color.RGBA
	Align       Align
	Threshold   int
}

// IsRed reports whether the label prints in red.
func (s LayoutSpec) IsRed() bool {
	return s.Fill == Red
}

// Hash identifies the rendering inputs of s together with text. Two calls
// with equal inputs yield the same hash; it is used as a preview cache key.
func (s LayoutSpec) Hash(text string) string {
	h := sha256.New()
	fontName := ""
	if s.Font != nil {
		fontName = s.Font.Name() + "\x00" + s.Font.Path
	}
	fmt.Fprintf(h, "%s\x00%d\x00%s\x00%d\x00%d\x00%+v\x00%d\x00%s\x00%v\x00%s\x00%d\x00",
		s.StockID, s.Kind, s.Orientation, s.Width, s.Height, s.Margins,
		s.FontSize, fontName, s.Fill, s.Align, s.Threshold)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
