// Package fonts maintains the table of fonts available for label rendering.
//
// A [Table] maps a family name to its styles, each backed by a parsed
// OpenType font. Tables are assembled once at startup with a [Builder] and
// are read-only afterwards, so a single table can be shared by concurrent
// requests without locking.
//
// The Go font families ("Go" and "Go Mono") are embedded in the binary and
// always available, so a table is never empty even on a host without any
// system fonts installed.
package fonts

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/qlabel/pkg/errors"
)

// faceDPI makes one point equal one pixel, so a font size is a pixel size.
const faceDPI = 72

// Font is a single loadable font: one style of one family.
type Font struct {
	Family string
	Style  string
	Path   string // source file; empty for embedded fonts

	otf *opentype.Font
}

// Parse parses TrueType or OpenType data into a Font.
func Parse(family, style string, data []byte) (*Font, error) {
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse font %s (%s)", family, style)
	}
	return &Font{Family: family, Style: style, otf: otf}, nil
}

// Load reads and parses the font file at path.
func Load(family, style, path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "font file %s", path)
		}
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	f, err := Parse(family, style, data)
	if err != nil {
		return nil, err
	}
	f.Path = path
	return f, nil
}

// Name returns the combined "Family (Style)" form used by clients.
func (f *Font) Name() string {
	return Ref{Family: f.Family, Style: f.Style}.String()
}

// NewFace returns a face rendering f at size pixels.
// The caller owns the face and should Close it when done.
func (f *Font) NewFace(size float64) (font.Face, error) {
	face, err := opentype.NewFace(f.otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     faceDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face for %s at %.0fpx: %w", f.Name(), size, err)
	}
	return face, nil
}

// Ref names a font by family and style without loading it.
type Ref struct {
	Family string `toml:"family" json:"family"`
	Style  string `toml:"style" json:"style"`
}

// String returns "Family (Style)".
func (r Ref) String() string {
	return fmt.Sprintf("%s (%s)", r.Family, r.Style)
}

// IsZero reports whether either half of the reference is unset.
func (r Ref) IsZero() bool {
	return r.Family == "" || r.Style == ""
}

// ParseFamily splits the combined "Family (Style)" form.
//
// The family is everything before the last "(" and the style is the text
// between it and the trailing ")". Both halves are trimmed. A string without
// "(" yields an empty family, which callers treat as unset.
func ParseFamily(s string) Ref {
	i := strings.LastIndex(s, "(")
	if i < 0 {
		return Ref{Style: trimStyle(s)}
	}
	return Ref{
		Family: strings.TrimSpace(s[:i]),
		Style:  trimStyle(s[i+1:]),
	}
}

func trimStyle(s string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), ")"))
}
