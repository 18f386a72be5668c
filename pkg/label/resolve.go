package label

import (
	"strings"

	"github.com/matzehuels/qlabel/pkg/errors"
	"github.com/matzehuels/qlabel/pkg/fonts"
)

// Messages returned to clients for the two lookup failures.
const (
	MsgFontNotFound     = "Couldn't find the font & style"
	MsgUnknownLabelSize = "Unknown label_size"
)

// Resolver turns request parameters into a LayoutSpec. It only reads from
// its tables and is safe for concurrent use.
type Resolver struct {
	Fonts   *fonts.Table
	Catalog *Catalog
}

// NewResolver returns a resolver over the given tables. A nil catalog
// selects BrotherQL.
func NewResolver(table *fonts.Table, catalog *Catalog) *Resolver {
	if catalog == nil {
		catalog = BrotherQL
	}
	return &Resolver{Fonts: table, Catalog: catalog}
}

// Resolve builds the layout for p. It fails with ErrCodeFontNotFound when the
// requested font (or, if unset, the default font) is not in the table, and
// with ErrCodeUnknownLabelSize when p.LabelSize is not a catalog entry.
func (r *Resolver) Resolve(p Params) (LayoutSpec, error) {
	font, err := r.font(p.FontFamily)
	if err != nil {
		return LayoutSpec{}, err
	}

	stock, ok := r.Catalog.Lookup(p.LabelSize)
	if !ok {
		return LayoutSpec{}, errors.New(errors.ErrCodeUnknownLabelSize, MsgUnknownLabelSize)
	}

	width, height := stock.DotsPrintable[0], stock.DotsPrintable[1]
	if height > width {
		width, height = height, width
	}
	if p.Orientation == Rotated {
		width, height = height, width
	}

	fill := Black
	if strings.Contains(p.LabelSize, "red") {
		fill = Red
	}

	return LayoutSpec{
		StockID:     stock.ID,
		Kind:        stock.Kind,
		Orientation: p.Orientation,
		Width:       width,
		Height:      height,
		Margins: Margins{
			Top:    MarginPixels(p.FontSize, p.MarginTop),
			Bottom: MarginPixels(p.FontSize, p.MarginBottom),
			Left:   MarginPixels(p.FontSize, p.MarginLeft),
			Right:  MarginPixels(p.FontSize, p.MarginRight),
		},
		FontSize:  p.FontSize,
		Font:      font,
		Fill:      fill,
		Align:     p.Align,
		Threshold: p.Threshold,
	}, nil
}

func (r *Resolver) font(family string) (*fonts.Font, error) {
	if r.Fonts == nil {
		return nil, errors.New(errors.ErrCodeFontNotFound, MsgFontNotFound)
	}
	ref := fonts.ParseFamily(family)
	if ref.IsZero() {
		ref = r.Fonts.Default()
	}
	f, ok := r.Fonts.Lookup(ref.Family, ref.Style)
	if !ok {
		return nil, errors.New(errors.ErrCodeFontNotFound, MsgFontNotFound)
	}
	return f, nil
}
