package fonts

import (
	"sort"

	"github.com/matzehuels/qlabel/pkg/errors"
)

// Table maps family -> style -> Font and carries the default font.
// A Table is immutable once built.
type Table struct {
	fonts    map[string]map[string]*Font
	def      Ref
	fallback bool
}

// Lookup returns the font registered for family and style.
func (t *Table) Lookup(family, style string) (*Font, bool) {
	styles, ok := t.fonts[family]
	if !ok {
		return nil, false
	}
	f, ok := styles[style]
	return f, ok
}

// Default returns the configured default font reference.
func (t *Table) Default() Ref {
	return t.def
}

// DefaultIsFallback reports whether none of the preferred default fonts was
// available and the default was picked from the table instead.
func (t *Table) DefaultIsFallback() bool {
	return t.fallback
}

// Families returns all family names in sorted order.
func (t *Table) Families() []string {
	names := make([]string, 0, len(t.fonts))
	for name := range t.fonts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Styles returns the style names of family in sorted order.
func (t *Table) Styles(family string) []string {
	styles := t.fonts[family]
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered fonts across all families.
func (t *Table) Len() int {
	n := 0
	for _, styles := range t.fonts {
		n += len(styles)
	}
	return n
}

// Builder assembles a Table. It is not safe for concurrent use.
type Builder struct {
	fonts map[string]map[string]*Font
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{fonts: make(map[string]map[string]*Font)}
}

// Add registers f. A later font with the same family and style replaces
// the earlier one, so configured fonts can shadow built-in ones.
func (b *Builder) Add(f *Font) {
	styles, ok := b.fonts[f.Family]
	if !ok {
		styles = make(map[string]*Font)
		b.fonts[f.Family] = styles
	}
	styles[f.Style] = f
}

// Build freezes the registered fonts into a Table.
//
// The default font is the first entry of preferred that is present. When
// none is present the alphabetically first family and style is used and
// DefaultIsFallback reports true.
func (b *Builder) Build(preferred []Ref) (*Table, error) {
	if len(b.fonts) == 0 {
		return nil, errors.New(errors.ErrCodeFontNotFound, "no fonts available")
	}

	t := &Table{fonts: b.fonts}
	b.fonts = make(map[string]map[string]*Font)

	for _, ref := range preferred {
		if _, ok := t.Lookup(ref.Family, ref.Style); ok {
			t.def = ref
			return t, nil
		}
	}

	family := t.Families()[0]
	t.def = Ref{Family: family, Style: t.Styles(family)[0]}
	t.fallback = true
	return t, nil
}
