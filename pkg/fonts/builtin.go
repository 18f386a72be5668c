package fonts

import (
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Built-in family names.
const (
	FamilyGo     = "Go"
	FamilyGoMono = "Go Mono"
)

// DefaultRef is the built-in font used when nothing else is configured.
var DefaultRef = Ref{Family: FamilyGo, Style: "Regular"}

var builtins = []struct {
	family, style string
	data          []byte
}{
	{FamilyGo, "Regular", goregular.TTF},
	{FamilyGo, "Bold", gobold.TTF},
	{FamilyGo, "Italic", goitalic.TTF},
	{FamilyGo, "Bold Italic", gobolditalic.TTF},
	{FamilyGo, "Medium", gomedium.TTF},
	{FamilyGo, "Medium Italic", gomediumitalic.TTF},
	{FamilyGoMono, "Regular", gomono.TTF},
	{FamilyGoMono, "Bold", gomonobold.TTF},
	{FamilyGoMono, "Italic", gomonoitalic.TTF},
	{FamilyGoMono, "Bold Italic", gomonobolditalic.TTF},
}

// AddBuiltin registers the embedded Go font families.
func (b *Builder) AddBuiltin() error {
	for _, bf := range builtins {
		f, err := Parse(bf.family, bf.style, bf.data)
		if err != nil {
			return err
		}
		b.Add(f)
	}
	return nil
}

// Builtin returns a table holding only the embedded fonts, with
// DefaultRef as its default.
func Builtin() *Table {
	b := NewBuilder()
	if err := b.AddBuiltin(); err != nil {
		// The embedded fonts are fixed at compile time.
		panic(err)
	}
	t, _ := b.Build([]Ref{DefaultRef})
	return t
}
