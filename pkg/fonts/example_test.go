package fonts_test

import (
	"fmt"

	"github.com/matzehuels/qlabel/pkg/fonts"
)

func ExampleParseFamily() {
	for _, s := range []string{"DejaVu Sans (Book)", "Font (Pro) (Bold Italic)"} {
		ref := fonts.ParseFamily(s)
		fmt.Printf("family=%q style=%q\n", ref.Family, ref.Style)
	}
	// Output:
	// family="DejaVu Sans" style="Book"
	// family="Font (Pro)" style="Bold Italic"
}

func ExampleBuiltin() {
	t := fonts.Builtin()
	fmt.Println("Default:", t.Default())
	fmt.Println("Families:", t.Families())
	// Output:
	// Default: Go (Regular)
	// Families: [Go Go Mono]
}
