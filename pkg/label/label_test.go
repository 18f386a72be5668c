package label

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"unicode/utf8"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/qlabel/pkg/errors"
	"github.com/matzehuels/qlabel/pkg/fonts"
)

// fakeTypesetter measures every rune as 10x20 pixels and records draws.
type fakeTypesetter struct {
	measured []string
	drawn    []fakeDraw
}

type fakeDraw struct {
	text  string
	x, y  int
	align Align
	fill  color.Color
}

func (f *fakeTypesetter) Measure(text string) (int, int) {
	f.measured = append(f.measured, text)
	lines := strings.Split(text, "\n")
	w := 0
	for _, line := range lines {
		w = max(w, utf8.RuneCountInString(line)*10)
	}
	h := 0
	for _, line := range lines {
		if line != "" {
			h += 20
		}
	}
	return w, h
}

func (f *fakeTypesetter) Draw(dst *image.RGBA, text string, x, y int, align Align, fill color.Color) {
	f.drawn = append(f.drawn, fakeDraw{text, x, y, align, fill})
}

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	return NewResolver(fonts.Builtin(), nil)
}

func TestResolveOrientationInvariant(t *testing.T) {
	r := testResolver(t)
	catalog := NewCatalog(append(BrotherQL.All(),
		Stock{ID: "tall", Kind: DieCut, DotsPrintable: [2]int{100, 300}},
		Stock{ID: "wide", Kind: DieCut, DotsPrintable: [2]int{300, 100}},
	)...)
	r.Catalog = catalog

	for _, id := range catalog.IDs() {
		for _, o := range []Orientation{Standard, Rotated} {
			p := DefaultParams()
			p.LabelSize = id
			p.Orientation = o
			spec, err := r.Resolve(p)
			if err != nil {
				t.Fatalf("Resolve(%s, %s): %v", id, o, err)
			}
			if o == Standard && spec.Height > spec.Width {
				t.Errorf("%s standard: %dx%d is portrait", id, spec.Width, spec.Height)
			}
			if o == Rotated && spec.Width > spec.Height {
				t.Errorf("%s rotated: %dx%d is landscape", id, spec.Width, spec.Height)
			}
		}
	}
}

func TestMarginPixels(t *testing.T) {
	tests := []struct {
		fontSize int
		percent  float64
		want     int
	}{
		{100, 24, 24},
		{100, 45, 45},
		{33, 35, 11},  // 11.55
		{70, 24, 16},  // 16.8
		{1, 99.9, 0},  // 0.999
		{50, 0, 0},
		{0, 35, 0},
		{40, 250, 100},
		{100, 33.3, 33},
	}
	for _, tt := range tests {
		if got := MarginPixels(tt.fontSize, tt.percent); got != tt.want {
			t.Errorf("MarginPixels(%d, %v) = %d, want %d", tt.fontSize, tt.percent, got, tt.want)
		}
	}
}

func TestResolveFillColor(t *testing.T) {
	r := testResolver(t)

	p := DefaultParams()
	p.LabelSize = "62"
	black, err := r.Resolve(p)
	if err != nil {
		t.Fatal(err)
	}
	p.LabelSize = "62red"
	red, err := r.Resolve(p)
	if err != nil {
		t.Fatal(err)
	}

	if black.Fill != Black || black.IsRed() {
		t.Errorf("62 fill = %v, want black", black.Fill)
	}
	if red.Fill != Red || !red.IsRed() {
		t.Errorf("62red fill = %v, want red", red.Fill)
	}
	if black.Width != red.Width || black.Kind != red.Kind {
		t.Error("62 and 62red should share geometry")
	}
}

func TestResolveFont(t *testing.T) {
	r := testResolver(t)

	tests := []struct {
		name       string
		family     string
		wantFont   string
		wantErrors bool
	}{
		{"explicit", "Go Mono (Bold)", "Go Mono (Bold)", false},
		{"empty uses default", "", "Go (Regular)", false},
		{"style only uses default", "Bold", "Go (Regular)", false},
		{"empty style uses default", "Go ()", "Go (Regular)", false},
		{"unknown family", "Comic Sans (Regular)", "", true},
		{"unknown style", "Go (Oblique)", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			p.FontFamily = tt.family
			spec, err := r.Resolve(p)
			if tt.wantErrors {
				if !errors.Is(err, errors.ErrCodeFontNotFound) {
					t.Fatalf("Resolve() error = %v, want FONT_NOT_FOUND", err)
				}
				if errors.UserMessage(err) != MsgFontNotFound {
					t.Errorf("UserMessage() = %q", errors.UserMessage(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(): %v", err)
			}
			if spec.Font.Name() != tt.wantFont {
				t.Errorf("font = %q, want %q", spec.Font.Name(), tt.wantFont)
			}
		})
	}
}

func TestResolveUnknownDefaultFont(t *testing.T) {
	b := fonts.NewBuilder()
	f, err := fonts.Parse("Only", "Regular", goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	b.Add(f)
	table, err := b.Build(nil)
	if err != nil {
		t.Fatal(err)
	}
	r := NewResolver(table, nil)

	p := DefaultParams()
	p.FontFamily = "Missing (Regular)"
	if _, err := r.Resolve(p); !errors.Is(err, errors.ErrCodeFontNotFound) {
		t.Errorf("Resolve() error = %v, want FONT_NOT_FOUND", err)
	}

	p.FontFamily = ""
	spec, err := r.Resolve(p)
	if err != nil {
		t.Fatalf("Resolve() with fallback default: %v", err)
	}
	if spec.Font.Name() != "Only (Regular)" {
		t.Errorf("font = %q", spec.Font.Name())
	}

	if _, err := NewResolver(nil, nil).Resolve(DefaultParams()); !errors.Is(err, errors.ErrCodeFontNotFound) {
		t.Errorf("Resolve() without table error = %v, want FONT_NOT_FOUND", err)
	}
}

func TestResolveUnknownStock(t *testing.T) {
	r := testResolver(t)
	p := DefaultParams()
	p.LabelSize = "99x99"

	_, err := r.Resolve(p)
	if !errors.Is(err, errors.ErrCodeUnknownLabelSize) {
		t.Fatalf("Resolve() error = %v, want UNKNOWN_LABEL_SIZE", err)
	}
	if errors.Is(err, errors.ErrCodeFontNotFound) {
		t.Error("stock failure should not report a font error")
	}
	if errors.UserMessage(err) != MsgUnknownLabelSize {
		t.Errorf("UserMessage() = %q", errors.UserMessage(err))
	}
}

func TestResolveFontCheckedFirst(t *testing.T) {
	r := testResolver(t)
	p := DefaultParams()
	p.LabelSize = "nope"
	p.FontFamily = "Nope (Regular)"
	if _, err := r.Resolve(p); !errors.Is(err, errors.ErrCodeFontNotFound) {
		t.Errorf("Resolve() error = %v, want FONT_NOT_FOUND", err)
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello", "Hello"},
		{"A\n\nB", "A\n \nB"},
		{"", " "},
		{"\n", " \n "},
		{"A\n", "A\n "},
		{"A\n \nB", "A\n \nB"},
	}
	for _, tt := range tests {
		if got := NormalizeText(tt.in); got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderEmptyLineSubstitution(t *testing.T) {
	r := testResolver(t)
	spec, err := r.Resolve(DefaultParams())
	if err != nil {
		t.Fatal(err)
	}

	a := &fakeTypesetter{}
	b := &fakeTypesetter{}
	imgA := Render("A\n\nB", spec, a)
	imgB := Render("A\n \nB", spec, b)

	if a.measured[0] != b.measured[0] || a.drawn[0].text != b.drawn[0].text {
		t.Errorf("texts differ: %q vs %q", a.drawn[0].text, b.drawn[0].text)
	}
	if a.measured[0] != a.drawn[0].text {
		t.Error("measured and drawn text should be identical")
	}
	if imgA.Bounds() != imgB.Bounds() {
		t.Errorf("bounds %v vs %v", imgA.Bounds(), imgB.Bounds())
	}
	// three lines of 20px plus 24+45 margins
	if got := imgA.Bounds().Dy(); got != 60+69 {
		t.Errorf("height = %d, want %d", got, 129)
	}
}

func TestPlace(t *testing.T) {
	m := Margins{Top: 24, Bottom: 45, Left: 35, Right: 35}

	tests := []struct {
		name   string
		spec   LayoutSpec
		tw, th int
		want   Placement
	}{
		{
			name: "die-cut standard",
			spec: LayoutSpec{Kind: DieCut, Orientation: Standard, Width: 696, Height: 271, Margins: m},
			tw:   300, th: 100,
			// (271-100)/2 = 85, (24-45)/2 = -11 (floor)
			want: Placement{Width: 696, Height: 271, X: 198, Y: 74},
		},
		{
			name: "round die-cut rotated",
			spec: LayoutSpec{Kind: RoundDieCut, Orientation: Rotated, Width: 236, Height: 236, Margins: m},
			tw:   100, th: 50,
			want: Placement{Width: 236, Height: 236, X: 68, Y: 82},
		},
		{
			name: "endless standard grows height",
			spec: LayoutSpec{Kind: Endless, Orientation: Standard, Width: 696, Height: 0, Margins: m},
			tw:   300, th: 100,
			want: Placement{Width: 696, Height: 169, X: 198, Y: 24},
		},
		{
			name: "endless rotated grows width",
			spec: LayoutSpec{Kind: Endless, Orientation: Rotated, Width: 0, Height: 696, Margins: m},
			tw:   300, th: 100,
			want: Placement{Width: 370, Height: 696, X: 35, Y: 287},
		},
		{
			name: "text wider than die-cut clamps x",
			spec: LayoutSpec{Kind: DieCut, Orientation: Standard, Width: 200, Height: 100, Margins: m},
			tw:   500, th: 40,
			want: Placement{Width: 200, Height: 100, X: 0, Y: 19},
		},
		{
			name: "text taller than die-cut goes negative",
			spec: LayoutSpec{Kind: DieCut, Orientation: Standard, Width: 200, Height: 100, Margins: m},
			tw:   50, th: 205,
			// floor(-105/2) = -53, floor(-21/2) = -11
			want: Placement{Width: 200, Height: 100, X: 75, Y: -64},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Place(tt.spec, tt.tw, tt.th); got != tt.want {
				t.Errorf("Place() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPlaceCapsEndlessLength(t *testing.T) {
	m := Margins{Top: 120, Bottom: 225, Left: 175, Right: 175}
	tall := Place(LayoutSpec{Kind: Endless, Orientation: Standard, Width: 696, Margins: m}, 400, 40000)
	if tall.Height != MaxEndlessLength || tall.Width != 696 || tall.Y != m.Top {
		t.Errorf("standard Place() = %+v, want height %d", tall, MaxEndlessLength)
	}
	wide := Place(LayoutSpec{Kind: Endless, Orientation: Rotated, Height: 696, Margins: m}, 40000, 400)
	if wide.Width != MaxEndlessLength || wide.Height != 696 || wide.X != m.Left {
		t.Errorf("rotated Place() = %+v, want width %d", wide, MaxEndlessLength)
	}
}

func TestPlacePanicsOnEmptyCanvas(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Place() should panic on a zero-size canvas")
		}
	}()
	Place(LayoutSpec{Kind: DieCut, Width: 0, Height: 100}, 10, 10)
}

func TestRenderEndlessStandard(t *testing.T) {
	r := testResolver(t)
	p := DefaultParams()
	p.LabelSize = "62"
	spec, err := r.Resolve(p)
	if err != nil {
		t.Fatal(err)
	}

	ts := &fakeTypesetter{}
	img := Render("one\ntwo\nthree\nfour\nfive\nsix\nseven\neight\nnine\nten\neleven\ntwelve\nthirteen\nfourteen", spec, ts)

	_, th := ts.Measure(ts.drawn[0].text)
	if got, want := img.Bounds().Dy(), th+spec.Margins.Top+spec.Margins.Bottom; got != want {
		t.Errorf("height = %d, want %d", got, want)
	}
	if img.Bounds().Dx() != spec.Width {
		t.Errorf("width = %d, want %d", img.Bounds().Dx(), spec.Width)
	}
	if ts.drawn[0].y != spec.Margins.Top {
		t.Errorf("y = %d, want margin top %d", ts.drawn[0].y, spec.Margins.Top)
	}
}

func TestRenderDieCutFixedSize(t *testing.T) {
	r := testResolver(t)
	p := DefaultParams()
	p.LabelSize = "29x90"
	spec, err := r.Resolve(p)
	if err != nil {
		t.Fatal(err)
	}

	short := Render("Hi", spec, &fakeTypesetter{})
	long := Render("A considerably longer label\nwith\nseveral\nlines", spec, &fakeTypesetter{})
	if short.Bounds() != long.Bounds() {
		t.Errorf("die-cut bounds changed: %v vs %v", short.Bounds(), long.Bounds())
	}
	if short.Bounds().Dx() != 991 || short.Bounds().Dy() != 306 {
		t.Errorf("bounds = %v, want 991x306", short.Bounds())
	}
}

func TestRenderCanvasAndDraw(t *testing.T) {
	r := testResolver(t)
	p := DefaultParams()
	p.LabelSize = "62red"
	p.Align = AlignRight
	spec, err := r.Resolve(p)
	if err != nil {
		t.Fatal(err)
	}

	ts := &fakeTypesetter{}
	img := Render("Hello", spec, ts)

	if len(ts.drawn) != 1 {
		t.Fatalf("drawn %d times, want 1", len(ts.drawn))
	}
	d := ts.drawn[0]
	if d.align != AlignRight || d.fill != Red {
		t.Errorf("draw align=%v fill=%v", d.align, d.fill)
	}
	if c := img.RGBAAt(0, 0); c != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("background = %v, want white", c)
	}
}

func TestEndToEndDieCut(t *testing.T) {
	r := testResolver(t)
	values := Values{"text": "Hello", "label_size": "62x29", "orientation": "standard", "font_size": "100"}
	p, err := ParseParams(values, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	spec, err := r.Resolve(p)
	if err != nil {
		t.Fatal(err)
	}

	want := Margins{Top: 24, Bottom: 45, Left: 35, Right: 35}
	if spec.Margins != want {
		t.Errorf("margins = %+v, want %+v", spec.Margins, want)
	}
	if spec.Width != 696 || spec.Height != 271 || spec.Kind != DieCut {
		t.Errorf("spec = %s %dx%d", spec.Kind, spec.Width, spec.Height)
	}

	ts := &fakeTypesetter{}
	img := Render(p.Text, spec, ts)
	tw, th := 50, 20
	d := ts.drawn[0]
	if wantY := floorDiv(271-th, 2) + floorDiv(24-45, 2); d.y != wantY {
		t.Errorf("y = %d, want %d", d.y, wantY)
	}
	if wantX := (696 - tw) / 2; d.x != wantX {
		t.Errorf("x = %d, want %d", d.x, wantX)
	}
	if img.Bounds().Dx() != 696 || img.Bounds().Dy() != 271 {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{7, 2, 3},
		{-7, 2, -4},
		{-21, 2, -11},
		{-20, 2, -10},
		{0, 2, 0},
		{7, -2, -4},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSpecHash(t *testing.T) {
	r := testResolver(t)
	spec, err := r.Resolve(DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if spec.Hash("a") != spec.Hash("a") {
		t.Error("Hash should be deterministic")
	}
	if spec.Hash("a") == spec.Hash("b") {
		t.Error("Hash should depend on text")
	}
	other := spec
	other.Align = AlignLeft
	if spec.Hash("a") == other.Hash("a") {
		t.Error("Hash should depend on layout")
	}
}
