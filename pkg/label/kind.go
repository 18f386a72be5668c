package label

import "fmt"

// Kind is the physical form factor of label stock.
type Kind int

const (
	// Endless tape has a fixed width and grows to fit the text.
	Endless Kind = iota
	// DieCut labels are pre-sized rectangles.
	DieCut
	// RoundDieCut labels are pre-sized circles.
	RoundDieCut
)

// String returns the catalog name of the kind.
func (k Kind) String() string {
	switch k {
	case Endless:
		return "endless"
	case DieCut:
		return "die-cut"
	case RoundDieCut:
		return "round die-cut"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Fixed reports whether the canvas size is fixed by the stock.
func (k Kind) Fixed() bool {
	return k == DieCut || k == RoundDieCut
}

// Orientation selects whether text runs along the tape or across it.
type Orientation string

const (
	Standard Orientation = "standard"
	Rotated  Orientation = "rotated"
)

// Valid reports whether o is a known orientation.
func (o Orientation) Valid() bool {
	return o == Standard || o == Rotated
}

// Align is the horizontal alignment of lines within the text block.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Valid reports whether a is a known alignment.
func (a Align) Valid() bool {
	return a == AlignLeft || a == AlignCenter || a == AlignRight
}
