// Package puzzle defines the board, piece, and constraint model shared by
// the screenshot analyzers and the placement solver.
package puzzle

// Color identifies one of the playable piece colors.
type Color int

const (
	ColorOrange Color = iota
	ColorYellow
	ColorGreen
	ColorBlue
	numColors
)

// ColorNone marks the absence of a color.
const ColorNone Color = -1

// NumColors is the size of the closed color set.
const NumColors = int(numColors)

func (c Color) String() string {
	switch c {
	case ColorOrange:
		return "orange"
	case ColorYellow:
		return "yellow"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	default:
		return "none"
	}
}

// Valid reports whether c is a member of the closed color set.
func (c Color) Valid() bool {
	return c >= 0 && c < numColors
}

// Letter returns a single-character tag used in board printouts.
func (c Color) Letter() byte {
	switch c {
	case ColorOrange:
		return 'O'
	case ColorYellow:
		return 'Y'
	case ColorGreen:
		return 'G'
	case ColorBlue:
		return 'B'
	default:
		return '?'
	}
}

// AllColors lists the closed color set in classification order.
func AllColors() []Color {
	return []Color{ColorOrange, ColorYellow, ColorGreen, ColorBlue}
}
