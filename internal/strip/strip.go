package strip

import (
	"sort"

	"puzzle-scan/internal/glyph"
	"puzzle-scan/internal/imaging"
	"puzzle-scan/internal/mask"
	"puzzle-scan/internal/palette"
	"puzzle-scan/internal/puzzle"
)

// Orientation records how the strip was laid out before analysis. All
// parsing happens on a horizontal buffer; vertical strips are rotated a
// quarter turn clockwise first, which lands their grid-adjacent edge at
// the bottom just like an unrotated top strip.
type Orientation int

const (
	Horizontal Orientation = iota
	RotatedCW
)

func (o Orientation) String() string {
	if o == RotatedCW {
		return "rotated"
	}
	return "horizontal"
}

// Mode is the constraint notation a strip uses.
type Mode int

const (
	ModeNumeric Mode = iota
	ModeBars
)

func (m Mode) String() string {
	if m == ModeBars {
		return "bars"
	}
	return "numeric"
}

// Result is the parsed content of one constraint strip. Items are
// ordered by position along the strip's main axis; a zero value marks an
// explicit no-requirement slot.
type Result struct {
	Items     []puzzle.ConstraintItem `json:"items"`
	Mode      Mode                    `json:"mode"`
	DualColor bool                    `json:"dual_color"`
	Colors    []puzzle.Color          `json:"colors"`
	Rotated   bool                    `json:"rotated"`
}

// Parse analyzes a cropped constraint strip and returns the constraint
// items it declares. rec recognizes digit glyphs in numeric strips; bar
// strips never consult it.
func Parse(buf *imaging.Buffer, rec glyph.Recognizer, p Params) Result {
	if buf == nil || buf.W == 0 || buf.H == 0 {
		return Result{}
	}

	colors := presentColors(buf, p)
	if len(colors) == 0 {
		return Result{}
	}

	work := buf
	orient := Horizontal
	if float64(buf.H) > p.RotateAspect*float64(buf.W) {
		work = buf.Rotate90CW()
		orient = RotatedCW
	}

	combined := combinedMask(work, colors, p)
	mode := detectMode(combined, p)
	res := Result{
		Mode:      mode,
		DualColor: len(colors) == 2,
		Colors:    colors,
		Rotated:   orient == RotatedCW,
	}

	zeros := findZeroSymbols(work, combined, p)
	if mode == ModeBars {
		res.Items = parseBars(work, colors, zeros, orient, p)
		return res
	}

	if res.DualColor {
		res.Items = parseDualNumeric(work, rec, colors, zeros, orient, p)
	} else {
		res.Items = parseSingleNumeric(work, rec, colors[0], zeros, orient, p)
	}
	return res
}

// presentColors returns the strip's puzzle colors by descending pixel
// count, capped at two. Counting happens before any rotation; the pixel
// population is the same either way.
func presentColors(buf *imaging.Buffer, p Params) []puzzle.Color {
	counts := palette.Counts(buf, buf.Bounds(), false, p.Palette)
	minCount := int(p.PresenceFrac * float64(buf.W*buf.H))
	if minCount < 1 {
		minCount = 1
	}

	var present []puzzle.Color
	for _, c := range puzzle.AllColors() {
		if counts[c] >= minCount {
			present = append(present, c)
		}
	}
	sort.SliceStable(present, func(i, j int) bool {
		return counts[present[i]] > counts[present[j]]
	})
	if len(present) > 2 {
		present = present[:2]
	}
	return present
}

func combinedMask(buf *imaging.Buffer, colors []puzzle.Color, p Params) *mask.Bitmap {
	out := mask.New(buf.W, buf.H)
	for _, c := range colors {
		out.Union(palette.Mask(buf, buf.Bounds(), c, false, p.Palette))
	}
	return out
}

// detectMode decides between tally bars and digit glyphs by how many of
// the sizable combined-mask components are strongly elongated.
func detectMode(combined *mask.Bitmap, p Params) Mode {
	total := 0
	elongated := 0
	for _, comp := range mask.Components(combined) {
		if comp.Area < p.MinBarArea {
			continue
		}
		total++
		ar := comp.AspectRatio()
		if ar > p.BarAspectHigh || (ar > 0 && ar < p.BarAspectLow) {
			elongated++
		}
	}
	if total > 0 && float64(elongated) > p.BarModeFrac*float64(total) {
		return ModeBars
	}
	return ModeNumeric
}
