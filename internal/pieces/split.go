package pieces

import (
	"sort"

	"puzzle-scan/internal/imaging"
	"puzzle-scan/internal/mask"
	"puzzle-scan/internal/palette"
	"puzzle-scan/internal/puzzle"
	"puzzle-scan/pkg/disjoint"
	"puzzle-scan/pkg/geometry"
)

// splitStack cuts the panel at fully white separator rows and trims each
// band to its content. Returns nil unless at least two pieces emerge, so
// the caller falls back to component merging.
func splitStack(buf *imaging.Buffer, p Params) []geometry.Box {
	white := make([]bool, buf.H)
	for y := 0; y < buf.H; y++ {
		white[y] = rowWhite(buf, y, p.WhiteLevel)
	}

	var boxes []geometry.Box
	for y := 0; y < buf.H; {
		if white[y] {
			y++
			continue
		}
		start := y
		for y < buf.H && !white[y] {
			y++
		}
		box := trimWhite(buf, geometry.Box{X1: 0, Y1: start, X2: buf.W, Y2: y}, p.WhiteLevel)
		if box.Valid() {
			boxes = append(boxes, box)
		}
	}
	if len(boxes) < 2 {
		return nil
	}
	return boxes
}

func rowWhite(buf *imaging.Buffer, y int, level uint8) bool {
	for x := 0; x < buf.W; x++ {
		if !pixelWhite(buf, x, y, level) {
			return false
		}
	}
	return true
}

func pixelWhite(buf *imaging.Buffer, x, y int, level uint8) bool {
	r, g, b, _ := buf.RGBAAt(x, y)
	return r >= level && g >= level && b >= level
}

// trimWhite shrinks a box while its edge lines are fully white.
func trimWhite(buf *imaging.Buffer, box geometry.Box, level uint8) geometry.Box {
	for box.Valid() && lineWhite(buf, box.X1, box.X2, box.Y1, box.Y1+1, level) {
		box.Y1++
	}
	for box.Valid() && lineWhite(buf, box.X1, box.X2, box.Y2-1, box.Y2, level) {
		box.Y2--
	}
	for box.Valid() && lineWhite(buf, box.X1, box.X1+1, box.Y1, box.Y2, level) {
		box.X1++
	}
	for box.Valid() && lineWhite(buf, box.X2-1, box.X2, box.Y1, box.Y2, level) {
		box.X2--
	}
	return box
}

func lineWhite(buf *imaging.Buffer, x1, x2, y1, y2 int, level uint8) bool {
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			if !pixelWhite(buf, x, y, level) {
				return false
			}
		}
	}
	return true
}

// mergeComponents groups sizable color components into piece boxes.
// Fragments of one drawn piece overlap vertically and sit within a
// box-width of each other; anything further apart is a different piece.
func mergeComponents(buf *imaging.Buffer, p Params) []geometry.Box {
	combined := mask.New(buf.W, buf.H)
	for _, c := range puzzle.AllColors() {
		combined.Union(palette.Mask(buf, buf.Bounds(), c, false, p.Palette))
	}

	minArea := max(p.MinCompArea, int(p.MinCompAreaFrac*float64(buf.W*buf.H)))
	var comps []mask.Component
	for _, comp := range mask.Components(combined) {
		if comp.Area < minArea || comp.Box.MinDim() < p.MinCompDim {
			continue
		}
		comps = append(comps, comp)
	}
	if len(comps) == 0 {
		return nil
	}

	ds := disjoint.New(len(comps))
	for i := 0; i < len(comps); i++ {
		for j := i + 1; j < len(comps); j++ {
			if shouldMerge(comps[i].Box, comps[j].Box, p) {
				ds.Union(i, j)
			}
		}
	}

	var boxes []geometry.Box
	for _, members := range ds.Groups() {
		box := comps[members[0]].Box
		for _, m := range members[1:] {
			box = box.Union(comps[m].Box)
		}
		boxes = append(boxes, box)
	}
	sort.Slice(boxes, func(i, j int) bool {
		if boxes[i].Y1 != boxes[j].Y1 {
			return boxes[i].Y1 < boxes[j].Y1
		}
		return boxes[i].X1 < boxes[j].X1
	})
	return boxes
}

func shouldMerge(a, b geometry.Box, p Params) bool {
	overlap := min(a.Y2, b.Y2) - max(a.Y1, b.Y1)
	shorter := min(a.Height(), b.Height())
	if float64(overlap) <= p.MergeOverlap*float64(shorter) {
		return false
	}
	gap := max(a.X1, b.X1) - min(a.X2, b.X2)
	avgWidth := float64(a.Width()+b.Width()) / 2
	return float64(gap) < p.MergeGapFactor*avgWidth
}
