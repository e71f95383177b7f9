package strip

import (
	"puzzle-scan/internal/imaging"
	"puzzle-scan/internal/mask"
	"puzzle-scan/internal/palette"
	"puzzle-scan/internal/puzzle"
	"puzzle-scan/pkg/geometry"
)

// parseBars reads tally notation: each slot holds a tight pack of thin
// bars and the pack size is the requirement. Slots are recovered by
// clustering bar and zero-symbol centroids along the strip axis, so a
// missing slot never shifts the ones after it. A zero symbol forces the
// slot to an explicit no-requirement item even when stray bars share
// the cluster. Rotated strips index their slots in the original
// top-to-bottom order.
func parseBars(buf *imaging.Buffer, colors []puzzle.Color, zeros []mask.Component, orient Orientation, p Params) []puzzle.ConstraintItem {
	type mark struct {
		color puzzle.Color
		zero  bool
	}
	var (
		xs    []float64
		marks []mark
	)
	for _, c := range colors {
		for _, b := range barComponents(palette.Mask(buf, buf.Bounds(), c, false, p.Palette), buf, p) {
			xs = append(xs, b.Centroid.X)
			marks = append(marks, mark{color: c})
		}
	}
	for _, z := range zeros {
		xs = append(xs, z.Centroid.X)
		marks = append(marks, mark{zero: true})
	}
	if len(xs) == 0 {
		return nil
	}

	groups := clusterIndices(xs, p.BarGapSpread, p.BarGapFrac)
	if orient == RotatedCW {
		for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
			groups[i], groups[j] = groups[j], groups[i]
		}
	}

	var items []puzzle.ConstraintItem
	for slot, group := range groups {
		counts := make(map[puzzle.Color]int)
		zeroed := false
		for _, gi := range group {
			if marks[gi].zero {
				zeroed = true
				continue
			}
			counts[marks[gi].color]++
		}
		for _, c := range colors {
			switch {
			case zeroed:
				items = append(items, puzzle.ConstraintItem{Index: slot, Color: c, Value: 0})
			case counts[c] > 0:
				items = append(items, puzzle.ConstraintItem{Index: slot, Color: c, Value: counts[c]})
			}
		}
	}
	return items
}

// barComponents filters a color mask down to tally bars: sizable, clearly
// non-square, and not border chrome running the length of the strip.
func barComponents(m *mask.Bitmap, buf *imaging.Buffer, p Params) []mask.Component {
	var out []mask.Component
	for _, comp := range mask.Components(m) {
		if comp.Area < p.MinBarArea {
			continue
		}
		ar := comp.AspectRatio()
		if ar >= p.BarSquareLow && ar <= p.BarSquareHigh {
			continue
		}
		if nearFrame(comp.Box, buf.W, buf.H, p.BarFrameMargin) &&
			float64(comp.Box.MaxDim()) > p.BarOversize*float64(buf.H) {
			continue
		}
		out = append(out, comp)
	}
	return out
}

func nearFrame(box geometry.Box, w, h, margin int) bool {
	return box.X1 <= margin || box.Y1 <= margin || box.X2 >= w-margin || box.Y2 >= h-margin
}
