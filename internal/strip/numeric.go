package strip

import (
	"sort"

	"puzzle-scan/internal/glyph"
	"puzzle-scan/internal/imaging"
	"puzzle-scan/internal/mask"
	"puzzle-scan/internal/palette"
	"puzzle-scan/internal/puzzle"
)

// glyphBandMin returns the y coordinate glyph centroids must reach.
// Digits hug the grid edge, which is the bottom of the working buffer in
// both orientations: top strips are captured with the grid below them,
// and the clockwise quarter turn maps a side strip's grid-facing right
// edge to the bottom as well.
func glyphBandMin(h int) float64 { return float64(h) / 2 }

// readDigit recognizes one extracted glyph, funneling every answered 6
// through the zero/six correction. Anything outside 0..9 degrades to 0,
// the explicit no-requirement value.
func readDigit(rec glyph.Recognizer, lab *mask.Labeling, id int, orient Orientation) int {
	gm := glyph.FromBitmap(lab.Extract(id), orient == RotatedCW)
	d := glyph.Unrecognized
	if rec != nil {
		d = rec.Recognize(gm)
	}
	if d == 6 {
		d = glyph.CorrectZeroSix(gm)
	}
	if d < 0 || d > 9 {
		d = 0
	}
	return d
}

// parseSingleNumeric reads a one-color digit strip. Components are
// recognized strictly left to right, one call at a time, so backends
// with per-call state see the buffer in reading order. Zero symbols
// claim their slots with value 0. A rotated strip scans bottom-up, so
// its slot order is reversed afterwards to restore top-to-bottom
// indices.
func parseSingleNumeric(buf *imaging.Buffer, rec glyph.Recognizer, c puzzle.Color, zeros []mask.Component, orient Orientation, p Params) []puzzle.ConstraintItem {
	lab, cands := glyphCandidates(buf, c, false, p)
	if len(cands) == 0 {
		lab, cands = glyphCandidates(buf, c, true, p)
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Centroid.X < cands[j].Centroid.X
	})

	type slot struct {
		x     float64
		value int
	}
	slots := make([]slot, 0, len(cands)+len(zeros))
	for _, comp := range cands {
		slots = append(slots, slot{x: comp.Centroid.X, value: readDigit(rec, lab, comp.ID, orient)})
	}
	for _, z := range zeros {
		slots = append(slots, slot{x: z.Centroid.X, value: 0})
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].x < slots[j].x })
	if orient == RotatedCW {
		for i, j := 0, len(slots)-1; i < j; i, j = i+1, j-1 {
			slots[i], slots[j] = slots[j], slots[i]
		}
	}

	items := make([]puzzle.ConstraintItem, 0, len(slots))
	for i, s := range slots {
		items = append(items, puzzle.ConstraintItem{Index: i, Color: c, Value: s.value})
	}
	return items
}

// glyphCandidates masks one color and keeps the components shaped like
// digit glyphs in the grid-adjacent half of the strip.
func glyphCandidates(buf *imaging.Buffer, c puzzle.Color, relaxed bool, p Params) (*mask.Labeling, []mask.Component) {
	lab := mask.Label(palette.Mask(buf, buf.Bounds(), c, relaxed, p.Palette))
	minDim := p.GlyphMinHeightFrac * float64(buf.H)
	var cands []mask.Component
	for _, comp := range lab.Comps {
		if comp.Area < p.MinGlyphArea {
			continue
		}
		if comp.AspectRatio() > p.GlyphAspectMax {
			continue
		}
		if float64(comp.Box.MaxDim()) < minDim {
			continue
		}
		if comp.Centroid.Y < glyphBandMin(buf.H) {
			continue
		}
		cands = append(cands, comp)
	}
	return lab, cands
}

// parseDualNumeric reads a strip where two colors stack their digits in
// each slot, the first color on top and the second underneath. Slots come
// from clustering every candidate centroid, zero symbols included, so a
// slot showing only a ring still claims its position. A color missing
// from a slot means no requirement there. Recognition runs left to
// right; a rotated strip's slots are reindexed afterwards so slot 0 is
// the original top.
func parseDualNumeric(buf *imaging.Buffer, rec glyph.Recognizer, colors []puzzle.Color, zeros []mask.Component, orient Orientation, p Params) []puzzle.ConstraintItem {
	labs := make([]*mask.Labeling, len(colors))
	cands := make([][]mask.Component, len(colors))
	for ci := range colors {
		labs[ci], cands[ci] = dualCandidates(buf, colors[ci], ci == 1, p)
	}

	type ref struct {
		color int // candidate's color index, -1 for a zero symbol
		comp  mask.Component
	}
	var refs []ref
	var xs []float64
	for ci := range colors {
		for _, comp := range cands[ci] {
			refs = append(refs, ref{color: ci, comp: comp})
			xs = append(xs, comp.Centroid.X)
		}
	}
	for _, z := range zeros {
		refs = append(refs, ref{color: -1, comp: z})
		xs = append(xs, z.Centroid.X)
	}
	if len(refs) == 0 {
		return nil
	}

	groups := clusterIndices(xs, p.DualGapSpread, p.DualGapFrac)
	blocks := make([][]puzzle.ConstraintItem, 0, len(groups))
	for _, group := range groups {
		block := make([]puzzle.ConstraintItem, 0, len(colors))
		for ci, c := range colors {
			var members []mask.Component
			for _, ri := range group {
				if refs[ri].color == ci {
					members = append(members, refs[ri].comp)
				}
			}
			value := 0
			if len(members) > 0 {
				members = dropSmall(members, p.DualKeepFrac)
				best := members[0]
				for _, m := range members[1:] {
					if m.Area > best.Area {
						best = m
					}
				}
				value = readDigit(rec, labs[ci], best.ID, orient)
			}
			block = append(block, puzzle.ConstraintItem{Color: c, Value: value})
		}
		blocks = append(blocks, block)
	}
	if orient == RotatedCW {
		for i, j := 0, len(blocks)-1; i < j; i, j = i+1, j-1 {
			blocks[i], blocks[j] = blocks[j], blocks[i]
		}
	}

	var items []puzzle.ConstraintItem
	for slot, block := range blocks {
		for _, it := range block {
			it.Index = slot
			items = append(items, it)
		}
	}
	return items
}

// dualCandidates masks one color both strictly and relaxed and keeps the
// variant that yields more digit-sized components in the color's half.
// Strict wins ties.
func dualCandidates(buf *imaging.Buffer, c puzzle.Color, bottom bool, p Params) (*mask.Labeling, []mask.Component) {
	strictLab := mask.Label(palette.Mask(buf, buf.Bounds(), c, false, p.Palette))
	strict := dualFilter(strictLab, buf, bottom, p)
	relaxedLab := mask.Label(palette.Mask(buf, buf.Bounds(), c, true, p.Palette))
	relaxed := dualFilter(relaxedLab, buf, bottom, p)
	if len(relaxed) > len(strict) {
		return relaxedLab, relaxed
	}
	return strictLab, strict
}

func dualFilter(lab *mask.Labeling, buf *imaging.Buffer, bottom bool, p Params) []mask.Component {
	larger := float64(max(buf.W, buf.H))
	minDim := p.DualSizeMinFrac * larger
	maxDim := p.DualSizeMaxFrac * larger
	mid := float64(buf.H) / 2

	var out []mask.Component
	for _, comp := range lab.Comps {
		if comp.Area < p.DualMinArea {
			continue
		}
		d := float64(comp.Box.MaxDim())
		if d < minDim || d > maxDim {
			continue
		}
		if bottom != (comp.Centroid.Y >= mid) {
			continue
		}
		out = append(out, comp)
	}
	return out
}

// dropSmall removes cluster members smaller than keepFrac of the largest,
// which sheds antialiasing crumbs around the true glyph.
func dropSmall(members []mask.Component, keepFrac float64) []mask.Component {
	maxArea := 0
	for _, m := range members {
		if m.Area > maxArea {
			maxArea = m.Area
		}
	}
	out := members[:0]
	for _, m := range members {
		if float64(m.Area) >= keepFrac*float64(maxArea) {
			out = append(out, m)
		}
	}
	return out
}
