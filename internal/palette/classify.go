package palette

import (
	"puzzle-scan/internal/imaging"
	"puzzle-scan/internal/mask"
	"puzzle-scan/internal/puzzle"
	"puzzle-scan/pkg/geometry"
)

// The two colors whose hue ranges overlap. Pixels matched by both are
// "ambiguous" and resolved per region in ResolveAmbiguous.
const (
	similarLow  = puzzle.ColorOrange
	similarHigh = puzzle.ColorYellow
)

// Classify maps a single pixel to its color, or ColorNone. A pixel inside
// both similar-color ranges falls back to the per-pixel hue split, so
// classification of any fixed input is idempotent.
func Classify(p Params, h, s, v uint8) puzzle.Color {
	inLow := p.Ranges[similarLow].Contains(h, s, v)
	inHigh := p.Ranges[similarHigh].Contains(h, s, v)
	switch {
	case inLow && inHigh:
		if h < p.SplitHue {
			return similarLow
		}
		return similarHigh
	case inLow:
		return similarLow
	case inHigh:
		return similarHigh
	}
	for _, c := range []puzzle.Color{puzzle.ColorGreen, puzzle.ColorBlue} {
		if p.Ranges[c].Contains(h, s, v) {
			return c
		}
	}
	return puzzle.ColorNone
}

// IsGray reports whether the pixel falls in the neutral blocked-cell range.
// The gray range is independent of the color set.
func IsGray(p Params, h, s, v uint8) bool {
	return p.Gray.Contains(h, s, v)
}

// ResolveAmbiguous decides which similar color owns the ambiguous pixels of
// a region: the mean hue of every pixel matched by both ranges is compared
// against the split hue. Returns ColorNone when the region has no ambiguous
// pixels.
func ResolveAmbiguous(buf *imaging.Buffer, box geometry.Box, relaxed bool, p Params) puzzle.Color {
	box = box.Clamp(buf.Bounds())
	low := p.Range(similarLow, relaxed)
	high := p.Range(similarHigh, relaxed)

	var sum, n int
	for y := box.Y1; y < box.Y2; y++ {
		for x := box.X1; x < box.X2; x++ {
			h, s, v := buf.HSVAt(x, y)
			if low.Contains(h, s, v) && high.Contains(h, s, v) {
				sum += int(h)
				n++
			}
		}
	}
	if n == 0 {
		return puzzle.ColorNone
	}
	if float64(sum)/float64(n) < float64(p.SplitHue) {
		return similarLow
	}
	return similarHigh
}

// Mask builds the binary mask of one color over a region. The mask is
// anchored at the region origin. Ambiguous pixels belong only to the color
// chosen by ResolveAmbiguous for this region.
func Mask(buf *imaging.Buffer, box geometry.Box, c puzzle.Color, relaxed bool, p Params) *mask.Bitmap {
	box = box.Clamp(buf.Bounds())
	out := mask.New(box.Width(), box.Height())
	if !c.Valid() {
		return out
	}

	target := p.Range(c, relaxed)
	ambiguous := c == similarLow || c == similarHigh
	var other Range
	var owner puzzle.Color
	if ambiguous {
		if c == similarLow {
			other = p.Range(similarHigh, relaxed)
		} else {
			other = p.Range(similarLow, relaxed)
		}
		owner = ResolveAmbiguous(buf, box, relaxed, p)
	}

	for y := box.Y1; y < box.Y2; y++ {
		for x := box.X1; x < box.X2; x++ {
			h, s, v := buf.HSVAt(x, y)
			if !target.Contains(h, s, v) {
				continue
			}
			if ambiguous && other.Contains(h, s, v) && owner != c {
				continue
			}
			out.Set(x-box.X1, y-box.Y1, true)
		}
	}
	return out
}

// Counts tallies pixels per color over a region with ambiguity resolved.
func Counts(buf *imaging.Buffer, box geometry.Box, relaxed bool, p Params) [puzzle.NumColors]int {
	box = box.Clamp(buf.Bounds())
	var counts [puzzle.NumColors]int
	owner := ResolveAmbiguous(buf, box, relaxed, p)

	low := p.Range(similarLow, relaxed)
	high := p.Range(similarHigh, relaxed)
	for y := box.Y1; y < box.Y2; y++ {
		for x := box.X1; x < box.X2; x++ {
			h, s, v := buf.HSVAt(x, y)
			inLow := low.Contains(h, s, v)
			inHigh := high.Contains(h, s, v)
			switch {
			case inLow && inHigh:
				if owner.Valid() {
					counts[owner]++
				}
				continue
			case inLow:
				counts[similarLow]++
				continue
			case inHigh:
				counts[similarHigh]++
				continue
			}
			for _, c := range []puzzle.Color{puzzle.ColorGreen, puzzle.ColorBlue} {
				if p.Range(c, relaxed).Contains(h, s, v) {
					counts[c]++
					break
				}
			}
		}
	}
	return counts
}

// GrayCount tallies neutral-gray pixels over a region.
func GrayCount(buf *imaging.Buffer, box geometry.Box, p Params) int {
	box = box.Clamp(buf.Bounds())
	n := 0
	for y := box.Y1; y < box.Y2; y++ {
		for x := box.X1; x < box.X2; x++ {
			h, s, v := buf.HSVAt(x, y)
			if IsGray(p, h, s, v) {
				n++
			}
		}
	}
	return n
}

// Dominant returns the color with the highest count, with the similar-color
// pair already folded in by Counts. ColorNone when all counts are zero.
func Dominant(counts [puzzle.NumColors]int) (puzzle.Color, int) {
	best := puzzle.ColorNone
	bestN := 0
	for _, c := range puzzle.AllColors() {
		if counts[c] > bestN {
			best = c
			bestN = counts[c]
		}
	}
	return best, bestN
}
