package glyph

// holeThreshold is the enclosed-background pixel count above which a glyph
// is considered to have a real hole rather than raster noise.
const holeThreshold = 10

// symmetryThreshold is the minimum left-right mirror score for a hole-
// bearing glyph to be reread as a zero.
const symmetryThreshold = 0.5

// CorrectZeroSix rechecks a glyph the recognizer read as 6. Thin zero
// rings are a common misread, so a glyph with an enclosed hole and strong
// left-right symmetry is corrected to 0; anything else stays 6. The
// mirror test runs on the upright glyph.
func CorrectZeroSix(m *Mask) int {
	if m == nil || m.W == 0 || m.H == 0 {
		return 6
	}
	m = m.Upright()
	if HolePixels(m) > holeThreshold && MirrorSymmetry(m) > symmetryThreshold {
		return 0
	}
	return 6
}

// HolePixels counts background pixels fully enclosed by the glyph: the
// background is flood filled from every border pixel, and whatever remains
// unreached is hole.
func HolePixels(m *Mask) int {
	if m.W == 0 || m.H == 0 {
		return 0
	}
	reached := make([]bool, m.W*m.H)
	var stack []int

	push := func(x, y int) {
		if x < 0 || x >= m.W || y < 0 || y >= m.H {
			return
		}
		idx := y*m.W + x
		if reached[idx] || m.Pix[idx] {
			return
		}
		reached[idx] = true
		stack = append(stack, idx)
	}

	for x := 0; x < m.W; x++ {
		push(x, 0)
		push(x, m.H-1)
	}
	for y := 0; y < m.H; y++ {
		push(0, y)
		push(m.W-1, y)
	}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := idx%m.W, idx/m.W
		push(x, y-1)
		push(x-1, y)
		push(x+1, y)
		push(x, y+1)
	}

	holes := 0
	for idx, on := range m.Pix {
		if !on && !reached[idx] {
			holes++
		}
	}
	return holes
}

// MirrorSymmetry scores left-right symmetry as the fraction of foreground
// pixels whose horizontal mirror is also foreground. 1 is perfectly
// symmetric, 0 fully asymmetric.
func MirrorSymmetry(m *Mask) float64 {
	area := 0
	match := 0
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if !m.Pix[y*m.W+x] {
				continue
			}
			area++
			if m.Pix[y*m.W+(m.W-1-x)] {
				match++
			}
		}
	}
	if area == 0 {
		return 0
	}
	return float64(match) / float64(area)
}
