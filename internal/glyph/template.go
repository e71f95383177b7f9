package glyph

// digitStencils holds a 3x5 occupancy stencil per digit, rows concatenated.
var digitStencils = [10]string{
	"###" + "#.#" + "#.#" + "#.#" + "###", // 0
	".#." + "##." + ".#." + ".#." + "###", // 1
	"###" + "..#" + "###" + "#.." + "###", // 2
	"###" + "..#" + "###" + "..#" + "###", // 3
	"#.#" + "#.#" + "###" + "..#" + "..#", // 4
	"###" + "#.." + "###" + "..#" + "###", // 5
	"###" + "#.." + "###" + "#.#" + "###", // 6
	"###" + "..#" + "..#" + "..#" + "..#", // 7
	"###" + "#.#" + "###" + "#.#" + "###", // 8
	"###" + "#.#" + "###" + "..#" + "###", // 9
}

const (
	stencilCols = 3
	stencilRows = 5

	// A stencil cell reads as filled when at least this fraction of its
	// mask pixels are foreground.
	cellFillMin = 0.35
)

// GridRecognizer matches glyph masks against fixed digit stencils by
// downsampling the mask onto the stencil grid. It needs no external
// runtime, which makes it both the fallback backend and the deterministic
// stand-in for tests.
type GridRecognizer struct {
	// MinScore is the required fraction of agreeing stencil cells.
	MinScore float64
}

// NewGridRecognizer returns a recognizer with the default match threshold.
func NewGridRecognizer() *GridRecognizer {
	return &GridRecognizer{MinScore: 0.8}
}

// Recognize uprights the mask, downsamples it to 3x5 cells, and returns
// the stencil with the most agreeing cells. Ties resolve to the smaller
// digit. Masks that are empty, too small, or below MinScore yield
// Unrecognized.
func (g *GridRecognizer) Recognize(m *Mask) int {
	if m == nil {
		return Unrecognized
	}
	m = m.Upright()
	if m.W < stencilCols || m.H < stencilRows {
		return Unrecognized
	}
	if m.Count() == 0 {
		return Unrecognized
	}

	var cells [stencilCols * stencilRows]bool
	for row := 0; row < stencilRows; row++ {
		y1 := row * m.H / stencilRows
		y2 := (row + 1) * m.H / stencilRows
		for col := 0; col < stencilCols; col++ {
			x1 := col * m.W / stencilCols
			x2 := (col + 1) * m.W / stencilCols
			total := (x2 - x1) * (y2 - y1)
			if total <= 0 {
				continue
			}
			fg := 0
			for y := y1; y < y2; y++ {
				for x := x1; x < x2; x++ {
					if m.Pix[y*m.W+x] {
						fg++
					}
				}
			}
			cells[row*stencilCols+col] = float64(fg)/float64(total) >= cellFillMin
		}
	}

	best := Unrecognized
	bestScore := -1
	for digit, stencil := range digitStencils {
		score := 0
		for i := 0; i < len(stencil); i++ {
			if (stencil[i] == '#') == cells[i] {
				score++
			}
		}
		if score > bestScore {
			best = digit
			bestScore = score
		}
	}

	if float64(bestScore)/float64(stencilCols*stencilRows) < g.MinScore {
		return Unrecognized
	}
	return best
}

// DrawStencil paints a digit's stencil into a fresh mask scaled to the
// given size. Intended for tests and harness round trips.
func DrawStencil(digit, w, h int) *Mask {
	m := NewMask(w, h)
	if digit < 0 || digit > 9 || w <= 0 || h <= 0 {
		return m
	}
	stencil := digitStencils[digit]
	for y := 0; y < h; y++ {
		row := y * stencilRows / h
		for x := 0; x < w; x++ {
			col := x * stencilCols / w
			if stencil[row*stencilCols+col] == '#' {
				m.Pix[y*m.W+x] = true
			}
		}
	}
	return m
}
