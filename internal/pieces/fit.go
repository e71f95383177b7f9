package pieces

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"puzzle-scan/internal/mask"
	"puzzle-scan/internal/puzzle"
)

// fitShape discretizes a piece mask onto the best small grid. Candidates
// are scored on cell clarity, occupancy, interior holes and cell
// squareness, with the parsimony penalty settling featureless blocks on
// the smallest grid. Ties keep the earlier, smaller candidate.
func fitShape(m *mask.Bitmap, fp FitParams) puzzle.Shape {
	if m.Count() == 0 {
		return puzzle.Shape{}
	}

	bestScore := math.Inf(-1)
	var bestFills []float64
	bestRows, bestCols := 0, 0
	for rows := 1; rows <= fp.MaxGrid; rows++ {
		for cols := 1; cols <= fp.MaxGrid; cols++ {
			fills, ok := cellFills(m, rows, cols, fp)
			if !ok {
				continue
			}
			score := scoreGrid(fills, rows, cols, m.W, m.H, fp)
			if score > bestScore {
				bestScore = score
				bestFills = fills
				bestRows, bestCols = rows, cols
			}
		}
	}
	if bestFills == nil {
		return puzzle.Shape{}
	}
	return buildShape(bestFills, bestRows, bestCols, fp)
}

// cellFills rasterizes the mask onto a rows x cols grid and returns the
// per-cell fill fractions, row-major. Grids finer than the mask or with
// cells far from square are rejected.
func cellFills(m *mask.Bitmap, rows, cols int, fp FitParams) ([]float64, bool) {
	if m.W < cols || m.H < rows {
		return nil, false
	}
	cellAspect := (float64(m.W) / float64(cols)) / (float64(m.H) / float64(rows))
	if cellAspect > fp.AspectSlack || cellAspect < 1/fp.AspectSlack {
		return nil, false
	}

	fills := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		y1 := r * m.H / rows
		y2 := (r + 1) * m.H / rows
		for c := 0; c < cols; c++ {
			x1 := c * m.W / cols
			x2 := (c + 1) * m.W / cols
			area := (x2 - x1) * (y2 - y1)
			if area == 0 {
				return nil, false
			}
			n := 0
			for y := y1; y < y2; y++ {
				for x := x1; x < x2; x++ {
					if m.Pix[y*m.W+x] {
						n++
					}
				}
			}
			fills[r*cols+c] = float64(n) / float64(area)
		}
	}
	return fills, true
}

func scoreGrid(fills []float64, rows, cols, w, h int, fp FitParams) float64 {
	clear := 0
	occupied := 0
	solid := true
	for _, f := range fills {
		if f > fp.ClearHigh || f < fp.ClearLow {
			clear++
		}
		if f > fp.ClearLow {
			occupied++
		}
		if f <= fp.SolidFill {
			solid = false
		}
	}

	score := float64(clear) / float64(len(fills))

	occupancy := float64(occupied) / float64(len(fills))
	switch {
	case occupancy >= fp.FillLow && occupancy <= fp.FillHigh:
		score += fp.FillBonus
	case occupancy >= fp.PartialLow && occupancy <= fp.PartialHigh:
		score += fp.FillBonus / 2
	}

	if rows >= 3 && cols >= 3 && occupied >= max(fp.HoleMinFilled, (len(fills)+1)/2) &&
		hasInteriorHole(fills, rows, cols, fp) {
		score += fp.HoleBonus
	}

	cellW := float64(w) / float64(cols)
	cellH := float64(h) / float64(rows)
	score += fp.SquareWeight * (min(cellW, cellH) / max(cellW, cellH))

	if solid {
		score -= fp.ParsimonyPerCell * float64(len(fills))
	}
	return score
}

// hasInteriorHole reports whether some near-empty cell is flanked by
// solidly filled cells on all four axes of its row and column.
func hasInteriorHole(fills []float64, rows, cols int, fp FitParams) bool {
	at := func(r, c int) float64 { return fills[r*cols+c] }
	for r := 1; r < rows-1; r++ {
		for c := 1; c < cols-1; c++ {
			if at(r, c) >= fp.HoleEmptyMax {
				continue
			}
			if flanked(r, c, rows, cols, at, fp.ClearHigh) {
				return true
			}
		}
	}
	return false
}

func flanked(r, c, rows, cols int, at func(int, int) float64, level float64) bool {
	dirs := [4]bool{}
	for cc := c - 1; cc >= 0; cc-- {
		if at(r, cc) >= level {
			dirs[0] = true
			break
		}
	}
	for cc := c + 1; cc < cols; cc++ {
		if at(r, cc) >= level {
			dirs[1] = true
			break
		}
	}
	for rr := r - 1; rr >= 0; rr-- {
		if at(rr, c) >= level {
			dirs[2] = true
			break
		}
	}
	for rr := r + 1; rr < rows; rr++ {
		if at(rr, c) >= level {
			dirs[3] = true
			break
		}
	}
	return dirs[0] && dirs[1] && dirs[2] && dirs[3]
}

// buildShape keeps the occupied cells of the winning grid, dropping the
// ones whose fill falls below the median-derived floor, then normalizes.
func buildShape(fills []float64, rows, cols int, fp FitParams) puzzle.Shape {
	var occupied []float64
	for _, f := range fills {
		if f > fp.ClearLow {
			occupied = append(occupied, f)
		}
	}
	if len(occupied) == 0 {
		return puzzle.Shape{}
	}
	sort.Float64s(occupied)
	median := stat.Quantile(0.5, stat.Empirical, occupied, nil)
	floor := max(fp.CellKeepMin, fp.CellMedianFrac*median)

	shape := puzzle.NewShape(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			shape.Set(r, c, fills[r*cols+c] >= floor)
		}
	}
	return shape.Normalize()
}
