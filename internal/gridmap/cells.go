package gridmap

import (
	"puzzle-scan/internal/imaging"
	"puzzle-scan/internal/palette"
	"puzzle-scan/internal/puzzle"
	"puzzle-scan/pkg/geometry"
)

// applyDetections writes phase-one cells from the detector output and
// returns the claimed map. When two detections land in the same cell the
// later one wins unless the incumbent alone clears the confidence bar.
func applyDetections(buf *imaging.Buffer, grid *puzzle.Grid, box geometry.Box, dets []puzzle.CellDetection, p Params) []bool {
	claimed := make([]bool, grid.Rows*grid.Cols)
	winners := make([]puzzle.CellDetection, grid.Rows*grid.Cols)
	for _, det := range dets {
		r, c, ok := cellOf(box, det.Box.Center(), grid.Rows, grid.Cols)
		if !ok {
			continue
		}
		idx := grid.Index(r, c)
		if claimed[idx] && !beats(det, winners[idx], p.ConfidenceBar) {
			continue
		}
		grid.Set(r, c, cellFromDetection(buf, det, p))
		claimed[idx] = true
		winners[idx] = det
	}
	return claimed
}

// beats reports whether the challenger displaces the incumbent. Only an
// incumbent above the confidence bar holds off a challenger at or below it.
func beats(challenger, incumbent puzzle.CellDetection, bar float64) bool {
	if incumbent.Confidence > bar && challenger.Confidence <= bar {
		return false
	}
	return true
}

func cellFromDetection(buf *imaging.Buffer, det puzzle.CellDetection, p Params) puzzle.Cell {
	switch det.Label {
	case puzzle.LabelObstacle:
		return blockedCell()
	case puzzle.LabelOccupied:
		color, n := palette.Dominant(palette.Counts(buf, det.Box, false, p.Palette))
		if n == 0 {
			color, n = palette.Dominant(palette.Counts(buf, det.Box, true, p.Palette))
		}
		if n == 0 {
			return emptyCell()
		}
		return puzzle.Cell{Kind: puzzle.CellColored, Color: color, Owner: puzzle.NoOwner}
	default:
		return emptyCell()
	}
}

// classifyRemaining fills every unclaimed cell from its pixels.
func classifyRemaining(buf *imaging.Buffer, grid *puzzle.Grid, box geometry.Box, claimed []bool, p Params) {
	for r := 0; r < grid.Rows; r++ {
		for c := 0; c < grid.Cols; c++ {
			if claimed[grid.Index(r, c)] {
				continue
			}
			grid.Set(r, c, classifyCell(buf, cellBox(box, r, c, grid.Rows, grid.Cols), p))
		}
	}
}

// cellBox rasterizes cell (r, c) inside the grid box with integer
// proportional boundaries, so the cells tile the box exactly.
func cellBox(box geometry.Box, r, c, rows, cols int) geometry.Box {
	w, h := box.Width(), box.Height()
	return geometry.Box{
		X1: box.X1 + c*w/cols,
		Y1: box.Y1 + r*h/rows,
		X2: box.X1 + (c+1)*w/cols,
		Y2: box.Y1 + (r+1)*h/rows,
	}
}

// classifyCell decides a cell with no detection covering it. A strong
// palette color marks it colored, gray or dark pixels mark it blocked,
// anything else is empty.
func classifyCell(buf *imaging.Buffer, box geometry.Box, p Params) puzzle.Cell {
	area := box.Area()
	if area <= 0 {
		return emptyCell()
	}
	color, n := palette.Dominant(palette.Counts(buf, box, false, p.Palette))
	if float64(n) > p.ColorFrac*float64(area) {
		return puzzle.Cell{Kind: puzzle.CellColored, Color: color, Owner: puzzle.NoOwner}
	}
	if float64(palette.GrayCount(buf, box, p.Palette)) > p.GrayFrac*float64(area) {
		return blockedCell()
	}
	meanS, meanV := meanSatVal(buf, box)
	if meanS < p.DarkSatMax && meanV >= p.DarkValMin && meanV < p.DarkValMax {
		return blockedCell()
	}
	return emptyCell()
}

func meanSatVal(buf *imaging.Buffer, box geometry.Box) (float64, float64) {
	box = box.Clamp(buf.Bounds())
	if !box.Valid() {
		return 0, 0
	}
	var sumS, sumV, n float64
	for y := box.Y1; y < box.Y2; y++ {
		for x := box.X1; x < box.X2; x++ {
			_, s, v := buf.HSVAt(x, y)
			sumS += float64(s)
			sumV += float64(v)
			n++
		}
	}
	return sumS / n, sumV / n
}

func emptyCell() puzzle.Cell {
	return puzzle.Cell{Kind: puzzle.CellEmpty, Color: puzzle.ColorNone, Owner: puzzle.NoOwner}
}

func blockedCell() puzzle.Cell {
	return puzzle.Cell{Kind: puzzle.CellBlocked, Color: puzzle.ColorNone, Owner: puzzle.NoOwner}
}
