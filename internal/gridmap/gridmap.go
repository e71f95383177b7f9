// Package gridmap reconstructs the board from the detected grid region:
// its dimensions and the type of every cell.
package gridmap

import (
	"fmt"

	"puzzle-scan/internal/imaging"
	"puzzle-scan/internal/palette"
	"puzzle-scan/internal/puzzle"
	"puzzle-scan/pkg/geometry"
)

// Params holds the grid reconstruction thresholds.
type Params struct {
	Palette palette.Params `json:"palette"`

	// Square sizes MinSize..MaxSize are tried first; a size is accepted
	// when the detection count lands within tolerance of size squared
	// and at least RasterHitFrac of the cells contain a centroid.
	MinSize       int     `json:"min_size"`
	MaxSize       int     `json:"max_size"`
	CountTolFrac  float64 `json:"count_tol_frac"`
	CountTolMin   int     `json:"count_tol_min"`
	RasterHitFrac float64 `json:"raster_hit_frac"`

	// Spacing fallback ignores centroid gaps at or below MinGap pixels.
	MinGap float64 `json:"min_gap"`

	// Phase 2 pixel classification for cells no detection claimed.
	ColorFrac  float64 `json:"color_frac"`
	GrayFrac   float64 `json:"gray_frac"`
	DarkSatMax float64 `json:"dark_sat_max"`
	DarkValMin float64 `json:"dark_val_min"`
	DarkValMax float64 `json:"dark_val_max"`

	// Collision gate between detections claiming one cell.
	ConfidenceBar float64 `json:"confidence_bar"`
}

// DefaultParams returns reconstruction thresholds for the game's board
// sizes (3..9 per side).
func DefaultParams() Params {
	return Params{
		Palette: palette.DefaultParams(),

		MinSize:       3,
		MaxSize:       9,
		CountTolFrac:  0.15,
		CountTolMin:   2,
		RasterHitFrac: 0.70,

		MinGap: 5,

		ColorFrac:  0.15,
		GrayFrac:   0.30,
		DarkSatMax: 15,
		DarkValMin: 40,
		DarkValMax: 100,

		ConfidenceBar: 0.5,
	}
}

// Result is the reconstructed board, cells in row-major order.
type Result struct {
	Rows  int           `json:"rows"`
	Cols  int           `json:"cols"`
	Cells []puzzle.Cell `json:"cells"`
}

// Empty reports whether the result carries no board.
func (r Result) Empty() bool {
	return r.Rows == 0 || r.Cols == 0
}

// Grid copies the result into a board grid.
func (r Result) Grid() *puzzle.Grid {
	g := puzzle.NewGrid(r.Rows, r.Cols)
	copy(g.Cells, r.Cells)
	return g
}

// Parse sizes the board inside the grid box and classifies every cell,
// first from the detections and then from the pixels under whatever the
// detector missed. A missing or degenerate grid box yields an empty
// result.
func Parse(buf *imaging.Buffer, gridBox geometry.Box, dets []puzzle.CellDetection, p Params) Result {
	if buf == nil {
		return Result{}
	}
	gridBox = gridBox.Clamp(buf.Bounds())
	if !gridBox.Valid() {
		return Result{}
	}

	rows, cols, method := estimateSize(gridBox, dets, p)
	fmt.Printf("Grid map: %dx%d via %s (%d detections)\n", rows, cols, method, len(dets))

	grid := puzzle.NewGrid(rows, cols)
	claimed := applyDetections(buf, grid, gridBox, dets, p)
	classifyRemaining(buf, grid, gridBox, claimed, p)
	return Result{Rows: rows, Cols: cols, Cells: grid.Cells}
}
