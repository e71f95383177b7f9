// Package scan turns one captured screenshot into a solvable board
// spec. A Scanner runs the region detector, parses both constraint
// strips, the piece panel and the grid, and assembles the results into
// a puzzle.Spec.
package scan

import (
	"errors"
	"fmt"

	"puzzle-scan/internal/detect"
	"puzzle-scan/internal/glyph"
	"puzzle-scan/internal/gridmap"
	"puzzle-scan/internal/imaging"
	"puzzle-scan/internal/palette"
	"puzzle-scan/internal/pieces"
	"puzzle-scan/internal/puzzle"
	"puzzle-scan/internal/strip"
)

// Params bundles the tunables of every analysis stage.
type Params struct {
	Palette palette.Params `json:"palette"`
	Strip   strip.Params   `json:"strip"`
	Pieces  pieces.Params  `json:"pieces"`
	GridMap gridmap.Params `json:"grid_map"`
}

// DefaultParams returns the stage defaults.
func DefaultParams() Params {
	return Params{
		Palette: palette.DefaultParams(),
		Strip:   strip.DefaultParams(),
		Pieces:  pieces.DefaultParams(),
		GridMap: gridmap.DefaultParams(),
	}
}

// WithPalette pushes one palette into every stage, so a calibration
// override reaches all color classification at once.
func (p Params) WithPalette(pal palette.Params) Params {
	p.Palette = pal
	p.Strip.Palette = pal
	p.Pieces.Palette = pal
	p.GridMap.Palette = pal
	return p
}

// Capture is everything one Analyze run extracted from a screenshot.
// Sub-results for regions the detector did not report stay zero.
type Capture struct {
	Regions  detect.Regions `json:"regions"`
	RowStrip strip.Result   `json:"row_strip"`
	ColStrip strip.Result   `json:"col_strip"`
	Pieces   []puzzle.Piece `json:"pieces"`
	GridMap  gridmap.Result `json:"grid_map"`
	Spec     *puzzle.Spec   `json:"spec"`
}

// Scanner drives full screenshot analysis. It keeps no state across
// runs beyond its collaborators, so one Scanner serves many frames.
type Scanner struct {
	det    detect.Detector
	rec    glyph.Recognizer
	params Params
}

// New returns a scanner using det for region detection and rec for
// digit recognition in numeric strips.
func New(det detect.Detector, rec glyph.Recognizer, p Params) *Scanner {
	return &Scanner{det: det, rec: rec, params: p}
}

// Analyze runs the whole pipeline on one frame. Missing regions
// degrade to empty sub-results; only the detector itself fails the
// run.
func (s *Scanner) Analyze(buf *imaging.Buffer) (*Capture, error) {
	if buf == nil || buf.W == 0 || buf.H == 0 {
		return nil, errors.New("scan: empty frame")
	}

	regions, dets, err := s.det.Detect(buf)
	if err != nil {
		return nil, fmt.Errorf("scan: detect regions: %w", err)
	}

	out := &Capture{Regions: regions}
	if regions.RowStrip != nil {
		out.RowStrip = strip.Parse(buf.Crop(*regions.RowStrip), s.rec, s.params.Strip)
	}
	if regions.ColStrip != nil {
		out.ColStrip = strip.Parse(buf.Crop(*regions.ColStrip), s.rec, s.params.Strip)
	}
	if regions.PiecePanel != nil {
		out.Pieces = pieces.Parse(buf.Crop(*regions.PiecePanel), s.params.Pieces)
	}
	if regions.Grid != nil {
		// Cell detections arrive in frame coordinates, same as the
		// grid box, so no translation happens here.
		out.GridMap = gridmap.Parse(buf, *regions.Grid, dets, s.params.GridMap)
	}

	out.Spec = assemble(out)
	fmt.Printf("Scan: %d row items, %d col items, %d pieces, grid %dx%d\n",
		len(out.RowStrip.Items), len(out.ColStrip.Items), len(out.Pieces),
		out.GridMap.Rows, out.GridMap.Cols)
	return out, nil
}

// assemble builds the board spec from the parsed parts. Items with a
// zero value or an out-of-range index drop out of the targets.
func assemble(c *Capture) *puzzle.Spec {
	spec := &puzzle.Spec{
		Rows:       c.GridMap.Rows,
		Cols:       c.GridMap.Cols,
		Colors:     collectColors(c),
		RowTargets: puzzle.ConstraintsFromItems(c.RowStrip.Items, c.GridMap.Rows),
		ColTargets: puzzle.ConstraintsFromItems(c.ColStrip.Items, c.GridMap.Cols),
		Pieces:     c.Pieces,
	}
	if !c.GridMap.Empty() {
		spec.Grid = c.GridMap.Grid()
	}
	return spec
}

// collectColors unions the strip and piece colors in canonical order.
func collectColors(c *Capture) []puzzle.Color {
	var seen [puzzle.NumColors]bool
	mark := func(col puzzle.Color) {
		if col.Valid() {
			seen[col] = true
		}
	}
	for _, col := range c.RowStrip.Colors {
		mark(col)
	}
	for _, col := range c.ColStrip.Colors {
		mark(col)
	}
	for _, p := range c.Pieces {
		mark(p.Color)
	}

	var out []puzzle.Color
	for _, col := range puzzle.AllColors() {
		if seen[col] {
			out = append(out, col)
		}
	}
	return out
}
