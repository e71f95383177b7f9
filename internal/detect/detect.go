// Package detect locates the puzzle regions and grid-cell hits on a
// screenshot. The production detector wraps an ONNX network; Static serves
// fixed answers for tests and manual runs.
package detect

import (
	"puzzle-scan/internal/imaging"
	"puzzle-scan/internal/puzzle"
	"puzzle-scan/pkg/geometry"
)

// Regions holds the detected screen areas. A nil box means the region was
// not found; downstream analyzers degrade to empty results.
type Regions struct {
	Grid       *geometry.Box `json:"grid,omitempty"`
	RowStrip   *geometry.Box `json:"row_strip,omitempty"`
	ColStrip   *geometry.Box `json:"col_strip,omitempty"`
	PiecePanel *geometry.Box `json:"piece_panel,omitempty"`
}

// Detector finds the puzzle regions and per-cell detections on one frame.
type Detector interface {
	Detect(buf *imaging.Buffer) (Regions, []puzzle.CellDetection, error)
}

// Static answers every Detect call with the same regions and detections.
type Static struct {
	Regions    Regions
	Detections []puzzle.CellDetection
}

func (s *Static) Detect(*imaging.Buffer) (Regions, []puzzle.CellDetection, error) {
	return s.Regions, s.Detections, nil
}
