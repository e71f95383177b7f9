package puzzle

import (
	"fmt"

	"puzzle-scan/pkg/geometry"
)

// Piece is a placeable polyomino with a single color. The shape is stored
// normalized; rotations are derived on demand, never stored.
type Piece struct {
	ID    int   `json:"id"`
	Color Color `json:"color"`
	Shape Shape `json:"shape"`
}

// ConstraintItem is one parsed entry of a constraint strip: the row or
// column index it belongs to, its color, and its required count. A value of
// zero records an explicit "no requirement" mark.
type ConstraintItem struct {
	Index int   `json:"index"`
	Color Color `json:"color"`
	Value int   `json:"value"`
}

// Constraint maps colors to their exact required count for one row or
// column. Colors absent from the map are unconstrained.
type Constraint map[Color]int

// ConstraintsFromItems groups strip items into n per-line constraints.
// Items with non-positive values are explicit no-requirement marks and are
// left out of the maps; items indexed outside 0..n-1 are dropped.
func ConstraintsFromItems(items []ConstraintItem, n int) []Constraint {
	out := make([]Constraint, n)
	for i := range out {
		out[i] = Constraint{}
	}
	for _, item := range items {
		if item.Index < 0 || item.Index >= n || item.Value <= 0 {
			continue
		}
		out[item.Index][item.Color] = item.Value
	}
	return out
}

// Spec is the assembled puzzle: the board with pre-marked cells, the exact
// per-row and per-column color targets, and the pieces to place. It is input
// to the solver and is never mutated by it.
type Spec struct {
	Rows       int          `json:"rows"`
	Cols       int          `json:"cols"`
	Colors     []Color      `json:"colors"`
	Grid       *Grid        `json:"grid"`
	RowTargets []Constraint `json:"row_targets"`
	ColTargets []Constraint `json:"col_targets"`
	Pieces     []Piece      `json:"pieces"`
}

// Validate checks the structural invariants of an assembled spec.
func (s *Spec) Validate() error {
	if s.Rows <= 0 || s.Cols <= 0 {
		return fmt.Errorf("grid size %dx%d is not positive", s.Rows, s.Cols)
	}
	if s.Grid == nil {
		return fmt.Errorf("missing grid")
	}
	if s.Grid.Rows != s.Rows || s.Grid.Cols != s.Cols {
		return fmt.Errorf("grid is %dx%d, spec says %dx%d",
			s.Grid.Rows, s.Grid.Cols, s.Rows, s.Cols)
	}
	if len(s.RowTargets) != s.Rows {
		return fmt.Errorf("%d row targets for %d rows", len(s.RowTargets), s.Rows)
	}
	if len(s.ColTargets) != s.Cols {
		return fmt.Errorf("%d column targets for %d columns", len(s.ColTargets), s.Cols)
	}

	// Targets cannot exceed the opposing dimension.
	for r, constraint := range s.RowTargets {
		for color, v := range constraint {
			if !color.Valid() {
				return fmt.Errorf("row %d: invalid color %d", r, color)
			}
			if v < 0 || v > s.Cols {
				return fmt.Errorf("row %d: target %d for %s outside 0..%d", r, v, color, s.Cols)
			}
		}
	}
	for c, constraint := range s.ColTargets {
		for color, v := range constraint {
			if !color.Valid() {
				return fmt.Errorf("column %d: invalid color %d", c, color)
			}
			if v < 0 || v > s.Rows {
				return fmt.Errorf("column %d: target %d for %s outside 0..%d", c, v, color, s.Rows)
			}
		}
	}

	for _, p := range s.Pieces {
		if !p.Color.Valid() {
			return fmt.Errorf("piece %d: invalid color %d", p.ID, p.Color)
		}
		if p.Shape.Empty() {
			return fmt.Errorf("piece %d: empty shape", p.ID)
		}
		if !p.Shape.Normalized() {
			return fmt.Errorf("piece %d: shape is not normalized", p.ID)
		}
	}

	for i, cell := range s.Grid.Cells {
		if cell.Kind == CellColored && !cell.Color.Valid() {
			return fmt.Errorf("cell %d: colored without a valid color", i)
		}
	}
	return nil
}

// Placement records one placed piece: the top-left cell of the
// rotated shape and the rotation index in quarter turns clockwise.
type Placement struct {
	Piece    int `json:"piece"`
	Row      int `json:"row"`
	Col      int `json:"col"`
	Rotation int `json:"rotation"`
}

// Solution is the ordered list of placements produced by the solver.
type Solution []Placement

// CellLabel classifies one detected grid cell.
type CellLabel int

const (
	LabelEmpty CellLabel = iota
	LabelObstacle
	LabelOccupied
)

func (l CellLabel) String() string {
	switch l {
	case LabelObstacle:
		return "obstacle"
	case LabelOccupied:
		return "occupied"
	default:
		return "empty"
	}
}

// CellDetection is one neural-detector hit inside the grid region.
type CellDetection struct {
	Box        geometry.Box `json:"box"`
	Label      CellLabel    `json:"label"`
	Confidence float64      `json:"confidence"`
}
