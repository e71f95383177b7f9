// Package solver searches for a placement of every piece that meets the
// board's exact per-row and per-column color targets.
package solver

import "puzzle-scan/internal/puzzle"

// Options tunes one search. The zero value is ready to use.
type Options struct {
	// Trace, when non-nil, runs after every placement the search keeps,
	// with the working grid. The grid belongs to the search; the callback
	// must not retain or mutate it.
	Trace func(*puzzle.Grid)
}

// Result is the outcome of one search. Nodes counts tentative placements,
// Prunes the ones undone for pushing a count past its target.
type Result struct {
	Placements puzzle.Solution `json:"placements"`
	Solved     bool            `json:"solved"`
	Nodes      int             `json:"nodes"`
	Prunes     int             `json:"prunes"`
}

// Solve runs a depth-first search over pieces in input order, orientations
// in rotation-index order, and positions in row-major order, and returns the
// first solution found. The spec is never mutated; the search works on a
// clone of its grid. A nil or gridless spec yields an unsolved result.
func Solve(spec *puzzle.Spec, opts Options) *Result {
	res := &Result{}
	if spec == nil || spec.Grid == nil {
		return res
	}

	s := &search{
		spec:    spec,
		grid:    spec.Grid.Clone(),
		orients: make([][]puzzle.Orientation, len(spec.Pieces)),
		trace:   opts.Trace,
	}
	for i, p := range spec.Pieces {
		s.orients[i] = p.Shape.Orientations()
	}

	if s.place(0) {
		res.Solved = true
		res.Placements = append(puzzle.Solution{}, s.placements...)
	}
	res.Nodes = s.nodes
	res.Prunes = s.prunes
	return res
}

type search struct {
	spec       *puzzle.Spec
	grid       *puzzle.Grid
	orients    [][]puzzle.Orientation
	placements []puzzle.Placement
	nodes      int
	prunes     int
	trace      func(*puzzle.Grid)
}

func (s *search) place(idx int) bool {
	if idx == len(s.spec.Pieces) {
		return s.exactMatch()
	}
	piece := s.spec.Pieces[idx]
	for _, o := range s.orients[idx] {
		for r := 0; r+o.Shape.Rows <= s.grid.Rows; r++ {
			for c := 0; c+o.Shape.Cols <= s.grid.Cols; c++ {
				undo, ok := s.tryPlace(piece, o.Shape, r, c)
				if !ok {
					continue
				}
				s.nodes++
				if !s.withinTargets() {
					s.prunes++
					s.unplace(undo)
					continue
				}
				if s.trace != nil {
					s.trace(s.grid)
				}
				s.placements = append(s.placements, puzzle.Placement{
					Piece:    piece.ID,
					Row:      r,
					Col:      c,
					Rotation: o.Rotation,
				})
				if s.place(idx + 1) {
					return true
				}
				s.placements = s.placements[:len(s.placements)-1]
				s.unplace(undo)
			}
		}
	}
	return false
}

type undoCell struct {
	idx  int
	prev puzzle.Cell
}

// tryPlace marks ownership of every covered cell and colors the ones still
// empty. Pre-marked requirement cells keep their color. It fails without a
// trace when a covered cell is blocked or already owned.
func (s *search) tryPlace(piece puzzle.Piece, shape puzzle.Shape, row, col int) ([]undoCell, bool) {
	var undo []undoCell
	for r := 0; r < shape.Rows; r++ {
		for c := 0; c < shape.Cols; c++ {
			if !shape.At(r, c) {
				continue
			}
			cell := s.grid.At(row+r, col+c)
			if cell.Kind == puzzle.CellBlocked || cell.Owner != puzzle.NoOwner {
				s.unplace(undo)
				return nil, false
			}
			idx := s.grid.Index(row+r, col+c)
			undo = append(undo, undoCell{idx: idx, prev: cell})
			next := cell
			next.Owner = piece.ID
			if next.Kind == puzzle.CellEmpty {
				next.Kind = puzzle.CellColored
				next.Color = piece.Color
			}
			s.grid.Cells[idx] = next
		}
	}
	return undo, true
}

func (s *search) unplace(undo []undoCell) {
	for i := len(undo) - 1; i >= 0; i-- {
		s.grid.Cells[undo[i].idx] = undo[i].prev
	}
}

// withinTargets recomputes every count and reports whether none exceeds its
// target. Counts only grow while placing, so an excess can never recover.
func (s *search) withinTargets() bool {
	rows, cols := s.grid.ColorCounts()
	for r, constraint := range s.spec.RowTargets {
		for color, want := range constraint {
			if rows[r][color] > want {
				return false
			}
		}
	}
	for c, constraint := range s.spec.ColTargets {
		for color, want := range constraint {
			if cols[c][color] > want {
				return false
			}
		}
	}
	return true
}

// exactMatch reports whether every constrained count equals its target.
func (s *search) exactMatch() bool {
	rows, cols := s.grid.ColorCounts()
	for r, constraint := range s.spec.RowTargets {
		for color, want := range constraint {
			if rows[r][color] != want {
				return false
			}
		}
	}
	for c, constraint := range s.spec.ColTargets {
		for color, want := range constraint {
			if cols[c][color] != want {
				return false
			}
		}
	}
	return true
}
