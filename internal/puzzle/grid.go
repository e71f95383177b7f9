package puzzle

import "strings"

// CellKind classifies one board cell.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellBlocked
	CellColored
)

func (k CellKind) String() string {
	switch k {
	case CellBlocked:
		return "blocked"
	case CellColored:
		return "colored"
	default:
		return "empty"
	}
}

// NoOwner marks a cell not covered by any placed piece.
const NoOwner = -1

// Cell is one board position. Color is meaningful only when Kind is
// CellColored; Owner is the id of the piece covering the cell, or NoOwner.
type Cell struct {
	Kind  CellKind `json:"kind"`
	Color Color    `json:"color"`
	Owner int      `json:"owner"`
}

// Grid is the rectangular board in row-major order.
type Grid struct {
	Rows  int    `json:"rows"`
	Cols  int    `json:"cols"`
	Cells []Cell `json:"cells"`
}

// NewGrid allocates an all-empty grid.
func NewGrid(rows, cols int) *Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	g := &Grid{Rows: rows, Cols: cols, Cells: make([]Cell, rows*cols)}
	for i := range g.Cells {
		g.Cells[i] = Cell{Kind: CellEmpty, Color: ColorNone, Owner: NoOwner}
	}
	return g
}

// Index maps (r, c) to the flat cell index.
func (g *Grid) Index(r, c int) int {
	return r*g.Cols + c
}

// InBounds reports whether (r, c) addresses a cell.
func (g *Grid) InBounds(r, c int) bool {
	return r >= 0 && r < g.Rows && c >= 0 && c < g.Cols
}

// At returns the cell at (r, c). Out-of-bounds reads return a blocked cell
// so callers fail closed.
func (g *Grid) At(r, c int) Cell {
	if !g.InBounds(r, c) {
		return Cell{Kind: CellBlocked, Color: ColorNone, Owner: NoOwner}
	}
	return g.Cells[g.Index(r, c)]
}

// Set overwrites the cell at (r, c).
func (g *Grid) Set(r, c int, cell Cell) {
	if !g.InBounds(r, c) {
		return
	}
	g.Cells[g.Index(r, c)] = cell
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	out := &Grid{Rows: g.Rows, Cols: g.Cols, Cells: make([]Cell, len(g.Cells))}
	copy(out.Cells, g.Cells)
	return out
}

// CountRowColor returns the number of cells of the color in row r.
func (g *Grid) CountRowColor(r int, color Color) int {
	n := 0
	for c := 0; c < g.Cols; c++ {
		cell := g.Cells[g.Index(r, c)]
		if cell.Kind == CellColored && cell.Color == color {
			n++
		}
	}
	return n
}

// CountColColor returns the number of cells of the color in column c.
func (g *Grid) CountColColor(c int, color Color) int {
	n := 0
	for r := 0; r < g.Rows; r++ {
		cell := g.Cells[g.Index(r, c)]
		if cell.Kind == CellColored && cell.Color == color {
			n++
		}
	}
	return n
}

// ColorCounts recomputes per-row and per-column counts for every color.
// rows[r][color] and cols[c][color] index the results.
func (g *Grid) ColorCounts() (rows, cols [][NumColors]int) {
	rows = make([][NumColors]int, g.Rows)
	cols = make([][NumColors]int, g.Cols)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			cell := g.Cells[g.Index(r, c)]
			if cell.Kind == CellColored && cell.Color.Valid() {
				rows[r][cell.Color]++
				cols[c][cell.Color]++
			}
		}
	}
	return rows, cols
}

// String renders the grid with one letter per cell: '.' empty, '#' blocked,
// and the color letter for colored cells.
func (g *Grid) String() string {
	var sb strings.Builder
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			cell := g.Cells[g.Index(r, c)]
			switch cell.Kind {
			case CellBlocked:
				sb.WriteByte('#')
			case CellColored:
				sb.WriteByte(cell.Color.Letter())
			default:
				sb.WriteByte('.')
			}
		}
		if r < g.Rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
