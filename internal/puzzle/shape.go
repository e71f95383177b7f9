package puzzle

import "strings"

// Shape is a boolean occupancy grid in row-major order. A normalized shape
// has no fully-empty border row or column, so Rows and Cols describe the
// minimal bounding box of the cells.
type Shape struct {
	Rows  int    `json:"rows"`
	Cols  int    `json:"cols"`
	Cells []bool `json:"cells"`
}

// NewShape allocates an empty shape of the given size.
func NewShape(rows, cols int) Shape {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return Shape{Rows: rows, Cols: cols, Cells: make([]bool, rows*cols)}
}

// At reports whether the cell (r, c) is occupied.
func (s Shape) At(r, c int) bool {
	if r < 0 || r >= s.Rows || c < 0 || c >= s.Cols {
		return false
	}
	return s.Cells[r*s.Cols+c]
}

// Set marks the cell (r, c) as occupied or free.
func (s Shape) Set(r, c int, filled bool) {
	if r < 0 || r >= s.Rows || c < 0 || c >= s.Cols {
		return
	}
	s.Cells[r*s.Cols+c] = filled
}

// Count returns the number of occupied cells.
func (s Shape) Count() int {
	n := 0
	for _, filled := range s.Cells {
		if filled {
			n++
		}
	}
	return n
}

// Empty reports whether the shape has no occupied cells.
func (s Shape) Empty() bool {
	return s.Count() == 0
}

// Equal reports whether two shapes have identical size and occupancy.
func (s Shape) Equal(other Shape) bool {
	if s.Rows != other.Rows || s.Cols != other.Cols {
		return false
	}
	for i := range s.Cells {
		if s.Cells[i] != other.Cells[i] {
			return false
		}
	}
	return true
}

// Normalized reports whether no border row or column is fully empty.
func (s Shape) Normalized() bool {
	return s.Equal(s.Normalize())
}

// Normalize trims fully-empty border rows and columns. An all-empty shape
// normalizes to the zero Shape.
func (s Shape) Normalize() Shape {
	minR, minC := s.Rows, s.Cols
	maxR, maxC := -1, -1
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Cols; c++ {
			if !s.Cells[r*s.Cols+c] {
				continue
			}
			if r < minR {
				minR = r
			}
			if r > maxR {
				maxR = r
			}
			if c < minC {
				minC = c
			}
			if c > maxC {
				maxC = c
			}
		}
	}
	if maxR < 0 {
		return Shape{}
	}

	out := NewShape(maxR-minR+1, maxC-minC+1)
	for r := minR; r <= maxR; r++ {
		for c := minC; c <= maxC; c++ {
			out.Cells[(r-minR)*out.Cols+(c-minC)] = s.Cells[r*s.Cols+c]
		}
	}
	return out
}

// Rotate90 returns the shape rotated a quarter turn clockwise.
func (s Shape) Rotate90() Shape {
	out := NewShape(s.Cols, s.Rows)
	for r := 0; r < out.Rows; r++ {
		for c := 0; c < out.Cols; c++ {
			out.Cells[r*out.Cols+c] = s.Cells[(s.Rows-1-c)*s.Cols+r]
		}
	}
	return out
}

// Orientation is a shape rotated by Rotation quarter turns clockwise.
type Orientation struct {
	Shape    Shape
	Rotation int
}

// Orientations returns the distinct rotations of the shape in rotation-index
// order. Symmetric shapes collapse onto the earliest index, so the result
// holds between one and four entries and always starts with rotation 0.
func (s Shape) Orientations() []Orientation {
	var out []Orientation
	cur := s.Normalize()
	for rot := 0; rot < 4; rot++ {
		dup := false
		for _, o := range out {
			if o.Shape.Equal(cur) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, Orientation{Shape: cur, Rotation: rot})
		}
		cur = cur.Rotate90()
	}
	return out
}

// String renders the shape as rows of '#' and '.'.
func (s Shape) String() string {
	var sb strings.Builder
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Cols; c++ {
			if s.Cells[r*s.Cols+c] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		if r < s.Rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// ShapeFromStrings builds a shape from rows of '#' (occupied) characters.
// Any other character is an empty cell.
func ShapeFromStrings(rows []string) Shape {
	if len(rows) == 0 {
		return Shape{}
	}
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	s := NewShape(len(rows), cols)
	for r, row := range rows {
		for c := 0; c < len(row); c++ {
			if row[c] == '#' {
				s.Set(r, c, true)
			}
		}
	}
	return s
}
