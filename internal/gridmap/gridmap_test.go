package gridmap

import (
	"image/color"
	"testing"

	"puzzle-scan/internal/imaging"
	"puzzle-scan/internal/puzzle"
	"puzzle-scan/pkg/geometry"
)

var (
	boardLight  = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	boardGray   = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	boardDark   = color.RGBA{R: 55, G: 55, B: 55, A: 255}
	boardOrange = color.RGBA{R: 255, G: 100, B: 0, A: 255}
)

func newBoard(w, h int, bg color.RGBA) *imaging.Buffer {
	buf := imaging.NewBuffer(w, h)
	buf.Fill(bg)
	return buf
}

func fillRect(buf *imaging.Buffer, x, y, w, h int, c color.RGBA) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			buf.SetRGBA(xx, yy, c.R, c.G, c.B, c.A)
		}
	}
}

func det(cx, cy int, label puzzle.CellLabel, conf float64) puzzle.CellDetection {
	return puzzle.CellDetection{
		Box:        geometry.Box{X1: cx - 3, Y1: cy - 3, X2: cx + 3, Y2: cy + 3},
		Label:      label,
		Confidence: conf,
	}
}

// latticeDets builds one detection per cell of a size x size lattice.
func latticeDets(box geometry.Box, size int, label puzzle.CellLabel, conf float64) []puzzle.CellDetection {
	out := make([]puzzle.CellDetection, 0, size*size)
	cw := box.Width() / size
	ch := box.Height() / size
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			out = append(out, det(box.X1+c*cw+cw/2, box.Y1+r*ch+ch/2, label, conf))
		}
	}
	return out
}

func TestSquareLattice(t *testing.T) {
	buf := newBoard(120, 120, boardLight)
	box := geometry.Box{X1: 10, Y1: 10, X2: 110, Y2: 110}
	dets := latticeDets(box, 5, puzzle.LabelEmpty, 0.9)

	got := Parse(buf, box, dets, DefaultParams())
	if got.Rows != 5 || got.Cols != 5 {
		t.Fatalf("size = %dx%d, want 5x5", got.Rows, got.Cols)
	}
	for i, cell := range got.Cells {
		if cell.Kind != puzzle.CellEmpty {
			t.Errorf("cell %d kind = %v, want empty", i, cell.Kind)
		}
	}
}

func TestSpacingFallback(t *testing.T) {
	buf := newBoard(170, 110, boardLight)
	box := geometry.Box{X1: 10, Y1: 10, X2: 160, Y2: 100}
	// A cross of centroids: too sparse for any square size, but with a
	// clean 30 px pitch on both axes.
	centers := [][2]int{{25, 25}, {55, 25}, {85, 25}, {115, 25}, {145, 25}, {85, 55}, {85, 85}}
	dets := make([]puzzle.CellDetection, 0, len(centers))
	for _, c := range centers {
		dets = append(dets, det(c[0], c[1], puzzle.LabelEmpty, 0.9))
	}

	got := Parse(buf, box, dets, DefaultParams())
	if got.Rows != 3 || got.Cols != 5 {
		t.Fatalf("size = %dx%d, want 3x5", got.Rows, got.Cols)
	}
}

func TestSqrtFallback(t *testing.T) {
	buf := newBoard(110, 110, boardLight)
	box := geometry.Box{X1: 10, Y1: 10, X2: 100, Y2: 100}
	// Identical centroids defeat both the raster check and the spacing
	// estimate, leaving only the count.
	dets := make([]puzzle.CellDetection, 10)
	for i := range dets {
		dets[i] = det(55, 55, puzzle.LabelEmpty, 0.9)
	}

	got := Parse(buf, box, dets, DefaultParams())
	if got.Rows != 3 || got.Cols != 3 {
		t.Fatalf("size = %dx%d, want 3x3", got.Rows, got.Cols)
	}
}

func TestDetectionLabels(t *testing.T) {
	buf := newBoard(140, 140, boardLight)
	box := geometry.Box{X1: 10, Y1: 10, X2: 130, Y2: 130}
	fillRect(buf, 55, 55, 30, 30, boardOrange)

	dets := latticeDets(box, 3, puzzle.LabelEmpty, 0.9)
	dets[0].Label = puzzle.LabelObstacle
	dets[4].Label = puzzle.LabelOccupied
	dets[4].Box = geometry.Box{X1: 55, Y1: 55, X2: 85, Y2: 85}

	got := Parse(buf, box, dets, DefaultParams())
	g := got.Grid()
	if g.Rows != 3 || g.Cols != 3 {
		t.Fatalf("size = %dx%d, want 3x3", g.Rows, g.Cols)
	}
	if k := g.At(0, 0).Kind; k != puzzle.CellBlocked {
		t.Errorf("cell (0,0) kind = %v, want blocked", k)
	}
	if cell := g.At(1, 1); cell.Kind != puzzle.CellColored || cell.Color != puzzle.ColorOrange {
		t.Errorf("cell (1,1) = %v %v, want colored orange", cell.Kind, cell.Color)
	}
	if k := g.At(2, 2).Kind; k != puzzle.CellEmpty {
		t.Errorf("cell (2,2) kind = %v, want empty", k)
	}
}

func TestCollisionConfidence(t *testing.T) {
	buf := newBoard(140, 140, boardLight)
	box := geometry.Box{X1: 10, Y1: 10, X2: 130, Y2: 130}

	dets := latticeDets(box, 3, puzzle.LabelEmpty, 0.5)
	// Tie at the bar: the later obstacle displaces the empty.
	dets = append(dets, det(70, 30, puzzle.LabelObstacle, 0.5))
	// A confident obstacle holds off a weaker later empty.
	dets = append(dets, det(110, 30, puzzle.LabelObstacle, 0.9))
	dets = append(dets, det(110, 30, puzzle.LabelEmpty, 0.4))

	got := Parse(buf, box, dets, DefaultParams())
	g := got.Grid()
	if g.Rows != 3 || g.Cols != 3 {
		t.Fatalf("size = %dx%d, want 3x3", g.Rows, g.Cols)
	}
	if k := g.At(0, 1).Kind; k != puzzle.CellBlocked {
		t.Errorf("tied collision: cell (0,1) kind = %v, want blocked", k)
	}
	if k := g.At(0, 2).Kind; k != puzzle.CellBlocked {
		t.Errorf("confident incumbent: cell (0,2) kind = %v, want blocked", k)
	}
	if k := g.At(0, 0).Kind; k != puzzle.CellEmpty {
		t.Errorf("cell (0,0) kind = %v, want empty", k)
	}
}

func TestPixelClassification(t *testing.T) {
	buf := newBoard(90, 90, boardLight)
	box := geometry.Box{X1: 0, Y1: 0, X2: 90, Y2: 90}
	fillRect(buf, 9, 9, 12, 12, boardOrange) // 16% of cell (0,0)
	fillRect(buf, 30, 0, 30, 30, boardGray)  // cell (0,1)
	fillRect(buf, 60, 0, 30, 30, boardDark)  // cell (0,2)

	got := Parse(buf, box, nil, DefaultParams())
	g := got.Grid()
	if g.Rows != 3 || g.Cols != 3 {
		t.Fatalf("size = %dx%d, want 3x3", g.Rows, g.Cols)
	}
	if cell := g.At(0, 0); cell.Kind != puzzle.CellColored || cell.Color != puzzle.ColorOrange {
		t.Errorf("cell (0,0) = %v %v, want colored orange", cell.Kind, cell.Color)
	}
	if k := g.At(0, 1).Kind; k != puzzle.CellBlocked {
		t.Errorf("gray cell (0,1) kind = %v, want blocked", k)
	}
	if k := g.At(0, 2).Kind; k != puzzle.CellBlocked {
		t.Errorf("dark cell (0,2) kind = %v, want blocked", k)
	}
	if k := g.At(1, 1).Kind; k != puzzle.CellEmpty {
		t.Errorf("cell (1,1) kind = %v, want empty", k)
	}
}

func TestParseDegenerate(t *testing.T) {
	if got := Parse(nil, geometry.Box{X1: 0, Y1: 0, X2: 10, Y2: 10}, nil, DefaultParams()); !got.Empty() {
		t.Errorf("nil buffer: got %dx%d, want empty result", got.Rows, got.Cols)
	}
	buf := newBoard(20, 20, boardLight)
	if got := Parse(buf, geometry.Box{}, nil, DefaultParams()); !got.Empty() {
		t.Errorf("zero box: got %dx%d, want empty result", got.Rows, got.Cols)
	}
}
