package strip

import (
	"image/color"
	"reflect"
	"testing"

	"puzzle-scan/internal/glyph"
	"puzzle-scan/internal/imaging"
	"puzzle-scan/internal/puzzle"
)

var (
	bgDark    = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	inkOrange = color.RGBA{R: 255, G: 100, B: 0, A: 255}
	inkBlue   = color.RGBA{R: 0, G: 128, B: 255, A: 255}
	inkWhite  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

func newStrip(w, h int) *imaging.Buffer {
	buf := imaging.NewBuffer(w, h)
	buf.Fill(bgDark)
	return buf
}

func stampMask(buf *imaging.Buffer, gm *glyph.Mask, ox, oy int, c color.RGBA) {
	for y := 0; y < gm.H; y++ {
		for x := 0; x < gm.W; x++ {
			if gm.At(x, y) {
				buf.SetRGBA(ox+x, oy+y, c.R, c.G, c.B, c.A)
			}
		}
	}
}

func stampRect(buf *imaging.Buffer, x, y, w, h int, c color.RGBA) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			buf.SetRGBA(xx, yy, c.R, c.G, c.B, c.A)
		}
	}
}

func stampRing(buf *imaging.Buffer, cx, cy int, outer, inner float64, c color.RGBA) {
	r := int(outer) + 1
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := float64(x-cx), float64(y-cy)
			d2 := dx*dx + dy*dy
			if d2 <= outer*outer && d2 >= inner*inner {
				buf.SetRGBA(x, y, c.R, c.G, c.B, c.A)
			}
		}
	}
}

func groupSizes(groups [][]int) []int {
	sizes := make([]int, len(groups))
	for i, g := range groups {
		sizes[i] = len(g)
	}
	return sizes
}

func TestClusterIndices(t *testing.T) {
	tests := []struct {
		name         string
		xs           []float64
		spread, frac float64
		wantSizes    []int
	}{
		{"two packs", []float64{10, 12, 14, 40, 42}, 1.3, 0.8, []int{3, 2}},
		{"evenly spaced stay apart", []float64{10, 20, 30, 40}, 1.3, 0.8, []int{1, 1, 1, 1}},
		{"single point", []float64{7}, 1.3, 0.8, []int{1}},
		{"identical points merge", []float64{5, 5, 5}, 1.3, 0.8, []int{3}},
		{"stacked pair plus single", []float64{47.5, 48.4, 128.6}, 1.15, 0.5, []int{2, 1}},
	}
	for _, tt := range tests {
		got := groupSizes(clusterIndices(tt.xs, tt.spread, tt.frac))
		if !reflect.DeepEqual(got, tt.wantSizes) {
			t.Errorf("%s: cluster sizes = %v, want %v", tt.name, got, tt.wantSizes)
		}
	}
}

func TestClusterIndicesOrdered(t *testing.T) {
	groups := clusterIndices([]float64{42, 10, 40, 14, 12}, 1.3, 0.8)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if !reflect.DeepEqual(groups[0], []int{1, 4, 3}) {
		t.Errorf("first group = %v, want indices of 10,12,14", groups[0])
	}
	if !reflect.DeepEqual(groups[1], []int{2, 0}) {
		t.Errorf("second group = %v, want indices of 40,42", groups[1])
	}
}

func TestParseBarStrip(t *testing.T) {
	buf := newStrip(200, 60)
	// Three tallies in the first slot, two in the second.
	for _, x := range []int{20, 30, 40, 140, 150} {
		stampRect(buf, x, 15, 4, 30, inkOrange)
	}

	res := Parse(buf, nil, DefaultParams())
	if res.Mode != ModeBars {
		t.Fatalf("mode = %v, want bars", res.Mode)
	}
	if res.DualColor {
		t.Error("single color strip flagged dual")
	}
	want := []puzzle.ConstraintItem{
		{Index: 0, Color: puzzle.ColorOrange, Value: 3},
		{Index: 1, Color: puzzle.ColorOrange, Value: 2},
	}
	if !reflect.DeepEqual(res.Items, want) {
		t.Errorf("items = %+v, want %+v", res.Items, want)
	}
}

func TestParseBarStripZeroSlot(t *testing.T) {
	buf := newStrip(200, 60)
	// Two tallies, then a no-requirement ring, then three tallies.
	for _, x := range []int{20, 30, 150, 160, 170} {
		stampRect(buf, x, 15, 4, 30, inkOrange)
	}
	stampRing(buf, 100, 30, 9, 5, inkWhite)

	res := Parse(buf, nil, DefaultParams())
	if res.Mode != ModeBars {
		t.Fatalf("mode = %v, want bars", res.Mode)
	}
	want := []puzzle.ConstraintItem{
		{Index: 0, Color: puzzle.ColorOrange, Value: 2},
		{Index: 1, Color: puzzle.ColorOrange, Value: 0},
		{Index: 2, Color: puzzle.ColorOrange, Value: 3},
	}
	if !reflect.DeepEqual(res.Items, want) {
		t.Errorf("items = %+v, want %+v", res.Items, want)
	}
}

func TestParseBarStripVertical(t *testing.T) {
	// A column strip read top to bottom: one tally in the first slot,
	// two in the second.
	buf := newStrip(50, 170)
	stampRect(buf, 10, 20, 30, 4, inkOrange)
	stampRect(buf, 10, 120, 30, 4, inkOrange)
	stampRect(buf, 10, 130, 30, 4, inkOrange)

	res := Parse(buf, nil, DefaultParams())
	if res.Mode != ModeBars {
		t.Fatalf("mode = %v, want bars", res.Mode)
	}
	if !res.Rotated {
		t.Fatal("vertical strip not flagged rotated")
	}
	want := []puzzle.ConstraintItem{
		{Index: 0, Color: puzzle.ColorOrange, Value: 1},
		{Index: 1, Color: puzzle.ColorOrange, Value: 2},
	}
	if !reflect.DeepEqual(res.Items, want) {
		t.Errorf("items = %+v, want %+v", res.Items, want)
	}
}

func TestParseNumericSingle(t *testing.T) {
	buf := newStrip(160, 50)
	stampMask(buf, glyph.DrawStencil(3, 15, 25), 30, 24, inkOrange)
	stampMask(buf, glyph.DrawStencil(5, 15, 25), 100, 24, inkOrange)

	res := Parse(buf, glyph.NewGridRecognizer(), DefaultParams())
	if res.Mode != ModeNumeric {
		t.Fatalf("mode = %v, want numeric", res.Mode)
	}
	if res.Rotated {
		t.Error("horizontal strip flagged rotated")
	}
	if !reflect.DeepEqual(res.Colors, []puzzle.Color{puzzle.ColorOrange}) {
		t.Fatalf("colors = %v, want orange only", res.Colors)
	}
	want := []puzzle.ConstraintItem{
		{Index: 0, Color: puzzle.ColorOrange, Value: 3},
		{Index: 1, Color: puzzle.ColorOrange, Value: 5},
	}
	if !reflect.DeepEqual(res.Items, want) {
		t.Errorf("items = %+v, want %+v", res.Items, want)
	}
}

func TestParseNumericVertical(t *testing.T) {
	// A strip captured left of the grid: upright digits in the
	// grid-adjacent right half, 5 in the top slot and 3 in the bottom.
	// Slot indices must follow the top-to-bottom reading order.
	buf := newStrip(50, 160)
	stampMask(buf, glyph.DrawStencil(5, 15, 25), 30, 30, inkOrange)
	stampMask(buf, glyph.DrawStencil(3, 15, 25), 30, 120, inkOrange)

	res := Parse(buf, glyph.NewGridRecognizer(), DefaultParams())
	if !res.Rotated {
		t.Fatal("vertical strip not flagged rotated")
	}
	want := []puzzle.ConstraintItem{
		{Index: 0, Color: puzzle.ColorOrange, Value: 5},
		{Index: 1, Color: puzzle.ColorOrange, Value: 3},
	}
	if !reflect.DeepEqual(res.Items, want) {
		t.Errorf("items = %+v, want %+v", res.Items, want)
	}
}

func TestParseNumericZeroSymbol(t *testing.T) {
	buf := newStrip(160, 50)
	stampMask(buf, glyph.DrawStencil(3, 15, 25), 30, 24, inkOrange)
	// A faint ring instead of a digit marks the second slot as
	// no-requirement.
	stampRing(buf, 110, 36, 9, 5, inkWhite)

	res := Parse(buf, glyph.NewGridRecognizer(), DefaultParams())
	want := []puzzle.ConstraintItem{
		{Index: 0, Color: puzzle.ColorOrange, Value: 3},
		{Index: 1, Color: puzzle.ColorOrange, Value: 0},
	}
	if !reflect.DeepEqual(res.Items, want) {
		t.Errorf("items = %+v, want %+v", res.Items, want)
	}
}

// sixSayer answers 6 for every glyph, which forces Parse through the
// zero/six disambiguation on each slot.
type sixSayer struct{}

func (sixSayer) Recognize(*glyph.Mask) int { return 6 }

func TestParseNumericZeroSixCorrection(t *testing.T) {
	buf := newStrip(200, 50)
	stampRing(buf, 45, 36, 12, 7, inkOrange) // hollow and symmetric, a true 0
	stampRect(buf, 120, 24, 15, 25, inkOrange)

	res := Parse(buf, sixSayer{}, DefaultParams())
	want := []puzzle.ConstraintItem{
		{Index: 0, Color: puzzle.ColorOrange, Value: 0},
		{Index: 1, Color: puzzle.ColorOrange, Value: 6},
	}
	if !reflect.DeepEqual(res.Items, want) {
		t.Errorf("items = %+v, want %+v", res.Items, want)
	}
}

func TestParseDualStrip(t *testing.T) {
	buf := newStrip(200, 60)
	// Slot 0 stacks orange 2 over blue 3; slot 1 has only orange 4, so
	// blue gets an explicit zero there.
	stampMask(buf, glyph.DrawStencil(2, 15, 25), 40, 2, inkOrange)
	stampMask(buf, glyph.DrawStencil(3, 15, 25), 40, 33, inkBlue)
	stampMask(buf, glyph.DrawStencil(4, 15, 25), 120, 2, inkOrange)

	res := Parse(buf, glyph.NewGridRecognizer(), DefaultParams())
	if !res.DualColor {
		t.Fatal("two-color strip not flagged dual")
	}
	if res.Mode != ModeNumeric {
		t.Fatalf("mode = %v, want numeric", res.Mode)
	}
	if !reflect.DeepEqual(res.Colors, []puzzle.Color{puzzle.ColorOrange, puzzle.ColorBlue}) {
		t.Fatalf("colors = %v, want orange then blue", res.Colors)
	}
	want := []puzzle.ConstraintItem{
		{Index: 0, Color: puzzle.ColorOrange, Value: 2},
		{Index: 0, Color: puzzle.ColorBlue, Value: 3},
		{Index: 1, Color: puzzle.ColorOrange, Value: 4},
		{Index: 1, Color: puzzle.ColorBlue, Value: 0},
	}
	if !reflect.DeepEqual(res.Items, want) {
		t.Errorf("items = %+v, want %+v", res.Items, want)
	}
}

func TestParseEmpty(t *testing.T) {
	if res := Parse(nil, nil, DefaultParams()); !reflect.DeepEqual(res, Result{}) {
		t.Errorf("nil buffer: got %+v", res)
	}
	blank := newStrip(120, 40)
	if res := Parse(blank, nil, DefaultParams()); !reflect.DeepEqual(res, Result{}) {
		t.Errorf("blank strip: got %+v", res)
	}
}
