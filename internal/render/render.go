// Package render draws a solved board back over the captured frame.
// The overlay is a debug artifact of the CLI harness, not a UI surface.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strconv"

	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"puzzle-scan/internal/imaging"
	"puzzle-scan/internal/puzzle"
	"puzzle-scan/pkg/geometry"
)

// Options control overlay rendering.
type Options struct {
	// GridBox anchors the cell geometry in frame coordinates. An
	// invalid box falls back to the whole frame.
	GridBox geometry.Box `json:"grid_box"`

	// Dim is the fraction the source frame is darkened by before any
	// fill is drawn.
	Dim float64 `json:"dim"`

	// FillAlpha is the opacity of cell fills over the dimmed frame.
	FillAlpha float64 `json:"fill_alpha"`

	// FontPath points at a TTF for piece id labels; empty skips labels.
	FontPath string `json:"font_path"`

	// LabelPt is the label size in points.
	LabelPt float64 `json:"label_pt"`
}

// DefaultOptions returns the rendering defaults.
func DefaultOptions() Options {
	return Options{
		Dim:       0.55, // screenshot stays readable underneath
		FillAlpha: 0.65,
		LabelPt:   16,
	}
}

// displayColors are the canonical fill colors, one per puzzle color.
var displayColors = [puzzle.NumColors]colorful.Color{
	puzzle.ColorOrange: {R: 1.00, G: 0.45, B: 0.10},
	puzzle.ColorYellow: {R: 0.95, G: 0.85, B: 0.15},
	puzzle.ColorGreen:  {R: 0.20, G: 0.75, B: 0.30},
	puzzle.ColorBlue:   {R: 0.15, G: 0.45, B: 0.90},
}

var (
	blockedShade = colorful.Color{R: 0.25, G: 0.25, B: 0.27}
	labWhite     = colorful.Color{R: 1, G: 1, B: 1}
	gridLine     = color.RGBA{R: 235, G: 235, B: 235, A: 255}
)

// shadeSteps is the lightness cycle length for pieces of one color.
const shadeSteps = 3

// PieceShade derives the fill for one piece: the display color of its
// puzzle color nudged toward white in Lab space by the piece's turn in
// the cycle, so touching pieces of the same color stay separable. A
// negative piece id returns the unshifted base color.
func PieceShade(c puzzle.Color, piece int) colorful.Color {
	if !c.Valid() {
		return blockedShade
	}
	base := displayColors[c]
	if piece < 0 {
		return base
	}
	t := float64(piece%shadeSteps) * 0.18
	return base.BlendLab(labWhite, t).Clamped()
}

// CellBox returns the frame-space box of cell (r, c) on a rows-by-cols
// board anchored at box. Integer proportional splits keep adjacent
// cells exactly abutting.
func CellBox(box geometry.Box, r, c, rows, cols int) geometry.Box {
	w, h := box.Width(), box.Height()
	return geometry.Box{
		X1: box.X1 + c*w/cols,
		Y1: box.Y1 + r*h/rows,
		X2: box.X1 + (c+1)*w/cols,
		Y2: box.Y1 + (r+1)*h/rows,
	}
}

// Overlay renders the placements over the frame: the source is dimmed,
// blocked cells and placed pieces are filled, every cell is outlined,
// and piece ids are labeled when a font is configured. The frame is
// never written to; the result is a fresh image.
func Overlay(buf *imaging.Buffer, spec *puzzle.Spec, sol puzzle.Solution, opts Options) (*image.RGBA, error) {
	if buf == nil || buf.W == 0 || buf.H == 0 {
		return nil, errors.New("render: empty frame")
	}
	if spec == nil || spec.Grid == nil || spec.Rows <= 0 || spec.Cols <= 0 {
		return nil, errors.New("render: spec has no grid")
	}

	owners, colors, err := paintCells(spec, sol)
	if err != nil {
		return nil, err
	}

	out := buf.ToImage()
	dim(out, opts.Dim)

	box := opts.GridBox.Clamp(buf.Bounds())
	if !box.Valid() {
		box = buf.Bounds()
	}

	for r := 0; r < spec.Rows; r++ {
		for c := 0; c < spec.Cols; c++ {
			cell := CellBox(box, r, c, spec.Rows, spec.Cols)
			idx := r*spec.Cols + c
			switch {
			case spec.Grid.At(r, c).Kind == puzzle.CellBlocked:
				fillBox(out, cell, blockedShade, opts.FillAlpha)
			case owners[idx] != puzzle.NoOwner:
				fillBox(out, cell, PieceShade(colors[idx], owners[idx]), opts.FillAlpha)
			case spec.Grid.At(r, c).Kind == puzzle.CellColored:
				// Uncovered requirement marks draw faint, so a partial
				// solution still shows what is left.
				fillBox(out, cell, PieceShade(spec.Grid.At(r, c).Color, -1), opts.FillAlpha*0.4)
			}
			outlineBox(out, cell, gridLine)
		}
	}

	if opts.FontPath != "" {
		if err := drawLabels(out, box, spec, sol, opts); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// WritePNG writes the overlay image to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("render: encode %s: %w", path, err)
	}
	return f.Close()
}

// paintCells replays the placements onto owner and color maps indexed
// row*cols+col. Every placement must reference a declared piece, one of
// its rotations, and stay inside the board.
func paintCells(spec *puzzle.Spec, sol puzzle.Solution) ([]int, []puzzle.Color, error) {
	n := spec.Rows * spec.Cols
	owners := make([]int, n)
	colors := make([]puzzle.Color, n)
	for i := range owners {
		owners[i] = puzzle.NoOwner
		colors[i] = puzzle.ColorNone
	}

	byID := make(map[int]puzzle.Piece, len(spec.Pieces))
	for _, p := range spec.Pieces {
		byID[p.ID] = p
	}

	for _, pl := range sol {
		piece, ok := byID[pl.Piece]
		if !ok {
			return nil, nil, fmt.Errorf("render: placement references unknown piece %d", pl.Piece)
		}
		shape, ok := orientationShape(piece.Shape, pl.Rotation)
		if !ok {
			return nil, nil, fmt.Errorf("render: piece %d has no rotation %d", pl.Piece, pl.Rotation)
		}
		for r := 0; r < shape.Rows; r++ {
			for c := 0; c < shape.Cols; c++ {
				if !shape.At(r, c) {
					continue
				}
				rr, cc := pl.Row+r, pl.Col+c
				if rr < 0 || rr >= spec.Rows || cc < 0 || cc >= spec.Cols {
					return nil, nil, fmt.Errorf("render: piece %d leaves the board at (%d,%d)", pl.Piece, rr, cc)
				}
				idx := rr*spec.Cols + cc
				owners[idx] = piece.ID
				colors[idx] = piece.Color
			}
		}
	}
	return owners, colors, nil
}

func orientationShape(s puzzle.Shape, rotation int) (puzzle.Shape, bool) {
	for _, o := range s.Orientations() {
		if o.Rotation == rotation {
			return o.Shape, true
		}
	}
	return puzzle.Shape{}, false
}

// dim darkens the image in place by the given fraction.
func dim(img *image.RGBA, frac float64) {
	if frac <= 0 {
		return
	}
	if frac > 1 {
		frac = 1
	}
	keep := 1 - frac
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = uint8(float64(img.Pix[i+0]) * keep)
		img.Pix[i+1] = uint8(float64(img.Pix[i+1]) * keep)
		img.Pix[i+2] = uint8(float64(img.Pix[i+2]) * keep)
	}
}

// fillBox source-over composites the shade onto the box interior.
func fillBox(img *image.RGBA, box geometry.Box, shade colorful.Color, alpha float64) {
	if alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	fr, fg, fb := shade.R*255, shade.G*255, shade.B*255
	keep := 1 - alpha
	for y := box.Y1; y < box.Y2; y++ {
		for x := box.X1; x < box.X2; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = uint8(alpha*fr + keep*float64(img.Pix[i+0]))
			img.Pix[i+1] = uint8(alpha*fg + keep*float64(img.Pix[i+1]))
			img.Pix[i+2] = uint8(alpha*fb + keep*float64(img.Pix[i+2]))
			img.Pix[i+3] = 255
		}
	}
}

// outlineBox draws the one pixel border of the box.
func outlineBox(img *image.RGBA, box geometry.Box, c color.RGBA) {
	for x := box.X1; x < box.X2; x++ {
		img.SetRGBA(x, box.Y1, c)
		img.SetRGBA(x, box.Y2-1, c)
	}
	for y := box.Y1; y < box.Y2; y++ {
		img.SetRGBA(box.X1, y, c)
		img.SetRGBA(box.X2-1, y, c)
	}
}

// drawLabels prints each piece id centered on its anchor cell, the
// first occupied cell of the placed shape in raster order.
func drawLabels(img *image.RGBA, box geometry.Box, spec *puzzle.Spec, sol puzzle.Solution, opts Options) error {
	data, err := os.ReadFile(opts.FontPath)
	if err != nil {
		return fmt.Errorf("render: read font: %w", err)
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		return fmt.Errorf("render: parse font: %w", err)
	}
	size := opts.LabelPt
	if size <= 0 {
		size = DefaultOptions().LabelPt
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	byID := make(map[int]puzzle.Piece, len(spec.Pieces))
	for _, p := range spec.Pieces {
		byID[p.ID] = p
	}

	d := &font.Drawer{Dst: img, Src: image.White, Face: face}
	for _, pl := range sol {
		shape, ok := orientationShape(byID[pl.Piece].Shape, pl.Rotation)
		if !ok {
			continue
		}
		ar, ac, ok := anchorCell(shape)
		if !ok {
			continue
		}
		cell := CellBox(box, pl.Row+ar, pl.Col+ac, spec.Rows, spec.Cols)
		label := strconv.Itoa(pl.Piece)
		width := d.MeasureString(label)
		center := cell.Center()
		d.Dot = fixed.Point26_6{
			X: fixed.I(int(center.X)) - width/2,
			Y: fixed.I(int(center.Y)) + face.Metrics().Ascent/2,
		}
		d.DrawString(label)
	}
	return nil
}

// anchorCell is the first occupied cell of the shape in raster order.
func anchorCell(s puzzle.Shape) (int, int, bool) {
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Cols; c++ {
			if s.At(r, c) {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}
