package pieces

import (
	"puzzle-scan/internal/imaging"
	"puzzle-scan/internal/mask"
	"puzzle-scan/internal/palette"
	"puzzle-scan/internal/puzzle"
	"puzzle-scan/pkg/geometry"
)

// Parse analyzes the piece panel and returns the pieces top to bottom,
// with IDs assigned in that order. Piece boxes come from white-row stack
// splitting when the panel is laid out that way, otherwise from merging
// color components.
func Parse(buf *imaging.Buffer, p Params) []puzzle.Piece {
	if buf == nil || buf.W == 0 || buf.H == 0 {
		return nil
	}

	boxes := splitStack(buf, p)
	if boxes == nil {
		boxes = mergeComponents(buf, p)
	}

	var out []puzzle.Piece
	for _, box := range boxes {
		color := dominantColor(buf, box, p)
		if !color.Valid() {
			continue
		}
		shape := fitShape(pieceMask(buf, box, p), p.Fit)
		if shape.Empty() {
			continue
		}
		out = append(out, puzzle.Piece{ID: len(out), Color: color, Shape: shape})
	}
	return out
}

// pieceMask is the union of every color mask over the piece box, so a
// few misclassified pixels never hollow out a cell.
func pieceMask(buf *imaging.Buffer, box geometry.Box, p Params) *mask.Bitmap {
	out := mask.New(box.Width(), box.Height())
	for _, c := range puzzle.AllColors() {
		out.Union(palette.Mask(buf, box, c, false, p.Palette))
	}
	return out
}

// dominantColor picks the majority color over the piece box, retrying
// relaxed when the strict ranges see nothing.
func dominantColor(buf *imaging.Buffer, box geometry.Box, p Params) puzzle.Color {
	c, n := palette.Dominant(palette.Counts(buf, box, false, p.Palette))
	if n == 0 {
		c, _ = palette.Dominant(palette.Counts(buf, box, true, p.Palette))
	}
	return c
}
