// Package glyph represents digit glyphs extracted from constraint strips
// and the recognition backends that read them.
package glyph

import "puzzle-scan/internal/mask"

// Unrecognized is the sentinel returned when a backend cannot determine
// the digit.
const Unrecognized = -1

// Recognizer reads a single digit from a glyph mask.
// Implementations return 0-9 or Unrecognized and must be deterministic
// for identical input.
type Recognizer interface {
	Recognize(m *Mask) int
}

// Mask is the foreground pixel set of one extracted glyph. Rotated records
// whether the source strip was turned a quarter turn clockwise before
// extraction; backends call Upright to restore the glyph before matching.
type Mask struct {
	mask.Bitmap
	Rotated bool
}

// NewMask allocates an empty glyph mask.
func NewMask(w, h int) *Mask {
	return &Mask{Bitmap: *mask.New(w, h)}
}

// FromBitmap wraps a bitmap as a glyph mask. The pixel slice is shared.
func FromBitmap(b *mask.Bitmap, rotated bool) *Mask {
	if b == nil {
		return NewMask(0, 0)
	}
	return &Mask{Bitmap: *b, Rotated: rotated}
}

// Upright returns the glyph in its original orientation. Rotated masks
// come back turned a quarter turn counterclockwise with the flag
// cleared; others return the receiver unchanged.
func (m *Mask) Upright() *Mask {
	if !m.Rotated {
		return m
	}
	out := NewMask(m.H, m.W)
	for y := 0; y < out.H; y++ {
		for x := 0; x < out.W; x++ {
			if m.Pix[x*m.W+(m.W-1-y)] {
				out.Pix[y*out.W+x] = true
			}
		}
	}
	return out
}
