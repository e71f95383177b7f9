// Package mask provides binary pixel masks, 4-connected component labeling,
// and 3x3 morphological cleanup for the screenshot analyzers.
package mask

import "puzzle-scan/pkg/geometry"

// Bitmap is a binary image in row-major order.
type Bitmap struct {
	W, H int
	Pix  []bool
}

// New allocates an all-background bitmap.
func New(w, h int) *Bitmap {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Bitmap{W: w, H: h, Pix: make([]bool, w*h)}
}

// At reports whether (x, y) is foreground. Out-of-bounds is background.
func (b *Bitmap) At(x, y int) bool {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return false
	}
	return b.Pix[y*b.W+x]
}

// Set marks (x, y) as foreground or background.
func (b *Bitmap) Set(x, y int, on bool) {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return
	}
	b.Pix[y*b.W+x] = on
}

// Count returns the number of foreground pixels.
func (b *Bitmap) Count() int {
	n := 0
	for _, on := range b.Pix {
		if on {
			n++
		}
	}
	return n
}

// CountIn returns the number of foreground pixels under the box.
func (b *Bitmap) CountIn(box geometry.Box) int {
	box = box.Clamp(geometry.Box{X2: b.W, Y2: b.H})
	n := 0
	for y := box.Y1; y < box.Y2; y++ {
		for x := box.X1; x < box.X2; x++ {
			if b.Pix[y*b.W+x] {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	out := &Bitmap{W: b.W, H: b.H, Pix: make([]bool, len(b.Pix))}
	copy(out.Pix, b.Pix)
	return out
}

// Crop returns a copy of the pixels under the box, clamped to the bitmap.
func (b *Bitmap) Crop(box geometry.Box) *Bitmap {
	box = box.Clamp(geometry.Box{X2: b.W, Y2: b.H})
	if !box.Valid() {
		return New(0, 0)
	}
	out := New(box.Width(), box.Height())
	for y := 0; y < out.H; y++ {
		for x := 0; x < out.W; x++ {
			out.Pix[y*out.W+x] = b.Pix[(box.Y1+y)*b.W+(box.X1+x)]
		}
	}
	return out
}

// Union merges another bitmap of the same size into this one in place.
func (b *Bitmap) Union(other *Bitmap) {
	if other == nil || other.W != b.W || other.H != b.H {
		return
	}
	for i, on := range other.Pix {
		if on {
			b.Pix[i] = true
		}
	}
}

// Overlap returns how many foreground pixels two same-sized bitmaps share.
func (b *Bitmap) Overlap(other *Bitmap) int {
	if other == nil || other.W != b.W || other.H != b.H {
		return 0
	}
	n := 0
	for i, on := range b.Pix {
		if on && other.Pix[i] {
			n++
		}
	}
	return n
}
