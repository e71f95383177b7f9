// Package imaging provides the shared RGBA pixel buffer, color conversions,
// and scalar-plane helpers used by the screenshot analyzers.
package imaging

import (
	"image"
	"image/color"

	"puzzle-scan/pkg/geometry"
)

// Buffer is an 8-bit RGBA pixel buffer with a flat row-major layout.
// Analyzers treat it as read-only once constructed.
type Buffer struct {
	W, H int
	Pix  []uint8 // 4 bytes per pixel, RGBA order
}

// NewBuffer allocates a zeroed buffer of the given size.
func NewBuffer(w, h int) *Buffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Buffer{W: w, H: h, Pix: make([]uint8, w*h*4)}
}

// FromImage copies an image.Image into a Buffer.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := NewBuffer(w, h)

	// Fast path for the common decoded type.
	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < h; y++ {
			src := rgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(buf.Pix[y*w*4:(y+1)*w*4], rgba.Pix[src:src+w*4])
		}
		return buf
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := (y*w + x) * 4
			buf.Pix[i+0] = uint8(r >> 8)
			buf.Pix[i+1] = uint8(g >> 8)
			buf.Pix[i+2] = uint8(b >> 8)
			buf.Pix[i+3] = uint8(a >> 8)
		}
	}
	return buf
}

// Bounds returns the buffer extent as a Box anchored at the origin.
func (b *Buffer) Bounds() geometry.Box {
	return geometry.Box{X2: b.W, Y2: b.H}
}

// InBounds reports whether (x, y) addresses a pixel.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.W && y >= 0 && y < b.H
}

// RGBAAt returns the pixel channels at (x, y). Out-of-bounds reads are black.
func (b *Buffer) RGBAAt(x, y int) (r, g, bl, a uint8) {
	if !b.InBounds(x, y) {
		return 0, 0, 0, 0
	}
	i := (y*b.W + x) * 4
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// SetRGBA writes the pixel channels at (x, y). Out-of-bounds writes are dropped.
func (b *Buffer) SetRGBA(x, y int, r, g, bl, a uint8) {
	if !b.InBounds(x, y) {
		return
	}
	i := (y*b.W + x) * 4
	b.Pix[i+0] = r
	b.Pix[i+1] = g
	b.Pix[i+2] = bl
	b.Pix[i+3] = a
}

// Crop returns a copy of the pixels under the box, clamped to the buffer.
func (b *Buffer) Crop(box geometry.Box) *Buffer {
	box = box.Clamp(b.Bounds())
	if !box.Valid() {
		return NewBuffer(0, 0)
	}
	w, h := box.Width(), box.Height()
	out := NewBuffer(w, h)
	for y := 0; y < h; y++ {
		src := ((box.Y1+y)*b.W + box.X1) * 4
		copy(out.Pix[y*w*4:(y+1)*w*4], b.Pix[src:src+w*4])
	}
	return out
}

// Rotate90CW returns the buffer rotated a quarter turn clockwise.
// The left edge of the source becomes the top edge of the result.
func (b *Buffer) Rotate90CW() *Buffer {
	out := NewBuffer(b.H, b.W)
	for y := 0; y < out.H; y++ {
		for x := 0; x < out.W; x++ {
			sx := y
			sy := b.H - 1 - x
			si := (sy*b.W + sx) * 4
			di := (y*out.W + x) * 4
			copy(out.Pix[di:di+4], b.Pix[si:si+4])
		}
	}
	return out
}

// ToImage copies the buffer into a standard image.RGBA.
func (b *Buffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.W, b.H))
	for y := 0; y < b.H; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+b.W*4], b.Pix[y*b.W*4:(y+1)*b.W*4])
	}
	return img
}

// Fill paints every pixel with a solid color.
func (b *Buffer) Fill(c color.RGBA) {
	for i := 0; i < len(b.Pix); i += 4 {
		b.Pix[i+0] = c.R
		b.Pix[i+1] = c.G
		b.Pix[i+2] = c.B
		b.Pix[i+3] = c.A
	}
}
