package imaging

import "puzzle-scan/pkg/geometry"

// Plane is a single-channel byte image derived from a Buffer.
type Plane struct {
	W, H int
	Pix  []uint8
}

// NewPlane allocates a zeroed plane.
func NewPlane(w, h int) Plane {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Plane{W: w, H: h, Pix: make([]uint8, w*h)}
}

// At returns the value at (x, y), or 0 out of bounds.
func (p Plane) At(x, y int) uint8 {
	if x < 0 || x >= p.W || y < 0 || y >= p.H {
		return 0
	}
	return p.Pix[y*p.W+x]
}

// GrayPlane extracts the BT.601 luma channel of a buffer.
func GrayPlane(b *Buffer) Plane {
	p := NewPlane(b.W, b.H)
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			p.Pix[y*p.W+x] = b.GrayAt(x, y)
		}
	}
	return p
}

// SaturationPlane extracts the HSV saturation channel of a buffer.
func SaturationPlane(b *Buffer) Plane {
	p := NewPlane(b.W, b.H)
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			_, s, _ := b.HSVAt(x, y)
			p.Pix[y*p.W+x] = s
		}
	}
	return p
}

// Integral is a summed-area table over a Plane. Rectangle sums and means
// are O(1) regardless of window size.
type Integral struct {
	W, H int
	sums []int64 // (W+1)x(H+1), row-major, first row/col zero
}

// NewIntegral builds the summed-area table for a plane.
func NewIntegral(p Plane) *Integral {
	it := &Integral{W: p.W, H: p.H, sums: make([]int64, (p.W+1)*(p.H+1))}
	stride := p.W + 1
	for y := 0; y < p.H; y++ {
		var rowSum int64
		for x := 0; x < p.W; x++ {
			rowSum += int64(p.Pix[y*p.W+x])
			it.sums[(y+1)*stride+(x+1)] = it.sums[y*stride+(x+1)] + rowSum
		}
	}
	return it
}

// Sum returns the sum of plane values under the box, clamped to the plane.
func (it *Integral) Sum(box geometry.Box) int64 {
	box = box.Clamp(geometry.Box{X2: it.W, Y2: it.H})
	if !box.Valid() {
		return 0
	}
	stride := it.W + 1
	a := it.sums[box.Y1*stride+box.X1]
	b := it.sums[box.Y1*stride+box.X2]
	c := it.sums[box.Y2*stride+box.X1]
	d := it.sums[box.Y2*stride+box.X2]
	return d - b - c + a
}

// Mean returns the average plane value under the box, or 0 for empty boxes.
func (it *Integral) Mean(box geometry.Box) float64 {
	box = box.Clamp(geometry.Box{X2: it.W, Y2: it.H})
	area := box.Area()
	if area == 0 {
		return 0
	}
	return float64(it.Sum(box)) / float64(area)
}

// MeanAround returns the mean over a square window of the given radius
// centered on (x, y), clamped at the plane edges.
func (it *Integral) MeanAround(x, y, radius int) float64 {
	return it.Mean(geometry.Box{
		X1: x - radius,
		Y1: y - radius,
		X2: x + radius + 1,
		Y2: y + radius + 1,
	})
}
