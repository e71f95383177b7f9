package mask

import (
	"math"

	"puzzle-scan/pkg/geometry"
)

// Component is one 4-connected foreground region.
type Component struct {
	ID        int
	Box       geometry.Box
	Area      int
	Perimeter int // border-pixel count, see Circularity
	Centroid  geometry.Point2D
}

// Circularity scores how circular the component is as 4*pi*area/perimeter^2,
// with the border-pixel count standing in for the true contour length.
// Compact blobs score near or above 1, thin rings and strokes much lower.
func (c Component) Circularity() float64 {
	if c.Perimeter == 0 {
		return 0
	}
	return 4 * math.Pi * float64(c.Area) / float64(c.Perimeter*c.Perimeter)
}

// AspectRatio returns the bounding-box width/height ratio.
func (c Component) AspectRatio() float64 {
	return c.Box.AspectRatio()
}

// Labeling maps every pixel to its component, with per-component summaries.
type Labeling struct {
	W, H   int
	Labels []int32 // component index per pixel, -1 for background
	Comps  []Component
}

// Label runs 4-connected component analysis over the bitmap. Components are
// numbered in scan order of their first pixel, so the result is
// deterministic for identical input.
func Label(b *Bitmap) *Labeling {
	l := &Labeling{W: b.W, H: b.H, Labels: make([]int32, len(b.Pix))}
	for i := range l.Labels {
		l.Labels[i] = -1
	}

	var stack []int
	for start := range b.Pix {
		if !b.Pix[start] || l.Labels[start] >= 0 {
			continue
		}

		id := int32(len(l.Comps))
		comp := Component{
			ID:  int(id),
			Box: geometry.Box{X1: b.W, Y1: b.H, X2: 0, Y2: 0},
		}
		var sumX, sumY float64

		stack = append(stack[:0], start)
		l.Labels[start] = id
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := idx%b.W, idx/b.W

			comp.Area++
			sumX += float64(x)
			sumY += float64(y)
			if x < comp.Box.X1 {
				comp.Box.X1 = x
			}
			if y < comp.Box.Y1 {
				comp.Box.Y1 = y
			}
			if x+1 > comp.Box.X2 {
				comp.Box.X2 = x + 1
			}
			if y+1 > comp.Box.Y2 {
				comp.Box.Y2 = y + 1
			}

			border := false
			for _, d := range [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || nx >= b.W || ny < 0 || ny >= b.H || !b.Pix[ny*b.W+nx] {
					border = true
					continue
				}
				nidx := ny*b.W + nx
				if l.Labels[nidx] < 0 {
					l.Labels[nidx] = id
					stack = append(stack, nidx)
				}
			}
			if border {
				comp.Perimeter++
			}
		}

		comp.Centroid = geometry.Point2D{
			X: sumX / float64(comp.Area),
			Y: sumY / float64(comp.Area),
		}
		l.Comps = append(l.Comps, comp)
	}
	return l
}

// Components returns the 4-connected regions of the bitmap.
func Components(b *Bitmap) []Component {
	return Label(b).Comps
}

// Extract copies the pixels of one component into a tight bitmap anchored at
// the component's bounding box. Foreground pixels of other components inside
// the same box are left out.
func (l *Labeling) Extract(id int) *Bitmap {
	if id < 0 || id >= len(l.Comps) {
		return New(0, 0)
	}
	box := l.Comps[id].Box
	out := New(box.Width(), box.Height())
	for y := box.Y1; y < box.Y2; y++ {
		for x := box.X1; x < box.X2; x++ {
			if l.Labels[y*l.W+x] == int32(id) {
				out.Pix[(y-box.Y1)*out.W+(x-box.X1)] = true
			}
		}
	}
	return out
}
