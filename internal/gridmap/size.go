package gridmap

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"puzzle-scan/internal/puzzle"
	"puzzle-scan/pkg/geometry"
)

// estimateSize picks the board dimensions. Square sizes are tried
// against the detection count plus a rasterization check; the spacing
// fallback divides the box extents by the median centroid gap per axis;
// the last resort squares up the raw detection count.
func estimateSize(box geometry.Box, dets []puzzle.CellDetection, p Params) (rows, cols int, method string) {
	n := len(dets)
	for size := p.MinSize; size <= p.MaxSize; size++ {
		want := size * size
		tol := max(p.CountTolMin, int(p.CountTolFrac*float64(want)+0.5))
		if abs(n-want) > tol {
			continue
		}
		if rasterHitFraction(box, dets, size) >= p.RasterHitFrac {
			return size, size, "square fit"
		}
	}
	if rows, cols, ok := spacingEstimate(box, dets, p); ok {
		return rows, cols, "median spacing"
	}
	s := clamp(int(math.Round(math.Sqrt(float64(n)))), p.MinSize, p.MaxSize)
	return s, s, "sqrt fallback"
}

// rasterHitFraction is the fraction of size x size cells holding at
// least one detection centroid.
func rasterHitFraction(box geometry.Box, dets []puzzle.CellDetection, size int) float64 {
	hit := make([]bool, size*size)
	for _, det := range dets {
		if r, c, ok := cellOf(box, det.Box.Center(), size, size); ok {
			hit[r*size+c] = true
		}
	}
	n := 0
	for _, h := range hit {
		if h {
			n++
		}
	}
	return float64(n) / float64(size*size)
}

// spacingEstimate derives the dimensions from the median of the real
// centroid gaps on each axis.
func spacingEstimate(box geometry.Box, dets []puzzle.CellDetection, p Params) (int, int, bool) {
	if len(dets) < 2 {
		return 0, 0, false
	}
	xs := make([]float64, len(dets))
	ys := make([]float64, len(dets))
	for i, det := range dets {
		c := det.Box.Center()
		xs[i], ys[i] = c.X, c.Y
	}
	medX := medianGap(xs, p.MinGap)
	medY := medianGap(ys, p.MinGap)
	if medX <= 0 || medY <= 0 {
		return 0, 0, false
	}
	cols := clamp(int(math.Round(float64(box.Width())/medX)), p.MinSize, p.MaxSize)
	rows := clamp(int(math.Round(float64(box.Height())/medY)), p.MinSize, p.MaxSize)
	fmt.Printf("Grid spacing: medX=%.1f medY=%.1f -> %dx%d\n", medX, medY, rows, cols)
	return rows, cols, true
}

// medianGap returns the median gap between sorted values, counting only
// gaps above minGap. Zero when no real gaps exist.
func medianGap(vals []float64, minGap float64) float64 {
	sort.Float64s(vals)
	var gaps []float64
	for i := 1; i < len(vals); i++ {
		if g := vals[i] - vals[i-1]; g > minGap {
			gaps = append(gaps, g)
		}
	}
	if len(gaps) == 0 {
		return 0
	}
	sort.Float64s(gaps)
	return stat.Quantile(0.5, stat.Empirical, gaps, nil)
}

// cellOf maps a point to its cell by relative position inside the box.
func cellOf(box geometry.Box, pt geometry.Point2D, rows, cols int) (int, int, bool) {
	relX := (pt.X - float64(box.X1)) / float64(box.Width())
	relY := (pt.Y - float64(box.Y1)) / float64(box.Height())
	if relX < 0 || relX >= 1 || relY < 0 || relY >= 1 {
		return 0, 0, false
	}
	return int(relY * float64(rows)), int(relX * float64(cols)), true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
