// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return Point2D{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale returns the point scaled by a factor.
func (p Point2D) Scale(factor float64) Point2D {
	return Point2D{X: p.X * factor, Y: p.Y * factor}
}

// Box is an axis-aligned rectangle with integer pixel coordinates.
// The x2/y2 edges are exclusive, so Width is X2-X1 and a pixel (x,y)
// belongs to the box when X1 <= x < X2 and Y1 <= y < Y2.
type Box struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// NewBox creates a Box from a corner and dimensions.
func NewBox(x, y, width, height int) Box {
	return Box{X1: x, Y1: y, X2: x + width, Y2: y + height}
}

// Width returns the box width in pixels.
func (b Box) Width() int {
	return b.X2 - b.X1
}

// Height returns the box height in pixels.
func (b Box) Height() int {
	return b.Y2 - b.Y1
}

// Area returns the number of pixels covered by the box.
func (b Box) Area() int {
	if !b.Valid() {
		return 0
	}
	return b.Width() * b.Height()
}

// Valid reports whether the box has positive extent on both axes.
func (b Box) Valid() bool {
	return b.X2 > b.X1 && b.Y2 > b.Y1
}

// Center returns the center point of the box.
func (b Box) Center() Point2D {
	return Point2D{
		X: float64(b.X1) + float64(b.Width())/2,
		Y: float64(b.Y1) + float64(b.Height())/2,
	}
}

// Contains reports whether the pixel (x, y) lies inside the box.
func (b Box) Contains(x, y int) bool {
	return x >= b.X1 && x < b.X2 && y >= b.Y1 && y < b.Y2
}

// ContainsPoint reports whether a floating-point location lies inside the box.
func (b Box) ContainsPoint(p Point2D) bool {
	return p.X >= float64(b.X1) && p.X < float64(b.X2) &&
		p.Y >= float64(b.Y1) && p.Y < float64(b.Y2)
}

// Intersect returns the overlapping region of two boxes.
// The result is invalid (zero area) when they do not overlap.
func (b Box) Intersect(other Box) Box {
	return Box{
		X1: maxInt(b.X1, other.X1),
		Y1: maxInt(b.Y1, other.Y1),
		X2: minInt(b.X2, other.X2),
		Y2: minInt(b.Y2, other.Y2),
	}
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(other Box) Box {
	return Box{
		X1: minInt(b.X1, other.X1),
		Y1: minInt(b.Y1, other.Y1),
		X2: maxInt(b.X2, other.X2),
		Y2: maxInt(b.Y2, other.Y2),
	}
}

// Clamp restricts the box to the bounds of another box.
func (b Box) Clamp(bounds Box) Box {
	return b.Intersect(bounds)
}

// Inset shrinks the box by n pixels on every side.
func (b Box) Inset(n int) Box {
	return Box{X1: b.X1 + n, Y1: b.Y1 + n, X2: b.X2 - n, Y2: b.Y2 - n}
}

// Translate returns the box shifted by (dx, dy).
func (b Box) Translate(dx, dy int) Box {
	return Box{X1: b.X1 + dx, Y1: b.Y1 + dy, X2: b.X2 + dx, Y2: b.Y2 + dy}
}

// AspectRatio returns width divided by height, or 0 for degenerate boxes.
func (b Box) AspectRatio() float64 {
	if b.Height() <= 0 {
		return 0
	}
	return float64(b.Width()) / float64(b.Height())
}

// MaxDim returns the larger of width and height.
func (b Box) MaxDim() int {
	return maxInt(b.Width(), b.Height())
}

// MinDim returns the smaller of width and height.
func (b Box) MinDim() int {
	return minInt(b.Width(), b.Height())
}

// Centroid computes the centroid (average position) of a set of points.
func Centroid(points []Point2D) Point2D {
	if len(points) == 0 {
		return Point2D{}
	}
	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}
	n := float64(len(points))
	return Point2D{X: sumX / n, Y: sumY / n}
}

// BoundingBox computes the axis-aligned bounding box of a set of points,
// expanded so every point lies strictly inside the half-open extent.
func BoundingBox(points []Point2D) Box {
	if len(points) == 0 {
		return Box{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Box{
		X1: int(math.Floor(minX)),
		Y1: int(math.Floor(minY)),
		X2: int(math.Floor(maxX)) + 1,
		Y2: int(math.Floor(maxY)) + 1,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
