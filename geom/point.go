package geom

import (
	"fmt"
	"math"
)

// Point is a point (X, Y) in Cartesian coordinates, in bp units.
type Point struct {
	X float64
	Y float64
}

// NewPoint returns a Point at (x, y).
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Set mutates p in place to (x, y).
func (p *Point) Set(x, y float64) {
	p.X, p.Y = x, y
}

// Transform returns p transformed by m.
func (p Point) Transform(m Matrix) Point {
	x, y := m.Transform(p.X, p.Y)
	return Point{X: x, Y: y}
}

// Add returns p shifted by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Displace returns p + delta.
func (p Point) Displace(delta Point) Point {
	return Point{X: p.X + delta.X, Y: p.Y + delta.Y}
}

// Rotate returns p rotated by theta degrees about the origin.
func (p Point) Rotate(theta float64) Point {
	r := math.Hypot(p.X, p.Y)
	t := math.Atan2(p.Y, p.X)
	sin, cos := math.Sincos(t + theta/180.0*math.Pi)
	return Point{X: r * cos, Y: r * sin}
}

// Distance returns the distance between a and b.
func (a Point) Distance(b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Interpolate does linear interpolation between a and b at parameter t.
func (a Point) Interpolate(b Point, t float64) Point {
	return Point{X: (1-t)*a.X + t*b.X, Y: (1-t)*a.Y + t*b.Y}
}

// String renders p as "(x,y)" with the precision used by diagnostics.
func (p Point) String() string {
	return fmt.Sprintf("(%s,%s)", formatNum(p.X), formatNum(p.Y))
}
