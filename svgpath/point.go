package svgpath

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// DefaultFuzz is the tolerance used to compare two drawing points
// when none is configured.
const DefaultFuzz = 0.001

// Point is a location in drawing units, Y axis pointing up.
type Point struct{ X, Y float64 }

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) Mul(f float64) Point { return Point{p.X * f, p.Y * f} }

// Near reports whether p and q are equal within fuzz on both axes.
func (p Point) Near(q Point, fuzz float64) bool {
	return abs(p.X-q.X) <= fuzz && abs(p.Y-q.Y) <= fuzz
}

// polar returns the point at distance r from c, in direction theta (radians).
func polar(c Point, r, theta float64) Point {
	return Point{c.X + r*math.Cos(theta), c.Y + r*math.Sin(theta)}
}

func abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Rect is an axis aligned box. The zero value is not empty:
// use EmptyRect to start an accumulation.
type Rect struct{ Min, Max Point }

// EmptyRect returns a box which is the neutral element of Union.
func EmptyRect() Rect {
	return Rect{
		Min: Point{math.Inf(1), math.Inf(1)},
		Max: Point{math.Inf(-1), math.Inf(-1)},
	}
}

// PointRect is the degenerate box holding only p.
func PointRect(p Point) Rect { return Rect{Min: p, Max: p} }

func (r Rect) IsEmpty() bool { return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y }

func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Union returns the smallest box containing r and s.
func (r Rect) Union(s Rect) Rect {
	if r.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return r
	}
	return Rect{
		Min: Point{math.Min(r.Min.X, s.Min.X), math.Min(r.Min.Y, s.Min.Y)},
		Max: Point{math.Max(r.Max.X, s.Max.X), math.Max(r.Max.Y, s.Max.Y)},
	}
}

// Extend returns the union of r with the point p.
func (r Rect) Extend(p Point) Rect { return r.Union(PointRect(p)) }
