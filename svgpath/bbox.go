package svgpath

import "math"

// compute the bouding box of outlines, needed for the document viewport

type line [2]Point

func (l line) criticalPoints() (tX, tY []float64) {
	return nil, nil
}

func (l line) evaluateCurve(t float64) (x, y float64) {
	return bezierLine(l[0].X, l[1].X, t), bezierLine(l[0].Y, l[1].Y, t)
}

func bezierLine(p0, p1, t float64) float64 {
	return (p1-p0)*t + p0
}

type cubicBezier [4]Point

func (cu cubicBezier) criticalPoints() (tX, tY []float64) {
	aX, bX, cX := cubicDerivative(cu[0].X, cu[1].X, cu[2].X, cu[3].X)
	aY, bY, cY := cubicDerivative(cu[0].Y, cu[1].Y, cu[2].Y, cu[3].Y)
	return quadraticRoots(aX, bX, cX), quadraticRoots(aY, bY, cY)
}

func (cu cubicBezier) evaluateCurve(t float64) (x, y float64) {
	return bezierSpline(cu[0].X, cu[1].X, cu[2].X, cu[3].X, t),
		bezierSpline(cu[0].Y, cu[1].Y, cu[2].Y, cu[3].Y, t)
}

// cubic polinomial
// x = At^3 + Bt^2 + Ct + D
// where A,B,C,D:
// A = p3 -3 * p2 + 3 * p1 - p0
// B = 3 * p2 - 6 * p1 +3 * p0
// C = 3 * p1 - 3 * p0
// D = p0
func bezierSpline(p0, p1, p2, p3, t float64) float64 {
	return (p3-3*p2+3*p1-p0)*t*t*t +
		(3*p2-6*p1+3*p0)*t*t +
		(3*p1-3*p0)*t +
		(p0)
}

// X' = (3*p3-9*p2+9*p1-3*p0)t^2 + (6*p2-12*p1+6*p0)t + (3*p1-3*p0)
// taken as aX^2 + bX + c
func cubicDerivative(p0, p1, p2, p3 float64) (a, b, c float64) {
	return 3*p3 - 9*p2 + 9*p1 - 3*p0, 6*p2 - 12*p1 + 6*p0, 3*p1 - 3*p0
}

func quadraticRoots(a, b, c float64) []float64 {
	if a == 0 {
		if b == 0 {
			return nil
		}
		return []float64{-c / b}
	}
	d := b*b - 4*a*c
	if d < 0 {
		return nil
	}
	if d == 0 {
		return []float64{-b / (2 * a)}
	}
	sd := math.Sqrt(d)
	return []float64{(-b + sd) / (2 * a), (-b - sd) / (2 * a)}
}

type bezier interface {
	// compute the t zeroing the derivative
	criticalPoints() (tX, tY []float64)
	// compute the point a time t
	evaluateCurve(t float64) (x, y float64)
}

func computeBoundingBox(curve bezier) Rect {
	resX, resY := curve.criticalPoints()
	bbox := EmptyRect()
	// begin and end point are always part of the box
	for _, t := range append(append(resX, 0, 1), resY...) {
		if !(0 <= t && t <= 1) {
			continue
		}
		x, y := curve.evaluateCurve(t)
		bbox = bbox.Extend(Point{x, y})
	}
	return bbox
}

// Bounds returns the extent of the outline. Arcs are expected to
// have been reduced to cubic curves, see Element.Outline.
func (p Path) Bounds() Rect {
	box := EmptyRect()
	var current Point
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			current = Point(op)
			box = box.Extend(current)
		case LineTo:
			box = box.Union(computeBoundingBox(line{current, Point(op)}))
			current = Point(op)
		case CubicTo:
			box = box.Union(computeBoundingBox(cubicBezier{current, op[0], op[1], op[2]}))
			current = op[2]
		case ArcTo:
			// never produced by outlines; the end point is a lower bound
			box = box.Extend(op.To)
			current = op.To
		}
	}
	return box
}
