// Implements the geometric model of the drawing entities
// (lines, arcs, polylines, texts, hatches, block inserts)
// and their SVG serialization.
package svgpath

import "strings"

// Operation groups the different path commands
type Operation interface {
	isOperation()
}

type MoveTo Point

type LineTo Point

// CubicTo holds the two control points and the end point.
type CubicTo [3]Point

// ArcTo is a circular arc, as written in SVG path data.
// Sweep is expressed in drawing orientation (true for counter-clockwise).
type ArcTo struct {
	Radius       float64
	Large, Sweep bool
	To           Point
}

type Close struct{}

func (MoveTo) isOperation()  {}
func (LineTo) isOperation()  {}
func (CubicTo) isOperation() {}
func (ArcTo) isOperation()   {}
func (Close) isOperation()   {}

// Path describes a sequence of basic operations.
type Path []Operation

// Start starts a new curve at the given point.
func (p *Path) Start(a Point) {
	*p = append(*p, MoveTo(a))
}

// Line adds a linear segment to the current curve.
func (p *Path) Line(b Point) {
	*p = append(*p, LineTo(b))
}

// CubeBezier adds a cubic segment to the current curve.
func (p *Path) CubeBezier(b, c, d Point) {
	*p = append(*p, CubicTo{b, c, d})
}

// Arc adds a circular arc to the current curve.
func (p *Path) Arc(radius float64, large, ccw bool, to Point) {
	*p = append(*p, ArcTo{Radius: radius, Large: large, Sweep: ccw, To: to})
}

// Stop joins the ends of the path
func (p *Path) Stop(closeLoop bool) {
	if closeLoop {
		*p = append(*p, Close{})
	}
}

// Data returns the SVG path data, with coordinates mapped
// through the encoder frame.
func (p Path) Data(enc *Encoder) string {
	chunks := make([]string, len(p))
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			chunks[i] = "M" + enc.X(op.X) + "," + enc.Y(op.Y)
		case LineTo:
			chunks[i] = "L" + enc.X(op.X) + "," + enc.Y(op.Y)
		case CubicTo:
			chunks[i] = "C" + enc.X(op[0].X) + "," + enc.Y(op[0].Y) + " " +
				enc.X(op[1].X) + "," + enc.Y(op[1].Y) + " " +
				enc.X(op[2].X) + "," + enc.Y(op[2].Y)
		case ArcTo:
			// the Y axis is flipped: a counter-clockwise arc in the drawing
			// is drawn with a positive sweep on screen
			r := enc.Num(op.Radius)
			chunks[i] = "A" + r + "," + r + " 0 " + flag(op.Large) + "," + flag(op.Sweep) + " " +
				enc.X(op.To.X) + "," + enc.Y(op.To.Y)
		case Close:
			chunks[i] = "Z"
		}
	}
	return strings.Join(chunks, " ")
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
