package svgpath

import "math"

// PatternUnits is the type for pattern units
type PatternUnits byte

// SVG pattern units constants
const (
	UserSpaceOnUse PatternUnits = iota
	ObjectBoundingBox
)

func (u PatternUnits) String() string {
	if u == ObjectBoundingBox {
		return "objectBoundingBox"
	}
	return "userSpaceOnUse"
}

const epsilonF = 1e-5

// Pattern describes a hatch pattern tile: a set of strokes
// repeated over a Width x Height cell, rotated by Angle (degrees).
// Strokes are given in tile coordinates.
type Pattern struct {
	Name          string
	Width, Height float64
	Angle         float64
	Units         PatternUnits
	Strokes       [][2]Point
}

func nearlyEqual(a, b float64) bool { return math.Abs(a-b) <= epsilonF }

// Equal reports whether p and q describe the same tile
// (all fields except Name).
func (p Pattern) Equal(q Pattern) bool {
	if !nearlyEqual(p.Width, q.Width) || !nearlyEqual(p.Height, q.Height) ||
		!nearlyEqual(p.Angle, q.Angle) || p.Units != q.Units || len(p.Strokes) != len(q.Strokes) {
		return false
	}
	for i, s := range p.Strokes {
		t := q.Strokes[i]
		if !s[0].Near(t[0], epsilonF) || !s[1].Near(t[1], epsilonF) {
			return false
		}
	}
	return true
}

// Encode writes the pattern definition. Tiles are not mapped
// through the encoder frame.
func (p Pattern) Encode(enc *Encoder) {
	enc.Printf(`<pattern id="%s" patternUnits="%s" width="%s" height="%s"`,
		Escape(p.Name), p.Units, enc.Num(p.Width), enc.Num(p.Height))
	if p.Angle != 0 {
		enc.Printf(` patternTransform="rotate(%s)"`, enc.Num(-p.Angle))
	}
	enc.Printf(">\n")
	for _, s := range p.Strokes {
		enc.Printf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="currentColor"/>`+"\n",
			enc.Num(s[0].X), enc.Num(p.Height-s[0].Y), enc.Num(s[1].X), enc.Num(p.Height-s[1].Y))
	}
	enc.Printf("</pattern>\n")
}
