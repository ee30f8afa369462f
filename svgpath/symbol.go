package svgpath

import "math"

// Symbol is a reusable block definition, referenced by Insert elements.
// Elements are expressed in drawing coordinates, relative to Origin.
type Symbol struct {
	Name     string
	Origin   Point
	Elements []Element
}

// Bounds returns the extent of the block, relative to its origin.
func (s Symbol) Bounds() Rect {
	box := EmptyRect()
	for _, e := range s.Elements {
		box = box.Union(e.Bounds())
	}
	if box.IsEmpty() {
		return box
	}
	return Rect{Min: box.Min.Sub(s.Origin), Max: box.Max.Sub(s.Origin)}
}

// Encode writes the symbol definition. attrs returns the attributes
// written for each element (typically its class).
func (s Symbol) Encode(enc *Encoder, attrs func(Element) string) {
	enc.Printf(`<symbol id="%s" overflow="visible">`+"\n", Escape(s.Name))
	local := enc.WithFrame(Frame{MinX: s.Origin.X, MaxY: s.Origin.Y})
	for _, e := range s.Elements {
		if e.Suppressed() {
			continue
		}
		e.Encode(local, attrs(e), nil)
	}
	if err := local.Err(); err != nil && enc.err == nil {
		enc.err = err
	}
	enc.Printf("</symbol>\n")
}

// Map maps a point expressed relative to the block origin
// to drawing coordinates, following the insert scale and rotation.
func (in *Insert) Map(p Point) Point {
	sx, sy := in.scales()
	sin, cos := math.Sincos(radians(in.Rotation))
	x, y := p.X*sx, p.Y*sy
	return Point{in.At.X + x*cos - y*sin, in.At.Y + x*sin + y*cos}
}

// Place maps a box expressed relative to the block origin
// to drawing coordinates.
func (in *Insert) Place(local Rect) Rect {
	if local.IsEmpty() {
		return PointRect(in.At)
	}
	box := EmptyRect()
	for _, c := range [4]Point{local.Min, {local.Max.X, local.Min.Y}, local.Max, {local.Min.X, local.Max.Y}} {
		box = box.Extend(in.Map(c))
	}
	return box
}
