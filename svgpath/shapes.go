package svgpath

import (
	"math"
	"strings"
)

// This file implements the drawing primitives and
// their reduction to paths.

// Number of cubic beziers to approx half a circle
const cubicsPerHalfCircle = 4

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// appendArc approximates the circular arc of center c starting at
// angle theta1 and spanning delta (radians, positive for counter-clockwise)
// by a set of cubic bezier curves, by the method of
// L. Maisonobe, "Drawing an elliptical arc using polylines, quadratic
// or cubic Bezier curves", 2003
// https://www.spaceroots.org/documents/elllipse/elliptical-arc.pdf
// The method was simplified for circles.
// The arc is started with a MoveTo if start is true, a LineTo otherwise.
func (p *Path) appendArc(c Point, r, theta1, delta float64, start bool) {
	segs := int(math.Abs(delta)/(math.Pi/cubicsPerHalfCircle)) + 1
	dTheta := delta / float64(segs)
	tde := math.Tan(dTheta / 2)
	alpha := math.Sin(dTheta) * (math.Sqrt(4+3*tde*tde) - 1) / 3 // Math is fun!
	s1 := polar(c, r, theta1)
	ds1 := Point{-r * math.Sin(theta1), r * math.Cos(theta1)}
	if start {
		p.Start(s1)
	} else {
		p.Line(s1)
	}
	for i := 1; i <= segs; i++ {
		eta := theta1 + dTheta*float64(i)
		s2 := polar(c, r, eta)
		ds2 := Point{-r * math.Sin(eta), r * math.Cos(eta)}
		p.CubeBezier(s1.Add(ds1.Mul(alpha)), s2.Sub(ds2.Mul(alpha)), s2)
		s1, ds1 = s2, ds2
	}
}

// Line is a straight segment.
type Line struct {
	Base
	Start, End Point
}

func (*Line) Kind() Kind  { return KindLine }
func (*Line) Tag() string { return "line" }

func (l *Line) Ends() (Point, Point, bool) { return l.Start, l.End, true }

func (l *Line) Outline() Path {
	var p Path
	p.Start(l.Start)
	p.Line(l.End)
	return p
}

func (l *Line) Bounds() Rect { return l.Outline().Bounds() }

func (l *Line) Encode(enc *Encoder, attrs string, children func(*Encoder)) {
	enc.Printf(`<line%s x1="%s" y1="%s" x2="%s" y2="%s"`, attrs,
		enc.X(l.Start.X), enc.Y(l.Start.Y), enc.X(l.End.X), enc.Y(l.End.Y))
	enc.closeTag("line", children)
}

// Arc is a circular arc, drawn counter-clockwise from
// StartAngle to EndAngle (degrees).
type Arc struct {
	Base
	Center               Point
	Radius               float64
	StartAngle, EndAngle float64
}

func (*Arc) Kind() Kind  { return KindArc }
func (*Arc) Tag() string { return "path" }

// span returns the swept angle, in ]0, 360].
func (a *Arc) span() float64 {
	s := math.Mod(a.EndAngle-a.StartAngle, 360)
	if s <= 0 {
		s += 360
	}
	return s
}

func (a *Arc) Ends() (Point, Point, bool) {
	return polar(a.Center, a.Radius, radians(a.StartAngle)), polar(a.Center, a.Radius, radians(a.EndAngle)), true
}

func (a *Arc) Outline() Path {
	var p Path
	p.appendArc(a.Center, a.Radius, radians(a.StartAngle), radians(a.span()), true)
	return p
}

func (a *Arc) Bounds() Rect { return a.Outline().Bounds() }

func (a *Arc) path() Path {
	var p Path
	start, end, _ := a.Ends()
	p.Start(start)
	span := a.span()
	if span >= 360 {
		// a single SVG arc can't join a point to itself
		p.Arc(a.Radius, false, true, polar(a.Center, a.Radius, radians(a.StartAngle+180)))
		span -= 180
	}
	p.Arc(a.Radius, span > 180, true, end)
	return p
}

func (a *Arc) Encode(enc *Encoder, attrs string, children func(*Encoder)) {
	enc.Printf(`<path%s d="%s"`, attrs, a.path().Data(enc))
	enc.closeTag("path", children)
}

// Circle is a full circle.
type Circle struct {
	Base
	Center Point
	Radius float64
}

func (*Circle) Kind() Kind  { return KindCircle }
func (*Circle) Tag() string { return "circle" }

func (c *Circle) Outline() Path {
	var p Path
	p.appendArc(c.Center, c.Radius, 0, 2*math.Pi, true)
	p.Stop(true)
	return p
}

func (c *Circle) Bounds() Rect {
	r := Point{c.Radius, c.Radius}
	return Rect{Min: c.Center.Sub(r), Max: c.Center.Add(r)}
}

func (c *Circle) Encode(enc *Encoder, attrs string, children func(*Encoder)) {
	enc.Printf(`<circle%s cx="%s" cy="%s" r="%s"`, attrs, enc.X(c.Center.X), enc.Y(c.Center.Y), enc.Num(c.Radius))
	enc.closeTag("circle", children)
}

// Vertex is a polyline vertex. A non zero Bulge turns the segment
// starting at this vertex into an arc: the bulge is the tangent of
// a quarter of the included angle, positive for counter-clockwise.
type Vertex struct {
	P     Point
	Bulge float64
}

// Polyline is a chain of segments, possibly closed.
type Polyline struct {
	Base
	Vertices []Vertex
	Closed   bool
}

func (*Polyline) Kind() Kind { return KindPolyline }

func (pl *Polyline) hasBulge() bool {
	for i, v := range pl.Vertices {
		if v.Bulge != 0 && (pl.Closed || i < len(pl.Vertices)-1) {
			return true
		}
	}
	return false
}

func (pl *Polyline) Tag() string {
	switch {
	case pl.hasBulge():
		return "path"
	case pl.Closed:
		return "polygon"
	default:
		return "polyline"
	}
}

func (pl *Polyline) Ends() (Point, Point, bool) {
	if pl.Closed || len(pl.Vertices) < 2 {
		return Point{}, Point{}, false
	}
	return pl.Vertices[0].P, pl.Vertices[len(pl.Vertices)-1].P, true
}

// bulgeArc returns the geometry of the arc joining p0 to p1 with bulge b.
func bulgeArc(p0, p1 Point, b float64) (center Point, radius, theta1, delta float64) {
	d := p1.Sub(p0)
	chord := math.Hypot(d.X, d.Y)
	delta = 4 * math.Atan(b)
	radius = chord / (2 * math.Abs(math.Sin(delta/2)))
	// center is on the left normal of the chord for positive bulges
	normal := Point{-d.Y / chord, d.X / chord}
	offset := chord / 2 * (1 - b*b) / (2 * b)
	center = p0.Add(d.Mul(0.5)).Add(normal.Mul(offset))
	theta1 = math.Atan2(p0.Y-center.Y, p0.X-center.X)
	return center, radius, theta1, delta
}

// segments calls fn for every segment of the polyline.
func (pl *Polyline) segments(fn func(p0, p1 Point, bulge float64)) {
	n := len(pl.Vertices)
	for i := 0; i < n-1; i++ {
		fn(pl.Vertices[i].P, pl.Vertices[i+1].P, pl.Vertices[i].Bulge)
	}
	if pl.Closed && n > 2 {
		fn(pl.Vertices[n-1].P, pl.Vertices[0].P, pl.Vertices[n-1].Bulge)
	}
}

func (pl *Polyline) Outline() Path {
	var p Path
	if len(pl.Vertices) == 0 {
		return p
	}
	p.Start(pl.Vertices[0].P)
	pl.segments(func(p0, p1 Point, bulge float64) {
		if bulge == 0 || p0 == p1 {
			p.Line(p1)
			return
		}
		c, r, theta1, delta := bulgeArc(p0, p1, bulge)
		p.appendArc(c, r, theta1, delta, false)
	})
	p.Stop(pl.Closed)
	return p
}

func (pl *Polyline) Bounds() Rect { return pl.Outline().Bounds() }

func (pl *Polyline) path() Path {
	var p Path
	p.Start(pl.Vertices[0].P)
	pl.segments(func(p0, p1 Point, bulge float64) {
		if bulge == 0 || p0 == p1 {
			p.Line(p1)
			return
		}
		_, r, _, delta := bulgeArc(p0, p1, bulge)
		p.Arc(r, math.Abs(delta) > math.Pi, bulge > 0, p1)
	})
	p.Stop(pl.Closed)
	return p
}

func (pl *Polyline) Encode(enc *Encoder, attrs string, children func(*Encoder)) {
	if len(pl.Vertices) == 0 {
		return
	}
	tag := pl.Tag()
	if tag == "path" {
		enc.Printf(`<path%s d="%s"`, attrs, pl.path().Data(enc))
		enc.closeTag(tag, children)
		return
	}
	points := make([]string, len(pl.Vertices))
	for i, v := range pl.Vertices {
		points[i] = enc.X(v.P.X) + "," + enc.Y(v.P.Y)
	}
	enc.Printf(`<%s%s points="%s"`, tag, attrs, strings.Join(points, " "))
	enc.closeTag(tag, children)
}

// Text is a single line of text. Rotation is in degrees, counter-clockwise.
type Text struct {
	Base
	Insert   Point
	Height   float64
	Rotation float64
	Style    string // text style name
	Content  string
}

func (*Text) Kind() Kind  { return KindText }
func (*Text) Tag() string { return "text" }

func (t *Text) Outline() Path {
	var p Path
	p.Start(t.Insert)
	return p
}

// Bounds is an estimation, assuming an average glyph width of 0.6 em.
func (t *Text) Bounds() Rect {
	w := 0.6 * t.Height * float64(len([]rune(t.Content)))
	return Rect{Min: t.Insert, Max: t.Insert.Add(Point{w, t.Height})}
}

func (t *Text) Encode(enc *Encoder, attrs string, children func(*Encoder)) {
	x, y := enc.X(t.Insert.X), enc.Y(t.Insert.Y)
	enc.Printf(`<text%s x="%s" y="%s"`, attrs, x, y)
	if t.Height > 0 {
		enc.Printf(` font-size="%s"`, enc.Num(t.Height))
	}
	if t.Rotation != 0 {
		enc.Printf(` transform="rotate(%s %s %s)"`, enc.Num(-t.Rotation), x, y)
	}
	enc.Printf(">%s", Escape(t.Content))
	if children != nil {
		enc.Printf("\n")
		children(enc)
	}
	enc.Printf("</text>\n")
}

// Hatch fills a closed boundary, either with a pattern
// or with the layer fill color (Solid).
type Hatch struct {
	Base
	Boundary []Point
	// Pattern is the name of the pattern definition; it may be
	// renamed when definitions are merged.
	Pattern string
	// Tile is the pattern carried by the hatch itself, if any.
	Tile  *Pattern
	Solid bool
}

func (*Hatch) Kind() Kind  { return KindHatch }
func (*Hatch) Tag() string { return "path" }

func (h *Hatch) Outline() Path {
	var p Path
	for i, pt := range h.Boundary {
		if i == 0 {
			p.Start(pt)
		} else {
			p.Line(pt)
		}
	}
	p.Stop(len(h.Boundary) > 0)
	return p
}

func (h *Hatch) Bounds() Rect { return h.Outline().Bounds() }

func (h *Hatch) Encode(enc *Encoder, attrs string, children func(*Encoder)) {
	if len(h.Boundary) == 0 {
		return
	}
	enc.Printf(`<path%s d="%s"`, attrs, h.Outline().Data(enc))
	if !h.Solid && h.Pattern != "" {
		enc.Printf(` fill="url(#%s)"`, Escape(h.Pattern))
	}
	enc.closeTag("path", children)
}

// Insert places a block definition (see Symbol).
type Insert struct {
	Base
	Block          string
	At             Point
	ScaleX, ScaleY float64 // zero means 1
	Rotation       float64 // degrees, counter-clockwise
}

func (*Insert) Kind() Kind  { return KindInsert }
func (*Insert) Tag() string { return "use" }

func (in *Insert) Outline() Path {
	var p Path
	p.Start(in.At)
	return p
}

func (in *Insert) Bounds() Rect { return PointRect(in.At) }

func (in *Insert) scales() (float64, float64) {
	sx, sy := in.ScaleX, in.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return sx, sy
}

func (in *Insert) Encode(enc *Encoder, attrs string, children func(*Encoder)) {
	sx, sy := in.scales()
	transform := "translate(" + enc.X(in.At.X) + "," + enc.Y(in.At.Y) + ")"
	if in.Rotation != 0 {
		transform += " rotate(" + enc.Num(-in.Rotation) + ")"
	}
	if sx != 1 || sy != 1 {
		transform += " scale(" + enc.Num(sx) + "," + enc.Num(sy) + ")"
	}
	enc.Printf(`<use%s xlink:href="#%s" transform="%s"`, attrs, Escape(in.Block), transform)
	enc.closeTag("use", children)
}
