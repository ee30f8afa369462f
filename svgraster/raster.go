// Implements a raster preview of converted drawings,
// by wrapping rasterx.
package svgraster

import (
	"errors"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/benoitkugler/dxf2svg/svgdoc"
	"github.com/benoitkugler/dxf2svg/svgpath"
	"github.com/benoitkugler/dxf2svg/svgstyle"
	"github.com/disintegration/imaging"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/colornames"
	"golang.org/x/image/math/fixed"
)

// previews are rendered larger, then reduced
const oversampling = 2

// nested blocks deeper than this are not drawn
const maxBlockDepth = 8

var errEmptyViewport = errors.New("empty viewport: nothing to render")

// Renderer strokes and fills outlines. The dasher and the filler
// may share their scanner, so colors are set before each drawing.
type Renderer struct {
	dasher *rasterx.Dasher
	filler *rasterx.Filler
}

// NewRenderer returns a renderer drawing through scanner.
func NewRenderer(width, height int, scanner rasterx.Scanner) *Renderer {
	return &Renderer{dasher: rasterx.NewDasher(width, height, scanner), filler: rasterx.NewFiller(width, height, scanner)}
}

func (rd *Renderer) Clear() {
	rd.dasher.Clear()
	rd.filler.Clear()
}

func (rd *Renderer) SetFillColor(c color.Color) {
	rd.filler.Scanner.SetColor(c)
}

func (rd *Renderer) SetStrokeColor(c color.Color) {
	rd.dasher.Scanner.SetColor(c)
}

var (
	joinToJoin = [...]rasterx.JoinMode{
		svgstyle.Miter: rasterx.Miter,
		svgstyle.Round: rasterx.Round,
		svgstyle.Bevel: rasterx.Bevel,
	}

	capToFunc = [...]rasterx.CapFunc{
		svgstyle.ButtCap:   rasterx.ButtCap,
		svgstyle.RoundCap:  rasterx.RoundCap,
		svgstyle.SquareCap: rasterx.SquareCap,
	}
)

// SetStrokeOptions sets the pen, width is in pixels.
// Dashes are not rendered.
func (rd *Renderer) SetStrokeOptions(width float64, capMode svgstyle.CapMode, join svgstyle.JoinMode) {
	rd.dasher.SetStroke(
		fixed.Int26_6(width*64), fixed.Int26_6(4*64), capToFunc[capMode],
		capToFunc[capMode], rasterx.FlatGap, joinToJoin[join], nil, 0,
	)
}

func (rd *Renderer) Start(a fixed.Point26_6) {
	rd.filler.Start(a)
	rd.dasher.Start(a)
}

func (rd *Renderer) Line(b fixed.Point26_6) {
	rd.filler.Line(b)
	rd.dasher.Line(b)
}

func (rd *Renderer) CubeBezier(b fixed.Point26_6, c fixed.Point26_6, d fixed.Point26_6) {
	rd.filler.CubeBezier(b, c, d)
	rd.dasher.CubeBezier(b, c, d)
}

func (rd *Renderer) Stop(closeLoop bool) {
	rd.filler.Stop(closeLoop)
	rd.dasher.Stop(closeLoop)
}

func (rd *Renderer) Fill() {
	rd.filler.Draw()
}

func (rd *Renderer) Stroke() {
	rd.dasher.Draw()
}

// parseColor accepts #RRGGBB colors and SVG color names.
// ok is false for "none".
func parseColor(s string) (c color.RGBA, ok bool) {
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return c, false
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
	}
	c, ok = colornames.Map[strings.ToLower(s)]
	return c, ok
}

// translucent returns c with a reduced opacity, premultiplied.
func translucent(c color.RGBA) color.RGBA {
	const a = 0x50
	return color.RGBA{R: uint8(uint16(c.R) * a / 0xff), G: uint8(uint16(c.G) * a / 0xff), B: uint8(uint16(c.B) * a / 0xff), A: a}
}

// drawer maps drawing coordinates to pixels.
type drawer struct {
	rd      *Renderer
	frame   svgpath.Frame
	scale   float64
	symbols []svgpath.Symbol
	// local maps block coordinates to drawing coordinates, nil outside blocks
	local func(svgpath.Point) svgpath.Point
	depth int
}

func (d drawer) toFixed(p svgpath.Point) fixed.Point26_6 {
	if d.local != nil {
		p = d.local(p)
	}
	return rasterx.ToFixedP((p.X-d.frame.MinX)*d.scale, (d.frame.MaxY-p.Y)*d.scale)
}

func (d drawer) path(p svgpath.Path) {
	open := false
	for _, op := range p {
		switch op := op.(type) {
		case svgpath.MoveTo:
			if open {
				d.rd.Stop(false)
			}
			d.rd.Start(d.toFixed(svgpath.Point(op)))
			open = true
		case svgpath.LineTo:
			d.rd.Line(d.toFixed(svgpath.Point(op)))
		case svgpath.CubicTo:
			d.rd.CubeBezier(d.toFixed(op[0]), d.toFixed(op[1]), d.toFixed(op[2]))
		case svgpath.ArcTo:
			// outlines never use arcs
			d.rd.Line(d.toFixed(op.To))
		case svgpath.Close:
			d.rd.Stop(true)
			open = false
		}
	}
	if open {
		d.rd.Stop(false)
	}
}

func (d drawer) findSymbol(name string) (svgpath.Symbol, bool) {
	for _, s := range d.symbols {
		if s.Name == name {
			return s, true
		}
	}
	return svgpath.Symbol{}, false
}

// element draws e with the current pen; ink is the layer color.
// Texts are not drawn.
func (d drawer) element(e svgpath.Element, ink color.RGBA) {
	if e.Suppressed() {
		return
	}
	switch e := e.(type) {
	case *svgpath.Text:
	case *svgpath.Insert:
		sym, ok := d.findSymbol(e.Block)
		if !ok || d.depth >= maxBlockDepth {
			return
		}
		inner := d
		inner.depth++
		inner.local = func(p svgpath.Point) svgpath.Point {
			p = e.Map(p.Sub(sym.Origin))
			if d.local != nil {
				p = d.local(p)
			}
			return p
		}
		for _, child := range sym.Elements {
			inner.element(child, ink)
		}
	case *svgpath.Hatch:
		fill := ink
		if !e.Solid {
			fill = translucent(ink)
		}
		d.rd.Clear()
		d.rd.SetFillColor(fill)
		d.path(e.Outline())
		d.rd.Fill()
	default:
		d.rd.Clear()
		d.rd.SetStrokeColor(ink)
		d.path(e.Outline())
		d.rd.Stroke()
	}
}

// Render rasterizes the converted drawing so that its largest
// dimension is size pixels, on a white background.
func Render(out *svgdoc.Output, size int) (*image.NRGBA, error) {
	box := out.Viewport
	if size <= 0 || box.Width() <= 0 || box.Height() <= 0 {
		return nil, errEmptyViewport
	}
	scale := float64(size) / math.Max(box.Width(), box.Height())
	w := int(math.Max(1, math.Ceil(box.Width()*scale)))
	h := int(math.Max(1, math.Ceil(box.Height()*scale)))

	img := imaging.New(w, h, color.White)
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	d := drawer{
		rd:    NewRenderer(w, h, scanner),
		frame: svgpath.Frame{MinX: box.Min.X, MaxY: box.Max.Y},
		scale: scale,
	}
	if out.Document == nil || out.Styles == nil {
		return img, nil
	}
	d.symbols = out.Document.Symbols
	for _, g := range out.Document.Groups {
		st, err := out.Styles.LayerStyle(g.Layer, 0)
		if err != nil {
			return nil, err
		}
		ink, ok := parseColor(st.Stroke)
		if st.Hidden || !ok {
			continue
		}
		d.rd.SetStrokeOptions(math.Max(1, st.Width*scale), st.Cap, st.Join)
		for _, e := range g.Elements() {
			d.element(e, ink)
		}
	}
	return img, nil
}

// Preview returns a thumbnail of the drawing, fitting in a size x size square.
func Preview(out *svgdoc.Output, size int) (*image.NRGBA, error) {
	img, err := Render(out, size*oversampling)
	if err != nil {
		return nil, err
	}
	return imaging.Fit(img, size, size, imaging.Lanczos), nil
}

// Save writes the image; the format is deduced from the file extension.
func Save(img image.Image, file string) error {
	return imaging.Save(img, file)
}
