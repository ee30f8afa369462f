package dxfdata

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/benoitkugler/dxf2svg/svgpath"
	"github.com/benoitkugler/dxf2svg/svgstyle"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// ErrorMode is the behavior on unknown elements.
type ErrorMode uint8

const (
	// IgnoreErrorMode skips unknown elements silently.
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode skips unknown elements with a warning.
	WarnErrorMode
	// StrictErrorMode fails on unknown elements.
	StrictErrorMode
)

// Unknown handles an element without reader according to mode.
func (mode ErrorMode) Unknown(log *zap.Logger, tag string) error {
	switch mode {
	case StrictErrorMode:
		return fmt.Errorf("cannot process element <%s>", tag)
	case WarnErrorMode:
		log.Warn("element ignored", zap.String("element", tag))
	}
	return nil
}

var errEmptyFile = errors.New("invalid drawing file: no element")

// attrReader reads typed attributes, keeping the first error.
type attrReader struct {
	tag  string
	vals map[string]string
	err  error
}

func newAttrReader(se xml.StartElement) *attrReader {
	r := &attrReader{tag: se.Name.Local, vals: make(map[string]string, len(se.Attr))}
	for _, a := range se.Attr {
		r.vals[a.Name.Local] = a.Value
	}
	return r
}

func (r *attrReader) str(name string) string { return r.vals[name] }

// float returns 0 for missing attributes.
func (r *attrReader) float(name string) float64 {
	v, ok := r.vals[name]
	if !ok || r.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		r.err = fmt.Errorf("<%s> attribute %s: %w", r.tag, name, err)
	}
	return f
}

func (r *attrReader) integer(name string) int {
	v, ok := r.vals[name]
	if !ok || r.err != nil {
		return 0
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		r.err = fmt.Errorf("<%s> attribute %s: %w", r.tag, name, err)
	}
	return i
}

func (r *attrReader) boolean(name string, def bool) bool {
	v, ok := r.vals[name]
	if !ok || r.err != nil {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		r.err = fmt.Errorf("<%s> attribute %s: %w", r.tag, name, err)
	}
	return b
}

func (r *attrReader) point(xName, yName string) svgpath.Point {
	return svgpath.Point{X: r.float(xName), Y: r.float(yName)}
}

func (r *attrReader) base() svgpath.Base {
	return svgpath.Base{Handle: r.str("handle"), LayerName: r.str("layer"), Hidden: r.boolean("hidden", false)}
}

// splitOnCommaOrSpace returns a list of strings after splitting the input on comma and space delimiters
func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s,
		func(r rune) bool {
			return r == ',' || r == ' '
		})
}

// drawingCursor is used while reading drawing files
type drawingCursor struct {
	drawing   *Drawing
	errorMode ErrorMode
	log       *zap.Logger

	block   *svgpath.Symbol
	pattern *svgpath.Pattern
	poly    *svgpath.Polyline
	hatch   *svgpath.Hatch
	text    *svgpath.Text
}

// add appends an entity to the block being read, or to the drawing.
func (c *drawingCursor) add(e svgpath.Element) {
	if c.block != nil {
		c.block.Elements = append(c.block.Elements, e)
	} else {
		c.drawing.Entities = append(c.drawing.Entities, e)
	}
}

type readFunc func(c *drawingCursor, r *attrReader) error

var readFuncs = map[string]readFunc{
	"drawing":   drawingF,
	"layer":     layerF,
	"linetype":  lineTypeF,
	"textstyle": textStyleF,
	"attribute": attributeF,
	"pattern":   patternF,
	"stroke":    strokeF,
	"block":     blockF,
	"line":      lineF,
	"arc":       arcF,
	"circle":    circleF,
	"polyline":  polylineF,
	"vertex":    vertexF,
	"text":      textF,
	"hatch":     hatchF,
	"insert":    insertF,
}

func drawingF(c *drawingCursor, r *attrReader) error {
	c.drawing.Name = r.str("name")
	if _, has := r.vals["minx"]; has {
		c.drawing.Extents = svgpath.Rect{Min: r.point("minx", "miny"), Max: r.point("maxx", "maxy")}
	}
	return nil
}

func layerF(c *drawingCursor, r *attrReader) error {
	c.drawing.Layers = append(c.drawing.Layers, svgstyle.Layer{
		Name:       r.str("name"),
		LineType:   r.str("linetype"),
		Color:      r.integer("color"),
		Fill:       r.integer("fill"),
		LineWeight: r.float("weight"),
		Visible:    r.boolean("visible", true),
	})
	return nil
}

func lineTypeF(c *drawingCursor, r *attrReader) error {
	lt := svgstyle.LineType{Name: r.str("name"), Scale: r.float("scale")}
	for _, s := range splitOnCommaOrSpace(r.str("pattern")) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("line type %s: %w", lt.Name, err)
		}
		lt.Pattern = append(lt.Pattern, f)
	}
	c.drawing.LineTypes = append(c.drawing.LineTypes, lt)
	return nil
}

func textStyleF(c *drawingCursor, r *attrReader) error {
	c.drawing.TextStyles = append(c.drawing.TextStyles, svgstyle.TextStyle{
		Name:   r.str("name"),
		Font:   r.str("font"),
		Height: r.float("height"),
	})
	return nil
}

func attributeF(c *drawingCursor, r *attrReader) error {
	name := r.str("name")
	if name == "" {
		return errors.New("<attribute> without name")
	}
	c.drawing.Attributes[name] = r.str("value")
	return nil
}

// patternF starts a shared pattern, or the tile of the hatch being read.
func patternF(c *drawingCursor, r *attrReader) error {
	c.pattern = &svgpath.Pattern{
		Name:   r.str("name"),
		Width:  r.float("width"),
		Height: r.float("height"),
		Angle:  r.float("angle"),
	}
	if r.str("units") == svgpath.ObjectBoundingBox.String() {
		c.pattern.Units = svgpath.ObjectBoundingBox
	}
	return nil
}

func strokeF(c *drawingCursor, r *attrReader) error {
	if c.pattern == nil {
		return errors.New("<stroke> outside of <pattern>")
	}
	c.pattern.Strokes = append(c.pattern.Strokes, [2]svgpath.Point{r.point("x1", "y1"), r.point("x2", "y2")})
	return nil
}

func blockF(c *drawingCursor, r *attrReader) error {
	if c.block != nil {
		return errors.New("nested <block>")
	}
	c.block = &svgpath.Symbol{Name: r.str("name"), Origin: r.point("x", "y")}
	return nil
}

func lineF(c *drawingCursor, r *attrReader) error {
	c.add(&svgpath.Line{Base: r.base(), Start: r.point("x1", "y1"), End: r.point("x2", "y2")})
	return nil
}

func arcF(c *drawingCursor, r *attrReader) error {
	c.add(&svgpath.Arc{
		Base:       r.base(),
		Center:     r.point("cx", "cy"),
		Radius:     r.float("r"),
		StartAngle: r.float("start"),
		EndAngle:   r.float("end"),
	})
	return nil
}

func circleF(c *drawingCursor, r *attrReader) error {
	c.add(&svgpath.Circle{Base: r.base(), Center: r.point("cx", "cy"), Radius: r.float("r")})
	return nil
}

func polylineF(c *drawingCursor, r *attrReader) error {
	c.poly = &svgpath.Polyline{Base: r.base(), Closed: r.boolean("closed", false)}
	c.add(c.poly)
	return nil
}

func vertexF(c *drawingCursor, r *attrReader) error {
	switch {
	case c.poly != nil:
		c.poly.Vertices = append(c.poly.Vertices, svgpath.Vertex{P: r.point("x", "y"), Bulge: r.float("bulge")})
	case c.hatch != nil:
		c.hatch.Boundary = append(c.hatch.Boundary, r.point("x", "y"))
	default:
		return errors.New("<vertex> outside of <polyline> or <hatch>")
	}
	return nil
}

func textF(c *drawingCursor, r *attrReader) error {
	c.text = &svgpath.Text{
		Base:     r.base(),
		Insert:   r.point("x", "y"),
		Height:   r.float("height"),
		Rotation: r.float("rotation"),
		Style:    r.str("style"),
	}
	c.add(c.text)
	return nil
}

func hatchF(c *drawingCursor, r *attrReader) error {
	c.hatch = &svgpath.Hatch{Base: r.base(), Pattern: r.str("pattern"), Solid: r.boolean("solid", false)}
	c.add(c.hatch)
	return nil
}

func insertF(c *drawingCursor, r *attrReader) error {
	c.add(&svgpath.Insert{
		Base:     r.base(),
		Block:    r.str("block"),
		At:       r.point("x", "y"),
		ScaleX:   r.float("sx"),
		ScaleY:   r.float("sy"),
		Rotation: r.float("rotation"),
	})
	return nil
}

func (c *drawingCursor) readStartElement(se xml.StartElement) error {
	df, ok := readFuncs[se.Name.Local]
	if !ok {
		return c.errorMode.Unknown(c.log, se.Name.Local)
	}
	r := newAttrReader(se)
	if err := df(c, r); err != nil {
		return err
	}
	return r.err
}

func (c *drawingCursor) readEndElement(se xml.EndElement) {
	switch se.Name.Local {
	case "pattern":
		if c.pattern == nil {
			break
		}
		if c.hatch != nil {
			c.hatch.Tile = c.pattern
			c.hatch.Pattern = c.pattern.Name
		} else {
			c.drawing.Patterns = append(c.drawing.Patterns, *c.pattern)
		}
		c.pattern = nil
	case "block":
		if c.block != nil {
			c.drawing.Blocks = append(c.drawing.Blocks, *c.block)
			c.block = nil
		}
	case "polyline":
		c.poly = nil
	case "hatch":
		c.hatch = nil
	case "text":
		if c.text != nil {
			c.text.Content = strings.TrimSpace(c.text.Content)
			c.text = nil
		}
	}
}

// ReadDrawingStream reads a drawing from its XML interchange form.
func ReadDrawingStream(stream io.Reader, errMode ErrorMode, log *zap.Logger) (*Drawing, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cursor := &drawingCursor{drawing: NewDrawing(""), errorMode: errMode, log: log}
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	seenTag := false
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				if !seenTag {
					return nil, errEmptyFile
				}
				break
			}
			return cursor.drawing, err
		}
		switch se := t.(type) {
		case xml.StartElement:
			seenTag = true
			if err = cursor.readStartElement(se); err != nil {
				return cursor.drawing, err
			}
		case xml.EndElement:
			cursor.readEndElement(se)
		case xml.CharData:
			if cursor.text != nil {
				cursor.text.Content += string(se)
			}
		}
	}
	return cursor.drawing, nil
}

// ReadDrawing reads the drawing file.
func ReadDrawing(file string, errMode ErrorMode, log *zap.Logger) (*Drawing, error) {
	fin, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer fin.Close()
	return ReadDrawingStream(fin, errMode, log)
}
