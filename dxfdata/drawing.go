// Package dxfdata defines the content of a parsed drawing, as handed
// to the converter, and reads it from an XML interchange file.
package dxfdata

import (
	"github.com/benoitkugler/dxf2svg/svgpath"
	"github.com/benoitkugler/dxf2svg/svgstyle"
)

// Drawing is a parsed CAD drawing: style tables, definitions and
// the ordered entity stream.
type Drawing struct {
	// Name identifies the drawing (figure and sheet); it is used as
	// the document title and for the output file names.
	Name string
	// Extents is the drawing area; when empty, it is computed from the entities.
	Extents svgpath.Rect

	Layers     []svgstyle.Layer
	LineTypes  []svgstyle.LineType
	TextStyles []svgstyle.TextStyle

	Blocks   []svgpath.Symbol
	Patterns []svgpath.Pattern
	Entities []svgpath.Element

	// Attributes are written on the root element of the document.
	Attributes map[string]string
}

// NewDrawing returns an empty drawing.
func NewDrawing(name string) *Drawing {
	return &Drawing{Name: name, Extents: svgpath.EmptyRect(), Attributes: map[string]string{}}
}

// Block returns the block named name.
func (d *Drawing) Block(name string) (svgpath.Symbol, bool) {
	for _, b := range d.Blocks {
		if b.Name == name {
			return b, true
		}
	}
	return svgpath.Symbol{}, false
}
