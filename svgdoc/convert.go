package svgdoc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/benoitkugler/dxf2svg/dxfdata"
	"github.com/benoitkugler/dxf2svg/svgconf"
	"github.com/benoitkugler/dxf2svg/svglayer"
	"github.com/benoitkugler/dxf2svg/svgpath"
	"github.com/benoitkugler/dxf2svg/svgstyle"
	"go.uber.org/zap"
)

// Converter turns parsed drawings into documents, sharing one
// configuration. The configuration is only read.
type Converter struct {
	conf *svgconf.Config
	log  *zap.Logger
}

// NewConverter returns a converter using conf.
func NewConverter(conf *svgconf.Config, log *zap.Logger) *Converter {
	if log == nil {
		log = conf.Log
	}
	return &Converter{conf: conf, log: log}
}

// CSSName returns the external style sheet name of the drawing.
func (c *Converter) CSSName(drawing string) string {
	if c.conf.ExternalCSS != "" {
		return c.conf.ExternalCSS
	}
	return drawing + ".css"
}

// layerTable returns the layers of the drawing, adding the layers
// referenced by elements but absent from the table.
func layerTable(d *dxfdata.Drawing, log *zap.Logger) []svgstyle.Layer {
	layers := append([]svgstyle.Layer(nil), d.Layers...)
	known := map[string]bool{}
	for _, l := range layers {
		known[strings.ToLower(l.Name)] = true
	}
	add := func(e svgpath.Element) {
		name := e.Layer()
		if known[strings.ToLower(name)] {
			return
		}
		known[strings.ToLower(name)] = true
		log.Warn("layer not in table", zap.String("layer", name), zap.String("element", e.ID()))
		layers = append(layers, svgstyle.Layer{Name: name, LineType: svgstyle.Continuous, Color: 7, Visible: true})
	}
	for _, e := range d.Entities {
		add(e)
	}
	for _, b := range d.Blocks {
		for _, e := range b.Elements {
			add(e)
		}
	}
	return layers
}

// Resolver returns the style resolver of the drawing.
func (c *Converter) Resolver(d *dxfdata.Drawing, log *zap.Logger) *svgstyle.Resolver {
	r := c.conf.Resolver(log)
	r.SetLineTypes(d.LineTypes)
	r.SetLayers(layerTable(d, log))
	r.SetTextStyles(d.TextStyles)
	return r
}

// Groups splits the entities by layer, ordered as the layer table, then
// chains the collaborate layers and attaches the animations.
// Layers missing from the table come last.
func (c *Converter) Groups(d *dxfdata.Drawing) []*svglayer.Group {
	groups := svglayer.Split(d.Entities, strings.ToLower)
	rank := make(map[string]int, len(d.Layers))
	for i, l := range d.Layers {
		rank[strings.ToLower(l.Name)] = i + 1
	}
	order := func(g *svglayer.Group) int {
		if r, ok := rank[strings.ToLower(g.Layer)]; ok {
			return r
		}
		return len(d.Layers) + 1
	}
	sort.SliceStable(groups, func(i, j int) bool { return order(groups[i]) < order(groups[j]) })
	for i, g := range groups {
		name := svgconf.TargetName(g.Layer)
		if c.conf.Targets.Mode(name) == svglayer.Collaborate {
			g = svglayer.Chain(g, c.conf.Fuzz())
			groups[i] = g
		}
		svglayer.Apply(g, name, c.conf.Animations, c.conf.Targets)
	}
	return groups
}

// languageScript returns the language script of the drawing, or an empty string.
func (c *Converter) languageScript(r *svgstyle.Resolver) string {
	if !c.conf.Wrappers || c.conf.SuppressScript {
		return ""
	}
	en, hasEn := r.Layer(c.conf.EnglishLayer)
	fr, hasFr := r.Layer(c.conf.FrenchLayer)
	if !hasEn || !hasFr {
		return ""
	}
	return LanguageScript(en.Name, fr.Name)
}

// Convert assembles the document of d.
func (c *Converter) Convert(d *dxfdata.Drawing) (*Output, error) {
	if d.Name == "" {
		return nil, ErrNoIdentifier
	}
	log := c.log.With(zap.String("drawing", d.Name))

	r := c.Resolver(d, log)
	for _, name := range c.conf.Required {
		if _, ok := r.Layer(name); !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingLayer, name)
		}
	}

	asm := Assembler{
		Precision: c.conf.Precision(),
		Mode:      c.conf.Mode,
		CSSName:   c.CSSName(d.Name),
		Script:    c.languageScript(r),
		Styles:    r,
		Log:       log,
	}
	doc := &Document{
		Name:       d.Name,
		Extents:    d.Extents,
		Symbols:    d.Blocks,
		Patterns:   d.Patterns,
		Attributes: d.Attributes,
	}
	if !c.conf.Mode.Has(svgstyle.CSSOnly) {
		doc.Groups = c.Groups(d)
	}
	out, err := asm.Assemble(doc)
	if err != nil {
		return nil, err
	}
	out.Document, out.Styles = doc, r
	log.Debug("drawing converted", zap.Int("groups", len(doc.Groups)), zap.Int("bytes", len(out.SVG)))
	return out, nil
}
