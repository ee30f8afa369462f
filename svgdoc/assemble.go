// Package svgdoc assembles the SVG document of a drawing: viewport,
// style sheet, definitions and layer groups.
package svgdoc

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/benoitkugler/dxf2svg/svglayer"
	"github.com/benoitkugler/dxf2svg/svgpath"
	"github.com/benoitkugler/dxf2svg/svgstyle"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	// ErrMissingLayer is returned when a required layer is not defined by the drawing.
	ErrMissingLayer = errors.New("missing required layer")
	// ErrNoIdentifier is returned for drawings without name.
	ErrNoIdentifier = errors.New("drawing without identifier")
)

// PageID is the id of the container of every layer group.
const PageID = "page"

// Document is the content handed to the Assembler.
type Document struct {
	Name string
	// Extents is the drawing area; when empty the union of
	// the content bounds is used.
	Extents  svgpath.Rect
	Groups   []*svglayer.Group
	Symbols  []svgpath.Symbol
	Patterns []svgpath.Pattern
	// Attributes are added to the root element.
	Attributes map[string]string
}

// Output is the result of an assembly.
type Output struct {
	// SVG is nil when only the style sheet is requested.
	SVG []byte
	// CSS is the external style sheet, nil when not requested.
	CSS []byte
	// Viewport is the area covered by the document, in drawing coordinates.
	Viewport svgpath.Rect
	// Document is the assembled content, and Styles the resolver
	// used for it. Both are set by Converter.Convert.
	Document *Document
	Styles   *svgstyle.Resolver
}

// Assembler writes documents. It is configured once per drawing.
type Assembler struct {
	Precision int
	Mode      svgstyle.CSSMode
	// CSSName is the file name used to import the external style sheet.
	CSSName string
	// Script is the language switch script, empty for none.
	Script string
	Styles *svgstyle.Resolver
	Log    *zap.Logger

	textStyles map[string]svgstyle.TextStyle // resolved, by requested name
}

// viewport returns the document area: the extents if given,
// or the union of the groups content.
func viewport(doc *Document) svgpath.Rect {
	if !doc.Extents.IsEmpty() {
		return doc.Extents
	}
	box := svgpath.EmptyRect()
	for _, g := range doc.Groups {
		for _, e := range g.Elements() {
			if in, ok := e.(*svgpath.Insert); ok {
				if sym, ok := findSymbol(doc.Symbols, in.Block); ok {
					box = box.Union(in.Place(sym.Bounds()))
					continue
				}
			}
			box = box.Union(e.Bounds())
		}
	}
	if box.IsEmpty() {
		return svgpath.Rect{}
	}
	return box
}

func findSymbol(symbols []svgpath.Symbol, name string) (svgpath.Symbol, bool) {
	for _, s := range symbols {
		if s.Name == name {
			return s, true
		}
	}
	return svgpath.Symbol{}, false
}

// rootAttrs returns the attributes of the <svg> element, each with a leading space.
func (a *Assembler) rootAttrs(enc *svgpath.Encoder, box svgpath.Rect, extra map[string]string) []string {
	w, h := enc.Num(box.Width()), enc.Num(box.Height())
	attrs := []string{
		svgpath.Attr("width", w),
		svgpath.Attr("height", h),
		svgpath.Attr("viewBox", "0 0 "+w+" "+h),
	}
	if a.Script != "" {
		attrs = append(attrs, svgpath.Attr("onload", "init(evt)"))
	}
	keys := maps.Keys(extra)
	slices.Sort(keys)
	for _, k := range keys {
		attrs = append(attrs, svgpath.Attr(k, extra[k]))
	}
	return attrs
}

// styleBlock returns the content of the <style> element, if any.
func (a *Assembler) styleBlock(sheet string) string {
	switch {
	case a.Mode.Has(svgstyle.CSSDeclared):
		return sheet
	case a.Mode.Has(svgstyle.CSSExternal):
		return fmt.Sprintf("@import url(%s);", a.CSSName)
	}
	return ""
}

// attrFunc returns the attributes of the elements of a layer group.
func (a *Assembler) attrFunc(st svgstyle.LayerStyle) svglayer.AttrFunc {
	return func(e svgpath.Element) string {
		switch e := e.(type) {
		case *svgpath.Text:
			ts := a.textStyles[e.Style]
			if a.Mode.Has(svgstyle.CSSInline) {
				return svgpath.Attr("style", st.TextDeclarations()+ts.Declarations())
			}
			return svgpath.Attr("class", svgstyle.TextClass(ts))
		case *svgpath.Hatch:
			if e.Solid {
				return svgpath.Attr("fill", st.Stroke)
			}
		}
		return ""
	}
}

// resolveTextStyles resolves every text style before writing,
// so that a missing one aborts the document.
func (a *Assembler) resolveTextStyles(doc *Document) error {
	a.textStyles = map[string]svgstyle.TextStyle{}
	check := func(e svgpath.Element) error {
		t, ok := e.(*svgpath.Text)
		if !ok {
			return nil
		}
		if _, done := a.textStyles[t.Style]; done {
			return nil
		}
		ts, err := a.Styles.TextStyle(t.Style)
		if err != nil {
			return fmt.Errorf("text %s: %w", t.ID(), err)
		}
		a.textStyles[t.Style] = ts
		return nil
	}
	for _, g := range doc.Groups {
		for _, e := range g.Elements() {
			if err := check(e); err != nil {
				return err
			}
		}
	}
	for _, s := range doc.Symbols {
		for _, e := range s.Elements {
			if err := check(e); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Assembler) groupAttrs(layer string) (string, svgstyle.LayerStyle, error) {
	st, err := a.Styles.LayerStyle(layer, a.Mode)
	if err != nil {
		return "", st, err
	}
	attrs := svgpath.Attr("id", st.Class)
	if a.Mode.Has(svgstyle.CSSInline) {
		attrs += svgpath.Attr("style", st.Declarations())
	} else {
		attrs += svgpath.Attr("class", st.Class)
	}
	return attrs, st, nil
}

// symbolAttrs gives block content the class of its own layer.
func (a *Assembler) symbolAttrs(e svgpath.Element) string {
	layer := e.Layer()
	if layer == "" {
		return ""
	}
	st, err := a.Styles.LayerStyle(layer, a.Mode)
	if err != nil {
		a.Log.Warn("block element on invalid layer", zap.String("element", e.ID()),
			zap.String("layer", layer), zap.Error(err))
		return ""
	}
	if a.Mode.Has(svgstyle.CSSInline) {
		return svgpath.Attr("style", st.Declarations())
	}
	return svgpath.Attr("class", st.Class) + a.attrFunc(st)(e)
}

// Assemble writes the document. Patterns are merged before writing: see MergePatterns.
func (a *Assembler) Assemble(doc *Document) (*Output, error) {
	if a.Log == nil {
		a.Log = zap.NewNop()
	}
	if doc.Name == "" {
		return nil, ErrNoIdentifier
	}
	sheet, err := a.Styles.ResolveStyleSheet(a.Mode)
	if err != nil {
		return nil, err
	}
	out := &Output{Viewport: viewport(doc)}
	if a.Mode.Has(svgstyle.CSSExternal) || a.Mode.Has(svgstyle.CSSOnly) {
		out.CSS = []byte(sheet)
	}
	if a.Mode.Has(svgstyle.CSSOnly) {
		return out, nil
	}
	if err := a.resolveTextStyles(doc); err != nil {
		return nil, err
	}
	patterns := MergePatterns(doc.Patterns, hatches(doc), a.Log)

	var buf bytes.Buffer
	frame := svgpath.Frame{MinX: out.Viewport.Min.X, MaxY: out.Viewport.Max.Y}
	enc := svgpath.NewEncoder(&buf, frame, a.Precision)
	canvas := svg.New(&buf)

	canvas.Startraw(a.rootAttrs(enc, out.Viewport, doc.Attributes)...)
	canvas.Title(doc.Name)
	if block := a.styleBlock(sheet); block != "" {
		canvas.Style("text/css", block)
	}
	if a.Script != "" {
		canvas.Script("application/ecmascript", a.Script)
	}
	if len(doc.Symbols) != 0 || len(patterns) != 0 {
		canvas.Def()
		for _, s := range doc.Symbols {
			s.Encode(enc, a.symbolAttrs)
		}
		for _, p := range patterns {
			p.Encode(enc)
		}
		canvas.DefEnd()
	}
	canvas.Gid(PageID)
	for _, g := range doc.Groups {
		if g.Len() == 0 {
			continue
		}
		attrs, st, err := a.groupAttrs(g.Layer)
		if err != nil {
			return nil, err
		}
		if err := g.Encode(enc, attrs, a.attrFunc(st)); err != nil {
			return nil, err
		}
	}
	canvas.Gend()
	canvas.End()
	if err := enc.Err(); err != nil {
		return nil, err
	}
	out.SVG = buf.Bytes()
	return out, nil
}

// hatches returns the hatches of the groups and of the symbols.
func hatches(doc *Document) []*svgpath.Hatch {
	var out []*svgpath.Hatch
	collect := func(e svgpath.Element) {
		if h, ok := e.(*svgpath.Hatch); ok {
			out = append(out, h)
		}
	}
	for _, s := range doc.Symbols {
		for _, e := range s.Elements {
			collect(e)
		}
	}
	for _, g := range doc.Groups {
		for _, e := range g.Elements() {
			collect(e)
		}
	}
	return out
}

// MergePatterns returns the pattern definitions to write: shared
// patterns first, then hatch tiles. A pattern equal to an already
// kept one is dropped; a different pattern whose name is taken is
// renamed with a numeric suffix. The Pattern field of the hatches
// is updated to the kept names.
// Among shared patterns with the same name, only the first one can be
// referenced: a different one is dropped with a warning.
func MergePatterns(shared []svgpath.Pattern, hatches []*svgpath.Hatch, log *zap.Logger) []svgpath.Pattern {
	if log == nil {
		log = zap.NewNop()
	}
	var kept []svgpath.Pattern
	taken := map[string]bool{}
	keep := func(p svgpath.Pattern) string {
		for _, k := range kept {
			if k.Equal(p) {
				return k.Name
			}
		}
		name := p.Name
		for i := 1; taken[name]; i++ {
			name = fmt.Sprintf("%s_%d", p.Name, i)
		}
		p.Name = name
		taken[name] = true
		kept = append(kept, p)
		return name
	}

	renamed := map[string]string{}
	first := map[string]svgpath.Pattern{}
	for _, p := range shared {
		if prev, seen := first[p.Name]; seen {
			if !prev.Equal(p) {
				log.Warn("shared pattern dropped", zap.String("pattern", p.Name),
					zap.Float64("kept width", prev.Width), zap.Float64("dropped width", p.Width),
					zap.Int("kept strokes", len(prev.Strokes)), zap.Int("dropped strokes", len(p.Strokes)))
			}
			continue
		}
		first[p.Name] = p
		renamed[p.Name] = keep(p)
	}
	for _, h := range hatches {
		switch {
		case h.Tile != nil:
			h.Pattern = keep(*h.Tile)
		case h.Pattern != "":
			if name, ok := renamed[h.Pattern]; ok {
				h.Pattern = name
			}
		}
	}
	return kept
}

// LanguageScript returns the script switching between the english
// and french layer groups, identified by their class names.
func LanguageScript(english, french string) string {
	en, fr := svgstyle.ClassName(english), svgstyle.ClassName(french)
	var sb strings.Builder
	fmt.Fprintf(&sb, "var languages = {english: %q, french: %q};\n", en, fr)
	sb.WriteString(`function setLanguage(lang) {
  for (var key in languages) {
    var g = document.getElementById(languages[key]);
    if (g) g.setAttribute("display", key == lang ? "inline" : "none");
  }
}
function init(evt) {
  var lang = "english";
  try {
    if (window.parent && window.parent.language) lang = window.parent.language;
  } catch (e) {}
  setLanguage(lang);
}`)
	return sb.String()
}
