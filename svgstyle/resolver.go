package svgstyle

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// DefaultLanguageLayer is the layer synthesized when a drawing
// does not define it.
const DefaultLanguageLayer = "english"

// text style names tried, in order, when a text style is missing
var textStyleFallbacks = [...]string{"default", "standard"}

// builtinTextStyle is returned along with ErrMissingTextStyle.
var builtinTextStyle = TextStyle{Name: "standard", Font: "sans-serif"}

// Options are the drawing independent settings of a Resolver.
type Options struct {
	// DefaultLayer is synthesized when absent from the drawing.
	// An empty string means DefaultLanguageLayer.
	DefaultLayer string
	// LineTypeScale multiplies every dash pattern. 0 means 1.
	LineTypeScale float64
	Cap           CapMode
	Join          JoinMode
}

// Resolver turns the tables of one drawing into styles.
// It is not safe for concurrent use.
type Resolver struct {
	pal  *Palette
	ov   *Overrides
	opts Options
	log  *zap.Logger

	layers     map[string]Layer // keys are lower case
	lineTypes  map[string]LineType
	textStyles map[string]TextStyle
	pens       [paletteSize]Pen
}

// NewResolver returns a resolver with empty tables.
// pal and ov may be shared between drawings; they are not modified.
func NewResolver(pal *Palette, ov *Overrides, opts Options, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	if pal == nil {
		pal = NewPalette(log)
	}
	if ov == nil {
		ov = NewOverrides()
	}
	if opts.DefaultLayer == "" {
		opts.DefaultLayer = DefaultLanguageLayer
	}
	r := &Resolver{pal: pal, ov: ov, opts: opts, log: log, pens: HousePens()}
	r.SetLayers(nil)
	r.SetLineTypes(nil)
	r.SetTextStyles(nil)
	return r
}

// Palette returns the palette used to resolve colors.
func (r *Resolver) Palette() *Palette { return r.pal }

// SetLineTypes replaces the line type table. The continuous line type
// is always defined.
func (r *Resolver) SetLineTypes(lts []LineType) {
	r.lineTypes = map[string]LineType{strings.ToLower(Continuous): {Name: Continuous}}
	for _, lt := range lts {
		r.lineTypes[strings.ToLower(lt.Name)] = lt
	}
}

// SetLayers replaces the layer table, adding the default language layer
// if needed, then applying the layer overrides to every layer.
func (r *Resolver) SetLayers(layers []Layer) {
	r.layers = make(map[string]Layer, len(layers)+1)
	for _, l := range layers {
		r.layers[strings.ToLower(l.Name)] = l
	}
	def := strings.ToLower(r.opts.DefaultLayer)
	if _, has := r.layers[def]; !has {
		r.layers[def] = Layer{Name: r.opts.DefaultLayer, LineType: Continuous, Color: 7, Visible: true}
	}
	for key, l := range r.layers {
		ov, ok := r.ov.layers[key]
		if !ok {
			continue
		}
		ov.apply(&l)
		r.layers[key] = l
		r.log.Debug("layer overridden", zap.String("layer", l.Name))
	}
}

// SetTextStyles replaces the text style table, merging the custom CSS
// of the overrides.
func (r *Resolver) SetTextStyles(styles []TextStyle) {
	r.textStyles = make(map[string]TextStyle, len(styles))
	for _, ts := range styles {
		key := strings.ToLower(ts.Name)
		if css, ok := r.ov.styles[key]; ok {
			ts.CustomCSS += css
		}
		r.textStyles[key] = ts
	}
}

// Layer returns the layer named name, matched case-insensitively.
func (r *Resolver) Layer(name string) (Layer, bool) {
	l, ok := r.layers[strings.ToLower(name)]
	return l, ok
}

// Layers returns the layers sorted by name.
func (r *Resolver) Layers() []Layer {
	keys := make([]string, 0, len(r.layers))
	for k := range r.layers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Layer, len(keys))
	for i, k := range keys {
		out[i] = r.layers[k]
	}
	return out
}

// LayerStyle is the resolved style of a layer.
type LayerStyle struct {
	Class  string
	Stroke string
	Fill   string
	Width  float64 // 0 for the default width
	Dash   []float64
	Cap    CapMode
	Join   JoinMode
	Hidden bool
}

// Declarations returns the CSS declarations of the style, usable
// either in a rule or in a style attribute.
func (s LayerStyle) Declarations() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "stroke:%s;fill:%s;", s.Stroke, s.Fill)
	if s.Width > 0 {
		fmt.Fprintf(&sb, "stroke-width:%s;", fmtNum(s.Width))
	}
	if len(s.Dash) != 0 {
		dash := make([]string, len(s.Dash))
		for i, d := range s.Dash {
			dash[i] = fmtNum(d)
		}
		fmt.Fprintf(&sb, "stroke-dasharray:%s;", strings.Join(dash, ","))
	}
	if s.Cap != ButtCap {
		fmt.Fprintf(&sb, "stroke-linecap:%s;", s.Cap)
	}
	if s.Join != Miter {
		fmt.Fprintf(&sb, "stroke-linejoin:%s;", s.Join)
	}
	if s.Hidden {
		sb.WriteString("display:none;")
	}
	return sb.String()
}

// TextDeclarations returns the declarations for the texts of the layer,
// which are filled with the stroke color.
func (s LayerStyle) TextDeclarations() string {
	return fmt.Sprintf("fill:%s;stroke:none;", s.Stroke)
}

// LayerStyle resolves the style of the layer named name.
func (r *Resolver) LayerStyle(name string, mode CSSMode) (LayerStyle, error) {
	l, ok := r.Layer(name)
	if !ok {
		return LayerStyle{}, fmt.Errorf("%w: %s", ErrMissingLayer, name)
	}
	ltName := l.LineType
	if ltName == "" {
		ltName = Continuous
	}
	lt, ok := r.lineTypes[strings.ToLower(ltName)]
	if !ok {
		return LayerStyle{}, fmt.Errorf("%w: %s (layer %s)", ErrMissingLineType, ltName, l.Name)
	}
	out := LayerStyle{
		Class:  ClassName(l.Name),
		Fill:   "none",
		Width:  l.LineWeight,
		Dash:   lt.DashArray(r.opts.LineTypeScale),
		Cap:    r.opts.Cap,
		Join:   r.opts.Join,
		Hidden: l.Off(),
	}
	if mode.Has(CSSHousePens) {
		pen := narrowPen
		if l.Color >= 0 && l.Color < paletteSize {
			pen = r.pens[l.Color]
		}
		out.Stroke, out.Fill = pen.Color, pen.Fill
		if out.Width == 0 {
			out.Width = pen.Width
		}
		out.Cap, out.Join = RoundCap, Round
		return out, nil
	}
	if l.Color == 0 {
		// layer off: the color is never displayed
		out.Stroke = "none"
	} else {
		out.Stroke = r.pal.Color(abs(l.Color))
	}
	if l.Fill > 0 {
		out.Fill = r.pal.Color(l.Fill)
	}
	return out, nil
}

// TextStyle returns the text style named name, or the first of the
// fallback styles present. When none is found, a built-in style is
// returned along with ErrMissingTextStyle.
func (r *Resolver) TextStyle(name string) (TextStyle, error) {
	if ts, ok := r.textStyles[strings.ToLower(name)]; ok {
		return ts, nil
	}
	for _, fb := range textStyleFallbacks {
		if ts, ok := r.textStyles[fb]; ok {
			r.log.Warn("text style replaced", zap.String("style", name), zap.String("fallback", ts.Name))
			return ts, nil
		}
	}
	return builtinTextStyle, fmt.Errorf("%w: %s", ErrMissingTextStyle, name)
}

// TextClass returns the CSS class of the text style.
func TextClass(ts TextStyle) string { return "ts-" + ClassName(ts.Name) }

// Declarations returns the font declarations of the text style.
func (ts TextStyle) Declarations() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "font-family:'%s';", ts.Family())
	if ts.Height > 0 {
		fmt.Fprintf(&sb, "font-size:%s;", fmtNum(ts.Height))
	}
	sb.WriteString(ts.CustomCSS)
	return sb.String()
}

func (r *Resolver) sortedTextStyles() []TextStyle {
	keys := make([]string, 0, len(r.textStyles))
	for k := range r.textStyles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]TextStyle, len(keys))
	for i, k := range keys {
		out[i] = r.textStyles[k]
	}
	return out
}

// ResolveStyleSheet returns the style sheet of the drawing:
// font faces, then layer rules, then text style rules.
// An empty string is returned when mode requires no sheet.
func (r *Resolver) ResolveStyleSheet(mode CSSMode) (string, error) {
	if !mode.Sheet() {
		return "", nil
	}
	var sb strings.Builder

	styles := r.sortedTextStyles()
	families := map[string]bool{}
	for _, ts := range styles {
		file := ts.fontFile()
		if file == "" {
			continue
		}
		family := strings.ToLower(ts.Family())
		if families[family] {
			continue
		}
		families[family] = true
		fmt.Fprintf(&sb, "@font-face{font-family:'%s';src:url('%s');}\n", ts.Family(), file)
	}

	for _, l := range r.Layers() {
		st, err := r.LayerStyle(l.Name, mode)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, ".%s{%s}\n", st.Class, st.Declarations())
		fmt.Fprintf(&sb, ".%s text{%s}\n", st.Class, st.TextDeclarations())
	}

	for _, ts := range styles {
		fmt.Fprintf(&sb, ".%s{%s}\n", TextClass(ts), ts.Declarations())
	}
	return sb.String(), nil
}

// InlineStyle returns the declarations to put in the style attribute
// of the group of the layer named name.
func (r *Resolver) InlineStyle(name string, mode CSSMode) (string, error) {
	st, err := r.LayerStyle(name, mode)
	if err != nil {
		return "", err
	}
	return st.Declarations(), nil
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
