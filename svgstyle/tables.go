package svgstyle

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Continuous is the name of the solid line type, which always exists.
const Continuous = "CONTINUOUS"

// dotLength is the length used for the dots (zero length dashes)
// of a line type, before scaling.
const dotLength = 0.1

var (
	// ErrMissingLineType is returned when a layer references a line type
	// absent from the drawing tables. It is fatal for the drawing.
	ErrMissingLineType = errors.New("missing line type")

	// ErrMissingLayer is returned when a style is asked for a layer
	// absent from the layer table.
	ErrMissingLayer = errors.New("missing layer")

	// ErrMissingTextStyle is returned when neither the requested text style
	// nor its fallbacks exist. It is fatal for the drawing.
	ErrMissingTextStyle = errors.New("missing text style")

	// ErrDuplicateOverride is returned when two overrides target the same name.
	ErrDuplicateOverride = errors.New("duplicate override")
)

// Layer is a named grouping of entities sharing style attributes.
type Layer struct {
	Name       string
	LineType   string
	Color      int     // ACI index, 0 means the layer is off
	Fill       int     // ACI index, 0 means no fill
	LineWeight float64 // 0 means the default weight
	Visible    bool
}

// Off reports whether the layer is not displayed. A negative color
// marks a layer switched off, keeping its color.
func (l Layer) Off() bool { return !l.Visible || l.Color <= 0 }

// TextStyle describes the font of text entities.
type TextStyle struct {
	Name   string
	Font   string // font file (arial.ttf) or family name
	Height float64
	// CustomCSS is a raw fragment appended to the style rule.
	CustomCSS string
}

// Family returns the font family name, derived from the font file if needed.
func (ts TextStyle) Family() string {
	return strings.TrimSuffix(filepath.Base(ts.Font), filepath.Ext(ts.Font))
}

// fontFile returns the font file to declare with @font-face,
// or an empty string for plain family names and CAD shape fonts.
func (ts TextStyle) fontFile() string {
	switch strings.ToLower(filepath.Ext(ts.Font)) {
	case ".ttf", ".otf", ".woff", ".woff2":
		return ts.Font
	}
	return ""
}

// LineType is a dash pattern: positive values are dashes, negative
// values are gaps and zeros are dots.
type LineType struct {
	Name    string
	Pattern []float64
	Scale   float64 // 0 means 1
}

// DashArray returns the SVG dash array of the line type, scaled by
// globalScale, or nil for solid lines.
func (lt LineType) DashArray(globalScale float64) []float64 {
	if len(lt.Pattern) == 0 {
		return nil
	}
	scale := lt.Scale
	if scale == 0 {
		scale = 1
	}
	if globalScale != 0 {
		scale *= globalScale
	}
	var out []float64
	if lt.Pattern[0] < 0 {
		// SVG dash arrays always start with a dash
		out = append(out, 0)
	}
	for _, v := range lt.Pattern {
		switch {
		case v == 0:
			v = dotLength
		case v < 0:
			v = -v
		}
		out = append(out, v*scale)
	}
	return out
}

// LayerOverride replaces some fields of the layer with the same name.
// nil fields are left unchanged.
type LayerOverride struct {
	Name       string
	Color      *int
	Fill       *int
	LineWeight *float64
}

func (o LayerOverride) apply(l *Layer) {
	if o.Color != nil {
		l.Color = *o.Color
	}
	if o.Fill != nil {
		l.Fill = *o.Fill
	}
	if o.LineWeight != nil {
		l.LineWeight = *o.LineWeight
	}
}

// Overrides stores the user settings applied on top of the
// drawing tables. Names are matched case-insensitively, and each
// name may only be registered once.
type Overrides struct {
	layers map[string]LayerOverride
	styles map[string]string
}

func NewOverrides() *Overrides {
	return &Overrides{layers: map[string]LayerOverride{}, styles: map[string]string{}}
}

// AddLayer registers a layer override.
func (o *Overrides) AddLayer(ov LayerOverride) error {
	key := strings.ToLower(ov.Name)
	if _, has := o.layers[key]; has {
		return fmt.Errorf("%w: layer %s", ErrDuplicateOverride, ov.Name)
	}
	o.layers[key] = ov
	return nil
}

// AddTextStyle registers a custom CSS fragment for a text style.
func (o *Overrides) AddTextStyle(name, css string) error {
	key := strings.ToLower(name)
	if _, has := o.styles[key]; has {
		return fmt.Errorf("%w: text style %s", ErrDuplicateOverride, name)
	}
	o.styles[key] = css
	return nil
}

// ClassName returns a CSS compatible identifier for name.
func ClassName(name string) string {
	var sb strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '-':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "_"
	}
	return sb.String()
}
