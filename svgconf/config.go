// Package svgconf holds the settings of a conversion batch.
//
// A Config is built once, before the batch starts, through its setter
// methods or ReadConfig, and is then only read by the conversion of
// each drawing.
package svgconf

import (
	"fmt"
	"math"
	"strings"

	"github.com/benoitkugler/dxf2svg/svganim"
	"github.com/benoitkugler/dxf2svg/svglayer"
	"github.com/benoitkugler/dxf2svg/svgpath"
	"github.com/benoitkugler/dxf2svg/svgstyle"
	"go.uber.org/zap"
)

const (
	MinPrecision     = 1
	MaxPrecision     = 10
	DefaultPrecision = 3
)

// Config stores the batch wide settings.
type Config struct {
	precision int
	fuzz      float64

	// Mode selects how the style sheet is written.
	Mode svgstyle.CSSMode
	// ExternalCSS is the file name of the external style sheet.
	// When empty, it is derived from the drawing name.
	ExternalCSS string
	Style       svgstyle.Options

	// EnglishLayer and FrenchLayer enable the language script
	// when both are present in a drawing.
	EnglishLayer string
	FrenchLayer  string
	// Wrappers is true when HTML wrappers are generated for the documents.
	Wrappers       bool
	SuppressScript bool

	// Required lists the layers every drawing must have.
	Required []string
	// PreviewSize is the size of the raster thumbnails; 0 disables them.
	PreviewSize int

	Palette    *svgstyle.Palette
	Overrides  *svgstyle.Overrides
	Animations *svganim.Table
	Targets    *svglayer.Targets

	Log *zap.Logger
}

// New returns the default configuration.
func New(log *zap.Logger) *Config {
	if log == nil {
		log = zap.NewNop()
	}
	return &Config{
		precision:    DefaultPrecision,
		fuzz:         svgpath.DefaultFuzz,
		Mode:         svgstyle.CSSDeclared,
		Style:        svgstyle.Options{DefaultLayer: svgstyle.DefaultLanguageLayer},
		EnglishLayer: svgstyle.DefaultLanguageLayer,
		FrenchLayer:  "french",
		Palette:      svgstyle.NewPalette(log),
		Overrides:    svgstyle.NewOverrides(),
		Animations:   svganim.NewTable(),
		Targets:      svglayer.NewTargets(),
		Log:          log,
	}
}

// Precision returns the number of decimals of the output coordinates.
func (c *Config) Precision() int { return c.precision }

// SetPrecision sets the number of decimals, clamped to
// [MinPrecision, MaxPrecision] with a warning.
func (c *Config) SetPrecision(p int) {
	clamped := p
	if clamped < MinPrecision {
		clamped = MinPrecision
	} else if clamped > MaxPrecision {
		clamped = MaxPrecision
	}
	if clamped != p {
		c.Log.Warn("precision out of range",
			zap.Int("precision", p), zap.String("expected", fmt.Sprintf("%d..%d", MinPrecision, MaxPrecision)),
			zap.Int("used", clamped))
	}
	c.precision = clamped
}

// Fuzz is the tolerance used to compare end points.
func (c *Config) Fuzz() float64 { return c.fuzz }

func (c *Config) SetFuzz(f float64) error {
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid fuzz %g: expected a positive number", f)
	}
	c.fuzz = f
	return nil
}

// AddMode activates a CSS mode flag.
func (c *Config) AddMode(f svgstyle.CSSMode) { c.Mode.Add(f, c.Log) }

// SetTarget registers the animation mode of the layer:
// "gang", "collaborate", or "" for the whole layer.
func (c *Config) SetTarget(layer, mode string) error {
	name := TargetName(layer)
	switch mode {
	case "":
		return nil
	case svglayer.Gang.String():
		return c.Targets.Gang(name)
	case svglayer.Collaborate.String():
		return c.Targets.Collaborate(name)
	}
	return fmt.Errorf("invalid target mode '%s' for %s, expected gang or collaborate", mode, name)
}

// AddAnimation declares an animation for the layer named target.
func (c *Config) AddAnimation(target string, a svganim.Animation) {
	c.Animations.Add(TargetName(target), a)
}

// Check validates the settings once they are complete.
func (c *Config) Check() error {
	return c.Animations.Check()
}

// TargetName returns the key of the layer in the animation table and
// in the target registry. Layers are matched case-insensitively.
func TargetName(layer string) string {
	return strings.ToLower(svgstyle.ClassName(layer))
}

// Resolver returns a style resolver for one drawing.
func (c *Config) Resolver(log *zap.Logger) *svgstyle.Resolver {
	return svgstyle.NewResolver(c.Palette, c.Overrides, c.Style, log)
}
