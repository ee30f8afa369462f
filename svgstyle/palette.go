// Package svgstyle resolves the style of layers and text styles of a
// drawing into a cascading style sheet.
//
// Colors are given as AutoCAD color indices (ACI) and looked up in a
// Palette; layer and text style tables come from the drawing and may be
// overridden by user settings (see Overrides).
package svgstyle

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
)

const (
	// FallbackColor is returned for indices outside the palette.
	FallbackColor = "fuchsia"

	white = "#FFFFFF"

	paletteSize = 256
)

var errInvalidColor = errors.New("invalid color")

// Palette maps ACI color numbers to web colors.
// Index 7 is black, since documents are displayed on white paper.
type Palette struct {
	colors [paletteSize]string
	custom map[int]string

	coerce   bool
	coerceTo int

	log *zap.Logger
}

// NewPalette returns the standard ACI palette.
func NewPalette(log *zap.Logger) *Palette {
	if log == nil {
		log = zap.NewNop()
	}
	return &Palette{colors: aciColors(), custom: map[int]string{}, log: log}
}

// SetCustom registers a color for index, which takes precedence over
// the standard one and is never coerced.
func (p *Palette) SetCustom(index int, color string) error {
	if index < 1 || index >= paletteSize {
		return fmt.Errorf("custom color index %d out of range [1, %d]", index, paletteSize-1)
	}
	if err := checkColor(color); err != nil {
		return err
	}
	p.custom[index] = color
	return nil
}

// IsCustom reports whether index has a custom color.
func (p *Palette) IsCustom(index int) bool {
	_, ok := p.custom[index]
	return ok
}

// SetCoercion enables or disables the coercion of every color lookup
// (except custom and white colors) to the color of index target.
func (p *Palette) SetCoercion(on bool, target int) error {
	if on && (target < 1 || target >= paletteSize) {
		return fmt.Errorf("coercion color index %d out of range [1, %d]", target, paletteSize-1)
	}
	p.coerce, p.coerceTo = on, target
	return nil
}

// Color returns the web color of the ACI index.
// Index 0 (by block) and out of range indices resolve to
// FallbackColor, with a warning.
func (p *Palette) Color(index int) string {
	if c, ok := p.custom[index]; ok {
		return c
	}
	if index < 1 || index >= paletteSize {
		p.log.Warn("color index out of palette",
			zap.Int("index", index), zap.String("expected", "1..255"), zap.String("fallback", FallbackColor))
		return FallbackColor
	}
	c := p.colors[index]
	if p.coerce && c != white {
		if target, ok := p.custom[p.coerceTo]; ok {
			return target
		}
		return p.colors[p.coerceTo]
	}
	return c
}

// aciColors builds the standard AutoCAD color table.
// Indices 10 to 249 cycle through 24 hues (15 degrees apart),
// each with 5 intensities, alternatively saturated and pale.
func aciColors() (t [paletteSize]string) {
	copy(t[:], []string{
		1: "#FF0000", 2: "#FFFF00", 3: "#00FF00", 4: "#00FFFF", 5: "#0000FF",
		6: "#FF00FF", 7: "#000000", 8: "#808080", 9: "#C0C0C0",
	})
	values := [5]float64{255, 189, 129, 104, 79}
	for i := 10; i < 250; i++ {
		hue := float64((i-10)/10) * 15
		v := values[((i-10)%10)/2]
		t[i] = hsvHex(hue, v, (i-10)%2 == 1)
	}
	copy(t[250:], []string{"#333333", "#505050", "#696969", "#828282", "#BEBEBE", white})
	return t
}

// hsvHex returns the color of the given hue (degrees) and value (0-255);
// pale colors have their minimum component at two thirds of the value.
func hsvHex(hue, v float64, pale bool) string {
	var lo float64
	if pale {
		lo = math.Round(v * 2 / 3)
	}
	c := v - lo
	x := c * (1 - math.Abs(math.Mod(hue/60, 2)-1))
	var r, g, b float64
	switch int(hue / 60) {
	case 0:
		r, g, b = c, x, 0
	case 1:
		r, g, b = x, c, 0
	case 2:
		r, g, b = 0, c, x
	case 3:
		r, g, b = 0, x, c
	case 4:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return fmt.Sprintf("#%02X%02X%02X", int(math.Round(r+lo)), int(math.Round(g+lo)), int(math.Round(b+lo)))
}

// checkColor accepts #rgb, #rrggbb and named colors.
func checkColor(c string) error {
	if strings.HasPrefix(c, "#") {
		if len(c) != 4 && len(c) != 7 {
			return fmt.Errorf("%w: '%s' not of valid length", errInvalidColor, c)
		}
		for _, r := range c[1:] {
			if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
				return fmt.Errorf("%w: '%s' is not hexadecimal", errInvalidColor, c)
			}
		}
		return nil
	}
	if c == "" {
		return fmt.Errorf("%w: empty color", errInvalidColor)
	}
	for _, r := range c {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return fmt.Errorf("%w: '%s' can't be parsed", errInvalidColor, c)
		}
	}
	return nil
}
