package svgstyle

import (
	"errors"
	"strings"
	"testing"

	"github.com/maruel/ut"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPaletteColors(t *testing.T) {
	p := NewPalette(nil)
	for i, d := range []struct {
		index int
		color string
	}{
		{1, "#FF0000"},
		{7, "#000000"},
		{8, "#808080"},
		{10, "#FF0000"},
		{11, "#FFAAAA"},
		{12, "#BD0000"},
		{250, "#333333"},
		{255, "#FFFFFF"},
	} {
		ut.AssertEqualIndex(t, i, d.color, p.Color(d.index))
	}
}

func TestPaletteFallback(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	p := NewPalette(zap.New(core))
	ut.AssertEqual(t, FallbackColor, p.Color(999))
	ut.AssertEqual(t, FallbackColor, p.Color(0))
	ut.AssertEqual(t, 2, logs.Len())
	ut.AssertEqual(t, "color index out of palette", logs.All()[0].Message)
}

func TestPaletteCoercion(t *testing.T) {
	p := NewPalette(nil)
	ut.AssertEqual(t, nil, p.SetCustom(5, "#123456"))
	ut.AssertEqual(t, nil, p.SetCoercion(true, 1))

	ut.AssertEqual(t, "#FF0000", p.Color(7))
	ut.AssertEqual(t, "#FF0000", p.Color(140))
	ut.AssertEqual(t, "#FFFFFF", p.Color(255))
	ut.AssertEqual(t, "#123456", p.Color(5))

	ut.AssertEqual(t, nil, p.SetCoercion(false, 0))
	ut.AssertEqual(t, "#000000", p.Color(7))

	if err := p.SetCoercion(true, 300); err == nil {
		t.Error("expected error for out of range target")
	}
	if err := p.SetCustom(3, "#12"); err == nil {
		t.Error("expected error for invalid color")
	}
}

func TestDashArray(t *testing.T) {
	lt := LineType{Name: "DASHDOT", Pattern: []float64{0.5, -0.25, 0}, Scale: 2}
	ut.AssertEqual(t, []float64{1, 0.5, 0.2}, lt.DashArray(1))
	gapFirst := LineType{Name: "GAP", Pattern: []float64{-1, 1}}
	ut.AssertEqual(t, []float64{0, 1, 1}, gapFirst.DashArray(0))
	ut.AssertEqual(t, []float64(nil), LineType{Name: Continuous}.DashArray(1))
}

func TestClassName(t *testing.T) {
	ut.AssertEqual(t, "wire1", ClassName("wire1"))
	ut.AssertEqual(t, "_1st_layer", ClassName("1st layer"))
	ut.AssertEqual(t, "_", ClassName(""))
}

func TestCSSMode(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	var m CSSMode
	ut.AssertEqual(t, true, m.Add(CSSDeclared, log))
	ut.AssertEqual(t, false, m.Add(CSSDeclared, log))
	ut.AssertEqual(t, CSSDeclared, m)
	ut.AssertEqual(t, 1, logs.Len())

	m, err := ParseCSSMode("declared, pens", nil)
	ut.AssertEqual(t, nil, err)
	ut.AssertEqual(t, CSSDeclared|CSSHousePens, m)
	ut.AssertEqual(t, "declared,pens", m.String())
	ut.AssertEqual(t, true, m.Sheet())
	ut.AssertEqual(t, false, CSSInline.Sheet())

	if _, err := ParseCSSMode("bogus", nil); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func newTestResolver(t *testing.T, ov *Overrides) *Resolver {
	r := NewResolver(nil, ov, Options{}, nil)
	r.SetLineTypes([]LineType{{Name: "DASHED", Pattern: []float64{0.5, -0.25}}})
	r.SetLayers([]Layer{{Name: "wire1", LineType: "dashed", Color: 1, Visible: true}})
	r.SetTextStyles([]TextStyle{
		{Name: "Standard", Font: "arial.ttf", Height: 2.5},
		{Name: "Title", Font: "ARIAL.ttf"},
	})
	return r
}

func TestResolveStyleSheet(t *testing.T) {
	r := newTestResolver(t, nil)
	got, err := r.ResolveStyleSheet(CSSDeclared)
	ut.AssertEqual(t, nil, err)
	exp := "@font-face{font-family:'arial';src:url('arial.ttf');}\n" +
		".english{stroke:#000000;fill:none;}\n" +
		".english text{fill:#000000;stroke:none;}\n" +
		".wire1{stroke:#FF0000;fill:none;stroke-dasharray:0.5,0.25;}\n" +
		".wire1 text{fill:#FF0000;stroke:none;}\n" +
		".ts-Standard{font-family:'arial';font-size:2.5;}\n" +
		".ts-Title{font-family:'ARIAL';}\n"
	ut.AssertEqual(t, exp, got)

	external, err := r.ResolveStyleSheet(CSSExternal)
	ut.AssertEqual(t, nil, err)
	ut.AssertEqual(t, got, external)

	inline, err := r.ResolveStyleSheet(CSSInline)
	ut.AssertEqual(t, nil, err)
	ut.AssertEqual(t, "", inline)
}

func TestMissingLineType(t *testing.T) {
	r := NewResolver(nil, nil, Options{}, nil)
	r.SetLayers([]Layer{{Name: "axis", LineType: "HIDDEN2", Color: 2, Visible: true}})
	_, err := r.ResolveStyleSheet(CSSDeclared)
	ut.AssertEqual(t, true, errors.Is(err, ErrMissingLineType))
}

func TestLayerOverrides(t *testing.T) {
	ov := NewOverrides()
	green, weight := 3, 0.7
	ut.AssertEqual(t, nil, ov.AddLayer(LayerOverride{Name: "WIRE1", Color: &green, LineWeight: &weight}))
	err := ov.AddLayer(LayerOverride{Name: "Wire1"})
	ut.AssertEqual(t, true, errors.Is(err, ErrDuplicateOverride))
	ut.AssertEqual(t, nil, ov.AddTextStyle("title", "font-weight:bold;"))

	r := newTestResolver(t, ov)
	st, err := r.LayerStyle("wire1", CSSDeclared)
	ut.AssertEqual(t, nil, err)
	ut.AssertEqual(t, "#00FF00", st.Stroke)
	ut.AssertEqual(t, 0.7, st.Width)

	// setting the layers again starts from the drawing values
	r.SetLayers([]Layer{{Name: "wire1", Color: 1, Visible: true}})
	st, _ = r.LayerStyle("wire1", CSSDeclared)
	ut.AssertEqual(t, "#00FF00", st.Stroke)

	ts, err := r.TextStyle("TITLE")
	ut.AssertEqual(t, nil, err)
	ut.AssertEqual(t, "font-family:'ARIAL';font-weight:bold;", ts.Declarations())
}

func TestHousePens(t *testing.T) {
	pens := HousePens()
	ut.AssertEqual(t, 1., pens[5].Width)
	ut.AssertEqual(t, narrowPen, pens[19])
	ut.AssertEqual(t, narrowPen, pens[0])

	r := NewResolver(nil, nil, Options{}, nil)
	r.SetLayers([]Layer{{Name: "wire1", Color: 5, Visible: true}})
	sheet, err := r.ResolveStyleSheet(CSSDeclared | CSSHousePens)
	ut.AssertEqual(t, nil, err)
	if !strings.Contains(sheet, ".wire1{stroke:#000000;fill:none;stroke-width:1;stroke-linecap:round;stroke-linejoin:round;}") {
		t.Errorf("unexpected sheet %s", sheet)
	}
}

func TestTextStyleFallback(t *testing.T) {
	r := newTestResolver(t, nil)
	ts, err := r.TextStyle("missing")
	ut.AssertEqual(t, nil, err)
	ut.AssertEqual(t, "Standard", ts.Name)

	r.SetTextStyles(nil)
	ts, err = r.TextStyle("missing")
	ut.AssertEqual(t, true, errors.Is(err, ErrMissingTextStyle))
	ut.AssertEqual(t, builtinTextStyle, ts)
}

func TestDefaultLayer(t *testing.T) {
	r := NewResolver(nil, nil, Options{DefaultLayer: "francais"}, nil)
	r.SetLayers([]Layer{{Name: "wire1", Color: 1, Visible: true}})
	l, ok := r.Layer("FRANCAIS")
	ut.AssertEqual(t, true, ok)
	ut.AssertEqual(t, Continuous, l.LineType)
	ut.AssertEqual(t, 2, len(r.Layers()))

	off := Layer{Name: "off", Color: -3, Visible: true}
	ut.AssertEqual(t, true, off.Off())
}

func TestDefaultLayerOverride(t *testing.T) {
	ov := NewOverrides()
	red, weight := 1, 0.5
	ut.AssertEqual(t, nil, ov.AddLayer(LayerOverride{Name: "English", Color: &red, LineWeight: &weight}))
	r := NewResolver(nil, ov, Options{}, nil)
	r.SetLayers([]Layer{{Name: "wire1", Color: 3, Visible: true}})

	l, ok := r.Layer(DefaultLanguageLayer)
	ut.AssertEqual(t, true, ok)
	ut.AssertEqual(t, 1, l.Color)
	ut.AssertEqual(t, 0.5, l.LineWeight)
	l, _ = r.Layer("wire1")
	ut.AssertEqual(t, 3, l.Color)

	_, err := r.LayerStyle("nowhere", 0)
	ut.AssertEqual(t, true, errors.Is(err, ErrMissingLayer))
}
