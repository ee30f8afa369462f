package svgconf

import (
	"errors"
	"strings"
	"testing"

	"github.com/benoitkugler/dxf2svg/dxfdata"
	"github.com/benoitkugler/dxf2svg/svganim"
	"github.com/benoitkugler/dxf2svg/svglayer"
	"github.com/benoitkugler/dxf2svg/svgstyle"
	"github.com/maruel/ut"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaults(t *testing.T) {
	conf := New(nil)
	ut.AssertEqual(t, DefaultPrecision, conf.Precision())
	ut.AssertEqual(t, 0.001, conf.Fuzz())
	ut.AssertEqual(t, svgstyle.CSSDeclared, conf.Mode)
	ut.AssertEqual(t, "english", conf.EnglishLayer)
	ut.AssertEqual(t, "french", conf.FrenchLayer)
}

func TestPrecisionClamp(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	conf := New(zap.New(core))
	for i, d := range []struct{ in, out int }{
		{4, 4},
		{12, MaxPrecision},
		{0, MinPrecision},
		{-3, MinPrecision},
		{10, 10},
	} {
		conf.SetPrecision(d.in)
		ut.AssertEqualIndex(t, i, d.out, conf.Precision())
	}
	ut.AssertEqual(t, 3, logs.Len())

	if err := conf.SetFuzz(-1); err == nil {
		t.Error("expected error for negative fuzz")
	}
}

const sampleConfig = `<?xml version="1.0"?>
<dxf2svg>
  <precision value="4"/>
  <fuzz value="0.01"/>
  <css mode="declared, external" file="book.css"/>
  <coerce target="1"/>
  <color index="5" value="#123456"/>
  <languages english="eng" french="fra" wrappers="true" script="false"/>
  <layer name="wire1" weight="0.5" target="collaborate"/>
  <layer name="wire2" target="gang"/>
  <textstyle name="title" css="font-weight:bold;"/>
  <require layer="title-block"/>
  <linetypes scale="2"/>
  <stroke cap="round" join="bevel"/>
  <preview size="256"/>
  <animate target="wire1" attributeName="stroke" to="red" dur="2s"/>
  <set target="wire1" attributeName="visibility" to="hidden" begin="wire2.click"/>
</dxf2svg>`

func TestReadConfig(t *testing.T) {
	conf := New(nil)
	err := ReadConfigStream(conf, strings.NewReader(sampleConfig), dxfdata.StrictErrorMode)
	ut.AssertEqual(t, nil, err)

	ut.AssertEqual(t, 4, conf.Precision())
	ut.AssertEqual(t, 0.01, conf.Fuzz())
	ut.AssertEqual(t, svgstyle.CSSDeclared|svgstyle.CSSExternal, conf.Mode)
	ut.AssertEqual(t, "book.css", conf.ExternalCSS)
	ut.AssertEqual(t, "#FF0000", conf.Palette.Color(7))
	ut.AssertEqual(t, "#123456", conf.Palette.Color(5))
	ut.AssertEqual(t, "eng", conf.EnglishLayer)
	ut.AssertEqual(t, "fra", conf.FrenchLayer)
	ut.AssertEqual(t, true, conf.Wrappers)
	ut.AssertEqual(t, true, conf.SuppressScript)
	ut.AssertEqual(t, []string{"title-block"}, conf.Required)
	ut.AssertEqual(t, 2., conf.Style.LineTypeScale)
	ut.AssertEqual(t, svgstyle.RoundCap, conf.Style.Cap)
	ut.AssertEqual(t, svgstyle.Bevel, conf.Style.Join)
	ut.AssertEqual(t, 256, conf.PreviewSize)

	ut.AssertEqual(t, svglayer.Collaborate, conf.Targets.Mode("wire1"))
	ut.AssertEqual(t, svglayer.Gang, conf.Targets.Mode("wire2"))
	ut.AssertEqual(t, 2, len(conf.Animations.Lookup("wire1")))

	r := conf.Resolver(nil)
	r.SetLayers([]svgstyle.Layer{{Name: "wire1", Color: 1, Visible: true}})
	st, err := r.LayerStyle("wire1", conf.Mode)
	ut.AssertEqual(t, nil, err)
	ut.AssertEqual(t, 0.5, st.Width)
}

func TestReadConfigErrors(t *testing.T) {
	for i, d := range []struct {
		input string
		check func(error) bool
	}{
		{
			`<dxf2svg><animate target="wire1" attributeName="stroke" restart="sometimes"/></dxf2svg>`,
			func(err error) bool { return errors.Is(err, svganim.ErrInvalidValue) },
		},
		{
			`<dxf2svg><set target="wire1" to="red"/></dxf2svg>`,
			func(err error) bool { return errors.Is(err, svganim.ErrUndefinedAttribute) },
		},
		{
			`<dxf2svg><layer name="w" target="gang"/><layer name="w" target="collaborate"/></dxf2svg>`,
			func(err error) bool { return errors.Is(err, svglayer.ErrConflictingTarget) },
		},
		{
			`<dxf2svg><layer name="w" color="1"/><layer name="W" color="2"/></dxf2svg>`,
			func(err error) bool { return errors.Is(err, svgstyle.ErrDuplicateOverride) },
		},
		{
			`<dxf2svg><layer name="w" target="solo"/></dxf2svg>`,
			func(err error) bool { return err != nil },
		},
		{
			`<dxf2svg><output dir="/tmp"/></dxf2svg>`,
			func(err error) bool { return err != nil && strings.Contains(err.Error(), "output") },
		},
		{
			``,
			func(err error) bool { return err == errEmptyConfig },
		},
	} {
		err := ReadConfigStream(New(nil), strings.NewReader(d.input), dxfdata.StrictErrorMode)
		ut.AssertEqualIndex(t, i, true, d.check(err))
	}
}

func TestReadConfigWarn(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	conf := New(zap.New(core))
	err := ReadConfigStream(conf, strings.NewReader(`<dxf2svg><output dir="/tmp"/><precision value="20"/></dxf2svg>`), dxfdata.WarnErrorMode)
	ut.AssertEqual(t, nil, err)
	ut.AssertEqual(t, 2, logs.Len())
	ut.AssertEqual(t, MaxPrecision, conf.Precision())
}
