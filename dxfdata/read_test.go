package dxfdata

import (
	"strings"
	"testing"

	"github.com/benoitkugler/dxf2svg/svgpath"
	"github.com/benoitkugler/dxf2svg/svgstyle"
	"github.com/maruel/ut"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const sample = `<?xml version="1.0" encoding="ISO-8859-1"?>
<drawing name="fig12-sheet1" minx="0" miny="0" maxx="100" maxy="50">
  <layer name="wire1" linetype="DASHED" color="1" weight="0.35"/>
  <layer name="hidden" color="-2" visible="false"/>
  <linetype name="DASHED" pattern="0.5, -0.25" scale="2"/>
  <textstyle name="Standard" font="arial.ttf" height="2.5"/>
  <attribute name="data-figure" value="12"/>
  <pattern name="ANSI31" width="1" height="1" angle="45">
    <stroke x1="0" y1="0" x2="1" y2="0"/>
  </pattern>
  <block name="relay" x="1" y="1">
    <circle layer="wire1" cx="2" cy="2" r="1"/>
  </block>
  <line handle="1A" layer="wire1" x1="0" y1="0" x2="10" y2="0"/>
  <arc handle="1B" layer="wire1" cx="10" cy="5" r="5" start="270" end="90"/>
  <polyline handle="1C" layer="wire1" closed="true">
    <vertex x="0" y="0" bulge="0.5"/>
    <vertex x="5" y="0"/>
    <vertex x="5" y="5"/>
  </polyline>
  <text handle="1D" layer="wire1" x="1" y="2" height="2.5" style="Standard"> caf` + "\xe9" + ` </text>
  <hatch handle="1E" layer="wire1" pattern="ANSI31">
    <vertex x="0" y="0"/><vertex x="1" y="0"/><vertex x="1" y="1"/>
  </hatch>
  <insert handle="1F" layer="wire1" block="relay" x="20" y="20" sx="2" rotation="90"/>
</drawing>`

func TestReadDrawing(t *testing.T) {
	d, err := ReadDrawingStream(strings.NewReader(sample), StrictErrorMode, nil)
	ut.AssertEqual(t, nil, err)

	ut.AssertEqual(t, "fig12-sheet1", d.Name)
	ut.AssertEqual(t, svgpath.Rect{Max: svgpath.Point{X: 100, Y: 50}}, d.Extents)
	ut.AssertEqual(t, []svgstyle.Layer{
		{Name: "wire1", LineType: "DASHED", Color: 1, LineWeight: 0.35, Visible: true},
		{Name: "hidden", Color: -2},
	}, d.Layers)
	ut.AssertEqual(t, []svgstyle.LineType{{Name: "DASHED", Pattern: []float64{0.5, -0.25}, Scale: 2}}, d.LineTypes)
	ut.AssertEqual(t, "arial.ttf", d.TextStyles[0].Font)
	ut.AssertEqual(t, map[string]string{"data-figure": "12"}, d.Attributes)

	ut.AssertEqual(t, 1, len(d.Patterns))
	ut.AssertEqual(t, 1, len(d.Patterns[0].Strokes))

	block, ok := d.Block("relay")
	ut.AssertEqual(t, true, ok)
	ut.AssertEqual(t, 1, len(block.Elements))
	ut.AssertEqual(t, svgpath.Point{X: 1, Y: 1}, block.Origin)

	ut.AssertEqual(t, 6, len(d.Entities))
	kinds := make([]svgpath.Kind, len(d.Entities))
	for i, e := range d.Entities {
		kinds[i] = e.Kind()
	}
	ut.AssertEqual(t, []svgpath.Kind{
		svgpath.KindLine, svgpath.KindArc, svgpath.KindPolyline,
		svgpath.KindText, svgpath.KindHatch, svgpath.KindInsert,
	}, kinds)

	poly := d.Entities[2].(*svgpath.Polyline)
	ut.AssertEqual(t, true, poly.Closed)
	ut.AssertEqual(t, 3, len(poly.Vertices))
	ut.AssertEqual(t, 0.5, poly.Vertices[0].Bulge)

	text := d.Entities[3].(*svgpath.Text)
	ut.AssertEqual(t, "café", text.Content)
	ut.AssertEqual(t, "Standard", text.Style)

	hatch := d.Entities[4].(*svgpath.Hatch)
	ut.AssertEqual(t, 3, len(hatch.Boundary))

	insert := d.Entities[5].(*svgpath.Insert)
	ut.AssertEqual(t, 2., insert.ScaleX)
	ut.AssertEqual(t, "1F", insert.ID())
}

func TestReadErrors(t *testing.T) {
	_, err := ReadDrawingStream(strings.NewReader(""), StrictErrorMode, nil)
	ut.AssertEqual(t, errEmptyFile, err)

	_, err = ReadDrawingStream(strings.NewReader(`<drawing><line x1="abc"/></drawing>`), StrictErrorMode, nil)
	if err == nil || !strings.Contains(err.Error(), "x1") {
		t.Errorf("expected error on x1, got %v", err)
	}

	_, err = ReadDrawingStream(strings.NewReader(`<drawing><vertex x="0" y="0"/></drawing>`), StrictErrorMode, nil)
	if err == nil {
		t.Error("expected error for vertex outside polyline")
	}
}

func TestReadErrorModes(t *testing.T) {
	input := `<drawing name="d"><image file="photo.png"/><line x2="1"/></drawing>`

	_, err := ReadDrawingStream(strings.NewReader(input), StrictErrorMode, nil)
	if err == nil {
		t.Error("expected error in strict mode")
	}

	core, logs := observer.New(zap.WarnLevel)
	d, err := ReadDrawingStream(strings.NewReader(input), WarnErrorMode, zap.New(core))
	ut.AssertEqual(t, nil, err)
	ut.AssertEqual(t, 1, len(d.Entities))
	ut.AssertEqual(t, 1, logs.Len())

	core, logs = observer.New(zap.WarnLevel)
	_, err = ReadDrawingStream(strings.NewReader(input), IgnoreErrorMode, zap.New(core))
	ut.AssertEqual(t, nil, err)
	ut.AssertEqual(t, 0, logs.Len())
}

func TestReadHatchTile(t *testing.T) {
	input := `<drawing name="d">
  <hatch handle="H" layer="0">
    <pattern name="NET" width="2" height="2">
      <stroke x1="0" y1="0" x2="2" y2="2"/>
    </pattern>
    <vertex x="0" y="0"/><vertex x="4" y="0"/><vertex x="4" y="4"/>
  </hatch>
</drawing>`
	d, err := ReadDrawingStream(strings.NewReader(input), StrictErrorMode, nil)
	ut.AssertEqual(t, nil, err)
	ut.AssertEqual(t, 0, len(d.Patterns))
	hatch := d.Entities[0].(*svgpath.Hatch)
	ut.AssertEqual(t, "NET", hatch.Pattern)
	ut.AssertEqual(t, 1, len(hatch.Tile.Strokes))
	ut.AssertEqual(t, 3, len(hatch.Boundary))
}
