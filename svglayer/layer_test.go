package svglayer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/benoitkugler/dxf2svg/svganim"
	"github.com/benoitkugler/dxf2svg/svgpath"
	"github.com/maruel/ut"
)

func line(handle string, x0, y0, x1, y1 float64) *svgpath.Line {
	return &svgpath.Line{
		Base:  svgpath.Base{Handle: handle, LayerName: "wire1"},
		Start: svgpath.Point{X: x0, Y: y0},
		End:   svgpath.Point{X: x1, Y: y1},
	}
}

func strokeAnim(t *testing.T) svganim.Animation {
	a := new(svganim.Animate)
	if err := a.SetAttributeName("stroke"); err != nil {
		t.Fatal(err)
	}
	_ = a.SetTo("red")
	return a
}

func handles(elements []svgpath.Element) []string {
	out := make([]string, len(elements))
	for i, e := range elements {
		out[i] = e.ID()
	}
	return out
}

func TestChainSingleComponent(t *testing.T) {
	g := NewGroup("wire1", []svgpath.Element{
		line("ab", 0, 0, 1, 0),
		line("bc", 1, 0, 1, 1),
		line("cd", 1, 1, 2, 1),
	})
	out := Chain(g, svgpath.DefaultFuzz)
	ut.AssertEqual(t, 1, out.Len())
	agg, ok := out.Items[0].(*Aggregate)
	ut.AssertEqual(t, true, ok)
	ut.AssertEqual(t, []string{"ab", "bc", "cd"}, handles(agg.Members))
	// the input group is left untouched
	ut.AssertEqual(t, 3, g.Len())
}

func TestChainComponents(t *testing.T) {
	circle := &svgpath.Circle{Base: svgpath.Base{Handle: "circle"}, Center: svgpath.Point{X: 1}, Radius: 1}
	g := NewGroup("wire1", []svgpath.Element{
		line("a1", 0, 0, 1, 0),
		circle,
		line("b1", 10, 10, 11, 10),
		line("lone", 50, 50, 60, 60),
		line("a2", 1, 0, 1, 1),
		line("b2", 11, 10.0005, 12, 12),
	})
	out := Chain(g, svgpath.DefaultFuzz)
	ut.AssertEqual(t, 4, out.Len())

	a, ok := out.Items[0].(*Aggregate)
	ut.AssertEqual(t, true, ok)
	ut.AssertEqual(t, []string{"a1", "a2"}, handles(a.Members))

	ut.AssertEqual(t, Item(&Leaf{Element: circle}), out.Items[1])

	b, ok := out.Items[2].(*Aggregate)
	ut.AssertEqual(t, true, ok)
	ut.AssertEqual(t, []string{"b1", "b2"}, handles(b.Members))

	lone, ok := out.Items[3].(*Leaf)
	ut.AssertEqual(t, true, ok)
	ut.AssertEqual(t, "lone", lone.Element.ID())

	ut.AssertEqual(t, 6, len(out.Elements()))
	ut.AssertEqual(t, 2, len(out.Aggregates()))
}

func TestChainDiscoveryOrder(t *testing.T) {
	// "mid" links the two others: it is found from "first",
	// then "last" is found from "mid"
	g := NewGroup("wire1", []svgpath.Element{
		line("first", 0, 0, 1, 0),
		line("last", 5, 5, 6, 6),
		line("mid", 1, 0, 5, 5),
	})
	out := Chain(g, svgpath.DefaultFuzz)
	ut.AssertEqual(t, 1, out.Len())
	ut.AssertEqual(t, []string{"first", "mid", "last"}, handles(out.Items[0].(*Aggregate).Members))
}

func TestChainIdempotent(t *testing.T) {
	g := NewGroup("wire1", []svgpath.Element{
		line("a1", 0, 0, 1, 0),
		line("a2", 1, 0, 1, 1),
		line("lone", 50, 50, 60, 60),
		line("b1", 10, 10, 11, 10),
		line("b2", 11, 10, 12, 12),
	})
	once := Chain(g, svgpath.DefaultFuzz)
	twice := Chain(once, svgpath.DefaultFuzz)
	ut.AssertEqual(t, once.Items, twice.Items)
}

func TestChainSkipsSuppressed(t *testing.T) {
	hidden := line("hidden", 1, 0, 2, 0)
	hidden.Hidden = true
	g := NewGroup("wire1", []svgpath.Element{line("a", 0, 0, 1, 0), hidden})
	out := Chain(g, svgpath.DefaultFuzz)
	ut.AssertEqual(t, 2, out.Len())
	ut.AssertEqual(t, 0, len(out.Aggregates()))
}

func TestTargets(t *testing.T) {
	tg := NewTargets()
	ut.AssertEqual(t, nil, tg.Gang("wire1"))
	ut.AssertEqual(t, nil, tg.Gang("wire1"))
	ut.AssertEqual(t, nil, tg.Collaborate("wire2"))
	err := tg.Collaborate("wire1")
	ut.AssertEqual(t, true, errors.Is(err, ErrConflictingTarget))

	ut.AssertEqual(t, Gang, tg.Mode("wire1"))
	ut.AssertEqual(t, Collaborate, tg.Mode("wire2"))
	ut.AssertEqual(t, Whole, tg.Mode("other"))
	var none *Targets
	ut.AssertEqual(t, Whole, none.Mode("wire1"))
}

func TestApplyWhole(t *testing.T) {
	table := svganim.NewTable()
	anim := strokeAnim(t)
	table.Add("wire1", anim)

	g := NewGroup("wire1", []svgpath.Element{line("a", 0, 0, 1, 0)})
	Apply(g, "wire1", table, NewTargets())
	ut.AssertEqual(t, []svganim.Animation{anim}, g.Anims)
	ut.AssertEqual(t, 0, len(g.Items[0].Animations()))

	// no declaration, empty group: nothing to do
	other := NewGroup("other", []svgpath.Element{line("b", 0, 0, 1, 0)})
	Apply(other, "other", table, nil)
	ut.AssertEqual(t, 0, len(other.Anims))
	empty := &Group{Layer: "wire1"}
	Apply(empty, "wire1", table, nil)
	ut.AssertEqual(t, 0, len(empty.Anims))
}

func TestApplyGang(t *testing.T) {
	table := svganim.NewTable()
	table.Add("wire1", strokeAnim(t))
	targets := NewTargets()
	ut.AssertEqual(t, nil, targets.Gang("wire1"))

	arc := &svgpath.Arc{Base: svgpath.Base{Handle: "arc"}, Radius: 1, EndAngle: 90}
	poly := &svgpath.Polyline{Base: svgpath.Base{Handle: "poly"}, Vertices: []svgpath.Vertex{{P: svgpath.Point{}}, {P: svgpath.Point{X: 3}}}}
	closed := &svgpath.Polyline{Base: svgpath.Base{Handle: "closed"}, Closed: true,
		Vertices: []svgpath.Vertex{{P: svgpath.Point{}}, {P: svgpath.Point{X: 3}}, {P: svgpath.Point{Y: 3}}}}
	g := NewGroup("wire1", []svgpath.Element{arc, line("l", 0, 0, 1, 0), poly, closed})
	Apply(g, "wire1", table, targets)

	ut.AssertEqual(t, []string{"l", "closed", "arc", "poly"}, handles(g.Elements()))
	ut.AssertEqual(t, 0, len(g.Anims))
	for i, it := range g.Items {
		l := it.(*Leaf)
		animated := i >= 2
		ut.AssertEqualIndex(t, i, animated, len(l.Anims) == 1)
		ut.AssertEqualIndex(t, i, animated, l.ID == WireRun)
	}
}

func TestCollaborateScenario(t *testing.T) {
	table := svganim.NewTable()
	table.Add("wire1", strokeAnim(t))
	targets := NewTargets()
	ut.AssertEqual(t, nil, targets.Collaborate("wire1"))

	g := NewGroup("wire1", []svgpath.Element{
		line("ab", 0, 0, 1, 0),
		line("bc", 1, 0, 1, 1),
		line("cd", 1, 1, 2, 1),
	})
	g = Chain(g, svgpath.DefaultFuzz)
	Apply(g, "wire1", table, targets)

	ut.AssertEqual(t, 1, g.Len())
	agg := g.Items[0].(*Aggregate)
	ut.AssertEqual(t, WireRun, agg.ID)
	ut.AssertEqual(t, 1, len(agg.Anims))

	var b bytes.Buffer
	enc := svgpath.NewEncoder(&b, svgpath.Frame{}, 2)
	err := g.Encode(enc, ` class="wire1"`, nil)
	ut.AssertEqual(t, nil, err)
	exp := `<g class="wire1">
<g id="wire-run">
<line x1="0" y1="0" x2="1" y2="0"/>
<line x1="1" y1="0" x2="1" y2="-1"/>
<line x1="1" y1="-1" x2="2" y2="-1"/>
<animate attributeName="stroke" to="red"/>
</g>
</g>
`
	ut.AssertEqual(t, exp, b.String())
}

func TestEncodeInvalidAnimation(t *testing.T) {
	table := svganim.NewTable()
	table.Add("wire1", new(svganim.Set))
	g := NewGroup("wire1", []svgpath.Element{line("a", 0, 0, 1, 0)})
	Apply(g, "wire1", table, nil)
	err := g.Encode(svgpath.NewEncoder(&bytes.Buffer{}, svgpath.Frame{}, 2), "", nil)
	ut.AssertEqual(t, true, errors.Is(err, svganim.ErrUndefinedAttribute))
}

func TestSplit(t *testing.T) {
	a := line("a", 0, 0, 1, 0)
	b := &svgpath.Line{Base: svgpath.Base{Handle: "b", LayerName: "Axis"}}
	c := &svgpath.Line{Base: svgpath.Base{Handle: "c", LayerName: "WIRE1"}}
	groups := Split([]svgpath.Element{a, b, c}, strings.ToLower)
	ut.AssertEqual(t, 2, len(groups))
	ut.AssertEqual(t, "wire1", groups[0].Layer)
	ut.AssertEqual(t, []string{"a", "c"}, handles(groups[0].Elements()))
	ut.AssertEqual(t, "Axis", groups[1].Layer)
}
