// Package svglayer groups the elements of a drawing by layer, merges
// the connected lines of a layer into wire runs and attaches the
// animations declared for the layers.
package svglayer

import (
	"github.com/benoitkugler/dxf2svg/svganim"
	"github.com/benoitkugler/dxf2svg/svgpath"
)

// WireRun is the identifier given to the animated targets
// of gang and collaborate layers.
const WireRun = "wire-run"

// Item is a member of a Group: either a *Leaf or an *Aggregate.
type Item interface {
	Bounds() svgpath.Rect
	// Animations returns the animations attached to the item.
	Animations() []svganim.Animation

	animate(id string, anims []svganim.Animation)
	encode(enc *svgpath.Encoder, attrs AttrFunc) error
}

// AttrFunc returns the attributes written for an element,
// typically its text style class.
type AttrFunc func(svgpath.Element) string

// Leaf is a single element.
type Leaf struct {
	Element svgpath.Element
	// ID, if not empty, is written as the element id.
	ID    string
	Anims []svganim.Animation
}

func (l *Leaf) Bounds() svgpath.Rect { return l.Element.Bounds() }

func (l *Leaf) Animations() []svganim.Animation { return l.Anims }

func (l *Leaf) animate(id string, anims []svganim.Animation) {
	l.ID = id
	l.Anims = append(l.Anims, anims...)
}

// Aggregate replaces a chain of elements sharing their ends, which
// are written in one group.
type Aggregate struct {
	// Members are in discovery order.
	Members []svgpath.Element
	ID      string
	Anims   []svganim.Animation
}

func (a *Aggregate) Bounds() svgpath.Rect {
	box := svgpath.EmptyRect()
	for _, m := range a.Members {
		box = box.Union(m.Bounds())
	}
	return box
}

func (a *Aggregate) Animations() []svganim.Animation { return a.Anims }

func (a *Aggregate) animate(id string, anims []svganim.Animation) {
	a.ID = id
	a.Anims = append(a.Anims, anims...)
}

// Group is the ordered content of one layer.
type Group struct {
	Layer string
	Items []Item
	// Anims are applied to the whole layer.
	Anims []svganim.Animation
}

// NewGroup wraps each element in a Leaf.
func NewGroup(layer string, elements []svgpath.Element) *Group {
	g := &Group{Layer: layer, Items: make([]Item, len(elements))}
	for i, e := range elements {
		g.Items[i] = &Leaf{Element: e}
	}
	return g
}

// Len returns the number of items.
func (g *Group) Len() int { return len(g.Items) }

// Elements returns every element of the group, aggregates being expanded.
func (g *Group) Elements() []svgpath.Element {
	var out []svgpath.Element
	for _, it := range g.Items {
		switch it := it.(type) {
		case *Leaf:
			out = append(out, it.Element)
		case *Aggregate:
			out = append(out, it.Members...)
		}
	}
	return out
}

// Aggregates returns the aggregates of the group.
func (g *Group) Aggregates() []*Aggregate {
	var out []*Aggregate
	for _, it := range g.Items {
		if a, ok := it.(*Aggregate); ok {
			out = append(out, a)
		}
	}
	return out
}

// Bounds returns the union of the non suppressed elements bounds.
func (g *Group) Bounds() svgpath.Rect {
	box := svgpath.EmptyRect()
	for _, e := range g.Elements() {
		if !e.Suppressed() {
			box = box.Union(e.Bounds())
		}
	}
	return box
}

// Split partitions elements by layer, in order of first appearance.
// Layer names are compared case-insensitively through key.
func Split(elements []svgpath.Element, key func(layer string) string) []*Group {
	var (
		out   []*Group
		index = map[string]*Group{}
	)
	for _, e := range elements {
		k := key(e.Layer())
		g, ok := index[k]
		if !ok {
			g = &Group{Layer: e.Layer()}
			index[k] = g
			out = append(out, g)
		}
		g.Items = append(g.Items, &Leaf{Element: e})
	}
	return out
}
