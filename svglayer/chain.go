package svglayer

import "github.com/benoitkugler/dxf2svg/svgpath"

// chainable reports whether the item is a visible element with free ends.
func chainable(it Item) (svgpath.Element, bool) {
	l, ok := it.(*Leaf)
	if !ok || l.Element.Suppressed() {
		return nil, false
	}
	if _, _, ok := svgpath.Ends(l.Element); !ok {
		return nil, false
	}
	return l.Element, true
}

// Chain returns a group where every connected set of (at least two)
// elements sharing an end, within fuzz, is replaced by an Aggregate.
// The aggregate takes the place of its first member; lone elements,
// other kinds and existing aggregates are kept as is.
//
// The candidates are scanned in ascending order, and the frontier is
// a stack: an element matching several frontier elements is attached
// from the first one popped, and the members of an aggregate are in
// discovery order.
func Chain(g *Group, fuzz float64) *Group {
	var (
		positions []int // index in g.Items of the candidates
		elements  []svgpath.Element
	)
	for i, it := range g.Items {
		if e, ok := chainable(it); ok {
			positions = append(positions, i)
			elements = append(elements, e)
		}
	}

	visited := make([]bool, len(elements))
	placed := map[int]*Aggregate{} // by item index
	removed := map[int]bool{}
	for k := range elements {
		if visited[k] {
			continue
		}
		visited[k] = true
		component, frontier := []int{k}, []int{k}
		for len(frontier) > 0 {
			cur := frontier[len(frontier)-1]
			frontier = frontier[:len(frontier)-1]
			for j := range elements {
				if visited[j] || !svgpath.SharesEnd(elements[cur], elements[j], fuzz) {
					continue
				}
				visited[j] = true
				component = append(component, j)
				frontier = append(frontier, j)
			}
		}
		if len(component) < 2 {
			continue
		}
		agg := &Aggregate{Members: make([]svgpath.Element, len(component))}
		for i, c := range component {
			agg.Members[i] = elements[c]
			removed[positions[c]] = true
		}
		// k is the smallest index of the component
		placed[positions[k]] = agg
	}

	out := &Group{Layer: g.Layer, Anims: g.Anims, Items: make([]Item, 0, len(g.Items))}
	for i, it := range g.Items {
		if agg, ok := placed[i]; ok {
			out.Items = append(out.Items, agg)
		} else if !removed[i] {
			out.Items = append(out.Items, it)
		}
	}
	return out
}
