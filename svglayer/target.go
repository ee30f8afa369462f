package svglayer

import (
	"errors"
	"fmt"

	"github.com/benoitkugler/dxf2svg/svganim"
	"github.com/benoitkugler/dxf2svg/svgpath"
)

// ErrConflictingTarget is returned when a name is registered both as
// a gang and as a collaborate target.
var ErrConflictingTarget = errors.New("layer registered both as gang and collaborate target")

// Mode selects how the animations of a layer are attached.
type Mode uint8

const (
	// Whole attaches the animations once, to the layer group.
	Whole Mode = iota
	// Gang attaches the animations to each path and polyline of the layer.
	Gang
	// Collaborate attaches the animations to each item of the
	// chained layer, aggregates included.
	Collaborate
)

func (m Mode) String() string {
	switch m {
	case Whole:
		return "whole"
	case Gang:
		return "gang"
	case Collaborate:
		return "collaborate"
	default:
		return "<unknown Mode>"
	}
}

// Targets records the gang and collaborate layers, by class name.
// It is filled during setup and read-only afterwards.
type Targets struct {
	modes map[string]Mode
}

func NewTargets() *Targets { return &Targets{modes: map[string]Mode{}} }

func (t *Targets) register(name string, m Mode) error {
	if prev, ok := t.modes[name]; ok && prev != m {
		return fmt.Errorf("%w: %s", ErrConflictingTarget, name)
	}
	t.modes[name] = m
	return nil
}

// Gang registers name as a gang target.
func (t *Targets) Gang(name string) error { return t.register(name, Gang) }

// Collaborate registers name as a collaborate target.
func (t *Targets) Collaborate(name string) error { return t.register(name, Collaborate) }

// Mode returns the registered mode of name, Whole by default.
func (t *Targets) Mode(name string) Mode {
	if t == nil {
		return Whole
	}
	return t.modes[name]
}

// isRun reports whether e is rendered as a path or a polyline
// with free ends.
func isRun(e svgpath.Element) bool {
	if _, _, ok := svgpath.Ends(e); !ok {
		return false
	}
	switch e.Tag() {
	case "path", "polyline":
		return true
	}
	return false
}

// Apply attaches the animations declared for name to the group,
// according to the registered mode of name. Collaborate groups are
// expected to be chained already.
// In gang mode the animated runs are pulled out of the group and
// pushed back after the other items, keeping their relative order:
// they are painted last, on top of the rest of the layer.
func Apply(g *Group, name string, table *svganim.Table, targets *Targets) {
	if g.Len() == 0 {
		return
	}
	anims := table.Lookup(name)
	if len(anims) == 0 {
		return
	}
	switch targets.Mode(name) {
	case Gang:
		var kept, runs []Item
		for _, it := range g.Items {
			if l, ok := it.(*Leaf); ok && isRun(l.Element) {
				l.animate(WireRun, anims)
				runs = append(runs, l)
			} else {
				kept = append(kept, it)
			}
		}
		g.Items = append(kept, runs...)
	case Collaborate:
		for _, it := range g.Items {
			it.animate(WireRun, anims)
		}
	default:
		g.Anims = append(g.Anims, anims...)
	}
}
