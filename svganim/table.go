package svganim

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Table maps target names (layer class names) to the animations
// applied to them, in declaration order.
// It is filled during setup and read-only afterwards.
type Table struct {
	decls map[string][]Animation
}

func NewTable() *Table { return &Table{decls: map[string][]Animation{}} }

// Add appends a to the animations of target.
func (t *Table) Add(target string, a Animation) {
	t.decls[target] = append(t.decls[target], a)
}

// Lookup returns the animations of target, matched exactly.
func (t *Table) Lookup(target string) []Animation {
	if t == nil {
		return nil
	}
	return t.decls[target]
}

// Targets returns the sorted target names.
func (t *Table) Targets() []string {
	keys := maps.Keys(t.decls)
	slices.Sort(keys)
	return keys
}

// Check serializes every animation once, so that invalid declarations
// are reported during setup rather than for each drawing.
func (t *Table) Check() error {
	for _, target := range t.Targets() {
		if _, err := Fragments(t.decls[target]); err != nil {
			return fmt.Errorf("animation of %s: %w", target, err)
		}
	}
	return nil
}
