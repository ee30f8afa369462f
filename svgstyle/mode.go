package svgstyle

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// CSSMode is a set of flags selecting how the style sheet is emitted.
type CSSMode uint8

const (
	// CSSOnly only produces the style sheet, without any document.
	CSSOnly CSSMode = 1 << iota
	// CSSInline writes the styles as attributes of each layer group.
	CSSInline
	// CSSDeclared writes the style sheet in the document head.
	CSSDeclared
	// CSSExternal writes the style sheet to a separate file, imported
	// by the document.
	CSSExternal
	// CSSHousePens replaces the layer colors and weights by the house pens.
	CSSHousePens
)

var modeNames = [...]struct {
	flag CSSMode
	name string
}{
	{CSSOnly, "only"},
	{CSSInline, "inline"},
	{CSSDeclared, "declared"},
	{CSSExternal, "external"},
	{CSSHousePens, "pens"},
}

// Has reports whether every flag of f is set.
func (m CSSMode) Has(f CSSMode) bool { return m&f == f }

// Add sets the flag f. Setting an already active flag is a no-op,
// reported with an info message and a false return value.
func (m *CSSMode) Add(f CSSMode, log *zap.Logger) bool {
	if m.Has(f) {
		if log != nil {
			log.Info("css mode already active", zap.Stringer("mode", f))
		}
		return false
	}
	*m |= f
	return true
}

// Sheet reports whether a style sheet (declared, external or alone) is needed.
func (m CSSMode) Sheet() bool {
	return m&(CSSOnly|CSSDeclared|CSSExternal) != 0
}

func (m CSSMode) String() string {
	var names []string
	for _, mn := range modeNames {
		if m&mn.flag != 0 {
			names = append(names, mn.name)
		}
	}
	return strings.Join(names, ",")
}

// ParseCSSMode parses a comma separated list of mode names,
// such as "declared,pens".
func ParseCSSMode(s string, log *zap.Logger) (CSSMode, error) {
	var out CSSMode
	for _, field := range strings.Split(s, ",") {
		field = strings.ToLower(strings.TrimSpace(field))
		if field == "" {
			continue
		}
		found := false
		for _, mn := range modeNames {
			if mn.name == field {
				out.Add(mn.flag, log)
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown css mode %q", field)
		}
	}
	return out, nil
}
