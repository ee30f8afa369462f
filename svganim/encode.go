package svganim

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/benoitkugler/dxf2svg/svgpath"
)

// attrs accumulates the non empty attributes of an element.
type attrs struct{ sb strings.Builder }

func (w *attrs) add(name, value string) {
	if value != "" {
		w.sb.WriteString(svgpath.Attr(name, value))
	}
}

func (w *attrs) String() string { return w.sb.String() }

func (t *Timing) writeTiming(w *attrs) {
	if !isZeroOffset(t.begin) {
		w.add("begin", t.begin)
	}
	if t.dur != "indefinite" {
		w.add("dur", t.dur)
	}
	w.add("end", t.end)
	if t.hasRepeat && t.repeatCount != 1 {
		w.add("repeatCount", formatCount(t.repeatCount))
	}
	w.add("repeatDur", t.repeatDur)
	if t.restart != RestartAlways {
		w.add("restart", t.restart.String())
	}
	if t.fill != FillRemove {
		w.add("fill", t.fill.String())
	}
}

func (va *Values) writeValues(w *attrs, to string, defaultCalc CalcMode) {
	w.add("from", va.from)
	w.add("to", to)
	w.add("by", va.by)
	w.add("values", va.values)
	w.add("keyTimes", va.keyTimes)
	if va.hasCalc && va.calcMode != defaultCalc {
		w.add("calcMode", va.calcMode.String())
	}
	if va.additive != AdditiveReplace {
		w.add("additive", va.additive.String())
	}
	if va.accumulate != AccumulateNone {
		w.add("accumulate", va.accumulate.String())
	}
}

func (ta *Target) writeTarget(w *attrs, name string) {
	w.add("attributeName", name)
	if ta.attributeType != AttributeAuto {
		w.add("attributeType", ta.attributeType.String())
	}
}

func formatCount(f float64) string {
	if isIndefinite(f) {
		return "indefinite"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (s *Set) Fragment() (string, error) {
	name, err := s.AttributeName()
	if err != nil {
		return "", fmt.Errorf("<%s>: %w", s.Tag(), err)
	}
	var w attrs
	s.writeTarget(&w, name)
	w.add("to", s.to)
	s.writeTiming(&w)
	return "<set" + w.String() + "/>", nil
}

func (a *Animate) fragment(tag, name string, extra func(*attrs)) string {
	var w attrs
	a.writeTarget(&w, name)
	if extra != nil {
		extra(&w)
	}
	a.writeValues(&w, a.to, CalcLinear)
	a.writeTiming(&w)
	return "<" + tag + w.String() + "/>"
}

func (a *Animate) Fragment() (string, error) {
	name, err := a.AttributeName()
	if err != nil {
		return "", fmt.Errorf("<%s>: %w", a.Tag(), err)
	}
	return a.fragment(a.Tag(), name, nil), nil
}

func (ac *AnimateColor) Fragment() (string, error) {
	name, err := ac.AttributeName()
	if err != nil {
		return "", fmt.Errorf("<%s>: %w", ac.Tag(), err)
	}
	return ac.fragment(ac.Tag(), name, nil), nil
}

func (at *AnimateTransform) Fragment() (string, error) {
	if at.kind == TransformUnset {
		return "", fmt.Errorf("<%s>: %w", at.Tag(), ErrMissingTransformType)
	}
	name, _ := at.AttributeName()
	return at.fragment(at.Tag(), name, func(w *attrs) {
		w.add("type", at.kind.String())
	}), nil
}

func (am *AnimateMotion) Fragment() (string, error) {
	var w attrs
	w.add("path", am.path)
	if am.rotate != "0" {
		w.add("rotate", am.rotate)
	}
	if am.origin != "default" {
		w.add("origin", am.origin)
	}
	am.writeValues(&w, am.to, CalcPaced)
	am.writeTiming(&w)
	if am.mpath == "" {
		return "<animateMotion" + w.String() + "/>", nil
	}
	return "<animateMotion" + w.String() + ">" +
		"<mpath" + svgpath.Attr("xlink:href", "#"+am.mpath) + "/></animateMotion>", nil
}

// Fragments serializes the animations, one per line.
func Fragments(anims []Animation) (string, error) {
	var sb strings.Builder
	for _, a := range anims {
		frag, err := a.Fragment()
		if err != nil {
			return "", err
		}
		sb.WriteString(frag)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
