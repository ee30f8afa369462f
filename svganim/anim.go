// Package svganim implements the SMIL animation elements attached to
// the layers of a drawing: set, animate, animateColor, animateTransform
// and animateMotion.
//
// Every field setter validates its value: an empty value resets the
// field, an invalid one is rejected with a *ValueError. Fields equal to
// their SVG default are never serialized.
package svganim

import (
	"fmt"
	"math"
	"strings"
)

// Animation is one of *Set, *Animate, *AnimateColor,
// *AnimateTransform or *AnimateMotion.
type Animation interface {
	// Tag returns the SVG element name.
	Tag() string
	// AttributeName returns the target attribute, or ErrUndefinedAttribute
	// when not set. AnimateMotion always returns ErrNotApplicable.
	AttributeName() (string, error)
	// Fragment serializes the animation as an SVG element.
	Fragment() (string, error)

	set(name, value string) (bool, error)
}

// Timing holds the fields common to every animation.
type Timing struct {
	to        string
	begin     string
	dur       string
	end       string
	repeatDur string
	restart   Restart
	fill      Fill

	hasRepeat   bool
	repeatCount float64 // +Inf for indefinite
}

func (t *Timing) SetTo(v string) error { t.to = v; return nil }

func (t *Timing) SetBegin(v string) error {
	if v != "" {
		if err := checkTimeList("begin", v); err != nil {
			return err
		}
	}
	t.begin = v
	return nil
}

func (t *Timing) SetEnd(v string) error {
	if v != "" {
		if err := checkTimeList("end", v); err != nil {
			return err
		}
	}
	t.end = v
	return nil
}

func (t *Timing) SetDur(v string) error {
	if v != "" {
		if err := checkDuration("dur", v, true); err != nil {
			return err
		}
	}
	t.dur = v
	return nil
}

func (t *Timing) SetRepeatDur(v string) error {
	if v != "" {
		if err := checkDuration("repeatDur", v, false); err != nil {
			return err
		}
	}
	t.repeatDur = v
	return nil
}

func (t *Timing) SetRestart(v string) (err error) {
	t.restart, err = parseEnum[Restart]("restart", v, restartNames)
	return err
}

func (t *Timing) SetFill(v string) (err error) {
	t.fill, err = parseEnum[Fill]("fill", v, fillNames)
	return err
}

// SetRepeatCount accepts a number or "indefinite". Negative numbers
// are stored as indefinite.
func (t *Timing) SetRepeatCount(v string) error {
	if v == "" {
		t.hasRepeat, t.repeatCount = false, 0
		return nil
	}
	f, err := parseRepeatCount(v)
	if err != nil {
		return err
	}
	t.hasRepeat, t.repeatCount = true, f
	return nil
}

// RepeatCount returns the repeat count and whether it is set.
func (t *Timing) RepeatCount() (float64, bool) { return t.repeatCount, t.hasRepeat }

func (t *Timing) set(name, v string) (bool, error) {
	var err error
	switch name {
	case "to":
		err = t.SetTo(v)
	case "begin":
		err = t.SetBegin(v)
	case "dur":
		err = t.SetDur(v)
	case "end":
		err = t.SetEnd(v)
	case "repeatDur":
		err = t.SetRepeatDur(v)
	case "restart":
		err = t.SetRestart(v)
	case "fill":
		err = t.SetFill(v)
	case "repeatCount":
		err = t.SetRepeatCount(v)
	default:
		return false, nil
	}
	return true, err
}

// Values holds the interpolation fields of Animate and AnimateMotion.
type Values struct {
	from       string
	by         string
	values     string
	keyTimes   string
	calcMode   CalcMode
	hasCalc    bool
	additive   Additive
	accumulate Accumulate
}

func (va *Values) SetFrom(v string) error { va.from = v; return nil }

func (va *Values) SetBy(v string) error { va.by = v; return nil }

func (va *Values) SetValues(v string) error {
	if v != "" {
		if err := checkList("values", v); err != nil {
			return err
		}
	}
	va.values = v
	return nil
}

func (va *Values) SetKeyTimes(v string) error {
	if v != "" {
		if err := checkKeyTimes(v); err != nil {
			return err
		}
	}
	va.keyTimes = v
	return nil
}

func (va *Values) SetCalcMode(v string) (err error) {
	va.calcMode, err = parseEnum[CalcMode]("calcMode", v, calcModeNames)
	va.hasCalc = err == nil && v != ""
	return err
}

func (va *Values) SetAdditive(v string) (err error) {
	va.additive, err = parseEnum[Additive]("additive", v, additiveNames)
	return err
}

func (va *Values) SetAccumulate(v string) (err error) {
	va.accumulate, err = parseEnum[Accumulate]("accumulate", v, accumulateNames)
	return err
}

func (va *Values) set(name, v string) (bool, error) {
	var err error
	switch name {
	case "from":
		err = va.SetFrom(v)
	case "by":
		err = va.SetBy(v)
	case "values":
		err = va.SetValues(v)
	case "keyTimes":
		err = va.SetKeyTimes(v)
	case "calcMode":
		err = va.SetCalcMode(v)
	case "additive":
		err = va.SetAdditive(v)
	case "accumulate":
		err = va.SetAccumulate(v)
	default:
		return false, nil
	}
	return true, err
}

// Target names the animated attribute.
type Target struct {
	attributeName string
	attributeType AttributeType
}

func (ta *Target) SetAttributeName(v string) error {
	if v != "" && !nameRe.MatchString(v) {
		return &ValueError{Field: "attributeName", Value: v, Expected: "an attribute name"}
	}
	ta.attributeName = v
	return nil
}

func (ta *Target) SetAttributeType(v string) (err error) {
	ta.attributeType, err = parseEnum[AttributeType]("attributeType", v, attributeTypeNames)
	return err
}

func (ta *Target) AttributeName() (string, error) {
	if ta.attributeName == "" {
		return "", ErrUndefinedAttribute
	}
	return ta.attributeName, nil
}

func (ta *Target) set(name, v string) (bool, error) {
	switch name {
	case "attributeName":
		return true, ta.SetAttributeName(v)
	case "attributeType":
		return true, ta.SetAttributeType(v)
	}
	return false, nil
}

// Set assigns a value to an attribute for a duration.
type Set struct {
	Timing
	Target
}

func (*Set) Tag() string { return "set" }

func (s *Set) set(name, v string) (bool, error) {
	if ok, err := s.Timing.set(name, v); ok {
		return ok, err
	}
	return s.Target.set(name, v)
}

// Animate interpolates an attribute over time.
type Animate struct {
	Timing
	Values
	Target
}

func (*Animate) Tag() string { return "animate" }

func (a *Animate) set(name, v string) (bool, error) {
	if ok, err := a.Timing.set(name, v); ok {
		return ok, err
	}
	if ok, err := a.Values.set(name, v); ok {
		return ok, err
	}
	return a.Target.set(name, v)
}

// AnimateColor interpolates a color attribute.
type AnimateColor struct {
	Animate
}

func (*AnimateColor) Tag() string { return "animateColor" }

// AnimateTransform animates the transform attribute. Its transform
// type is required.
type AnimateTransform struct {
	Animate
	kind TransformType
}

func (*AnimateTransform) Tag() string { return "animateTransform" }

func (at *AnimateTransform) SetType(v string) (err error) {
	at.kind, err = parseEnum[TransformType]("type", v, transformTypeNames)
	return err
}

// Type returns the transform type, TransformUnset if not set.
func (at *AnimateTransform) Type() TransformType { return at.kind }

// AttributeName defaults to "transform".
func (at *AnimateTransform) AttributeName() (string, error) {
	if at.attributeName == "" {
		return "transform", nil
	}
	return at.attributeName, nil
}

func (at *AnimateTransform) set(name, v string) (bool, error) {
	if name == "type" {
		return true, at.SetType(v)
	}
	return at.Animate.set(name, v)
}

// AnimateMotion moves its target along a path. It has no target attribute.
type AnimateMotion struct {
	Timing
	Values

	path   string
	origin string
	rotate string
	mpath  string // id of a path element
}

func (*AnimateMotion) Tag() string { return "animateMotion" }

// AttributeName always returns ErrNotApplicable.
func (*AnimateMotion) AttributeName() (string, error) { return "", ErrNotApplicable }

func (am *AnimateMotion) SetPath(v string) error {
	if v != "" && !strings.ContainsAny(v[:1], "Mm") {
		return &ValueError{Field: "path", Value: v, Expected: "path data starting with a move to"}
	}
	am.path = v
	return nil
}

func (am *AnimateMotion) SetOrigin(v string) error {
	if v != "" && v != "default" {
		return &ValueError{Field: "origin", Value: v, Expected: "'default'"}
	}
	am.origin = v
	return nil
}

func (am *AnimateMotion) SetRotate(v string) error {
	if v != "" {
		if err := checkRotate(v); err != nil {
			return err
		}
	}
	am.rotate = v
	return nil
}

// SetMotionPath references the path element with the given id.
func (am *AnimateMotion) SetMotionPath(id string) error {
	id = strings.TrimPrefix(id, "#")
	if id != "" && !nameRe.MatchString(id) {
		return &ValueError{Field: "mpath", Value: id, Expected: "an element id"}
	}
	am.mpath = id
	return nil
}

func (am *AnimateMotion) set(name, v string) (bool, error) {
	var err error
	switch name {
	case "path":
		err = am.SetPath(v)
	case "origin":
		err = am.SetOrigin(v)
	case "rotate":
		err = am.SetRotate(v)
	case "mpath":
		err = am.SetMotionPath(v)
	case "attributeName", "attributeType":
		return true, fmt.Errorf("%s of %s: %w", name, am.Tag(), ErrNotApplicable)
	default:
		if ok, err := am.Timing.set(name, v); ok {
			return ok, err
		}
		return am.Values.set(name, v)
	}
	return true, err
}

// New returns an empty animation for the given element name.
func New(tag string) (Animation, error) {
	switch tag {
	case "set":
		return new(Set), nil
	case "animate":
		return new(Animate), nil
	case "animateColor":
		return new(AnimateColor), nil
	case "animateTransform":
		return new(AnimateTransform), nil
	case "animateMotion":
		return new(AnimateMotion), nil
	}
	return nil, fmt.Errorf("unknown animation element <%s>", tag)
}

// SetAttr sets the field matching the SVG attribute name.
// A nil value is rejected with ErrMissingValue, an empty one resets the field.
func SetAttr(a Animation, name string, value *string) error {
	if value == nil {
		return fmt.Errorf("%s of %s: %w", name, a.Tag(), ErrMissingValue)
	}
	ok, err := a.set(name, *value)
	if !ok {
		return fmt.Errorf("%s of %s: %w", name, a.Tag(), ErrUnknownField)
	}
	return err
}

func isIndefinite(f float64) bool { return math.IsInf(f, 1) }
