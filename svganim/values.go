package svganim

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrMissingValue is returned when a field is set without any value.
	ErrMissingValue = errors.New("missing value")
	// ErrInvalidValue is wrapped by every *ValueError.
	ErrInvalidValue = errors.New("invalid value")
	// ErrUndefinedAttribute is returned when serializing a Set or an Animate
	// without target attribute.
	ErrUndefinedAttribute = errors.New("undefined animation target attribute")
	// ErrNotApplicable is returned when querying or setting the target
	// attribute of an AnimateMotion.
	ErrNotApplicable = errors.New("not applicable")
	// ErrMissingTransformType is returned when serializing an AnimateTransform
	// without transform type.
	ErrMissingTransformType = errors.New("missing transform type")
	// ErrUnknownField is returned when setting a field a variant does not have.
	ErrUnknownField = errors.New("unknown field")
)

// ValueError reports a value rejected by a field setter.
type ValueError struct {
	Field    string
	Value    string
	Expected string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value '%s' for %s, expected %s", e.Value, e.Field, e.Expected)
}

func (e *ValueError) Unwrap() error { return ErrInvalidValue }

// Restart is the restart behavior of an animation.
type Restart uint8

const (
	RestartAlways Restart = iota // default
	RestartNever
	RestartWhenNotActive
)

var restartNames = []string{"always", "never", "whenNotActive"}

func (r Restart) String() string { return enumName(restartNames, r) }

// Fill is the state of the target once the animation is over.
type Fill uint8

const (
	FillRemove Fill = iota // default
	FillFreeze
)

var fillNames = []string{"remove", "freeze"}

func (f Fill) String() string { return enumName(fillNames, f) }

// CalcMode is the interpolation mode. The default depends on the
// variant: linear, except for AnimateMotion which is paced.
type CalcMode uint8

const (
	CalcLinear CalcMode = iota
	CalcDiscrete
	CalcPaced
	CalcSpline
)

var calcModeNames = []string{"linear", "discrete", "paced", "spline"}

func (c CalcMode) String() string { return enumName(calcModeNames, c) }

// Additive tells whether the animation adds to the underlying value.
type Additive uint8

const (
	AdditiveReplace Additive = iota // default
	AdditiveSum
)

var additiveNames = []string{"replace", "sum"}

func (a Additive) String() string { return enumName(additiveNames, a) }

// Accumulate tells whether repetitions build upon the previous ones.
type Accumulate uint8

const (
	AccumulateNone Accumulate = iota // default
	AccumulateSum
)

var accumulateNames = []string{"none", "sum"}

func (a Accumulate) String() string { return enumName(accumulateNames, a) }

// AttributeType is the namespace of the target attribute.
type AttributeType uint8

const (
	AttributeAuto AttributeType = iota // default
	AttributeCSS
	AttributeXML
)

var attributeTypeNames = []string{"auto", "CSS", "XML"}

func (a AttributeType) String() string { return enumName(attributeTypeNames, a) }

// TransformType is the kind of an AnimateTransform. It has no default.
type TransformType uint8

const (
	TransformUnset TransformType = iota
	TransformTranslate
	TransformScale
	TransformRotate
	TransformSkewX
	TransformSkewY
)

var transformTypeNames = []string{"", "translate", "scale", "rotate", "skewX", "skewY"}

func (t TransformType) String() string { return enumName(transformTypeNames, t) }

func enumName[T ~uint8](names []string, v T) string {
	if int(v) < len(names) {
		return names[int(v)]
	}
	return fmt.Sprintf("<unknown %d>", v)
}

// parseEnum returns the index of value in names. The empty string
// resets to the zero value.
func parseEnum[T ~uint8](field, value string, names []string) (T, error) {
	if value == "" {
		return 0, nil
	}
	for i, n := range names {
		if n != "" && n == value {
			return T(i), nil
		}
	}
	var valid []string
	for _, n := range names {
		if n != "" {
			valid = append(valid, n)
		}
	}
	return 0, &ValueError{Field: field, Value: value, Expected: "one of " + strings.Join(valid, ", ")}
}

var (
	// full or partial clock value, or timecount value
	clockRe = regexp.MustCompile(`^(?:(?:\d+:)?\d{2}:\d{2}(?:\.\d+)?|\d+(?:\.\d+)?(?:h|min|s|ms)?)$`)
	// element id, with an optional event or sync base (a.end, b.click)
	eventRe = regexp.MustCompile(`^[A-Za-z_][\w.\-()]*$`)
	nameRe  = regexp.MustCompile(`^[A-Za-z_:][\w.\-:]*$`)
)

func isClock(s string) bool { return clockRe.MatchString(s) }

func isOffset(s string) bool {
	return isClock(strings.TrimLeft(s, "+-"))
}

// isTimeToken validates one item of a begin or end list.
func isTimeToken(s string) bool {
	if s == "indefinite" || isOffset(s) {
		return true
	}
	if i := strings.LastIndexAny(s, "+-"); i > 0 && isClock(strings.TrimSpace(s[i+1:])) {
		s = strings.TrimSpace(s[:i])
	}
	return eventRe.MatchString(s)
}

func isZeroOffset(s string) bool {
	switch s {
	case "0", "0s", "0ms", "+0s":
		return true
	}
	return false
}

// checkTimeList validates a semicolon separated begin or end list.
func checkTimeList(field, value string) error {
	for _, tok := range strings.Split(value, ";") {
		if tok = strings.TrimSpace(tok); !isTimeToken(tok) {
			return &ValueError{Field: field, Value: value, Expected: "offset, event or sync base values"}
		}
	}
	return nil
}

func checkDuration(field, value string, media bool) error {
	if value == "indefinite" || isClock(value) || (media && value == "media") {
		return nil
	}
	return &ValueError{Field: field, Value: value, Expected: "clock value or 'indefinite'"}
}

// checkList validates a semicolon separated list of non empty values.
func checkList(field, value string) error {
	for _, tok := range strings.Split(strings.TrimSuffix(value, ";"), ";") {
		if strings.TrimSpace(tok) == "" {
			return &ValueError{Field: field, Value: value, Expected: "semicolon separated values"}
		}
	}
	return nil
}

// checkKeyTimes validates a list of increasing times in [0, 1].
func checkKeyTimes(value string) error {
	last := -1.
	for _, tok := range strings.Split(value, ";") {
		f, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
		if err != nil || f < 0 || f > 1 || f < last {
			return &ValueError{Field: "keyTimes", Value: value, Expected: "increasing numbers in [0, 1]"}
		}
		last = f
	}
	return nil
}

// parseRepeatCount accepts 'indefinite' and numbers; negative numbers
// mean indefinite.
func parseRepeatCount(value string) (float64, error) {
	if value == "indefinite" {
		return math.Inf(1), nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) {
		return 0, &ValueError{Field: "repeatCount", Value: value, Expected: "number or 'indefinite'"}
	}
	if f < 0 {
		return math.Inf(1), nil
	}
	return f, nil
}

// checkRotate validates the rotate field of a motion.
func checkRotate(value string) error {
	if value == "auto" || value == "auto-reverse" {
		return nil
	}
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return &ValueError{Field: "rotate", Value: value, Expected: "'auto', 'auto-reverse' or an angle"}
	}
	return nil
}
