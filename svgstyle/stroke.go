package svgstyle

// JoinMode type to specify how segments join.
type JoinMode uint8

// JoinMode constants determine how stroke segments bridge the gap at a join
const (
	Miter JoinMode = iota // SVG default
	Round
	Bevel
)

func (s JoinMode) String() string {
	switch s {
	case Miter:
		return "miter"
	case Round:
		return "round"
	case Bevel:
		return "bevel"
	default:
		return "<unknown JoinMode>"
	}
}

// CapMode defines how to draw caps on the ends of lines
type CapMode uint8

const (
	ButtCap CapMode = iota // SVG default
	RoundCap
	SquareCap
)

func (c CapMode) String() string {
	switch c {
	case ButtCap:
		return "butt"
	case RoundCap:
		return "round"
	case SquareCap:
		return "square"
	default:
		return "<unknown CapMode>"
	}
}

// ParseJoinMode returns the join mode named s.
func ParseJoinMode(s string) (JoinMode, bool) {
	for _, j := range [...]JoinMode{Miter, Round, Bevel} {
		if j.String() == s {
			return j, true
		}
	}
	return Miter, false
}

// ParseCapMode returns the cap mode named s.
func ParseCapMode(s string) (CapMode, bool) {
	for _, c := range [...]CapMode{ButtCap, RoundCap, SquareCap} {
		if c.String() == s {
			return c, true
		}
	}
	return ButtCap, false
}

// Pen is the plotting style associated to a color index.
type Pen struct {
	Width float64
	Color string
	Fill  string
}

// narrowPen is used by the house style for every index without a fixed pen.
var narrowPen = Pen{Width: 0.01, Color: "#000000", Fill: "none"}

// housePens are the fixed pens of the house style, indexed by ACI number.
var housePens = map[int]Pen{
	1:  {Width: 0.25, Color: "#000000", Fill: "none"},
	2:  {Width: 0.35, Color: "#000000", Fill: "none"},
	3:  {Width: 0.5, Color: "#000000", Fill: "none"},
	4:  {Width: 0.7, Color: "#000000", Fill: "none"},
	5:  {Width: 1, Color: "#000000", Fill: "none"},
	6:  {Width: 1.4, Color: "#000000", Fill: "none"},
	7:  {Width: 0.18, Color: "#000000", Fill: "none"},
	8:  {Width: 0.25, Color: "#808080", Fill: "none"},
	9:  {Width: 0.25, Color: "#C0C0C0", Fill: "none"},
	10: {Width: 0.35, Color: "#FF0000", Fill: "none"},
	11: {Width: 0.35, Color: "#0000FF", Fill: "none"},
	12: {Width: 0.35, Color: "#008000", Fill: "none"},
	13: {Width: 0.5, Color: "#000000", Fill: "#000000"},
	14: {Width: 0.25, Color: "#000000", Fill: "#FFFFFF"},
	15: {Width: 0.25, Color: "#808080", Fill: "#C0C0C0"},
	16: {Width: 0.35, Color: "#FF0000", Fill: "#FFAAAA"},
	17: {Width: 0.35, Color: "#0000FF", Fill: "#AAAAFF"},
	18: {Width: 2, Color: "#000000", Fill: "#000000"},
}

// HousePens returns the full pen table of the house style:
// 18 fixed pens, the other slots using a narrow black pen.
func HousePens() [paletteSize]Pen {
	var out [paletteSize]Pen
	for i := range out {
		if p, ok := housePens[i]; ok {
			out[i] = p
		} else {
			out[i] = narrowPen
		}
	}
	return out
}
