package svgpath

// Kind identifies the drawing primitive behind an Element.
type Kind uint8

const (
	KindLine Kind = iota
	KindArc
	KindCircle
	KindPolyline
	KindText
	KindHatch
	KindInsert
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "Line"
	case KindArc:
		return "Arc"
	case KindCircle:
		return "Circle"
	case KindPolyline:
		return "Polyline"
	case KindText:
		return "Text"
	case KindHatch:
		return "Hatch"
	case KindInsert:
		return "Insert"
	default:
		return "<unknown Kind>"
	}
}

// Element is a graphic primitive produced by the drawing parser.
type Element interface {
	// ID is the identifier given by the parser (the entity handle).
	ID() string
	// Layer is the name of the owning layer.
	Layer() string
	Kind() Kind
	// Tag is the name of the SVG element the primitive is rendered with.
	Tag() string
	// Suppressed elements are kept in their group but never written.
	Suppressed() bool
	// Outline approximates the primitive by lines and cubic curves,
	// in drawing coordinates. Texts and inserts return their anchor only.
	Outline() Path
	Bounds() Rect
	// Encode writes the element. attrs is written verbatim after the tag
	// name; children, if not nil, writes the content of the element
	// (typically animations).
	Encode(enc *Encoder, attrs string, children func(*Encoder))
}

// DoubleEnded is implemented by primitives having a start and an end point.
type DoubleEnded interface {
	Element
	// Ends returns the extremities. ok is false when the primitive
	// has no free end (closed polylines).
	Ends() (start, end Point, ok bool)
}

// Ends returns the extremities of e, if it is a double ended element.
func Ends(e Element) (start, end Point, ok bool) {
	de, isDE := e.(DoubleEnded)
	if !isDE {
		return Point{}, Point{}, false
	}
	return de.Ends()
}

// SharesEnd reports whether a and b have a common extremity, within fuzz.
func SharesEnd(a, b Element, fuzz float64) bool {
	as, ae, ok := Ends(a)
	if !ok {
		return false
	}
	bs, be, ok := Ends(b)
	if !ok {
		return false
	}
	return as.Near(bs, fuzz) || as.Near(be, fuzz) || ae.Near(bs, fuzz) || ae.Near(be, fuzz)
}

// DefaultLayer is the layer of the primitives without one.
const DefaultLayer = "0"

// Base holds the fields shared by every primitive.
type Base struct {
	Handle    string
	LayerName string
	Hidden    bool
}

func (b Base) ID() string { return b.Handle }

// Layer returns the owning layer, DefaultLayer when unset.
func (b Base) Layer() string {
	if b.LayerName == "" {
		return DefaultLayer
	}
	return b.LayerName
}

func (b Base) Suppressed() bool { return b.Hidden }
