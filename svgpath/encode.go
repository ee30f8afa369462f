package svgpath

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Frame maps drawing coordinates (Y up) to document
// coordinates (Y down): x' = x - MinX, y' = MaxY - y.
type Frame struct{ MinX, MaxY float64 }

// Encoder writes SVG fragments, formatting numbers with
// a fixed decimal precision. The first write error is kept
// and returned by Err; later writes are skipped.
type Encoder struct {
	w         io.Writer
	frame     Frame
	precision int
	err       error
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer, frame Frame, precision int) *Encoder {
	return &Encoder{w: w, frame: frame, precision: precision}
}

// WithFrame returns an encoder sharing the same output, using another frame.
// It is used to write block definitions in their local coordinates.
func (e *Encoder) WithFrame(f Frame) *Encoder {
	return &Encoder{w: e.w, frame: f, precision: e.precision}
}

// Num formats v with the encoder precision, without trailing zeros.
func (e *Encoder) Num(v float64) string {
	s := strconv.FormatFloat(v, 'f', e.precision, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// X maps and formats an abscissa.
func (e *Encoder) X(x float64) string { return e.Num(x - e.frame.MinX) }

// Y maps and formats an ordinate.
func (e *Encoder) Y(y float64) string { return e.Num(e.frame.MaxY - y) }

// Printf writes a formatted fragment.
func (e *Encoder) Printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// Err returns the first write error, if any.
func (e *Encoder) Err() error { return e.err }

// closeTag ends an opened tag: self closing when there is no children,
// or writing the children then the end tag.
func (e *Encoder) closeTag(tag string, children func(*Encoder)) {
	if children == nil {
		e.Printf("/>\n")
		return
	}
	e.Printf(">\n")
	children(e)
	e.Printf("</%s>\n", tag)
}

// Escape returns s with XML special characters escaped.
func Escape(s string) string {
	b := &bytes.Buffer{}
	if err := xml.EscapeText(b, []byte(s)); err != nil {
		panic(err)
	}
	return b.String()
}

// Attr formats one attribute, with a leading space.
func Attr(name, value string) string {
	return " " + name + `="` + Escape(value) + `"`
}
