package svglayer

import (
	"fmt"

	"github.com/benoitkugler/dxf2svg/svganim"
	"github.com/benoitkugler/dxf2svg/svgpath"
)

func idAttr(id string) string {
	if id == "" {
		return ""
	}
	return svgpath.Attr("id", id)
}

func attrsOf(e svgpath.Element, fn AttrFunc) string {
	if fn == nil {
		return ""
	}
	return fn(e)
}

// animChildren returns the function writing the animations, or nil
// when there is none, so that the element is self closing.
func animChildren(anims []svganim.Animation) (func(*svgpath.Encoder), error) {
	if len(anims) == 0 {
		return nil, nil
	}
	frags, err := svganim.Fragments(anims)
	if err != nil {
		return nil, err
	}
	return func(enc *svgpath.Encoder) { enc.Printf("%s", frags) }, nil
}

func (l *Leaf) encode(enc *svgpath.Encoder, attrs AttrFunc) error {
	if l.Element.Suppressed() {
		return nil
	}
	children, err := animChildren(l.Anims)
	if err != nil {
		return fmt.Errorf("element %s: %w", l.Element.ID(), err)
	}
	l.Element.Encode(enc, idAttr(l.ID)+attrsOf(l.Element, attrs), children)
	return nil
}

func (a *Aggregate) encode(enc *svgpath.Encoder, attrs AttrFunc) error {
	children, err := animChildren(a.Anims)
	if err != nil {
		return fmt.Errorf("wire run: %w", err)
	}
	enc.Printf("<g%s>\n", idAttr(a.ID))
	for _, m := range a.Members {
		if !m.Suppressed() {
			m.Encode(enc, attrsOf(m, attrs), nil)
		}
	}
	if children != nil {
		children(enc)
	}
	enc.Printf("</g>\n")
	return nil
}

// Encode writes the group as a <g> element; groupAttrs is written
// verbatim (class or style attribute).
func (g *Group) Encode(enc *svgpath.Encoder, groupAttrs string, attrs AttrFunc) error {
	children, err := animChildren(g.Anims)
	if err != nil {
		return fmt.Errorf("layer %s: %w", g.Layer, err)
	}
	enc.Printf("<g%s>\n", groupAttrs)
	for _, it := range g.Items {
		if err := it.encode(enc, attrs); err != nil {
			return fmt.Errorf("layer %s: %w", g.Layer, err)
		}
	}
	if children != nil {
		children(enc)
	}
	enc.Printf("</g>\n")
	return enc.Err()
}
