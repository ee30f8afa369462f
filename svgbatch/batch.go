// Package svgbatch converts a list of drawings, one after the other.
//
// A drawing that fails is logged and skipped: the batch goes on with
// the next one. Catalog records and progress reports are issued in
// drawing order, from the calling goroutine.
package svgbatch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/benoitkugler/dxf2svg/dxfdata"
	"github.com/benoitkugler/dxf2svg/svganim"
	"github.com/benoitkugler/dxf2svg/svgconf"
	"github.com/benoitkugler/dxf2svg/svgdoc"
	"github.com/benoitkugler/dxf2svg/svglayer"
	"github.com/benoitkugler/dxf2svg/svgpath"
	"github.com/benoitkugler/dxf2svg/svgraster"
	"github.com/benoitkugler/dxf2svg/svgstyle"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Animated lists the animations written on one element of a document.
type Animated struct {
	Layer string
	// ID is the id attribute of the animated element.
	ID        string
	Fragments string
}

// Record describes one converted drawing.
type Record struct {
	Drawing string
	// Written files, empty when not produced.
	SVG, CSS, Preview string
	Viewport          svgpath.Rect
	Animations        []Animated
}

// Catalog receives the records of the converted drawings.
// Add is never called concurrently.
type Catalog interface {
	Add(Record) error
}

// Records is an in-memory Catalog.
type Records []Record

func (r *Records) Add(rec Record) error {
	*r = append(*r, rec)
	return nil
}

// Progress is called after each drawing, successful or not.
type Progress func(done, total int, drawing string)

// Batch holds the settings of a run.
type Batch struct {
	Conf *svgconf.Config
	// OutDir is the directory of the written files.
	OutDir    string
	ErrorMode dxfdata.ErrorMode
	Catalog   Catalog  // optional
	Progress  Progress // optional
	Log       *zap.Logger
}

func (b *Batch) logger() *zap.Logger {
	if b.Log == nil {
		return zap.NewNop()
	}
	return b.Log
}

// Run reads and converts the drawing files. The returned error
// combines the errors of the failed drawings (see multierr.Errors).
func (b *Batch) Run(files []string) error {
	log := b.logger()
	conv := svgdoc.NewConverter(b.Conf, log)
	var errs error
	for i, file := range files {
		d, err := dxfdata.ReadDrawing(file, b.ErrorMode, log.With(zap.String("file", file)))
		if err == nil {
			err = b.convert(conv, d)
		}
		if err != nil {
			log.Error("drawing abandoned", zap.String("file", file), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", file, err))
		}
		if b.Progress != nil {
			b.Progress(i+1, len(files), file)
		}
	}
	return errs
}

// RunDrawings converts already parsed drawings, as Run does.
func (b *Batch) RunDrawings(drawings []*dxfdata.Drawing) error {
	log := b.logger()
	conv := svgdoc.NewConverter(b.Conf, log)
	var errs error
	for i, d := range drawings {
		if err := b.convert(conv, d); err != nil {
			log.Error("drawing abandoned", zap.String("drawing", d.Name), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("drawing %q: %w", d.Name, err))
		}
		if b.Progress != nil {
			b.Progress(i+1, len(drawings), d.Name)
		}
	}
	return errs
}

func (b *Batch) convert(conv *svgdoc.Converter, d *dxfdata.Drawing) error {
	out, err := conv.Convert(d)
	if err != nil {
		return err
	}
	rec := Record{Drawing: d.Name, Viewport: out.Viewport}
	if out.CSS != nil {
		rec.CSS = filepath.Join(b.OutDir, conv.CSSName(d.Name))
		if err := os.WriteFile(rec.CSS, out.CSS, 0o644); err != nil {
			return err
		}
	}
	if out.SVG != nil {
		rec.SVG = filepath.Join(b.OutDir, d.Name+".svg")
		if err := os.WriteFile(rec.SVG, out.SVG, 0o644); err != nil {
			return err
		}
		if rec.Animations, err = animated(out.Document.Groups); err != nil {
			return err
		}
	}
	if size := b.Conf.PreviewSize; size > 0 && out.SVG != nil {
		img, err := svgraster.Preview(out, size)
		if err != nil {
			// the document is kept
			b.logger().Warn("preview skipped", zap.String("drawing", d.Name), zap.Error(err))
		} else {
			rec.Preview = filepath.Join(b.OutDir, d.Name+".png")
			if err := svgraster.Save(img, rec.Preview); err != nil {
				return err
			}
		}
	}
	if b.Catalog != nil {
		return b.Catalog.Add(rec)
	}
	return nil
}

// animated returns the animations of the groups, in document order.
func animated(groups []*svglayer.Group) ([]Animated, error) {
	var out []Animated
	add := func(layer, id string, anims []svganim.Animation) error {
		if len(anims) == 0 {
			return nil
		}
		frags, err := svganim.Fragments(anims)
		if err != nil {
			return err
		}
		out = append(out, Animated{Layer: layer, ID: id, Fragments: frags})
		return nil
	}
	for _, g := range groups {
		for _, it := range g.Items {
			var err error
			switch it := it.(type) {
			case *svglayer.Leaf:
				err = add(g.Layer, it.ID, it.Anims)
			case *svglayer.Aggregate:
				err = add(g.Layer, it.ID, it.Anims)
			}
			if err != nil {
				return nil, err
			}
		}
		if err := add(g.Layer, svgstyle.ClassName(g.Layer), g.Anims); err != nil {
			return nil, err
		}
	}
	return out, nil
}
