package svgconf

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/benoitkugler/dxf2svg/dxfdata"
	"github.com/benoitkugler/dxf2svg/svganim"
	"github.com/benoitkugler/dxf2svg/svgstyle"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

var errEmptyConfig = errors.New("invalid configuration file: no element")

// configCursor is used while reading configuration files
type configCursor struct {
	conf      *Config
	errorMode dxfdata.ErrorMode
}

type configFunc func(c *configCursor, attrs map[string]string) error

var configFuncs = map[string]configFunc{
	"dxf2svg":   func(*configCursor, map[string]string) error { return nil },
	"precision": precisionF,
	"fuzz":      fuzzF,
	"css":       cssF,
	"coerce":    coerceF,
	"color":     colorF,
	"languages": languagesF,
	"layer":     layerF,
	"textstyle": textStyleF,
	"require":   requireF,
	"linetypes": lineTypesF,
	"stroke":    strokeF,
	"preview":   previewF,
}

func atoi(attrs map[string]string, name string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(attrs[name]))
	if err != nil {
		return 0, fmt.Errorf("attribute %s: %w", name, err)
	}
	return i, nil
}

func atof(attrs map[string]string, name string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(attrs[name]), 64)
	if err != nil {
		return 0, fmt.Errorf("attribute %s: %w", name, err)
	}
	return f, nil
}

// optionalBool returns def when the attribute is absent.
func optionalBool(attrs map[string]string, name string, def bool) (bool, error) {
	v, ok := attrs[name]
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("attribute %s: %w", name, err)
	}
	return b, nil
}

func precisionF(c *configCursor, attrs map[string]string) error {
	p, err := atoi(attrs, "value")
	if err != nil {
		return err
	}
	c.conf.SetPrecision(p)
	return nil
}

func fuzzF(c *configCursor, attrs map[string]string) error {
	f, err := atof(attrs, "value")
	if err != nil {
		return err
	}
	return c.conf.SetFuzz(f)
}

func cssF(c *configCursor, attrs map[string]string) error {
	if v, ok := attrs["mode"]; ok {
		mode, err := svgstyle.ParseCSSMode(v, c.conf.Log)
		if err != nil {
			return err
		}
		c.conf.Mode = 0
		c.conf.AddMode(mode)
	}
	if v, ok := attrs["file"]; ok {
		c.conf.ExternalCSS = v
	}
	return nil
}

func coerceF(c *configCursor, attrs map[string]string) error {
	target, err := atoi(attrs, "target")
	if err != nil {
		return err
	}
	on, err := optionalBool(attrs, "enabled", true)
	if err != nil {
		return err
	}
	return c.conf.Palette.SetCoercion(on, target)
}

func colorF(c *configCursor, attrs map[string]string) error {
	index, err := atoi(attrs, "index")
	if err != nil {
		return err
	}
	return c.conf.Palette.SetCustom(index, attrs["value"])
}

func languagesF(c *configCursor, attrs map[string]string) (err error) {
	if v, ok := attrs["default"]; ok {
		c.conf.Style.DefaultLayer = v
	}
	if v, ok := attrs["english"]; ok {
		c.conf.EnglishLayer = v
	}
	if v, ok := attrs["french"]; ok {
		c.conf.FrenchLayer = v
	}
	if c.conf.Wrappers, err = optionalBool(attrs, "wrappers", c.conf.Wrappers); err != nil {
		return err
	}
	script, err := optionalBool(attrs, "script", !c.conf.SuppressScript)
	c.conf.SuppressScript = !script
	return err
}

func layerF(c *configCursor, attrs map[string]string) error {
	name := attrs["name"]
	if name == "" {
		return errors.New("<layer> without name")
	}
	ov := svgstyle.LayerOverride{Name: name}
	if _, ok := attrs["color"]; ok {
		v, err := atoi(attrs, "color")
		if err != nil {
			return err
		}
		ov.Color = &v
	}
	if _, ok := attrs["fill"]; ok {
		v, err := atoi(attrs, "fill")
		if err != nil {
			return err
		}
		ov.Fill = &v
	}
	if _, ok := attrs["weight"]; ok {
		v, err := atof(attrs, "weight")
		if err != nil {
			return err
		}
		ov.LineWeight = &v
	}
	if ov.Color != nil || ov.Fill != nil || ov.LineWeight != nil {
		if err := c.conf.Overrides.AddLayer(ov); err != nil {
			return err
		}
	}
	return c.conf.SetTarget(name, attrs["target"])
}

func textStyleF(c *configCursor, attrs map[string]string) error {
	return c.conf.Overrides.AddTextStyle(attrs["name"], attrs["css"])
}

func requireF(c *configCursor, attrs map[string]string) error {
	c.conf.Required = append(c.conf.Required, attrs["layer"])
	return nil
}

func lineTypesF(c *configCursor, attrs map[string]string) (err error) {
	c.conf.Style.LineTypeScale, err = atof(attrs, "scale")
	return err
}

func strokeF(c *configCursor, attrs map[string]string) error {
	var ok bool
	if v, has := attrs["cap"]; has {
		if c.conf.Style.Cap, ok = svgstyle.ParseCapMode(v); !ok {
			return fmt.Errorf("invalid cap '%s'", v)
		}
	}
	if v, has := attrs["join"]; has {
		if c.conf.Style.Join, ok = svgstyle.ParseJoinMode(v); !ok {
			return fmt.Errorf("invalid join '%s'", v)
		}
	}
	return nil
}

func previewF(c *configCursor, attrs map[string]string) (err error) {
	c.conf.PreviewSize, err = atoi(attrs, "size")
	return err
}

// animationF declares the animation element se for the layer
// named by its target attribute.
func (c *configCursor) animationF(a svganim.Animation, se xml.StartElement) error {
	target := ""
	for _, attr := range se.Attr {
		if attr.Name.Local == "target" {
			target = attr.Value
			continue
		}
		value := attr.Value
		if err := svganim.SetAttr(a, attr.Name.Local, &value); err != nil {
			return err
		}
	}
	if target == "" {
		return fmt.Errorf("<%s> without target", se.Name.Local)
	}
	c.conf.AddAnimation(target, a)
	return nil
}

func (c *configCursor) readStartElement(se xml.StartElement) error {
	if a, err := svganim.New(se.Name.Local); err == nil {
		return c.animationF(a, se)
	}
	cf, ok := configFuncs[se.Name.Local]
	if !ok {
		return c.errorMode.Unknown(c.conf.Log, se.Name.Local)
	}
	attrs := make(map[string]string, len(se.Attr))
	for _, attr := range se.Attr {
		attrs[attr.Name.Local] = attr.Value
	}
	if err := cf(c, attrs); err != nil {
		return fmt.Errorf("<%s>: %w", se.Name.Local, err)
	}
	return nil
}

// ReadConfigStream applies the settings read from stream to conf,
// and checks the result.
func ReadConfigStream(conf *Config, stream io.Reader, errMode dxfdata.ErrorMode) error {
	cursor := &configCursor{conf: conf, errorMode: errMode}
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	seenTag := false
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				if !seenTag {
					return errEmptyConfig
				}
				break
			}
			return err
		}
		if se, ok := t.(xml.StartElement); ok {
			seenTag = true
			if err = cursor.readStartElement(se); err != nil {
				return err
			}
		}
	}
	return conf.Check()
}

// ReadConfig reads the configuration file.
func ReadConfig(conf *Config, file string, errMode dxfdata.ErrorMode) error {
	fin, err := os.Open(file)
	if err != nil {
		return err
	}
	defer fin.Close()
	if err = ReadConfigStream(conf, fin, errMode); err != nil {
		return err
	}
	conf.Log.Debug("configuration read", zap.String("file", file),
		zap.Int("precision", conf.Precision()), zap.Int("animated targets", len(conf.Animations.Targets())))
	return nil
}
