package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/benoitkugler/dxf2svg/dxfdata"
	"github.com/benoitkugler/dxf2svg/svgbatch"
	"github.com/benoitkugler/dxf2svg/svgconf"
	"github.com/benoitkugler/dxf2svg/svgstyle"
	"github.com/docopt/docopt-go"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const version = "0.1"

const usage = `dxf2svg converts parsed CAD drawings to animated SVG documents.

Usage:
  dxf2svg [options] <drawing>...
  dxf2svg -h | --help
  dxf2svg --version

Options:
  -c --config=<file>     Configuration file.
  -o --out=<dir>         Output directory [default: .].
  -p --precision=<n>     Decimals of the coordinates, from 1 to 10.
  --css=<modes>          Style sheet modes, comma separated: only, inline, declared, external, pens.
  --strict               Fail on unknown elements.
  --quiet                Ignore unknown elements silently.
  --debug                Development logging.
  -h --help              Show this screen.
  --version              Show version.
`

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// setup builds the configuration from the config file and the options.
func setup(arguments map[string]interface{}, errMode dxfdata.ErrorMode, log *zap.Logger) (*svgconf.Config, error) {
	conf := svgconf.New(log)
	if file, ok := arguments["--config"].(string); ok {
		if err := svgconf.ReadConfig(conf, file, errMode); err != nil {
			return nil, fmt.Errorf("configuration %s: %w", file, err)
		}
	}
	if s, ok := arguments["--precision"].(string); ok {
		p, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid precision: %w", err)
		}
		conf.SetPrecision(p)
	}
	if s, ok := arguments["--css"].(string); ok {
		mode, err := svgstyle.ParseCSSMode(s, log)
		if err != nil {
			return nil, err
		}
		conf.Mode = mode
	}
	return conf, nil
}

func main() {
	arguments, err := docopt.Parse(usage, nil, true, version, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := newLogger(arguments["--debug"] == true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()

	errMode := dxfdata.WarnErrorMode
	if arguments["--strict"] == true {
		errMode = dxfdata.StrictErrorMode
	} else if arguments["--quiet"] == true {
		errMode = dxfdata.IgnoreErrorMode
	}

	conf, err := setup(arguments, errMode, log)
	if err != nil {
		log.Fatal("invalid setup", zap.Error(err))
	}

	outDir, _ := arguments["--out"].(string)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatal("invalid output directory", zap.Error(err))
	}

	var records svgbatch.Records
	b := svgbatch.Batch{
		Conf:      conf,
		OutDir:    outDir,
		ErrorMode: errMode,
		Catalog:   &records,
		Log:       log,
	}
	// progress is only shown on a terminal
	if term.IsTerminal(int(os.Stderr.Fd())) {
		b.Progress = func(done, total int, drawing string) {
			fmt.Fprintf(os.Stderr, "\r[%d/%d] %s\033[K", done, total, drawing)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	files, _ := arguments["<drawing>"].([]string)
	err = b.Run(files)
	failed := len(multierr.Errors(err))
	log.Info("batch done", zap.Int("converted", len(records)), zap.Int("failed", failed))
	if failed != 0 {
		_ = log.Sync()
		os.Exit(1)
	}
}
