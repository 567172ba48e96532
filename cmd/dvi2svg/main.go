// Command dvi2svg converts a DVI file, page by page, into standalone
// SVG documents.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"

	"github.com/texware/dvi2svg/common"
	"github.com/texware/dvi2svg/convert"
	"github.com/texware/dvi2svg/fontmap"
	"github.com/texware/dvi2svg/special"
	"github.com/texware/dvi2svg/svgbuild"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "dvi2svg:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("dvi2svg", flag.ContinueOnError)

	pages := fs.String("pages", "", "page range to convert, e.g. \"1-3,5,7-\" (default: every page)")
	output := fs.String("output", "%f-%p.svg", "output filename pattern (%f = input base name, %p = page number)")
	viewBox := fs.String("viewbox", "min", "viewBox policy: none, dvi, min, margin, <paper format>")
	marginStr := fs.String("margin", "", "margins in pt for -viewbox=margin, \"left,top,right,bottom\"")
	mode := fs.String("mode", "path", "glyph representation: path or font")
	exactBoxes := fs.Bool("exact-boxes", false, "compute exact glyph bounding boxes from traced outlines")
	cacheDir := fs.String("cache-dir", "", "glyph cache directory (default: XDG cache dir)")
	mapFile := fs.String("map", "", "PostScript font map file (psfonts.map syntax)")
	makeFonts := fs.Bool("make-fonts", false, "invoke Metafont to build missing bitmap fonts")
	texmfRoot := fs.String("texmf", "", "additional TEXMF root to search, beyond kpsewhich's")
	precision := fs.Int("precision", 6, "significant digits for numeric SVG attributes")
	verbose := fs.Bool("v", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected exactly one DVI file argument")
	}
	dviPath := fs.Arg(0)

	if *verbose {
		common.SetLogger(common.NewConsoleLogger(common.LogLevelInfo))
	} else {
		common.SetLogger(common.NewConsoleLogger(common.LogLevelWarning))
	}

	vbPolicy, namedFormat, err := parseViewBoxFlag(*viewBox)
	if err != nil {
		return err
	}
	margin, err := parseMargin(*marginStr)
	if err != nil {
		return err
	}
	glyphMode, err := parseMode(*mode)
	if err != nil {
		return err
	}

	dir := *cacheDir
	if dir == "" {
		dir = filepath.Join(xdg.CacheHome, "dvi2svg")
	}

	finder := newTexmfFinder(nonEmpty(*texmfRoot)...)
	cc := convert.NewContext(finder, dir, convert.Options{MayCreateFonts: *makeFonts})

	if *mapFile != "" {
		mf, err := os.Open(*mapFile)
		if err != nil {
			return fmt.Errorf("opening font map: %w", err)
		}
		defer mf.Close()
		if err := cc.Map.Load(mf, fontmap.APPEND); err != nil {
			return fmt.Errorf("loading font map: %w", err)
		}
	}

	opts := convert.Options{
		Pages:           *pages,
		ViewBox:         vbPolicy,
		MarginPt:        margin,
		NamedFormat:     namedFormat,
		Mode:            glyphMode,
		ExactGlyphBoxes: *exactBoxes,
		CacheDir:        dir,
		UserMapFile:     *mapFile,
		MayCreateFonts:  *makeFonts,
		Precision:       *precision,
	}

	baseName := strings.TrimSuffix(filepath.Base(dviPath), filepath.Ext(dviPath))
	namer := convert.DefaultOutputNamer{}

	_, err = convert.Convert(context.Background(), dviPath, cc, opts, special.NewDefaultDispatcher(),
		func(pageNumber, totalPages int, doc io.WriterTo) error {
			outPath := namer.Name(*output, baseName, pageNumber, totalPages)
			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer f.Close()
			if _, err := doc.WriteTo(f); err != nil {
				return err
			}
			common.Log.Info("dvi2svg: wrote %s", outPath)
			return nil
		})
	return err
}

func parseViewBoxFlag(s string) (convert.ViewBoxPolicy, string, error) {
	switch strings.ToLower(s) {
	case "none":
		return convert.ViewBoxNone, "", nil
	case "dvi":
		return convert.ViewBoxDVI, "", nil
	case "min", "":
		return convert.ViewBoxMin, "", nil
	case "margin":
		return convert.ViewBoxMargin, "", nil
	default:
		return convert.ViewBoxNamed, s, nil
	}
}

func parseMargin(s string) ([4]float64, error) {
	var m [4]float64
	if s == "" {
		return m, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return m, fmt.Errorf("margin must be \"left,top,right,bottom\", got %q", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return m, fmt.Errorf("invalid margin value %q: %w", p, err)
		}
		m[i] = v
	}
	return m, nil
}

func parseMode(s string) (svgbuild.Mode, error) {
	switch strings.ToLower(s) {
	case "path", "":
		return svgbuild.PathMode, nil
	case "font":
		return svgbuild.FontMode, nil
	default:
		return 0, fmt.Errorf("unknown -mode %q, want \"path\" or \"font\"", s)
	}
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
