package convert

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/texware/dvi2svg/common"
	"github.com/texware/dvi2svg/dvi"
	"github.com/texware/dvi2svg/dviio"
	"github.com/texware/dvi2svg/geom"
	"github.com/texware/dvi2svg/special"
	"github.com/texware/dvi2svg/svgbuild"
	"github.com/texware/dvi2svg/xmltree"
)

// namedFormats maps the ViewBoxNamed strings this driver recognises
// to their width/height in points, matching dvips's paper.cfg entries
// most commonly referenced by TeX documents.
var namedFormats = map[string][2]float64{
	"a4":     {595.276, 841.89},
	"a5":     {419.528, 595.276},
	"letter": {612, 792},
	"legal":  {612, 1008},
}

// Page is one converted page: its SVG document and the page number it
// came from.
type Page struct {
	Number   int
	Document *svgbuild.Builder
}

// Result is the outcome of converting a whole DVI file.
type Result struct {
	TotalPages int
	Pages      []Page
}

// Convert runs the full driver flow of §4.15: resolve the page range
// against the postamble, pre-scan page 1 for PostScript headers, then
// execute each selected page through a fresh svgbuild.Builder, writing
// one SVG document per page via write.
func Convert(ctx context.Context, path string, cc *Context, opts Options, dispatcher *special.Dispatcher, write func(pageNumber, totalPages int, doc io.WriterTo) error) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	defer f.Close()

	stream := dviio.NewStream(f)

	// Step 2: one postamble scan resolves total page count, font
	// definitions and every page's byte offset; SetVisitor then lets
	// each page reuse that single scan instead of re-reading the file.
	headerCollect := &headerCollector{}
	in := dvi.NewInterpreter(stream, cc.Manager, headerCollect, dvi.Options{
		PrecomputePageLength: opts.PrecomputePageLength,
	})
	if _, err := in.ScanPostamble(ctx); err != nil {
		return nil, fmt.Errorf("convert: reading postamble: %w", err)
	}
	totalPages := in.TotalPages()

	// Step 1: resolve the requested page range against the now-known
	// total.
	ranges, err := parsePageRanges(opts.Pages, totalPages)
	if err != nil {
		return nil, err
	}
	pages := pageNumbers(ranges)

	// Step 3: pre-pass page 1 for PostScript headers so they are known
	// before any page is actually rendered, even if the first selected
	// page isn't page 1.
	var headers []string
	if totalPages > 0 {
		if err := in.ExecutePage(ctx, 1); err != nil {
			return nil, fmt.Errorf("convert: header pre-pass: %w", err)
		}
		headers = headerCollect.headers
	}

	result := &Result{TotalPages: totalPages}

	for _, pageNumber := range pages {
		builder := svgbuild.NewBuilder(cc.Manager, dispatcher, svgbuild.Options{
			Mode:            opts.Mode,
			ExactGlyphBoxes: opts.ExactGlyphBoxes,
			Precision:       opts.Precision,
		})
		if len(headers) > 0 && pageNumber == pages[0] {
			emitHeaderComment(builder, headers)
		}

		in.SetVisitor(builder)
		if err := in.ExecutePage(ctx, pageNumber); err != nil {
			return nil, fmt.Errorf("convert: page %d: %w", pageNumber, err)
		}
		builder.EmitGlyphDefs()

		applyViewBox(builder, in, opts)

		doc := builder.Document()
		doc.Indent(2)

		if write != nil {
			if err := write(pageNumber, totalPages, doc); err != nil {
				return nil, fmt.Errorf("convert: page %d: writing output: %w", pageNumber, err)
			}
		}
		result.Pages = append(result.Pages, Page{Number: pageNumber, Document: builder})
	}

	if err := cc.Close(); err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	return result, nil
}

// emitHeaderComment records the headers collected from page 1 as an
// XML comment in the first page's defs, so downstream tooling that
// post-processes the SVG can see which PostScript headers the source
// document referenced.
func emitHeaderComment(b *svgbuild.Builder, headers []string) {
	defs := b.AppendToDefs("desc")
	text := "dvi headers:"
	for _, h := range headers {
		text += " " + h
	}
	defs.AppendComment(text)
}

// applyViewBox implements §4.15 step 5: compute and set the root
// viewBox per the configured policy.
func applyViewBox(b *svgbuild.Builder, in *dvi.Interpreter, opts Options) {
	root := b.Document().Root()
	switch opts.ViewBox {
	case ViewBoxNone:
		return
	case ViewBoxDVI:
		w, h := in.PageSizePt()
		box := b.GlobalBox()
		if w <= 0 || h <= 0 {
			if !box.Valid() {
				return
			}
			w, h = box.Width(), box.Height()
		}
		minX, minY := 0.0, 0.0
		if box.Valid() {
			// Centre the drawn content within the page-sized viewBox.
			minX = box.MinX - (w-box.Width())/2
			minY = box.MinY - (h-box.Height())/2
		}
		setViewBox(root, minX, minY, w, h, opts.Precision)
	case ViewBoxMin:
		box := b.GlobalBox()
		if !box.Valid() {
			return
		}
		setViewBox(root, box.MinX, box.MinY, box.Width(), box.Height(), opts.Precision)
	case ViewBoxMargin:
		box := b.GlobalBox()
		if !box.Valid() {
			return
		}
		left, top, right, bottom := opts.MarginPt[0], opts.MarginPt[1], opts.MarginPt[2], opts.MarginPt[3]
		setViewBox(root, box.MinX-left, box.MinY-top, box.Width()+left+right, box.Height()+top+bottom, opts.Precision)
	case ViewBoxNamed:
		dims, ok := namedFormats[opts.NamedFormat]
		if !ok {
			common.Log.Warning("convert: unknown named page format %q, falling back to ViewBoxMin", opts.NamedFormat)
			box := b.GlobalBox()
			if box.Valid() {
				setViewBox(root, box.MinX, box.MinY, box.Width(), box.Height(), opts.Precision)
			}
			return
		}
		setViewBox(root, 0, 0, dims[0], dims[1], opts.Precision)
	}
}

func setViewBox(root *xmltree.Element, minX, minY, width, height float64, precision int) {
	if precision <= 0 {
		precision = 6
	}
	root.SetAttr("viewBox", fmt.Sprintf("%s %s %s %s",
		geom.FormatNum(minX), geom.FormatNum(minY), geom.FormatNum(width), geom.FormatNum(height)))
	root.SetAttrNum("width", width, precision)
	root.SetAttrNum("height", height, precision)
}
