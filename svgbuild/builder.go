// Package svgbuild implements the SVG builder (C14): it receives
// page-level events from the DVI interpreter and special-command
// dispatcher and assembles an xmltree.Document, tracking the current
// cursor, colour and matrix, accumulating the per-page and global
// bounding box, and deferring glyph-definition emission until every
// page has been walked (§4.14).
package svgbuild

import (
	"fmt"

	"github.com/texware/dvi2svg/color"
	"github.com/texware/dvi2svg/dvi"
	"github.com/texware/dvi2svg/font"
	"github.com/texware/dvi2svg/geom"
	"github.com/texware/dvi2svg/special"
	"github.com/texware/dvi2svg/xmltree"
)

// Mode selects how glyphs are represented in the output (§4.14).
type Mode int

const (
	// PathMode inlines each distinct glyph outline once in <defs> and
	// references it from page groups with <use>.
	PathMode Mode = iota
	// FontMode embeds an SVG <font> element and draws characters as
	// <text> runs.
	FontMode
)

// Options configures a Builder.
type Options struct {
	Mode Mode
	// ExactGlyphBoxes enables tight per-glyph bounding boxes computed
	// from the traced outline; when false, boxes are estimated from
	// the TFM width/height/depth/italic metrics only.
	ExactGlyphBoxes bool
	// Precision is the number of significant digits used for numeric
	// SVG attributes; <= 0 defaults to 6.
	Precision int
}

// Builder implements dvi.Visitor and special.Actions, translating DVI
// page events and special commands into an SVG document.
type Builder struct {
	opts      Options
	precision int
	fonts     *font.Manager
	doc     *xmltree.Document
	root    *xmltree.Element
	defs    *xmltree.Element
	page    *xmltree.Element // current <g id="pageN"> element
	context []*xmltree.Element // AppendToPage target stack; top is the active one

	pageNumber int
	globalBox  geom.BoundingBox

	cursorX, cursorY float64
	matrix           geom.Matrix
	colors           color.Stack
	background       color.Color
	haveBackground   bool

	pageBox   geom.BoundingBox
	namedBoxes map[string]*geom.BoundingBox

	// text-run state for FontMode (§4.14)
	textEl     *xmltree.Element
	textOpenAt struct{ x, y float64 }
	textValid  bool
	runFont    *font.Handle
	runColor   color.Color
	runMatrix  geom.Matrix

	usage     []glyphUse
	seenUsage map[usageKey]bool

	dispatcher *special.Dispatcher

	progress func(consumed, total int64)
}

type glyphUse struct {
	handle *font.Handle
	code   int
}

type usageKey struct {
	globalID int
	scaled   float64
	code     int
}

// NewBuilder returns a Builder with an empty document, ready to
// receive BeginPage/EndPage calls driven by the interpreter.
func NewBuilder(fonts *font.Manager, dispatcher *special.Dispatcher, opts Options) *Builder {
	doc := xmltree.NewDocument()
	root := doc.SetRoot("svg")
	root.SetAttr("xmlns", "http://www.w3.org/2000/svg")
	root.SetAttr("xmlns:xlink", "http://www.w3.org/1999/xlink")
	defs := root.CreateChild("defs")

	precision := opts.Precision
	if precision <= 0 {
		precision = 6
	}

	b := &Builder{
		opts:       opts,
		precision:  precision,
		fonts:      fonts,
		doc:        doc,
		root:       root,
		defs:       defs,
		matrix:     geom.Identity(),
		namedBoxes: map[string]*geom.BoundingBox{},
		seenUsage:  map[usageKey]bool{},
		dispatcher: dispatcher,
	}
	return b
}

// Document returns the (not yet finalised) document tree.
func (b *Builder) Document() *xmltree.Document {
	return b.doc
}

// SetProgress installs a callback invoked by special handlers that
// report progress through a long special.
func (b *Builder) SetProgress(fn func(consumed, total int64)) {
	b.progress = fn
}

// ---- dvi.Visitor ----

var _ dvi.Visitor = (*Builder)(nil)

// BeginPage implements dvi.Visitor.
func (b *Builder) BeginPage(pageNumber int, counters dvi.PageCounters) {
	b.pageNumber = pageNumber
	b.cursorX, b.cursorY = 0, 0
	b.matrix = geom.Identity()
	b.colors = color.Stack{}
	b.haveBackground = false
	b.pageBox = geom.NewBoundingBox()
	b.namedBoxes = map[string]*geom.BoundingBox{}
	b.textValid = false

	g := b.root.CreateChild("g")
	g.SetAttr("id", fmt.Sprintf("page%d", pageNumber))
	b.page = g
	b.context = []*xmltree.Element{g}

	if b.dispatcher != nil {
		b.dispatcher.BeginPage(pageNumber, b)
	}
}

// EndPage implements dvi.Visitor.
func (b *Builder) EndPage(pageNumber int) {
	b.closeTextRun()
	if b.dispatcher != nil {
		b.dispatcher.EndPage(pageNumber, b)
	}
	if b.haveBackground {
		rect := b.page.PrependChild("rect")
		rect.SetAttrNum("x", b.pageBox.MinX, b.precision)
		rect.SetAttrNum("y", b.pageBox.MinY, b.precision)
		rect.SetAttrNum("width", b.pageBox.Width(), b.precision)
		rect.SetAttrNum("height", b.pageBox.Height(), b.precision)
		rect.SetAttr("fill", b.background.String())
	}
	transformed := b.pageBox
	transformed.Transform(b.matrix)
	b.globalBox.EmbedBox(transformed)
}

// SetFont implements dvi.Visitor.
func (b *Builder) SetFont(localID int, fnt *font.Handle) {
	b.closeTextRun()
	b.runFont = fnt
}

// MoveToX implements dvi.Visitor: breaks run continuity so the next
// SetChar starts a fresh <text> run rather than assuming contiguous
// advance (§4.14).
func (b *Builder) MoveToX() {
	b.textValid = false
}

// MoveToY implements dvi.Visitor.
func (b *Builder) MoveToY() {
	b.textValid = false
}

// Special implements dvi.Visitor, forwarding every special payload to
// the dispatcher; dispatcher errors never abort the conversion (§4.12).
func (b *Builder) Special(text string) {
	if b.dispatcher != nil {
		b.dispatcher.Dispatch(text, b)
	}
}

// SetChar implements dvi.Visitor.
func (b *Builder) SetChar(x, y float64, c int, vertical bool, fnt *font.Handle) {
	b.embedGlyphBox(x, y, fnt, c)
	b.recordUsage(fnt, c)

	switch b.opts.Mode {
	case FontMode:
		b.setCharFontMode(x, y, c, fnt)
	default:
		b.setCharPathMode(x, y, c, fnt)
	}
	b.cursorX, b.cursorY = x, y
}

// SetRule implements dvi.Visitor. The DVI y-axis is baseline-up, so a
// rule of height h at reference (x, y) occupies [y-h, y] (§4.10
// scenario 9): the emitted rect's y attribute is therefore y-h.
func (b *Builder) SetRule(x, y, h, w float64) {
	b.closeTextRun()
	el := b.AppendToPage("rect")
	el.SetAttrNum("x", x, b.precision)
	el.SetAttrNum("y", y-h, b.precision)
	el.SetAttrNum("width", w, b.precision)
	el.SetAttrNum("height", h, b.precision)
	if !b.matrix.IsIdentity() {
		el.SetAttr("transform", b.matrix.String())
	}
	if c := b.Color(); c != color.Black {
		el.SetAttr("fill", c.String())
	}

	box := geom.NewBoundingBox()
	box.Embed(geom.Point{X: x, Y: y - h})
	box.Embed(geom.Point{X: x + w, Y: y})
	box.Transform(b.matrix)
	b.embedBox(box)
}

func (b *Builder) embedGlyphBox(x, y float64, fnt *font.Handle, c int) {
	var box geom.BoundingBox
	if b.opts.ExactGlyphBoxes {
		outline, err := fnt.Outline(c)
		if err == nil && !outline.Empty() {
			box = outline.ComputeBBox()
			box.Transform(geom.Translation(x, y))
		} else {
			box = estimateGlyphBox(x, y, fnt, c)
		}
	} else {
		box = estimateGlyphBox(x, y, fnt, c)
	}
	box.Transform(b.matrix)
	b.embedBox(box)
}

func estimateGlyphBox(x, y float64, fnt *font.Handle, c int) geom.BoundingBox {
	box := geom.NewBoundingBox()
	if fnt.Metrics == nil {
		box.Embed(geom.Point{X: x, Y: y})
		return box
	}
	scale := 1.0
	if design := fnt.Metrics.DesignSize(); design != 0 {
		scale = fnt.ScaledSize / design
	}
	w := fnt.Metrics.CharWidth(c)*scale + fnt.Metrics.ItalicCorr(c)*scale
	h := fnt.Metrics.CharHeight(c) * scale
	d := fnt.Metrics.CharDepth(c) * scale
	box.Embed(geom.Point{X: x, Y: y - h})
	box.Embed(geom.Point{X: x + w, Y: y + d})
	return box
}

func (b *Builder) embedBox(box geom.BoundingBox) {
	b.pageBox.EmbedBox(box)
	for _, nb := range b.namedBoxes {
		if !nb.Locked() {
			nb.EmbedBox(box)
		}
	}
}

func (b *Builder) recordUsage(fnt *font.Handle, c int) {
	key := usageKey{globalID: b.fonts.GlobalID(fnt), scaled: fnt.ScaledSize, code: c}
	if b.seenUsage[key] {
		return
	}
	b.seenUsage[key] = true
	b.usage = append(b.usage, glyphUse{handle: fnt, code: c})
}

func (b *Builder) setCharPathMode(x, y float64, c int, fnt *font.Handle) {
	id := glyphID(b.fonts.GlobalID(fnt), c)
	el := b.AppendToPage("use")
	el.SetAttr("xlink:href", "#"+id)

	canonical := fnt.UniqueFont()
	ratio := 1.0
	if canonical.ScaledSize != 0 {
		ratio = fnt.ScaledSize / canonical.ScaledSize
	}
	if approxEqual(ratio, 1) {
		el.SetAttrNum("x", x, b.precision)
		el.SetAttrNum("y", y, b.precision)
	} else {
		el.SetAttr("transform", fmt.Sprintf("translate(%s %s) scale(%s)",
			geom.FormatNum(x), geom.FormatNum(y), geom.FormatNum(ratio)))
	}
	if c := b.Color(); c != color.Black {
		el.SetAttr("fill", c.String())
	}
}

func approxEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-6
}

func glyphID(globalID, code int) string {
	return fmt.Sprintf("g%d-%d", globalID, code)
}

func (b *Builder) setCharFontMode(x, y float64, c int, fnt *font.Handle) {
	curColor := b.Color()
	if !b.textValid || b.runFont != fnt || curColor != b.runColor || b.matrix != b.runMatrix {
		b.openTextRun(x, y, fnt, curColor)
	}
	r := rune(c)
	if fnt.Encoding != nil {
		r = fnt.Encoding.Rune(c)
	}
	b.textEl.AppendText(string(r))
}

func (b *Builder) openTextRun(x, y float64, fnt *font.Handle, c color.Color) {
	b.closeTextRun()
	el := b.AppendToPage("text")
	el.SetAttrNum("x", x, b.precision)
	el.SetAttrNum("y", y, b.precision)
	el.SetAttr("font-family", fmt.Sprintf("font%d", b.fonts.GlobalID(fnt)))
	if c != color.Black {
		el.SetAttr("fill", c.String())
	}
	if !b.matrix.IsIdentity() {
		el.SetAttr("transform", b.matrix.String())
	}
	b.textEl = el
	b.textValid = true
	b.runFont = fnt
	b.runColor = c
	b.runMatrix = b.matrix
}

func (b *Builder) closeTextRun() {
	b.textValid = false
	b.textEl = nil
}

// ---- special.Actions ----

var _ special.Actions = (*Builder)(nil)

// Cursor implements special.Actions.
func (b *Builder) Cursor() (x, y float64) { return b.cursorX, b.cursorY }

// MoveTo implements special.Actions.
func (b *Builder) MoveTo(x, y float64) { b.cursorX, b.cursorY = x, y }

// FinishLine implements special.Actions.
func (b *Builder) FinishLine() { b.closeTextRun() }

// Color implements special.Actions.
func (b *Builder) Color() color.Color {
	return b.colors.Top()
}

// SetColor implements special.Actions.
func (b *Builder) SetColor(c color.Color) {
	b.closeTextRun()
	b.colors.Set(c)
}

// SetBackground implements special.Actions.
func (b *Builder) SetBackground(c color.Color) {
	b.background = c
	b.haveBackground = true
}

// Matrix implements special.Actions.
func (b *Builder) Matrix() geom.Matrix { return b.matrix }

// SetMatrix implements special.Actions.
func (b *Builder) SetMatrix(m geom.Matrix) {
	b.closeTextRun()
	b.matrix = m
}

// PageTransform implements special.Actions.
func (b *Builder) PageTransform() geom.Matrix { return geom.Identity() }

// AppendToPage implements special.Actions.
func (b *Builder) AppendToPage(tag string) *xmltree.Element {
	return b.top().CreateChild(tag)
}

// PrependToPage implements special.Actions.
func (b *Builder) PrependToPage(tag string) *xmltree.Element {
	return b.top().PrependChild(tag)
}

// AppendToDefs implements special.Actions.
func (b *Builder) AppendToDefs(tag string) *xmltree.Element {
	return b.defs.CreateChild(tag)
}

// PushContextElement implements special.Actions.
func (b *Builder) PushContextElement(el *xmltree.Element) {
	b.context = append(b.context, el)
}

// PopContextElement implements special.Actions.
func (b *Builder) PopContextElement() {
	if len(b.context) > 1 {
		b.context = b.context[:len(b.context)-1]
	}
}

func (b *Builder) top() *xmltree.Element {
	return b.context[len(b.context)-1]
}

// PageBox implements special.Actions.
func (b *Builder) PageBox() *geom.BoundingBox { return &b.pageBox }

// NamedBox implements special.Actions.
func (b *Builder) NamedBox(name string) *geom.BoundingBox {
	nb, ok := b.namedBoxes[name]
	if !ok {
		box := geom.NewBoundingBox()
		nb = &box
		b.namedBoxes[name] = nb
	}
	return nb
}

// Progress implements special.Actions.
func (b *Builder) Progress(consumed, total int64) {
	if b.progress != nil {
		b.progress(consumed, total)
	}
}

// GlobalBox returns the accumulated bounding box across every page
// processed so far, each transformed by that page's own matrix.
func (b *Builder) GlobalBox() geom.BoundingBox { return b.globalBox }
