// Package special implements the special-command dispatcher and the
// concrete handlers for colour, background colour, raw SVG, TPIC,
// emTeX, hyperlink, papersize and PostScript specials (§4.12, §4.13).
package special

import (
	"github.com/texware/dvi2svg/color"
	"github.com/texware/dvi2svg/geom"
	"github.com/texware/dvi2svg/xmltree"
)

// Actions is the abstract view of the conversion state a handler is
// allowed to read and mutate (the "special actions facade", §6). The
// SVG builder implements it; handlers never touch the XML tree or the
// DVI cursor directly.
type Actions interface {
	// Cursor returns the current pen position, in pt.
	Cursor() (x, y float64)
	// MoveTo sets the pen position without drawing.
	MoveTo(x, y float64)
	// FinishLine breaks cursor continuity, forcing a fresh text span
	// on the next character (§4.14 moveToX/moveToY).
	FinishLine()

	// Color returns the current drawing colour.
	Color() color.Color
	// SetColor replaces the current drawing colour.
	SetColor(c color.Color)
	// SetBackground sets the page background colour.
	SetBackground(c color.Color)

	// Matrix returns the current local transform.
	Matrix() geom.Matrix
	// SetMatrix replaces the current local transform.
	SetMatrix(m geom.Matrix)
	// PageTransform returns the page-level transform (DVI units to
	// the viewBox), unaffected by any special's local matrix.
	PageTransform() geom.Matrix

	// AppendToPage appends a new child element to the current page
	// group and returns it.
	AppendToPage(tag string) *xmltree.Element
	// PrependToPage inserts a new child element as the first child of
	// the current page group and returns it.
	PrependToPage(tag string) *xmltree.Element
	// AppendToDefs appends a new child element to the document's defs
	// section and returns it.
	AppendToDefs(tag string) *xmltree.Element
	// PushContextElement makes el the target of subsequent
	// AppendToPage calls, for handlers that group their output (e.g.
	// the hyperlink handler's enclosing <a>).
	PushContextElement(el *xmltree.Element)
	// PopContextElement restores the previous AppendToPage target.
	PopContextElement()

	// PageBox returns the accumulating bounding box of the current
	// page, in pt.
	PageBox() *geom.BoundingBox
	// NamedBox returns (creating if necessary) the bounding box
	// tracked under name (§4.13 bbox handler).
	NamedBox(name string) *geom.BoundingBox

	// Progress reports handler progress through a long special, for
	// the same callback the driver uses for page progress.
	Progress(consumed, total int64)
}
