package dvi

import "github.com/texware/dvi2svg/font"

// PageCounters holds the ten \count registers recorded at a bop.
type PageCounters [10]int32

// Visitor receives page-level events as the interpreter executes a
// page's command stream (§2, §4.11, §4.14). Implemented by the SVG
// builder; the interpreter never inspects the SVG tree itself.
type Visitor interface {
	BeginPage(pageNumber int, counters PageCounters)
	EndPage(pageNumber int)

	// SetChar places glyph code c at (x, y) in pt, in the current
	// font, vertical indicating a TB/BT writing mode.
	SetChar(x, y float64, c int, vertical bool, fnt *font.Handle)

	// SetRule draws a solid rectangle with its reference corner at
	// (x, y), height h and width w, all in pt.
	SetRule(x, y, h, w float64)

	// SetFont is called whenever fnt_num/fnt selects a new current
	// font, before any SetChar that uses it.
	SetFont(localID int, fnt *font.Handle)

	// MoveToX / MoveToY mark that the cursor changed along x or y
	// outside of a simple glyph advance, so the builder should open a
	// new run on the next SetChar (§4.14).
	MoveToX()
	MoveToY()

	// Special is called for every xxx payload, including ones the
	// dispatcher does not recognise; it never fails the conversion.
	Special(text string)
}
