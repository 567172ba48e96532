// Package xmltree is the small XML tree abstraction the SVG builder
// writes into: elements with ordered attributes and ordered children,
// text nodes that merge on adjacent append, CData and comments, and a
// document-level prolog/doctype, built on top of github.com/beevik/etree.
package xmltree

import (
	"io"
	"strconv"

	"github.com/beevik/etree"
)

// Document is the root of an XML tree: an optional xml declaration, an
// optional DOCTYPE, and a single root Element.
type Document struct {
	doc  *etree.Document
	root *Element
}

// NewDocument returns an empty document with the standard
// `<?xml version='1.0'?>` declaration.
func NewDocument() *Document {
	doc := etree.NewDocument()
	pi := doc.CreateProcInst("xml", `version='1.0'`)
	_ = pi
	return &Document{doc: doc}
}

// SetDocType installs a `<!DOCTYPE ...>` directive right after the
// xml declaration.
func (d *Document) SetDocType(text string) {
	d.doc.CreateDirective(text)
}

// SetRoot creates the document's single root element with tag name.
func (d *Document) SetRoot(name string) *Element {
	el := d.doc.CreateElement(name)
	d.root = &Element{el: el}
	return d.root
}

// Root returns the document's root element, or nil if SetRoot was
// never called.
func (d *Document) Root() *Element {
	return d.root
}

// Indent pretty-prints the document with the given space count per
// nesting level. 0 disables indentation (compact output).
func (d *Document) Indent(spaces int) {
	if spaces <= 0 {
		d.doc.Indent(etree.NoIndent)
		return
	}
	d.doc.Indent(spaces)
}

// WriteTo serialises the document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return d.doc.WriteTo(w)
}

// String serialises the document to a string.
func (d *Document) String() string {
	s, _ := d.doc.WriteToString()
	return s
}

// Element is a named node with ordered attributes and ordered
// children (elements, text, CData, comments).
type Element struct {
	el *etree.Element
}

// CreateChild appends a new child element named tag and returns it.
func (e *Element) CreateChild(tag string) *Element {
	return &Element{el: e.el.CreateElement(tag)}
}

// PrependChild inserts a new child element named tag as the first
// child of e and returns it.
func (e *Element) PrependChild(tag string) *Element {
	child := etree.NewElement(tag)
	if len(e.el.Child) == 0 {
		e.el.AddChild(child)
	} else {
		e.el.InsertChild(e.el.Child[0], child)
	}
	return &Element{el: child}
}

// RemoveChild detaches child from e, if it is a direct child.
func (e *Element) RemoveChild(child *Element) {
	e.el.RemoveChild(child.el)
}

// SetAttr sets (or overwrites) a string attribute, preserving
// insertion order for attributes set for the first time.
func (e *Element) SetAttr(name, value string) *Element {
	e.el.CreateAttr(name, value)
	return e
}

// SetAttrNum sets a numeric attribute formatted with precision
// significant digits, trailing zeros stripped (precision <= 0 uses
// the core default of 6 significant digits).
func (e *Element) SetAttrNum(name string, value float64, precision int) *Element {
	return e.SetAttr(name, FormatNum(value, precision))
}

// RemoveAttr removes an attribute if present.
func (e *Element) RemoveAttr(name string) {
	e.el.RemoveAttr(name)
}

// AppendText appends character data. If the element's last child is
// already a text node, the new text is merged into it instead of
// creating a second adjacent text node.
func (e *Element) AppendText(text string) {
	children := e.el.Child
	if n := len(children); n > 0 {
		if cd, ok := children[n-1].(*etree.CharData); ok && !cd.IsCData() {
			cd.Data += text
			return
		}
	}
	e.el.CreateText(text)
}

// AppendCData appends a literal CDATA section (never merged with
// adjacent text, passed through without escaping).
func (e *Element) AppendCData(text string) {
	e.el.CreateCData(text)
}

// AppendComment appends an XML comment.
func (e *Element) AppendComment(text string) {
	e.el.CreateComment(text)
}

// ChildCount returns the number of direct children (elements, text,
// CData, comments) of e.
func (e *Element) ChildCount() int {
	return len(e.el.Child)
}

func textNodeCount(el *etree.Element) int {
	n := 0
	for _, c := range el.Child {
		if _, ok := c.(*etree.CharData); ok {
			n++
		}
	}
	return n
}

// FormatNum renders v with precision significant digits (<=0 means the
// core default of 6), trailing zeros and a trailing decimal point
// stripped, matching the formatting used for every numeric XML
// attribute the SVG builder writes.
func FormatNum(v float64, precision int) string {
	if precision <= 0 {
		precision = 6
	}
	s := strconv.FormatFloat(v, 'g', precision, 64)
	return s
}
