package special

import (
	"github.com/texware/dvi2svg/color"
	"github.com/texware/dvi2svg/geom"
	"github.com/texware/dvi2svg/xmltree"
)

// fakeActions is a minimal, standalone Actions implementation used to
// exercise handlers without a full svgbuild.Builder.
type fakeActions struct {
	doc  *xmltree.Document
	page *xmltree.Element
	ctx  []*xmltree.Element

	x, y      float64
	color     color.Color
	bg        color.Color
	haveBG    bool
	matrix    geom.Matrix
	pageBox   geom.BoundingBox
	named     map[string]*geom.BoundingBox
	progress  []int64
}

func newFakeActions() *fakeActions {
	doc := xmltree.NewDocument()
	root := doc.SetRoot("svg")
	page := root.CreateChild("g")
	return &fakeActions{
		doc:     doc,
		page:    page,
		ctx:     []*xmltree.Element{page},
		matrix:  geom.Identity(),
		pageBox: geom.NewBoundingBox(),
		named:   map[string]*geom.BoundingBox{},
	}
}

func (f *fakeActions) Cursor() (float64, float64) { return f.x, f.y }
func (f *fakeActions) MoveTo(x, y float64)         { f.x, f.y = x, y }
func (f *fakeActions) FinishLine()                 {}

func (f *fakeActions) Color() color.Color      { return f.color }
func (f *fakeActions) SetColor(c color.Color)  { f.color = c }
func (f *fakeActions) SetBackground(c color.Color) {
	f.bg = c
	f.haveBG = true
}

func (f *fakeActions) Matrix() geom.Matrix       { return f.matrix }
func (f *fakeActions) SetMatrix(m geom.Matrix)   { f.matrix = m }
func (f *fakeActions) PageTransform() geom.Matrix { return geom.Identity() }

func (f *fakeActions) AppendToPage(tag string) *xmltree.Element {
	return f.ctx[len(f.ctx)-1].CreateChild(tag)
}

func (f *fakeActions) PrependToPage(tag string) *xmltree.Element {
	return f.ctx[len(f.ctx)-1].PrependChild(tag)
}

func (f *fakeActions) AppendToDefs(tag string) *xmltree.Element {
	return f.doc.Root().CreateChild(tag)
}

func (f *fakeActions) PushContextElement(el *xmltree.Element) {
	f.ctx = append(f.ctx, el)
}

func (f *fakeActions) PopContextElement() {
	if len(f.ctx) > 1 {
		f.ctx = f.ctx[:len(f.ctx)-1]
	}
}

func (f *fakeActions) PageBox() *geom.BoundingBox { return &f.pageBox }

func (f *fakeActions) NamedBox(name string) *geom.BoundingBox {
	if b, ok := f.named[name]; ok {
		return b
	}
	box := geom.NewBoundingBox()
	f.named[name] = &box
	return f.named[name]
}

func (f *fakeActions) Progress(consumed, total int64) {
	f.progress = append(f.progress, consumed, total)
}

var _ Actions = (*fakeActions)(nil)
