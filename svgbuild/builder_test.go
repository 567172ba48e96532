package svgbuild

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/texware/dvi2svg/color"
	"github.com/texware/dvi2svg/dvi"
	"github.com/texware/dvi2svg/font"
	"github.com/texware/dvi2svg/geom"
)

// newTestManager returns a font.Manager never registered with any
// Handle, so GlobalID(h) is always 0 for any h passed to it; Builder
// never calls Resolve/Define itself, only GlobalID, so this is enough
// to exercise SetChar/EmitGlyphDefs without touching the filesystem.
func newTestManager() *font.Manager {
	return font.NewManager(font.NewResolver(nil, nil))
}

func TestBuilderSetRuleFlipsY(t *testing.T) {
	b := NewBuilder(newTestManager(), nil, Options{})
	b.BeginPage(1, dvi.PageCounters{})
	b.SetRule(10, 50, 20, 30)

	out := b.Document().String()
	assert.Contains(t, out, `x="10"`)
	assert.Contains(t, out, `y="30"`)
	assert.Contains(t, out, `width="30"`)
	assert.Contains(t, out, `height="20"`)
}

func TestBuilderSetRuleColoredFill(t *testing.T) {
	b := NewBuilder(newTestManager(), nil, Options{})
	b.BeginPage(1, dvi.PageCounters{})
	b.SetColor(color.RGB(1, 0, 0))
	b.SetRule(0, 10, 10, 10)

	assert.Contains(t, b.Document().String(), `fill="#ff0000"`)
}

func TestBuilderSetCharPathModeEmitsUse(t *testing.T) {
	b := NewBuilder(newTestManager(), nil, Options{Mode: PathMode})
	b.BeginPage(1, dvi.PageCounters{})

	fnt := &font.Handle{TeXName: "cmr10", ScaledSize: 10, UniqueName: "cmr10"}
	b.SetChar(10, 20, 65, false, fnt)
	b.EndPage(1)
	b.EmitGlyphDefs()

	out := b.Document().String()
	assert.Contains(t, out, `xlink:href="#g0-65"`)
	assert.Contains(t, out, `x="10"`)
	assert.Contains(t, out, `y="20"`)
	assert.Contains(t, out, `id="g0-65"`)
}

func TestBuilderBackgroundRectPrependedToPage(t *testing.T) {
	b := NewBuilder(newTestManager(), nil, Options{})
	b.BeginPage(1, dvi.PageCounters{})
	b.SetBackground(color.RGB(0, 1, 0))
	b.AppendToPage("mark")
	b.EndPage(1)

	out := b.Document().String()
	assert.Contains(t, out, `fill="#00ff00"`)
	assert.Less(t, strings.Index(out, "<rect"), strings.Index(out, "<mark"),
		"the background rect must be prepended ahead of content already appended to the page")
}

func TestBuilderGlobalBoxAccumulatesAcrossPages(t *testing.T) {
	b := NewBuilder(newTestManager(), nil, Options{})

	b.BeginPage(1, dvi.PageCounters{})
	b.SetRule(0, 10, 10, 10) // occupies x in [0,10], y in [0,10]
	b.EndPage(1)

	b.BeginPage(2, dvi.PageCounters{})
	b.SetRule(100, 110, 10, 10) // occupies x in [100,110], y in [100,110]
	b.EndPage(2)

	box := b.GlobalBox()
	assert.True(t, box.Valid())
	assert.Equal(t, 0.0, box.MinX)
	assert.Equal(t, 110.0, box.MaxY)
}

func TestBuilderNamedBoxTracksEmbeds(t *testing.T) {
	b := NewBuilder(newTestManager(), nil, Options{})
	b.BeginPage(1, dvi.PageCounters{})

	named := b.NamedBox("myregion")
	b.SetRule(5, 15, 10, 20)

	assert.True(t, named.Valid())
	assert.Equal(t, 5.0, named.MinX)
	assert.Equal(t, 25.0, named.MaxX)
}

func TestBuilderNamedBoxLockedIsNotEmbedded(t *testing.T) {
	b := NewBuilder(newTestManager(), nil, Options{})
	b.BeginPage(1, dvi.PageCounters{})

	named := b.NamedBox("frozen")
	named.SetExtent(0, 0, 1, 1)
	named.Lock()

	b.SetRule(50, 60, 10, 10)

	assert.Equal(t, 1.0, named.MaxX)
}

func TestBuilderFontModeTextRunGroupsAdjacentChars(t *testing.T) {
	b := NewBuilder(newTestManager(), nil, Options{Mode: FontMode})
	b.BeginPage(1, dvi.PageCounters{})

	fnt := &font.Handle{TeXName: "cmr10", ScaledSize: 10, UniqueName: "cmr10"}
	b.SetChar(0, 0, 65, false, fnt)
	b.SetChar(5, 0, 66, false, fnt)
	b.EndPage(1)

	assert.Contains(t, b.Document().String(), "AB")
}

func TestBuilderFontModeMoveBreaksRun(t *testing.T) {
	b := NewBuilder(newTestManager(), nil, Options{Mode: FontMode})
	b.BeginPage(1, dvi.PageCounters{})

	fnt := &font.Handle{TeXName: "cmr10", ScaledSize: 10, UniqueName: "cmr10"}
	b.SetChar(0, 0, 65, false, fnt)
	b.MoveToX()
	b.SetChar(50, 0, 66, false, fnt)
	b.EndPage(1)

	assert.False(t, b.textValid)
	assert.Equal(t, 2, strings.Count(b.Document().String(), "<text"))
}

func TestBuilderPushPopContextElement(t *testing.T) {
	b := NewBuilder(newTestManager(), nil, Options{})
	b.BeginPage(1, dvi.PageCounters{})

	g := b.AppendToPage("g")
	g.SetAttr("id", "nested")
	b.PushContextElement(g)
	b.AppendToPage("mark")
	b.PopContextElement()
	b.AppendToPage("other")

	out := b.Document().String()
	assert.Contains(t, out, `<g id="nested"><mark/></g>`)
	assert.Less(t, strings.Index(out, "</g>"), strings.Index(out, "<other"),
		"after popping, new content must land outside the pushed element")
}

func TestBuilderPageTransformIsIdentity(t *testing.T) {
	b := NewBuilder(newTestManager(), nil, Options{})
	assert.True(t, b.PageTransform().IsIdentity())
	assert.Equal(t, geom.Identity(), b.PageTransform())
}
