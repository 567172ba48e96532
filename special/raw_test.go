package special

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawSubstitutesCursorAndColor(t *testing.T) {
	h := NewRawHandler()
	a := newFakeActions()
	a.MoveTo(12, 34)

	handled, err := h.Process("dvisvgm:raw", "at {?x},{?y} color {?color}", a)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Contains(t, a.doc.String(), "at 12,34 color #000000")
}

func TestRawToDefsGoesUnderRoot(t *testing.T) {
	h := NewRawHandler()
	a := newFakeActions()

	_, err := h.Process("dvisvgm:rawdef", "<symbol/>", a)
	require.NoError(t, err)
	assert.Contains(t, a.doc.String(), "<symbol/>")
}

func TestRawMacroRecordAndPut(t *testing.T) {
	h := NewRawHandler()
	a := newFakeActions()

	_, err := h.Process("dvisvgm:rawset", "star", a)
	require.NoError(t, err)
	_, err = h.Process("dvisvgm:raw", "hello", a)
	require.NoError(t, err)
	_, err = h.Process("dvisvgm:endrawset", "", a)
	require.NoError(t, err)

	// recording a macro must not emit anything itself.
	assert.NotContains(t, a.doc.String(), "hello")

	_, err = h.Process("dvisvgm:rawput", "star", a)
	require.NoError(t, err)
	assert.Contains(t, a.doc.String(), "hello")
}

func TestRawPutUndefinedMacroErrors(t *testing.T) {
	h := NewRawHandler()
	a := newFakeActions()

	_, err := h.Process("dvisvgm:rawput", "missing", a)
	assert.Error(t, err)
}

func TestRawBBoxRelativeMode(t *testing.T) {
	h := NewRawHandler()
	a := newFakeActions()
	a.MoveTo(5, 5)

	handled, err := h.Process("dvisvgm:bbox", "r 10 20", a)
	require.NoError(t, err)
	assert.True(t, handled)

	box := a.PageBox()
	assert.True(t, box.Valid())
	assert.Equal(t, 5.0, box.MinX)
	assert.Equal(t, 5.0, box.MinY)
	assert.Equal(t, 15.0, box.MaxX)
	assert.Equal(t, 25.0, box.MaxY)
}

func TestRawBBoxNamedAndLocked(t *testing.T) {
	h := NewRawHandler()
	a := newFakeActions()

	_, err := h.Process("dvisvgm:bbox", "n myBox", a)
	require.NoError(t, err)
	_, err = h.Process("dvisvgm:bbox", "a 0 0 100 200", a)
	require.NoError(t, err)
	_, err = h.Process("dvisvgm:bbox", "f", a)
	require.NoError(t, err)

	named := a.NamedBox("myBox")
	assert.True(t, named.Valid())
	assert.Equal(t, 100.0, named.MaxX)
	assert.Equal(t, 200.0, named.MaxY)
	assert.True(t, named.Locked())

	// the default page box is untouched by the named-box commands.
	assert.False(t, a.PageBox().Valid())
}

func TestRawImgEmitsImageElement(t *testing.T) {
	h := NewRawHandler()
	a := newFakeActions()
	a.MoveTo(3, 4)

	handled, err := h.Process("dvisvgm:img", "10 20 foo.png", a)
	require.NoError(t, err)
	assert.True(t, handled)

	out := a.doc.String()
	assert.Contains(t, out, `x="3"`)
	assert.Contains(t, out, `y="4"`)
	assert.Contains(t, out, `width="10"`)
	assert.Contains(t, out, `height="20"`)
	assert.Contains(t, out, `xlink:href="foo.png"`)
}

func TestRawBBoxSubstitution(t *testing.T) {
	h := NewRawHandler()
	a := newFakeActions()

	_, err := h.Process("dvisvgm:bbox", "n labelBox", a)
	require.NoError(t, err)
	_, err = h.Process("dvisvgm:bbox", "a 0 0 100 50", a)
	require.NoError(t, err)

	_, err = h.Process("dvisvgm:raw", "box={?bbox labelBox}", a)
	require.NoError(t, err)
	assert.Contains(t, a.doc.String(), "box=0 0 100 50")
}
