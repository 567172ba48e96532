package special

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostScriptMoveLineStroke(t *testing.T) {
	h := NewPostScriptHandler()
	a := newFakeActions()

	handled, err := h.Process("ps:", "10 20 moveto 10 50 lineto stroke", a)
	require.NoError(t, err)
	assert.True(t, handled)

	out := a.doc.String()
	assert.Contains(t, out, `d="M10 20V50"`)
	assert.Contains(t, out, `stroke="#000000"`)
	assert.Contains(t, out, `fill="none"`)
}

func TestPostScriptClosePathFill(t *testing.T) {
	h := NewPostScriptHandler()
	a := newFakeActions()

	_, err := h.Process("ps:", "0 0 moveto 10 0 lineto 10 10 lineto closepath fill", a)
	require.NoError(t, err)

	out := a.doc.String()
	assert.Contains(t, out, `d="M0 0H10V10Z"`)
	assert.Contains(t, out, `fill="#000000"`)
}

func TestPostScriptSetRGBColor(t *testing.T) {
	h := NewPostScriptHandler()
	a := newFakeActions()

	_, err := h.Process("ps:", "1 0 0 setrgbcolor", a)
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", a.Color().String())
}

func TestPostScriptSetGray(t *testing.T) {
	h := NewPostScriptHandler()
	a := newFakeActions()

	_, err := h.Process("ps:", "0.5 setgray", a)
	require.NoError(t, err)
	assert.Equal(t, "#808080", a.Color().String())
}

func TestPostScriptArithmeticFeedsMoveto(t *testing.T) {
	h := NewPostScriptHandler()
	a := newFakeActions()

	_, err := h.Process("ps:", "3 4 add 5 moveto 7 6 lineto stroke", a)
	require.NoError(t, err)

	assert.Contains(t, a.doc.String(), `d="M7 5V6"`)
}

func TestPostScriptGsaveGrestoreAreNoops(t *testing.T) {
	h := NewPostScriptHandler()
	a := newFakeActions()

	_, err := h.Process("ps:", "gsave grestore newpath", a)
	require.NoError(t, err)
	assert.NotContains(t, a.doc.String(), "<path")
}

func TestPostScriptUnknownOperatorErrors(t *testing.T) {
	h := NewPostScriptHandler()
	a := newFakeActions()

	_, err := h.Process("ps:", "frobnicate", a)
	assert.Error(t, err)
}

func TestPostScriptIfRunsBlockWhenTrue(t *testing.T) {
	h := NewPostScriptHandler()
	a := newFakeActions()

	_, err := h.Process("ps:", "1 1 eq { 1 setgray } if", a)
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", a.Color().String())
}

func TestPostScriptIfSkipsBlockWhenFalse(t *testing.T) {
	h := NewPostScriptHandler()
	a := newFakeActions()

	_, err := h.Process("ps:", "1 0 eq { 1 setgray } if", a)
	require.NoError(t, err)
	assert.Equal(t, "#000000", a.Color().String(), "color should stay at its default, the block must not have run")
}

func TestPostScriptIfElseTakesElseBranch(t *testing.T) {
	h := NewPostScriptHandler()
	a := newFakeActions()

	_, err := h.Process("ps:", "1 0 eq { 1 setgray } { 0.5 setgray } ifelse", a)
	require.NoError(t, err)
	assert.Equal(t, "#808080", a.Color().String())
}

func TestPostScriptNestedBlocksInIfElse(t *testing.T) {
	h := NewPostScriptHandler()
	a := newFakeActions()

	_, err := h.Process("ps:", "1 1 eq { 1 1 eq { 1 setgray } if } if", a)
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", a.Color().String())
}
