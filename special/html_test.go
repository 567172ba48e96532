package special

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHyperlinkOpenAndClose(t *testing.T) {
	h := NewHyperlinkHandler()
	a := newFakeActions()

	handled, err := h.Process("html:", `<a href="http://example.com">`, a)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Len(t, a.ctx, 2, "anchor pushes a context element")

	out := a.doc.String()
	assert.Contains(t, out, `xlink:href="http://example.com"`)

	handled, err = h.Process("html:", "</a>", a)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Len(t, a.ctx, 1, "closing the anchor pops the context")
}

func TestHyperlinkNameAnchor(t *testing.T) {
	h := NewHyperlinkHandler()
	a := newFakeActions()

	_, err := h.Process("html:", `<a name="dest1">`, a)
	require.NoError(t, err)

	assert.Contains(t, a.doc.String(), `id="dest1"`)
}

func TestHyperlinkChangeClosesPrevious(t *testing.T) {
	h := NewHyperlinkHandler()
	a := newFakeActions()

	_, err := h.Process("html:", `<a href="first">`, a)
	require.NoError(t, err)
	_, err = h.Process("html:", `<a href="second">`, a)
	require.NoError(t, err)

	// Opening a second anchor closes the first rather than nesting it.
	assert.Len(t, a.ctx, 2)
	assert.Contains(t, a.doc.String(), `xlink:href="first"`)
	assert.Contains(t, a.doc.String(), `xlink:href="second"`)
}

func TestHyperlinkClosingUnderrunIsNoop(t *testing.T) {
	h := NewHyperlinkHandler()
	a := newFakeActions()

	assert.NotPanics(t, func() {
		_, err := h.Process("html:", "</a>", a)
		require.NoError(t, err)
	})
	assert.Len(t, a.ctx, 1)
}

func TestHyperlinkEndPageForceClosesOpenAnchor(t *testing.T) {
	h := NewHyperlinkHandler()
	a := newFakeActions()

	_, err := h.Process("html:", `<a href="dangling">`, a)
	require.NoError(t, err)
	assert.Len(t, a.ctx, 2)

	h.EndPage(1, a)
	assert.Len(t, a.ctx, 1)
}

func TestHyperlinkUnrelatedPayloadNotHandled(t *testing.T) {
	h := NewHyperlinkHandler()
	a := newFakeActions()

	handled, err := h.Process("html:", "<span>not an anchor</span>", a)
	require.NoError(t, err)
	assert.False(t, handled)
}
