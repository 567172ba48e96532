package special

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmTeXLineBasic(t *testing.T) {
	h := NewEmTeXHandler()
	a := newFakeActions()
	h.BeginPage(1, a)

	_, err := h.Process("em:point", "1 0 0", a)
	require.NoError(t, err)
	_, err = h.Process("em:point", "2 100 0", a)
	require.NoError(t, err)
	_, err = h.Process("em:line", "1,2", a)
	require.NoError(t, err)

	h.EndPage(1, a)

	out := a.doc.String()
	assert.Contains(t, out, `x1="0"`)
	assert.Contains(t, out, `x2="100"`)
	assert.Contains(t, out, `y2="0"`)
}

func TestEmTeXLineCutHWithWidth(t *testing.T) {
	h := NewEmTeXHandler()
	a := newFakeActions()
	h.BeginPage(1, a)

	_, err := h.Process("em:point", "1 0 0", a)
	require.NoError(t, err)
	_, err = h.Process("em:point", "2 50 75", a)
	require.NoError(t, err)
	_, err = h.Process("em:line", "1,2h,5", a)
	require.NoError(t, err)

	h.EndPage(1, a)

	out := a.doc.String()
	// cutH forces p2.Y to p1.Y (0), so the line stays horizontal.
	assert.Contains(t, out, `y2="0"`)
	assert.Contains(t, out, `stroke-width="5"`)
}

func TestEmTeXLineSkipsUndefinedPoint(t *testing.T) {
	h := NewEmTeXHandler()
	a := newFakeActions()
	h.BeginPage(1, a)

	_, err := h.Process("em:point", "1 0 0", a)
	require.NoError(t, err)
	_, err = h.Process("em:line", "1,99", a)
	require.NoError(t, err)

	h.EndPage(1, a)

	assert.NotContains(t, a.doc.String(), "<line")
}

func TestEmTeXPointTableResetsPerPage(t *testing.T) {
	h := NewEmTeXHandler()
	a := newFakeActions()

	h.BeginPage(1, a)
	_, err := h.Process("em:point", "1 0 0", a)
	require.NoError(t, err)

	h.BeginPage(2, a)
	_, err = h.Process("em:line", "1,2", a)
	require.NoError(t, err)
	h.EndPage(2, a)

	assert.NotContains(t, a.doc.String(), "<line")
}
