package special

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPapersizeHandlerSetsPageBox(t *testing.T) {
	h := NewPapersizeHandler()
	a := newFakeActions()

	h.BeginPage(1, a)
	handled, err := h.Process("papersize", "210mm,297mm", a)
	require.NoError(t, err)
	assert.True(t, handled)

	h.EndPage(1, a)

	box := a.PageBox()
	assert.True(t, box.Valid())
	assert.InDelta(t, 0, box.MinX, 1e-9)
	assert.InDelta(t, 0, box.MinY, 1e-9)
	assert.InDelta(t, 210*72.0/25.4, box.MaxX, 1e-6)
	assert.InDelta(t, 297*72.0/25.4, box.MaxY, 1e-6)
}

func TestPapersizeHandlerLatestEntryWins(t *testing.T) {
	h := NewPapersizeHandler()
	a := newFakeActions()

	h.BeginPage(1, a)
	_, err := h.Process("papersize", "100pt 100pt", a)
	require.NoError(t, err)

	h.BeginPage(2, a)
	_, err = h.Process("papersize", "200pt 200pt", a)
	require.NoError(t, err)

	h.EndPage(2, a)
	box := a.PageBox()
	assert.Equal(t, 200.0, box.MaxX)
	assert.Equal(t, 200.0, box.MaxY)
}
