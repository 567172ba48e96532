package special

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texware/dvi2svg/color"
)

func TestColorHandlerSetsCurrentColor(t *testing.T) {
	h := NewColorHandler()
	a := newFakeActions()

	handled, err := h.Process("color", "rgb 1 0 0", a)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, color.RGB(1, 0, 0), a.Color())
}

func TestColorHandlerPushPop(t *testing.T) {
	h := NewColorHandler()
	a := newFakeActions()

	_, err := h.Process("color", "gray 0.5", a)
	require.NoError(t, err)
	base := a.Color()

	_, err = h.Process("color", "push rgb 0 1 0", a)
	require.NoError(t, err)
	assert.Equal(t, color.RGB(0, 1, 0), a.Color())

	_, err = h.Process("color", "pop", a)
	require.NoError(t, err)
	assert.Equal(t, base, a.Color())
}

func TestColorHandlerUnknownModelErrors(t *testing.T) {
	h := NewColorHandler()
	a := newFakeActions()

	_, err := h.Process("color", "notamodel", a)
	assert.Error(t, err)
}

func TestBackgroundColorHandlerSetsBackground(t *testing.T) {
	h := NewBackgroundColorHandler()
	a := newFakeActions()

	handled, err := h.Process("background", "cmyk 0 0 0 1", a)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.True(t, a.haveBG)
	assert.Equal(t, color.CMYK(0, 0, 0, 1), a.bg)
}
