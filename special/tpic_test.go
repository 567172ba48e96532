package special

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTPICPolygonScenario exercises the TPIC polygon flow (§4.10
// scenario 8): pn sets the pen width, a run of pa accumulates points,
// and fp emits a filled, stroked path from them.
func TestTPICPolygonScenario(t *testing.T) {
	h := NewTPICHandler()
	a := newFakeActions()
	h.BeginPage(1, a)

	_, err := h.Process("pn", " 10", a)
	require.NoError(t, err)
	_, err = h.Process("sh", " 0.25", a)
	require.NoError(t, err)

	for _, coords := range []string{"0 0", "100 0", "100 100", "0 100"} {
		_, err := h.Process("pa", coords, a)
		require.NoError(t, err)
	}
	handled, err := h.Process("fp", "", a)
	require.NoError(t, err)
	assert.True(t, handled)

	out := a.doc.String()
	assert.Contains(t, out, `d="M0 0H7.2V7.2H0"`)
	assert.Contains(t, out, `stroke-width="0.72"`)
	assert.Empty(t, h.points, "points must be cleared after flush")
}

func TestTPICDashedLineHasNoClose(t *testing.T) {
	h := NewTPICHandler()
	a := newFakeActions()
	h.BeginPage(1, a)

	for _, coords := range []string{"0 0", "100 0"} {
		_, err := h.Process("pa", coords, a)
		require.NoError(t, err)
	}
	handled, err := h.Process("da", "", a)
	require.NoError(t, err)
	assert.True(t, handled)

	out := a.doc.String()
	assert.Contains(t, out, `d="M0 0H7.2"`)
	assert.NotContains(t, out, "Z")
}

func TestTPICInvisiblePathEmitsNothing(t *testing.T) {
	h := NewTPICHandler()
	a := newFakeActions()
	h.BeginPage(1, a)

	_, err := h.Process("pa", "0 0", a)
	require.NoError(t, err)
	_, err = h.Process("pa", "100 0", a)
	require.NoError(t, err)
	handled, err := h.Process("ip", "", a)
	require.NoError(t, err)
	assert.True(t, handled)

	assert.NotContains(t, a.doc.String(), "<path")
	assert.Empty(t, h.points)
}

func TestHexPatternGrey(t *testing.T) {
	assert.Equal(t, 0.0, hexPatternGrey(""))
	assert.Equal(t, 1.0, hexPatternGrey("ff"))
	assert.Equal(t, 0.5, hexPatternGrey("f0"))
}
