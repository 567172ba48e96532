package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texware/dvi2svg/common"
)

func TestMatrixString(t *testing.T) {
	m := NewFromRows([3]float64{1, 2, 3}, [3]float64{4, 5, 6}, [3]float64{7, 8, 9})
	assert.Equal(t, "matrix(1 4 2 5 3 6)", m.String())
}

func TestMatrixIdentity(t *testing.T) {
	m := Identity()
	assert.True(t, m.IsIdentity())
	x, y := m.Transform(3, 4)
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 4.0, y)
}

func TestMatrixTranslateScaleCompose(t *testing.T) {
	m := Translation(10, 20).Scale(2, 3)
	x, y := m.Transform(1, 1)
	assert.Equal(t, 22.0, x)
	assert.Equal(t, 63.0, y)
}

func TestMatrixInverse(t *testing.T) {
	m := Translation(5, -3).Scale(2, 4)
	inv, err := m.Inverse()
	require.NoError(t, err)
	x, y := m.Transform(7, 9)
	xp, yp := inv.Transform(x, y)
	assert.InDelta(t, 7.0, xp, 1e-9)
	assert.InDelta(t, 9.0, yp, 1e-9)
}

func TestMatrixInverseSingular(t *testing.T) {
	m := Matrix{A: 1, B: 2, C: 2, D: 4}
	_, err := m.Inverse()
	require.Error(t, err)
	var cerr *common.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, common.SingularMatrix, cerr.Kind)
}
