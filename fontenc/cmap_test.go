package fontenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCMapAddRangeDisjoint(t *testing.T) {
	m := NewCMap("test")
	m.AddRange(0, 9, 100)
	m.AddRange(20, 29, 200)
	assert.Equal(t, 2, m.NumRanges())
	assert.EqualValues(t, 105, m.Decode(5))
	assert.EqualValues(t, 205, m.Decode(25))
}

func TestCMapAddRangeMergesAdjacentConsistent(t *testing.T) {
	m := NewCMap("test")
	m.AddRange(0, 9, 100)
	m.AddRange(10, 19, 110)
	assert.Equal(t, 1, m.NumRanges())
	assert.EqualValues(t, 115, m.Decode(15))
}

func TestCMapAddRangeDoesNotMergeInconsistent(t *testing.T) {
	m := NewCMap("test")
	m.AddRange(0, 9, 100)
	m.AddRange(10, 19, 500) // discontinuous at the junction
	assert.Equal(t, 2, m.NumRanges())
}

func TestCMapAddRangeIdempotent(t *testing.T) {
	m := NewCMap("test")
	m.AddRange(0, 9, 100)
	before := append([]CMapRange(nil), m.ranges...)
	m.AddRange(0, 9, 100)
	assert.Equal(t, before, m.ranges)
}

func TestCMapUseCMapFallback(t *testing.T) {
	base := NewCMap("base")
	base.AddRange(0, 255, 1000)
	derived := NewCMap("derived")
	require.NoError(t, derived.SetUseCMap(base))
	derived.AddRange(0, 9, 100)
	assert.EqualValues(t, 105, derived.Decode(5))
	assert.EqualValues(t, 1050, derived.Decode(50))
}

func TestCMapUseCMapDetectsCycle(t *testing.T) {
	a := NewCMap("a")
	b := NewCMap("b")
	require.NoError(t, b.SetUseCMap(a))
	err := a.SetUseCMap(b)
	require.Error(t, err)
}
