package font

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFontNotFound(t *testing.T) {
	r := NewResolver(&stubFinder{paths: map[string]string{}}, nil)
	_, err := r.Resolve("nonexistent", 0, 10)
	require.Error(t, err)
}

func TestResolveSharesUnderlyingFont(t *testing.T) {
	finder := &stubFinder{paths: map[string]string{"cmr10.ttf": "/fonts/cmr10.ttf"}}
	r := NewResolver(finder, nil)
	r.loadHookForTest = func(h *Handle) error {
		h.DesignSize = 10
		return nil
	}
	a, err := r.Resolve("cmr10", 0, 10)
	require.NoError(t, err)
	b, err := r.Resolve("cmr10", 0, 20)
	require.NoError(t, err)
	assert.False(t, a.IsProxy())
	assert.True(t, b.IsProxy())
	assert.Equal(t, 2.0, b.scaleFactor())
}

func TestVariantForExt(t *testing.T) {
	assert.Equal(t, VariantTrueType, variantForExt(".ttf"))
	assert.Equal(t, VariantType1, variantForExt("PFB"))
	assert.Equal(t, VariantUnknown, variantForExt(".xyz"))
}
