package font

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFinder resolves "basename.ext" through a fixed table of fake file
// paths, so tests exercise the resolver without touching a real TEXMF
// tree.
type stubFinder struct {
	paths map[string]string // "name.ext" -> path
}

func (f *stubFinder) Find(basename, ext string) (string, bool) {
	p, ok := f.paths[basename+"."+ext]
	return p, ok
}

func TestManagerFontIdentityScenario(t *testing.T) {
	finder := &stubFinder{paths: map[string]string{"cmr10.ttf": "/fonts/cmr10.ttf"}}
	resolver := NewResolver(finder, nil)
	resolver.loadHookForTest = func(h *Handle) error {
		h.DesignSize = 10
		h.Checksum = 0xcafe
		return nil
	}

	m := NewManager(resolver)

	h10, err := m.Define(10, "cmr10", 0xcafe, 10)
	require.NoError(t, err)
	h11, err := m.Define(11, "cmr10", 0xcafe, 12)
	require.NoError(t, err)
	h9, err := m.Define(9, "cmr10", 0xcafe, 14)
	require.NoError(t, err)

	id10, _ := m.LocalID(10)
	id11, _ := m.LocalID(11)
	id9, _ := m.LocalID(9)
	assert.Equal(t, 0, id10)
	assert.Equal(t, 1, id11)
	assert.Equal(t, 2, id9)

	assert.Same(t, h10.UniqueFont(), h11.UniqueFont())
	assert.Same(t, h10.UniqueFont(), h9.UniqueFont())

	got10, err := m.GetFont(10)
	require.NoError(t, err)
	assert.False(t, got10.IsProxy())
	got11, err := m.GetFont(11)
	require.NoError(t, err)
	assert.True(t, got11.IsProxy())
}

func TestManagerEnterLeaveVF(t *testing.T) {
	finder := &stubFinder{}
	m := NewManager(&Resolver{Finder: finder, byFile: map[string]*Handle{}})
	assert.Equal(t, 1, m.Depth())
	vf := &Handle{VFFonts: []*Handle{{TeXName: "cmr10"}}}
	m.EnterVF(vf)
	assert.Equal(t, 2, m.Depth())
	h, err := m.GetFont(0)
	require.NoError(t, err)
	assert.Equal(t, "cmr10", h.TeXName)
	m.LeaveVF()
	assert.Equal(t, 1, m.Depth())
	_, err = m.GetFont(0)
	assert.Error(t, err)
}
