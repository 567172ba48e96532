package fontmap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDvipsStyleLine(t *testing.T) {
	m := NewMap()
	err := m.Load(strings.NewReader(`cmr10 Times-Roman <cmr10.pfb> "0.167 SlantFont"`), REPLACE)
	require.NoError(t, err)
	e := m.Lookup("cmr10")
	require.NotNil(t, e)
	assert.Equal(t, "Times-Roman", e.PSName)
	assert.Equal(t, "cmr10.pfb", e.FontFile)
	assert.InDelta(t, 0.167, e.Slant, 1e-9)
}

func TestLoadDvipdfmStyleLine(t *testing.T) {
	m := NewMap()
	err := m.Load(strings.NewReader(`cmr10 unicode cmr10.ttf -s 0.2 -b`), REPLACE)
	require.NoError(t, err)
	e := m.Lookup("cmr10")
	require.NotNil(t, e)
	assert.Equal(t, "unicode", e.EncodingFile)
	assert.Equal(t, "cmr10.ttf", e.FontFile)
	assert.InDelta(t, 0.2, e.Slant, 1e-9)
	assert.True(t, e.Bold)
}

func TestCommentLinesSkipped(t *testing.T) {
	m := NewMap()
	err := m.Load(strings.NewReader("% a comment\n# another\ncmr10 Times-Roman\n"), REPLACE)
	require.NoError(t, err)
	assert.NotNil(t, m.Lookup("cmr10"))
}

func TestApplyModes(t *testing.T) {
	m := NewMap()
	m.Apply(&Entry{TeXName: "cmr10", PSName: "A"}, APPEND)
	m.Apply(&Entry{TeXName: "cmr10", PSName: "B"}, APPEND)
	assert.Equal(t, "A", m.Lookup("cmr10").PSName)

	m.Apply(&Entry{TeXName: "cmr10", PSName: "C"}, REPLACE)
	assert.Equal(t, "C", m.Lookup("cmr10").PSName)

	m.Lookup("cmr10").Lock()
	m.Apply(&Entry{TeXName: "cmr10", PSName: "D"}, REPLACE)
	assert.Equal(t, "C", m.Lookup("cmr10").PSName)

	m.Apply(&Entry{TeXName: "cmr10"}, REMOVE)
	assert.NotNil(t, m.Lookup("cmr10"))
}

func TestDvipdfmFontFileDecorations(t *testing.T) {
	var e Entry
	parseDvipdfmFontFile(&e, "msgothic.ttc:1:!/Adobe-Japan1,Bold")
	assert.Equal(t, "msgothic.ttc", e.FontFile)
	assert.Equal(t, 1, e.TTCIndex)
	assert.True(t, e.NoEmbed)
	assert.Equal(t, "Adobe-Japan1", e.CSI)
}
