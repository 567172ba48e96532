package fontenc

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEncFile(t *testing.T) {
	src := "/MyEncoding [ /space /exclam /quotedbl ] def\n"
	enc, err := ParseEncFile("MyEncoding", bufio.NewReader(strings.NewReader(src)))
	require.NoError(t, err)
	assert.Equal(t, "space", enc.GlyphName(0))
	assert.Equal(t, "exclam", enc.GlyphName(1))
	assert.Equal(t, "quotedbl", enc.GlyphName(2))
	assert.Equal(t, "", enc.GlyphName(3))
}

func TestBuiltinCharmapLatin1(t *testing.T) {
	enc := BuiltinCharmap("latin1")
	require.NotNil(t, enc)
	assert.Equal(t, rune('A'), enc.Rune(0x41))
	assert.Equal(t, rune('é'), enc.Rune(0xE9))
}

func TestBuiltinCharmapUnknown(t *testing.T) {
	assert.Nil(t, BuiltinCharmap("not-a-real-codepage"))
}

func TestNullMetricsAllZero(t *testing.T) {
	var m NullMetrics
	assert.Equal(t, 0.0, m.CharWidth(65))
	assert.Equal(t, uint32(0), m.Checksum())
}
