package fontenc

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMinimalTFM constructs a one-character TFM file (char code 65
// only) with a width of exactly half the design size, to exercise
// ParseTFM's fix_word scaling without depending on a real metric file.
func buildMinimalTFM(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	lh, bc, ec, nw, nh, nd, ni := uint16(2), uint16(65), uint16(65), uint16(2), uint16(1), uint16(1), uint16(1)
	nl, nk, ne, np := uint16(0), uint16(0), uint16(0), uint16(0)
	nChars := uint16(1)
	lf := uint16(6 + int(lh) + int(nChars) + int(nw) + int(nh) + int(nd) + int(ni) + int(nl) + int(nk) + int(ne) + int(np))

	words := []uint16{lf, lh, bc, ec, nw, nh, nd, ni, nl, nk, ne, np}
	for _, w := range words {
		binary.Write(&buf, binary.BigEndian, w)
	}

	// header: checksum fix_word, design size fix_word (10.0pt).
	binary.Write(&buf, binary.BigEndian, int32(0))
	binary.Write(&buf, binary.BigEndian, int32(10*(1<<20)))

	// char_info for code 65: width index 1, height/depth index 0, italic 0.
	buf.WriteByte(1)
	buf.WriteByte(0)
	buf.WriteByte(0)
	buf.WriteByte(0)

	// width table: index 0 unused (must map to 0), index 1 = 0.5 design units.
	binary.Write(&buf, binary.BigEndian, int32(0))
	binary.Write(&buf, binary.BigEndian, int32(1<<19))
	// height table: one entry, 0.
	binary.Write(&buf, binary.BigEndian, int32(0))
	// depth table: one entry, 0.
	binary.Write(&buf, binary.BigEndian, int32(0))
	// italic table: one entry, 0.
	binary.Write(&buf, binary.BigEndian, int32(0))

	return buf.Bytes()
}

func TestParseTFMWidth(t *testing.T) {
	data := buildMinimalTFM(t)
	m, err := ParseTFM(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 10.0, m.DesignSize())
	assert.Equal(t, 65, m.FirstChar())
	assert.Equal(t, 65, m.LastChar())
	assert.InDelta(t, 5.0, m.CharWidth(65), 1e-9)
	assert.Equal(t, 0.0, m.CharWidth(66))
}

func TestParseTFMTruncated(t *testing.T) {
	_, err := ParseTFM(bytes.NewReader([]byte{1, 2, 3}))
	require.Error(t, err)
}
