package dviio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texware/dvi2svg/common"
)

func TestReadUnsignedBigEndian(t *testing.T) {
	s := NewStream(bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04}))
	v, err := s.ReadUnsigned(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), v)
}

func TestReadUnsignedSingleByte(t *testing.T) {
	s := NewStream(bytes.NewReader([]byte{0xff}))
	v, err := s.ReadUnsigned(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xff), v)
}

func TestReadSignedNegative(t *testing.T) {
	// One byte 0xff sign-extends to -1.
	s := NewStream(bytes.NewReader([]byte{0xff}))
	v, err := s.ReadSigned(1)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), v)
}

func TestReadSignedPositiveRetainsValue(t *testing.T) {
	s := NewStream(bytes.NewReader([]byte{0x7f, 0xff}))
	v, err := s.ReadSigned(2)
	require.NoError(t, err)
	assert.Equal(t, int32(0x7fff), v)
}

func TestReadSignedThreeByteNegative(t *testing.T) {
	// 0xff 0x00 0x00 as a 3-byte two's complement value.
	s := NewStream(bytes.NewReader([]byte{0xff, 0x00, 0x00}))
	v, err := s.ReadSigned(3)
	require.NoError(t, err)
	assert.Equal(t, int32(-65536), v)
}

func TestReadStringReturnsRawBytes(t *testing.T) {
	s := NewStream(bytes.NewReader([]byte("hello")))
	v, err := s.ReadString(5)
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestTruncatedReadReturnsNoPartialData(t *testing.T) {
	s := NewStream(bytes.NewReader([]byte{0x01, 0x02}))
	_, err := s.ReadUnsigned(4)
	require.Error(t, err)
	var cerr *common.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, common.TruncatedInput, cerr.Kind)
}

func TestSeekAndTell(t *testing.T) {
	s := NewStream(bytes.NewReader([]byte{0, 1, 2, 3, 4, 5}))
	require.NoError(t, s.Seek(3))
	assert.Equal(t, int64(3), s.Tell())
	b, err := s.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(3), b)
}

func TestSeekEndForPostambleScan(t *testing.T) {
	s := NewStream(bytes.NewReader([]byte{0, 1, 2, 3, 4, 5}))
	require.NoError(t, s.SeekEnd(-1))
	b, err := s.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(5), b)
}

func TestPeekDoesNotAdvance(t *testing.T) {
	s := NewStream(bytes.NewReader([]byte{9, 8, 7}))
	peeked, err := s.Peek(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 8}, peeked)
	assert.Equal(t, int64(0), s.Tell())
	b, err := s.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(9), b)
}

func TestSkipAdvancesWithoutReturningBytes(t *testing.T) {
	s := NewStream(bytes.NewReader([]byte{0, 1, 2, 3, 4}))
	require.NoError(t, s.Skip(3))
	assert.Equal(t, int64(3), s.Tell())
	b, err := s.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(3), b)
}
