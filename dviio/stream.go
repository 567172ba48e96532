// Package dviio implements the low-level byte-oriented reader the DVI
// interpreter and virtual-font reader sit on top of: big-endian
// fixed-width integers, raw byte strings, and seek/peek/tell, with no
// partial reads ever returned.
package dviio

import (
	"bufio"
	"io"

	"github.com/texware/dvi2svg/common"
)

// Stream wraps an io.ReadSeeker with the primitives a DVI/TFM/VF
// reader needs: unsigned and signed multi-byte big-endian integers,
// raw strings, and position queries.
type Stream struct {
	r   io.ReadSeeker
	buf *bufio.Reader
	pos int64
}

// NewStream wraps rs for sequential reading starting at its current
// position.
func NewStream(rs io.ReadSeeker) *Stream {
	pos, _ := rs.Seek(0, io.SeekCurrent)
	return &Stream{r: rs, buf: bufio.NewReader(rs), pos: pos}
}

// Tell returns the stream's current logical offset.
func (s *Stream) Tell() int64 {
	return s.pos
}

// Seek moves to an absolute offset, discarding any buffered bytes.
func (s *Stream) Seek(offset int64) error {
	n, err := s.r.Seek(offset, io.SeekStart)
	if err != nil {
		return common.Wrap(common.SeekFailed, "seeking to absolute offset", err)
	}
	s.buf.Reset(s.r)
	s.pos = n
	return nil
}

// SeekRelative moves delta bytes from the current position.
func (s *Stream) SeekRelative(delta int64) error {
	return s.Seek(s.pos + delta)
}

// SeekEnd moves to delta bytes before the end of the stream (delta
// should be negative or zero), used by the multi-pass postamble scan.
func (s *Stream) SeekEnd(delta int64) error {
	n, err := s.r.Seek(delta, io.SeekEnd)
	if err != nil {
		return common.Wrap(common.SeekFailed, "seeking relative to end", err)
	}
	s.buf.Reset(s.r)
	s.pos = n
	return nil
}

// readFull reads exactly len(p) bytes or returns TruncatedInput; no
// partial reads are ever returned to the caller.
func (s *Stream) readFull(p []byte) error {
	n, err := io.ReadFull(s.buf, p)
	s.pos += int64(n)
	if err != nil {
		return common.NewErrorAt(common.TruncatedInput, "unexpected end of DVI stream", s.pos)
	}
	return nil
}

// ReadByte reads a single byte.
func (s *Stream) ReadByte() (byte, error) {
	var b [1]byte
	if err := s.readFull(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUnsigned reads an n-byte (1-4) big-endian unsigned integer.
func (s *Stream) ReadUnsigned(n int) (uint32, error) {
	var buf [4]byte
	if n < 1 || n > 4 {
		return 0, common.NewErrorAt(common.InvalidDVIFile, "unsigned integer width out of range", s.pos)
	}
	if err := s.readFull(buf[:n]); err != nil {
		return 0, err
	}
	var v uint32
	for i := 0; i < n; i++ {
		v = v<<8 | uint32(buf[i])
	}
	return v, nil
}

// ReadSigned reads an n-byte (1-4) big-endian two's-complement
// integer, sign-extended from its top bit.
func (s *Stream) ReadSigned(n int) (int32, error) {
	u, err := s.ReadUnsigned(n)
	if err != nil {
		return 0, err
	}
	signBit := uint32(1) << (uint(n)*8 - 1)
	if u&signBit != 0 {
		u |= ^uint32(0) << (uint(n) * 8)
	}
	return int32(u), nil
}

// ReadString reads n raw bytes and returns them as a string.
func (s *Stream) ReadString(n int) (string, error) {
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if err := s.readFull(buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// Peek returns the next n bytes without advancing the stream.
func (s *Stream) Peek(n int) ([]byte, error) {
	b, err := s.buf.Peek(n)
	if err != nil {
		return nil, common.NewErrorAt(common.TruncatedInput, "peeking past end of DVI stream", s.pos)
	}
	return b, nil
}

// Size returns the total length of the underlying stream.
func (s *Stream) Size() (int64, error) {
	cur := s.pos
	end, err := s.r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, common.Wrap(common.SeekFailed, "measuring stream size", err)
	}
	if err := s.Seek(cur); err != nil {
		return 0, err
	}
	return end, nil
}

// Skip advances the stream by n bytes without returning them.
func (s *Stream) Skip(n int) error {
	if n <= 0 {
		return nil
	}
	discarded, err := s.buf.Discard(n)
	s.pos += int64(discarded)
	if err != nil {
		return common.NewErrorAt(common.TruncatedInput, "skipping past end of DVI stream", s.pos)
	}
	return nil
}
