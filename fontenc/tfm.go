package fontenc

import (
	"encoding/binary"
	"io"

	"github.com/texware/dvi2svg/common"
)

// ParseTFM decodes a TeX font-metric (.tfm) file into a TFMMetrics.
// The format is the classic array of 16-bit word counts followed by
// fixed arrays of 32-bit "fix_word" values scaled by the design size;
// see Knuth's tftopl for the authoritative layout this mirrors.
func ParseTFM(r io.Reader) (*TFMMetrics, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, common.Wrap(common.TruncatedInput, "reading TFM data", err)
	}
	if len(data) < 24 {
		return nil, common.NewError(common.TruncatedInput, "TFM file shorter than header")
	}
	words := make([]uint16, 12)
	for i := range words {
		words[i] = binary.BigEndian.Uint16(data[i*2 : i*2+2])
	}
	lf, lh, bc, ec, nw, nh, nd, ni, nl, nk, ne, np := words[0], words[1], words[2], words[3],
		words[4], words[5], words[6], words[7], words[8], words[9], words[10], words[11]
	_ = ne
	_ = nl
	_ = nk
	_ = np

	need := int(lf) * 4
	if len(data) < need {
		return nil, common.NewError(common.TruncatedInput, "TFM file shorter than declared length")
	}

	off := 24
	var checksum uint32
	var designSize float64
	if lh >= 1 {
		checksum = binary.BigEndian.Uint32(data[off : off+4])
	}
	if lh >= 2 {
		designSize = float64(int32(binary.BigEndian.Uint32(data[off+4:off+8]))) / (1 << 20)
	}
	off += int(lh) * 4

	nChars := 0
	if ec >= bc {
		nChars = int(ec-bc) + 1
	}
	charInfo := data[off : off+nChars*4]
	off += nChars * 4

	widths := readFixWords(data, off, int(nw))
	off += int(nw) * 4
	heights := readFixWords(data, off, int(nh))
	off += int(nh) * 4
	depths := readFixWords(data, off, int(nd))
	off += int(nd) * 4
	italics := readFixWords(data, off, int(ni))

	m := &TFMMetrics{
		Design:        designSize,
		First:         int(bc),
		Last:          int(ec),
		ChecksumValue: checksum,
		Widths:        make([]float64, nChars),
		Heights:       make([]float64, nChars),
		Depths:        make([]float64, nChars),
		Italics:       make([]float64, nChars),
	}
	for i := 0; i < nChars; i++ {
		ci := charInfo[i*4 : i*4+4]
		wIdx := int(ci[0])
		hIdx := int(ci[1] >> 4)
		dIdx := int(ci[1] & 0x0f)
		iIdx := int(ci[2] >> 2)
		m.Widths[i] = scaleByDesign(widths, wIdx, designSize)
		m.Heights[i] = scaleByDesign(heights, hIdx, designSize)
		m.Depths[i] = scaleByDesign(depths, dIdx, designSize)
		m.Italics[i] = scaleByDesign(italics, iIdx, designSize)
	}
	return m, nil
}

func readFixWords(data []byte, off, count int) []float64 {
	out := make([]float64, count)
	for i := 0; i < count; i++ {
		raw := int32(binary.BigEndian.Uint32(data[off+i*4 : off+i*4+4]))
		out[i] = float64(raw) / (1 << 20)
	}
	return out
}

func scaleByDesign(table []float64, idx int, designSize float64) float64 {
	if idx < 0 || idx >= len(table) {
		return 0
	}
	return table[idx] * designSize
}
