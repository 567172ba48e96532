package fontenc

import "github.com/texware/dvi2svg/common"

// Metrics is the polymorphic font-metrics object the core depends on:
// design size, first/last character code and per-character width,
// height, depth, italic correction, plus a checksum for consistency
// with the DVI font definition.
type Metrics interface {
	DesignSize() float64
	FirstChar() int
	LastChar() int
	CharWidth(code int) float64
	CharHeight(code int) float64
	CharDepth(code int) float64
	ItalicCorr(code int) float64
	Checksum() uint32
}

// NullMetrics is the zero-valued Metrics substitute used when a
// font's metrics file cannot be found. The conversion continues with
// every character measuring zero, after the resolver has logged a
// warning.
type NullMetrics struct{}

func (NullMetrics) DesignSize() float64        { return 0 }
func (NullMetrics) FirstChar() int             { return 0 }
func (NullMetrics) LastChar() int              { return 0 }
func (NullMetrics) CharWidth(code int) float64 { return 0 }
func (NullMetrics) CharHeight(code int) float64 { return 0 }
func (NullMetrics) CharDepth(code int) float64 { return 0 }
func (NullMetrics) ItalicCorr(code int) float64 { return 0 }
func (NullMetrics) Checksum() uint32           { return 0 }

// TFMMetrics is a Metrics implementation backed by a parsed TFM
// metric table (produced by ParseTFM in this package from a .tfm file
// the font resolver locates through font.FileFinder).
type TFMMetrics struct {
	Design           float64
	First, Last      int
	Widths           []float64 // indexed by code - First
	Heights, Depths  []float64
	Italics          []float64
	ChecksumValue    uint32
}

func (m *TFMMetrics) DesignSize() float64 { return m.Design }
func (m *TFMMetrics) FirstChar() int      { return m.First }
func (m *TFMMetrics) LastChar() int       { return m.Last }
func (m *TFMMetrics) Checksum() uint32    { return m.ChecksumValue }

func (m *TFMMetrics) CharWidth(code int) float64  { return m.lookup(m.Widths, code) }
func (m *TFMMetrics) CharHeight(code int) float64 { return m.lookup(m.Heights, code) }
func (m *TFMMetrics) CharDepth(code int) float64  { return m.lookup(m.Depths, code) }
func (m *TFMMetrics) ItalicCorr(code int) float64 { return m.lookup(m.Italics, code) }

func (m *TFMMetrics) lookup(table []float64, code int) float64 {
	i := code - m.First
	if i < 0 || i >= len(table) {
		return 0
	}
	return table[i]
}

// VerifyChecksum compares a DVI-declared checksum against m's, logging
// a warning on mismatch rather than failing (§4.8 step 4).
func VerifyChecksum(name string, declared uint32, m Metrics) {
	if declared != 0 && m.Checksum() != 0 && declared != m.Checksum() {
		common.Log.Warning("fontenc: checksum mismatch for font %q: dvi=%08x metrics=%08x", name, declared, m.Checksum())
	}
}
