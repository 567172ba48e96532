package dvi

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texware/dvi2svg/dviio"
	"github.com/texware/dvi2svg/font"
)

func newTestStream(data []byte) *dviio.Stream {
	return dviio.NewStream(bytes.NewReader(data))
}

// fakeVisitor records the sequence of events dispatched by the
// interpreter, for assertion without a real SVG builder.
type fakeVisitor struct {
	events []string
	chars  []int
}

func (v *fakeVisitor) BeginPage(n int, _ PageCounters)                         { v.events = append(v.events, "begin") }
func (v *fakeVisitor) EndPage(n int)                                           { v.events = append(v.events, "end") }
func (v *fakeVisitor) SetChar(x, y float64, c int, vertical bool, fnt *font.Handle) {
	v.events = append(v.events, "char")
	v.chars = append(v.chars, c)
}
func (v *fakeVisitor) SetRule(x, y, h, w float64) { v.events = append(v.events, "rule") }
func (v *fakeVisitor) SetFont(localID int, fnt *font.Handle) { v.events = append(v.events, "font") }
func (v *fakeVisitor) MoveToX()                              { v.events = append(v.events, "movex") }
func (v *fakeVisitor) MoveToY()                               { v.events = append(v.events, "movey") }
func (v *fakeVisitor) Special(text string)                    { v.events = append(v.events, "special:"+text) }

// buildMinimalDVI constructs a one-page DVI byte stream: pre, bop,
// a single set_char_65, eop, post, post_post, with 223-fill trailer.
func buildMinimalDVI(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer

	num, den, mag := int32(25400000), int32(473628672), int32(1000)

	buf.WriteByte(opPre)
	buf.WriteByte(idDVIStandard)
	binary.Write(&buf, binary.BigEndian, num)
	binary.Write(&buf, binary.BigEndian, den)
	binary.Write(&buf, binary.BigEndian, mag)
	buf.WriteByte(0) // comment length

	bopOffset := int64(buf.Len())
	buf.WriteByte(opBop)
	for i := 0; i < 10; i++ {
		binary.Write(&buf, binary.BigEndian, int32(0))
	}
	binary.Write(&buf, binary.BigEndian, int32(-1)) // prev_bop

	buf.WriteByte(byte(opSetCharLo + 65)) // set_char_65 ('A')

	buf.WriteByte(opEop)

	postOffset := int64(buf.Len())
	buf.WriteByte(opPost)
	binary.Write(&buf, binary.BigEndian, int32(bopOffset))
	binary.Write(&buf, binary.BigEndian, num)
	binary.Write(&buf, binary.BigEndian, den)
	binary.Write(&buf, binary.BigEndian, mag)
	binary.Write(&buf, binary.BigEndian, int32(0)) // max_v
	binary.Write(&buf, binary.BigEndian, int32(0)) // max_h
	binary.Write(&buf, binary.BigEndian, int16(0)) // stack depth
	binary.Write(&buf, binary.BigEndian, int16(1)) // total pages

	buf.WriteByte(opPostPost)
	binary.Write(&buf, binary.BigEndian, int32(postOffset))
	buf.WriteByte(idDVIStandard)
	for i := 0; i < 4; i++ {
		buf.WriteByte(223)
	}

	return buf.Bytes()
}

func TestScanPostambleDiscoversOnePage(t *testing.T) {
	data := buildMinimalDVI(t)
	stream := newTestStream(data)
	v := &fakeVisitor{}
	in := NewInterpreter(stream, nil, v, Options{})
	post, err := in.ScanPostamble(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int16(1), post.TotalPages)
	assert.Equal(t, 1, in.TotalPages())
}

func TestExecutePageRequiresFontBeforeChar(t *testing.T) {
	data := buildMinimalDVI(t)
	stream := newTestStream(data)
	v := &fakeVisitor{}
	in := NewInterpreter(stream, nil, v, Options{})
	_, err := in.ScanPostamble(context.Background())
	require.NoError(t, err)

	err = in.ExecutePage(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, v.events, "begin")
}

func TestUnitScaleFormula(t *testing.T) {
	// With TeX's standard num/den, num cancels the formula's constant
	// 25400000 denominator, leaving 7227/den: one DVI unit is ~1/65536pt.
	s := unitScale(25400000, 473628672)
	assert.InDelta(t, 1.0/65536.0, s, 1e-8)
}

func TestDocumentScaleAppliesMag(t *testing.T) {
	noMag := documentScale(25400000, 473628672, 1000)
	doubled := documentScale(25400000, 473628672, 2000)
	assert.InDelta(t, noMag*2, doubled, 1e-9)
}
