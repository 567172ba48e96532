package dvi

import (
	"github.com/texware/dvi2svg/common"
	"github.com/texware/dvi2svg/dviio"
)

// unitScale converts raw DVI units into TeX points, per spec §3.1: the
// multiplications are ordered exactly as written (num first, then the
// constant, then divided by den and the constant denominator) to keep
// one documented rounding behavior.
func unitScale(num, den int32) float64 {
	return float64(num) * 7227.0 / (float64(den) * 25400000.0)
}

// documentScale is unitScale further scaled by the document's
// magnification, the factor applied to cursor-movement opcodes.
func documentScale(num, den, mag int32) float64 {
	return unitScale(num, den) * (float64(mag) / 1000.0)
}

// Preamble holds the fields read from the DVI pre(247) command (§6).
type Preamble struct {
	ID      byte
	Num     int32
	Den     int32
	Mag     int32
	Comment string
}

// readPreamble reads and validates the pre(247) command at the
// stream's current position.
func readPreamble(s *dviio.Stream) (Preamble, error) {
	op, err := s.ReadByte()
	if err != nil {
		return Preamble{}, err
	}
	if op != opPre {
		return Preamble{}, common.NewErrorAt(common.InvalidDVIFile, "expected pre opcode", s.Tell())
	}
	id, err := s.ReadByte()
	if err != nil {
		return Preamble{}, err
	}
	if !validFormatID(id) {
		return Preamble{}, common.NewErrorAt(common.InvalidDVIFile, "unrecognised DVI identification byte", s.Tell())
	}
	num, err := s.ReadSigned(4)
	if err != nil {
		return Preamble{}, err
	}
	den, err := s.ReadSigned(4)
	if err != nil {
		return Preamble{}, err
	}
	mag, err := s.ReadSigned(4)
	if err != nil {
		return Preamble{}, err
	}
	k, err := s.ReadByte()
	if err != nil {
		return Preamble{}, err
	}
	comment, err := s.ReadString(int(k))
	if err != nil {
		return Preamble{}, err
	}
	return Preamble{ID: id, Num: num, Den: den, Mag: mag, Comment: comment}, nil
}

func validFormatID(id byte) bool {
	switch id {
	case idDVIStandard, idPTeX, idXDV5, idXDV6:
		return true
	default:
		return false
	}
}

// Postamble holds the fields read from the post(248) command, plus
// the byte offset the multi-pass scan resolved each bop to (§4.11).
type Postamble struct {
	Preamble
	LastBOP    int64
	MaxV       int32
	MaxH       int32
	MaxStack   int16
	TotalPages int16
}
