package special

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/texware/dvi2svg/geom"
	"github.com/texware/dvi2svg/path"
)

// milToPt converts TPIC milli-inch coordinates to pt: 1 mil = 0.001in
// = 0.072pt.
const milToPt = 0.072

// TPICHandler implements the TPIC specials (§4.13): pen width, fill
// grey level, and an accumulating list of path points cleared after
// every path-drawing command.
type TPICHandler struct {
	penWidth  float64 // pt
	fillLevel float64 // 0..1 grey, -1 = no fill
	points    []geom.Point
}

// NewTPICHandler returns a TPICHandler with no pen set and no fill.
func NewTPICHandler() *TPICHandler {
	return &TPICHandler{fillLevel: -1}
}

// Prefixes implements Handler.
func (h *TPICHandler) Prefixes() []string {
	return []string{"pn", "bk", "wh", "sh", "tx", "pa", "fp", "ip", "da", "dt", "sp", "ar", "ia"}
}

// BeginPage implements BeginPageListener: TPIC state does not persist
// across pages.
func (h *TPICHandler) BeginPage(pageNumber int, actions Actions) {
	h.penWidth = 0
	h.fillLevel = -1
	h.points = nil
}

// Process implements Handler.
func (h *TPICHandler) Process(prefix, payload string, actions Actions) (bool, error) {
	switch prefix {
	case "pn":
		mi, err := strconv.ParseFloat(strings.TrimSpace(payload), 64)
		if err != nil {
			return false, fmt.Errorf("special: tpic pn: %w", err)
		}
		h.penWidth = mi * milToPt
	case "bk":
		h.fillLevel = 0
	case "wh":
		h.fillLevel = 1
	case "sh":
		h.fillLevel = 0.5
		if f := strings.TrimSpace(payload); f != "" {
			g, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return false, fmt.Errorf("special: tpic sh: %w", err)
			}
			h.fillLevel = g
		}
	case "tx":
		h.fillLevel = hexPatternGrey(strings.TrimSpace(payload))
	case "pa":
		fields := strings.Fields(payload)
		if len(fields) != 2 {
			return false, fmt.Errorf("special: tpic pa needs 2 coordinates, got %d", len(fields))
		}
		x, err1 := strconv.ParseFloat(fields[0], 64)
		y, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			return false, fmt.Errorf("special: tpic pa: invalid coordinates %q", payload)
		}
		h.points = append(h.points, geom.Point{X: x * milToPt, Y: y * milToPt})
	case "fp":
		h.flush(actions, true)
	case "ip":
		h.flush(actions, false)
	case "da", "dt":
		h.flush(actions, true)
	case "sp":
		h.flushSpline(actions)
	case "ar", "ia":
		h.flush(actions, prefix == "ia")
	default:
		return false, nil
	}
	return true, nil
}

// flush emits the accumulated point list as a polyline (stroke is
// implied by penWidth > 0; fill by fillLevel >= 0), then clears it.
func (h *TPICHandler) flush(actions Actions, draw bool) {
	defer func() { h.points = nil }()
	if !draw || len(h.points) == 0 {
		return
	}
	p := path.New()
	p.Move(h.points[0])
	for _, pt := range h.points[1:] {
		p.Line(pt)
	}
	h.emit(actions, p)
}

// flushSpline approximates the TPIC smooth-curve command with a
// piecewise cubic through the accumulated points (Catmull-Rom
// flavored control points), since the core has no native spline
// primitive.
func (h *TPICHandler) flushSpline(actions Actions) {
	defer func() { h.points = nil }()
	pts := h.points
	if len(pts) < 2 {
		return
	}
	p := path.New()
	p.Move(pts[0])
	for i := 0; i < len(pts)-1; i++ {
		p0, p1 := pts[i], pts[i+1]
		prev, next := p0, p1
		if i > 0 {
			prev = pts[i-1]
		}
		if i+2 < len(pts) {
			next = pts[i+2]
		}
		c1 := geom.Point{X: p0.X + (p1.X-prev.X)/6, Y: p0.Y + (p1.Y-prev.Y)/6}
		c2 := geom.Point{X: p1.X - (next.X-p0.X)/6, Y: p1.Y - (next.Y-p0.Y)/6}
		p.Cubic(c1, c2, p1)
	}
	h.emit(actions, p)
}

func (h *TPICHandler) emit(actions Actions, p path.Path) {
	el := actions.AppendToPage("path")
	el.SetAttr("d", p.String())
	el.SetAttr("fill", "none")
	c := actions.Color()
	if h.fillLevel >= 0 {
		el.SetAttr("fill", c.Scale(h.fillLevel).String())
	}
	if h.penWidth > 0 {
		el.SetAttr("stroke", c.String())
		el.SetAttrNum("stroke-width", h.penWidth, 4)
	}
}

// hexPatternGrey converts a hex bit-pattern string to a grey level by
// popcount(bits)/totalBits (§4.13 tx command).
func hexPatternGrey(hex string) float64 {
	if hex == "" {
		return 0
	}
	total := 0
	set := 0
	for _, r := range hex {
		v := hexNibble(r)
		total += 4
		set += bits.OnesCount8(v)
	}
	if total == 0 {
		return 0
	}
	return float64(set) / float64(total)
}

func hexNibble(r rune) uint8 {
	switch {
	case r >= '0' && r <= '9':
		return uint8(r - '0')
	case r >= 'a' && r <= 'f':
		return uint8(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return uint8(r-'A') + 10
	default:
		return 0
	}
}
