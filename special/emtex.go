package special

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/texware/dvi2svg/geom"
)

// EmTeXHandler implements the emTeX `line` special (§4.13): a point
// table keyed by integer id, with deferred line resolution when a
// referenced point is defined later in the page.
type EmTeXHandler struct {
	points  map[int]geom.Point
	pending []pendingLine
}

type pendingLine struct {
	p1, p2 int
	width  float64
	hasW   bool
	cutH   bool
	cutV   bool
}

// NewEmTeXHandler returns an EmTeXHandler with an empty point table.
func NewEmTeXHandler() *EmTeXHandler {
	return &EmTeXHandler{points: map[int]geom.Point{}}
}

// Prefixes implements Handler.
func (h *EmTeXHandler) Prefixes() []string {
	return []string{"em:point", "em:line"}
}

// BeginPage implements BeginPageListener: the point table is scoped
// to a single page.
func (h *EmTeXHandler) BeginPage(pageNumber int, actions Actions) {
	h.points = map[int]geom.Point{}
	h.pending = nil
}

// Process implements Handler.
func (h *EmTeXHandler) Process(prefix, payload string, actions Actions) (bool, error) {
	switch prefix {
	case "em:point":
		id, x, y, err := parsePoint(payload)
		if err != nil {
			return false, err
		}
		h.points[id] = geom.Point{X: x, Y: y}
	case "em:line":
		line, err := parseLineSpec(payload)
		if err != nil {
			return false, err
		}
		h.pending = append(h.pending, line)
	default:
		return false, nil
	}
	return true, nil
}

// EndPage implements EndPageListener: every pending line is resolved
// and drawn once the full point table for the page is known,
// silently skipping any line whose endpoints were never defined.
func (h *EmTeXHandler) EndPage(pageNumber int, actions Actions) {
	for _, l := range h.pending {
		p1, ok1 := h.points[l.p1]
		p2, ok2 := h.points[l.p2]
		if !ok1 || !ok2 {
			continue
		}
		if l.cutH {
			p2.Y = p1.Y
		}
		if l.cutV {
			p2.X = p1.X
		}
		el := actions.AppendToPage("line")
		el.SetAttrNum("x1", p1.X, 6)
		el.SetAttrNum("y1", p1.Y, 6)
		el.SetAttrNum("x2", p2.X, 6)
		el.SetAttrNum("y2", p2.Y, 6)
		el.SetAttr("stroke", actions.Color().String())
		if l.hasW {
			el.SetAttrNum("stroke-width", l.width, 4)
		}
	}
	h.pending = nil
}

// parsePoint parses "id x y" for em:point.
func parsePoint(payload string) (id int, x, y float64, err error) {
	fields := strings.Fields(payload)
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("special: em:point needs id, x, y, got %q", payload)
	}
	id, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("special: em:point invalid id: %w", err)
	}
	x, err = strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("special: em:point invalid x: %w", err)
	}
	y, err = strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("special: em:point invalid y: %w", err)
	}
	return id, x, y, nil
}

// parseLineSpec parses "p1, p2[h|v][, width]" for em:line.
func parseLineSpec(payload string) (pendingLine, error) {
	parts := strings.Split(payload, ",")
	if len(parts) < 2 {
		return pendingLine{}, fmt.Errorf("special: em:line needs at least two points, got %q", payload)
	}
	p1, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return pendingLine{}, fmt.Errorf("special: em:line invalid p1: %w", err)
	}
	var line pendingLine
	line.p1 = p1

	rest := strings.TrimSpace(parts[1])
	line.cutH = strings.HasSuffix(rest, "h")
	line.cutV = strings.HasSuffix(rest, "v")
	rest = strings.TrimSuffix(strings.TrimSuffix(rest, "h"), "v")
	p2, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return pendingLine{}, fmt.Errorf("special: em:line invalid p2: %w", err)
	}
	line.p2 = p2

	if len(parts) >= 3 {
		w, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			return pendingLine{}, fmt.Errorf("special: em:line invalid width: %w", err)
		}
		line.width, line.hasW = w, true
	}
	return line, nil
}
