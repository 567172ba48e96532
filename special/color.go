package special

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/texware/dvi2svg/color"
)

// ColorHandler implements the `color` special (§4.13): push/pop a
// colour stack, or reset-and-set the current colour.
type ColorHandler struct {
	stack color.Stack
}

// NewColorHandler returns a ColorHandler with an empty stack (current
// colour defaults to black).
func NewColorHandler() *ColorHandler {
	return &ColorHandler{}
}

// Prefixes implements Handler.
func (h *ColorHandler) Prefixes() []string {
	return []string{"color"}
}

// Process implements Handler.
func (h *ColorHandler) Process(prefix, payload string, actions Actions) (bool, error) {
	fields := strings.Fields(payload)
	switch {
	case len(fields) >= 1 && fields[0] == "push":
		c, err := parseColorExpr(fields[1:])
		if err != nil {
			return false, err
		}
		h.stack.Push(c)
	case len(fields) >= 1 && fields[0] == "pop":
		h.stack.Pop()
	default:
		c, err := parseColorExpr(fields)
		if err != nil {
			return false, err
		}
		h.stack.Set(c)
	}
	actions.SetColor(h.stack.Top())
	return true, nil
}

// parseColorExpr parses a colour model expression: "rgb r g b",
// "hsb h s b", "cmyk c m y k", "gray g", or a bare dvips colour name.
func parseColorExpr(fields []string) (color.Color, error) {
	if len(fields) == 0 {
		return 0, fmt.Errorf("special: empty colour expression")
	}
	model := fields[0]
	args := fields[1:]
	switch model {
	case "rgb":
		v, err := floats(args, 3)
		if err != nil {
			return 0, err
		}
		return color.RGB(v[0], v[1], v[2]), nil
	case "hsb":
		v, err := floats(args, 3)
		if err != nil {
			return 0, err
		}
		return color.HSB(v[0], v[1], v[2]), nil
	case "cmyk":
		v, err := floats(args, 4)
		if err != nil {
			return 0, err
		}
		return color.CMYK(v[0], v[1], v[2], v[3]), nil
	case "gray":
		v, err := floats(args, 1)
		if err != nil {
			return 0, err
		}
		return color.Gray(v[0]), nil
	default:
		if c, ok := color.Named(model); ok {
			return c, nil
		}
		return 0, fmt.Errorf("special: unknown colour model or name %q", model)
	}
}

func floats(fields []string, n int) ([]float64, error) {
	if len(fields) != n {
		return nil, fmt.Errorf("special: expected %d colour components, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("special: invalid colour component %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}
