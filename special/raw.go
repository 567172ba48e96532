package special

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/texware/dvi2svg/geom"
)

// RawHandler implements the `dvisvgm:` raw-SVG specials (§4.13):
// verbatim text injection with cursor/colour substitution, named
// bounding-box manipulation, inline image insertion, and the
// rawset/rawput macro table (§4.F, dropped-feature supplement).
type RawHandler struct {
	macros        map[string][]string
	recordingName string // "" when not currently recording a macro
	currentBox    string // "" selects the page box
}

// NewRawHandler returns a RawHandler with no macros defined.
func NewRawHandler() *RawHandler {
	return &RawHandler{macros: map[string][]string{}}
}

// Prefixes implements Handler.
func (h *RawHandler) Prefixes() []string {
	return []string{"dvisvgm:raw", "dvisvgm:rawdef", "dvisvgm:bbox", "dvisvgm:img", "dvisvgm:rawset", "dvisvgm:endrawset", "dvisvgm:rawput"}
}

// Process implements Handler.
func (h *RawHandler) Process(prefix, payload string, actions Actions) (bool, error) {
	switch prefix {
	case "dvisvgm:rawset":
		name := strings.TrimSpace(payload)
		if name == "" {
			return false, fmt.Errorf("special: dvisvgm:rawset needs a macro name")
		}
		h.recordingName = name
		h.macros[name] = nil
		return true, nil
	case "dvisvgm:endrawset":
		h.recordingName = ""
		return true, nil
	case "dvisvgm:rawput":
		name := strings.TrimSpace(payload)
		lines, ok := h.macros[name]
		if !ok {
			return false, fmt.Errorf("special: dvisvgm:rawput: undefined macro %q", name)
		}
		for _, text := range lines {
			h.appendRaw(actions, text)
		}
		return true, nil
	case "dvisvgm:raw":
		return h.raw(actions, payload, false)
	case "dvisvgm:rawdef":
		return h.raw(actions, payload, true)
	case "dvisvgm:bbox":
		return h.bbox(actions, payload)
	case "dvisvgm:img":
		return h.img(actions, payload)
	}
	return false, nil
}

func (h *RawHandler) raw(actions Actions, payload string, toDefs bool) (bool, error) {
	if h.recordingName != "" {
		h.macros[h.recordingName] = append(h.macros[h.recordingName], payload)
		return true, nil
	}
	if toDefs {
		text := substitute(payload, actions)
		actions.AppendToDefs("raw").AppendCData(text)
		return true, nil
	}
	h.appendRaw(actions, payload)
	return true, nil
}

func (h *RawHandler) appendRaw(actions Actions, text string) {
	text = substitute(text, actions)
	actions.AppendToPage("raw").AppendCData(text)
}

// substitute resolves {?name} and {?bbox name} placeholders against
// the current conversion state (§4.13).
func substitute(text string, actions Actions) string {
	var b strings.Builder
	for {
		i := strings.Index(text, "{?")
		if i < 0 {
			b.WriteString(text)
			break
		}
		j := strings.Index(text[i:], "}")
		if j < 0 {
			b.WriteString(text)
			break
		}
		j += i
		b.WriteString(text[:i])
		b.WriteString(resolvePlaceholder(text[i+2:j], actions))
		text = text[j+1:]
	}
	return b.String()
}

func resolvePlaceholder(expr string, actions Actions) string {
	fields := strings.Fields(expr)
	if len(fields) == 0 {
		return ""
	}
	switch fields[0] {
	case "x":
		x, _ := actions.Cursor()
		return geom.FormatNum(x)
	case "y":
		_, y := actions.Cursor()
		return geom.FormatNum(y)
	case "color":
		return actions.Color().String()
	case "nl":
		return "\n"
	case "bbox":
		if len(fields) < 2 {
			return ""
		}
		b := actions.NamedBox(fields[1])
		return fmt.Sprintf("%s %s %s %s",
			geom.FormatNum(b.MinX), geom.FormatNum(b.MinY),
			geom.FormatNum(b.Width()), geom.FormatNum(b.Height()))
	default:
		return ""
	}
}

// bbox implements `bbox (r|a|f|n) ...`: r expands the selected box
// relative to the current cursor by width/height; a sets it from
// absolute corners; f locks it against further mutation; n switches
// the box subsequent bbox commands (and {?bbox} substitution) target.
func (h *RawHandler) bbox(actions Actions, payload string) (bool, error) {
	fields := strings.Fields(payload)
	if len(fields) == 0 {
		return false, fmt.Errorf("special: dvisvgm:bbox needs a mode")
	}
	box := h.selectedBox(actions)
	switch fields[0] {
	case "r":
		if len(fields) != 3 {
			return false, fmt.Errorf("special: dvisvgm:bbox r needs width, height")
		}
		w, err1 := strconv.ParseFloat(fields[1], 64)
		hgt, err2 := strconv.ParseFloat(fields[2], 64)
		if err1 != nil || err2 != nil {
			return false, fmt.Errorf("special: dvisvgm:bbox r: invalid dimensions %q", payload)
		}
		x, y := actions.Cursor()
		box.Embed(geom.Point{X: x, Y: y})
		box.Embed(geom.Point{X: x + w, Y: y + hgt})
	case "a":
		if len(fields) != 5 {
			return false, fmt.Errorf("special: dvisvgm:bbox a needs 4 coordinates")
		}
		vals := make([]float64, 4)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return false, fmt.Errorf("special: dvisvgm:bbox a: invalid coordinate %q", f)
			}
			vals[i] = v
		}
		box.Embed(geom.Point{X: vals[0], Y: vals[1]})
		box.Embed(geom.Point{X: vals[2], Y: vals[3]})
	case "f":
		box.Lock()
	case "n":
		if len(fields) != 2 {
			return false, fmt.Errorf("special: dvisvgm:bbox n needs a name")
		}
		h.currentBox = fields[1]
	default:
		return false, fmt.Errorf("special: dvisvgm:bbox: unknown mode %q", fields[0])
	}
	return true, nil
}

func (h *RawHandler) selectedBox(actions Actions) *geom.BoundingBox {
	if h.currentBox == "" {
		return actions.PageBox()
	}
	return actions.NamedBox(h.currentBox)
}

// img implements `img w h filename`: an <image> element at the
// cursor.
func (h *RawHandler) img(actions Actions, payload string) (bool, error) {
	fields := strings.SplitN(strings.TrimSpace(payload), " ", 3)
	if len(fields) != 3 {
		return false, fmt.Errorf("special: dvisvgm:img needs width, height, filename")
	}
	w, err1 := strconv.ParseFloat(fields[0], 64)
	hgt, err2 := strconv.ParseFloat(fields[1], 64)
	if err1 != nil || err2 != nil {
		return false, fmt.Errorf("special: dvisvgm:img: invalid dimensions %q", payload)
	}
	x, y := actions.Cursor()
	el := actions.AppendToPage("image")
	el.SetAttrNum("x", x, 6)
	el.SetAttrNum("y", y, 6)
	el.SetAttrNum("width", w, 6)
	el.SetAttrNum("height", hgt, 6)
	el.SetAttr("xlink:href", fields[2])
	return true, nil
}
