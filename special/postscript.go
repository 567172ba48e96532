package special

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/texware/dvi2svg/color"
	"github.com/texware/dvi2svg/geom"
	"github.com/texware/dvi2svg/path"
	"github.com/texware/dvi2svg/special/ps"
)

// PostScriptHandler implements the `ps:`/`ps::`/`"` PostScript
// specials (§4.13): it treats the payload as PostScript text, using
// the special/ps calculator as the numeric engine for arithmetic
// subexpressions while a small graphics-operator dispatcher paints
// drawing operators (moveto, lineto, setrgbcolor, stroke, fill, ...)
// into the same SVG tree the other handlers share.
type PostScriptHandler struct {
	stack   ps.PSStack
	current path.Path
	hasPath bool
	curX    float64
	curY    float64
}

// NewPostScriptHandler returns a PostScriptHandler with an empty
// graphics stack and no current path.
func NewPostScriptHandler() *PostScriptHandler {
	return &PostScriptHandler{}
}

// Prefixes implements Handler.
func (h *PostScriptHandler) Prefixes() []string {
	return []string{"ps:", "ps::", `"`}
}

// Process implements Handler.
func (h *PostScriptHandler) Process(prefix, payload string, actions Actions) (bool, error) {
	if err := h.runTokens(tokenizePS(payload), actions); err != nil {
		return false, fmt.Errorf("special: postscript: %w", err)
	}
	return true, nil
}

// psBlock is a `{ ... }` procedure captured from the token stream and
// pushed onto the calculator stack for if/ifelse to consume. Unlike a
// generic PS program object, running it re-enters runTokens, so
// drawing operators (moveto, setgray, ...) work inside a conditional,
// not just arithmetic.
type psBlock struct {
	tokens []string
}

func (b *psBlock) Duplicate() ps.PSObject { return &psBlock{tokens: b.tokens} }
func (b *psBlock) DebugString() string    { return "{ proc }" }
func (b *psBlock) String() string         { return "{ proc }" }

// tokenizePS splits payload into PostScript tokens, treating '{' and
// '}' as standalone tokens regardless of surrounding whitespace so
// runTokens can recognize procedure boundaries.
func tokenizePS(payload string) []string {
	var toks []string
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			toks = append(toks, buf.String())
			buf.Reset()
		}
	}
	for _, r := range payload {
		switch r {
		case '{', '}':
			flush()
			toks = append(toks, string(r))
		case ' ', '\t', '\n', '\r':
			flush()
		default:
			buf.WriteRune(r)
		}
	}
	flush()
	return toks
}

// runTokens executes a flat token sequence, pushing a balanced
// `{ ... }` span as a single deferred psBlock instead of running it
// inline.
func (h *PostScriptHandler) runTokens(toks []string, actions Actions) error {
	for i := 0; i < len(toks); i++ {
		if toks[i] == "{" {
			body, next, err := sliceBlock(toks, i)
			if err != nil {
				return err
			}
			if err := h.stack.Push(&psBlock{tokens: body}); err != nil {
				return err
			}
			i = next - 1
			continue
		}
		if err := h.step(toks[i], actions); err != nil {
			return err
		}
	}
	return nil
}

// sliceBlock returns the tokens strictly between the matching brace
// pair opening at toks[open] (which must be "{"), and the index just
// past the closing "}".
func sliceBlock(toks []string, open int) ([]string, int, error) {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i] {
		case "{":
			depth++
		case "}":
			depth--
			if depth == 0 {
				return toks[open+1 : i], i + 1, nil
			}
		}
	}
	return nil, 0, errors.New("unbalanced {")
}

// step executes a single PostScript token: pushing a number, running
// a drawing or control-flow operator, or delegating to the
// calculator's arithmetic operand dispatch.
func (h *PostScriptHandler) step(tok string, actions Actions) error {
	if v, isFloat, ok := parseNumberToken(tok); ok {
		if isFloat {
			return h.stack.Push(ps.MakeReal(v))
		}
		return h.stack.Push(ps.MakeInteger(int(v)))
	}

	switch tok {
	case "moveto":
		xy, err := h.stack.PopN(2)
		if err != nil {
			return err
		}
		h.current = path.New()
		h.current.Move(geom.Point{X: xy[0], Y: xy[1]})
		h.hasPath = true
		h.curX, h.curY = xy[0], xy[1]
		return nil
	case "rmoveto":
		dxy, err := h.stack.PopN(2)
		if err != nil {
			return err
		}
		h.curX, h.curY = h.curX+dxy[0], h.curY+dxy[1]
		h.current.Move(geom.Point{X: h.curX, Y: h.curY})
		h.hasPath = true
		return nil
	case "lineto":
		xy, err := h.stack.PopN(2)
		if err != nil {
			return err
		}
		h.current.Line(geom.Point{X: xy[0], Y: xy[1]})
		h.curX, h.curY = xy[0], xy[1]
		return nil
	case "rlineto":
		dxy, err := h.stack.PopN(2)
		if err != nil {
			return err
		}
		h.curX, h.curY = h.curX+dxy[0], h.curY+dxy[1]
		h.current.Line(geom.Point{X: h.curX, Y: h.curY})
		return nil
	case "closepath":
		h.current.Close()
		return nil
	case "setgray":
		g, err := h.stack.PopNumberAsFloat64()
		if err != nil {
			return err
		}
		actions.SetColor(color.Gray(g))
		return nil
	case "setrgbcolor":
		vals, err := h.stack.PopN(3)
		if err != nil {
			return err
		}
		actions.SetColor(color.RGB(vals[0], vals[1], vals[2]))
		return nil
	case "setcmykcolor":
		vals, err := h.stack.PopN(4)
		if err != nil {
			return err
		}
		actions.SetColor(color.CMYK(vals[0], vals[1], vals[2], vals[3]))
		return nil
	case "stroke":
		return h.paint(actions, true, false)
	case "fill":
		return h.paint(actions, false, true)
	case "gsave", "grestore", "newpath":
		// No persistent graphics-state stack is modeled; these are
		// accepted as no-ops so common PS preambles don't fail outright.
		return nil
	case "if":
		return h.runIf(actions)
	case "ifelse":
		return h.runIfElse(actions)
	default:
		op := ps.PSOperand(tok)
		return op.Exec(&h.stack)
	}
}

// runIf implements `bool { proc } if`: pops a deferred procedure and
// a boolean, running the procedure through runTokens when the
// condition is true.
func (h *PostScriptHandler) runIf(actions Actions) error {
	procObj, err := h.stack.Pop()
	if err != nil {
		return err
	}
	proc, ok := procObj.(*psBlock)
	if !ok {
		return ps.ErrTypeCheck
	}
	condObj, err := h.stack.Pop()
	if err != nil {
		return err
	}
	cond, ok := condObj.(*ps.PSBoolean)
	if !ok {
		return ps.ErrTypeCheck
	}
	if cond.Val {
		return h.runTokens(proc.tokens, actions)
	}
	return nil
}

// runIfElse implements `bool { proc1 } { proc2 } ifelse`.
func (h *PostScriptHandler) runIfElse(actions Actions) error {
	elseObj, err := h.stack.Pop()
	if err != nil {
		return err
	}
	elseProc, ok := elseObj.(*psBlock)
	if !ok {
		return ps.ErrTypeCheck
	}
	thenObj, err := h.stack.Pop()
	if err != nil {
		return err
	}
	thenProc, ok := thenObj.(*psBlock)
	if !ok {
		return ps.ErrTypeCheck
	}
	condObj, err := h.stack.Pop()
	if err != nil {
		return err
	}
	cond, ok := condObj.(*ps.PSBoolean)
	if !ok {
		return ps.ErrTypeCheck
	}
	if cond.Val {
		return h.runTokens(thenProc.tokens, actions)
	}
	return h.runTokens(elseProc.tokens, actions)
}

func (h *PostScriptHandler) paint(actions Actions, stroke, fill bool) error {
	if !h.hasPath {
		return nil
	}
	el := actions.AppendToPage("path")
	el.SetAttr("d", h.current.String())
	c := actions.Color()
	if stroke {
		el.SetAttr("stroke", c.String())
		el.SetAttr("fill", "none")
	}
	if fill {
		el.SetAttr("fill", c.String())
	}
	h.current = path.New()
	h.hasPath = false
	return nil
}

// parseNumberToken reports whether tok is a PostScript number
// literal, and if so its value and whether it contains a fractional
// part.
func parseNumberToken(tok string) (value float64, isFloat, ok bool) {
	if tok == "" {
		return 0, false, false
	}
	if strings.ContainsAny(tok, ".eE") && !strings.HasPrefix(tok, "e") {
		if v, err := strconv.ParseFloat(tok, 64); err == nil {
			return v, true, true
		}
	}
	if v, err := strconv.Atoi(tok); err == nil {
		return float64(v), false, true
	}
	if v, err := strconv.ParseFloat(tok, 64); err == nil {
		return v, true, true
	}
	return 0, false, false
}
