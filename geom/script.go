package geom

import (
	"fmt"
	"strconv"
	"strings"
)

// ScriptVars supplies the values the matrix-script builder substitutes
// for the variables ux, uy, w, h that may appear anywhere a number is
// expected, resolved against the running page bounding box. pt, in,
// cm, mm are fixed unit constants and need no caller input.
type ScriptVars struct {
	// UX, UY is the current cursor position.
	UX, UY float64
	// W, H is the width/height of the running page bounding box.
	W, H float64
}

func (v ScriptVars) resolve(name string) (float64, bool) {
	switch name {
	case "ux":
		return v.UX, true
	case "uy":
		return v.UY, true
	case "w":
		return v.W, true
	case "h":
		return v.H, true
	case "pt":
		return UnitPt, true
	case "in":
		return UnitIn, true
	case "cm":
		return UnitCm, true
	case "mm":
		return UnitMm, true
	}
	return 0, false
}

// CompileScript compiles a textual matrix script of the form
//
//	R<angle>[,cx,cy] T<tx>,<ty> S<sx>,<sy> M<a b c d e f>
//
// (each command optional, concatenable in any combination and order)
// into a single Matrix, applying commands left to right. Numbers may
// be replaced by the variables ux, uy, w, h, pt, in, cm, mm, resolved
// against vars.
func CompileScript(script string, vars ScriptVars) (Matrix, error) {
	m := Identity()
	rest := strings.TrimSpace(script)
	for rest != "" {
		cmd := rest[0]
		rest = strings.TrimSpace(rest[1:])
		arg, tail := splitArg(rest)
		rest = tail
		switch cmd {
		case 'R':
			parts := strings.Split(arg, ",")
			angle, err := resolveNum(parts[0], vars)
			if err != nil {
				return Matrix{}, err
			}
			if len(parts) == 3 {
				cx, err := resolveNum(parts[1], vars)
				if err != nil {
					return Matrix{}, err
				}
				cy, err := resolveNum(parts[2], vars)
				if err != nil {
					return Matrix{}, err
				}
				m = m.Mult(RotationAbout(angle, cx, cy))
			} else if len(parts) == 1 {
				m = m.Mult(Rotation(angle))
			} else {
				return Matrix{}, fmt.Errorf("geom: malformed R command %q", arg)
			}
		case 'T':
			tx, ty, err := resolvePair(arg, vars)
			if err != nil {
				return Matrix{}, err
			}
			m = m.Mult(Translation(tx, ty))
		case 'S':
			sx, sy, err := resolvePair(arg, vars)
			if err != nil {
				return Matrix{}, err
			}
			m = m.Mult(ScaleMatrix(sx, sy))
		case 'M':
			vals := strings.Fields(arg)
			if len(vals) != 6 {
				return Matrix{}, fmt.Errorf("geom: M command needs 6 values, got %d", len(vals))
			}
			nums := make([]float64, 6)
			for i, v := range vals {
				n, err := resolveNum(v, vars)
				if err != nil {
					return Matrix{}, err
				}
				nums[i] = n
			}
			m = m.Mult(Matrix{A: nums[0], B: nums[1], C: nums[2], D: nums[3], E: nums[4], F: nums[5]})
		default:
			return Matrix{}, fmt.Errorf("geom: unknown script command %q", string(cmd))
		}
	}
	return m, nil
}

// splitArg consumes everything up to (not including) the next command
// letter or end of string, and returns (argument, remainder).
func splitArg(s string) (string, string) {
	i := 0
	for i < len(s) && !isCommandLetter(s[i]) {
		i++
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i:])
}

func isCommandLetter(c byte) bool {
	return c == 'R' || c == 'T' || c == 'S' || c == 'M'
}

func resolvePair(arg string, vars ScriptVars) (float64, float64, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("geom: expected two comma-separated values, got %q", arg)
	}
	x, err := resolveNum(parts[0], vars)
	if err != nil {
		return 0, 0, err
	}
	y, err := resolveNum(parts[1], vars)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// resolveNum parses a literal number, or looks it up as a script
// variable (ux, uy, w, h, pt, in, cm, mm).
func resolveNum(tok string, vars ScriptVars) (float64, error) {
	tok = strings.TrimSpace(tok)
	if v, ok := vars.resolve(tok); ok {
		return v, nil
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("geom: invalid script value %q: %w", tok, err)
	}
	return v, nil
}
