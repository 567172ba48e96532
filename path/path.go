// Package path implements the graphic-path command sequence used to
// describe outlines for the SVG builder and the glyph outline tracer:
// Move/Line/Quad/Cubic/Close segments, affine transform, bounding-box
// computation, subpath closing and shortest-form SVG serialisation.
package path

import (
	"strings"

	"github.com/texware/dvi2svg/geom"
)

// Cmd identifies a path segment kind.
type Cmd int

const (
	MoveTo Cmd = iota
	LineTo
	QuadTo
	CubicTo
	CloseOp
)

// Segment is one command in a Path. Points holds the segment's control
// points followed by its endpoint: none for Close, one point for
// Move/Line, two for Quad (control, end), three for Cubic (control1,
// control2, end).
type Segment struct {
	Cmd    Cmd
	Points []geom.Point
}

// End returns the segment's final point. Close has no endpoint of its
// own; callers track the current subpath start separately.
func (s Segment) End() geom.Point {
	return s.Points[len(s.Points)-1]
}

// Path is an ordered sequence of graphic-path segments, as traced by
// the glyph outline tracer or built by a special handler.
type Path struct {
	Segments []Segment
}

// New returns an empty path.
func New() Path {
	return Path{}
}

// Move starts a new subpath at p. A Move immediately following another
// Move overwrites it rather than appending a zero-length subpath.
func (p *Path) Move(pt geom.Point) {
	if n := len(p.Segments); n > 0 && p.Segments[n-1].Cmd == MoveTo {
		p.Segments[n-1].Points[0] = pt
		return
	}
	p.Segments = append(p.Segments, Segment{Cmd: MoveTo, Points: []geom.Point{pt}})
}

// Line appends a straight line to pt.
func (p *Path) Line(pt geom.Point) {
	p.Segments = append(p.Segments, Segment{Cmd: LineTo, Points: []geom.Point{pt}})
}

// Quad appends a quadratic Bezier through control point c to pt.
func (p *Path) Quad(c, pt geom.Point) {
	p.Segments = append(p.Segments, Segment{Cmd: QuadTo, Points: []geom.Point{c, pt}})
}

// Cubic appends a cubic Bezier through control points c1, c2 to pt.
func (p *Path) Cubic(c1, c2, pt geom.Point) {
	p.Segments = append(p.Segments, Segment{Cmd: CubicTo, Points: []geom.Point{c1, c2, pt}})
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.Segments = append(p.Segments, Segment{Cmd: CloseOp})
}

// Empty reports whether the path has no segments.
func (p Path) Empty() bool {
	return len(p.Segments) == 0
}

// Transform applies m to every control point of every segment.
func (p *Path) Transform(m geom.Matrix) {
	for i := range p.Segments {
		pts := p.Segments[i].Points
		for j := range pts {
			pts[j] = pts[j].Transform(m)
		}
	}
}

// ComputeBBox unions the tight bounds of every segment's points; for
// curves the control-point hull is used as a safe over-approximation
// rather than the exact tight bound of the curve itself.
func (p Path) ComputeBBox() geom.BoundingBox {
	var b geom.BoundingBox
	for _, seg := range p.Segments {
		for _, pt := range seg.Points {
			b.Embed(pt)
		}
	}
	return b
}

// CloseOpenSubPaths inserts a Close before every Move that follows a
// subpath not already terminated by Close, and at the end of the path
// if the final subpath is still open.
func (p *Path) CloseOpenSubPaths() {
	var out []Segment
	open := false
	for _, seg := range p.Segments {
		if seg.Cmd == MoveTo && open {
			out = append(out, Segment{Cmd: CloseOp})
		}
		out = append(out, seg)
		switch seg.Cmd {
		case MoveTo:
			open = true
		case CloseOp:
			open = false
		}
	}
	if open {
		out = append(out, Segment{Cmd: CloseOp})
	}
	p.Segments = out
}

// String serialises the path as an SVG path data string, choosing the
// shortest form per segment: H/V for axis-aligned lines, T/S when a
// curve's leading control point is the reflection of the previous
// curve's trailing control point through the shared endpoint.
func (p Path) String() string {
	var b strings.Builder
	var cur geom.Point
	var lastQuadCtrl, lastCubicCtrl2 geom.Point
	haveLastQuad, haveLastCubic := false, false

	num := geom.FormatNum
	writeCmd := func(c byte, args ...string) {
		b.WriteByte(c)
		b.WriteString(strings.Join(args, " "))
	}

	for _, seg := range p.Segments {
		switch seg.Cmd {
		case MoveTo:
			cur = seg.Points[0]
			writeCmd('M', num(cur.X), num(cur.Y))
			haveLastQuad, haveLastCubic = false, false
		case LineTo:
			end := seg.Points[0]
			switch {
			case floatEqual(end.Y, cur.Y):
				writeCmd('H', num(end.X))
			case floatEqual(end.X, cur.X):
				writeCmd('V', num(end.Y))
			default:
				writeCmd('L', num(end.X), num(end.Y))
			}
			cur = end
			haveLastQuad, haveLastCubic = false, false
		case QuadTo:
			ctrl, end := seg.Points[0], seg.Points[1]
			if haveLastQuad && isReflection(lastQuadCtrl, cur, ctrl) {
				writeCmd('T', num(end.X), num(end.Y))
			} else {
				writeCmd('Q', num(ctrl.X), num(ctrl.Y), num(end.X), num(end.Y))
			}
			lastQuadCtrl, haveLastQuad = ctrl, true
			haveLastCubic = false
			cur = end
		case CubicTo:
			c1, c2, end := seg.Points[0], seg.Points[1], seg.Points[2]
			if haveLastCubic && isReflection(lastCubicCtrl2, cur, c1) {
				writeCmd('S', num(c2.X), num(c2.Y), num(end.X), num(end.Y))
			} else {
				writeCmd('C', num(c1.X), num(c1.Y), num(c2.X), num(c2.Y), num(end.X), num(end.Y))
			}
			lastCubicCtrl2, haveLastCubic = c2, true
			haveLastQuad = false
			cur = end
		case CloseOp:
			b.WriteByte('Z')
			haveLastQuad, haveLastCubic = false, false
		}
	}
	return b.String()
}

const epsilon = 1e-9

func floatEqual(a, b float64) bool {
	d := a - b
	return d < epsilon && d > -epsilon
}

// isReflection reports whether prevCtrl is the point reflection of
// nextCtrl through pivot, i.e. prevCtrl + nextCtrl == 2*pivot.
func isReflection(prevCtrl, pivot, nextCtrl geom.Point) bool {
	return floatEqual(prevCtrl.X+nextCtrl.X, 2*pivot.X) && floatEqual(prevCtrl.Y+nextCtrl.Y, 2*pivot.Y)
}
