// Package geom holds the 2D geometry primitives shared by the DVI
// interpreter, the SVG builder and the special handlers: affine
// matrices, points and bounding boxes.
package geom

import (
	"fmt"
	"math"

	"github.com/texware/dvi2svg/common"
)

// Matrix is an affine transform in the SVG/PostScript layout
//
//	| a c e |
//	| b d f |
//	| 0 0 1 |
//
// so that Transform(x, y) = (a*x + c*y + e, b*x + d*y + f). This is
// the dvips/SVG "column-major" convention: reading the 3x3 down each
// column and dropping the constant bottom row yields exactly the six
// values emitted by String, in order.
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// Translation returns a matrix that translates by tx, ty.
func Translation(tx, ty float64) Matrix {
	return Matrix{A: 1, D: 1, E: tx, F: ty}
}

// ScaleMatrix returns a matrix that scales non-uniformly by sx, sy.
func ScaleMatrix(sx, sy float64) Matrix {
	return Matrix{A: sx, D: sy}
}

// RotationAbout returns a matrix that rotates by theta degrees about (cx, cy).
func RotationAbout(theta, cx, cy float64) Matrix {
	sin, cos := math.Sincos(theta / 180.0 * math.Pi)
	r := Matrix{A: cos, B: sin, C: -sin, D: cos}
	return Translation(-cx, -cy).Mult(r).Mult(Translation(cx, cy))
}

// Rotation returns a matrix that rotates by theta degrees about the origin.
func Rotation(theta float64) Matrix {
	return RotationAbout(theta, 0, 0)
}

// NewFromRows builds a Matrix from the rows of a literal 3x3, discarding
// the (assumed constant) third row. Exposed mainly so the general 3x3
// form used by external callers (e.g. when verifying dvips' column-major
// packing) can be converted without duplicating field-order knowledge.
func NewFromRows(row0, row1, row2 [3]float64) Matrix {
	_ = row2 // the bottom row carries no information once packed for SVG.
	return Matrix{A: row0[0], C: row0[1], E: row0[2], B: row1[0], D: row1[1], F: row1[2]}
}

// String renders m in SVG's `matrix(a b c d e f)` form, the dvips
// column-major packing used throughout the core.
func (m Matrix) String() string {
	return fmt.Sprintf("matrix(%s %s %s %s %s %s)",
		formatNum(m.A), formatNum(m.B), formatNum(m.C), formatNum(m.D), formatNum(m.E), formatNum(m.F))
}

// Mult returns m × b (apply m first, then b).
func (m Matrix) Mult(b Matrix) Matrix {
	return Matrix{
		A: m.A*b.A + m.B*b.C,
		B: m.A*b.B + m.B*b.D,
		C: m.C*b.A + m.D*b.C,
		D: m.C*b.B + m.D*b.D,
		E: m.E*b.A + m.F*b.C + b.E,
		F: m.E*b.B + m.F*b.D + b.F,
	}
}

// Concat sets m to m × b, the composition "apply m, then b".
func (m *Matrix) Concat(b Matrix) {
	*m = m.Mult(b)
}

// Translate returns m with an additional translation applied after m.
func (m Matrix) Translate(tx, ty float64) Matrix {
	return m.Mult(Translation(tx, ty))
}

// Scale returns m with an additional non-uniform scale applied after m.
func (m Matrix) Scale(sx, sy float64) Matrix {
	return m.Mult(ScaleMatrix(sx, sy))
}

// Rotate returns m with an additional rotation (degrees, about the origin)
// applied after m.
func (m Matrix) Rotate(theta float64) Matrix {
	return m.Mult(Rotation(theta))
}

// Transform applies m to the point (x, y).
func (m Matrix) Transform(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// Determinant returns det(m).
func (m Matrix) Determinant() float64 {
	return m.A*m.D - m.B*m.C
}

// IsIdentity reports whether m is (numerically) the identity transform.
func (m Matrix) IsIdentity() bool {
	const eps = 1e-9
	return math.Abs(m.A-1) < eps && math.Abs(m.B) < eps &&
		math.Abs(m.C) < eps && math.Abs(m.D-1) < eps &&
		math.Abs(m.E) < eps && math.Abs(m.F) < eps
}

// Inverse returns the inverse of m, or a SingularMatrix error if m is
// not invertible (determinant too close to zero).
func (m Matrix) Inverse() (Matrix, error) {
	det := m.Determinant()
	if math.Abs(det) < minDeterminant {
		common.Log.Debug("Matrix.Inverse: singular matrix %s", m)
		return Matrix{}, common.NewError(common.SingularMatrix, fmt.Sprintf("matrix %s is not invertible", m))
	}
	aI, bI := m.D/det, -m.B/det
	cI, dI := -m.C/det, m.A/det
	eI := -(aI*m.E + cI*m.F)
	fI := -(bI*m.E + dI*m.F)
	return Matrix{A: aI, B: bI, C: cI, D: dI, E: eI, F: fI}, nil
}

// minDeterminant is the smallest determinant the core treats as non-singular.
const minDeterminant = 1.0e-12
