package geom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit-to-bp conversion factors used by BoundingBox.Set and the matrix
// script variables pt/in/cm/mm.
const (
	UnitPt = 1.0
	UnitIn = 72.0
	UnitCm = 72.0 / 2.54
	UnitMm = 72.0 / 25.4
)

// BoundingBox is an axis-aligned box given by two diagonal corners, a
// validity flag (false until the first Embed) and a lock flag. Once
// locked, every mutating method is a silent no-op.
type BoundingBox struct {
	MinX, MinY, MaxX, MaxY float64
	valid                  bool
	locked                 bool
}

// NewBoundingBox returns an invalid (empty) bounding box.
func NewBoundingBox() BoundingBox {
	return BoundingBox{}
}

// Valid reports whether the box has been embedded into at least once.
func (b BoundingBox) Valid() bool {
	return b.valid
}

// Locked reports whether b currently ignores mutation.
func (b BoundingBox) Locked() bool {
	return b.locked
}

// Lock freezes b against further mutation.
func (b *BoundingBox) Lock() {
	b.locked = true
}

// Unlock re-enables mutation of b.
func (b *BoundingBox) Unlock() {
	b.locked = false
}

// Width returns the box width, or 0 if invalid.
func (b BoundingBox) Width() float64 {
	if !b.valid {
		return 0
	}
	return b.MaxX - b.MinX
}

// Height returns the box height, or 0 if invalid.
func (b BoundingBox) Height() float64 {
	if !b.valid {
		return 0
	}
	return b.MaxY - b.MinY
}

// Embed grows b so that it contains p. A no-op on a locked box.
func (b *BoundingBox) Embed(p Point) {
	if b.locked {
		return
	}
	if !b.valid {
		b.MinX, b.MinY, b.MaxX, b.MaxY = p.X, p.Y, p.X, p.Y
		b.valid = true
		return
	}
	b.MinX = math.Min(b.MinX, p.X)
	b.MinY = math.Min(b.MinY, p.Y)
	b.MaxX = math.Max(b.MaxX, p.X)
	b.MaxY = math.Max(b.MaxY, p.Y)
}

// EmbedBox grows b to the union of b and other. A no-op on a locked box
// or if other is invalid. Embed is commutative and associative: the
// result of embedding a sequence of boxes does not depend on order.
func (b *BoundingBox) EmbedBox(other BoundingBox) {
	if b.locked || !other.valid {
		return
	}
	b.Embed(Point{other.MinX, other.MinY})
	b.Embed(Point{other.MaxX, other.MaxY})
}

// Intersect clips b to the overlap of b and other. A no-op on a locked
// box. If the two boxes do not overlap, b becomes invalid.
func (b *BoundingBox) Intersect(other BoundingBox) {
	if b.locked {
		return
	}
	if !b.valid || !other.valid {
		b.valid = false
		return
	}
	minX, minY := math.Max(b.MinX, other.MinX), math.Max(b.MinY, other.MinY)
	maxX, maxY := math.Min(b.MaxX, other.MaxX), math.Min(b.MaxY, other.MaxY)
	if minX > maxX || minY > maxY {
		b.valid = false
		return
	}
	b.MinX, b.MinY, b.MaxX, b.MaxY = minX, minY, maxX, maxY
}

// Transform replaces b with the bounding box of its four corners
// mapped through m, rotating/scaling the box as needed rather than
// merely translating it. A no-op on a locked or invalid box.
func (b *BoundingBox) Transform(m Matrix) {
	if b.locked || !b.valid {
		return
	}
	corners := [4]Point{
		{b.MinX, b.MinY}, {b.MaxX, b.MinY}, {b.MaxX, b.MaxY}, {b.MinX, b.MaxY},
	}
	out := NewBoundingBox()
	for _, c := range corners {
		out.Embed(c.Transform(m))
	}
	*b = out
	b.locked = false
}

// SetExtent replaces b's corners outright and marks it valid, for
// callers that already have the four bounds as numbers rather than a
// length-literal expression. A no-op on a locked box.
func (b *BoundingBox) SetExtent(minX, minY, maxX, maxY float64) {
	if b.locked {
		return
	}
	b.MinX, b.MinY, b.MaxX, b.MaxY = minX, minY, maxX, maxY
	b.valid = true
}

// Set parses a whitespace-separated list of 1 or 4 length literals
// (e.g. "1pt 2pt 3pt 4pt") and sets b's corners from them. A single
// value expands the box isotropically outward by that length from its
// current extent, rather than replacing it. A no-op on a locked box.
func (b *BoundingBox) Set(expr string) error {
	if b.locked {
		return nil
	}
	fields := strings.Fields(expr)
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := parseLength(f)
		if err != nil {
			return err
		}
		values[i] = v
	}
	switch len(values) {
	case 1:
		d := values[0]
		if !b.valid {
			b.MinX, b.MinY, b.MaxX, b.MaxY = 0, 0, 0, 0
			b.valid = true
		}
		b.MinX -= d
		b.MinY -= d
		b.MaxX += d
		b.MaxY += d
	case 4:
		b.MinX, b.MinY, b.MaxX, b.MaxY = values[0], values[1], values[2], values[3]
		b.valid = true
	default:
		return fmt.Errorf("geom: bounding box expression %q needs 1 or 4 values, got %d", expr, len(values))
	}
	return nil
}

// parseLength parses a number with an optional pt/in/cm/mm suffix into bp.
func parseLength(s string) (float64, error) {
	unit := UnitPt
	numPart := s
	for _, suf := range []struct {
		name   string
		factor float64
	}{
		{"pt", UnitPt}, {"in", UnitIn}, {"cm", UnitCm}, {"mm", UnitMm},
	} {
		if strings.HasSuffix(s, suf.name) {
			unit = suf.factor
			numPart = strings.TrimSuffix(s, suf.name)
			break
		}
	}
	v, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("geom: invalid length %q: %w", s, err)
	}
	return v * unit, nil
}
