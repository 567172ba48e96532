// Package fontenc implements the font-metrics and encoding interfaces
// the core depends on: a polymorphic FontMetrics object with a
// NullMetrics fallback, 8-bit encodings, and segmented-range CMaps
// mapping multi-byte character codes to CIDs.
package fontenc

import (
	"sort"

	"github.com/texware/dvi2svg/common"
)

// CMapRange maps every character code in [Min, Max] to CID + (code -
// Min); Decode applies that offset.
type CMapRange struct {
	Min, Max, CID uint32
}

// Decode returns the CID for code c, assumed to lie within the range.
func (r CMapRange) Decode(c uint32) uint32 {
	return c - r.Min + r.CID
}

// join attempts to merge r2 into r, succeeding only if the ranges
// touch or overlap and the CID assignment is consistent at the
// junction. Mirrors the exact case analysis of the teacher's CMap
// range-merge routine, generalized from PDF ctype-2 to DVI CID ranges.
func (r *CMapRange) join(r2 CMapRange) bool {
	disjointRight := r.Max+1 < r2.Min
	disjointLeft := r.Min > 0 && r.Min-1 > r2.Max
	if disjointRight || disjointLeft {
		return false
	}
	if r2.Min > 0 && r2.Min-1 == r.Max { // r2 touches r on the right
		if r.Decode(r2.Min) == r2.CID {
			r.Max = r2.Max
			return true
		}
		return false
	}
	if r2.Max+1 == r.Min { // r2 touches r on the left
		if r2.Decode(r.Min) == r.CID {
			r.CID = r.Decode(r2.Min)
			r.Min = r2.Min
			return true
		}
		return false
	}
	if r2.Min <= r.Min && r2.Max >= r.Max { // r2 fully covers r
		*r = r2
		return true
	}
	if r2.Min < r.Min { // left overlap only
		if r2.Decode(r.Min) == r.CID {
			r.Min, r.CID = r2.Min, r2.CID
			return true
		}
		return false
	}
	if r2.Max > r.Max { // right overlap only
		if r.Decode(r2.Min) == r2.CID {
			r.Max = r2.Max
			return true
		}
		return false
	}
	// r2 entirely inside r
	return r.Decode(r2.Min) == r2.CID
}

// CMap is a segmented-range character-code-to-CID mapping, as read
// from a CMap resource (begincidrange/endcidrange etc.). Ranges are
// kept sorted and non-overlapping except where the mapping is
// genuinely discontinuous across the join point.
type CMap struct {
	name     string
	vertical bool
	ranges   []CMapRange
	// usecmap chains to a base CMap consulted when no local range matches.
	usecmap *CMap
	// including tracks CMaps currently being resolved via usecmap, to
	// detect cyclic inclusion.
	including bool
}

// NewCMap returns an empty CMap named name.
func NewCMap(name string) *CMap {
	return &CMap{name: name}
}

// Name returns the CMap's resource name.
func (m *CMap) Name() string {
	return m.name
}

// SetUseCMap chains base as m's usecmap fallback. Detects cycles: if
// base (transitively) resolves back to m, returns a CircularReference
// error instead of installing the chain.
func (m *CMap) SetUseCMap(base *CMap) error {
	for b := base; b != nil; b = b.usecmap {
		if b == m {
			return common.NewError(common.CircularReference, "usecmap cycle involving CMap "+m.name)
		}
	}
	m.usecmap = base
	return nil
}

// NumRanges returns the number of disjoint ranges currently stored.
func (m *CMap) NumRanges() int {
	return len(m.ranges)
}

// Decode returns the CID for character code c, consulting the
// usecmap chain if no local range matches.
func (m *CMap) Decode(c uint32) uint32 {
	if pos := m.lookup(c); pos >= 0 {
		return m.ranges[pos].Decode(c)
	}
	if m.usecmap != nil {
		return m.usecmap.Decode(c)
	}
	return 0
}

// lookup binary-searches for the range containing c, returning its
// index or -1.
func (m *CMap) lookup(c uint32) int {
	lo, hi := 0, len(m.ranges)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case c < m.ranges[mid].Min:
			hi = mid - 1
		case c > m.ranges[mid].Max:
			lo = mid + 1
		default:
			return mid
		}
	}
	return -1
}

// AddRange inserts a mapping from every code in [cmin, cmax] to cid +
// (code - cmin). Insertion is idempotent: adding the same range twice
// leaves the range list unchanged. After insertion, for all i < j,
// ranges[i].Max+1 < ranges[j].Min unless the two ranges' CID
// assignments are genuinely discontinuous at the junction.
func (m *CMap) AddRange(cmin, cmax, cid uint32) {
	if cmin > cmax {
		cmin, cmax = cmax, cmin
	}
	newRange := CMapRange{Min: cmin, Max: cmax, CID: cid}
	if len(m.ranges) == 0 {
		m.ranges = append(m.ranges, newRange)
		return
	}

	first, last := &m.ranges[0], &m.ranges[len(m.ranges)-1]
	switch {
	case cmin > last.Max: // disjoint, at the end
		if !last.join(newRange) {
			m.ranges = append(m.ranges, newRange)
		}
	case cmax < first.Min: // disjoint, at the start
		if !first.join(newRange) {
			m.ranges = append([]CMapRange{newRange}, m.ranges...)
		}
	default:
		m.insertOverlapping(newRange)
	}
}

// insertOverlapping handles a new range that overlaps or must be
// inserted somewhere inside the existing, sorted range list.
func (m *CMap) insertOverlapping(newRange CMapRange) {
	idx := sort.Search(len(m.ranges), func(i int) bool {
		return m.ranges[i].Min >= newRange.Min
	})
	at := idx
	if at == len(m.ranges) {
		at--
	}
	if !m.ranges[at].join(newRange) {
		r := m.ranges[at]
		if r.Min < newRange.Min && r.Max > newRange.Max {
			// newRange lies strictly inside an existing range: split it.
			oldMax := r.Max
			m.ranges[at].Max = newRange.Min - 1
			split := CMapRange{Min: newRange.Max + 1, Max: oldMax, CID: m.ranges[at].Decode(newRange.Max + 1)}
			m.ranges = insertAt(m.ranges, at+1, split)
			at++
		} else if idx == len(m.ranges) {
			at = len(m.ranges)
		}
		m.ranges = insertAt(m.ranges, at, newRange)
	}
	m.adaptNeighbors(at)
}

// adaptNeighbors resolves overlap between the range at index at and
// its immediate left/right neighbors after an insert, clipping or
// merging as needed.
func (m *CMap) adaptNeighbors(at int) {
	if at > 0 {
		left := at - 1
		if m.ranges[at].Min <= m.ranges[left].Max {
			leftValid := m.ranges[at].Min > 0 && m.ranges[at].Min-1 >= m.ranges[left].Min
			if leftValid {
				m.ranges[left].Max = m.ranges[at].Min - 1
			}
			if !leftValid || m.ranges[at].join(m.ranges[left]) {
				m.ranges = removeAt(m.ranges, left)
				at--
			}
		}
	}
	for at+1 < len(m.ranges) && m.ranges[at].Max >= m.ranges[at+1].Max {
		m.ranges = removeAt(m.ranges, at+1)
	}
	if at+1 < len(m.ranges) {
		right := at + 1
		if m.ranges[at].Max >= m.ranges[right].Min {
			m.ranges[right].CID = m.ranges[right].Decode(m.ranges[at].Max + 1)
			m.ranges[right].Min = m.ranges[at].Max + 1
		}
		if m.ranges[at].join(m.ranges[right]) {
			m.ranges = removeAt(m.ranges, right)
		}
	}
}

func insertAt(ranges []CMapRange, at int, r CMapRange) []CMapRange {
	ranges = append(ranges, CMapRange{})
	copy(ranges[at+1:], ranges[at:])
	ranges[at] = r
	return ranges
}

func removeAt(ranges []CMapRange, at int) []CMapRange {
	return append(ranges[:at], ranges[at+1:]...)
}
