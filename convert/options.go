// Package convert implements the conversion driver (C15): it owns the
// per-conversion Context (font manager, font map, glyph cache),
// resolves a page-range string against a DVI file's postamble, runs a
// PostScript-header pre-pass before page 1, drives the interpreter and
// SVG builder page by page, and computes the root viewBox (§4.15).
package convert

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/texware/dvi2svg/svgbuild"
)

// ViewBoxPolicy selects how the root SVG viewBox is computed (§4.15
// step 5).
type ViewBoxPolicy int

const (
	// ViewBoxNone omits the viewBox attribute entirely.
	ViewBoxNone ViewBoxPolicy = iota
	// ViewBoxDVI sizes the viewBox to the DVI-declared page dimensions
	// (the postamble's max_h/max_v, or the drawn content's extent when
	// those are zero) with content centred within it.
	ViewBoxDVI
	// ViewBoxMin uses the tight bounds of everything actually drawn,
	// transformed by each page's matrix.
	ViewBoxMin
	// ViewBoxMargin expands ViewBoxMin by an explicit margin.
	ViewBoxMargin
	// ViewBoxNamed selects a named paper format (e.g. "a4", "letter").
	ViewBoxNamed
)

// Options configures one conversion (§4.C): no file or environment is
// read by the driver itself, matching the ambient-config convention of
// taking a plain struct built by the CLI layer.
type Options struct {
	// Pages is a page-range string such as "1-3,5,7-" (open-ended).
	// Empty means every page.
	Pages string

	ViewBox       ViewBoxPolicy
	MarginPt      [4]float64 // left, top, right, bottom; ViewBoxMargin only
	NamedFormat   string     // e.g. "a4", "letter"; ViewBoxNamed only

	Mode            svgbuild.Mode
	ExactGlyphBoxes bool

	CacheDir       string
	UserMapFile    string
	MayCreateFonts bool

	// Precision is the number of significant digits used for numeric
	// SVG attributes; <= 0 uses the core default of 6.
	Precision int

	PrecomputePageLength bool
}

// pageRange is an inclusive [First, Last] interval, 1-based.
type pageRange struct {
	First, Last int // Last == 0 means open-ended ("to the last page")
}

// parsePageRanges parses a page-range string into a sorted,
// overlap-merged list of intervals clamped to [1, totalPages]. An
// empty string selects every page (§4.15 step 1).
func parsePageRanges(spec string, totalPages int) ([]pageRange, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		if totalPages <= 0 {
			return nil, nil
		}
		return []pageRange{{First: 1, Last: totalPages}}, nil
	}

	var ranges []pageRange
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, err := parseOneRange(part)
		if err != nil {
			return nil, err
		}
		if r.Last == 0 || r.Last > totalPages {
			r.Last = totalPages
		}
		if r.First < 1 {
			r.First = 1
		}
		if r.First > r.Last {
			continue // empty interval after clamping, dropped (§4.15 step 1)
		}
		ranges = append(ranges, r)
	}

	sort.Slice(ranges, func(i, j int) bool { return ranges[i].First < ranges[j].First })
	return mergeRanges(ranges), nil
}

func parseOneRange(part string) (pageRange, error) {
	if i := strings.Index(part, "-"); i >= 0 {
		firstStr, lastStr := part[:i], part[i+1:]
		first, err := atoiOrZero(firstStr)
		if err != nil {
			return pageRange{}, fmt.Errorf("convert: invalid page range %q: %w", part, err)
		}
		if lastStr == "" {
			return pageRange{First: first, Last: 0}, nil
		}
		last, err := atoiOrZero(lastStr)
		if err != nil {
			return pageRange{}, fmt.Errorf("convert: invalid page range %q: %w", part, err)
		}
		return pageRange{First: first, Last: last}, nil
	}
	n, err := strconv.Atoi(part)
	if err != nil {
		return pageRange{}, fmt.Errorf("convert: invalid page number %q: %w", part, err)
	}
	return pageRange{First: n, Last: n}, nil
}

func atoiOrZero(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func mergeRanges(ranges []pageRange) []pageRange {
	if len(ranges) == 0 {
		return nil
	}
	out := []pageRange{ranges[0]}
	for _, r := range ranges[1:] {
		last := &out[len(out)-1]
		if r.First <= last.Last+1 {
			if r.Last > last.Last {
				last.Last = r.Last
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// pageNumbers expands ranges into a sorted slice of page numbers.
func pageNumbers(ranges []pageRange) []int {
	var out []int
	for _, r := range ranges {
		for p := r.First; p <= r.Last; p++ {
			out = append(out, p)
		}
	}
	return out
}
