// Package font implements the font resolver, glyph outline tracer and
// font manager: given a TeX font name and scaled size it locates an
// outline or bitmap font file, exposes its metrics and encoding, and
// traces glyph outlines into graphic paths, caching the result.
package font

import (
	"github.com/texware/dvi2svg/fontenc"
	"github.com/texware/dvi2svg/geom"
	"github.com/texware/dvi2svg/path"
)

// Variant identifies the kind of font file backing a Handle.
type Variant int

const (
	VariantUnknown Variant = iota
	VariantType1           // .pfb
	VariantOpenType        // .otf
	VariantTrueType        // .ttf
	VariantCollection      // .ttc
	VariantVirtual         // .vf
	VariantMetafont        // .mf, traced via a generated .gf bitmap
)

func (v Variant) String() string {
	switch v {
	case VariantType1:
		return "Type1"
	case VariantOpenType:
		return "OpenType"
	case VariantTrueType:
		return "TrueType"
	case VariantCollection:
		return "TrueTypeCollection"
	case VariantVirtual:
		return "VirtualFont"
	case VariantMetafont:
		return "Metafont"
	default:
		return "Unknown"
	}
}

// Handle is a resolved, loaded font as the core depends on it: a TeX
// name at a particular scaled size, backed by a file of some Variant,
// exposing metrics, an 8-bit/CMap encoding and glyph outlines.
//
// A font resolved to the same underlying file at a different scaled
// size shares its outline source with the first Handle that resolved
// it (via base) and only carries its own scale factor; Outline
// rescales the shared, cached path rather than re-tracing it.
type Handle struct {
	TeXName    string
	ScaledSize float64 // pt, this handle's size
	DesignSize float64 // pt, the font file's own design size
	Checksum   uint32
	Variant    Variant
	FilePath   string
	TTCIndex   int    // selects a member face within a .ttc collection
	UniqueName string // stable key for globalId assignment and the glyph cache

	Metrics  fontenc.Metrics
	Encoding *fontenc.Encoding
	CMap     *fontenc.CMap

	// VFCommands holds, for VariantVirtual fonts, the raw per-character
	// DVI command bytes the interpreter replays under enterVF/leaveVF;
	// populated by the resolver's virtual-font reader.
	VFCommands map[int][]byte
	VFFonts    []*Handle

	outlines   outlineSource
	base       *Handle // non-nil for a proxy sharing outlines with base
	unitsPerEm float64
}

// scaleFactor returns the ratio between this handle's requested size
// and the design size of the outline data it actually traces against.
func (h *Handle) scaleFactor() float64 {
	src := h
	if h.base != nil {
		src = h.base
	}
	if src.DesignSize == 0 {
		return 1
	}
	return h.ScaledSize / src.DesignSize
}

// Outline returns the glyph path for character code c, scaled to this
// handle's ScaledSize. Proxy handles trace (or fetch from cache) once
// against the shared base and rescale the cached result cheaply.
func (h *Handle) Outline(code int) (path.Path, error) {
	src := h
	if h.base != nil {
		src = h.base
	}
	p, err := src.trace(code)
	if err != nil {
		return path.Path{}, err
	}
	scale := h.scaleFactor()
	if src.unitsPerEm > 0 {
		scale = h.ScaledSize / src.unitsPerEm
	}
	// p may be the glyph cache's own entry: scale a copy so the cached
	// design-unit path is left untouched.
	out := path.New()
	for _, seg := range p.Segments {
		out.Segments = append(out.Segments, path.Segment{Cmd: seg.Cmd, Points: append([]geom.Point(nil), seg.Points...)})
	}
	out.Transform(geom.ScaleMatrix(scale, scale))
	return out, nil
}

func (h *Handle) trace(code int) (path.Path, error) {
	if h.outlines == nil {
		return path.Path{}, nil
	}
	return h.outlines.Glyph(code)
}

// IsProxy reports whether h shares its outline source with another
// handle rather than owning it.
func (h *Handle) IsProxy() bool {
	return h.base != nil
}

// UniqueFont returns the canonical Handle for h's underlying font
// file: h itself if h owns its outline source, or the handle it
// proxies otherwise. Every Handle resolved to the same file returns
// the same UniqueFont pointer (§4.8, §4.10 scenario 6).
func (h *Handle) UniqueFont() *Handle {
	if h.base != nil {
		return h.base
	}
	return h
}

// CharWidthPt returns the advance width, in pt, of character code c
// at this handle's ScaledSize, rescaling the metrics object's
// design-size-relative width (§4.11 "Character dispatch").
func (h *Handle) CharWidthPt(code int) float64 {
	if h.Metrics == nil {
		return 0
	}
	w := h.Metrics.CharWidth(code)
	if design := h.Metrics.DesignSize(); design != 0 {
		return w * (h.ScaledSize / design)
	}
	return w
}
