package font

import (
	"bytes"
	"os"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
	"github.com/unidoc/freetype/truetype"
	"golang.org/x/image/math/fixed"

	"github.com/texware/dvi2svg/common"
	"github.com/texware/dvi2svg/geom"
	"github.com/texware/dvi2svg/path"
)

// outlineSource produces the untransformed glyph path for a character
// code, in font design units (unitsPerEm-relative).
type outlineSource interface {
	Glyph(code int) (path.Path, error)
	UnitsPerEm() float64
}

// loadOutlineSource opens the font file at filePath and returns the
// outline source appropriate for variant, consulting a glyph cache
// keyed by uniqueName first.
//
// TrueType fonts are decoded with github.com/unidoc/freetype's
// truetype.GlyphBuf segment walk, which only ever emits on/off-curve
// line and quadratic points; OpenType/CFF, Type1 and TrueType
// collections go through go-text/typesetting's cubic-capable outline
// API instead. Bitmap (Metafont/GF) fonts are handled separately by
// traceBitmap.
func loadOutlineSource(filePath string, variant Variant, ttcIndex int, cache *GlyphCache, uniqueName string) (outlineSource, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, common.Wrap(common.FontNotFound, "reading font file "+filePath, err)
	}
	switch variant {
	case VariantTrueType:
		face, err := truetype.Parse(data)
		if err != nil {
			return nil, common.Wrap(common.FontNotFound, "parsing TrueType font "+filePath, err)
		}
		return &truetypeSource{face: face, cache: cache, uniqueName: uniqueName}, nil
	default:
		faces, err := font.ParseTTC(bytes.NewReader(data))
		if err != nil || len(faces) == 0 {
			return nil, common.Wrap(common.FontNotFound, "parsing OpenType/CFF font "+filePath, err)
		}
		if ttcIndex < 0 || ttcIndex >= len(faces) {
			ttcIndex = 0
		}
		return &typesettingSource{face: faces[ttcIndex], cache: cache, uniqueName: uniqueName}, nil
	}
}

// truetypeSource traces glyphs from a parsed TrueType font via
// freetype's quadratic segment walk.
type truetypeSource struct {
	face       *truetype.Font
	cache      *GlyphCache
	uniqueName string
	buf        truetype.GlyphBuf
}

func (s *truetypeSource) UnitsPerEm() float64 {
	return float64(s.face.FUnitsPerEm())
}

func (s *truetypeSource) Glyph(code int) (path.Path, error) {
	if s.cache != nil {
		if p, ok := s.cache.Lookup(s.uniqueName, code); ok {
			return p, nil
		}
	}
	idx := s.face.Index(rune(code))
	scale := fixed.Int26_6(s.face.FUnitsPerEm())
	if err := s.buf.Load(s.face, scale, idx, truetype.NoHinting); err != nil {
		return path.Path{}, common.Wrap(common.FontNotFound, "tracing TrueType glyph", err)
	}
	p := traceTrueTypeContours(s.buf)
	p.CloseOpenSubPaths()
	if s.cache != nil {
		s.cache.Store(s.uniqueName, code, p)
	}
	return p, nil
}

// traceTrueTypeContours converts freetype's on/off-curve point runs
// (each contour delimited by buf.End) into Move/Line/Quad segments,
// inserting the implied on-curve midpoint between two consecutive
// off-curve points as TrueType's outline format requires.
func traceTrueTypeContours(buf truetype.GlyphBuf) path.Path {
	p := path.New()
	start := 0
	for _, end := range buf.End {
		contour := buf.Point[start:end]
		start = end
		if len(contour) == 0 {
			continue
		}
		traceContour(&p, contour)
	}
	return p
}

// anchor is one point of a contour's expanded point list: every
// off-curve run is pre-split so each is immediately followed by an
// on-curve point, real or synthesized at the midpoint of two
// consecutive off-curve points, per the TrueType outline format.
type anchor struct {
	pt geom.Point
	on bool
}

func traceContour(p *path.Path, pts []truetype.Point) {
	n := len(pts)
	at := func(i int) truetype.Point { return pts[((i%n)+n)%n] }
	toPt := func(q truetype.Point) geom.Point { return geom.NewPoint(float64(q.X), float64(q.Y)) }
	isOn := func(q truetype.Point) bool { return q.Flags&0x01 != 0 }
	mid := func(a, b geom.Point) geom.Point { return geom.NewPoint((a.X+b.X)/2, (a.Y+b.Y)/2) }

	start := 0
	for start < n && !isOn(at(start)) {
		start++
	}
	expanded := make([]anchor, 0, n+1)
	if start == n {
		// No on-curve point anywhere: synthesize one at the midpoint of
		// the first and last off-curve points.
		expanded = append(expanded, anchor{mid(toPt(at(0)), toPt(at(n-1))), true})
		start = 0
	} else {
		expanded = append(expanded, anchor{toPt(at(start)), true})
	}
	for i := 1; i <= n; i++ {
		q := at(start + i)
		if isOn(q) {
			expanded = append(expanded, anchor{toPt(q), true})
			continue
		}
		prev := expanded[len(expanded)-1]
		if !prev.on {
			expanded = append(expanded, anchor{mid(prev.pt, toPt(q)), true})
		}
		expanded = append(expanded, anchor{toPt(q), false})
	}
	expanded = append(expanded, expanded[0])

	p.Move(expanded[0].pt)
	for i := 1; i < len(expanded); {
		if expanded[i].on {
			p.Line(expanded[i].pt)
			i++
			continue
		}
		p.Quad(expanded[i].pt, expanded[i+1].pt)
		i += 2
	}
	p.Close()
}

// typesettingSource traces glyphs from an OpenType/CFF (or
// Type1-via-OTF, or TrueType-collection member) font using
// go-text/typesetting's cubic-capable outline API: a rune is looked
// up to a glyph id via the face's cmap subtable, and its outline
// walked as a Move/Line/Quad/Cube segment stream.
type typesettingSource struct {
	face       *font.Face
	cache      *GlyphCache
	uniqueName string
}

func (s *typesettingSource) UnitsPerEm() float64 {
	return float64(s.face.Upem())
}

func (s *typesettingSource) Glyph(code int) (path.Path, error) {
	if s.cache != nil {
		if p, ok := s.cache.Lookup(s.uniqueName, code); ok {
			return p, nil
		}
	}
	gid, ok := s.face.Cmap.Lookup(rune(code))
	if !ok {
		return path.Path{}, common.NewError(common.FontNotFound, "no glyph mapped for character code")
	}
	outline, ok := s.face.GlyphData(gid).(font.GlyphOutline)
	if !ok {
		return path.Path{}, common.NewError(common.FontNotFound, "font face has no outline data")
	}
	p := path.New()
	for _, seg := range outline.Segments {
		switch seg.Op {
		case opentype.SegmentOpMoveTo:
			p.Move(toOutlinePoint(seg.Args[0]))
		case opentype.SegmentOpLineTo:
			p.Line(toOutlinePoint(seg.Args[0]))
		case opentype.SegmentOpQuadTo:
			p.Quad(toOutlinePoint(seg.Args[0]), toOutlinePoint(seg.Args[1]))
		case opentype.SegmentOpCubeTo:
			p.Cubic(toOutlinePoint(seg.Args[0]), toOutlinePoint(seg.Args[1]), toOutlinePoint(seg.Args[2]))
		}
	}
	p.CloseOpenSubPaths()
	if s.cache != nil {
		s.cache.Store(s.uniqueName, code, p)
	}
	return p, nil
}

func toOutlinePoint(a struct{ X, Y float32 }) geom.Point {
	return geom.NewPoint(float64(a.X), float64(a.Y))
}

// traceBitmap turns a GF bitmap into a path of one closed rectangle per
// maximal horizontal run of set pixels, in pixel units (one unit per
// pixel, y flipped so that row 0 is the top row). Runs are not merged
// into contours, and unitsPerEm is not applied to the coordinates.
// bits is row-major, one byte per pixel, non-zero meaning set.
func traceBitmap(bits []byte, width, height int, unitsPerEm float64) path.Path {
	p := path.New()
	visited := make([]bool, len(bits))
	set := func(x, y int) bool {
		if x < 0 || x >= width || y < 0 || y >= height {
			return false
		}
		return bits[y*width+x] != 0
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if !set(x, y) || visited[idx] {
				continue
			}
			runEnd := x
			for runEnd < width && set(runEnd, y) && !visited[y*width+runEnd] {
				visited[y*width+runEnd] = true
				runEnd++
			}
			p.Move(geom.NewPoint(float64(x), float64(height-y)))
			p.Line(geom.NewPoint(float64(runEnd), float64(height-y)))
			p.Line(geom.NewPoint(float64(runEnd), float64(height-y-1)))
			p.Line(geom.NewPoint(float64(x), float64(height-y-1)))
			p.Close()
		}
	}
	return p
}
