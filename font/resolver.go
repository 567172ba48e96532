package font

import (
	"bufio"
	"bytes"
	"hash/crc32"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/adrg/sysfont"
	"github.com/h2non/filetype"
	"github.com/unidoc/unitype"

	"github.com/texware/dvi2svg/common"
	"github.com/texware/dvi2svg/fontenc"
	"github.com/texware/dvi2svg/fontmap"
)

// FileFinder locates a font or metric resource by basename and
// extension, abstracting over TEXMF-tree layout so the resolver never
// touches the filesystem convention directly (§6).
type FileFinder interface {
	Find(basename, ext string) (path string, ok bool)
}

// suffixes tried in order by the resolver, fixing the handle's
// Variant from the first one that exists (§4.8 step 2).
var suffixes = []struct {
	ext     string
	variant Variant
}{
	{"pfb", VariantType1},
	{"otf", VariantOpenType},
	{"ttf", VariantTrueType},
	{"ttc", VariantCollection},
	{"vf", VariantVirtual},
	{"mf", VariantMetafont},
}

// Resolver resolves a TeX font name and scaled size to a Handle,
// consulting the font map, a FileFinder and, as a last resort,
// adrg/sysfont's system font directories.
type Resolver struct {
	Map    *fontmap.Map
	Finder FileFinder
	Cache  *GlyphCache

	// CreateMissing enables invoking an external Metafont binary when
	// only an .mf source is found (§4.8 step 3).
	CreateMissing bool
	MetafontBin   string // defaults to "mf"

	sysFinder *sysfont.Finder
	byFile    map[string]*Handle // uniqueName -> owning handle, for proxy sharing
	knownTeX  []string           // known TeXnames, for the strutil suggestion

	// loadHookForTest, when set, replaces load's file-system access so
	// tests can exercise localId/globalId/proxy assignment without a
	// real font file on disk.
	loadHookForTest func(h *Handle) error
}

// NewResolver returns a Resolver using finder and cache, with no font
// map; callers wire Map before calling Resolve.
func NewResolver(finder FileFinder, cache *GlyphCache) *Resolver {
	return &Resolver{
		Finder:      finder,
		Cache:       cache,
		MetafontBin: "mf",
		byFile:      map[string]*Handle{},
	}
}

// Resolve loads (or returns a proxy for an already-loaded) Handle for
// texName at scaledSize, verifying declared against checksum.
func (r *Resolver) Resolve(texName string, declaredChecksum uint32, scaledSize float64) (*Handle, error) {
	r.knownTeX = append(r.knownTeX, texName)

	lookupName := texName
	var entry *fontmap.Entry
	if r.Map != nil {
		if e := r.Map.Lookup(texName); e != nil {
			entry = e
			e.Lock()
			if e.PSName != "" {
				lookupName = e.PSName
			}
		}
	}

	filePath, variant, ok := r.findFile(lookupName)
	if !ok {
		r.suggest(texName)
		return nil, common.NewError(common.FontNotFound, "no font file found for "+texName)
	}

	uniqueName := filePath
	if existing, ok := r.byFile[uniqueName]; ok {
		return r.proxyOf(existing, texName, scaledSize), nil
	}

	h := &Handle{
		TeXName:    texName,
		ScaledSize: scaledSize,
		Variant:    variant,
		FilePath:   filePath,
		UniqueName: uniqueName,
	}
	if entry != nil {
		h.TTCIndex = entry.TTCIndex
		h.VFCommands = nil // populated by the VF reader, if Variant == VariantVirtual
	}

	if err := r.load(h); err != nil {
		return nil, err
	}
	if entry != nil && entry.EncodingFile != "" {
		r.loadEncoding(h, entry.EncodingFile)
	}
	if declaredChecksum != 0 && h.Checksum != 0 && declaredChecksum != h.Checksum {
		common.Log.Warning("font: checksum mismatch for %q: dvi=%08x file=%08x", texName, declaredChecksum, h.Checksum)
	}
	r.byFile[uniqueName] = h
	return h, nil
}

// proxyOf returns a Handle sharing base's outline source and metrics
// but requesting its own scaled size (§4.8, "proxy handle").
func (r *Resolver) proxyOf(base *Handle, texName string, scaledSize float64) *Handle {
	return &Handle{
		TeXName:    texName,
		ScaledSize: scaledSize,
		DesignSize: base.DesignSize,
		Checksum:   base.Checksum,
		Variant:    base.Variant,
		FilePath:   base.FilePath,
		TTCIndex:   base.TTCIndex,
		UniqueName: base.UniqueName,
		Metrics:    base.Metrics,
		Encoding:   base.Encoding,
		CMap:       base.CMap,
		unitsPerEm: base.unitsPerEm,
		base:       base,
	}
}

// findFile tries each suffix in turn via the FileFinder, confirming
// the actual variant with h2non/filetype's magic-byte sniff so a
// misnamed file does not silently select the wrong decoder (§4.8
// step 2).
func (r *Resolver) findFile(name string) (string, Variant, bool) {
	for _, s := range suffixes {
		if p, ok := r.Finder.Find(name, s.ext); ok {
			return p, r.sniff(p, s.variant), true
		}
	}
	if found := r.sysFontFallback(name); found != "" {
		return found, variantForExt(filepath.Ext(found)), true
	}
	return "", VariantUnknown, false
}

func (r *Resolver) sniff(path string, fallback Variant) Variant {
	data, err := os.ReadFile(path)
	if err != nil || len(data) < 261 {
		return fallback
	}
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return fallback
	}
	switch kind.Extension {
	case "ttf":
		return VariantTrueType
	case "ttc":
		return VariantCollection
	case "otf":
		return VariantOpenType
	default:
		return fallback
	}
}

// sysFontFallback searches system font directories as a last resort
// when the font map and TEXMF tree turn up nothing (§4.E).
func (r *Resolver) sysFontFallback(name string) string {
	if r.sysFinder == nil {
		r.sysFinder = sysfont.NewFinder(&sysfont.FinderOpts{Extensions: []string{".ttf", ".ttc", ".otf"}})
	}
	if f := r.sysFinder.Match(name); f != nil {
		return f.Filename
	}
	return ""
}

// suggest logs the closest known font-map name by Jaro-Winkler
// distance when a lookup fails outright (§4.E, strutil wiring). It
// never substitutes the suggestion automatically.
func (r *Resolver) suggest(texName string) {
	best, bestScore := "", 0.0
	for _, known := range r.knownTeX {
		if known == texName {
			continue
		}
		score := strutil.Similarity(texName, known, metrics.NewJaroWinkler())
		if score > bestScore {
			best, bestScore = known, score
		}
	}
	if best != "" && bestScore > 0.8 {
		common.Log.Warning("font: %q not found; did you mean %q?", texName, best)
	} else {
		common.Log.Warning("font: %q not found", texName)
	}
}

// load populates metrics, encoding and outline source for a freshly
// resolved (non-proxy) handle.
func (r *Resolver) load(h *Handle) error {
	if r.loadHookForTest != nil {
		return r.loadHookForTest(h)
	}
	switch h.Variant {
	case VariantMetafont:
		return r.loadMetafont(h)
	case VariantVirtual:
		h.Metrics = r.loadTFMMetrics(h)
		return nil
	default:
		return r.loadOutlineFont(h)
	}
}

func (r *Resolver) loadOutlineFont(h *Handle) error {
	src, err := loadOutlineSource(h.FilePath, h.Variant, h.TTCIndex, r.Cache, h.UniqueName)
	if err != nil {
		return err
	}
	h.outlines = src
	h.unitsPerEm = src.UnitsPerEm()

	if data, err := os.ReadFile(h.FilePath); err == nil {
		// unitype.Parse confirms the sfnt/OpenType table directory is
		// well-formed before trusting the file for checksum purposes;
		// the checksum itself is a CRC-32 of the raw bytes, compared
		// against the DVI font definition's declared value.
		if _, err := unitype.Parse(bytes.NewReader(data)); err == nil {
			h.Checksum = crc32.ChecksumIEEE(data)
		}
	}
	h.DesignSize = h.unitsPerEm
	h.Metrics = r.loadTFMMetrics(h)
	return nil
}

// loadTFMMetrics looks for a .tfm file matching h's TeX name and
// parses it for advance widths/heights/depths; a missing or malformed
// metric file falls back to NullMetrics with a warning rather than
// failing resolution (§4.7 "NullMetrics substitute").
func (r *Resolver) loadTFMMetrics(h *Handle) fontenc.Metrics {
	p, ok := r.Finder.Find(h.TeXName, "tfm")
	if !ok {
		common.Log.Warning("font: no TFM metrics found for %q; advances will be zero", h.TeXName)
		return fontenc.NullMetrics{}
	}
	f, err := os.Open(p)
	if err != nil {
		common.Log.Warning("font: cannot open TFM file %q: %v", p, err)
		return fontenc.NullMetrics{}
	}
	defer f.Close()
	m, err := fontenc.ParseTFM(f)
	if err != nil {
		common.Log.Warning("font: cannot parse TFM file %q: %v", p, err)
		return fontenc.NullMetrics{}
	}
	fontenc.VerifyChecksum(h.TeXName, h.Checksum, m)
	return m
}

// loadMetafont invokes an external mf binary to produce a GF bitmap
// font when only a Metafont source is available and bitmap tracing
// was requested; otherwise fails with FontNotFound (§4.8 step 3).
func (r *Resolver) loadMetafont(h *Handle) error {
	if !r.CreateMissing {
		return common.NewError(common.FontNotFound, "only a Metafont source exists for "+h.TeXName+"; bitmap tracing disabled")
	}
	dir := filepath.Dir(h.FilePath)
	base := strings.TrimSuffix(filepath.Base(h.FilePath), ".mf")
	cmd := exec.Command(r.MetafontBin, "\\mode:=localfont; mag:=1; batchmode; input "+base)
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		return common.Wrap(common.FontNotFound, "invoking Metafont for "+h.TeXName, err)
	}
	h.Metrics = r.loadTFMMetrics(h)
	return nil
}

// loadEncoding attaches the .enc file named by the font map entry, if
// the FileFinder can locate it; a missing or malformed encoding file
// is logged and left unset rather than failing the resolution.
func (r *Resolver) loadEncoding(h *Handle, encodingFile string) {
	base := strings.TrimSuffix(encodingFile, ".enc")
	p, ok := r.Finder.Find(base, "enc")
	if !ok {
		common.Log.Warning("font: encoding file %q not found for %q", encodingFile, h.TeXName)
		return
	}
	f, err := os.Open(p)
	if err != nil {
		common.Log.Warning("font: cannot open encoding file %q: %v", p, err)
		return
	}
	defer f.Close()
	enc, err := fontenc.ParseEncFile(base, bufio.NewReader(f))
	if err != nil {
		common.Log.Warning("font: cannot parse encoding file %q: %v", p, err)
		return
	}
	h.Encoding = enc
}

func variantForExt(ext string) Variant {
	switch strings.TrimPrefix(strings.ToLower(ext), ".") {
	case "pfb":
		return VariantType1
	case "otf":
		return VariantOpenType
	case "ttf":
		return VariantTrueType
	case "ttc":
		return VariantCollection
	case "vf":
		return VariantVirtual
	case "mf":
		return VariantMetafont
	default:
		return VariantUnknown
	}
}
