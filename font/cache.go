package font

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/texware/dvi2svg/common"
	"github.com/texware/dvi2svg/geom"
	"github.com/texware/dvi2svg/path"
)

const glyphCacheVersion uint32 = 1

// GlyphCache is the little binary per-font glyph cache described by
// §4.9: keyed by (fontUniqueName, charCode), one file per font,
// containing {version, checksum, entries}. A mismatched checksum
// (the font file changed since the cache was written) is treated as
// an empty cache rather than an error.
type GlyphCache struct {
	dir string

	mu    sync.Mutex
	fonts map[string]*fontCache
}

type fontCache struct {
	checksum uint32
	entries  map[int]path.Path
	dirty    bool
}

// NewGlyphCache returns a cache persisting under dir (typically
// adrg/xdg's user cache home, per §4.C).
func NewGlyphCache(dir string) *GlyphCache {
	return &GlyphCache{dir: dir, fonts: map[string]*fontCache{}}
}

func (c *GlyphCache) cacheFile(uniqueName string) string {
	return filepath.Join(c.dir, uniqueName+".gcache")
}

// Load opens the on-disk cache for uniqueName, verifying its stored
// checksum against checksum; a mismatch discards the cache.
func (c *GlyphCache) Load(uniqueName string, checksum uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.fonts[uniqueName]; ok {
		return nil
	}
	fc := &fontCache{checksum: checksum, entries: map[int]path.Path{}}
	c.fonts[uniqueName] = fc

	f, err := os.Open(c.cacheFile(uniqueName))
	if err != nil {
		return nil // no cache file yet; fc stays empty
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var version, storedChecksum uint32
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return nil
	}
	if err := binary.Read(r, binary.BigEndian, &storedChecksum); err != nil {
		return nil
	}
	if version != glyphCacheVersion || storedChecksum != checksum {
		return nil // stale; treat as empty
	}
	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil
	}
	for i := uint32(0); i < count; i++ {
		code, p, err := readCacheEntry(r)
		if err != nil {
			fc.entries = map[int]path.Path{}
			return nil
		}
		fc.entries[code] = p
	}
	return nil
}

// Lookup returns the cached path for (uniqueName, code), if present.
func (c *GlyphCache) Lookup(uniqueName string, code int) (path.Path, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fc, ok := c.fonts[uniqueName]
	if !ok {
		return path.Path{}, false
	}
	p, ok := fc.entries[code]
	return p, ok
}

// Store records a traced path for (uniqueName, code) in memory; Flush
// persists it.
func (c *GlyphCache) Store(uniqueName string, code int, p path.Path) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fc, ok := c.fonts[uniqueName]
	if !ok {
		fc = &fontCache{entries: map[int]path.Path{}}
		c.fonts[uniqueName] = fc
	}
	fc.entries[code] = p
	fc.dirty = true
}

// Flush writes every dirty font's cache to disk.
func (c *GlyphCache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, fc := range c.fonts {
		if !fc.dirty {
			continue
		}
		if err := os.MkdirAll(c.dir, 0o755); err != nil {
			return common.Wrap(common.SeekFailed, "creating glyph cache directory", err)
		}
		f, err := os.Create(c.cacheFile(name))
		if err != nil {
			return common.Wrap(common.SeekFailed, "writing glyph cache for "+name, err)
		}
		w := bufio.NewWriter(f)
		binary.Write(w, binary.BigEndian, glyphCacheVersion)
		binary.Write(w, binary.BigEndian, fc.checksum)
		binary.Write(w, binary.BigEndian, uint32(len(fc.entries)))
		for code, p := range fc.entries {
			writeCacheEntry(w, code, p)
		}
		if err := w.Flush(); err != nil {
			f.Close()
			return err
		}
		f.Close()
		fc.dirty = false
	}
	return nil
}

func writeCacheEntry(w io.Writer, code int, p path.Path) {
	binary.Write(w, binary.BigEndian, int32(code))
	binary.Write(w, binary.BigEndian, uint32(len(p.Segments)))
	for _, seg := range p.Segments {
		binary.Write(w, binary.BigEndian, int32(seg.Cmd))
		binary.Write(w, binary.BigEndian, uint32(len(seg.Points)))
		for _, pt := range seg.Points {
			binary.Write(w, binary.BigEndian, pt.X)
			binary.Write(w, binary.BigEndian, pt.Y)
		}
	}
}

func readCacheEntry(r io.Reader) (int, path.Path, error) {
	var code int32
	if err := binary.Read(r, binary.BigEndian, &code); err != nil {
		return 0, path.Path{}, err
	}
	var nSegs uint32
	if err := binary.Read(r, binary.BigEndian, &nSegs); err != nil {
		return 0, path.Path{}, err
	}
	p := path.New()
	for i := uint32(0); i < nSegs; i++ {
		var cmd int32
		var nPts uint32
		if err := binary.Read(r, binary.BigEndian, &cmd); err != nil {
			return 0, path.Path{}, err
		}
		if err := binary.Read(r, binary.BigEndian, &nPts); err != nil {
			return 0, path.Path{}, err
		}
		var pts []geom.Point
		if nPts > 0 {
			pts = make([]geom.Point, nPts)
		}
		for j := uint32(0); j < nPts; j++ {
			var x, y float64
			binary.Read(r, binary.BigEndian, &x)
			binary.Read(r, binary.BigEndian, &y)
			pts[j] = geom.NewPoint(x, y)
		}
		p.Segments = append(p.Segments, path.Segment{Cmd: path.Cmd(cmd), Points: pts})
	}
	return int(code), p, nil
}
