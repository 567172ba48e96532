package convert

import (
	"github.com/texware/dvi2svg/font"
	"github.com/texware/dvi2svg/fontmap"
)

// Context bundles the per-conversion services the core models as
// process-global in the original (font manager, font map, glyph
// cache): constructing one Context per conversion lets a single
// process convert multiple documents concurrently without shared
// mutable state (§5, §9 "Global mutable registries").
type Context struct {
	Map      *fontmap.Map
	Cache    *font.GlyphCache
	Resolver *font.Resolver
	Manager  *font.Manager
}

// NewContext returns a Context wiring finder and cacheDir into a fresh
// font map, glyph cache, resolver and manager.
func NewContext(finder font.FileFinder, cacheDir string, opts Options) *Context {
	fm := fontmap.NewMap()
	cache := font.NewGlyphCache(cacheDir)
	resolver := font.NewResolver(finder, cache)
	resolver.Map = fm
	resolver.CreateMissing = opts.MayCreateFonts
	manager := font.NewManager(resolver)

	return &Context{
		Map:      fm,
		Cache:    cache,
		Resolver: resolver,
		Manager:  manager,
	}
}

// Close flushes the glyph cache to disk.
func (c *Context) Close() error {
	return c.Cache.Flush()
}
