package svgbuild

import (
	"fmt"
	"sort"

	"github.com/texware/dvi2svg/common"
	"github.com/texware/dvi2svg/font"
	"github.com/texware/dvi2svg/xmltree"
)

// EmitGlyphDefs walks every (font, char) pair SetChar recorded and
// appends its definition to <defs>: one canonical <path> per distinct
// underlying font file and character, keyed by the globalId the font
// manager assigned to that file (§4.10, §4.14 "Final font emission").
// A proxy handle — one sharing its outline source with an
// already-emitted canonical handle at a different scale — never gets
// its own defs entry; setCharPathMode instead references the
// canonical entry with a scale() transform at the use site.
func (b *Builder) EmitGlyphDefs() {
	if b.opts.Mode == FontMode {
		b.emitFontElements()
		return
	}

	emitted := map[int]bool{} // (globalId, code) already has a defs <path>
	sort.SliceStable(b.usage, func(i, j int) bool {
		gi, gj := b.fonts.GlobalID(b.usage[i].handle), b.fonts.GlobalID(b.usage[j].handle)
		if gi != gj {
			return gi < gj
		}
		return b.usage[i].code < b.usage[j].code
	})
	for _, u := range b.usage {
		canonical := u.handle.UniqueFont()
		globalID := b.fonts.GlobalID(canonical)
		key := globalID*1_000_000 + u.code
		if emitted[key] {
			continue
		}
		emitted[key] = true

		outline, err := canonical.Outline(u.code)
		if err != nil {
			common.Log.Warning("svgbuild: glyph outline unavailable for font %s char %d: %v",
				canonical.TeXName, u.code, err)
			continue
		}
		el := b.defs.CreateChild("path")
		el.SetAttr("id", glyphID(globalID, u.code))
		el.SetAttr("d", outline.String())
	}
}

// emitFontElements groups used glyphs by globalId into <font> elements
// with one <glyph> child per character, each keyed by the font's
// encoding (falling back to the raw character code as a unicode
// value).
func (b *Builder) emitFontElements() {
	byFont := map[int][]glyphUse{}
	var order []int
	for _, u := range b.usage {
		gid := b.fonts.GlobalID(u.handle)
		if _, ok := byFont[gid]; !ok {
			order = append(order, gid)
		}
		byFont[gid] = append(byFont[gid], u)
	}
	sort.Ints(order)

	for _, gid := range order {
		uses := byFont[gid]
		fontEl := b.defs.CreateChild("font")
		fontEl.SetAttr("id", fmt.Sprintf("font%d", gid))
		face := fontEl.CreateChild("font-face")
		if len(uses) > 0 {
			face.SetAttr("font-family", fmt.Sprintf("font%d", gid))
		}
		sort.SliceStable(uses, func(i, j int) bool { return uses[i].code < uses[j].code })
		seen := map[int]bool{}
		for _, u := range uses {
			if seen[u.code] {
				continue
			}
			seen[u.code] = true
			b.emitGlyphElement(fontEl, u.handle, u.code)
		}
	}
}

func (b *Builder) emitGlyphElement(fontEl *xmltree.Element, fnt *font.Handle, code int) {
	glyph := fontEl.CreateChild("glyph")
	glyph.SetAttr("unicode", string(glyphRune(fnt, code)))
	glyph.SetAttrNum("horiz-adv-x", fnt.CharWidthPt(code), b.precision)

	outline, err := fnt.Outline(code)
	if err != nil {
		common.Log.Warning("svgbuild: glyph outline unavailable for font %s char %d: %v",
			fnt.TeXName, code, err)
		return
	}
	glyph.SetAttr("d", outline.String())
}

func glyphRune(fnt *font.Handle, code int) rune {
	if fnt.Encoding != nil {
		if r := fnt.Encoding.Rune(code); r != 0 {
			return r
		}
	}
	return rune(code)
}
