package fontenc

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Encoding translates an 8-bit character code to either a glyph name
// (for outline fonts addressed by name) or a Unicode scalar value.
type Encoding struct {
	name  string
	names [256]string
	runes [256]rune
}

// Name returns the encoding's resource name (e.g. the basename of the
// .enc file it was parsed from, or a built-in charmap name).
func (e *Encoding) Name() string {
	return e.name
}

// GlyphName returns the PostScript glyph name assigned to code, or ""
// if none is defined.
func (e *Encoding) GlyphName(code int) string {
	if code < 0 || code > 255 {
		return ""
	}
	return e.names[code]
}

// Rune returns the Unicode scalar value assigned to code, or 0 if none is defined.
func (e *Encoding) Rune(code int) rune {
	if code < 0 || code > 255 {
		return 0
	}
	return e.runes[code]
}

// ParseEncFile parses a PostScript encoding array literal of the form
// `[ /name1 /name2 ... ] def`, assigning sequential codes starting at 0.
func ParseEncFile(name string, r *bufio.Reader) (*Encoding, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseEncContent(name, string(data)), nil
}

func parseEncContent(name, content string) *Encoding {
	e := &Encoding{name: name}
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end < 0 || end <= start {
		return e
	}
	body := content[start+1 : end]
	code := 0
	for _, tok := range strings.Fields(body) {
		if code >= 256 {
			break
		}
		if strings.HasPrefix(tok, "/") {
			e.names[code] = strings.TrimPrefix(tok, "/")
			code++
		}
	}
	return e
}

// BuiltinCharmap resolves a built-in 8-bit code-page encoding by name
// (e.g. "latin1", "cp1252") using golang.org/x/text/encoding/charmap,
// mapping each byte to its Unicode rune. Returns nil if name is unknown.
func BuiltinCharmap(name string) *Encoding {
	cm, ok := builtinCharmaps[strings.ToLower(name)]
	if !ok {
		return nil
	}
	e := &Encoding{name: name}
	for i := 0; i < 256; i++ {
		r := cm.DecodeByte(byte(i))
		e.runes[i] = r
	}
	return e
}

var builtinCharmaps = map[string]*charmap.Charmap{
	"latin1":     charmap.ISO8859_1,
	"iso-8859-1": charmap.ISO8859_1,
	"latin2":     charmap.ISO8859_2,
	"iso-8859-2": charmap.ISO8859_2,
	"cp1250":     charmap.Windows1250,
	"cp1252":     charmap.Windows1252,
	"koi8-r":     charmap.KOI8R,
}
