// Package fontmap parses dvips- and dvipdfm-style font map files and
// maintains the TeXname -> Entry table the font resolver consults,
// with APPEND/REPLACE/REMOVE application modes and a lock discipline
// that protects entries once the resolver has used them.
package fontmap

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/texware/dvi2svg/common"
)

// Mode controls how ApplyLine mutates the map when a TeXname already has an entry.
type Mode int

const (
	// APPEND adds an entry only if none exists yet for the TeXname.
	APPEND Mode = iota
	// REPLACE overwrites an existing entry, unless it is locked.
	REPLACE
	// REMOVE deletes an existing entry, unless it is locked.
	REMOVE
)

// Entry is one font-map record.
type Entry struct {
	TeXName      string
	PSName       string
	FontFile     string
	EncodingFile string
	Slant        float64
	Extend       float64
	Bold         bool
	NoEmbed      bool
	TTCIndex     int
	CSI          string
	StemV        float64

	locked bool
}

// Locked reports whether e has been used by the font resolver and so
// can no longer be overwritten or removed.
func (e *Entry) Locked() bool {
	return e != nil && e.locked
}

// Lock marks e as used; subsequent REPLACE/REMOVE operations on it are no-ops.
func (e *Entry) Lock() {
	if e != nil {
		e.locked = true
	}
}

// Map is the TeXname -> Entry table built from one or more map files.
type Map struct {
	entries map[string]*Entry
}

// NewMap returns an empty font map.
func NewMap() *Map {
	return &Map{entries: make(map[string]*Entry)}
}

// Lookup returns the entry for texName, or nil if none exists.
func (m *Map) Lookup(texName string) *Entry {
	return m.entries[texName]
}

// Load reads a map file line by line and applies every parsed entry
// with the given mode.
func (m *Map) Load(r io.Reader, mode Mode) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || isCommentLine(line) {
			continue
		}
		entry, err := parseLine(line)
		if err != nil {
			common.Log.Warning("fontmap: skipping unparseable line %q: %v", line, err)
			continue
		}
		m.Apply(entry, mode)
	}
	return scanner.Err()
}

func isCommentLine(line string) bool {
	switch line[0] {
	case '#', '%', ';', '*':
		return true
	}
	return false
}

// Apply applies entry to the map under mode.
func (m *Map) Apply(entry *Entry, mode Mode) {
	existing, has := m.entries[entry.TeXName]
	switch mode {
	case APPEND:
		if !has {
			m.entries[entry.TeXName] = entry
		}
	case REPLACE:
		if !has || !existing.locked {
			m.entries[entry.TeXName] = entry
		}
	case REMOVE:
		if has && !existing.locked {
			delete(m.entries, entry.TeXName)
		}
	}
}

// parseLine auto-detects dvips- vs dvipdfm-style and parses accordingly.
func parseLine(line string) (*Entry, error) {
	fields := tokenize(line)
	if len(fields) == 0 {
		return nil, errEmptyLine
	}
	entry := &Entry{TeXName: fields[0]}
	rest := fields[1:]

	if isDvipdfmStyle(rest) {
		parseDvipdfm(entry, rest)
	} else {
		parseDvips(entry, rest)
	}
	return entry, nil
}

var errEmptyLine = strconvErr("fontmap: empty line")

type strconvErr string

func (e strconvErr) Error() string { return string(e) }

// isDvipdfmStyle detects the dvipdfm dialect: `encname fontfilename
// [-flag value]...` always carries at least one "-x" flag token, or a
// bare second/third field that isn't a bracketed/quoted dvips option.
func isDvipdfmStyle(rest []string) bool {
	for _, f := range rest {
		if strings.HasPrefix(f, "-") && len(f) == 2 {
			return true
		}
	}
	if len(rest) >= 2 && !strings.HasPrefix(rest[0], "<") && !strings.HasPrefix(rest[0], "\"") &&
		!strings.HasPrefix(rest[1], "<") && !strings.HasPrefix(rest[1], "\"") {
		return true
	}
	return false
}

// parseDvips parses `TeXname [PSname] [options]` where options are
// `<filename.pfb>`, `<[encoding.enc>` or a `"...PSops..."` string
// carrying SlantFont/ExtendFont numeric operators.
func parseDvips(entry *Entry, rest []string) {
	for _, f := range rest {
		switch {
		case strings.HasPrefix(f, "<["):
			entry.EncodingFile = strings.TrimSuffix(strings.TrimPrefix(f, "<["), ">")
		case strings.HasPrefix(f, "<"):
			entry.FontFile = strings.TrimSuffix(strings.TrimPrefix(f, "<"), ">")
		case strings.HasPrefix(f, "\""):
			parsePSOps(entry, strings.Trim(f, "\""))
		default:
			if entry.PSName == "" {
				entry.PSName = f
			}
		}
	}
}

// parsePSOps scans a dvips PostScript-operator string for the
// SlantFont/ExtendFont numeric operators.
func parsePSOps(entry *Entry, ops string) {
	toks := strings.Fields(ops)
	for i := 0; i+1 < len(toks); i++ {
		switch toks[i+1] {
		case "SlantFont":
			if v, err := strconv.ParseFloat(toks[i], 64); err == nil {
				entry.Slant = v
			}
		case "ExtendFont":
			if v, err := strconv.ParseFloat(toks[i], 64); err == nil {
				entry.Extend = v
			}
		}
	}
}

// parseDvipdfm parses `encname fontfilename [-s slant] [-e extend]
// [-b bold] [-r] [-i ttc-index] [-p ...] [-u ...] [-v stemV] [-m ...]
// [-w wmode]`, plus the fontfilename decorations `:INDEX:`, `!`,
// `/CSI`, `,Bold|Italic|BoldItalic`.
func parseDvipdfm(entry *Entry, rest []string) {
	if len(rest) > 0 {
		entry.EncodingFile = rest[0]
	}
	if len(rest) > 1 {
		parseDvipdfmFontFile(entry, rest[1])
	}
	for i := 2; i < len(rest); i++ {
		flag := rest[i]
		arg := ""
		if i+1 < len(rest) {
			arg = rest[i+1]
		}
		switch flag {
		case "-s":
			if v, err := strconv.ParseFloat(arg, 64); err == nil {
				entry.Slant = v
			}
			i++
		case "-e":
			if v, err := strconv.ParseFloat(arg, 64); err == nil {
				entry.Extend = v
			}
			i++
		case "-b":
			entry.Bold = true
		case "-r":
			// raw/vertical flag, no state carried by the core map model.
		case "-i":
			if v, err := strconv.Atoi(arg); err == nil {
				entry.TTCIndex = v
			}
			i++
		case "-v":
			if v, err := strconv.ParseFloat(arg, 64); err == nil {
				entry.StemV = v
			}
			i++
		case "-p", "-u", "-m", "-w":
			i++ // accepted but not modeled at the core-map level.
		}
	}
}

// parseDvipdfmFontFile splits the decorated dvipdfm font filename:
// `name[:INDEX:]['!']['/CSI'][',Bold|Italic|BoldItalic]`.
func parseDvipdfmFontFile(entry *Entry, raw string) {
	name := raw
	if idx := strings.LastIndex(name, ","); idx >= 0 {
		switch name[idx+1:] {
		case "Bold", "Italic", "BoldItalic":
			name = name[:idx]
		}
	}
	if idx := strings.Index(name, "/"); idx >= 0 {
		entry.CSI = name[idx+1:]
		name = name[:idx]
	}
	if strings.HasSuffix(name, "!") {
		entry.NoEmbed = true
		name = strings.TrimSuffix(name, "!")
	}
	if strings.HasPrefix(name, ":") {
		// leading ":INDEX:" with no filename before it is malformed; ignore.
	} else if idx := strings.Index(name, ":"); idx >= 0 {
		if end := strings.Index(name[idx+1:], ":"); end >= 0 {
			if v, err := strconv.Atoi(name[idx+1 : idx+1+end]); err == nil {
				entry.TTCIndex = v
			}
			name = name[:idx] + name[idx+1+end+1:]
		}
	}
	entry.FontFile = name
}

// tokenize splits a map-file line on whitespace, keeping `"..."` and
// `<...>` / `<[...>` bracketed groups intact as single fields.
func tokenize(line string) []string {
	var fields []string
	i := 0
	for i < len(line) {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		if i >= len(line) {
			break
		}
		switch line[i] {
		case '"':
			j := i + 1
			for j < len(line) && line[j] != '"' {
				j++
			}
			if j < len(line) {
				j++
			}
			fields = append(fields, line[i:j])
			i = j
		case '<':
			j := i + 1
			for j < len(line) && line[j] != '>' {
				j++
			}
			if j < len(line) {
				j++
			}
			fields = append(fields, line[i:j])
			i = j
		default:
			j := i
			for j < len(line) && line[j] != ' ' {
				j++
			}
			fields = append(fields, line[i:j])
			i = j
		}
	}
	return fields
}
