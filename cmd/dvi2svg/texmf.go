package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/texware/dvi2svg/common"
	"github.com/texware/dvi2svg/font"
)

var _ font.FileFinder = (*texmfFinder)(nil)

// texmfFinder implements font.FileFinder by walking a fixed list of
// TEXMF root directories and caching the basename->path index, falling
// back to the kpsewhich binary (if present on $PATH) for names the
// walk didn't index — mirroring how dvisvgm itself locates .tfm/.pfb/
// .vf files outside of a single well-known tree (§6).
type texmfFinder struct {
	roots []string

	mu    sync.Mutex
	index map[string]string // "name.ext" -> absolute path
	built bool
}

// newTexmfFinder returns a finder rooted at roots, plus the common
// TEXMF locations reported by `kpsewhich -var-value TEXMF` when that
// binary is available.
func newTexmfFinder(roots ...string) *texmfFinder {
	f := &texmfFinder{roots: roots}
	f.roots = append(f.roots, kpsewhichTexmfRoots()...)
	return f
}

// Find implements font.FileFinder.
func (f *texmfFinder) Find(basename, ext string) (string, bool) {
	f.mu.Lock()
	if !f.built {
		f.index = map[string]string{}
		for _, root := range f.roots {
			f.walk(root)
		}
		f.built = true
	}
	f.mu.Unlock()

	key := basename + "." + ext
	if path, ok := f.index[key]; ok {
		return path, true
	}
	if path, ok := kpsewhichLookup(basename, ext); ok {
		return path, true
	}
	return "", false
}

func (f *texmfFinder) walk(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := d.Name()
		if _, exists := f.index[name]; !exists {
			f.index[name] = path
		}
		return nil
	})
}

// kpsewhichTexmfRoots asks kpsewhich for its configured TEXMF trees;
// it returns nil when kpsewhich isn't installed, which is the common
// case in a container image built without a full TeX distribution.
func kpsewhichTexmfRoots() []string {
	out, err := exec.Command("kpsewhich", "-var-value", "TEXMF").Output()
	if err != nil {
		return nil
	}
	var roots []string
	for _, part := range strings.Split(strings.TrimSpace(string(out)), ":") {
		part = strings.Trim(part, "{}")
		part = strings.TrimPrefix(part, "!!")
		if part != "" {
			roots = append(roots, part)
		}
	}
	return roots
}

// kpsewhichLookup shells out to kpsewhich for a single file, used as a
// last resort when the indexed walk missed it (e.g. a symlinked tree
// added to the TEXMF path after the index was built).
func kpsewhichLookup(basename, ext string) (string, bool) {
	out, err := exec.Command("kpsewhich", basename+"."+ext).Output()
	if err != nil {
		common.Log.Debug("texmf: kpsewhich lookup failed for %s.%s: %v", basename, ext, err)
		return "", false
	}
	path := strings.TrimSpace(string(out))
	if path == "" {
		return "", false
	}
	return path, true
}
