package font

import "github.com/texware/dvi2svg/common"

// Manager owns every resolved Handle for one conversion, assigning a
// DVI-scope localId per (TeXname, scaled size) and a stable
// output-scope globalId per distinct underlying font file, used in
// generated element ids such as "g<globalId>-<char>" (§4.10).
//
// Virtual-font execution pushes a nested font table: enterVF installs
// the virtual font's own local table, used for the duration of its
// recursive command stream; leaveVF restores the enclosing table.
type Manager struct {
	resolver *Resolver

	globalIDs map[string]int // uniqueName -> globalId
	localIDs  map[int]int    // fontnum (current scope) -> localId
	nextLocal int
	nextGlobal int

	stack []scope
}

type scope struct {
	local map[int]*Handle // fontnum -> Handle, as defined in this DVI/VF scope
}

// NewManager returns a Manager backed by resolver, with one
// top-level (non-VF) scope pushed.
func NewManager(resolver *Resolver) *Manager {
	m := &Manager{
		resolver:  resolver,
		globalIDs: map[string]int{},
		localIDs:  map[int]int{},
	}
	m.stack = []scope{{local: map[int]*Handle{}}}
	return m
}

func (m *Manager) top() *scope {
	return &m.stack[len(m.stack)-1]
}

// Define registers fontnum in the current scope as texName at
// scaledSize, resolving (or reusing) its Handle and assigning it a
// globalId the first time its underlying file is seen.
func (m *Manager) Define(fontnum int, texName string, checksum uint32, scaledSize float64) (*Handle, error) {
	h, err := m.resolver.Resolve(texName, checksum, scaledSize)
	if err != nil {
		return nil, err
	}
	if _, ok := m.globalIDs[h.UniqueName]; !ok {
		m.globalIDs[h.UniqueName] = m.nextGlobal
		m.nextGlobal++
	}
	m.localIDs[fontnum] = m.nextLocal
	m.nextLocal++
	m.top().local[fontnum] = h
	return h, nil
}

// LocalID returns the DVI-scope local id assigned to fontnum the
// first time it was Define'd, in definition order (§4.10).
func (m *Manager) LocalID(fontnum int) (int, bool) {
	id, ok := m.localIDs[fontnum]
	return id, ok
}

// GetFont is an alias for Select, matching the teacher-grounded
// naming used in the spec's font-manager scenario.
func (m *Manager) GetFont(fontnum int) (*Handle, error) {
	return m.Select(fontnum)
}

// Select returns the Handle currently bound to fontnum in the active
// scope, or UnknownFont if none was defined.
func (m *Manager) Select(fontnum int) (*Handle, error) {
	h, ok := m.top().local[fontnum]
	if !ok {
		return nil, common.NewError(common.UnknownFont, "undefined font number")
	}
	return h, nil
}

// GlobalID returns the stable output-scope id for h's underlying
// font, used to build element ids shared by every size at which the
// font appears.
func (m *Manager) GlobalID(h *Handle) int {
	return m.globalIDs[h.UniqueName]
}

// EnterVF pushes a fresh local font table for the virtual font's own
// nested font definitions, as the interpreter recurses into vf's
// character program (§4.10, §4.11 "putChar").
func (m *Manager) EnterVF(vf *Handle) {
	scope := scope{local: map[int]*Handle{}}
	for i, sub := range vf.VFFonts {
		scope.local[i] = sub
	}
	m.stack = append(m.stack, scope)
}

// LeaveVF pops the nested font table pushed by EnterVF, restoring the
// enclosing context.
func (m *Manager) LeaveVF() {
	if len(m.stack) > 1 {
		m.stack = m.stack[:len(m.stack)-1]
	}
}

// Depth reports the current VF-nesting depth (1 at top level).
func (m *Manager) Depth() int {
	return len(m.stack)
}
