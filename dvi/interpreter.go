// Package dvi implements the DVI interpreter (C11): a stack-based
// opcode dispatch loop over a cursor state, a multi-pass postamble and
// bop-chasing page index, and nested virtual-font execution.
package dvi

import (
	"bytes"
	"context"

	"github.com/texware/dvi2svg/common"
	"github.com/texware/dvi2svg/dviio"
	"github.com/texware/dvi2svg/font"
	"github.com/texware/dvi2svg/geom"
)

// Progress is invoked during page execution when PrecomputePageLength
// is enabled, reporting bytes consumed against the page's total byte
// length (§4.11 "page-length precomputation", §4.F).
type Progress func(consumed, total int64)

// Options configures an Interpreter beyond the mandatory stream,
// font manager and visitor.
type Options struct {
	PrecomputePageLength bool
	Progress             Progress
}

// Interpreter executes DVI opcodes against a Cursor, dispatching
// page-level events to a Visitor and resolving fonts through a
// font.Manager (§4.11).
type Interpreter struct {
	stream  *dviio.Stream
	visitor Visitor
	fonts   *font.Manager
	opts    Options

	pre Preamble
	scale, rawScale float64 // documentScale / unitScale, cached from the preamble

	cursor Cursor
	stack  []Cursor

	currentFont   *font.Handle
	currentFontID int
	haveFont      bool

	post        Postamble
	pageOffsets []int64 // ascending, pageOffsets[i] is the byte offset of page i+1

	// vfDepth tracks nested virtual-font execution for diagnostics;
	// enterVF/leaveVF delegate the actual scope bookkeeping to fonts.
	vfDepth int
}

// NewInterpreter returns an Interpreter reading from stream, with
// page events delivered to visitor and fonts resolved through
// manager.
func NewInterpreter(stream *dviio.Stream, manager *font.Manager, visitor Visitor, opts Options) *Interpreter {
	return &Interpreter{stream: stream, fonts: manager, visitor: visitor, opts: opts}
}

// TotalPages returns the page count discovered by ScanPostamble.
func (in *Interpreter) TotalPages() int {
	return len(in.pageOffsets)
}

// SetVisitor swaps the Visitor events are delivered to, letting a
// driver reuse one postamble scan (and its resolved page offsets)
// across several ExecutePage calls with a fresh Visitor per page
// instead of re-scanning the file each time.
func (in *Interpreter) SetVisitor(visitor Visitor) {
	in.visitor = visitor
}

// ScanPostamble performs the multi-pass scan of §4.11: locate
// post_post from the end of the file, jump to the postamble to learn
// page geometry and font definitions, then chase the linked list of
// bops backwards to resolve every page's byte offset in O(total
// pages) time and O(1) memory.
func (in *Interpreter) ScanPostamble(ctx context.Context) (*Postamble, error) {
	if err := in.readPreambleFromStart(); err != nil {
		return nil, err
	}
	postPtr, err := in.locatePostPost()
	if err != nil {
		return nil, err
	}
	if err := in.stream.Seek(postPtr); err != nil {
		return nil, err
	}
	if err := in.readPostamble(); err != nil {
		return nil, err
	}
	if err := in.readPostambleFontDefs(ctx); err != nil {
		return nil, err
	}
	if err := in.chaseBOPs(); err != nil {
		return nil, err
	}
	return &in.post, nil
}

func (in *Interpreter) readPreambleFromStart() error {
	if err := in.stream.Seek(0); err != nil {
		return err
	}
	pre, err := readPreamble(in.stream)
	if err != nil {
		return err
	}
	in.pre = pre
	in.scale = documentScale(pre.Num, pre.Den, pre.Mag)
	in.rawScale = unitScale(pre.Num, pre.Den)
	return nil
}

// locatePostPost walks backward over the post_post's 223-byte trailing
// fill to find the identification byte, then the 4-byte pointer to the
// postamble, then verifies the post_post opcode precedes it.
func (in *Interpreter) locatePostPost() (int64, error) {
	size, err := in.stream.Size()
	if err != nil {
		return 0, err
	}
	pos := size - 1
	var id byte
	for pos >= 0 {
		if err := in.stream.Seek(pos); err != nil {
			return 0, err
		}
		b, err := in.stream.ReadByte()
		if err != nil {
			return 0, err
		}
		if b != 223 {
			id = b
			break
		}
		pos--
	}
	if pos < 5 {
		return 0, common.NewErrorAt(common.InvalidDVIFile, "post_post trailer not found", pos)
	}
	if !validFormatID(id) {
		return 0, common.NewErrorAt(common.InvalidDVIFile, "unrecognised identification byte in trailer", pos)
	}
	ptrPos := pos - 4
	if err := in.stream.Seek(ptrPos); err != nil {
		return 0, err
	}
	ptr, err := in.stream.ReadUnsigned(4)
	if err != nil {
		return 0, err
	}
	opPos := ptrPos - 1
	if err := in.stream.Seek(opPos); err != nil {
		return 0, err
	}
	op, err := in.stream.ReadByte()
	if err != nil {
		return 0, err
	}
	if op != opPostPost {
		return 0, common.NewErrorAt(common.InvalidDVIFile, "expected post_post opcode", opPos)
	}
	return int64(ptr), nil
}

func (in *Interpreter) readPostamble() error {
	op, err := in.stream.ReadByte()
	if err != nil {
		return err
	}
	if op != opPost {
		return common.NewErrorAt(common.InvalidDVIFile, "expected post opcode", in.stream.Tell())
	}
	lastBOP, err := in.stream.ReadSigned(4)
	if err != nil {
		return err
	}
	num, err := in.stream.ReadSigned(4)
	if err != nil {
		return err
	}
	den, err := in.stream.ReadSigned(4)
	if err != nil {
		return err
	}
	mag, err := in.stream.ReadSigned(4)
	if err != nil {
		return err
	}
	maxV, err := in.stream.ReadSigned(4)
	if err != nil {
		return err
	}
	maxH, err := in.stream.ReadSigned(4)
	if err != nil {
		return err
	}
	maxStack, err := in.stream.ReadUnsigned(2)
	if err != nil {
		return err
	}
	totalPages, err := in.stream.ReadUnsigned(2)
	if err != nil {
		return err
	}
	in.post = Postamble{
		Preamble:   Preamble{ID: in.pre.ID, Num: num, Den: den, Mag: mag},
		LastBOP:    int64(lastBOP),
		MaxV:       maxV,
		MaxH:       maxH,
		MaxStack:   int16(maxStack),
		TotalPages: int16(totalPages),
	}
	return nil
}

// readPostambleFontDefs reads the font definitions following the
// postamble header up to (but not including) the post_post opcode.
func (in *Interpreter) readPostambleFontDefs(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return common.NewError(common.Cancelled, "scan cancelled")
		}
		peek, err := in.stream.Peek(1)
		if err != nil {
			return err
		}
		op := peek[0]
		if op == opPostPost {
			return nil
		}
		if op < opFntDef1 || op > opFntDef4 {
			return common.NewErrorAt(common.InvalidDVIFile, "unexpected opcode in postamble", in.stream.Tell())
		}
		if _, err := in.stream.ReadByte(); err != nil {
			return err
		}
		if err := in.readFontDef(op); err != nil {
			return err
		}
	}
}

// readFontDef reads one fnt_def record (fontnum, checksum, scaled
// size, design size, area/name strings) and registers it with the
// font manager.
func (in *Interpreter) readFontDef(op byte) error {
	n := int(op-opFntDef1) + 1
	fontnum, err := in.stream.ReadUnsigned(n)
	if err != nil {
		return err
	}
	checksum, err := in.stream.ReadUnsigned(4)
	if err != nil {
		return err
	}
	scaledRaw, err := in.stream.ReadSigned(4)
	if err != nil {
		return err
	}
	_, err = in.stream.ReadSigned(4) // design size, recomputed by the resolver from the outline file
	if err != nil {
		return err
	}
	area, err := in.stream.ReadByte()
	if err != nil {
		return err
	}
	nameLen, err := in.stream.ReadByte()
	if err != nil {
		return err
	}
	areaStr, err := in.stream.ReadString(int(area))
	if err != nil {
		return err
	}
	name, err := in.stream.ReadString(int(nameLen))
	if err != nil {
		return err
	}
	fullName := name
	if areaStr != "" {
		fullName = areaStr + "/" + name
	}
	scaledSizePt := (float64(scaledRaw) / (1 << 20)) * in.scale
	_, err = in.fonts.Define(int(fontnum), fullName, checksum, scaledSizePt)
	return err
}

// chaseBOPs follows the prev_bop linked list backwards from the
// postamble's LastBOP, recording each page's byte offset, until
// prev_bop is -1 (no earlier page). Offsets are collected in reverse
// page order then flipped so pageOffsets[i] is page i+1's offset.
func (in *Interpreter) chaseBOPs() error {
	var offsets []int64
	next := in.post.LastBOP
	for next != -1 {
		if err := in.stream.Seek(next); err != nil {
			return err
		}
		op, err := in.stream.ReadByte()
		if err != nil {
			return err
		}
		if op != opBop {
			return common.NewErrorAt(common.InvalidDVIFile, "prev_bop does not point at a bop", next)
		}
		offsets = append(offsets, next)
		if err := in.stream.Skip(40); err != nil { // ten 4-byte \count registers
			return err
		}
		prev, err := in.stream.ReadSigned(4)
		if err != nil {
			return err
		}
		next = int64(prev)
	}
	in.pageOffsets = make([]int64, len(offsets))
	for i, off := range offsets {
		in.pageOffsets[len(offsets)-1-i] = off
	}
	return nil
}

// ExecutePage seeks to the 1-based pageNumber's bop and executes its
// command stream until eop, dispatching every event to the Visitor.
func (in *Interpreter) ExecutePage(ctx context.Context, pageNumber int) error {
	if pageNumber < 1 || pageNumber > len(in.pageOffsets) {
		return common.NewError(common.InvalidDVIFile, "page number out of range")
	}
	if err := in.stream.Seek(in.pageOffsets[pageNumber-1]); err != nil {
		return err
	}
	in.cursor = Cursor{}
	in.stack = in.stack[:0]
	in.haveFont = false

	var pageLen int64
	if in.opts.PrecomputePageLength {
		pageLen = in.peekPageLength()
	}
	start := in.stream.Tell()

	for {
		if err := ctx.Err(); err != nil {
			return common.NewError(common.Cancelled, "conversion cancelled")
		}
		op, err := in.stream.ReadByte()
		if err != nil {
			return err
		}
		done, err := in.executeOpcode(op, pageNumber)
		if err != nil {
			return err
		}
		if in.opts.Progress != nil && in.opts.PrecomputePageLength {
			in.opts.Progress(in.stream.Tell()-start, pageLen)
		}
		if done {
			return nil
		}
	}
}

// peekPageLength scans forward from the current bop to the matching
// eop, tracking each opcode's operand width, then rewinds, so a
// progress callback can report fraction-complete (§4.11).
func (in *Interpreter) peekPageLength() int64 {
	start := in.stream.Tell()
	length := int64(0)
	for {
		b, err := in.stream.Peek(1)
		if err != nil {
			break
		}
		op := b[0]
		width := operandWidth(op)
		if err := in.stream.Skip(1 + width); err != nil {
			break
		}
		length += int64(1 + width)
		if op == opEop {
			break
		}
	}
	in.stream.Seek(start)
	return length
}

// operandWidth returns the number of operand bytes following op,
// excluding variable-length strings (xxx, fnt_def) which the
// estimate conservatively treats as zero-width; used only for
// progress reporting, never for dispatch.
func operandWidth(op byte) int {
	switch {
	case op <= opSetCharHi:
		return 0
	case op == opSetRule || op == opPutRule:
		return 8
	case op >= opSet1 && op <= opSet4:
		return int(op-opSet1) + 1
	case op >= opPut1 && op <= opPut4:
		return int(op-opPut1) + 1
	case op == opBop:
		return 44
	case op == opEop || op == opNop || op == opPush || op == opPop:
		return 0
	case op >= opRight1 && op <= opRight4:
		return int(op-opRight1) + 1
	case op == opW0 || op == opX0 || op == opY0 || op == opZ0:
		return 0
	case op >= opW1 && op <= opW4:
		return int(op-opW1) + 1
	case op >= opX1 && op <= opX4:
		return int(op-opX1) + 1
	case op >= opDown1 && op <= opDown4:
		return int(op-opDown1) + 1
	case op >= opY1 && op <= opY4:
		return int(op-opY1) + 1
	case op >= opZ1 && op <= opZ4:
		return int(op-opZ1) + 1
	case op >= opFontNumLo && op <= opFontNumHi:
		return 0
	case op >= opFnt1 && op <= opFnt4:
		return int(op-opFnt1) + 1
	default:
		return 0
	}
}

// executeOpcode dispatches a single already-read opcode byte,
// returning done=true when eop closes the page.
func (in *Interpreter) executeOpcode(op byte, pageNumber int) (bool, error) {
	s := in.stream
	switch {
	case op <= opSetCharHi:
		return false, in.putChar(int(op), true)

	case op >= opSet1 && op <= opSet4:
		n := int(op-opSet1) + 1
		c, err := s.ReadUnsigned(n)
		if err != nil {
			return false, err
		}
		return false, in.putChar(int(c), true)

	case op == opSetRule:
		return false, in.drawRule(true)

	case op >= opPut1 && op <= opPut4:
		n := int(op-opPut1) + 1
		c, err := s.ReadUnsigned(n)
		if err != nil {
			return false, err
		}
		return false, in.putChar(int(c), false)

	case op == opPutRule:
		return false, in.drawRule(false)

	case op == opNop:
		return false, nil

	case op == opBop:
		return false, in.doBop(pageNumber)

	case op == opEop:
		if len(in.stack) != 0 {
			return false, common.NewErrorAt(common.StackUnderflow, "non-empty stack at eop", s.Tell())
		}
		in.visitor.EndPage(pageNumber)
		return true, nil

	case op == opPush:
		in.stack = append(in.stack, in.cursor)
		return false, nil

	case op == opPop:
		if len(in.stack) == 0 {
			return false, common.NewErrorAt(common.StackUnderflow, "pop on empty stack", s.Tell())
		}
		in.cursor = in.stack[len(in.stack)-1]
		in.stack = in.stack[:len(in.stack)-1]
		return false, nil

	case op >= opRight1 && op <= opRight4:
		v, err := s.ReadSigned(int(op-opRight1) + 1)
		if err != nil {
			return false, err
		}
		in.cursor.H += float64(v) * in.scale
		in.visitor.MoveToX()
		return false, nil

	case op == opW0:
		in.cursor.H += in.cursor.W
		in.visitor.MoveToX()
		return false, nil

	case op >= opW1 && op <= opW4:
		v, err := s.ReadSigned(int(op-opW1) + 1)
		if err != nil {
			return false, err
		}
		in.cursor.W = float64(v) * in.scale
		in.cursor.H += in.cursor.W
		in.visitor.MoveToX()
		return false, nil

	case op == opX0:
		in.cursor.H += in.cursor.X
		in.visitor.MoveToX()
		return false, nil

	case op >= opX1 && op <= opX4:
		v, err := s.ReadSigned(int(op-opX1) + 1)
		if err != nil {
			return false, err
		}
		in.cursor.X = float64(v) * in.scale
		in.cursor.H += in.cursor.X
		in.visitor.MoveToX()
		return false, nil

	case op >= opDown1 && op <= opDown4:
		v, err := s.ReadSigned(int(op-opDown1) + 1)
		if err != nil {
			return false, err
		}
		in.cursor.V += float64(v) * in.scale
		in.visitor.MoveToY()
		return false, nil

	case op == opY0:
		in.cursor.V += in.cursor.Y
		in.visitor.MoveToY()
		return false, nil

	case op >= opY1 && op <= opY4:
		v, err := s.ReadSigned(int(op-opY1) + 1)
		if err != nil {
			return false, err
		}
		in.cursor.Y = float64(v) * in.scale
		in.cursor.V += in.cursor.Y
		in.visitor.MoveToY()
		return false, nil

	case op == opZ0:
		in.cursor.V += in.cursor.Z
		in.visitor.MoveToY()
		return false, nil

	case op >= opZ1 && op <= opZ4:
		v, err := s.ReadSigned(int(op-opZ1) + 1)
		if err != nil {
			return false, err
		}
		in.cursor.Z = float64(v) * in.scale
		in.cursor.V += in.cursor.Z
		in.visitor.MoveToY()
		return false, nil

	case op >= opFontNumLo && op <= opFontNumHi:
		return false, in.selectFont(int(op - opFontNumLo))

	case op >= opFnt1 && op <= opFnt4:
		n, err := s.ReadUnsigned(int(op-opFnt1) + 1)
		if err != nil {
			return false, err
		}
		return false, in.selectFont(int(n))

	case op >= opXXX1 && op <= opXXX4:
		k, err := s.ReadUnsigned(int(op-opXXX1) + 1)
		if err != nil {
			return false, err
		}
		text, err := s.ReadString(int(k))
		if err != nil {
			return false, err
		}
		in.visitor.Special(text)
		return false, nil

	case op >= opFntDef1 && op <= opFntDef4:
		return false, in.readFontDef(op)

	case op == opPTeXDir:
		v, err := s.ReadUnsigned(1)
		if err != nil {
			return false, err
		}
		in.cursor.Mode = directionMode(v)
		return false, nil

	case op >= opXDVPicture && op <= opXDVGlyphsY:
		return false, in.skipUnsupportedXDV(op)

	default:
		return false, common.NewErrorAt(common.InvalidDVIFile, "undefined opcode", s.Tell())
	}
}

func directionMode(v uint32) WritingMode {
	switch v {
	case 1:
		return ModeTB
	case 2:
		return ModeBT
	default:
		return ModeLR
	}
}

// skipUnsupportedXDV best-effort skips an XDV extension record this
// interpreter does not decode (native glyph arrays, picture
// inclusion): reads a 4-byte length and discards that many bytes,
// logging once per occurrence. Full XDV native-font support is not
// implemented; the produced SVG will be missing those glyphs.
func (in *Interpreter) skipUnsupportedXDV(op byte) error {
	common.Log.Warning("dvi: skipping unsupported XDV opcode %d", op)
	n, err := in.stream.ReadUnsigned(4)
	if err != nil {
		return err
	}
	return in.stream.Skip(int(n))
}

func (in *Interpreter) doBop(pageNumber int) error {
	var counters PageCounters
	for i := range counters {
		v, err := in.stream.ReadSigned(4)
		if err != nil {
			return err
		}
		counters[i] = v
	}
	if _, err := in.stream.ReadSigned(4); err != nil { // prev_bop, already known from the index
		return err
	}
	in.cursor = Cursor{}
	in.stack = in.stack[:0]
	in.visitor.BeginPage(pageNumber, counters)
	return nil
}

func (in *Interpreter) selectFont(fontnum int) error {
	h, err := in.fonts.Select(fontnum)
	if err != nil {
		return err
	}
	localID, _ := in.fonts.LocalID(fontnum)
	in.currentFont = h
	in.currentFontID = fontnum
	in.haveFont = true
	in.visitor.SetFont(localID, h)
	return nil
}

// putChar draws glyph code c via the visitor (directly, or by
// recursing into a virtual font's nested command stream) and, if
// advance is set, moves the cursor by the glyph's metric width.
func (in *Interpreter) putChar(c int, advance bool) error {
	if !in.haveFont {
		return common.NewErrorAt(common.FontNotSelected, "character without a selected font", in.stream.Tell())
	}
	fnt := in.currentFont
	vertical := in.cursor.Mode != ModeLR

	if fnt.Variant == font.VariantVirtual {
		if err := in.runVirtualChar(fnt, c); err != nil {
			return err
		}
	} else {
		x, y := in.cursor.H, in.cursor.V
		in.visitor.SetChar(x, y, c, vertical, fnt)
	}

	if advance {
		in.cursor.Advance(fnt.CharWidthPt(c))
	}
	return nil
}

// runVirtualChar executes a virtual font's nested DVI command program
// for character c in a fresh cursor-stack frame, per §4.11 "Character
// dispatch / Virtual": side registers reset, scale swapped to vf's own
// size, font table entered via fonts.EnterVF, restored on every path
// out including error returns.
func (in *Interpreter) runVirtualChar(fnt *font.Handle, c int) error {
	prog, ok := fnt.VFCommands[c]
	if !ok {
		return nil
	}
	savedCursor := in.cursor
	savedStack := in.stack
	savedStream := in.stream
	savedScale := in.scale
	savedFont := in.currentFont
	savedFontID := in.currentFontID
	savedHaveFont := in.haveFont

	in.cursor.W, in.cursor.X, in.cursor.Y, in.cursor.Z = 0, 0, 0, 0
	in.scale = fnt.ScaledSize / vfDesignUnits
	in.stack = nil
	in.fonts.EnterVF(fnt)
	in.vfDepth++
	in.stream = dviio.NewStream(bytes.NewReader(prog))

	runErr := in.runVFProgram()

	in.vfDepth--
	in.fonts.LeaveVF()
	in.stream = savedStream
	in.cursor = savedCursor
	in.stack = savedStack
	in.scale = savedScale
	in.currentFont = savedFont
	in.currentFontID = savedFontID
	in.haveFont = savedHaveFont
	return runErr
}

// vfDesignUnits is the assumed design-size denominator for a virtual
// font's own embedded command stream, matching the fix_word
// convention used throughout (raw units scaled by 2^20).
const vfDesignUnits = 1 << 20

// runVFProgram executes opcodes from the current (virtual-font)
// stream until it is exhausted; a VF character program has no eop.
func (in *Interpreter) runVFProgram() error {
	for {
		op, err := in.stream.ReadByte()
		if err != nil {
			return nil // clean end of the embedded command bytes
		}
		if _, err := in.executeOpcode(op, 0); err != nil {
			return err
		}
	}
}

func (in *Interpreter) drawRule(advance bool) error {
	h, err := in.stream.ReadSigned(4)
	if err != nil {
		return err
	}
	w, err := in.stream.ReadSigned(4)
	if err != nil {
		return err
	}
	hPt := float64(h) * in.scale
	wPt := float64(w) * in.scale
	if hPt > 0 && wPt > 0 {
		in.visitor.SetRule(in.cursor.H, in.cursor.V, hPt, wPt)
	}
	if advance {
		in.cursor.Advance(wPt)
	}
	return nil
}

// CurrentTransform exposes the identity matrix placeholder for
// callers that need a geom.Matrix in the same coordinate space as the
// cursor; the interpreter itself never transforms (rotation/skew is a
// special-handler concern layered on top in svgbuild).
func (in *Interpreter) CurrentTransform() geom.Matrix {
	return geom.Identity()
}

// PageSizePt returns the postamble's MaxH/MaxV, the tallest and widest
// extent reached by any page's cursor, converted to TeX points. Driver
// code uses this for a DVI-declared viewBox (§4.15 step 5) when no
// page actually reaches the nominal \paperwidth/\paperheight.
func (in *Interpreter) PageSizePt() (width, height float64) {
	return float64(in.post.MaxH) * in.scale, float64(in.post.MaxV) * in.scale
}
