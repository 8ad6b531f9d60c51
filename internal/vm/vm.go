// Package vm implements the Thompson/Pike "N threads in lock-step"
// matcher from spec.md §4.F: two thread lists advanced one code point at
// a time, generation-array deduplication, and leftmost-first submatch
// priority. The thread/step/add-thread split is grounded on eaburns-T's
// re1.go vm (run/step/add), generalized from integer-tagged opcodes to
// the richer Inst shape compile.Program carries (real character-class
// ranges, named assertions, backreference groups).
package vm

import (
	"unicode/utf16"

	"github.com/coraxlabs/vespere/internal/charset"
	"github.com/coraxlabs/vespere/internal/compile"
)

// thread is one live execution state: a program counter and the capture
// array it owns. Split clones the array only for its lower-priority
// branch, per spec.md §9's ownership rule, so two live threads never
// alias the same backing array.
type thread struct {
	pc   int
	caps []int
}

type vm struct {
	prog  *compile.Program
	gen   []int
	units []uint16
}

// Run executes prog against units (the input as UTF-16 code units,
// matching the code-unit indexing spec.md §4.F documents for surrogate
// pairs) and returns the winning thread's capture array, or nil if no
// thread ever reached Matched. Offsets in the result are code-unit
// offsets into units.
func Run(prog *compile.Program, units []uint16) []int {
	m := &vm{prog: prog, gen: make([]int, len(prog.Insts)), units: units}
	for i := range m.gen {
		m.gen[i] = -1
	}

	n := len(units)
	numSlots := 2 * prog.NumCaps
	clist := make([]thread, 0, len(prog.Insts))
	nlist := make([]thread, 0, len(prog.Insts))

	initCaps := make([]int, numSlots)
	for i := range initCaps {
		initCaps[i] = -1
	}
	m.addThread(&clist, 0, 0, initCaps)

	var matched []int
	for sp := 0; len(clist) > 0; {
		cp, width := decodeAt(units, sp)
		for i := 0; i < len(clist); i++ {
			th := clist[i]
			inst := prog.Insts[th.pc]
			switch inst.Op {
			case compile.OpChar:
				if width > 0 && charset.Contains(inst.Ranges, cp) {
					m.addThread(&nlist, sp+width, th.pc+1, th.caps)
				}
			case compile.OpBackref:
				s, e := th.caps[2*inst.Group], th.caps[2*inst.Group+1]
				length := e - s
				if sp+length <= n && unitsEqual(units, s, sp, length) {
					m.addThread(&nlist, sp+length, th.pc+1, th.caps)
				}
			case compile.OpMatched:
				matched = th.caps
			}
			if inst.Op == compile.OpMatched {
				break
			}
		}
		clist, nlist = nlist, clist[:0]
		// Threads land in nlist at sp+width (a code point above U+FFFF
		// consumes 2 units, per spec.md's surrogate-pair rule), so the
		// next round must resume decoding from there, not from sp+1.
		// width is 0 only past end of input, where nothing was pushed to
		// nlist and the loop condition stops us next iteration anyway.
		sp += width
	}
	return matched
}

// addThread resolves every non-consuming instruction reachable from pc
// at position sp immediately (Save, Jump, Split, Assertion, zero-width
// Backreference), and appends the thread to list once it reaches a
// consuming instruction (Char, non-empty Backreference) or Matched.
func (m *vm) addThread(list *[]thread, sp, pc int, caps []int) {
	inst := m.prog.Insts[pc]

	// The backreference exception in spec.md §4.F: threads parked on a
	// Backreference instruction are never deduplicated, since the same
	// (pc, sp) pair can carry different capture contents on a pattern
	// that backtracks via backreferences.
	if inst.Op != compile.OpBackref || !m.prog.HasBackref {
		if m.gen[pc] == sp {
			return
		}
		m.gen[pc] = sp
	}

	switch inst.Op {
	case compile.OpJump:
		m.addThread(list, sp, inst.X, caps)
	case compile.OpSplit:
		secondary := make([]int, len(caps))
		copy(secondary, caps)
		m.addThread(list, sp, inst.X, caps)
		m.addThread(list, sp, inst.Y, secondary)
	case compile.OpSave:
		caps[inst.Slot] = sp
		m.addThread(list, sp, pc+1, caps)
	case compile.OpAssert:
		if checkAssertion(inst.Assert, m.units, sp) {
			m.addThread(list, sp, pc+1, caps)
		}
	case compile.OpBackref:
		s, e := caps[2*inst.Group], caps[2*inst.Group+1]
		if s < 0 || s == e {
			m.addThread(list, sp, pc+1, caps)
			return
		}
		*list = append(*list, thread{pc: pc, caps: caps})
	default: // OpChar, OpMatched
		*list = append(*list, thread{pc: pc, caps: caps})
	}
}

func decodeAt(units []uint16, sp int) (rune, int) {
	if sp < 0 || sp >= len(units) {
		return -1, 0
	}
	r1 := units[sp]
	if isHighSurrogate(r1) && sp+1 < len(units) && isLowSurrogate(units[sp+1]) {
		return utf16.DecodeRune(rune(r1), rune(units[sp+1])), 2
	}
	return rune(r1), 1
}

func isHighSurrogate(c uint16) bool { return c >= 0xD800 && c <= 0xDBFF }
func isLowSurrogate(c uint16) bool  { return c >= 0xDC00 && c <= 0xDFFF }

func unitsEqual(units []uint16, a, b, length int) bool {
	for i := 0; i < length; i++ {
		if units[a+i] != units[b+i] {
			return false
		}
	}
	return true
}
