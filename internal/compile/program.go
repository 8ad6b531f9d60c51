// Package compile lowers a parsed AST into the flat instruction program
// the VM executes, following the lowering rules in spec.md §4.E. The
// instruction shape is grounded on eaburns-T's re1.go opcode set (match,
// char, jmp, fork/rfork, save) generalized to carry real character-class
// ranges and named assertion/backreference payloads instead of index-only
// operands.
package compile

import (
	"github.com/coraxlabs/vespere/internal/charset"
	"github.com/coraxlabs/vespere/internal/syntax"
)

type Opcode int

const (
	OpMatched Opcode = iota
	OpSave
	OpChar
	OpJump
	OpSplit
	OpAssert
	OpBackref
)

// Inst is one flat program instruction. Only the fields relevant to Op
// are meaningful.
type Inst struct {
	Op Opcode

	Slot int // OpSave

	Ranges charset.Set // OpChar

	X, Y int // OpJump: X is the target, Y unused.
	// OpSplit: X is the higher-priority branch, Y the lower-priority one.

	Assert syntax.AssertionKind // OpAssert

	Group int // OpBackref
}

// Program is the compiled, immutable output of Compile. It is safe to
// share across goroutines: Execute only ever reads it.
type Program struct {
	Insts      []Inst
	NumCaps    int
	HasBackref bool
}
