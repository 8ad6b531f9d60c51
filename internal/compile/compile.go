package compile

import (
	"github.com/coraxlabs/vespere/internal/charset"
	"github.com/coraxlabs/vespere/internal/syntax"
)

type compiler struct {
	insts []Inst
}

func (c *compiler) emit(i Inst) int {
	c.insts = append(c.insts, i)
	return len(c.insts) - 1
}

// Compile lowers a parse result to a Program. The program always opens
// with the three-instruction "scan anywhere" preamble from spec.md §4.E:
// a Split/Char/Jump loop that retries the match one position later every
// time the body fails, followed by the Save(0) that opens the whole-match
// capture.
func Compile(result *syntax.Result) *Program {
	c := &compiler{}

	c.emit(Inst{Op: OpSplit, X: 3, Y: 1})
	c.emit(Inst{Op: OpChar, Ranges: charset.New(charset.Range{Lo: 0, Hi: charset.MaxRune})})
	c.emit(Inst{Op: OpJump, X: 0})
	c.emit(Inst{Op: OpSave, Slot: 0})

	c.compileNode(result.Root)

	c.emit(Inst{Op: OpSave, Slot: 1})
	c.emit(Inst{Op: OpMatched})

	return &Program{Insts: c.insts, NumCaps: result.NumCaps, HasBackref: result.HasBackreference}
}

func (c *compiler) compileNode(n *syntax.Node) {
	switch n.Kind {
	case syntax.KindEmpty:
		// no instructions
	case syntax.KindCharClass:
		ranges := charset.Simplify(n.Ranges)
		if n.Negated {
			ranges = charset.Complement(n.Ranges)
		}
		c.emit(Inst{Op: OpChar, Ranges: ranges})
	case syntax.KindAssertion:
		c.emit(Inst{Op: OpAssert, Assert: n.Assert})
	case syntax.KindCapture:
		c.emit(Inst{Op: OpSave, Slot: 2 * n.Index})
		c.compileNode(n.Children[0])
		c.emit(Inst{Op: OpSave, Slot: 2*n.Index + 1})
	case syntax.KindAlternate:
		c.compileAlternate(n)
	case syntax.KindZeroOrMore:
		c.compileStar(n.Children[0], n.Greedy)
	case syntax.KindOneOrMore:
		c.compilePlus(n.Children[0], n.Greedy)
	case syntax.KindZeroOrOne:
		c.compileQuest(n.Children[0], n.Greedy)
	case syntax.KindRepeat:
		c.compileRepeat(n)
	case syntax.KindConcat:
		for _, child := range n.Children {
			c.compileNode(child)
		}
	case syntax.KindBackreference:
		c.emit(Inst{Op: OpBackref, Group: n.Index})
	}
}

func (c *compiler) compileAlternate(n *syntax.Node) {
	splitPC := c.emit(Inst{})
	left := len(c.insts)
	c.compileNode(n.Children[0])
	jmpPC := c.emit(Inst{})
	right := len(c.insts)
	c.compileNode(n.Children[1])
	end := len(c.insts)

	c.insts[splitPC] = Inst{Op: OpSplit, X: left, Y: right}
	c.insts[jmpPC] = Inst{Op: OpJump, X: end}
}

// compileStar lowers ZeroOrMore with two Splits rather than one Split
// plus a trailing Jump, matching spec.md §4.E's rationale: this keeps
// the empty-body-alternation decision (`(|a)*`) consistent with the
// documented behavior rather than "fixing" it.
func (c *compiler) compileStar(inner *syntax.Node, greedy bool) {
	s1 := c.emit(Inst{})
	bodyStart := s1 + 1
	c.compileNode(inner)
	s2 := c.emit(Inst{})
	exit := len(c.insts)

	split := splitFor(greedy, bodyStart, exit)
	c.insts[s1] = split
	c.insts[s2] = split
}

func (c *compiler) compilePlus(inner *syntax.Node, greedy bool) {
	bodyStart := len(c.insts)
	c.compileNode(inner)
	splitPC := c.emit(Inst{})
	exit := len(c.insts)
	c.insts[splitPC] = splitFor(greedy, bodyStart, exit)
}

func (c *compiler) compileQuest(inner *syntax.Node, greedy bool) {
	splitPC := c.emit(Inst{})
	bodyStart := splitPC + 1
	c.compileNode(inner)
	exit := len(c.insts)
	c.insts[splitPC] = splitFor(greedy, bodyStart, exit)
}

// compileRepeat lowers Repeat(inner, greedy, min, max). Each of the min
// mandatory copies and, for a bounded repeat, each of the max-min
// optional copies re-compiles inner from scratch so every iteration gets
// its own capture-saving instructions, per spec.md §4.E.
func (c *compiler) compileRepeat(n *syntax.Node) {
	inner := n.Children[0]
	for i := 0; i < n.Min; i++ {
		c.compileNode(inner)
	}
	if n.Max == -1 {
		c.compileStar(inner, n.Greedy)
		return
	}
	extra := n.Max - n.Min
	splits := make([]int, 0, extra)
	for i := 0; i < extra; i++ {
		sp := c.emit(Inst{})
		splits = append(splits, sp)
		c.compileNode(inner)
	}
	exit := len(c.insts)
	for _, sp := range splits {
		c.insts[sp] = splitFor(n.Greedy, sp+1, exit)
	}
}

func splitFor(greedy bool, body, exit int) Inst {
	if greedy {
		return Inst{Op: OpSplit, X: body, Y: exit}
	}
	return Inst{Op: OpSplit, X: exit, Y: body}
}
