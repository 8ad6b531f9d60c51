// Package syntax holds the regex AST and the recursive-descent parser that
// builds it, together with the error taxonomy the parser raises. Nodes
// follow the teacher's dlclark-regexp2 lineage: one struct, one Kind tag,
// rather than a Go type per construct — the grammar is small and closed,
// so a tagged variant reads better than an interface hierarchy here.
package syntax

import "github.com/coraxlabs/vespere/internal/charset"

// Kind tags the variant a Node represents.
type Kind int

const (
	KindEmpty Kind = iota
	KindCharClass
	KindAssertion
	KindCapture
	KindZeroOrMore
	KindOneOrMore
	KindZeroOrOne
	KindRepeat
	KindConcat
	KindAlternate
	KindBackreference
)

// AssertionKind tags a zero-width assertion.
type AssertionKind int

const (
	BeginText AssertionKind = iota
	EndText
	BeginLine
	EndLine
	WordBoundary
	NoWordBoundary
)

// Node is the single recursive AST type. Only the fields relevant to Kind
// are meaningful; the rest are left zero. Nodes are built once by the
// parser and never mutated afterward.
type Node struct {
	Kind Kind

	// KindCharClass
	Ranges  charset.Set
	Negated bool

	// KindAssertion
	Assert AssertionKind

	// KindCapture, KindBackreference
	Index int

	// KindZeroOrMore, KindOneOrMore, KindZeroOrOne, KindRepeat
	Greedy bool
	Min    int // KindRepeat
	Max    int // KindRepeat; -1 means unbounded

	// KindCapture, quantifiers: Children[0] is the operand.
	// KindAlternate: Children[0] is left (higher priority), Children[1] is right.
	// KindConcat: Children is the sequence, in order.
	Children []*Node
}

func NewEmpty() *Node { return &Node{Kind: KindEmpty} }

func NewCharClass(ranges charset.Set, negated bool) *Node {
	return &Node{Kind: KindCharClass, Ranges: ranges, Negated: negated}
}

func NewAssertion(kind AssertionKind) *Node {
	return &Node{Kind: KindAssertion, Assert: kind}
}

func NewCapture(inner *Node, index int) *Node {
	return &Node{Kind: KindCapture, Index: index, Children: []*Node{inner}}
}

func NewZeroOrMore(inner *Node, greedy bool) *Node {
	return &Node{Kind: KindZeroOrMore, Greedy: greedy, Children: []*Node{inner}}
}

func NewOneOrMore(inner *Node, greedy bool) *Node {
	return &Node{Kind: KindOneOrMore, Greedy: greedy, Children: []*Node{inner}}
}

func NewZeroOrOne(inner *Node, greedy bool) *Node {
	return &Node{Kind: KindZeroOrOne, Greedy: greedy, Children: []*Node{inner}}
}

// NewRepeat builds a bounded or unbounded counted repetition. max == -1
// means unbounded ("{min,}").
func NewRepeat(inner *Node, greedy bool, min, max int) *Node {
	return &Node{Kind: KindRepeat, Greedy: greedy, Min: min, Max: max, Children: []*Node{inner}}
}

func NewConcat(nodes []*Node) *Node {
	return &Node{Kind: KindConcat, Children: nodes}
}

func NewAlternate(left, right *Node) *Node {
	return &Node{Kind: KindAlternate, Children: []*Node{left, right}}
}

func NewBackreference(index int) *Node {
	return &Node{Kind: KindBackreference, Index: index}
}

// Result is the parser's output: the AST plus everything the compiler and
// facade need about capture groups.
type Result struct {
	Root             *Node
	NumCaps          int // includes index 0, the whole match
	NameToIndex      map[string]int
	Names            []string // named groups, in the order their '(' was parsed
	HasBackreference bool
}
