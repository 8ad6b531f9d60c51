package syntax

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/coraxlabs/vespere/internal/charset"
	"github.com/coraxlabs/vespere/internal/ucd"
)

// Flags is the tri-state flag set spec.md §4.D tracks through parsing:
// external flags string plus any inline (?flags:...) scopes.
type Flags struct {
	Multiline  bool
	Singleline bool
	IgnoreCase bool
}

// ParseFlags turns the external flags string ("m", "s", "i" in any
// combination) into a Flags value. Unrecognized characters are ignored;
// the facade is responsible for validating the string if it wants to
// reject garbage earlier.
func ParseFlags(s string) Flags {
	var f Flags
	for _, c := range s {
		switch c {
		case 'm':
			f.Multiline = true
		case 's':
			f.Singleline = true
		case 'i':
			f.IgnoreCase = true
		}
	}
	return f
}

type parser struct {
	src         []rune
	pos         int
	flags       Flags
	nextCap     int
	open        map[int]bool
	names       map[string]int
	orderedNames []string
	hasBackref  bool
}

// Parse compiles pattern text into an AST under the given external flags
// string, following the grammar in spec.md §4.D.
func Parse(pattern string, flagsStr string) (*Result, error) {
	p := &parser{
		src:     []rune(pattern),
		flags:   ParseFlags(flagsStr),
		nextCap: 1,
		open:    map[int]bool{},
		names:   map[string]int{},
	}
	root, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		if p.src[p.pos] == ')' {
			return nil, p.errorAt(UnexpectedParenthesis, p.pos)
		}
		return nil, p.errorAt(InternalError, p.pos)
	}
	return &Result{
		Root:             root,
		NumCaps:          p.nextCap,
		NameToIndex:      p.names,
		Names:            p.orderedNames,
		HasBackreference: p.hasBackref,
	}, nil
}

func (p *parser) peekRune() (rune, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) peekIs(c rune) bool {
	r, ok := p.peekRune()
	return ok && r == c
}

func (p *parser) advance() { p.pos++ }

func (p *parser) consume(c rune) bool {
	if p.peekIs(c) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) errorf(kind ErrorKind) error { return p.errorAt(kind, p.pos) }

func (p *parser) errorAt(kind ErrorKind, pos int) error {
	return newError(kind, string(p.src[pos:]))
}

// expression := sequence ('|' sequence)*
func (p *parser) parseExpression() (*Node, error) {
	left, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	for p.peekIs('|') {
		p.advance()
		right, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		left = NewAlternate(left, right)
	}
	return left, nil
}

// sequence := term*
func (p *parser) parseSequence() (*Node, error) {
	var nodes []*Node
	for {
		c, ok := p.peekRune()
		if !ok || c == '|' || c == ')' {
			break
		}
		n, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	switch len(nodes) {
	case 0:
		return NewEmpty(), nil
	case 1:
		return nodes[0], nil
	default:
		return NewConcat(nodes), nil
	}
}

// term := factor quantifier?
func (p *parser) parseTerm() (*Node, error) {
	factor, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return p.parseQuantifier(factor)
}

func (p *parser) parseQuantifier(factor *Node) (*Node, error) {
	c, ok := p.peekRune()
	if !ok {
		return factor, nil
	}
	switch c {
	case '*':
		p.advance()
		return NewZeroOrMore(factor, p.consumeLazyMark()), nil
	case '+':
		p.advance()
		return NewOneOrMore(factor, p.consumeLazyMark()), nil
	case '?':
		p.advance()
		return NewZeroOrOne(factor, p.consumeLazyMark()), nil
	case '{':
		return p.parseRepeat(factor)
	default:
		return factor, nil
	}
}

// consumeLazyMark consumes a trailing '?' and reports the greediness
// (true = greedy, the default absent a lazy mark).
func (p *parser) consumeLazyMark() bool {
	if p.peekIs('?') {
		p.advance()
		return false
	}
	return true
}

func (p *parser) parseRepeat(factor *Node) (*Node, error) {
	start := p.pos
	p.advance() // consume '{'

	minStart := p.pos
	for {
		c, ok := p.peekRune()
		if !ok || !isDigit(c) {
			break
		}
		p.advance()
	}
	minStr := string(p.src[minStart:p.pos])

	hasComma := false
	var maxStr string
	if p.peekIs(',') {
		hasComma = true
		p.advance()
		maxStart := p.pos
		for {
			c, ok := p.peekRune()
			if !ok || !isDigit(c) {
				break
			}
			p.advance()
		}
		maxStr = string(p.src[maxStart:p.pos])
	}

	if !p.consume('}') {
		return nil, p.errorAt(InvalidRepeatOp, start)
	}
	if minStr == "" {
		return nil, p.errorAt(MissingRepeatArgument, start)
	}
	min, err := strconv.Atoi(minStr)
	if err != nil {
		return nil, p.errorAt(InvalidRepeatOp, start)
	}

	max := min
	if hasComma {
		max = -1
		if maxStr != "" {
			m, err := strconv.Atoi(maxStr)
			if err != nil {
				return nil, p.errorAt(InvalidRepeatOp, start)
			}
			max = m
		}
	}
	if max != -1 && max < min {
		return nil, p.errorAt(InvalidRepeatSize, start)
	}
	return NewRepeat(factor, p.consumeLazyMark(), min, max), nil
}

// factor := group | charclass | '.' | '^' | '$' | escape | literal
func (p *parser) parseFactor() (*Node, error) {
	c, ok := p.peekRune()
	if !ok {
		return nil, p.errorf(InternalError)
	}
	switch c {
	case '(':
		return p.parseGroup()
	case '[':
		return p.parseClass()
	case '.':
		p.advance()
		return p.dotNode(), nil
	case '^':
		p.advance()
		if p.flags.Multiline {
			return NewAssertion(BeginLine), nil
		}
		return NewAssertion(BeginText), nil
	case '$':
		p.advance()
		if p.flags.Multiline {
			return NewAssertion(EndLine), nil
		}
		return NewAssertion(EndText), nil
	case '\\':
		return p.parseEscape()
	case ')':
		return nil, p.errorf(UnexpectedParenthesis)
	case '*', '+', '?', '{':
		return nil, p.errorf(InvalidRepeatOp)
	default:
		p.advance()
		return p.literalNode(c), nil
	}
}

func (p *parser) dotNode() *Node {
	if p.flags.Singleline {
		return NewCharClass(charset.New(charset.Range{Lo: 0, Hi: charset.MaxRune}), false)
	}
	return NewCharClass(charset.New(charset.Range{Lo: '\n', Hi: '\n'}), true)
}

func (p *parser) literalNode(c rune) *Node {
	ranges := charset.New(charset.Range{Lo: c, Hi: c})
	if p.flags.IgnoreCase {
		ranges = charset.CaseFoldExpand(ranges)
	}
	return NewCharClass(ranges, false)
}

func (p *parser) classNode(base charset.Set, negated bool) *Node {
	ranges := base
	if p.flags.IgnoreCase {
		ranges = charset.CaseFoldExpand(ranges)
	}
	return NewCharClass(ranges, negated)
}

// group := '(' expression ')'
//        | '(?<' name '>' expression ')'
//        | '(?' flag-spec ':' expression ')'
//        | '(?:' expression ')'
func (p *parser) parseGroup() (*Node, error) {
	start := p.pos
	p.advance() // consume '('
	if p.peekIs('?') {
		p.advance()
		switch {
		case p.peekIs('<'):
			p.advance()
			return p.parseNamedCapture(start)
		case p.peekIs(':'):
			p.advance()
			return p.parseGroupBody(start, nil)
		case isFlagSpecChar(p.peek()):
			return p.parseFlagGroup(start)
		default:
			return nil, p.errorAt(InvalidNamedCapture, start)
		}
	}
	idx := p.nextCap
	p.nextCap++
	p.open[idx] = true
	inner, err := p.parseGroupBody(start, nil)
	delete(p.open, idx)
	if err != nil {
		return nil, err
	}
	return NewCapture(inner, idx), nil
}

func (p *parser) peek() rune {
	r, _ := p.peekRune()
	return r
}

// parseGroupBody parses an expression and the mandatory closing ')'.
// start is the position of the group's opening '(', used to anchor the
// MissingParenthesis fragment at the unterminated construct rather than
// wherever parsing ran out of input. restore, if non-nil, is called as
// soon as the inner expression has been parsed, before the ')' check
// (used by flag groups to restore flags around the inner expression).
func (p *parser) parseGroupBody(start int, restore func()) (*Node, error) {
	inner, err := p.parseExpression()
	if restore != nil {
		restore()
	}
	if err != nil {
		return nil, err
	}
	if !p.consume(')') {
		return nil, p.errorAt(MissingParenthesis, start)
	}
	return inner, nil
}

func (p *parser) parseNamedCapture(start int) (*Node, error) {
	nameStart := p.pos
	for {
		c, ok := p.peekRune()
		if !ok {
			return nil, p.errorAt(InvalidNamedCapture, nameStart)
		}
		if c == '>' {
			break
		}
		if !isNameChar(c) {
			return nil, p.errorAt(InvalidNamedCapture, nameStart)
		}
		p.advance()
	}
	name := string(p.src[nameStart:p.pos])
	if name == "" || !isNameStart([]rune(name)[0]) {
		return nil, p.errorAt(InvalidNamedCapture, nameStart)
	}
	p.advance() // consume '>'
	if _, dup := p.names[name]; dup {
		return nil, p.errorAt(InvalidNamedCapture, nameStart)
	}

	idx := p.nextCap
	p.nextCap++
	p.open[idx] = true
	p.names[name] = idx
	p.orderedNames = append(p.orderedNames, name)
	inner, err := p.parseGroupBody(start, nil)
	delete(p.open, idx)
	if err != nil {
		return nil, err
	}
	return NewCapture(inner, idx), nil
}

func isFlagSpecChar(c rune) bool {
	return c == 'm' || c == 's' || c == 'i' || c == '-'
}

func (p *parser) parseFlagGroup(open int) (*Node, error) {
	start := p.pos
	set, clear := Flags{}, Flags{}
	neg := false
	for {
		c, ok := p.peekRune()
		if !ok {
			return nil, p.errorAt(InvalidNamedCapture, start)
		}
		switch c {
		case 'm':
			if neg {
				clear.Multiline = true
			} else {
				set.Multiline = true
			}
			p.advance()
		case 's':
			if neg {
				clear.Singleline = true
			} else {
				set.Singleline = true
			}
			p.advance()
		case 'i':
			if neg {
				clear.IgnoreCase = true
			} else {
				set.IgnoreCase = true
			}
			p.advance()
		case '-':
			neg = true
			p.advance()
		case ':':
			p.advance()
			goto body
		default:
			return nil, p.errorAt(InvalidNamedCapture, start)
		}
	}
body:
	saved := p.flags
	next := saved
	if set.Multiline {
		next.Multiline = true
	}
	if set.Singleline {
		next.Singleline = true
	}
	if set.IgnoreCase {
		next.IgnoreCase = true
	}
	if clear.Multiline {
		next.Multiline = false
	}
	if clear.Singleline {
		next.Singleline = false
	}
	if clear.IgnoreCase {
		next.IgnoreCase = false
	}
	p.flags = next
	return p.parseGroupBody(open, func() { p.flags = saved })
}

// classAtom is one atom parsed from inside a bracketed class: either a
// single rangeable code point, or a fixed set of ranges contributed by a
// built-in/escape class (not usable as a range endpoint).
type classAtom struct {
	ranges    charset.Set
	r         rune
	rangeable bool
}

func (p *parser) parseClass() (*Node, error) {
	start := p.pos
	p.advance() // consume '['
	negated := false
	if p.peekIs('^') {
		negated = true
		p.advance()
	}

	var ranges []charset.Range
	for {
		c, ok := p.peekRune()
		if !ok {
			return nil, p.errorAt(MissingBracket, start)
		}
		if c == ']' {
			p.advance()
			break
		}
		atom, err := p.parseClassAtom()
		if err != nil {
			return nil, err
		}
		if atom.rangeable && p.peekIs('-') {
			dashPos := p.pos
			p.advance() // consume '-'
			if p.peekIs(']') {
				ranges = append(ranges, charset.Range{Lo: atom.r, Hi: atom.r}, charset.Range{Lo: '-', Hi: '-'})
				continue
			}
			end, err := p.parseClassAtom()
			if err != nil {
				return nil, err
			}
			if !end.rangeable {
				return nil, p.errorAt(InvalidCharClass, dashPos)
			}
			if end.r < atom.r {
				return nil, p.errorAt(InvalidCharClass, dashPos)
			}
			ranges = append(ranges, charset.Range{Lo: atom.r, Hi: end.r})
			continue
		}
		if atom.rangeable {
			ranges = append(ranges, charset.Range{Lo: atom.r, Hi: atom.r})
		} else {
			ranges = append(ranges, atom.ranges...)
		}
	}

	return p.classNode(charset.Simplify(ranges), negated), nil
}

func (p *parser) parseClassAtom() (classAtom, error) {
	c, ok := p.peekRune()
	if !ok {
		return classAtom{}, p.errorf(MissingBracket)
	}
	if c != '\\' {
		p.advance()
		return classAtom{r: c, rangeable: true}, nil
	}
	p.advance() // consume '\'
	return p.parseClassEscape()
}

func (p *parser) parseClassEscape() (classAtom, error) {
	c, ok := p.peekRune()
	if !ok {
		return classAtom{}, p.errorf(TrailingBackslash)
	}
	switch c {
	case 'd':
		p.advance()
		return classAtom{ranges: digitClass}, nil
	case 'D':
		p.advance()
		return classAtom{ranges: charset.Complement(digitClass)}, nil
	case 'w':
		p.advance()
		return classAtom{ranges: wordClass}, nil
	case 'W':
		p.advance()
		return classAtom{ranges: charset.Complement(wordClass)}, nil
	case 's':
		p.advance()
		return classAtom{ranges: spaceClass}, nil
	case 'S':
		p.advance()
		return classAtom{ranges: charset.Complement(spaceClass)}, nil
	case 't':
		p.advance()
		return classAtom{r: '\t', rangeable: true}, nil
	case 'n':
		p.advance()
		return classAtom{r: '\n', rangeable: true}, nil
	case 'v':
		p.advance()
		return classAtom{r: '\v', rangeable: true}, nil
	case 'f':
		p.advance()
		return classAtom{r: '\f', rangeable: true}, nil
	case 'r':
		p.advance()
		return classAtom{r: '\r', rangeable: true}, nil
	case 'b':
		p.advance()
		return classAtom{r: '\b', rangeable: true}, nil
	case '0':
		p.advance()
		if next, ok := p.peekRune(); ok && isDigit(next) {
			return classAtom{}, p.errorf(InvalidEscape)
		}
		return classAtom{r: 0, rangeable: true}, nil
	case 'p', 'P':
		neg := c == 'P'
		p.advance()
		rs, err := p.parseUnicodeProperty()
		if err != nil {
			return classAtom{}, err
		}
		if neg {
			rs = charset.Complement(rs)
		}
		return classAtom{ranges: rs}, nil
	case 'u':
		p.advance()
		cp, err := p.parseUnicodeEscape()
		if err != nil {
			return classAtom{}, err
		}
		return classAtom{r: cp, rangeable: true}, nil
	case 'k', 'c':
		return classAtom{}, p.errorf(InvalidEscape)
	default:
		if isDigit(c) {
			return classAtom{}, p.errorf(InvalidEscape)
		}
		if isASCIILetter(c) {
			return classAtom{}, p.errorf(InvalidEscape)
		}
		p.advance()
		return classAtom{r: c, rangeable: true}, nil
	}
}

// escape handles backslash sequences outside a bracketed class.
func (p *parser) parseEscape() (*Node, error) {
	p.advance() // consume '\'
	c, ok := p.peekRune()
	if !ok {
		return nil, p.errorf(TrailingBackslash)
	}
	switch {
	case c == 'd':
		p.advance()
		return p.classNode(digitClass, false), nil
	case c == 'D':
		p.advance()
		return p.classNode(digitClass, true), nil
	case c == 'w':
		p.advance()
		return p.classNode(wordClass, false), nil
	case c == 'W':
		p.advance()
		return p.classNode(wordClass, true), nil
	case c == 's':
		p.advance()
		return p.classNode(spaceClass, false), nil
	case c == 'S':
		p.advance()
		return p.classNode(spaceClass, true), nil
	case c == 't':
		p.advance()
		return p.literalNode('\t'), nil
	case c == 'n':
		p.advance()
		return p.literalNode('\n'), nil
	case c == 'v':
		p.advance()
		return p.literalNode('\v'), nil
	case c == 'f':
		p.advance()
		return p.literalNode('\f'), nil
	case c == 'r':
		p.advance()
		return p.literalNode('\r'), nil
	case c == 'b':
		p.advance()
		return NewAssertion(WordBoundary), nil
	case c == 'B':
		p.advance()
		return NewAssertion(NoWordBoundary), nil
	case c == '0':
		p.advance()
		if next, ok := p.peekRune(); ok && isDigit(next) {
			return nil, p.errorf(InvalidEscape)
		}
		return p.literalNode(0), nil
	case isDigit(c):
		return p.parseNumericBackref()
	case c == 'k':
		return p.parseNamedBackref()
	case c == 'p' || c == 'P':
		neg := c == 'P'
		p.advance()
		rs, err := p.parseUnicodeProperty()
		if err != nil {
			return nil, err
		}
		return p.classNode(rs, neg), nil
	case c == 'u':
		p.advance()
		cp, err := p.parseUnicodeEscape()
		if err != nil {
			return nil, err
		}
		return p.literalNode(cp), nil
	case c == 'c':
		return nil, p.errorf(InvalidEscape)
	default:
		if isASCIILetter(c) {
			return nil, p.errorf(InvalidEscape)
		}
		p.advance()
		return p.literalNode(c), nil
	}
}

func (p *parser) parseNumericBackref() (*Node, error) {
	start := p.pos
	for {
		c, ok := p.peekRune()
		if !ok || !isDigit(c) {
			break
		}
		p.advance()
	}
	num, err := strconv.Atoi(string(p.src[start:p.pos]))
	if err != nil {
		return nil, p.errorAt(InvalidEscape, start)
	}
	if num == 0 || num >= p.nextCap || p.open[num] {
		return nil, p.errorAt(InvalidEscape, start)
	}
	p.hasBackref = true
	return NewBackreference(num), nil
}

func (p *parser) parseNamedBackref() (*Node, error) {
	start := p.pos
	p.advance() // consume 'k'
	if !p.consume('<') {
		return nil, p.errorAt(InvalidEscape, start)
	}
	nameStart := p.pos
	for {
		c, ok := p.peekRune()
		if !ok {
			return nil, p.errorAt(InvalidEscape, start)
		}
		if c == '>' {
			break
		}
		p.advance()
	}
	name := string(p.src[nameStart:p.pos])
	p.advance() // consume '>'
	idx, ok := p.names[name]
	if !ok || p.open[idx] {
		return nil, p.errorAt(InvalidEscape, start)
	}
	p.hasBackref = true
	return NewBackreference(idx), nil
}

func (p *parser) parseUnicodeProperty() (charset.Set, error) {
	start := p.pos
	if !p.consume('{') {
		return nil, p.errorAt(InvalidCharClass, start)
	}
	nameStart := p.pos
	for {
		c, ok := p.peekRune()
		if !ok {
			return nil, p.errorAt(InvalidCharClass, start)
		}
		if c == '}' {
			break
		}
		p.advance()
	}
	name := string(p.src[nameStart:p.pos])
	p.advance() // consume '}'

	if eq := strings.IndexByte(name, '='); eq >= 0 {
		key, val := name[:eq], name[eq+1:]
		if key == "Script" || key == "sc" {
			rt, ok := ucd.Script(val)
			if !ok {
				return nil, p.errorAt(InvalidCharClass, start)
			}
			return rangesFromTable(ucd.RangeTableRanges(rt)), nil
		}
		return nil, p.errorAt(InvalidCharClass, start)
	}

	if rt, ok := ucd.GeneralCategory(name); ok {
		return rangesFromTable(ucd.RangeTableRanges(rt)), nil
	}
	if rt, ok := ucd.Script(name); ok {
		return rangesFromTable(ucd.RangeTableRanges(rt)), nil
	}
	return nil, p.errorAt(InvalidCharClass, start)
}

func (p *parser) parseUnicodeEscape() (rune, error) {
	start := p.pos
	if p.peekIs('{') {
		p.advance()
		hexStart := p.pos
		for {
			c, ok := p.peekRune()
			if !ok {
				return 0, p.errorAt(InvalidEscape, start)
			}
			if c == '}' {
				break
			}
			if !isHexDigit(c) {
				return 0, p.errorAt(InvalidEscape, start)
			}
			p.advance()
		}
		hex := string(p.src[hexStart:p.pos])
		p.advance() // consume '}'
		if hex == "" || len(hex) > 6 {
			return 0, p.errorAt(InvalidEscape, start)
		}
		v, err := strconv.ParseInt(hex, 16, 32)
		if err != nil || v > charset.MaxRune {
			return 0, p.errorAt(InvalidEscape, start)
		}
		return rune(v), nil
	}
	if p.pos+4 > len(p.src) {
		return 0, p.errorAt(InvalidEscape, start)
	}
	hex := string(p.src[p.pos : p.pos+4])
	for _, c := range hex {
		if !isHexDigit(c) {
			return 0, p.errorAt(InvalidEscape, start)
		}
	}
	v, err := strconv.ParseInt(hex, 16, 32)
	if err != nil {
		return 0, p.errorAt(InvalidEscape, start)
	}
	p.pos += 4
	return rune(v), nil
}

func isDigit(c rune) bool      { return c >= '0' && c <= '9' }
func isASCIILetter(c rune) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isHexDigit(c rune) bool {
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
func isNameStart(c rune) bool { return c == '_' || unicode.IsLetter(c) }
func isNameChar(c rune) bool  { return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c) }
