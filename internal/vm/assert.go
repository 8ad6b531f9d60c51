package vm

import "github.com/coraxlabs/vespere/internal/syntax"

// checkAssertion evaluates a zero-width assertion at code-unit position
// sp. is_word_char is ASCII-only per spec.md §9's open question: the
// specification pins this behavior rather than leaving it to the
// implementation.
func checkAssertion(kind syntax.AssertionKind, units []uint16, sp int) bool {
	switch kind {
	case syntax.BeginText:
		return sp == 0
	case syntax.EndText:
		return sp == len(units)
	case syntax.BeginLine:
		return sp == 0 || units[sp-1] == '\n'
	case syntax.EndLine:
		return sp == len(units) || units[sp] == '\n'
	case syntax.WordBoundary:
		return isWordUnitAt(units, sp-1) != isWordUnitAt(units, sp)
	case syntax.NoWordBoundary:
		return isWordUnitAt(units, sp-1) == isWordUnitAt(units, sp)
	default:
		return false
	}
}

func isWordUnitAt(units []uint16, i int) bool {
	if i < 0 || i >= len(units) {
		return false
	}
	c := units[i]
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_'
}
