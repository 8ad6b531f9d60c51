package vm

import (
	"testing"
	"unicode/utf16"

	"github.com/coraxlabs/vespere/internal/compile"
	"github.com/coraxlabs/vespere/internal/syntax"
	"gotest.tools/v3/assert"
)

func compileFor(t *testing.T, pattern, flags string) *compile.Program {
	res, err := syntax.Parse(pattern, flags)
	assert.NilError(t, err)
	return compile.Compile(res)
}

func runOn(prog *compile.Program, input string) (bool, []int, []uint16) {
	units := utf16.Encode([]rune(input))
	caps := Run(prog, units)
	return caps != nil, caps, units
}

func substr(units []uint16, s, e int) string {
	if s < 0 || e < 0 {
		return ""
	}
	return string(utf16.Decode(units[s:e]))
}

func TestAlternationAndCapture(t *testing.T) {
	prog := compileFor(t, `a(bc|de)f`, "")
	ok, caps, units := runOn(prog, "xxabcf")
	assert.Assert(t, ok)
	assert.Equal(t, substr(units, caps[0], caps[1]), "abcf")
	assert.Equal(t, substr(units, caps[2], caps[3]), "bc")
}

func TestLazyQuantifierMinimalCapture(t *testing.T) {
	// a*? tries zero repetitions first; "aaaa" alone suffices to match
	// the rest of the pattern, so the lazy group captures empty.
	prog := compileFor(t, `(a*?)aaaa`, "")
	ok, caps, units := runOn(prog, "aaaa")
	assert.Assert(t, ok)
	assert.Equal(t, substr(units, caps[0], caps[1]), "aaaa")
	assert.Equal(t, substr(units, caps[2], caps[3]), "")
}

func TestLazyOneOrMoreStillRequiresOneMatch(t *testing.T) {
	// a+? commits to one repetition before its Split runs, so the
	// shortest possible match for (a+?)aaaa is 5 characters; "aaaa"
	// (4 characters) can never satisfy it. See DESIGN.md on spec.md's
	// concrete scenario #2, which states this pattern matches "aaaa"
	// with an empty group — a claim inconsistent with the "+" lowering
	// rule in §4.E (one mandatory copy before the optional Split).
	prog := compileFor(t, `(a+?)aaaa`, "")
	ok, _, _ := runOn(prog, "aaaa")
	assert.Equal(t, ok, false)
}

func TestNamedGroups(t *testing.T) {
	res, err := syntax.Parse(`(?<year>\d{4})-(?<month>\d{2})-(?<day>\d{2})`, "")
	assert.NilError(t, err)
	prog := compile.Compile(res)
	ok, caps, units := runOn(prog, "2024-03-15")
	assert.Assert(t, ok)
	assert.Equal(t, substr(units, caps[2*res.NameToIndex["year"]], caps[2*res.NameToIndex["year"]+1]), "2024")
	assert.Equal(t, substr(units, caps[2*res.NameToIndex["month"]], caps[2*res.NameToIndex["month"]+1]), "03")
	assert.Equal(t, substr(units, caps[2*res.NameToIndex["day"]], caps[2*res.NameToIndex["day"]+1]), "15")
}

func TestAnchorsNoMultiline(t *testing.T) {
	prog := compileFor(t, `^hello$`, "")
	ok, _, _ := runOn(prog, "hello world")
	assert.Equal(t, ok, false)
}

func TestAnchorsMultiline(t *testing.T) {
	prog := compileFor(t, `^hello$`, "m")
	ok, caps, _ := runOn(prog, "hi\nhello\nok")
	assert.Assert(t, ok)
	assert.Equal(t, caps[0], 3)
	assert.Equal(t, caps[1], 8)
}

func TestBackreference(t *testing.T) {
	prog := compileFor(t, `(.)(.)\2\1`, "")
	ok, caps, units := runOn(prog, "abba")
	assert.Assert(t, ok)
	assert.Equal(t, substr(units, caps[0], caps[1]), "abba")
	assert.Equal(t, substr(units, caps[2], caps[3]), "a")
	assert.Equal(t, substr(units, caps[4], caps[5]), "b")
}

func TestIgnoreCase(t *testing.T) {
	prog := compileFor(t, `hello`, "i")
	ok, caps, units := runOn(prog, "HeLLo")
	assert.Assert(t, ok)
	assert.Equal(t, substr(units, caps[0], caps[1]), "HeLLo")
}

func TestUnicodeProperty(t *testing.T) {
	prog := compileFor(t, `\p{Letter}+`, "")
	ok, caps, units := runOn(prog, "Hello 世界")
	assert.Assert(t, ok)
	assert.Equal(t, substr(units, caps[0], caps[1]), "Hello")
}

func TestLeftmostFirstAlternationOverLength(t *testing.T) {
	prog := compileFor(t, `a|ab`, "")
	ok, caps, units := runOn(prog, "ab")
	assert.Assert(t, ok)
	assert.Equal(t, substr(units, caps[0], caps[1]), "a")
}

func TestNoMatchReturnsNil(t *testing.T) {
	prog := compileFor(t, `xyz`, "")
	ok, _, _ := runOn(prog, "abc")
	assert.Equal(t, ok, false)
}

func TestUnrecordedGroupStaysUnset(t *testing.T) {
	prog := compileFor(t, `a(b)?c`, "")
	ok, caps, _ := runOn(prog, "ac")
	assert.Assert(t, ok)
	assert.Equal(t, caps[2], -1)
	assert.Equal(t, caps[3], -1)
}

func TestSupplementaryPlaneAdvancesByTwoUnits(t *testing.T) {
	// U+1D54A ("𝕊") encodes as a surrogate pair; the dot must consume
	// both units before the following literal is tested against the
	// unit that actually comes next.
	prog := compileFor(t, `.a`, "s")
	ok, caps, units := runOn(prog, "𝕊a")
	assert.Assert(t, ok)
	assert.Equal(t, len(units), 3)
	assert.Equal(t, substr(units, caps[0], caps[1]), "𝕊a")
}

func TestSupplementaryPlaneRepetition(t *testing.T) {
	prog := compileFor(t, `.+`, "s")
	ok, caps, units := runOn(prog, "𝕊𝕊x")
	assert.Assert(t, ok)
	assert.Equal(t, substr(units, caps[0], caps[1]), "𝕊𝕊x")
}
