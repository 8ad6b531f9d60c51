// Package vespere compiles Perl/ECMAScript-flavored regular expressions
// into a linear-time matcher and runs them against Unicode text. Compile
// builds a Regexp once; Execute runs it as many times as needed, each
// call independent and side-effect free. The engine underneath is a
// Thompson/Pike construction, not backtracking: patterns without
// backreferences run in O(pattern size * input size) regardless of
// input content.
package vespere

import (
	"unicode/utf16"

	"github.com/coraxlabs/vespere/internal/compile"
	"github.com/coraxlabs/vespere/internal/syntax"
	"github.com/coraxlabs/vespere/internal/vm"
)

// Regexp is an immutable compiled pattern. It is safe for concurrent use
// by multiple goroutines: Execute only touches call-local state.
type Regexp struct {
	pattern      string
	flags        string
	prog         *compile.Program
	numCaps      int
	names        map[string]int
	orderedNames []string
}

// Compile parses and lowers pattern under the given flags ("m", "s", "i"
// in any combination) into a Regexp, or returns a *CompileError.
func Compile(pattern string, flags string) (*Regexp, error) {
	res, err := syntax.Parse(pattern, flags)
	if err != nil {
		return nil, err
	}
	return &Regexp{
		pattern:      pattern,
		flags:        flags,
		prog:         compile.Compile(res),
		numCaps:      res.NumCaps,
		names:        res.NameToIndex,
		orderedNames: res.Names,
	}, nil
}

// MustCompile is like Compile but panics on error, for patterns fixed at
// compile time.
func MustCompile(pattern string, flags string) *Regexp {
	re, err := Compile(pattern, flags)
	if err != nil {
		panic(err)
	}
	return re
}

// String returns the original pattern source.
func (re *Regexp) String() string { return re.pattern }

// GroupCount returns the total capture count, including index 0 (the
// whole match).
func (re *Regexp) GroupCount() int { return re.numCaps }

// GroupNames returns named groups in the order their opening paren was
// parsed.
func (re *Regexp) GroupNames() []string { return re.orderedNames }

// GroupByName resolves a named group to its capture index.
func (re *Regexp) GroupByName(name string) (int, bool) {
	idx, ok := re.names[name]
	return idx, ok
}

// Execute always returns a MatchResult; call Matched on it to tell
// success from failure.
func (re *Regexp) Execute(text string) *MatchResult {
	units := utf16.Encode([]rune(text))
	caps := vm.Run(re.prog, units)
	return &MatchResult{
		input:        units,
		caps:         caps,
		numCaps:      re.numCaps,
		names:        re.names,
		orderedNames: re.orderedNames,
	}
}

// FindMatch is a convenience wrapper around Execute that reports success
// via its second return value instead of MatchResult.Matched.
func (re *Regexp) FindMatch(text string) (*MatchResult, bool) {
	result := re.Execute(text)
	if !result.Matched() {
		return nil, false
	}
	return result, true
}

// MatchResult is the outcome of one Execute call. It is immutable and
// independent of any other call against the same Regexp.
type MatchResult struct {
	input        []uint16
	caps         []int // nil when no thread reached Matched
	numCaps      int
	names        map[string]int
	orderedNames []string
}

// Matched reports whether the pattern found a match.
func (r *MatchResult) Matched() bool { return r.caps != nil }

// Group returns the substring captured by group i, and whether it was
// recorded at all (false for an out-of-range index or a group the match
// never entered).
func (r *MatchResult) Group(i int) (string, bool) {
	if r.caps == nil || i < 0 || i >= r.numCaps {
		return "", false
	}
	s, e := r.caps[2*i], r.caps[2*i+1]
	if s < 0 {
		return "", false
	}
	return decodeUnits(r.input, s, e), true
}

// GroupMatch is one entry of Results: the substring a group captured, or
// the "unrecorded" state distinct from an empty match.
type GroupMatch struct {
	Text    string
	Matched bool
}

// Results returns one GroupMatch per capture group, including index 0.
func (r *MatchResult) Results() []GroupMatch {
	out := make([]GroupMatch, r.numCaps)
	for i := range out {
		text, ok := r.Group(i)
		out[i] = GroupMatch{Text: text, Matched: ok}
	}
	return out
}

// Groups returns every named group that captured on this match.
func (r *MatchResult) Groups() map[string]string {
	out := map[string]string{}
	for _, name := range r.orderedNames {
		if text, ok := r.Group(r.names[name]); ok {
			out[name] = text
		}
	}
	return out
}

// Before returns the input preceding the match (the whole input if there
// was no match). After returns the input following the match (empty if
// there was no match).
func (r *MatchResult) Before() string {
	if r.caps == nil {
		return decodeUnits(r.input, 0, len(r.input))
	}
	return decodeUnits(r.input, 0, r.caps[0])
}

func (r *MatchResult) After() string {
	if r.caps == nil {
		return ""
	}
	return decodeUnits(r.input, r.caps[1], len(r.input))
}

func decodeUnits(units []uint16, s, e int) string {
	if s < 0 || e < 0 || s > e || e > len(units) {
		return ""
	}
	return string(utf16.Decode(units[s:e]))
}
