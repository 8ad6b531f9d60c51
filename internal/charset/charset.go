// Package charset implements the inclusive code-point range utilities
// shared by the parser and the VM: normalization, complement, membership,
// and case-fold expansion of character classes.
package charset

import (
	"sort"

	"github.com/coraxlabs/vespere/internal/ucd"
)

// MaxRune is the highest code point a range may contain.
const MaxRune = 0x10FFFF

// Range is an inclusive code-point interval [Lo, Hi].
type Range struct {
	Lo, Hi rune
}

// Set is a normalized, immutable-by-convention list of ranges: sorted,
// non-overlapping, non-adjacent. Callers that build one up incrementally
// should call Simplify before relying on the invariant.
type Set []Range

// New builds a Set from arbitrary (possibly overlapping, unsorted) ranges.
func New(ranges ...Range) Set {
	return Simplify(ranges)
}

// Char returns the single-rune range [r, r].
func Char(r rune) Range { return Range{r, r} }

// Simplify sorts by start and merges overlapping or adjacent ranges.
// Empty input produces empty output. Simplify is idempotent.
func Simplify(ranges []Range) Set {
	if len(ranges) == 0 {
		return nil
	}
	cp := make([]Range, len(ranges))
	copy(cp, ranges)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Lo < cp[j].Lo })

	out := make(Set, 0, len(cp))
	cur := cp[0]
	for _, r := range cp[1:] {
		if r.Lo <= cur.Hi+1 {
			if r.Hi > cur.Hi {
				cur.Hi = r.Hi
			}
			continue
		}
		out = append(out, cur)
		cur = r
	}
	out = append(out, cur)
	return out
}

// Complement computes [0, MaxRune] \ Simplify(ranges).
func Complement(ranges []Range) Set {
	s := Simplify(ranges)
	if len(s) == 0 {
		return Set{{0, MaxRune}}
	}
	var out Set
	next := rune(0)
	for _, r := range s {
		if r.Lo > next {
			out = append(out, Range{next, r.Lo - 1})
		}
		next = r.Hi + 1
		if next > MaxRune {
			return out
		}
	}
	if next <= MaxRune {
		out = append(out, Range{next, MaxRune})
	}
	return out
}

// Contains reports whether cp lies in a normalized range list, via binary
// search. The caller is responsible for having normalized ranges first.
func Contains(ranges Set, cp rune) bool {
	lo, hi := 0, len(ranges)
	for lo < hi {
		mid := (lo + hi) / 2
		r := ranges[mid]
		switch {
		case cp < r.Lo:
			hi = mid
		case cp > r.Hi:
			lo = mid + 1
		default:
			return true
		}
	}
	return false
}

// Union returns the normalized union of a and b.
func Union(a, b Set) Set {
	return Simplify(append(append(Set{}, a...), b...))
}

// CaseFoldExpand extends ranges with every code point reachable by the
// simple case-folding orbit of each code point already inside the fold
// window [ucd.MinFold, ucd.MaxFold]; code points outside that window pass
// through unchanged. Result is re-normalized.
func CaseFoldExpand(ranges []Range) Set {
	var extra []Range
	for _, r := range ranges {
		lo, hi := r.Lo, r.Hi
		if hi > ucd.MaxFold {
			hi = ucd.MaxFold
		}
		if lo < ucd.MinFold {
			lo = ucd.MinFold
		}
		for cp := lo; cp <= hi; cp++ {
			ucd.EachFoldOrbit(cp, func(o rune) {
				extra = append(extra, Range{o, o})
			})
		}
	}
	if len(extra) == 0 {
		return Simplify(ranges)
	}
	return Simplify(append(append([]Range{}, ranges...), extra...))
}
