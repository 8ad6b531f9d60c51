package syntax

import (
	"github.com/coraxlabs/vespere/internal/charset"
	"github.com/coraxlabs/vespere/internal/ucd"
)

// digitClass, wordClass and spaceClass back \d, \w and \s. spaceClass
// follows the ECMAScript WhiteSpace+LineTerminator production named in
// spec.md §4.D rather than Go's narrower unicode.IsSpace: the Unicode
// Zs category plus the handful of control-range whitespace and line
// terminator code points ECMAScript treats as \s.
var (
	digitClass = charset.New(charset.Range{Lo: '0', Hi: '9'})
	wordClass  = charset.New(
		charset.Range{Lo: 'A', Hi: 'Z'},
		charset.Range{Lo: 'a', Hi: 'z'},
		charset.Range{Lo: '0', Hi: '9'},
		charset.Range{Lo: '_', Hi: '_'},
	)
	spaceClass = buildSpaceClass()
)

func buildSpaceClass() charset.Set {
	ranges := []charset.Range{
		{Lo: 0x9, Hi: 0x9},
		{Lo: 0xB, Hi: 0xC},
		{Lo: 0x20, Hi: 0x20},
		{Lo: 0xA0, Hi: 0xA0},
		{Lo: 0xFEFF, Hi: 0xFEFF},
		{Lo: 0xA, Hi: 0xA},
		{Lo: 0xD, Hi: 0xD},
		{Lo: 0x2028, Hi: 0x2029},
	}
	if zs, ok := ucd.GeneralCategory("Zs"); ok {
		for _, r := range ucd.RangeTableRanges(zs) {
			ranges = append(ranges, charset.Range{Lo: r[0], Hi: r[1]})
		}
	}
	return charset.Simplify(ranges)
}

func rangesFromTable(pairs [][2]rune) charset.Set {
	ranges := make([]charset.Range, len(pairs))
	for i, p := range pairs {
		ranges[i] = charset.Range{Lo: p[0], Hi: p[1]}
	}
	return charset.Simplify(ranges)
}
