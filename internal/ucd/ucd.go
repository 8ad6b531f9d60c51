// Package ucd is the Unicode data collaborator described in spec §4.B:
// general-category range lookup, property-name aliasing, and the simple
// case-folding orbit map. The core treats this data as a read-only,
// compile-time constant; here it is backed directly by the standard
// library's own Unicode tables (unicode.Categories, unicode.Scripts,
// unicode.SimpleFold), which are exactly that kind of pre-built,
// offline-generated table — see DESIGN.md for why this beats hand-rolling
// a second copy of the UCD.
package ucd

import "unicode"

// MinFold and MaxFold bound the code points the simple case-folding orbit
// map is defined over. unicode.SimpleFold is a total function on all of
// Unicode, but folding above the Cyrillic/Latin/Greek-heavy BMP range is
// vanishingly rare in patterns and the teacher's own uppercase-mapping
// table observes the same BMP-only cutoff (auvred-regonaut's canonicalize,
// keys above 0xFFFF are dropped as unnecessary in its non-Unicode branch).
// vespere widens that to the full range SimpleFold ever remaps, computed
// once at init time.
var MinFold, MaxFold rune

func init() {
	MinFold, MaxFold = rune(1<<31-1), 0
	for r := rune(0); r <= unicode.MaxRune; r++ {
		if unicode.SimpleFold(r) != r {
			if r < MinFold {
				MinFold = r
			}
			if r > MaxFold {
				MaxFold = r
			}
		}
	}
	if MaxFold < MinFold {
		MinFold, MaxFold = 0, -1
	}
}

// EachFoldOrbit calls fn once for every code point in cp's simple
// case-folding orbit other than cp itself. The orbit is a cycle;
// unicode.SimpleFold walks it and returns to cp, which bounds the
// iteration without a fixed count.
func EachFoldOrbit(cp rune, fn func(rune)) {
	for f := unicode.SimpleFold(cp); f != cp; f = unicode.SimpleFold(f) {
		fn(f)
	}
}

// categoryAliases maps every name \p{...} may legally spell to the
// canonical two-(or one-)letter name unicode.Categories is keyed by.
var categoryAliases = map[string]string{
	"Letter":                 "L",
	"Uppercase_Letter":       "Lu",
	"Lowercase_Letter":       "Ll",
	"Titlecase_Letter":       "Lt",
	"Modifier_Letter":        "Lm",
	"Other_Letter":           "Lo",
	"Cased_Letter":           "LC",
	"Mark":                   "M",
	"Nonspacing_Mark":        "Mn",
	"Spacing_Mark":           "Mc",
	"Enclosing_Mark":         "Me",
	"Number":                 "N",
	"Decimal_Number":         "Nd",
	"Letter_Number":          "Nl",
	"Other_Number":           "No",
	"Punctuation":            "P",
	"Connector_Punctuation":  "Pc",
	"Dash_Punctuation":       "Pd",
	"Open_Punctuation":       "Ps",
	"Close_Punctuation":      "Pe",
	"Initial_Punctuation":    "Pi",
	"Final_Punctuation":      "Pf",
	"Other_Punctuation":      "Po",
	"Symbol":                 "S",
	"Math_Symbol":            "Sm",
	"Currency_Symbol":        "Sc",
	"Modifier_Symbol":        "Sk",
	"Other_Symbol":           "So",
	"Separator":              "Z",
	"Space_Separator":        "Zs",
	"Line_Separator":         "Zl",
	"Paragraph_Separator":    "Zp",
	"Other":                  "C",
	"Control":                "Cc",
	"Format":                 "Cf",
	"Surrogate":              "Cs",
	"Private_Use":            "Co",
	"Unassigned":             "Cn",
}

func canonicalCategory(name string) (string, bool) {
	if _, ok := unicode.Categories[name]; ok {
		return name, true
	}
	if canon, ok := categoryAliases[name]; ok {
		return canon, true
	}
	return "", false
}

// GeneralCategory looks up a \p{Name} general-category class by any
// accepted spelling (canonical short name or long alias) and returns its
// range table, or ok=false if the name is unknown.
func GeneralCategory(name string) (*unicode.RangeTable, bool) {
	canon, ok := canonicalCategory(name)
	if !ok {
		return nil, false
	}
	rt, ok := unicode.Categories[canon]
	return rt, ok
}

// Script looks up a \p{Script=Name} or \p{Name} script table.
func Script(name string) (*unicode.RangeTable, bool) {
	rt, ok := unicode.Scripts[name]
	return rt, ok
}

// RangeTableRanges flattens a *unicode.RangeTable into inclusive [lo,hi]
// pairs suitable for charset.Set.
func RangeTableRanges(rt *unicode.RangeTable) [][2]rune {
	var out [][2]rune
	for _, r16 := range rt.R16 {
		lo, hi, stride := rune(r16.Lo), rune(r16.Hi), rune(r16.Stride)
		if stride == 1 {
			out = append(out, [2]rune{lo, hi})
			continue
		}
		for cp := lo; cp <= hi; cp += stride {
			out = append(out, [2]rune{cp, cp})
		}
	}
	for _, r32 := range rt.R32 {
		lo, hi, stride := rune(r32.Lo), rune(r32.Hi), rune(r32.Stride)
		if stride == 1 {
			out = append(out, [2]rune{lo, hi})
			continue
		}
		for cp := lo; cp <= hi; cp += stride {
			out = append(out, [2]rune{cp, cp})
		}
	}
	return out
}
