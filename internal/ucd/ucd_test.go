package ucd

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestGeneralCategoryAliases(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"L", "L"},
		{"Letter", "L"},
		{"Lu", "Lu"},
		{"Uppercase_Letter", "Lu"},
		{"Nd", "Nd"},
		{"Decimal_Number", "Nd"},
	}
	for _, c := range cases {
		canon, ok := canonicalCategory(c.name)
		assert.Equal(t, ok, true)
		assert.Equal(t, canon, c.want)

		rt, ok := GeneralCategory(c.name)
		assert.Equal(t, ok, true)
		assert.Assert(t, rt != nil)
	}
}

func TestGeneralCategoryUnknown(t *testing.T) {
	_, ok := GeneralCategory("NotACategory")
	assert.Equal(t, ok, false)
}

func TestScript(t *testing.T) {
	rt, ok := Script("Greek")
	assert.Equal(t, ok, true)
	assert.Assert(t, rt != nil)

	_, ok = Script("NotAScript")
	assert.Equal(t, ok, false)
}

func TestEachFoldOrbitASCII(t *testing.T) {
	var got []rune
	EachFoldOrbit('a', func(r rune) { got = append(got, r) })
	assert.DeepEqual(t, got, []rune{'A'})

	got = nil
	EachFoldOrbit('9', func(r rune) { got = append(got, r) })
	assert.DeepEqual(t, got, []rune(nil))
}

func TestFoldWindowCoversASCIILetters(t *testing.T) {
	assert.Assert(t, MinFold <= 'a')
	assert.Assert(t, MaxFold >= 'z')
}
