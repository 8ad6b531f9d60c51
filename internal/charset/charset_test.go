package charset

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
)

func TestSimplify(t *testing.T) {
	cases := []struct {
		name string
		in   []Range
		want Set
	}{
		{"empty", nil, nil},
		{"single", []Range{{'a', 'z'}}, Set{{'a', 'z'}}},
		{
			"overlapping",
			[]Range{{'a', 'f'}, {'d', 'z'}},
			Set{{'a', 'z'}},
		},
		{
			"adjacent merges",
			[]Range{{0, 10}, {11, 20}},
			Set{{0, 20}},
		},
		{
			"disjoint stays separate",
			[]Range{{0, 10}, {12, 20}},
			Set{{0, 10}, {12, 20}},
		},
		{
			"unsorted input",
			[]Range{{20, 30}, {0, 5}},
			Set{{0, 5}, {20, 30}},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Simplify(c.in)
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComplement(t *testing.T) {
	got := Complement([]Range{{0, 'a' - 1}, {'z' + 1, MaxRune}})
	assert.DeepEqual(t, got, Set{{'a', 'z'}})

	got = Complement(nil)
	assert.DeepEqual(t, got, Set{{0, MaxRune}})

	got = Complement([]Range{{0, MaxRune}})
	assert.DeepEqual(t, got, Set(nil))
}

func TestContains(t *testing.T) {
	s := New(Range{'a', 'z'}, Range{'0', '9'})
	assert.Equal(t, Contains(s, 'm'), true)
	assert.Equal(t, Contains(s, '5'), true)
	assert.Equal(t, Contains(s, 'M'), false)
	assert.Equal(t, Contains(s, 0), false)
}

func TestUnion(t *testing.T) {
	a := New(Range{'a', 'm'})
	b := New(Range{'n', 'z'})
	assert.DeepEqual(t, Union(a, b), Set{{'a', 'z'}})
}

func TestCaseFoldExpand(t *testing.T) {
	got := CaseFoldExpand([]Range{{'a', 'a'}})
	assert.DeepEqual(t, got, Set{{'A', 'A'}, {'a', 'a'}})

	got = CaseFoldExpand([]Range{{'0', '9'}})
	assert.DeepEqual(t, got, Set{{'0', '9'}})
}
