package fix

import (
	"reflect"
	"sort"
	"testing"
)

func TestFromMapRelation(t *testing.T) {
	r := FromMap(map[string][]string{"a": {"b", "c"}})
	if got := r.Image("a"); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("Image(a) = %v, want [b c]", got)
	}
	if got := r.Image("missing"); len(got) != 0 {
		t.Errorf("Image(missing) = %v, want empty", got)
	}
}

func TestFromPairsPreservesOrderAndDedupes(t *testing.T) {
	r := FromPairs([][2]string{
		{"a", "x"}, {"a", "y"}, {"a", "x"}, {"b", "z"},
	})
	if got := r.Image("a"); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("Image(a) = %v, want [x y] with duplicates removed", got)
	}
	if got := r.Image("b"); !reflect.DeepEqual(got, []string{"z"}) {
		t.Errorf("Image(b) = %v, want [z]", got)
	}
}

func TestWithDiagonal(t *testing.T) {
	inner := FromMap(map[string][]string{
		"a": {"b"},
		"c": {"c"}, // already self-related
	})
	d := WithDiagonal[string](inner)

	got := d.Image("a")
	sort.Strings(got)
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Image(a) = %v, want [a b]", got)
	}

	if got := d.Image("c"); !reflect.DeepEqual(got, []string{"c"}) {
		t.Errorf("Image(c) = %v, want [c] (no duplicate self-loop)", got)
	}

	if got := d.Image("unrelated"); !reflect.DeepEqual(got, []string{"unrelated"}) {
		t.Errorf("Image(unrelated) = %v, want [unrelated]", got)
	}
}

func TestRelationFunc(t *testing.T) {
	r := RelationFunc[int](func(a int) []int { return []int{a + 1} })
	if got := r.Image(5); !reflect.DeepEqual(got, []int{6}) {
		t.Errorf("Image(5) = %v, want [6]", got)
	}
}
