package fix

import (
	"reflect"
	"sort"
	"testing"
)

func TestTrackDependencies(t *testing.T) {
	body := Body[string, int](func(rho Assignment[string, int], u string) int {
		if u == "c" {
			return rho.Apply("a") + rho.Apply("b") + rho.Apply("a")
		}
		return 0
	})
	tracked := TrackDependencies(body)

	rho := ConstantAssignment[string, int](1)
	v, deps := tracked(rho, "c")
	if v != 3 {
		t.Errorf("value = %d, want 3", v)
	}
	want := []string{"a", "b"}
	if !reflect.DeepEqual(deps, want) {
		t.Errorf("deps = %v, want %v (first-access order, deduped)", deps, want)
	}
}

func TestNewEquationSystemDerivesDependenciesWhenNil(t *testing.T) {
	body := Body[string, int](func(rho Assignment[string, int], u string) int {
		return rho.Apply("x")
	})
	sys := NewEquationSystem[string, int](body, nil, []string{"x"})

	v, deps := sys.BodyWithDependencies()(ConstantAssignment[string, int](5), "whatever")
	if v != 5 {
		t.Errorf("value = %d, want 5", v)
	}
	if !reflect.DeepEqual(deps, []string{"x"}) {
		t.Errorf("deps = %v, want [x]", deps)
	}
	if !reflect.DeepEqual(sys.InputUnknowns(), []string{"x"}) {
		t.Errorf("InputUnknowns() = %v, want [x]", sys.InputUnknowns())
	}
}

func TestNewEquationSystemHonorsExplicitDependencies(t *testing.T) {
	body := Body[string, int](func(rho Assignment[string, int], u string) int { return 0 })
	explicit := BodyWithDependencies[string, int](func(rho Assignment[string, int], u string) (int, []string) {
		return 99, []string{"custom"}
	})
	sys := NewEquationSystem[string, int](body, explicit, nil)

	v, deps := sys.BodyWithDependencies()(ConstantAssignment[string, int](0), "u")
	if v != 99 || !reflect.DeepEqual(deps, []string{"custom"}) {
		t.Errorf("expected the explicit body-with-deps to be used unmodified, got v=%d deps=%v", v, deps)
	}
}

func TestNewFiniteEquationSystem(t *testing.T) {
	body := Body[string, int](func(rho Assignment[string, int], u string) int { return len(u) })
	infl := FromMap(map[string][]string{"a": {"b"}})
	sys := NewFiniteEquationSystem[string, int](body, nil, []string{"a"}, []string{"a", "b"}, infl)

	got := sys.Unknowns()
	sort.Strings(got)
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Unknowns() = %v, want [a b]", got)
	}
	if !reflect.DeepEqual(sys.Infl().Image("a"), []string{"b"}) {
		t.Errorf("Infl().Image(a) = %v, want [b]", sys.Infl().Image("a"))
	}
	if sys.Body()(ConstantAssignment[string, int](0), "xyz") != 3 {
		t.Error("Body() should be the same body passed in")
	}
}
