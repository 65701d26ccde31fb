package fix

import "testing"

func TestConstantAssignment(t *testing.T) {
	a := ConstantAssignment[string, int](42)
	if a.Apply("anything") != 42 || a.Apply("else") != 42 {
		t.Error("constant assignment should answer the same value for every unknown")
	}
}

func TestAssignmentFunc(t *testing.T) {
	a := AssignmentFunc[int, int](func(u int) int { return u * 2 })
	if a.Apply(5) != 10 {
		t.Errorf("Apply(5) = %d, want 10", a.Apply(5))
	}
}

func TestMutableAssignmentFallsBackUntilUpdated(t *testing.T) {
	fallback := ConstantAssignment[string, int](0)
	rho := NewMutableAssignment[string, int](fallback)

	if rho.IsDefinedAt("x") {
		t.Error("freshly constructed assignment should have nothing defined")
	}
	if rho.Apply("x") != 0 {
		t.Errorf("undefined unknown should fall back to 0, got %d", rho.Apply("x"))
	}

	rho.Update("x", 7)
	if !rho.IsDefinedAt("x") {
		t.Error("x should be defined after Update")
	}
	if rho.Apply("x") != 7 {
		t.Errorf("Apply(x) = %d, want 7", rho.Apply("x"))
	}
	if rho.Apply("y") != 0 {
		t.Error("y should still fall back")
	}
}

func TestMutableAssignmentUnknownsPreservesInsertionOrder(t *testing.T) {
	rho := NewMutableAssignment[string, int](ConstantAssignment[string, int](0))
	rho.Update("b", 1)
	rho.Update("a", 2)
	rho.Update("b", 3) // re-updating an existing key must not append again

	got := rho.Unknowns()
	want := []string{"b", "a"}
	if len(got) != len(want) {
		t.Fatalf("Unknowns() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Unknowns()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDefaultAssignmentFactory(t *testing.T) {
	factory := DefaultAssignmentFactory[string, int]()
	rho := factory.NewAssignment(ConstantAssignment[string, int](9))
	if rho.Apply("unset") != 9 {
		t.Errorf("factory-built assignment should honor its fallback, got %d", rho.Apply("unset"))
	}
	rho.Update("unset", 1)
	if rho.Apply("unset") != 1 {
		t.Error("Update should override the fallback")
	}
}
