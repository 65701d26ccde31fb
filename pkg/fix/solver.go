package fix

import "reflect"

// Solver computes an assignment that is a fixpoint (up to the combos
// installed on the equation system) of an EquationSystem, starting from
// an assignment's fallback value everywhere (§5).
//
// Infinite-system solvers only ever reach unknowns transitively demanded
// by the caller's wanted set. Among finite solvers, RoundRobinSolver and
// KleeneSolver evaluate every declared unknown in Unknowns() at least
// once; the worklist solvers evaluate only unknowns reached from
// InputUnknowns (or all of Unknowns() when InputUnknowns is empty), and
// HierarchicalOrderingSolver only the unknowns in its ordering.
type Solver[U comparable, V any] interface {
	// Solve runs to a fixpoint and returns the resulting assignment.
	Solve(sys EquationSystem[U, V], factory AssignmentFactory[U, V], fallback Assignment[U, V], tracer Tracer[U, V]) Assignment[U, V]
}

// FiniteSolver is a Solver specialized to a FiniteEquationSystem, able to
// exploit its enumerable unknown set and influence relation.
type FiniteSolver[U comparable, V any] interface {
	SolveFinite(sys FiniteEquationSystem[U, V], factory AssignmentFactory[U, V], fallback Assignment[U, V], tracer Tracer[U, V]) Assignment[U, V]
}

// resolveTracer returns tracer, or a NoopTracer if tracer is nil —
// every solver accepts a nil tracer as "don't trace".
func resolveTracer[U comparable, V any](tracer Tracer[U, V]) Tracer[U, V] {
	if tracer == nil {
		return NoopTracer[U, V]{}
	}
	return tracer
}

// resolveFactory returns factory, or DefaultAssignmentFactory if factory
// is nil.
func resolveFactory[U comparable, V any](factory AssignmentFactory[U, V]) AssignmentFactory[U, V] {
	if factory == nil {
		return DefaultAssignmentFactory[U, V]()
	}
	return factory
}

// valueEq is the equality test a solver uses to decide whether an
// evaluation actually changed an unknown's value (§5: "if nv ≠ ρ(u) mark
// the pass dirty"). A nil domain falls back to reflect.DeepEqual, in the
// same spirit as the teacher engine's term-equality checks
// (pkg/minikanren/store_ops.go); with a non-nil domain, equality is the
// domain's own Eq, not Go's structural equality.
func valueEq[V any](domain OrderedDomain[V]) func(a, b V) bool {
	if domain == nil {
		return func(a, b V) bool { return reflect.DeepEqual(a, b) }
	}
	return domain.Eq
}

// evaluate runs one evaluation step at u: compute its next value, record
// it via the tracer, update rho if the value changed (per eq), and
// return whether it changed alongside the unknowns the evaluation
// depended on.
func evaluate[U comparable, V any](
	sys EquationSystem[U, V],
	rho MutableAssignment[U, V],
	u U,
	eq func(a, b V) bool,
	tracer Tracer[U, V],
) (changed bool, deps []U) {
	next, deps := sys.BodyWithDependencies()(rho, u)
	tracer.Evaluated(u, next)
	if rho.IsDefinedAt(u) && eq(rho.Apply(u), next) {
		return false, deps
	}
	rho.Update(u, next)
	return true, deps
}
