package fix

// RoundRobinSolver repeatedly sweeps a finite equation system's declared
// unknowns in a fixed order, applying one evaluation per unknown per
// pass, until a full pass produces no change (§5). Traversal order is
// deterministic: the order Unknowns() returns.
type RoundRobinSolver[U comparable, V any] struct {
	Domain OrderedDomain[V]
}

// NewRoundRobinSolver returns a RoundRobinSolver. domain may be nil, in
// which case value equality falls back to reflect.DeepEqual.
func NewRoundRobinSolver[U comparable, V any](domain OrderedDomain[V]) *RoundRobinSolver[U, V] {
	return &RoundRobinSolver[U, V]{Domain: domain}
}

// SolveFinite implements FiniteSolver.
func (s *RoundRobinSolver[U, V]) SolveFinite(
	sys FiniteEquationSystem[U, V],
	factory AssignmentFactory[U, V],
	fallback Assignment[U, V],
	tracer Tracer[U, V],
) Assignment[U, V] {
	tracer = resolveTracer(tracer)
	rho := resolveFactory(factory).NewAssignment(fallback)
	eq := valueEq(s.Domain)
	tracer.Initialized(rho)

	unknowns := sys.Unknowns()
	for {
		dirty := false
		for _, u := range unknowns {
			changed, _ := evaluate[U, V](sys, rho, u, eq, tracer)
			if changed {
				dirty = true
			}
		}
		if !dirty {
			break
		}
	}

	tracer.Completed(rho)
	return rho
}
