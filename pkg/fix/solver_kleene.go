package fix

// KleeneSolver is like RoundRobinSolver, but every pass evaluates every
// unknown against the assignment as it stood at the start of the pass —
// all updates are buffered and applied together at the end of the pass
// (§5). Terminates when a pass produces no change.
type KleeneSolver[U comparable, V any] struct {
	Domain OrderedDomain[V]
}

// NewKleeneSolver returns a KleeneSolver. domain may be nil, in which
// case value equality falls back to reflect.DeepEqual.
func NewKleeneSolver[U comparable, V any](domain OrderedDomain[V]) *KleeneSolver[U, V] {
	return &KleeneSolver[U, V]{Domain: domain}
}

// SolveFinite implements FiniteSolver.
func (s *KleeneSolver[U, V]) SolveFinite(
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
	body := sys.Body()
	for {
		dirty := false
		next := make(map[U]V, len(unknowns))
		for _, u := range unknowns {
			nv := body(rho, u)
			tracer.Evaluated(u, nv)
			if !rho.IsDefinedAt(u) || !eq(rho.Apply(u), nv) {
				dirty = true
			}
			next[u] = nv
		}
		for _, u := range unknowns {
			rho.Update(u, next[u])
		}
		if !dirty {
			break
		}
	}

	tracer.Completed(rho)
	return rho
}
