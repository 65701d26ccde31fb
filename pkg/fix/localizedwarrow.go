package fix

// localizedWarrowSystem wraps a GraphEquationSystem to apply warrowing
// (§4.4) directly at loop-head edges in a single pass, rather than
// requiring two separate ascending/descending solver runs. It implements
// FiniteEquationSystem directly instead of going through bodyOverride,
// since the needs-widen/narrow/pass-through decision has to be made per
// back-edge rather than per-unknown.
type localizedWarrowSystem[U comparable, V any] struct {
	g        *GraphEquationSystem[U, V]
	domain   OrderedDomain[V]
	widen    func(old, next V) V
	narrow   func(old, next V) V
	ordering Ordering[U]
	isBack   map[string]bool
	infl     Relation[U]
}

// AddLocalizedWarrowing returns a FiniteEquationSystem that evaluates sys
// ordinarily everywhere except at unknowns with at least one ingoing
// back-edge (as judged by ordering) whose own, uncombined contribution is
// not already ≤ the target's current value — only then is the combined
// ingoing contribution compared against the current value of the target
// and either widened, narrowed, or passed through unchanged (§4.4):
//
//   - if the combined value is not ≤ the old value, widen(old, new);
//   - else if the combined value is strictly < the old value, narrow(old, new);
//   - otherwise the combined value is passed through unchanged.
//
// This is warrowing's single-pass corner case: the widen check always
// comes first, so a value that would grow is always widened even when it
// would also satisfy the narrowing condition relative to some other
// reading. Because a back-edge's result may depend on its own prior
// value with no dependency having changed, Infl is widened with the
// diagonal at every loop head.
func AddLocalizedWarrowing[U comparable, V any](
	sys *GraphEquationSystem[U, V],
	domain OrderedDomain[V],
	widen func(old, next V) V,
	narrow func(old, next V) V,
	ordering Ordering[U],
) FiniteEquationSystem[U, V] {
	isBack := make(map[string]bool, len(sys.edges))
	for _, e := range sys.edges {
		for _, s := range e.Sources {
			if ordering.Lteq(e.Target, s) {
				isBack[e.ID] = true
				break
			}
		}
	}

	m := make(map[U][]U)
	seen := make(map[U]map[U]bool)
	for _, e := range sys.edges {
		for _, s := range e.Sources {
			if seen[s] == nil {
				seen[s] = make(map[U]bool)
			}
			if seen[s][e.Target] {
				continue
			}
			seen[s][e.Target] = true
			m[s] = append(m[s], e.Target)
		}
	}
	infl := WithDiagonal(FromMap(m))

	return &localizedWarrowSystem[U, V]{
		g: sys, domain: domain, widen: widen, narrow: narrow,
		ordering: ordering, isBack: isBack, infl: infl,
	}
}

func (s *localizedWarrowSystem[U, V]) eval(rho Assignment[U, V], u U) (V, []U) {
	ins := s.g.ingoing[u]
	if len(ins) == 0 {
		return rho.Apply(u), nil
	}

	old := rho.Apply(u)

	first := s.g.action(rho, ins[0])
	acc := first
	deps := append([]U(nil), ins[0].Sources...)
	needsWiden := s.isBack[ins[0].ID] && !s.domain.Leq(first, old)
	for _, e := range ins[1:] {
		v := s.g.action(rho, e)
		acc = s.g.combiner.Combine(acc, v)
		deps = append(deps, e.Sources...)
		if s.isBack[e.ID] && !s.domain.Leq(v, old) {
			needsWiden = true
		}
	}

	if !needsWiden {
		return acc, deps
	}

	switch {
	case !s.domain.Leq(acc, old):
		return s.widen(old, acc), deps
	case s.domain.Lt(acc, old):
		return s.narrow(old, acc), deps
	default:
		return acc, deps
	}
}

func (s *localizedWarrowSystem[U, V]) Body() Body[U, V] {
	return func(rho Assignment[U, V], u U) V {
		v, _ := s.eval(rho, u)
		return v
	}
}

func (s *localizedWarrowSystem[U, V]) BodyWithDependencies() BodyWithDependencies[U, V] {
	return s.eval
}

func (s *localizedWarrowSystem[U, V]) InputUnknowns() []U { return s.g.InputUnknowns() }
func (s *localizedWarrowSystem[U, V]) Unknowns() []U      { return s.g.Unknowns() }
func (s *localizedWarrowSystem[U, V]) Infl() Relation[U]  { return s.infl }
