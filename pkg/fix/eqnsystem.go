package fix

// Body is the right-hand side of an equation system (§3): given the
// current assignment, it produces the next value for any unknown.
//
// The spec curries this as Assignment → (U → V); this port flattens it
// to a two-argument function, which is the idiomatic Go shape and avoids
// allocating a closure on every evaluation. The semantics are identical.
type Body[U comparable, V any] func(rho Assignment[U, V], u U) V

// BodyWithDependencies is like Body but additionally reports the
// unknowns consulted while evaluating u (§3). The invariant that binds
// it to Body: if body(ρ)(u) depends on ρ(x), then x must appear in the
// reported dependency set.
type BodyWithDependencies[U comparable, V any] func(rho Assignment[U, V], u U) (V, []U)

// trackingAssignment wraps an Assignment and records, in first-access
// order, every unknown it is asked to Apply — the generic mechanism
// TrackDependencies uses to derive a BodyWithDependencies from a plain
// Body without requiring the body author to track reads by hand.
type trackingAssignment[U comparable, V any] struct {
	inner Assignment[U, V]
	seen  map[U]bool
	order []U
}

func (t *trackingAssignment[U, V]) Apply(u U) V {
	if !t.seen[u] {
		t.seen[u] = true
		t.order = append(t.order, u)
	}
	return t.inner.Apply(u)
}

// TrackDependencies derives a BodyWithDependencies from a Body by
// recording every unknown the body reads from the assignment while
// computing u's next value. This is the generic fallback; a graph-based
// equation system (graphsystem.go) instead reports dependencies
// precisely from its edge structure, without needing to intercept reads.
func TrackDependencies[U comparable, V any](body Body[U, V]) BodyWithDependencies[U, V] {
	return func(rho Assignment[U, V], u U) (V, []U) {
		tracker := &trackingAssignment[U, V]{inner: rho, seen: make(map[U]bool)}
		v := body(tracker, u)
		return v, tracker.order
	}
}

// EquationSystem is the infinite variant (§3): a body, its
// dependency-tracking twin, and the seed set of unknowns a solver should
// start from.
type EquationSystem[U comparable, V any] interface {
	Body() Body[U, V]
	BodyWithDependencies() BodyWithDependencies[U, V]
	InputUnknowns() []U
}

// FiniteEquationSystem additionally exposes an enumerable unknown set and
// a precomputed influence relation (§3).
type FiniteEquationSystem[U comparable, V any] interface {
	EquationSystem[U, V]
	Unknowns() []U
	Infl() Relation[U]
}

// simpleSystem is the straightforward EquationSystem implementation most
// callers build directly; graph-based systems (graphsystem.go) implement
// the interfaces themselves instead, since their body is derived from
// edge structure rather than stored as a closure.
type simpleSystem[U comparable, V any] struct {
	body         Body[U, V]
	bodyWithDeps BodyWithDependencies[U, V]
	inputs       []U
}

// NewEquationSystem builds an infinite EquationSystem from an explicit
// body and dependency-reporting body. If bodyWithDeps is nil, one is
// derived from body via TrackDependencies.
func NewEquationSystem[U comparable, V any](
	body Body[U, V],
	bodyWithDeps BodyWithDependencies[U, V],
	inputs []U,
) EquationSystem[U, V] {
	if bodyWithDeps == nil {
		bodyWithDeps = TrackDependencies(body)
	}
	return &simpleSystem[U, V]{body: body, bodyWithDeps: bodyWithDeps, inputs: inputs}
}

func (s *simpleSystem[U, V]) Body() Body[U, V]                             { return s.body }
func (s *simpleSystem[U, V]) BodyWithDependencies() BodyWithDependencies[U, V] { return s.bodyWithDeps }
func (s *simpleSystem[U, V]) InputUnknowns() []U                           { return s.inputs }

// finiteSystem adds the enumerable unknown set and influence relation
// a finite solver needs.
type finiteSystem[U comparable, V any] struct {
	*simpleSystem[U, V]
	unknowns []U
	infl     Relation[U]
}

// NewFiniteEquationSystem builds a FiniteEquationSystem from an explicit
// body, unknown set and influence relation.
func NewFiniteEquationSystem[U comparable, V any](
	body Body[U, V],
	bodyWithDeps BodyWithDependencies[U, V],
	inputs []U,
	unknowns []U,
	infl Relation[U],
) FiniteEquationSystem[U, V] {
	base := NewEquationSystem(body, bodyWithDeps, inputs).(*simpleSystem[U, V])
	return &finiteSystem[U, V]{simpleSystem: base, unknowns: unknowns, infl: infl}
}

func (s *finiteSystem[U, V]) Unknowns() []U    { return s.unknowns }
func (s *finiteSystem[U, V]) Infl() Relation[U] { return s.infl }
