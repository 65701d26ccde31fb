package fix

// PartialAssignment is an Assignment that can also report whether it is
// actually defined at a given unknown — the shape WithBaseAssignment
// needs for its partial init map (§4.4). Any MutableAssignment already
// satisfies this.
type PartialAssignment[U comparable, V any] interface {
	Assignment[U, V]
	IsDefinedAt(u U) bool
}

// bodyOverride wraps an existing EquationSystem, replacing its body and
// dependency-reporting body while delegating InputUnknowns to the
// wrapped system unless overridden. Equation systems are immutable
// values (§3 Lifecycle); every transformation in this file returns one
// of these wrappers rather than mutating its input.
type bodyOverride[U comparable, V any] struct {
	base         EquationSystem[U, V]
	body         Body[U, V]
	bodyWithDeps BodyWithDependencies[U, V]
}

func (b *bodyOverride[U, V]) Body() Body[U, V]                             { return b.body }
func (b *bodyOverride[U, V]) BodyWithDependencies() BodyWithDependencies[U, V] { return b.bodyWithDeps }
func (b *bodyOverride[U, V]) InputUnknowns() []U                           { return b.base.InputUnknowns() }

// finiteBodyOverride adds back the finite-only members a bodyOverride
// built from a FiniteEquationSystem needs to keep exposing.
type finiteBodyOverride[U comparable, V any] struct {
	*bodyOverride[U, V]
	unknowns []U
	infl     Relation[U]
}

func (f *finiteBodyOverride[U, V]) Unknowns() []U     { return f.unknowns }
func (f *finiteBodyOverride[U, V]) Infl() Relation[U] { return f.infl }

// WithBaseAssignment returns a new equation system whose body returns
// combiner.Combine(init(u), body(ρ)(u)) wherever init is defined, and
// body(ρ)(u) unchanged elsewhere (§4.4). Influence is unchanged — a base
// assignment never makes an unknown depend on anything new.
func WithBaseAssignment[U comparable, V any](
	sys EquationSystem[U, V],
	init PartialAssignment[U, V],
	combiner Magma[V],
) EquationSystem[U, V] {
	baseBody := sys.Body()
	baseDeps := sys.BodyWithDependencies()

	body := func(rho Assignment[U, V], u U) V {
		nv := baseBody(rho, u)
		if init.IsDefinedAt(u) {
			return combiner.Combine(init.Apply(u), nv)
		}
		return nv
	}
	bodyWithDeps := func(rho Assignment[U, V], u U) (V, []U) {
		nv, deps := baseDeps(rho, u)
		if init.IsDefinedAt(u) {
			nv = combiner.Combine(init.Apply(u), nv)
		}
		return nv, deps
	}
	return &bodyOverride[U, V]{base: sys, body: body, bodyWithDeps: bodyWithDeps}
}

// WithBaseAssignmentFinite is WithBaseAssignment specialized to preserve
// a FiniteEquationSystem's Unknowns and Infl.
func WithBaseAssignmentFinite[U comparable, V any](
	sys FiniteEquationSystem[U, V],
	init PartialAssignment[U, V],
	combiner Magma[V],
) FiniteEquationSystem[U, V] {
	wrapped := WithBaseAssignment[U, V](sys, init, combiner).(*bodyOverride[U, V])
	return &finiteBodyOverride[U, V]{bodyOverride: wrapped, unknowns: sys.Unknowns(), infl: sys.Infl()}
}

// WithCombos returns a new equation system whose body applies
// combos(u)(ρ(u), body(ρ)(u)) wherever combos is defined, and
// body(ρ)(u) unchanged elsewhere — the "standard" combo scope (§4.4).
// If combos is not idempotent, callers should use WithCombosFinite,
// which additionally widens influence with the diagonal, since a
// non-idempotent combo may keep changing an unknown's value with no
// dependency having changed.
func WithCombos[U comparable, V any](sys EquationSystem[U, V], combos ComboAssignment[U, V]) EquationSystem[U, V] {
	baseBody := sys.Body()
	baseDeps := sys.BodyWithDependencies()

	body := func(rho Assignment[U, V], u U) V {
		nv := baseBody(rho, u)
		if combos.IsDefinedAt(u) {
			return combos.Combo(u).Apply(rho.Apply(u), nv)
		}
		return nv
	}
	bodyWithDeps := func(rho Assignment[U, V], u U) (V, []U) {
		nv, deps := baseDeps(rho, u)
		if combos.IsDefinedAt(u) {
			nv = combos.Combo(u).Apply(rho.Apply(u), nv)
		}
		return nv, deps
	}
	return &bodyOverride[U, V]{base: sys, body: body, bodyWithDeps: bodyWithDeps}
}

// WithCombosFinite is WithCombos specialized to preserve Unknowns and to
// widen Infl with the diagonal whenever combos is not idempotent (§4.4).
func WithCombosFinite[U comparable, V any](
	sys FiniteEquationSystem[U, V],
	combos ComboAssignment[U, V],
) FiniteEquationSystem[U, V] {
	wrapped := WithCombos[U, V](sys, combos).(*bodyOverride[U, V])
	infl := sys.Infl()
	if !combos.IsIdempotent() {
		infl = WithDiagonal(infl)
	}
	return &finiteBodyOverride[U, V]{bodyOverride: wrapped, unknowns: sys.Unknowns(), infl: infl}
}

// WithLocalizedCombos is the graph-based-only combo scope (§4.4): rather
// than applying combos at every unknown, it applies them at the edges
// entering a loop head. For each ingoing edge e with target x and
// sources S, if combos.IsDefinedAt(x) and some s in S has
// ordering.Lteq(x, s) — the edge is a back-edge — the edge's
// contribution is replaced by combos(x)(ρ(x), contribution).
//
// When combos is not idempotent, a back-edge additionally (a) gains x
// among its own sources, so it reads its own value, and (b) is
// registered in x's outgoing set via that added source, so the derived
// influence relation becomes self-reflexive at x. This function assumes
// edge IDs are unique within sys, which NewGraphEquationSystem does not
// itself require but every caller of this transform should guarantee.
func WithLocalizedCombos[U comparable, V any](
	sys *GraphEquationSystem[U, V],
	combos ComboAssignment[U, V],
	ordering Ordering[U],
) *GraphEquationSystem[U, V] {
	isBack := make(map[string]bool, len(sys.edges))
	newEdges := make([]Edge[U], len(sys.edges))

	for i, e := range sys.edges {
		newEdges[i] = e
		if !combos.IsDefinedAt(e.Target) {
			continue
		}
		back := false
		for _, s := range e.Sources {
			if ordering.Lteq(e.Target, s) {
				back = true
				break
			}
		}
		if !back {
			continue
		}
		isBack[e.ID] = true
		if combos.IsIdempotent() {
			continue
		}
		already := false
		for _, s := range e.Sources {
			if s == e.Target {
				already = true
				break
			}
		}
		if !already {
			srcs := make([]U, len(e.Sources)+1)
			copy(srcs, e.Sources)
			srcs[len(e.Sources)] = e.Target
			newEdges[i].Sources = srcs
		}
	}

	baseAction := sys.action
	localizedAction := EdgeAction[U, V](func(rho Assignment[U, V], e Edge[U]) V {
		contribution := baseAction(rho, e)
		if isBack[e.ID] {
			return combos.Combo(e.Target).Apply(rho.Apply(e.Target), contribution)
		}
		return contribution
	})

	out, err := NewGraphEquationSystem(sys.nodes, newEdges, localizedAction, sys.combiner, sys.inputs)
	if err != nil {
		// Unreachable: newEdges only ever adds e.Target as an extra
		// source, and e.Target is already a declared node because sys
		// itself was constructed successfully.
		panic(err)
	}
	return out
}
