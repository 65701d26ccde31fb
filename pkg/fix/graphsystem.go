package fix

import "fmt"

// Edge is one hyper-edge of a graph-based equation system (§3): it
// carries the unknowns it reads from (Sources) and the single unknown it
// contributes a value to (Target). ID only needs to be unique enough for
// a caller's own bookkeeping; the core never inspects it.
type Edge[U comparable] struct {
	ID      string
	Sources []U
	Target  U
}

// EdgeAction computes one edge's partial contribution to its target,
// given the current assignment.
type EdgeAction[U comparable, V any] func(rho Assignment[U, V], e Edge[U]) V

// graphNodeSlots is the node-resident storage backing one node's values
// across every concurrent solver invocation over the same graph (§4.3,
// §5): slot i holds the value (and definedness) a MutableAssignment
// allocated slot i has stored for this node.
type graphNodeSlots[V any] struct {
	defined []bool
	values  []V
}

// GraphEquationSystem is the hyper-graph specialization of
// FiniteEquationSystem (§3, §4.4): nodes are unknowns, edges carry
// multiple sources and one target, and edge contributions into a target
// are folded with a Magma combiner (typically the domain's upper bound).
//
// GraphEquationSystem also implements AssignmentFactory: NewAssignment
// allocates node-resident slots rather than a hash map, which is
// significantly faster for dense, integer-indexed node sets (§4.3).
// Slot allocation is a monotonically increasing counter with no
// freelist, so constructing a new assignment over a GraphEquationSystem
// must be externally serialized against concurrent construction on the
// same system; using distinct already-constructed assignments
// concurrently is independent (§5).
type GraphEquationSystem[U comparable, V any] struct {
	nodes    []U
	nodeIdx  map[U]int
	edges    []Edge[U]
	ingoing  map[U][]Edge[U]
	outgoing map[U][]Edge[U]
	action   EdgeAction[U, V]
	combiner Magma[V]
	inputs   []U

	nodeSlots map[U]*graphNodeSlots[V]
	nextSlot  int
}

// NewGraphEquationSystem builds a GraphEquationSystem over the given
// declared node set and edges. It returns ErrInconsistentGraph if any
// edge references a source or target outside the declared nodes (§7).
func NewGraphEquationSystem[U comparable, V any](
	nodes []U,
	edges []Edge[U],
	action EdgeAction[U, V],
	combiner Magma[V],
	inputs []U,
) (*GraphEquationSystem[U, V], error) {
	nodeIdx := make(map[U]int, len(nodes))
	for i, u := range nodes {
		nodeIdx[u] = i
	}
	for _, e := range edges {
		if _, ok := nodeIdx[e.Target]; !ok {
			return nil, fmt.Errorf("%w: edge %q target is not a declared node", ErrInconsistentGraph, e.ID)
		}
		for _, s := range e.Sources {
			if _, ok := nodeIdx[s]; !ok {
				return nil, fmt.Errorf("%w: edge %q source is not a declared node", ErrInconsistentGraph, e.ID)
			}
		}
	}

	g := &GraphEquationSystem[U, V]{
		nodes:     nodes,
		nodeIdx:   nodeIdx,
		edges:     edges,
		action:    action,
		combiner:  combiner,
		inputs:    inputs,
		ingoing:   make(map[U][]Edge[U], len(nodes)),
		outgoing:  make(map[U][]Edge[U], len(nodes)),
		nodeSlots: make(map[U]*graphNodeSlots[V], len(nodes)),
	}
	for _, u := range nodes {
		g.nodeSlots[u] = &graphNodeSlots[V]{}
	}
	for _, e := range edges {
		g.ingoing[e.Target] = append(g.ingoing[e.Target], e)
		for _, s := range e.Sources {
			g.outgoing[s] = append(g.outgoing[s], e)
		}
	}
	return g, nil
}

// Body returns body(ρ)(x) = reduce(combiner, {edgeAction(ρ)(e) | e ∈
// ingoing(x)}), falling back to ρ(x) unchanged when x has no ingoing
// edges (§3).
func (g *GraphEquationSystem[U, V]) Body() Body[U, V] {
	return func(rho Assignment[U, V], u U) V {
		ins := g.ingoing[u]
		if len(ins) == 0 {
			return rho.Apply(u)
		}
		acc := g.action(rho, ins[0])
		for _, e := range ins[1:] {
			acc = g.combiner.Combine(acc, g.action(rho, e))
		}
		return acc
	}
}

// BodyWithDependencies reports the union of every ingoing edge's sources
// as the dependency set — precise, since the graph structure already
// tells us exactly which unknowns were consulted, with no need to
// intercept Assignment reads the way TrackDependencies does.
func (g *GraphEquationSystem[U, V]) BodyWithDependencies() BodyWithDependencies[U, V] {
	return func(rho Assignment[U, V], u U) (V, []U) {
		ins := g.ingoing[u]
		if len(ins) == 0 {
			return rho.Apply(u), nil
		}
		acc := g.action(rho, ins[0])
		deps := append([]U(nil), ins[0].Sources...)
		for _, e := range ins[1:] {
			acc = g.combiner.Combine(acc, g.action(rho, e))
			deps = append(deps, e.Sources...)
		}
		return acc, deps
	}
}

// InputUnknowns returns the seed set solvers start from.
func (g *GraphEquationSystem[U, V]) InputUnknowns() []U { return g.inputs }

// Unknowns returns the declared node set.
func (g *GraphEquationSystem[U, V]) Unknowns() []U { return g.nodes }

// Infl returns the influence relation derived from edge structure: every
// source of an edge influences that edge's target.
func (g *GraphEquationSystem[U, V]) Infl() Relation[U] {
	m := make(map[U][]U)
	seen := make(map[U]map[U]bool)
	for _, e := range g.edges {
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
	return FromMap(m)
}

// Ingoing returns the edges targeting u.
func (g *GraphEquationSystem[U, V]) Ingoing(u U) []Edge[U] { return g.ingoing[u] }

// Outgoing returns the edges that read from u as a source.
func (g *GraphEquationSystem[U, V]) Outgoing(u U) []Edge[U] { return g.outgoing[u] }

// Edges returns every edge of the system.
func (g *GraphEquationSystem[U, V]) Edges() []Edge[U] { return g.edges }

// Combiner returns the Magma used to fold ingoing edge contributions.
func (g *GraphEquationSystem[U, V]) Combiner() Magma[V] { return g.combiner }

// Action returns the edge-action function.
func (g *GraphEquationSystem[U, V]) Action() EdgeAction[U, V] { return g.action }

// graphMutableAssignment is the node-resident MutableAssignment a
// GraphEquationSystem hands out: Apply/Update index directly into the
// node's slot arrays at this assignment's allocated slot, avoiding a
// hash map lookup per access.
type graphMutableAssignment[U comparable, V any] struct {
	g        *GraphEquationSystem[U, V]
	fallback Assignment[U, V]
	slot     int
	order    []U
}

func (a *graphMutableAssignment[U, V]) Apply(u U) V {
	ns, ok := a.g.nodeSlots[u]
	if !ok || !ns.defined[a.slot] {
		return a.fallback.Apply(u)
	}
	return ns.values[a.slot]
}

func (a *graphMutableAssignment[U, V]) Update(u U, v V) {
	ns, ok := a.g.nodeSlots[u]
	if !ok {
		return
	}
	if !ns.defined[a.slot] {
		a.order = append(a.order, u)
	}
	ns.defined[a.slot] = true
	ns.values[a.slot] = v
}

func (a *graphMutableAssignment[U, V]) IsDefinedAt(u U) bool {
	ns, ok := a.g.nodeSlots[u]
	return ok && ns.defined[a.slot]
}

func (a *graphMutableAssignment[U, V]) Unknowns() []U {
	out := make([]U, len(a.order))
	copy(out, a.order)
	return out
}

// NewAssignment implements AssignmentFactory: it allocates the next slot
// index from the system's monotonic counter and grows every node's slot
// arrays to make room for it. This step is the one the spec calls out as
// not reentrant-safe against a concurrent call on the same system (§5);
// callers constructing assignments over the same GraphEquationSystem
// from multiple goroutines must serialize those constructions
// themselves.
func (g *GraphEquationSystem[U, V]) NewAssignment(fallback Assignment[U, V]) MutableAssignment[U, V] {
	slot := g.nextSlot
	g.nextSlot++
	var zero V
	for _, ns := range g.nodeSlots {
		ns.defined = append(ns.defined, false)
		ns.values = append(ns.values, zero)
	}
	return &graphMutableAssignment[U, V]{g: g, fallback: fallback, slot: slot}
}
