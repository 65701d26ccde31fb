package fix

// RestartStrategy controls whether HierarchicalOrderingSolver re-enters
// already-stabilized components when a later evaluation changes one of
// their heads (§4.6).
type RestartStrategy int

const (
	// RestartNone performs a single traversal of each nesting level: a
	// component's own head+body loop always iterates to its own local
	// fixpoint, but once a level's full element sequence has been walked
	// once with no further change, the solver moves on and never revisits
	// it even if an enclosing later element would otherwise change it.
	RestartNone RestartStrategy = iota
	// Restart re-walks a level's full element sequence — re-stabilizing
	// any inner component whose head changed — until a full pass produces
	// no change at all, at every nesting level.
	Restart
)

// HierarchicalOrderingSolver traverses a HierarchicalOrdering's weak
// topological structure: within each strongly-connected component
// (delimited by Left…Right) it iterates head and body until stable
// before proceeding to the next element (§4.6).
type HierarchicalOrderingSolver[U comparable, V any] struct {
	Domain   OrderedDomain[V]
	Ordering *HierarchicalOrdering[U]
	Restart  RestartStrategy
}

// NewHierarchicalOrderingSolver returns a HierarchicalOrderingSolver over
// the given ordering. domain may be nil, in which case value equality
// falls back to reflect.DeepEqual.
func NewHierarchicalOrderingSolver[U comparable, V any](
	ordering *HierarchicalOrdering[U],
	domain OrderedDomain[V],
	restart RestartStrategy,
) *HierarchicalOrderingSolver[U, V] {
	return &HierarchicalOrderingSolver[U, V]{Domain: domain, Ordering: ordering, Restart: restart}
}

// SolveFinite implements FiniteSolver.
func (s *HierarchicalOrderingSolver[U, V]) SolveFinite(
	sys FiniteEquationSystem[U, V],
	factory AssignmentFactory[U, V],
	fallback Assignment[U, V],
	tracer Tracer[U, V],
) Assignment[U, V] {
	tracer = resolveTracer(tracer)
	rho := resolveFactory(factory).NewAssignment(fallback)
	eq := valueEq(s.Domain)
	tracer.Initialized(rho)

	evalOne := func(u U) bool {
		changed, _ := evaluate[U, V](sys, rho, u, eq, tracer)
		return changed
	}

	var stabilizeComponent func(c *HierComponent[U]) bool
	stabilizeElements := func(elements []HierElement[U]) bool {
		anyChanged := false
		for {
			dirty := false
			for _, el := range elements {
				if el.IsComponent {
					if stabilizeComponent(el.Component) {
						dirty = true
					}
				} else if evalOne(el.U) {
					dirty = true
				}
			}
			if dirty {
				anyChanged = true
			}
			if !dirty || s.Restart != Restart {
				break
			}
		}
		return anyChanged
	}
	stabilizeComponent = func(c *HierComponent[U]) bool {
		anyChanged := false
		for {
			dirty := evalOne(c.Head)
			for _, el := range c.Body {
				if el.IsComponent {
					if stabilizeComponent(el.Component) {
						dirty = true
					}
				} else if evalOne(el.U) {
					dirty = true
				}
			}
			if dirty {
				anyChanged = true
			}
			if !dirty {
				break
			}
		}
		return anyChanged
	}

	stabilizeElements(s.Ordering.Top())

	tracer.Completed(rho)
	return rho
}
