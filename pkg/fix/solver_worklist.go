package fix

// WorkListSolver maintains an explicit FIFO queue of unknowns to
// (re-)evaluate, seeded from InputUnknowns (or the whole declared
// unknown set if InputUnknowns is empty) (§5). Popping u evaluates it;
// if its value changed, every unknown in infl(u) is enqueued. A simple
// "already queued" set keeps the queue free of duplicates, since
// re-enqueuing an unknown already waiting to be evaluated is redundant.
type WorkListSolver[U comparable, V any] struct {
	Domain OrderedDomain[V]
}

// NewWorkListSolver returns a WorkListSolver. domain may be nil, in
// which case value equality falls back to reflect.DeepEqual.
func NewWorkListSolver[U comparable, V any](domain OrderedDomain[V]) *WorkListSolver[U, V] {
	return &WorkListSolver[U, V]{Domain: domain}
}

// fifoQueue is the plain slice-backed FIFO queue every worklist solver in
// this file uses; it tracks membership separately so the same unknown is
// never queued twice at once.
type fifoQueue[U comparable] struct {
	items  []U
	queued map[U]bool
}

func newFifoQueue[U comparable](seed []U) *fifoQueue[U] {
	q := &fifoQueue[U]{queued: make(map[U]bool, len(seed))}
	for _, u := range seed {
		q.push(u)
	}
	return q
}

func (q *fifoQueue[U]) push(u U) {
	if q.queued[u] {
		return
	}
	q.queued[u] = true
	q.items = append(q.items, u)
}

func (q *fifoQueue[U]) pop() (U, bool) {
	var zero U
	if len(q.items) == 0 {
		return zero, false
	}
	u := q.items[0]
	q.items = q.items[1:]
	delete(q.queued, u)
	return u, true
}

func (q *fifoQueue[U]) empty() bool { return len(q.items) == 0 }

// SolveFinite implements FiniteSolver.
func (s *WorkListSolver[U, V]) SolveFinite(
	sys FiniteEquationSystem[U, V],
	factory AssignmentFactory[U, V],
	fallback Assignment[U, V],
	tracer Tracer[U, V],
) Assignment[U, V] {
	tracer = resolveTracer(tracer)
	rho := resolveFactory(factory).NewAssignment(fallback)
	eq := valueEq(s.Domain)
	tracer.Initialized(rho)

	seed := sys.InputUnknowns()
	if len(seed) == 0 {
		seed = sys.Unknowns()
	}
	infl := sys.Infl()
	queue := newFifoQueue(seed)

	for {
		u, ok := queue.pop()
		if !ok {
			break
		}
		changed, _ := evaluate[U, V](sys, rho, u, eq, tracer)
		if changed {
			for _, w := range infl.Image(u) {
				queue.push(w)
			}
		}
	}

	tracer.Completed(rho)
	return rho
}

// InfiniteWorkListSolver is the WorkListSolver variant for an
// EquationSystem with no precomputed Unknowns()/Infl(): the influence
// relation is discovered on the fly from each evaluation's reported
// dependencies (§5). Seeds come from a caller-supplied wanted set rather
// than InputUnknowns, since an infinite system's InputUnknowns alone
// does not bound which unknowns a caller actually wants solved.
type InfiniteWorkListSolver[U comparable, V any] struct {
	Domain OrderedDomain[V]
}

// NewInfiniteWorkListSolver returns an InfiniteWorkListSolver. domain
// may be nil, in which case value equality falls back to
// reflect.DeepEqual.
func NewInfiniteWorkListSolver[U comparable, V any](domain OrderedDomain[V]) *InfiniteWorkListSolver[U, V] {
	return &InfiniteWorkListSolver[U, V]{Domain: domain}
}

// Solve runs the solver over sys, seeded from wanted, and returns the
// resulting assignment.
func (s *InfiniteWorkListSolver[U, V]) Solve(
	sys EquationSystem[U, V],
	factory AssignmentFactory[U, V],
	fallback Assignment[U, V],
	wanted []U,
	tracer Tracer[U, V],
) Assignment[U, V] {
	tracer = resolveTracer(tracer)
	rho := resolveFactory(factory).NewAssignment(fallback)
	eq := valueEq(s.Domain)
	tracer.Initialized(rho)

	infl := make(map[U][]U)
	seenInfl := make(map[U]map[U]bool)
	addInfl := func(dependency, dependent U) {
		if seenInfl[dependency] == nil {
			seenInfl[dependency] = make(map[U]bool)
		}
		if seenInfl[dependency][dependent] {
			return
		}
		seenInfl[dependency][dependent] = true
		infl[dependency] = append(infl[dependency], dependent)
	}

	queue := newFifoQueue(wanted)
	for _, u := range wanted {
		if !rho.IsDefinedAt(u) {
			rho.Update(u, fallback.Apply(u))
		}
	}

	for {
		u, ok := queue.pop()
		if !ok {
			break
		}
		changed, deps := evaluate[U, V](sys, rho, u, eq, tracer)
		for _, y := range deps {
			if !rho.IsDefinedAt(y) {
				rho.Update(y, fallback.Apply(y))
				queue.push(y)
			}
			addInfl(y, u)
		}
		if changed {
			for _, w := range infl[u] {
				queue.push(w)
			}
		}
	}

	tracer.Completed(rho)
	return rho
}
