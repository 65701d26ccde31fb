package fix

import "container/heap"

// DynamicPriorityOrdering is the default Ordering a PriorityWorkListSolver
// uses when the caller supplies none (§5): on first observation of an
// unknown it is assigned the next value of a decrementing counter, so
// later-seen unknowns get a smaller (higher-priority) value and bubble
// to the front of the queue — mimicking a depth-first exploration.
type DynamicPriorityOrdering[U comparable] struct {
	counter int
	prio    map[U]int
}

// NewDynamicPriorityOrdering returns an empty DynamicPriorityOrdering.
func NewDynamicPriorityOrdering[U comparable]() *DynamicPriorityOrdering[U] {
	return &DynamicPriorityOrdering[U]{prio: make(map[U]int)}
}

// observe assigns u a priority the first time it is seen, and is a no-op
// afterwards.
func (o *DynamicPriorityOrdering[U]) observe(u U) {
	if _, ok := o.prio[u]; ok {
		return
	}
	o.counter--
	o.prio[u] = o.counter
}

// Lteq implements Ordering: u precedes v iff u's priority is numerically
// no greater than v's. Both must already have been observed.
func (o *DynamicPriorityOrdering[U]) Lteq(u, v U) bool {
	return o.prio[u] <= o.prio[v]
}

// priorityQueueItems backs a container/heap priority queue over unknowns,
// ordered by a caller-supplied Ordering (lower/equal orders first).
type priorityQueueItems[U comparable] struct {
	items    []U
	ordering Ordering[U]
}

func (q *priorityQueueItems[U]) Len() int { return len(q.items) }
func (q *priorityQueueItems[U]) Less(i, j int) bool {
	return q.ordering.Lteq(q.items[i], q.items[j]) && !q.ordering.Lteq(q.items[j], q.items[i])
}
func (q *priorityQueueItems[U]) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }
func (q *priorityQueueItems[U]) Push(x any)    { q.items = append(q.items, x.(U)) }
func (q *priorityQueueItems[U]) Pop() any {
	n := len(q.items)
	x := q.items[n-1]
	q.items = q.items[:n-1]
	return x
}

// priorityQueue wraps priorityQueueItems with the same no-duplicates
// discipline as fifoQueue.
type priorityQueue[U comparable] struct {
	h      *priorityQueueItems[U]
	queued map[U]bool
}

func newPriorityQueue[U comparable](ordering Ordering[U], seed []U) *priorityQueue[U] {
	q := &priorityQueue[U]{h: &priorityQueueItems[U]{ordering: ordering}, queued: make(map[U]bool, len(seed))}
	heap.Init(q.h)
	for _, u := range seed {
		q.push(u)
	}
	return q
}

func (q *priorityQueue[U]) push(u U) {
	if q.queued[u] {
		return
	}
	q.queued[u] = true
	heap.Push(q.h, u)
}

func (q *priorityQueue[U]) pop() (U, bool) {
	var zero U
	if q.h.Len() == 0 {
		return zero, false
	}
	u := heap.Pop(q.h).(U)
	delete(q.queued, u)
	return u, true
}

func (q *priorityQueue[U]) empty() bool { return q.h.Len() == 0 }

// PriorityWorkListSolver is WorkListSolver with the queue replaced by a
// priority queue ordered by a caller-supplied Ordering[U] — by default a
// DynamicPriorityOrdering (§5).
type PriorityWorkListSolver[U comparable, V any] struct {
	Domain   OrderedDomain[V]
	Ordering Ordering[U]
}

// NewPriorityWorkListSolver returns a PriorityWorkListSolver. domain may
// be nil (falls back to reflect.DeepEqual for value equality); ordering
// may be nil, in which case a fresh DynamicPriorityOrdering is used.
func NewPriorityWorkListSolver[U comparable, V any](domain OrderedDomain[V], ordering Ordering[U]) *PriorityWorkListSolver[U, V] {
	if ordering == nil {
		ordering = NewDynamicPriorityOrdering[U]()
	}
	return &PriorityWorkListSolver[U, V]{Domain: domain, Ordering: ordering}
}

// observeIfDynamic records u with the ordering if it is a
// DynamicPriorityOrdering, so a caller-supplied ordering isn't required
// to pre-know every unknown.
func observeIfDynamic[U comparable](ordering Ordering[U], u U) {
	if dyn, ok := ordering.(*DynamicPriorityOrdering[U]); ok {
		dyn.observe(u)
	}
}

// SolveFinite implements FiniteSolver.
func (s *PriorityWorkListSolver[U, V]) SolveFinite(
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
	for _, u := range seed {
		observeIfDynamic(s.Ordering, u)
	}
	infl := sys.Infl()
	queue := newPriorityQueue(s.Ordering, seed)

	for {
		u, ok := queue.pop()
		if !ok {
			break
		}
		changed, _ := evaluate[U, V](sys, rho, u, eq, tracer)
		if changed {
			for _, w := range infl.Image(u) {
				observeIfDynamic(s.Ordering, w)
				queue.push(w)
			}
		}
	}

	tracer.Completed(rho)
	return rho
}

// InfinitePriorityWorkListSolver is the PriorityWorkListSolver variant
// for an EquationSystem with no precomputed Unknowns()/Infl(), discovering
// dependencies on the fly exactly as InfiniteWorkListSolver does (§5).
type InfinitePriorityWorkListSolver[U comparable, V any] struct {
	Domain   OrderedDomain[V]
	Ordering Ordering[U]
}

// NewInfinitePriorityWorkListSolver returns an
// InfinitePriorityWorkListSolver. domain and ordering may both be nil.
func NewInfinitePriorityWorkListSolver[U comparable, V any](domain OrderedDomain[V], ordering Ordering[U]) *InfinitePriorityWorkListSolver[U, V] {
	if ordering == nil {
		ordering = NewDynamicPriorityOrdering[U]()
	}
	return &InfinitePriorityWorkListSolver[U, V]{Domain: domain, Ordering: ordering}
}

// Solve runs the solver over sys, seeded from wanted, and returns the
// resulting assignment.
func (s *InfinitePriorityWorkListSolver[U, V]) Solve(
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

	for _, u := range wanted {
		observeIfDynamic(s.Ordering, u)
		if !rho.IsDefinedAt(u) {
			rho.Update(u, fallback.Apply(u))
		}
	}
	queue := newPriorityQueue(s.Ordering, wanted)

	for {
		u, ok := queue.pop()
		if !ok {
			break
		}
		changed, deps := evaluate[U, V](sys, rho, u, eq, tracer)
		for _, y := range deps {
			observeIfDynamic(s.Ordering, y)
			if !rho.IsDefinedAt(y) {
				rho.Update(y, fallback.Apply(y))
				queue.push(y)
			}
			addInfl(y, u)
		}
		if changed {
			for _, w := range infl[u] {
				observeIfDynamic(s.Ordering, w)
				queue.push(w)
			}
		}
	}

	tracer.Completed(rho)
	return rho
}
