package fix

// Assignment is a total function from unknowns to values (§3, §4.3).
type Assignment[U comparable, V any] interface {
	// Apply returns the value bound to u. It never fails: an assignment
	// with no binding for u falls back to whatever default the concrete
	// implementation supplies.
	Apply(u U) V
}

// AssignmentFunc adapts a plain function to the Assignment capability.
type AssignmentFunc[U comparable, V any] func(u U) V

// Apply implements Assignment.
func (f AssignmentFunc[U, V]) Apply(u U) V { return f(u) }

// constantAssignment is the convenience immutable assignment that holds
// a single default value for every unknown.
type constantAssignment[U comparable, V any] struct {
	value V
}

// ConstantAssignment returns an immutable assignment that maps every unknown to
// the same value.
func ConstantAssignment[U comparable, V any](value V) Assignment[U, V] {
	return constantAssignment[U, V]{value: value}
}

func (c constantAssignment[U, V]) Apply(U) V { return c.value }

// MutableAssignment is the solver's sole state-holder (§4.3): a partial
// map layered over a fallback immutable Assignment.
type MutableAssignment[U comparable, V any] interface {
	Assignment[U, V]

	// Update stores v for u. O(1) amortized.
	Update(u U, v V)

	// IsDefinedAt reports whether Update has been called for u (and it
	// has not been removed — there is no removal operation in the
	// core).
	IsDefinedAt(u U) bool

	// Unknowns enumerates exactly the defined keys.
	Unknowns() []U
}

// mapAssignment is the default MutableAssignment: a Go map layered over
// a fallback immutable Assignment, in the same spirit as the teacher
// engine's Substitution (pkg/minikanren/core.go), generalized from a
// single-flavoured variable→term map to an arbitrary fallback.
type mapAssignment[U comparable, V any] struct {
	fallback Assignment[U, V]
	values   map[U]V
	order    []U
}

// NewMutableAssignment returns a MutableAssignment with no stored values,
// falling back to fallback for any unknown not yet updated.
func NewMutableAssignment[U comparable, V any](fallback Assignment[U, V]) MutableAssignment[U, V] {
	return &mapAssignment[U, V]{fallback: fallback, values: make(map[U]V)}
}

func (a *mapAssignment[U, V]) Apply(u U) V {
	if v, ok := a.values[u]; ok {
		return v
	}
	return a.fallback.Apply(u)
}

func (a *mapAssignment[U, V]) Update(u U, v V) {
	if _, ok := a.values[u]; !ok {
		a.order = append(a.order, u)
	}
	a.values[u] = v
}

func (a *mapAssignment[U, V]) IsDefinedAt(u U) bool {
	_, ok := a.values[u]
	return ok
}

func (a *mapAssignment[U, V]) Unknowns() []U {
	out := make([]U, len(a.order))
	copy(out, a.order)
	return out
}

// AssignmentFactory produces a fresh MutableAssignment over a fallback
// immutable assignment (§4.3, §6). Graph-based equation systems expose
// their own factory that allocates node-resident storage instead of a
// hash map (see graphsystem.go), which is significantly faster for
// dense, integer-indexed node sets.
type AssignmentFactory[U comparable, V any] interface {
	NewAssignment(fallback Assignment[U, V]) MutableAssignment[U, V]
}

// AssignmentFactoryFunc adapts a plain function to the AssignmentFactory
// capability.
type AssignmentFactoryFunc[U comparable, V any] func(fallback Assignment[U, V]) MutableAssignment[U, V]

// NewAssignment implements AssignmentFactory.
func (f AssignmentFactoryFunc[U, V]) NewAssignment(fallback Assignment[U, V]) MutableAssignment[U, V] {
	return f(fallback)
}

// DefaultAssignmentFactory returns the map-backed AssignmentFactory used
// by non-graph equation systems.
func DefaultAssignmentFactory[U comparable, V any]() AssignmentFactory[U, V] {
	return AssignmentFactoryFunc[U, V](NewMutableAssignment[U, V])
}
