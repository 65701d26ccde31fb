package fix

import "sync"

// ComboAssignment maps unknowns to the combo that should be applied at
// them (§3, §4.1). IsIdempotent reports whether every combo it can
// produce is idempotent — this drives whether withCombos needs to widen
// the influence relation with the diagonal (§4.4).
type ComboAssignment[U comparable, V any] interface {
	// IsDefinedAt reports whether this assignment has a combo for u.
	IsDefinedAt(u U) bool

	// Combo returns the combo for u. For a stateful base combo, repeated
	// calls for the same u must return the same per-unknown instance
	// (memoized on first access).
	Combo(u U) Combo[V]

	// IsIdempotent reports whether every produced combo is idempotent.
	IsIdempotent() bool

	// IsEmpty reports whether this is the empty assignment (defined
	// nowhere; Right everywhere).
	IsEmpty() bool

	// Copy returns an independent copy when any produced combo is
	// stateful, and returns the receiver itself otherwise (§8.5).
	Copy() ComboAssignment[U, V]
}

// emptyComboAssignment is defined at no unknown and answers Right
// everywhere it is nonetheless queried.
type emptyComboAssignment[U comparable, V any] struct{}

// EmptyCombos returns the empty combo assignment: isDefinedAt is false
// everywhere, isEmpty and isIdempotent are both true.
func EmptyCombos[U comparable, V any]() ComboAssignment[U, V] {
	return emptyComboAssignment[U, V]{}
}

func (emptyComboAssignment[U, V]) IsDefinedAt(U) bool            { return false }
func (emptyComboAssignment[U, V]) Combo(U) Combo[V]              { return Right[V]() }
func (emptyComboAssignment[U, V]) IsIdempotent() bool            { return true }
func (emptyComboAssignment[U, V]) IsEmpty() bool                 { return true }
func (c emptyComboAssignment[U, V]) Copy() ComboAssignment[U, V] { return c }

// constantComboAssignment applies the same combo at every unknown. When
// the base combo is stateless, every lookup shares it directly; when
// stateful, a per-unknown copy is created lazily on first access and
// memoized so repeated lookups for the same unknown observe the same
// evolving state (§4.1).
type constantComboAssignment[U comparable, V any] struct {
	base  Combo[V]
	mu    sync.Mutex
	cache map[U]Combo[V] // nil when base is stateless
}

// Constant returns a ComboAssignment that applies base at every unknown.
func Constant[U comparable, V any](base Combo[V]) ComboAssignment[U, V] {
	c := &constantComboAssignment[U, V]{base: base}
	if base.IsStateful() {
		c.cache = make(map[U]Combo[V])
	}
	return c
}

func (c *constantComboAssignment[U, V]) IsDefinedAt(U) bool { return true }

func (c *constantComboAssignment[U, V]) Combo(u U) Combo[V] {
	if c.cache == nil {
		return c.base
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if combo, ok := c.cache[u]; ok {
		return combo
	}
	combo := c.base.Copy()
	c.cache[u] = combo
	return combo
}

func (c *constantComboAssignment[U, V]) IsIdempotent() bool { return c.base.IsIdempotent() }
func (c *constantComboAssignment[U, V]) IsEmpty() bool      { return false }

// Copy returns a fresh constant assignment with an empty per-unknown
// cache when the base combo is stateful (so the new assignment's copies
// evolve independently of the original's), and the receiver itself when
// the base is stateless.
func (c *constantComboAssignment[U, V]) Copy() ComboAssignment[U, V] {
	if c.cache == nil {
		return c
	}
	return Constant[U, V](c.base.Copy())
}

// mapComboAssignment stores one combo per unknown explicitly.
type mapComboAssignment[U comparable, V any] struct {
	combos     map[U]Combo[V]
	idempotent bool
	stateful   bool
}

// FromComboMap returns a ComboAssignment backed by an explicit per-unknown
// map. The map is copied defensively; combos is not required to be
// total.
func FromComboMap[U comparable, V any](combos map[U]Combo[V]) ComboAssignment[U, V] {
	idempotent := true
	stateful := false
	cp := make(map[U]Combo[V], len(combos))
	for u, c := range combos {
		cp[u] = c
		if !c.IsIdempotent() {
			idempotent = false
		}
		if c.IsStateful() {
			stateful = true
		}
	}
	return &mapComboAssignment[U, V]{combos: cp, idempotent: idempotent, stateful: stateful}
}

func (m *mapComboAssignment[U, V]) IsDefinedAt(u U) bool {
	_, ok := m.combos[u]
	return ok
}

func (m *mapComboAssignment[U, V]) Combo(u U) Combo[V] {
	if c, ok := m.combos[u]; ok {
		return c
	}
	return Right[V]()
}

func (m *mapComboAssignment[U, V]) IsIdempotent() bool { return m.idempotent }
func (m *mapComboAssignment[U, V]) IsEmpty() bool      { return len(m.combos) == 0 }

// Copy deep-copies every entry when any combo is stateful — the same
// criterion constantComboAssignment.Copy uses, since statefulness, not
// idempotence, is what determines whether two assignments can safely
// share a combo's mutable state — and returns the receiver itself
// otherwise.
func (m *mapComboAssignment[U, V]) Copy() ComboAssignment[U, V] {
	if !m.stateful {
		return m
	}
	cp := make(map[U]Combo[V], len(m.combos))
	for u, c := range m.combos {
		cp[u] = c.Copy()
	}
	return &mapComboAssignment[U, V]{combos: cp, idempotent: m.idempotent, stateful: m.stateful}
}

// restrictedComboAssignment narrows another ComboAssignment to unknowns
// for which allowed returns true — used by the CC77 driver's "Loop"
// combo-placement policy (§4.6), which restricts the widening/narrowing
// assignment to depth-first-ordering heads.
type restrictedComboAssignment[U comparable, V any] struct {
	inner   ComboAssignment[U, V]
	allowed func(U) bool
}

// Restrict returns a ComboAssignment identical to inner except that it is
// undefined at any unknown for which allowed returns false.
func Restrict[U comparable, V any](inner ComboAssignment[U, V], allowed func(U) bool) ComboAssignment[U, V] {
	return restrictedComboAssignment[U, V]{inner: inner, allowed: allowed}
}

func (r restrictedComboAssignment[U, V]) IsDefinedAt(u U) bool {
	return r.allowed(u) && r.inner.IsDefinedAt(u)
}

func (r restrictedComboAssignment[U, V]) Combo(u U) Combo[V] { return r.inner.Combo(u) }
func (r restrictedComboAssignment[U, V]) IsIdempotent() bool { return r.inner.IsIdempotent() }
func (r restrictedComboAssignment[U, V]) IsEmpty() bool      { return false }

func (r restrictedComboAssignment[U, V]) Copy() ComboAssignment[U, V] {
	return restrictedComboAssignment[U, V]{inner: r.inner.Copy(), allowed: r.allowed}
}
