package fix

// Relation is a mapping from an element to the set of elements it is
// related to — used both for the influence relation (U → set of U, §3)
// and as a general building block elsewhere in the component.
//
// Image returns the related elements in whatever order the underlying
// construction preserves; callers that build a Relation from an ordered
// pair list via FromPairs get deterministic, insertion-order iteration,
// which the worklist solvers rely on for reproducible traversal (§5).
type Relation[A comparable] interface {
	// Image returns the elements a is related to.
	Image(a A) []A
}

// Ordering is the total-order capability DFOrdering, GraphOrdering and
// HierarchicalOrdering all satisfy — the common surface withLocalizedCombos
// and the localized-warrowing body (§4.4) need to classify an edge as
// entering a loop.
type Ordering[U comparable] interface {
	Lteq(u, v U) bool
}

// RelationFunc adapts a plain function to the Relation capability.
type RelationFunc[A comparable] func(a A) []A

// Image implements Relation.
func (f RelationFunc[A]) Image(a A) []A { return f(a) }

// mapRelation is a Relation backed by a map of precomputed images.
type mapRelation[A comparable] struct {
	m map[A][]A
}

// FromMap returns a Relation backed by an explicit map. Unknown keys map
// to an empty image.
func FromMap[A comparable](m map[A][]A) Relation[A] {
	return mapRelation[A]{m: m}
}

func (r mapRelation[A]) Image(a A) []A { return r.m[a] }

// FromPairs builds a Relation from a sequence of (a, b) pairs, grouping
// by a and preserving the insertion order of each a's image — the
// ordering worklist solvers depend on for deterministic traversal.
func FromPairs[A comparable](pairs [][2]A) Relation[A] {
	m := make(map[A][]A)
	order := make(map[A][]A)
	seen := make(map[A]map[A]bool)
	for _, p := range pairs {
		a, b := p[0], p[1]
		if seen[a] == nil {
			seen[a] = make(map[A]bool)
		}
		if seen[a][b] {
			continue
		}
		seen[a][b] = true
		order[a] = append(order[a], b)
	}
	for a, bs := range order {
		m[a] = bs
	}
	return mapRelation[A]{m: m}
}

// diagonalRelation adds every element to its own image on top of an
// inner relation, without duplicating an already-present self-loop.
type diagonalRelation[A comparable] struct {
	inner Relation[A]
}

// WithDiagonal returns a Relation that behaves as inner but additionally
// relates every element to itself (§4.2) — used by withCombos (§4.4) to
// widen an influence relation when a non-idempotent combo is installed,
// since a combo may keep changing an unknown's value with no dependency
// having changed.
func WithDiagonal[A comparable](inner Relation[A]) Relation[A] {
	return diagonalRelation[A]{inner: inner}
}

func (r diagonalRelation[A]) Image(a A) []A {
	img := r.inner.Image(a)
	for _, b := range img {
		if b == a {
			return img
		}
	}
	out := make([]A, len(img), len(img)+1)
	copy(out, img)
	return append(out, a)
}
