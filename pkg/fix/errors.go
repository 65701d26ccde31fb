package fix

import "errors"

// Sentinel errors for fixpoint-system construction and evaluation.
//
// As in the teacher engine's constraint packages, the core never recovers
// from these in-band: a client hitting one of them has a programming error,
// not a runtime condition to branch on.
var (
	// ErrNegativeDelay is the error Delayed and Cascade panic with (wrapped
	// with the offending k) when built with a negative call count.
	ErrNegativeDelay = errors.New("fix: negative delay for delayed/cascade combo")

	// ErrIncomparable denotes two arguments with no defined upper bound
	// under an ordered domain. OrderedDomain.UpperBound has no error
	// result, and nothing in this package raises ErrIncomparable itself;
	// it is available to domain implementations that panic on such pairs.
	ErrIncomparable = errors.New("fix: arguments have no defined upper bound")

	// ErrUnknownNotDefined denotes a lookup of an unknown with no stored
	// value and no fallback. Every Assignment in this package falls back
	// to a default in Apply, so nothing here returns it.
	ErrUnknownNotDefined = errors.New("fix: unknown is not defined in assignment")

	// ErrInconsistentGraph is returned when a graph equation system's
	// edges reference sources/targets that are not mutually consistent
	// with its declared node set.
	ErrInconsistentGraph = errors.New("fix: graph edges inconsistent with node set")
)
