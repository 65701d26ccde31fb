package fix

// SolverKind selects which member of the solver family CC77 drives
// (§4.6).
type SolverKind int

const (
	SolverRoundRobin SolverKind = iota
	SolverKleene
	SolverWorkList
	SolverPriorityWorkList
	SolverHierarchicalOrdering
)

// ComboLocation controls which unknowns a combo assignment is applied at
// (§4.6).
type ComboLocation int

const (
	// ComboNone applies no combos at all.
	ComboNone ComboLocation = iota
	// ComboAll applies the combo assignment exactly as supplied.
	ComboAll
	// ComboLoop restricts the combo assignment to unknowns that are loop
	// heads in a depth-first ordering of the equation system's dependency
	// graph — which requires a graph-based equation system.
	ComboLoop
)

// ComboScope selects how a combo assignment is wired into the equation
// system (§4.4, §4.6).
type ComboScope int

const (
	// ScopeStandard applies combos at every unknown via WithCombos.
	ScopeStandard ComboScope = iota
	// ScopeLocalized applies combos only at the graph edges that enter a
	// loop, via WithLocalizedCombos — graph-based equation systems only.
	ScopeLocalized
)

// ComboStrategy selects the overall acceleration strategy (§4.6).
type ComboStrategy int

const (
	// OnlyWidening runs a single ascending phase and stops.
	OnlyWidening ComboStrategy = iota
	// TwoPhases runs an ascending (widening) phase followed by a
	// descending (narrowing) phase, seeded from the ascending result.
	TwoPhases
	// StrategyWarrowing runs a single pass applying the warrowing
	// combo (widen-or-narrow-or-pass-through per edge) instead of two
	// separate phases.
	StrategyWarrowing
)

// Parameters configures a CC77 driver run (§4.6).
type Parameters[U comparable, V any] struct {
	Solver          SolverKind
	Start           Assignment[U, V]
	ComboLocation   ComboLocation
	ComboScope      ComboScope
	ComboStrategy   ComboStrategy
	RestartStrategy RestartStrategy

	// Widenings and Narrowings are used by OnlyWidening and TwoPhases.
	Widenings ComboAssignment[U, V]
	Narrowings ComboAssignment[U, V]

	// Widen and Narrow are used by StrategyWarrowing: under ScopeStandard
	// as a Warrowing combo at the unknowns ComboLocation selects, under
	// ScopeLocalized at the back-edges AddLocalizedWarrowing identifies
	// (ComboLocation is not consulted in that case).
	Widen  func(old, next V) V
	Narrow func(old, next V) V

	// Domain is required whenever value equality, Loop placement (which
	// needs a domain-free DFOrdering, so this is actually only needed for
	// StrategyWarrowing's decision logic and for detecting no-op
	// evaluations) is in play. A nil Domain falls back to
	// reflect.DeepEqual for equality.
	Domain OrderedDomain[V]

	Tracer Tracer[U, V]

	// HierOrdering is required when Solver is SolverHierarchicalOrdering.
	HierOrdering *HierarchicalOrdering[U]
	// PriorityOrdering is used when Solver is SolverPriorityWorkList; nil
	// selects the default DynamicPriorityOrdering.
	PriorityOrdering Ordering[U]
}

// Solve runs the configured CC77 driver over sys and returns the
// resulting assignment.
func Solve[U comparable, V any](sys FiniteEquationSystem[U, V], params Parameters[U, V], factory AssignmentFactory[U, V]) Assignment[U, V] {
	tracer := resolveTracer(params.Tracer)

	if params.ComboStrategy == StrategyWarrowing {
		return solveWarrowing(sys, params, factory, tracer)
	}

	ascendingSys := applyCombos(sys, params.Widenings, params.ComboLocation, params.ComboScope)
	tracer.AscendingBegins()
	rho := runSolver(params.Solver, ascendingSys, factory, params.Start, params.Domain, params.HierOrdering, params.PriorityOrdering, params.RestartStrategy, tracer)

	if params.ComboStrategy == OnlyWidening {
		return rho
	}

	descendingSys := applyCombos(sys, params.Narrowings, params.ComboLocation, params.ComboScope)
	tracer.DescendingBegins()
	return runSolver(params.Solver, descendingSys, factory, rho, params.Domain, params.HierOrdering, params.PriorityOrdering, params.RestartStrategy, tracer)
}

// solveWarrowing implements the single-pass StrategyWarrowing case: for
// a localized scope it delegates directly to AddLocalizedWarrowing
// (§4.6: "in the graph+localized case, use addLocalizedWarrowing instead
// of the two separate wrappings"); for standard scope it builds a
// constant Warrowing combo assignment and runs it through the ordinary
// combo-placement path. Only one tracer phase marker, AscendingBegins,
// is emitted — there is no separate descending phase to mark.
func solveWarrowing[U comparable, V any](
	sys FiniteEquationSystem[U, V],
	params Parameters[U, V],
	factory AssignmentFactory[U, V],
	tracer Tracer[U, V],
) Assignment[U, V] {
	if params.ComboScope == ScopeLocalized {
		g, ok := sys.(*GraphEquationSystem[U, V])
		if !ok {
			panic("fix: localized warrowing requires a graph-based equation system")
		}
		ordering := Ordering[U](NewDFOrdering[U, V](g))
		warrowed := AddLocalizedWarrowing[U, V](g, params.Domain, params.Widen, params.Narrow, ordering)
		tracer.AscendingBegins()
		return runSolver(params.Solver, warrowed, factory, params.Start, params.Domain, params.HierOrdering, params.PriorityOrdering, params.RestartStrategy, tracer)
	}

	combos := Constant[U, V](Warrowing[V](params.Domain, params.Widen, params.Narrow))
	effective := applyCombos(sys, combos, params.ComboLocation, ScopeStandard)
	tracer.AscendingBegins()
	return runSolver(params.Solver, effective, factory, params.Start, params.Domain, params.HierOrdering, params.PriorityOrdering, params.RestartStrategy, tracer)
}

// applyCombos wraps sys with combos according to location and scope. A
// nil combos or ComboNone location leaves sys unwrapped.
func applyCombos[U comparable, V any](
	sys FiniteEquationSystem[U, V],
	combos ComboAssignment[U, V],
	location ComboLocation,
	scope ComboScope,
) FiniteEquationSystem[U, V] {
	if location == ComboNone || combos == nil {
		return sys
	}

	if scope == ScopeLocalized {
		g, ok := sys.(*GraphEquationSystem[U, V])
		if !ok {
			panic("fix: localized combo scope requires a graph-based equation system")
		}
		df := NewDFOrdering[U, V](g)
		localized := combos
		if location == ComboLoop {
			localized = Restrict[U, V](combos, df.IsHead)
		}
		return WithLocalizedCombos[U, V](g, localized, df)
	}

	effective := combos
	if location == ComboLoop {
		g, ok := sys.(*GraphEquationSystem[U, V])
		if !ok {
			panic("fix: Loop combo placement requires a graph-based equation system for its depth-first head set")
		}
		df := NewDFOrdering[U, V](g)
		effective = Restrict[U, V](combos, df.IsHead)
	}
	return WithCombosFinite[U, V](sys, effective)
}

// runSolver dispatches to the concrete Solver implementation params.Solver
// names.
func runSolver[U comparable, V any](
	kind SolverKind,
	sys FiniteEquationSystem[U, V],
	factory AssignmentFactory[U, V],
	start Assignment[U, V],
	domain OrderedDomain[V],
	hierOrdering *HierarchicalOrdering[U],
	priorityOrdering Ordering[U],
	restart RestartStrategy,
	tracer Tracer[U, V],
) Assignment[U, V] {
	switch kind {
	case SolverRoundRobin:
		return NewRoundRobinSolver[U, V](domain).SolveFinite(sys, factory, start, tracer)
	case SolverKleene:
		return NewKleeneSolver[U, V](domain).SolveFinite(sys, factory, start, tracer)
	case SolverWorkList:
		return NewWorkListSolver[U, V](domain).SolveFinite(sys, factory, start, tracer)
	case SolverPriorityWorkList:
		return NewPriorityWorkListSolver[U, V](domain, priorityOrdering).SolveFinite(sys, factory, start, tracer)
	case SolverHierarchicalOrdering:
		if hierOrdering == nil {
			panic("fix: SolverHierarchicalOrdering requires Parameters.HierOrdering")
		}
		return NewHierarchicalOrderingSolver[U, V](hierOrdering, domain, restart).SolveFinite(sys, factory, start, tracer)
	default:
		panic("fix: unknown SolverKind")
	}
}
