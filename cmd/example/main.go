// Package main demonstrates the scalafix equation-system solver on the
// small worked graph example documented alongside the core package: four
// unknowns 0..3, edges a:0→1, b:1→2, c:2→3, d:3→1, combined with max,
// solved with the CC77 driver under widening+narrowing.
package main

import (
	"fmt"
	"math"

	"github.com/gitrdm/scalafix/pkg/fix"
)

func widenInfinite(old, next float64) float64 {
	if next > old {
		return math.Inf(1)
	}
	return old
}

func narrowFinite(old, next float64) float64 {
	if math.IsInf(old, 1) {
		return next
	}
	if next < old {
		return next
	}
	return old
}

type floatDomain struct{}

func (floatDomain) Leq(x, y float64) bool       { return x <= y }
func (floatDomain) Lt(x, y float64) bool        { return x < y }
func (floatDomain) Eq(x, y float64) bool        { return x == y }
func (floatDomain) UpperBound(x, y float64) float64 {
	if x > y {
		return x
	}
	return y
}

func buildGraph() *fix.GraphEquationSystem[int, float64] {
	nodes := []int{0, 1, 2, 3}
	edges := []fix.Edge[int]{
		{ID: "a", Sources: []int{0}, Target: 1},
		{ID: "b", Sources: []int{1}, Target: 2},
		{ID: "c", Sources: []int{2}, Target: 3},
		{ID: "d", Sources: []int{3}, Target: 1},
	}
	action := func(rho fix.Assignment[int, float64], e fix.Edge[int]) float64 {
		switch e.ID {
		case "a":
			return rho.Apply(0)
		case "b":
			v := rho.Apply(1)
			if v < 10 {
				return v
			}
			return 10
		case "c":
			return rho.Apply(2) + 1
		case "d":
			return rho.Apply(3)
		}
		panic("unknown edge")
	}
	combiner := fix.UpperBoundMagma[float64](floatDomain{})
	g, err := fix.NewGraphEquationSystem[int, float64](nodes, edges, action, combiner, []int{0})
	if err != nil {
		panic(err)
	}
	return g
}

func runScenario(name string, g *fix.GraphEquationSystem[int, float64], start fix.Assignment[int, float64], strategy fix.ComboStrategy) {
	domain := floatDomain{}
	widenCombo := fix.Constant[int, float64](fix.Widening[float64](widenInfinite))
	narrowCombo := fix.Constant[int, float64](fix.Narrowing[float64](narrowFinite))

	params := fix.Parameters[int, float64]{
		Solver:        fix.SolverWorkList,
		Start:         start,
		ComboLocation: fix.ComboLoop,
		ComboScope:    fix.ScopeStandard,
		ComboStrategy: strategy,
		Widenings:     widenCombo,
		Narrowings:    narrowCombo,
		Widen:         widenInfinite,
		Narrow:        narrowFinite,
		Domain:        domain,
	}

	result := fix.Solve[int, float64](g, params, fix.AssignmentFactory[int, float64](g))
	fmt.Printf("%s: {0:%v, 1:%v, 2:%v, 3:%v}\n", name, result.Apply(0), result.Apply(1), result.Apply(2), result.Apply(3))
}

func main() {
	g := buildGraph()
	start := fix.AssignmentFunc[int, float64](func(u int) float64 {
		if u == 0 {
			return 0
		}
		return math.Inf(-1)
	})

	runScenario("widening+narrowing", g, start, fix.TwoPhases)
	runScenario("only-widening", g, start, fix.OnlyWidening)

	constNegInf := fix.ConstantAssignment[int, float64](math.Inf(-1))
	runScenario("empty initial assignment", g, constNegInf, fix.TwoPhases)
}
