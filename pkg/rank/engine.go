package rank

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/ppasini/fraudrank/pkg/graph"
)

// Params configures a power-iteration run. Damping is the teleport
// probability: the share of mass returned to the personalization
// vector on every step, not the keep-walking probability.
type Params struct {
	Damping       float64
	Tolerance     float64
	MaxIterations int
	Strategy      Strategy
}

// DefaultParams returns the engine defaults: 15% teleport probability,
// L1 tolerance 1e-8, at most 100 iterations, uniform dangling
// redistribution.
func DefaultParams() Params {
	return Params{
		Damping:       0.15,
		Tolerance:     1e-8,
		MaxIterations: 100,
		Strategy:      Uniform,
	}
}

func (p Params) validate() error {
	if p.Damping <= 0 || p.Damping >= 1 {
		return fmt.Errorf("%w: damping factor %g outside (0, 1)", ErrInvalidParameter, p.Damping)
	}
	if p.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance %g must be positive", ErrInvalidParameter, p.Tolerance)
	}
	if p.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations %d must be positive", ErrInvalidParameter, p.MaxIterations)
	}
	if p.Strategy != Uniform && p.Strategy != Teleport {
		return fmt.Errorf("%w: unknown strategy %d", ErrInvalidParameter, int(p.Strategy))
	}
	return nil
}

// Result holds the rank vector and the convergence diagnostics of a
// single run. Reaching the iteration cap is reported through
// Converged=false, it is not an error.
type Result struct {
	Scores     map[string]float64
	Converged  bool
	Iterations int
	Damping    float64
	Tolerance  float64
	Strategy   Strategy
	Deltas     []float64
}

// Compute runs personalized PageRank over an immutable graph until the
// L1 delta between iterations drops below the tolerance or the
// iteration cap is reached. The rank vector starts at the
// personalization vector, which speeds convergence toward the seeded
// region. All validation happens before any iteration, so a failed
// call never returns partial results.
func Compute(g *graph.Graph, seeds map[string]float64, params Params) (*Result, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	if g == nil || g.NodeCount() == 0 {
		return nil, ErrEmptyGraph
	}
	p, err := Personalization(g, seeds)
	if err != nil {
		return nil, err
	}

	n := g.NodeCount()
	r := make([]float64, n)
	rNew := make([]float64, n)
	copy(r, p)

	res := &Result{
		Damping:   params.Damping,
		Tolerance: params.Tolerance,
		Strategy:  params.Strategy,
	}
	for i := 0; i < params.MaxIterations; i++ {
		delta := step(g, r, rNew, p, params.Damping, params.Strategy)
		r, rNew = rNew, r
		res.Iterations = i + 1
		res.Deltas = append(res.Deltas, delta)
		if delta < params.Tolerance {
			res.Converged = true
			break
		}
	}

	res.Scores = make(map[string]float64, n)
	for idx, score := range r {
		res.Scores[g.Label(idx)] = score
	}
	return res, nil
}

// step performs one power iteration:
//
//	rNew[v] = (1-α)(Σ_{u→v} r[u]·w(u,v)/outsum[u] + dangling(v)) + α·p[v]
//
// The dangling contribution sits inside the (1-α) factor, which keeps
// Σ rNew = 1 exactly for both strategies given Σ p = 1. It returns the
// L1 distance between rNew and r.
func step(g *graph.Graph, r, rNew, p []float64, damping float64, strategy Strategy) float64 {
	for v := range rNew {
		rNew[v] = 0
	}
	for u := range r {
		outSum := g.OutWeightSum(u)
		if outSum == 0 {
			continue
		}
		share := r[u] / outSum
		for _, arc := range g.Out(u) {
			rNew[arc.To] += share * arc.Weight
		}
	}
	danglingMass := 0.0
	for _, d := range g.Dangling() {
		danglingMass += r[d]
	}
	strategy.Redistribute(danglingMass, p, rNew)
	for v := range rNew {
		rNew[v] = (1-damping)*rNew[v] + damping*p[v]
	}
	return floats.Distance(rNew, r, 1)
}
