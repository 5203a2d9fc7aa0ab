package rank

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ppasini/fraudrank/pkg/graph"
)

// Personalization turns a sparse seed map into a dense probability
// vector over all graph nodes. Personalization is strictly seed
// driven: nodes absent from the map get zero mass, never a uniform
// share. Seed labels not present in the graph are ignored.
func Personalization(g *graph.Graph, seeds map[string]float64) ([]float64, error) {
	p := make([]float64, g.NodeCount())
	for label, weight := range seeds {
		if math.IsNaN(weight) || math.IsInf(weight, 0) {
			return nil, fmt.Errorf("%w: seed %s has non-finite weight", ErrInvalidParameter, label)
		}
		if weight < 0 {
			return nil, fmt.Errorf("%w: seed %s has negative weight %g", ErrInvalidParameter, label, weight)
		}
		if idx, ok := g.Index(label); ok {
			p[idx] += weight
		}
	}
	total := floats.Sum(p)
	if total <= 0 {
		return nil, ErrEmptyPersonalization
	}
	floats.Scale(1/total, p)
	return p, nil
}
