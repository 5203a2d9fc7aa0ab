package rank

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppasini/fraudrank/pkg/graph"
)

func TestPersonalizationNormalizes(t *testing.T) {
	g := buildGraph(t, []graph.Edge{
		{Source: "a", Target: "b", Weight: 1},
		{Source: "b", Target: "c", Weight: 1},
	}, true)

	p, err := Personalization(g, map[string]float64{"a": 2, "b": 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.4, p[0], 1e-12)
	assert.InDelta(t, 0.6, p[1], 1e-12)
	// Nodes outside the seed map get zero, not a uniform share
	assert.Equal(t, 0.0, p[2])
}

func TestPersonalizationIgnoresUnknownSeeds(t *testing.T) {
	g := buildGraph(t, []graph.Edge{{Source: "a", Target: "b", Weight: 1}}, true)

	p, err := Personalization(g, map[string]float64{"a": 1, "ghost": 5})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, p)

	// Only unknown seeds leaves no personalization mass at all
	_, err = Personalization(g, map[string]float64{"ghost": 5})
	require.ErrorIs(t, err, ErrEmptyPersonalization)
}

func TestPersonalizationZeroMass(t *testing.T) {
	g := buildGraph(t, []graph.Edge{{Source: "a", Target: "b", Weight: 1}}, true)

	_, err := Personalization(g, nil)
	require.ErrorIs(t, err, ErrEmptyPersonalization)

	_, err = Personalization(g, map[string]float64{"a": 0, "b": 0})
	require.ErrorIs(t, err, ErrEmptyPersonalization)
}

func TestPersonalizationRejectsInvalidWeights(t *testing.T) {
	g := buildGraph(t, []graph.Edge{{Source: "a", Target: "b", Weight: 1}}, true)

	_, err := Personalization(g, map[string]float64{"a": -1})
	require.ErrorIs(t, err, ErrInvalidParameter)

	_, err = Personalization(g, map[string]float64{"a": math.NaN()})
	require.ErrorIs(t, err, ErrInvalidParameter)

	_, err = Personalization(g, map[string]float64{"a": math.Inf(1)})
	require.ErrorIs(t, err, ErrInvalidParameter)
}
