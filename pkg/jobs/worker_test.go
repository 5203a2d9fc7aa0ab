package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppasini/fraudrank/pkg/graph"
)

func cycleJob() *ComputeJob {
	return &ComputeJob{
		ID:       "job-1",
		GraphID:  "graph-1",
		Directed: true,
		Edges: []graph.Edge{
			{Source: "A", Target: "B", Weight: 1},
			{Source: "B", Target: "C", Weight: 1},
			{Source: "C", Target: "A", Weight: 1},
		},
		Seeds:         map[string]float64{"A": 1.0},
		MaxIterations: 200,
	}
}

func TestRunComputesScores(t *testing.T) {
	result := Run(cycleJob())
	require.Empty(t, result.Error)
	assert.Equal(t, "job-1", result.JobID)
	assert.Equal(t, "graph-1", result.GraphID)
	assert.True(t, result.Converged)
	assert.Greater(t, result.Iterations, 0)
	require.Len(t, result.Scores, 3)

	total := 0.0
	for _, score := range result.Scores {
		total += score
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestRunAppliesParameterOverrides(t *testing.T) {
	job := cycleJob()
	job.MaxIterations = 2
	job.Tolerance = 1e-15

	result := Run(job)
	require.Empty(t, result.Error)
	assert.False(t, result.Converged)
	assert.Equal(t, 2, result.Iterations)
}

func TestRunReportsInvalidInputInResult(t *testing.T) {
	job := cycleJob()
	job.Strategy = "bogus"
	result := Run(job)
	assert.Contains(t, result.Error, "strategy")
	assert.Nil(t, result.Scores)

	job = cycleJob()
	job.Edges = []graph.Edge{{Source: "A", Target: "B", Weight: -1}}
	result = Run(job)
	assert.NotEmpty(t, result.Error)
	assert.Nil(t, result.Scores)

	job = cycleJob()
	job.Seeds = nil
	result = Run(job)
	assert.NotEmpty(t, result.Error)
	assert.Nil(t, result.Scores)
	assert.Equal(t, "job-1", result.JobID, "failed results still carry the job id")
}
