package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func createTestGraph(t *testing.T, s *Server) string {
	t.Helper()
	rec := doRequest(t, s, http.MethodPost, "/graph/create",
		`{"directed": true, "edges": [["A","B",2], ["B","C"], ["C","A",1], ["B","D",3]]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		GraphID   string `json:"graph_id"`
		NodeCount int    `json:"node_count"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.GraphID)
	require.Equal(t, 4, resp.NodeCount)
	return resp.GraphID
}

func TestHealth(t *testing.T) {
	s := NewServer(nil, nil)
	rec := doRequest(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestCreateAndCompute(t *testing.T) {
	s := NewServer(nil, nil)
	id := createTestGraph(t, s)

	rec := doRequest(t, s, http.MethodPost, "/pagerank/compute",
		`{"graph_id": "`+id+`", "suspicious_nodes": {"A": 1.0}, "dangling_strategy": "teleport", "max_iterations": 200}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success         bool               `json:"success"`
		Scores          map[string]float64 `json:"pagerank_scores"`
		ConvergenceInfo struct {
			Converged  bool   `json:"converged"`
			Iterations int    `json:"iterations_performed"`
			Strategy   string `json:"dangling_strategy"`
		} `json:"convergence_info"`
		TopFraudCandidates []struct {
			NodeID    string  `json:"node_id"`
			RiskScore float64 `json:"risk_score"`
		} `json:"top_fraud_candidates"`
		GraphSummary struct {
			DanglingCount int `json:"dangling_node_count"`
		} `json:"graph_summary"`
	}
	decode(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.True(t, resp.ConvergenceInfo.Converged)
	assert.Equal(t, "teleport", resp.ConvergenceInfo.Strategy)
	assert.Equal(t, 1, resp.GraphSummary.DanglingCount, "D has no outgoing edges")
	require.Len(t, resp.Scores, 4)

	total := 0.0
	for _, score := range resp.Scores {
		total += score
	}
	assert.InDelta(t, 1.0, total, 1e-9)

	// Candidates come sorted by descending risk
	require.NotEmpty(t, resp.TopFraudCandidates)
	for i := 1; i < len(resp.TopFraudCandidates); i++ {
		assert.GreaterOrEqual(t,
			resp.TopFraudCandidates[i-1].RiskScore,
			resp.TopFraudCandidates[i].RiskScore)
	}
}

func TestCreateGraphRejectsBadWeight(t *testing.T) {
	s := NewServer(nil, nil)
	rec := doRequest(t, s, http.MethodPost, "/graph/create",
		`{"edges": [["A","B",-5]]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "negative weight")
}

func TestComputeWithoutGraph(t *testing.T) {
	s := NewServer(nil, nil)
	rec := doRequest(t, s, http.MethodPost, "/pagerank/compute",
		`{"suspicious_nodes": {"A": 1.0}}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComputeWithoutSeeds(t *testing.T) {
	s := NewServer(nil, nil)
	id := createTestGraph(t, s)
	rec := doRequest(t, s, http.MethodPost, "/pagerank/compute",
		`{"graph_id": "`+id+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "seed")
}

func TestComputeInvalidParameters(t *testing.T) {
	s := NewServer(nil, nil)
	id := createTestGraph(t, s)

	for _, body := range []string{
		`{"graph_id": "` + id + `", "suspicious_nodes": {"A": 1}, "damping_factor": 2}`,
		`{"graph_id": "` + id + `", "suspicious_nodes": {"A": 1}, "tolerance": -1}`,
		`{"graph_id": "` + id + `", "suspicious_nodes": {"A": 1}, "max_iterations": 0}`,
		`{"graph_id": "` + id + `", "suspicious_nodes": {"A": 1}, "dangling_strategy": "bogus"}`,
	} {
		rec := doRequest(t, s, http.MethodPost, "/pagerank/compute", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestMarkSuspicious(t *testing.T) {
	s := NewServer(nil, nil)

	// No graph yet
	rec := doRequest(t, s, http.MethodPost, "/nodes/suspicious",
		`{"suspicious_nodes": {"A": 0.9}}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	createTestGraph(t, s)

	// Score out of range
	rec = doRequest(t, s, http.MethodPost, "/nodes/suspicious",
		`{"suspicious_nodes": {"A": 1.5}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "between 0 and 1")

	// Valid marks become the default seeds for later computations
	rec = doRequest(t, s, http.MethodPost, "/nodes/suspicious",
		`{"suspicious_nodes": {"A": 0.9, "B": 0.3}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/pagerank/compute", `{"max_iterations": 200}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		GraphSummary struct {
			SuspiciousNodeCount int `json:"suspicious_node_count"`
		} `json:"graph_summary"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, 2, resp.GraphSummary.SuspiciousNodeCount)
}

func TestDemoGraph(t *testing.T) {
	s := NewServer(nil, nil)
	rec := doRequest(t, s, http.MethodGet, "/graph/demo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		NodeCount int  `json:"node_count"`
		EdgeCount int  `json:"edge_count"`
		Directed  bool `json:"directed"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, 8, resp.NodeCount)
	assert.Equal(t, 12, resp.EdgeCount)
	assert.True(t, resp.Directed)
}

func TestCurrentGraph(t *testing.T) {
	s := NewServer(nil, nil)
	rec := doRequest(t, s, http.MethodGet, "/graph/current", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	createTestGraph(t, s)
	rec = doRequest(t, s, http.MethodGet, "/graph/current", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		NodeDegrees []struct {
			ID       string  `json:"id"`
			Dangling bool    `json:"dangling"`
			InDegree float64 `json:"in_degree"`
		} `json:"node_degrees"`
	}
	decode(t, rec, &resp)
	require.Len(t, resp.NodeDegrees, 4)
	dangling := map[string]bool{}
	for _, d := range resp.NodeDegrees {
		dangling[d.ID] = d.Dangling
	}
	assert.True(t, dangling["D"])
	assert.False(t, dangling["A"])
}

func TestAsyncEndpointsWithoutQueue(t *testing.T) {
	s := NewServer(nil, nil)
	createTestGraph(t, s)

	rec := doRequest(t, s, http.MethodPost, "/pagerank/submit",
		`{"suspicious_nodes": {"A": 1.0}}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/pagerank/result/some-id", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAnalysisSummary(t *testing.T) {
	s := NewServer(nil, nil)
	id := createTestGraph(t, s)

	rec := doRequest(t, s, http.MethodGet, "/analysis/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var before struct {
		Summary struct {
			TotalAnalyses int `json:"total_analyses"`
		} `json:"summary"`
	}
	decode(t, rec, &before)
	assert.Equal(t, 0, before.Summary.TotalAnalyses)

	rec = doRequest(t, s, http.MethodPost, "/pagerank/compute",
		`{"graph_id": "`+id+`", "suspicious_nodes": {"A": 1.0}, "max_iterations": 200}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/analysis/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var after struct {
		Summary struct {
			TotalAnalyses int     `json:"total_analyses"`
			ConvergedRate float64 `json:"converged_rate"`
		} `json:"summary"`
	}
	decode(t, rec, &after)
	assert.Equal(t, 1, after.Summary.TotalAnalyses)
	assert.Equal(t, 1.0, after.Summary.ConvergedRate)
}

func TestEdgeInputUnmarshal(t *testing.T) {
	var e EdgeInput
	require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &e))
	assert.Equal(t, EdgeInput{Source: "a", Target: "b", Weight: 1}, e)

	require.NoError(t, json.Unmarshal([]byte(`["a","b",2.5]`), &e))
	assert.Equal(t, 2.5, e.Weight)

	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &e))
	assert.Error(t, json.Unmarshal([]byte(`{"source":"a"}`), &e))
}
