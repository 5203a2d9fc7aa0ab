package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/ppasini/fraudrank/pkg/graph"
	"github.com/ppasini/fraudrank/pkg/jobs"
	"github.com/ppasini/fraudrank/pkg/rank"
	"github.com/ppasini/fraudrank/pkg/utils"
)

// demoEdges is the transaction graph the original dashboard ships for
// quick exploration: 8 accounts, 12 weighted transfers.
var demoEdges = []graph.Edge{
	{Source: "A", Target: "B", Weight: 15000},
	{Source: "A", Target: "C", Weight: 45000},
	{Source: "B", Target: "D", Weight: 12000},
	{Source: "C", Target: "E", Weight: 78000},
	{Source: "D", Target: "F", Weight: 9000},
	{Source: "E", Target: "G", Weight: 125000},
	{Source: "F", Target: "H", Weight: 8000},
	{Source: "G", Target: "A", Weight: 95000},
	{Source: "H", Target: "B", Weight: 11000},
	{Source: "C", Target: "H", Weight: 32000},
	{Source: "E", Target: "F", Weight: 56000},
	{Source: "G", Target: "D", Weight: 87000},
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "active",
		"service": "Fraud Detection API",
		"endpoints": map[string]string{
			"/health":              "GET - Check API health",
			"/metrics":             "GET - Prometheus metrics",
			"/graph/create":        "POST - Create a new graph",
			"/graph/current":       "GET - Get current graph",
			"/graph/demo":          "GET - Create the demo graph",
			"/nodes/suspicious":    "POST - Mark nodes as suspicious",
			"/pagerank/compute":    "POST - Compute PageRank",
			"/pagerank/submit":     "POST - Queue a PageRank computation",
			"/pagerank/result/:id": "GET - Fetch a queued result",
			"/analysis/summary":    "GET - Aggregate analysis stats",
		},
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleCreateGraph(c echo.Context) error {
	req := createGraphRequest{Directed: true}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	edges := make([]graph.Edge, len(req.Edges))
	for i, e := range req.Edges {
		edges[i] = graph.Edge(e)
	}
	g, err := graph.Build(edges, req.Directed)
	if err != nil {
		return badRequest(c, err)
	}
	id := s.register(g)
	return c.JSON(http.StatusOK, s.graphResponse(g, id))
}

func (s *Server) handleDemoGraph(c echo.Context) error {
	g, err := graph.Build(demoEdges, true)
	if err != nil {
		return err
	}
	id := s.register(g)
	return c.JSON(http.StatusOK, s.graphResponse(g, id))
}

func (s *Server) handleCurrentGraph(c echo.Context) error {
	g, id, ok := s.registry.Get("")
	if !ok {
		return notFound(c, "no graph created yet")
	}
	resp := currentGraphResponse{graphResponse: s.graphResponse(g, id)}
	for _, node := range g.Nodes() {
		out := g.OutDegree(node)
		in := g.InDegree(node)
		resp.NodeDegrees = append(resp.NodeDegrees, nodeDegreeJSON{
			ID:          node,
			OutDegree:   out,
			InDegree:    in,
			TotalDegree: out + in,
			Dangling:    g.IsDangling(node),
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleMarkSuspicious(c echo.Context) error {
	var req suspiciousRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	for node, score := range req.SuspiciousNodes {
		if score < 0 || score > 1 {
			return badRequest(c, fmt.Errorf("score for node %s must be between 0 and 1", node))
		}
	}
	if !s.registry.SetSuspicious(req.GraphID, req.SuspiciousNodes) {
		return notFound(c, "no graph created yet")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":          true,
		"suspicious_nodes": req.SuspiciousNodes,
		"count":            len(req.SuspiciousNodes),
		"message":          fmt.Sprintf("Marked %d nodes as suspicious", len(req.SuspiciousNodes)),
	})
}

func (s *Server) handleCompute(c echo.Context) error {
	var req computeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	g, id, ok := s.registry.Get(req.GraphID)
	if !ok {
		return notFound(c, "no graph available")
	}
	seeds := req.SuspiciousNodes
	if len(seeds) == 0 {
		seeds = s.registry.Suspicious(id)
	}
	params, err := s.params(&req)
	if err != nil {
		return badRequest(c, err)
	}

	start := time.Now()
	res, err := rank.Compute(g, seeds, params)
	if err != nil {
		if isValidation(err) {
			return badRequest(c, err)
		}
		return err
	}
	elapsedMs := float64(time.Since(start).Microseconds()) / 1000.0

	computationsTotal.WithLabelValues(params.Strategy.String(), strconv.FormatBool(res.Converged)).Inc()
	computationDuration.Observe(time.Since(start).Seconds())
	s.recordAnalysis(id, res.Iterations, res.Converged, elapsedMs)
	utils.ServerLog("Computed PageRank on graph %s: %d iterations, converged=%t",
		id, res.Iterations, res.Converged)

	topK := req.TopK
	if topK <= 0 {
		topK = 10
	}
	resp := computeResponse{
		Success:            true,
		GraphID:            id,
		ComputeTimeMs:      elapsedMs,
		PageRankScores:     res.Scores,
		TopFraudCandidates: topCandidates(res.Scores, seeds, topK),
		ConvergenceInfo: convergenceJSON{
			Converged:        res.Converged,
			Iterations:       res.Iterations,
			DampingFactor:    res.Damping,
			Tolerance:        res.Tolerance,
			DanglingStrategy: res.Strategy.String(),
			L1DeltaHistory:   res.Deltas,
		},
		GraphSummary: graphSummaryJSON{
			NodeCount:           g.NodeCount(),
			EdgeCount:           g.EdgeCount(),
			DanglingCount:       len(g.Dangling()),
			SuspiciousNodeCount: len(seeds),
		},
	}
	for _, node := range g.Nodes() {
		suspicion, marked := seeds[node]
		resp.NodeDetails = append(resp.NodeDetails, nodeDetailJSON{
			ID:             node,
			PageRank:       res.Scores[node],
			OutDegree:      g.OutDegree(node),
			InDegree:       g.InDegree(node),
			IsSuspicious:   marked,
			SuspicionScore: suspicion,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSubmit(c echo.Context) error {
	if s.publisher == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{
			Error: "async compute queue not configured",
		})
	}
	var req computeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	g, id, ok := s.registry.Get(req.GraphID)
	if !ok {
		return notFound(c, "no graph available")
	}
	seeds := req.SuspiciousNodes
	if len(seeds) == 0 {
		seeds = s.registry.Suspicious(id)
	}
	params, err := s.params(&req)
	if err != nil {
		return badRequest(c, err)
	}
	jobID, err := gonanoid.New()
	if err != nil {
		return err
	}
	job := &jobs.ComputeJob{
		ID:            jobID,
		GraphID:       id,
		Directed:      g.Directed(),
		Edges:         g.Edges(),
		Seeds:         seeds,
		Damping:       params.Damping,
		Tolerance:     params.Tolerance,
		MaxIterations: params.MaxIterations,
		Strategy:      params.Strategy.String(),
	}
	if err := s.publisher.Publish(job); err != nil {
		return err
	}
	utils.ServerLog("Queued job %s for graph %s", jobID, id)
	return c.JSON(http.StatusAccepted, map[string]any{
		"success":  true,
		"job_id":   jobID,
		"graph_id": id,
	})
}

func (s *Server) handleResult(c echo.Context) error {
	if s.results == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{
			Error: "async compute queue not configured",
		})
	}
	result, ok := s.results.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"status":  "pending",
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": result.Error == "",
		"status":  "completed",
		"result":  result,
	})
}

func (s *Server) handleSummary(c echo.Context) error {
	s.statsMutex.Lock()
	stats := s.stats
	s.statsMutex.Unlock()
	summary := map[string]any{
		"total_analyses": stats.TotalAnalyses,
		"graph_count":    s.registry.Len(),
	}
	if stats.TotalAnalyses > 0 {
		summary["average_compute_time_ms"] = stats.TotalTimeMs / float64(stats.TotalAnalyses)
		summary["converged_rate"] = float64(stats.ConvergedCount) / float64(stats.TotalAnalyses)
		summary["last_analysis"] = map[string]any{
			"graph_id":   stats.LastGraphID,
			"iterations": stats.LastIterations,
			"converged":  stats.LastConverged,
			"at":         stats.LastAt.Format(time.RFC3339),
		}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"summary": summary,
	})
}

func (s *Server) register(g *graph.Graph) string {
	id := s.registry.Add(g)
	currentGraphNodes.Set(float64(g.NodeCount()))
	currentGraphEdges.Set(float64(g.EdgeCount()))
	utils.ServerLog("Registered graph %s (%d nodes, %d edges)", id, g.NodeCount(), g.EdgeCount())
	return id
}

func (s *Server) graphResponse(g *graph.Graph, id string) graphResponse {
	resp := graphResponse{
		Success:   true,
		GraphID:   id,
		Nodes:     g.Nodes(),
		NodeCount: g.NodeCount(),
		EdgeCount: g.EdgeCount(),
		Directed:  g.Directed(),
	}
	for _, e := range g.Edges() {
		resp.Edges = append(resp.Edges, edgeJSON{Source: e.Source, Target: e.Target, Weight: e.Weight})
	}
	return resp
}

func (s *Server) params(req *computeRequest) (rank.Params, error) {
	params := rank.DefaultParams()
	strategy, err := rank.ParseStrategy(req.DanglingStrategy)
	if err != nil {
		return params, err
	}
	params.Strategy = strategy
	if req.DampingFactor != nil {
		params.Damping = *req.DampingFactor
	}
	if req.MaxIterations != nil {
		params.MaxIterations = *req.MaxIterations
	}
	if req.Tolerance != nil {
		params.Tolerance = *req.Tolerance
	}
	return params, nil
}

// topCandidates ranks nodes by risk: score boosted by any manual
// suspicion mark, the way the dashboard surfaces fraud candidates.
func topCandidates(scores, suspicion map[string]float64, k int) []candidateJSON {
	candidates := make([]candidateJSON, 0, len(scores))
	for node, score := range scores {
		candidates = append(candidates, candidateJSON{
			NodeID:         node,
			PageRankScore:  score,
			SuspicionScore: suspicion[node],
			RiskScore:      score * (1.0 + suspicion[node]),
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].RiskScore != candidates[j].RiskScore {
			return candidates[i].RiskScore > candidates[j].RiskScore
		}
		return candidates[i].NodeID < candidates[j].NodeID
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func notFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, errorResponse{Error: message})
}

func isValidation(err error) bool {
	return errors.Is(err, rank.ErrInvalidParameter) ||
		errors.Is(err, rank.ErrEmptyPersonalization) ||
		errors.Is(err, rank.ErrEmptyGraph) ||
		errors.Is(err, graph.ErrInvalidEdge)
}
