package api

import (
	"encoding/json"
	"fmt"

	"github.com/ppasini/fraudrank/pkg/graph"
)

// EdgeInput accepts the wire form of an edge: a [source, target] or
// [source, target, weight] array. The weight defaults to 1.
type EdgeInput graph.Edge

func (e *EdgeInput) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if len(fields) < 2 {
		return fmt.Errorf("edge needs at least source and target")
	}
	if err := json.Unmarshal(fields[0], &e.Source); err != nil {
		return fmt.Errorf("edge source: %v", err)
	}
	if err := json.Unmarshal(fields[1], &e.Target); err != nil {
		return fmt.Errorf("edge target: %v", err)
	}
	e.Weight = 1.0
	if len(fields) >= 3 {
		if err := json.Unmarshal(fields[2], &e.Weight); err != nil {
			return fmt.Errorf("edge weight: %v", err)
		}
	}
	return nil
}

type createGraphRequest struct {
	Directed bool        `json:"directed"`
	Edges    []EdgeInput `json:"edges"`
}

type computeRequest struct {
	GraphID          string             `json:"graph_id"`
	SuspiciousNodes  map[string]float64 `json:"suspicious_nodes"`
	DampingFactor    *float64           `json:"damping_factor"`
	MaxIterations    *int               `json:"max_iterations"`
	Tolerance        *float64           `json:"tolerance"`
	DanglingStrategy string             `json:"dangling_strategy"`
	TopK             int                `json:"top_k"`
}

type suspiciousRequest struct {
	GraphID         string             `json:"graph_id"`
	SuspiciousNodes map[string]float64 `json:"suspicious_nodes"`
}

type edgeJSON struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

type graphResponse struct {
	Success   bool       `json:"success"`
	GraphID   string     `json:"graph_id"`
	Nodes     []string   `json:"nodes"`
	Edges     []edgeJSON `json:"edges"`
	NodeCount int        `json:"node_count"`
	EdgeCount int        `json:"edge_count"`
	Directed  bool       `json:"directed"`
}

type nodeDegreeJSON struct {
	ID          string  `json:"id"`
	OutDegree   float64 `json:"out_degree"`
	InDegree    float64 `json:"in_degree"`
	TotalDegree float64 `json:"total_degree"`
	Dangling    bool    `json:"dangling"`
}

type currentGraphResponse struct {
	graphResponse
	NodeDegrees []nodeDegreeJSON `json:"node_degrees"`
}

type convergenceJSON struct {
	Converged        bool      `json:"converged"`
	Iterations       int       `json:"iterations_performed"`
	DampingFactor    float64   `json:"damping_factor"`
	Tolerance        float64   `json:"tolerance"`
	DanglingStrategy string    `json:"dangling_strategy"`
	L1DeltaHistory   []float64 `json:"l1_delta_history"`
}

type candidateJSON struct {
	NodeID         string  `json:"node_id"`
	PageRankScore  float64 `json:"page_rank_score"`
	SuspicionScore float64 `json:"suspicion_score"`
	RiskScore      float64 `json:"risk_score"`
}

type nodeDetailJSON struct {
	ID             string  `json:"id"`
	PageRank       float64 `json:"page_rank"`
	OutDegree      float64 `json:"out_degree"`
	InDegree       float64 `json:"in_degree"`
	IsSuspicious   bool    `json:"is_suspicious"`
	SuspicionScore float64 `json:"suspicion_score"`
}

type graphSummaryJSON struct {
	NodeCount           int `json:"node_count"`
	EdgeCount           int `json:"edge_count"`
	DanglingCount       int `json:"dangling_node_count"`
	SuspiciousNodeCount int `json:"suspicious_node_count"`
}

type computeResponse struct {
	Success            bool               `json:"success"`
	GraphID            string             `json:"graph_id"`
	ComputeTimeMs      float64            `json:"compute_time_ms"`
	PageRankScores     map[string]float64 `json:"pagerank_scores"`
	TopFraudCandidates []candidateJSON    `json:"top_fraud_candidates"`
	NodeDetails        []nodeDetailJSON   `json:"node_details"`
	ConvergenceInfo    convergenceJSON    `json:"convergence_info"`
	GraphSummary       graphSummaryJSON   `json:"graph_summary"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
