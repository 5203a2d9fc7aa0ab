package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/ppasini/fraudrank/pkg/graph"
	"github.com/ppasini/fraudrank/pkg/utils"
)

var (
	apiAddr    string // Connection string of the server
	file       string // Graph resource (file path or URL)
	seedsFlag  string // Seed weights, e.g. "A=1.0,B=0.5"
	strategy   string
	damping    float64
	tolerance  float64
	iterations int
	undirected bool
	top        int
	output     string
)

func init() {
	flag.StringVar(&apiAddr, "api", "http://127.0.0.1:5000", "API server address")
	flag.StringVar(&file, "file", "graph.txt", "Graph file or URL")
	flag.StringVar(&seedsFlag, "seeds", "", "Seed weights (node=weight, comma separated)")
	flag.StringVar(&strategy, "strategy", "uniform", "Dangling strategy: uniform or teleport")
	flag.Float64Var(&damping, "damping", 0.15, "Teleport probability")
	flag.Float64Var(&tolerance, "tolerance", 1e-8, "L1 convergence tolerance")
	flag.IntVar(&iterations, "max-iterations", 100, "Iteration cap")
	flag.BoolVar(&undirected, "undirected", false, "Treat the graph as undirected")
	flag.IntVar(&top, "top", 10, "Number of top candidates to print")
	flag.StringVar(&output, "output", "", "Write all scores to this file")
}

func main() {
	flag.Parse()

	// config.json overrides the flag defaults, explicit flags win
	if config, err := utils.LoadConfiguration(); err == nil {
		applyConfig(config)
	}

	contents, err := graph.LoadResource(file)
	utils.FailOnError("Failed to load graph", err)
	edges, err := graph.ParseEdgeList(contents)
	utils.FailOnError("Failed to parse graph", err)

	seeds, err := parseSeeds(seedsFlag)
	utils.FailOnError("Failed to parse seeds", err)

	created := struct {
		GraphID   string `json:"graph_id"`
		NodeCount int    `json:"node_count"`
		EdgeCount int    `json:"edge_count"`
	}{}
	err = post(apiAddr+"/graph/create", map[string]any{
		"directed": !undirected,
		"edges":    edgeArrays(edges),
	}, &created)
	utils.FailOnError("Failed to create graph", err)
	fmt.Printf("Created graph %s (%d nodes, %d edges)\n",
		created.GraphID, created.NodeCount, created.EdgeCount)

	computed := struct {
		Scores          map[string]float64 `json:"pagerank_scores"`
		ComputeTimeMs   float64            `json:"compute_time_ms"`
		ConvergenceInfo struct {
			Converged  bool `json:"converged"`
			Iterations int  `json:"iterations_performed"`
		} `json:"convergence_info"`
	}{}
	err = post(apiAddr+"/pagerank/compute", map[string]any{
		"graph_id":          created.GraphID,
		"suspicious_nodes":  seeds,
		"damping_factor":    damping,
		"tolerance":         tolerance,
		"max_iterations":    iterations,
		"dangling_strategy": strategy,
	}, &computed)
	utils.FailOnError("Failed to compute PageRank", err)

	fmt.Printf("Converged: %t (%d iterations, %.3f ms)\n",
		computed.ConvergenceInfo.Converged,
		computed.ConvergenceInfo.Iterations,
		computed.ComputeTimeMs)
	printTop(computed.Scores, top)

	if output != "" {
		err = graph.WriteScores(output, computed.Scores)
		utils.FailOnError("Failed to write output", err)
		fmt.Printf("Scores written to %s\n", output)
	}
}

func applyConfig(config utils.Config) {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if config.Damping != 0 && !set["damping"] {
		damping = config.Damping
	}
	if config.Tolerance != 0 && !set["tolerance"] {
		tolerance = config.Tolerance
	}
	if config.MaxIterations != 0 && !set["max-iterations"] {
		iterations = config.MaxIterations
	}
	if config.Strategy != "" && !set["strategy"] {
		strategy = config.Strategy
	}
	if config.Graph != "" && !set["file"] {
		file = config.Graph
	}
	if config.Output != "" && !set["output"] {
		output = config.Output
	}
}

func parseSeeds(value string) (map[string]float64, error) {
	seeds := make(map[string]float64)
	if value == "" {
		return seeds, nil
	}
	for _, pair := range strings.Split(value, ",") {
		node, weightStr, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("seed %q is not node=weight", pair)
		}
		weight, err := strconv.ParseFloat(weightStr, 64)
		if err != nil {
			return nil, fmt.Errorf("seed %q has invalid weight: %v", pair, err)
		}
		seeds[strings.TrimSpace(node)] = weight
	}
	return seeds, nil
}

func edgeArrays(edges []graph.Edge) [][]any {
	arrays := make([][]any, len(edges))
	for i, e := range edges {
		arrays[i] = []any{e.Source, e.Target, e.Weight}
	}
	return arrays
}

func post(url string, payload any, response any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(response)
}

func printTop(scores map[string]float64, k int) {
	nodes := make([]string, 0, len(scores))
	for node := range scores {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if scores[nodes[i]] != scores[nodes[j]] {
			return scores[nodes[i]] > scores[nodes[j]]
		}
		return nodes[i] < nodes[j]
	})
	if len(nodes) > k {
		nodes = nodes[:k]
	}
	for _, node := range nodes {
		fmt.Printf("%s -> %f\n", node, scores[node])
	}
}
