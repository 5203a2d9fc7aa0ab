package graph

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ParseEdgeList parses a textual edge list into edges. Every non-empty
// line holds "source target" or "source,target", with an optional third
// field for the weight (1.0 when missing). Lines starting with # or //
// are comments.
func ParseEdgeList(contents []byte) ([]Edge, error) {
	var edges []Edge
	lines := strings.Split(strings.ReplaceAll(string(contents), "\r\n", "\n"), "\n")
	for i, line := range lines {
		edge, skip, err := convertLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if skip {
			continue
		}
		edges = append(edges, edge)
	}
	return edges, nil
}

func convertLine(line string) (Edge, bool, error) {
	line = strings.TrimSpace(line)
	// Skip comment lines
	if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") || line == "" {
		return Edge{}, true, nil
	}
	// Accept both csv and whitespace separated lines
	tokens := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(tokens) < 2 {
		return Edge{}, false, fmt.Errorf("expected at least source and target, got %q", line)
	}
	edge := Edge{Source: tokens[0], Target: tokens[1], Weight: 1.0}
	if len(tokens) >= 3 {
		weight, err := strconv.ParseFloat(tokens[2], 64)
		if err != nil {
			return Edge{}, false, fmt.Errorf("could not convert weight %s: %v", tokens[2], err)
		}
		edge.Weight = weight
	}
	return edge, false, nil
}

// LoadResource reads an edge list from a local file or, when the
// resource starts with http, from the network.
func LoadResource(resource string) ([]byte, error) {
	if strings.HasPrefix(resource, "http") {
		resp, err := http.Get(resource)
		if err != nil {
			return nil, fmt.Errorf("could not load network resource %s: %v", resource, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("could not load network resource %s: %s", resource, resp.Status)
		}
		return io.ReadAll(resp.Body)
	}
	bytes, err := os.ReadFile(resource)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %v", resource, err)
	}
	return bytes, nil
}

// WriteScores writes node scores to a file, highest score first.
func WriteScores(output string, scores map[string]float64) error {
	file, err := os.Create(output)
	if err != nil {
		return err
	}
	defer file.Close()
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
	for _, node := range nodes {
		if _, err := fmt.Fprintf(file, "%s %f\n", node, scores[node]); err != nil {
			return err
		}
	}
	return nil
}
