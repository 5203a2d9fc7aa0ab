package graph

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidEdge is returned by Build when an edge carries a weight
// that is negative, NaN or infinite.
var ErrInvalidEdge = errors.New("graph: invalid edge")

// Edge is a weighted directed edge between two labeled nodes.
type Edge struct {
	Source string
	Target string
	Weight float64
}

// Arc is the indexed half of an edge as stored in the adjacency lists.
type Arc struct {
	To     int
	Weight float64
}

// Graph is a weighted directed graph with a dense node index.
// It is immutable after Build, so it can be shared by any number of
// concurrent rank computations.
type Graph struct {
	directed bool
	index    map[string]int
	labels   []string
	out      [][]Arc
	outSum   []float64
	dangling []int
	edges    int
}

// Build constructs a graph from an edge list. Nodes are indexed in
// order of first appearance, so the enumeration is stable for a given
// input. If directed is false every edge is mirrored at build time.
func Build(edges []Edge, directed bool) (*Graph, error) {
	g := &Graph{
		directed: directed,
		index:    make(map[string]int),
	}
	for _, e := range edges {
		if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
			return nil, fmt.Errorf("%w: %s -> %s has non-finite weight", ErrInvalidEdge, e.Source, e.Target)
		}
		if e.Weight < 0 {
			return nil, fmt.Errorf("%w: %s -> %s has negative weight %g", ErrInvalidEdge, e.Source, e.Target, e.Weight)
		}
		u := g.addNode(e.Source)
		v := g.addNode(e.Target)
		g.addArc(u, v, e.Weight)
		if !directed && e.Source != e.Target {
			g.addArc(v, u, e.Weight)
		}
	}
	// A node whose outgoing weights sum to zero has nowhere to send
	// its rank mass; the engine redistributes it explicitly.
	for u, sum := range g.outSum {
		if sum == 0 {
			g.dangling = append(g.dangling, u)
		}
	}
	return g, nil
}

func (g *Graph) addNode(label string) int {
	if idx, ok := g.index[label]; ok {
		return idx
	}
	idx := len(g.labels)
	g.index[label] = idx
	g.labels = append(g.labels, label)
	g.out = append(g.out, nil)
	g.outSum = append(g.outSum, 0)
	return idx
}

func (g *Graph) addArc(u, v int, weight float64) {
	g.out[u] = append(g.out[u], Arc{To: v, Weight: weight})
	g.outSum[u] += weight
	g.edges++
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.labels)
}

// EdgeCount returns the number of stored arcs (mirrored arcs of an
// undirected graph count separately).
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Directed reports whether the graph was built as directed.
func (g *Graph) Directed() bool {
	return g.directed
}

// Nodes returns the node labels in index order.
func (g *Graph) Nodes() []string {
	nodes := make([]string, len(g.labels))
	copy(nodes, g.labels)
	return nodes
}

// Index returns the dense index of a label.
func (g *Graph) Index(label string) (int, bool) {
	idx, ok := g.index[label]
	return idx, ok
}

// Label returns the label at a dense index.
func (g *Graph) Label(idx int) string {
	return g.labels[idx]
}

// Out returns the outgoing arcs of node u. The returned slice is the
// graph's own storage and must not be modified.
func (g *Graph) Out(u int) []Arc {
	return g.out[u]
}

// OutWeightSum returns the sum of outgoing edge weights of node u.
// A node with sum zero is dangling.
func (g *Graph) OutWeightSum(u int) float64 {
	return g.outSum[u]
}

// Dangling returns the indices of all dangling nodes. The returned
// slice is the graph's own storage and must not be modified.
func (g *Graph) Dangling() []int {
	return g.dangling
}

// IsDangling reports whether the labeled node has no outgoing weight.
// Unknown labels are reported as not dangling.
func (g *Graph) IsDangling(label string) bool {
	u, ok := g.index[label]
	if !ok {
		return false
	}
	return g.outSum[u] == 0
}

// OutDegree returns the total outgoing edge weight of a labeled node.
func (g *Graph) OutDegree(label string) float64 {
	u, ok := g.index[label]
	if !ok {
		return 0
	}
	return g.outSum[u]
}

// InDegree returns the total incoming edge weight of a labeled node.
// It scans the whole adjacency, so it is meant for reporting, not for
// the iteration loop.
func (g *Graph) InDegree(label string) float64 {
	v, ok := g.index[label]
	if !ok {
		return 0
	}
	total := 0.0
	for u := range g.out {
		for _, arc := range g.out[u] {
			if arc.To == v {
				total += arc.Weight
			}
		}
	}
	return total
}

// Edges returns all stored arcs as labeled edges.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edges)
	for u := range g.out {
		for _, arc := range g.out[u] {
			edges = append(edges, Edge{
				Source: g.labels[u],
				Target: g.labels[arc.To],
				Weight: arc.Weight,
			})
		}
	}
	return edges
}
