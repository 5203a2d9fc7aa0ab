package api

import (
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/ppasini/fraudrank/pkg/graph"
)

type entry struct {
	graph      *graph.Graph
	suspicious map[string]float64
	createdAt  time.Time
}

// Registry holds the graphs known to the server. Graphs themselves are
// immutable; a create request registers a fresh graph and swaps the
// current id, it never touches a graph a running computation reads.
type Registry struct {
	mutex   sync.RWMutex
	graphs  map[string]*entry
	current string
}

func NewRegistry() *Registry {
	return &Registry{graphs: make(map[string]*entry)}
}

// Add registers a graph under a fresh id and makes it current.
func (r *Registry) Add(g *graph.Graph) string {
	id, err := gonanoid.New()
	if err != nil {
		// nanoid only fails when the system randomness source does
		id = time.Now().Format("20060102150405.000000000")
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.graphs[id] = &entry{graph: g, createdAt: time.Now()}
	r.current = id
	return id
}

// Get resolves a graph id; the empty id means the current graph. The
// returned id is the resolved one.
func (r *Registry) Get(id string) (*graph.Graph, string, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if id == "" {
		id = r.current
	}
	e, ok := r.graphs[id]
	if !ok {
		return nil, "", false
	}
	return e.graph, id, true
}

// SetSuspicious stores manual suspicion marks for a graph. The marks
// are plain seed input for later computations, nothing more.
func (r *Registry) SetSuspicious(id string, scores map[string]float64) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if id == "" {
		id = r.current
	}
	e, ok := r.graphs[id]
	if !ok {
		return false
	}
	marks := make(map[string]float64, len(scores))
	for node, score := range scores {
		marks[node] = score
	}
	e.suspicious = marks
	return true
}

// Suspicious returns a copy of the stored suspicion marks for a graph.
func (r *Registry) Suspicious(id string) map[string]float64 {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if id == "" {
		id = r.current
	}
	e, ok := r.graphs[id]
	if !ok || e.suspicious == nil {
		return nil
	}
	marks := make(map[string]float64, len(e.suspicious))
	for node, score := range e.suspicious {
		marks[node] = score
	}
	return marks
}

// Len returns the number of registered graphs.
func (r *Registry) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.graphs)
}
