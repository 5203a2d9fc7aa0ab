package rank

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ppasini/fraudrank/pkg/graph"
)

// ComputeAll ranks several independent seed sets over the same graph
// concurrently. The graph is immutable after Build and every run holds
// its own rank vector, so the workers share nothing but read-only
// state. A single failing seed set fails the whole call.
func ComputeAll(g *graph.Graph, seedSets map[string]map[string]float64, params Params) (map[string]*Result, error) {
	results := make(map[string]*Result, len(seedSets))
	var mu sync.Mutex
	var group errgroup.Group
	for name, seeds := range seedSets {
		name, seeds := name, seeds
		group.Go(func() error {
			res, err := Compute(g, seeds, params)
			if err != nil {
				return err
			}
			mu.Lock()
			results[name] = res
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
