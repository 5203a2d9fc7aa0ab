package rank

import "fmt"

// Strategy selects where the rank mass of dangling nodes goes on each
// iteration. The behavior space is small and fixed, so this is a
// closed enum rather than open-ended dispatch.
type Strategy int

const (
	// Uniform spreads dangling mass equally across all nodes,
	// preserving classic PageRank semantics.
	Uniform Strategy = iota
	// Teleport sends dangling mass back to the personalization
	// vector, keeping it inside the seeded neighborhood.
	Teleport
)

// ParseStrategy converts a wire-level strategy name.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", "uniform":
		return Uniform, nil
	case "teleport":
		return Teleport, nil
	}
	return 0, fmt.Errorf("%w: unknown dangling strategy %q", ErrInvalidParameter, name)
}

func (s Strategy) String() string {
	switch s {
	case Uniform:
		return "uniform"
	case Teleport:
		return "teleport"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// Redistribute adds the dangling rank mass to dst. Uniform contributes
// mass/n to every node, Teleport contributes mass*p[v] to node v; both
// add exactly mass in total, which the engine relies on to keep the
// rank vector summing to one.
func (s Strategy) Redistribute(mass float64, p []float64, dst []float64) {
	if mass == 0 {
		return
	}
	switch s {
	case Uniform:
		share := mass / float64(len(dst))
		for v := range dst {
			dst[v] += share
		}
	case Teleport:
		for v := range dst {
			dst[v] += mass * p[v]
		}
	}
}
