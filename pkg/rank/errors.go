package rank

import "errors"

// Every error in this package is a caller input problem: it is
// reported synchronously, never retried and never partially applied.
var (
	// ErrEmptyGraph is returned when a computation is requested over a
	// graph with no nodes.
	ErrEmptyGraph = errors.New("rank: graph has no nodes")

	// ErrEmptyPersonalization is returned when no seed contributes
	// positive personalization mass.
	ErrEmptyPersonalization = errors.New("rank: no seed with positive weight")

	// ErrInvalidParameter is returned when damping, tolerance, the
	// iteration cap or a seed weight is outside its valid range.
	ErrInvalidParameter = errors.New("rank: invalid parameter")
)
