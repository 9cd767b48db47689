package montecarlo

import "fmt"

// Plan is how a request's antithetic pairs are spread over workers.
type Plan struct {
	Workers   int
	Pairs     []int // per worker, len == Workers
	Total     int   // sum of Pairs, the averaging denominator
	Base      int
	Remainder int // workers given Base+1 pairs
}

// Partition halves paths into antithetic pairs and spreads them over at most
// workers workers. The worker count is reduced so that nobody gets zero pairs,
// and the remainder goes one pair each to the first workers, so Total is
// always paths/2.
func Partition(paths, workers int) (Plan, error) {
	if paths <= 0 || paths%2 != 0 {
		return Plan{}, fmt.Errorf("%w: paths must be a positive even number, got %d", ErrInvalidRequest, paths)
	}
	if workers < 1 {
		workers = 1
	}

	pairs := paths / 2
	if workers > pairs {
		workers = pairs
	}

	plan := Plan{
		Workers:   workers,
		Pairs:     make([]int, workers),
		Base:      pairs / workers,
		Remainder: pairs % workers,
	}
	for i := range plan.Pairs {
		plan.Pairs[i] = plan.Base
		if i < plan.Remainder {
			plan.Pairs[i]++
		}
		plan.Total += plan.Pairs[i]
	}
	return plan, nil
}
