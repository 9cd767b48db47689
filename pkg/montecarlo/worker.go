package montecarlo

import (
	"github.com/qcserestipy/mcpricer/pkg/option"
)

// Partial is one worker's contribution. SumSq is kept for the standard error.
type Partial struct {
	Pairs int     `json:"pairs"`
	Sum   float64 `json:"sum"`
	SumSq float64 `json:"sum_sq"`
}

// Simulate runs pairs iterations of sample, evaluate and accumulate.
func Simulate(o option.Option, pairs int, s *Sampler) Partial {
	p := Partial{Pairs: pairs}
	for i := 0; i < pairs; i++ {
		plus, minus := s.Next()
		v := PairPayoff(o.Kind, o.Strike, plus, minus)
		p.Sum += v
		p.SumSq += v * v
	}
	return p
}
