// Package montecarlo estimates European option prices from antithetic pairs
// of simulated geometric Brownian motion terminal prices.
package montecarlo

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/qcserestipy/mcpricer/pkg/option"
)

// Seed initializes one worker's PCG stream.
type Seed [2]uint64

// NewSeed reads a seed from r. There is no fallback: a short read means the
// worker cannot get an independent stream.
func NewSeed(r io.Reader) (Seed, error) {
	var b [16]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return Seed{}, fmt.Errorf("%w: %v", ErrEntropy, err)
	}
	return Seed{
		binary.LittleEndian.Uint64(b[:8]),
		binary.LittleEndian.Uint64(b[8:]),
	}, nil
}

// TerminalPair maps one standard normal draw z to the antithetic pair of
// terminal prices S0*exp((r-σ²/2)T ± σ√T·z).
func TerminalPair(o option.Option, z float64) (plus, minus float64) {
	drift, diffusion := gbmTerms(o)
	return terminalPair(o.Spot, drift, diffusion, z)
}

func gbmTerms(o option.Option) (drift, diffusion float64) {
	drift = (o.Rate - 0.5*o.Volatility*o.Volatility) * o.Maturity
	diffusion = o.Volatility * math.Sqrt(o.Maturity)
	return drift, diffusion
}

func terminalPair(spot, drift, diffusion, z float64) (float64, float64) {
	return spot * math.Exp(drift+diffusion*z), spot * math.Exp(drift-diffusion*z)
}

// Sampler draws antithetic terminal price pairs for one option. A Sampler
// owns its random stream and must not be shared between goroutines.
type Sampler struct {
	spot      float64
	drift     float64
	diffusion float64
	normal    distuv.Normal
}

// NewSampler expects o to be valid; see option.Option.Validate.
func NewSampler(o option.Option, seed Seed) *Sampler {
	drift, diffusion := gbmTerms(o)
	return &Sampler{
		spot:      o.Spot,
		drift:     drift,
		diffusion: diffusion,
		normal: distuv.Normal{
			Mu:    0,
			Sigma: 1,
			Src:   rand.NewPCG(seed[0], seed[1]),
		},
	}
}

// Next consumes one normal variate.
func (s *Sampler) Next() (plus, minus float64) {
	return terminalPair(s.spot, s.drift, s.diffusion, s.normal.Rand())
}
