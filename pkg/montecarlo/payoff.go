package montecarlo

import (
	"math"

	"github.com/qcserestipy/mcpricer/pkg/option"
)

// Payoff is the exercise value at expiry of one terminal price.
func Payoff(kind option.Kind, strike, price float64) float64 {
	if kind == option.Call {
		return math.Max(price-strike, 0)
	}
	return math.Max(strike-price, 0)
}

// PairPayoff averages the payoffs of an antithetic pair.
func PairPayoff(kind option.Kind, strike, plus, minus float64) float64 {
	return (Payoff(kind, strike, plus) + Payoff(kind, strike, minus)) / 2
}
