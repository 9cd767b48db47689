package option

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// BlackScholes returns the closed-form price of o. It is used as a reference
// for simulated prices. With T or sigma non-positive it falls back to the
// discounted payoff at the forward.
func BlackScholes(o Option) float64 {
	if o.Maturity <= 0 || o.Volatility <= 0 {
		df := o.DiscountFactor()
		fwd := o.Forward()
		if o.Kind == Call {
			return df * math.Max(fwd-o.Strike, 0)
		}
		return df * math.Max(o.Strike-fwd, 0)
	}

	sqrtT := math.Sqrt(o.Maturity)
	d1 := (math.Log(o.Spot/o.Strike) + (o.Rate+0.5*o.Volatility*o.Volatility)*o.Maturity) / (o.Volatility * sqrtT)
	d2 := d1 - o.Volatility*sqrtT

	n := distuv.UnitNormal
	df := o.DiscountFactor()
	if o.Kind == Call {
		return o.Spot*n.CDF(d1) - o.Strike*df*n.CDF(d2)
	}
	return o.Strike*df*n.CDF(-d2) - o.Spot*n.CDF(-d1)
}
