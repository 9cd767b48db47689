// Package option describes the European option priced by a simulation run.
package option

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidOption is wrapped by every validation failure.
var ErrInvalidOption = errors.New("invalid option")

// Kind is the payoff side of the contract.
type Kind int

const (
	Call Kind = iota + 1
	Put
)

func (k Kind) String() string {
	switch k {
	case Call:
		return "call"
	case Put:
		return "put"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts "call" or "put", case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call":
		return Call, nil
	case "put":
		return Put, nil
	default:
		return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidOption, s)
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	if k != Call && k != Put {
		return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidOption, int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Option is a European option on a single underlying. It is passed by value
// and never mutated once a run starts.
type Option struct {
	Spot       float64 `json:"spot" yaml:"spot"`             // S0
	Strike     float64 `json:"strike" yaml:"strike"`         // K
	Maturity   float64 `json:"maturity" yaml:"maturity"`     // T, years
	Rate       float64 `json:"rate" yaml:"rate"`             // r, continuously compounded
	Volatility float64 `json:"volatility" yaml:"volatility"` // sigma, annualized
	Kind       Kind    `json:"kind" yaml:"kind"`
}

// Validate reports the first parameter that cannot be simulated.
func (o Option) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"spot", o.Spot},
		{"strike", o.Strike},
		{"maturity", o.Maturity},
		{"volatility", o.Volatility},
	}
	for _, p := range positive {
		if math.IsNaN(p.v) || math.IsInf(p.v, 0) || p.v <= 0 {
			return fmt.Errorf("%w: %s must be > 0, got %v", ErrInvalidOption, p.name, p.v)
		}
	}
	if math.IsNaN(o.Rate) || math.IsInf(o.Rate, 0) {
		return fmt.Errorf("%w: rate must be finite, got %v", ErrInvalidOption, o.Rate)
	}
	if o.Kind != Call && o.Kind != Put {
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidOption, int(o.Kind))
	}
	return nil
}

// DiscountFactor is exp(-rT).
func (o Option) DiscountFactor() float64 {
	return math.Exp(-o.Rate * o.Maturity)
}

// Forward is the risk-neutral expected terminal price S0*exp(rT).
func (o Option) Forward() float64 {
	return o.Spot * math.Exp(o.Rate*o.Maturity)
}
