package config

import "github.com/qcserestipy/mcpricer/pkg/option"

// Default values, matching the reference run.
const (
	DefaultSpot       = 100.0
	DefaultStrike     = 105.0
	DefaultMaturity   = 1.0
	DefaultRate       = 0.05
	DefaultVolatility = 0.2
	DefaultKind       = option.Put
	DefaultPaths      = 100000
	DefaultLogLevel   = "info"
	DefaultPort       = 3000
	DefaultMaxPaths   = 100_000_000
)

// Default returns a configuration with every field set to its default. The
// YAML file is decoded on top of it, so a value written explicitly, zero
// included, always wins and is left to Validate.
func Default() *Config {
	return &Config{
		Option: option.Option{
			Spot:       DefaultSpot,
			Strike:     DefaultStrike,
			Maturity:   DefaultMaturity,
			Rate:       DefaultRate,
			Volatility: DefaultVolatility,
			Kind:       DefaultKind,
		},
		Simulation: SimulationConfig{
			Paths: DefaultPaths,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Server: ServerConfig{
			Port:     DefaultPort,
			MaxPaths: DefaultMaxPaths,
		},
	}
}
