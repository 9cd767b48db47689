package config

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Validate checks that all values can be used for a run.
func (c *Config) Validate() error {
	if err := c.Option.Validate(); err != nil {
		return fmt.Errorf("option: %w", err)
	}

	if c.Simulation.Paths < 2 {
		return fmt.Errorf("simulation.paths must be >= 2, got %d", c.Simulation.Paths)
	}
	if c.Simulation.Paths%2 != 0 {
		return fmt.Errorf("simulation.paths must be even, got %d", c.Simulation.Paths)
	}
	if c.Simulation.Workers < 0 {
		return errors.New("simulation.workers must be >= 0")
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.MaxPaths < 2 {
		return fmt.Errorf("server.max_paths must be >= 2, got %d", c.Server.MaxPaths)
	}
	return nil
}
