package config

import (
	"github.com/qcserestipy/mcpricer/pkg/option"
)

// Config is the full configuration of mcpricer.
type Config struct {
	Option     option.Option    `yaml:"option"`
	Simulation SimulationConfig `yaml:"simulation"`
	Log        LogConfig        `yaml:"log"`
	Server     ServerConfig     `yaml:"server"`
}

// SimulationConfig sizes a run.
type SimulationConfig struct {
	Paths   int `yaml:"paths"`
	Workers int `yaml:"workers"` // 0 means one per CPU
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig is only used with -serve.
type ServerConfig struct {
	Port     int `yaml:"port"`
	MaxPaths int `yaml:"max_paths"` // upper bound for POST /runs
}
