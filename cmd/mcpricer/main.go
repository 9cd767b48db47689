// Copyright Project GoHPC Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/qcserestipy/mcpricer/internal/config"
	"github.com/qcserestipy/mcpricer/pkg/metrics"
	"github.com/qcserestipy/mcpricer/pkg/montecarlo"
	"github.com/qcserestipy/mcpricer/pkg/option"
	"github.com/qcserestipy/mcpricer/pkg/report"
	"github.com/qcserestipy/mcpricer/pkg/serve"
)

func init() {
	formatter := &logrus.TextFormatter{}
	formatter.FullTimestamp = true
	formatter.TimestampFormat = time.RFC3339
	logrus.SetLevel(logrus.InfoLevel)
	logrus.SetFormatter(formatter)
	logrus.SetOutput(os.Stderr)
}

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional)")
	paths := flag.Int("paths", config.DefaultPaths, "Number of simulated paths (even)")
	workers := flag.Int("workers", 0, "Number of workers, 0 for one per CPU")
	kind := flag.String("kind", config.DefaultKind.String(), "Option kind: call or put")
	spot := flag.Float64("spot", config.DefaultSpot, "Spot price S0")
	strike := flag.Float64("strike", config.DefaultStrike, "Strike price K")
	maturity := flag.Float64("maturity", config.DefaultMaturity, "Time to expiry in years")
	rate := flag.Float64("rate", config.DefaultRate, "Continuously compounded risk-free rate")
	vol := flag.Float64("vol", config.DefaultVolatility, "Annualized volatility")
	logLevel := flag.String("log-level", config.DefaultLogLevel, "Log level")
	serveMode := flag.Bool("serve", false, "Serve the configured option over HTTP instead of a single run")
	port := flag.Int("port", config.DefaultPort, "HTTP port for -serve")
	maxPaths := flag.Int("max-paths", config.DefaultMaxPaths, "Largest paths value accepted by -serve")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadWithDefaults(*configPath)
		if err != nil {
			logrus.Fatalf("Loading config: %v", err)
		}
		cfg = loaded
	}

	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "paths":
			cfg.Simulation.Paths = *paths
		case "workers":
			cfg.Simulation.Workers = *workers
		case "kind":
			k, err := option.ParseKind(*kind)
			if err != nil {
				flagErr = err
				return
			}
			cfg.Option.Kind = k
		case "spot":
			cfg.Option.Spot = *spot
		case "strike":
			cfg.Option.Strike = *strike
		case "maturity":
			cfg.Option.Maturity = *maturity
		case "rate":
			cfg.Option.Rate = *rate
		case "vol":
			cfg.Option.Volatility = *vol
		case "log-level":
			cfg.Log.Level = *logLevel
		case "port":
			cfg.Server.Port = *port
		case "max-paths":
			cfg.Server.MaxPaths = *maxPaths
		}
	})
	if flagErr != nil {
		logrus.Fatalf("Invalid flags: %v", flagErr)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	level, _ := logrus.ParseLevel(cfg.Log.Level)
	logrus.SetLevel(level)

	m := metrics.New()

	if *serveMode {
		srv := serve.New(cfg.Option, cfg.Simulation.Workers, cfg.Server.MaxPaths, m)
		if err := serve.Launch(srv, cfg.Server.Port); err != nil {
			logrus.Fatalf("Server failed: %v", err)
		}
		return
	}

	logrus.WithFields(logrus.Fields{
		"kind":       cfg.Option.Kind,
		"spot":       cfg.Option.Spot,
		"strike":     cfg.Option.Strike,
		"maturity":   cfg.Option.Maturity,
		"rate":       cfg.Option.Rate,
		"volatility": cfg.Option.Volatility,
		"paths":      cfg.Simulation.Paths,
	}).Info("Starting simulation")

	start := time.Now()
	pricer := montecarlo.NewPricer(montecarlo.WithWorkers(cfg.Simulation.Workers))
	res, err := pricer.Price(context.Background(), montecarlo.Request{
		Paths:  cfg.Simulation.Paths,
		Option: cfg.Option,
	})
	m.Observe(res, err)
	if err != nil {
		logrus.Fatalf("Simulation failed: %v", err)
	}
	elapsed := time.Since(start)

	summary := report.NewSummary(cfg.Option, cfg.Simulation.Paths, res, elapsed)
	if err := report.Write(os.Stdout, summary); err != nil {
		logrus.Fatalf("Writing report: %v", err)
	}
}
