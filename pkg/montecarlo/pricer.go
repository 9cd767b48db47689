package montecarlo

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"io"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/qcserestipy/mcpricer/pkg/option"
	"github.com/qcserestipy/mcpricer/pkg/workerpool"
)

var (
	ErrInvalidRequest      = errors.New("invalid simulation request")
	ErrEntropy             = errors.New("cannot acquire worker seed")
	ErrDegeneratePartition = errors.New("degenerate partition")
	ErrPricerUsed          = errors.New("pricer already used")
)

// State is the coordinator's progress through one run.
type State int

const (
	Configuring State = iota
	Dispatching
	Awaiting
	Aggregating
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Configuring:
		return "configuring"
	case Dispatching:
		return "dispatching"
	case Awaiting:
		return "awaiting"
	case Aggregating:
		return "aggregating"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Request is one pricing call. Paths counts terminal prices, so it is twice
// the number of antithetic pairs and must be even.
type Request struct {
	Paths  int           `json:"paths"`
	Option option.Option `json:"option"`
}

// Estimate is the aggregated, discounted result of a set of partials.
type Estimate struct {
	Price  float64 `json:"price"`
	StdErr float64 `json:"std_err"`
	Pairs  int     `json:"pairs"`
}

// Result is what a finished run reports.
type Result struct {
	RunID     uuid.UUID     `json:"run_id"`
	Price     float64       `json:"price"`
	StdErr    float64       `json:"std_err"`
	ConfLow   float64       `json:"conf_low"`
	ConfHigh  float64       `json:"conf_high"`
	Workers   int           `json:"workers"`
	Pairs     int           `json:"pairs"`
	Remainder int           `json:"remainder"`
	Elapsed   time.Duration `json:"elapsed"`
	Partials  []Partial     `json:"partials"` // per worker, in task order
}

// Aggregate reduces partials into a discounted price. The denominator is the
// number of pairs the partials actually simulated.
func Aggregate(partials []Partial, o option.Option) (Estimate, error) {
	var (
		sum, sumSq float64
		pairs      int
	)
	for _, p := range partials {
		sum += p.Sum
		sumSq += p.SumSq
		pairs += p.Pairs
	}
	if pairs == 0 {
		return Estimate{}, fmt.Errorf("%w: no simulated pairs across %d partials", ErrDegeneratePartition, len(partials))
	}

	n := float64(pairs)
	mean := sum / n
	df := o.DiscountFactor()

	var stdErr float64
	if pairs > 1 {
		variance := math.Max((sumSq-sum*sum/n)/(n-1), 0)
		stdErr = df * math.Sqrt(variance/n)
	}

	return Estimate{Price: mean * df, StdErr: stdErr, Pairs: pairs}, nil
}

type task struct {
	Index int
	Pairs int
	Seed  Seed
}

// PricerOption configures a Pricer.
type PricerOption func(*Pricer)

// WithWorkers sets the degree of parallelism. n < 1 selects runtime.NumCPU().
func WithWorkers(n int) PricerOption {
	return func(p *Pricer) {
		p.workers = n
	}
}

// WithEntropy replaces crypto/rand as the source of worker seeds.
func WithEntropy(r io.Reader) PricerOption {
	return func(p *Pricer) {
		p.entropy = r
	}
}

// WithRunID fixes the id reported in logs and in the Result.
func WithRunID(id uuid.UUID) PricerOption {
	return func(p *Pricer) {
		p.runID = id
	}
}

// WithLogger sets the logger runs report to.
func WithLogger(l logrus.FieldLogger) PricerOption {
	return func(p *Pricer) {
		p.log = l
	}
}

// Pricer coordinates a single simulation run. Build a new one per request.
type Pricer struct {
	workers int
	entropy io.Reader
	log     logrus.FieldLogger
	runID   uuid.UUID

	mu    sync.Mutex
	state State
	used  bool
}

func NewPricer(opts ...PricerOption) *Pricer {
	p := &Pricer{
		entropy: crand.Reader,
		log:     logrus.StandardLogger(),
		state:   Configuring,
		runID:   uuid.New(),
	}
	for _, fn := range opts {
		fn(p)
	}
	if p.workers < 1 {
		p.workers = runtime.NumCPU()
	}
	if p.workers < 1 {
		p.workers = 1
	}
	return p
}

// State returns where the run currently is.
func (p *Pricer) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pricer) setState(s State, log logrus.FieldLogger) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
	log.Debugf("Pricer entered %s", s)
}

// Price runs req to completion. Invalid input is rejected before any worker
// starts. Once dispatched, a run ignores cancellation of ctx and always
// finishes; only a failing worker stops it early.
func (p *Pricer) Price(ctx context.Context, req Request) (Result, error) {
	p.mu.Lock()
	if p.used {
		p.mu.Unlock()
		return Result{}, ErrPricerUsed
	}
	p.used = true
	p.mu.Unlock()

	res, err := p.price(ctx, req)
	if err != nil {
		p.mu.Lock()
		p.state = Failed
		p.mu.Unlock()
	}
	return res, err
}

// seedTasks gives every worker its own seed. The seeds are read before any
// worker starts, so entropy failure never leaves a run half dispatched.
func (p *Pricer) seedTasks(plan Plan) ([]task, error) {
	tasks := make([]task, plan.Workers)
	for i := range tasks {
		seed, err := NewSeed(p.entropy)
		if err != nil {
			return nil, fmt.Errorf("worker %d: %w", i, err)
		}
		tasks[i] = task{Index: i, Pairs: plan.Pairs[i], Seed: seed}
	}
	return tasks, nil
}

func (p *Pricer) price(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	runID := p.runID
	log := p.log.WithField("run_id", runID)

	// Configuring
	if err := req.Option.Validate(); err != nil {
		return Result{}, err
	}
	plan, err := Partition(req.Paths, p.workers)
	if err != nil {
		return Result{}, err
	}

	p.setState(Dispatching, log)
	tasks, err := p.seedTasks(plan)
	if err != nil {
		return Result{}, err
	}

	log.WithFields(logrus.Fields{
		"workers":         plan.Workers,
		"pairs_per_task":  plan.Base,
		"remainder":       plan.Remainder,
		"total_allocated": plan.Total,
		"kind":            req.Option.Kind,
	}).Info("Work distribution prepared")

	pool := workerpool.New[task, Partial](
		workerpool.WithWorkers(plan.Workers),
	)
	o := req.Option
	work := func(_ context.Context, t task) (Partial, error) {
		taskStart := time.Now()
		partial := Simulate(o, t.Pairs, NewSampler(o, t.Seed))
		log.WithFields(logrus.Fields{
			"worker":          t.Index,
			"pairs_processed": t.Pairs,
			"local_mean":      partial.Sum / float64(t.Pairs),
			"duration":        time.Since(taskStart),
		}).Debug("Worker completed")
		return partial, nil
	}

	p.setState(Awaiting, log)
	partials, err := pool.Run(context.WithoutCancel(ctx), tasks, work)
	if err != nil {
		return Result{}, fmt.Errorf("run workers: %w", err)
	}

	p.setState(Aggregating, log)
	est, err := Aggregate(partials, o)
	if err != nil {
		return Result{}, err
	}

	z := distuv.UnitNormal.Quantile(0.975)
	res := Result{
		RunID:     runID,
		Price:     est.Price,
		StdErr:    est.StdErr,
		ConfLow:   est.Price - z*est.StdErr,
		ConfHigh:  est.Price + z*est.StdErr,
		Workers:   plan.Workers,
		Pairs:     est.Pairs,
		Remainder: plan.Remainder,
		Elapsed:   time.Since(start),
		Partials:  partials,
	}
	p.setState(Done, log)

	log.WithFields(logrus.Fields{
		"price":    res.Price,
		"std_err":  res.StdErr,
		"duration": res.Elapsed,
		"pairs":    res.Pairs,
	}).Info("Computation completed")
	return res, nil
}
