package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/qcserestipy/mcpricer/pkg/montecarlo"
	"github.com/qcserestipy/mcpricer/pkg/option"
)

type RunStatus string

const (
	StatusPending   RunStatus = "pending"
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// Run is the in-memory record of one pricing request.
type Run struct {
	ID        uuid.UUID          `json:"id"`
	Status    RunStatus          `json:"status"`
	Paths     int                `json:"paths"`
	Option    option.Option      `json:"option"`
	Result    *montecarlo.Result `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// RunStore keeps runs for the lifetime of the process.
type RunStore struct {
	mu    sync.RWMutex
	runs  []*Run
	index map[uuid.UUID]*Run
}

func NewRunStore() *RunStore {
	return &RunStore{index: make(map[uuid.UUID]*Run)}
}

func (s *RunStore) add(r *Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, r)
	s.index[r.ID] = r
}

func (s *RunStore) update(id uuid.UUID, fn func(*Run)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.index[id]; ok {
		fn(r)
	}
}

// List returns copies in creation order.
func (s *RunStore) List() []Run {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Run, len(s.runs))
	for i, r := range s.runs {
		out[i] = *r
	}
	return out
}

func (s *RunStore) Get(id uuid.UUID) (Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.index[id]
	if !ok {
		return Run{}, false
	}
	return *r, true
}

type runRequest struct {
	Paths int `json:"paths"`
}

// price runs one request with a fresh Pricer and records its progress.
func (s *PricingServer) price(ctx context.Context, req runRequest) (Run, error) {
	if req.Paths > s.MaxPaths {
		return Run{}, BadRequest(fmt.Errorf("paths must be <= %d, got %d", s.MaxPaths, req.Paths))
	}

	id := uuid.New()
	s.Runs.add(&Run{
		ID:        id,
		Status:    StatusPending,
		Paths:     req.Paths,
		Option:    s.Option,
		CreatedAt: time.Now(),
	})

	opts := append([]montecarlo.PricerOption{
		montecarlo.WithWorkers(s.Workers),
		montecarlo.WithRunID(id),
	}, s.PricerOptions...)
	pricer := montecarlo.NewPricer(opts...)

	s.Runs.update(id, func(r *Run) { r.Status = StatusRunning })
	res, err := pricer.Price(ctx, montecarlo.Request{Paths: req.Paths, Option: s.Option})
	s.Metrics.Observe(res, err)
	if err != nil {
		s.Runs.update(id, func(r *Run) {
			r.Status = StatusFailed
			r.Error = err.Error()
		})
		if errors.Is(err, montecarlo.ErrInvalidRequest) || errors.Is(err, option.ErrInvalidOption) {
			return Run{}, BadRequest(err)
		}
		return Run{}, fmt.Errorf("run %s: %w", id, err)
	}

	s.Runs.update(id, func(r *Run) {
		r.Status = StatusCompleted
		r.Result = &res
	})
	run, _ := s.Runs.Get(id)
	return run, nil
}

// createRunRoutes wires GET and POST handlers on /runs.
func createRunRoutes(r chi.Router, s *PricingServer) {
	r.Get("/runs", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, s.Runs.List())
	})

	r.Get("/runs/{id}", func(w http.ResponseWriter, req *http.Request) {
		idParam := chi.URLParam(req, "id")
		id, err := uuid.Parse(idParam)
		if err != nil {
			http.Error(w,
				fmt.Sprintf("invalid run ID '%s': %v", idParam, err),
				http.StatusBadRequest,
			)
			return
		}

		run, ok := s.Runs.Get(id)
		if !ok {
			http.Error(w,
				fmt.Sprintf("run not found with ID %s", id),
				http.StatusNotFound,
			)
			return
		}
		writeJSON(w, http.StatusOK, run)
	})

	CreateRoutes[runRequest, Run](r, "/runs", s.price)
}
