// Package serve exposes the configured option over HTTP so it can be
// repriced with different path counts without restarting the process.
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	logger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/qcserestipy/mcpricer/pkg/metrics"
	"github.com/qcserestipy/mcpricer/pkg/montecarlo"
	"github.com/qcserestipy/mcpricer/pkg/option"
)

// PricingServer prices one fixed option per request.
type PricingServer struct {
	Option   option.Option
	Workers  int
	MaxPaths int // largest paths value POST /runs accepts
	Router   *chi.Mux
	Runs    *RunStore
	Metrics *metrics.Metrics

	// PricerOptions are appended to every Pricer the server builds.
	PricerOptions []montecarlo.PricerOption
}

func New(o option.Option, workers, maxPaths int, m *metrics.Metrics) *PricingServer {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Logger("router", log.StandardLogger()))
	r.Use(middleware.Recoverer)

	s := &PricingServer{
		Option:   o,
		Workers:  workers,
		MaxPaths: maxPaths,
		Router:   r,
		Runs:     NewRunStore(),
		Metrics:  m,
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())
	createRunRoutes(r, s)
	return s
}

// Launch blocks serving s on targetPort.
func Launch(s *PricingServer, targetPort int) error {
	addr := fmt.Sprintf(":%d", targetPort)
	log.Infof("Starting server on %s", addr)
	return http.ListenAndServe(addr, s.Router)
}

type badRequestError struct{ err error }

func (e badRequestError) Error() string { return e.err.Error() }
func (e badRequestError) Unwrap() error { return e.err }

// BadRequest marks err as the caller's fault.
func BadRequest(err error) error {
	return badRequestError{err}
}

// CreateRoutes wires a JSON POST handler on path. Errors wrapped with
// BadRequest map to 400, everything else to 500.
func CreateRoutes[T any, R any](
	r chi.Router,
	path string,
	fn func(context.Context, T) (R, error),
) {
	r.Post(path, func(w http.ResponseWriter, r *http.Request) {
		var req T
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			http.Error(w, "invalid JSON or schema mismatch: "+err.Error(), http.StatusBadRequest)
			return
		}

		res, err := fn(r.Context(), req)
		if err != nil {
			var bad badRequestError
			if errors.As(err, &bad) {
				http.Error(w, "validation error: "+err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "processing error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, res)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("encode response: %v", err)
	}
}
