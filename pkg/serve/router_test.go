package serve

import (
	"bytes"
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/qcserestipy/mcpricer/pkg/metrics"
	"github.com/qcserestipy/mcpricer/pkg/montecarlo"
	"github.com/qcserestipy/mcpricer/pkg/option"
)

func newTestServer(t *testing.T, o option.Option) *PricingServer {
	t.Helper()
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	s := New(o, 2, 1_000_000, metrics.New())
	s.PricerOptions = []montecarlo.PricerOption{
		montecarlo.WithEntropy(rand.NewChaCha8([32]byte{9})),
	}
	return s
}

func referenceOption() option.Option {
	return option.Option{Spot: 100, Strike: 105, Maturity: 1, Rate: 0.05, Volatility: 0.2, Kind: option.Put}
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndFetchRun(t *testing.T) {
	s := newTestServer(t, referenceOption())

	rec := post(t, s.Router, "/runs", `{"paths":20000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /runs status = %d, body %s", rec.Code, rec.Body.String())
	}

	var run Run
	if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
		t.Fatalf("decode run: %v", err)
	}
	if run.Status != StatusCompleted {
		t.Errorf("Status = %q, want %q", run.Status, StatusCompleted)
	}
	if run.Result == nil || run.Result.Pairs != 10000 {
		t.Fatalf("Result = %+v, want 10000 pairs", run.Result)
	}
	if run.Result.RunID != run.ID {
		t.Errorf("Result.RunID = %s, want %s", run.Result.RunID, run.ID)
	}
	if run.Result.Price <= 0 {
		t.Errorf("Price = %v, want > 0", run.Result.Price)
	}

	rec = get(t, s.Router, "/runs/"+run.ID.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /runs/{id} status = %d", rec.Code)
	}

	rec = get(t, s.Router, "/runs")
	var runs []Run
	if err := json.Unmarshal(rec.Body.Bytes(), &runs); err != nil {
		t.Fatalf("decode runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != run.ID {
		t.Errorf("GET /runs = %+v, want the one run", runs)
	}
}

func TestCreateRunRejectsOddPaths(t *testing.T) {
	s := newTestServer(t, referenceOption())

	rec := post(t, s.Router, "/runs", `{"paths":101}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	runs := s.Runs.List()
	if len(runs) != 1 || runs[0].Status != StatusFailed {
		t.Errorf("runs = %+v, want one failed run", runs)
	}
}

func TestCreateRunRejectsTooManyPaths(t *testing.T) {
	s := newTestServer(t, referenceOption())

	rec := post(t, s.Router, "/runs", `{"paths":1000002}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rec.Body.String(), "paths must be <= 1000000") {
		t.Errorf("body = %q, want the limit in the message", rec.Body.String())
	}
	if runs := s.Runs.List(); len(runs) != 0 {
		t.Errorf("runs = %+v, want none recorded", runs)
	}
}

func TestCreateRunRejectsOptionInBody(t *testing.T) {
	s := newTestServer(t, referenceOption())

	rec := post(t, s.Router, "/runs", `{"paths":100,"option":{"spot":1}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetRunErrors(t *testing.T) {
	s := newTestServer(t, referenceOption())

	if rec := get(t, s.Router, "/runs/not-a-uuid"); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid id status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if rec := get(t, s.Router, "/runs/"+uuid.NewString()); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, referenceOption())

	if rec := get(t, s.Router, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("GET /healthz status = %d", rec.Code)
	}

	post(t, s.Router, "/runs", `{"paths":200}`)
	rec := get(t, s.Router, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `mcpricer_runs_total{status="completed"} 1`) {
		t.Errorf("metrics missing completed run:\n%s", rec.Body.String())
	}
}
