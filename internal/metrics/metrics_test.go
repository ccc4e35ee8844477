package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSolve(t *testing.T) {
	m := New()
	m.ObserveSolve("dp", OutcomeOK, 3*time.Millisecond, 153)
	m.ObserveSolve("dp", OutcomeRejected, time.Millisecond, 0)
	m.ObserveSolve("greedy", OutcomeOK, time.Microsecond, 4)

	if got := testutil.ToFloat64(m.solves.WithLabelValues("dp", OutcomeOK)); got != 1 {
		t.Fatalf("expected 1 ok dp solve, got %v", got)
	}
	if got := testutil.ToFloat64(m.solves.WithLabelValues("dp", OutcomeRejected)); got != 1 {
		t.Fatalf("expected 1 rejected dp solve, got %v", got)
	}
	if got := testutil.CollectAndCount(m.solveExplored); got != 2 {
		t.Fatalf("expected explored histograms for 2 algorithms, got %d", got)
	}
}

func TestObserveRequestAndHandler(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodPost, "/api/solve", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `http_requests_total{method="POST",path="/api/solve",status="200"} 1`) {
		t.Fatalf("request counter missing from exposition:\n%s", body)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveSolve("dp", OutcomeOK, time.Millisecond, 1)
	m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
}
