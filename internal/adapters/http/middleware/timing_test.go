package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"courtside/internal/adapters/http/perf"
)

// TestTimingMiddleware_RecordsSample verifies a request sample is recorded
// with its status code.
func TestTimingMiddleware_RecordsSample(t *testing.T) {
	collector := perf.NewCollector(64)
	handler := Timing(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest("POST", "/api/groups", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rr.Code)
	}
	if collector.Total() != 1 {
		t.Fatalf("Total = %d, want 1", collector.Total())
	}
	s := collector.Summarize(time.Now().Add(-time.Minute), 10)
	if len(s.SlowRoutes) != 1 || s.SlowRoutes[0].Route != "POST /api/groups" {
		t.Errorf("SlowRoutes = %+v", s.SlowRoutes)
	}
}

// TestTimingMiddleware_CollapsesIDSegments verifies record-specific path
// segments aggregate under one route.
func TestTimingMiddleware_CollapsesIDSegments(t *testing.T) {
	collector := perf.NewCollector(64)
	handler := Timing(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/api/reports/report-101", "/api/reports/report-202"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
	}

	s := collector.Summarize(time.Now().Add(-time.Minute), 10)
	if len(s.SlowRoutes) != 1 {
		t.Fatalf("SlowRoutes = %+v, want one aggregated route", s.SlowRoutes)
	}
	if s.SlowRoutes[0].Route != "GET /api/reports/{id}" || s.SlowRoutes[0].Count != 2 {
		t.Errorf("SlowRoutes[0] = %+v", s.SlowRoutes[0])
	}
}

// TestTimingMiddleware_SkipsStatic verifies static assets are excluded.
func TestTimingMiddleware_SkipsStatic(t *testing.T) {
	collector := perf.NewCollector(64)
	handler := Timing(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/static/style.css", nil))

	if collector.Total() != 0 {
		t.Errorf("Total = %d, want 0 (static excluded)", collector.Total())
	}
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// TestTimingMiddleware_NilCollector verifies the middleware still serves
// without a collector.
func TestTimingMiddleware_NilCollector(t *testing.T) {
	handler := Timing(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/players", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// TestTimingMiddleware_DefaultStatus verifies an implicit 200 is recorded when
// the handler writes a body without calling WriteHeader.
func TestTimingMiddleware_DefaultStatus(t *testing.T) {
	collector := perf.NewCollector(1)
	handler := Timing(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/dashboard", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// TestTimingMiddleware_HandlerPanic verifies the deferred timing runs before a
// panic propagates. Recovery itself belongs to the outer recovery middleware.
func TestTimingMiddleware_HandlerPanic(t *testing.T) {
	collector := perf.NewCollector(64)
	handler := Timing(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate, got nil")
		}
		if collector.Total() != 1 {
			t.Errorf("Total = %d, want 1 (defer must run even on panic)", collector.Total())
		}
	}()

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/panic", nil))
}

// TestRouteLabel verifies the id-collapsing rules.
func TestRouteLabel(t *testing.T) {
	cases := []struct {
		method, path, want string
	}{
		{"GET", "/players", "GET /players"},
		{"GET", "/api/reports/4f9d2c", "GET /api/reports/{id}"},
		{"PUT", "/api/players/player-007", "PUT /api/players/{id}"},
		{"GET", "/reports/view/abc123/history", "GET /reports/view/{id}/history"},
	}
	for _, tc := range cases {
		if got := routeLabel(tc.method, tc.path); got != tc.want {
			t.Errorf("routeLabel(%s %s) = %q, want %q", tc.method, tc.path, got, tc.want)
		}
	}
}

// BenchmarkTimingMiddleware measures per-request overhead.
func BenchmarkTimingMiddleware(b *testing.B) {
	collector := perf.NewCollector(perf.DefaultCapacity)
	handler := Timing(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest("GET", "/api/bench", nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
	}
}
