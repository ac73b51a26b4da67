package middleware

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"courtside/internal/adapters/http/perf"
)

// DefaultSlowRequestMs is the default threshold for slow request warnings.
const DefaultSlowRequestMs = 200

// requestIDCounter is an atomic counter for request IDs.
var requestIDCounter uint64

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the underlying ResponseWriter.
func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// Timing returns middleware that logs request duration and feeds the perf
// collector. Requests to /static/ are excluded. Normal requests log at DEBUG;
// requests above the threshold (COURTSIDE_SLOW_REQUEST_MS, default 200) log
// at WARN.
func Timing(collector *perf.Collector) func(http.Handler) http.Handler {
	threshold := float64(DefaultSlowRequestMs)
	if v := os.Getenv("COURTSIDE_SLOW_REQUEST_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			threshold = float64(n)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			reqID := atomic.AddUint64(&requestIDCounter, 1)
			route := routeLabel(r.Method, r.URL.Path)

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				millis := float64(time.Since(start).Microseconds()) / 1000.0

				if millis >= threshold {
					slog.Warn("slow_request",
						"request_id", reqID,
						"route", route,
						"status", sw.status,
						"duration_ms", millis,
					)
				} else {
					slog.Debug("request",
						"request_id", reqID,
						"route", route,
						"status", sw.status,
						"duration_ms", millis,
					)
				}

				if collector != nil {
					collector.Add(perf.Sample{
						Route:  route,
						Status: sw.status,
						Millis: millis,
						At:     start,
					})
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}

// routeLabel collapses identifier path segments so the perf endpoint
// aggregates per route rather than per record. Generated IDs always carry a
// digit (uuid or seeded suffix); fixed route segments never do.
func routeLabel(method, path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if strings.ContainsAny(seg, "0123456789") {
			segments[i] = "{id}"
		}
	}
	return method + " " + strings.Join(segments, "/")
}
