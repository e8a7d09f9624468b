package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fitcircle/fitcircle/internal/ctxkeys"
	"github.com/fitcircle/fitcircle/internal/metrics"
)

// statusRecorder remembers the first status code written.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.status == 0 {
		sr.status = code
		sr.ResponseWriter.WriteHeader(code)
	}
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.WriteHeader(http.StatusOK)
	}
	return sr.ResponseWriter.Write(b)
}

// Probes and scrapes are neither logged nor timed.
var unlogged = map[string]bool{
	"/healthz": true,
	"/metrics": true,
}

// RequestLogging logs each request with its route, status, duration and
// user, and records request latency by route pattern.
// Must run inside AuthMiddleware so the user id is in the request context.
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if unlogged[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		// The mux sets Pattern on this request once it has matched a route
		metrics.ObserveRequest(r.Pattern, status, elapsed)

		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", r.Pattern,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
			"user_id", ctxkeys.UserID(r.Context()),
		)
	})
}
