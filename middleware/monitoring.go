package middleware

import (
	"crypto/subtle"
	"net/http"
	"time"

	"fitFlowAPI/internal/metrics"

	"github.com/gorilla/mux"
)

// routeLabel uses the mux path template so ids in paths do not explode label
// cardinality.
func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// MonitorMiddleware tracks request counts, durations and auth failures.
func MonitorMiddleware(m *metrics.Manager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// 200 unless WriteHeader is called explicitly
			ww := &responseWriter{w, http.StatusOK}

			next.ServeHTTP(ww, r)

			path := routeLabel(r)
			m.CounterRequests.WithLabelValues(path, r.Method, http.StatusText(ww.statusCode)).Inc()
			m.HistRequestDuration.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())

			switch ww.statusCode {
			case http.StatusUnauthorized:
				m.CounterAuthRejected.WithLabelValues("401_unauthorized").Inc()
			case http.StatusForbidden:
				m.CounterAuthRejected.WithLabelValues("403_forbidden").Inc()
			}
		})
	}
}

// BasicAuthMiddleware protects /metrics. Empty credentials deny everything.
func BasicAuthMiddleware(user, pass string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, p, ok := r.BasicAuth()
			if !ok || user == "" ||
				subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 ||
				subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
				w.Header().Set("WWW-Authenticate", `Basic realm="Metrics"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PprofSecurityMiddleware protects /debug/pprof
func PprofSecurityMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" || subtle.ConstantTimeCompare([]byte(r.Header.Get("X-Pprof-Secret")), []byte(secret)) != 1 {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
