package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/retainly/churn/pkg/auth"
)

// authSkipPrefixes are route prefixes served without a bearer token.
var authSkipPrefixes = []string{
	"/healthz",
	"/readyz",
	"/metrics",
	"/api/v1/auth",
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs every HTTP request with method, path, status,
// duration, and remote address.
func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}

// NewRouter assembles the full HTTP handler chain: routes, token auth, and
// request logging. metricsHandler serves the Prometheus scrape endpoint.
func NewRouter(
	authHandler *AuthHandler,
	predictionHandler *PredictionHandler,
	reportingHandler *ReportingHandler,
	healthHandler *HealthHandler,
	metricsHandler http.Handler,
	tokens *auth.TokenService,
	logger *slog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	authHandler.RegisterRoutes(mux)
	predictionHandler.RegisterRoutes(mux)
	reportingHandler.RegisterRoutes(mux)
	healthHandler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", metricsHandler)

	var handler http.Handler = mux
	handler = auth.Middleware(tokens, authSkipPrefixes)(handler)
	handler = loggingMiddleware(logger)(handler)
	return handler
}
