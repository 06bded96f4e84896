package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/streamerd/cocoso/internal/application"
)

// tenantHostHeader lets a reverse proxy forward the original tenant domain.
const tenantHostHeader = "X-Cocoso-Host"

type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (application.Principal, error)
}

// RequireSession rejects requests without a valid session token and attaches
// the resolved principal to the request context.
func RequireSession(validator SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractTokenFromRequest(r)
			if token == "" {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
				return
			}

			principal, err := validator.ValidateSession(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, application.ErrSessionExpired), errors.Is(err, application.ErrSessionRevoked):
					responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
						ErrorCode: "AUTH_SESSION_EXPIRED",
						Message:   "your session is no longer valid, please sign in again",
					})
				case errors.Is(err, application.ErrUnauthorized), errors.Is(err, application.ErrNotFound):
					responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Message: "the session is invalid, please sign in again"})
				default:
					responder.writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{Message: "session validation failed"})
				}
				return
			}

			ctx := ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ResolveTenant attaches the tenant host to the request context. A reverse
// proxy can override the Host header via X-Cocoso-Host; otherwise the request
// host (without port) is used, falling back to the configured default.
func ResolveTenant(defaultHost string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := strings.TrimSpace(r.Header.Get(tenantHostHeader))
			if host == "" {
				host = r.Host
				if i := strings.IndexByte(host, ':'); i >= 0 {
					host = host[:i]
				}
			}
			if host == "" {
				host = defaultHost
			}
			ctx := ContextWithTenantHost(r.Context(), host)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger attaches a request-scoped logger and logs start and completion.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}

// RequestMetrics records request counts and latencies per method and path.
func RequestMetrics(registry *prometheus.Registry) func(http.Handler) http.Handler {
	factory := promauto.With(registry)

	requests := factory.NewCounterVec(prometheus.CounterOpts{
		Name: "cocoso_http_requests_total",
		Help: "Number of HTTP requests handled.",
	}, []string{"method", "path"})

	durations := factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cocoso_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			path := metricPath(r.URL.Path)
			requests.WithLabelValues(r.Method, path).Inc()
			durations.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// metricPath collapses entity identifiers so label cardinality stays bounded.
func metricPath(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) > 2 && parts[2] != "" {
		parts[2] = ":id"
	}
	return strings.Join(parts, "/")
}
