// Package middleware contains the HTTP middleware of the API.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/noteaapp/notea/internal/api/shared"
	"github.com/noteaapp/notea/internal/platform/logger"
)

// NewTraceMiddleware tags every request with a trace ID and stores a logger
// carrying it in the request context. Apply it before the handlers.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			log := base.With(slog.String("trace_id", shared.GetTraceID(ctx)))

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(logger.WithLogger(ctx, log)))
		})
	}
}
