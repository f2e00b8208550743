package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/noteaapp/notea/internal/api"
	apiMiddleware "github.com/noteaapp/notea/internal/api/middleware"
	"github.com/noteaapp/notea/internal/app"
)

const healthTimeout = 2 * time.Second

// setupRouter creates and configures the application router with all routes and middleware.
func setupRouter(a *app.App, opts ...api.HandlerOption) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(a.Logger))

	cardHandler := api.NewCardHandler(a.Reviews, a.Cards, a.Logger, opts...)
	r.Route("/api", cardHandler.RegisterRoutes)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := a.DB.PingContext(ctx); err != nil {
			a.Logger.Error("health check failed", slog.String("error", err.Error()))
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			a.Logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	return r
}
