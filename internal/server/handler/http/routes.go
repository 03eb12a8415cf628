// Package http provides HTTP routing and middleware configuration
// for the account service.
package http

import (
	"net/http"

	"github.com/lostprophetsco/saasoft-tz/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the account
// API under /api and, when metricsHandler is not nil, Prometheus metrics on
// /metrics.
//
// Routes:
//
//	GET    /api/accounts            → accountHandler.List
//	GET    /api/accounts/saved      → accountHandler.Saved
//	GET    /api/accounts/has-local  → accountHandler.HasLocal
//	GET    /api/accounts/new        → accountHandler.Template
//	POST   /api/accounts            → accountHandler.Create
//	GET    /api/accounts/{id}       → accountHandler.Get
//	PUT    /api/accounts/{id}       → accountHandler.Update
//	DELETE /api/accounts/{id}       → accountHandler.Delete
//	POST   /api/accounts/{id}/type  → accountHandler.ChangeType
//	POST   /api/accounts/{id}/save  → accountHandler.Save
//
// Middleware chain (applied in order):
//  1. RequestID                          - tags each request with an id
//  2. WithRequestLogging(logger)         - logs incoming requests
//  3. Recoverer                          - turns panics into 500
//  4. AllowContentType("application/json") - rejects non-JSON bodies
//  5. NoStore                            - disables caching of API responses
func NewRouter(
	accountHandler *AccountHandler,
	metricsHandler http.Handler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	// Only allow request bodies with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.NoStore)

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/accounts", func(r chi.Router) {
		r.Get("/", accountHandler.List)
		r.Post("/", accountHandler.Create)
		r.Get("/saved", accountHandler.Saved)
		r.Get("/has-local", accountHandler.HasLocal)
		r.Get("/new", accountHandler.Template)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", accountHandler.Get)
			r.Put("/", accountHandler.Update)
			r.Delete("/", accountHandler.Delete)
			r.Post("/type", accountHandler.ChangeType)
			r.Post("/save", accountHandler.Save)
		})
	})

	return r
}
