package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ulule/limiter/v3"

	"github.com/xavierca1/lead-outreach/internal/infra/http/handlers"
	"github.com/xavierca1/lead-outreach/internal/infra/http/middleware"
)

type routerDeps struct {
	Health     *handlers.HealthHandler
	LeadFiles  *handlers.LeadFileHandler
	Rows       *handlers.RowHandler
	Actions    *handlers.ActionHandler
	Callbacks  *handlers.CallbackHandler
	Signatures *handlers.SignatureHandler

	JWTSecret         string
	CORSOrigins       []string
	LimiterStore      limiter.Store
	RateLimit         string
	CallbackRateLimit string
}

func newRouter(d routerDeps) (http.Handler, error) {
	userLimit, err := middleware.RateLimit("api", d.RateLimit, d.LimiterStore)
	if err != nil {
		return nil, err
	}
	callbackLimit, err := middleware.RateLimit("callback", d.CallbackRateLimit, d.LimiterStore)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", d.Health.Handle)
	r.Handle("/metrics", middleware.MetricsHandler())

	r.With(callbackLimit).Post("/n8n-callback", d.Callbacks.Handle)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SupabaseAuth(d.JWTSecret))
		r.Use(userLimit)

		r.Route("/lead-files", func(r chi.Router) {
			r.Post("/parse-headers", d.LeadFiles.ParseHeaders)
			r.Post("/import", d.LeadFiles.Import)
			r.Get("/", d.LeadFiles.List)
			r.Post("/", d.LeadFiles.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", d.LeadFiles.Get)
				r.Patch("/", d.LeadFiles.Update)
				r.Delete("/", d.LeadFiles.Delete)

				r.Get("/rows", d.Rows.List)
				r.Post("/rows", d.Rows.Add)
				r.Delete("/rows", d.Rows.Delete)
				r.Post("/rows/reindex", d.Rows.Reindex)
				r.Patch("/rows/{rowId}", d.Rows.Update)

				r.Post("/run-action", d.Actions.RunAction)
				r.Get("/runs/{jobId}", d.Actions.GetRun)
			})
		})

		r.Route("/signatures", func(r chi.Router) {
			r.Get("/", d.Signatures.List)
			r.Post("/", d.Signatures.Create)
			r.Patch("/{id}", d.Signatures.Update)
			r.Delete("/{id}", d.Signatures.Delete)
		})
	})

	return r, nil
}
