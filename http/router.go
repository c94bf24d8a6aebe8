package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"ecopulse/service"
)

type RouterConfig struct {
	Service        *service.AnalysisService
	MaxUploadBytes int64
	// Limiter throttles /analyze. Nil disables rate limiting.
	Limiter      Limiter
	HealthChecks map[string]Pinger
}

// NewRouter builds the API routes.
func NewRouter(cfg RouterConfig) http.Handler {
	rootHandler := NewRootHandler(cfg.Service, cfg.HealthChecks)
	analysisHandler := NewAnalysisHandler(cfg.Service, cfg.MaxUploadBytes)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Get("/", rootHandler.Root)
	r.Get("/healthz", rootHandler.Health)
	r.Get("/stats", rootHandler.Stats)

	r.Group(func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(func(next http.Handler) http.Handler {
				return RateLimitMiddleware(cfg.Limiter, next)
			})
		}
		r.Post("/analyze", analysisHandler.Analyze)
	})

	return r
}
