package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"ecopulse/service"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is a dependency the service needs to be healthy.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RootHandler struct {
	service *service.AnalysisService
	checks  map[string]Pinger
}

func NewRootHandler(service *service.AnalysisService, checks map[string]Pinger) *RootHandler {
	return &RootHandler{service: service, checks: checks}
}

func (h *RootHandler) Root(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Welcome())
}

func (h *RootHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for name, check := range h.checks {
		name, check := name, check
		g.Go(func() error {
			if err := check.Ping(ctx); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Printf("Health check failed: %v", err)
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}

	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (h *RootHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		log.Printf("Error reading submission stats: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	render.JSON(w, r, stats)
}
