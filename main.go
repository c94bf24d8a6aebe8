package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"ecopulse/config"
	"ecopulse/dashboard"
	httpLayer "ecopulse/http"
	"ecopulse/repository"
	"ecopulse/service"
)

const shutdownTimeout = 10 * time.Second

const (
	modeAPI       = "api"
	modeDashboard = "dashboard"
	modeAll       = "all"
)

func main() {
	var (
		configPath string
		mode       string
	)
	flag.StringVar(&configPath, "config", "", "path to a YAML config file")
	flag.StringVar(&mode, "mode", modeAll, "what to serve: api, dashboard or all")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var servers []*http.Server
	switch mode {
	case modeAPI:
		servers = append(servers, newAPIServer(ctx, cfg))
	case modeDashboard:
		servers = append(servers, newDashboardServer(cfg))
	case modeAll:
		servers = append(servers, newAPIServer(ctx, cfg), newDashboardServer(cfg))
	default:
		log.Fatalf("Unknown mode %q", mode)
	}

	if err := serve(ctx, servers); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server exited")
}

func newAPIServer(ctx context.Context, cfg config.Config) *http.Server {
	submissionRepo := repository.NewSubmissionRepositoryMemory()
	analysisService := service.NewAnalysisService(submissionRepo)

	routerCfg := httpLayer.RouterConfig{
		Service:        analysisService,
		MaxUploadBytes: cfg.MaxUploadBytes,
		HealthChecks:   map[string]httpLayer.Pinger{},
	}

	if cfg.RateLimitEnabled() {
		switch cfg.RateLimit.Backend {
		case config.RateLimitBackendRedis:
			counter := repository.NewRedisCounter(cfg.Redis.Addr)
			routerCfg.Limiter = httpLayer.NewCounterLimiter(counter, cfg.RateLimit.Requests, cfg.RateLimit.Window)
			routerCfg.HealthChecks["redis"] = counter
			go func() {
				<-ctx.Done()
				_ = counter.Close()
			}()
		default:
			rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
			routerCfg.Limiter = rateLimiter
			go func() {
				<-ctx.Done()
				rateLimiter.Stop()
			}()
		}
	}

	return &http.Server{
		Addr:         cfg.APIAddr,
		Handler:      httpLayer.NewRouter(routerCfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func newDashboardServer(cfg config.Config) *http.Server {
	client := dashboard.NewClient(cfg.BackendURL, cfg.ClientTimeout)

	handler, err := dashboard.NewHandler(client, cfg.MaxUploadBytes)
	if err != nil {
		log.Fatalf("Error creating dashboard: %v", err)
	}

	return &http.Server{
		Addr:         cfg.DashboardAddr,
		Handler:      handler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ClientTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// serve runs every server until ctx is cancelled or one of them fails,
// then shuts all of them down.
func serve(ctx context.Context, servers []*http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, server := range servers {
		server := server
		g.Go(func() error {
			log.Printf("🚀 Listening on %s", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, server := range servers {
			if err := server.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
