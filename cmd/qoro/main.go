package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	qorohttp "github.com/qorohq/qoro/internal/adapter/http"
	qoromcp "github.com/qorohq/qoro/internal/adapter/mcp"
	qoronats "github.com/qorohq/qoro/internal/adapter/nats"
	"github.com/qorohq/qoro/internal/adapter/openai"
	"github.com/qorohq/qoro/internal/adapter/otel"
	"github.com/qorohq/qoro/internal/adapter/postgres"
	"github.com/qorohq/qoro/internal/adapter/ristretto"
	"github.com/qorohq/qoro/internal/adapter/ws"
	"github.com/qorohq/qoro/internal/config"
	"github.com/qorohq/qoro/internal/domain/user"
	"github.com/qorohq/qoro/internal/logger"
	"github.com/qorohq/qoro/internal/middleware"
	"github.com/qorohq/qoro/internal/resilience"
	"github.com/qorohq/qoro/internal/service"
)

const serviceName = "qoro"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "admin" {
		if err := runAdmin(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, closeLogger := logger.New(cfg.Logging)
	defer closeLogger.Close()
	slog.SetDefault(log)

	log.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"max_tool_rounds", cfg.Pulse.MaxToolRounds,
	)

	ctx := context.Background()

	// --- Telemetry ---
	shutdownOtel, err := otel.Setup(ctx, cfg.Telemetry, serviceName)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOtel(sctx); err != nil {
			log.Warn("otel shutdown failed", "error", err)
		}
	}()

	var metrics *otel.Metrics
	if cfg.Telemetry.Enabled {
		metrics, err = otel.NewMetrics()
		if err != nil {
			return fmt.Errorf("otel metrics: %w", err)
		}
	}

	// --- Infrastructure ---
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	log.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	log.Info("migrations applied")

	store := postgres.NewStore(pool)

	queue, err := qoronats.Connect(ctx, cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer queue.Close()
	log.Info("nats connected")

	idempotencyKV, err := queue.NewKeyValue(ctx, cfg.Idempotency.Bucket, cfg.Idempotency.TTL)
	if err != nil {
		return fmt.Errorf("idempotency bucket: %w", err)
	}

	toolCache, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer toolCache.Close()

	// --- Services ---
	hub := ws.NewHub()
	generator := openai.NewGenerator(cfg.OpenAI)
	breaker := resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)
	registry := service.NewToolRegistry(
		cfg.Pulse.ToolTimeout,
		service.BusinessTools(store, toolCache, cfg.Pulse.ToolCacheTTL)...,
	)

	pulseSvc := service.NewPulseService(
		store, generator, registry, breaker, log,
		cfg.Pulse.MaxToolRounds, cfg.Pulse.LLMTimeout,
		service.PulseOptions{
			Queue:       queue,
			Broadcaster: hub,
			Metrics:     metrics,
		},
	)
	authSvc := service.NewAuthService(store, cfg.Auth)

	// --- MCP ---
	if cfg.MCP.Enabled {
		mcpSrv := qoromcp.NewServer(qoromcp.ServerConfig{
			Addr:    ":" + cfg.MCP.Port,
			Name:    serviceName,
			Version: "0.1.0",
			ServiceActor: user.Actor{
				ID:             cfg.MCP.ServiceUserID,
				OrganizationID: cfg.MCP.OrganizationID,
				Role:           "service",
			},
		}, service.BusinessTools(store, toolCache, cfg.Pulse.ToolCacheTTL), log)
		if err := mcpSrv.Start(); err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mcpSrv.Stop(sctx)
		}()
	}

	// --- HTTP ---
	rl := middleware.NewRateLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	stopCleanup := rl.StartCleanup(cfg.Rate.CleanupInterval, cfg.Rate.MaxIdleTime)
	defer stopCleanup()

	handlers := &qorohttp.Handlers{
		Pulse:   pulseSvc,
		Auth:    authSvc,
		Store:   store,
		Breaker: breaker,
		Hub:     hub,
	}

	r := chi.NewRouter()
	r.Use(qorohttp.CORS(cfg.Server.CORSOrigin))
	r.Use(middleware.RequestID)
	r.Use(qorohttp.Logger)
	r.Use(otel.HTTPMiddleware(serviceName))
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(rl.Handler)
	r.Use(middleware.Auth(authSvc))

	r.Get("/health", handlers.Health)
	r.Get("/ws", hub.HandleWS)
	qorohttp.MountRoutes(r, handlers, idempotencyKV)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Turn requests wait for the model, which can take the better
		// part of a minute with tool rounds.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
		}
	}()

	<-done
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
