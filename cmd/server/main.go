package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/acme/faculty/internal/config"
	"github.com/acme/faculty/internal/database"
	"github.com/acme/faculty/internal/events"
	"github.com/acme/faculty/internal/handler"
	"github.com/acme/faculty/internal/logger"
	"github.com/acme/faculty/internal/repository"
	"github.com/acme/faculty/internal/router"
	"github.com/acme/faculty/internal/service"
	"github.com/acme/faculty/internal/validator"
	"github.com/acme/faculty/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("store", cfg.StoreDriver).
		Str("log_level", cfg.LogLevel).
		Msg("Starting faculty service")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Initialize Repositories ───────────────────────────────────────
	health := map[string]handler.Pinger{}
	var (
		facultyRepo repository.FacultyRepository
		adminRepo   repository.AdminRepository
	)
	if cfg.UsesMemoryStore() {
		facultyRepo = repository.NewMemoryFacultyRepository(repository.SeedFaculties()...)
		adminRepo = repository.NewMemoryAdminRepository()
		log.Warn().Msg("Using in-memory store, data is lost on restart")
	} else {
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()

		facultyRepo = repository.NewPostgresFacultyRepository(pool)
		adminRepo = repository.NewAdminRepository(pool)
		health["postgres"] = pool
	}

	// ─── Connect to Redis (optional) ───────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	// ─── Events ───────────────────────────────────────────────────────
	// With redis every instance relays the shared queue into its own hub;
	// without it the hub receives writes directly.
	hub := events.NewHub(log)
	var publisher events.Publisher = hub

	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup
	if rdb != nil {
		defer rdb.Close()
		health["redis"] = handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		publisher = events.NewRedisPublisher(rdb)

		relay := worker.NewEventRelayWorker(rdb, hub, log)
		workers.Add(1)
		go func() {
			defer workers.Done()
			relay.Start(workerCtx)
		}()
	}

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, adminRepo)
	readService := service.NewFacultyReadService(facultyRepo, log)
	writeService := service.NewFacultyWriteService(facultyRepo, publisher, log)

	if cfg.UsesMemoryStore() {
		admin, err := authService.BootstrapAdmin(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to bootstrap admin")
		}
		log.Info().Str("email", admin.Email).Msg("Bootstrap admin ready")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:    handler.NewAuthHandler(authService, log),
		Faculty: handler.NewFacultyHandler(readService, writeService, cfg, log),
		WS:      handler.NewWSHandler(hub, log, cfg.AllowedOrigins),
		Health:  handler.NewHealthHandler(health, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Shutdown does not wait for hijacked WebSocket connections.
	srv.RegisterOnShutdown(handlers.WS.Shutdown)

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", srv.Addr).Str("rest_path", cfg.RestPath).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the relay worker once it has drained the queue.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
