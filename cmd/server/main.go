package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hireloop/interviewd/api"
	migrations "github.com/hireloop/interviewd/db"
	"github.com/hireloop/interviewd/internal/ai"
	"github.com/hireloop/interviewd/internal/archive"
	"github.com/hireloop/interviewd/internal/config"
	"github.com/hireloop/interviewd/internal/db"
	"github.com/hireloop/interviewd/internal/jobs"
	sqliterepo "github.com/hireloop/interviewd/internal/repository/sqlite"
	"github.com/hireloop/interviewd/internal/session"
	"github.com/hireloop/interviewd/pkg/models"
	"github.com/hireloop/interviewd/pkg/ollama"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	// optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)
	ollama.SetLogger(logger)

	logger.Info("starting interviewd", slog.String("version", version), slog.String("built", buildTime))

	ctx := context.Background()

	// Open database connection and apply migrations
	dbConn, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Migrate(ctx, dbConn, migrations.Migrations); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	repo := sqliterepo.New(dbConn, logger)

	// LLM engine over the Ollama client
	llm, err := ollama.NewDefaultClient(cfg.Ollama)
	if err != nil {
		log.Fatalf("Failed to create Ollama client: %v", err)
	}
	engine, err := ai.NewEngine(llm, cfg.Engine, logger)
	if err != nil {
		log.Fatalf("Failed to create AI engine: %v", err)
	}

	// Archive + finalize pipeline: completed sessions become jobs; the
	// worker scores them and appends the candidate record.
	arch := archive.NewService(repo, engine, logger)
	jobsRepo := jobs.NewRepository(dbConn)

	mgr := session.NewManager(repo, engine, cfg.Timers, logger, func(snap models.Session) {
		if _, err := archive.EnqueueFinalize(context.Background(), jobsRepo, snap); err != nil {
			logger.Error("enqueue finalize", slog.Any("err", err))
		}
	})
	if err := mgr.Start(ctx); err != nil {
		log.Fatalf("Failed to restore session: %v", err)
	}

	handlers := map[string]jobs.Handler{
		jobs.TypeFinalize: archive.FinalizeHandler(arch, mgr),
	}
	pool := jobs.NewWorkerPool(jobsRepo, handlers, logger, cfg.Workers)
	pool.Start(ctx)

	handler := api.SetupRoutes(cfg, version, buildTime, mgr, arch, repo)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	pool.Stop()
	mgr.Close()

	if err := llm.Close(); err != nil {
		logger.Error("closing ollama client", slog.Any("err", err))
	}
	if err := dbConn.Close(); err != nil {
		logger.Error("closing DB", slog.Any("err", err))
	}

	logger.Info("server exited")
}
