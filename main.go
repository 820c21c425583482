// Package main is the entry point for the triage API. It wires the
// knowledge container, rule engine, consultation store, optional LLM
// advisor, and HTTP server together, and handles graceful shutdown.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "net/http/pprof"

	"github.com/Winfry/AfiCare-sub000/advisor"
	"github.com/Winfry/AfiCare-sub000/config"
	"github.com/Winfry/AfiCare-sub000/data"
	"github.com/Winfry/AfiCare-sub000/handlers"
	"github.com/Winfry/AfiCare-sub000/interfaces"
	"github.com/Winfry/AfiCare-sub000/logging"
	"github.com/Winfry/AfiCare-sub000/scheduler"
	"github.com/Winfry/AfiCare-sub000/server"
	"github.com/Winfry/AfiCare-sub000/storage"
	"github.com/Winfry/AfiCare-sub000/triage"
	"github.com/Winfry/AfiCare-sub000/validation"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.InitLogger("logs", cfg.LogRetentionWeeks, cfg.MaxLogFileSize)

	// Knowledge container and load lifecycle
	dataContainer := data.NewDataContainer()
	sched := scheduler.NewDefaultScheduler(dataContainer, cfg.KnowledgeFile)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	// Consultation store: Postgres when configured, in-memory otherwise
	var store interfaces.ConsultationStore
	if cfg.DatabaseURL != "" {
		pgStore, err := storage.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			logging.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pgStore.Close()
		store = pgStore
		logging.Info("Using Postgres consultation store")
	} else {
		store = storage.NewMemoryStore()
		logging.Info("Using in-memory consultation store")
	}

	// Optional LLM second opinion layer
	var secondOpinion interfaces.Advisor
	if cfg.AdvisorEnabled() {
		secondOpinion = advisor.NewClient(cfg.AdvisorURL, cfg.AdvisorModel, cfg.AdvisorAPIKey)
		logging.Info("LLM advisor enabled", "model", cfg.AdvisorModel)
	}

	engine := triage.NewEngine(dataContainer)
	validator := validation.NewInputValidator()
	handler := handlers.NewHTTPHandler(dataContainer, engine, validator, store, secondOpinion)

	srv := server.NewServer(cfg, dataContainer, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	// Create a context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
	}
}
