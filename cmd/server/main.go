package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dgallion1/docbrief/internal/api"
	"github.com/dgallion1/docbrief/internal/chunker"
	"github.com/dgallion1/docbrief/internal/config"
	"github.com/dgallion1/docbrief/internal/llm"
	"github.com/dgallion1/docbrief/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Best effort; env vars win over a .env file.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	tokenizer, err := chunker.NewTokenizer()
	if err != nil {
		log.Error("tokenizer init failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	apiKey, baseURL, model := cfg.Provider()
	stats := llm.NewStats(time.Hour)
	client := llm.NewOpenAI(llm.Options{APIKey: apiKey, BaseURL: baseURL}, stats, log)

	orch := pipeline.NewOrchestrator(cfg, client, tokenizer, log)
	service := pipeline.NewService(cfg, orch, log)
	service.Start(ctx)

	srv := api.NewServer(service, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		service.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting docbrief", "port", cfg.Port, "model", model)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
