package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/agenthands/moviesearch/internal/config"
	"github.com/agenthands/moviesearch/internal/core"
	"github.com/agenthands/moviesearch/internal/core/synth"
	"github.com/agenthands/moviesearch/internal/llm"
	logpkg "github.com/agenthands/moviesearch/internal/logger"
	"github.com/agenthands/moviesearch/internal/metrics"
	"github.com/agenthands/moviesearch/internal/server"
	"github.com/agenthands/moviesearch/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(cfg.Env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting moviesearch",
		zap.String("env", cfg.Env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
		zap.String("store_driver", cfg.Store.Driver),
	)

	metrics.Register(prometheus.DefaultRegisterer)

	ctx := context.Background()

	movieStore, err := store.Open(ctx, cfg.Store)
	if err != nil {
		logger.Fatal("Failed to open document store", zap.Error(err))
	}
	defer func() { _ = movieStore.Close(context.Background()) }()
	logger.Info("Connected to document store")

	backend, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		logger.Fatal("Failed to initialize LLM client", zap.Error(err))
	}
	if closer, ok := backend.(io.Closer); ok {
		defer closer.Close()
	}
	llmClient := llm.NewRetryClient(backend, llm.RetryConfig{
		Provider:        cfg.LLM.Provider,
		Timeout:         time.Duration(cfg.LLM.TimeoutSec) * time.Second,
		MaxRetries:      cfg.LLM.MaxRetries,
		InitialInterval: time.Duration(cfg.LLM.RetryInitialMs) * time.Millisecond,
	})

	prompt, err := synth.NewPrompt(cfg.Prompts.Query)
	if err != nil {
		logger.Fatal("Invalid prompt template", zap.Error(err))
	}

	search := core.NewMovieSearch(movieStore, synth.NewSynthesizer(llmClient, prompt), cfg.Store.ResultLimit)
	r := server.NewServer(search, movieStore, logger).SetupRouter()

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	logger.Info("Server stopped")
}

// loadConfig reads CONFIG_PATH (or the default path), falling back to
// built-in defaults when no file exists, then applies env overrides.
func loadConfig() (*config.Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = config.DefaultPath
	}

	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = &config.Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
