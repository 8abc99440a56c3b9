package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"chovatel/internal/amqp"
	"chovatel/internal/auth"
	"chovatel/internal/config"
	apphttp "chovatel/internal/http"
	"chovatel/internal/log"
	"chovatel/internal/services"
	"chovatel/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	verifier, err := buildVerifier(cfg)
	if err != nil {
		logger.Error("Failed to initialize auth verifier", log.FieldError, err)
		os.Exit(1)
	}

	calculator := services.NewCalculatorService(repo)
	feedback := services.NewFeedbackService(amqpClient)

	srv := apphttp.NewServer(":"+cfg.Port, calculator, feedback, verifier, apphttp.Options{
		CacheSize:    cfg.CacheSize,
		CacheTTL:     cfg.CacheTTL,
		RefreshDelay: cfg.RefreshDelay,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting chovatel server",
		"port", cfg.Port,
		"auth_backend", cfg.AuthBackend,
		"db_path", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func buildVerifier(cfg *config.Config) (auth.Verifier, error) {
	switch cfg.AuthBackend {
	case config.AuthHTTP:
		return auth.NewHTTPVerifier(cfg.AuthUserInfoURL), nil
	default:
		var entries []string
		if cfg.AuthStaticUsers != "" {
			entries = strings.Split(cfg.AuthStaticUsers, ",")
		}
		return auth.NewStaticVerifier(entries)
	}
}
