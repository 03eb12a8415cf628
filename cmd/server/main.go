// Package main starts the account HTTP server: it loads configuration,
// opens the storage medium, hydrates the repository and serves the API
// until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/lostprophetsco/saasoft-tz/internal/config"
	"github.com/lostprophetsco/saasoft-tz/internal/logger"
	"github.com/lostprophetsco/saasoft-tz/internal/metrics"
	"github.com/lostprophetsco/saasoft-tz/internal/repository"
	"github.com/lostprophetsco/saasoft-tz/internal/server/handler/http"
	"github.com/lostprophetsco/saasoft-tz/internal/service"
	"github.com/lostprophetsco/saasoft-tz/internal/storage"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const (
	shutdownTimeout = 10 * time.Second
	flushInterval   = 30 * time.Second
)

func main() {
	// Parse command-line, environment and file configuration.
	config.RegisterFlags(pflag.CommandLine)
	config.RegisterServerFlags(pflag.CommandLine)
	pflag.Parse()

	options, err := config.Load(pflag.CommandLine)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", lo.CoalesceOrEmpty(version, "N/A"))
	fmt.Printf("Build date: %s\n", lo.CoalesceOrEmpty(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(lo.CoalesceOrEmpty(options.LogLevel, "info")); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	if err := run(options, zapLogger); err != nil {
		zapLogger.Fatal("server failed", zap.Error(err))
	}
}

func run(options *config.Options, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the storage medium selected by configuration.
	backend, err := storage.Open(ctx, options.StorageConfig())
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			zapLogger.Error("failed to close storage", zap.Error(err))
		}
	}()

	// Load persisted accounts.
	recorder := metrics.New()
	repo := repository.NewAccountRepository(backend, zapLogger, repository.WithMetrics(recorder))
	repo.Hydrate(ctx)
	repo.StartFlusher(ctx, flushInterval)

	// Wire service, handler and router.
	accountService := service.NewAccountService(repo)
	accountHandler := &http.AccountHandler{AccountService: accountService}
	router := http.NewRouter(accountHandler, recorder.Handler(), zapLogger)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		zapLogger.Info("starting HTTP server",
			zap.String("addr", options.Address),
			zap.Bool("tls", options.TLSEnabled()),
			zap.String("storage", lo.CoalesceOrEmpty(options.Storage, storage.DriverFile)))
		var err error
		if options.TLSEnabled() {
			err = server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		zapLogger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	// Last attempt for writes the flusher has not caught up with.
	if !repo.Flush(shutdownCtx) {
		zapLogger.Warn("accounts not flushed before exit")
	}

	zapLogger.Info("server stopped")
	return nil
}
