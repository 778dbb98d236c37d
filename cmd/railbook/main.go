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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mateusmacedo/go-railbook/internal/config"
	"github.com/mateusmacedo/go-railbook/internal/railbook"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	pkgInfra "github.com/mateusmacedo/go-railbook/pkg/infrastructure"
	"github.com/mateusmacedo/go-railbook/pkg/infrastructure/credential"
	zapAdapter "github.com/mateusmacedo/go-railbook/pkg/infrastructure/zaplogger/adapter"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "railbook:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.MustLoad()

	appLogger, err := zapAdapter.NewZapAppLogger(zapAdapter.Options{
		AppName:     "railbook",
		Level:       cfg.Log.Level,
		OutputPaths: cfg.Log.Outputs,
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	trainStore, userStore, err := newStores(cfg.Storage, appLogger)
	if err != nil {
		return err
	}

	eventBus, closeEvents, err := newEventBus(ctx, cfg.Events, appLogger)
	if err != nil {
		return err
	}
	defer closeEvents()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	slice := railbook.NewRailbookSlice(
		railbook.NewSimpleBuses(appLogger),
		eventBus,
		railbook.Dependencies{
			TrainStore:  trainStore,
			UserStore:   userStore,
			Verifier:    credential.NewBcryptVerifier(cfg.Security.BcryptCost),
			IDGenerator: pkgInfra.GenerateUUID,
			Clock:       pkgInfra.SystemClock,
			Logger:      appLogger,
			Registry:    registry,
			AMQPURL:     cfg.Events.AMQPURL,
		},
	)

	if err := slice.Load(ctx); err != nil {
		pkgApp.LogError(ctx, appLogger, "failed to load data", err, nil)
		return fmt.Errorf("initialization error: %w", err)
	}

	var server *http.Server
	if cfg.HTTP.Enabled {
		server = &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           slice.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			appLogger.Info(ctx, "http server starting", map[string]interface{}{"addr": cfg.HTTP.Addr})
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				pkgApp.LogError(ctx, appLogger, "http server failed", err, nil)
			}
		}()
	}

	// The shell blocks on stdin, so a signal must not wait for it.
	shellDone := make(chan error, 1)
	go func() {
		shellDone <- slice.NewShell(os.Stdin, os.Stdout).Run(ctx)
	}()

	var shellErr error
	select {
	case shellErr = <-shellDone:
	case <-ctx.Done():
		appLogger.Info(context.Background(), "signal received, shutting down", nil)
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			pkgApp.LogError(shutdownCtx, appLogger, "http server shutdown failed", err, nil)
		}
	}

	if shellErr != nil && !errors.Is(shellErr, context.Canceled) {
		return shellErr
	}
	appLogger.Info(context.Background(), "railbook stopped", nil)
	return nil
}
