// @title           Emergency Card API
// @version         1.0
// @description     Issues emergency medical cards and serves their public, QR-reachable disclosure views.

// @host      localhost:8080
// @BasePath  /
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/unicorn-byte/emergency-card/internal/api"
	"github.com/unicorn-byte/emergency-card/internal/api/handlers"
	"github.com/unicorn-byte/emergency-card/internal/audit"
	"github.com/unicorn-byte/emergency-card/internal/config"
	"github.com/unicorn-byte/emergency-card/internal/crypto"
	"github.com/unicorn-byte/emergency-card/internal/logger"
	"github.com/unicorn-byte/emergency-card/internal/repositories"
)

func main() {
	log, err := logger.Init(config.Envs.Environment)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	// Connect to database
	repositories.ConnectDatabase()

	if config.Envs.Storage.Enabled() {
		if err := repositories.InitAssetStore(config.Envs.Storage); err != nil {
			log.Fatal("failed to initialize card asset store", zap.Error(err))
		}
	}

	// The envelope is built once and shared; everything sealed at rest
	// depends on this one key.
	envelope, err := crypto.New(config.Envs.EncryptionKey)
	if err != nil {
		log.Fatal("failed to initialize encryption envelope", zap.Error(err))
	}

	auditor := audit.New(repositories.DB, config.Envs.AuditQueueSize)
	handlers.Init(envelope, auditor)

	mux := api.SetupRouter()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Envs.Port),
		Handler: mux,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return auditor.Run(ctx)
	})

	g.Go(func() error {
		log.Info("Starting emergency-card server", zap.String("port", config.Envs.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
	log.Info("Server stopped")
}
