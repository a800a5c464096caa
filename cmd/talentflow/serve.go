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

	"github.com/spf13/cobra"

	"github.com/talentflow/auth-service/internal/api"
	"github.com/talentflow/auth-service/internal/core/service"
	"github.com/talentflow/auth-service/internal/infrastructure/queue"
	"github.com/talentflow/auth-service/internal/infrastructure/security"
	"github.com/talentflow/auth-service/internal/pkg/config"
	"github.com/talentflow/auth-service/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  `Start the HTTP API and block until SIGINT or SIGTERM.`,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
		Version: version,
	})

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	defer func() {
		if err := store.close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("closing user store")
		}
	}()

	// The pool outlives the signal context so requests still draining during
	// shutdown can hash.
	poolCtx, stopPool := context.WithCancel(context.Background())
	pool := queue.NewHashPool(security.NewBcryptHasher(cfg.Auth.BcryptCost), cfg.Auth.HashWorkers, logger.Named("hash_pool"))
	pool.Start(poolCtx)
	defer func() {
		stopPool()
		pool.Wait()
	}()

	tokens, err := security.NewJWTTokenService(security.TokenConfig{
		Secret: cfg.Auth.JWTSecret,
		TTL:    cfg.Auth.JWTTTL,
		Leeway: cfg.Auth.JWTLeeway,
		Issuer: cfg.Auth.JWTIssuer,
	})
	if err != nil {
		return err
	}

	authService, err := service.NewAuthService(store.repo, pool, tokens, cfg.Auth.AdminCode, logger.Named("auth"))
	if err != nil {
		return err
	}
	if cfg.Auth.AdminCode == "" {
		log.Warn().Msg("ADMIN_REGISTRATION_CODE is empty; admin registration is disabled")
	}

	e := api.NewRouter(api.Dependencies{
		AuthService: authService,
		Checks:      store.checks,
		Log:         logger.Named("http"),
		CORSOrigins: cfg.CORSOrigins,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreBackend).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
