package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/baharkarakas/payment-authorizer/internal/api"
	"github.com/baharkarakas/payment-authorizer/internal/app"
	"github.com/baharkarakas/payment-authorizer/internal/auth"
	"github.com/baharkarakas/payment-authorizer/internal/config"
	"github.com/baharkarakas/payment-authorizer/internal/events"
	"github.com/baharkarakas/payment-authorizer/internal/gate"
	"github.com/baharkarakas/payment-authorizer/internal/logger"
	"github.com/baharkarakas/payment-authorizer/internal/metrics"
	"github.com/baharkarakas/payment-authorizer/internal/repository"
	"github.com/baharkarakas/payment-authorizer/internal/services"
	natsbus "github.com/baharkarakas/payment-authorizer/internal/transport/nats"
	"github.com/baharkarakas/payment-authorizer/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)
	if err := cfg.Validate(); err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("exit", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	backend, err := app.OpenBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	if cfg.SeedFile != "" {
		seed, err := repository.LoadSeed(cfg.SeedFile)
		if err != nil {
			return err
		}
		if err := seed.Apply(ctx, backend.Repos.Seeder); err != nil {
			return err
		}
		log.Info("seeded", "merchants", len(seed.Merchants), "accounts", len(seed.Accounts))
	}

	var bus events.Bus = events.NoopBus{}
	nc, err := natsbus.Connect(cfg.NATSURL)
	if err != nil {
		return err
	}
	if nc != nil {
		defer nc.Drain()
		bus = natsbus.NewBus(nc)
		log.Info("nats connected", "url", cfg.NATSURL)
	}

	// Worker kuyruğu
	wp := worker.NewPool(cfg.Workers)
	defer wp.Stop()

	repos := backend.Repos
	rec := services.NewRecorder(repos.Transactions, repos.Reconciliation, events.NewPublisher(bus, wp), cfg.RetryBackoff)
	authSvc := services.NewAuthorizationService(
		repos.Merchants,
		repos.Accounts,
		repos.Transactions,
		rec,
		gate.NewRandom(cfg.BankUnavailableRate),
		services.AuthorizationOptions{MaxAttempts: cfg.CASMaxAttempts, Backoff: cfg.RetryBackoff},
	)

	if cfg.OperatorPasswordHash == "" {
		log.Warn("OPERATOR_PASSWORD_HASH not set, admin login disabled")
	}

	metrics.Init()
	r := api.NewRouter(api.RouterDeps{
		RateRPS:    cfg.RateRPS,
		Authorizer: authSvc,
		Queries:    services.NewQueryService(repos.Transactions, repos.Reconciliation, repos.Accounts),
		Tokens:     auth.NewTokenManager(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL),
		Operators:  auth.NewOperators(cfg.OperatorUser, cfg.OperatorPasswordHash),
		Pingers:    backend.Pingers,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
