package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/pedidos-storefront/api/routes"
	"github.com/angelmondragon/pedidos-storefront/internal/catalog"
	"github.com/angelmondragon/pedidos-storefront/internal/checkout"
	"github.com/angelmondragon/pedidos-storefront/internal/cron"
	"github.com/angelmondragon/pedidos-storefront/internal/panel"
	"github.com/angelmondragon/pedidos-storefront/pkg/backend"
	"github.com/angelmondragon/pedidos-storefront/pkg/config"
	"github.com/angelmondragon/pedidos-storefront/pkg/logger"
	"github.com/angelmondragon/pedidos-storefront/pkg/metrics"
	"github.com/angelmondragon/pedidos-storefront/pkg/redis"
)

const serviceName = "storefront"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogOutputFormat(),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(ctx, "redis not configured, rate limits and checkout replay disabled")
	}

	client, err := backend.NewClient(
		cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithMetrics(metrics.NewBackendMetrics(registry)),
		backend.WithLogger(logg),
	)
	if err != nil {
		logg.Error(ctx, "failed to create backend client", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Orders:          client,
		MessagingDomain: cfg.Messaging.Domain,
		Logger:          logg,
		Metrics:         metrics.NewCheckoutMetrics(registry),
	})
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Catalogs:    client,
		Checkout:    checkoutService,
		Logger:      logg,
		DefaultSlug: cfg.Catalog.DefaultSlug,
		IdleTTL:     cfg.Sessions.IdleTTL,
		MaxSessions: cfg.Sessions.MaxActive,
	})
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	panelService, err := panel.NewService(panel.ServiceParams{
		Backend:      client,
		Logger:       logg,
		PublicOrigin: cfg.Catalog.PublicOrigin,
		IdleTTL:      cfg.Sessions.IdleTTL,
		MaxSessions:  cfg.Sessions.MaxActive,
	})
	if err != nil {
		logg.Error(ctx, "failed to create panel service", err)
		os.Exit(1)
	}

	catalogSweep, err := cron.NewSessionSweepJob("catalog-session-sweep", catalogService)
	if err != nil {
		logg.Error(ctx, "failed to create catalog sweep job", err)
		os.Exit(1)
	}
	panelSweep, err := cron.NewSessionSweepJob("panel-session-sweep", panelService)
	if err != nil {
		logg.Error(ctx, "failed to create panel sweep job", err)
		os.Exit(1)
	}
	sweeper, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Jobs:     []cron.Job{catalogSweep, panelSweep},
		Metrics:  metrics.NewJobMetrics(registry),
		Interval: cfg.Sessions.SweepInterval,
	})
	if err != nil {
		logg.Error(ctx, "failed to create session sweeper", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": client.BaseURL(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Dependencies{
			Catalog:  catalogService,
			Panel:    panelService,
			Redis:    redisClient,
			Gatherer: registry,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		if err := sweeper.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "session sweeper stopped unexpectedly", err)
		}
	}()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting storefront server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			logg.Error(ctx, "storefront server stopped unexpectedly", err)
			stop()
			<-sweepDone
			os.Exit(1)
		}
	}

	logg.Info(ctx, "storefront shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "server forced to shutdown", err)
	}
	<-sweepDone
}
