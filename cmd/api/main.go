package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/giggleglory/backoffice/api/routes"
	"github.com/giggleglory/backoffice/internal/importer"
	product "github.com/giggleglory/backoffice/internal/products"
	"github.com/giggleglory/backoffice/internal/taxonomy"
	"github.com/giggleglory/backoffice/pkg/config"
	"github.com/giggleglory/backoffice/pkg/db"
	"github.com/giggleglory/backoffice/pkg/logger"
	"github.com/giggleglory/backoffice/pkg/metrics"
	"github.com/giggleglory/backoffice/pkg/migrate"
	"github.com/giggleglory/backoffice/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

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
		logg.Info(ctx, "redis not configured, idempotency replay disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	taxonomyRepo := taxonomy.NewRepository(dbClient.DB())
	resolver, err := taxonomy.NewResolver(taxonomyRepo)
	if err != nil {
		logg.Error(ctx, "failed to create reference resolver", err)
		os.Exit(1)
	}
	taxonomyService, err := taxonomy.NewService(taxonomyRepo)
	if err != nil {
		logg.Error(ctx, "failed to create taxonomy service", err)
		os.Exit(1)
	}

	productRepo := product.NewRepository(dbClient.DB())
	productService, err := product.NewService(productRepo, dbClient, resolver)
	if err != nil {
		logg.Error(ctx, "failed to create product service", err)
		os.Exit(1)
	}

	dispatcher, err := importer.NewDispatcher(taxonomyRepo, productRepo, resolver, importer.DispatcherOptions{
		CreateReferences: cfg.Import.CreateReferences,
	})
	if err != nil {
		logg.Error(ctx, "failed to create import dispatcher", err)
		os.Exit(1)
	}
	importService, err := importer.NewService(importer.ServiceParams{
		Dispatcher: dispatcher,
		Workers:    cfg.Import.Workers,
		Limiter:    importer.NewLimiter(cfg.Import.MaxConcurrent, cfg.Import.QueueTimeout),
		Metrics:    metrics.NewImportMetrics(reg),
		Logger:     logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create import service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			taxonomyService,
			productService,
			importService,
			promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
		return
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "graceful shutdown failed", err)
	}
}
