package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tradein-valuation/internal/api"
	"tradein-valuation/internal/app"
	"tradein-valuation/internal/config"
	"tradein-valuation/internal/scheduler"
	"tradein-valuation/internal/tradein"
	"tradein-valuation/internal/valuation"
	"tradein-valuation/pkg/logger"
)

func main() {
	envFile := flag.String("env", "", "Path to a .env file (default: ./.env if present)")
	flag.Parse()

	settings, err := config.LoadEnv(*envFile)
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(settings.Server.Env))
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	tables, err := config.Load(settings.ValuationConfig)
	if err != nil {
		baseLogger.Fatal("failed to load valuation tables",
			zap.String("path", settings.ValuationConfig), zap.Error(err))
	}
	engine, err := valuation.NewEngine(*tables)
	if err != nil {
		baseLogger.Fatal("invalid valuation tables", zap.Error(err))
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	backend, err := app.Open(startCtx, settings, baseLogger)
	if err != nil {
		cancelStart()
		baseLogger.Fatal("failed to open profile store", zap.Error(err))
	}
	tradeInRepo, err := backend.TradeIns(startCtx)
	cancelStart()
	if err != nil {
		baseLogger.Fatal("failed to open trade-in store", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := backend.Close(closeCtx); err != nil {
			baseLogger.Error("failed to close backend", zap.Error(err))
		}
	}()

	valuationSvc := valuation.NewService(backend.Store, engine,
		settings.Profiles.LookupTimeout, baseLogger.Named("svc.valuation"))
	tradeInSvc := tradein.NewService(valuationSvc, tradeInRepo, baseLogger.Named("svc.tradein"))

	if backend.File != nil && settings.Profiles.ReloadCron != "" {
		var invalidator scheduler.Invalidator
		if backend.Cache != nil {
			invalidator = backend.Cache
		}
		sched, err := scheduler.New(settings.Profiles.ReloadCron, backend.File, invalidator, baseLogger.Named("scheduler"))
		if err != nil {
			baseLogger.Fatal("failed to init scheduler", zap.Error(err))
		}
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	router := api.New(api.Options{
		Valuer:         valuationSvc,
		Store:          backend.Store,
		Tables:         engine.Tables(),
		TradeIns:       tradeInSvc,
		CORSOrigins:    settings.Server.CORSOrigins,
		RateLimitRPS:   settings.RateLimit.RPS,
		RateLimitBurst: settings.RateLimit.Burst,
		Production:     settings.Production(),
		Logger:         baseLogger.Named("router"),
	})

	srv := &http.Server{
		Addr:         ":" + settings.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting",
			zap.String("port", settings.Server.Port),
			zap.String("env", settings.Server.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
