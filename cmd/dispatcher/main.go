package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/likethemonth/Four-Seasons-Task-sub001/config/logger"
	postgresConfig "github.com/likethemonth/Four-Seasons-Task-sub001/config/storage/postgresql"
	redisConfig "github.com/likethemonth/Four-Seasons-Task-sub001/config/storage/redis"
	config "github.com/likethemonth/Four-Seasons-Task-sub001/config/utils"
	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/adapter/handler/rest"
	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/adapter/monitoring/prometheus"
	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/adapter/queue/rabbitmq"
	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/adapter/storage/memory"
	postgresAdapter "github.com/likethemonth/Four-Seasons-Task-sub001/internal/adapter/storage/postgres"
	redisAdapter "github.com/likethemonth/Four-Seasons-Task-sub001/internal/adapter/storage/redis"
	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/domain"
	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/port"
	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/service"
)

// _shutdownPeriod is time to wait before gracefully shutting server
// _readinessDrainDelay is time to sleep while context shutdown message propagate
const (
	_shutdownPeriod      = 10 * time.Second
	_readinessDrainDelay = 2 * time.Second
)

func main() {
	rootCtx, rootCtxCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCtxCancel()

	// Init config
	appConfig := config.New()
	baseLogger := logger.Build(appConfig.Logger)
	zap.L().Debug("Logger Builded successfully")

	zap.L().Info("Starting the application",
		zap.String("app", appConfig.App.Name),
		zap.String("env", appConfig.App.Env),
		zap.String("owner", appConfig.App.Owner))

	// Init registries
	tasks := memory.NewTaskRegistry(nil)
	workers := memory.NewWorkerRegistry(appConfig.Dispatch.Roster)
	zap.L().Info("Roster provisioned", zap.Int("workers", len(appConfig.Dispatch.Roster)))

	opts := []service.Option{}

	// Metrics
	recorder := prometheus.NewRecorder()
	opts = append(opts, service.WithMetrics(recorder))

	// Init completion archive (optional)
	if appConfig.DB.Enabled {
		dbLogger := baseLogger.Named("DB")
		dbService, err := postgresConfig.New(rootCtx, appConfig.DB, dbLogger)
		if err != nil {
			zap.L().Error("Error initializing database connection", zap.Error(err))
			os.Exit(1)
		}
		defer dbService.Close()
		zap.L().Info("Successfully connected to the database", zap.String("db", appConfig.DB.Connection))

		if err := dbService.Migrate(); err != nil {
			zap.L().Error("Error migrating database", zap.Error(err))
			os.Exit(1)
		}
		zap.L().Info("Successfully migrated the database")

		archive := postgresAdapter.NewHistoryArchive(dbService.Pool, dbService.QueryBuilder, dbLogger)
		opts = append(opts, service.WithArchive(archive))
	}

	// Init snapshot cache (optional)
	var snapshot port.SnapshotStore
	if appConfig.Redis.Enabled {
		cache, err := redisConfig.New(rootCtx, appConfig.Redis)
		if err != nil {
			zap.L().Error("Error initializing cache connection", zap.Error(err))
			os.Exit(1)
		}
		zap.L().Info("Successfully connected to the cache server", zap.String("address", appConfig.Redis.Addr))
		snapshot = redisAdapter.NewSnapshotStore(cache.Client, baseLogger.Named("Snapshot"))
	}

	// Init message broker (optional)
	var broker *rabbitmq.Broker
	if appConfig.AMQP.Enabled {
		var err error
		broker, err = rabbitmq.NewBroker(appConfig.AMQP.URL, baseLogger.Named("AMQP"))
		if err != nil {
			zap.L().Error("Error initializing broker connection", zap.Error(err))
			os.Exit(1)
		}
		defer broker.Close()
		opts = append(opts, service.WithEvents(broker))
	}

	// Init dispatch service
	dispatch := service.NewDispatchService(tasks, workers, baseLogger.Named("Dispatch"), opts...)

	// Consume checkout events from the front desk
	if broker != nil {
		err := broker.ConsumeCheckouts(rootCtx, func(input domain.CheckoutInput) error {
			_, err := dispatch.ProcessCheckout(input)
			return err
		})
		if err != nil {
			zap.L().Error("Error starting checkout consumer", zap.Error(err))
			os.Exit(1)
		}
	}

	// Start the sweep loop
	sweeper := service.NewSweeper(dispatch, snapshot, baseLogger.Named("Sweeper"))
	go sweeper.Run(rootCtx, appConfig.Dispatch.SweepInterval)
	zap.L().Info("Sweep loop started", zap.Duration("interval", appConfig.Dispatch.SweepInterval))

	// Start the HTTP API
	handler := rest.New(dispatch, recorder.Handler(), baseLogger.Named("HTTP"))
	server := &http.Server{
		Addr:    appConfig.HTTP.Addr,
		Handler: handler.Router(),
	}

	go func() {
		zap.L().Info("HTTP API listening", zap.String("addr", appConfig.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error("HTTP server failed", zap.Error(err))
			rootCtxCancel()
		}
	}()

	// Wait for ctx cancelation
	<-rootCtx.Done()

	// Wait for signal propagation
	time.Sleep(_readinessDrainDelay)
	zap.L().Info("Readiness check propagated, now waiting for ongoing requests to finish")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), _shutdownPeriod)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Error shutting down HTTP server", zap.Error(err))
	}

	zap.L().Info("Graceful shutdown complete.")
}
