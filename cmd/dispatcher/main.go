package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/malyszg/lms-sub001/internal/audit"
	"github.com/malyszg/lms-sub001/internal/cdp"
	"github.com/malyszg/lms-sub001/internal/config"
	"github.com/malyszg/lms-sub001/internal/dispatcher"
	"github.com/malyszg/lms-sub001/internal/logger"
	"github.com/malyszg/lms-sub001/internal/queue/sqs"
	"github.com/malyszg/lms-sub001/internal/repository/clickhouse"
	"github.com/malyszg/lms-sub001/internal/repository/postgres"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.ServiceEnvironment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		if err := log.Sync(); err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting CDP dispatcher",
		zap.String("environment", cfg.ServiceEnvironment))

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	leadRepo := postgres.NewLeadRepository(pool, log)
	defer leadRepo.Close()

	chClient, err := clickhouse.NewClient(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	defer func() {
		if err := chClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}()

	eventStore := clickhouse.NewEventStore(chClient, log)
	if err := eventStore.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize audit schema", zap.Error(err))
	}
	auditLog := audit.NewEventLogger(eventStore, log)

	sqsClient, err := sqs.NewClient(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	registry := cdp.NewRegistry(cfg)
	caller := cdp.NewHTTPCaller(cfg.CDPHTTPTimeout(), log)
	coordinator := cdp.NewCoordinator(registry, caller, sqsClient, auditLog, log)

	handler := dispatcher.NewHandler(leadRepo, coordinator, auditLog, log)
	d := dispatcher.NewDispatcher(sqsClient, handler, log)

	// Health check endpoint
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			if err := leadRepo.Ping(r.Context()); err != nil {
				log.Warn("Health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})

		addr := ":" + cfg.DispatcherHealthCheckPort
		log.Info("Health check server starting", zap.String("address", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	dispatcherCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("Dispatcher starting",
		zap.Int("enabled_systems", len(registry.EnabledSystems())))

	go func() {
		if err := d.Start(dispatcherCtx); err != nil {
			log.Fatal("Dispatcher error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down dispatcher gracefully")
	cancel()
}
