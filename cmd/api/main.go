package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/malyszg/lms-sub001/internal/audit"
	"github.com/malyszg/lms-sub001/internal/config"
	"github.com/malyszg/lms-sub001/internal/handler"
	"github.com/malyszg/lms-sub001/internal/logger"
	"github.com/malyszg/lms-sub001/internal/queue/sqs"
	"github.com/malyszg/lms-sub001/internal/repository/clickhouse"
	"github.com/malyszg/lms-sub001/internal/repository/postgres"
	"github.com/malyszg/lms-sub001/internal/service"
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

	log.Info("Starting lead API service",
		zap.String("environment", cfg.ServiceEnvironment),
		zap.String("port", cfg.ServiceAPIPort))

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	leadRepo := postgres.NewLeadRepository(pool, log)
	defer leadRepo.Close()

	if err := leadRepo.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize lead schema", zap.Error(err))
	}

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

	leadService := service.NewLeadService(leadRepo, sqsClient, auditLog, log)

	h := handler.NewHandler(leadService, auditLog, log, cfg.DebugErrors)

	addr := fmt.Sprintf(":%s", cfg.ServiceAPIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
