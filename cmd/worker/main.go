package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcinfra "reviews/infra/grpc"
	"reviews/infra/postgres"
	"reviews/infra/rabbitmq"
	"reviews/internal/consumers"
	"reviews/pkg/config"
	"reviews/pkg/events"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, _ := zapConfig.Build()
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	zap.L().Info("Reviews Worker Service starting...")

	appConfig := config.Read()
	zap.L().Info("Worker config loaded",
		zap.String("serviceName", appConfig.ServiceName),
		zap.String("rabbitMQURL", appConfig.RabbitMQURL),
	)

	if appConfig.RabbitMQURL == "" {
		zap.L().Fatal("RABBITMQ_URL is required for worker service")
	}

	pgRepository := postgres.NewPgRepository(
		appConfig.PostgresHost,
		appConfig.PostgresDatabase,
		appConfig.PostgresUsername,
		appConfig.PostgresPassword,
		appConfig.PostgresPort,
	)

	commentHandler := consumers.NewCommentEventHandler(
		pgRepository,
		zap.L(),
	)

	// Queue name convention: {service}.{domain}.{events}.{version}
	commentConsumerConfig := rabbitmq.ConsumerConfig{
		Exchange:      events.ReviewExchange,
		QueueName:     "reviews.comment.all.v1",
		RoutingKeys:   []string{"review.comment.*.v1"},
		ServiceName:   appConfig.ServiceName,
		PrefetchCount: 10,
	}

	commentConsumer, err := rabbitmq.NewConsumer(appConfig.RabbitMQURL, commentConsumerConfig)
	if err != nil {
		zap.L().Fatal("Failed to create comment consumer", zap.Error(err))
	}
	defer commentConsumer.Close()

	// The worker has no HTTP surface; liveness probes hit the gRPC health service.
	healthServer, err := grpcinfra.NewServer(appConfig)
	if err != nil {
		zap.L().Fatal("Failed to create gRPC health server", zap.Error(err))
	}

	go func() {
		if err := healthServer.Start(); err != nil {
			zap.L().Error("gRPC health server stopped", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		zap.L().Info("Starting comment event consumer...")
		if err := commentConsumer.Consume(ctx, commentHandler.HandleEvent); err != nil {
			if err != context.Canceled {
				zap.L().Error("Comment consumer error", zap.Error(err))
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := pgRepository.GetPoolStats()
				zap.L().Info("Connection pool stats",
					zap.Int("max_open", stats["max_open_connections"].(int)),
					zap.Int("open", stats["open_connections"].(int)),
					zap.Int("in_use", stats["in_use"].(int)),
					zap.Int("idle", stats["idle"].(int)),
					zap.Int64("wait_count", stats["wait_count"].(int64)),
					zap.Int64("wait_duration_ms", stats["wait_duration_ms"].(int64)),
				)
			}
		}
	}()

	zap.L().Info("Worker service started successfully. Waiting for events...")
	zap.L().Info("Consuming from exchange", zap.String("exchange", events.ReviewExchange))

	<-sigChan
	zap.L().Info("Shutdown signal received, stopping worker service...")
	cancel()

	if err := healthServer.GracefulStop(); err != nil {
		zap.L().Error("Error stopping gRPC health server", zap.Error(err))
	}

	zap.L().Info("Worker service stopped gracefully")
}
