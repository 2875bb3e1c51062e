package main

import (
	"context"
	"errors"

	bookingsrepo "ambulink/internal/bookings/repository"
	driversrepo "ambulink/internal/drivers/repository"
	"ambulink/internal/reconciler"
	"ambulink/pkg/app"
	"ambulink/pkg/config"
	"ambulink/pkg/kafka"
	kafka_config "ambulink/pkg/kafka/config"
	kafka_middleware "ambulink/pkg/kafka/middleware"
)

const ServiceName = "reconciler"

func main() {
	cfg := config.Load(ServiceName)
	if !cfg.KafkaEnabled {
		cfg.Log.Fatal("The reconciler consumes booking events and requires KAFKA_ENABLED=true")
	}
	cfg.SetMongo()

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	r := reconciler.NewReconciler(
		driversrepo.NewMongoDriverRepository(cfg),
		bookingsrepo.NewMongoBookingRepository(cfg),
		cfg.Log,
	)

	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.BookingEventsTopic, cfg.ReconcilerGroupID, cfg.BookingEventsDLQTopic, r.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(kafka_middleware.MetricsConsumerMiddleware())
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		cfg.Log.Info("Reconciler consuming booking events",
			"topic", cfg.BookingEventsTopic,
			"group_id", cfg.ReconcilerGroupID,
		)
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, kafka.ErrConsumerClosed) {
			cfg.Log.Fatal("Reconciler consumer stopped", "error", err)
		}
	}()

	// Only /health, /ready and /metrics are served.
	serverApp := app.NewApplication(cfg)
	serverApp.OnShutdown(func() {
		cancel()
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka consumer", "error", err)
		}
	})
	serverApp.SetApp()
	serverApp.Run()
}
