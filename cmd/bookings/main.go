package main

import (
	"ambulink/internal/bookings/events"
	"ambulink/internal/bookings/handler"
	"ambulink/internal/bookings/repository"
	"ambulink/internal/bookings/service"
	"ambulink/internal/bookings/validator"
	"ambulink/internal/directory"
	driversrepo "ambulink/internal/drivers/repository"
	settingsrepo "ambulink/internal/settings/repository"
	settingsservice "ambulink/internal/settings/service"
	settingsvalidator "ambulink/internal/settings/validator"
	usersrepo "ambulink/internal/users/repository"
	vehiclesrepo "ambulink/internal/vehicles/repository"
	"ambulink/pkg/app"
	"ambulink/pkg/config"
	"ambulink/pkg/kafka"
	kafka_config "ambulink/pkg/kafka/config"
	kafka_middleware "ambulink/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication(cfg)
	bookingService := initServices(cfg, serverApp)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, serverApp *app.Application) service.BookingService {
	userRepo := usersrepo.NewMongoUserRepository(cfg)
	driverRepo := driversrepo.NewMongoDriverRepository(cfg)
	vehicleRepo := vehiclesrepo.NewMongoVehicleRepository(cfg)

	pricer := settingsservice.NewSettingsService(
		settingsrepo.NewSettingsRepository(cfg),
		settingsvalidator.NewSettingsValidator(cfg.Log),
		cfg,
	)

	bookingService := service.NewBookingService(
		repository.NewMongoBookingRepository(cfg),
		service.Dependencies{
			Directory: directory.NewFromRepositories(userRepo, driverRepo, vehicleRepo),
			Ledger:    driverRepo,
			Locator:   driverRepo,
			Pricer:    pricer,
			Events:    initPublisher(cfg, serverApp),
		},
		validator.NewBookingValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Booking service initialized",
		"database", cfg.MongoDatabaseName,
		"use_transactions", cfg.UseTransactions,
		"kafka_enabled", cfg.KafkaEnabled,
	)
	return bookingService
}

func initPublisher(cfg *config.Config, serverApp *app.Application) service.EventPublisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, booking events are logged only")
		return events.NewLogPublisher(cfg.Log)
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(kafka_middleware.MetricsProducerMiddleware())
	}
	serverApp.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})

	return events.NewKafkaPublisher(producer, ServiceName)
}
