package main

import (
	bookingsrepo "ambulink/internal/bookings/repository"
	drivershandler "ambulink/internal/drivers/handler"
	driversrepo "ambulink/internal/drivers/repository"
	driversservice "ambulink/internal/drivers/service"
	driversvalidator "ambulink/internal/drivers/validator"
	usersrepo "ambulink/internal/users/repository"
	vehicleshandler "ambulink/internal/vehicles/handler"
	vehiclesrepo "ambulink/internal/vehicles/repository"
	vehiclesservice "ambulink/internal/vehicles/service"
	vehiclesvalidator "ambulink/internal/vehicles/validator"
	"ambulink/pkg/app"
	"ambulink/pkg/config"
)

const ServiceName = "fleet"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Fleet service")
	driverService, vehicleService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		drivershandler.NewDriverHandler(driverService, cfg.Log),
		vehicleshandler.NewVehicleHandler(vehicleService, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) (driversservice.DriverService, vehiclesservice.VehicleService) {
	driverRepo := driversrepo.NewMongoDriverRepository(cfg)
	vehicleRepo := vehiclesrepo.NewMongoVehicleRepository(cfg)

	vehicleService := vehiclesservice.NewVehicleService(
		vehicleRepo,
		driverRepo,
		vehiclesvalidator.NewVehicleValidator(cfg.Log),
		cfg,
	)
	driverService := driversservice.NewDriverService(
		driverRepo,
		vehicleRepo,
		usersrepo.NewMongoUserRepository(cfg),
		bookingsrepo.NewMongoBookingRepository(cfg),
		driversvalidator.NewDriverValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Fleet services initialized", "database", cfg.MongoDatabaseName, "use_transactions", cfg.UseTransactions)
	return driverService, vehicleService
}
