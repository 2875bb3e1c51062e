package main

import (
	"ambulink/internal/settings/handler"
	"ambulink/internal/settings/repository"
	"ambulink/internal/settings/service"
	"ambulink/internal/settings/validator"
	"ambulink/pkg/app"
	"ambulink/pkg/config"
)

const ServiceName = "settings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Settings service")
	settingsService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewSettingsHandler(settingsService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.SettingsService {
	settingsService := service.NewSettingsService(
		repository.NewSettingsRepository(cfg),
		validator.NewSettingsValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Settings service initialized",
		"database", cfg.MongoDatabaseName,
		"cache_enabled", cfg.Client.Redis != nil,
		"cache_ttl", cfg.SettingsCacheTTL,
	)
	return settingsService
}
