package main

import (
	"fmt"
	"os"

	"hms-analytics/internal/auth"
	"hms-analytics/internal/config"
	"hms-analytics/internal/db"
	httphandler "hms-analytics/internal/http"
	"hms-analytics/internal/http/middleware"
	"hms-analytics/internal/logger"
	"hms-analytics/internal/repository"
	"hms-analytics/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	database, err := db.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect database")
	}

	metricsRepo := repository.NewMetricsRepository(database)
	exportRepo := repository.NewExportRepository(database)
	dashboardService := service.NewDashboardService(metricsRepo, exportRepo, appLogger, nil)
	exportService := service.NewExportService(exportRepo, appLogger, nil)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(dashboardService, exportService, appLogger)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().Str("addr", addr).Msg("starting analytics service")

	if err := router.Run(addr); err != nil {
		appLogger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}
