package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"kvadrat/server/config"
	"kvadrat/server/internal/api"
	"kvadrat/server/internal/market"
	"kvadrat/server/internal/scheduler"
	"kvadrat/server/internal/sheets"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	// Local .env overrides are optional
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if cfg.Sheet.URL == "" {
		logger.Fatal("SHEET_URL is required")
	}

	logger.WithFields(logrus.Fields{
		"sheet": cfg.Sheet.Name,
		"url":   cfg.Sheet.URL,
	}).Info("Using published sheet as data source")

	// Initialize the market service
	client := sheets.NewClient(cfg, logger)
	service := market.NewService(client, cfg, logger)

	// Run the initial refresh; a failure here is not fatal since the
	// scheduler keeps retrying on its interval
	logger.Info("Running initial market refresh...")
	if err := service.Refresh(context.Background()); err != nil {
		logger.WithError(err).Error("Initial refresh failed")
	}

	// Start the refresh scheduler
	sched := scheduler.NewScheduler(service, logger, cfg.Refresh.Interval)
	sched.Start()
	defer sched.Stop()

	// Initialize router
	router := gin.Default()

	// Apply CORS middleware
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	// Define routes
	api.SetupRoutes(router, service, logger)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Infof("Starting server on port %d", cfg.Server.Port)
	if err := router.Run(addr); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
