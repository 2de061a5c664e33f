package main

import (
	"estatify/server/config"
	"estatify/server/internal/api"
	"estatify/server/internal/assistant"
	"estatify/server/internal/database"
	"estatify/server/internal/finance"
	"estatify/server/internal/processor"
	"estatify/server/internal/sources"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	level, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.WithError(err).Warnf("Unknown log level %q, using info", cfg.Server.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.Infof("Using database at: %s", cfg.Server.DatabasePath)

	// Initialize database
	db, err := database.NewDatabase(cfg.Server.DatabasePath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	calculator := finance.NewCalculator(cfg.Assumptions)
	registry := sources.NewDefaultRegistry(cfg.Sources.Timeout, logger)
	importer := processor.NewImporter(db, registry, calculator, cfg, logger)
	chat := assistant.NewService(assistant.NewOpenAIProvider(cfg.Assistant), db, cfg.Assistant.Timeout, logger)
	if cfg.Assistant.APIKey == "" {
		logger.Warn("No assistant API key configured, chat will answer with the fallback response")
	}

	handler := api.NewHandler(cfg, db, importer, chat, logger)

	if level < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))

	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
