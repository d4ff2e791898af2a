package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"devradar/config"
	"devradar/connectors"
	"devradar/database"
	"devradar/handlers"
	"devradar/ingest"
	"devradar/signals"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(config.GetLogLevel())

	cfg := config.Load(logger)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	logger.Info("Database connected successfully")

	feedClient := connectors.NewFeedClient(cfg.HTTPTimeout)
	githubClient := connectors.NewGitHubClient(cfg.GitHubBaseURL, cfg.GitHubTokens, cfg.HTTPTimeout)

	var classifier signals.Classifier
	if cfg.AIEnabled && cfg.AIAPIKey != "" {
		classifier = signals.NewChatClassifier(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel, cfg.HTTPTimeout)
	}

	orchestrator := ingest.NewOrchestrator(feedClient, githubClient, db, classifier, cfg, logger)

	ingestHandler := handlers.NewIngestHandler(orchestrator, logger)
	signalsHandler := handlers.NewSignalsHandler(db)
	opportunitiesHandler := handlers.NewOpportunitiesHandler(db)
	resourcesHandler := handlers.NewResourcesHandler(db)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "devradar"})
	})

	api := r.Group("/api")
	{
		api.GET("/signals", signalsHandler.GetSignals)
		api.GET("/stats", signalsHandler.GetStats)
		api.GET("/opportunities", opportunitiesHandler.GetOpportunities)
		api.GET("/resources", resourcesHandler.GetResources)
	}

	cron := r.Group("/api/cron", handlers.CronAuth(cfg.CronSecret))
	{
		cron.POST("/ingest-signals", ingestHandler.IngestSignals)
		cron.POST("/ingest-opportunities", ingestHandler.IngestOpportunities)
		cron.POST("/seed-resources", ingestHandler.SeedResources)
	}

	logger.WithField("addr", cfg.ListenAddr).Info("Starting devradar server")
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.WithError(err).Fatal("Failed to start server")
	}
}
