package main

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/hoombar/biosignal/internal/analysis"
	"github.com/hoombar/biosignal/internal/config"
	"github.com/hoombar/biosignal/internal/features"
	"github.com/hoombar/biosignal/internal/handlers"
	"github.com/hoombar/biosignal/internal/logger"
	"github.com/hoombar/biosignal/internal/middleware"
	"github.com/hoombar/biosignal/internal/repository"
	"github.com/hoombar/biosignal/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

// featureConfig maps configuration onto the extractor settings.
func featureConfig(cfg *config.Config) features.Config {
	fc := features.DefaultConfig(cfg.Location())
	fc.EstimatedMaxHR = float64(cfg.User.EstimatedMaxHR)
	fc.NearestTolerance = time.Duration(cfg.Analysis.NearestToleranceMin) * time.Minute
	fc.TrainingLookback = time.Duration(cfg.Analysis.TrainingLookbackHours) * time.Hour
	fc.HighStressThreshold = float64(cfg.Analysis.HighStressThreshold)
	return fc
}

// analysisConfig maps configuration onto the statistical thresholds.
func analysisConfig(cfg *config.Config) analysis.Config {
	ac := analysis.DefaultConfig()
	ac.MinDays = cfg.Analysis.MinDays
	ac.PreliminaryDays = cfg.Analysis.PreliminaryDays
	ac.MinPatternDays = cfg.Analysis.MinPatternDays
	return ac
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override port from flag if provided
	if port != "" {
		cfg.Server.Port = port
	}

	logger.SetDefault(logger.NewSlogLogger(logger.DefaultConfig()))
	log := logger.Default()
	log.Info("starting biosignal API server",
		logger.String("env", cfg.Server.Env),
		logger.String("database", cfg.Database.Path),
		logger.String("timezone", cfg.User.Timezone),
	)

	// Open the SQLite store
	db, err := repository.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	sampleRepo := repository.NewSampleRepository(db)
	sleepRepo := repository.NewSleepRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	habitRepo := repository.NewHabitRepository(db)

	// Initialize services
	location := cfg.Location()
	assembler := features.NewAssembler(sampleRepo, sleepRepo, activityRepo, habitRepo, featureConfig(cfg))
	featureService := service.NewFeatureService(assembler)
	analysisService := service.NewAnalysisService(featureService, location, analysisConfig(cfg))
	ingestService := service.NewIngestService(sampleRepo, sleepRepo, activityRepo, habitRepo, featureService, location)

	// Initialize handlers
	dailyHandler := handlers.NewDailyHandler(featureService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService, cfg.Analysis.Target)
	ingestHandler := handlers.NewIngestHandler(ingestService)
	exportHandler := handlers.NewExportHandler(featureService, location)
	rawHandler := handlers.NewRawHandler(sampleRepo)

	// Set Gin mode based on environment
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())

	// Middleware
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestLogger())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"env":    cfg.Server.Env,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Derived daily features
		v1.GET("/daily/:date", dailyHandler.GetDaily)
		v1.GET("/daily", dailyHandler.GetRange)

		// Analysis
		v1.GET("/analysis/correlations", analysisHandler.GetCorrelations)
		v1.GET("/analysis/patterns", analysisHandler.GetPatterns)
		v1.GET("/analysis/insights", analysisHandler.GetInsights)

		// Schema and export
		v1.GET("/features/metadata", exportHandler.GetMetadata)
		v1.GET("/export/features.csv", exportHandler.ExportCSV)

		// Raw data
		v1.GET("/raw/samples", rawHandler.GetSamples)

		// Ingest
		v1.POST("/ingest/samples", ingestHandler.IngestSamples)
		v1.POST("/ingest/sleep", ingestHandler.IngestSleep)
		v1.POST("/ingest/activities", ingestHandler.IngestActivities)
		v1.POST("/ingest/habits", ingestHandler.IngestHabits)
	}

	log.Info("server listening", logger.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
