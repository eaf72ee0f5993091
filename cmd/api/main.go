package main

import (
	"fmt"
	"net/http"
	"os"

	"hearthbook/internal/config"
	"hearthbook/internal/database"
	"hearthbook/internal/handlers"
	"hearthbook/internal/jobs"
	"hearthbook/internal/logger"
	"hearthbook/internal/middleware"
	"hearthbook/internal/services"
	"hearthbook/internal/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Initialize services
	db := dbManager.DB()
	snapshotService := services.NewSnapshotService(db)
	rollupService := services.NewRollupService(db)
	notificationService := services.NewNotificationService(db)
	milestoneService := services.NewMilestoneService(db, notificationService)
	scheduleService := services.NewScheduleService(db)
	runner := jobs.NewRunner(db, snapshotService, rollupService, milestoneService, scheduleService)

	// Initialize handlers
	jobsHandler := handlers.NewJobsHandler(runner)
	snapshotHandler := handlers.NewSnapshotHandler(snapshotService)
	rollupHandler := handlers.NewRollupHandler(rollupService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Scheduler-triggered jobs (trusted cron caller)
	internal := router.Group("/internal")
	internal.Use(middleware.SchedulerAuthMiddleware(appConfig.SchedulerAPIKey))
	internal.POST("/jobs/run", jobsHandler.RunScheduled)

	// API v1 group (human callers)
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware())

	v1.POST("/jobs/run", jobsHandler.RunForHousehold)
	v1.GET("/snapshots", snapshotHandler.GetSnapshots)
	v1.GET("/rollups", rollupHandler.GetRollups)

	notifications := v1.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.PUT("/:id/read", notificationHandler.MarkRead)

	schedules := v1.Group("/schedules")
	schedules.POST("", scheduleHandler.CreateSchedule)
	schedules.GET("", scheduleHandler.GetSchedules)
	schedules.GET("/:id", scheduleHandler.GetSchedule)
	schedules.DELETE("/:id", scheduleHandler.DeactivateSchedule)

	log.Infof("Starting Hearthbook engine server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
