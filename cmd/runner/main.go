// Command runner executes the engine's jobs directly against the database,
// for cron invocation or one-off manual retries without the HTTP server.
//
// Usage:
//
//	runner -job all
//	runner -job rollup -household <id> -year 2026 -month 7
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"hearthbook/internal/database"
	"hearthbook/internal/jobs"
	"hearthbook/internal/logger"
	"hearthbook/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Runner error: %v", err)
	}
}

func run() error {
	jobType := flag.String("job", "all", "job type: snapshot, rollup, milestones, schedules, all")
	householdID := flag.String("household", "", "target household id (default: all active households)")
	year := flag.Int("year", 0, "rollup year (default: previous month)")
	month := flag.Int("month", 0, "rollup month 1-12 (default: previous month)")
	flag.Parse()

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	db := dbManager.DB()
	snapshotService := services.NewSnapshotService(db)
	rollupService := services.NewRollupService(db)
	notificationService := services.NewNotificationService(db)
	milestoneService := services.NewMilestoneService(db, notificationService)
	scheduleService := services.NewScheduleService(db)
	runner := jobs.NewRunner(db, snapshotService, rollupService, milestoneService, scheduleService)

	report, err := runner.Run(jobs.Params{
		Types:       []jobs.JobType{jobs.JobType(*jobType)},
		HouseholdID: *householdID,
		Year:        *year,
		Month:       time.Month(*month),
		Now:         time.Now(),
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if report.Failed > 0 {
		return fmt.Errorf("%d household(s) failed", report.Failed)
	}
	return nil
}
