package services

import (
	"time"

	"hearthbook/internal/models"
	"hearthbook/internal/pagination"
)

// SnapshotServicer defines the contract for net worth snapshot building.
type SnapshotServicer interface {
	// BuildSnapshot computes and upserts the snapshot for the household on
	// asOf's UTC calendar day. Running it twice on the same day overwrites
	// the first run's values in place.
	BuildSnapshot(householdID string, asOf time.Time) (*models.NetWorthSnapshot, error)
	GetSnapshots(householdID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.NetWorthSnapshot], error)
}

// RollupServicer defines the contract for monthly rollup building.
type RollupServicer interface {
	// BuildRollup replaces all rollup rows for (household, year, month) with
	// freshly computed aggregates over cleared transactions.
	BuildRollup(householdID string, year int, month time.Month) ([]models.MonthlyRollup, error)
	GetRollups(householdID string, year int, month time.Month) ([]models.MonthlyRollup, error)
}

// MilestoneServicer defines the contract for threshold/milestone evaluation.
type MilestoneServicer interface {
	// EvaluateHousehold scans bill reminders, goal milestones, budget alerts,
	// and insurance renewals for one household and returns the number of
	// notification conditions that fired.
	EvaluateHousehold(householdID string, now time.Time) (int, error)
}

// CreateScheduleInput carries the fields for creating a recurring schedule.
type CreateScheduleInput struct {
	Description string
	Amount      int64
	Currency    string
	AccountID   string
	ToAccountID *string
	CategoryID  *string
	Frequency   models.Frequency
	DayOfWeek   *int
	DayOfMonth  *int
	MonthOfYear *int
	StartDate   time.Time
	EndDate     *time.Time
	AutoCreate  bool
}

// ScheduleServicer defines the contract for recurring schedule management
// and processing.
type ScheduleServicer interface {
	CreateSchedule(householdID string, input CreateScheduleInput, now time.Time) (*models.RecurringSchedule, error)
	GetHouseholdSchedules(householdID string, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.RecurringSchedule], error)
	GetScheduleByID(householdID, scheduleID string) (*models.RecurringSchedule, error)
	DeactivateSchedule(householdID, scheduleID string) error
	// AdvanceDueSchedules materializes transactions for due auto-create
	// schedules and steps NextOccurrence past now. Returns the number of
	// schedules advanced.
	AdvanceDueSchedules(householdID string, now time.Time) (int, error)
}

// NotificationServicer defines the contract for the notification sink:
// household fan-out on write, dedup lookups, and the user-facing feed.
type NotificationServicer interface {
	// EmitToHousehold creates one notification row per active household
	// member and returns the number of rows written.
	EmitToHousehold(householdID string, n models.Notification) (int, error)
	// HasRecent reports whether a notification for the resource already
	// exists. An empty triggerValue matches any; a nil since means an
	// unbounded look-back.
	HasRecent(householdID, resourceType, resourceID, triggerValue string, since *time.Time) (bool, error)
	GetUserNotifications(userID string, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error)
	MarkRead(userID, notificationID string) error
}
