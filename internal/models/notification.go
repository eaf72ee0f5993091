package models

import (
	"encoding/json"
	"time"

	"hearthbook/internal/uuid"

	"gorm.io/gorm"
)

// NotificationType represents which rule family produced a notification.
type NotificationType string

const (
	NotificationTypeBillReminder     NotificationType = "bill_reminder"
	NotificationTypeGoalMilestone    NotificationType = "goal_milestone"
	NotificationTypeBudgetAlert      NotificationType = "budget_alert"
	NotificationTypeInsuranceRenewal NotificationType = "insurance_renewal"
)

// NotificationPriority represents the display priority of a notification.
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
)

// Resource types referenced by notifications.
const (
	ResourceRecurringSchedule = "recurring_schedule"
	ResourceGoal              = "goal"
	ResourceBudget            = "budget"
	ResourceInsurancePolicy   = "insurance_policy"
)

// Notification represents an alert emitted by the milestone evaluator and
// fanned out to every member of the owning household. (ResourceType,
// ResourceID, TriggerValue) identifies the condition that fired and is the
// dedup key; Metadata carries the family-specific payload as JSON.
// Append-only time-series data — no Base embed, no soft deletes.
type Notification struct {
	ID          string               `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string               `gorm:"type:uuid;not null;index" json:"user_id"`
	HouseholdID string               `gorm:"type:uuid;not null;index" json:"household_id"`
	Type        NotificationType     `gorm:"not null;index" json:"type"`
	Priority    NotificationPriority `gorm:"not null;default:'normal'" json:"priority"`
	Title       string               `gorm:"not null" json:"title"`
	Body        string               `json:"body"`
	Link        string               `json:"link,omitempty"`

	ResourceType string `gorm:"not null;index:idx_notifications_resource" json:"resource_type"`
	ResourceID   string `gorm:"type:uuid;not null;index:idx_notifications_resource" json:"resource_id"`
	TriggerValue string `gorm:"index:idx_notifications_resource" json:"trigger_value"`

	Metadata  string    `gorm:"type:text" json:"metadata,omitempty"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New()
	}
	return nil
}

// BillReminderMeta is the payload for bill_reminder notifications.
type BillReminderMeta struct {
	ScheduleID string    `json:"schedule_id"`
	DueDate    time.Time `json:"due_date"`
	Amount     int64     `json:"amount"`
	Currency   string    `json:"currency"`
}

// GoalMilestoneMeta is the payload for goal_milestone notifications.
type GoalMilestoneMeta struct {
	GoalID          string  `json:"goal_id"`
	Milestone       int     `json:"milestone"` // 25, 50, 75, or 100
	ProgressPercent float64 `json:"progress_percent"`
}

// BudgetAlertLevel distinguishes warning from critical budget alerts.
type BudgetAlertLevel string

const (
	BudgetAlertWarning  BudgetAlertLevel = "warning"
	BudgetAlertCritical BudgetAlertLevel = "critical"
)

// BudgetAlertMeta is the payload for budget_alert notifications.
type BudgetAlertMeta struct {
	BudgetID     string           `json:"budget_id"`
	Level        BudgetAlertLevel `json:"level"`
	PercentSpent float64          `json:"percent_spent"`
	Spent        int64            `json:"spent"`
	Budgeted     int64            `json:"budgeted"`
}

// InsuranceRenewalMeta is the payload for insurance_renewal notifications.
type InsuranceRenewalMeta struct {
	PolicyID    string    `json:"policy_id"`
	DaysOut     int       `json:"days_out"` // 30, 7, or 1
	RenewalDate time.Time `json:"renewal_date"`
}

// SetMetadata serializes a family-specific payload into the Metadata column.
func (n *Notification) SetMetadata(payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	n.Metadata = string(raw)
	return nil
}
