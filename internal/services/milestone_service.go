package services

import (
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	apperrors "hearthbook/internal/errors"
	"hearthbook/internal/logger"
	"hearthbook/internal/models"
)

// Dedup windows per rule family.
const (
	billReminderDedupWindow = 24 * time.Hour
	budgetAlertDedupWindow  = 3 * 24 * time.Hour
)

// billReminderWindowDays is how far ahead the evaluator looks for upcoming
// recurring payments.
const billReminderWindowDays = 3

// goalMilestones are the progress percentages that trigger a notification,
// highest first so the scan finds the top crossed milestone.
var goalMilestones = []int{100, 75, 50, 25}

// renewalBoundaries are the exact days-out marks at which an insurance
// renewal reminder fires.
var renewalBoundaries = []int{30, 7, 1}

// milestoneService scans the four notification rule families for a
// household. Each family, and each item within a family, is fault isolated:
// a broken goal or budget is logged and skipped, never aborting the rest.
type milestoneService struct {
	db            *gorm.DB
	notifications NotificationServicer
}

// NewMilestoneService creates a new MilestoneServicer.
func NewMilestoneService(db *gorm.DB, notifications NotificationServicer) MilestoneServicer {
	return &milestoneService{db: db, notifications: notifications}
}

// EvaluateHousehold runs all four rule families against one household and
// returns how many conditions fired. Family-level read failures are logged
// and the last one is returned after every family has been attempted.
func (s *milestoneService) EvaluateHousehold(householdID string, now time.Time) (int, error) {
	fired := 0
	var lastErr error

	families := []struct {
		name string
		run  func(string, time.Time) (int, error)
	}{
		{"bill_reminders", s.evaluateBillReminders},
		{"goal_milestones", s.evaluateGoalMilestones},
		{"budget_alerts", s.evaluateBudgetAlerts},
		{"insurance_renewals", s.evaluateInsuranceRenewals},
	}

	for _, family := range families {
		count, err := family.run(householdID, now)
		fired += count
		if err != nil {
			logger.Get().Errorw("milestone family evaluation failed",
				"household_id", householdID,
				"family", family.name,
				"error", err.Error(),
			)
			lastErr = err
		}
	}

	return fired, lastErr
}

// evaluateBillReminders notifies about active recurring schedules whose next
// occurrence falls within the forward reminder window. Dedup: one reminder
// per schedule per 24 hours, regardless of the due date it mentions.
func (s *milestoneService) evaluateBillReminders(householdID string, now time.Time) (int, error) {
	windowEnd := now.AddDate(0, 0, billReminderWindowDays)

	var schedules []models.RecurringSchedule
	if err := s.db.Where(
		"household_id = ? AND is_active = ? AND next_occurrence > ? AND next_occurrence <= ?",
		householdID, true, now, windowEnd,
	).Find(&schedules).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	fired := 0
	for i := range schedules {
		sched := &schedules[i]
		since := now.Add(-billReminderDedupWindow)
		seen, err := s.notifications.HasRecent(householdID, models.ResourceRecurringSchedule, sched.ID, "", &since)
		if err != nil {
			s.logItemFailure("bill_reminder", sched.ID, err)
			continue
		}
		if seen {
			continue
		}

		n := models.Notification{
			Type:         models.NotificationTypeBillReminder,
			Priority:     models.PriorityNormal,
			Title:        "Upcoming payment: " + sched.Description,
			Body:         fmt.Sprintf("%s is due on %s.", sched.Description, sched.NextOccurrence.Format("Jan 2")),
			Link:         "/schedules/" + sched.ID,
			ResourceType: models.ResourceRecurringSchedule,
			ResourceID:   sched.ID,
			TriggerValue: sched.NextOccurrence.UTC().Format("2006-01-02"),
		}
		if err := n.SetMetadata(models.BillReminderMeta{
			ScheduleID: sched.ID,
			DueDate:    sched.NextOccurrence,
			Amount:     sched.Amount,
			Currency:   sched.Currency,
		}); err != nil {
			s.logItemFailure("bill_reminder", sched.ID, err)
			continue
		}

		if _, err := s.notifications.EmitToHousehold(householdID, n); err != nil {
			s.logItemFailure("bill_reminder", sched.ID, err)
			continue
		}
		fired++
	}
	return fired, nil
}

// evaluateGoalMilestones notifies the highest 25/50/75/100 milestone at or
// below each active goal's progress. A milestone value, once notified for a
// goal, is never renotified — even if the goal later dips and re-crosses it.
func (s *milestoneService) evaluateGoalMilestones(householdID string, now time.Time) (int, error) {
	var goals []models.Goal
	if err := s.db.Where("household_id = ? AND is_active = ?", householdID, true).
		Find(&goals).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	fired := 0
	for i := range goals {
		goal := &goals[i]
		progress := goal.ProgressPercent()

		milestone := 0
		for _, m := range goalMilestones {
			if progress >= float64(m) {
				milestone = m
				break
			}
		}
		if milestone == 0 {
			continue
		}

		trigger := strconv.Itoa(milestone)
		seen, err := s.notifications.HasRecent(householdID, models.ResourceGoal, goal.ID, trigger, nil)
		if err != nil {
			s.logItemFailure("goal_milestone", goal.ID, err)
			continue
		}
		if seen {
			continue
		}

		priority := models.PriorityNormal
		if milestone == 100 {
			priority = models.PriorityHigh
		}
		n := models.Notification{
			Type:         models.NotificationTypeGoalMilestone,
			Priority:     priority,
			Title:        fmt.Sprintf("Goal milestone: %s at %d%%", goal.Name, milestone),
			Body:         fmt.Sprintf("You've reached %d%% of your %s goal.", milestone, goal.Name),
			Link:         "/goals/" + goal.ID,
			ResourceType: models.ResourceGoal,
			ResourceID:   goal.ID,
			TriggerValue: trigger,
		}
		if err := n.SetMetadata(models.GoalMilestoneMeta{
			GoalID:          goal.ID,
			Milestone:       milestone,
			ProgressPercent: progress,
		}); err != nil {
			s.logItemFailure("goal_milestone", goal.ID, err)
			continue
		}

		if _, err := s.notifications.EmitToHousehold(householdID, n); err != nil {
			s.logItemFailure("goal_milestone", goal.ID, err)
			continue
		}
		fired++
	}
	return fired, nil
}

// evaluateBudgetAlerts compares period-to-date cleared spend against each
// active budget. Spend at or beyond 100% is critical; at or beyond the
// budget's alert threshold is a warning. Warning and critical are distinct
// dedup keys, each suppressed for 3 days.
func (s *milestoneService) evaluateBudgetAlerts(householdID string, now time.Time) (int, error) {
	var budgets []models.Budget
	if err := s.db.Where("household_id = ? AND is_active = ? AND alerts_enabled = ?",
		householdID, true, true).Find(&budgets).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	fired := 0
	for i := range budgets {
		budget := &budgets[i]
		if budget.Amount <= 0 {
			continue
		}

		// Sum by magnitude, matching how monthly rollups total spending.
		var spent int64
		err := s.db.Model(&models.Transaction{}).
			Select("COALESCE(SUM(ABS(amount)), 0)").
			Where("household_id = ? AND category_id = ? AND type = ? AND status = ? AND date >= ? AND date < ?",
				householdID, budget.CategoryID, models.TransactionTypeExpense,
				models.TransactionStatusCleared, monthStart, monthEnd).
			Scan(&spent).Error
		if err != nil {
			s.logItemFailure("budget_alert", budget.ID, err)
			continue
		}

		percentSpent := float64(spent) / float64(budget.Amount) * 100
		var level models.BudgetAlertLevel
		switch {
		case spent >= budget.Amount:
			level = models.BudgetAlertCritical
		case percentSpent >= budget.AlertThreshold:
			level = models.BudgetAlertWarning
		default:
			continue
		}

		since := now.Add(-budgetAlertDedupWindow)
		seen, err := s.notifications.HasRecent(householdID, models.ResourceBudget, budget.ID, string(level), &since)
		if err != nil {
			s.logItemFailure("budget_alert", budget.ID, err)
			continue
		}
		if seen {
			continue
		}

		priority := models.PriorityNormal
		title := fmt.Sprintf("Budget warning: %s at %.0f%%", budget.Name, percentSpent)
		if level == models.BudgetAlertCritical {
			priority = models.PriorityHigh
			title = fmt.Sprintf("Budget exceeded: %s at %.0f%%", budget.Name, percentSpent)
		}
		n := models.Notification{
			Type:         models.NotificationTypeBudgetAlert,
			Priority:     priority,
			Title:        title,
			Body:         fmt.Sprintf("Spent %d of %d cents budgeted for %s this month.", spent, budget.Amount, budget.Name),
			Link:         "/budgets/" + budget.ID,
			ResourceType: models.ResourceBudget,
			ResourceID:   budget.ID,
			TriggerValue: string(level),
		}
		if err := n.SetMetadata(models.BudgetAlertMeta{
			BudgetID:     budget.ID,
			Level:        level,
			PercentSpent: percentSpent,
			Spent:        spent,
			Budgeted:     budget.Amount,
		}); err != nil {
			s.logItemFailure("budget_alert", budget.ID, err)
			continue
		}

		if _, err := s.notifications.EmitToHousehold(householdID, n); err != nil {
			s.logItemFailure("budget_alert", budget.ID, err)
			continue
		}
		fired++
	}
	return fired, nil
}

// evaluateInsuranceRenewals reminds at exactly 30, 7, and 1 days before an
// active policy's renewal date. Each (policy, boundary) pair fires once per
// renewal cycle — unbounded look-back on the dedup.
func (s *milestoneService) evaluateInsuranceRenewals(householdID string, now time.Time) (int, error) {
	var policies []models.InsurancePolicy
	if err := s.db.Where("household_id = ? AND is_active = ? AND renewal_date > ?",
		householdID, true, now).Find(&policies).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	fired := 0
	for i := range policies {
		policy := &policies[i]
		daysOut := calendarDaysBetween(now, policy.RenewalDate)

		matched := false
		for _, boundary := range renewalBoundaries {
			if daysOut == boundary {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		trigger := strconv.Itoa(daysOut)
		seen, err := s.notifications.HasRecent(householdID, models.ResourceInsurancePolicy, policy.ID, trigger, nil)
		if err != nil {
			s.logItemFailure("insurance_renewal", policy.ID, err)
			continue
		}
		if seen {
			continue
		}

		priority := models.PriorityNormal
		if daysOut == 1 {
			priority = models.PriorityHigh
		}
		n := models.Notification{
			Type:         models.NotificationTypeInsuranceRenewal,
			Priority:     priority,
			Title:        fmt.Sprintf("%s renews in %d day(s)", policy.Name, daysOut),
			Body:         fmt.Sprintf("Your %s policy renews on %s.", policy.Name, policy.RenewalDate.Format("Jan 2, 2006")),
			Link:         "/insurance/" + policy.ID,
			ResourceType: models.ResourceInsurancePolicy,
			ResourceID:   policy.ID,
			TriggerValue: trigger,
		}
		if err := n.SetMetadata(models.InsuranceRenewalMeta{
			PolicyID:    policy.ID,
			DaysOut:     daysOut,
			RenewalDate: policy.RenewalDate,
		}); err != nil {
			s.logItemFailure("insurance_renewal", policy.ID, err)
			continue
		}

		if _, err := s.notifications.EmitToHousehold(householdID, n); err != nil {
			s.logItemFailure("insurance_renewal", policy.ID, err)
			continue
		}
		fired++
	}
	return fired, nil
}

func (s *milestoneService) logItemFailure(family, resourceID string, err error) {
	logger.Get().Errorw("milestone item evaluation failed",
		"family", family,
		"resource_id", resourceID,
		"error", err.Error(),
	)
}

// calendarDaysBetween counts whole UTC calendar days from now to the target
// date, so a renewal at any time-of-day 30 days out matches the 30 boundary.
func calendarDaysBetween(now, target time.Time) int {
	return int(utcDay(target).Sub(utcDay(now)).Hours() / 24)
}
