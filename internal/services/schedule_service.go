package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "hearthbook/internal/errors"
	"hearthbook/internal/logger"
	"hearthbook/internal/models"
	"hearthbook/internal/pagination"
	"hearthbook/internal/recurrence"
)

// scheduleService manages recurring schedules and materializes transactions
// from auto-create schedules that have come due.
type scheduleService struct {
	db *gorm.DB
}

// NewScheduleService creates a new ScheduleServicer.
func NewScheduleService(db *gorm.DB) ScheduleServicer {
	return &scheduleService{db: db}
}

// ruleOf maps a schedule's embedded rule fields to the calculator's input.
func ruleOf(s *models.RecurringSchedule) recurrence.Rule {
	return recurrence.Rule{
		Frequency:   string(s.Frequency),
		DayOfWeek:   s.DayOfWeek,
		DayOfMonth:  s.DayOfMonth,
		MonthOfYear: s.MonthOfYear,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
	}
}

// CreateSchedule validates the rule and referenced entities, then stores the
// schedule with its initial NextOccurrence from the recurrence calculator.
func (s *scheduleService) CreateSchedule(householdID string, input CreateScheduleInput, now time.Time) (*models.RecurringSchedule, error) {
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidRecurrence, "End date must not precede start date")
	}

	var account models.Account
	if err := s.db.Where("id = ? AND household_id = ?", input.AccountID, householdID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if input.CategoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND household_id = ?", *input.CategoryID, householdID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	schedule := &models.RecurringSchedule{
		HouseholdID: householdID,
		Description: input.Description,
		Amount:      input.Amount,
		Currency:    input.Currency,
		AccountID:   input.AccountID,
		ToAccountID: input.ToAccountID,
		CategoryID:  input.CategoryID,
		Frequency:   input.Frequency,
		DayOfWeek:   input.DayOfWeek,
		DayOfMonth:  input.DayOfMonth,
		MonthOfYear: input.MonthOfYear,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		IsActive:    true,
		AutoCreate:  input.AutoCreate,
	}
	schedule.NextOccurrence = recurrence.Next(ruleOf(schedule), now)

	if err := s.db.Create(schedule).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return schedule, nil
}

// GetHouseholdSchedules returns a paginated list of the household's schedules.
func (s *scheduleService) GetHouseholdSchedules(
	householdID string,
	page pagination.PageRequest,
	isActive *bool,
) (*pagination.PageResponse[models.RecurringSchedule], error) {
	page.Defaults()

	base := s.db.Model(&models.RecurringSchedule{}).Where("household_id = ?", householdID)
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var schedules []models.RecurringSchedule
	if err := base.Order("next_occurrence ASC").Scopes(pagination.Paginate(page)).Find(&schedules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(schedules, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetScheduleByID returns a schedule if it belongs to the household.
func (s *scheduleService) GetScheduleByID(householdID, scheduleID string) (*models.RecurringSchedule, error) {
	var schedule models.RecurringSchedule
	if err := s.db.Where("id = ? AND household_id = ?", scheduleID, householdID).First(&schedule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrScheduleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &schedule, nil
}

// DeactivateSchedule turns a schedule off without deleting its history.
func (s *scheduleService) DeactivateSchedule(householdID, scheduleID string) error {
	schedule, err := s.GetScheduleByID(householdID, scheduleID)
	if err != nil {
		return err
	}
	if err := s.db.Model(schedule).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AdvanceDueSchedules processes every active schedule whose NextOccurrence
// has passed. Auto-create schedules get one cleared transaction per elapsed
// occurrence; all schedules then have NextOccurrence stepped past now via
// the recurrence calculator — nothing else ever writes that field. Each
// schedule is fault isolated.
func (s *scheduleService) AdvanceDueSchedules(householdID string, now time.Time) (int, error) {
	var schedules []models.RecurringSchedule
	if err := s.db.Where("household_id = ? AND is_active = ? AND next_occurrence <= ?",
		householdID, true, now).Find(&schedules).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	advanced := 0
	for i := range schedules {
		if err := s.advanceOne(&schedules[i], now); err != nil {
			logger.Get().Errorw("schedule advance failed",
				"schedule_id", schedules[i].ID,
				"error", err.Error(),
			)
			continue
		}
		advanced++
	}
	return advanced, nil
}

// advanceOne walks a single schedule forward occurrence by occurrence until
// NextOccurrence is in the future, materializing transactions along the way
// for auto-create schedules. The walk and the schedule update commit
// together, so a rerun never double-creates a period's transactions.
func (s *scheduleService) advanceOne(schedule *models.RecurringSchedule, now time.Time) error {
	rule := ruleOf(schedule)

	return s.db.Transaction(func(tx *gorm.DB) error {
		next := schedule.NextOccurrence
		for !next.After(now) {
			if recurrence.Ended(rule, next) {
				break
			}

			if schedule.AutoCreate {
				txType := models.TransactionTypeExpense
				if schedule.ToAccountID != nil {
					txType = models.TransactionTypeTransfer
				}
				entry := models.Transaction{
					HouseholdID: schedule.HouseholdID,
					AccountID:   schedule.AccountID,
					ToAccountID: schedule.ToAccountID,
					CategoryID:  schedule.CategoryID,
					Type:        txType,
					Status:      models.TransactionStatusCleared,
					Amount:      schedule.Amount,
					Description: schedule.Description,
					Date:        next,
				}
				if err := tx.Create(&entry).Error; err != nil {
					return err
				}
			}

			occurred := next
			schedule.LastOccurrence = &occurred
			schedule.OccurrenceCount++
			next = recurrence.Next(rule, next)
		}

		schedule.NextOccurrence = next
		if recurrence.Ended(rule, now) {
			schedule.IsActive = false
		}

		return tx.Model(schedule).Updates(map[string]interface{}{
			"next_occurrence":  schedule.NextOccurrence,
			"last_occurrence":  schedule.LastOccurrence,
			"occurrence_count": schedule.OccurrenceCount,
			"is_active":        schedule.IsActive,
		}).Error
	})
}
