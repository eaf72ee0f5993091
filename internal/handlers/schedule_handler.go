package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "hearthbook/internal/errors"
	"hearthbook/internal/models"
	"hearthbook/internal/pagination"
	"hearthbook/internal/services"
)

// ScheduleHandler handles recurring schedule requests.
type ScheduleHandler struct {
	scheduleService services.ScheduleServicer
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService services.ScheduleServicer) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// CreateScheduleRequest represents the request payload for creating a
// recurring schedule.
type CreateScheduleRequest struct {
	Description string  `json:"description" binding:"required"`
	Amount      int64   `json:"amount" binding:"required,gt=0"`
	Currency    string  `json:"currency" binding:"required,iso4217"`
	AccountID   string  `json:"account_id" binding:"required,uuid"`
	ToAccountID *string `json:"to_account_id,omitempty" binding:"omitempty,uuid"`
	CategoryID  *string `json:"category_id,omitempty" binding:"omitempty,uuid"`
	Frequency   string  `json:"frequency" binding:"required,frequency"`
	DayOfWeek   *int    `json:"day_of_week,omitempty" binding:"omitempty,min=0,max=6"`
	DayOfMonth  *int    `json:"day_of_month,omitempty" binding:"omitempty,min=1,max=31"`
	MonthOfYear *int    `json:"month_of_year,omitempty" binding:"omitempty,min=1,max=12"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     *string `json:"end_date,omitempty"`
	AutoCreate  bool    `json:"auto_create"`
}

// CreateSchedule creates a recurring schedule for the caller's household.
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	householdID, err := getHouseholdID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	startDate, err := parseFlexibleTime(req.StartDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	var endDate *time.Time
	if req.EndDate != nil {
		parsed, err := parseFlexibleTime(*req.EndDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		endDate = &parsed
	}

	schedule, err := h.scheduleService.CreateSchedule(householdID, services.CreateScheduleInput{
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		AccountID:   req.AccountID,
		ToAccountID: req.ToAccountID,
		CategoryID:  req.CategoryID,
		Frequency:   models.Frequency(req.Frequency),
		DayOfWeek:   req.DayOfWeek,
		DayOfMonth:  req.DayOfMonth,
		MonthOfYear: req.MonthOfYear,
		StartDate:   startDate,
		EndDate:     endDate,
		AutoCreate:  req.AutoCreate,
	}, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

// GetSchedules returns a paginated list of the caller's household schedules.
func (h *ScheduleHandler) GetSchedules(c *gin.Context) {
	householdID, err := getHouseholdID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var isActive *bool
	switch c.Query("is_active") {
	case "true":
		v := true
		isActive = &v
	case "false":
		v := false
		isActive = &v
	}

	result, err := h.scheduleService.GetHouseholdSchedules(householdID, page, isActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSchedule returns one schedule by id.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	householdID, err := getHouseholdID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	schedule, err := h.scheduleService.GetScheduleByID(householdID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// DeactivateSchedule turns a schedule off.
func (h *ScheduleHandler) DeactivateSchedule(c *gin.Context) {
	householdID, err := getHouseholdID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.scheduleService.DeactivateSchedule(householdID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}
