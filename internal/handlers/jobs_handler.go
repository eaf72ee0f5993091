package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "hearthbook/internal/errors"
	"hearthbook/internal/jobs"
)

// JobsHandler exposes the engine's job runner over HTTP. The scheduler route
// may target any household; the human route is pinned to the caller's own.
type JobsHandler struct {
	runner *jobs.Runner
}

// NewJobsHandler creates a new JobsHandler.
func NewJobsHandler(runner *jobs.Runner) *JobsHandler {
	return &JobsHandler{runner: runner}
}

// RunJobRequest represents the request payload for triggering a job run.
type RunJobRequest struct {
	JobType     string  `json:"job_type" binding:"required,job_type"`
	HouseholdID *string `json:"household_id,omitempty"`
	Year        int     `json:"year,omitempty"`
	Month       int     `json:"month,omitempty" binding:"omitempty,min=1,max=12"`
}

// RunScheduled handles job runs triggered by the trusted external scheduler.
// An absent household_id targets all active households.
func (h *JobsHandler) RunScheduled(c *gin.Context) {
	var req RunJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	params := jobs.Params{
		Types: []jobs.JobType{jobs.JobType(req.JobType)},
		Year:  req.Year,
		Month: time.Month(req.Month),
		Now:   time.Now(),
	}
	if req.HouseholdID != nil {
		params.HouseholdID = *req.HouseholdID
	}

	report, err := h.runner.Run(params)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// RunForHousehold handles human-triggered job runs, typically a manual retry
// after a scheduled run reported a failure. The run is always scoped to the
// authenticated caller's household.
func (h *JobsHandler) RunForHousehold(c *gin.Context) {
	householdID, err := getHouseholdID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RunJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	report, err := h.runner.Run(jobs.Params{
		Types:       []jobs.JobType{jobs.JobType(req.JobType)},
		HouseholdID: householdID,
		Year:        req.Year,
		Month:       time.Month(req.Month),
		Now:         time.Now(),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
