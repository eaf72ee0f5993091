package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "hearthbook/internal/errors"
	"hearthbook/internal/services"
)

// RollupHandler handles monthly rollup read requests.
type RollupHandler struct {
	rollupService services.RollupServicer
}

// NewRollupHandler creates a new RollupHandler.
func NewRollupHandler(rollupService services.RollupServicer) *RollupHandler {
	return &RollupHandler{rollupService: rollupService}
}

// GetRollups returns the stored rollup rows for one month of the caller's
// household, total row first.
func (h *RollupHandler) GetRollups(c *gin.Context) {
	householdID, err := getHouseholdID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid year"))
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid month"))
		return
	}

	rows, err := h.rollupService.GetRollups(householdID, year, time.Month(month))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}
