package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "hearthbook/internal/errors"
	"hearthbook/internal/models"
)

// rollupBatchSize bounds memory while scanning a month of ledger rows.
const rollupBatchSize = 500

// rollupService rebuilds per-category monthly aggregates from the ledger.
type rollupService struct {
	db *gorm.DB
}

// NewRollupService creates a new RollupServicer.
func NewRollupService(db *gorm.DB) RollupServicer {
	return &rollupService{db: db}
}

// categoryTotals accumulates sums for one category during the month scan.
type categoryTotals struct {
	income    int64
	expense   int64
	transfers int64
	count     int64
}

// BuildRollup scans the household's cleared transactions in the half-open
// window [first of month, first of next month) and replaces the full rollup
// row set for that month in a single database transaction. Delete-then-insert
// is what keeps reruns idempotent: a category that lost all its transactions
// since the last run simply has no row afterwards.
func (s *rollupService) BuildRollup(householdID string, year int, month time.Month) ([]models.MonthlyRollup, error) {
	if month < time.January || month > time.December || year < 1970 {
		return nil, apperrors.ErrInvalidPeriod
	}

	windowStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := windowStart.AddDate(0, 1, 0)

	total := categoryTotals{}
	byCategory := make(map[string]*categoryTotals)
	activeDays := make(map[string]struct{})
	var largest, absSum int64

	var batch []models.Transaction
	err := s.db.Where(
		"household_id = ? AND status = ? AND date >= ? AND date < ?",
		householdID, models.TransactionStatusCleared, windowStart, windowEnd,
	).FindInBatches(&batch, rollupBatchSize, func(tx *gorm.DB, _ int) error {
		for i := range batch {
			t := &batch[i]
			amount := abs64(t.Amount)

			addToTotals(&total, t.Type, amount)
			activeDays[t.Date.UTC().Format("2006-01-02")] = struct{}{}
			if amount > largest {
				largest = amount
			}
			absSum += amount

			// Uncategorized transactions count toward household totals
			// but never get their own category row.
			if t.CategoryID != nil {
				ct, ok := byCategory[*t.CategoryID]
				if !ok {
					ct = &categoryTotals{}
					byCategory[*t.CategoryID] = ct
				}
				addToTotals(ct, t.Type, amount)
			}
		}
		return nil
	}).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rows := s.buildRows(householdID, year, month, &total, byCategory, len(activeDays), largest, absSum)

	// Replace the month's rows atomically so readers never observe a
	// partially rebuilt month.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("household_id = ? AND year = ? AND month = ?",
			householdID, year, int(month)).Delete(&models.MonthlyRollup{}).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return rows, nil
}

// buildRows assembles the total row plus one sparse row per active category.
func (s *rollupService) buildRows(
	householdID string,
	year int, month time.Month,
	total *categoryTotals,
	byCategory map[string]*categoryTotals,
	activeDays int,
	largest, absSum int64,
) []models.MonthlyRollup {
	rows := make([]models.MonthlyRollup, 0, len(byCategory)+1)

	var average int64
	if total.count > 0 {
		average = absSum / total.count
	}

	rows = append(rows, models.MonthlyRollup{
		HouseholdID:        householdID,
		Year:               year,
		Month:              int(month),
		CategoryID:         nil,
		TotalIncome:        total.income,
		TotalExpense:       total.expense,
		TotalTransfers:     total.transfers,
		TransactionCount:   total.count,
		ActiveDays:         activeDays,
		LargestTransaction: largest,
		AverageTransaction: average,
	})

	// Stable ordering keeps reruns byte-comparable.
	categoryIDs := make([]string, 0, len(byCategory))
	for id := range byCategory {
		categoryIDs = append(categoryIDs, id)
	}
	sort.Strings(categoryIDs)

	for _, id := range categoryIDs {
		ct := byCategory[id]
		catID := id
		rows = append(rows, models.MonthlyRollup{
			HouseholdID:      householdID,
			Year:             year,
			Month:            int(month),
			CategoryID:       &catID,
			TotalIncome:      ct.income,
			TotalExpense:     ct.expense,
			TotalTransfers:   ct.transfers,
			TransactionCount: ct.count,
		})
	}
	return rows
}

func addToTotals(t *categoryTotals, txType models.TransactionType, amount int64) {
	switch txType {
	case models.TransactionTypeIncome:
		t.income += amount
	case models.TransactionTypeExpense:
		t.expense += amount
	case models.TransactionTypeTransfer:
		t.transfers += amount
	}
	t.count++
}

// GetRollups returns the stored rollup rows for a household month, total row
// first.
func (s *rollupService) GetRollups(householdID string, year int, month time.Month) ([]models.MonthlyRollup, error) {
	var rows []models.MonthlyRollup
	if err := s.db.Preload("Category").
		Where("household_id = ? AND year = ? AND month = ?", householdID, year, int(month)).
		Order("category_id ASC NULLS FIRST").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, nil
}
