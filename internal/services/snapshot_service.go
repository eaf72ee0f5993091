package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "hearthbook/internal/errors"
	"hearthbook/internal/logger"
	"hearthbook/internal/models"
	"hearthbook/internal/pagination"
)

// snapshotService builds point-in-time net worth snapshots for a household.
type snapshotService struct {
	db *gorm.DB
}

// NewSnapshotService creates a new SnapshotServicer.
func NewSnapshotService(db *gorm.DB) SnapshotServicer {
	return &snapshotService{db: db}
}

// BuildSnapshot computes the household's net worth as of the given instant
// and upserts the snapshot row for that UTC calendar day.
func (s *snapshotService) BuildSnapshot(householdID string, asOf time.Time) (*models.NetWorthSnapshot, error) {
	var household models.Household
	if err := s.db.First(&household, "id = ?", householdID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHouseholdNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := s.db.Where("household_id = ? AND is_active = ? AND include_in_net_worth = ?",
		householdID, true, true).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var totalAssets, totalLiabilities int64
	breakdown := make(map[models.AccountType]int64)

	for i := range accounts {
		value := s.valueAccount(&accounts[i])
		breakdown[accounts[i].Type] += value

		if accounts[i].Type == models.AccountTypeDebt || value < 0 {
			totalLiabilities += abs64(value)
		} else {
			totalAssets += value
		}
	}

	snapshot := &models.NetWorthSnapshot{
		HouseholdID:      householdID,
		Day:              utcDay(asOf),
		TotalAssets:      totalAssets,
		TotalLiabilities: totalLiabilities,
		NetWorth:         totalAssets - totalLiabilities,
		Currency:         household.Currency,
	}
	if err := snapshot.SetBreakdown(breakdown); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Upsert keyed by (household, calendar day): a second run on the same
	// day overwrites the numeric fields, it never inserts a duplicate.
	var existing models.NetWorthSnapshot
	result := s.db.Where("household_id = ? AND day = ?", householdID, snapshot.Day).First(&existing)
	if result.Error == nil {
		if err := s.db.Model(&existing).Updates(map[string]interface{}{
			"total_assets":      snapshot.TotalAssets,
			"total_liabilities": snapshot.TotalLiabilities,
			"net_worth":         snapshot.NetWorth,
			"breakdown":         snapshot.Breakdown,
			"currency":          snapshot.Currency,
		}).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		snapshot.ID = existing.ID
		return snapshot, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}

	if err := s.db.Create(snapshot).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return snapshot, nil
}

// valueAccount returns the account's current valuation in cents. Market
// priced accounts are valued from holdings and the latest cached prices;
// when pricing fails the stored balance stands in as the last-known value
// rather than failing the whole snapshot.
func (s *snapshotService) valueAccount(account *models.Account) int64 {
	if !account.IsMarketPriced() {
		return account.Balance
	}

	value, err := s.valueHoldings(account.ID)
	if err != nil {
		logger.Get().Warnw("holding valuation failed, using last-known balance",
			"account_id", account.ID,
			"error", err.Error(),
		)
		return account.Balance
	}
	return value
}

// valueHoldings prices all holdings of an account against the latest cached
// unit prices. A symbol with no cached price fails the lookup.
func (s *snapshotService) valueHoldings(accountID string) (int64, error) {
	var holdings []models.Holding
	if err := s.db.Where("account_id = ?", accountID).Find(&holdings).Error; err != nil {
		return 0, err
	}

	symbols := make([]string, 0, len(holdings))
	for i := range holdings {
		symbols = append(symbols, holdings[i].Symbol)
	}
	prices, err := latestPrices(s.db, symbols)
	if err != nil {
		return 0, err
	}

	var total int64
	for i := range holdings {
		price, ok := prices[holdings[i].Symbol]
		if !ok {
			return 0, apperrors.WithMessage(apperrors.ErrNotFound, "no cached price for "+holdings[i].Symbol)
		}
		total += int64(holdings[i].Quantity * float64(price))
	}
	return total, nil
}

// latestPrices returns the newest cached price per symbol.
func latestPrices(db *gorm.DB, symbols []string) (map[string]int64, error) {
	prices := make(map[string]int64, len(symbols))
	if len(symbols) == 0 {
		return prices, nil
	}

	var rows []models.AssetPrice
	if err := db.Where("symbol IN ?", symbols).
		Order("recorded_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		if _, seen := prices[rows[i].Symbol]; !seen {
			prices[rows[i].Symbol] = rows[i].Price
		}
	}
	return prices, nil
}

// GetSnapshots returns paginated snapshots for a household within a date range.
func (s *snapshotService) GetSnapshots(
	householdID string,
	from, to time.Time,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.NetWorthSnapshot], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.NetWorthSnapshot{}).
		Where("household_id = ? AND day >= ? AND day <= ?", householdID, from, to)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var snapshots []models.NetWorthSnapshot
	if err := base.Order("day DESC").Scopes(pagination.Paginate(page)).Find(&snapshots).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(snapshots, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// utcDay truncates an instant to midnight UTC, the engine's fixed reference
// calendar for snapshot keys.
func utcDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
