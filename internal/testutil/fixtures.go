package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"hearthbook/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestHousehold creates an active household.
func CreateTestHousehold(t *testing.T, db *gorm.DB) *models.Household {
	t.Helper()

	household := &models.Household{
		Name:     fmt.Sprintf("Test Household %d", nextID()),
		Currency: "USD",
		IsActive: true,
	}
	if err := db.Create(household).Error; err != nil {
		t.Fatalf("failed to create test household: %v", err)
	}
	return household
}

// CreateTestUser creates a household member with a hashed password and
// unique email.
func CreateTestUser(t *testing.T, db *gorm.DB, householdID string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		HouseholdID: householdID,
		Email:       fmt.Sprintf("user%d@test.com", nextID()),
		Password:    string(hash),
		IsActive:    true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates an active account of the given type and balance
// (in cents), included in net worth.
func CreateTestAccount(t *testing.T, db *gorm.DB, householdID string, accountType models.AccountType, balance int64) *models.Account {
	t.Helper()

	account := &models.Account{
		HouseholdID:       householdID,
		Name:              fmt.Sprintf("Test Account %d", nextID()),
		Type:              accountType,
		Balance:           balance,
		Currency:          "USD",
		IsActive:          true,
		IncludeInNetWorth: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestHolding creates a holding of the given quantity in an account.
func CreateTestHolding(t *testing.T, db *gorm.DB, accountID, symbol string, holdingType models.HoldingType, quantity float64) *models.Holding {
	t.Helper()

	holding := &models.Holding{
		AccountID: accountID,
		Symbol:    symbol,
		Type:      holdingType,
		Quantity:  quantity,
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}

// CreateTestAssetPrice records a cached unit price (in cents) for a symbol.
func CreateTestAssetPrice(t *testing.T, db *gorm.DB, symbol string, price int64, recordedAt time.Time) *models.AssetPrice {
	t.Helper()

	assetPrice := &models.AssetPrice{
		Symbol:     symbol,
		Price:      price,
		RecordedAt: recordedAt,
	}
	if err := db.Create(assetPrice).Error; err != nil {
		t.Fatalf("failed to create test asset price: %v", err)
	}
	return assetPrice
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, householdID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		HouseholdID: householdID,
		Name:        fmt.Sprintf("Test Category %d", nextID()),
		Type:        categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a cleared transaction of the given type and
// amount (in cents) on the given date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, householdID, accountID string, categoryID *string, txType models.TransactionType, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		HouseholdID: householdID,
		AccountID:   accountID,
		CategoryID:  categoryID,
		Type:        txType,
		Status:      models.TransactionStatusCleared,
		Amount:      amount,
		Date:        date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestSchedule creates an active monthly schedule due at nextOccurrence.
func CreateTestSchedule(t *testing.T, db *gorm.DB, householdID, accountID string, nextOccurrence time.Time) *models.RecurringSchedule {
	t.Helper()

	schedule := &models.RecurringSchedule{
		HouseholdID:    householdID,
		Description:    fmt.Sprintf("Test Schedule %d", nextID()),
		Amount:         5000,
		Currency:       "USD",
		AccountID:      accountID,
		Frequency:      models.FrequencyMonthly,
		StartDate:      nextOccurrence.AddDate(0, -1, 0),
		IsActive:       true,
		NextOccurrence: nextOccurrence,
	}
	if err := db.Create(schedule).Error; err != nil {
		t.Fatalf("failed to create test schedule: %v", err)
	}
	return schedule
}

// CreateTestGoal creates an active goal with the given progress (in cents).
func CreateTestGoal(t *testing.T, db *gorm.DB, householdID string, target, current int64) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		HouseholdID:   householdID,
		Name:          fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:  target,
		CurrentAmount: current,
		IsActive:      true,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestBudget creates an active budget with alerts enabled.
func CreateTestBudget(t *testing.T, db *gorm.DB, householdID, categoryID string, amount int64, alertThreshold float64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		HouseholdID:    householdID,
		CategoryID:     categoryID,
		Name:           fmt.Sprintf("Test Budget %d", nextID()),
		Amount:         amount,
		AlertThreshold: alertThreshold,
		AlertsEnabled:  true,
		IsActive:       true,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestPolicy creates an active insurance policy renewing at the given
// date.
func CreateTestPolicy(t *testing.T, db *gorm.DB, householdID string, renewalDate time.Time) *models.InsurancePolicy {
	t.Helper()

	policy := &models.InsurancePolicy{
		HouseholdID: householdID,
		Name:        fmt.Sprintf("Test Policy %d", nextID()),
		Provider:    "Acme Mutual",
		Premium:     12000,
		RenewalDate: renewalDate,
		IsActive:    true,
	}
	if err := db.Create(policy).Error; err != nil {
		t.Fatalf("failed to create test policy: %v", err)
	}
	return policy
}
