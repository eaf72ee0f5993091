package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "hearthbook/internal/errors"
	"hearthbook/internal/models"
	"hearthbook/internal/pagination"
	"hearthbook/internal/services"
	"hearthbook/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

const testHouseholdID = "019539a8-aaaa-7000-8000-000000000001"

func injectHousehold(householdID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", "019539a8-bbbb-7000-8000-000000000002")
		c.Set("householdID", householdID)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := parseJSON(t, rec)
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got: %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// --- mock schedule service ---

type mockScheduleService struct {
	createScheduleFn        func(householdID string, input services.CreateScheduleInput, now time.Time) (*models.RecurringSchedule, error)
	getHouseholdSchedulesFn func(householdID string, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.RecurringSchedule], error)
	getScheduleByIDFn       func(householdID, scheduleID string) (*models.RecurringSchedule, error)
	deactivateScheduleFn    func(householdID, scheduleID string) error
	advanceDueSchedulesFn   func(householdID string, now time.Time) (int, error)
}

func (m *mockScheduleService) CreateSchedule(householdID string, input services.CreateScheduleInput, now time.Time) (*models.RecurringSchedule, error) {
	if m.createScheduleFn != nil {
		return m.createScheduleFn(householdID, input, now)
	}
	return &models.RecurringSchedule{}, nil
}

func (m *mockScheduleService) GetHouseholdSchedules(householdID string, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.RecurringSchedule], error) {
	if m.getHouseholdSchedulesFn != nil {
		return m.getHouseholdSchedulesFn(householdID, page, isActive)
	}
	resp := pagination.NewPageResponse([]models.RecurringSchedule{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockScheduleService) GetScheduleByID(householdID, scheduleID string) (*models.RecurringSchedule, error) {
	if m.getScheduleByIDFn != nil {
		return m.getScheduleByIDFn(householdID, scheduleID)
	}
	return &models.RecurringSchedule{}, nil
}

func (m *mockScheduleService) DeactivateSchedule(householdID, scheduleID string) error {
	if m.deactivateScheduleFn != nil {
		return m.deactivateScheduleFn(householdID, scheduleID)
	}
	return nil
}

func (m *mockScheduleService) AdvanceDueSchedules(householdID string, now time.Time) (int, error) {
	if m.advanceDueSchedulesFn != nil {
		return m.advanceDueSchedulesFn(householdID, now)
	}
	return 0, nil
}

var _ services.ScheduleServicer = (*mockScheduleService)(nil)

func setupScheduleRouter(handler *ScheduleHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectHousehold(testHouseholdID))
	auth.POST("/schedules", handler.CreateSchedule)
	auth.GET("/schedules", handler.GetSchedules)
	auth.GET("/schedules/:id", handler.GetSchedule)
	auth.DELETE("/schedules/:id", handler.DeactivateSchedule)
	return r
}

func TestCreateScheduleHandler(t *testing.T) {
	validBody := `{
		"description": "Rent",
		"amount": 120000,
		"currency": "USD",
		"account_id": "019539a8-cccc-7000-8000-000000000003",
		"frequency": "monthly",
		"day_of_month": 1,
		"start_date": "2025-01-01",
		"auto_create": true
	}`

	t.Run("valid", func(t *testing.T) {
		var gotHousehold string
		var gotInput services.CreateScheduleInput
		mock := &mockScheduleService{
			createScheduleFn: func(householdID string, input services.CreateScheduleInput, now time.Time) (*models.RecurringSchedule, error) {
				gotHousehold = householdID
				gotInput = input
				return &models.RecurringSchedule{Description: input.Description, IsActive: true}, nil
			},
		}
		router := setupScheduleRouter(NewScheduleHandler(mock))

		rec := doRequest(router, http.MethodPost, "/schedules", validBody)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		if gotHousehold != testHouseholdID {
			t.Errorf("expected creation scoped to caller's household, got %q", gotHousehold)
		}
		if gotInput.Frequency != models.FrequencyMonthly || gotInput.Amount != 120000 {
			t.Errorf("unexpected input passed to service: %+v", gotInput)
		}
		if !gotInput.AutoCreate {
			t.Error("expected auto_create carried through")
		}
	})

	t.Run("invalid_frequency", func(t *testing.T) {
		body := strings.Replace(validBody, `"monthly"`, `"fortnightly"`, 1)
		router := setupScheduleRouter(NewScheduleHandler(&mockScheduleService{}))

		rec := doRequest(router, http.MethodPost, "/schedules", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
		if code := errorCode(t, rec); code != "INVALID_INPUT" {
			t.Errorf("error code = %q, want INVALID_INPUT", code)
		}
	})

	t.Run("invalid_currency", func(t *testing.T) {
		body := strings.Replace(validBody, `"USD"`, `"DOLLARS"`, 1)
		router := setupScheduleRouter(NewScheduleHandler(&mockScheduleService{}))

		rec := doRequest(router, http.MethodPost, "/schedules", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("bad_start_date", func(t *testing.T) {
		body := strings.Replace(validBody, `"2025-01-01"`, `"January 1st"`, 1)
		router := setupScheduleRouter(NewScheduleHandler(&mockScheduleService{}))

		rec := doRequest(router, http.MethodPost, "/schedules", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("service_error_passthrough", func(t *testing.T) {
		mock := &mockScheduleService{
			createScheduleFn: func(string, services.CreateScheduleInput, time.Time) (*models.RecurringSchedule, error) {
				return nil, apperrors.ErrAccountNotFound
			},
		}
		router := setupScheduleRouter(NewScheduleHandler(mock))

		rec := doRequest(router, http.MethodPost, "/schedules", validBody)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
		if code := errorCode(t, rec); code != "ACCOUNT_NOT_FOUND" {
			t.Errorf("error code = %q, want ACCOUNT_NOT_FOUND", code)
		}
	})
}

func TestGetSchedulesHandler(t *testing.T) {
	t.Run("passes_is_active_filter", func(t *testing.T) {
		var gotActive *bool
		mock := &mockScheduleService{
			getHouseholdSchedulesFn: func(householdID string, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.RecurringSchedule], error) {
				gotActive = isActive
				resp := pagination.NewPageResponse([]models.RecurringSchedule{}, 1, 20, 0)
				return &resp, nil
			},
		}
		router := setupScheduleRouter(NewScheduleHandler(mock))

		rec := doRequest(router, http.MethodGet, "/schedules?is_active=true", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if gotActive == nil || !*gotActive {
			t.Error("expected is_active=true forwarded to service")
		}
	})

	t.Run("not_found_schedule", func(t *testing.T) {
		mock := &mockScheduleService{
			getScheduleByIDFn: func(string, string) (*models.RecurringSchedule, error) {
				return nil, apperrors.ErrScheduleNotFound
			},
		}
		router := setupScheduleRouter(NewScheduleHandler(mock))

		rec := doRequest(router, http.MethodGet, "/schedules/some-id", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func TestDeactivateScheduleHandler(t *testing.T) {
	var gotID string
	mock := &mockScheduleService{
		deactivateScheduleFn: func(householdID, scheduleID string) error {
			gotID = scheduleID
			return nil
		},
	}
	router := setupScheduleRouter(NewScheduleHandler(mock))

	rec := doRequest(router, http.MethodDelete, "/schedules/abc-123", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotID != "abc-123" {
		t.Errorf("expected schedule id from path, got %q", gotID)
	}
}
