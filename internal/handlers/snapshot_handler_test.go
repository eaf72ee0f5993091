package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"hearthbook/internal/models"
	"hearthbook/internal/pagination"
	"hearthbook/internal/services"
)

// --- mock snapshot service ---

type mockSnapshotService struct {
	buildSnapshotFn func(householdID string, asOf time.Time) (*models.NetWorthSnapshot, error)
	getSnapshotsFn  func(householdID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.NetWorthSnapshot], error)
}

func (m *mockSnapshotService) BuildSnapshot(householdID string, asOf time.Time) (*models.NetWorthSnapshot, error) {
	if m.buildSnapshotFn != nil {
		return m.buildSnapshotFn(householdID, asOf)
	}
	return &models.NetWorthSnapshot{}, nil
}

func (m *mockSnapshotService) GetSnapshots(householdID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.NetWorthSnapshot], error) {
	if m.getSnapshotsFn != nil {
		return m.getSnapshotsFn(householdID, from, to, page)
	}
	resp := pagination.NewPageResponse([]models.NetWorthSnapshot{}, 1, 20, 0)
	return &resp, nil
}

var _ services.SnapshotServicer = (*mockSnapshotService)(nil)

func setupSnapshotRouter(handler *SnapshotHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectHousehold(testHouseholdID))
	auth.GET("/snapshots", handler.GetSnapshots)
	return r
}

func TestGetSnapshotsHandler(t *testing.T) {
	t.Run("valid_range", func(t *testing.T) {
		var gotFrom, gotTo time.Time
		var gotHousehold string
		mock := &mockSnapshotService{
			getSnapshotsFn: func(householdID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.NetWorthSnapshot], error) {
				gotHousehold = householdID
				gotFrom, gotTo = from, to
				resp := pagination.NewPageResponse([]models.NetWorthSnapshot{{NetWorth: 123456}}, 1, 20, 1)
				return &resp, nil
			},
		}
		router := setupSnapshotRouter(NewSnapshotHandler(mock))

		rec := doRequest(router, http.MethodGet, "/snapshots?from_date=2025-01-01&to_date=2025-03-31", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		if gotHousehold != testHouseholdID {
			t.Errorf("expected caller's household, got %q", gotHousehold)
		}
		if gotFrom.Format("2006-01-02") != "2025-01-01" || gotTo.Format("2006-01-02") != "2025-03-31" {
			t.Errorf("unexpected range: %v .. %v", gotFrom, gotTo)
		}
	})

	t.Run("missing_from_date", func(t *testing.T) {
		router := setupSnapshotRouter(NewSnapshotHandler(&mockSnapshotService{}))

		rec := doRequest(router, http.MethodGet, "/snapshots?to_date=2025-03-31", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
		if code := errorCode(t, rec); code != "INVALID_INPUT" {
			t.Errorf("error code = %q, want INVALID_INPUT", code)
		}
	})

	t.Run("malformed_date", func(t *testing.T) {
		router := setupSnapshotRouter(NewSnapshotHandler(&mockSnapshotService{}))

		rec := doRequest(router, http.MethodGet, "/snapshots?from_date=yesterday&to_date=2025-03-31", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}
