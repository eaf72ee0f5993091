package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "hearthbook/internal/errors"
	"hearthbook/internal/models"
	"hearthbook/internal/pagination"
)

// notificationService is the engine's notification sink: append-only writes
// fanned out to household members, plus the recent-entry lookups the
// milestone evaluator uses for dedup.
type notificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(db *gorm.DB) NotificationServicer {
	return &notificationService{db: db}
}

// EmitToHousehold writes one notification row per active member of the
// household. Net worth, budgets, and goals are household-shared state, so
// every member sees the alert.
func (s *notificationService) EmitToHousehold(householdID string, n models.Notification) (int, error) {
	var memberIDs []string
	if err := s.db.Model(&models.User{}).
		Where("household_id = ? AND is_active = ?", householdID, true).
		Pluck("id", &memberIDs).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(memberIDs) == 0 {
		return 0, nil
	}

	rows := make([]models.Notification, 0, len(memberIDs))
	for _, userID := range memberIDs {
		row := n
		row.ID = ""
		row.UserID = userID
		row.HouseholdID = householdID
		rows = append(rows, row)
	}

	if err := s.db.Create(&rows).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return len(rows), nil
}

// HasRecent reports whether any notification for the given resource already
// exists within the look-back window. triggerValue narrows the match to one
// firing condition; empty matches any. A nil since means unbounded look-back.
func (s *notificationService) HasRecent(householdID, resourceType, resourceID, triggerValue string, since *time.Time) (bool, error) {
	query := s.db.Model(&models.Notification{}).
		Where("household_id = ? AND resource_type = ? AND resource_id = ?",
			householdID, resourceType, resourceID)
	if triggerValue != "" {
		query = query.Where("trigger_value = ?", triggerValue)
	}
	if since != nil {
		query = query.Where("created_at > ?", *since)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// GetUserNotifications returns a paginated notification feed for one user,
// newest first.
func (s *notificationService) GetUserNotifications(
	userID string,
	page pagination.PageRequest,
	unreadOnly bool,
) (*pagination.PageResponse[models.Notification], error) {
	page.Defaults()

	base := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		base = base.Where("is_read = ?", false)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var notifications []models.Notification
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&notifications).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(notifications, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *notificationService) MarkRead(userID, notificationID string) error {
	var notification models.Notification
	if err := s.db.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&notification).Update("is_read", true).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
