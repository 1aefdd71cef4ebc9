package services

import (
	"slowork_backend/internal/logger"
	"slowork_backend/internal/models"
	"slowork_backend/internal/repositories"
	"slowork_backend/internal/services/dto"
	"slowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type NotificationService interface {
	// Notify persists one notification. A missing recipient is a no-op,
	// not an error.
	Notify(db *gorm.DB, userID string, ntype models.NotificationType, title, message, refType, refID string, data map[string]interface{}) error
	// NotifyMany fans the same payload out to each user independently;
	// one failed write does not block the rest.
	NotifyMany(db *gorm.DB, userIDs []string, ntype models.NotificationType, title, message, refType, refID string, data map[string]interface{}) error
	GetUserNotifications(db *gorm.DB, userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)
	GetUnreadCount(db *gorm.DB, userID string) (int64, error)
	MarkAsRead(db *gorm.DB, notificationID, userID string) error
	MarkAllAsRead(db *gorm.DB, userID string) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) Notify(db *gorm.DB, userID string, ntype models.NotificationType, title, message, refType, refID string, data map[string]interface{}) error {
	if userID == "" {
		return nil
	}

	rt, ri := repositories.Ref(refType, refID)
	notification := &models.Notification{
		UserID:  userID,
		Type:    ntype,
		Title:   title,
		Message: message,
		RefType: rt,
		RefID:   ri,
		Data:    repositories.MarshalData(data),
	}

	return s.notificationRepo.Create(db, notification)
}

func (s *notificationService) NotifyMany(db *gorm.DB, userIDs []string, ntype models.NotificationType, title, message, refType, refID string, data map[string]interface{}) error {
	var lastErr error
	for _, userID := range userIDs {
		if err := s.Notify(db, userID, ntype, title, message, refType, refID, data); err != nil {
			logger.Warn("failed to create notification, skipping recipient",
				"user_id", userID,
				"title", title,
				"error", err,
			)
			lastErr = err
		}
	}
	return lastErr
}

func (s *notificationService) GetUserNotifications(db *gorm.DB, userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	notifications, total, err := s.notificationRepo.FindUserNotifications(db, userID, criteria)
	if err != nil {
		return nil, err
	}

	unread, err := s.notificationRepo.GetUnreadCount(db, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, buildNotificationResponse(&n))
	}

	return &dto.NotificationListResponse{
		Notifications: out,
		Total:         total,
		UnreadCount:   unread,
	}, nil
}

func (s *notificationService) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	return s.notificationRepo.GetUnreadCount(db, userID)
}

func (s *notificationService) MarkAsRead(db *gorm.DB, notificationID, userID string) error {
	err := s.notificationRepo.MarkAsRead(db, notificationID, userID)
	if err != nil {
		switch {
		case apperrors.Is(err, repositories.ErrNotificationNotFound):
			return apperrors.ErrNotFound(err)
		case apperrors.Is(err, repositories.ErrNotNotificationOwner):
			return apperrors.ErrPermissionDenied("notification", "You may only update your own notifications")
		}
		return err
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(db *gorm.DB, userID string) error {
	return s.notificationRepo.MarkAllAsRead(db, userID)
}

func buildNotificationResponse(n *models.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		RefType:   n.RefType,
		RefID:     n.RefID,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
