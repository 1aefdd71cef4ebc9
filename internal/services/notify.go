package services

import (
	"slowork_backend/internal/logger"
	"slowork_backend/internal/models"

	"gorm.io/gorm"
)

// emitNotification creates a lifecycle notification after the core
// transaction has committed. Emission is best-effort: a failure is
// logged and never rolls back or fails the lifecycle transition.
func emitNotification(db *gorm.DB, ns NotificationService, userID string, ntype models.NotificationType, title, message, refType, refID string, data map[string]interface{}) {
	if err := ns.Notify(db, userID, ntype, title, message, refType, refID, data); err != nil {
		logger.Warn("failed to create notification",
			"user_id", userID,
			"type", string(ntype),
			"title", title,
			"error", err,
		)
	}
}

// emitNotificationFanout is the multi-recipient variant. NotifyMany
// already logs and skips per-recipient failures.
func emitNotificationFanout(db *gorm.DB, ns NotificationService, userIDs []string, ntype models.NotificationType, title, message, refType, refID string, data map[string]interface{}) {
	_ = ns.NotifyMany(db, userIDs, ntype, title, message, refType, refID, data)
}
