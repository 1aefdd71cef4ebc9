package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  string           `gorm:"not null;index"`
	Type    NotificationType `gorm:"type:varchar(20);not null"`
	Title   string           `gorm:"not null"`
	Message string

	// Pointer to the entity that caused the notification.
	RefType *string
	RefID   *string

	// Extra context payload, e.g. {"job_id": "...", "application_id": "..."}
	Data datatypes.JSON `gorm:"type:jsonb"`

	IsRead bool `gorm:"default:false"`
	ReadAt *time.Time
}
