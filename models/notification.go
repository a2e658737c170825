package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTaskAssigned  NotificationType = "TASK_ASSIGNED"
	NotificationTaskSubmitted NotificationType = "TASK_SUBMITTED"
	NotificationTaskApproved  NotificationType = "TASK_APPROVED"
	NotificationTaskRejected  NotificationType = "TASK_REJECTED"
	NotificationTaskPaid      NotificationType = "TASK_PAID"
)

// Notification is a persisted in-app message. EmailedAt is stamped by the
// mailer once the corresponding email has been delivered (best effort).
type Notification struct {
	ID            string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID        string           `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Type          NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Title         string           `gorm:"size:200;not null" json:"title"`
	Message       string           `gorm:"type:text;not null" json:"message"`
	RelatedTaskID *string          `gorm:"type:varchar(36);index" json:"related_task_id,omitempty"`
	IsRead        bool             `gorm:"not null;default:false" json:"is_read"`
	EmailedAt     *time.Time       `json:"emailed_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
