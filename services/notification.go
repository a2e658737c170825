package services

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/sweetappleplus/gamified-task-manager-backend/models"
)

// Notifier is the sink the task lifecycle fires events into. Delivery is
// best effort and must never fail a task transition.
type Notifier interface {
	Create(ctx context.Context, in CreateNotificationInput) (*models.Notification, error)
}

type CreateNotificationInput struct {
	UserID        string
	Type          models.NotificationType
	Title         string
	Message       string
	RelatedTaskID *string
}

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) Create(ctx context.Context, in CreateNotificationInput) (*models.Notification, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}

	notification := models.Notification{
		UserID:        in.UserID,
		Type:          in.Type,
		Title:         in.Title,
		Message:       in.Message,
		RelatedTaskID: in.RelatedTaskID,
	}
	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		return nil, err
	}

	log.Printf("[notification] %s for user %s: %s", in.Type, in.UserID, in.Title)
	return &notification, nil
}

func (s *NotificationService) ListForUser(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	result := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: notification with id %q for this user", ErrNotFound, id)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
