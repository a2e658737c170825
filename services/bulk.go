package services

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/sweetappleplus/gamified-task-manager-backend/models"
)

const maxBulkCreate = 100

// BulkService batches task creation and assignment on top of the single-task
// rules. Both operations are all-or-none.
type BulkService struct {
	db       *gorm.DB
	tasks    *TaskService
	notifier Notifier
}

func NewBulkService(db *gorm.DB, tasks *TaskService, notifier Notifier) *BulkService {
	return &BulkService{db: db, tasks: tasks, notifier: notifier}
}

// BulkCreate stores count copies of the template in one transaction. Every
// created task starts in NEW regardless of any assignee on the template.
func (s *BulkService) BulkCreate(ctx context.Context, count int, template CreateTaskInput, createdByID string) ([]models.Task, error) {
	if count < 1 || count > maxBulkCreate {
		return nil, fmt.Errorf("%w: count must be between 1 and %d", ErrValidation, maxBulkCreate)
	}

	template.AssignedUserID = nil
	if err := template.validate(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := s.tasks.categoryExists(db, template.CategoryID); err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, count)
	err := db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < count; i++ {
			task := models.Task{
				Title:                 template.Title,
				Description:           template.Description,
				Steps:                 template.Steps,
				Priority:              template.Priority,
				Type:                  template.Type,
				Budget:                template.Budget,
				CommissionPercent:     template.CommissionPercent,
				TimeToCompleteMin:     template.TimeToCompleteMin,
				Deadline:              template.Deadline,
				MaxSubmissionDelayMin: template.MaxSubmissionDelayMin,
				Status:                models.TaskStatusNew,
				CreatedByID:           createdByID,
				CategoryID:            template.CategoryID,
			}
			if err := tx.Create(&task).Error; err != nil {
				return err
			}
			tasks = append(tasks, task)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[bulk] created %d tasks from template %q by user %s", count, template.Title, createdByID)
	return tasks, nil
}

// BulkAssign assigns every listed task to every listed worker, in order.
// This is deliberately the literal cross-product: with several workers each
// task's final assignee is the last worker in the slice. Eligibility of all
// tasks and workers is checked before any write, and the whole batch commits
// or rolls back together.
func (s *BulkService) BulkAssign(ctx context.Context, taskIDs, workerIDs []string) ([]models.Task, error) {
	if len(taskIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one task id is required", ErrValidation)
	}
	if len(workerIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one worker id is required", ErrValidation)
	}

	db := s.db.WithContext(ctx)

	tasks := make([]models.Task, 0, len(taskIDs))
	for _, id := range taskIDs {
		var task models.Task
		if err := db.First(&task, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, fmt.Errorf("%w: task with id %q", ErrNotFound, id)
			}
			return nil, err
		}
		switch task.Status {
		case models.TaskStatusNew, models.TaskStatusPending, models.TaskStatusCancelled:
		default:
			return nil, fmt.Errorf("%w: task %q can only be assigned when status is NEW, PENDING, or CANCELLED", ErrInvalidState, task.ID)
		}
		tasks = append(tasks, task)
	}

	for _, workerID := range workerIDs {
		if _, err := s.tasks.workerByID(db, workerID); err != nil {
			return nil, err
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for i := range tasks {
			status := tasks[i].Status
			for _, workerID := range workerIDs {
				if err := s.tasks.transition(tx, &tasks[i], status, map[string]interface{}{
					"assigned_user_id": workerID,
					"status":           models.TaskStatusPending,
				}); err != nil {
					return err
				}
				status = models.TaskStatusPending
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[bulk] assigned %d tasks across %d workers", len(tasks), len(workerIDs))

	for i := range tasks {
		for _, workerID := range workerIDs {
			s.notifyAssigned(ctx, &tasks[i], workerID)
		}
	}
	return tasks, nil
}

func (s *BulkService) notifyAssigned(ctx context.Context, task *models.Task, workerID string) {
	if s.notifier == nil {
		return
	}
	_, err := s.notifier.Create(ctx, CreateNotificationInput{
		UserID:        workerID,
		Type:          models.NotificationTaskAssigned,
		Title:         "New Task Assigned",
		Message:       fmt.Sprintf("You have been assigned a new task: %s", task.Title),
		RelatedTaskID: &task.ID,
	})
	if err != nil {
		log.Printf("[bulk] notification failed for user %s: %v", workerID, err)
	}
}
