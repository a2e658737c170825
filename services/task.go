package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sweetappleplus/gamified-task-manager-backend/models"
)

// TaskService drives the task state machine. Every state-changing operation
// runs in one transaction and flips the status with a conditional update
// ("WHERE id = ? AND status = ?"); zero affected rows means another request
// won the race and the caller gets ErrConflict with nothing committed.
type TaskService struct {
	db       *gorm.DB
	clock    Clock
	ledger   *LedgerService
	notifier Notifier
}

func NewTaskService(db *gorm.DB, clock Clock, ledger *LedgerService, notifier Notifier) *TaskService {
	return &TaskService{db: db, clock: clock, ledger: ledger, notifier: notifier}
}

type CreateTaskInput struct {
	Title                 string
	Description           string
	Steps                 *string
	Priority              models.TaskPriority
	Type                  models.TaskType
	Budget                decimal.Decimal
	CommissionPercent     decimal.Decimal
	TimeToCompleteMin     int
	Deadline              *time.Time
	MaxSubmissionDelayMin *int
	CategoryID            string
	AssignedUserID        *string
}

type UpdateTaskInput struct {
	Title                 *string
	Description           *string
	Steps                 *string
	Priority              *models.TaskPriority
	Type                  *models.TaskType
	Budget                *decimal.Decimal
	CommissionPercent     *decimal.Decimal
	TimeToCompleteMin     *int
	Deadline              *time.Time
	MaxSubmissionDelayMin *int
	CategoryID            *string
}

type SubmitTaskInput struct {
	ProofURL string
	Comment  *string
}

type ReviewTaskInput struct {
	Approved         bool
	Feedback         *string
	ReturnToInAction bool
}

type TaskFilter struct {
	Status         *models.TaskStatus
	Priority       *models.TaskPriority
	Type           *models.TaskType
	AssignedUserID *string
	CategoryID     *string
	CreatedByID    *string
}

func validPriority(p models.TaskPriority) bool {
	switch p {
	case models.TaskPriorityLow, models.TaskPriorityMedium, models.TaskPriorityHigh:
		return true
	}
	return false
}

func validTaskType(t models.TaskType) bool {
	switch t {
	case models.TaskTypeStandard, models.TaskTypeHighValue, models.TaskTypePremium:
		return true
	}
	return false
}

func (in *CreateTaskInput) validate() error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.Priority == "" {
		in.Priority = models.TaskPriorityMedium
	}
	if !validPriority(in.Priority) {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, in.Priority)
	}
	if in.Type == "" {
		in.Type = models.TaskTypeStandard
	}
	if !validTaskType(in.Type) {
		return fmt.Errorf("%w: unknown task type %q", ErrValidation, in.Type)
	}
	if in.Budget.IsNegative() {
		return fmt.Errorf("%w: budget must not be negative", ErrValidation)
	}
	if in.CommissionPercent.IsNegative() || in.CommissionPercent.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: commission percent must be between 0 and 100", ErrValidation)
	}
	if in.TimeToCompleteMin <= 0 {
		return fmt.Errorf("%w: time to complete must be positive", ErrValidation)
	}
	return nil
}

func (s *TaskService) categoryExists(db *gorm.DB, id string) error {
	var count int64
	if err := db.Model(&models.TaskCategory{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: task category with id %q", ErrNotFound, id)
	}
	return nil
}

func (s *TaskService) workerByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: user with id %q", ErrNotFound, id)
		}
		return nil, err
	}
	if user.Role != models.UserRoleWorker {
		return nil, fmt.Errorf("%w: task can only be assigned to users with WORKER role", ErrValidation)
	}
	return &user, nil
}

// Create stores a new task. With an assignee it starts in PENDING, otherwise
// in NEW.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput, createdByID string) (*models.Task, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	if err := s.categoryExists(db, in.CategoryID); err != nil {
		return nil, err
	}
	if in.AssignedUserID != nil {
		if _, err := s.workerByID(db, *in.AssignedUserID); err != nil {
			return nil, err
		}
	}

	status := models.TaskStatusNew
	if in.AssignedUserID != nil {
		status = models.TaskStatusPending
	}

	task := models.Task{
		Title:                 in.Title,
		Description:           in.Description,
		Steps:                 in.Steps,
		Priority:              in.Priority,
		Type:                  in.Type,
		Budget:                in.Budget,
		CommissionPercent:     in.CommissionPercent,
		TimeToCompleteMin:     in.TimeToCompleteMin,
		Deadline:              in.Deadline,
		MaxSubmissionDelayMin: in.MaxSubmissionDelayMin,
		Status:                status,
		CreatedByID:           createdByID,
		AssignedUserID:        in.AssignedUserID,
		CategoryID:            in.CategoryID,
	}
	if err := db.Create(&task).Error; err != nil {
		return nil, err
	}

	log.Printf("[task] created: %s by user %s", task.Title, createdByID)

	if task.AssignedUserID != nil {
		s.notify(ctx, CreateNotificationInput{
			UserID:        *task.AssignedUserID,
			Type:          models.NotificationTaskAssigned,
			Title:         "New Task Assigned",
			Message:       fmt.Sprintf("You have been assigned a new task: %s", task.Title),
			RelatedTaskID: &task.ID,
		})
	}
	return &task, nil
}

// Get loads a task with its category and user relations.
func (s *TaskService) Get(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("AssignedTo").
		Preload("CreatedBy").
		First(&task, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: task with id %q", ErrNotFound, id)
		}
		return nil, err
	}
	return &task, nil
}

// List returns tasks matching the filter, newest first.
func (s *TaskService) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := s.db.WithContext(ctx).Model(&models.Task{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.AssignedUserID != nil {
		query = query.Where("assigned_user_id = ?", *filter.AssignedUserID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.CreatedByID != nil {
		query = query.Where("created_by_id = ?", *filter.CreatedByID)
	}

	var tasks []models.Task
	err := query.
		Preload("Category").
		Preload("AssignedTo").
		Preload("CreatedBy").
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update edits descriptive and economic fields. It does not touch the state
// machine.
func (s *TaskService) Update(ctx context.Context, id string, in UpdateTaskInput) (*models.Task, error) {
	db := s.db.WithContext(ctx)

	var task models.Task
	if err := db.First(&task, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: task with id %q", ErrNotFound, id)
		}
		return nil, err
	}

	if in.CategoryID != nil {
		if err := s.categoryExists(db, *in.CategoryID); err != nil {
			return nil, err
		}
		task.CategoryID = *in.CategoryID
	}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("%w: title is required", ErrValidation)
		}
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Steps != nil {
		task.Steps = in.Steps
	}
	if in.Priority != nil {
		if !validPriority(*in.Priority) {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, *in.Priority)
		}
		task.Priority = *in.Priority
	}
	if in.Type != nil {
		if !validTaskType(*in.Type) {
			return nil, fmt.Errorf("%w: unknown task type %q", ErrValidation, *in.Type)
		}
		task.Type = *in.Type
	}
	if in.Budget != nil {
		if in.Budget.IsNegative() {
			return nil, fmt.Errorf("%w: budget must not be negative", ErrValidation)
		}
		task.Budget = *in.Budget
	}
	if in.CommissionPercent != nil {
		if in.CommissionPercent.IsNegative() || in.CommissionPercent.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("%w: commission percent must be between 0 and 100", ErrValidation)
		}
		task.CommissionPercent = *in.CommissionPercent
	}
	if in.TimeToCompleteMin != nil {
		if *in.TimeToCompleteMin <= 0 {
			return nil, fmt.Errorf("%w: time to complete must be positive", ErrValidation)
		}
		task.TimeToCompleteMin = *in.TimeToCompleteMin
	}
	if in.Deadline != nil {
		task.Deadline = in.Deadline
	}
	if in.MaxSubmissionDelayMin != nil {
		task.MaxSubmissionDelayMin = in.MaxSubmissionDelayMin
	}

	if err := db.Save(&task).Error; err != nil {
		return nil, err
	}

	log.Printf("[task] updated: %s", task.Title)
	return &task, nil
}

// Assign hands a task to a worker. Allowed from NEW, PENDING and CANCELLED;
// the task moves to PENDING.
func (s *TaskService) Assign(ctx context.Context, id, workerID string) (*models.Task, error) {
	var task models.Task

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: task with id %q", ErrNotFound, id)
			}
			return err
		}

		switch task.Status {
		case models.TaskStatusNew, models.TaskStatusPending, models.TaskStatusCancelled:
		default:
			return fmt.Errorf("%w: task can only be assigned when status is NEW, PENDING, or CANCELLED", ErrInvalidState)
		}

		if _, err := s.workerByID(tx, workerID); err != nil {
			return err
		}

		return s.transition(tx, &task, task.Status, map[string]interface{}{
			"assigned_user_id": workerID,
			"status":           models.TaskStatusPending,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[task] assigned: %s to user %s", task.Title, workerID)

	s.notify(ctx, CreateNotificationInput{
		UserID:        workerID,
		Type:          models.NotificationTaskAssigned,
		Title:         "New Task Assigned",
		Message:       fmt.Sprintf("You have been assigned a new task: %s", task.Title),
		RelatedTaskID: &task.ID,
	})
	return &task, nil
}

// Start begins execution. Only the assigned worker may start, and only from
// PENDING. StartedAt is set once and survives later rejections.
func (s *TaskService) Start(ctx context.Context, id, callerID string) (*models.Task, error) {
	var task models.Task

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: task with id %q", ErrNotFound, id)
			}
			return err
		}

		if task.AssignedUserID == nil || *task.AssignedUserID != callerID {
			return fmt.Errorf("%w: you can only start tasks assigned to you", ErrForbidden)
		}
		if task.Status != models.TaskStatusPending {
			return fmt.Errorf("%w: task can only be started when status is PENDING", ErrInvalidState)
		}

		now := s.clock.Now()
		return s.transition(tx, &task, models.TaskStatusPending, map[string]interface{}{
			"status":     models.TaskStatusInAction,
			"started_at": now,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[task] started: %s by user %s", task.Title, callerID)
	return &task, nil
}

// Submit records a proof-of-work attempt. Allowed from IN_ACTION and FAILED;
// lateness is judged against the original StartedAt, so resubmissions keep
// accumulating elapsed time.
func (s *TaskService) Submit(ctx context.Context, id, callerID string, in SubmitTaskInput) (*models.Task, error) {
	if in.ProofURL == "" {
		return nil, fmt.Errorf("%w: proof url is required", ErrValidation)
	}

	var task models.Task
	var isLate bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: task with id %q", ErrNotFound, id)
			}
			return err
		}

		if task.AssignedUserID == nil || *task.AssignedUserID != callerID {
			return fmt.Errorf("%w: you can only submit tasks assigned to you", ErrForbidden)
		}
		if task.Status != models.TaskStatusInAction && task.Status != models.TaskStatusFailed {
			return fmt.Errorf("%w: task can only be submitted when status is IN_ACTION or FAILED", ErrInvalidState)
		}
		if task.StartedAt == nil {
			return fmt.Errorf("%w: task must be started before submission", ErrValidation)
		}

		now := s.clock.Now()
		isLate = ElapsedMinutes(*task.StartedAt, now) > task.TimeToCompleteMin

		// Clear the previous latest flag before inserting, keeping at most
		// one latest submission per task.
		err := tx.Model(&models.TaskSubmission{}).
			Where("task_id = ? AND is_latest = ?", id, true).
			Update("is_latest", false).Error
		if err != nil {
			return err
		}

		submission := models.TaskSubmission{
			TaskID:        id,
			ProofURL:      in.ProofURL,
			Comment:       in.Comment,
			IsLate:        isLate,
			SubmittedByID: callerID,
			IsLatest:      true,
		}
		if err := tx.Create(&submission).Error; err != nil {
			return err
		}

		newStatus := models.TaskStatusInReview
		if isLate {
			newStatus = models.TaskStatusLate
		}
		return s.transition(tx, &task, task.Status, map[string]interface{}{
			"status":       newStatus,
			"submitted_at": now,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[task] submitted: %s by user %s, late: %t", task.Title, callerID, isLate)

	s.notify(ctx, CreateNotificationInput{
		UserID:        task.CreatedByID,
		Type:          models.NotificationTaskSubmitted,
		Title:         "Task Submitted for Review",
		Message:       fmt.Sprintf("Task %q has been submitted for review", task.Title),
		RelatedTaskID: &task.ID,
	})
	return &task, nil
}

// Review resolves a submitted task. Approval computes the reward (and an
// early-completion bonus when configured), posts the ledger entries and
// completes the task in one atomic unit. Rejection moves the task to FAILED,
// or straight back to IN_ACTION when the reviewer requests a reopen.
func (s *TaskService) Review(ctx context.Context, id, reviewerID string, in ReviewTaskInput) (*models.Task, error) {
	var task models.Task
	var reward Reward

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: task with id %q", ErrNotFound, id)
			}
			return err
		}

		if task.Status != models.TaskStatusInReview && task.Status != models.TaskStatusLate {
			return fmt.Errorf("%w: task can only be reviewed when status is IN_REVIEW or LATE", ErrInvalidState)
		}

		var submission models.TaskSubmission
		err := tx.Where("task_id = ? AND is_latest = ?", id, true).First(&submission).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: no submission found for this task", ErrNotFound)
			}
			return err
		}

		now := s.clock.Now()
		err = tx.Model(&submission).Updates(map[string]interface{}{
			"admin_feedback": in.Feedback,
			"reviewed_by_id": reviewerID,
			"reviewed_at":    now,
		}).Error
		if err != nil {
			return err
		}

		if !in.Approved {
			newStatus := models.TaskStatusFailed
			if in.ReturnToInAction {
				newStatus = models.TaskStatusInAction
			}
			return s.transition(tx, &task, task.Status, map[string]interface{}{
				"status": newStatus,
			})
		}

		if task.AssignedUserID == nil || task.StartedAt == nil || task.SubmittedAt == nil {
			return fmt.Errorf("%w: task is missing assignee or timing data", ErrInvalidState)
		}

		var bonusPercent *decimal.Decimal
		var config models.BonusConfig
		err = tx.First(&config, "task_type = ?", task.Type).Error
		switch {
		case err == nil:
			bonusPercent = &config.BonusPercent
		case err == gorm.ErrRecordNotFound:
			// No bonus configured for this task type.
		default:
			return err
		}

		reward = ComputeReward(task.Budget, task.CommissionPercent, *task.StartedAt, *task.SubmittedAt, task.TimeToCompleteMin, bonusPercent)

		rewardDesc := fmt.Sprintf("Reward for completing task: %s", task.Title)
		_, err = s.ledger.PostTx(tx, PostLedgerEntryInput{
			UserID:        *task.AssignedUserID,
			Type:          models.LedgerTypeTaskReward,
			Amount:        reward.Amount,
			Description:   &rewardDesc,
			RelatedTaskID: &task.ID,
		})
		if err != nil {
			return err
		}

		if reward.Bonus != nil {
			bonusDesc := fmt.Sprintf("Early completion bonus for task: %s", task.Title)
			_, err = s.ledger.PostTx(tx, PostLedgerEntryInput{
				UserID:        *task.AssignedUserID,
				Type:          models.LedgerTypeBonus,
				Amount:        *reward.Bonus,
				Description:   &bonusDesc,
				RelatedTaskID: &task.ID,
			})
			if err != nil {
				return err
			}
		}

		return s.transition(tx, &task, task.Status, map[string]interface{}{
			"status":       models.TaskStatusCompleted,
			"completed_at": now,
		})
	})
	if err != nil {
		return nil, err
	}

	if in.Approved {
		log.Printf("[task] approved: %s, reward: %s", task.Title, reward.Total().String())
		s.notify(ctx, CreateNotificationInput{
			UserID:        *task.AssignedUserID,
			Type:          models.NotificationTaskApproved,
			Title:         "Task Approved",
			Message:       fmt.Sprintf("Your task %q has been approved! You earned $%s", task.Title, reward.Total().String()),
			RelatedTaskID: &task.ID,
		})
	} else {
		log.Printf("[task] rejected: %s (reopen: %t)", task.Title, in.ReturnToInAction)
		if task.AssignedUserID != nil {
			s.notify(ctx, CreateNotificationInput{
				UserID:        *task.AssignedUserID,
				Type:          models.NotificationTaskRejected,
				Title:         "Task Rejected",
				Message:       fmt.Sprintf("Your task %q has been rejected. Please review the feedback and resubmit.", task.Title),
				RelatedTaskID: &task.ID,
			})
		}
	}
	return &task, nil
}

// MarkAsPaid confirms the payout of a completed task and moves it to its
// terminal PAID state. The amount is the sum of the reward and bonus entries
// already posted for this task.
func (s *TaskService) MarkAsPaid(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	var total decimal.Decimal

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: task with id %q", ErrNotFound, id)
			}
			return err
		}

		if task.Status != models.TaskStatusCompleted {
			return fmt.Errorf("%w: task can only be marked as paid when status is COMPLETED", ErrInvalidState)
		}
		if task.AssignedUserID == nil {
			return fmt.Errorf("%w: task has no assignee to pay", ErrInvalidState)
		}

		var err error
		total, err = s.ledger.SumForTask(tx, *task.AssignedUserID, task.ID)
		if err != nil {
			return err
		}

		return s.transition(tx, &task, models.TaskStatusCompleted, map[string]interface{}{
			"status": models.TaskStatusPaid,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[task] paid: %s, total: %s", task.Title, total.String())

	s.notify(ctx, CreateNotificationInput{
		UserID:        *task.AssignedUserID,
		Type:          models.NotificationTaskPaid,
		Title:         "Task Paid",
		Message:       fmt.Sprintf("Payment of $%s for task %q has been confirmed", total.String(), task.Title),
		RelatedTaskID: &task.ID,
	})
	return &task, nil
}

// Cancel parks an assigned task in CANCELLED. Allowed from any assigned
// state that has no financial outcome yet; a cancelled task keeps its
// assignee and can be re-assigned later. Unassigned NEW tasks are disposed
// of with Delete instead, keeping the rule that only NEW tasks lack an
// assignee.
func (s *TaskService) Cancel(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: task with id %q", ErrNotFound, id)
			}
			return err
		}

		switch task.Status {
		case models.TaskStatusNew, models.TaskStatusCompleted, models.TaskStatusPaid, models.TaskStatusCancelled:
			return fmt.Errorf("%w: task cannot be cancelled when status is %s", ErrInvalidState, task.Status)
		}

		return s.transition(tx, &task, task.Status, map[string]interface{}{
			"status": models.TaskStatusCancelled,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[task] cancelled: %s", task.Title)
	return &task, nil
}

// Delete removes a task that never produced any history worth preserving.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	db := s.db.WithContext(ctx)

	var task models.Task
	if err := db.First(&task, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("%w: task with id %q", ErrNotFound, id)
		}
		return err
	}

	if task.Status != models.TaskStatusNew && task.Status != models.TaskStatusCancelled {
		return fmt.Errorf("%w: only tasks with status NEW or CANCELLED can be deleted", ErrInvalidState)
	}

	// A task cancelled mid-review still carries submissions; those stay, so
	// the task row must too.
	var submissions int64
	if err := db.Model(&models.TaskSubmission{}).Where("task_id = ?", id).Count(&submissions).Error; err != nil {
		return err
	}
	if submissions > 0 {
		return fmt.Errorf("%w: task has %d submission(s) on record", ErrConflict, submissions)
	}

	if err := db.Delete(&task).Error; err != nil {
		return err
	}

	log.Printf("[task] deleted: %s", task.Title)
	return nil
}

// SubmissionsFor lists every proof-of-work attempt for a task, newest first.
func (s *TaskService) SubmissionsFor(ctx context.Context, taskID string) ([]models.TaskSubmission, error) {
	var submissions []models.TaskSubmission
	err := s.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// transition applies updates to the task row only if its status still equals
// expected, and mirrors the new values into task on success. Losing the race
// surfaces as ErrConflict and rolls back the surrounding transaction.
func (s *TaskService) transition(tx *gorm.DB, task *models.Task, expected models.TaskStatus, updates map[string]interface{}) error {
	result := tx.Model(&models.Task{}).
		Where("id = ? AND status = ?", task.ID, expected).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: task %q changed concurrently, retry", ErrConflict, task.ID)
	}
	return tx.First(task, "id = ?", task.ID).Error
}

// notify fires a best-effort notification. Failures are logged and swallowed
// so delivery can never roll back a committed transition.
func (s *TaskService) notify(ctx context.Context, in CreateNotificationInput) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Create(ctx, in); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[task] notification failed for user %s: %v", in.UserID, err)
	}
}
