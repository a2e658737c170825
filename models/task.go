package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusNew       TaskStatus = "NEW"
	TaskStatusPending   TaskStatus = "PENDING"
	TaskStatusInAction  TaskStatus = "IN_ACTION"
	TaskStatusInReview  TaskStatus = "IN_REVIEW"
	TaskStatusLate      TaskStatus = "LATE"
	TaskStatusCompleted TaskStatus = "COMPLETED"
	TaskStatusFailed    TaskStatus = "FAILED"
	TaskStatusPaid      TaskStatus = "PAID"
	TaskStatusCancelled TaskStatus = "CANCELLED"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

type TaskType string

const (
	TaskTypeStandard  TaskType = "STANDARD"
	TaskTypeHighValue TaskType = "HIGH_VALUE"
	TaskTypePremium   TaskType = "PREMIUM"
)

// Task is a unit of paid work tracked through the assignment, execution,
// submission, review and payment lifecycle. AssignedUserID is set exactly
// when Status is anything other than NEW.
type Task struct {
	ID                    string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title                 string          `gorm:"size:200;not null" json:"title"`
	Description           string          `gorm:"type:text;not null" json:"description"`
	Steps                 *string         `gorm:"type:text" json:"steps,omitempty"`
	Priority              TaskPriority    `gorm:"type:varchar(10);not null;default:'MEDIUM'" json:"priority"`
	Type                  TaskType        `gorm:"type:varchar(20);not null;default:'STANDARD'" json:"type"`
	Budget                decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"budget"`
	CommissionPercent     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"commission_percent"`
	TimeToCompleteMin     int             `gorm:"not null" json:"time_to_complete_min"`
	Deadline              *time.Time      `json:"deadline,omitempty"`
	MaxSubmissionDelayMin *int            `json:"max_submission_delay_min,omitempty"`
	StartedAt             *time.Time      `json:"started_at,omitempty"`
	SubmittedAt           *time.Time      `json:"submitted_at,omitempty"`
	CompletedAt           *time.Time      `json:"completed_at,omitempty"`
	Status                TaskStatus      `gorm:"type:varchar(20);not null;index;default:'NEW'" json:"status"`
	CreatedByID           string          `gorm:"type:varchar(36);not null;index" json:"created_by_id"`
	AssignedUserID        *string         `gorm:"type:varchar(36);index" json:"assigned_user_id,omitempty"`
	CategoryID            string          `gorm:"type:varchar(36);not null;index" json:"category_id"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`

	Category   *TaskCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	AssignedTo *User         `gorm:"foreignKey:AssignedUserID" json:"assigned_to,omitempty"`
	CreatedBy  *User         `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
