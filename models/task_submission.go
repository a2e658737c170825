package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskSubmission is one proof-of-work attempt for a task. Rows are never
// deleted; at most one row per task carries IsLatest = true.
type TaskSubmission struct {
	ID            string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	TaskID        string     `gorm:"type:varchar(36);not null;index" json:"task_id"`
	ProofURL      string     `gorm:"size:500;not null" json:"proof_url"`
	Comment       *string    `gorm:"type:text" json:"comment,omitempty"`
	IsLate        bool       `gorm:"not null;default:false" json:"is_late"`
	SubmittedByID string     `gorm:"type:varchar(36);not null;index" json:"submitted_by_id"`
	IsLatest      bool       `gorm:"not null;default:true;index" json:"is_latest"`
	AdminFeedback *string    `gorm:"type:text" json:"admin_feedback,omitempty"`
	ReviewedByID  *string    `gorm:"type:varchar(36)" json:"reviewed_by_id,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (TaskSubmission) TableName() string {
	return "task_submissions"
}

func (s *TaskSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
