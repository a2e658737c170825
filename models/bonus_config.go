package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BonusConfig maps a task type to the bonus percentage paid for finishing a
// task of that type ahead of schedule. One row per task type.
type BonusConfig struct {
	ID           string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	TaskType     TaskType        `gorm:"type:varchar(20);not null;uniqueIndex" json:"task_type"`
	Name         string          `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	BonusPercent decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"bonus_percent"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (BonusConfig) TableName() string {
	return "bonus_configs"
}

func (c *BonusConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
