package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LedgerType string

const (
	LedgerTypeTaskReward LedgerType = "TASK_REWARD"
	LedgerTypeBonus      LedgerType = "BONUS"
	LedgerTypeAdjustment LedgerType = "ADJUSTMENT"
	LedgerTypeWithdrawal LedgerType = "WITHDRAWAL"
)

// ValidLedgerType reports whether t is one of the closed set of posting types.
func ValidLedgerType(t LedgerType) bool {
	switch t {
	case LedgerTypeTaskReward, LedgerTypeBonus, LedgerTypeAdjustment, LedgerTypeWithdrawal:
		return true
	}
	return false
}

// LedgerEntry is an immutable signed monetary posting to a user's account.
// Entries are append-only: no code path updates or deletes a row, and a
// user's balance is the sum of all their entries' amounts.
type LedgerEntry struct {
	ID            string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID        string          `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Type          LedgerType      `gorm:"type:varchar(20);not null;index" json:"type"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Description   *string         `gorm:"type:text" json:"description,omitempty"`
	RelatedTaskID *string         `gorm:"type:varchar(36);index" json:"related_task_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
