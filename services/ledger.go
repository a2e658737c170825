package services

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sweetappleplus/gamified-task-manager-backend/models"
)

// LedgerService owns the append-only financial ledger. There is deliberately
// no update or delete operation: a posting, once committed, stays.
type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

type PostLedgerEntryInput struct {
	UserID        string
	Type          models.LedgerType
	Amount        decimal.Decimal
	Description   *string
	RelatedTaskID *string
}

// LedgerSummary is a user's balance broken down by posting type. Withdrawals
// are reported as an absolute value.
type LedgerSummary struct {
	TotalEarnings    decimal.Decimal `json:"total_earnings"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
	TotalBonuses     decimal.Decimal `json:"total_bonuses"`
	TotalAdjustments decimal.Decimal `json:"total_adjustments"`
	Balance          decimal.Decimal `json:"balance"`
}

// Post appends one immutable entry. Once it returns the entry is visible to
// every subsequent balance query.
func (s *LedgerService) Post(ctx context.Context, in PostLedgerEntryInput) (*models.LedgerEntry, error) {
	return s.PostTx(s.db.WithContext(ctx), in)
}

// PostTx appends an entry through the caller's transaction so that reward
// postings commit atomically with the task transition that caused them.
func (s *LedgerService) PostTx(tx *gorm.DB, in PostLedgerEntryInput) (*models.LedgerEntry, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if !models.ValidLedgerType(in.Type) {
		return nil, fmt.Errorf("%w: unknown ledger type %q", ErrValidation, in.Type)
	}

	entry := models.LedgerEntry{
		UserID:        in.UserID,
		Type:          in.Type,
		Amount:        in.Amount,
		Description:   in.Description,
		RelatedTaskID: in.RelatedTaskID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}

	log.Printf("[ledger] entry created for user %s (%s): %s", in.UserID, in.Type, in.Amount.String())
	return &entry, nil
}

// BalanceOf sums every posting for the user. Zero when the user has none.
func (s *LedgerService) BalanceOf(ctx context.Context, userID string) (decimal.Decimal, error) {
	var row struct {
		Total decimal.NullDecimal
	}
	err := s.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Select("SUM(amount) AS total").
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal, nil
}

// SummaryOf returns the balance plus per-type totals for the user.
func (s *LedgerService) SummaryOf(ctx context.Context, userID string) (*LedgerSummary, error) {
	var rows []struct {
		Type  models.LedgerType
		Total decimal.NullDecimal
	}
	err := s.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Select("type, SUM(amount) AS total").
		Where("user_id = ?", userID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := LedgerSummary{
		TotalEarnings:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
		TotalBonuses:     decimal.Zero,
		TotalAdjustments: decimal.Zero,
		Balance:          decimal.Zero,
	}
	for _, row := range rows {
		if !row.Total.Valid {
			continue
		}
		amount := row.Total.Decimal
		summary.Balance = summary.Balance.Add(amount)
		switch row.Type {
		case models.LedgerTypeTaskReward:
			summary.TotalEarnings = summary.TotalEarnings.Add(amount)
		case models.LedgerTypeWithdrawal:
			summary.TotalWithdrawals = summary.TotalWithdrawals.Add(amount.Abs())
		case models.LedgerTypeBonus:
			summary.TotalBonuses = summary.TotalBonuses.Add(amount)
		case models.LedgerTypeAdjustment:
			summary.TotalAdjustments = summary.TotalAdjustments.Add(amount)
		}
	}
	return &summary, nil
}

// ListFor returns the user's postings newest first, optionally filtered by
// type.
func (s *LedgerService) ListFor(ctx context.Context, userID string, entryType *models.LedgerType) ([]models.LedgerEntry, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if entryType != nil {
		if !models.ValidLedgerType(*entryType) {
			return nil, fmt.Errorf("%w: unknown ledger type %q", ErrValidation, *entryType)
		}
		query = query.Where("type = ?", *entryType)
	}

	var entries []models.LedgerEntry
	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// GetForUser fetches one entry scoped to its owner.
func (s *LedgerService) GetForUser(ctx context.Context, userID, id string) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: ledger entry with id %q for this user", ErrNotFound, id)
		}
		return nil, err
	}
	return &entry, nil
}

// SumForTask totals the reward and bonus postings tied to one task and user.
// Used by payment confirmation.
func (s *LedgerService) SumForTask(tx *gorm.DB, userID, taskID string) (decimal.Decimal, error) {
	var row struct {
		Total decimal.NullDecimal
	}
	err := tx.
		Model(&models.LedgerEntry{}).
		Select("SUM(amount) AS total").
		Where("user_id = ? AND related_task_id = ? AND type IN ?", userID, taskID,
			[]models.LedgerType{models.LedgerTypeTaskReward, models.LedgerTypeBonus}).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal, nil
}
