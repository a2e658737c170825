package services

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reward is the financial outcome of an approved task. Bonus is nil when the
// task was not finished ahead of schedule or no bonus is configured for its
// type.
type Reward struct {
	Amount decimal.Decimal
	Bonus  *decimal.Decimal
}

// Total returns reward plus bonus (zero bonus when absent).
func (r Reward) Total() decimal.Decimal {
	if r.Bonus == nil {
		return r.Amount
	}
	return r.Amount.Add(*r.Bonus)
}

var oneHundred = decimal.NewFromInt(100)

// ElapsedMinutes returns the whole minutes between start and end, truncated
// toward zero.
func ElapsedMinutes(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}

// ComputeReward derives the worker payout for an approved task.
//
//	reward = budget * commissionPercent / 100
//
// A bonus of reward * bonusPercent / 100 applies only when the submission
// landed strictly under timeToCompleteMin and bonusPercent is positive.
// Division uses shopspring's default precision of 16 fractional digits; no
// further rounding is applied.
func ComputeReward(budget, commissionPercent decimal.Decimal, startedAt, submittedAt time.Time, timeToCompleteMin int, bonusPercent *decimal.Decimal) Reward {
	reward := budget.Mul(commissionPercent).Div(oneHundred)

	out := Reward{Amount: reward}

	if bonusPercent == nil || !bonusPercent.IsPositive() {
		return out
	}
	if ElapsedMinutes(startedAt, submittedAt) >= timeToCompleteMin {
		return out
	}

	bonus := reward.Mul(*bonusPercent).Div(oneHundred)
	out.Bonus = &bonus
	return out
}
