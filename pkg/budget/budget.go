package budget

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrBudgetNotFound = errors.New("budget not found")

type BudgetStatus string

const (
	StatusOk      BudgetStatus = "ok"
	StatusWarning BudgetStatus = "warning"
	StatusOver    BudgetStatus = "over"
)

// warningRatio is the spent/limit ratio at which a budget starts warning.
var warningRatio = decimal.RequireFromString("0.8")

// Budget caps monthly spending for one expense category. CurrentSpent is
// derived: it is recomputed from the cycle's transactions on every read and
// never persisted, so the stored row can never drift from the ledger.
type Budget struct {
	Id           int
	Uid          string
	UserId       int
	CategoryId   int
	CategoryName string
	MonthlyLimit decimal.Decimal
	CurrentSpent decimal.Decimal
}

// Remaining is the amount still spendable this cycle; negative when over.
func (b Budget) Remaining() decimal.Decimal {
	return b.MonthlyLimit.Sub(b.CurrentSpent)
}

// Status classifies the budget: over when spending exceeds the limit,
// warning at 80% or more of it.
func (b Budget) Status() BudgetStatus {
	if b.MonthlyLimit.IsZero() {
		if b.CurrentSpent.IsPositive() {
			return StatusOver
		}
		return StatusOk
	}
	if b.CurrentSpent.GreaterThan(b.MonthlyLimit) {
		return StatusOver
	}
	if b.CurrentSpent.GreaterThanOrEqual(b.MonthlyLimit.Mul(warningRatio)) {
		return StatusWarning
	}
	return StatusOk
}
