package event_bus

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// TransactionRecordedType fires after a transaction has been stored.
	TransactionRecordedType EventType = "transaction.recorded"
	// BudgetThresholdCrossedType fires when a budget's derived spend crosses
	// the warning (80%) or exceeded (100%) threshold.
	BudgetThresholdCrossedType EventType = "budget.threshold_crossed"
)

type TransactionRecorded struct {
	UserId       int
	CategoryId   int
	CategoryName string
	Type         string
	Amount       decimal.Decimal
	Date         time.Time
}

type BudgetThresholdCrossed struct {
	UserId       int
	BudgetUid    string
	CategoryName string
	MonthlyLimit decimal.Decimal
	CurrentSpent decimal.Decimal
	Status       string
}
