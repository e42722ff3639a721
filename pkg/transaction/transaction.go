package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidType         = errors.New("invalid transaction type")
)

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
	TypeSavings TransactionType = "savings"
)

func ParseType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TypeIncome, TypeExpense, TypeSavings:
		return TransactionType(s), nil
	default:
		return "", ErrInvalidType
	}
}

// Transaction is a single recorded movement of money. CategoryId is the
// stable reference; CategoryName is a denormalized display copy that category
// renames refresh best-effort.
type Transaction struct {
	Id           int
	Uid          string
	UserId       int
	Amount       decimal.Decimal
	Description  string
	CategoryId   int
	CategoryName string
	Type         TransactionType
	Date         time.Time
}
