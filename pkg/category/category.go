package category

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrInvalidType      = errors.New("invalid category type")
	ErrEmptyName        = errors.New("category name must not be empty")
)

type CategoryType string

const (
	TypeIncome  CategoryType = "income"
	TypeExpense CategoryType = "expense"
)

func ParseType(s string) (CategoryType, error) {
	switch CategoryType(s) {
	case TypeIncome:
		return TypeIncome, nil
	case TypeExpense:
		return TypeExpense, nil
	default:
		return "", ErrInvalidType
	}
}

// Category labels transactions. Budgets and transactions reference it by its
// stable id and carry a denormalized copy of Name for display; renames update
// the copies best-effort (see pkg/consistency).
type Category struct {
	Id     int
	Uid    string
	UserId int
	Name   string
	Type   CategoryType
	Color  string
	Icon   string
}
