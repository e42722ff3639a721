package budget

import (
	"context"
	"errors"
)

// StubBudgetRepo is an in-memory Repo for tests.
type StubBudgetRepo struct {
	budgets               []Budget
	nextId                int
	FailUpdateCategoryName bool
}

func NewStubBudgetRepo() *StubBudgetRepo {
	return &StubBudgetRepo{nextId: 1}
}

func (s *StubBudgetRepo) GetAll(_ context.Context, userId int) ([]Budget, error) {
	var budgets []Budget
	for _, b := range s.budgets {
		if b.UserId == userId {
			budgets = append(budgets, b)
		}
	}
	return budgets, nil
}

func (s *StubBudgetRepo) GetByUid(_ context.Context, userId int, uid string) (Budget, error) {
	for _, b := range s.budgets {
		if b.UserId == userId && b.Uid == uid {
			return b, nil
		}
	}
	return Budget{}, ErrBudgetNotFound
}

func (s *StubBudgetRepo) GetByCategoryId(_ context.Context, userId int, categoryId int) (Budget, error) {
	for _, b := range s.budgets {
		if b.UserId == userId && b.CategoryId == categoryId {
			return b, nil
		}
	}
	return Budget{}, ErrBudgetNotFound
}

func (s *StubBudgetRepo) Upsert(_ context.Context, userId int, budget Budget) (Budget, error) {
	for i, b := range s.budgets {
		if b.UserId == userId && b.CategoryId == budget.CategoryId {
			s.budgets[i].MonthlyLimit = budget.MonthlyLimit
			s.budgets[i].CategoryName = budget.CategoryName
			return s.budgets[i], nil
		}
	}
	budget.Id = s.nextId
	s.nextId++
	budget.UserId = userId
	s.budgets = append(s.budgets, budget)
	return budget, nil
}

func (s *StubBudgetRepo) Delete(_ context.Context, userId int, id int) (bool, error) {
	for i, b := range s.budgets {
		if b.UserId == userId && b.Id == id {
			s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *StubBudgetRepo) UpdateCategoryName(_ context.Context, userId int, categoryId int, newName string) (int64, error) {
	if s.FailUpdateCategoryName {
		return 0, errors.New("stubbed budget update failure")
	}
	var touched int64
	for i, b := range s.budgets {
		if b.UserId == userId && b.CategoryId == categoryId {
			s.budgets[i].CategoryName = newName
			touched++
		}
	}
	return touched, nil
}

func (s *StubBudgetRepo) Cleanup() {
	s.budgets = nil
	s.nextId = 1
	s.FailUpdateCategoryName = false
}
