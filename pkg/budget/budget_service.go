package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/fiscus/fiscus/internal/event_bus"
	"github.com/fiscus/fiscus/pkg/analytics"
	"github.com/fiscus/fiscus/pkg/category"
	"github.com/fiscus/fiscus/pkg/fiscal"
	"github.com/fiscus/fiscus/pkg/transaction"
	"github.com/fiscus/fiscus/pkg/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrNegativeLimit = errors.New("monthly limit must not be negative")

type Service interface {
	// ListWithSpend returns the user's budgets with CurrentSpent recomputed
	// from the transactions of the resolved fiscal cycle.
	ListWithSpend(ctx context.Context, monthLabel string) ([]Budget, error)
	GetByUid(ctx context.Context, uid string) (Budget, error)
	// Upsert sets the monthly limit for the named category, creating the
	// budget when none exists yet.
	Upsert(ctx context.Context, categoryName string, limit decimal.Decimal) (Budget, error)
	// EnsureForCategory creates a zero-limit budget for the category when it
	// has none; an existing budget keeps its limit.
	EnsureForCategory(ctx context.Context, categoryId int, categoryName string) error
}

type ServiceImpl struct {
	repo         Repo
	categoryRepo category.Repo
	txRepo       transaction.Repo
	fiscal       fiscal.Service
	bus          *event_bus.EventBus
}

func NewBudgetService(
	repo Repo,
	categoryRepo category.Repo,
	txRepo transaction.Repo,
	fiscalService fiscal.Service,
	bus *event_bus.EventBus,
) *ServiceImpl {
	return &ServiceImpl{repo: repo, categoryRepo: categoryRepo, txRepo: txRepo, fiscal: fiscalService, bus: bus}
}

func (s *ServiceImpl) ListWithSpend(ctx context.Context, monthLabel string) ([]Budget, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, err
	}
	budgets, err := s.repo.GetAll(ctx, userId)
	if err != nil {
		return nil, err
	}
	window, err := s.fiscal.ResolveWindow(ctx, monthLabel)
	if err != nil {
		return nil, err
	}
	transactions, err := s.txRepo.FindByRange(ctx, userId, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	spentByCategory := analytics.AggregateByCategory(transactions, window)
	for i := range budgets {
		budgets[i].CurrentSpent = spentByCategory[budgets[i].CategoryName]
	}
	return budgets, nil
}

func (s *ServiceImpl) GetByUid(ctx context.Context, uid string) (Budget, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Budget{}, err
	}
	return s.repo.GetByUid(ctx, userId, uid)
}

func (s *ServiceImpl) Upsert(ctx context.Context, categoryName string, limit decimal.Decimal) (Budget, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Budget{}, err
	}
	if limit.IsNegative() {
		return Budget{}, fmt.Errorf("%w: %s", ErrNegativeLimit, limit)
	}
	cat, err := s.categoryRepo.GetByName(ctx, userId, categoryName)
	if err != nil {
		return Budget{}, err
	}
	stored, err := s.repo.Upsert(ctx, userId, Budget{
		Uid:          uuid.NewString(),
		CategoryId:   cat.Id,
		CategoryName: cat.Name,
		MonthlyLimit: limit,
	})
	if err != nil {
		return Budget{}, err
	}
	s.publishThresholdIfCrossed(ctx, stored)
	return stored, nil
}

func (s *ServiceImpl) EnsureForCategory(ctx context.Context, categoryId int, categoryName string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return err
	}
	_, err = s.repo.GetByCategoryId(ctx, userId, categoryId)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrBudgetNotFound) {
		return err
	}
	_, err = s.repo.Upsert(ctx, userId, Budget{
		Uid:          uuid.NewString(),
		CategoryId:   categoryId,
		CategoryName: categoryName,
		MonthlyLimit: decimal.Zero,
	})
	return err
}

// publishThresholdIfCrossed recomputes the budget's spend for the current
// cycle and announces a warning or exceeded state on the bus. Best effort:
// insight delivery never fails the write that triggered it.
func (s *ServiceImpl) publishThresholdIfCrossed(ctx context.Context, budget Budget) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return
	}
	window, err := s.fiscal.ResolveWindow(ctx, "")
	if err != nil {
		log.Warnf("could not resolve fiscal window for budget threshold check: %v", err)
		return
	}
	transactions, err := s.txRepo.FindByRange(ctx, userId, window.Start, window.End)
	if err != nil {
		log.Warnf("could not load transactions for budget threshold check: %v", err)
		return
	}
	budget.CurrentSpent = analytics.AggregateByCategory(transactions, window)[budget.CategoryName]
	status := budget.Status()
	if status == StatusOk {
		return
	}
	err = s.bus.Publish(event_bus.NewEvent(ctx, event_bus.BudgetThresholdCrossedType, event_bus.BudgetThresholdCrossed{
		UserId:       userId,
		BudgetUid:    budget.Uid,
		CategoryName: budget.CategoryName,
		MonthlyLimit: budget.MonthlyLimit,
		CurrentSpent: budget.CurrentSpent,
		Status:       string(status),
	}))
	if err != nil {
		log.Warnf("could not publish budget threshold event: %v", err)
	}
}

// WatchTransactions subscribes the ledger to recorded transactions so that a
// new expense immediately re-checks its category's budget thresholds.
// Returns the unsubscribe function.
func (s *ServiceImpl) WatchTransactions() func() {
	return event_bus.SubscribeTyped[event_bus.TransactionRecorded](s.bus, event_bus.TransactionRecordedType,
		func(e event_bus.EventT[event_bus.TransactionRecorded]) error {
			if e.Data.Type != string(transaction.TypeExpense) {
				return nil
			}
			budget, err := s.repo.GetByCategoryId(e.Context(), e.Data.UserId, e.Data.CategoryId)
			if errors.Is(err, ErrBudgetNotFound) {
				return nil
			} else if err != nil {
				return err
			}
			s.publishThresholdIfCrossed(e.Context(), budget)
			return nil
		})
}
