package analytics

import (
	"context"
	"fmt"

	"github.com/fiscus/fiscus/pkg/fiscal"
	"github.com/fiscus/fiscus/pkg/transaction"
	"github.com/fiscus/fiscus/pkg/user"
	"github.com/shopspring/decimal"
)

type Service interface {
	CategoryTotals(ctx context.Context, monthLabel string) (map[string]decimal.Decimal, error)
	DailySpending(ctx context.Context, monthLabel string, bucketDays int) ([]DailySpend, error)
	CycleOverview(ctx context.Context, monthLabel string) (Overview, error)
}

type ServiceImpl struct {
	txRepo transaction.Repo
	fiscal fiscal.Service
}

func NewAnalyticsService(txRepo transaction.Repo, fiscalService fiscal.Service) *ServiceImpl {
	return &ServiceImpl{txRepo: txRepo, fiscal: fiscalService}
}

// load reads the cycle's transactions once; the aggregation functions
// themselves are pure and safe to run concurrently over the result.
func (s *ServiceImpl) load(ctx context.Context, monthLabel string) ([]transaction.Transaction, fiscal.Window, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fiscal.Window{}, fmt.Errorf("failed to get current user: %w", err)
	}
	window, err := s.fiscal.ResolveWindow(ctx, monthLabel)
	if err != nil {
		return nil, fiscal.Window{}, err
	}
	transactions, err := s.txRepo.FindByRange(ctx, userId, window.Start, window.End)
	if err != nil {
		return nil, fiscal.Window{}, err
	}
	return transactions, window, nil
}

func (s *ServiceImpl) CategoryTotals(ctx context.Context, monthLabel string) (map[string]decimal.Decimal, error) {
	transactions, window, err := s.load(ctx, monthLabel)
	if err != nil {
		return nil, err
	}
	return AggregateByCategory(transactions, window), nil
}

func (s *ServiceImpl) DailySpending(ctx context.Context, monthLabel string, bucketDays int) ([]DailySpend, error) {
	transactions, window, err := s.load(ctx, monthLabel)
	if err != nil {
		return nil, err
	}
	return AggregateByDay(transactions, window, bucketDays), nil
}

func (s *ServiceImpl) CycleOverview(ctx context.Context, monthLabel string) (Overview, error) {
	transactions, window, err := s.load(ctx, monthLabel)
	if err != nil {
		return Overview{}, err
	}
	return ComputeOverview(transactions, window), nil
}
