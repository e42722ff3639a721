package fiscal

import (
	"context"
	"fmt"
	"time"

	"github.com/fiscus/fiscus/internal/utils"
	"github.com/fiscus/fiscus/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// ResolveWindow maps an optional YYYY-MM label to the matching fiscal
	// cycle window for the current user.
	ResolveWindow(ctx context.Context, monthLabel string) (Window, error)
	ListMonths(ctx context.Context) ([]FiscalMonth, error)
	// StartNewCycle closes the currently open cycle just before startDate and
	// opens the next one beginning there.
	StartNewCycle(ctx context.Context, startDate time.Time) (FiscalMonth, error)
}

type ServiceImpl struct {
	repo  Repo
	clock utils.Clock
}

func NewFiscalService(repo Repo, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) ResolveWindow(ctx context.Context, monthLabel string) (Window, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Window{}, fmt.Errorf("failed to get current user: %w", err)
	}
	months, err := s.repo.GetAll(ctx, userId)
	if err != nil {
		return Window{}, err
	}
	return ResolveWindow(s.clock.Now().UTC(), monthLabel, months)
}

func (s *ServiceImpl) ListMonths(ctx context.Context) ([]FiscalMonth, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

func (s *ServiceImpl) StartNewCycle(ctx context.Context, startDate time.Time) (FiscalMonth, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return FiscalMonth{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if startDate.IsZero() {
		startDate = s.clock.Now().UTC()
	}

	active, found, err := s.repo.FindActive(ctx, userId)
	if err != nil {
		return FiscalMonth{}, err
	}
	if found {
		if !startDate.After(active.StartDate) {
			return FiscalMonth{}, fmt.Errorf("new cycle must start after the current one (started %s)",
				active.StartDate.Format("2006-01-02"))
		}
		closed, err := s.repo.Close(ctx, userId, active.Id, startDate.Add(-time.Nanosecond))
		if err != nil {
			return FiscalMonth{}, fmt.Errorf("failed to close current cycle: %w", err)
		}
		if !closed {
			log.Warnf("active fiscal month %d for user %d disappeared before closing", active.Id, userId)
		}
	}

	month := FiscalMonth{
		Uid:        uuid.NewString(),
		UserId:     userId,
		MonthLabel: startDate.UTC().Format(monthLabelLayout),
		StartDate:  startDate.UTC(),
		IsActive:   true,
	}
	id, err := s.repo.Store(ctx, userId, month)
	if err != nil {
		return FiscalMonth{}, err
	}
	month.Id = id
	return month, nil
}
