package fiscal

import (
	"context"
	"testing"
	"time"

	"github.com/fiscus/fiscus/internal/utils"
	"github.com/fiscus/fiscus/pkg/user"
	"github.com/stretchr/testify/assert"
)

func setupFiscalService(t *testing.T) (*ServiceImpl, context.Context, *StubFiscalRepo, *utils.MockClock) {
	repo := NewStubFiscalRepo()
	clock := &utils.MockClock{FixedNow: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
	service := NewFiscalService(repo, clock)
	ctx := user.WithUser(context.Background(), user.User{Id: 1, Username: "test-user"})
	t.Cleanup(repo.Cleanup)
	return service, ctx, repo, clock
}

func TestFiscalService_ResolveWindow_FallsBackToHeuristic(t *testing.T) {
	// given a user with no fiscal month records
	service, ctx, _, _ := setupFiscalService(t)

	// when
	window, err := service.ResolveWindow(ctx, "")

	// then
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.February, 27, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2025, time.March, 27, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), window.End)
}

func TestFiscalService_StartNewCycle_FirstCycle(t *testing.T) {
	// given
	service, ctx, repo, _ := setupFiscalService(t)

	// when
	month, err := service.StartNewCycle(ctx, time.Time{})

	// then
	assert.NoError(t, err)
	assert.True(t, month.IsActive)
	assert.True(t, month.Open())
	assert.Equal(t, "2025-03", month.MonthLabel)
	assert.NotEmpty(t, month.Uid)

	active, found, err := repo.FindActive(ctx, 1)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, month.Id, active.Id)
}

func TestFiscalService_StartNewCycle_ClosesPriorCycleWhereNewOneBegins(t *testing.T) {
	// given an open cycle
	service, ctx, repo, clock := setupFiscalService(t)
	first, err := service.StartNewCycle(ctx, time.Time{})
	assert.NoError(t, err)

	// when a new cycle starts on April 1st
	clock.SetNow(time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC))
	second, err := service.StartNewCycle(ctx, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)

	// then the prior cycle ends exactly where the new one begins
	months, err := repo.GetAll(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, months, 2)
	var closed FiscalMonth
	for _, m := range months {
		if m.Id == first.Id {
			closed = m
		}
	}
	assert.False(t, closed.IsActive)
	assert.Equal(t, second.StartDate.Add(-time.Nanosecond), closed.EndDate)

	active, found, _ := repo.FindActive(ctx, 1)
	assert.True(t, found)
	assert.Equal(t, second.Id, active.Id)
}

func TestFiscalService_StartNewCycle_RejectsStartBeforeActiveCycle(t *testing.T) {
	// given
	service, ctx, _, _ := setupFiscalService(t)
	_, err := service.StartNewCycle(ctx, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)

	// when
	_, err = service.StartNewCycle(ctx, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))

	// then
	assert.Error(t, err)
}

func TestFiscalService_RequiresUserInContext(t *testing.T) {
	service, _, _, _ := setupFiscalService(t)

	_, err := service.ResolveWindow(context.Background(), "")

	assert.ErrorIs(t, err, user.ErrNoUser)
}
