package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/fiscus/fiscus/internal/event_bus"
	"github.com/fiscus/fiscus/internal/utils"
	"github.com/fiscus/fiscus/pkg/category"
	"github.com/fiscus/fiscus/pkg/fiscal"
	"github.com/fiscus/fiscus/pkg/money"
	"github.com/fiscus/fiscus/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func setupTransactionService(t *testing.T) (*ServiceImpl, context.Context, *StubTransactionRepo, *category.StubCategoryRepo, *event_bus.EventBus) {
	repo := NewStubTransactionRepo()
	categoryRepo := category.NewStubCategoryRepo()
	clock := &utils.MockClock{FixedNow: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
	fiscalService := fiscal.NewFiscalService(fiscal.NewStubFiscalRepo(), clock)
	bus := event_bus.NewEventBus()
	service := NewTransactionService(repo, categoryRepo, fiscalService, bus)
	ctx := user.WithUser(context.Background(), user.User{Id: 1, Username: "test-user"})
	t.Cleanup(func() {
		repo.Cleanup()
		categoryRepo.Cleanup()
	})
	return service, ctx, repo, categoryRepo, bus
}

func TestTransactionService_Create_NormalizesAmountAndDate(t *testing.T) {
	// given
	service, ctx, _, categoryRepo, _ := setupTransactionService(t)
	_, err := categoryRepo.Store(ctx, 1, category.Category{Uid: "c1", Name: "Food", Type: category.TypeExpense})
	assert.NoError(t, err)

	// when
	tx, err := service.Create(ctx, CreateRequest{
		Amount:   "1.234,50 MAD",
		Category: "Food",
		Type:     "expense",
		Date:     "15/03/2025",
	})

	// then
	assert.NoError(t, err)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("1234.50")))
	assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.Equal(t, "Food", tx.CategoryName)
	assert.NotEmpty(t, tx.Uid)
}

func TestTransactionService_Create_RejectsInvalidInput(t *testing.T) {
	service, ctx, _, categoryRepo, _ := setupTransactionService(t)
	_, _ = categoryRepo.Store(ctx, 1, category.Category{Uid: "c1", Name: "Food", Type: category.TypeExpense})

	tests := []struct {
		name    string
		req     CreateRequest
		wantErr error
	}{
		{
			name:    "unparseable amount is not coerced to zero",
			req:     CreateRequest{Amount: "lots", Category: "Food", Type: "expense", Date: "15/03/2025"},
			wantErr: money.ErrInvalidAmount,
		},
		{
			name:    "zero amount",
			req:     CreateRequest{Amount: "0", Category: "Food", Type: "expense", Date: "15/03/2025"},
			wantErr: money.ErrInvalidAmount,
		},
		{
			name:    "impossible calendar date",
			req:     CreateRequest{Amount: "10", Category: "Food", Type: "expense", Date: "31/02/2025"},
			wantErr: money.ErrInvalidDate,
		},
		{
			name:    "unknown type",
			req:     CreateRequest{Amount: "10", Category: "Food", Type: "transfer", Date: "15/03/2025"},
			wantErr: ErrInvalidType,
		},
		{
			name:    "unknown category",
			req:     CreateRequest{Amount: "10", Category: "Nope", Type: "expense", Date: "15/03/2025"},
			wantErr: category.ErrCategoryNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTransactionService_Create_PublishesRecordedEvent(t *testing.T) {
	// given
	service, ctx, _, categoryRepo, bus := setupTransactionService(t)
	_, _ = categoryRepo.Store(ctx, 1, category.Category{Uid: "c1", Name: "Food", Type: category.TypeExpense})

	var received []event_bus.TransactionRecorded
	event_bus.SubscribeTyped[event_bus.TransactionRecorded](bus, event_bus.TransactionRecordedType,
		func(e event_bus.EventT[event_bus.TransactionRecorded]) error {
			received = append(received, e.Data)
			return nil
		})

	// when
	_, err := service.Create(ctx, CreateRequest{Amount: "42", Category: "Food", Type: "expense", Date: "15/03/2025"})

	// then
	assert.NoError(t, err)
	assert.Len(t, received, 1)
	assert.Equal(t, "Food", received[0].CategoryName)
	assert.True(t, received[0].Amount.Equal(decimal.NewFromInt(42)))
}

func TestTransactionService_ListForCycle_UsesResolvedWindow(t *testing.T) {
	// given transactions inside and outside the active salary cycle (Feb 27 - Mar 26)
	service, ctx, repo, categoryRepo, _ := setupTransactionService(t)
	_, _ = categoryRepo.Store(ctx, 1, category.Category{Uid: "c1", Name: "Food", Type: category.TypeExpense})
	inCycle := Transaction{Uid: "t1", Amount: decimal.NewFromInt(10), CategoryId: 1, CategoryName: "Food",
		Type: TypeExpense, Date: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)}
	outOfCycle := Transaction{Uid: "t2", Amount: decimal.NewFromInt(20), CategoryId: 1, CategoryName: "Food",
		Type: TypeExpense, Date: time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)}
	_, _ = repo.Store(ctx, 1, inCycle)
	_, _ = repo.Store(ctx, 1, outOfCycle)

	// when
	transactions, err := service.ListForCycle(ctx, "")

	// then
	assert.NoError(t, err)
	assert.Len(t, transactions, 1)
	assert.Equal(t, "t1", transactions[0].Uid)
}

func TestTransactionService_Delete(t *testing.T) {
	// given
	service, ctx, repo, categoryRepo, _ := setupTransactionService(t)
	_, _ = categoryRepo.Store(ctx, 1, category.Category{Uid: "c1", Name: "Food", Type: category.TypeExpense})
	_, _ = repo.Store(ctx, 1, Transaction{Uid: "t1", Amount: decimal.NewFromInt(10), CategoryId: 1,
		CategoryName: "Food", Type: TypeExpense, Date: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)})

	// when
	err := service.Delete(ctx, "t1")
	errMissing := service.Delete(ctx, "t1")

	// then
	assert.NoError(t, err)
	assert.ErrorIs(t, errMissing, ErrTransactionNotFound)
}
