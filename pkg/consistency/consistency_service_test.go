package consistency

import (
	"context"
	"testing"
	"time"

	"github.com/fiscus/fiscus/pkg/budget"
	"github.com/fiscus/fiscus/pkg/category"
	"github.com/fiscus/fiscus/pkg/transaction"
	"github.com/fiscus/fiscus/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type consistencyFixture struct {
	service      *ServiceImpl
	ctx          context.Context
	categoryRepo *category.StubCategoryRepo
	budgetRepo   *budget.StubBudgetRepo
	txRepo       *transaction.StubTransactionRepo
}

func setupConsistencyService(t *testing.T) consistencyFixture {
	categoryRepo := category.NewStubCategoryRepo()
	budgetRepo := budget.NewStubBudgetRepo()
	txRepo := transaction.NewStubTransactionRepo()
	service := NewConsistencyService(categoryRepo, budgetRepo, txRepo)
	ctx := user.WithUser(context.Background(), user.User{Id: 1, Username: "test-user"})
	t.Cleanup(categoryRepo.Cleanup)
	t.Cleanup(budgetRepo.Cleanup)
	t.Cleanup(txRepo.Cleanup)
	return consistencyFixture{service, ctx, categoryRepo, budgetRepo, txRepo}
}

func (f consistencyFixture) givenBudgetedCategory(t *testing.T, name, limit string) (category.Category, budget.Budget) {
	id, err := f.categoryRepo.Store(f.ctx, 1, category.Category{Uid: "cat-" + name, Name: name, Type: category.TypeExpense})
	require.NoError(t, err)
	b, err := f.budgetRepo.Upsert(f.ctx, 1, budget.Budget{
		Uid:          "budget-" + name,
		CategoryId:   id,
		CategoryName: name,
		MonthlyLimit: decimal.RequireFromString(limit),
	})
	require.NoError(t, err)
	cat, err := f.categoryRepo.GetByName(f.ctx, 1, name)
	require.NoError(t, err)
	return cat, b
}

func (f consistencyFixture) givenExpense(t *testing.T, cat category.Category, amount string) {
	_, err := f.txRepo.Store(f.ctx, 1, transaction.Transaction{
		Uid:          "tx-" + cat.Name + "-" + amount,
		Amount:       decimal.RequireFromString(amount),
		CategoryId:   cat.Id,
		CategoryName: cat.Name,
		Type:         transaction.TypeExpense,
		Date:         time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
}

func TestRenameCategory_CascadesToBudgetsAndTransactions(t *testing.T) {
	// given a category with a budget and two transactions
	f := setupConsistencyService(t)
	cat, _ := f.givenBudgetedCategory(t, "Groceries", "600")
	f.givenExpense(t, cat, "100")
	f.givenExpense(t, cat, "250")

	// when
	result, err := f.service.RenameCategory(f.ctx, cat.Uid, "Food")

	// then every store shows the new name and nothing keeps the old one
	assert.NoError(t, err)
	assert.Equal(t, "Groceries", result.OldName)
	assert.Equal(t, "Food", result.NewName)
	assert.Equal(t, int64(1), result.BudgetsUpdated)
	assert.Equal(t, int64(2), result.TransactionsUpdated)
	assert.Empty(t, result.Warnings)

	renamed, err := f.categoryRepo.GetByName(f.ctx, 1, "Food")
	assert.NoError(t, err)
	assert.Equal(t, cat.Id, renamed.Id)
	_, err = f.categoryRepo.GetByName(f.ctx, 1, "Groceries")
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)

	budgets, err := f.budgetRepo.GetAll(f.ctx, 1)
	assert.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, "Food", budgets[0].CategoryName)

	transactions, err := f.txRepo.FindByRange(f.ctx, 1,
		time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	require.Len(t, transactions, 2)
	for _, tx := range transactions {
		assert.Equal(t, "Food", tx.CategoryName)
	}
}

func TestRenameCategory_UnknownCategory(t *testing.T) {
	// given
	f := setupConsistencyService(t)

	// when
	_, err := f.service.RenameCategory(f.ctx, "missing-uid", "Food")

	// then
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
}

func TestRenameCategory_EmptyName(t *testing.T) {
	// given
	f := setupConsistencyService(t)
	cat, _ := f.givenBudgetedCategory(t, "Groceries", "600")

	// when
	_, err := f.service.RenameCategory(f.ctx, cat.Uid, "   ")

	// then
	assert.ErrorIs(t, err, category.ErrEmptyName)
}

func TestRenameCategory_ConflictingNameFailsHard(t *testing.T) {
	// given two categories
	f := setupConsistencyService(t)
	cat, _ := f.givenBudgetedCategory(t, "Groceries", "600")
	f.givenBudgetedCategory(t, "Transport", "150")

	// when renaming one onto the other
	_, err := f.service.RenameCategory(f.ctx, cat.Uid, "Transport")

	// then the rename is rejected and nothing cascaded
	assert.ErrorIs(t, err, category.ErrCategoryExists)
	budgets, repoErr := f.budgetRepo.GetAll(f.ctx, 1)
	assert.NoError(t, repoErr)
	names := make([]string, 0, len(budgets))
	for _, b := range budgets {
		names = append(names, b.CategoryName)
	}
	assert.ElementsMatch(t, []string{"Groceries", "Transport"}, names)
}

func TestRenameCategory_NoopWhenNameUnchanged(t *testing.T) {
	// given
	f := setupConsistencyService(t)
	cat, _ := f.givenBudgetedCategory(t, "Groceries", "600")

	// when
	result, err := f.service.RenameCategory(f.ctx, cat.Uid, "Groceries")

	// then
	assert.NoError(t, err)
	assert.Zero(t, result.BudgetsUpdated)
	assert.Zero(t, result.TransactionsUpdated)
	assert.Empty(t, result.Warnings)
}

func TestRenameCategory_CascadeFailureBecomesWarning(t *testing.T) {
	// given a transaction store that refuses updates
	f := setupConsistencyService(t)
	cat, _ := f.givenBudgetedCategory(t, "Groceries", "600")
	f.givenExpense(t, cat, "100")
	f.txRepo.FailUpdateCategoryName = true

	// when
	result, err := f.service.RenameCategory(f.ctx, cat.Uid, "Food")

	// then the rename itself succeeded and the failure is a warning
	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.BudgetsUpdated)
	assert.Zero(t, result.TransactionsUpdated)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "transaction rename cascade failed")

	renamed, err := f.categoryRepo.GetByName(f.ctx, 1, "Food")
	assert.NoError(t, err)
	assert.Equal(t, cat.Id, renamed.Id)
}

func TestDeleteBudget_RemovesBudgetAndCategory(t *testing.T) {
	// given
	f := setupConsistencyService(t)
	cat, b := f.givenBudgetedCategory(t, "Groceries", "600")

	// when
	result, err := f.service.DeleteBudget(f.ctx, b.Uid)

	// then
	assert.NoError(t, err)
	assert.Equal(t, b.Uid, result.DeletedBudget.Uid)
	require.NotNil(t, result.DeletedCategory)
	assert.Equal(t, cat.Name, result.DeletedCategory.Name)
	assert.Empty(t, result.Warnings)

	budgets, err := f.budgetRepo.GetAll(f.ctx, 1)
	assert.NoError(t, err)
	assert.Empty(t, budgets)
	_, err = f.categoryRepo.GetByName(f.ctx, 1, "Groceries")
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
}

func TestDeleteBudget_UnknownBudget(t *testing.T) {
	// given
	f := setupConsistencyService(t)

	// when
	_, err := f.service.DeleteBudget(f.ctx, "missing-uid")

	// then
	assert.ErrorIs(t, err, budget.ErrBudgetNotFound)
}

func TestDeleteBudget_CategoryDeleteFailureBecomesWarning(t *testing.T) {
	// given a category store that refuses deletes
	f := setupConsistencyService(t)
	_, b := f.givenBudgetedCategory(t, "Groceries", "600")
	f.categoryRepo.FailDelete = true

	// when
	result, err := f.service.DeleteBudget(f.ctx, b.Uid)

	// then the budget is gone, the category is orphaned, and there is a warning
	assert.NoError(t, err)
	assert.Nil(t, result.DeletedCategory)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "left behind")

	budgets, err := f.budgetRepo.GetAll(f.ctx, 1)
	assert.NoError(t, err)
	assert.Empty(t, budgets)
	_, err = f.categoryRepo.GetByName(f.ctx, 1, "Groceries")
	assert.NoError(t, err)
}

func TestCleanupOrphanedCategories_RemovesOnlyBudgetlessExpenseCategories(t *testing.T) {
	// given one budgeted expense category, one orphaned expense category
	// and one income category
	f := setupConsistencyService(t)
	f.givenBudgetedCategory(t, "Groceries", "600")
	_, err := f.categoryRepo.Store(f.ctx, 1, category.Category{Uid: "cat-orphan", Name: "Orphan", Type: category.TypeExpense})
	require.NoError(t, err)
	_, err = f.categoryRepo.Store(f.ctx, 1, category.Category{Uid: "cat-salary", Name: "Salary", Type: category.TypeIncome})
	require.NoError(t, err)

	// when
	result, err := f.service.CleanupOrphanedCategories(f.ctx)

	// then only the orphan went away
	assert.NoError(t, err)
	assert.Equal(t, 1, result.CleanedUp)
	require.Len(t, result.Categories, 1)
	assert.Equal(t, "Orphan", result.Categories[0].Name)

	_, err = f.categoryRepo.GetByName(f.ctx, 1, "Groceries")
	assert.NoError(t, err)
	_, err = f.categoryRepo.GetByName(f.ctx, 1, "Salary")
	assert.NoError(t, err)
	_, err = f.categoryRepo.GetByName(f.ctx, 1, "Orphan")
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
}

func TestCleanupOrphanedCategories_SecondRunFindsNothing(t *testing.T) {
	// given an orphan already cleaned up
	f := setupConsistencyService(t)
	_, err := f.categoryRepo.Store(f.ctx, 1, category.Category{Uid: "cat-orphan", Name: "Orphan", Type: category.TypeExpense})
	require.NoError(t, err)
	first, err := f.service.CleanupOrphanedCategories(f.ctx)
	require.NoError(t, err)
	require.Equal(t, 1, first.CleanedUp)

	// when
	second, err := f.service.CleanupOrphanedCategories(f.ctx)

	// then
	assert.NoError(t, err)
	assert.Zero(t, second.CleanedUp)
	assert.Empty(t, second.Categories)
}
