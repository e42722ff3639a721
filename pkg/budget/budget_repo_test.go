package budget

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/fiscus/fiscus/internal/test_utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func setupBudgetRepo(t *testing.T) (*RepoImpl, *sql.DB, context.Context) {
	db := test_utils.SetupTestDB(t)
	_, err := db.Exec(`INSERT INTO users (id, uid, username) VALUES (1, 'user-uid', 'test_user')`)
	require.NoError(t, err)
	return NewBudgetRepo(db), db, context.Background()
}

func insertCategory(t *testing.T, db *sql.DB, id int, name string) {
	_, err := db.Exec(`INSERT INTO category (id, uid, user_id, name, type) VALUES (?, ?, 1, ?, 'expense')`,
		id, "cat-uid-"+name, name)
	require.NoError(t, err)
}

func TestBudgetRepo_UpsertInsertsThenUpdates(t *testing.T) {
	// given
	repo, db, ctx := setupBudgetRepo(t)
	insertCategory(t, db, 10, "Groceries")

	// when inserting a new budget
	first, err := repo.Upsert(ctx, 1, Budget{
		Uid:          "budget-1",
		CategoryId:   10,
		CategoryName: "Groceries",
		MonthlyLimit: d("400"),
	})
	require.NoError(t, err)

	// and upserting the same category again with a new limit
	second, err := repo.Upsert(ctx, 1, Budget{
		Uid:          "budget-2",
		CategoryId:   10,
		CategoryName: "Groceries",
		MonthlyLimit: d("600"),
	})
	require.NoError(t, err)

	// then the row was updated in place, never duplicated
	assert.Equal(t, first.Id, second.Id)
	assert.True(t, second.MonthlyLimit.Equal(d("600")))
	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM budget WHERE user_id = 1 AND category_id = 10`).Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBudgetRepo_GetByUid(t *testing.T) {
	// given
	repo, db, ctx := setupBudgetRepo(t)
	insertCategory(t, db, 10, "Groceries")
	stored, err := repo.Upsert(ctx, 1, Budget{
		Uid:          "budget-1",
		CategoryId:   10,
		CategoryName: "Groceries",
		MonthlyLimit: d("400"),
	})
	require.NoError(t, err)

	// when
	found, err := repo.GetByUid(ctx, 1, "budget-1")

	// then the limit is restored as an exact decimal and spend starts at zero
	assert.NoError(t, err)
	assert.Equal(t, stored.Id, found.Id)
	assert.True(t, found.MonthlyLimit.Equal(d("400")))
	assert.True(t, found.CurrentSpent.Equal(decimal.Zero))
}

func TestBudgetRepo_GetByUid_NotFound(t *testing.T) {
	// given
	repo, _, ctx := setupBudgetRepo(t)

	// when
	_, err := repo.GetByUid(ctx, 1, "missing")

	// then
	assert.ErrorIs(t, err, ErrBudgetNotFound)
}

func TestBudgetRepo_UpdateCategoryName(t *testing.T) {
	// given
	repo, db, ctx := setupBudgetRepo(t)
	insertCategory(t, db, 10, "Groceries")
	_, err := repo.Upsert(ctx, 1, Budget{
		Uid:          "budget-1",
		CategoryId:   10,
		CategoryName: "Groceries",
		MonthlyLimit: d("400"),
	})
	require.NoError(t, err)

	// when
	updated, err := repo.UpdateCategoryName(ctx, 1, 10, "Food")

	// then
	assert.NoError(t, err)
	assert.Equal(t, int64(1), updated)
	found, err := repo.GetByCategoryId(ctx, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, "Food", found.CategoryName)
}

func TestBudgetRepo_Delete(t *testing.T) {
	// given
	repo, db, ctx := setupBudgetRepo(t)
	insertCategory(t, db, 10, "Groceries")
	stored, err := repo.Upsert(ctx, 1, Budget{
		Uid:          "budget-1",
		CategoryId:   10,
		CategoryName: "Groceries",
		MonthlyLimit: d("400"),
	})
	require.NoError(t, err)

	// when
	deleted, err := repo.Delete(ctx, 1, stored.Id)

	// then
	assert.NoError(t, err)
	assert.True(t, deleted)
	_, err = repo.GetByUid(ctx, 1, "budget-1")
	assert.ErrorIs(t, err, ErrBudgetNotFound)
}

func TestBudgetRepo_UpsertConcurrentlyNeverDuplicates(t *testing.T) {
	// given
	repo, db, ctx := setupBudgetRepo(t)
	insertCategory(t, db, 10, "Groceries")

	// when two upserts for the same category race
	g, gctx := errgroup.WithContext(ctx)
	for i, limit := range []string{"400", "600"} {
		uid := fmt.Sprintf("budget-%d", i)
		monthlyLimit := d(limit)
		g.Go(func() error {
			_, err := repo.Upsert(gctx, 1, Budget{
				Uid:          uid,
				CategoryId:   10,
				CategoryName: "Groceries",
				MonthlyLimit: monthlyLimit,
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	// then exactly one row exists, holding one of the two limits
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM budget WHERE user_id = 1 AND category_id = 10`).Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	stored, err := repo.GetByCategoryId(ctx, 1, 10)
	assert.NoError(t, err)
	assert.True(t, stored.MonthlyLimit.Equal(d("400")) || stored.MonthlyLimit.Equal(d("600")))
}
