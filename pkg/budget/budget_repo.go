package budget

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	GetAll(ctx context.Context, userId int) ([]Budget, error)
	GetByUid(ctx context.Context, userId int, uid string) (Budget, error)
	GetByCategoryId(ctx context.Context, userId int, categoryId int) (Budget, error)
	// Upsert inserts a budget for the category or, when one already exists,
	// updates only its monthly limit. The (user_id, category_id) unique
	// constraint makes the operation atomic under concurrent calls.
	Upsert(ctx context.Context, userId int, budget Budget) (Budget, error)
	Delete(ctx context.Context, userId int, id int) (bool, error)
	// UpdateCategoryName refreshes the denormalized category name on the
	// category's budget. Returns the number of rows touched.
	UpdateCategoryName(ctx context.Context, userId int, categoryId int, newName string) (int64, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewBudgetRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) GetAll(ctx context.Context, userId int) ([]Budget, error) {
	query := `SELECT id, uid, category_id, category_name, monthly_limit FROM budget WHERE user_id = ? ORDER BY category_name`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query budgets: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var budgets []Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		budget.UserId = userId
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return budgets, nil
}

func (r *RepoImpl) GetByUid(ctx context.Context, userId int, uid string) (Budget, error) {
	return r.getOne(ctx, userId, "uid = ?", uid)
}

func (r *RepoImpl) GetByCategoryId(ctx context.Context, userId int, categoryId int) (Budget, error) {
	return r.getOne(ctx, userId, "category_id = ?", categoryId)
}

func (r *RepoImpl) getOne(ctx context.Context, userId int, condition string, arg any) (Budget, error) {
	query := fmt.Sprintf(`SELECT id, uid, category_id, category_name, monthly_limit FROM budget WHERE user_id = ? AND %s`, condition)
	row := r.db.QueryRowContext(ctx, query, userId, arg)
	budget, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Budget{}, ErrBudgetNotFound
	} else if err != nil {
		log.Error(err)
		return Budget{}, err
	}
	budget.UserId = userId
	return budget, nil
}

func (r *RepoImpl) Upsert(ctx context.Context, userId int, budget Budget) (Budget, error) {
	// Conditional insert-or-update in one statement; two concurrent calls
	// for a new category can never both insert.
	query := `INSERT INTO budget (uid, user_id, category_id, category_name, monthly_limit)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT (user_id, category_id)
				DO UPDATE SET monthly_limit = excluded.monthly_limit, category_name = excluded.category_name`
	_, err := r.db.ExecContext(ctx, query,
		budget.Uid,
		userId,
		budget.CategoryId,
		budget.CategoryName,
		budget.MonthlyLimit.String(),
	)
	if err != nil {
		err := fmt.Errorf("could not upsert budget: %w", err)
		log.Error(err)
		return Budget{}, err
	}
	return r.GetByCategoryId(ctx, userId, budget.CategoryId)
}

func (r *RepoImpl) Delete(ctx context.Context, userId int, id int) (bool, error) {
	query := `DELETE FROM budget WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, id, userId)
	if err != nil {
		err := fmt.Errorf("could not delete budget: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepoImpl) UpdateCategoryName(ctx context.Context, userId int, categoryId int, newName string) (int64, error) {
	query := `UPDATE budget SET category_name = ? WHERE user_id = ? AND category_id = ?`
	result, err := r.db.ExecContext(ctx, query, newName, userId, categoryId)
	if err != nil {
		err := fmt.Errorf("could not update budget category name: %w", err)
		log.Error(err)
		return 0, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return 0, err
	}
	return rowsAffected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBudget(row rowScanner) (Budget, error) {
	var budget Budget
	var limit string
	if err := row.Scan(
		&budget.Id,
		&budget.Uid,
		&budget.CategoryId,
		&budget.CategoryName,
		&limit,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Budget{}, err
		}
		return Budget{}, fmt.Errorf("could not scan budget: %w", err)
	}
	parsedLimit, err := decimal.NewFromString(limit)
	if err != nil {
		return Budget{}, fmt.Errorf("could not parse monthly limit: %w", err)
	}
	budget.MonthlyLimit = parsedLimit
	budget.CurrentSpent = decimal.Zero
	return budget, nil
}
