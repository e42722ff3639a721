package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// dateLayout is fixed width (nanoseconds always printed, always UTC) so that
// the lexicographic TEXT comparison in FindByRange matches chronological
// order. RFC3339Nano drops trailing fractional zeros, which would sort
// "23:59:59Z" after "23:59:59.999999999Z".
const dateLayout = "2006-01-02T15:04:05.000000000Z"

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

type Repo interface {
	Store(ctx context.Context, userId int, tx Transaction) (int, error)
	// FindByRange returns the user's transactions with from <= date <= to.
	FindByRange(ctx context.Context, userId int, from, to time.Time) ([]Transaction, error)
	GetByUid(ctx context.Context, userId int, uid string) (Transaction, error)
	Delete(ctx context.Context, userId int, id int) (bool, error)
	// UpdateCategoryName refreshes the denormalized category name on every
	// transaction referencing the category. Returns the number of rows touched.
	UpdateCategoryName(ctx context.Context, userId int, categoryId int, newName string) (int64, error)
	CountByCategory(ctx context.Context, userId int, categoryId int) (int, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, userId int, tx Transaction) (int, error) {
	query := `INSERT INTO tx (uid, user_id, amount, description, category_id, category_name, type, date)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		tx.Uid,
		userId,
		tx.Amount.String(),
		tx.Description,
		tx.CategoryId,
		tx.CategoryName,
		string(tx.Type),
		formatDate(tx.Date),
	)
	if err != nil {
		err := fmt.Errorf("could not store transaction: %w", err)
		log.Error(err)
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(id), nil
}

func (r *RepoImpl) FindByRange(ctx context.Context, userId int, from, to time.Time) ([]Transaction, error) {
	query := `SELECT id, uid, amount, description, category_id, category_name, type, date
				FROM tx WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date`
	rows, err := r.db.QueryContext(ctx, query, userId, formatDate(from), formatDate(to))
	if err != nil {
		err := fmt.Errorf("could not query transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		tx.UserId = userId
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return transactions, nil
}

func (r *RepoImpl) GetByUid(ctx context.Context, userId int, uid string) (Transaction, error) {
	query := `SELECT id, uid, amount, description, category_id, category_name, type, date
				FROM tx WHERE user_id = ? AND uid = ?`
	row := r.db.QueryRowContext(ctx, query, userId, uid)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Transaction{}, ErrTransactionNotFound
	} else if err != nil {
		log.Error(err)
		return Transaction{}, err
	}
	tx.UserId = userId
	return tx, nil
}

func (r *RepoImpl) Delete(ctx context.Context, userId int, id int) (bool, error) {
	query := `DELETE FROM tx WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, id, userId)
	if err != nil {
		err := fmt.Errorf("could not delete transaction: %w", err)
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
	query := `UPDATE tx SET category_name = ? WHERE user_id = ? AND category_id = ?`
	result, err := r.db.ExecContext(ctx, query, newName, userId, categoryId)
	if err != nil {
		err := fmt.Errorf("could not update transaction category names: %w", err)
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

func (r *RepoImpl) CountByCategory(ctx context.Context, userId int, categoryId int) (int, error) {
	query := `SELECT COUNT(*) FROM tx WHERE user_id = ? AND category_id = ?`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userId, categoryId).Scan(&count); err != nil {
		err := fmt.Errorf("could not count transactions: %w", err)
		log.Error(err)
		return 0, err
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var tx Transaction
	var amount, txType, date string
	if err := row.Scan(
		&tx.Id,
		&tx.Uid,
		&amount,
		&tx.Description,
		&tx.CategoryId,
		&tx.CategoryName,
		&txType,
		&date,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Transaction{}, err
		}
		return Transaction{}, fmt.Errorf("could not scan transaction: %w", err)
	}
	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("could not parse amount: %w", err)
	}
	tx.Amount = parsedAmount
	parsedDate, err := time.Parse(dateLayout, date)
	if err != nil {
		return Transaction{}, fmt.Errorf("could not parse date: %w", err)
	}
	tx.Date = parsedDate
	tx.Type = TransactionType(txType)
	return tx, nil
}
