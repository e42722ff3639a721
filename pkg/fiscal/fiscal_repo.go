package fiscal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repo interface {
	GetAll(ctx context.Context, userId int) ([]FiscalMonth, error)
	FindActive(ctx context.Context, userId int) (FiscalMonth, bool, error)
	Store(ctx context.Context, userId int, month FiscalMonth) (int, error)
	Close(ctx context.Context, userId int, id int, endDate time.Time) (bool, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewFiscalRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) GetAll(ctx context.Context, userId int) ([]FiscalMonth, error) {
	query := `SELECT id, uid, month_label, start_date, end_date, is_active
				FROM fiscal_month WHERE user_id = ? ORDER BY start_date`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query fiscal months: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var months []FiscalMonth
	for rows.Next() {
		month, err := scanFiscalMonth(rows)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		month.UserId = userId
		months = append(months, month)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return months, nil
}

func (r *RepoImpl) FindActive(ctx context.Context, userId int) (FiscalMonth, bool, error) {
	query := `SELECT id, uid, month_label, start_date, end_date, is_active
				FROM fiscal_month WHERE user_id = ? AND is_active = 1`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query active fiscal month: %w", err)
		log.Error(err)
		return FiscalMonth{}, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return FiscalMonth{}, false, rows.Err()
	}
	month, err := scanFiscalMonth(rows)
	if err != nil {
		log.Error(err)
		return FiscalMonth{}, false, err
	}
	month.UserId = userId
	return month, true, nil
}

func (r *RepoImpl) Store(ctx context.Context, userId int, month FiscalMonth) (int, error) {
	query := `INSERT INTO fiscal_month (uid, user_id, month_label, start_date, end_date, is_active)
				VALUES (?, ?, ?, ?, ?, ?)`
	var endDateParam interface{}
	if !month.EndDate.IsZero() {
		endDateParam = month.EndDate.UTC().Format(time.RFC3339Nano)
	}
	isActive := 0
	if month.IsActive {
		isActive = 1
	}
	result, err := r.db.ExecContext(ctx, query,
		month.Uid,
		userId,
		month.MonthLabel,
		month.StartDate.UTC().Format(time.RFC3339Nano),
		endDateParam,
		isActive,
	)
	if err != nil {
		err := fmt.Errorf("could not store fiscal month: %w", err)
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

func (r *RepoImpl) Close(ctx context.Context, userId int, id int, endDate time.Time) (bool, error) {
	query := `UPDATE fiscal_month SET end_date = ?, is_active = 0 WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, endDate.UTC().Format(time.RFC3339Nano), id, userId)
	if err != nil {
		err := fmt.Errorf("could not close fiscal month: %w", err)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFiscalMonth(row rowScanner) (FiscalMonth, error) {
	var month FiscalMonth
	var startDate string
	var endDate sql.NullString
	var isActive int
	if err := row.Scan(
		&month.Id,
		&month.Uid,
		&month.MonthLabel,
		&startDate,
		&endDate,
		&isActive,
	); err != nil {
		return FiscalMonth{}, fmt.Errorf("could not scan fiscal month: %w", err)
	}
	parsedStart, err := time.Parse(time.RFC3339Nano, startDate)
	if err != nil {
		return FiscalMonth{}, fmt.Errorf("could not parse start date: %w", err)
	}
	month.StartDate = parsedStart
	if endDate.Valid {
		parsedEnd, err := time.Parse(time.RFC3339Nano, endDate.String)
		if err != nil {
			return FiscalMonth{}, fmt.Errorf("could not parse end date: %w", err)
		}
		month.EndDate = parsedEnd
	}
	month.IsActive = isActive == 1
	return month, nil
}
