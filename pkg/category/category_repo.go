package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

type Repo interface {
	Store(ctx context.Context, userId int, category Category) (int, error)
	GetAll(ctx context.Context, userId int) ([]Category, error)
	GetByUid(ctx context.Context, userId int, uid string) (Category, error)
	GetByName(ctx context.Context, userId int, name string) (Category, error)
	UpdateName(ctx context.Context, userId int, id int, newName string) (bool, error)
	Delete(ctx context.Context, userId int, id int) (bool, error)
	DeleteBatch(ctx context.Context, userId int, ids []int) (int, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, userId int, category Category) (int, error) {
	query := `INSERT INTO category (uid, user_id, name, type, color, icon) VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		category.Uid,
		userId,
		category.Name,
		string(category.Type),
		category.Color,
		category.Icon,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %q", ErrCategoryExists, category.Name)
		}
		err := fmt.Errorf("could not store category: %w", err)
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

func (r *RepoImpl) GetAll(ctx context.Context, userId int) ([]Category, error) {
	query := `SELECT id, uid, name, type, color, icon FROM category WHERE user_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query categories: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var category Category
		var categoryType string
		if err := rows.Scan(
			&category.Id,
			&category.Uid,
			&category.Name,
			&categoryType,
			&category.Color,
			&category.Icon,
		); err != nil {
			err := fmt.Errorf("could not scan category: %w", err)
			log.Error(err)
			return nil, err
		}
		category.UserId = userId
		category.Type = CategoryType(categoryType)
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return categories, nil
}

func (r *RepoImpl) GetByUid(ctx context.Context, userId int, uid string) (Category, error) {
	return r.getOne(ctx, userId, "uid = ?", uid)
}

func (r *RepoImpl) GetByName(ctx context.Context, userId int, name string) (Category, error) {
	return r.getOne(ctx, userId, "name = ?", name)
}

func (r *RepoImpl) getOne(ctx context.Context, userId int, condition string, arg any) (Category, error) {
	query := fmt.Sprintf(`SELECT id, uid, name, type, color, icon FROM category WHERE user_id = ? AND %s`, condition)
	var category Category
	var categoryType string
	err := r.db.QueryRowContext(ctx, query, userId, arg).Scan(
		&category.Id,
		&category.Uid,
		&category.Name,
		&categoryType,
		&category.Color,
		&category.Icon,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrCategoryNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get category: %w", err)
		log.Error(err)
		return Category{}, err
	}
	category.UserId = userId
	category.Type = CategoryType(categoryType)
	return category, nil
}

func (r *RepoImpl) UpdateName(ctx context.Context, userId int, id int, newName string) (bool, error) {
	query := `UPDATE category SET name = ? WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, newName, id, userId)
	if err != nil {
		if isUniqueViolation(err) {
			return false, fmt.Errorf("%w: %q", ErrCategoryExists, newName)
		}
		err := fmt.Errorf("could not update category name: %w", err)
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

func (r *RepoImpl) Delete(ctx context.Context, userId int, id int) (bool, error) {
	query := `DELETE FROM category WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, id, userId)
	if err != nil {
		err := fmt.Errorf("could not delete category: %w", err)
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

func (r *RepoImpl) DeleteBatch(ctx context.Context, userId int, ids []int) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(`DELETE FROM category WHERE user_id = ? AND id IN (%s)`, placeholders)
	args := make([]any, 0, len(ids)+1)
	args = append(args, userId)
	for _, id := range ids {
		args = append(args, id)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not delete categories: %w", err)
		log.Error(err)
		return 0, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(rowsAffected), nil
}

// isUniqueViolation matches the (user_id, name) uniqueness constraint error
// for both supported drivers.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}
