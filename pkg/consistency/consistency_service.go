package consistency

// The consistency manager owns every operation that has to touch more than
// one store: category renames (denormalized name cascades), budget deletion
// (category cleanup) and orphan sweeps. Cascades are best effort: the primary
// write either fully succeeds or fully fails, while follow-up writes degrade
// into warnings instead of rollbacks.

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fiscus/fiscus/pkg/budget"
	"github.com/fiscus/fiscus/pkg/category"
	"github.com/fiscus/fiscus/pkg/transaction"
	"github.com/fiscus/fiscus/pkg/user"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type RenameResult struct {
	OldName             string
	NewName             string
	BudgetsUpdated      int64
	TransactionsUpdated int64
	Warnings            []string
}

type DeleteBudgetResult struct {
	DeletedBudget   budget.Budget
	DeletedCategory *category.Category
	Warnings        []string
}

type CleanupResult struct {
	CleanedUp  int
	Categories []category.Category
}

type Service interface {
	// RenameCategory renames the category row and then propagates the new
	// display name to budgets and transactions. Propagation failures are
	// reported as warnings, never rolled back.
	RenameCategory(ctx context.Context, categoryUid string, newName string) (RenameResult, error)
	// DeleteBudget removes the budget and then its category; a failed
	// category delete leaves an orphan and a warning.
	DeleteBudget(ctx context.Context, budgetUid string) (DeleteBudgetResult, error)
	// CleanupOrphanedCategories deletes expense categories that have no
	// budget. Idempotent: a second run finds nothing.
	CleanupOrphanedCategories(ctx context.Context) (CleanupResult, error)
}

type ServiceImpl struct {
	categoryRepo category.Repo
	budgetRepo   budget.Repo
	txRepo       transaction.Repo
}

func NewConsistencyService(categoryRepo category.Repo, budgetRepo budget.Repo, txRepo transaction.Repo) *ServiceImpl {
	return &ServiceImpl{categoryRepo: categoryRepo, budgetRepo: budgetRepo, txRepo: txRepo}
}

func (s *ServiceImpl) RenameCategory(ctx context.Context, categoryUid string, newName string) (RenameResult, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return RenameResult{}, err
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return RenameResult{}, category.ErrEmptyName
	}

	cat, err := s.categoryRepo.GetByUid(ctx, userId, categoryUid)
	if err != nil {
		return RenameResult{}, err
	}
	if cat.Name == newName {
		return RenameResult{OldName: cat.Name, NewName: newName}, nil
	}

	// The category row is the source of truth; its rename must succeed
	// before anything else is touched.
	if _, err := s.categoryRepo.UpdateName(ctx, userId, cat.Id, newName); err != nil {
		return RenameResult{}, fmt.Errorf("could not rename category %q: %w", cat.Name, err)
	}

	result := RenameResult{OldName: cat.Name, NewName: newName}
	var mu sync.Mutex
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		log.Warn(msg)
		mu.Lock()
		result.Warnings = append(result.Warnings, msg)
		mu.Unlock()
	}

	// Budgets and transactions only carry a display copy of the name, so the
	// cascades can run concurrently and fail independently.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		updated, err := s.budgetRepo.UpdateCategoryName(gctx, userId, cat.Id, newName)
		if err != nil {
			warn("budget rename cascade failed for category %q: %v", cat.Name, err)
			return nil
		}
		mu.Lock()
		result.BudgetsUpdated = updated
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		updated, err := s.txRepo.UpdateCategoryName(gctx, userId, cat.Id, newName)
		if err != nil {
			warn("transaction rename cascade failed for category %q: %v", cat.Name, err)
			return nil
		}
		mu.Lock()
		result.TransactionsUpdated = updated
		mu.Unlock()
		return nil
	})
	_ = g.Wait()

	return result, nil
}

func (s *ServiceImpl) DeleteBudget(ctx context.Context, budgetUid string) (DeleteBudgetResult, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return DeleteBudgetResult{}, err
	}
	b, err := s.budgetRepo.GetByUid(ctx, userId, budgetUid)
	if err != nil {
		return DeleteBudgetResult{}, err
	}

	deleted, err := s.budgetRepo.Delete(ctx, userId, b.Id)
	if err != nil {
		return DeleteBudgetResult{}, fmt.Errorf("could not delete budget %s: %w", budgetUid, err)
	}
	if !deleted {
		return DeleteBudgetResult{}, budget.ErrBudgetNotFound
	}

	result := DeleteBudgetResult{DeletedBudget: b}
	return s.deleteBudgetCategory(ctx, userId, b, result), nil
}

func (s *ServiceImpl) deleteBudgetCategory(ctx context.Context, userId int, b budget.Budget, result DeleteBudgetResult) DeleteBudgetResult {
	categories, err := s.categoryRepo.GetAll(ctx, userId)
	if err != nil {
		msg := fmt.Sprintf("budget %s deleted but its category could not be loaded: %v", b.Uid, err)
		log.Warn(msg)
		result.Warnings = append(result.Warnings, msg)
		return result
	}
	for _, cat := range categories {
		if cat.Id != b.CategoryId {
			continue
		}
		if _, err := s.categoryRepo.Delete(ctx, userId, cat.Id); err != nil {
			msg := fmt.Sprintf("budget %s deleted but category %q was left behind: %v", b.Uid, cat.Name, err)
			log.Warn(msg)
			result.Warnings = append(result.Warnings, msg)
			return result
		}
		deletedCat := cat
		result.DeletedCategory = &deletedCat
		return result
	}
	msg := fmt.Sprintf("budget %s deleted but no category with id %d exists", b.Uid, b.CategoryId)
	log.Warn(msg)
	result.Warnings = append(result.Warnings, msg)
	return result
}

func (s *ServiceImpl) CleanupOrphanedCategories(ctx context.Context) (CleanupResult, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return CleanupResult{}, err
	}
	categories, err := s.categoryRepo.GetAll(ctx, userId)
	if err != nil {
		return CleanupResult{}, err
	}
	budgets, err := s.budgetRepo.GetAll(ctx, userId)
	if err != nil {
		return CleanupResult{}, err
	}

	budgeted := make(map[int]bool, len(budgets))
	for _, b := range budgets {
		budgeted[b.CategoryId] = true
	}

	var orphans []category.Category
	var orphanIds []int
	for _, cat := range categories {
		if cat.Type == category.TypeExpense && !budgeted[cat.Id] {
			orphans = append(orphans, cat)
			orphanIds = append(orphanIds, cat.Id)
		}
	}
	if len(orphanIds) == 0 {
		return CleanupResult{}, nil
	}

	deleted, err := s.categoryRepo.DeleteBatch(ctx, userId, orphanIds)
	if err != nil {
		return CleanupResult{}, fmt.Errorf("could not delete orphaned categories: %w", err)
	}
	log.Infof("cleaned up %d orphaned categories for user %d", deleted, userId)
	return CleanupResult{CleanedUp: deleted, Categories: orphans}, nil
}
