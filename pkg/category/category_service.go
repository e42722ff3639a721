package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/fiscus/fiscus/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// BudgetProvisioner creates the zero-limit budget that accompanies every new
// expense category. Wired to the budget service in the application setup to
// avoid an import cycle between the two packages.
type BudgetProvisioner func(ctx context.Context, categoryId int, categoryName string) error

type Service interface {
	Create(ctx context.Context, category Category) (Category, error)
	GetAll(ctx context.Context) ([]Category, error)
	GetByUid(ctx context.Context, uid string) (Category, error)
	// Delete removes only the category row. It deliberately does not cascade
	// to the category's budget; orphan cleanup handles the fallout on demand.
	Delete(ctx context.Context, uid string) error
}

type ServiceImpl struct {
	repo        Repo
	provisioner BudgetProvisioner
}

func NewCategoryService(repo Repo, provisioner BudgetProvisioner) *ServiceImpl {
	return &ServiceImpl{repo: repo, provisioner: provisioner}
}

func (s *ServiceImpl) Create(ctx context.Context, category Category) (Category, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get current user: %w", err)
	}
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return Category{}, ErrEmptyName
	}
	if _, err := ParseType(string(category.Type)); err != nil {
		return Category{}, err
	}

	category.Uid = uuid.NewString()
	id, err := s.repo.Store(ctx, userId, category)
	if err != nil {
		return Category{}, err
	}
	category.Id = id
	category.UserId = userId

	// Income categories never carry a budget.
	if category.Type == TypeExpense && s.provisioner != nil {
		if err := s.provisioner(ctx, category.Id, category.Name); err != nil {
			log.Warnf("failed to provision budget for category %q (user %d): %v", category.Name, userId, err)
		}
	}
	return category, nil
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Category, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

func (s *ServiceImpl) GetByUid(ctx context.Context, uid string) (Category, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetByUid(ctx, userId, uid)
}

func (s *ServiceImpl) Delete(ctx context.Context, uid string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	category, err := s.repo.GetByUid(ctx, userId, uid)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, userId, category.Id)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("category not deleted, probably because it does not exist (%s) or the user (%d) is not the owner", uid, userId)
		return ErrCategoryNotFound
	}
	return nil
}
