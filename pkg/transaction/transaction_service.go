package transaction

import (
	"context"
	"fmt"

	"github.com/fiscus/fiscus/internal/event_bus"
	"github.com/fiscus/fiscus/pkg/category"
	"github.com/fiscus/fiscus/pkg/fiscal"
	"github.com/fiscus/fiscus/pkg/money"
	"github.com/fiscus/fiscus/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// CreateRequest carries the raw, unnormalized user input for a new
// transaction. Amount and Date go through the normalizer before anything is
// stored; bad input fails the request instead of being coerced to zero.
type CreateRequest struct {
	Amount      string
	Description string
	Category    string
	Type        string
	Date        string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Transaction, error)
	// ListForCycle returns the transactions inside the fiscal cycle the
	// optional YYYY-MM label resolves to.
	ListForCycle(ctx context.Context, monthLabel string) ([]Transaction, error)
	Delete(ctx context.Context, uid string) error
}

type ServiceImpl struct {
	repo         Repo
	categoryRepo category.Repo
	fiscal       fiscal.Service
	bus          *event_bus.EventBus
}

func NewTransactionService(repo Repo, categoryRepo category.Repo, fiscalService fiscal.Service, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, categoryRepo: categoryRepo, fiscal: fiscalService, bus: bus}
}

func (s *ServiceImpl) Create(ctx context.Context, req CreateRequest) (Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}

	amount, err := money.ParsePositiveAmount(req.Amount)
	if err != nil {
		return Transaction{}, err
	}
	date, err := money.NormalizeDate(req.Date)
	if err != nil {
		return Transaction{}, err
	}
	txType, err := ParseType(req.Type)
	if err != nil {
		return Transaction{}, err
	}
	cat, err := s.categoryRepo.GetByName(ctx, userId, req.Category)
	if err != nil {
		return Transaction{}, err
	}

	tx := Transaction{
		Uid:          uuid.NewString(),
		UserId:       userId,
		Amount:       amount,
		Description:  req.Description,
		CategoryId:   cat.Id,
		CategoryName: cat.Name,
		Type:         txType,
		Date:         date,
	}
	id, err := s.repo.Store(ctx, userId, tx)
	if err != nil {
		return Transaction{}, err
	}
	tx.Id = id

	if s.bus != nil {
		event := event_bus.NewEvent(ctx, event_bus.TransactionRecordedType, event_bus.TransactionRecorded{
			UserId:       userId,
			CategoryId:   tx.CategoryId,
			CategoryName: tx.CategoryName,
			Type:         string(tx.Type),
			Amount:       tx.Amount,
			Date:         tx.Date,
		})
		if err := s.bus.Publish(event); err != nil {
			// Insight generation is advisory; a failing subscriber must not
			// fail the write.
			log.Warnf("transaction recorded but event handlers failed: %v", err)
		}
	}
	return tx, nil
}

func (s *ServiceImpl) ListForCycle(ctx context.Context, monthLabel string) ([]Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	window, err := s.fiscal.ResolveWindow(ctx, monthLabel)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByRange(ctx, userId, window.Start, window.End)
}

func (s *ServiceImpl) Delete(ctx context.Context, uid string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	tx, err := s.repo.GetByUid(ctx, userId, uid)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, userId, tx.Id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTransactionNotFound
	}
	return nil
}
