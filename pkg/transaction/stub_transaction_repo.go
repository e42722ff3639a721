package transaction

import (
	"context"
	"fmt"
	"sort"
	"time"
)

type StubTransactionRepo struct {
	nextId int
	data   map[int]Transaction
	// FailUpdateCategoryName forces the rename cascade to fail.
	FailUpdateCategoryName bool
}

func NewStubTransactionRepo() *StubTransactionRepo {
	return &StubTransactionRepo{data: map[int]Transaction{}}
}

func (s *StubTransactionRepo) Store(ctx context.Context, userId int, tx Transaction) (int, error) {
	s.nextId++
	tx.Id = s.nextId
	tx.UserId = userId
	s.data[tx.Id] = tx
	return tx.Id, nil
}

func (s *StubTransactionRepo) FindByRange(ctx context.Context, userId int, from, to time.Time) ([]Transaction, error) {
	var transactions []Transaction
	for _, tx := range s.data {
		if tx.UserId != userId {
			continue
		}
		if tx.Date.Before(from) || tx.Date.After(to) {
			continue
		}
		transactions = append(transactions, tx)
	}
	sort.Slice(transactions, func(i, j int) bool { return transactions[i].Date.Before(transactions[j].Date) })
	return transactions, nil
}

func (s *StubTransactionRepo) GetByUid(ctx context.Context, userId int, uid string) (Transaction, error) {
	for _, tx := range s.data {
		if tx.UserId == userId && tx.Uid == uid {
			return tx, nil
		}
	}
	return Transaction{}, ErrTransactionNotFound
}

func (s *StubTransactionRepo) Delete(ctx context.Context, userId int, id int) (bool, error) {
	tx, ok := s.data[id]
	if !ok || tx.UserId != userId {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubTransactionRepo) UpdateCategoryName(ctx context.Context, userId int, categoryId int, newName string) (int64, error) {
	if s.FailUpdateCategoryName {
		return 0, fmt.Errorf("stub failure")
	}
	var updated int64
	for id, tx := range s.data {
		if tx.UserId == userId && tx.CategoryId == categoryId {
			tx.CategoryName = newName
			s.data[id] = tx
			updated++
		}
	}
	return updated, nil
}

func (s *StubTransactionRepo) CountByCategory(ctx context.Context, userId int, categoryId int) (int, error) {
	count := 0
	for _, tx := range s.data {
		if tx.UserId == userId && tx.CategoryId == categoryId {
			count++
		}
	}
	return count, nil
}

func (s *StubTransactionRepo) Cleanup() {
	s.data = map[int]Transaction{}
	s.nextId = 0
	s.FailUpdateCategoryName = false
}
