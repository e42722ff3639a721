package fiscal

import (
	"context"
	"time"
)

type StubFiscalRepo struct {
	nextId int
	data   map[int]FiscalMonth
}

func NewStubFiscalRepo() *StubFiscalRepo {
	return &StubFiscalRepo{data: map[int]FiscalMonth{}}
}

func (s *StubFiscalRepo) GetAll(ctx context.Context, userId int) ([]FiscalMonth, error) {
	months := make([]FiscalMonth, 0, len(s.data))
	for _, month := range s.data {
		if month.UserId == userId {
			months = append(months, month)
		}
	}
	return months, nil
}

func (s *StubFiscalRepo) FindActive(ctx context.Context, userId int) (FiscalMonth, bool, error) {
	for _, month := range s.data {
		if month.UserId == userId && month.IsActive {
			return month, true, nil
		}
	}
	return FiscalMonth{}, false, nil
}

func (s *StubFiscalRepo) Store(ctx context.Context, userId int, month FiscalMonth) (int, error) {
	s.nextId++
	month.Id = s.nextId
	month.UserId = userId
	s.data[month.Id] = month
	return month.Id, nil
}

func (s *StubFiscalRepo) Close(ctx context.Context, userId int, id int, endDate time.Time) (bool, error) {
	month, ok := s.data[id]
	if !ok || month.UserId != userId {
		return false, nil
	}
	month.EndDate = endDate
	month.IsActive = false
	s.data[id] = month
	return true, nil
}

func (s *StubFiscalRepo) Cleanup() {
	s.data = map[int]FiscalMonth{}
	s.nextId = 0
}
