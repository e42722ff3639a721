package category

import (
	"context"
	"fmt"
)

type StubCategoryRepo struct {
	nextId int
	data   map[int]Category
	// FailUpdateName forces UpdateName to fail, for cascade failure tests.
	FailUpdateName bool
	FailDelete     bool
}

func NewStubCategoryRepo() *StubCategoryRepo {
	return &StubCategoryRepo{data: map[int]Category{}}
}

func (s *StubCategoryRepo) Store(ctx context.Context, userId int, category Category) (int, error) {
	for _, existing := range s.data {
		if existing.UserId == userId && existing.Name == category.Name {
			return 0, fmt.Errorf("%w: %q", ErrCategoryExists, category.Name)
		}
	}
	s.nextId++
	category.Id = s.nextId
	category.UserId = userId
	s.data[category.Id] = category
	return category.Id, nil
}

func (s *StubCategoryRepo) GetAll(ctx context.Context, userId int) ([]Category, error) {
	categories := make([]Category, 0, len(s.data))
	for _, category := range s.data {
		if category.UserId == userId {
			categories = append(categories, category)
		}
	}
	return categories, nil
}

func (s *StubCategoryRepo) GetByUid(ctx context.Context, userId int, uid string) (Category, error) {
	for _, category := range s.data {
		if category.UserId == userId && category.Uid == uid {
			return category, nil
		}
	}
	return Category{}, ErrCategoryNotFound
}

func (s *StubCategoryRepo) GetByName(ctx context.Context, userId int, name string) (Category, error) {
	for _, category := range s.data {
		if category.UserId == userId && category.Name == name {
			return category, nil
		}
	}
	return Category{}, ErrCategoryNotFound
}

func (s *StubCategoryRepo) UpdateName(ctx context.Context, userId int, id int, newName string) (bool, error) {
	if s.FailUpdateName {
		return false, fmt.Errorf("stub failure")
	}
	category, ok := s.data[id]
	if !ok || category.UserId != userId {
		return false, nil
	}
	for _, existing := range s.data {
		if existing.UserId == userId && existing.Name == newName && existing.Id != id {
			return false, fmt.Errorf("%w: %q", ErrCategoryExists, newName)
		}
	}
	category.Name = newName
	s.data[id] = category
	return true, nil
}

func (s *StubCategoryRepo) Delete(ctx context.Context, userId int, id int) (bool, error) {
	if s.FailDelete {
		return false, fmt.Errorf("stub failure")
	}
	category, ok := s.data[id]
	if !ok || category.UserId != userId {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubCategoryRepo) DeleteBatch(ctx context.Context, userId int, ids []int) (int, error) {
	deleted := 0
	for _, id := range ids {
		if category, ok := s.data[id]; ok && category.UserId == userId {
			delete(s.data, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *StubCategoryRepo) Cleanup() {
	s.data = map[int]Category{}
	s.nextId = 0
	s.FailUpdateName = false
	s.FailDelete = false
}
