package inmemory

import (
	"context"
	"sort"
	"sync"

	"dayplanner/internal/models/task"
	rep "dayplanner/internal/repository"

	"github.com/google/uuid"
)

// TaskStorage — потокобезопасное хранилище агрегатов в памяти,
// используется в тестах и для локального запуска без PostgreSQL
type TaskStorage struct {
	mtx     sync.RWMutex
	storage map[uuid.UUID]task.Task
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]task.Task),
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, t *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.storage[t.ID] = cloneTask(*t)
	return nil
}

func (s *TaskStorage) Replace(ctx context.Context, t *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[t.ID]; !ok {
		return rep.ErrNotFound
	}
	s.storage[t.ID] = cloneTask(*t)
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, taskID uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	stored, ok := s.storage[taskID]
	if !ok {
		return nil, rep.ErrNotFound
	}
	result := cloneTask(stored)
	sortItems(&result)
	return &result, nil
}

func (s *TaskStorage) GetByItemID(ctx context.Context, itemID uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for _, stored := range s.storage {
		for _, item := range stored.Items {
			if item.ID == itemID {
				result := cloneTask(stored)
				sortItems(&result)
				return &result, nil
			}
		}
	}
	return nil, rep.ErrNotFound
}

// Delete удаляет задачу вместе со всеми элементами: элементы живут внутри
// агрегата, сирот не остаётся
func (s *TaskStorage) Delete(ctx context.Context, taskID uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[taskID]; !ok {
		return rep.ErrNotFound
	}
	delete(s.storage, taskID)
	return nil
}

func (s *TaskStorage) UpdateReview(ctx context.Context, taskID uuid.UUID, review *string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored, ok := s.storage[taskID]
	if !ok {
		return rep.ErrNotFound
	}
	next, err := stored.WithReview(review)
	if err != nil {
		return err
	}
	s.storage[taskID] = next
	return nil
}

func (s *TaskStorage) UpdateItemOutput(ctx context.Context, itemID uuid.UUID, output string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for taskID, stored := range s.storage {
		for _, item := range stored.Items {
			if item.ID == itemID {
				next, err := stored.ReplaceItem(item.WithOutput(output))
				if err != nil {
					return err
				}
				s.storage[taskID] = next
				return nil
			}
		}
	}
	return rep.ErrNotFound
}

func (s *TaskStorage) List(ctx context.Context, condition task.SearchCondition) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	result := []*task.Task{}
	for _, stored := range s.storage {
		if condition.OwnerID != nil && stored.OwnerID != *condition.OwnerID {
			continue
		}
		if condition.YearMonth != nil {
			first, last, err := task.MonthRange(*condition.YearMonth)
			if err != nil {
				return nil, err
			}
			if stored.Date.Before(first) || stored.Date.After(last) {
				continue
			}
		}
		if condition.Keyword != nil && !task.MatchesKeyword(stored, *condition.Keyword) {
			continue
		}

		copied := cloneTask(stored)
		sortItems(&copied)
		result = append(result, &copied)
	}

	task.SortTasks(result, condition.Sort)
	return result, nil
}

func cloneTask(t task.Task) task.Task {
	t.Items = append([]task.TaskItem(nil), t.Items...)
	return t
}

func sortItems(t *task.Task) {
	sort.SliceStable(t.Items, func(i, j int) bool {
		return t.Items[i].Order < t.Items[j].Order
	})
}
