package inmemory

import (
	"context"
	"sync"

	"dayplanner/internal/models/account"
	rep "dayplanner/internal/repository"

	"github.com/google/uuid"
)

type AccountStorage struct {
	mtx     sync.RWMutex
	storage map[uuid.UUID]account.Account
	byEmail map[string]uuid.UUID
}

func NewAccountStorage() *AccountStorage {
	return &AccountStorage{
		storage: make(map[uuid.UUID]account.Account),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (s *AccountStorage) Create(ctx context.Context, acc *account.Account) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.storage[acc.ID] = *acc
	s.byEmail[acc.Email.String()] = acc.ID
	return nil
}

func (s *AccountStorage) UpdateLogin(ctx context.Context, acc *account.Account) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[acc.ID]; !ok {
		return rep.ErrNotFound
	}
	s.storage[acc.ID] = *acc
	return nil
}

func (s *AccountStorage) GetByID(ctx context.Context, accountID uuid.UUID) (*account.Account, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	acc, ok := s.storage[accountID]
	if !ok {
		return nil, rep.ErrNotFound
	}
	return &acc, nil
}

func (s *AccountStorage) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, rep.ErrNotFound
	}
	acc := s.storage[id]
	return &acc, nil
}

func (s *AccountStorage) ListByIDs(ctx context.Context, accountIDs []uuid.UUID) ([]*account.Account, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	result := []*account.Account{}
	for _, id := range accountIDs {
		if acc, ok := s.storage[id]; ok {
			copied := acc
			result = append(result, &copied)
		}
	}
	return result, nil
}
