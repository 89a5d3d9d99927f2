package service

import (
	"context"
	"errors"
	"fmt"

	"dayplanner/internal/logger"
	"dayplanner/internal/models/account"
	rep "dayplanner/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AccountService struct {
	accountRepo AccountRepository
}

func NewAccountService(accountRepo AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

func (s *AccountService) GetByID(ctx context.Context, accountID uuid.UUID) (*account.Account, error) {
	acc, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound("аккаунт", accountID.String())
		}
		return nil, fmt.Errorf("получение аккаунта: %w", err)
	}
	return acc, nil
}

func (s *AccountService) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	parsed, err := account.NewEmail(email)
	if err != nil {
		return nil, NewValidationError(FieldError{Field: "email", Message: err.Error()})
	}

	acc, err := s.accountRepo.GetByEmail(ctx, parsed.String())
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound("аккаунт", parsed.String())
		}
		return nil, fmt.Errorf("получение аккаунта: %w", err)
	}
	return acc, nil
}

// CreateOrGet вызывается OAuth-коллбеком: при первом входе создаёт аккаунт,
// при повторном — освежает профиль и lastLoginAt. Отображаемое имя делится
// по первому пробельному блоку на firstName и lastName.
func (s *AccountService) CreateOrGet(ctx context.Context, email, name, provider, providerAccountID string, thumbnail *string) (*account.Account, error) {
	parsed, err := account.NewEmail(email)
	if err != nil {
		return nil, NewValidationError(FieldError{Field: "email", Message: err.Error()})
	}

	firstName, lastName := account.SplitName(name)

	existing, err := s.accountRepo.GetByEmail(ctx, parsed.String())
	if err != nil && !errors.Is(err, rep.ErrNotFound) {
		return nil, fmt.Errorf("поиск аккаунта: %w", err)
	}

	if existing != nil {
		updated := existing.UpdateOnLogin(firstName, lastName, thumbnail)
		if err := s.accountRepo.UpdateLogin(ctx, &updated); err != nil {
			return nil, fmt.Errorf("обновление входа: %w", err)
		}
		logger.Info("Service: Повторный вход", zap.String("account_id", updated.ID.String()))
		return &updated, nil
	}

	acc, err := account.New(uuid.New(), parsed, firstName, lastName, provider, providerAccountID, thumbnail)
	if err != nil {
		return nil, NewDomainError(err)
	}
	now := acc.CreatedAt
	acc.LastLoginAt = &now

	if err := s.accountRepo.Create(ctx, &acc); err != nil {
		return nil, fmt.Errorf("создание аккаунта: %w", err)
	}

	logger.Info("Service: Аккаунт создан",
		zap.String("account_id", acc.ID.String()),
		zap.String("provider", provider))
	return &acc, nil
}
