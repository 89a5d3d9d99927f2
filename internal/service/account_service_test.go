package service_test

import (
	"context"
	"testing"

	"dayplanner/internal/models/account"
	rep "dayplanner/internal/repository"
	"dayplanner/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAccountService_GetByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid email rejected", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		svc := service.NewAccountService(accountRepo)

		_, err := svc.GetByEmail(ctx, "не почта")
		assertBusinessCode(t, err, service.CodeValidation)
		accountRepo.AssertNotCalled(t, "GetByEmail")
	})

	t.Run("not found mapped to business error", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		svc := service.NewAccountService(accountRepo)

		accountRepo.On("GetByEmail", ctx, "user@example.com").Return(nil, rep.ErrNotFound)

		_, err := svc.GetByEmail(ctx, "user@example.com")
		assertBusinessCode(t, err, service.CodeNotFound)
	})
}

func TestAccountService_GetByID(t *testing.T) {
	ctx := context.Background()
	accountRepo := new(MockAccountRepository)
	svc := service.NewAccountService(accountRepo)

	id := uuid.New()
	accountRepo.On("GetByID", ctx, id).Return(nil, rep.ErrNotFound)

	_, err := svc.GetByID(ctx, id)
	assertBusinessCode(t, err, service.CodeNotFound)
}

func TestAccountService_CreateOrGet(t *testing.T) {
	ctx := context.Background()

	t.Run("creates new account on first login", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		svc := service.NewAccountService(accountRepo)

		accountRepo.On("GetByEmail", ctx, "user@example.com").Return(nil, rep.ErrNotFound)
		accountRepo.On("Create", ctx, mock.AnythingOfType("*account.Account")).Return(nil)

		acc, err := svc.CreateOrGet(ctx, "user@example.com", "Иван Петров", "google", "g-1", nil)
		require.NoError(t, err)

		// имя делится по первому пробельному блоку
		assert.Equal(t, "Иван", acc.FirstName)
		assert.Equal(t, "Петров", acc.LastName)
		assert.Equal(t, "google", acc.Provider)
		require.NotNil(t, acc.LastLoginAt)
		accountRepo.AssertExpectations(t)
	})

	t.Run("updates profile on repeat login", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		svc := service.NewAccountService(accountRepo)

		email, err := account.NewEmail("user@example.com")
		require.NoError(t, err)
		existing, err := account.New(uuid.New(), email, "Иван", "Петров", "google", "g-1", nil)
		require.NoError(t, err)

		accountRepo.On("GetByEmail", ctx, "user@example.com").Return(&existing, nil)
		accountRepo.On("UpdateLogin", ctx, mock.AnythingOfType("*account.Account")).Return(nil)

		thumb := "https://example.com/new.png"
		acc, err := svc.CreateOrGet(ctx, "user@example.com", "Иван Сидоров", "google", "g-1", &thumb)
		require.NoError(t, err)

		assert.Equal(t, existing.ID, acc.ID)
		assert.Equal(t, "Сидоров", acc.LastName)
		require.NotNil(t, acc.LastLoginAt)
		accountRepo.AssertNotCalled(t, "Create")
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		svc := service.NewAccountService(accountRepo)

		_, err := svc.CreateOrGet(ctx, "почта", "Иван", "google", "g-1", nil)
		assertBusinessCode(t, err, service.CodeValidation)
	})
}
