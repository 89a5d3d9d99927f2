package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dayplanner/internal/models/account"
	"dayplanner/internal/models/task"
	rep "dayplanner/internal/repository"
	"dayplanner/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTaskRepository - мок хранилища задач
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) List(ctx context.Context, condition task.SearchCondition) ([]*task.Task, error) {
	args := m.Called(ctx, condition)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, taskID uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) GetByItemID(ctx context.Context, itemID uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Replace(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, taskID uuid.UUID) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

func (m *MockTaskRepository) UpdateReview(ctx context.Context, taskID uuid.UUID, review *string) error {
	args := m.Called(ctx, taskID, review)
	return args.Error(0)
}

func (m *MockTaskRepository) UpdateItemOutput(ctx context.Context, itemID uuid.UUID, output string) error {
	args := m.Called(ctx, itemID, output)
	return args.Error(0)
}

func (m *MockTaskRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockAccountRepository - мок хранилища аккаунтов
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, accountID uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) ListByIDs(ctx context.Context, accountIDs []uuid.UUID) ([]*account.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateLogin(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func testAccount(t *testing.T) *account.Account {
	t.Helper()
	email, err := account.NewEmail("user@example.com")
	require.NoError(t, err)
	acc, err := account.New(uuid.New(), email, "Иван", "Петров", "google", "g-1", nil)
	require.NoError(t, err)
	return &acc
}

func testTask(t *testing.T, ownerID uuid.UUID) *task.Task {
	t.Helper()
	taskID := uuid.New()
	item, err := task.NewTaskItem(uuid.New(), taskID, task.PriorityHigh, task.DensityMedium, task.Duration30, "пункт", nil, false, 0, task.StatusNotStarted)
	require.NoError(t, err)
	created, err := task.NewTask(taskID, ownerID, "план", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), nil, []task.TaskItem{item})
	require.NoError(t, err)
	return &created
}

func assertBusinessCode(t *testing.T, err error, code string) {
	t.Helper()
	var businessErr *service.BusinessError
	require.ErrorAs(t, err, &businessErr)
	assert.Equal(t, code, businessErr.Code)
}

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()
	owner := testAccount(t)

	t.Run("success", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		accountRepo := new(MockAccountRepository)
		svc := service.NewTaskService(taskRepo, accountRepo)

		taskRepo.On("Create", ctx, mock.AnythingOfType("*task.Task")).Return(nil)
		accountRepo.On("ListByIDs", ctx, []uuid.UUID{owner.ID}).Return([]*account.Account{owner}, nil)

		items := []service.CreateTaskItemInput{
			{Priority: task.PriorityHigh, Density: task.DensityLow, DurationTime: task.Duration30, Content: "пункт", Order: 0},
		}
		created, gotOwner, err := svc.Create(ctx, owner.ID, "план", time.Now(), nil, items)

		require.NoError(t, err)
		require.Len(t, created.Items, 1)
		// новые элементы всегда начинают с NotStarted и без результата
		assert.Equal(t, task.StatusNotStarted, created.Items[0].Status)
		assert.Nil(t, created.Items[0].Output)
		assert.Equal(t, owner.ID, gotOwner.ID)
		taskRepo.AssertExpectations(t)
	})

	t.Run("duplicate orders rejected before repo", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		accountRepo := new(MockAccountRepository)
		svc := service.NewTaskService(taskRepo, accountRepo)

		items := []service.CreateTaskItemInput{
			{Priority: task.PriorityHigh, Density: task.DensityLow, DurationTime: task.Duration30, Content: "первый", Order: 0},
			{Priority: task.PriorityLow, Density: task.DensityLow, DurationTime: task.Duration15, Content: "второй", Order: 0},
		}
		_, _, err := svc.Create(ctx, owner.ID, "план", time.Now(), nil, items)

		assertBusinessCode(t, err, service.CodeDomain)
		taskRepo.AssertNotCalled(t, "Create")
	})
}

func TestTaskService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("not found mapped to business error", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		accountRepo := new(MockAccountRepository)
		svc := service.NewTaskService(taskRepo, accountRepo)

		id := uuid.New()
		taskRepo.On("GetByID", ctx, id).Return(nil, rep.ErrNotFound)

		_, _, err := svc.GetByID(ctx, id)
		assertBusinessCode(t, err, service.CodeNotFound)
	})

	t.Run("repo error passed through", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		accountRepo := new(MockAccountRepository)
		svc := service.NewTaskService(taskRepo, accountRepo)

		id := uuid.New()
		taskRepo.On("GetByID", ctx, id).Return(nil, errors.New("база недоступна"))

		_, _, err := svc.GetByID(ctx, id)
		require.Error(t, err)
		var businessErr *service.BusinessError
		assert.False(t, errors.As(err, &businessErr))
	})
}

func TestTaskService_Update_Forbidden(t *testing.T) {
	ctx := context.Background()
	owner := testAccount(t)
	existing := testTask(t, owner.ID)

	taskRepo := new(MockTaskRepository)
	accountRepo := new(MockAccountRepository)
	svc := service.NewTaskService(taskRepo, accountRepo)

	taskRepo.On("GetByID", ctx, existing.ID).Return(existing, nil)

	stranger := uuid.New()
	_, _, err := svc.Update(ctx, existing.ID, stranger, "новый план", time.Now(), nil)

	assertBusinessCode(t, err, service.CodeForbidden)
	taskRepo.AssertNotCalled(t, "Replace")
}

func TestTaskService_Update_ReplacesItems(t *testing.T) {
	ctx := context.Background()
	owner := testAccount(t)
	existing := testTask(t, owner.ID)

	taskRepo := new(MockTaskRepository)
	accountRepo := new(MockAccountRepository)
	svc := service.NewTaskService(taskRepo, accountRepo)

	taskRepo.On("GetByID", ctx, existing.ID).Return(existing, nil)
	taskRepo.On("Replace", ctx, mock.AnythingOfType("*task.Task")).Return(nil)
	accountRepo.On("ListByIDs", ctx, []uuid.UUID{owner.ID}).Return([]*account.Account{owner}, nil)

	keptID := existing.Items[0].ID
	items := []service.UpdateTaskItemInput{
		{ID: &keptID, Priority: task.PriorityLow, Density: task.DensityHigh, DurationTime: task.Duration60, Content: "обновлённый", Order: 0, Status: task.StatusInProgress},
		{Priority: task.PriorityMedium, Density: task.DensityLow, DurationTime: task.Duration15, Content: "новый", Order: 1, Status: task.StatusNotStarted},
	}

	updated, _, err := svc.Update(ctx, existing.ID, owner.ID, "новый план", time.Now(), items)
	require.NoError(t, err)

	replaced := taskRepo.Calls[1].Arguments.Get(1).(*task.Task)
	require.Len(t, replaced.Items, 2)
	assert.Equal(t, keptID, replaced.Items[0].ID)
	assert.Equal(t, task.PriorityLow, replaced.Items[0].Priority)
	assert.Equal(t, "новый план", replaced.Title)
	assert.NotNil(t, updated)
}

func TestTaskService_Delete(t *testing.T) {
	ctx := context.Background()
	owner := testAccount(t)
	existing := testTask(t, owner.ID)

	t.Run("owner can delete", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		accountRepo := new(MockAccountRepository)
		svc := service.NewTaskService(taskRepo, accountRepo)

		taskRepo.On("GetByID", ctx, existing.ID).Return(existing, nil)
		taskRepo.On("Delete", ctx, existing.ID).Return(nil)

		err := svc.Delete(ctx, existing.ID, owner.ID)
		require.NoError(t, err)
		taskRepo.AssertExpectations(t)
	})

	t.Run("stranger gets forbidden", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		accountRepo := new(MockAccountRepository)
		svc := service.NewTaskService(taskRepo, accountRepo)

		taskRepo.On("GetByID", ctx, existing.ID).Return(existing, nil)

		err := svc.Delete(ctx, existing.ID, uuid.New())
		assertBusinessCode(t, err, service.CodeForbidden)
		taskRepo.AssertNotCalled(t, "Delete")
	})
}

func TestTaskService_UpdateItemOutput(t *testing.T) {
	ctx := context.Background()
	owner := testAccount(t)
	existing := testTask(t, owner.ID)
	itemID := existing.Items[0].ID

	t.Run("owner writes output", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		accountRepo := new(MockAccountRepository)
		svc := service.NewTaskService(taskRepo, accountRepo)

		taskRepo.On("GetByItemID", ctx, itemID).Return(existing, nil)
		taskRepo.On("UpdateItemOutput", ctx, itemID, "сделано").Return(nil)
		taskRepo.On("GetByID", ctx, existing.ID).Return(existing, nil)
		accountRepo.On("ListByIDs", ctx, []uuid.UUID{owner.ID}).Return([]*account.Account{owner}, nil)

		_, _, err := svc.UpdateItemOutput(ctx, itemID, owner.ID, "сделано")
		require.NoError(t, err)
		taskRepo.AssertExpectations(t)
	})

	t.Run("stranger gets forbidden", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		accountRepo := new(MockAccountRepository)
		svc := service.NewTaskService(taskRepo, accountRepo)

		taskRepo.On("GetByItemID", ctx, itemID).Return(existing, nil)

		_, _, err := svc.UpdateItemOutput(ctx, itemID, uuid.New(), "сделано")
		assertBusinessCode(t, err, service.CodeForbidden)
		taskRepo.AssertNotCalled(t, "UpdateItemOutput")
	})

	t.Run("unknown item is not found", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		accountRepo := new(MockAccountRepository)
		svc := service.NewTaskService(taskRepo, accountRepo)

		unknown := uuid.New()
		taskRepo.On("GetByItemID", ctx, unknown).Return(nil, rep.ErrNotFound)

		_, _, err := svc.UpdateItemOutput(ctx, unknown, owner.ID, "сделано")
		assertBusinessCode(t, err, service.CodeNotFound)
	})
}

func TestTaskService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("empty result without owner lookup", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		accountRepo := new(MockAccountRepository)
		svc := service.NewTaskService(taskRepo, accountRepo)

		taskRepo.On("List", ctx, mock.AnythingOfType("task.SearchCondition")).Return([]*task.Task{}, nil)

		tasks, ownerResult, err := svc.List(ctx, task.SearchCondition{})
		require.NoError(t, err)
		assert.Empty(t, tasks)
		assert.Nil(t, ownerResult)
		accountRepo.AssertNotCalled(t, "ListByIDs")
	})

	t.Run("owner resolved once for result", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		accountRepo := new(MockAccountRepository)
		svc := service.NewTaskService(taskRepo, accountRepo)

		owner := testAccount(t)
		tasks := []*task.Task{testTask(t, owner.ID), testTask(t, owner.ID)}
		taskRepo.On("List", ctx, mock.AnythingOfType("task.SearchCondition")).Return(tasks, nil)
		accountRepo.On("ListByIDs", ctx, []uuid.UUID{owner.ID}).Return([]*account.Account{owner}, nil)

		got, gotOwner, err := svc.List(ctx, task.SearchCondition{OwnerID: &owner.ID})
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, owner.ID, gotOwner.ID)
	})
}
