package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dayplanner/internal/logger"
	"dayplanner/internal/models/account"
	"dayplanner/internal/models/task"
	rep "dayplanner/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateTaskItemInput — элемент при создании задачи. Новые элементы всегда
// стартуют со статусом NotStarted и пустым output.
type CreateTaskItemInput struct {
	Priority     task.Priority
	Density      task.Density
	DurationTime task.DurationTime
	Content      string
	IsRequired   bool
	Order        int
}

// UpdateTaskItemInput — элемент при полном обновлении задачи. Элементы без
// ID создаются заново, элементы, отсутствующие в наборе, удаляются.
type UpdateTaskItemInput struct {
	ID           *uuid.UUID
	Priority     task.Priority
	Density      task.Density
	DurationTime task.DurationTime
	Content      string
	IsRequired   bool
	Order        int
	Status       task.Status
}

type TaskService struct {
	taskRepo    TaskRepository
	accountRepo AccountRepository
}

func NewTaskService(taskRepo TaskRepository, accountRepo AccountRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		accountRepo: accountRepo,
	}
}

// List возвращает задачи по условию вместе с владельцем. Список всегда
// ограничен одним владельцем, поэтому аккаунт один на весь результат.
func (s *TaskService) List(ctx context.Context, condition task.SearchCondition) ([]*task.Task, *account.Account, error) {
	tasks, err := s.taskRepo.List(ctx, condition)
	if err != nil {
		return nil, nil, fmt.Errorf("получение задач: %w", err)
	}

	if len(tasks) == 0 {
		return []*task.Task{}, nil, nil
	}

	owner, err := s.ownerOf(ctx, tasks[0].OwnerID)
	if err != nil {
		return nil, nil, err
	}
	return tasks, owner, nil
}

func (s *TaskService) GetByID(ctx context.Context, taskID uuid.UUID) (*task.Task, *account.Account, error) {
	t, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("task_id", taskID.String()))
			return nil, nil, NewNotFound("задача", taskID.String())
		}
		return nil, nil, fmt.Errorf("получение задачи: %w", err)
	}

	owner, err := s.ownerOf(ctx, t.OwnerID)
	if err != nil {
		return nil, nil, err
	}
	return t, owner, nil
}

func (s *TaskService) Create(ctx context.Context, ownerID uuid.UUID, title string, date time.Time, review *string, items []CreateTaskItemInput) (*task.Task, *account.Account, error) {
	taskID := uuid.New()

	taskItems := make([]task.TaskItem, 0, len(items))
	for _, input := range items {
		item, err := task.NewTaskItem(uuid.New(), taskID, input.Priority, input.Density, input.DurationTime, input.Content, nil, input.IsRequired, input.Order, task.StatusNotStarted)
		if err != nil {
			return nil, nil, NewDomainError(err)
		}
		taskItems = append(taskItems, item)
	}

	t, err := task.NewTask(taskID, ownerID, title, date, review, taskItems)
	if err != nil {
		return nil, nil, NewDomainError(err)
	}

	if err := s.taskRepo.Create(ctx, &t); err != nil {
		return nil, nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана",
		zap.String("task_id", t.ID.String()),
		zap.Int("items", len(t.Items)))

	owner, err := s.ownerOf(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	return &t, owner, nil
}

// Update целиком заменяет задачу: заголовок, дату и набор элементов.
// Частичного применения нет — либо вся замена, либо ошибка.
func (s *TaskService) Update(ctx context.Context, taskID, accountID uuid.UUID, title string, date time.Time, items []UpdateTaskItemInput) (*task.Task, *account.Account, error) {
	existing, err := s.getOwned(ctx, taskID, accountID, "Нет прав на обновление этой задачи")
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[uuid.UUID]task.TaskItem, len(existing.Items))
	for _, item := range existing.Items {
		byID[item.ID] = item
	}

	taskItems := make([]task.TaskItem, 0, len(items))
	for _, input := range items {
		if input.ID != nil {
			if prev, ok := byID[*input.ID]; ok {
				// существующий элемент: переносим output и createdAt
				next := prev.WithPriority(input.Priority).
					WithDensity(input.Density).
					WithDurationTime(input.DurationTime).
					WithStatus(input.Status)
				next, err = next.WithContent(input.Content)
				if err != nil {
					return nil, nil, NewDomainError(err)
				}
				next, err = next.WithOrder(input.Order)
				if err != nil {
					return nil, nil, NewDomainError(err)
				}
				next.IsRequired = input.IsRequired
				taskItems = append(taskItems, next)
				continue
			}
		}

		item, err := task.NewTaskItem(uuid.New(), existing.ID, input.Priority, input.Density, input.DurationTime, input.Content, nil, input.IsRequired, input.Order, input.Status)
		if err != nil {
			return nil, nil, NewDomainError(err)
		}
		taskItems = append(taskItems, item)
	}

	next, err := existing.WithTitle(title)
	if err != nil {
		return nil, nil, NewDomainError(err)
	}
	next, err = next.WithDate(date)
	if err != nil {
		return nil, nil, NewDomainError(err)
	}
	next, err = next.WithItems(taskItems)
	if err != nil {
		return nil, nil, NewDomainError(err)
	}

	if err := s.taskRepo.Replace(ctx, &next); err != nil {
		return nil, nil, fmt.Errorf("обновление задачи: %w", err)
	}

	// перечитываем агрегат после записи
	updated, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, fmt.Errorf("перечитывание задачи: %w", err)
	}

	owner, err := s.ownerOf(ctx, updated.OwnerID)
	if err != nil {
		return nil, nil, err
	}
	return updated, owner, nil
}

func (s *TaskService) Delete(ctx context.Context, taskID, accountID uuid.UUID) error {
	if _, err := s.getOwned(ctx, taskID, accountID, "Нет прав на удаление этой задачи"); err != nil {
		return err
	}

	// элементы удаляются каскадом вместе с задачей
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("удаление задачи: %w", err)
	}

	logger.Info("Service: Задача удалена", zap.String("task_id", taskID.String()))
	return nil
}

func (s *TaskService) UpdateReview(ctx context.Context, taskID, accountID uuid.UUID, review *string) (*task.Task, *account.Account, error) {
	if _, err := s.getOwned(ctx, taskID, accountID, "Нет прав на обновление итогов этой задачи"); err != nil {
		return nil, nil, err
	}

	if err := s.taskRepo.UpdateReview(ctx, taskID, review); err != nil {
		return nil, nil, fmt.Errorf("обновление итогов: %w", err)
	}

	updated, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, fmt.Errorf("перечитывание задачи: %w", err)
	}

	owner, err := s.ownerOf(ctx, updated.OwnerID)
	if err != nil {
		return nil, nil, err
	}
	return updated, owner, nil
}

// UpdateItemOutput записывает аутпут элемента. Проверка прав идёт через
// доменную способность: владелец задачи плюс принадлежность элемента ей.
// Запись аутпута переводит статус элемента в Completed.
func (s *TaskService) UpdateItemOutput(ctx context.Context, itemID, accountID uuid.UUID, output string) (*task.Task, *account.Account, error) {
	t, err := s.taskRepo.GetByItemID(ctx, itemID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, nil, NewNotFound("элемент задачи", itemID.String())
		}
		return nil, nil, fmt.Errorf("получение задачи по элементу: %w", err)
	}

	var item *task.TaskItem
	for idx := range t.Items {
		if t.Items[idx].ID == itemID {
			item = &t.Items[idx]
			break
		}
	}
	if item == nil {
		return nil, nil, NewNotFound("элемент задачи", itemID.String())
	}

	if !task.CanMutateItem(accountID, *t, *item) {
		logger.Warn("Service: Попытка изменить чужой элемент",
			zap.String("account_id", accountID.String()),
			zap.String("item_id", itemID.String()))
		return nil, nil, NewForbidden("Нет прав на изменение этого элемента")
	}

	if err := s.taskRepo.UpdateItemOutput(ctx, itemID, output); err != nil {
		return nil, nil, fmt.Errorf("обновление аутпута: %w", err)
	}

	updated, err := s.taskRepo.GetByID(ctx, t.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("перечитывание задачи: %w", err)
	}

	owner, err := s.ownerOf(ctx, updated.OwnerID)
	if err != nil {
		return nil, nil, err
	}
	return updated, owner, nil
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	return s.taskRepo.HealthCheck(ctx)
}

// getOwned достаёт задачу и проверяет владение
func (s *TaskService) getOwned(ctx context.Context, taskID, accountID uuid.UUID, denyMessage string) (*task.Task, error) {
	t, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("task_id", taskID.String()))
			return nil, NewNotFound("задача", taskID.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if !t.CanUpdate(accountID) {
		logger.Warn("Service: Попытка изменить чужую задачу",
			zap.String("account_id", accountID.String()),
			zap.String("task_id", taskID.String()))
		return nil, NewForbidden(denyMessage)
	}
	return t, nil
}

func (s *TaskService) ownerOf(ctx context.Context, ownerID uuid.UUID) (*account.Account, error) {
	accounts, err := s.accountRepo.ListByIDs(ctx, []uuid.UUID{ownerID})
	if err != nil {
		return nil, fmt.Errorf("получение владельца: %w", err)
	}
	if len(accounts) == 0 {
		return nil, NewNotFound("аккаунт", ownerID.String())
	}
	return accounts[0], nil
}
