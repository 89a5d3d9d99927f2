package service

import (
	"context"

	"dayplanner/internal/models/account"
	"dayplanner/internal/models/task"

	"github.com/google/uuid"
)

// TaskRepository — шлюз персистентности агрегата. Create, Replace и Delete
// атомарны: задача и её элементы пишутся в одной транзакции.
type TaskRepository interface {
	List(ctx context.Context, condition task.SearchCondition) ([]*task.Task, error)
	GetByID(ctx context.Context, taskID uuid.UUID) (*task.Task, error)
	GetByItemID(ctx context.Context, itemID uuid.UUID) (*task.Task, error)
	Create(ctx context.Context, t *task.Task) error
	Replace(ctx context.Context, t *task.Task) error
	Delete(ctx context.Context, taskID uuid.UUID) error
	UpdateReview(ctx context.Context, taskID uuid.UUID, review *string) error
	UpdateItemOutput(ctx context.Context, itemID uuid.UUID, output string) error
	HealthCheck(ctx context.Context) error
}

type AccountRepository interface {
	GetByID(ctx context.Context, accountID uuid.UUID) (*account.Account, error)
	GetByEmail(ctx context.Context, email string) (*account.Account, error)
	ListByIDs(ctx context.Context, accountIDs []uuid.UUID) ([]*account.Account, error)
	Create(ctx context.Context, acc *account.Account) error
	UpdateLogin(ctx context.Context, acc *account.Account) error
}
