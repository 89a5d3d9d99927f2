package handlers

import (
	"context"
	"time"

	"dayplanner/internal/models/account"
	"dayplanner/internal/models/task"
	"dayplanner/internal/service"

	"github.com/google/uuid"
)

type TaskService interface {
	List(ctx context.Context, condition task.SearchCondition) ([]*task.Task, *account.Account, error)
	GetByID(ctx context.Context, taskID uuid.UUID) (*task.Task, *account.Account, error)
	Create(ctx context.Context, ownerID uuid.UUID, title string, date time.Time, review *string, items []service.CreateTaskItemInput) (*task.Task, *account.Account, error)
	Update(ctx context.Context, taskID, accountID uuid.UUID, title string, date time.Time, items []service.UpdateTaskItemInput) (*task.Task, *account.Account, error)
	Delete(ctx context.Context, taskID, accountID uuid.UUID) error
	UpdateReview(ctx context.Context, taskID, accountID uuid.UUID, review *string) (*task.Task, *account.Account, error)
	UpdateItemOutput(ctx context.Context, itemID, accountID uuid.UUID, output string) (*task.Task, *account.Account, error)
	HealthCheck(ctx context.Context) error
}

type AccountService interface {
	GetByID(ctx context.Context, accountID uuid.UUID) (*account.Account, error)
	GetByEmail(ctx context.Context, email string) (*account.Account, error)
	CreateOrGet(ctx context.Context, email, name, provider, providerAccountID string, thumbnail *string) (*account.Account, error)
}
