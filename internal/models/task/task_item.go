package task

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrContentRequired = errors.New("content не может быть пустым")
	ErrNegativeOrder   = errors.New("order не может быть отрицательным")
)

// TaskItem — один пункт внутри дневной задачи. Значение неизменяемое:
// все With*-методы возвращают копию с обновлённым UpdatedAt.
type TaskItem struct {
	ID           uuid.UUID
	TaskID       uuid.UUID
	Priority     Priority
	Density      Density
	DurationTime DurationTime
	Content      string
	Output       *string
	IsRequired   bool
	Order        int
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewTaskItem(id, taskID uuid.UUID, priority Priority, density Density, duration DurationTime, content string, output *string, isRequired bool, order int, status Status) (TaskItem, error) {
	if strings.TrimSpace(content) == "" {
		return TaskItem{}, ErrContentRequired
	}
	if order < 0 {
		return TaskItem{}, ErrNegativeOrder
	}

	now := time.Now()
	return TaskItem{
		ID:           id,
		TaskID:       taskID,
		Priority:     priority,
		Density:      density,
		DurationTime: duration,
		Content:      content,
		Output:       output,
		IsRequired:   isRequired,
		Order:        order,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (i TaskItem) WithPriority(p Priority) TaskItem {
	i.Priority = p
	i.UpdatedAt = time.Now()
	return i
}

func (i TaskItem) WithDensity(d Density) TaskItem {
	i.Density = d
	i.UpdatedAt = time.Now()
	return i
}

func (i TaskItem) WithDurationTime(d DurationTime) TaskItem {
	i.DurationTime = d
	i.UpdatedAt = time.Now()
	return i
}

func (i TaskItem) WithStatus(s Status) TaskItem {
	i.Status = s
	i.UpdatedAt = time.Now()
	return i
}

func (i TaskItem) WithContent(content string) (TaskItem, error) {
	if strings.TrimSpace(content) == "" {
		return TaskItem{}, ErrContentRequired
	}
	i.Content = content
	i.UpdatedAt = time.Now()
	return i, nil
}

func (i TaskItem) WithOrder(order int) (TaskItem, error) {
	if order < 0 {
		return TaskItem{}, ErrNegativeOrder
	}
	i.Order = order
	i.UpdatedAt = time.Now()
	return i, nil
}

// WithOutput записывает аутпут. Запись аутпута безусловно переводит
// статус в Completed, обратного пути нет.
func (i TaskItem) WithOutput(output string) TaskItem {
	i.Output = &output
	i.Status = StatusCompleted
	i.UpdatedAt = time.Now()
	return i
}

func (i TaskItem) Equals(other TaskItem) bool {
	return i.ID == other.ID
}
