package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTitleRequired    = errors.New("title не может быть пустым")
	ErrDuplicateOrder   = errors.New("order элементов не может повторяться внутри задачи")
	ErrItemTaskMismatch = errors.New("taskId элемента не совпадает с id задачи")
)

// Task — агрегат дневного плана: задача одного владельца на один день
// с упорядоченным набором элементов. Агрегат неизменяемый, каждая операция
// возвращает новое значение и заново проверяет уникальность order.
type Task struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Title     string
	Date      time.Time
	Review    *string
	Items     []TaskItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewTask(id, ownerID uuid.UUID, title string, date time.Time, review *string, items []TaskItem) (Task, error) {
	now := time.Now()
	t := Task{
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		Date:      date,
		Review:    review,
		Items:     append([]TaskItem(nil), items...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := t.validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (t Task) validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrTitleRequired
	}
	seen := make(map[int]struct{}, len(t.Items))
	for _, item := range t.Items {
		if _, ok := seen[item.Order]; ok {
			return ErrDuplicateOrder
		}
		seen[item.Order] = struct{}{}
	}
	return nil
}

// clone копирует агрегат вместе со слайсом элементов
func (t Task) clone() Task {
	t.Items = append([]TaskItem(nil), t.Items...)
	return t
}

func (t Task) WithTitle(title string) (Task, error) {
	next := t.clone()
	next.Title = title
	next.UpdatedAt = time.Now()
	if err := next.validate(); err != nil {
		return Task{}, err
	}
	return next, nil
}

func (t Task) WithDate(date time.Time) (Task, error) {
	next := t.clone()
	next.Date = date
	next.UpdatedAt = time.Now()
	if err := next.validate(); err != nil {
		return Task{}, err
	}
	return next, nil
}

func (t Task) WithReview(review *string) (Task, error) {
	next := t.clone()
	next.Review = review
	next.UpdatedAt = time.Now()
	if err := next.validate(); err != nil {
		return Task{}, err
	}
	return next, nil
}

func (t Task) AddItem(item TaskItem) (Task, error) {
	if item.TaskID != t.ID {
		return Task{}, ErrItemTaskMismatch
	}
	next := t.clone()
	next.Items = append(next.Items, item)
	next.UpdatedAt = time.Now()
	if err := next.validate(); err != nil {
		return Task{}, err
	}
	return next, nil
}

// RemoveItem удаляет элемент по id, отсутствующий id не считается ошибкой
func (t Task) RemoveItem(itemID uuid.UUID) Task {
	next := t.clone()
	filtered := next.Items[:0]
	for _, item := range next.Items {
		if item.ID != itemID {
			filtered = append(filtered, item)
		}
	}
	next.Items = filtered
	next.UpdatedAt = time.Now()
	return next
}

func (t Task) ReplaceItem(updated TaskItem) (Task, error) {
	if updated.TaskID != t.ID {
		return Task{}, ErrItemTaskMismatch
	}
	next := t.clone()
	for idx, item := range next.Items {
		if item.ID == updated.ID {
			next.Items[idx] = updated
		}
	}
	next.UpdatedAt = time.Now()
	if err := next.validate(); err != nil {
		return Task{}, err
	}
	return next, nil
}

// WithItems целиком заменяет набор элементов. Каждый элемент должен
// принадлежать задаче, уникальность order проверяется заново.
func (t Task) WithItems(items []TaskItem) (Task, error) {
	for _, item := range items {
		if item.TaskID != t.ID {
			return Task{}, ErrItemTaskMismatch
		}
	}
	next := t.clone()
	next.Items = append([]TaskItem(nil), items...)
	next.UpdatedAt = time.Now()
	if err := next.validate(); err != nil {
		return Task{}, err
	}
	return next, nil
}

// Reorder принимает перестановку id всех элементов и назначает order
// по позиции в переданной последовательности.
func (t Task) Reorder(itemIDs []uuid.UUID) (Task, error) {
	if len(itemIDs) != len(t.Items) {
		return Task{}, fmt.Errorf("reorder: ожидалось %d id, получено %d", len(t.Items), len(itemIDs))
	}

	byID := make(map[uuid.UUID]TaskItem, len(t.Items))
	for _, item := range t.Items {
		byID[item.ID] = item
	}

	reordered := make([]TaskItem, 0, len(itemIDs))
	for pos, id := range itemIDs {
		item, ok := byID[id]
		if !ok {
			return Task{}, fmt.Errorf("reorder: элемент %s не принадлежит задаче", id)
		}
		delete(byID, id)
		withOrder, err := item.WithOrder(pos)
		if err != nil {
			return Task{}, err
		}
		reordered = append(reordered, withOrder)
	}

	next := t.clone()
	next.Items = reordered
	next.UpdatedAt = time.Now()
	if err := next.validate(); err != nil {
		return Task{}, err
	}
	return next, nil
}

func (t Task) IsOwnedBy(accountID uuid.UUID) bool {
	return t.OwnerID == accountID
}

// CanUpdate — обновлять задачу может только владелец
func (t Task) CanUpdate(accountID uuid.UUID) bool {
	return t.IsOwnedBy(accountID)
}

// CanDelete — удалять задачу может только владелец
func (t Task) CanDelete(accountID uuid.UUID) bool {
	return t.IsOwnedBy(accountID)
}

func (t Task) Equals(other Task) bool {
	return t.ID == other.ID
}
