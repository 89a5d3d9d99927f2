package task

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Sort string

const (
	SortNewest            Sort = "newest"
	SortOldest            Sort = "oldest"
	SortDateAsc           Sort = "date-asc"
	SortDateDesc          Sort = "date-desc"
	SortHighestCompletion Sort = "highest-completion"
	SortLowestCompletion  Sort = "lowest-completion"
	SortMostQuantity      Sort = "most-quantity"
	SortLeastQuantity     Sort = "least-quantity"
)

func ParseSort(v string) (Sort, error) {
	switch Sort(v) {
	case SortNewest, SortOldest, SortDateAsc, SortDateDesc,
		SortHighestCompletion, SortLowestCompletion,
		SortMostQuantity, SortLeastQuantity:
		return Sort(v), nil
	}
	return "", fmt.Errorf("недопустимое значение sort: %q", v)
}

// SearchCondition — условие выборки списка задач
type SearchCondition struct {
	OwnerID   *uuid.UUID
	YearMonth *string // "2006-01"
	Keyword   *string
	Sort      Sort
}

// MonthRange возвращает границы календарного месяца [first, last] для
// фильтра year-month
func MonthRange(yearMonth string) (time.Time, time.Time, error) {
	first, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("недопустимое значение year_month: %q", yearMonth)
	}
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}

// MatchesKeyword — регистронезависимый поиск подстроки в заголовке задачи
// или в содержании любого её элемента
func MatchesKeyword(t Task, keyword string) bool {
	needle := strings.ToLower(keyword)
	if strings.Contains(strings.ToLower(t.Title), needle) {
		return true
	}
	for _, item := range t.Items {
		if strings.Contains(strings.ToLower(item.Content), needle) {
			return true
		}
	}
	return false
}

// SortTasks сортирует срез задач на месте. Сортировки по завершённости
// считаются из агрегата, поэтому выполняются здесь, а не в SQL.
func SortTasks(tasks []*Task, by Sort) {
	switch by {
	case SortOldest:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		})
	case SortDateAsc:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Date.Before(tasks[j].Date)
		})
	case SortDateDesc:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[j].Date.Before(tasks[i].Date)
		})
	case SortHighestCompletion:
		sort.SliceStable(tasks, func(i, j int) bool {
			return CompletionRate(*tasks[i]) > CompletionRate(*tasks[j])
		})
	case SortLowestCompletion:
		sort.SliceStable(tasks, func(i, j int) bool {
			return CompletionRate(*tasks[i]) < CompletionRate(*tasks[j])
		})
	case SortMostQuantity:
		sort.SliceStable(tasks, func(i, j int) bool {
			return CompletedDuration(*tasks[i]) > CompletedDuration(*tasks[j])
		})
	case SortLeastQuantity:
		sort.SliceStable(tasks, func(i, j int) bool {
			return CompletedDuration(*tasks[i]) < CompletedDuration(*tasks[j])
		})
	default: // newest
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[j].CreatedAt.Before(tasks[i].CreatedAt)
		})
	}
}
