package dto

import (
	"time"

	"dayplanner/internal/models/account"
	"dayplanner/internal/models/task"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type TaskItemRequest struct {
	ID           *uuid.UUID `json:"id,omitempty"`
	Priority     string     `json:"priority"`
	Density      string     `json:"density"`
	DurationTime int        `json:"duration_time"`
	Content      string     `json:"content"`
	IsRequired   bool       `json:"is_required"`
	Order        int        `json:"order"`
	Status       string     `json:"status,omitempty"`
}

type CreateTaskRequest struct {
	Title string            `json:"title"`
	Date  string            `json:"date"`
	Items []TaskItemRequest `json:"items"`
}

type UpdateTaskRequest struct {
	Title string            `json:"title"`
	Date  string            `json:"date"`
	Items []TaskItemRequest `json:"items"`
}

type UpdateReviewRequest struct {
	Review *string `json:"review"`
}

type UpdateOutputRequest struct {
	Output string `json:"output"`
}

type LoginRequest struct {
	Email             string  `json:"email"`
	Name              string  `json:"name"`
	Provider          string  `json:"provider"`
	ProviderAccountID string  `json:"provider_account_id"`
	Thumbnail         *string `json:"thumbnail,omitempty"`
}

type TaskItemResponse struct {
	ID           uuid.UUID `json:"id"`
	TaskID       uuid.UUID `json:"task_id"`
	Priority     string    `json:"priority"`
	Density      string    `json:"density"`
	DurationTime int       `json:"duration_time"`
	Content      string    `json:"content"`
	Output       *string   `json:"output,omitempty"`
	IsRequired   bool      `json:"is_required"`
	Order        int       `json:"order"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type StatsResponse struct {
	PlannedTaskCount             int     `json:"planned_task_count"`
	PlannedTaskDurationMinutes   int     `json:"planned_task_duration_minutes"`
	CompletedTaskCount           int     `json:"completed_task_count"`
	CompletedTaskDurationMinutes int     `json:"completed_task_duration_minutes"`
	CompletionRate               float64 `json:"completion_rate"`
	HighTaskCount                int     `json:"high_task_count"`
	HighTaskDuration             int     `json:"high_task_duration"`
	HighTaskRate                 float64 `json:"high_task_rate"`
	MediumTaskCount              int     `json:"medium_task_count"`
	MediumTaskDuration           int     `json:"medium_task_duration"`
	MediumTaskRate               float64 `json:"medium_task_rate"`
	LowTaskCount                 int     `json:"low_task_count"`
	LowTaskDuration              int     `json:"low_task_duration"`
	LowTaskRate                  float64 `json:"low_task_rate"`
}

type OwnerResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Thumbnail *string   `json:"thumbnail,omitempty"`
}

type TaskResponse struct {
	ID        uuid.UUID          `json:"id"`
	Owner     *OwnerResponse     `json:"owner,omitempty"`
	Title     string             `json:"title"`
	Date      string             `json:"date"`
	Review    *string            `json:"review,omitempty"`
	Items     []TaskItemResponse `json:"items"`
	Stats     StatsResponse      `json:"stats"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type AccountResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name"`
	IsActive    bool       `json:"is_active"`
	Provider    string     `json:"provider"`
	Thumbnail   *string    `json:"thumbnail,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func FromTask(t *task.Task, owner *account.Account) TaskResponse {
	items := make([]TaskItemResponse, len(t.Items))
	for i, it := range t.Items {
		items[i] = fromItem(it)
	}

	return TaskResponse{
		ID:        t.ID,
		Owner:     fromOwner(owner),
		Title:     t.Title,
		Date:      t.Date.Format(dateLayout),
		Review:    t.Review,
		Items:     items,
		Stats:     fromStats(task.ProjectStats(*t)),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func FromTaskList(tasks []*task.Task, owner *account.Account) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t, owner)
	}
	return result
}

func FromAccount(a *account.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Email:       a.Email.String(),
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		FullName:    a.FullName(),
		IsActive:    a.IsActive,
		Provider:    a.Provider,
		Thumbnail:   a.Thumbnail,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func fromItem(it task.TaskItem) TaskItemResponse {
	return TaskItemResponse{
		ID:           it.ID,
		TaskID:       it.TaskID,
		Priority:     string(it.Priority),
		Density:      string(it.Density),
		DurationTime: int(it.DurationTime),
		Content:      it.Content,
		Output:       it.Output,
		IsRequired:   it.IsRequired,
		Order:        it.Order,
		Status:       string(it.Status),
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

func fromOwner(a *account.Account) *OwnerResponse {
	if a == nil {
		return nil
	}
	return &OwnerResponse{
		ID:        a.ID,
		Email:     a.Email.String(),
		FullName:  a.FullName(),
		Thumbnail: a.Thumbnail,
	}
}

func fromStats(s task.Stats) StatsResponse {
	return StatsResponse{
		PlannedTaskCount:             s.PlannedTaskCount,
		PlannedTaskDurationMinutes:   s.PlannedTaskDurationMinutes,
		CompletedTaskCount:           s.CompletedTaskCount,
		CompletedTaskDurationMinutes: s.CompletedTaskDurationMinutes,
		CompletionRate:               s.CompletionRate,
		HighTaskCount:                s.HighTaskCount,
		HighTaskDuration:             s.HighTaskDuration,
		HighTaskRate:                 s.HighTaskRate,
		MediumTaskCount:              s.MediumTaskCount,
		MediumTaskDuration:           s.MediumTaskDuration,
		MediumTaskRate:               s.MediumTaskRate,
		LowTaskCount:                 s.LowTaskCount,
		LowTaskDuration:              s.LowTaskDuration,
		LowTaskRate:                  s.LowTaskRate,
	}
}
