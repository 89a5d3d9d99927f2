package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"dayplanner/internal/handlers/dto"
	"dayplanner/internal/models/task"
	"dayplanner/internal/service"
)

const dateLayout = "2006-01-02"

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// validateTaskRequest проверяет общие поля запроса создания и обновления
func validateTaskRequest(title, date string, items []dto.TaskItemRequest) (time.Time, []service.FieldError) {
	var fields []service.FieldError

	if strings.TrimSpace(title) == "" {
		fields = append(fields, service.FieldError{Field: "title", Message: "название не может быть пустым"})
	}
	if len(items) == 0 {
		fields = append(fields, service.FieldError{Field: "items", Message: "нужен хотя бы один пункт"})
	}

	parsedDate, err := time.Parse(dateLayout, date)
	if err != nil {
		fields = append(fields, service.FieldError{Field: "date", Message: "дата должна быть в формате ГГГГ-ММ-ДД"})
	}

	return parsedDate, fields
}

func validateItem(i int, item dto.TaskItemRequest) (task.Priority, task.Density, task.DurationTime, []service.FieldError) {
	var fields []service.FieldError

	priority, err := task.ParsePriority(item.Priority)
	if err != nil {
		fields = append(fields, itemFieldError(i, "priority", err))
	}
	density, err := task.ParseDensity(item.Density)
	if err != nil {
		fields = append(fields, itemFieldError(i, "density", err))
	}
	duration, err := task.ParseDurationTime(item.DurationTime)
	if err != nil {
		fields = append(fields, itemFieldError(i, "duration_time", err))
	}
	if strings.TrimSpace(item.Content) == "" {
		fields = append(fields, service.FieldError{
			Field:   fmt.Sprintf("items[%d].content", i),
			Message: "описание пункта не может быть пустым",
		})
	}
	if item.Order < 0 {
		fields = append(fields, service.FieldError{
			Field:   fmt.Sprintf("items[%d].order", i),
			Message: "порядковый номер не может быть отрицательным",
		})
	}

	return priority, density, duration, fields
}

func toCreateItems(items []dto.TaskItemRequest) ([]service.CreateTaskItemInput, []service.FieldError) {
	var fields []service.FieldError

	inputs := make([]service.CreateTaskItemInput, 0, len(items))
	for i, item := range items {
		priority, density, duration, itemFields := validateItem(i, item)
		fields = append(fields, itemFields...)

		inputs = append(inputs, service.CreateTaskItemInput{
			Priority:     priority,
			Density:      density,
			DurationTime: duration,
			Content:      item.Content,
			IsRequired:   item.IsRequired,
			Order:        item.Order,
		})
	}
	return inputs, fields
}

func toUpdateItems(items []dto.TaskItemRequest) ([]service.UpdateTaskItemInput, []service.FieldError) {
	var fields []service.FieldError

	inputs := make([]service.UpdateTaskItemInput, 0, len(items))
	for i, item := range items {
		priority, density, duration, itemFields := validateItem(i, item)
		fields = append(fields, itemFields...)

		status := task.StatusNotStarted
		if item.Status != "" {
			parsed, err := task.ParseStatus(item.Status)
			if err != nil {
				fields = append(fields, itemFieldError(i, "status", err))
			} else {
				status = parsed
			}
		}

		inputs = append(inputs, service.UpdateTaskItemInput{
			ID:           item.ID,
			Priority:     priority,
			Density:      density,
			DurationTime: duration,
			Content:      item.Content,
			IsRequired:   item.IsRequired,
			Order:        item.Order,
			Status:       status,
		})
	}
	return inputs, fields
}

func itemFieldError(i int, field string, err error) service.FieldError {
	return service.FieldError{
		Field:   fmt.Sprintf("items[%d].%s", i, field),
		Message: err.Error(),
	}
}
