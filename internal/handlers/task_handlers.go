package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"dayplanner/internal/handlers/dto"
	"dayplanner/internal/logger"
	"dayplanner/internal/middleware"
	"dayplanner/internal/models/task"
	"dayplanner/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
	}
}

// ListTasks отдаёт задачи по условиям из query-параметров.
// Чтение открыто для всех аутентифицированных пользователей
func (s *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	condition := task.SearchCondition{}
	query := r.URL.Query()

	if raw := query.Get("owner_id"); raw != "" {
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "owner_id"),
				zap.Error(err),
				zap.String("client_ip", r.RemoteAddr))
			responseWithError(w, http.StatusBadRequest, "не удалось получить owner_id: "+err.Error())
			return
		}
		condition.OwnerID = &ownerID
	}

	if raw := query.Get("year_month"); raw != "" {
		if _, _, err := task.MonthRange(raw); err != nil {
			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "year_month"),
				zap.Error(err),
				zap.String("client_ip", r.RemoteAddr))
			responseWithError(w, http.StatusBadRequest, "период должен быть в формате ГГГГ-ММ")
			return
		}
		condition.YearMonth = &raw
	}

	if raw := strings.TrimSpace(query.Get("keyword")); raw != "" {
		condition.Keyword = &raw
	}

	if raw := query.Get("sort"); raw != "" {
		sort, err := task.ParseSort(raw)
		if err != nil {
			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "sort"),
				zap.Error(err),
				zap.String("client_ip", r.RemoteAddr))
			responseWithError(w, http.StatusBadRequest, "неизвестный порядок сортировки: "+raw)
			return
		}
		condition.Sort = sort
	}

	logger.Info("HTTP: Вызов сервиса для получения задач")

	tasks, owner, err := s.TaskService.List(r.Context(), condition)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("tasks", dto.FromTaskList(tasks, owner)))
}

func (s *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		responseWithError(w, http.StatusUnauthorized, "требуется аутентификация")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}
	defer r.Body.Close()

	date, fields := validateTaskRequest(request.Title, request.Date, request.Items)
	items, itemFields := toCreateItems(request.Items)
	fields = append(fields, itemFields...)
	if len(fields) > 0 {
		handleBusinessError(w, service.NewValidationError(fields...))
		return
	}

	logger.Info("HTTP: Вызов сервиса создания задачи")

	created, owner, err := s.TaskService.Create(r.Context(), accountID, request.Title, date, nil, items)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_task"),
			zap.String("client_ip", r.RemoteAddr),
			zap.Duration("ms", time.Since(start)))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("task", dto.FromTask(created, owner)))
}

func (s *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	logger.Info("HTTP: Вызов сервиса для получения задачи")

	found, owner, err := s.TaskService.GetByID(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка в Service", err,
			zap.String("operation", "get_task"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.String("task_id", found.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(found, owner)))
}

// UpdateTask целиком заменяет задачу и набор её пунктов
func (s *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		responseWithError(w, http.StatusUnauthorized, "требуется аутентификация")
		return
	}

	var request dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления: "+err.Error())
		return
	}
	defer r.Body.Close()

	date, fields := validateTaskRequest(request.Title, request.Date, request.Items)
	items, itemFields := toUpdateItems(request.Items)
	fields = append(fields, itemFields...)
	if len(fields) > 0 {
		handleBusinessError(w, service.NewValidationError(fields...))
		return
	}

	logger.Info("HTTP: запрос к сервису обновления данных")

	updated, owner, err := s.TaskService.Update(r.Context(), id, accountID, request.Title, date, items)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "update_task"),
			zap.String("client_addr", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", updated.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updated, owner)))
}

func (s *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		responseWithError(w, http.StatusUnauthorized, "требуется аутентификация")
		return
	}

	logger.Info("HTTP: Обращение к сервису для удаления задачи")

	if err := s.TaskService.Delete(r.Context(), id, accountID); err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "delete_task"),
			zap.String("client_addr", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

// UpdateReview записывает или снимает итоговый отчёт дня
func (s *TaskHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		responseWithError(w, http.StatusUnauthorized, "требуется аутентификация")
		return
	}

	var request dto.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}
	defer r.Body.Close()

	updated, owner, err := s.TaskService.UpdateReview(r.Context(), id, accountID, request.Review)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "update_review"),
			zap.String("client_addr", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Отчёт обновлён",
		zap.String("task_id", updated.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updated, owner)))
}

// UpdateItemOutput записывает результат пункта, статус при этом
// всегда становится Completed
func (s *TaskHandler) UpdateItemOutput(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	itemID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		responseWithError(w, http.StatusUnauthorized, "требуется аутентификация")
		return
	}

	var request dto.UpdateOutputRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(request.Output) == "" {
		logger.Warn("HTTP: пустой output",
			zap.String("item_id", itemID.String()),
			zap.String("client_ip", r.RemoteAddr))
		err := service.NewValidationError(service.FieldError{Field: "output", Message: "output не может быть пустым"})
		handleBusinessError(w, err)
		return
	}

	updated, owner, err := s.TaskService.UpdateItemOutput(r.Context(), itemID, accountID, request.Output)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "update_item_output"),
			zap.String("client_addr", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Результат пункта записан",
		zap.String("item_id", itemID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updated, owner)))
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		responseWithJSON(w, http.StatusServiceUnavailable, toPayload("status", "unavailable"))
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}

func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, name)
	id, err := uuid.Parse(idParam)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "не удалось получить id: "+err.Error())
		return uuid.Nil, false
	}

	if id == uuid.Nil {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("error", "nil id"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return uuid.Nil, false
	}

	return id, true
}
