package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"dayplanner/internal/handlers/dto"
	"dayplanner/internal/logger"
	"dayplanner/internal/middleware"
	"dayplanner/internal/service"

	"go.uber.org/zap"
)

type AccountHandler struct {
	AccountService AccountService
	Auth           *middleware.Auth
}

func NewAccountHandler(accountService AccountService, auth *middleware.Auth) AccountHandler {
	return AccountHandler{
		AccountService: accountService,
		Auth:           auth,
	}
}

// GetMe возвращает аккаунт текущего пользователя по токену
func (s *AccountHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		responseWithError(w, http.StatusUnauthorized, "требуется аутентификация")
		return
	}

	found, err := s.AccountService.GetByID(r.Context(), accountID)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "get_me"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("account", dto.FromAccount(found)))
}

func (s *AccountHandler) GetAccountByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	found, err := s.AccountService.GetByID(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "get_account"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("account", dto.FromAccount(found)))
}

// GetAccountByEmail ищет аккаунт по адресу из query-параметра
func (s *AccountHandler) GetAccountByEmail(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		logger.Warn("HTTP: Неверное значение параметра",
			zap.String("query", "email"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "email не может быть пустым")
		return
	}

	found, err := s.AccountService.GetByEmail(r.Context(), email)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "get_account_by_email"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("account", dto.FromAccount(found)))
}

// Login создаёт аккаунт при первом входе через OAuth-провайдера
// или обновляет профиль существующего. Маршрут не требует токена
func (s *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
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

	var request dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}
	defer r.Body.Close()

	var fields []service.FieldError
	if strings.TrimSpace(request.Name) == "" {
		fields = append(fields, service.FieldError{Field: "name", Message: "имя не может быть пустым"})
	}
	if strings.TrimSpace(request.Provider) == "" {
		fields = append(fields, service.FieldError{Field: "provider", Message: "провайдер не может быть пустым"})
	}
	if len(fields) > 0 {
		handleBusinessError(w, service.NewValidationError(fields...))
		return
	}

	logger.Info("HTTP: Вызов сервиса входа")

	acc, err := s.AccountService.CreateOrGet(r.Context(), request.Email, request.Name, request.Provider, request.ProviderAccountID, request.Thumbnail)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "login"),
			zap.String("client_ip", r.RemoteAddr),
			zap.Duration("ms", time.Since(start)))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	token, err := s.Auth.IssueToken(acc.ID)
	if err != nil {
		logger.Error("HTTP: Ошибка выпуска токена", err,
			zap.String("account_id", acc.ID.String()))
		responseWithError(w, http.StatusInternalServerError, "не удалось выпустить токен")
		return
	}

	logger.Info("HTTP_OUT: Вход выполнен",
		zap.String("account_id", acc.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("account", dto.FromAccount(acc)),
		toPayload("token", token))
}
