package handlers

import (
	"errors"
	"net/http"

	"dayplanner/internal/logger"
	"dayplanner/internal/service"

	"go.uber.org/zap"
)

// handleBusinessError отвечает клиенту, если ошибка бизнесовая,
// и сообщает вызывающему, был ли ответ отправлен
func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	responseWithJSON(w, statusCode,
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", businessErr.Details),
	)
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeForbidden:
		return http.StatusForbidden
	case service.CodeValidation, service.CodeDomain:
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}
