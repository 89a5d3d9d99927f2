package service

import "fmt"

// Коды бизнес-ошибок, по ним handlers выбирают HTTP-статус
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeDomain     = "DOMAIN_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeForbidden  = "FORBIDDEN"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

// FieldError — пара (поле, сообщение) для ошибок валидации
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func NewValidationError(fields ...FieldError) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: "Ошибка валидации",
		Details: map[string]any{"errors": fields},
	}
}

// NewDomainError — нарушение инварианта агрегата, никогда не глотается
func NewDomainError(err error) *BusinessError {
	return &BusinessError{
		Code:    CodeDomain,
		Message: err.Error(),
		Err:     err,
	}
}

func NewNotFound(resource, id string) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s не найден(а)", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewForbidden(message string) *BusinessError {
	return &BusinessError{
		Code:    CodeForbidden,
		Message: message,
	}
}
