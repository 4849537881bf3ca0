package apperrors

import (
	"fmt"
	"net/http"
)

// =========================================================================
// Системные ошибки
// =========================================================================

// InternalError - неизвестная ошибка (500), детали только в логах
func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "system", "Internal server error", http.StatusInternalServerError)
}

// StorageUnavailable - база недоступна (503)
func StorageUnavailable(err error) *AppError {
	return Wrap(err, CodeDatabaseError, "storage", "Storage is unavailable", http.StatusServiceUnavailable)
}

// =========================================================================
// Ошибки запроса
// =========================================================================

// ValidationError - details: поле -> сообщение (400)
func ValidationError(details interface{}) *AppError {
	return New(CodeValidationFailed, "validation", "Validation failed", http.StatusBadRequest).WithDetails(details)
}

// FieldError - ошибка валидации одного поля (400)
func FieldError(field, message string) *AppError {
	return ValidationError(map[string]string{field: message})
}

func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, "request", message, http.StatusBadRequest)
}

func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, "auth", message, http.StatusUnauthorized)
}

func NewForbiddenError(message string) *AppError {
	return New(CodeForbidden, "auth", message, http.StatusForbidden)
}

// =========================================================================
// Ошибки репозитория
// =========================================================================

// ErrAlreadyExists - ресурс уже существует (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// =========================================================================
// Жизненный цикл заявки
// =========================================================================

// NotFound - ресурс домена не найден (404)
func NotFound(domain, message string) *AppError {
	return New(CodeNotFound, domain, message, http.StatusNotFound)
}

// Duplicate - у заявки уже есть такой ресурс (409)
func Duplicate(domain, message string) *AppError {
	return New(CodeAlreadyExists, domain, message, http.StatusConflict)
}

// ErrInvalidStatus - операция невозможна в текущем статусе (409)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// ErrInvalidTransition - запрещенный переход статуса (409)
func ErrInvalidTransition(domain string, from, to fmt.Stringer) *AppError {
	return New(CodeInvalidStatus, domain,
		fmt.Sprintf("Transition from '%s' to '%s' is not allowed", from, to),
		http.StatusConflict,
	).WithDetails(map[string]string{"from": from.String(), "to": to.String()})
}

// ErrResourceBusy - заявка заблокирована другой операцией (409)
func ErrResourceBusy(err error) *AppError {
	return Wrap(err, CodeResourceBusy, "commission", "Commission is being modified, retry later", http.StatusConflict)
}

// =========================================================================
// Предопределенные ошибки
// =========================================================================

// ErrNotParticipant - пользователь не является участником заявки
var ErrNotParticipant = New(
	CodeForbidden,
	"commission",
	"You are not a participant of this commission",
	http.StatusForbidden,
)

// ErrInvalidToken - неверный или просроченный токен
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)
