// Package apperror provides structured application error types.
// Пакет apperror предоставляет структурированные типы ошибок приложения.
//
// Every error carries a machine-readable code, a human-readable message and the
// HTTP status it maps to. Configuration errors are raised only while the
// service is starting; the version and routing errors are per-request outcomes.
// Каждая ошибка содержит машиночитаемый код, сообщение и HTTP статус.
// Ошибки конфигурации возникают только при запуске сервиса; ошибки версий
// и маршрутизации относятся к отдельному запросу.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for different error types.
// Коды ошибок для различных типов ошибок.
const (
	CodeConfiguration      = "CONFIGURATION_ERROR" // Invalid startup configuration / Некорректная конфигурация запуска
	CodeMalformedVersion   = "MALFORMED_VERSION"   // Version token cannot be parsed / Токен версии не разбирается
	CodeUnsupportedVersion = "UNSUPPORTED_VERSION" // Version is not supported / Версия не поддерживается
	CodeRouteNotFound      = "ROUTE_NOT_FOUND"     // No route for version / Нет маршрута для версии
	CodeNotFound           = "NOT_FOUND"           // Resource not found / Ресурс не найден
	CodeValidation         = "VALIDATION_ERROR"    // Validation failed / Ошибка валидации
	CodeBadRequest         = "BAD_REQUEST"         // Invalid request / Неверный запрос
	CodeInternal           = "INTERNAL_ERROR"      // Internal server error / Внутренняя ошибка сервера
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"   // Rate limit exceeded / Превышен лимит запросов
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE" // Service unavailable / Сервис недоступен
)

// DetailAvailableVersions is the details key holding the supported version list.
// DetailAvailableVersions — ключ деталей со списком поддерживаемых версий.
const DetailAvailableVersions = "availableVersions"

// AppError represents a structured application error.
// AppError представляет структурированную ошибку приложения.
type AppError struct {
	Code       string                 `json:"code"`              // Error code / Код ошибки
	Message    string                 `json:"message"`           // Error message / Сообщение об ошибке
	HTTPStatus int                    `json:"-"`                 // HTTP status / HTTP статус
	Details    map[string]interface{} `json:"details,omitempty"` // Additional details / Доп. детали
	Err        error                  `json:"-"`                 // Wrapped error / Обёрнутая ошибка
}

// Error implements the error interface.
// Error реализует интерфейс error.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is/As support.
// Unwrap возвращает обёрнутую ошибку для поддержки errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails adds details to the error and returns the modified error.
// WithDetails добавляет детали к ошибке и возвращает изменённую ошибку.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithError wraps an underlying error and returns the modified error.
// WithError оборачивает исходную ошибку и возвращает изменённую ошибку.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// AvailableVersions returns the supported versions attached to a version error.
// AvailableVersions возвращает поддерживаемые версии, приложенные к ошибке версии.
func (e *AppError) AvailableVersions() []string {
	if versions, ok := e.Details[DetailAvailableVersions].([]string); ok && versions != nil {
		return versions
	}
	return []string{}
}

// New creates a new AppError with the specified code, message, and HTTP status.
// New создаёт новую AppError с указанным кодом, сообщением и HTTP статусом.
func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Configuration creates a startup configuration error.
// Configuration создаёт ошибку конфигурации запуска.
//
// The process must not begin serving after receiving one.
// После такой ошибки процесс не должен начинать обслуживание.
func Configuration(format string, args ...interface{}) *AppError {
	return &AppError{
		Code:       CodeConfiguration,
		Message:    fmt.Sprintf(format, args...),
		HTTPStatus: http.StatusInternalServerError,
	}
}

// MalformedVersion creates an error for a version token that does not parse.
// MalformedVersion создаёт ошибку для токена версии, который не разбирается.
func MalformedVersion(token string, available []string) *AppError {
	return &AppError{
		Code:       CodeMalformedVersion,
		Message:    fmt.Sprintf("the API version '%s' is malformed", token),
		HTTPStatus: http.StatusBadRequest,
		Details: map[string]interface{}{
			DetailAvailableVersions: available,
		},
	}
}

// UnsupportedVersion creates an error for a well-formed but unsupported version.
// UnsupportedVersion создаёт ошибку для корректной, но неподдерживаемой версии.
func UnsupportedVersion(requested string, available []string) *AppError {
	return &AppError{
		Code:       CodeUnsupportedVersion,
		Message:    fmt.Sprintf("the API version '%s' is not supported", requested),
		HTTPStatus: http.StatusBadRequest,
		Details: map[string]interface{}{
			DetailAvailableVersions: available,
		},
	}
}

// RouteNotFound creates an error for a request that matches no route entry.
// RouteNotFound создаёт ошибку для запроса без подходящего маршрута.
func RouteNotFound(method, path, version string) *AppError {
	return &AppError{
		Code:       CodeRouteNotFound,
		Message:    fmt.Sprintf("no route for %s %s", method, path),
		HTTPStatus: http.StatusNotFound,
		Details: map[string]interface{}{
			"method":  method,
			"path":    path,
			"version": version,
		},
	}
}

// NotFound creates a not found error for a specific resource.
// NotFound создаёт ошибку "не найдено" для конкретного ресурса.
func NotFound(resource string, id interface{}) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details: map[string]interface{}{
			"resource": resource,
			"id":       id,
		},
	}
}

// ValidationError creates a validation error with details.
// ValidationError создаёт ошибку валидации с деталями.
func ValidationError(message string, details map[string]interface{}) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// Internal creates an internal server error with an optional wrapped error.
// Internal создаёт внутреннюю ошибку сервера с опциональной обёрнутой ошибкой.
func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// BadRequest creates a bad request error.
// BadRequest создаёт ошибку неверного запроса.
func BadRequest(message string) *AppError {
	return &AppError{
		Code:       CodeBadRequest,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// TooManyRequests creates a rate limit exceeded error.
// TooManyRequests создаёт ошибку превышения лимита запросов.
func TooManyRequests(message string, retryAfter int) *AppError {
	return &AppError{
		Code:       CodeTooManyRequests,
		Message:    message,
		HTTPStatus: http.StatusTooManyRequests,
		Details: map[string]interface{}{
			"retry_after_seconds": retryAfter, // Retry after X seconds / Повторите через X секунд
		},
	}
}

// ServiceUnavailable creates a service unavailable error.
// ServiceUnavailable создаёт ошибку недоступности сервиса.
func ServiceUnavailable(message string) *AppError {
	return &AppError{
		Code:       CodeServiceUnavailable,
		Message:    message,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// IsAppError checks if an error is an AppError.
// IsAppError проверяет, является ли ошибка AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to AppError if possible.
// AsAppError преобразует ошибку в AppError, если это возможно.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an AppError with the given code.
// IsCode сообщает, является ли err ошибкой AppError с заданным кодом.
func IsCode(err error, code string) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// FromError wraps a generic error as an internal AppError.
// FromError оборачивает обычную ошибку как внутреннюю AppError.
// If the error is already an AppError, it returns it as-is.
// Если ошибка уже является AppError, возвращает её без изменений.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal("an unexpected error occurred", err) // Произошла непредвиденная ошибка
}
