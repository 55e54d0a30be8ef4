// Package response provides standardized API response structures and helpers.
// Пакет response предоставляет стандартизированные структуры ответов API и вспомогательные функции.
//
// All API endpoints should use these helpers to ensure consistent response format.
// Version errors are the exception: they always use the fixed VersionErrorBody shape.
// Все эндпоинты API должны использовать эти хелперы для обеспечения единообразного формата ответов.
// Исключение — ошибки версий: они всегда имеют фиксированный формат VersionErrorBody.
package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/andrewhigh08/weather-api/internal/pkg/apperror"
)

// APIResponse represents a standardized API response structure.
// APIResponse представляет стандартизированную структуру ответа API.
type APIResponse struct {
	Success bool        `json:"success"`         // Operation success flag / Флаг успешности операции
	Data    interface{} `json:"data,omitempty"`  // Response payload / Полезные данные ответа
	Error   *ErrorBody  `json:"error,omitempty"` // Error details (if any) / Детали ошибки (если есть)
	Meta    *Meta       `json:"meta,omitempty"`  // Version metadata / Метаданные версии
}

// ErrorBody represents the error details in an API response.
// ErrorBody представляет детали ошибки в ответе API.
type ErrorBody struct {
	Code    string                 `json:"code"`              // Machine-readable error code / Машиночитаемый код ошибки
	Message string                 `json:"message"`           // Human-readable error message / Человекочитаемое сообщение
	Details map[string]interface{} `json:"details,omitempty"` // Additional error details / Дополнительные детали
}

// Meta describes the API version a response was produced under.
// Meta описывает версию API, под которой сформирован ответ.
type Meta struct {
	APIVersion string `json:"apiVersion"`           // Served version / Обслуженная версия
	Deprecated bool   `json:"deprecated,omitempty"` // Version is deprecated / Версия устарела
}

// VersionErrorBody is the fixed body of malformed and unsupported version errors.
// VersionErrorBody — фиксированное тело ошибок некорректной и неподдерживаемой версии.
type VersionErrorBody struct {
	Error             string   `json:"error" example:"the API version '3' is not supported"`
	AvailableVersions []string `json:"availableVersions"`
}

// Success sends a successful response with data.
// Success отправляет успешный ответ с данными.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMeta sends a successful response with data and version metadata.
// SuccessWithMeta отправляет успешный ответ с данными и метаданными версии.
func SuccessWithMeta(c *gin.Context, data interface{}, meta *Meta) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// Error sends an error response from an AppError.
// Error отправляет ответ с ошибкой из AppError.
// Malformed and unsupported version errors are written as VersionErrorBody.
// Ошибки некорректной и неподдерживаемой версии записываются как VersionErrorBody.
func Error(c *gin.Context, err error) {
	appErr := apperror.FromError(err)

	switch appErr.Code {
	case apperror.CodeMalformedVersion, apperror.CodeUnsupportedVersion:
		VersionError(c, appErr)
		return
	}

	c.JSON(appErr.HTTPStatus, APIResponse{
		Success: false,
		Error: &ErrorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}

// VersionError writes a version error in the fixed {error, availableVersions} shape.
// VersionError записывает ошибку версии в фиксированном формате {error, availableVersions}.
func VersionError(c *gin.Context, appErr *apperror.AppError) {
	c.JSON(appErr.HTTPStatus, VersionErrorBody{
		Error:             appErr.Message,
		AvailableVersions: appErr.AvailableVersions(),
	})
}

// ErrorWithStatus sends an error response with a specific HTTP status.
// ErrorWithStatus отправляет ответ с ошибкой с определённым HTTP статусом.
func ErrorWithStatus(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, APIResponse{
		Success: false,
		Error: &ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// BadRequest sends a 400 Bad Request response.
// BadRequest отправляет ответ 400 Bad Request.
func BadRequest(c *gin.Context, message string) {
	Error(c, apperror.BadRequest(message))
}

// NotFound sends a 404 Not Found response.
// NotFound отправляет ответ 404 Not Found.
func NotFound(c *gin.Context, resource string, id interface{}) {
	Error(c, apperror.NotFound(resource, id))
}

// InternalError sends a 500 Internal Server Error response.
// InternalError отправляет ответ 500 Internal Server Error.
func InternalError(c *gin.Context, message string) {
	Error(c, apperror.Internal(message, nil))
}

// TooManyRequests sends a 429 Too Many Requests response.
// TooManyRequests отправляет ответ 429 Too Many Requests.
func TooManyRequests(c *gin.Context, message string, retryAfter int) {
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	Error(c, apperror.TooManyRequests(message, retryAfter))
}

// ValidationError sends a 400 response for validation errors.
// ValidationError отправляет ответ 400 для ошибок валидации.
func ValidationError(c *gin.Context, message string, details map[string]interface{}) {
	Error(c, apperror.ValidationError(message, details))
}
