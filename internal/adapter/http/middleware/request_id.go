// Package middleware provides HTTP middleware components for the Gin framework.
// Пакет middleware предоставляет компоненты HTTP middleware для фреймворка Gin.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/andrewhigh08/weather-api/internal/pkg/logger"
)

const (
	// RequestIDHeader carries the request ID in both directions.
	// RequestIDHeader передаёт ID запроса в обоих направлениях.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the gin context key of the request ID.
	// RequestIDKey — ключ контекста gin для ID запроса.
	RequestIDKey = "request_id"

	maxRequestIDLength = 128
)

// RequestID tags every request with an ID and puts it into the log context,
// so the version resolution and forecast logs of one request share it.
// RequestID помечает каждый запрос ID и кладёт его в контекст логгера, чтобы
// логи определения версии и прогноза одного запроса содержали его.
//
// A client supplied X-Request-ID is kept when it is at most 128 characters of
// [A-Za-z0-9._:-]; anything else is replaced by a new UUID.
// Переданный клиентом X-Request-ID сохраняется, если он не длиннее 128 символов
// из [A-Za-z0-9._:-]; иначе он заменяется новым UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Request = c.Request.WithContext(logger.WithRequestIDContext(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		switch ch := id[i]; {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '.', ch == '_', ch == ':', ch == '-':
		default:
			return false
		}
	}
	return true
}

// GetRequestID returns the request ID, or "" outside RequestID.
// GetRequestID возвращает ID запроса или "" вне RequestID.
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
