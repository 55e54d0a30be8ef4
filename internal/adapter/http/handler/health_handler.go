package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andrewhigh08/weather-api/internal/adapter/http/response"
	"github.com/andrewhigh08/weather-api/internal/port"
)

// HealthHandler handles health check endpoints.
// HealthHandler обрабатывает эндпоинты проверки здоровья.
//
// Provides liveness and readiness probes for Kubernetes.
// Предоставляет liveness и readiness пробы для Kubernetes.
type HealthHandler struct {
	checks map[string]port.HealthChecker // Named dependencies / Именованные зависимости
	now    func() time.Time
}

// NewHealthHandler creates a new HealthHandler instance.
// NewHealthHandler создаёт новый экземпляр HealthHandler.
//
// Nil checkers are skipped, so a disabled Redis can be passed as nil.
// Nil проверки пропускаются, поэтому отключённый Redis можно передать как nil.
func NewHealthHandler(checks map[string]port.HealthChecker) *HealthHandler {
	active := make(map[string]port.HealthChecker, len(checks))
	for name, check := range checks {
		if check != nil {
			active[name] = check
		}
	}
	return &HealthHandler{checks: active, now: time.Now}
}

// HealthStatus represents the health status response.
// HealthStatus представляет ответ о состоянии здоровья.
type HealthStatus struct {
	Status    string           `json:"status"`           // Overall status (ok/degraded) / Общий статус (ok/degraded)
	Timestamp string           `json:"timestamp"`        // Check timestamp / Время проверки
	Checks    map[string]Check `json:"checks,omitempty"` // Individual checks / Отдельные проверки
}

// Check represents an individual health check result.
// Check представляет результат отдельной проверки здоровья.
type Check struct {
	Status  string `json:"status"`            // Check status (healthy/unhealthy) / Статус проверки
	Message string `json:"message,omitempty"` // Error message if unhealthy / Сообщение об ошибке
}

// Live handles GET /health/live.
// Live обрабатывает GET /health/live.
//
// Liveness probe - checks if the service is running.
// Liveness проба - проверяет, запущен ли сервис.
// @Summary Liveness probe
// @Description Check if the service is alive
// @Tags health
// @Produce json
// @Success 200 {object} HealthStatus
// @Router /health/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthStatus{
		Status:    "ok",
		Timestamp: h.timestamp(),
	})
}

// Ready handles GET /health/ready.
// Ready обрабатывает GET /health/ready.
//
// Readiness probe - checks if the service is ready to accept requests.
// Readiness проба - проверяет, готов ли сервис принимать запросы.
// @Summary Readiness probe
// @Description Check if the service is ready to accept requests
// @Tags health
// @Produce json
// @Success 200 {object} HealthStatus
// @Failure 503 {object} HealthStatus
// @Router /health/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := make(map[string]Check, len(h.checks))
	allHealthy := true

	// Check dependencies with timeout / Проверяем зависимости с таймаутом
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	for name, checker := range h.checks {
		if err := checker.Ping(ctx); err != nil {
			checks[name] = Check{Status: "unhealthy", Message: err.Error()}
			allHealthy = false
			continue
		}
		checks[name] = Check{Status: "healthy"}
	}

	// Determine overall status / Определяем общий статус
	status := "ok"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthStatus{
		Status:    status,
		Timestamp: h.timestamp(),
		Checks:    checks,
	})
}

// Health handles GET /health.
// Health обрабатывает GET /health.
// @Summary Health check
// @Description Basic health check
// @Tags health
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	response.Success(c, gin.H{
		"status":    "healthy",
		"timestamp": h.timestamp(),
	})
}

// Register registers the health routes.
// Register регистрирует маршруты проверки здоровья.
func (h *HealthHandler) Register(router gin.IRoutes) {
	router.GET("/health", h.Health)
	router.GET("/health/live", h.Live)
	router.GET("/health/ready", h.Ready)
}

func (h *HealthHandler) timestamp() string {
	return h.now().UTC().Format(time.RFC3339)
}
