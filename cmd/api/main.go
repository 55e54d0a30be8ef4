// Package main is the entry point for the Weather API server.
// Пакет main является точкой входа для API сервера прогноза погоды.
//
// The server exposes random weather forecasts under URL-versioned routes
// (/api/v1, /api/v2) together with per-version OpenAPI documents.
// Сервер отдаёт случайные прогнозы погоды по версионированным в URL маршрутам
// (/api/v1, /api/v2) вместе с OpenAPI документами для каждой версии.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	rediscache "github.com/andrewhigh08/weather-api/internal/adapter/cache/redis"
	"github.com/andrewhigh08/weather-api/internal/adapter/http/handler"
	"github.com/andrewhigh08/weather-api/internal/adapter/http/middleware"
	"github.com/andrewhigh08/weather-api/internal/adapter/http/versioning"
	"github.com/andrewhigh08/weather-api/internal/config"
	"github.com/andrewhigh08/weather-api/internal/pkg/circuitbreaker"
	"github.com/andrewhigh08/weather-api/internal/pkg/logger"
	"github.com/andrewhigh08/weather-api/internal/pkg/telemetry"
	"github.com/andrewhigh08/weather-api/internal/pkg/validator"
	"github.com/andrewhigh08/weather-api/internal/port"
	"github.com/andrewhigh08/weather-api/internal/service"
)

// main is the application entry point.
// main является точкой входа приложения.
//
// Initializes all dependencies and starts the HTTP server with graceful shutdown.
// Инициализирует все зависимости и запускает HTTP сервер с graceful shutdown.
func main() {
	// Load configuration / Загружаем конфигурацию
	// MustLoad panics if config is invalid, which is desired at startup
	// MustLoad паникует при невалидном конфиге, что желательно при запуске
	cfg := config.MustLoad()

	// Initialize logger / Инициализируем логгер
	log := logger.New(logger.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		AddSource: true,
	})
	logger.SetDefault(log)

	// Initialize telemetry / Инициализируем телеметрию
	tp, err := telemetry.InitTelemetry(context.Background(), telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		Environment:    cfg.Telemetry.Environment,
		SampleRatio:    cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		log.Error("failed to initialize telemetry", "error", err)
	} else if cfg.Telemetry.Enabled {
		log.Info("telemetry initialized", "endpoint", cfg.Telemetry.OTLPEndpoint)
	}

	// Build the version set / Строим набор версий
	versions, err := cfg.Versioning.VersionSet()
	if err != nil {
		log.Fatal("invalid API versions", "error", err)
	}

	if err := validator.RegisterGinValidations(); err != nil {
		log.Fatal("failed to register validations", "error", err)
	}

	// Initialize services and handlers / Инициализируем сервисы и обработчики
	forecastService := service.NewForecastService(log)
	forecastHandler := handler.NewForecastHandler(forecastService, log)
	statusHandler := handler.NewStatusHandler(versions)

	// Versioned routing / Версионированная маршрутизация
	table := versioning.NewRouteTable()
	if err := handler.RegisterVersionedRoutes(table, forecastHandler, statusHandler); err != nil {
		log.Fatal("failed to register versioned routes", "error", err)
	}
	resolver := versioning.NewResolver(cfg.Versioning.PathPrefix, versions, table)
	dispatcher := versioning.NewDispatcher(resolver, log)

	docs := versioning.NewGenerator(resolver, versioning.DocInfo{
		Title:       cfg.Docs.Title,
		Description: cfg.Docs.Description,
	}, log)
	if err := docs.Warm(); err != nil {
		log.Fatal("failed to render documentation", "error", err)
	}

	log.Info("versioned routes registered",
		"prefix", resolver.Prefix(),
		"routes", table.Len(),
		"supported", versions.SupportedStrings(),
		"deprecated", versions.DeprecatedStrings(),
	)

	// Optional Redis backend / Опциональный бэкенд Redis
	var redisClient *redis.Client
	var redisHealth port.HealthChecker
	if cfg.Redis.Enabled {
		redisClient = initRedis(cfg, log)
		redisHealth = rediscache.NewPinger(redisClient)
	}

	// Setup router with all routes / Настраиваем роутер со всеми маршрутами
	router := setupRouter(cfg, log, routes{
		health:     handler.NewHealthHandler(map[string]port.HealthChecker{"redis": redisHealth}),
		status:     statusHandler,
		docs:       docs,
		dispatcher: dispatcher,
		limiter:    rateLimiter(cfg, log, redisClient),
	})

	// Configure HTTP server / Настраиваем HTTP сервер
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,  // Max time to read request / Макс. время чтения запроса
		WriteTimeout: cfg.Server.WriteTimeout, // Max time to write response / Макс. время записи ответа
		IdleTimeout:  cfg.Server.IdleTimeout,  // Max time for keep-alive / Макс. время keep-alive
	}

	// Start server in goroutine / Запускаем сервер в горутине
	go func() {
		log.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", "error", err)
		}
	}()

	// Graceful shutdown handling / Обработка graceful shutdown
	// Wait for interrupt signal / Ожидаем сигнал прерывания
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests time to complete
	// Даём время на завершение текущих запросов
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	// Shutdown telemetry / Завершаем телеметрию
	if tp != nil {
		if err := tp.Shutdown(ctx); err != nil {
			log.Error("failed to shutdown telemetry", "error", err)
		}
	}

	// Close Redis connection / Закрываем подключение к Redis
	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("server exited properly")
}

// initRedis initializes the Redis client connection.
// initRedis инициализирует подключение клиента Redis.
func initRedis(cfg *config.Config, log *logger.Logger) *redis.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := rediscache.NewClient(ctx, rediscache.Options{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("failed to connect to Redis", "error", err)
	}

	log.Info("redis connection established", "addr", cfg.Redis.Addr())
	return client
}

// rateLimiter picks the rate limiting middleware for the configuration.
// rateLimiter выбирает middleware ограничения частоты по конфигурации.
//
// With Redis the counters are shared between instances and guarded by a
// circuit breaker; otherwise a per-process token bucket is used.
// С Redis счётчики общие для всех экземпляров и защищены circuit breaker;
// иначе используется token bucket в памяти процесса.
func rateLimiter(cfg *config.Config, log *logger.Logger, client *redis.Client) gin.HandlerFunc {
	if !cfg.RateLimit.Enabled {
		return nil
	}

	limits := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	}

	if client == nil {
		return middleware.RateLimitMiddleware(middleware.NewIPRateLimiter(limits))
	}

	cbLog := log.WithComponent("circuit_breaker")
	counters := rediscache.NewRateLimitCacheWithCB(rediscache.NewRateLimitCache(client), rediscache.CircuitBreakerConfig{
		MaxFailures: cfg.CircuitBreaker.MaxFailures,
		Timeout:     cfg.CircuitBreaker.Timeout,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			cbLog.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return middleware.RedisRateLimitMiddleware(middleware.NewRedisRateLimiter(counters, limits, log))
}

// routes groups the handlers mounted on the router.
// routes группирует обработчики, подключаемые к роутеру.
type routes struct {
	health     *handler.HealthHandler
	status     *handler.StatusHandler
	docs       *versioning.Generator
	dispatcher *versioning.Dispatcher
	limiter    gin.HandlerFunc
}

// setupRouter configures the Gin router with all routes and middleware.
// setupRouter настраивает роутер Gin со всеми маршрутами и middleware.
func setupRouter(cfg *config.Config, log *logger.Logger, r routes) *gin.Engine {
	if cfg.DevMode {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Configure trusted proxies to prevent IP spoofing via X-Forwarded-For
	// Настраиваем доверенные прокси для предотвращения IP-спуфинга через X-Forwarded-For
	if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
		log.Error("failed to set trusted proxies", "error", err)
	}

	securityCfg := middleware.DefaultSecurityConfig()
	if !cfg.DevMode {
		securityCfg = middleware.ProductionSecurityConfig(cfg.Server.AllowedOrigins)
	}

	// Global middleware / Глобальные middleware
	router.Use(gin.Recovery())                          // Panic recovery / Восстановление после паники
	router.Use(middleware.RequestID())                  // Request ID / ID запроса
	router.Use(middleware.SecurityHeaders(securityCfg)) // Security headers / Заголовки безопасности
	router.Use(middleware.CORS(securityCfg))            // CORS / Кросс-доменные запросы
	router.Use(middleware.Metrics())                    // Prometheus metrics / Метрики Prometheus
	if r.limiter != nil {
		router.Use(r.limiter) // Global rate limiting / Глобальное ограничение частоты
	}
	router.Use(requestLogger(log)) // Request logging / Логирование запросов

	// Health check endpoints for Kubernetes probes
	// Эндпоинты проверки здоровья для Kubernetes проб
	r.health.Register(router.Group("", middleware.NoCache()))

	// Version discovery / Обнаружение версий
	router.GET("/versions", r.status.Versions)

	// Documentation / Документация
	handler.RegisterDocs(router, r.docs)
	if cfg.Docs.SwaggerEnabled {
		handler.RegisterSwagger(router, r.docs)
	}

	// Metrics endpoint for Prometheus / Эндпоинт метрик для Prometheus
	handler.RegisterMetrics(router, cfg.Server.MetricsPath)

	// Versioned API / Версионированный API
	r.dispatcher.Register(router)

	return router
}

// requestLogger returns a middleware that logs HTTP requests.
// requestLogger возвращает middleware, которое логирует HTTP запросы.
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		// Process request / Обрабатываем запрос
		c.Next()

		// Log after request completion / Логируем после завершения запроса
		log.LogRequest(
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
		)
	}
}
