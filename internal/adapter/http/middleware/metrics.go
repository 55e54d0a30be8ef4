// Package middleware provides HTTP middleware components for the Gin framework.
// Пакет middleware предоставляет компоненты HTTP middleware для фреймворка Gin.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RouteTemplateKey is the gin context key holding the matched versioned route
// template, used as the metrics path label instead of the catch-all pattern.
// RouteTemplateKey — ключ контекста gin с шаблоном найденного версионированного
// маршрута; используется как метка пути в метриках вместо catch-all шаблона.
const RouteTemplateKey = "route_template"

// Prometheus metrics for HTTP requests.
// Prometheus метрики для HTTP запросов.
var (
	// httpRequestsTotal counts total HTTP requests by method, path, and status.
	// httpRequestsTotal подсчитывает общее количество HTTP запросов по методу, пути и статусу.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_api_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration measures HTTP request duration in seconds.
	// httpRequestDuration измеряет длительность HTTP запросов в секундах.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weather_api_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// httpRequestsInFlight tracks current number of in-flight requests.
	// httpRequestsInFlight отслеживает текущее количество обрабатываемых запросов.
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "weather_api_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// versionResolutionsTotal counts version resolutions by requested version and outcome.
	// versionResolutionsTotal подсчитывает определения версии по версии и результату.
	versionResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_api_version_resolutions_total",
			Help: "Total number of API version resolutions",
		},
		[]string{"version", "outcome"},
	)

	// deprecatedVersionRequestsTotal counts requests served under a deprecated version.
	// deprecatedVersionRequestsTotal подсчитывает запросы, обслуженные устаревшей версией.
	deprecatedVersionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_api_deprecated_version_requests_total",
			Help: "Total number of requests served under a deprecated API version",
		},
		[]string{"version"},
	)

	// cacheHitsTotal counts cache operations by cache name and result (hit/miss).
	// cacheHitsTotal подсчитывает операции кэша по имени кэша и результату (hit/miss).
	cacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_api_cache_hits_total",
			Help: "Total number of cache operations",
		},
		[]string{"cache", "result"},
	)
)

// Metrics returns a middleware that records Prometheus metrics for HTTP requests.
// Metrics возвращает middleware, который записывает Prometheus метрики для HTTP запросов.
//
// Records request count, duration, and in-flight requests.
// Записывает количество запросов, длительность и запросы в обработке.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Increment in-flight counter / Увеличиваем счётчик запросов в обработке
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		c.Next()

		// Record metrics after request completion / Записываем метрики после завершения запроса
		path := metricsPath(c)
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

// metricsPath keeps label cardinality bounded: route patterns only, never raw paths.
func metricsPath(c *gin.Context) string {
	if template := c.GetString(RouteTemplateKey); template != "" {
		return template
	}
	if path := c.FullPath(); path != "" {
		return path
	}
	return "unknown" // Unknown route / Неизвестный маршрут
}

// RecordVersionResolution records the outcome of resolving a request version.
// RecordVersionResolution записывает результат определения версии запроса.
func RecordVersionResolution(version, outcome string) {
	if version == "" {
		version = "none"
	}
	versionResolutionsTotal.WithLabelValues(version, outcome).Inc()
}

// RecordDeprecatedVersionUse records a request served under a deprecated version.
// RecordDeprecatedVersionUse записывает запрос, обслуженный устаревшей версией.
func RecordDeprecatedVersionUse(version string) {
	deprecatedVersionRequestsTotal.WithLabelValues(version).Inc()
}

// RecordCacheHit records a cache operation result in metrics.
// RecordCacheHit записывает результат операции кэша в метрики.
func RecordCacheHit(cacheName string, hit bool) {
	result := "miss" // Промах
	if hit {
		result = "hit" // Попадание
	}
	cacheHitsTotal.WithLabelValues(cacheName, result).Inc()
}
