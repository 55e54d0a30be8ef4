// Package config provides application configuration management.
// Пакет config обеспечивает управление конфигурацией приложения.
//
// Configuration is loaded from environment variables and optional .env file
// with validation at startup. Uses cleanenv for type-safe configuration.
// Конфигурация загружается из переменных окружения и опционального .env файла
// с валидацией при запуске. Использует cleanenv для типобезопасной конфигурации.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/andrewhigh08/weather-api/internal/domain"
	"github.com/andrewhigh08/weather-api/internal/pkg/apperror"
	"github.com/andrewhigh08/weather-api/internal/pkg/validator"
)

// Config holds all application configuration.
// Config содержит всю конфигурацию приложения.
type Config struct {
	Server         ServerConfig         `yaml:"server"`                                     // HTTP server settings / Настройки HTTP сервера
	Versioning     VersioningConfig     `yaml:"versioning"`                                 // API versions / Версии API
	Docs           DocsConfig           `yaml:"docs"`                                       // Documentation / Документация
	Redis          RedisConfig          `yaml:"redis"`                                      // Redis connection / Подключение к Redis
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`                                 // Rate limiting / Ограничение частоты
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`                            // Redis circuit breaker / Circuit breaker Redis
	Telemetry      TelemetryConfig      `yaml:"telemetry"`                                  // OpenTelemetry settings / Настройки OpenTelemetry
	Log            LogConfig            `yaml:"log"`                                        // Logging / Логирование
	DevMode        bool                 `env:"DEV_MODE" env-default:"true" yaml:"dev_mode"` // Development mode / Режим разработки
}

// ServerConfig contains HTTP server configuration.
// ServerConfig содержит конфигурацию HTTP сервера.
type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" env-default:"8080" yaml:"port"`                        // Server port / Порт сервера
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"15s" yaml:"read_timeout"`         // Read timeout / Таймаут чтения
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"15s" yaml:"write_timeout"`       // Write timeout / Таймаут записи
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" env-default:"60s" yaml:"idle_timeout"`         // Idle timeout / Таймаут простоя
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"shutdown_timeout"` // Graceful shutdown / Плавное завершение
	MetricsPath     string        `env:"METRICS_PATH" env-default:"/metrics" yaml:"metrics_path"`           // Prometheus path / Путь Prometheus
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" env-separator:"," yaml:"allowed_origins"`     // CORS origins outside dev mode / Источники CORS вне режима разработки
}

// VersioningConfig contains the supported API versions.
// VersioningConfig содержит поддерживаемые версии API.
type VersioningConfig struct {
	PathPrefix string   `env:"API_PATH_PREFIX" env-default:"/api" yaml:"path_prefix"`                                                        // Prefix before v{version} / Префикс перед v{version}
	Supported  []string `env:"API_SUPPORTED_VERSIONS" env-default:"1,2" env-separator:"," yaml:"supported" validate:"min=1,dive,apiversion"` // Supported versions / Поддерживаемые версии
	Deprecated []string `env:"API_DEPRECATED_VERSIONS" env-default:"1" env-separator:"," yaml:"deprecated" validate:"dive,apiversion"`       // Deprecated versions / Устаревшие версии
	Default    string   `env:"API_DEFAULT_VERSION" env-default:"1" yaml:"default" validate:"required,apiversion"`                            // Default version / Версия по умолчанию
}

// DocsConfig contains documentation settings.
// DocsConfig содержит настройки документации.
type DocsConfig struct {
	Title          string `env:"DOCS_TITLE" env-default:"Weather Forecast API" yaml:"title"`                                    // Document title / Заголовок документа
	Description    string `env:"DOCS_DESCRIPTION" env-default:"Random weather forecasts, versioned by URL." yaml:"description"` // Document description / Описание документа
	SwaggerEnabled bool   `env:"DOCS_SWAGGER_ENABLED" env-default:"true" yaml:"swagger_enabled"`                                // Serve Swagger UI / Отдавать Swagger UI
}

// RedisConfig contains Redis connection settings.
// RedisConfig содержит настройки подключения к Redis.
type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED" env-default:"false" yaml:"enabled"` // Use Redis / Использовать Redis
	Host     string `env:"REDIS_HOST" env-default:"localhost" yaml:"host"`   // Redis host / Хост Redis
	Port     string `env:"REDIS_PORT" env-default:"6379" yaml:"port"`        // Redis port / Порт Redis
	Password string `env:"REDIS_PASSWORD" env-default:"" yaml:"password"`    // Redis password / Пароль Redis
	DB       int    `env:"REDIS_DB" env-default:"0" yaml:"db"`               // Redis database number / Номер БД Redis
}

// RateLimitConfig contains rate limiting settings.
// RateLimitConfig содержит настройки ограничения частоты.
type RateLimitConfig struct {
	Enabled           bool    `env:"RATE_LIMIT_ENABLED" env-default:"true" yaml:"enabled"`                        // Enable limiting / Включить ограничение
	RequestsPerSecond float64 `env:"RATE_LIMIT_RPS" env-default:"100" yaml:"requests_per_second" validate:"gt=0"` // Per-IP rate / Частота на IP
	Burst             int     `env:"RATE_LIMIT_BURST" env-default:"200" yaml:"burst" validate:"gt=0"`             // Burst size / Размер пика
}

// CircuitBreakerConfig contains the Redis circuit breaker settings.
// CircuitBreakerConfig содержит настройки circuit breaker для Redis.
type CircuitBreakerConfig struct {
	MaxFailures int           `env:"CB_MAX_FAILURES" env-default:"5" yaml:"max_failures" validate:"gt=0"` // Failures before opening / Сбоев до размыкания
	Timeout     time.Duration `env:"CB_TIMEOUT" env-default:"30s" yaml:"timeout"`                         // Open period / Период размыкания
}

// TelemetryConfig contains OpenTelemetry configuration.
// TelemetryConfig содержит конфигурацию OpenTelemetry.
type TelemetryConfig struct {
	Enabled        bool    `env:"OTEL_ENABLED" env-default:"false" yaml:"enabled"`                              // Enable telemetry / Включить телеметрию
	OTLPEndpoint   string  `env:"OTEL_ENDPOINT" env-default:"localhost:4317" yaml:"otlp_endpoint"`              // OTLP endpoint / OTLP эндпоинт
	ServiceName    string  `env:"OTEL_SERVICE_NAME" env-default:"weather-api" yaml:"service_name"`              // Service name / Имя сервиса
	ServiceVersion string  `env:"OTEL_SERVICE_VERSION" env-default:"1.0.0" yaml:"service_version"`              // Service version / Версия сервиса
	Environment    string  `env:"OTEL_ENVIRONMENT" env-default:"development" yaml:"environment"`                // Environment / Окружение
	SampleRatio    float64 `env:"OTEL_SAMPLE_RATIO" env-default:"1" yaml:"sample_ratio" validate:"gte=0,lte=1"` // Sampled share of traces / Доля сэмплируемых трасс
}

// LogConfig contains logging configuration.
// LogConfig содержит конфигурацию логирования.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info" yaml:"level" validate:"oneof=debug info warn error"` // Log level / Уровень логирования
	Format string `env:"LOG_FORMAT" env-default:"json" yaml:"format" validate:"oneof=json text"`           // Output format / Формат вывода
}

// Addr returns the Redis address in host:port form.
// Addr возвращает адрес Redis в формате host:port.
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// VersionSet builds the API version set from the versioning settings.
// VersionSet строит набор версий API из настроек версионирования.
//
// Returns a configuration error if a version does not parse or the default
// version is not supported.
// Возвращает ошибку конфигурации, если версия не разбирается или версия по
// умолчанию не поддерживается.
func (c *VersioningConfig) VersionSet() (*domain.VersionSet, error) {
	supported, err := parseVersions("API_SUPPORTED_VERSIONS", c.Supported)
	if err != nil {
		return nil, err
	}
	deprecated, err := parseVersions("API_DEPRECATED_VERSIONS", c.Deprecated)
	if err != nil {
		return nil, err
	}
	def, err := domain.ParseVersion(strings.TrimSpace(c.Default))
	if err != nil {
		return nil, apperror.Configuration("API_DEFAULT_VERSION: %v", err)
	}

	return domain.NewVersionSet(supported, deprecated, def)
}

func parseVersions(name string, values []string) ([]domain.Version, error) {
	versions := make([]domain.Version, 0, len(values))
	for _, s := range values {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		v, err := domain.ParseVersion(s)
		if err != nil {
			return nil, apperror.Configuration("%s: %v", name, err)
		}
		versions = append(versions, v)
	}
	return versions, nil
}

// Validate checks the loaded values against their validate tags.
// Validate проверяет загруженные значения по их тегам validate.
func (c *Config) Validate() error {
	v, err := validator.New()
	if err != nil {
		return err
	}

	c.Versioning.Supported = trimAll(c.Versioning.Supported)
	c.Versioning.Deprecated = trimAll(c.Versioning.Deprecated)
	c.Versioning.Default = strings.TrimSpace(c.Versioning.Default)

	if err := v.Validate(c); err != nil {
		fields := validator.FormatValidationErrors(err)
		return apperror.Configuration("invalid configuration: %v", fields)
	}
	return nil
}

// trimAll trims each value and drops empty ones, so "1, 2," reads as [1 2].
func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, s := range values {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Load loads configuration from environment variables and optional .env file.
// Load загружает конфигурацию из переменных окружения и опционального .env файла.
//
// Configuration priority (highest to lowest):
// Приоритет конфигурации (от высшего к низшему):
//  1. Environment variables / Переменные окружения
//  2. .env file (if exists) / .env файл (если существует)
//  3. Default values / Значения по умолчанию
//
// Returns an error if required configuration is missing or invalid.
// Возвращает ошибку, если обязательная конфигурация отсутствует или некорректна.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is like Load but reads the given env file when it exists.
// LoadFile аналогична Load, но читает указанный env файл, если он существует.
func LoadFile(envFile string) (*Config, error) {
	var cfg Config

	// Try to load the env file if it exists (optional)
	// Пытаемся загрузить env файл, если он существует (опционально)
	if _, err := os.Stat(envFile); err == nil {
		if err := cleanenv.ReadConfig(envFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s file: %w", envFile, err)
		}
	} else {
		// No env file, read from environment only
		// Нет env файла, читаем только из окружения
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment variables: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad loads configuration and panics on error.
// MustLoad загружает конфигурацию и паникует при ошибке.
//
// Use this in main() when configuration is critical for startup.
// Используйте в main(), когда конфигурация критична для запуска.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// GetDescription returns a description of all configuration parameters.
// GetDescription возвращает описание всех параметров конфигурации.
//
// Useful for generating help text or documentation.
// Полезно для генерации справочного текста или документации.
func GetDescription() (string, error) {
	var cfg Config
	return cleanenv.GetDescription(&cfg, nil)
}
