package versioning

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/andrewhigh08/weather-api/internal/adapter/http/middleware"
	"github.com/andrewhigh08/weather-api/internal/adapter/http/response"
	"github.com/andrewhigh08/weather-api/internal/domain"
	"github.com/andrewhigh08/weather-api/internal/pkg/apperror"
	"github.com/andrewhigh08/weather-api/internal/pkg/logger"
	"github.com/andrewhigh08/weather-api/internal/pkg/telemetry"
)

// Response headers reporting API versions.
// Заголовки ответа с информацией о версиях API.
const (
	HeaderSupportedVersions  = "api-supported-versions"
	HeaderDeprecatedVersions = "api-deprecated-versions"
	HeaderDeprecation        = "Deprecation"
)

// Gin context keys set on a resolved request.
// Ключи контекста gin, устанавливаемые для разрешённого запроса.
const (
	ContextKeyVersion    = "api_version"
	ContextKeyDeprecated = "api_version_deprecated"
)

const tracerName = "github.com/andrewhigh08/weather-api/versioning"

// Dispatcher is the gin handler behind the versioned catch-all route.
// Dispatcher — обработчик gin за версионированным catch-all маршрутом.
type Dispatcher struct {
	resolver *Resolver
	logger   *logger.Logger
	tracer   trace.Tracer

	supportedHeader  string
	deprecatedHeader string
}

// NewDispatcher creates a new Dispatcher.
// NewDispatcher создаёт новый Dispatcher.
func NewDispatcher(resolver *Resolver, log *logger.Logger) *Dispatcher {
	versions := resolver.Versions()
	return &Dispatcher{
		resolver:         resolver,
		logger:           log.WithComponent("versioning"),
		tracer:           otel.Tracer(tracerName),
		supportedHeader:  strings.Join(versions.SupportedStrings(), ", "),
		deprecatedHeader: strings.Join(versions.DeprecatedStrings(), ", "),
	}
}

// Register mounts the dispatcher on {prefix}/*path for every method.
// Register подключает диспетчер к {prefix}/*path для всех методов.
//
// Paths gin cannot route to the catch-all (an empty prefix or a prefix in a
// different case) reach the dispatcher through NoRoute.
// Пути, которые gin не может направить в catch-all (пустой префикс или
// префикс в другом регистре), попадают в диспетчер через NoRoute.
func (d *Dispatcher) Register(router *gin.Engine) {
	if prefix := d.resolver.Prefix(); prefix != "" {
		router.Any(prefix+"/*path", d.Handle)
	}
	router.NoRoute(d.unmatched)
}

func (d *Dispatcher) unmatched(c *gin.Context) {
	if !d.resolver.Owns(c.Request.URL.Path) {
		response.NotFound(c, "route", c.Request.URL.Path)
		return
	}
	d.Handle(c)
}

// Handle resolves the request version and invokes the matching handler.
// Handle определяет версию запроса и вызывает подходящий обработчик.
func (d *Dispatcher) Handle(c *gin.Context) {
	ctx, span := d.tracer.Start(c.Request.Context(), "versioning.dispatch")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)
	if id := middleware.GetRequestID(c); id != "" {
		span.SetAttributes(telemetry.AttrRequestID.String(id))
	}

	c.Header(HeaderSupportedVersions, d.supportedHeader)
	if d.deprecatedHeader != "" {
		c.Header(HeaderDeprecatedVersions, d.deprecatedHeader)
	}

	method := c.Request.Method
	path := c.Request.URL.Path

	res, err := d.resolver.Resolve(method, path)
	if err != nil {
		d.fail(c, span, method, path, err)
		return
	}

	version := res.Version.String()
	outcome := res.Outcome()

	span.SetAttributes(
		telemetry.AttrAPIVersion.String(version),
		telemetry.AttrDeprecated.Bool(res.Deprecated),
		telemetry.AttrOutcome.String(outcome),
		telemetry.AttrRoute.String(res.Entry.Template),
	)
	middleware.RecordVersionResolution(version, outcome)
	d.logger.WithContext(ctx).LogVersionResolution(method, path, version, outcome, res.Deprecated)

	if res.Deprecated {
		c.Header(HeaderDeprecation, "true")
		middleware.RecordDeprecatedVersionUse(version)
	}

	c.Set(middleware.RouteTemplateKey, d.resolver.Prefix()+"/v{version}"+res.Entry.Template)
	c.Set(ContextKeyVersion, res.Version)
	c.Set(ContextKeyDeprecated, res.Deprecated)
	c.Params = append(c.Params, res.Params...)
	c.Request = c.Request.WithContext(logger.WithAPIVersionContext(ctx, version))

	res.Entry.Handler(c)
}

func (d *Dispatcher) fail(c *gin.Context, span trace.Span, method, path string, err error) {
	appErr := apperror.FromError(err)

	var version, outcome string
	switch appErr.Code {
	case apperror.CodeMalformedVersion:
		version, outcome = "invalid", OutcomeMalformed
	case apperror.CodeUnsupportedVersion:
		version, outcome = "other", OutcomeUnsupported
	default:
		if v, ok := appErr.Details["version"].(string); ok {
			version = v
		}
		outcome = OutcomeNotFound
	}

	span.SetAttributes(telemetry.AttrOutcome.String(outcome))
	span.SetStatus(codes.Error, appErr.Message)

	middleware.RecordVersionResolution(version, outcome)
	d.logger.WithContext(c.Request.Context()).LogVersionResolution(method, path, version, outcome, false)

	response.Error(c, appErr)
}

// VersionFromContext returns the version a request was resolved to.
// VersionFromContext возвращает версию, к которой был разрешён запрос.
func VersionFromContext(c *gin.Context) (domain.Version, bool) {
	if v, exists := c.Get(ContextKeyVersion); exists {
		if version, ok := v.(domain.Version); ok {
			return version, true
		}
	}
	return domain.Version{}, false
}

// IsDeprecated reports whether the request was resolved to a deprecated version.
// IsDeprecated сообщает, разрешён ли запрос к устаревшей версии.
func IsDeprecated(c *gin.Context) bool {
	return c.GetBool(ContextKeyDeprecated)
}
