package versioning

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andrewhigh08/weather-api/internal/domain"
	"github.com/andrewhigh08/weather-api/internal/pkg/apperror"
)

// Resolution outcomes, used as log and metric labels.
// Результаты определения версии, используются как метки логов и метрик.
const (
	OutcomeMatched     = "matched"
	OutcomeFallback    = "fallback"
	OutcomeMalformed   = "malformed"
	OutcomeUnsupported = "unsupported"
	OutcomeNotFound    = "not_found"
)

// Resolution is the result of resolving a versioned request.
// Resolution — результат определения версии запроса.
type Resolution struct {
	Version    domain.Version
	Deprecated bool
	Entry      *RouteEntry
	Params     gin.Params
	Path       string // Path after the version segment / Путь после сегмента версии
	Fallback   bool   // Served by an unversioned entry / Обслужен неверсионированной записью
}

// Outcome returns the resolution outcome label.
// Outcome возвращает метку результата определения версии.
func (r *Resolution) Outcome() string {
	if r.Fallback {
		return OutcomeFallback
	}
	return OutcomeMatched
}

// Resolver maps /{prefix}/v{version}/... requests to route entries.
// Resolver сопоставляет запросы /{prefix}/v{version}/... с записями маршрутов.
type Resolver struct {
	prefix   string
	versions *domain.VersionSet
	table    *RouteTable
}

// NewResolver creates a Resolver and freezes the route table.
// NewResolver создаёт Resolver и замораживает таблицу маршрутов.
func NewResolver(prefix string, versions *domain.VersionSet, table *RouteTable) *Resolver {
	table.Freeze()
	return &Resolver{
		prefix:   NormalizePrefix(prefix),
		versions: versions,
		table:    table,
	}
}

// NormalizePrefix returns prefix with one leading slash and no trailing slash.
// NormalizePrefix возвращает префикс с одним ведущим слешем и без завершающего.
func NormalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}

// Prefix returns the normalized path prefix.
// Prefix возвращает нормализованный префикс пути.
func (r *Resolver) Prefix() string {
	return r.prefix
}

// Versions returns the version set the resolver checks against.
// Versions возвращает набор версий, по которому выполняется проверка.
func (r *Resolver) Versions() *domain.VersionSet {
	return r.versions
}

// Table returns the frozen route table.
// Table возвращает замороженную таблицу маршрутов.
func (r *Resolver) Table() *RouteTable {
	return r.table
}

// Owns reports whether path lies under the prefix, compared case-insensitively.
// Owns сообщает, находится ли путь под префиксом, без учёта регистра.
func (r *Resolver) Owns(path string) bool {
	if r.prefix == "" {
		return true
	}
	_, ok := cutPrefixFold(path, r.prefix)
	return ok
}

// Resolve parses the version segment of path and selects the route entry.
// Resolve разбирает сегмент версии пути и выбирает запись маршрута.
//
// Errors:
//   - MALFORMED_VERSION if the segment is missing or does not parse
//   - UNSUPPORTED_VERSION if the version is not supported, before any route matching
//   - ROUTE_NOT_FOUND if neither a version-specific nor an unversioned entry matches
func (r *Resolver) Resolve(method, path string) (*Resolution, error) {
	token, rest := r.splitVersion(path)

	v, err := parseVersionToken(token)
	if err != nil {
		return nil, apperror.MalformedVersion(token, r.versions.SupportedStrings()).WithError(err)
	}

	if !r.versions.IsSupported(v) {
		return nil, apperror.UnsupportedVersion(v.String(), r.versions.SupportedStrings())
	}

	entry, params, ok := r.table.Match(method, rest, v)
	if !ok {
		return nil, apperror.RouteNotFound(strings.ToUpper(method), rest, v.String())
	}

	return &Resolution{
		Version:    v,
		Deprecated: r.versions.IsDeprecated(v),
		Entry:      entry,
		Params:     params,
		Path:       rest,
		Fallback:   entry.Version == nil,
	}, nil
}

// splitVersion returns the version segment and the remaining path ("/" at least).
func (r *Resolver) splitVersion(path string) (string, string) {
	if r.prefix != "" {
		trimmed, ok := cutPrefixFold(path, r.prefix)
		if !ok {
			return "", path
		}
		path = trimmed
	}

	path = strings.TrimPrefix(path, "/")
	token, rest, _ := strings.Cut(path, "/")
	return token, "/" + rest
}

// parseVersionToken parses a "v1" or "V1.5" segment.
func parseVersionToken(token string) (domain.Version, error) {
	if len(token) < 2 || (token[0] != 'v' && token[0] != 'V') {
		return domain.Version{}, domain.ErrInvalidVersion
	}
	return domain.ParseVersion(token[1:])
}

// cutPrefixFold cuts prefix from path case-insensitively, on a segment boundary.
func cutPrefixFold(path, prefix string) (string, bool) {
	if len(path) < len(prefix) || !strings.EqualFold(path[:len(prefix)], prefix) {
		return "", false
	}
	rest := path[len(prefix):]
	if rest != "" && rest[0] != '/' {
		return "", false
	}
	return rest, true
}
