// Package versioning implements URL-segment API versioning on top of gin.
// Пакет versioning реализует версионирование API через сегмент URL поверх gin.
//
// Routes are registered into a RouteTable during startup, each bound to one
// version or to none (nil), in which case it serves every supported version
// that has no dedicated entry. A Resolver parses /api/v{version}/... paths,
// the Dispatcher invokes the selected handler, and the Generator renders one
// documentation manifest per supported version.
// Маршруты регистрируются в RouteTable при запуске, каждый привязан к одной
// версии или ни к одной (nil); во втором случае он обслуживает все
// поддерживаемые версии без собственной записи. Resolver разбирает пути
// /api/v{version}/..., Dispatcher вызывает выбранный обработчик, а Generator
// строит манифест документации для каждой поддерживаемой версии.
package versioning

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andrewhigh08/weather-api/internal/domain"
	"github.com/andrewhigh08/weather-api/internal/pkg/apperror"
)

// QueryParam documents a query string parameter of a route.
// QueryParam описывает параметр строки запроса маршрута.
type QueryParam struct {
	Name        string
	Description string
	Type        string // "string" or "integer" / "string" или "integer"
	Required    bool
	Min, Max    *float64
}

// RouteDoc holds the documentation metadata of a route.
// RouteDoc содержит метаданные документации маршрута.
type RouteDoc struct {
	OperationID string
	Summary     string
	Description string
	Tags        []string
	Query       []QueryParam
}

// RouteOption configures the documentation of a registered route.
// RouteOption настраивает документацию регистрируемого маршрута.
type RouteOption func(*RouteDoc)

// WithSummary sets the operation summary.
// WithSummary задаёт краткое описание операции.
func WithSummary(summary string) RouteOption {
	return func(d *RouteDoc) { d.Summary = summary }
}

// WithDescription sets the operation description.
// WithDescription задаёт описание операции.
func WithDescription(description string) RouteOption {
	return func(d *RouteDoc) { d.Description = description }
}

// WithOperationID sets the operation ID.
// WithOperationID задаёт идентификатор операции.
func WithOperationID(id string) RouteOption {
	return func(d *RouteDoc) { d.OperationID = id }
}

// WithTags sets the operation tags.
// WithTags задаёт теги операции.
func WithTags(tags ...string) RouteOption {
	return func(d *RouteDoc) { d.Tags = append(d.Tags, tags...) }
}

// WithQueryParam documents a query parameter.
// WithQueryParam описывает параметр строки запроса.
func WithQueryParam(p QueryParam) RouteOption {
	return func(d *RouteDoc) { d.Query = append(d.Query, p) }
}

// segment is one parsed piece of a path template.
type segment struct {
	literal string // Literal text, empty for a parameter / Литерал, пусто для параметра
	param   string // Parameter name / Имя параметра
}

// RouteEntry binds a path template and method to a handler for one version or all.
// RouteEntry связывает шаблон пути и метод с обработчиком для одной версии или всех.
type RouteEntry struct {
	Template string          // e.g. "/weatherforecast/{city}" / например "/weatherforecast/{city}"
	Method   string          // Upper-case HTTP method / HTTP метод в верхнем регистре
	Version  *domain.Version // nil serves every supported version / nil обслуживает все версии
	Handler  gin.HandlerFunc
	Doc      RouteDoc

	segments []segment
	literals int
}

// VersionString returns the bound version, or "" for an unversioned entry.
// VersionString возвращает привязанную версию или "" для неверсионированной записи.
func (e *RouteEntry) VersionString() string {
	if e.Version == nil {
		return ""
	}
	return e.Version.String()
}

// ParamNames returns the names of the template's path parameters in order.
// ParamNames возвращает имена параметров пути шаблона по порядку.
func (e *RouteEntry) ParamNames() []string {
	names := make([]string, 0, len(e.segments)-e.literals)
	for _, s := range e.segments {
		if s.param != "" {
			names = append(names, s.param)
		}
	}
	return names
}

// match reports whether parts fit the template and extracts path parameters.
func (e *RouteEntry) match(parts []string) (gin.Params, bool) {
	if len(parts) != len(e.segments) {
		return nil, false
	}

	var params gin.Params
	for i, s := range e.segments {
		if s.param != "" {
			params = append(params, gin.Param{Key: s.param, Value: parts[i]})
			continue
		}
		if !strings.EqualFold(s.literal, parts[i]) {
			return nil, false
		}
	}

	return params, true
}

// shape is the template with parameter names erased; "/a/{x}" and "/a/{y}" share a shape.
func (e *RouteEntry) shape() string {
	var b strings.Builder
	for _, s := range e.segments {
		b.WriteByte('/')
		if s.param != "" {
			b.WriteString("{}")
		} else {
			b.WriteString(strings.ToLower(s.literal))
		}
	}
	return b.String()
}

func (e *RouteEntry) key() string {
	version := "*"
	if e.Version != nil {
		version = e.Version.String()
	}
	return e.Method + " " + e.shape() + " @" + version
}

// RouteTable is the ordered set of versioned routes.
// RouteTable — упорядоченный набор версионированных маршрутов.
//
// Registration is single-threaded and happens before serving; after Freeze
// the table is read-only and safe for concurrent use without locks.
// Регистрация выполняется в одном потоке до начала обслуживания; после
// Freeze таблица доступна только для чтения и безопасна для параллельного
// использования без блокировок.
type RouteTable struct {
	entries []*RouteEntry
	keys    map[string]*RouteEntry
	frozen  bool
}

// NewRouteTable creates an empty RouteTable.
// NewRouteTable создаёт пустую RouteTable.
func NewRouteTable() *RouteTable {
	return &RouteTable{keys: make(map[string]*RouteEntry)}
}

// Register adds a route. A nil version registers the unversioned fallback.
// Register добавляет маршрут. Версия nil регистрирует неверсионированный маршрут.
//
// It fails with a configuration error when the table is frozen, the template
// or method is invalid, or an entry with the same template, method and
// version already exists.
// Возвращает ошибку конфигурации, если таблица заморожена, шаблон или метод
// некорректны, либо запись с тем же шаблоном, методом и версией уже есть.
func (t *RouteTable) Register(template, method string, version *domain.Version, handler gin.HandlerFunc, opts ...RouteOption) error {
	if t.frozen {
		return apperror.Configuration("route %s %s registered after the route table was frozen", method, template)
	}
	if handler == nil {
		return apperror.Configuration("route %s %s has no handler", method, template)
	}

	method = strings.ToUpper(method)
	if !isKnownMethod(method) {
		return apperror.Configuration("route %s %s uses an unknown HTTP method", method, template)
	}

	segments, literals, err := parseTemplate(template)
	if err != nil {
		return err
	}

	entry := &RouteEntry{
		Template: "/" + strings.Join(templateParts(segments), "/"),
		Method:   method,
		Handler:  handler,
		segments: segments,
		literals: literals,
	}
	if version != nil {
		v := *version
		entry.Version = &v
	}
	for _, opt := range opts {
		opt(&entry.Doc)
	}

	key := entry.key()
	if existing, ok := t.keys[key]; ok {
		return apperror.Configuration("duplicate route %s %s for version %s: conflicts with %s %s",
			method, entry.Template, versionLabel(entry.Version), existing.Method, existing.Template)
	}

	t.keys[key] = entry
	t.entries = append(t.entries, entry)
	return nil
}

// MustRegister is like Register but panics on error.
// MustRegister аналогична Register, но паникует при ошибке.
func (t *RouteTable) MustRegister(template, method string, version *domain.Version, handler gin.HandlerFunc, opts ...RouteOption) {
	if err := t.Register(template, method, version, handler, opts...); err != nil {
		panic(err)
	}
}

// Freeze ends the configuration phase. It is idempotent.
// Freeze завершает фазу конфигурации. Повторный вызов безопасен.
func (t *RouteTable) Freeze() {
	t.frozen = true
}

// Frozen reports whether Freeze has been called.
// Frozen сообщает, был ли вызван Freeze.
func (t *RouteTable) Frozen() bool {
	return t.frozen
}

// Entries returns the entries in registration order.
// Entries возвращает записи в порядке регистрации.
func (t *RouteTable) Entries() []*RouteEntry {
	return slices.Clone(t.entries)
}

// Len returns the number of registered entries.
// Len возвращает количество зарегистрированных записей.
func (t *RouteTable) Len() int {
	return len(t.entries)
}

// Match finds the entry serving method and path under version v.
// Match находит запись, обслуживающую метод и путь для версии v.
//
// Entries bound to v are preferred; unversioned entries are the fallback.
// Within a pass the template with more literal segments wins, then the
// earlier registration. A HEAD request without a HEAD entry is served by
// the GET entry.
// Предпочтение отдаётся записям, привязанным к v; неверсионированные записи —
// запасной вариант. Внутри прохода побеждает шаблон с большим числом
// литеральных сегментов, затем более ранняя регистрация. HEAD запрос без
// HEAD записи обслуживается GET записью.
func (t *RouteTable) Match(method, path string, v domain.Version) (*RouteEntry, gin.Params, bool) {
	method = strings.ToUpper(method)
	parts := splitPath(path)

	if entry, params, ok := t.matchMethod(method, parts, v); ok {
		return entry, params, true
	}
	if method == http.MethodHead {
		return t.matchMethod(http.MethodGet, parts, v)
	}
	return nil, nil, false
}

func (t *RouteTable) matchMethod(method string, parts []string, v domain.Version) (*RouteEntry, gin.Params, bool) {

	if entry, params := t.bestMatch(method, parts, func(e *RouteEntry) bool {
		return e.Version != nil && *e.Version == v
	}); entry != nil {
		return entry, params, true
	}

	if entry, params := t.bestMatch(method, parts, func(e *RouteEntry) bool {
		return e.Version == nil
	}); entry != nil {
		return entry, params, true
	}

	return nil, nil, false
}

func (t *RouteTable) bestMatch(method string, parts []string, eligible func(*RouteEntry) bool) (*RouteEntry, gin.Params) {
	var (
		best       *RouteEntry
		bestParams gin.Params
	)
	for _, e := range t.entries {
		if e.Method != method || !eligible(e) {
			continue
		}
		params, ok := e.match(parts)
		if !ok {
			continue
		}
		if best == nil || e.literals > best.literals {
			best, bestParams = e, params
		}
	}
	return best, bestParams
}

// VisibleTo returns the entries bound to v or to no version, in registration
// order. An unversioned entry is listed even when a v-specific entry with the
// same method and shape takes precedence over it in Match.
// VisibleTo возвращает записи, привязанные к v или без версии, в порядке
// регистрации. Неверсионированная запись выводится, даже если в Match её
// перекрывает запись для v с тем же методом и формой.
func (t *RouteTable) VisibleTo(v domain.Version) []*RouteEntry {
	visible := make([]*RouteEntry, 0, len(t.entries))
	for _, e := range t.entries {
		if e.Version == nil || *e.Version == v {
			visible = append(visible, e)
		}
	}
	return visible
}

// Shadows reports whether e is a versioned entry that takes precedence over
// the unversioned entry other for the same method and shape.
// Shadows сообщает, перекрывает ли версионированная запись e
// неверсионированную запись other с тем же методом и формой.
func (e *RouteEntry) Shadows(other *RouteEntry) bool {
	return e.Version != nil && other.Version == nil &&
		e.Method == other.Method && e.shape() == other.shape()
}

func parseTemplate(template string) ([]segment, int, error) {
	if !strings.HasPrefix(template, "/") {
		return nil, 0, apperror.Configuration("route template %q must start with '/'", template)
	}

	parts := splitPath(template)
	segments := make([]segment, 0, len(parts))
	literals := 0
	seen := make(map[string]bool)

	for _, part := range parts {
		if part == "" {
			return nil, 0, apperror.Configuration("route template %q has an empty segment", template)
		}

		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := part[1 : len(part)-1]
			if !isIdentifier(name) {
				return nil, 0, apperror.Configuration("route template %q has an invalid parameter %q", template, part)
			}
			if seen[name] {
				return nil, 0, apperror.Configuration("route template %q repeats parameter %q", template, name)
			}
			seen[name] = true
			segments = append(segments, segment{param: name})
			continue
		}

		if strings.ContainsAny(part, "{}*:") {
			return nil, 0, apperror.Configuration("route template %q has an invalid segment %q", template, part)
		}
		segments = append(segments, segment{literal: part})
		literals++
	}

	return segments, literals, nil
}

func templateParts(segments []segment) []string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		if s.param != "" {
			parts[i] = "{" + s.param + "}"
		} else {
			parts[i] = s.literal
		}
	}
	return parts
}

// splitPath splits "/a/b/" into ["a", "b"]; the root path yields no parts.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func isKnownMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return true
	default:
		return false
	}
}

func versionLabel(v *domain.Version) string {
	if v == nil {
		return "(unversioned)"
	}
	return v.String()
}
