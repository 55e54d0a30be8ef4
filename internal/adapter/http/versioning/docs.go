package versioning

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/patrickmn/go-cache"

	"github.com/andrewhigh08/weather-api/internal/adapter/http/middleware"
	"github.com/andrewhigh08/weather-api/internal/domain"
	"github.com/andrewhigh08/weather-api/internal/pkg/apperror"
	"github.com/andrewhigh08/weather-api/internal/pkg/logger"
)

const (
	openAPIVersion        = "3.0.3"
	deprecatedDescription = "This API version has been deprecated."
	manifestCacheName     = "manifest"
)

// DocInfo holds the document-wide metadata of generated manifests.
// DocInfo содержит общие метаданные генерируемых манифестов.
type DocInfo struct {
	Title       string
	Description string
}

// Group describes one documentation group (one supported version).
// Group описывает одну группу документации (одну поддерживаемую версию).
type Group struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	Deprecated bool   `json:"deprecated"`
}

// Manifest is the set of routes visible under one version.
// Manifest — набор маршрутов, видимых в одной версии.
type Manifest struct {
	GroupName  string
	Version    domain.Version
	Deprecated bool
	Routes     []*RouteEntry
}

// Generator builds per-version documentation from a frozen route table.
// Generator строит документацию по версиям из замороженной таблицы маршрутов.
//
// Rendered documents are memoised; the table cannot change after Freeze.
// Сформированные документы кэшируются; таблица не меняется после Freeze.
type Generator struct {
	table    *RouteTable
	versions *domain.VersionSet
	prefix   string
	info     DocInfo
	rendered *cache.Cache
	logger   *logger.Logger
}

// NewGenerator creates a documentation generator for the resolver's table and versions.
// NewGenerator создаёт генератор документации для таблицы и версий резолвера.
func NewGenerator(resolver *Resolver, info DocInfo, log *logger.Logger) *Generator {
	return &Generator{
		table:    resolver.Table(),
		versions: resolver.Versions(),
		prefix:   resolver.Prefix(),
		info:     info,
		rendered: cache.New(cache.NoExpiration, 0),
		logger:   log.WithComponent("docs"),
	}
}

// Groups returns one group per supported version, in version order.
// Groups возвращает по одной группе на поддерживаемую версию в порядке версий.
func (g *Generator) Groups() []Group {
	supported := g.versions.Supported()
	groups := make([]Group, 0, len(supported))
	for _, v := range supported {
		groups = append(groups, Group{
			Name:       v.GroupName(),
			Version:    v.String(),
			Deprecated: g.versions.IsDeprecated(v),
		})
	}
	return groups
}

// Manifest returns the routes visible under v.
// Manifest возвращает маршруты, видимые в версии v.
func (g *Generator) Manifest(v domain.Version) Manifest {
	return Manifest{
		GroupName:  v.GroupName(),
		Version:    v,
		Deprecated: g.versions.IsDeprecated(v),
		Routes:     g.table.VisibleTo(v),
	}
}

// ManifestByGroup returns the manifest of a group name such as "v1".
// ManifestByGroup возвращает манифест по имени группы, например "v1".
func (g *Generator) ManifestByGroup(group string) (Manifest, error) {
	v, ok := g.lookupGroup(group)
	if !ok {
		return Manifest{}, apperror.NotFound("documentation group", group)
	}
	return g.Manifest(v), nil
}

func (g *Generator) lookupGroup(group string) (domain.Version, bool) {
	for _, v := range g.versions.Supported() {
		if strings.EqualFold(v.GroupName(), group) {
			return v, true
		}
	}
	return domain.Version{}, false
}

// Document builds the OpenAPI 3 document of a group.
// Document строит документ OpenAPI 3 для группы.
func (g *Generator) Document(group string) (*openapi3.T, error) {
	m, err := g.ManifestByGroup(group)
	if err != nil {
		return nil, err
	}
	return g.build(m), nil
}

// DocumentJSON returns the rendered OpenAPI 3 document of a group.
// DocumentJSON возвращает сформированный документ OpenAPI 3 группы.
func (g *Generator) DocumentJSON(group string) ([]byte, error) {
	start := time.Now()
	key := strings.ToLower(group)

	if cached, found := g.rendered.Get(key); found {
		g.logger.LogCacheOperation("get", manifestCacheName+":"+key, true, time.Since(start))
		middleware.RecordCacheHit(manifestCacheName, true)
		return cached.([]byte), nil
	}
	middleware.RecordCacheHit(manifestCacheName, false)

	doc, err := g.Document(group)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, apperror.Internal("failed to render documentation", err)
	}

	g.rendered.Set(key, data, cache.NoExpiration)
	g.logger.LogCacheOperation("set", manifestCacheName+":"+key, false, time.Since(start))

	return data, nil
}

// Warm renders every group's document ahead of the first request.
// Warm формирует документы всех групп до первого запроса.
func (g *Generator) Warm() error {
	for _, group := range g.Groups() {
		if _, err := g.DocumentJSON(group.Name); err != nil {
			return fmt.Errorf("render %s: %w", group.Name, err)
		}
	}
	g.logger.Info("documentation manifests rendered", "groups", len(g.versions.Supported()))
	return nil
}

func (g *Generator) build(m Manifest) *openapi3.T {
	description := g.info.Description
	if m.Deprecated {
		description = strings.TrimSpace(description + " " + deprecatedDescription)
	}

	doc := &openapi3.T{
		OpenAPI: openAPIVersion,
		Info: &openapi3.Info{
			Title:       fmt.Sprintf("%s %s", g.info.Title, m.GroupName),
			Version:     m.Version.String(),
			Description: description,
		},
		Servers: openapi3.Servers{
			{URL: g.prefix + "/" + m.GroupName},
		},
		Paths: openapi3.NewPaths(),
	}

	// A path item holds one operation per method; the versioned entry wins.
	// Элемент пути содержит одну операцию на метод; побеждает версионированная запись.
	for _, entry := range m.Routes {
		if shadowed(entry, m.Routes) {
			continue
		}
		item := doc.Paths.Value(entry.Template)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(entry.Template, item)
		}
		item.SetOperation(entry.Method, g.operation(entry, m))
	}

	return doc
}

func shadowed(entry *RouteEntry, routes []*RouteEntry) bool {
	for _, other := range routes {
		if other.Shadows(entry) {
			return true
		}
	}
	return false
}

func (g *Generator) operation(entry *RouteEntry, m Manifest) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.Summary = entry.Doc.Summary
	op.Description = entry.Doc.Description
	op.Tags = entry.Doc.Tags
	op.Deprecated = m.Deprecated
	op.OperationID = entry.Doc.OperationID
	if op.OperationID == "" {
		op.OperationID = operationID(entry)
	}

	for _, name := range entry.ParamNames() {
		op.AddParameter(openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema()))
	}
	for _, q := range entry.Doc.Query {
		op.AddParameter(queryParameter(q))
	}

	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("OK"),
		}),
		openapi3.WithStatus(http.StatusBadRequest, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Malformed or unsupported API version").
				WithJSONSchema(versionErrorSchema()),
		}),
		openapi3.WithStatus(http.StatusNotFound, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Route not found for this API version"),
		}),
	)

	return op
}

func queryParameter(q QueryParam) *openapi3.Parameter {
	var schema *openapi3.Schema
	if q.Type == "integer" {
		schema = openapi3.NewIntegerSchema()
	} else {
		schema = openapi3.NewStringSchema()
	}
	if q.Min != nil {
		schema = schema.WithMin(*q.Min)
	}
	if q.Max != nil {
		schema = schema.WithMax(*q.Max)
	}

	return openapi3.NewQueryParameter(q.Name).
		WithDescription(q.Description).
		WithRequired(q.Required).
		WithSchema(schema)
}

func versionErrorSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("availableVersions", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()))
}

// operationID derives an ID such as "getWeatherforecastByCity" from the entry.
func operationID(entry *RouteEntry) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(entry.Method))
	for _, s := range entry.segments {
		if s.param != "" {
			b.WriteString("By")
			b.WriteString(capitalize(s.param))
			continue
		}
		b.WriteString(capitalize(s.literal))
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
