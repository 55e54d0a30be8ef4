package versioning

import (
	"sync"

	"github.com/swaggo/swag"
)

// swag.Register panics when a name is registered twice, so each group name is
// registered once per process and later calls only rebind the generator.
var (
	swaggerMu   sync.Mutex
	swaggerDocs = make(map[string]*swaggerDoc)
)

// swaggerDoc implements swag.Swagger for one documentation group.
type swaggerDoc struct {
	mu    sync.RWMutex
	gen   *Generator
	group string
}

// ReadDoc returns the rendered OpenAPI document of the group.
// ReadDoc возвращает сформированный документ OpenAPI группы.
func (d *swaggerDoc) ReadDoc() string {
	d.mu.RLock()
	gen := d.gen
	d.mu.RUnlock()

	data, err := gen.DocumentJSON(d.group)
	if err != nil {
		gen.logger.Error("failed to render swagger document", "group", d.group, "error", err)
		return "{}"
	}
	return string(data)
}

// RegisterSwagger registers every documentation group as a swag instance named
// after the group, so Swagger UI can serve it with ginSwagger.InstanceName.
// RegisterSwagger регистрирует каждую группу документации как экземпляр swag с
// именем группы, чтобы Swagger UI отдавал её через ginSwagger.InstanceName.
func (g *Generator) RegisterSwagger() []string {
	swaggerMu.Lock()
	defer swaggerMu.Unlock()

	groups := g.Groups()
	names := make([]string, 0, len(groups))
	for _, group := range groups {
		if doc, ok := swaggerDocs[group.Name]; ok {
			doc.mu.Lock()
			doc.gen = g
			doc.mu.Unlock()
		} else {
			doc := &swaggerDoc{gen: g, group: group.Name}
			swaggerDocs[group.Name] = doc
			swag.Register(group.Name, doc)
		}
		names = append(names, group.Name)
	}
	return names
}
