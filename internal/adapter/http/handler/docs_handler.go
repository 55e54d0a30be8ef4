package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andrewhigh08/weather-api/internal/adapter/http/response"
	"github.com/andrewhigh08/weather-api/internal/adapter/http/versioning"
	"github.com/andrewhigh08/weather-api/internal/pkg/telemetry"
)

// DocsHandler serves the per-version documentation manifests.
// DocsHandler обслуживает манифесты документации по версиям.
type DocsHandler struct {
	docs *versioning.Generator
}

// NewDocsHandler creates a new DocsHandler instance.
// NewDocsHandler создаёт новый экземпляр DocsHandler.
func NewDocsHandler(docs *versioning.Generator) *DocsHandler {
	return &DocsHandler{docs: docs}
}

// DocGroup describes a documentation group and where to fetch it.
// DocGroup описывает группу документации и адреса для её получения.
type DocGroup struct {
	versioning.Group
	ManifestURL string `json:"manifestUrl" example:"/docs/v1/manifest.json"`
	SwaggerURL  string `json:"swaggerUrl" example:"/swagger/v1/index.html"`
}

// List handles GET /docs.
// List обрабатывает GET /docs.
// @Summary Documentation groups
// @Tags docs
// @Produce json
// @Success 200 {object} response.APIResponse{data=[]DocGroup}
// @Router /docs [get]
func (h *DocsHandler) List(c *gin.Context) {
	groups := h.docs.Groups()
	out := make([]DocGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, DocGroup{
			Group:       g,
			ManifestURL: "/docs/" + g.Name + "/manifest.json",
			SwaggerURL:  "/swagger/" + g.Name + "/index.html",
		})
	}
	response.Success(c, out)
}

// Manifest handles GET /docs/{groupName}/manifest.json.
// Manifest обрабатывает GET /docs/{groupName}/manifest.json.
// @Summary OpenAPI document of one API version
// @Tags docs
// @Produce json
// @Param group path string true "Group name, e.g. v1"
// @Success 200 {object} object
// @Failure 404 {object} response.APIResponse
// @Router /docs/{group}/manifest.json [get]
func (h *DocsHandler) Manifest(c *gin.Context) {
	group := c.Param("group")
	telemetry.AddSpanAttributes(c.Request.Context(), telemetry.AttrDocGroup.String(group))

	data, err := h.docs.DocumentJSON(group)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// RegisterDocs registers the documentation routes.
// RegisterDocs регистрирует маршруты документации.
func RegisterDocs(router gin.IRoutes, docs *versioning.Generator) {
	h := NewDocsHandler(docs)
	router.GET("/docs", h.List)
	router.GET("/docs/:group/manifest.json", h.Manifest)
}
