package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/andrewhigh08/weather-api/internal/adapter/http/response"
	"github.com/andrewhigh08/weather-api/internal/adapter/http/versioning"
	"github.com/andrewhigh08/weather-api/internal/domain"
)

// StatusHandler serves version discovery and the version-agnostic status endpoint.
// StatusHandler обслуживает обнаружение версий и эндпоинт статуса, не зависящий от версии.
type StatusHandler struct {
	versions *domain.VersionSet
}

// NewStatusHandler creates a new StatusHandler instance.
// NewStatusHandler создаёт новый экземпляр StatusHandler.
func NewStatusHandler(versions *domain.VersionSet) *StatusHandler {
	return &StatusHandler{versions: versions}
}

// Status handles GET /api/v{version}/status for every supported version.
// Status обрабатывает GET /api/v{version}/status для всех поддерживаемых версий.
// @Summary API status under the requested version
// @Tags status
// @Produce json
// @Param version path string true "API version"
// @Success 200 {object} response.APIResponse{data=domain.StatusResponse,meta=response.Meta}
// @Failure 400 {object} response.VersionErrorBody
// @Router /api/v{version}/status [get]
func (h *StatusHandler) Status(c *gin.Context) {
	version, _ := versioning.VersionFromContext(c)

	response.SuccessWithMeta(c, domain.StatusResponse{
		Status:            "ok",
		RequestedVersion:  version.String(),
		Deprecated:        versioning.IsDeprecated(c),
		SupportedVersions: h.versions.SupportedStrings(),
	}, versionMeta(c))
}

// Versions handles GET /versions.
// Versions обрабатывает GET /versions.
// @Summary Supported API versions
// @Tags status
// @Produce json
// @Success 200 {object} response.APIResponse{data=domain.VersionsResponse}
// @Router /versions [get]
func (h *StatusHandler) Versions(c *gin.Context) {
	response.Success(c, domain.VersionsResponse{
		Versions:   h.versions.SupportedStrings(),
		Deprecated: h.versions.DeprecatedStrings(),
		Default:    h.versions.Default().String(),
		Latest:     h.versions.Latest().String(),
	})
}
