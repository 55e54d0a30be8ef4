// Package handler provides HTTP request handlers for the weather API.
// Пакет handler предоставляет обработчики HTTP запросов для weather API.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andrewhigh08/weather-api/internal/adapter/http/response"
	"github.com/andrewhigh08/weather-api/internal/adapter/http/versioning"
	"github.com/andrewhigh08/weather-api/internal/domain"
	"github.com/andrewhigh08/weather-api/internal/pkg/logger"
	"github.com/andrewhigh08/weather-api/internal/pkg/validator"
	"github.com/andrewhigh08/weather-api/internal/port"
)

// ForecastHandler serves the weather forecast endpoints of every API version.
// ForecastHandler обслуживает эндпоинты прогноза погоды всех версий API.
type ForecastHandler struct {
	forecasts port.ForecastService // Forecast service / Сервис прогнозов
	logger    *logger.Logger       // Logger instance / Экземпляр логгера
	now       func() time.Time
}

// NewForecastHandler creates a new ForecastHandler instance.
// NewForecastHandler создаёт новый экземпляр ForecastHandler.
func NewForecastHandler(forecasts port.ForecastService, log *logger.Logger) *ForecastHandler {
	return &ForecastHandler{
		forecasts: forecasts,
		logger:    log.WithComponent("forecast_handler"),
		now:       time.Now,
	}
}

// ForecastV1 handles GET /api/v1/weatherforecast.
// ForecastV1 обрабатывает GET /api/v1/weatherforecast.
//
// Returns a bare JSON array of five daily forecasts starting tomorrow.
// Возвращает JSON массив из пяти прогнозов по дням, начиная с завтрашнего.
// @Summary Five-day forecast
// @Tags forecast
// @Produce json
// @Success 200 {array} domain.WeatherForecast
// @Failure 400 {object} response.VersionErrorBody
// @Router /api/v1/weatherforecast [get]
func (h *ForecastHandler) ForecastV1(c *gin.Context) {
	forecasts, err := h.forecasts.Forecast(c.Request.Context(), port.ForecastRequest{})
	if err != nil {
		h.logger.WithContext(c.Request.Context()).WithError(err).Error("forecast generation failed")
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, forecasts)
}

// ForecastV2 handles GET /api/v2/weatherforecast.
// ForecastV2 обрабатывает GET /api/v2/weatherforecast.
// @Summary Forecast for a number of days
// @Tags forecast
// @Produce json
// @Param days query int false "Number of days (1-14)" default(5)
// @Success 200 {object} response.APIResponse{data=domain.ForecastReport,meta=response.Meta}
// @Failure 400 {object} response.APIResponse
// @Router /api/v2/weatherforecast [get]
func (h *ForecastHandler) ForecastV2(c *gin.Context) {
	var query domain.ForecastQuery
	if !bindQuery(c, &query) {
		return
	}

	h.detailed(c, port.ForecastRequest{Days: query.Days})
}

// CityForecastV2 handles GET /api/v2/weatherforecast/{city}.
// CityForecastV2 обрабатывает GET /api/v2/weatherforecast/{city}.
// @Summary Forecast for a city
// @Tags forecast
// @Produce json
// @Param city path string true "City name"
// @Param days query int false "Number of days (1-14)" default(5)
// @Success 200 {object} response.APIResponse{data=domain.ForecastReport,meta=response.Meta}
// @Failure 400 {object} response.APIResponse
// @Router /api/v2/weatherforecast/{city} [get]
func (h *ForecastHandler) CityForecastV2(c *gin.Context) {
	var params domain.CityParams
	if err := c.ShouldBindUri(&params); err != nil {
		validationFailed(c, "invalid city", err)
		return
	}

	var query domain.ForecastQuery
	if !bindQuery(c, &query) {
		return
	}

	h.detailed(c, port.ForecastRequest{Days: query.Days, City: params.City})
}

func (h *ForecastHandler) detailed(c *gin.Context, req port.ForecastRequest) {
	forecasts, err := h.forecasts.DetailedForecast(c.Request.Context(), req)
	if err != nil {
		h.logger.WithContext(c.Request.Context()).WithError(err).Error("forecast generation failed")
		response.Error(c, err)
		return
	}

	version, _ := versioning.VersionFromContext(c)
	response.SuccessWithMeta(c, domain.ForecastReport{
		Version:     version.String(),
		City:        req.City,
		GeneratedAt: h.now().UTC(),
		Forecasts:   forecasts,
	}, versionMeta(c))
}

func bindQuery(c *gin.Context, query *domain.ForecastQuery) bool {
	if err := c.ShouldBindQuery(query); err != nil {
		validationFailed(c, "invalid query parameters", err)
		return false
	}
	return true
}

// validationFailed writes field-level messages, or a plain bad request when
// the input could not be decoded at all.
func validationFailed(c *gin.Context, message string, err error) {
	details := validator.FormatValidationErrors(err)
	if len(details) == 0 {
		response.BadRequest(c, message)
		return
	}
	response.ValidationError(c, message, details.Details())
}

// versionMeta builds response metadata from the resolved request version.
// versionMeta формирует метаданные ответа по определённой версии запроса.
func versionMeta(c *gin.Context) *response.Meta {
	version, ok := versioning.VersionFromContext(c)
	if !ok {
		return nil
	}
	return &response.Meta{
		APIVersion: version.String(),
		Deprecated: versioning.IsDeprecated(c),
	}
}
