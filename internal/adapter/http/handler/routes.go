package handler

import (
	"errors"
	"net/http"

	"github.com/andrewhigh08/weather-api/internal/adapter/http/versioning"
	"github.com/andrewhigh08/weather-api/internal/domain"
)

// Versions the forecast endpoints are bound to.
// Версии, к которым привязаны эндпоинты прогноза.
var (
	V1 = domain.NewVersion(1, 0)
	V2 = domain.NewVersion(2, 0)
)

// RegisterVersionedRoutes registers the versioned API into the route table.
// RegisterVersionedRoutes регистрирует версионированный API в таблице маршрутов.
//
// All registration errors are returned together so the operator sees every
// conflict at startup.
// Все ошибки регистрации возвращаются вместе, чтобы оператор увидел все
// конфликты при запуске.
func RegisterVersionedRoutes(table *versioning.RouteTable, forecasts *ForecastHandler, status *StatusHandler) error {
	days := versioning.QueryParam{
		Name:        "days",
		Description: "Number of days to forecast",
		Type:        "integer",
		Min:         floatPtr(1),
		Max:         floatPtr(domain.MaxForecastDays),
	}

	v1, v2 := V1, V2

	return errors.Join(
		table.Register("/weatherforecast", http.MethodGet, &v1, forecasts.ForecastV1,
			versioning.WithOperationID("getWeatherForecast"),
			versioning.WithSummary("Five-day weather forecast"),
			versioning.WithDescription("Returns five daily forecasts starting tomorrow."),
			versioning.WithTags("forecast"),
		),
		table.Register("/weatherforecast", http.MethodGet, &v2, forecasts.ForecastV2,
			versioning.WithOperationID("getWeatherForecast"),
			versioning.WithSummary("Weather forecast for a number of days"),
			versioning.WithDescription("Returns up to 14 daily forecasts with precipitation chance."),
			versioning.WithTags("forecast"),
			versioning.WithQueryParam(days),
		),
		table.Register("/weatherforecast/{city}", http.MethodGet, &v2, forecasts.CityForecastV2,
			versioning.WithOperationID("getCityWeatherForecast"),
			versioning.WithSummary("Weather forecast for a city"),
			versioning.WithTags("forecast"),
			versioning.WithQueryParam(days),
		),
		table.Register("/status", http.MethodGet, nil, status.Status,
			versioning.WithOperationID("getStatus"),
			versioning.WithSummary("Status under the requested API version"),
			versioning.WithTags("status"),
		),
	)
}

func floatPtr(f float64) *float64 {
	return &f
}
