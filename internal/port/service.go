// Package port defines interfaces (ports) for the application's external dependencies.
// Пакет port определяет интерфейсы (порты) для внешних зависимостей приложения.
package port

import (
	"context"

	"github.com/andrewhigh08/weather-api/internal/domain"
)

// ForecastRequest carries the parameters of a forecast generation.
// ForecastRequest содержит параметры генерации прогноза.
type ForecastRequest struct {
	Days int    // Number of days, zero means the default / Количество дней, ноль означает значение по умолчанию
	City string // Optional city name / Необязательное название города
}

// ForecastService defines the interface for weather forecast generation.
// ForecastService определяет интерфейс для генерации прогноза погоды.
//
// Each API version renders the result in its own shape; the service itself
// is version-agnostic.
// Каждая версия API отображает результат в своём формате; сам сервис
// от версии не зависит.
type ForecastService interface {
	// Forecast returns daily forecasts starting tomorrow.
	// Forecast возвращает прогнозы по дням, начиная с завтрашнего.
	Forecast(ctx context.Context, req ForecastRequest) ([]domain.WeatherForecast, error)

	// DetailedForecast returns daily forecasts with precipitation chance.
	// DetailedForecast возвращает прогнозы по дням с вероятностью осадков.
	DetailedForecast(ctx context.Context, req ForecastRequest) ([]domain.DetailedForecast, error)
}
