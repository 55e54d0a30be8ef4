// Package service contains the business logic layer of the application.
// Пакет service содержит слой бизнес-логики приложения.
package service

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/andrewhigh08/weather-api/internal/domain"
	"github.com/andrewhigh08/weather-api/internal/pkg/apperror"
	"github.com/andrewhigh08/weather-api/internal/pkg/logger"
	"github.com/andrewhigh08/weather-api/internal/pkg/telemetry"
	"github.com/andrewhigh08/weather-api/internal/port"
)

// ForecastService implements port.ForecastService with random weather.
// ForecastService реализует интерфейс port.ForecastService со случайной погодой.
type ForecastService struct {
	mu     sync.Mutex       // Guards rng / Защищает rng
	rng    *rand.Rand       // Random source / Источник случайности
	now    func() time.Time // Clock / Часы
	logger *logger.Logger   // Logger instance / Экземпляр логгера
}

// ForecastOption configures a ForecastService.
// ForecastOption настраивает ForecastService.
type ForecastOption func(*ForecastService)

// WithRand sets the random source.
// WithRand задаёт источник случайности.
func WithRand(rng *rand.Rand) ForecastOption {
	return func(s *ForecastService) {
		s.rng = rng
	}
}

// WithClock sets the function returning the current time.
// WithClock задаёт функцию, возвращающую текущее время.
func WithClock(now func() time.Time) ForecastOption {
	return func(s *ForecastService) {
		s.now = now
	}
}

// NewForecastService creates a new ForecastService instance.
// NewForecastService создаёт новый экземпляр ForecastService.
func NewForecastService(log *logger.Logger, opts ...ForecastOption) *ForecastService {
	s := &ForecastService{
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec // weather is not a secret
		now:    time.Now,
		logger: log.WithComponent("forecast_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Forecast returns daily forecasts starting tomorrow.
// Forecast возвращает прогнозы по дням, начиная с завтрашнего.
func (s *ForecastService) Forecast(ctx context.Context, req port.ForecastRequest) ([]domain.WeatherForecast, error) {
	days, err := s.days(ctx, req)
	if err != nil {
		return nil, err
	}

	traceRequest(ctx, days, req.City)
	today := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	forecasts := make([]domain.WeatherForecast, days)
	for i := range forecasts {
		forecasts[i] = s.dayForecast(today.AddDate(0, 0, i+1))
	}

	return forecasts, nil
}

// DetailedForecast returns daily forecasts with precipitation chance.
// DetailedForecast возвращает прогнозы по дням с вероятностью осадков.
func (s *ForecastService) DetailedForecast(ctx context.Context, req port.ForecastRequest) ([]domain.DetailedForecast, error) {
	days, err := s.days(ctx, req)
	if err != nil {
		return nil, err
	}

	traceRequest(ctx, days, req.City)
	today := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	forecasts := make([]domain.DetailedForecast, days)
	for i := range forecasts {
		forecasts[i] = domain.DetailedForecast{
			WeatherForecast:     s.dayForecast(today.AddDate(0, 0, i+1)),
			PrecipitationChance: s.rng.IntN(101),
		}
	}

	s.logger.WithContext(ctx).Debug("detailed forecast generated", "days", days, "city", req.City)

	return forecasts, nil
}

func (s *ForecastService) days(ctx context.Context, req port.ForecastRequest) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	switch {
	case req.Days == 0:
		return domain.DefaultForecastDays, nil
	case req.Days < 1 || req.Days > domain.MaxForecastDays:
		return 0, apperror.ValidationError("invalid forecast length", map[string]interface{}{
			"days": "Must be between 1 and 14",
		})
	default:
		return req.Days, nil
	}
}

func traceRequest(ctx context.Context, days int, city string) {
	telemetry.AddSpanAttributes(ctx, telemetry.AttrForecastDays.Int(days))
	if city != "" {
		telemetry.AddSpanAttributes(ctx, telemetry.AttrForecastCity.String(city))
	}
}

// dayForecast must be called with mu held.
func (s *ForecastService) dayForecast(day time.Time) domain.WeatherForecast {
	temperatureC := domain.MinTemperatureC + s.rng.IntN(domain.MaxTemperatureC-domain.MinTemperatureC)
	summary := domain.Summaries[s.rng.IntN(len(domain.Summaries))]
	return domain.NewWeatherForecast(day, temperatureC, summary)
}

// Ensure interface compliance. / Проверка соответствия интерфейсу.
var _ port.ForecastService = (*ForecastService)(nil)
