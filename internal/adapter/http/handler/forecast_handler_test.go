package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/andrewhigh08/weather-api/internal/adapter/http/response"
	"github.com/andrewhigh08/weather-api/internal/adapter/http/versioning"
	"github.com/andrewhigh08/weather-api/internal/domain"
	"github.com/andrewhigh08/weather-api/internal/pkg/apperror"
	"github.com/andrewhigh08/weather-api/internal/pkg/logger"
	"github.com/andrewhigh08/weather-api/internal/pkg/validator"
	"github.com/andrewhigh08/weather-api/internal/port"
	"github.com/andrewhigh08/weather-api/test/mocks"
)

var generatedAt = time.Date(2025, 3, 30, 12, 0, 0, 0, time.UTC)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Output: io.Discard})
}

func testVersionSet(t *testing.T) *domain.VersionSet {
	t.Helper()

	set, err := domain.NewVersionSet([]domain.Version{V1, V2}, []domain.Version{V1}, V1)
	require.NoError(t, err)
	return set
}

// setupVersionedTest builds the versioned API the way main does, over a mocked service.
func setupVersionedTest(t *testing.T) (*mocks.MockForecastService, *gin.Engine) {
	t.Helper()
	require.NoError(t, validator.RegisterGinValidations())

	ctrl := gomock.NewController(t)
	mockForecasts := mocks.NewMockForecastService(ctrl)

	forecasts := NewForecastHandler(mockForecasts, testLogger())
	forecasts.now = func() time.Time { return generatedAt }
	versions := testVersionSet(t)

	table := versioning.NewRouteTable()
	require.NoError(t, RegisterVersionedRoutes(table, forecasts, NewStatusHandler(versions)))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	versioning.NewDispatcher(versioning.NewResolver("/api", versions, table), testLogger()).Register(router)

	return mockForecasts, router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sampleForecasts() []domain.WeatherForecast {
	return []domain.WeatherForecast{
		domain.NewWeatherForecast(generatedAt.AddDate(0, 0, 1), 20, "Mild"),
		domain.NewWeatherForecast(generatedAt.AddDate(0, 0, 2), -5, "Bracing"),
	}
}

func sampleDetailed() []domain.DetailedForecast {
	return []domain.DetailedForecast{
		{WeatherForecast: domain.NewWeatherForecast(generatedAt.AddDate(0, 0, 1), 30, "Hot"), PrecipitationChance: 40},
	}
}

type forecastReportResponse struct {
	Success bool                  `json:"success"`
	Data    domain.ForecastReport `json:"data"`
	Meta    response.Meta         `json:"meta"`
}

func TestForecastHandler_ForecastV1_ReturnsPlainArray(t *testing.T) {
	mockForecasts, router := setupVersionedTest(t)

	mockForecasts.EXPECT().
		Forecast(gomock.Any(), port.ForecastRequest{}).
		Return(sampleForecasts(), nil)

	w := get(router, "/api/v1/weatherforecast")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get(versioning.HeaderDeprecation))

	var forecasts []domain.WeatherForecast
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &forecasts))
	assert.Equal(t, sampleForecasts(), forecasts)
}

func TestForecastHandler_ForecastV1_ServiceError(t *testing.T) {
	mockForecasts, router := setupVersionedTest(t)

	mockForecasts.EXPECT().
		Forecast(gomock.Any(), gomock.Any()).
		Return(nil, apperror.Internal("generator failed", nil))

	w := get(router, "/api/v1/weatherforecast")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestForecastHandler_ForecastV2(t *testing.T) {
	tests := []struct {
		name string
		path string
		days int
	}{
		{"default days", "/api/v2/weatherforecast", 0},
		{"explicit days", "/api/v2/weatherforecast?days=14", 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockForecasts, router := setupVersionedTest(t)

			mockForecasts.EXPECT().
				DetailedForecast(gomock.Any(), port.ForecastRequest{Days: tt.days}).
				Return(sampleDetailed(), nil)

			w := get(router, tt.path)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Empty(t, w.Header().Get(versioning.HeaderDeprecation))

			var resp forecastReportResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.True(t, resp.Success)
			assert.Equal(t, "2", resp.Data.Version)
			assert.Empty(t, resp.Data.City)
			assert.Equal(t, generatedAt, resp.Data.GeneratedAt)
			assert.Equal(t, sampleDetailed(), resp.Data.Forecasts)
			assert.Equal(t, response.Meta{APIVersion: "2"}, resp.Meta)
		})
	}
}

func TestForecastHandler_ForecastV2_InvalidDays(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		code   string
		detail string
	}{
		{"too many", "days=15", apperror.CodeValidation, "Must be at most 14"},
		{"negative", "days=-1", apperror.CodeValidation, "Must be at least 1"},
		{"not a number", "days=abc", apperror.CodeBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, router := setupVersionedTest(t)

			w := get(router, "/api/v2/weatherforecast?"+tt.query)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp response.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			if tt.detail != "" {
				assert.Equal(t, tt.detail, resp.Error.Details["days"])
			}
		})
	}
}

func TestForecastHandler_CityForecastV2(t *testing.T) {
	mockForecasts, router := setupVersionedTest(t)

	mockForecasts.EXPECT().
		DetailedForecast(gomock.Any(), port.ForecastRequest{Days: 3, City: "Buenos Aires"}).
		Return(sampleDetailed(), nil)

	w := get(router, "/api/v2/weatherforecast/Buenos%20Aires?days=3")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp forecastReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Buenos Aires", resp.Data.City)
}

func TestForecastHandler_CityForecastV2_InvalidCity(t *testing.T) {
	_, router := setupVersionedTest(t)

	w := get(router, "/api/v2/weatherforecast/%3Cscript%3E")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apperror.CodeValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "city")
}

func TestForecastHandler_CityRouteIsV2Only(t *testing.T) {
	_, router := setupVersionedTest(t)

	w := get(router, "/api/v1/weatherforecast/London")

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apperror.CodeRouteNotFound, resp.Error.Code)
}

func TestForecastHandler_UnsupportedVersion(t *testing.T) {
	_, router := setupVersionedTest(t)

	w := get(router, "/api/v3/weatherforecast")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"the API version '3' is not supported","availableVersions":["1","2"]}`, w.Body.String())
}

func TestRegisterVersionedRoutes_Twice(t *testing.T) {
	forecasts := NewForecastHandler(nil, testLogger())
	status := NewStatusHandler(testVersionSet(t))
	table := versioning.NewRouteTable()

	require.NoError(t, RegisterVersionedRoutes(table, forecasts, status))
	err := RegisterVersionedRoutes(table, forecasts, status)

	assert.True(t, apperror.IsCode(err, apperror.CodeConfiguration))
	assert.Equal(t, 4, table.Len())
}
