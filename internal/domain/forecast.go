package domain

import "time"

// Forecast bounds.
// Границы прогноза.
const (
	MinTemperatureC = -20 // Inclusive lower bound / Нижняя граница (включительно)
	MaxTemperatureC = 55  // Exclusive upper bound / Верхняя граница (не включительно)

	DefaultForecastDays = 5  // v1 length and v2 default / Длина v1 и значение по умолчанию v2
	MaxForecastDays     = 14 // v2 maximum / Максимум v2

	// DateLayout is the wire format of forecast dates.
	// DateLayout — формат дат прогноза при передаче.
	DateLayout = "2006-01-02"
)

// Summaries lists the textual summaries a forecast can carry.
// Summaries перечисляет текстовые описания прогноза.
var Summaries = []string{
	"Freezing", "Bracing", "Chilly", "Cool", "Mild",
	"Warm", "Balmy", "Hot", "Sweltering", "Scorching",
}

// WeatherForecast is a single day forecast, the v1 resource.
// WeatherForecast — прогноз на один день, ресурс v1.
type WeatherForecast struct {
	Date         string `json:"date" example:"2025-01-02"` // Day in YYYY-MM-DD / День в формате YYYY-MM-DD
	TemperatureC int    `json:"temperatureC" example:"21"` // Celsius / Цельсий
	TemperatureF int    `json:"temperatureF" example:"69"` // Fahrenheit / Фаренгейт
	Summary      string `json:"summary" example:"Mild"`    // Summary / Описание
}

// NewWeatherForecast builds a forecast for day with Fahrenheit derived from Celsius.
// NewWeatherForecast строит прогноз на день, вычисляя Фаренгейт из Цельсия.
func NewWeatherForecast(day time.Time, temperatureC int, summary string) WeatherForecast {
	return WeatherForecast{
		Date:         day.Format(DateLayout),
		TemperatureC: temperatureC,
		TemperatureF: TemperatureF(temperatureC),
		Summary:      summary,
	}
}

// TemperatureF converts Celsius with the truncating 32 + C/0.5556 formula.
// TemperatureF переводит Цельсий по формуле 32 + C/0.5556 с отбрасыванием дробной части.
func TemperatureF(c int) int {
	return 32 + int(float64(c)/0.5556)
}

// DetailedForecast is the v2 resource, extended with precipitation chance.
// DetailedForecast — ресурс v2, дополненный вероятностью осадков.
type DetailedForecast struct {
	WeatherForecast
	PrecipitationChance int `json:"precipitationChance" example:"40"` // Percent 0..100 / Процент 0..100
}

// ForecastReport is the v2 response envelope.
// ForecastReport — конверт ответа v2.
type ForecastReport struct {
	Version     string             `json:"version" example:"2"`             // Served API version / Обслуженная версия API
	City        string             `json:"city,omitempty" example:"London"` // Requested city / Запрошенный город
	GeneratedAt time.Time          `json:"generatedAt"`                     // Generation time / Время генерации
	Forecasts   []DetailedForecast `json:"forecasts"`                       // Daily forecasts / Прогнозы по дням
}

// ForecastQuery holds the v2 query parameters.
// ForecastQuery содержит параметры запроса v2.
type ForecastQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=14" example:"7"` // Number of days / Количество дней
}

// CityParams holds the v2 city path parameter.
// CityParams содержит параметр пути города v2.
type CityParams struct {
	City string `uri:"city" binding:"required,max=64,cityname" example:"London"` // City name / Название города
}

// StatusResponse describes the version a request was served under.
// StatusResponse описывает версию, под которой был обслужен запрос.
type StatusResponse struct {
	Status            string   `json:"status" example:"ok"`
	RequestedVersion  string   `json:"requestedVersion" example:"1"`
	Deprecated        bool     `json:"deprecated"`
	SupportedVersions []string `json:"supportedVersions"`
}

// VersionsResponse is the discovery document of the API.
// VersionsResponse — документ обнаружения версий API.
type VersionsResponse struct {
	Versions   []string `json:"versions"`
	Deprecated []string `json:"deprecated"`
	Default    string   `json:"default" example:"1"`
	Latest     string   `json:"latest" example:"2"`
}
