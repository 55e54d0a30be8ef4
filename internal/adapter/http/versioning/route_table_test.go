package versioning

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewhigh08/weather-api/internal/domain"
	"github.com/andrewhigh08/weather-api/internal/pkg/apperror"
)

func ver(s string) *domain.Version {
	v := domain.MustParseVersion(s)
	return &v
}

// named returns a handler that answers with its name, so tests can tell which entry ran.
func named(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, name)
	}
}

func TestRouteTable_Register(t *testing.T) {
	table := NewRouteTable()

	require.NoError(t, table.Register("/forecast", http.MethodGet, ver("1"), named("v1")))
	require.NoError(t, table.Register("/forecast", http.MethodGet, ver("2"), named("v2")))
	require.NoError(t, table.Register("/forecast", http.MethodGet, nil, named("any")))
	require.NoError(t, table.Register("/forecast", http.MethodPost, ver("1"), named("post")))
	require.NoError(t, table.Register("/health", "get", nil, named("health")))

	entries := table.Entries()
	require.Len(t, entries, 5)
	assert.Equal(t, "v1", "v"+entries[0].VersionString())
	assert.Equal(t, "", entries[2].VersionString())
	assert.Equal(t, http.MethodGet, entries[4].Method)
	assert.Equal(t, "/health", entries[4].Template)
}

func TestRouteTable_Register_Duplicate(t *testing.T) {
	tests := []struct {
		name     string
		first    string
		second   string
		method   string
		version1 *domain.Version
		version2 *domain.Version
	}{
		{"same versioned triple", "/forecast", "/forecast", http.MethodGet, ver("1"), ver("1")},
		{"same unversioned triple", "/health", "/health", http.MethodGet, nil, nil},
		{"equal versions written differently", "/forecast", "/forecast", http.MethodGet, ver("1"), ver("1.0")},
		{"parameter names differ", "/forecast/{city}", "/forecast/{town}", http.MethodGet, ver("2"), ver("2")},
		{"literal case differs", "/Forecast", "/forecast", http.MethodGet, nil, nil},
		{"trailing slash", "/forecast/", "/forecast", http.MethodGet, ver("2"), ver("2")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewRouteTable()
			require.NoError(t, table.Register(tt.first, tt.method, tt.version1, named("first")))

			err := table.Register(tt.second, tt.method, tt.version2, named("second"))

			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, apperror.CodeConfiguration))
			assert.Equal(t, 1, table.Len())
		})
	}
}

func TestRouteTable_Register_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		template string
		method   string
		handler  gin.HandlerFunc
	}{
		{"no leading slash", "forecast", http.MethodGet, named("x")},
		{"empty segment", "/forecast//city", http.MethodGet, named("x")},
		{"empty parameter", "/forecast/{}", http.MethodGet, named("x")},
		{"bad parameter name", "/forecast/{1city}", http.MethodGet, named("x")},
		{"repeated parameter", "/{id}/{id}", http.MethodGet, named("x")},
		{"gin wildcard", "/forecast/*rest", http.MethodGet, named("x")},
		{"gin parameter", "/forecast/:city", http.MethodGet, named("x")},
		{"unknown method", "/forecast", "FETCH", named("x")},
		{"nil handler", "/forecast", http.MethodGet, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRouteTable().Register(tt.template, tt.method, nil, tt.handler)

			assert.True(t, apperror.IsCode(err, apperror.CodeConfiguration), "got %v", err)
		})
	}
}

func TestRouteTable_RegisterAfterFreeze(t *testing.T) {
	table := NewRouteTable()
	require.NoError(t, table.Register("/forecast", http.MethodGet, ver("1"), named("v1")))

	table.Freeze()
	table.Freeze()

	err := table.Register("/status", http.MethodGet, nil, named("status"))
	assert.True(t, apperror.IsCode(err, apperror.CodeConfiguration))
	assert.True(t, table.Frozen())
	assert.Equal(t, 1, table.Len())
}

func TestRouteTable_MustRegister_Panics(t *testing.T) {
	table := NewRouteTable()
	table.MustRegister("/forecast", http.MethodGet, nil, named("a"))

	assert.Panics(t, func() {
		table.MustRegister("/forecast", http.MethodGet, nil, named("b"))
	})
}

func TestRouteTable_RegisterCopiesVersion(t *testing.T) {
	table := NewRouteTable()
	v := ver("1")
	require.NoError(t, table.Register("/forecast", http.MethodGet, v, named("v1")))

	v.Major = 2

	entry, _, ok := table.Match(http.MethodGet, "/forecast", domain.MustParseVersion("1"))
	require.True(t, ok)
	assert.Equal(t, "1", entry.VersionString())
}

func TestRouteTable_Match(t *testing.T) {
	table := NewRouteTable()
	table.MustRegister("/weatherforecast", http.MethodGet, ver("1"), named("v1"))
	table.MustRegister("/weatherforecast", http.MethodGet, ver("2"), named("v2"))
	table.MustRegister("/weatherforecast/{city}", http.MethodGet, ver("2"), named("city"))
	table.MustRegister("/weatherforecast/today", http.MethodGet, ver("2"), named("today"))
	table.MustRegister("/status", http.MethodGet, nil, named("status"))
	table.MustRegister("/", http.MethodGet, nil, named("root"))
	table.MustRegister("/weatherforecast/today", http.MethodHead, nil, named("today head"))
	table.Freeze()

	tests := []struct {
		name    string
		method  string
		path    string
		version string
		want    string
		params  gin.Params
		found   bool
	}{
		{"exact v1", http.MethodGet, "/weatherforecast", "1", "v1", nil, true},
		{"exact v2", http.MethodGet, "/weatherforecast", "2", "v2", nil, true},
		{"case-insensitive literal", http.MethodGet, "/WeatherForecast", "2", "v2", nil, true},
		{"lower-case method", "get", "/weatherforecast", "1", "v1", nil, true},
		{"parameter", http.MethodGet, "/weatherforecast/London", "2", "city", gin.Params{{Key: "city", Value: "London"}}, true},
		{"literal beats parameter", http.MethodGet, "/weatherforecast/today", "2", "today", nil, true},
		{"versioned entry is exclusive", http.MethodGet, "/weatherforecast/London", "1", "", nil, false},
		{"unversioned fallback v1", http.MethodGet, "/status", "1", "status", nil, true},
		{"unversioned fallback v2", http.MethodGet, "/status/", "2", "status", nil, true},
		{"root", http.MethodGet, "/", "1", "root", nil, true},
		{"method mismatch", http.MethodPost, "/status", "1", "", nil, false},
		{"too many segments", http.MethodGet, "/weatherforecast/London/extra", "2", "", nil, false},
		{"head served by get", http.MethodHead, "/weatherforecast", "1", "v1", nil, true},
		{"head served by unversioned get", http.MethodHead, "/status", "2", "status", nil, true},
		{"head entry beats get", http.MethodHead, "/weatherforecast/today", "2", "today head", nil, true},
		{"head without get", http.MethodHead, "/weatherforecast/London", "1", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, params, ok := table.Match(tt.method, tt.path, domain.MustParseVersion(tt.version))

			require.Equal(t, tt.found, ok)
			if !tt.found {
				assert.Nil(t, entry)
				return
			}
			assert.Equal(t, tt.params, params)
			assert.Equal(t, tt.want, runEntry(t, entry))
		})
	}
}

func TestRouteTable_Match_InsertionOrderBreaksTies(t *testing.T) {
	table := NewRouteTable()
	table.MustRegister("/{a}/items", http.MethodGet, nil, named("first"))
	table.MustRegister("/shops/{b}", http.MethodGet, nil, named("second"))

	entry, _, ok := table.Match(http.MethodGet, "/shops/items", domain.MustParseVersion("1"))

	require.True(t, ok)
	assert.Equal(t, "first", runEntry(t, entry))
}

func TestRouteTable_VisibleTo(t *testing.T) {
	table := NewRouteTable()
	table.MustRegister("/forecast", http.MethodGet, ver("1"), named("v1"))
	table.MustRegister("/forecast", http.MethodGet, ver("2"), named("v2"))
	table.MustRegister("/health", http.MethodGet, nil, named("health"))
	table.MustRegister("/forecast", http.MethodGet, nil, named("any"))

	assert.Equal(t, []string{"v1", "health", "any"}, runAll(t, table.VisibleTo(domain.MustParseVersion("1"))))
	assert.Equal(t, []string{"v2", "health", "any"}, runAll(t, table.VisibleTo(domain.MustParseVersion("2"))))
	assert.Equal(t, []string{"health", "any"}, runAll(t, table.VisibleTo(domain.MustParseVersion("3"))))
}

func TestRouteEntry_Shadows(t *testing.T) {
	table := NewRouteTable()
	table.MustRegister("/forecast/{city}", http.MethodGet, ver("1"), named("v1"))
	table.MustRegister("/forecast/{town}", http.MethodGet, nil, named("any"))
	table.MustRegister("/forecast/{town}", http.MethodPost, nil, named("post"))
	table.MustRegister("/status", http.MethodGet, nil, named("status"))
	e := table.Entries()

	assert.True(t, e[0].Shadows(e[1]))
	assert.False(t, e[1].Shadows(e[0]))
	assert.False(t, e[0].Shadows(e[2]))
	assert.False(t, e[0].Shadows(e[3]))
	assert.False(t, e[1].Shadows(e[1]))
}

func TestRouteEntry_ParamNames(t *testing.T) {
	table := NewRouteTable()
	table.MustRegister("/cities/{country}/{city}/forecast", http.MethodGet, nil, named("x"))

	assert.Equal(t, []string{"country", "city"}, table.Entries()[0].ParamNames())
}

func runEntry(t *testing.T, entry *RouteEntry) string {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	entry.Handler(c)
	return w.Body.String()
}

func runAll(t *testing.T, entries []*RouteEntry) []string {
	t.Helper()

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, runEntry(t, e))
	}
	return names
}
