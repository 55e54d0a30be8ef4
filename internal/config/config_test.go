package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewhigh08/weather-api/internal/domain"
	"github.com/andrewhigh08/weather-api/internal/pkg/apperror"
)

// missingEnvFile returns a path that does not exist, so only the environment is read.
func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/api", cfg.Versioning.PathPrefix)
	assert.Equal(t, []string{"1", "2"}, cfg.Versioning.Supported)
	assert.Equal(t, []string{"1"}, cfg.Versioning.Deprecated)
	assert.Equal(t, "1", cfg.Versioning.Default)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 5, cfg.CircuitBreaker.MaxFailures)
	assert.Equal(t, "weather-api", cfg.Telemetry.ServiceName)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile_Environment(t *testing.T) {
	t.Setenv("API_PATH_PREFIX", "/weather")
	t.Setenv("API_SUPPORTED_VERSIONS", " 1, 1.5 ,2, ")
	t.Setenv("API_DEPRECATED_VERSIONS", " ")
	t.Setenv("API_DEFAULT_VERSION", "2")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := LoadFile(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "/weather", cfg.Versioning.PathPrefix)
	assert.Equal(t, []string{"1", "1.5", "2"}, cfg.Versioning.Supported)
	assert.Empty(t, cfg.Versioning.Deprecated)
	assert.True(t, cfg.Redis.Enabled)
	assert.InDelta(t, 2.5, cfg.RateLimit.RequestsPerSecond, 0.001)

	set, err := cfg.Versioning.VersionSet()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "1.5", "2"}, set.SupportedStrings())
	assert.Equal(t, domain.NewVersion(2, 0), set.Default())
	assert.Empty(t, set.Deprecated())
}

func TestLoadFile_EnvFile(t *testing.T) {
	// cleanenv exports the file's values; t.Setenv restores them afterwards.
	t.Setenv("SERVER_PORT", "")
	t.Setenv("LOG_FORMAT", "")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=9090\nLOG_FORMAT=text\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"malformed supported version", "API_SUPPORTED_VERSIONS", "1,two"},
		{"no supported versions", "API_SUPPORTED_VERSIONS", " , "},
		{"malformed default", "API_DEFAULT_VERSION", "v1"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"zero burst", "RATE_LIMIT_BURST", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := LoadFile(missingEnvFile(t))

			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, apperror.CodeConfiguration))
		})
	}
}

func TestVersioningConfig_VersionSet(t *testing.T) {
	tests := []struct {
		name    string
		cfg     VersioningConfig
		wantErr bool
	}{
		{"valid", VersioningConfig{Supported: []string{"1", "2"}, Deprecated: []string{"1"}, Default: "1"}, false},
		{"blank entries ignored", VersioningConfig{Supported: []string{"", " 2 "}, Default: "2"}, false},
		{"default not supported", VersioningConfig{Supported: []string{"1"}, Default: "2"}, true},
		{"empty supported", VersioningConfig{Default: "1"}, true},
		{"bad deprecated", VersioningConfig{Supported: []string{"1"}, Deprecated: []string{"x"}, Default: "1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := tt.cfg.VersionSet()

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.IsCode(err, apperror.CodeConfiguration))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, set.Supported())
		})
	}
}

func TestGetDescription(t *testing.T) {
	desc, err := GetDescription()
	require.NoError(t, err)

	assert.Contains(t, desc, "API_SUPPORTED_VERSIONS")
	assert.Contains(t, desc, "REDIS_ENABLED")
}
