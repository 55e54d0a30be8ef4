package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name: "without wrapped error",
			err: &AppError{
				Code:    CodeRouteNotFound,
				Message: "no route for GET /forecast",
			},
			expected: "ROUTE_NOT_FOUND: no route for GET /forecast",
		},
		{
			name: "with wrapped error",
			err: &AppError{
				Code:    CodeMalformedVersion,
				Message: "the API version 'x' is malformed",
				Err:     errors.New("invalid api version"),
			},
			expected: "MALFORMED_VERSION: the API version 'x' is malformed: invalid api version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("original error")
	appErr := Internal("wrapped", wrappedErr)

	assert.Equal(t, wrappedErr, appErr.Unwrap())
	assert.True(t, errors.Is(appErr, wrappedErr))
}

func TestAppError_WithDetailsAndError(t *testing.T) {
	appErr := BadRequest("bad")
	details := map[string]interface{}{"field": "days"}
	cause := errors.New("cause")

	assert.Same(t, appErr, appErr.WithDetails(details))
	assert.Same(t, appErr, appErr.WithError(cause))
	assert.Equal(t, details, appErr.Details)
	assert.Equal(t, cause, appErr.Err)
}

func TestConfiguration(t *testing.T) {
	appErr := Configuration("default version %s is not supported", "3")

	assert.Equal(t, CodeConfiguration, appErr.Code)
	assert.Equal(t, "default version 3 is not supported", appErr.Message)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
}

func TestVersionErrors(t *testing.T) {
	available := []string{"1", "2"}

	tests := []struct {
		name     string
		err      *AppError
		code     string
		contains string
	}{
		{
			name:     "malformed",
			err:      MalformedVersion("abc", available),
			code:     CodeMalformedVersion,
			contains: "'abc' is malformed",
		},
		{
			name:     "unsupported",
			err:      UnsupportedVersion("3", available),
			code:     CodeUnsupportedVersion,
			contains: "'3' is not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, http.StatusBadRequest, tt.err.HTTPStatus)
			assert.Contains(t, tt.err.Message, tt.contains)
			assert.Equal(t, available, tt.err.AvailableVersions())
		})
	}
}

func TestAvailableVersions_Missing(t *testing.T) {
	assert.Equal(t, []string{}, BadRequest("x").AvailableVersions())
}

func TestRouteNotFound(t *testing.T) {
	appErr := RouteNotFound(http.MethodGet, "/weatherforecast", "2")

	assert.Equal(t, CodeRouteNotFound, appErr.Code)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
	assert.Equal(t, "2", appErr.Details["version"])
	assert.Equal(t, "/weatherforecast", appErr.Details["path"])
}

func TestNotFound(t *testing.T) {
	appErr := NotFound("documentation group", "v9")

	assert.Equal(t, CodeNotFound, appErr.Code)
	assert.Equal(t, "documentation group not found", appErr.Message)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
	assert.Equal(t, "v9", appErr.Details["id"])
}

func TestValidationError(t *testing.T) {
	details := map[string]interface{}{"days": "Must be at most 14"}
	appErr := ValidationError("validation failed", details)

	assert.Equal(t, CodeValidation, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	assert.Equal(t, details, appErr.Details)
}

func TestTooManyRequests(t *testing.T) {
	appErr := TooManyRequests("rate limit exceeded", 60)

	assert.Equal(t, CodeTooManyRequests, appErr.Code)
	assert.Equal(t, http.StatusTooManyRequests, appErr.HTTPStatus)
	assert.Equal(t, 60, appErr.Details["retry_after_seconds"])
}

func TestServiceUnavailable(t *testing.T) {
	appErr := ServiceUnavailable("redis is down")

	assert.Equal(t, CodeServiceUnavailable, appErr.Code)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.HTTPStatus)
}

func TestIsCode(t *testing.T) {
	wrapped := fmt.Errorf("resolve: %w", UnsupportedVersion("3", nil))

	assert.True(t, IsCode(wrapped, CodeUnsupportedVersion))
	assert.False(t, IsCode(wrapped, CodeMalformedVersion))
	assert.False(t, IsCode(errors.New("plain"), CodeInternal))
	assert.False(t, IsCode(nil, CodeInternal))
}

func TestAsAppError(t *testing.T) {
	t.Run("wrapped AppError", func(t *testing.T) {
		original := RouteNotFound("GET", "/x", "1")
		result, ok := AsAppError(fmt.Errorf("wrapped: %w", original))

		require.True(t, ok)
		assert.Equal(t, original, result)
	})

	t.Run("not AppError", func(t *testing.T) {
		result, ok := AsAppError(errors.New("regular error"))

		assert.False(t, ok)
		assert.Nil(t, result)
	})
}

func TestFromError(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, FromError(nil))
	})

	t.Run("already AppError", func(t *testing.T) {
		original := MalformedVersion("x", nil)
		assert.Equal(t, original, FromError(original))
	})

	t.Run("regular error", func(t *testing.T) {
		regularErr := errors.New("something went wrong")
		result := FromError(regularErr)

		assert.Equal(t, CodeInternal, result.Code)
		assert.Equal(t, "an unexpected error occurred", result.Message)
		assert.Equal(t, regularErr, result.Err)
	})
}
