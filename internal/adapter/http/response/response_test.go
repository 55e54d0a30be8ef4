package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewhigh08/weather-api/internal/pkg/apperror"
)

func perform(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/test", handler)

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeAPIResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSuccess(t *testing.T) {
	w := perform(func(c *gin.Context) {
		Success(c, map[string]string{"status": "ok"})
	})

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeAPIResponse(t, w)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
	assert.Nil(t, resp.Meta)
}

func TestSuccessWithMeta(t *testing.T) {
	w := perform(func(c *gin.Context) {
		SuccessWithMeta(c, []string{"a"}, &Meta{APIVersion: "1", Deprecated: true})
	})

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeAPIResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, "1", resp.Meta.APIVersion)
	assert.True(t, resp.Meta.Deprecated)
}

func TestError_AppError(t *testing.T) {
	w := perform(func(c *gin.Context) {
		Error(c, apperror.RouteNotFound(http.MethodGet, "/weatherforecast/London", "1"))
	})

	assert.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeAPIResponse(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, apperror.CodeRouteNotFound, resp.Error.Code)
	assert.Equal(t, "1", resp.Error.Details["version"])
}

func TestError_RegularError(t *testing.T) {
	w := perform(func(c *gin.Context) {
		Error(c, errors.New("something went wrong"))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	resp := decodeAPIResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, apperror.CodeInternal, resp.Error.Code)
}

func TestError_VersionErrorsUseFixedShape(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{
			name: "unsupported",
			err:  apperror.UnsupportedVersion("3", []string{"1", "2"}),
			msg:  "the API version '3' is not supported",
		},
		{
			name: "malformed",
			err:  apperror.MalformedVersion("abc", []string{"1", "2"}),
			msg:  "the API version 'abc' is malformed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(func(c *gin.Context) {
				Error(c, tt.err)
			})

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var raw map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
			assert.Len(t, raw, 2)
			assert.Equal(t, tt.msg, raw["error"])
			assert.Equal(t, []interface{}{"1", "2"}, raw["availableVersions"])
		})
	}
}

func TestVersionError_EmptyListIsArray(t *testing.T) {
	w := perform(func(c *gin.Context) {
		VersionError(c, apperror.MalformedVersion("x", nil))
	})

	assert.JSONEq(t, `{"error":"the API version 'x' is malformed","availableVersions":[]}`, w.Body.String())
}

func TestErrorWithStatus(t *testing.T) {
	w := perform(func(c *gin.Context) {
		ErrorWithStatus(c, http.StatusTeapot, "CUSTOM_ERROR", "I'm a teapot", map[string]interface{}{
			"hint": "try coffee",
		})
	})

	assert.Equal(t, http.StatusTeapot, w.Code)

	resp := decodeAPIResponse(t, w)
	assert.Equal(t, "CUSTOM_ERROR", resp.Error.Code)
	assert.Equal(t, "try coffee", resp.Error.Details["hint"])
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		name    string
		handler gin.HandlerFunc
		status  int
		code    string
	}{
		{"bad request", func(c *gin.Context) { BadRequest(c, "bad") }, http.StatusBadRequest, apperror.CodeBadRequest},
		{"not found", func(c *gin.Context) { NotFound(c, "documentation group", "v9") }, http.StatusNotFound, apperror.CodeNotFound},
		{"internal", func(c *gin.Context) { InternalError(c, "boom") }, http.StatusInternalServerError, apperror.CodeInternal},
		{"validation", func(c *gin.Context) {
			ValidationError(c, "validation failed", map[string]interface{}{"days": "Must be at most 14"})
		}, http.StatusBadRequest, apperror.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(tt.handler)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeAPIResponse(t, w).Error.Code)
		})
	}
}

func TestTooManyRequests(t *testing.T) {
	w := perform(func(c *gin.Context) {
		TooManyRequests(c, "rate limit exceeded", 60)
	})

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	resp := decodeAPIResponse(t, w)
	assert.Equal(t, apperror.CodeTooManyRequests, resp.Error.Code)
}
