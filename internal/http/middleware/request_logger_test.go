package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShujaShah/starte/domain"
	"github.com/ShujaShah/starte/internal/logging"
	"github.com/ShujaShah/starte/internal/metrics"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	m := metrics.New()

	var seen *domain.ClientContext
	router := gin.New()
	router.Use(RequestLogger(logging.New(&logs, "production", "info"), m))
	router.GET("/users/:id", func(c *gin.Context) {
		seen = domain.ClientContextFrom(c.Request.Context())
		c.Status(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodGet, "/users/42", nil)
	req.Header.Set("User-Agent", "curl/8.0")
	req.RemoteAddr = "10.1.2.3:5555"
	router.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, seen)
	assert.Equal(t, "10.1.2.3", seen.IPAddress)
	assert.Equal(t, "curl/8.0", seen.UserAgent)
	assert.Contains(t, logs.String(), `"route":"/users/:id"`)
	assert.Contains(t, logs.String(), `"status":201`)
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestRequestLogger_UnmatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	router := gin.New()
	router.Use(RequestLogger(logging.New(&logs, "production", "info"), metrics.New()))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Contains(t, logs.String(), `"route":"unmatched"`)
	assert.Contains(t, logs.String(), `"status":404`)
}
