package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"rjokes/logger"

	"github.com/gin-gonic/gin"
	logging "github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIndexEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewIndexController(engine.Group("/"))
	return engine
}

func TestLogsRouteServesBufferInDebugMode(t *testing.T) {
	t.Setenv("JOKES_DEBUG", "true")
	t.Setenv("JOKES_LOG_FOLDER", t.TempDir())
	logger.InitLogger(logging.DEBUG)
	logger.Info("checkpoint scheduler started")

	engine := newIndexEngine(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/logs?count=20&level=DEBUG", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "checkpoint scheduler started")
}

func TestLogsRouteAbsentOutsideDebugMode(t *testing.T) {
	t.Setenv("JOKES_DEBUG", "false")

	engine := newIndexEngine(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/logs", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
