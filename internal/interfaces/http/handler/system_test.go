package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping() error {
	return f.err
}

func newSystemRouter(db Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewSystemHandler(db, "1.2.3").RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func TestSystemHandler_Health(t *testing.T) {
	router := newSystemRouter(&fakePinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, "1.2.3", data["version"])
}

func TestSystemHandler_Ready(t *testing.T) {
	router := newSystemRouter(&fakePinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSystemHandler_Ready_DatabaseDown(t *testing.T) {
	router := newSystemRouter(&fakePinger{err: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ERR_NOT_READY", resp.Error.Code)
}
