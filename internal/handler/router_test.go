package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-ing/pricehawk/pkg/middleware"
)

func newTestRouter() http.Handler {
	monitorHandler, _ := newTestMonitorHandler(0)

	router := NewRouter(
		&ProductHandler{},
		monitorHandler,
		&RunHandler{},
		&HealthHandler{},
		middleware.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET, POST, PUT, DELETE, OPTIONS",
			AllowedHeaders: "*",
		},
	)

	return router.Handler()
}

func TestRouterMonitorStatus(t *testing.T) {
	handler := newTestRouter()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/monitor/status", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterRejectsWrongMethod(t *testing.T) {
	handler := newTestRouter()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/monitor/check", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/runs", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouterCORSPreflight(t *testing.T) {
	handler := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/monitor/status", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterUnknownPath(t *testing.T) {
	handler := newTestRouter()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v2/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
