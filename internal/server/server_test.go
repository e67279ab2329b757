package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"plantstore/internal/handler"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type pingRouter struct{}

func (pingRouter) RegisterRoutes(api *echo.Group, _ handler.Gate) {
	api.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
}

func TestNew_Healthz(t *testing.T) {
	e := New(Options{FEURL: "http://localhost:5173"})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"status":"ok"}`, rec.Body.String())
}

func TestNew_HealthzUnhealthy(t *testing.T) {
	e := New(Options{
		FEURL:  "http://localhost:5173",
		Health: func(context.Context) error { return errors.New("db down") },
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNew_MountsUnderAPIPrefix(t *testing.T) {
	e := New(Options{FEURL: "http://localhost:5173"}, pingRouter{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// 別オリジンのフロントからcookie付きで呼べる
func TestNew_CORSAllowsFrontendWithCredentials(t *testing.T) {
	e := New(Options{FEURL: "http://localhost:5173"}, pingRouter{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/ping", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:5173")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
}
