package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"assetverse/internal/auth"
)

func newTestServer() *echo.Echo {
	e := echo.New()
	Register(e, Options{JWTService: auth.NewJWTService("test-secret", time.Hour)}, Handlers{})
	return e
}

func TestRegister_Routing(t *testing.T) {
	e := newTestServer()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/healthz", http.StatusOK},
		{"unknown path", http.MethodGet, "/nope", http.StatusNotFound},
		{"unknown nested path", http.MethodGet, "/assets/export/extra", http.StatusNotFound},
		{"secured route without token", http.MethodGet, "/me", http.StatusUnauthorized},
		{"hr route without token", http.MethodGet, "/employees", http.StatusUnauthorized},
		{"upload without token", http.MethodPost, "/uploads", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRegister_UploadBodyLimit(t *testing.T) {
	e := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/uploads", nil)
	req.ContentLength = 7 << 20
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
