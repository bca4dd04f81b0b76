package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetverse/internal/auth"
	apperrors "assetverse/internal/errors"
	"assetverse/internal/model"
)

type memoryTokenStore struct {
	revoked map[string]bool
}

func (s *memoryTokenStore) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	s.revoked[tokenID] = true
	return nil
}

func (s *memoryTokenStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return s.revoked[tokenID], nil
}

func newTestServer(t *testing.T) (*echo.Echo, *auth.JWTService, *memoryTokenStore) {
	t.Helper()
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	store := &memoryTokenStore{revoked: map[string]bool{}}

	e := echo.New()
	whoami := func(c echo.Context) error {
		p, ok := CurrentPrincipal(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, map[string]string{"email": p.Email, "role": string(p.Role)})
	}
	e.GET("/me", whoami, Authenticate(jwtService, store))
	e.GET("/hr", whoami, Authenticate(jwtService, store), RequireRole(model.RoleHR))
	e.GET("/ws", whoami, AuthenticateQuery(jwtService, store))
	return e, jwtService, store
}

func tokenFor(t *testing.T, s *auth.JWTService, role model.Role) string {
	t.Helper()
	token, err := s.GenerateToken(&model.User{ID: uuid.New(), Email: "someone@acme.io", Role: role})
	require.NoError(t, err)
	return token
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestAuthenticate(t *testing.T) {
	e, jwtService, _ := newTestServer(t)
	hrToken := tokenFor(t, jwtService, model.RoleHR)
	empToken := tokenFor(t, jwtService, model.RoleEmployee)
	foreign := tokenFor(t, auth.NewJWTService("other-secret", time.Hour), model.RoleHR)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"no token", "/me", "", http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"garbage token", "/me", "Bearer not-a-jwt", http.StatusForbidden, "FORBIDDEN"},
		{"wrong secret", "/me", "Bearer " + foreign, http.StatusForbidden, "FORBIDDEN"},
		{"valid token", "/me", "Bearer " + empToken, http.StatusOK, ""},
		{"role gate passes", "/hr", "Bearer " + hrToken, http.StatusOK, ""},
		{"role gate rejects", "/hr", "Bearer " + empToken, http.StatusForbidden, "FORBIDDEN"},
		{"role gate without token", "/hr", "", http.StatusUnauthorized, "UNAUTHENTICATED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, rec))
			}
		})
	}
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	e, jwtService, store := newTestServer(t)
	token := tokenFor(t, jwtService, model.RoleEmployee)
	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	require.NoError(t, store.Revoke(context.Background(), claims.ID, time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthenticateQuery(t *testing.T) {
	e, jwtService, _ := newTestServer(t)
	token := tokenFor(t, jwtService, model.RoleEmployee)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "someone@acme.io")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
