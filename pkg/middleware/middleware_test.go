package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "segredo-de-teste"

func signToken(t *testing.T, role string, expiresIn time.Duration) string {
	t.Helper()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ana",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthAndRoleMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		path       string
		header     string
		wantStatus int
	}{
		{
			name:       "Healthcheck é público",
			secret:     testSecret,
			path:       "/healthcheck",
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "Sem header Authorization",
			secret:     testSecret,
			path:       "/v1/periods",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Token sem prefixo Bearer",
			secret:     testSecret,
			path:       "/v1/periods",
			header:     "abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Token expirado",
			secret:     testSecret,
			path:       "/v1/periods",
			header:     "Bearer " + signToken(t, RoleAdmin, -time.Hour),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Papel sem permissão",
			secret:     testSecret,
			path:       "/v1/periods",
			header:     "Bearer " + signToken(t, RoleViewer, time.Hour),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "Administrador com token válido",
			secret:     testSecret,
			path:       "/v1/periods",
			header:     "Bearer " + signToken(t, RoleAdmin, time.Hour),
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "Autenticação desligada",
			secret:     "",
			path:       "/v1/periods",
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AuthMiddleware(tt.secret)(AdminOnly()(okHandler()))

			req := httptest.NewRequest(http.MethodDelete, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCors(t *testing.T) {
	handler := Cors([]string{"http://localhost:3000"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/v1/periods", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/v1/periods", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLogPanicMiddleware(t *testing.T) {
	handler := LoggingMiddleware()(LogPanicMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/periods", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
