package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

type contextKey string

const (
	ContextKeyUser contextKey = "user"
)

// Claims é o conteúdo do bearer token emitido pelo provedor de identidade do painel
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

var publicPaths = map[string]bool{
	"/healthcheck": true,
}

// anonymousAdmin é usado quando a autenticação está desligada (segredo vazio)
var anonymousAdmin = &Claims{
	Role:             RoleAdmin,
	RegisteredClaims: jwt.RegisteredClaims{Subject: "anonymous"},
}

// AuthMiddleware valida o bearer token HS256. Com segredo vazio toda requisição
// segue como administrador anônimo.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	if secret == "" {
		log.L.Warn("AUTH_SECRET vazio: autenticação desligada")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			if secret == "" {
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ContextKeyUser, anonymousAdmin)))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Header Authorization é obrigatório", nil)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Bearer token é obrigatório", nil)
				return
			}

			claims, err := ValidateToken(tokenString, secret)
			if err != nil {
				code := apiErrors.ErrInvalidToken
				if errors.Is(err, jwt.ErrTokenExpired) {
					code = apiErrors.ErrExpiredToken
				}
				log.ForContext(r.Context()).WithError(err).Warn("Token rejeitado")
				apiErrors.WriteError(w, code, "Token inválido", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ValidateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("token inválido")
	}
	return claims, nil
}

// ClaimsFromContext devolve as claims gravadas pelo AuthMiddleware
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ContextKeyUser).(*Claims)
	return claims, ok
}
