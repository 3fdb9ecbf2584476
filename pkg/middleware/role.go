package middleware

import (
	"net/http"

	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// RoleMiddleware restringe a rota aos papéis informados
func RoleMiddleware(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				log.ForContext(r.Context()).Warn("Tentativa de acesso sem autenticação")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
				return
			}

			for _, role := range allowedRoles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.ForContext(r.Context()).Warnf("Acesso negado para %s (papel %q)", claims.Subject, claims.Role)
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem permissão para acessar este recurso", nil)
		})
	}
}

// AdminOnly libera ingestão, remoção de períodos, cache e cron
func AdminOnly() func(http.Handler) http.Handler {
	return RoleMiddleware(RoleAdmin)
}

// AllRoles libera as consultas do painel
func AllRoles() func(http.Handler) http.Handler {
	return RoleMiddleware(RoleAdmin, RoleViewer)
}
